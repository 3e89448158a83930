package house

import (
	"errors"
	"fmt"
)

// ErrInvariantViolation matches every rejection by the layout guard.
var ErrInvariantViolation = errors.New("layout invariant violated")

var (
	// ErrMaxFloors is returned when adding a floor would exceed MaxFloors.
	ErrMaxFloors = fmt.Errorf("maximum of %d floors reached", MaxFloors)

	// ErrDefaultFloor is returned when deleting the default floor.
	ErrDefaultFloor = errors.New("the default floor cannot be deleted")

	// ErrLastFloor is returned when deleting the only floor.
	ErrLastFloor = errors.New("cannot delete the only floor")

	// ErrFloorHasRooms is returned when deleting a floor that still has rooms.
	ErrFloorHasRooms = errors.New("floor has rooms: remove rooms first")

	// ErrFloorNotFound is returned when a floor ID does not exist.
	ErrFloorNotFound = errors.New("floor not found")

	// ErrRoomNotFound is returned when a room is not on the selected floor.
	ErrRoomNotFound = errors.New("room not found on selected floor")

	// ErrNotConfirmed is returned when a destructive action lacks confirmation.
	ErrNotConfirmed = errors.New("deletion not confirmed")

	// ErrInvalidRoomFilter is returned for a room filter that is neither a
	// keyword nor a room id.
	ErrInvalidRoomFilter = errors.New("invalid room filter")
)

// ViolationError describes an operation rejected by the layout guard.
type ViolationError struct {
	Op     string
	Target string
	Err    error
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
}

// Unwrap exposes both ErrInvariantViolation and the specific cause.
func (e *ViolationError) Unwrap() []error {
	return []error{ErrInvariantViolation, e.Err}
}

func violation(op, target string, err error) error {
	return &ViolationError{Op: op, Target: target, Err: err}
}
