package household

import (
	"fmt"
	"strings"

	"github.com/nerrad567/currently-core/internal/catalogue"
)

const maxNameLength = 100

// ValidateName checks a room or appliance name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

// ValidateRoomType checks t is in the room-type vocabulary.
func ValidateRoomType(t RoomType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRoomType, t)
	}
	return nil
}

// ValidateRoom checks a room before it is created or saved.
func ValidateRoom(r Room) error {
	if err := ValidateName(r.Name); err != nil {
		return err
	}
	if err := ValidateName(r.FloorLabel); err != nil {
		return fmt.Errorf("floor label: %w", err)
	}
	return ValidateRoomType(r.Type)
}

// ValidateUsage checks that the rate selected by the usage type is set and
// positive. Unknown usage types are rejected.
func ValidateUsage(a Appliance) error {
	switch a.UsageType {
	case catalogue.Continuous:
		if a.HoursPerDay == nil || *a.HoursPerDay <= 0 {
			return fmt.Errorf("%w: hoursPerDay must be provided and > 0 for continuous appliances", ErrInvalidUsage)
		}
	case catalogue.PerUse:
		if a.UsesPerDay == nil || *a.UsesPerDay <= 0 {
			return fmt.Errorf("%w: usesPerDay must be provided and > 0 for per-use appliances", ErrInvalidUsage)
		}
	default:
		return fmt.Errorf("%w: unknown usage type %q", ErrInvalidUsage, a.UsageType)
	}
	return nil
}

// ValidateAgainstCatalogue checks that the appliance names a catalogue
// archetype with the same usage type, and that its usage is valid.
// It returns the matched archetype.
func ValidateAgainstCatalogue(a Appliance, idx *catalogue.Index) (catalogue.Archetype, error) {
	base, ok := idx.Lookup(a.ApplianceName)
	if !ok {
		return catalogue.Archetype{}, fmt.Errorf("%w: %s", ErrUnknownAppliance, a.ApplianceName)
	}
	if !strings.EqualFold(string(base.UsageType), string(a.UsageType)) {
		return catalogue.Archetype{}, ErrUsageTypeMismatch
	}
	a.UsageType = base.UsageType
	if err := ValidateUsage(a); err != nil {
		return catalogue.Archetype{}, err
	}
	return base, nil
}
