package household

import "errors"

var (
	// ErrRoomNotFound is returned when a room ID does not exist for the user.
	ErrRoomNotFound = errors.New("room not found")

	// ErrApplianceNotFound is returned when an appliance ID does not exist for the user.
	ErrApplianceNotFound = errors.New("user appliance not found")

	// ErrInvalidName is returned when a room or appliance name is empty or too long.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidRoomType is returned when a room type is outside the vocabulary.
	ErrInvalidRoomType = errors.New("invalid room type")

	// ErrInvalidUsage is returned when the active usage rate is missing or not positive.
	ErrInvalidUsage = errors.New("invalid usage")

	// ErrUsageTypeMismatch is returned when an appliance's usage type differs from its archetype.
	ErrUsageTypeMismatch = errors.New("usage type does not match base appliance configuration")

	// ErrUnknownAppliance is returned when an appliance name is not in the catalogue.
	ErrUnknownAppliance = errors.New("appliance not found in catalogue")
)
