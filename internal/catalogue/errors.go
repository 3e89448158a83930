package catalogue

import "errors"

var (
	// ErrInvalidArchetype is returned when a catalogue entry fails validation.
	ErrInvalidArchetype = errors.New("invalid archetype")

	// ErrEmptyCatalogue is returned when a catalogue source holds no entries.
	ErrEmptyCatalogue = errors.New("catalogue is empty")
)
