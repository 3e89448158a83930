package catalogue

import "fmt"

// UsageType selects how an appliance consumes energy.
type UsageType string

const (
	// Continuous appliances draw power for a number of hours per day.
	Continuous UsageType = "continuous"

	// PerUse appliances draw a fixed amount of power per use.
	PerUse UsageType = "perUse"
)

// Valid reports whether u is a known usage type.
func (u UsageType) Valid() bool {
	return u == Continuous || u == PerUse
}

// Archetype is a catalogue entry describing a class of appliance.
type Archetype struct {
	Name               string    `json:"name" yaml:"name"`
	Category           string    `json:"category" yaml:"category"`
	UsageType          UsageType `json:"usageType" yaml:"usageType"`
	AverageWatts       float64   `json:"averageWatts,omitempty" yaml:"averageWatts"`
	DefaultHoursPerDay float64   `json:"defaultHoursPerDay,omitempty" yaml:"defaultHoursPerDay"`
	AverageWattsPerUse float64   `json:"averageWattsPerUse,omitempty" yaml:"averageWattsPerUse"`
	DefaultUsesPerDay  float64   `json:"defaultUsesPerDay,omitempty" yaml:"defaultUsesPerDay"`
}

// Validate checks the archetype has a name, a known usage type and
// non-negative ratings.
func (a Archetype) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidArchetype)
	}
	if !a.UsageType.Valid() {
		return fmt.Errorf("%w: %s has unknown usage type %q", ErrInvalidArchetype, a.Name, a.UsageType)
	}
	if a.AverageWatts < 0 || a.AverageWattsPerUse < 0 || a.DefaultHoursPerDay < 0 || a.DefaultUsesPerDay < 0 {
		return fmt.Errorf("%w: %s has negative ratings", ErrInvalidArchetype, a.Name)
	}
	return nil
}
