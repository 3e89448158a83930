// Package catalogue provides the read-only appliance archetype catalogue.
//
// An Archetype describes a class of appliance (Fridge, Kettle, Laptop) with
// its typical power draw and usage pattern. User appliances reference an
// archetype by name; the Index resolves that reference.
//
// The catalogue is loaded once at startup, either from the embedded default
// file or from a YAML/JSON file supplied by configuration, and is never
// mutated afterwards.
//
// # Thread Safety
//
// Index is immutable after construction and safe for concurrent use.
package catalogue
