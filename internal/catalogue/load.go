package catalogue

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed appliances.yaml
var defaultCatalogue []byte

// Load parses a catalogue document from r and validates every entry.
//
// The document is either a YAML sequence of archetypes or the JSON array
// served by the catalogue endpoint; YAML is a superset of JSON, so both go
// through the same decoder.
func Load(r io.Reader) (*Index, error) {
	var archetypes []Archetype
	if err := yaml.NewDecoder(r).Decode(&archetypes); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyCatalogue
		}
		return nil, fmt.Errorf("parsing catalogue: %w", err)
	}
	if len(archetypes) == 0 {
		return nil, ErrEmptyCatalogue
	}
	for i, a := range archetypes {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("catalogue entry %d: %w", i, err)
		}
	}
	return New(archetypes), nil
}

// LoadFile reads and parses the catalogue at path.
func LoadFile(path string) (*Index, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("opening catalogue: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the catalogue embedded in the binary.
func Default() *Index {
	idx, err := Load(bytes.NewReader(defaultCatalogue))
	if err != nil {
		panic(fmt.Sprintf("embedded catalogue is invalid: %v", err))
	}
	return idx
}
