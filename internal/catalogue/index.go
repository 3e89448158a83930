package catalogue

import "strings"

// Index is an immutable name-keyed view of the catalogue.
type Index struct {
	items  []Archetype
	byName map[string]int
	byFold map[string]int
}

// New builds an Index from archetypes, preserving their order.
// When two entries share a name the first one wins.
func New(archetypes []Archetype) *Index {
	idx := &Index{
		items:  make([]Archetype, 0, len(archetypes)),
		byName: make(map[string]int, len(archetypes)),
		byFold: make(map[string]int, len(archetypes)),
	}
	for _, a := range archetypes {
		if _, dup := idx.byName[a.Name]; dup {
			continue
		}
		idx.byName[a.Name] = len(idx.items)
		fold := strings.ToLower(a.Name)
		if _, seen := idx.byFold[fold]; !seen {
			idx.byFold[fold] = len(idx.items)
		}
		idx.items = append(idx.items, a)
	}
	return idx
}

// Lookup returns the archetype with the given name. An exact match is
// preferred; otherwise names are compared case-insensitively.
func (idx *Index) Lookup(name string) (Archetype, bool) {
	if idx == nil {
		return Archetype{}, false
	}
	if i, ok := idx.byName[name]; ok {
		return idx.items[i], true
	}
	if i, ok := idx.byFold[strings.ToLower(name)]; ok {
		return idx.items[i], true
	}
	return Archetype{}, false
}

// List returns a copy of every archetype in catalogue order.
func (idx *Index) List() []Archetype {
	if idx == nil {
		return nil
	}
	out := make([]Archetype, len(idx.items))
	copy(out, idx.items)
	return out
}

// Len returns the number of archetypes.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.items)
}

// Categories returns the distinct categories in first-seen order.
func (idx *Index) Categories() []string {
	if idx == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, a := range idx.items {
		if a.Category == "" {
			continue
		}
		if _, ok := seen[a.Category]; ok {
			continue
		}
		seen[a.Category] = struct{}{}
		out = append(out, a.Category)
	}
	return out
}
