package schema

import (
	"fmt"
	"sort"
)

// NameIndex collects provision records under user-assigned names, so
// documents can reference an enactment by a short label. Iteration
// surfaces longer names first, keeping a name from shadowing another
// name it is a substring of.
type NameIndex struct {
	entries map[string]RawProvision
}

// NewNameIndex returns an empty index.
func NewNameIndex() *NameIndex {
	return &NameIndex{entries: make(map[string]RawProvision)}
}

// Insert adds a named record. A record already indexed under the same
// name keeps its fields, but any new anchors are merged in.
func (idx *NameIndex) Insert(raw RawProvision) error {
	if raw.Name == "" {
		return fmt.Errorf("cannot index a provision record with no name")
	}
	name := raw.Name
	existing, ok := idx.entries[name]
	if !ok {
		raw.Name = ""
		idx.entries[name] = raw
		return nil
	}
	for _, anchor := range raw.Anchors {
		if !hasAnchor(existing.Anchors, anchor) {
			existing.Anchors = append(existing.Anchors, anchor)
		}
	}
	idx.entries[name] = existing
	return nil
}

func hasAnchor(anchors []RawAnchor, anchor RawAnchor) bool {
	for _, existing := range anchors {
		if anchorsEqual(existing, anchor) {
			return true
		}
	}
	return false
}

func anchorsEqual(a, b RawAnchor) bool {
	if a.Prefix != b.Prefix || a.Exact != b.Exact || a.Suffix != b.Suffix || a.Start != b.Start {
		return false
	}
	if (a.End == nil) != (b.End == nil) {
		return false
	}
	return a.End == nil || *a.End == *b.End
}

// Get returns the record stored under name, with the name restored as a
// field.
func (idx *NameIndex) Get(name string) (RawProvision, error) {
	raw, ok := idx.entries[name]
	if !ok {
		return RawProvision{}, fmt.Errorf("name %q not found in the provision index", name)
	}
	raw.Name = name
	return raw, nil
}

// Len returns the number of indexed records.
func (idx *NameIndex) Len() int { return len(idx.entries) }

// Names returns the indexed names sorted from longest to shortest, ties
// broken alphabetically.
func (idx *NameIndex) Names() []string {
	names := make([]string, 0, len(idx.entries))
	for name := range idx.entries {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}
