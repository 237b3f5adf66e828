package pcre

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"iter"
	"slices"
)

// NameEntry is one record of the engine's name table.
type NameEntry struct {
	Name  string
	Group int
}

// NameTable maps group names to group numbers. With DupNames one name can
// stand for several groups. Names keep the engine's table order.
type NameTable struct {
	entries []NameEntry
	names   []string
	groups  map[string][]int
}

// decodeNameTable decodes count records of size bytes each. A record is a
// big-endian uint16 group number followed by the NUL-terminated name, padded
// to size.
func decodeNameTable(raw []byte, count, size int) (*NameTable, error) {
	t := &NameTable{groups: make(map[string][]int, count)}
	if count == 0 {
		return t, nil
	}
	switch {
	case count < 0:
		return nil, fmt.Errorf("%w: negative entry count %d", ErrMalformedNameTable, count)
	case size < 3:
		return nil, fmt.Errorf("%w: entry size %d", ErrMalformedNameTable, size)
	case len(raw) < count*size:
		return nil, fmt.Errorf("%w: %d bytes for %d entries of %d", ErrMalformedNameTable, len(raw), count, size)
	}

	t.entries = make([]NameEntry, 0, count)
	for i := range count {
		rec := raw[i*size : (i+1)*size]
		group := int(binary.BigEndian.Uint16(rec))
		name, _, found := bytes.Cut(rec[2:], []byte{0})
		if !found || len(name) == 0 {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrMalformedNameTable, i)
		}
		t.add(string(name), group)
	}
	return t, nil
}

func (t *NameTable) add(name string, group int) {
	t.entries = append(t.entries, NameEntry{Name: name, Group: group})
	if _, ok := t.groups[name]; !ok {
		t.names = append(t.names, name)
	}
	t.groups[name] = append(t.groups[name], group)
}

// Len returns the number of distinct names.
func (t *NameTable) Len() int {
	return len(t.names)
}

// Names returns the distinct names in table order.
func (t *NameTable) Names() []string {
	return slices.Clone(t.names)
}

// Entries returns the raw records in table order.
func (t *NameTable) Entries() []NameEntry {
	return slices.Clone(t.entries)
}

// Groups returns the group numbers carrying name, in table order.
func (t *NameTable) Groups(name string) []int {
	return slices.Clone(t.groups[name])
}

// Group returns the first group number carrying name.
func (t *NameTable) Group(name string) (int, bool) {
	g := t.groups[name]
	if len(g) == 0 {
		return 0, false
	}
	return g[0], true
}

// All iterates the names and their group numbers in table order.
func (t *NameTable) All() iter.Seq2[string, []int] {
	return func(yield func(string, []int) bool) {
		for _, name := range t.names {
			if !yield(name, slices.Clone(t.groups[name])) {
				return
			}
		}
	}
}
