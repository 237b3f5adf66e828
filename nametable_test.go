package pcre

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeNameTable(t *testing.T) {
	raw := []byte{
		0, 3, 'd', 'a', 'y', 0, 0, 0,
		0, 1, 'n', 0, 0, 0, 0, 0,
		0x01, 0x02, 'n', 0, 0, 0, 0, 0,
		0, 2, 'y', 'e', 'a', 'r', 0, 0,
	}
	table, err := decodeNameTable(raw, 4, 8)
	if err != nil {
		t.Fatal(err)
	}

	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}
	if diff := cmp.Diff([]string{"day", "n", "year"}, table.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 258}, table.Groups("n")); diff != "" {
		t.Errorf("Groups(n) mismatch (-want +got):\n%s", diff)
	}
	wantEntries := []NameEntry{{"day", 3}, {"n", 1}, {"n", 258}, {"year", 2}}
	if diff := cmp.Diff(wantEntries, table.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if g, ok := table.Group("year"); !ok || g != 2 {
		t.Errorf("Group(year) = %d, %v", g, ok)
	}
	if _, ok := table.Group("missing"); ok {
		t.Error("Group(missing) found")
	}
	if table.Groups("missing") != nil {
		t.Error("Groups(missing) not nil")
	}

	got := map[string][]int{}
	for name, groups := range table.All() {
		got[name] = groups
	}
	want := map[string][]int{"day": {3}, "n": {1, 258}, "year": {2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}

	// Returned slices are copies.
	table.Groups("n")[0] = 99
	if g, _ := table.Group("n"); g != 1 {
		t.Error("Groups() exposed internal state")
	}
}

func TestDecodeNameTableExtraBytes(t *testing.T) {
	// Bytes beyond count*size are ignored.
	raw := []byte{0, 1, 'a', 0, 0xff, 0xff}
	table, err := decodeNameTable(raw, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]NameEntry{{"a", 1}}, table.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeNameTableEmpty(t *testing.T) {
	table, err := decodeNameTable(nil, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 0 || len(table.Names()) != 0 {
		t.Errorf("empty table has names %v", table.Names())
	}
}

func TestDecodeNameTableMalformed(t *testing.T) {
	tests := []struct {
		name  string
		raw   []byte
		count int
		size  int
	}{
		{"short buffer", []byte{0, 1, 'a', 0}, 2, 4},
		{"no terminator", []byte{0, 1, 'a', 'b'}, 1, 4},
		{"empty name", []byte{0, 1, 0, 0}, 1, 4},
		{"entry too small", []byte{0, 1}, 1, 2},
		{"negative count", nil, -1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeNameTable(tt.raw, tt.count, tt.size)
			if !errors.Is(err, ErrMalformedNameTable) {
				t.Errorf("error = %v, want ErrMalformedNameTable", err)
			}
		})
	}
}
