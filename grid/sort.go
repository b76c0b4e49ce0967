package grid

import (
	"sort"
	"strings"
	"time"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

type SortKey struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// SortState holds the ordered multi-column sort criteria. A column appears at
// most once; first entry is the primary key.
type SortState struct {
	keys []SortKey
}

func (s *SortState) Keys() []SortKey {
	keys := make([]SortKey, len(s.keys))
	copy(keys, s.keys)
	return keys
}

func (s *SortState) Active() bool {
	return len(s.keys) > 0
}

// Toggle adds the column ascending, or flips its direction in place keeping
// its rank.
func (s *SortState) Toggle(column string) {
	for i, k := range s.keys {
		if k.Column != column {
			continue
		}
		if k.Direction == Ascending {
			s.keys[i].Direction = Descending
		} else {
			s.keys[i].Direction = Ascending
		}
		return
	}
	s.keys = append(s.keys, SortKey{Column: column, Direction: Ascending})
}

// Set replaces the whole specification. Duplicated columns keep the first
// occurrence, so the stored spec is always valid.
func (s *SortState) Set(keys ...SortKey) {
	seen := map[string]bool{}
	s.keys = s.keys[:0]
	for _, k := range keys {
		if seen[k.Column] {
			continue
		}
		if k.Direction != Descending {
			k.Direction = Ascending
		}
		seen[k.Column] = true
		s.keys = append(s.keys, k)
	}
}

func (s *SortState) Remove(column string) {
	keys := s.keys[:0]
	for _, k := range s.keys {
		if k.Column != column {
			keys = append(keys, k)
		}
	}
	s.keys = keys
}

func (s *SortState) Clear() {
	s.keys = nil
}

// SortRows returns a new slice ordered by the given keys. The sort is
// stable: all-key ties preserve original relative order.
func SortRows(rows []Row, keys []SortKey) []Row {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	if len(keys) == 0 {
		return sorted
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		for _, key := range keys {
			c := compareCells(sorted[i].Cell(key.Column), sorted[j].Cell(key.Column), key.Direction)
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
	return sorted
}

// compareCells orders two cell values for one sort key. Nulls compare after
// defined values, so they land last ascending and first descending; the
// direction negation covers the null branches too.
func compareCells(a, b any, dir Direction) int {
	c := compareNullable(a, b)
	if dir == Descending {
		return -c
	}
	return c
}

func compareNullable(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return 1
	}
	if b == nil {
		return -1
	}
	return compareDefined(a, b)
}

func compareDefined(a, b any) int {
	fa, aok := asFloat(a)
	fb, bok := asFloat(b)
	if aok && bok {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}

	ta, aok := a.(time.Time)
	tb, bok := b.(time.Time)
	if aok && bok {
		return ta.Compare(tb)
	}

	sa := CellString(a)
	sb := CellString(b)
	da, aok := parseDate(sa)
	db, bok := parseDate(sb)
	if aok && bok {
		return da.Compare(db)
	}

	return strings.Compare(strings.ToLower(sa), strings.ToLower(sb))
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
