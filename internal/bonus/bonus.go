package bonus

import "strings"

// Entry pairs a marker token with the bonus paid per counted unit when the
// marker appears in a content line.
type Entry struct {
	Marker  string
	PerUnit int
}

// Table is an ordered list of bonus markers. Lookup is first-match-wins in
// slice order, not a sum over every matching marker, so a marker that is a
// prefix of a longer marker must come after it or it will shadow the longer
// one.
type Table []Entry

// Default returns the production marker table. The ordering is load-bearing
// (see Table); edit with care.
func Default() Table {
	return Table{
		{"❤", 5000},
		{"❤️", 5000},
		{"♥", 5000},
		{"⭕", 4000},
		{"⭕️", 4000},
		{"S", 3000},
		{"s", 3000},
		{"🔺", 3000},
		{"B", 1000},
		{"b", 1000},
		{"⭐️6", 9000},
		{"⭐️7", 10000},
		{"⭐️8", 11000},
		{"⭐️9", 12000},
		{"⭐️10", 13000},
		{"⭐6", 9000},
		{"⭐7", 10000},
		{"⭐8", 11000},
		{"⭐9", 12000},
		{"⭐10", 13000},
		{"E", 2000},
		{"e", 2000},
		{"🟢", 0},
	}
}

// PerUnit returns the per-unit bonus for the first marker in table order that
// occurs as a substring of s. Spaces are removed from s before matching so
// markers split by stray whitespace still count.
func (t Table) PerUnit(s string) (int, bool) {
	s = strings.ReplaceAll(s, " ", "")
	for _, e := range t {
		if strings.Contains(s, e.Marker) {
			return e.PerUnit, true
		}
	}
	return 0, false
}
