package annotation

import (
	"cmp"
	"slices"
)

// rank orders built-in types first, then other types, then untyped records.
func rank(r Record) (int, string) {
	if r.Type == "" {
		return 2, ""
	}
	if i := slices.Index(builtinTypes, r.Type); i >= 0 {
		return 0, string(rune('0' + i))
	}
	return 1, r.Type
}

// Compare orders records for display. Records of equal rank compare equal
// so that a stable sort keeps file order.
func Compare(a, b Record) int {
	ga, ka := rank(a)
	gb, kb := rank(b)
	if c := cmp.Compare(ga, gb); c != 0 {
		return c
	}
	return cmp.Compare(ka, kb)
}

// Sort orders records in place for display.
func Sort(records []Record) {
	slices.SortStableFunc(records, Compare)
}

// RemoveEclipsed drops generated erratum records when a hand-written record
// for the same erratum exists. The order of the remaining records is kept.
func RemoveEclipsed(records []Record) []Record {
	edited := make(map[string]bool)
	for _, r := range records {
		if r.IsErratum() && !r.Generated() {
			edited[r.ErrataID] = true
		}
	}
	if len(edited) == 0 {
		return records
	}
	return slices.DeleteFunc(records, func(r Record) bool {
		return r.IsErratum() && r.Generated() && edited[r.ErrataID]
	})
}
