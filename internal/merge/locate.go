package merge

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/alnah/go-rfcnotes/internal/annotation"
)

// Line is one line of the rendered base document.
type Line struct {
	// IDs are the anchor ids on the line, e.g. "line-12" or "section-3.1".
	IDs []string
	// HTML is the rendered markup of the line.
	HTML string
	// Text is the plain text of the line, used to locate quoted fragments.
	Text string
}

// Has reports whether the line carries anchor id.
func (l Line) Has(id string) bool {
	return slices.Contains(l.IDs, id)
}

// stripMarkers removes the "|" change markers newer documents carry in
// their margin.
func stripMarkers(s string) string {
	return strings.ReplaceAll(s, "|", "")
}

// LocateFragment returns the 1-based number of the first line containing
// fragment. When no single line contains it, fragments longer than one
// character are searched in each line joined to its predecessor, and the
// predecessor's number is returned. The first match wins even when the
// fragment occurs again further down.
func LocateFragment(fragment string, lines []Line) (int, bool) {
	if fragment == "" {
		return 0, false
	}
	for i, l := range lines {
		if strings.Contains(stripMarkers(l.Text), fragment) {
			return i + 1, true
		}
	}
	if utf8.RuneCountInString(fragment) <= 1 {
		return 0, false
	}
	for i := 1; i < len(lines); i++ {
		joined := strings.TrimRight(stripMarkers(lines[i-1].Text), " \t") +
			" " + strings.TrimSpace(stripMarkers(lines[i].Text))
		if strings.Contains(joined, fragment) {
			return i, true
		}
	}
	return 0, false
}

// ResolveFragments returns copies of records with every fragment reference
// found in lines rewritten to a line reference. Fragments that are not found
// are left as they are and end up in the orphan block.
func ResolveFragments(records []annotation.Record, lines []Line) []annotation.Record {
	out := make([]annotation.Record, len(records))
	for i, r := range records {
		r = r.Clone()
		for j, s := range r.Sections {
			if s.Kind != annotation.SectionFragment {
				continue
			}
			if n, ok := LocateFragment(s.Text, lines); ok {
				r.Sections[j] = annotation.LineRef(n)
			}
		}
		out[i] = r
	}
	return out
}
