// Package textdoc renders a plain text document into numbered, anchored
// lines ready for merging.
package textdoc

import (
	"fmt"
	"html"
	"os"
	"regexp"
	"strings"

	"github.com/alnah/go-rfcnotes/internal/merge"
	"github.com/alnah/go-rfcnotes/internal/xref"
)

const formFeed = "\f"

var (
	// "1.  Intro", "1.2.  Terms" and "3.1 Older style"; a bare number
	// without a dot is ordinary text.
	sectionHeading = regexp.MustCompile(`^(\d+(?:\.\d+)+\.?|\d+\.)\s+\S`)

	// "Appendix B.  More", "A.  Extra", "A.1.  Detail".
	appendixHeading = regexp.MustCompile(`^(?:Appendix\s+([A-Z](?:\.\d+)*)\.?|([A-Z](?:\.\d+)*)\.)\s+\S`)
)

// Render splits text into lines. Every text line gets a "line-N" anchor and
// a clickable line number; section and appendix headings starting at
// column 0 also get a "section-X" or "appendix-X" anchor. Lines holding only
// a form feed become a page break attached to the following line, so line
// N is always element N-1 of the result.
func Render(text string) []merge.Line {
	text = strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n")
	raw := strings.Split(strings.TrimRight(text, "\n \t"+formFeed), "\n")

	lines := make([]merge.Line, 0, len(raw))
	pageBreak := false
	for _, l := range raw {
		if strings.Contains(l, formFeed) {
			pageBreak = true
			l = strings.ReplaceAll(l, formFeed, "")
			if strings.TrimSpace(l) == "" {
				continue
			}
		}
		l = strings.TrimRight(l, " \t")
		nr := len(lines) + 1
		id := fmt.Sprintf("line-%d", nr)

		var b strings.Builder
		if pageBreak {
			b.WriteString(`<span class="pagebreak"></span>`)
			pageBreak = false
		}
		fmt.Fprintf(&b, `<a class="line" id="%s" href="#%s">%5d</a> `, id, id, nr)

		ids := []string{id}
		if heading := headingID(l); heading != "" {
			ids = append(ids, heading)
			fmt.Fprintf(&b, `<span class="anchor" id="%s"></span>`, heading)
		}
		b.WriteString(html.EscapeString(l))

		lines = append(lines, merge.Line{IDs: ids, HTML: b.String(), Text: l})
	}
	return lines
}

// headingID returns the anchor of a section or appendix heading line.
func headingID(line string) string {
	if m := sectionHeading.FindStringSubmatch(line); m != nil {
		return xref.Anchor("section", strings.TrimSuffix(m[1], "."))
	}
	if m := appendixHeading.FindStringSubmatch(line); m != nil {
		return xref.Anchor("appendix", m[1]+m[2])
	}
	return ""
}

// Load reads and renders the text document at path.
func Load(path string) ([]merge.Line, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path from configuration
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return Render(string(data)), nil
}
