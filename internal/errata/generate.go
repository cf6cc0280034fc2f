package errata

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/alnah/go-rfcnotes/internal/fileutil"
	"github.com/alnah/go-rfcnotes/internal/xref"
)

// noteWidth is the column at which erratum notes are wrapped.
const noteWidth = 72

// GenerateResult lists the files written and skipped by Generate.
type GenerateResult struct {
	Written []string
	Skipped []string
}

// FileName returns the annotation file name for e, e.g. "rfc9000.erratum.42".
func FileName(e Erratum) string {
	return strings.ToLower(e.DocID()) + ".erratum." + e.ID()
}

// Generate writes one annotation file per erratum of docs into dir.
// Existing files are never overwritten: they may carry manual edits.
func Generate(c *Corpus, docs []string, dir string) (GenerateResult, error) {
	var res GenerateResult
	for _, doc := range docs {
		for _, e := range c.ForDocument(doc) {
			path := filepath.Join(dir, FileName(e))
			err := fileutil.WriteNew(path, Annotation(e))
			switch {
			case errors.Is(err, fileutil.ErrFileExists):
				res.Skipped = append(res.Skipped, path)
			case err != nil:
				return res, fmt.Errorf("generating %s: %w", path, err)
			default:
				res.Written = append(res.Written, path)
			}
		}
	}
	return res, nil
}

// Annotation renders e in annotation file format, checksum included.
func Annotation(e Erratum) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#A %s\n", e.Submitter())

	if _, ok := e.fields[FieldSection]; ok {
		section := strings.ToLower(e.Section())
		if section == "" {
			section = "none"
		}
		switch {
		case strings.HasPrefix(section, "line-"):
			fmt.Fprintf(&b, "#L %s\n", strings.TrimPrefix(section, "line-"))
		case strings.HasPrefix(section, "fragment-"):
			fmt.Fprintf(&b, "#F %s\n", strings.TrimPrefix(section, "fragment-"))
		default:
			fmt.Fprintf(&b, "#S %s\n", section)
		}
	}
	if t, ok := e.Field(FieldType); ok {
		fmt.Fprintf(&b, "#T %s\n", t)
	}
	fmt.Fprintf(&b, "#X errata_id:%s\n", e.ID())
	fmt.Fprintf(&b, "#X checksum:%s\n", e.Checksum())
	if s, ok := e.Field(FieldStatus); ok {
		fmt.Fprintf(&b, "#X errata_status_code:%s\n", s)
	}
	b.WriteString("#\n#\n")

	textAdded := false
	if orig, ok := e.Field(FieldOrigText); ok {
		textAdded = true
		fmt.Fprintf(&b, "<div class=\"original\"><pre>\n%s\n</pre></div>\n", breakTags(orig))
	}
	if correct, ok := e.Field(FieldCorrectText); ok {
		if textAdded {
			b.WriteString("#\n#\n")
		}
		textAdded = true
		fmt.Fprintf(&b, "<div class=\"correct\">It should say:<pre>\n%s\n</pre></div>\n", breakTags(correct))
	}
	if notes, ok := e.Field(FieldNotes); ok {
		notes = strings.TrimSpace(notes)
		if trimmed, found := strings.CutSuffix(notes, "from pending"); found {
			notes = strings.TrimRight(trimmed, " \t\r\n")
		}
		if notes != "" {
			if textAdded {
				b.WriteString("#\n#\n<hr/>\n")
			}
			b.WriteString(`<div class="note"><pre>`)
			for _, paragraph := range strings.Split(notes, "\n") {
				for _, line := range wrap(paragraph, noteWidth) {
					b.WriteString("\n")
					b.WriteString(strings.TrimSpace(xref.LinkifyURLs(line, true)))
				}
			}
			b.WriteString("\n</pre></div>\n\n")
		}
	}
	return b.String()
}

// breakTags keeps quoted markup from being read as tags inside <pre>.
func breakTags(s string) string {
	return strings.ReplaceAll(s, "<", "<&shy;")
}

// wrap greedily fills lines of at most width runes. Words longer than width
// are split.
func wrap(paragraph string, width int) []string {
	var lines []string
	var cur strings.Builder
	curLen := 0
	for _, word := range strings.Fields(paragraph) {
		for utf8.RuneCountInString(word) > width {
			if curLen > 0 {
				lines = append(lines, cur.String())
				cur.Reset()
				curLen = 0
			}
			head, tail := splitRunes(word, width)
			lines = append(lines, head)
			word = tail
		}
		n := utf8.RuneCountInString(word)
		if curLen > 0 && curLen+1+n > width {
			lines = append(lines, cur.String())
			cur.Reset()
			curLen = 0
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(word)
		curLen += n
	}
	if curLen > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}
