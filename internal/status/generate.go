package status

import (
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"strings"

	"github.com/alnah/go-rfcnotes/internal/annotation"
	"github.com/alnah/go-rfcnotes/internal/diag"
	"github.com/alnah/go-rfcnotes/internal/errata"
	"github.com/alnah/go-rfcnotes/internal/fileutil"
	"github.com/alnah/go-rfcnotes/internal/xref"
)

// DefaultErratumURL formats the link of one erratum from its id.
const DefaultErratumURL = "https://www.rfc-editor.org/errata/eid%s"

// Annotation is one generated status annotation.
type Annotation struct {
	Caption string
	Type    string
	// Notes is the HTML body.
	Notes string
}

// FileName returns the annotation file name for doc, e.g. "rfc1234.obsoleted".
func (a Annotation) FileName(doc string) string {
	return strings.ToLower(NormalizeDocID(doc)) + "." + a.Type
}

// Content renders a in annotation file format.
func (a Annotation) Content() string {
	return fmt.Sprintf("#A\n#C %s\n#T %s\n#\n#\n<div>%s</div>\n\n", a.Caption, a.Type, a.Notes)
}

// Builder turns index entries into status annotations.
type Builder struct {
	// Resolver decides between local and registry links.
	Resolver *xref.Resolver
	// Corpus supplies the errata ids listed in has-errata annotations.
	Corpus *errata.Corpus
	// ErratumURL defaults to DefaultErratumURL.
	ErratumURL string
}

func (b *Builder) resolver() *xref.Resolver {
	if b.Resolver == nil {
		return xref.NewResolver(xref.DefaultRegistry(), nil)
	}
	return b.Resolver
}

func anchor(href, text string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(href), html.EscapeString(text))
}

// docLinks renders document references, one per line.
func (b *Builder) docLinks(ids []string) string {
	links := make([]string, len(ids))
	for i, id := range ids {
		nr := strings.TrimPrefix(NormalizeDocID(id), "RFC")
		links[i] = anchor(b.resolver().DocumentURL(nr, ""), "RFC"+nr)
	}
	return strings.Join(links, ", \n")
}

// Annotations returns the status annotations of e: obsoleted, or else
// updated by documents not rendered locally, plus has-errata when the index
// links an errata page.
func (b *Builder) Annotations(e Entry) []Annotation {
	var out []Annotation
	switch {
	case len(e.ObsoletedBy) > 0:
		out = append(out, Annotation{
			Caption: "OBSOLETED",
			Type:    annotation.TypeObsoleted,
			Notes:   "Obsoleted by " + b.docLinks(e.ObsoletedBy),
		})
	default:
		var updates []string
		for _, id := range e.UpdatedBy {
			if !b.resolver().Local(strings.TrimPrefix(NormalizeDocID(id), "RFC")) {
				updates = append(updates, id)
			}
		}
		if len(updates) > 0 {
			out = append(out, Annotation{
				Caption: "UPDATED",
				Type:    annotation.TypeUpdated,
				Notes:   "Updated by " + b.docLinks(updates),
			})
		}
	}

	if e.ErrataURL != "" {
		format := b.ErratumURL
		if format == "" {
			format = DefaultErratumURL
		}
		notes := "Has " + anchor(e.ErrataURL, "errata")
		list := b.Corpus.ForDocument(e.DocID)
		if len(list) == 0 {
			list = b.Corpus.ForDocument(NormalizeDocID(e.DocID))
		}
		for i, er := range list {
			sep := ", \n"
			if i == 0 {
				sep = ": \n"
			}
			notes += sep + anchor(fmt.Sprintf(format, er.ID()), "#"+er.ID())
		}
		out = append(out, Annotation{
			Caption: "HAS ERRATA",
			Type:    annotation.TypeHasErrata,
			Notes:   notes,
		})
	}
	return out
}

// GenerateResult lists the files written and skipped by Generate.
type GenerateResult struct {
	Written []string
	Skipped []string
}

// Generate writes the status annotations of docs into dir. Existing files
// are left untouched. Documents missing from the index are reported and
// skipped.
func (b *Builder) Generate(ix *Index, docs []string, dir string, dc *diag.Collector) (GenerateResult, error) {
	var res GenerateResult
	for _, doc := range docs {
		e, ok := ix.Lookup(doc)
		if !ok {
			dc.Error(diag.KindUnresolved, "", "%s not found in registry index", NormalizeDocID(doc))
			continue
		}
		for _, a := range b.Annotations(e) {
			path := filepath.Join(dir, a.FileName(doc))
			err := fileutil.WriteNew(path, a.Content())
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
