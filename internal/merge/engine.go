package merge

import (
	"fmt"
	"html"
	"html/template"
	"slices"
	"strings"

	"github.com/alnah/go-rfcnotes/internal/annotation"
	"github.com/alnah/go-rfcnotes/internal/assets"
	"github.com/alnah/go-rfcnotes/internal/dateutil"
	"github.com/alnah/go-rfcnotes/internal/diag"
)

// DefaultErrataURL formats the permalink of an erratum from its id.
const DefaultErrataURL = "https://www.rfc-editor.org/errata/eid%s"

// OrphanKey is the data-key of the trailing orphan block.
const OrphanKey = "orphans"

const unknownAuthor = "Unknown Author"

// Engine renders annotation blocks. It is read-only after construction and
// safe for concurrent use.
type Engine struct {
	tmpl      *template.Template
	errataURL string
}

// Option configures an Engine.
type Option func(*Engine)

// WithErrataURL overrides the erratum permalink format.
func WithErrataURL(format string) Option {
	return func(e *Engine) {
		e.errataURL = format
	}
}

// NewEngine parses src as the annotation block template.
func NewEngine(src string, opts ...Option) (*Engine, error) {
	tmpl, err := template.New(assets.AnnotationTemplate).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing annotation template: %w", err)
	}
	e := &Engine{tmpl: tmpl, errataURL: DefaultErrataURL}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewDefaultEngine uses the embedded annotation template.
func NewDefaultEngine(opts ...Option) (*Engine, error) {
	src, err := assets.LoadTemplate(assets.AnnotationTemplate)
	if err != nil {
		return nil, err
	}
	return NewEngine(src, opts...)
}

// Input is one document to merge.
type Input struct {
	// Document names the document in diagnostics, e.g. "RFC9000".
	Document string
	Lines    []Line
	// Records are the document's annotations. They are sorted for display
	// and their fragment references resolved; the slice is not modified.
	Records []annotation.Record
}

// Result is the annotated document body.
type Result struct {
	// Body holds the output in order: base document lines and annotation
	// blocks, each block as one element.
	Body []string
	// Blocks is the number of annotation blocks, orphan block included.
	Blocks int
	// Orphans lists the section keys that matched no line.
	Orphans []string
	// LastDate is the latest annotation date, empty when none is dated.
	LastDate string
	// Types lists the built-in annotation types present, in display order.
	Types []string
}

// Class returns the CSS class of the document container.
func (r *Result) Class() string {
	return strings.Join(append([]string{"rfc"}, r.Types...), " ")
}

// docContext is the mutable state of one merge.
type docContext struct {
	anchors  map[string]int
	lastDate string
}

// erratumAnchor returns a unique element id for erratum id within the
// document: "rfc.erratum.ID", then "rfc.erratum.ID.1" and so on.
func (c *docContext) erratumAnchor(id string) string {
	n, seen := c.anchors[id]
	if seen {
		n++
	}
	c.anchors[id] = n
	if n == 0 {
		return "rfc.erratum." + id
	}
	return fmt.Sprintf("rfc.erratum.%s.%d", id, n)
}

type blockView struct {
	Key     string
	Orphan  bool
	Entries []entryView
}

type entryView struct {
	Key      string
	Class    string
	Title    string
	Caption  template.HTML
	Date     string
	Outdated bool
	Notes    template.HTML
}

// Merge interleaves the annotation blocks of in with its lines.
func (e *Engine) Merge(in Input, dc *diag.Collector) (*Result, error) {
	records := ResolveFragments(in.Records, in.Lines)
	annotation.Sort(records)

	// Distinct keys in order of first appearance, and the records under each.
	var pending []string
	byKey := make(map[string][]int)
	for i, r := range records {
		for _, k := range r.Keys() {
			if _, ok := byKey[k]; !ok {
				pending = append(pending, k)
			}
			if !slices.Contains(byKey[k], i) {
				byKey[k] = append(byKey[k], i)
			}
		}
	}

	ctx := &docContext{anchors: make(map[string]int)}
	res := &Result{Body: make([]string, 0, len(in.Lines)+len(pending))}

	emit := func(key string) error {
		block, err := e.render(blockView{Key: key, Entries: e.entries(ctx, records, byKey[key], key)})
		if err != nil {
			return err
		}
		res.Body = append(res.Body, block)
		res.Blocks++
		return nil
	}

	if _, ok := byKey[annotation.KeyGlobal]; ok {
		if err := emit(annotation.KeyGlobal); err != nil {
			return nil, err
		}
		pending = slices.DeleteFunc(pending, func(k string) bool { return k == annotation.KeyGlobal })
	}

	for _, line := range in.Lines {
		if len(pending) > 0 && len(line.IDs) > 0 {
			var matched []string
			for _, k := range pending {
				if line.Has(k) {
					matched = append(matched, k)
				}
			}
			for _, k := range matched {
				if err := emit(k); err != nil {
					return nil, err
				}
			}
			if len(matched) > 0 {
				pending = slices.DeleteFunc(pending, func(k string) bool { return slices.Contains(matched, k) })
			}
		}
		res.Body = append(res.Body, line.HTML)
	}

	if len(pending) > 0 {
		if err := e.emitOrphans(ctx, res, records, byKey, pending); err != nil {
			return nil, err
		}
		reportOrphans(in.Document, records, byKey, pending, dc)
	}

	res.LastDate = ctx.lastDate
	for _, t := range annotation.BuiltinTypes() {
		if slices.ContainsFunc(records, func(r annotation.Record) bool { return r.Type == t }) {
			res.Types = append(res.Types, t)
		}
	}
	return res, nil
}

func (e *Engine) emitOrphans(ctx *docContext, res *Result, records []annotation.Record, byKey map[string][]int, keys []string) error {
	view := blockView{Key: OrphanKey, Orphan: true}
	for _, k := range keys {
		view.Entries = append(view.Entries, e.entries(ctx, records, byKey[k], k)...)
	}
	block, err := e.render(view)
	if err != nil {
		return err
	}
	res.Body = append(res.Body, block)
	res.Blocks++
	res.Orphans = keys
	return nil
}

// reportOrphans emits one warning naming every unmatched key and the files
// referencing it. Rejected errata are expected to point at text that has
// since been corrected and are not reported.
func reportOrphans(doc string, records []annotation.Record, byKey map[string][]int, keys []string, dc *diag.Collector) {
	var parts []string
	for _, k := range keys {
		var paths []string
		for _, i := range byKey[k] {
			r := records[i]
			if r.IsErratum() && r.Rejected() {
				continue
			}
			paths = append(paths, r.Path)
		}
		if len(paths) > 0 {
			parts = append(parts, fmt.Sprintf("'%s' referenced in %s", k, strings.Join(paths, ", ")))
		}
	}
	if len(parts) == 0 {
		return
	}
	dc.Warn(diag.KindUnresolved, "",
		"annotations for %s have %d INVALID document references [%s]: %s. These annotations will appear at the end of the document",
		strings.ToUpper(doc), len(keys), strings.Join(keys, ", "), strings.Join(parts, ", "))
}

func (e *Engine) entries(ctx *docContext, records []annotation.Record, idx []int, key string) []entryView {
	out := make([]entryView, 0, len(idx))
	for _, i := range idx {
		out = append(out, e.entry(ctx, records[i], key))
	}
	return out
}

func (e *Engine) render(view blockView) (string, error) {
	var b strings.Builder
	if err := e.tmpl.Execute(&b, view); err != nil {
		return "", fmt.Errorf("rendering block %s: %w", view.Key, err)
	}
	return b.String(), nil
}

// entry builds the view of one record rendered under key.
func (e *Engine) entry(ctx *docContext, r annotation.Record, key string) entryView {
	ctx.lastDate = dateutil.Latest(ctx.lastDate, r.Date)

	title := r.Submitter
	if title == "" {
		title = unknownAuthor
	}
	author := strings.NewReplacer("'", "", `"`, "").Replace(strings.ToLower(r.Submitter))

	var classes []string
	caption := html.EscapeString(r.Caption)
	switch {
	case r.IsErratum():
		classes = append(classes, "err")
		prefix, suffix := "", ""
		if r.Type != "" {
			prefix = r.Type + " "
			classes = append(classes, strings.ToLower(r.Type))
		}
		if r.StatusCode != "" {
			suffix = " [" + r.StatusCode + "]"
			classes = append(classes, strings.ToLower(strings.ReplaceAll(r.StatusCode, " ", "")))
		}
		if r.Outdated {
			classes = append(classes, "outdated")
		}
		if caption != "" {
			caption += " "
		}
		caption = fmt.Sprintf(`<span id="%s">%s(%sErratum #<a href="%s" target="_blank" title="%s">%s</a>)%s</span>`,
			html.EscapeString(ctx.erratumAnchor(r.ErrataID)),
			caption,
			html.EscapeString(prefix),
			html.EscapeString(fmt.Sprintf(e.errataURL, r.ErrataID)),
			html.EscapeString(fmt.Sprintf("%s (%s)", author, r.Type)),
			html.EscapeString(r.ErrataID),
			html.EscapeString(suffix))
	case annotation.IsBuiltinType(r.Type):
		classes = append(classes, "status", strings.ReplaceAll(r.Type, "_", ""))
	case r.Type != "":
		classes = append(classes, "entry", r.Type)
	default:
		classes = append(classes, "entry")
	}
	if author != "" {
		classes = append(classes, author)
	}

	return entryView{
		Key:      key,
		Class:    strings.Join(classes, " "),
		Title:    title,
		Caption:  template.HTML(caption), // #nosec G203 -- built from escaped parts
		Date:     r.Date,
		Outdated: r.Outdated,
		Notes:    template.HTML(strings.Join(r.Notes, "\n")), // #nosec G203 -- sanitized by the parser
	}
}
