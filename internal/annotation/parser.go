package annotation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-rfcnotes/internal/dateutil"
	"github.com/alnah/go-rfcnotes/internal/diag"
	"github.com/alnah/go-rfcnotes/internal/errata"
	"github.com/alnah/go-rfcnotes/internal/fileutil"
	"github.com/alnah/go-rfcnotes/internal/sanitize"
	"github.com/alnah/go-rfcnotes/internal/xref"
)

// ErrFormat indicates a malformed annotation file. The whole file is skipped.
var ErrFormat = errors.New("invalid annotation file format")

// Separator is the line between two entries of one file.
const Separator = "####################"

// DefaultStableThreshold is the first document number whose line numbers
// may change between renderings.
const DefaultStableThreshold = 8650

// DefaultDocPrefix is the file name prefix before the document number.
const DefaultDocPrefix = "rfc"

const plainTextOpen, plainTextClose = `<p class="plaintext">`, `</p>`

// htmlStart matches the first start-tag-like token of a body line.
var htmlStart = regexp.MustCompile(`<[a-z]*[a-z]+[ />]`)

// MarkdownRenderer converts a Markdown body to an HTML fragment.
type MarkdownRenderer interface {
	Render(ctx context.Context, src string) (string, error)
}

// Config holds the shared, read-only collaborators of a Parser.
type Config struct {
	// Sanitizer filters HTML and Markdown bodies. nil passes them through.
	Sanitizer *sanitize.Sanitizer
	// Resolver rewrites @@...@@ placeholders. nil uses the default registry
	// with no local documents.
	Resolver *xref.Resolver
	// Corpus is the live errata corpus for the outdated check. nil skips it.
	Corpus *errata.Corpus
	// Markdown renders "#X format:markdown" bodies. When nil they are
	// detected like any other body.
	Markdown MarkdownRenderer
	// StableThreshold defaults to DefaultStableThreshold.
	StableThreshold int
	// DocPrefix defaults to DefaultDocPrefix.
	DocPrefix string
}

// Parser turns annotation files into records.
// It is safe for concurrent use; all per-file state lives in Parse.
type Parser struct {
	cfg Config
}

// NewParser returns a Parser, filling in defaults for unset fields.
func NewParser(cfg Config) *Parser {
	if cfg.Resolver == nil {
		cfg.Resolver = xref.NewResolver(xref.DefaultRegistry(), nil)
	}
	if cfg.StableThreshold <= 0 {
		cfg.StableThreshold = DefaultStableThreshold
	}
	if cfg.DocPrefix == "" {
		cfg.DocPrefix = DefaultDocPrefix
	}
	return &Parser{cfg: cfg}
}

// ParseFile reads and parses the annotation file at path.
func (p *Parser) ParseFile(ctx context.Context, path string, dc *diag.Collector) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading annotation file: %w", err)
	}
	return p.Parse(ctx, path, data, dc)
}

// Parse parses the contents of one annotation file. path is recorded on
// each record and used in diagnostics. A final entry without a body makes
// the whole file invalid: no records are returned and the error wraps
// ErrFormat.
func (p *Parser) Parse(ctx context.Context, path string, data []byte, dc *diag.Collector) ([]Record, error) {
	text := strings.ReplaceAll(strings.ReplaceAll(string(data), "\r\n", "\n"), "\r", "\n")

	var records []Record
	e := newEntry(Record{Path: path})
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == Separator:
			rec, err := p.finish(ctx, e, dc)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
			e = newEntry(rec.template())
		case trimmed == "#" || strings.HasPrefix(line, "# "):
			// comment
		case len(line) >= 2 && line[0] == '#' && isASCIILetter(line[1]):
			p.metadata(e, line, dc)
		default:
			e.body = append(e.body, line)
		}
	}

	rec, err := p.finish(ctx, e, dc)
	if err != nil {
		return nil, err
	}
	if len(rec.Notes) == 0 {
		dc.Error(diag.KindFormat, path, "%s has invalid format: last entry has no body", path)
		return nil, fmt.Errorf("%w: %s: last entry has no body", ErrFormat, path)
	}
	return append(records, rec), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// entry accumulates one entry. rec starts as the inherited template.
type entry struct {
	rec  Record
	seen map[string]bool
	body []string
}

func newEntry(tmpl Record) *entry {
	return &entry{rec: tmpl, seen: map[string]bool{}}
}

// once reports whether key may be set, warning on repeats.
func (e *entry) once(key string, tag byte, dc *diag.Collector) bool {
	if e.seen[key] {
		dc.Warn(diag.KindFormat, e.rec.Path, "a #%c line may exist only once per annotation", tag)
		return false
	}
	e.seen[key] = true
	return true
}

// addSections replaces inherited references on the first location line of
// an entry and accumulates on later ones.
func (e *entry) addSections(refs ...SectionRef) {
	if !e.seen["section"] {
		e.seen["section"] = true
		e.rec.Sections = nil
	}
	e.rec.Sections = append(e.rec.Sections, refs...)
}

func (p *Parser) metadata(e *entry, line string, dc *diag.Collector) {
	tag := line[1] &^ 0x20 // upper case
	value := strings.TrimSpace(line[2:])
	path := e.rec.Path

	switch tag {
	case 'A':
		if e.once("A", tag, dc) {
			e.rec.Submitter = value
		}
	case 'C':
		if e.once("C", tag, dc) {
			e.rec.Caption = value
		}
	case 'D':
		if err := dateutil.Validate(value); err != nil {
			dc.Warn(diag.KindFormat, path, "invalid formatted date: %q, must use YYYY-MM-DD", value)
			return
		}
		if e.once("D", tag, dc) {
			e.rec.Date = value
		}
	case 'F':
		if value == "" {
			dc.Warn(diag.KindFormat, path, "empty #F line ignored")
			return
		}
		e.addSections(FragmentRef(value))
	case 'L':
		ref := ParseSection("line-" + value)
		e.addSections(ref)
		if ref.Kind != SectionLine {
			dc.Warn(diag.KindFormat, path, "invalid line reference %q", value)
			return
		}
		p.checkStability(path, ref.Line, dc)
	case 'S':
		refs := ParseSections(value)
		if len(refs) == 0 {
			refs = []SectionRef{GlobalRef()}
		}
		e.addSections(refs...)
	case 'T':
		if e.once("T", tag, dc) {
			e.rec.Type = value
		}
	case 'X':
		key, val, ok := strings.Cut(value, ":")
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		if !ok || key == "" {
			dc.Warn(diag.KindFormat, path, "#X line without key:value ignored: %q", value)
			return
		}
		if !e.once("X:"+key, tag, dc) {
			return
		}
		switch key {
		case ExtErrataID:
			if !isDigits(val) {
				dc.Warn(diag.KindFormat, path, "non-numeric errata_id ignored: %q", val)
				return
			}
			e.rec.ErrataID = val
		case ExtChecksum:
			e.rec.Checksum = val
		case ExtStatusCode:
			e.rec.StatusCode = val
		default:
			if e.rec.Extensions == nil {
				e.rec.Extensions = map[string]string{}
			}
			e.rec.Extensions[key] = val
		}
	default:
		dc.Warn(diag.KindFormat, path, "unknown metadata tag #%c ignored", line[1])
	}
}

// checkStability warns about line references into documents whose line
// numbering is not stable.
func (p *Parser) checkStability(path string, line int, dc *diag.Collector) {
	nr, ok := fileutil.DocumentNumber(path, p.cfg.DocPrefix)
	if !ok {
		return
	}
	n, err := strconv.Atoi(nr)
	if err != nil || n < p.cfg.StableThreshold || line <= 1 {
		return
	}
	dc.Warn(diag.KindStability, path,
		"reference to line %d: line references for %s%d and newer may be unstable",
		line, strings.ToUpper(p.cfg.DocPrefix), p.cfg.StableThreshold)
}

// finish turns the accumulated entry into a record.
func (p *Parser) finish(ctx context.Context, e *entry, dc *diag.Collector) (Record, error) {
	rec := e.rec
	if len(rec.Sections) == 0 {
		rec.Sections = []SectionRef{GlobalRef()}
	}

	body := trimBlank(e.body)
	if len(body) > 0 {
		notes, kind, err := p.renderBody(ctx, rec, body, dc)
		if err != nil {
			return Record{}, err
		}
		rec.Notes, rec.Body = notes, kind
	}

	p.checkErratum(&rec, dc)
	return rec, nil
}

func trimBlank(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

func (p *Parser) renderBody(ctx context.Context, rec Record, body []string, dc *diag.Collector) ([]string, BodyKind, error) {
	if p.cfg.Markdown != nil && strings.EqualFold(rec.Extensions[ExtFormat], FormatMarkdown) {
		out, err := p.cfg.Markdown.Render(ctx, strings.Join(body, "\n"))
		if err != nil {
			return nil, BodyMarkdown, fmt.Errorf("rendering markdown in %s: %w", rec.Path, err)
		}
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		return p.sanitize(rec.Path, p.cfg.Resolver.ResolveLines(lines), dc), BodyMarkdown, nil
	}

	if loc := htmlStart.FindStringIndex(strings.TrimSpace(body[0])); loc == nil || loc[0] > 0 {
		notes := make([]string, 0, len(body)+2)
		notes = append(notes, plainTextOpen)
		for _, line := range body {
			notes = append(notes, p.cfg.Resolver.ResolveLine(xref.LinkifyURLs(line, true)))
		}
		return append(notes, plainTextClose), BodyPlain, nil
	}

	lines := make([]string, len(body))
	for i, line := range body {
		lines[i] = p.cfg.Resolver.ResolveLine(xref.LinkifyURLs(line, false))
	}
	return p.sanitize(rec.Path, lines, dc), BodyHTML, nil
}

// sanitize filters a multi-line fragment as one buffer so tags may span
// lines.
func (p *Parser) sanitize(path string, lines []string, dc *diag.Collector) []string {
	if !p.cfg.Sanitizer.Enabled() {
		return lines
	}
	out, violations := p.cfg.Sanitizer.Sanitize(strings.Join(lines, "\n"))
	for _, v := range violations {
		dc.Warn(diag.KindSanitize, path, "%s", v)
	}
	return strings.Split(out, "\n")
}

// checkErratum flags records whose stored checksum no longer matches the
// live corpus.
func (p *Parser) checkErratum(rec *Record, dc *diag.Collector) {
	if p.cfg.Corpus == nil || rec.ErrataID == "" || rec.Checksum == "" {
		return
	}
	live, ok := p.cfg.Corpus.Checksum(rec.ErrataID)
	switch {
	case !ok:
		rec.Outdated = true
		dc.Info(diag.KindChecksum, rec.Path, "erratum %s is not in the errata corpus", rec.ErrataID)
	case live != rec.Checksum:
		rec.Outdated = true
		dc.Info(diag.KindChecksum, rec.Path, "annotation is based on an outdated version of erratum %s", rec.ErrataID)
	}
}
