package rfcnotes

import (
	"github.com/alnah/go-rfcnotes/internal/diag"
	"github.com/alnah/go-rfcnotes/internal/merge"
	"github.com/alnah/go-rfcnotes/internal/xref"
)

// Line is one rendered line of a base document. IDs lists the element ids
// the line carries ("line-12", "section-3.1"); HTML is its markup and Text
// the plain text fragments are matched against.
type Line = merge.Line

// Diagnostic is a non-fatal finding reported while annotating a document.
type Diagnostic = diag.Diagnostic

// DiagnosticKind classifies a Diagnostic.
type DiagnosticKind = diag.Kind

// Diagnostic kinds.
const (
	KindFormat     = diag.KindFormat
	KindSanitize   = diag.KindSanitize
	KindUnresolved = diag.KindUnresolved
	KindChecksum   = diag.KindChecksum
	KindPolicy     = diag.KindPolicy
	KindStability  = diag.KindStability
	KindIO         = diag.KindIO
)

// Input is one document to annotate.
type Input struct {
	// Document is the document name as used in annotation file names,
	// e.g. "rfc9000". Case is ignored.
	Document string
	// Title overrides the page title. Empty uses the upper-cased Document.
	Title string
	// Text is the plain text of the document. Ignored when Lines is set.
	Text string
	// Lines is a pre-rendered document.
	Lines []Line
	// AnnotationDirs are searched recursively for "<document>.*" files.
	AnnotationDirs []string
}

// Result is an annotated document.
type Result struct {
	// HTML is the complete page.
	HTML []byte
	// Body holds the base document lines interleaved with annotation blocks.
	Body []string
	// LastDate is the latest annotation date (YYYY-MM-DD), empty if none.
	LastDate string
	// Records is the number of annotation records merged.
	Records int
	// Blocks is the number of annotation blocks emitted.
	Blocks int
	// Orphans lists the section keys that matched no line.
	Orphans []string
	// Types lists the built-in annotation types present.
	Types []string
	// Diagnostics lists everything reported for this document.
	Diagnostics []Diagnostic
}

// Count returns the number of diagnostics of the given kind.
func (r *Result) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Registry describes where document and erratum links point to.
// Every URL is a format string with exactly one %s verb.
type Registry struct {
	Prefix    string // "RFC"
	LocalURL  string // link to a locally rendered document from its number
	RemoteURL string // link to the canonical registry from its number
	ErrataURL string // erratum permalink from its id
}

// DefaultRegistry returns the RFC Editor settings.
func DefaultRegistry() Registry {
	x := xref.DefaultRegistry()
	return Registry{
		Prefix:    x.Prefix,
		LocalURL:  x.LocalURL,
		RemoteURL: x.RemoteURL,
		ErrataURL: merge.DefaultErrataURL,
	}
}
