package annotation

import (
	"html"
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

// BodyKind tells how a record body was interpreted.
type BodyKind int

const (
	BodyPlain BodyKind = iota
	BodyHTML
	BodyMarkdown
)

// String returns the body kind name.
func (k BodyKind) String() string {
	switch k {
	case BodyHTML:
		return "html"
	case BodyMarkdown:
		return "markdown"
	default:
		return "plain"
	}
}

// Built-in annotation types, in display order.
const (
	TypeObsoleted            = "obsoleted"
	TypePotentiallyObsoleted = "potentially_obsoleted"
	TypeUpdated              = "updated"
	TypePotentiallyUpdated   = "potentially_updated"
	TypeHasErrata            = "has_errata"
)

var builtinTypes = []string{
	TypeObsoleted,
	TypePotentiallyObsoleted,
	TypeUpdated,
	TypePotentiallyUpdated,
	TypeHasErrata,
}

// BuiltinTypes returns the built-in annotation types in display order.
func BuiltinTypes() []string {
	return slices.Clone(builtinTypes)
}

// IsBuiltinType reports whether t is a built-in annotation type.
func IsBuiltinType(t string) bool {
	return slices.Contains(builtinTypes, t)
}

// Extension keys with a dedicated Record field.
const (
	ExtErrataID     = "errata_id"
	ExtChecksum     = "checksum"
	ExtStatusCode   = "errata_status_code"
	ExtFormat       = "format"
	FormatMarkdown  = "markdown"
	StatusRejected  = "Rejected"
	generatedFolder = "_generated"
)

// Record is one parsed annotation entry.
type Record struct {
	Submitter string
	Caption   string
	Date      string
	Sections  []SectionRef
	Type      string

	ErrataID   string
	Checksum   string
	StatusCode string

	Extensions map[string]string

	// Notes holds the sanitized body, one HTML line per element.
	Notes []string
	Body  BodyKind

	Path     string
	Outdated bool
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	r.Sections = slices.Clone(r.Sections)
	r.Extensions = maps.Clone(r.Extensions)
	r.Notes = slices.Clone(r.Notes)
	return r
}

// template returns the metadata the next entry inherits: everything except
// the body and derived flags.
func (r Record) template() Record {
	t := r.Clone()
	t.Notes = nil
	t.Body = BodyPlain
	t.Outdated = false
	return t
}

// IsErratum reports whether the record is linked to an erratum.
func (r Record) IsErratum() bool {
	return r.ErrataID != ""
}

// Rejected reports whether the linked erratum was rejected.
func (r Record) Rejected() bool {
	return strings.EqualFold(r.StatusCode, StatusRejected)
}

// Generated reports whether the record comes from a generated file.
func (r Record) Generated() bool {
	sep := string(filepath.Separator)
	return strings.Contains(r.Path, sep+generatedFolder+sep) ||
		strings.Contains(filepath.ToSlash(r.Path), "/"+generatedFolder+"/")
}

// Keys returns the canonical keys of the record's sections.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		keys = append(keys, s.Key())
	}
	return keys
}

// PlainText returns the original text of a plain text body. The second
// result is false for HTML and Markdown bodies.
func (r Record) PlainText() (string, bool) {
	if r.Body != BodyPlain || len(r.Notes) < 2 {
		return "", false
	}
	inner := r.Notes[1 : len(r.Notes)-1]
	lines := make([]string, len(inner))
	for i, l := range inner {
		lines[i] = html.UnescapeString(l)
	}
	return strings.Join(lines, "\n"), true
}
