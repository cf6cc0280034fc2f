package annotation

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alnah/go-rfcnotes/internal/xref"
)

// SectionKind classifies a section reference.
type SectionKind int

const (
	SectionGlobal SectionKind = iota
	SectionLine
	SectionFragment
	SectionNamed
	SectionAppendix
	SectionAnchor
)

// KeyGlobal is the key of document-wide annotations.
const KeyGlobal = "global"

// SectionRef is a normalized location an annotation attaches to.
type SectionRef struct {
	Kind SectionKind
	// Line is set for SectionLine.
	Line int
	// Text is the fragment text, section number, appendix id or anchor.
	Text string
}

// GlobalRef returns the document-wide reference.
func GlobalRef() SectionRef { return SectionRef{Kind: SectionGlobal} }

// LineRef returns a reference to line n (1-based).
func LineRef(n int) SectionRef { return SectionRef{Kind: SectionLine, Line: n} }

// FragmentRef returns an unresolved quoted-text reference.
func FragmentRef(text string) SectionRef { return SectionRef{Kind: SectionFragment, Text: text} }

// Key returns the canonical key, which is the anchor id of the line the
// annotation is placed before. Line 1 is the start of the document and
// shares the global key.
func (s SectionRef) Key() string {
	switch s.Kind {
	case SectionGlobal:
		return KeyGlobal
	case SectionLine:
		if s.Line <= 1 {
			return KeyGlobal
		}
		return "line-" + strconv.Itoa(s.Line)
	case SectionFragment:
		return "fragment-" + s.Text
	case SectionNamed:
		return xref.Anchor("section", s.Text)
	case SectionAppendix:
		return xref.Anchor("appendix", s.Text)
	default:
		return s.Text
	}
}

// IsGlobal reports whether the reference resolves to the global key.
func (s SectionRef) IsGlobal() bool {
	return s.Key() == KeyGlobal
}

// String returns the key.
func (s SectionRef) String() string { return s.Key() }

// ParseSections splits a comma-separated #S value into references.
// Empty items are skipped.
func ParseSections(value string) []SectionRef {
	var refs []SectionRef
	for _, item := range strings.Split(value, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		refs = append(refs, ParseSection(item))
	}
	return refs
}

// ParseSection normalizes one section value:
//
//	"99", "none", "global"   -> global
//	"abstract"               -> anchor "abstract"
//	"line-12"                -> line 12
//	"appendix a", "b.1"      -> appendix-A, appendix-B.1
//	"section 3.2", "3.2."    -> section-3.2
func ParseSection(value string) SectionRef {
	v := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(value)), ".")
	switch v {
	case "", "99", "none", KeyGlobal:
		return GlobalRef()
	case "abstract":
		return SectionRef{Kind: SectionAnchor, Text: v}
	}

	if rest, ok := strings.CutPrefix(v, "line-"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n > 0 {
			return LineRef(n)
		}
		return SectionRef{Kind: SectionAnchor, Text: v}
	}
	if rest, ok := strings.CutPrefix(v, "appendix"); ok {
		return SectionRef{Kind: SectionAppendix, Text: strings.ToUpper(strings.TrimLeft(rest, " -"))}
	}
	if rest, ok := strings.CutPrefix(v, "section"); ok {
		return SectionRef{Kind: SectionNamed, Text: strings.TrimLeft(rest, " -")}
	}
	if isAppendixID(v) {
		return SectionRef{Kind: SectionAppendix, Text: strings.ToUpper(v)}
	}
	return SectionRef{Kind: SectionNamed, Text: v}
}

// isAppendixID reports whether v is a single letter, or a letter followed
// by something other than a letter ("a", "b.2").
func isAppendixID(v string) bool {
	r, size := utf8.DecodeRuneInString(v)
	if !unicode.IsLetter(r) {
		return false
	}
	if size == len(v) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(v[size:])
	return !unicode.IsLetter(next)
}
