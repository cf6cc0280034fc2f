// Package xref resolves @@...@@ reference placeholders into hyperlinks and
// turns angle-bracketed URLs into anchors.
//
// Recognized placeholder contents, case-insensitive, with RFC as the
// document prefix:
//
//	RFC1234
//	RFC1234:section-2
//	Section 2 of [RFC1234]     (also "in", brackets optional)
//	[RFC1234], Appendix A
//	Line 42                    (same-document anchor)
package xref

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Registry describes where document links point to.
type Registry struct {
	// Prefix is the document id prefix, e.g. "RFC".
	Prefix string
	// LocalURL formats a link to a locally rendered document from its number.
	LocalURL string
	// RemoteURL formats a link to the canonical registry from a document number.
	RemoteURL string
}

// DefaultRegistry returns the RFC Editor registry settings.
func DefaultRegistry() Registry {
	return Registry{
		Prefix:    "RFC",
		LocalURL:  "./rfc%s.html",
		RemoteURL: "https://www.rfc-editor.org/rfc/rfc%s.html",
	}
}

// Resolver rewrites placeholders. It is read-only after construction and
// safe for concurrent use.
type Resolver struct {
	reg   Registry
	local map[string]struct{}

	bareDoc    *regexp.Regexp
	refOfDoc   *regexp.Regexp
	docThenRef *regexp.Regexp
	bareRef    *regexp.Regexp
}

// NewResolver builds a Resolver for reg. local lists the document numbers
// rendered alongside, which get relative links.
func NewResolver(reg Registry, local []string) *Resolver {
	p := regexp.QuoteMeta(reg.Prefix)
	const kind = `(section|appendix|line)`
	const ref = `([\w.\-]+?)\.?`
	r := &Resolver{
		reg:        reg,
		local:      make(map[string]struct{}, len(local)),
		bareDoc:    regexp.MustCompile(`(?i)^\s*` + p + `\s?(\d+)(?::([\w.\-]+))?\s*$`),
		refOfDoc:   regexp.MustCompile(`(?i)^\s*` + kind + `\s+` + ref + `\s+(?:of|in)\s+\[?` + p + `\s?(\d+)\]?\s*$`),
		docThenRef: regexp.MustCompile(`(?i)^\s*\[?` + p + `\s?(\d+)\]?\s*,\s*` + kind + `\s+` + ref + `\s*$`),
		bareRef:    regexp.MustCompile(`(?i)^\s*` + kind + `\s+` + ref + `\s*$`),
	}
	for _, nr := range local {
		r.local[strings.TrimLeft(nr, "0")] = struct{}{}
	}
	return r
}

// Local reports whether document number nr is rendered locally.
func (r *Resolver) Local(nr string) bool {
	_, ok := r.local[strings.TrimLeft(nr, "0")]
	return ok
}

// DocumentURL returns the link target for document number nr with an
// optional fragment anchor.
func (r *Resolver) DocumentURL(nr, anchor string) string {
	format := r.reg.RemoteURL
	if r.Local(nr) {
		format = r.reg.LocalURL
	}
	u := fmt.Sprintf(format, nr)
	if anchor != "" {
		u += "#" + anchor
	}
	return u
}

// Anchor builds the element id for a section, appendix or line reference.
// Appendix letters are upper-cased to match rendered headings.
func Anchor(kind, ref string) string {
	kind = strings.ToLower(kind)
	if kind == "appendix" {
		ref = strings.ToUpper(ref)
	}
	return kind + "-" + ref
}

// Resolve turns the contents of one placeholder into a link. The second
// result is false when the contents match no known form.
func (r *Resolver) Resolve(inner string) (string, bool) {
	if m := r.bareDoc.FindStringSubmatch(inner); m != nil {
		return link(r.DocumentURL(m[1], m[2]), inner, true), true
	}
	if m := r.refOfDoc.FindStringSubmatch(inner); m != nil {
		return link(r.DocumentURL(m[3], Anchor(m[1], m[2])), inner, true), true
	}
	if m := r.docThenRef.FindStringSubmatch(inner); m != nil {
		return link(r.DocumentURL(m[1], Anchor(m[2], m[3])), inner, true), true
	}
	if m := r.bareRef.FindStringSubmatch(inner); m != nil {
		return link("#"+Anchor(m[1], m[2]), inner, false), true
	}
	return "", false
}

// link renders an anchor. text is already HTML and is not escaped again.
func link(href, text string, external bool) string {
	if external {
		return fmt.Sprintf(`<a href="%s" target="_blank">%s</a>`, html.EscapeString(href), text)
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(href), text)
}

// ResolveLine rewrites every recognized placeholder in line, left to right.
// Unrecognized placeholders are kept verbatim, delimiters included.
func (r *Resolver) ResolveLine(line string) string {
	if !strings.Contains(line, delimiter) {
		return line
	}
	var b strings.Builder
	b.Grow(len(line))
	for _, tok := range Tokenize(line) {
		if tok.Kind == Literal {
			b.WriteString(tok.Text)
			continue
		}
		if out, ok := r.Resolve(tok.Text); ok {
			b.WriteString(out)
			continue
		}
		b.WriteString(delimiter + tok.Text + delimiter)
	}
	return b.String()
}

// ResolveLines applies ResolveLine to each line, returning a new slice.
func (r *Resolver) ResolveLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = r.ResolveLine(l)
	}
	return out
}
