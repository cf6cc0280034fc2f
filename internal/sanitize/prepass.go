package sanitize

import (
	"strings"
)

const (
	preClose = "</pre>"
	escLT    = "&lt;"
	escGT    = "&gt;"
)

// escapePreRegions escapes every "<" and ">" inside <pre>...</pre> regions and
// then restores the tags the policy allows, attributes included, so literal
// markup samples survive as text while real allowed markup still renders.
func escapePreRegions(s string, p *Policy) string {
	var b strings.Builder
	b.Grow(len(s))
	for {
		open := findPreOpen(s)
		if open < 0 {
			b.WriteString(s)
			return b.String()
		}
		tagEnd := strings.IndexByte(s[open:], '>')
		if tagEnd < 0 {
			b.WriteString(s)
			return b.String()
		}
		start := open + tagEnd + 1
		end := strings.Index(s[start:], preClose)
		if end < 0 {
			b.WriteString(s)
			return b.String()
		}
		end += start

		b.WriteString(s[:start])
		b.WriteString(restoreAllowed(escapeAngles(s[start:end]), p))
		b.WriteString(preClose)
		s = s[end+len(preClose):]
	}
}

// findPreOpen returns the index of the next "<pre>" or "<pre " start tag.
func findPreOpen(s string) int {
	offset := 0
	for {
		i := strings.Index(s[offset:], "<pre")
		if i < 0 {
			return -1
		}
		i += offset
		next := i + len("<pre")
		if next < len(s) && (s[next] == '>' || s[next] == ' ' || s[next] == '\t' || s[next] == '\n') {
			return i
		}
		offset = next
	}
}

var angleEscaper = strings.NewReplacer("<", escLT, ">", escGT)

func escapeAngles(s string) string {
	return angleEscaper.Replace(s)
}

// restoreAllowed turns "&lt;tag attrs&gt;" and "&lt;/tag&gt;" back into real
// tags when tag is allowed. Attributes must be empty or start with a space or
// "/", otherwise the sequence is a longer tag name or plain text.
func restoreAllowed(area string, p *Policy) string {
	if !strings.Contains(area, escLT) {
		return area
	}

	var b strings.Builder
	b.Grow(len(area))
	for {
		i := strings.Index(area, escLT)
		if i < 0 {
			b.WriteString(area)
			return b.String()
		}
		b.WriteString(area[:i])
		rest := area[i+len(escLT):]

		closing := strings.HasPrefix(rest, "/")
		nameStart := 0
		if closing {
			nameStart = 1
		}
		nameEnd := nameStart
		for nameEnd < len(rest) && isNameByte(rest[nameEnd]) {
			nameEnd++
		}
		name := strings.ToLower(rest[nameStart:nameEnd])

		gt := strings.Index(rest[nameEnd:], escGT)
		if name == "" || gt < 0 || !p.allowed.has(name) {
			b.WriteString(escLT)
			area = rest
			continue
		}
		attrs := rest[nameEnd : nameEnd+gt]
		if attrs != "" && (closing || (attrs[0] != ' ' && attrs[0] != '/')) {
			b.WriteString(escLT)
			area = rest
			continue
		}

		b.WriteByte('<')
		b.WriteString(rest[:nameEnd])
		b.WriteString(attrs)
		b.WriteByte('>')
		area = rest[nameEnd+gt+len(escGT):]
	}
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
