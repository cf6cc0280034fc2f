// Package errata holds the errata corpus, its per-field patches, the
// checksums used to detect outdated erratum annotations, and the generator
// that turns errata into annotation files.
package errata

import (
	"bytes"
	"crypto/md5" // #nosec G501 -- checksum format shared with existing annotation files
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Well-known erratum fields.
const (
	FieldID          = "errata_id"
	FieldDocID       = "doc-id"
	FieldSection     = "section"
	FieldOrigText    = "orig_text"
	FieldCorrectText = "correct_text"
	FieldNotes       = "notes"
	FieldStatus      = "errata_status_code"
	FieldType        = "errata_type_code"
	FieldSubmitter   = "submitter_name"
)

// StatusRejected is the status of errata that were not accepted.
const StatusRejected = "Rejected"

// Erratum is one record of the errata corpus. All fields are kept, since the
// checksum covers every field and not only the ones rendered.
type Erratum struct {
	fields map[string]any
}

// New builds an Erratum from decoded JSON fields. The map is copied.
func New(fields map[string]any) Erratum {
	return Erratum{fields: maps.Clone(fields)}
}

// UnmarshalJSON decodes one erratum object, keeping numbers exact.
func (e *Erratum) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	e.fields = fields
	return nil
}

// Field returns the canonical string form of key. The second result is false
// when the field is missing or null.
func (e Erratum) Field(key string) (string, bool) {
	v, ok := e.fields[key]
	if !ok || v == nil {
		return "", false
	}
	return canonical(v), true
}

func (e Erratum) str(key string) string {
	s, _ := e.Field(key)
	return s
}

// ID returns the erratum id.
func (e Erratum) ID() string { return e.str(FieldID) }

// DocID returns the upper-cased document id, e.g. "RFC9000".
func (e Erratum) DocID() string { return strings.ToUpper(e.str(FieldDocID)) }

// Status returns the status code, e.g. "Verified".
func (e Erratum) Status() string { return e.str(FieldStatus) }

// Type returns the type code, e.g. "Technical".
func (e Erratum) Type() string { return e.str(FieldType) }

// Submitter returns the submitter name.
func (e Erratum) Submitter() string { return e.str(FieldSubmitter) }

// Section returns the referenced section. List values yield their first entry.
func (e Erratum) Section() string {
	switch v := e.fields[FieldSection].(type) {
	case nil:
		return ""
	case []any:
		if len(v) == 0 || v[0] == nil {
			return ""
		}
		return canonical(v[0])
	default:
		return canonical(v)
	}
}

// Checksum returns the MD5 hex digest of the sorted "key=value" lines of all
// fields, joined by newlines.
func (e Erratum) Checksum() string {
	keys := slices.Sorted(maps.Keys(e.fields))
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(canonical(e.fields[k]))
	}
	sum := md5.Sum([]byte(b.String())) // #nosec G401 -- not used for security
	return hex.EncodeToString(sum[:])
}

// patched returns a copy of e with the given fields replaced or added.
func (e Erratum) patched(fields map[string]any) Erratum {
	if len(fields) == 0 {
		return e
	}
	out := maps.Clone(e.fields)
	if out == nil {
		out = make(map[string]any, len(fields))
	}
	maps.Copy(out, fields)
	return Erratum{fields: out}
}

// canonical renders a decoded JSON value in the notation the checksums of
// existing annotation files were computed with: null is "None", booleans
// are "True" or "False", integral numbers have no fraction, and lists and
// objects use quoted literal notation.
func canonical(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case json.Number:
		return canonicalNumber(string(x))
	case float64:
		return canonicalNumber(strconv.FormatFloat(x, 'f', -1, 64))
	case int:
		return strconv.Itoa(x)
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = literal(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		parts := make([]string, 0, len(x))
		for _, k := range slices.Sorted(maps.Keys(x)) {
			parts = append(parts, quote(k)+": "+literal(x[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprint(x)
	}
}

func literal(v any) string {
	if s, ok := v.(string); ok {
		return quote(s)
	}
	return canonical(v)
}

func canonicalNumber(s string) string {
	if !strings.ContainsAny(s, ".eE") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}

// quote uses single quotes unless the text contains one and no double quote.
func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == q:
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}
