package sanitize

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
)

// voidElements never have content or an end tag.
var voidElements = set{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {}, "img": {},
	"input": {}, "link": {}, "meta": {}, "param": {}, "source": {}, "track": {}, "wbr": {},
}

type mode int

const (
	inAllowedSubtree mode = iota
	skippingSubtree
)

// Sanitizer applies a Policy to HTML fragments.
// It holds no per-call state and is safe for concurrent use.
type Sanitizer struct {
	policy *Policy
}

// New returns a Sanitizer for p. A nil policy yields a pass-through
// sanitizer; callers are expected to warn about that once.
func New(p *Policy) *Sanitizer {
	return &Sanitizer{policy: p}
}

// Enabled reports whether a policy is configured.
func (s *Sanitizer) Enabled() bool {
	return s != nil && s.policy != nil
}

// Sanitize filters input and returns the safe fragment plus everything that
// was removed or repaired. The output is deterministic and sanitizing it a
// second time returns it unchanged.
func (s *Sanitizer) Sanitize(input string) (string, []Violation) {
	if !s.Enabled() {
		return input, nil
	}
	st := &scan{policy: s.policy}
	st.run(escapePreRegions(input, s.policy))
	return st.out.String(), st.violations
}

// scan is the per-call push-down automaton.
type scan struct {
	policy     *Policy
	out        bytes.Buffer
	violations []Violation

	stack []string

	mode     mode
	sentinel string
	depth    int
	removed  strings.Builder

	// emptyAt is the output length right after the last emitted start tag,
	// used to collapse an immediately closed element to <x/>.
	emptyAt int
}

func (st *scan) report(kind ViolationKind, tag, format string, args ...any) {
	st.violations = append(st.violations, Violation{Kind: kind, Tag: tag, Message: fmt.Sprintf(format, args...)})
}

func (st *scan) run(input string) {
	st.emptyAt = -1
	z := nethtml.NewTokenizer(strings.NewReader(input))
	for {
		tt := z.Next()
		switch tt {
		case nethtml.ErrorToken:
			// io.EOF; a strings.Reader cannot fail otherwise.
			st.finish()
			return
		case nethtml.TextToken:
			st.text(z.Raw())
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			st.startTag(z, tt == nethtml.SelfClosingTagToken)
		case nethtml.EndTagToken:
			name, _ := z.TagName()
			st.endTag(string(name), z.Raw())
		case nethtml.CommentToken, nethtml.DoctypeToken:
			// dropped
		}
	}
}

func (st *scan) text(raw []byte) {
	if st.mode == skippingSubtree {
		st.removed.Write(raw)
		return
	}
	for _, c := range raw {
		switch c {
		case '<':
			st.out.WriteString(escLT)
		case '>':
			st.out.WriteString(escGT)
		default:
			st.out.WriteByte(c)
		}
	}
}

func (st *scan) startTag(z *nethtml.Tokenizer, selfClosing bool) {
	nameBytes, hasAttr := z.TagName()
	name := string(nameBytes)
	void := voidElements.has(name)

	if st.mode == skippingSubtree {
		st.removed.Write(z.Raw())
		if name == st.sentinel && !selfClosing && !void {
			st.depth++
		}
		return
	}

	parent := ""
	if len(st.stack) > 0 {
		parent = st.stack[len(st.stack)-1]
	}
	if !st.policy.Allows(name, parent) {
		if selfClosing || void {
			st.report(DisallowedTag, name, "stripped %q due to invalid element %s in hierarchy %v", z.Raw(), name, st.stack)
			return
		}
		st.mode = skippingSubtree
		st.sentinel = name
		st.depth = 1
		st.removed.Reset()
		st.removed.Write(z.Raw())
		return
	}

	var tag bytes.Buffer
	tag.WriteByte('<')
	tag.WriteString(name)
	href, hasHref, hasTarget := "", false, false
	for hasAttr {
		var k, v []byte
		k, v, hasAttr = z.TagAttr()
		key, val := string(k), string(v)
		if !validAttrName(key) {
			st.report(ForbiddenAttribute, name, "removing malformed attribute %q", key)
			continue
		}
		if st.policy.forbidden(key) {
			st.report(ForbiddenAttribute, name, "removing forbidden attribute %s with value %q", key, val)
			continue
		}
		if reason := st.policy.schemeViolation(name, key, val); reason != "" {
			st.report(DisallowedScheme, name, "%s", reason)
			continue
		}
		switch key {
		case "href":
			href, hasHref = val, true
		case "target":
			hasTarget = true
		}
		fmt.Fprintf(&tag, ` %s="%s"`, key, html.EscapeString(val))
	}
	if name == "a" && hasHref && !hasTarget && !strings.HasPrefix(href, "#") {
		tag.WriteString(` target="_blank"`)
	}

	if selfClosing || void {
		tag.WriteString("/>")
		st.out.Write(tag.Bytes())
		st.emptyAt = -1
		return
	}
	tag.WriteByte('>')
	st.out.Write(tag.Bytes())
	st.stack = append(st.stack, name)
	st.emptyAt = st.out.Len()
}

// validAttrName reports whether key uses only [a-z0-9_:-]. The tokenizer
// lower-cases attribute names.
func validAttrName(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_' || c == ':' || c == '-' {
			continue
		}
		return false
	}
	return true
}

func (st *scan) endTag(name string, raw []byte) {
	if st.mode == skippingSubtree {
		st.removed.Write(raw)
		if name == st.sentinel {
			st.depth--
			if st.depth == 0 {
				st.report(DisallowedTag, name, "stripped %q due to invalid start tag %s in hierarchy %v", st.removed.String(), name, st.stack)
				st.mode = inAllowedSubtree
				st.sentinel = ""
				st.removed.Reset()
			}
		}
		return
	}

	if voidElements.has(name) {
		return
	}
	if len(st.stack) == 0 {
		st.report(UnexpectedEndTag, name, "got end tag %s without any opened tags", name)
		return
	}
	if !st.open(name) {
		st.report(UnexpectedEndTag, name, "got end tag %s that was never opened, open tags %v", name, st.stack)
		return
	}

	top := st.stack[len(st.stack)-1]
	if top != name {
		st.report(TagMismatch, name, "got end tag %s but expected %s", name, top)
	}
	st.close()
}

func (st *scan) open(name string) bool {
	for _, t := range st.stack {
		if t == name {
			return true
		}
	}
	return false
}

// close pops the innermost open tag and writes its end tag, collapsing an
// element with no content to self-closing form.
func (st *scan) close() {
	top := st.stack[len(st.stack)-1]
	st.stack = st.stack[:len(st.stack)-1]
	if st.emptyAt == st.out.Len() {
		st.out.Truncate(st.out.Len() - 1)
		st.out.WriteString("/>")
	} else {
		st.out.WriteString("</" + top + ">")
	}
	st.emptyAt = -1
}

func (st *scan) finish() {
	if st.mode == skippingSubtree {
		st.report(DisallowedTag, st.sentinel, "stripped %q due to invalid start tag %s left open at end of input", st.removed.String(), st.sentinel)
		st.mode = inAllowedSubtree
	}
	if len(st.stack) == 0 {
		return
	}
	st.report(UnclosedTag, "", "tags not closed properly: %v, adding closing tags", st.stack)
	for len(st.stack) > 0 {
		st.close()
	}
}
