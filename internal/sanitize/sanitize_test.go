package sanitize

import (
	"strings"
	"testing"
)

func testPolicy(t *testing.T) *Policy {
	t.Helper()
	p, err := NewPolicy(PolicyDocument{
		ForbiddenAttributes: []string{"style", "on*"},
		Allowed:             []string{"a", "b", "br", "div", "em", "i", "p", "pre", "span", "td", "tr", "table"},
		AllowedChildren:     map[string][]string{"div": {"section"}},
		URIFilter: []URIRule{
			{Attributes: []string{"href"}, AllowedSchemes: []string{"http", "https"}},
		},
	})
	if err != nil {
		t.Fatalf("NewPolicy() error = %v", err)
	}
	return p
}

func kinds(vs []Violation) []ViolationKind {
	out := make([]ViolationKind, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Kind)
	}
	return out
}

func equalKinds(a, b []ViolationKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// TestSanitize - Filtering behavior
// ---------------------------------------------------------------------------

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		want      string
		wantKinds []ViolationKind
	}{
		{
			name:      "script removed with content",
			input:     "<script>alert(1)</script>",
			want:      "",
			wantKinds: []ViolationKind{DisallowedTag},
		},
		{
			name:      "javascript href stripped",
			input:     `<a href="javascript:x">t</a>`,
			want:      "<a>t</a>",
			wantKinds: []ViolationKind{DisallowedScheme},
		},
		{
			name:      "event handler removed",
			input:     `<p onclick="steal()">hi</p>`,
			want:      "<p>hi</p>",
			wantKinds: []ViolationKind{ForbiddenAttribute},
		},
		{
			name:      "exact forbidden attribute",
			input:     `<span style="color:red" title="t">x</span>`,
			want:      `<span title="t">x</span>`,
			wantKinds: []ViolationKind{ForbiddenAttribute},
		},
		{
			name:  "external link gets target",
			input: `<a href="https://example.org">x</a>`,
			want:  `<a href="https://example.org" target="_blank">x</a>`,
		},
		{
			name:  "relative link gets target",
			input: `<a href="./rfc1234.html">x</a>`,
			want:  `<a href="./rfc1234.html" target="_blank">x</a>`,
		},
		{
			name:  "fragment link keeps no target",
			input: `<a href="#section-2">x</a>`,
			want:  `<a href="#section-2">x</a>`,
		},
		{
			name:  "explicit target kept",
			input: `<a target="_self" href="https://example.org">x</a>`,
			want:  `<a target="_self" href="https://example.org">x</a>`,
		},
		{
			name:  "anchor without href",
			input: `<a>x</a>`,
			want:  `<a>x</a>`,
		},
		{
			name:      "nested same-name disallowed subtree",
			input:     "<div><form><form>a</form>b</form>c</div>",
			want:      "<div>c</div>",
			wantKinds: []ViolationKind{DisallowedTag},
		},
		{
			name:  "allowed child override",
			input: "<div><section>a</section></div>",
			want:  "<div><section>a</section></div>",
		},
		{
			name:      "child override only under its parent",
			input:     "<p><section>a</section>b</p>",
			want:      "<p>b</p>",
			wantKinds: []ViolationKind{DisallowedTag},
		},
		{
			name:  "empty pair collapses",
			input: "<div><p></p></div>",
			want:  "<div><p/></div>",
		},
		{
			name:  "void element",
			input: "<p>a<br>b</br></p>",
			want:  "<p>a<br/>b</p>",
		},
		{
			name:      "disallowed void element drops only itself",
			input:     `<img src="x.png">after`,
			want:      "after",
			wantKinds: []ViolationKind{DisallowedTag},
		},
		{
			name:      "misnested end tags are rebalanced",
			input:     "<b><i>x</b></i>",
			want:      "<b><i>x</i></b>",
			wantKinds: []ViolationKind{TagMismatch, UnexpectedEndTag, UnclosedTag},
		},
		{
			name:      "end tag never opened leaves the stack alone",
			input:     "<b>x</i>y</b>",
			want:      "<b>xy</b>",
			wantKinds: []ViolationKind{UnexpectedEndTag},
		},
		{
			name:      "end tag without open tags",
			input:     "x</p>y",
			want:      "xy",
			wantKinds: []ViolationKind{UnexpectedEndTag},
		},
		{
			name:      "unclosed tags are closed at end of input",
			input:     "<div><p>x",
			want:      "<div><p>x</p></div>",
			wantKinds: []ViolationKind{UnclosedTag},
		},
		{
			name:      "disallowed subtree never closed",
			input:     "a<form>b",
			want:      "a",
			wantKinds: []ViolationKind{DisallowedTag},
		},
		{
			name:  "comments and doctype dropped",
			input: "<!DOCTYPE html>a<!-- note -->b",
			want:  "ab",
		},
		{
			name:  "stray angle brackets escaped",
			input: "a < b > c",
			want:  "a &lt; b &gt; c",
		},
		{
			name:  "entities preserved",
			input: "AT&amp;T &lt;tag&gt;",
			want:  "AT&amp;T &lt;tag&gt;",
		},
		{
			name:  "tag names lowercased",
			input: "<P>x</P>",
			want:  "<p>x</p>",
		},
		{
			name:  "attribute values re-escaped",
			input: `<span title='a"b'>x</span>`,
			want:  `<span title="a&#34;b">x</span>`,
		},
		{
			name:      "malformed attribute names dropped",
			input:     `<span x"y="1" a<b title="t">z</span>`,
			want:      `<span title="t">z</span>`,
			wantKinds: []ViolationKind{ForbiddenAttribute, ForbiddenAttribute},
		},
		{
			name:  "namespaced and dashed attribute names kept",
			input: `<span xml:lang="en" data-k_1="v">z</span>`,
			want:  `<span xml:lang="en" data-k_1="v">z</span>`,
		},
		{
			name:  "boolean attribute",
			input: "<table><tr><td nowrap>x</td></tr></table>",
			want:  `<table><tr><td nowrap="">x</td></tr></table>`,
		},
		{
			name:  "markup sample inside pre",
			input: "<pre><x>y</x> <b>z</b></pre>",
			want:  "<pre>&lt;x&gt;y&lt;/x&gt; <b>z</b></pre>",
		},
		{
			name:  "allowed tag in pre keeps attributes",
			input: `<pre><b class="k">z</b> a<b</pre>`,
			want:  `<pre><b class="k">z</b> a&lt;b</pre>`,
		},
		{
			name:  "longer tag name in pre is not restored",
			input: "<pre><bdo>x</bdo></pre>",
			want:  "<pre>&lt;bdo&gt;x&lt;/bdo&gt;</pre>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, violations := New(testPolicy(t)).Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if !equalKinds(kinds(violations), tt.wantKinds) {
				t.Errorf("violations = %v, want kinds %v", violations, tt.wantKinds)
			}
		})
	}
}

func TestSanitize_DisallowedTagMessage(t *testing.T) {
	t.Parallel()

	_, violations := New(testPolicy(t)).Sanitize("<div><iframe src=x>inner</iframe></div>")
	if len(violations) != 1 {
		t.Fatalf("expected one violation, got %v", violations)
	}
	msg := violations[0].Message
	for _, want := range []string{"<iframe src=x>inner</iframe>", "iframe", "[div]"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not mention %q", msg, want)
		}
	}
}

func TestSanitize_NilPolicyPassesThrough(t *testing.T) {
	t.Parallel()

	s := New(nil)
	if s.Enabled() {
		t.Error("sanitizer without policy reports enabled")
	}
	in := "<script>alert(1)</script>"
	got, violations := s.Sanitize(in)
	if got != in || violations != nil {
		t.Errorf("Sanitize() = %q, %v; want input unchanged", got, violations)
	}
}

// ---------------------------------------------------------------------------
// TestSanitize_Idempotent - Sanitized output is a fixed point
// ---------------------------------------------------------------------------

func TestSanitize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`<p onclick="x">Hello <a href="https://example.org">link</a> &amp; more</p>`,
		"<b><i>x</b></i>",
		"<div><p></p><br>text</div>",
		`<pre><x>sample</x> <b class="k">bold</b> a<b</pre>`,
		"a < b > c",
		`<span title='q"uote'>x</span><script>evil()</script>`,
		`<a href="#line-3"></a><a href="javascript:x">j</a>`,
		"<div><section>kept</section></div><p>unclosed",
	}

	s := New(testPolicy(t))
	for _, in := range inputs {
		first, _ := s.Sanitize(in)
		second, violations := s.Sanitize(first)
		if second != first {
			t.Errorf("not idempotent for %q:\nfirst:  %q\nsecond: %q", in, first, second)
		}
		if len(violations) != 0 {
			t.Errorf("second pass over %q reported %v", in, violations)
		}
	}
}

func TestViolationKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind ViolationKind
		want string
	}{
		{ForbiddenAttribute, "forbidden-attribute"},
		{DisallowedScheme, "disallowed-scheme"},
		{DisallowedTag, "disallowed-tag"},
		{TagMismatch, "tag-mismatch"},
		{UnexpectedEndTag, "unexpected-end-tag"},
		{UnclosedTag, "unclosed-tag"},
		{ViolationKind(42), "violation(42)"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}
