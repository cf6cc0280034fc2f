// Package sanitize filters untrusted annotation HTML against an allow/deny policy.
package sanitize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-rfcnotes/internal/yamlutil"
)

// ErrInvalidPolicy indicates a policy document that cannot be compiled.
var ErrInvalidPolicy = errors.New("invalid sanitization policy")

// URIRule restricts the schemes allowed in the listed attributes.
// An attribute is named either "key" (any element) or "tag:key".
type URIRule struct {
	Attributes     []string `yaml:"attributes"`
	AllowedSchemes []string `yaml:"allowed-schemes"`
}

// PolicyDocument is the on-disk form of a sanitization policy.
// YAML and JSON documents are both accepted.
type PolicyDocument struct {
	ForbiddenAttributes []string            `yaml:"forbidden-attributes"`
	Allowed             []string            `yaml:"allowed"`
	AllowedChildren     map[string][]string `yaml:"allowed-children"`
	URIFilter           []URIRule           `yaml:"uri-filter"`
}

type set map[string]struct{}

func newSet(items []string) set {
	s := make(set, len(items))
	for _, it := range items {
		s[strings.ToLower(strings.TrimSpace(it))] = struct{}{}
	}
	return s
}

func (s set) has(v string) bool {
	_, ok := s[v]
	return ok
}

type uriRule struct {
	attributes set
	schemes    set
}

// Policy is a compiled, read-only sanitization policy.
// It is safe for concurrent use once built.
type Policy struct {
	forbiddenNames    set
	forbiddenPrefixes []string
	allowed           set
	children          map[string]set
	uriRules          []uriRule
}

// NewPolicy compiles doc. A forbidden-attributes entry with a trailing "*"
// matches every attribute starting with the text before it.
func NewPolicy(doc PolicyDocument) (*Policy, error) {
	p := &Policy{
		forbiddenNames: set{},
		allowed:        newSet(doc.Allowed),
		children:       make(map[string]set, len(doc.AllowedChildren)),
	}

	for _, a := range doc.ForbiddenAttributes {
		a = strings.ToLower(strings.TrimSpace(a))
		if prefix, ok := strings.CutSuffix(a, "*"); ok {
			if prefix == "" {
				return nil, fmt.Errorf("%w: wildcard %q forbids every attribute", ErrInvalidPolicy, a)
			}
			p.forbiddenPrefixes = append(p.forbiddenPrefixes, prefix)
			continue
		}
		if a == "" {
			return nil, fmt.Errorf("%w: empty forbidden attribute", ErrInvalidPolicy)
		}
		p.forbiddenNames[a] = struct{}{}
	}

	for parent, kids := range doc.AllowedChildren {
		p.children[strings.ToLower(parent)] = newSet(kids)
	}

	for i, r := range doc.URIFilter {
		if len(r.Attributes) == 0 {
			return nil, fmt.Errorf("%w: uri-filter rule %d has no attributes", ErrInvalidPolicy, i)
		}
		p.uriRules = append(p.uriRules, uriRule{
			attributes: newSet(r.Attributes),
			schemes:    newSet(r.AllowedSchemes),
		})
	}

	return p, nil
}

// ParsePolicy decodes and compiles a YAML or JSON policy document.
// Unknown keys are rejected.
func ParsePolicy(data []byte) (*Policy, error) {
	var doc PolicyDocument
	if err := yamlutil.UnmarshalStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}
	return NewPolicy(doc)
}

// LoadPolicy reads and compiles the policy document at path.
func LoadPolicy(path string) (*Policy, error) {
	var doc PolicyDocument
	if err := yamlutil.DecodeFile(path, &doc, true); err != nil {
		return nil, fmt.Errorf("loading policy %s: %w", path, err)
	}
	return NewPolicy(doc)
}

// Allows reports whether tag is admitted under parent ("" for top level).
func (p *Policy) Allows(tag, parent string) bool {
	if p.allowed.has(tag) {
		return true
	}
	if parent == "" {
		return false
	}
	kids, ok := p.children[parent]
	return ok && kids.has(tag)
}

func (p *Policy) forbidden(key string) bool {
	if p.forbiddenNames.has(key) {
		return true
	}
	for _, prefix := range p.forbiddenPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// schemeViolation returns a non-empty reason when the value of attribute key
// on tag breaks a uri-filter rule. Values without a ":" have no scheme and
// are always accepted.
func (p *Policy) schemeViolation(tag, key, val string) string {
	scheme, _, hasScheme := strings.Cut(val, ":")
	if !hasScheme {
		return ""
	}
	// Browsers ignore control characters and whitespace inside a scheme.
	scheme = strings.ToLower(strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, scheme))
	for _, r := range p.uriRules {
		if !r.attributes.has(key) && !r.attributes.has(tag+":"+key) {
			continue
		}
		if len(r.schemes) == 0 {
			return fmt.Sprintf("no schemes allowed for attribute %s=%q in element %s", key, val, tag)
		}
		if !r.schemes.has(scheme) {
			return fmt.Sprintf("scheme %s is not allowed for attribute %s in element %s", scheme, key, tag)
		}
	}
	return ""
}
