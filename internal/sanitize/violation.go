package sanitize

import "fmt"

// ViolationKind classifies what the sanitizer removed or repaired.
type ViolationKind int

const (
	ForbiddenAttribute ViolationKind = iota + 1
	DisallowedScheme
	DisallowedTag
	TagMismatch
	UnexpectedEndTag
	UnclosedTag
)

func (k ViolationKind) String() string {
	switch k {
	case ForbiddenAttribute:
		return "forbidden-attribute"
	case DisallowedScheme:
		return "disallowed-scheme"
	case DisallowedTag:
		return "disallowed-tag"
	case TagMismatch:
		return "tag-mismatch"
	case UnexpectedEndTag:
		return "unexpected-end-tag"
	case UnclosedTag:
		return "unclosed-tag"
	default:
		return fmt.Sprintf("violation(%d)", int(k))
	}
}

// Violation describes one piece of content the sanitizer stripped or repaired.
type Violation struct {
	Kind    ViolationKind
	Tag     string
	Message string
}

func (v Violation) String() string {
	return v.Kind.String() + ": " + v.Message
}
