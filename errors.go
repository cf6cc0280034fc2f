package rfcnotes

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyDocument = errors.New("document cannot be empty")
	ErrRender        = errors.New("page rendering failed")

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrPolicyNotFound   = errors.New("policy not found")

	// Collaborator data errors.
	ErrInvalidPolicy = errors.New("invalid sanitization policy")
	ErrErrataSource  = errors.New("errata source unavailable")
)
