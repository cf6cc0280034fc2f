package assets

import (
	"fmt"
	"strings"
)

// Built-in asset names.
const (
	DefaultStyleName   = "default"
	DefaultPolicyName  = "default"
	AnnotationTemplate = "annotation"
	PageTemplate       = "page"
)

// AssetLoader defines the contract for loading rendering assets.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	LoadTemplate(name string) (string, error)

	// LoadPolicy loads a sanitization policy document by name (without .yaml extension).
	LoadPolicy(name string) ([]byte, error)
}

// asset describes one asset kind: its directory, extension and not-found error.
type asset struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleAsset    = asset{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateAsset = asset{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
	policyAsset   = asset{dir: "policies", ext: ".yaml", notFound: ErrPolicyNotFound}
)

// ValidateAssetName checks that an asset name is safe for use as a filename.
// Returns ErrInvalidAssetName if the name is empty or contains path separators,
// dots (which could allow extension manipulation), or traversal characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
