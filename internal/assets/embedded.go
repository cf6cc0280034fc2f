package assets

import (
	"embed"
	"fmt"
)

//go:embed styles/* templates/* policies/*
var embedded embed.FS

// EmbeddedLoader loads assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style from embedded assets by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	data, err := e.read(styleAsset, name)
	return string(data), err
}

// LoadTemplate loads an HTML template from embedded assets by name.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	data, err := e.read(templateAsset, name)
	return string(data), err
}

// LoadPolicy loads a sanitization policy from embedded assets by name.
func (e *EmbeddedLoader) LoadPolicy(name string) ([]byte, error) {
	return e.read(policyAsset, name)
}

func (e *EmbeddedLoader) read(a asset, name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	content, err := embedded.ReadFile(a.dir + "/" + name + a.ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", a.notFound, name)
	}
	return content, nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
