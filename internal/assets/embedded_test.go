package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestEmbeddedLoader(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	t.Run("annotation template", func(t *testing.T) {
		t.Parallel()

		got, err := loader.LoadTemplate(AnnotationTemplate)
		if err != nil {
			t.Fatalf("LoadTemplate() error = %v", err)
		}
		if !strings.Contains(got, "{{range .Entries}}") && !strings.Contains(got, "{{- range .Entries}}") {
			t.Error("annotation template does not range over entries")
		}
	})

	t.Run("page template", func(t *testing.T) {
		t.Parallel()

		got, err := loader.LoadTemplate(PageTemplate)
		if err != nil {
			t.Fatalf("LoadTemplate() error = %v", err)
		}
		if !strings.HasPrefix(got, "<!DOCTYPE html>") {
			t.Error("page template should start with a doctype")
		}
	})

	t.Run("default style", func(t *testing.T) {
		t.Parallel()

		got, err := loader.LoadStyle(DefaultStyleName)
		if err != nil {
			t.Fatalf("LoadStyle() error = %v", err)
		}
		if !strings.Contains(got, ".annotation") {
			t.Error("default style lacks annotation rules")
		}
	})

	t.Run("default policy", func(t *testing.T) {
		t.Parallel()

		got, err := loader.LoadPolicy(DefaultPolicyName)
		if err != nil {
			t.Fatalf("LoadPolicy() error = %v", err)
		}
		if !strings.Contains(string(got), "forbidden-attributes:") {
			t.Error("default policy lacks forbidden-attributes")
		}
	})

	t.Run("not found errors", func(t *testing.T) {
		t.Parallel()

		if _, err := loader.LoadTemplate("nonexistent"); !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("LoadTemplate() error = %v, want ErrTemplateNotFound", err)
		}
		if _, err := loader.LoadStyle("nonexistent"); !errors.Is(err, ErrStyleNotFound) {
			t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
		}
		if _, err := loader.LoadPolicy("nonexistent"); !errors.Is(err, ErrPolicyNotFound) {
			t.Errorf("LoadPolicy() error = %v, want ErrPolicyNotFound", err)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		t.Parallel()

		if _, err := loader.LoadPolicy("../default"); !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadPolicy() error = %v, want ErrInvalidAssetName", err)
		}
	})
}

func TestPackageLevelLoaders(t *testing.T) {
	t.Parallel()

	if _, err := LoadTemplate(AnnotationTemplate); err != nil {
		t.Errorf("LoadTemplate() error = %v", err)
	}
	if _, err := LoadStyle(DefaultStyleName); err != nil {
		t.Errorf("LoadStyle() error = %v", err)
	}
	if _, err := LoadPolicy(DefaultPolicyName); err != nil {
		t.Errorf("LoadPolicy() error = %v", err)
	}
}

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "simple name", input: "default"},
		{name: "name with hyphen", input: "strict-policy"},
		{name: "name with underscore", input: "my_page"},
		{name: "empty name", input: "", wantErr: ErrInvalidAssetName},
		{name: "forward slash", input: "path/to/page", wantErr: ErrInvalidAssetName},
		{name: "backslash", input: "path\\page", wantErr: ErrInvalidAssetName},
		{name: "dot dot", input: "..", wantErr: ErrInvalidAssetName},
		{name: "extension", input: "page.html", wantErr: ErrInvalidAssetName},
		{name: "null byte", input: "page\x00", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateAssetName(%q) unexpected error: %v", tt.input, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAssetName(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
