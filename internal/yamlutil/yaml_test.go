package yamlutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-rfcnotes/internal/yamlutil"
)

type testPolicy struct {
	Allowed  []string            `yaml:"allowed"`
	Children map[string][]string `yaml:"allowed-children"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Parses YAML and JSON documents into Go structs
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "yaml list and map",
			data: []byte("allowed: [p, b]\nallowed-children:\n  ul: [li]\n"),
			dest: &testPolicy{},
			check: func(t *testing.T, v any) {
				p := v.(*testPolicy)
				if len(p.Allowed) != 2 || p.Allowed[1] != "b" {
					t.Errorf("Allowed = %v", p.Allowed)
				}
				if got := p.Children["ul"]; len(got) != 1 || got[0] != "li" {
					t.Errorf("Children[ul] = %v", got)
				}
			},
		},
		{
			name: "json document",
			data: []byte(`{"allowed": ["pre"], "allowed-children": {"pre": ["a"]}}`),
			dest: &testPolicy{},
			check: func(t *testing.T, v any) {
				p := v.(*testPolicy)
				if len(p.Allowed) != 1 || p.Allowed[0] != "pre" {
					t.Errorf("Allowed = %v", p.Allowed)
				}
			},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testPolicy{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("allowed: [p]"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "invalid syntax",
			data:    []byte("allowed: [unclosed"),
			dest:    &testPolicy{},
			wantErr: errors.New("yamlutil:"), // partial match
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error containing %v", tt.wantErr)
				}
				if !errors.Is(err, tt.wantErr) && !strings.Contains(err.Error(), tt.wantErr.Error()) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

func TestUnmarshalStrict_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	data := []byte("allowed: [p]\nforbidden: [x]\n")

	if err := yamlutil.Unmarshal(data, &testPolicy{}); err != nil {
		t.Fatalf("lenient unmarshal failed: %v", err)
	}
	if err := yamlutil.UnmarshalStrict(data, &testPolicy{}); err == nil {
		t.Fatal("strict unmarshal should reject unknown field")
	}
}

func TestUnmarshal_TooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("allowed: [" + strings.Repeat("p,", yamlutil.MaxInputSize) + "p]")
	err := yamlutil.Unmarshal(data, &testPolicy{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Fatalf("error = %v, want ErrInputTooLarge", err)
	}
}

func TestDecodeFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	if err := os.WriteFile(path, []byte("allowed: [div]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var p testPolicy
	if err := yamlutil.DecodeFile(path, &p, true); err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if len(p.Allowed) != 1 || p.Allowed[0] != "div" {
		t.Errorf("Allowed = %v", p.Allowed)
	}

	if err := yamlutil.DecodeFile(filepath.Join(dir, "missing.yaml"), &p, true); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}
