package main

// Notes:
// - runGenerateCmd: we test errata and status generation end to end, the
//   no-overwrite rule, and missing sources.
// - loadErrata: we test optional and required corpus loading.

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-rfcnotes/internal/config"
)

// ---------------------------------------------------------------------------
// TestRunGenerateCmd_Errata
// ---------------------------------------------------------------------------

func TestRunGenerateCmd_Errata(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t)
	args := []string{"generate", "errata", "-d", ws.docs, "-a", ws.notes, "--errata", ws.errata, "rfc1234"}

	code, stdout, stderr := runCmd(t, args...)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, stderr)
	}
	path := filepath.Join(ws.notes, config.DefaultGeneratedFolder, "rfc1234.erratum.5")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("generated file missing: %v", err)
	}
	if !strings.HasPrefix(string(data), "#") {
		t.Errorf("unexpected annotation content:\n%s", data)
	}
	if !strings.Contains(stdout, "errata: 1 written, 0 skipped") {
		t.Errorf("unexpected summary: %s", stdout)
	}

	// Existing files are kept.
	if err := os.WriteFile(path, []byte("#C edited\n#\nmanual\n"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	code, stdout, _ = runCmd(t, args...)
	if code != ExitSuccess {
		t.Fatalf("second run exit code = %d", code)
	}
	if !strings.Contains(stdout, "errata: 0 written, 1 skipped") {
		t.Errorf("unexpected summary: %s", stdout)
	}
	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "manual") {
		t.Error("existing annotation overwritten")
	}
}

func TestRunGenerateCmd_ErrataFeedsAnnotate(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t)
	if code, _, stderr := runCmd(t, "generate", "errata", "-q", "-d", ws.docs, "-a", ws.notes, "--errata", ws.errata); code != ExitSuccess {
		t.Fatalf("generate exit code = %d; stderr: %s", code, stderr)
	}
	code, stdout, stderr := runCmd(t, "annotate", "-d", ws.docs, "-a", ws.notes, "-o", ws.out, "--errata", ws.errata)
	if code != ExitSuccess {
		t.Fatalf("annotate exit code = %d; stderr: %s", code, stderr)
	}
	if strings.Contains(stderr, "checksum") {
		t.Errorf("fresh erratum reported as outdated: %s", stderr)
	}
	data, err := os.ReadFile(filepath.Join(ws.out, "rfc1234.html"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), "slow") {
		t.Errorf("erratum correction missing from page")
	}
	if !strings.Contains(stdout, "1 annotated") {
		t.Errorf("unexpected summary: %s", stdout)
	}
}

// ---------------------------------------------------------------------------
// TestRunGenerateCmd_Status
// ---------------------------------------------------------------------------

func TestRunGenerateCmd_Status(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t)
	out := filepath.Join(ws.root, "status")
	code, stdout, stderr := runCmd(t, "generate", "status", "-d", ws.docs, "--index", ws.index, "--errata", ws.errata, "-o", out, "rfc1234")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, stderr)
	}

	obsoleted, err := os.ReadFile(filepath.Join(out, "rfc1234.obsoleted"))
	if err != nil {
		t.Fatalf("obsoleted annotation missing: %v", err)
	}
	if !strings.Contains(string(obsoleted), "RFC2000") {
		t.Errorf("obsoleted annotation does not link RFC2000:\n%s", obsoleted)
	}
	hasErrata, err := os.ReadFile(filepath.Join(out, "rfc1234.has_errata"))
	if err != nil {
		t.Fatalf("has_errata annotation missing: %v", err)
	}
	if !strings.Contains(string(hasErrata), "#5") {
		t.Errorf("has_errata annotation does not list erratum 5:\n%s", hasErrata)
	}
	if !strings.Contains(stdout, "status: 2 written") {
		t.Errorf("unexpected summary: %s", stdout)
	}
}

func TestRunGenerateCmd_StatusUnknownDocument(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t)
	writeTestFile(t, filepath.Join(ws.docs, "rfc7777.txt"), sampleDocument)

	code, stdout, _ := runCmd(t, "generate", "status", "-d", ws.docs, "-a", ws.notes, "--index", ws.index, "rfc7777")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "0 written") || !strings.Contains(stdout, "1 diagnostic(s)") {
		t.Errorf("unexpected summary: %s", stdout)
	}
}

// ---------------------------------------------------------------------------
// TestRunGenerateCmd_Errors
// ---------------------------------------------------------------------------

func TestRunGenerateCmd_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       func(t *testing.T, ws *workspace) []string
		want       int
		wantStderr string
	}{
		{
			name:       "no kind",
			args:       func(*testing.T, *workspace) []string { return []string{"generate"} },
			want:       ExitUsage,
			wantStderr: "Usage: rfcnotes generate",
		},
		{
			name:       "unknown kind",
			args:       func(*testing.T, *workspace) []string { return []string{"generate", "bogus"} },
			want:       ExitUsage,
			wantStderr: "unknown command",
		},
		{
			name: "errata without source",
			args: func(t *testing.T, ws *workspace) []string {
				return []string{"generate", "errata", "-d", ws.docs, "-a", ws.notes}
			},
			want:       ExitUsage,
			wantStderr: envErrata,
		},
		{
			name: "status without index",
			args: func(t *testing.T, ws *workspace) []string {
				return []string{"generate", "status", "-d", ws.docs, "-a", ws.notes}
			},
			want:       ExitUsage,
			wantStderr: envIndex,
		},
		{
			name: "missing errata file",
			args: func(t *testing.T, ws *workspace) []string {
				return []string{"generate", "errata", "-d", ws.docs, "-a", ws.notes, "--errata", filepath.Join(ws.root, "none.json")}
			},
			want:       ExitIO,
			wantStderr: "refresh the cache",
		},
		{
			name: "malformed index",
			args: func(t *testing.T, ws *workspace) []string {
				bad := filepath.Join(ws.root, "bad-index.xml")
				writeTestFile(t, bad, "<rfc-index><rfc-entry>")
				return []string{"generate", "status", "-d", ws.docs, "-a", ws.notes, "--index", bad}
			},
			want:       ExitIO,
			wantStderr: "invalid registry index",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code, _, stderr := runCmd(t, tt.args(t, newWorkspace(t))...)
			if code != tt.want {
				t.Errorf("exit code = %d, want %d; stderr: %s", code, tt.want, stderr)
			}
			if !strings.Contains(stderr, tt.wantStderr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantStderr, stderr)
			}
		})
	}
}

func TestRunGenerateCmd_Help(t *testing.T) {
	t.Parallel()

	code, _, stderr := runCmd(t, "generate", "--help")
	if code != ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, ExitSuccess)
	}
	if !strings.Contains(stderr, "errata") || !strings.Contains(stderr, "status") {
		t.Errorf("usage missing kinds:\n%s", stderr)
	}
}

// ---------------------------------------------------------------------------
// TestLoadErrata
// ---------------------------------------------------------------------------

func TestLoadErrata(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t)

	t.Run("optional and unset", func(t *testing.T) {
		t.Parallel()
		c, err := loadErrata(config.DefaultConfig(), false)
		if err != nil || c != nil {
			t.Errorf("loadErrata() = %v, %v; want nil, nil", c, err)
		}
	})

	t.Run("loads corpus with missing patches", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.Sources.Errata = ws.errata
		cfg.Sources.Patches = filepath.Join(ws.root, "none.patch")
		c, err := loadErrata(cfg, true)
		if err != nil {
			t.Fatalf("loadErrata() error = %v", err)
		}
		if c.Len() != 1 {
			t.Errorf("Len() = %d, want 1", c.Len())
		}
	})
}
