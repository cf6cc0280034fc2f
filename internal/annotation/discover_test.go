package annotation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-rfcnotes/internal/diag"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestFindFiles
// ---------------------------------------------------------------------------

func TestFindFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "rfc9000.notes"), "x")
	writeFile(t, filepath.Join(root, "rfc90001.notes"), "x")
	writeFile(t, filepath.Join(root, "sub", "rfc9000.more"), "x")
	writeFile(t, filepath.Join(root, ".git", "rfc9000.git"), "x")
	writeFile(t, filepath.Join(root, "skip", IgnoreMarker), "")
	writeFile(t, filepath.Join(root, "skip", "rfc9000.skipped"), "x")
	writeFile(t, filepath.Join(root, "skip", "deeper", "rfc9000.deeper"), "x")

	dc := diag.NewCollector(nil)
	got := FindFiles([]string{root, filepath.Join(root, "missing")}, "rfc9000", dc)

	want := []string{
		filepath.Join(root, "rfc9000.notes"),
		filepath.Join(root, "sub", "rfc9000.more"),
	}
	if len(got) != len(want) {
		t.Fatalf("FindFiles() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FindFiles()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if n := dc.Count(diag.KindIO); n != 1 {
		t.Errorf("io diagnostics = %d, want 1", n)
	}
}

// ---------------------------------------------------------------------------
// TestCollect
// ---------------------------------------------------------------------------

func TestCollect(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "rfc9000.a"), "#T example\n#C first\nbody\n")
	writeFile(t, filepath.Join(root, "rfc9000.b"), "#T obsoleted\n#C second\nbody\n")
	writeFile(t, filepath.Join(root, "rfc9000.broken"), "#C broken\n")
	writeFile(t, filepath.Join(root, "_generated", "rfc9000.erratum.7"), "#X errata_id:7\n#C generated\nbody\n")
	writeFile(t, filepath.Join(root, "rfc9000.erratum.7"), "#X errata_id:7\n#C edited\nbody\n")

	dc := diag.NewCollector(nil)
	p := NewParser(Config{})
	got, err := Collect(context.Background(), p, []string{root}, "rfc9000", dc)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	want := []string{"second", "first", "edited"}
	if len(got) != len(want) {
		t.Fatalf("Collect() returned %d records, want %d", len(got), len(want))
	}
	for i, r := range got {
		if r.Caption != want[i] {
			t.Errorf("got[%d].Caption = %q, want %q", i, r.Caption, want[i])
		}
	}
	if n := dc.Count(diag.KindFormat); n != 1 {
		t.Errorf("format diagnostics = %d, want 1", n)
	}
}

func TestCollect_CancelledContext(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "rfc1.a"), "body\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Collect(ctx, NewParser(Config{}), []string{root}, "rfc1", nil); err == nil {
		t.Error("Collect() error = nil, want context error")
	}
}
