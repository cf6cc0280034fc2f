package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// TestLockDir - Exclusive output directory
// ---------------------------------------------------------------------------

func TestLockDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out", "nested")

	first, err := lockDir(dir)
	if err != nil {
		t.Fatalf("lockDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, lockFileName)); err != nil {
		t.Errorf("lock file not created: %v", err)
	}

	if _, err := lockDir(dir); !errors.Is(err, ErrLocked) {
		t.Errorf("second lockDir() error = %v, want ErrLocked", err)
	}

	if err := first.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	again, err := lockDir(dir)
	if err != nil {
		t.Fatalf("lockDir() after unlock error = %v", err)
	}
	_ = again.Unlock()
}

func TestLockDir_UncreatableDirectory(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	file := filepath.Join(parent, "file")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, err := lockDir(filepath.Join(file, "out"))
	if !errors.Is(err, ErrWriteOutput) {
		t.Errorf("lockDir() error = %v, want ErrWriteOutput", err)
	}
}
