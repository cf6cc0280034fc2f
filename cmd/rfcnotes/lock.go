package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/alnah/go-rfcnotes/internal/hints"
)

// lockFileName is created in every directory a run writes to.
const lockFileName = ".rfcnotes.lock"

// ErrLocked indicates another run is writing to the same directory.
var ErrLocked = errors.New("directory is locked by another run")

// lockDir creates dir if needed and takes an exclusive, non-blocking lock
// on it. Call Unlock on the result when done.
func lockDir(dir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %w%s", ErrWriteOutput, dir, err, hints.ForOutputDirectory())
	}

	path := filepath.Join(dir, lockFileName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s%s", ErrLocked, dir, hints.ForLocked(path))
	}
	return lock, nil
}
