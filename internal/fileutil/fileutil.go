// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrFileExists is returned by WriteNew when the target file is already present.
var ErrFileExists = errors.New("file already exists")

// FilteredFiles lists the regular file names in dir that start with prefix and
// end with suffix, sorted by name. A missing directory yields an empty list.
func FilteredFiles(dir, prefix, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, suffix) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// WriteNew writes content to path, creating parent directories as needed.
// An existing file is left untouched and ErrFileExists is returned.
func WriteNew(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrFileExists, path)
		}
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if _, writeErr := f.WriteString(content); writeErr != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr := f.Close(); closeErr != nil {
		_ = os.Remove(path)
		return fmt.Errorf("closing %s: %w", path, closeErr)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "default" -> false (embedded policy name)
//   - "./policy.yaml" -> true (relative path)
//   - "/etc/rfcnotes/policy.yaml" -> true (absolute)
//   - "strict-policy" -> false (hyphenated name)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// DocumentNumber extracts the numeric document id from a file name such as
// "rfc8650.erratum.123" or "rfc9000.txt". The second result is false when the
// name does not start with prefix followed by digits.
func DocumentNumber(name, prefix string) (string, bool) {
	base := filepath.Base(name)
	if len(base) < len(prefix) || !strings.EqualFold(base[:len(prefix)], prefix) {
		return "", false
	}
	rest := base[len(prefix):]
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return "", false
	}
	return rest[:end], true
}
