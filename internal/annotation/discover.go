package annotation

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alnah/go-rfcnotes/internal/diag"
	"github.com/alnah/go-rfcnotes/internal/fileutil"
)

// IgnoreMarker is a file name that excludes its directory from discovery.
const IgnoreMarker = ".ignore"

// FindFiles returns the annotation files for document doc (e.g. "rfc9000")
// below each of dirs, in directory walk order. A file belongs to doc when
// its name starts with doc followed by a dot. ".git" directories and
// directories containing an IgnoreMarker file are skipped with their
// children. Missing directories are reported and skipped.
func FindFiles(dirs []string, doc string, dc *diag.Collector) []string {
	var files []string
	for _, root := range dirs {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if d.Name() == ".git" || fileutil.FileExists(filepath.Join(path, IgnoreMarker)) {
				return filepath.SkipDir
			}
			names, err := fileutil.FilteredFiles(path, doc+".", "")
			if err != nil {
				return err
			}
			for _, n := range names {
				files = append(files, filepath.Join(path, n))
			}
			return nil
		})
		if errors.Is(err, fs.ErrNotExist) {
			dc.Error(diag.KindIO, root, "directory %q does not exist", root)
			continue
		}
		if err != nil {
			dc.Error(diag.KindIO, root, "scanning %q: %v", root, err)
		}
	}
	return files
}

// Collect parses every annotation file of doc below dirs. Malformed files
// are reported and skipped. The result has eclipsed generated errata
// removed and is sorted for display.
func Collect(ctx context.Context, p *Parser, dirs []string, doc string, dc *diag.Collector) ([]Record, error) {
	var records []Record
	for _, path := range FindFiles(dirs, doc, dc) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs, err := p.ParseFile(ctx, path, dc)
		switch {
		case errors.Is(err, ErrFormat):
			continue
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
			dc.Error(diag.KindIO, path, "%v", err)
			continue
		case err != nil:
			dc.Error(diag.KindFormat, path, "%v", err)
			continue
		}
		records = append(records, recs...)
	}
	Sort(records)
	return RemoveEclipsed(records), nil
}
