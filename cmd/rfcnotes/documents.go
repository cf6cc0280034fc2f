package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-rfcnotes/internal/config"
	"github.com/alnah/go-rfcnotes/internal/fileutil"
)

// Sentinel errors for document selection.
var (
	ErrNoDocuments     = errors.New("no documents found")
	ErrInvalidDocument = errors.New("invalid document")
)

// documentJob is one document selected for processing.
type documentJob struct {
	Name   string // "rfc9000"
	Number string // "9000"
	Path   string // plain text source
}

// resolveDocuments selects the documents of a run.
// Priority: positional arguments > documents.list > every document in documents.dir.
// Arguments are document ids ("rfc9000", "9000") or paths to text files.
// Duplicates are dropped, keeping the first occurrence.
func resolveDocuments(args []string, cfg *config.Config) ([]documentJob, error) {
	prefix := strings.ToLower(cfg.Registry.Prefix)

	ids := args
	if len(ids) == 0 {
		ids = cfg.Documents.List
	}
	if len(ids) == 0 {
		names, err := fileutil.FilteredFiles(cfg.Documents.Dir, prefix, ".txt")
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			if _, ok := fileutil.DocumentNumber(n, prefix); ok {
				ids = append(ids, filepath.Join(cfg.Documents.Dir, n))
			}
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("%w in %s", ErrNoDocuments, cfg.Documents.Dir)
		}
	}

	seen := make(map[string]bool, len(ids))
	jobs := make([]documentJob, 0, len(ids))
	for _, id := range ids {
		job, err := documentFor(id, prefix, cfg.Documents.Dir)
		if err != nil {
			return nil, err
		}
		if seen[job.Name] {
			continue
		}
		seen[job.Name] = true
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// documentFor turns a document id or path into a job.
func documentFor(id, prefix, dir string) (documentJob, error) {
	id = strings.TrimSpace(id)
	if fileutil.IsFilePath(id) || strings.HasSuffix(id, ".txt") {
		nr, ok := fileutil.DocumentNumber(id, prefix)
		if !ok {
			return documentJob{}, fmt.Errorf("%w: %q is not named %s<number>.txt", ErrInvalidDocument, id, prefix)
		}
		return documentJob{Name: prefix + nr, Number: nr, Path: id}, nil
	}

	nr := id
	if len(id) >= len(prefix) && strings.EqualFold(id[:len(prefix)], prefix) {
		nr = strings.TrimSpace(id[len(prefix):])
	}
	if nr == "" || strings.Trim(nr, "0123456789") != "" {
		return documentJob{}, fmt.Errorf("%w: %q", ErrInvalidDocument, id)
	}
	name := prefix + nr
	return documentJob{Name: name, Number: nr, Path: filepath.Join(dir, name+".txt")}, nil
}

// names returns the document names of jobs.
func names(jobs []documentJob) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Name
	}
	return out
}

// numbers returns the document numbers of jobs.
func numbers(jobs []documentJob) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Number
	}
	return out
}

// annotationDirs returns the directories searched for annotation files:
// the configured ones plus the generated directory unless it already lies
// below one of them.
func annotationDirs(cfg *config.Config) []string {
	dirs := append([]string(nil), cfg.Annotations.Dirs...)
	gen := cfg.GeneratedDir()
	for _, d := range dirs {
		if rel, err := filepath.Rel(d, gen); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return dirs
		}
	}
	return append(dirs, gen)
}
