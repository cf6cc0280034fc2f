// Package diag collects per-document diagnostics emitted while parsing,
// sanitizing and merging annotations.
//
// A Collector is scoped to one document and is not safe for concurrent use.
// Every recorded diagnostic is mirrored to a structured logger so batch runs
// get a single stream of warnings while callers can still inspect what
// happened to a particular document.
package diag

import (
	"context"
	"fmt"
	"log/slog"
)

// Kind classifies a diagnostic.
type Kind string

// Diagnostic kinds.
const (
	KindFormat     Kind = "format"     // malformed annotation file or metadata
	KindSanitize   Kind = "sanitize"   // HTML content stripped or repaired
	KindUnresolved Kind = "unresolved" // reference that did not match the document
	KindChecksum   Kind = "checksum"   // erratum annotation based on outdated data
	KindPolicy     Kind = "policy"     // sanitization policy unavailable
	KindStability  Kind = "stability"  // line reference that may move between renderings
	KindIO         Kind = "io"         // unreadable file or directory
)

// Diagnostic is a single non-fatal finding.
type Diagnostic struct {
	Kind    Kind
	Level   slog.Level
	Path    string
	Message string
}

// String formats the diagnostic for humans.
func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Kind, d.Message, d.Path)
}

// Collector records diagnostics for one document.
// A nil *Collector is valid and discards everything.
type Collector struct {
	logger *slog.Logger
	items  []Diagnostic
}

// NewCollector creates a Collector mirroring diagnostics to logger.
// A nil logger disables mirroring.
func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Collector{logger: logger}
}

// Warn records a warning.
func (c *Collector) Warn(kind Kind, path, format string, args ...any) {
	c.add(slog.LevelWarn, kind, path, format, args...)
}

// Error records an error-level diagnostic. Processing still continues.
func (c *Collector) Error(kind Kind, path, format string, args ...any) {
	c.add(slog.LevelError, kind, path, format, args...)
}

// Info records an informational diagnostic.
func (c *Collector) Info(kind Kind, path, format string, args ...any) {
	c.add(slog.LevelInfo, kind, path, format, args...)
}

func (c *Collector) add(level slog.Level, kind Kind, path, format string, args ...any) {
	if c == nil {
		return
	}
	d := Diagnostic{
		Kind:    kind,
		Level:   level,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
	c.items = append(c.items, d)

	attrs := []slog.Attr{slog.String("kind", string(kind))}
	if path != "" {
		attrs = append(attrs, slog.String("path", path))
	}
	c.logger.LogAttrs(context.Background(), level, d.Message, attrs...)
}

// Items returns the recorded diagnostics in emission order.
func (c *Collector) Items() []Diagnostic {
	if c == nil {
		return nil
	}
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Count returns the number of diagnostics of the given kind.
func (c *Collector) Count(kind Kind) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, d := range c.items {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Len returns the total number of diagnostics.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}
