package main

import (
	"errors"
	"os"

	rfcnotes "github.com/alnah/go-rfcnotes"
	"github.com/alnah/go-rfcnotes/internal/config"
	"github.com/alnah/go-rfcnotes/internal/errata"
	"github.com/alnah/go-rfcnotes/internal/status"
)

// Exit codes for the rfcnotes CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every document processed
	ExitGeneral = 1 // General/unexpected error, or some documents failed
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, output locked
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, rfcnotes.ErrErrataSource) ||
		errors.Is(err, errata.ErrCorpus) ||
		errors.Is(err, status.ErrIndex) ||
		errors.Is(err, ErrNoDocuments) ||
		errors.Is(err, ErrLocked) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, rfcnotes.ErrStyleNotFound) ||
		errors.Is(err, rfcnotes.ErrTemplateNotFound) ||
		errors.Is(err, rfcnotes.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidDocument) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrMissingSource) ||
		errors.Is(err, ErrInvalidFlags) {
		return ExitUsage
	}

	return ExitGeneral
}
