package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alnah/go-rfcnotes/internal/config"
	"github.com/alnah/go-rfcnotes/internal/diag"
	"github.com/alnah/go-rfcnotes/internal/errata"
	"github.com/alnah/go-rfcnotes/internal/hints"
	"github.com/alnah/go-rfcnotes/internal/status"
	"github.com/alnah/go-rfcnotes/internal/xref"
)

// Sentinel errors for the generate command.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingSource  = errors.New("missing source")
)

// generateSummary is the outcome of a generate run.
type generateSummary struct {
	Kind        string
	Written     []string
	Skipped     []string
	Diagnostics []diag.Diagnostic
}

// runGenerateCmd dispatches "generate errata" and "generate status".
func runGenerateCmd(ctx context.Context, args []string, env *Environment) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		printGenerateUsage(env.Stderr)
		if len(args) == 0 {
			return fmt.Errorf("%w: generate needs errata or status", ErrUnknownCommand)
		}
		return nil
	}

	kind := args[0]
	if kind != "errata" && kind != "status" {
		return fmt.Errorf("%w: generate %s", ErrUnknownCommand, kind)
	}

	flags, positional, err := parseGenerateFlags(kind, args[1:], env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common, flags.sources, env, func(cfg *config.Config) {
		if flags.output != "" {
			cfg.Annotations.GeneratedDir = flags.output
		}
		if flags.index != "" {
			cfg.Sources.Index = flags.index
		}
	})
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, env)
	if err != nil {
		return err
	}

	jobs, err := resolveDocuments(positional, cfg)
	if err != nil {
		return err
	}

	corpus, err := loadErrata(cfg, kind == "errata")
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := cfg.GeneratedDir()
	lock, err := lockDir(dir)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	logger.Debug("generating", slog.String("kind", kind), slog.Int("documents", len(jobs)), slog.String("dir", dir))

	summary := &generateSummary{Kind: kind}
	switch kind {
	case "errata":
		res, err := errata.Generate(corpus, names(jobs), dir)
		summary.Written, summary.Skipped = res.Written, res.Skipped
		if err != nil {
			printGenerateSummary(summary, flags.common.quiet, env)
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
	case "status":
		if err := generateStatus(cfg, corpus, jobs, dir, logger, summary); err != nil {
			printGenerateSummary(summary, flags.common.quiet, env)
			return err
		}
	}

	printGenerateSummary(summary, flags.common.quiet, env)
	return nil
}

// loadErrata reads the cached errata list and its patches. Without a
// configured list it fails when required and returns a nil corpus otherwise.
func loadErrata(cfg *config.Config, required bool) (*errata.Corpus, error) {
	if cfg.Sources.Errata == "" {
		if required {
			return nil, fmt.Errorf("%w: no errata list configured%s", ErrMissingSource, hints.ForMissingSource(envErrata, "errata"))
		}
		return nil, nil
	}

	var patches errata.Patches
	if cfg.Sources.Patches != "" {
		var err error
		if patches, err = errata.LoadPatches(cfg.Sources.Patches); err != nil {
			return nil, fmt.Errorf("%w%s", err, hints.ForMissingSource(envPatches, "patches"))
		}
	}
	corpus, err := errata.LoadCorpus(cfg.Sources.Errata, patches)
	if err != nil {
		return nil, fmt.Errorf("%w%s", err, hints.ForMissingSource(envErrata, "errata"))
	}
	return corpus, nil
}

// generateStatus writes the obsoleted, updated and has-errata annotations
// of jobs from the registry index.
func generateStatus(cfg *config.Config, corpus *errata.Corpus, jobs []documentJob, dir string, logger *slog.Logger, summary *generateSummary) error {
	if cfg.Sources.Index == "" {
		return fmt.Errorf("%w: no registry index configured%s", ErrMissingSource, hints.ForMissingSource(envIndex, "index"))
	}
	ix, err := status.LoadIndex(cfg.Sources.Index)
	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForMissingSource(envIndex, "index"))
	}

	reg := xref.Registry{
		Prefix:    cfg.Registry.Prefix,
		LocalURL:  cfg.Registry.LocalURL,
		RemoteURL: cfg.Registry.RemoteURL,
	}
	b := &status.Builder{
		Resolver:   xref.NewResolver(reg, numbers(jobs)),
		Corpus:     corpus,
		ErratumURL: cfg.Registry.ErrataURL,
	}

	dc := diag.NewCollector(logger)
	res, err := b.Generate(ix, names(jobs), dir, dc)
	summary.Written, summary.Skipped = res.Written, res.Skipped
	summary.Diagnostics = dc.Items()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}
