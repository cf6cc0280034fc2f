package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	rfcnotes "github.com/alnah/go-rfcnotes"
	"github.com/alnah/go-rfcnotes/internal/assets"
	"github.com/alnah/go-rfcnotes/internal/config"
	"github.com/alnah/go-rfcnotes/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrReadDocument = errors.New("failed to read document")
	ErrWriteOutput  = errors.New("failed to write output")
)

// Annotator is the interface for the annotation service.
type Annotator interface {
	Annotate(ctx context.Context, in rfcnotes.Input) (*rfcnotes.Result, error)
}

// Compile-time interface implementation check.
var _ Annotator = (*rfcnotes.Annotator)(nil)

// DocumentResult holds the outcome of a single document.
type DocumentResult struct {
	Job        documentJob
	OutputPath string
	Result     *rfcnotes.Result
	Err        error
	Duration   time.Duration
}

// batchParams groups parameters shared across the documents of a batch.
type batchParams struct {
	outputDir   string
	annotations []string
	workers     int
}

// runAnnotateCmd annotates the selected documents and writes one page each.
func runAnnotateCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseAnnotateFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common, flags.sources, env, func(cfg *config.Config) {
		mergeAnnotateFlags(flags, cfg)
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

	lock, err := lockDir(cfg.Output.Dir)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	ann, err := newAnnotator(cfg, jobs, logger)
	if err != nil {
		return err
	}
	if perr := ann.PolicyError(); perr != nil && cfg.Policy != "" {
		fmt.Fprintf(env.Stderr, "warning: %v%s\n", perr, hints.ForPolicyNotFound([]string{assets.DefaultPolicyName}))
	}

	workers := rfcnotes.ResolvePoolSize(cfg.Workers)
	logger.Debug("annotating", slog.Int("documents", len(jobs)), slog.Int("workers", workers))

	results := annotateBatch(ctx, ann, jobs, &batchParams{
		outputDir:   cfg.Output.Dir,
		annotations: annotationDirs(cfg),
		workers:     workers,
	})

	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d document(s) failed", failed, len(results))
	}
	return nil
}

// mergeAnnotateFlags applies annotate-specific flags to cfg (CLI wins).
func mergeAnnotateFlags(flags *annotateFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Output.Dir = flags.output
	}
	if flags.workers != 0 {
		cfg.Workers = flags.workers
	}
	if flags.threshold != 0 {
		cfg.Parser.StableThreshold = flags.threshold
	}
	if flags.noMarkdown {
		cfg.Parser.Markdown = false
	}
	if flags.assets.policy != "" {
		cfg.Policy = flags.assets.policy
	}
	if flags.assets.style != "" {
		cfg.Style = flags.assets.style
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
}

// newAnnotator builds the shared annotator of a run. Every selected
// document counts as rendered locally for link resolution.
func newAnnotator(cfg *config.Config, jobs []documentJob, logger *slog.Logger) (*rfcnotes.Annotator, error) {
	opts := []rfcnotes.Option{
		rfcnotes.WithAssetPath(cfg.Assets.BasePath),
		rfcnotes.WithStyle(cfg.Style),
		rfcnotes.WithPolicy(cfg.Policy),
		rfcnotes.WithRegistry(rfcnotes.Registry{
			Prefix:    cfg.Registry.Prefix,
			LocalURL:  cfg.Registry.LocalURL,
			RemoteURL: cfg.Registry.RemoteURL,
			ErrataURL: cfg.Registry.ErrataURL,
		}),
		rfcnotes.WithLocalDocuments(numbers(jobs)...),
		rfcnotes.WithMarkdown(cfg.Parser.Markdown),
		rfcnotes.WithLogger(logger),
	}
	if cfg.Parser.StableThreshold > 0 {
		opts = append(opts, rfcnotes.WithStableThreshold(cfg.Parser.StableThreshold))
	}
	if cfg.Sources.Errata != "" {
		opts = append(opts, rfcnotes.WithErrata(cfg.Sources.Errata, cfg.Sources.Patches))
	}

	ann, err := rfcnotes.NewAnnotator(opts...)
	switch {
	case errors.Is(err, rfcnotes.ErrStyleNotFound):
		return nil, fmt.Errorf("%w%s", err, hints.ForStyleNotFound([]string{assets.DefaultStyleName}))
	case errors.Is(err, rfcnotes.ErrErrataSource):
		return nil, fmt.Errorf("%w%s", err, hints.ForMissingSource(envErrata, "errata"))
	case err != nil:
		return nil, err
	}
	return ann, nil
}

// annotateBatch processes documents concurrently with a fixed number of workers.
func annotateBatch(ctx context.Context, ann Annotator, jobs []documentJob, params *batchParams) []DocumentResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := max(1, min(params.workers, len(jobs)))

	results := make([]DocumentResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = DocumentResult{Job: jobs[idx], Err: ctx.Err()}
					continue
				}
				results[idx] = annotateDocument(ctx, ann, jobs[idx], params)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// annotateDocument processes a single document and returns the result.
func annotateDocument(ctx context.Context, ann Annotator, job documentJob, params *batchParams) DocumentResult {
	start := time.Now()
	result := DocumentResult{
		Job:        job,
		OutputPath: filepath.Join(params.outputDir, job.Name+".html"),
	}

	text, err := os.ReadFile(job.Path) // #nosec G304 -- selected document path
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrReadDocument, err)
		result.Duration = time.Since(start)
		return result
	}

	res, err := ann.Annotate(ctx, rfcnotes.Input{
		Document:       job.Name,
		Text:           string(text),
		AnnotationDirs: params.annotations,
	})
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	result.Result = res

	// #nosec G306 -- pages are meant to be readable
	if err := os.WriteFile(result.OutputPath, res.HTML, filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	result.Duration = time.Since(start)
	return result
}
