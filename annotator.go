package rfcnotes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/alnah/go-rfcnotes/internal/annotation"
	"github.com/alnah/go-rfcnotes/internal/assets"
	"github.com/alnah/go-rfcnotes/internal/diag"
	"github.com/alnah/go-rfcnotes/internal/errata"
	"github.com/alnah/go-rfcnotes/internal/fileutil"
	"github.com/alnah/go-rfcnotes/internal/logging"
	"github.com/alnah/go-rfcnotes/internal/merge"
	"github.com/alnah/go-rfcnotes/internal/pipeline"
	"github.com/alnah/go-rfcnotes/internal/sanitize"
	"github.com/alnah/go-rfcnotes/internal/textdoc"
	"github.com/alnah/go-rfcnotes/internal/xref"
)

// Compile-time interface implementation checks.
var (
	_ annotation.MarkdownRenderer = (*pipeline.MarkdownRenderer)(nil)
	_ pipeline.HTMLConverter      = (*pipeline.GoldmarkConverter)(nil)
	_ assets.AssetLoader          = (*assets.AssetResolver)(nil)
)

// Annotator merges annotations into documents.
// Create with NewAnnotator and call Annotate once per document.
// It is read-only after construction and safe for concurrent use.
type Annotator struct {
	cfg       annotatorConfig
	logger    *slog.Logger
	loader    assets.AssetLoader
	sanitizer *sanitize.Sanitizer
	policyErr error
	parser    *annotation.Parser
	engine    *merge.Engine
	page      *template.Template
	style     template.CSS

	policyWarning sync.Once
}

// NewAnnotator creates an Annotator with default configuration: the embedded
// "default" policy, the default style and the default registry.
// Use options to customize behavior (e.g., WithPolicy, WithErrata).
// Returns error if assets, templates or the errata corpus cannot be loaded.
// A policy that cannot be loaded is not an error: HTML bodies then pass
// through unfiltered and PolicyError reports why.
func NewAnnotator(opts ...Option) (*Annotator, error) {
	a := &Annotator{
		cfg: annotatorConfig{
			registry: DefaultRegistry(),
			policy:   assets.DefaultPolicyName,
			markdown: true,
		},
		logger: logging.Discard(),
	}

	for _, opt := range opts {
		opt(a)
	}

	resolver, err := assets.NewAssetResolver(a.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	a.loader = resolver

	if err := a.resolveStyle(); err != nil {
		return nil, err
	}
	if err := a.loadPage(); err != nil {
		return nil, err
	}

	a.sanitizer = sanitize.New(a.resolvePolicy())

	corpus, err := a.loadCorpus()
	if err != nil {
		return nil, err
	}

	annotationSrc, err := a.loader.LoadTemplate(assets.AnnotationTemplate)
	if err != nil {
		return nil, convertAssetError(err)
	}
	a.engine, err = merge.NewEngine(annotationSrc, merge.WithErrataURL(a.cfg.registry.ErrataURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	xr := xref.NewResolver(xref.Registry{
		Prefix:    a.cfg.registry.Prefix,
		LocalURL:  a.cfg.registry.LocalURL,
		RemoteURL: a.cfg.registry.RemoteURL,
	}, a.cfg.local)

	pcfg := annotation.Config{
		Sanitizer:       a.sanitizer,
		Resolver:        xr,
		Corpus:          corpus,
		StableThreshold: a.cfg.stableThreshold,
		DocPrefix:       strings.ToLower(a.cfg.registry.Prefix),
	}
	if a.cfg.markdown {
		pcfg.Markdown = pipeline.NewMarkdownRenderer()
	}
	a.parser = annotation.NewParser(pcfg)

	return a, nil
}

// PolicyError returns why no sanitization policy is active, or nil.
func (a *Annotator) PolicyError() error {
	return a.policyErr
}

// Annotate discovers, parses and merges the annotations of one document
// and renders the annotated page.
// Malformed annotation files and unresolved references do not fail the
// call; they are reported in Result.Diagnostics.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (a *Annotator) Annotate(ctx context.Context, in Input) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	doc := strings.ToLower(strings.TrimSpace(in.Document))
	if doc == "" {
		return nil, fmt.Errorf("%w: missing document name", ErrEmptyDocument)
	}
	lines := in.Lines
	if lines == nil {
		lines = textdoc.Render(in.Text)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, doc)
	}

	dc := diag.NewCollector(a.logger.With("document", doc))
	if !a.sanitizer.Enabled() {
		a.policyWarning.Do(func() {
			dc.Warn(diag.KindPolicy, "", "no sanitization policy, HTML annotations are NOT filtered: %v", a.policyErr)
		})
	}

	records, err := annotation.Collect(ctx, a.parser, in.AnnotationDirs, doc, dc)
	if err != nil {
		return nil, err
	}

	merged, err := a.engine.Merge(merge.Input{
		Document: strings.ToUpper(doc),
		Lines:    lines,
		Records:  records,
	}, dc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	title := in.Title
	if title == "" {
		title = strings.ToUpper(doc)
	}
	page, err := a.renderPage(title, merged)
	if err != nil {
		return nil, err
	}

	return &Result{
		HTML:        page,
		Body:        merged.Body,
		LastDate:    merged.LastDate,
		Records:     len(records),
		Blocks:      merged.Blocks,
		Orphans:     merged.Orphans,
		Types:       merged.Types,
		Diagnostics: dc.Items(),
	}, nil
}

// AnnotateFile reads the plain text document at path and annotates it.
// The document name is derived from the file name ("rfc9000.txt").
func (a *Annotator) AnnotateFile(ctx context.Context, path string, dirs []string) (*Result, error) {
	prefix := strings.ToLower(a.cfg.registry.Prefix)
	nr, ok := fileutil.DocumentNumber(path, prefix)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not named %s<number>", ErrEmptyDocument, path, prefix)
	}
	lines, err := textdoc.Load(path)
	if err != nil {
		return nil, err
	}
	return a.Annotate(ctx, Input{
		Document:       prefix + nr,
		Lines:          lines,
		AnnotationDirs: dirs,
	})
}

type pageView struct {
	Title   string
	Style   template.CSS
	Class   string
	Lines   []template.HTML
	Updated string
}

func (a *Annotator) renderPage(title string, merged *merge.Result) ([]byte, error) {
	view := pageView{
		Title:   title,
		Style:   a.style,
		Class:   merged.Class(),
		Lines:   make([]template.HTML, len(merged.Body)),
		Updated: merged.LastDate,
	}
	for i, l := range merged.Body {
		view.Lines[i] = template.HTML(l) // #nosec G203 -- escaped by textdoc or sanitized
	}
	var buf bytes.Buffer
	if err := a.page.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// resolveStyle resolves the style input (name or path) to CSS content.
func (a *Annotator) resolveStyle() error {
	input := a.cfg.style
	if input == "" {
		input = assets.DefaultStyleName
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("%w: loading style file %q: %v", ErrStyleNotFound, input, err)
		}
		a.style = template.CSS(content) // #nosec G203 -- operator-provided stylesheet
		return nil
	}

	css, err := a.loader.LoadStyle(input)
	if err != nil {
		return convertAssetError(err)
	}
	a.style = template.CSS(css) // #nosec G203 -- bundled or operator-provided stylesheet
	return nil
}

func (a *Annotator) loadPage() error {
	src, err := a.loader.LoadTemplate(assets.PageTemplate)
	if err != nil {
		return convertAssetError(err)
	}
	a.page, err = template.New(assets.PageTemplate).Parse(src)
	if err != nil {
		return fmt.Errorf("%w: parsing page template: %v", ErrRender, err)
	}
	return nil
}

// resolvePolicy loads the configured policy. Failures are kept in policyErr
// and yield a nil policy.
func (a *Annotator) resolvePolicy() *sanitize.Policy {
	input := a.cfg.policy
	if input == "" {
		a.policyErr = fmt.Errorf("%w: none configured", ErrPolicyNotFound)
		return nil
	}

	var data []byte
	var err error
	if fileutil.IsFilePath(input) {
		data, err = os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			a.policyErr = fmt.Errorf("%w: %v", ErrPolicyNotFound, err)
			return nil
		}
	} else {
		data, err = a.loader.LoadPolicy(input)
		if err != nil {
			a.policyErr = convertAssetError(err)
			return nil
		}
	}

	p, err := sanitize.ParsePolicy(data)
	if err != nil {
		a.policyErr = fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
		return nil
	}
	return p
}

func (a *Annotator) loadCorpus() (*errata.Corpus, error) {
	if a.cfg.errataPath == "" {
		return nil, nil
	}
	var patches errata.Patches
	if a.cfg.patchesPath != "" {
		var err error
		patches, err = errata.LoadPatches(a.cfg.patchesPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrErrataSource, err)
		}
	}
	corpus, err := errata.LoadCorpus(a.cfg.errataPath, patches)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrErrataSource, err)
	}
	return corpus, nil
}

// convertAssetError maps internal asset errors to public sentinel errors,
// keeping the original in the chain.
func convertAssetError(err error) error {
	switch {
	case errors.Is(err, assets.ErrStyleNotFound):
		return fmt.Errorf("%w: %w", ErrStyleNotFound, err)
	case errors.Is(err, assets.ErrTemplateNotFound):
		return fmt.Errorf("%w: %w", ErrTemplateNotFound, err)
	case errors.Is(err, assets.ErrPolicyNotFound):
		return fmt.Errorf("%w: %w", ErrPolicyNotFound, err)
	case errors.Is(err, assets.ErrInvalidAssetName):
		return fmt.Errorf("%w: %w", ErrInvalidAssetPath, err)
	}
	return err
}
