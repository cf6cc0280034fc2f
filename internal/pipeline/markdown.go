package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// HTMLConverter abstracts Markdown to HTML fragment conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions and syntax highlighting.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // classes survive sanitization, inline styles do not
				),
			),
		),
		// No auto heading IDs: they would collide with document anchors.
		goldmark.WithRendererOptions(
			html.WithHardWraps(), // Treat newlines as <br>
			html.WithXHTML(),     // Self-closing tags, as the sanitizer emits them
			// WithUnsafe() is not used: raw HTML in Markdown notes is dropped.
		),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to an HTML fragment.
// Goldmark has no context support, so conversion runs in a goroutine and
// the caller stops waiting on cancellation.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// MarkdownRenderer runs the full Markdown stage for one annotation body.
// It is safe for concurrent use.
type MarkdownRenderer struct {
	pre       MarkdownPreprocessor
	converter HTMLConverter
}

// NewMarkdownRenderer returns a renderer using Goldmark.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		pre:       &CommonMarkPreprocessor{},
		converter: NewGoldmarkConverter(),
	}
}

// Render converts Markdown source to an HTML fragment.
func (r *MarkdownRenderer) Render(ctx context.Context, src string) (string, error) {
	out, err := r.converter.ToHTML(ctx, r.pre.PreprocessMarkdown(ctx, src))
	if err != nil {
		return "", err
	}
	return ConvertMarkPlaceholders(out), nil
}
