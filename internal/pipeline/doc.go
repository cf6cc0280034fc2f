// Package pipeline renders Markdown annotation bodies to HTML fragments.
//
// Stages, in order:
//   - Markdown preprocessing (line normalization, ==highlight== syntax)
//   - Markdown to HTML conversion via Goldmark, raw HTML disabled
//   - Highlight placeholder expansion to <mark>
//
// The fragment is not trusted: callers run it through the sanitizer like any
// other annotation body.
package pipeline
