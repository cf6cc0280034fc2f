package rfcnotes

import (
	"log/slog"
)

// Option configures an Annotator.
type Option func(*Annotator)

// annotatorConfig holds the options of an Annotator before resolution.
type annotatorConfig struct {
	assetPath       string
	style           string
	policy          string
	errataPath      string
	patchesPath     string
	registry        Registry
	local           []string
	stableThreshold int
	markdown        bool
}

// WithAssetPath sets a directory whose styles, templates and policies
// override the embedded ones.
func WithAssetPath(path string) Option {
	return func(a *Annotator) {
		a.cfg.assetPath = path
	}
}

// WithStyle selects the page style by name or file path.
func WithStyle(nameOrPath string) Option {
	return func(a *Annotator) {
		a.cfg.style = nameOrPath
	}
}

// WithPolicy selects the sanitization policy by name or file path.
// The default is the embedded "default" policy. An empty value turns
// filtering off: HTML bodies then pass through unfiltered.
func WithPolicy(nameOrPath string) Option {
	return func(a *Annotator) {
		a.cfg.policy = nameOrPath
	}
}

// WithErrata loads the errata corpus used to flag outdated erratum
// annotations. patchesPath may be empty.
func WithErrata(errataPath, patchesPath string) Option {
	return func(a *Annotator) {
		a.cfg.errataPath = errataPath
		a.cfg.patchesPath = patchesPath
	}
}

// WithRegistry overrides the link targets. Empty fields keep their default.
func WithRegistry(reg Registry) Option {
	return func(a *Annotator) {
		def := a.cfg.registry
		if reg.Prefix == "" {
			reg.Prefix = def.Prefix
		}
		if reg.LocalURL == "" {
			reg.LocalURL = def.LocalURL
		}
		if reg.RemoteURL == "" {
			reg.RemoteURL = def.RemoteURL
		}
		if reg.ErrataURL == "" {
			reg.ErrataURL = def.ErrataURL
		}
		a.cfg.registry = reg
	}
}

// WithLocalDocuments lists the document numbers rendered alongside;
// references to them get relative links.
func WithLocalDocuments(numbers ...string) Option {
	return func(a *Annotator) {
		a.cfg.local = append(a.cfg.local, numbers...)
	}
}

// WithStableThreshold sets the first document number whose line numbers
// may change between renderings.
// Panics if n <= 0 (programmer error, similar to time.NewTicker).
func WithStableThreshold(n int) Option {
	if n <= 0 {
		panic("rfcnotes: WithStableThreshold must be positive")
	}
	return func(a *Annotator) {
		a.cfg.stableThreshold = n
	}
}

// WithMarkdown enables or disables "#X format:markdown" bodies.
func WithMarkdown(enabled bool) Option {
	return func(a *Annotator) {
		a.cfg.markdown = enabled
	}
}

// WithLogger sets the logger diagnostics are mirrored to.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Annotator) {
		if logger != nil {
			a.logger = logger
		}
	}
}
