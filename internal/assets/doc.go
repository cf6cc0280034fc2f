// Package assets provides the HTML templates, stylesheet and default
// sanitization policy used to render annotated documents.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from the go:embed filesystem
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is what the command line tool uses: an operator can override
// a single template or the policy while keeping every other built-in asset.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css      # page stylesheet
//	├── templates/
//	│   └── {name}.html     # html/template sources (annotation, page)
//	└── policies/
//	    └── {name}.yaml     # sanitization policy documents
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
