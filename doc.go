// Package rfcnotes merges community annotations into line-numbered
// renderings of reference documents.
//
// # Quick Start
//
// Create an annotator, annotate a document, and write the page:
//
//	ann, err := rfcnotes.NewAnnotator(rfcnotes.WithPolicy("default"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := ann.Annotate(ctx, rfcnotes.Input{
//	    Document:       "rfc9000",
//	    Text:           text,
//	    AnnotationDirs: []string{"annotations"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("rfc9000.html", res.HTML, 0644)
//
// # Annotation Pipeline
//
//  1. Discovery of "<document>.*" files below the annotation directories
//  2. Parsing of metadata lines and bodies (plain text, HTML or Markdown)
//  3. Resolution of @@...@@ references and sanitization of HTML bodies
//  4. Sorting, removal of eclipsed generated errata, fragment resolution
//  5. Merge of annotation blocks before the lines they reference
//  6. Page rendering with the embedded template and style
//
// # Configuration
//
// Use functional options to customize the annotator:
//
//	ann, err := rfcnotes.NewAnnotator(
//	    rfcnotes.WithPolicy("/etc/rfcnotes/policy.yaml"),
//	    rfcnotes.WithErrata("errata.json", "errata.patch"),
//	    rfcnotes.WithLocalDocuments("791", "9000"),
//	    rfcnotes.WithLogger(logger),
//	)
//
// An Annotator is safe for concurrent use. Diagnostics are collected per
// call and returned in Result.Diagnostics.
//
// # Custom Assets
//
// Override the embedded page template, annotation template, styles and
// policies with WithAssetPath:
//
//	assets/
//	├── policies/
//	│   └── strict.yaml
//	├── styles/
//	│   └── custom.css
//	└── templates/
//	    ├── annotation.html
//	    └── page.html
package rfcnotes
