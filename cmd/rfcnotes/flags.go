package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrInvalidFlags wraps flag parsing failures.
var ErrInvalidFlags = errors.New("invalid flags")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
}

// sourceFlags holds the locations of the cached collaborator data.
type sourceFlags struct {
	documentsDir string
	annotations  []string
	errata       string
	patches      string
}

// assetFlags holds asset-related flags.
type assetFlags struct {
	policy    string
	style     string
	assetPath string
}

// annotateFlags holds all flags for the annotate command.
type annotateFlags struct {
	common     commonFlags
	sources    sourceFlags
	assets     assetFlags
	output     string
	workers    int
	threshold  int
	noMarkdown bool
}

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	common  commonFlags
	sources sourceFlags
	index   string
	output  string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text, json")
}

// addSourceFlags adds document and errata source flags to a FlagSet.
func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVarP(&f.documentsDir, "documents", "d", "", "directory holding rfcNNNN.txt documents")
	fs.StringSliceVarP(&f.annotations, "annotations", "a", nil, "annotation directories (repeatable)")
	fs.StringVar(&f.errata, "errata", "", "cached errata JSON list")
	fs.StringVar(&f.patches, "patches", "", "errata patch file")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.policy, "policy", "", "sanitization policy name or file path")
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// parseAnnotateFlags parses annotate command flags and returns positional args.
func parseAnnotateFlags(args []string, usage io.Writer) (*annotateFlags, []string, error) {
	fs := flag.NewFlagSet("annotate", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &annotateFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.IntVar(&f.threshold, "stable-threshold", 0, "first document number with unstable line numbers")
	fs.BoolVar(&f.noMarkdown, "no-markdown", false, "treat markdown bodies as plain text")

	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.sources)
	addAssetFlags(fs, &f.assets)

	fs.Usage = func() { printAnnotateUsage(usage) }

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseGenerateFlags parses generate subcommand flags and returns positional args.
func parseGenerateFlags(name string, args []string, usage io.Writer) (*generateFlags, []string, error) {
	fs := flag.NewFlagSet("generate "+name, flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &generateFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "directory for generated annotation files")
	fs.StringVar(&f.index, "index", "", "cached registry index XML")

	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.sources)

	fs.Usage = func() { printGenerateUsage(usage) }

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
}
