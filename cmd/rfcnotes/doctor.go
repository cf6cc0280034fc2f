package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-rfcnotes/internal/assets"
	"github.com/alnah/go-rfcnotes/internal/config"
	"github.com/alnah/go-rfcnotes/internal/errata"
	"github.com/alnah/go-rfcnotes/internal/fileutil"
	"github.com/alnah/go-rfcnotes/internal/sanitize"
	"github.com/alnah/go-rfcnotes/internal/status"
)

// Doctor statuses.
const (
	doctorReady    = "ready"
	doctorWarnings = "warnings"
	doctorErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Sources  sourcesInfo `json:"sources"`
	Assets   assetsInfo  `json:"assets"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// sourcesInfo holds the state of the cached collaborator data.
type sourcesInfo struct {
	DocumentsDir   string   `json:"documents_dir"`
	Documents      int      `json:"documents"`
	AnnotationDirs []string `json:"annotation_dirs"`
	Errata         int      `json:"errata"`
	Index          int      `json:"index_entries"`
}

// assetsInfo holds asset resolution results.
type assetsInfo struct {
	Policy       string `json:"policy"`
	PolicyLoaded bool   `json:"policy_loaded"`
	Style        string `json:"style"`
	StyleLoaded  bool   `json:"style_loaded"`
	CustomPath   string `json:"custom_path,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	OS             string `json:"os"`
	Arch           string `json:"arch"`
	OutputDir      string `json:"output_dir"`
	OutputWritable bool   `json:"output_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	var common commonFlags
	var sources sourceFlags
	var jsonOutput bool
	var index, output string
	addCommonFlags(fs, &common)
	addSourceFlags(fs, &sources)
	fs.StringVar(&index, "index", "", "cached registry index XML")
	fs.StringVarP(&output, "output", "o", "", "output directory to check")
	fs.BoolVar(&jsonOutput, "json", false, "print results as JSON")
	fs.Usage = func() { printDoctorUsage(env.Stderr) }
	if err := parse(fs, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	cfg, err := loadConfig(common, sources, env, func(cfg *config.Config) {
		if index != "" {
			cfg.Sources.Index = index
		}
		if output != "" {
			cfg.Output.Dir = output
		}
	})
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	result := runDoctor(cfg)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == doctorErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config) *doctorResult {
	result := &doctorResult{
		Status: doctorReady,
		System: systemInfo{OS: runtime.GOOS, Arch: runtime.GOARCH},
	}

	checkSources(cfg, result)
	checkAssets(cfg, result)
	checkOutput(cfg, result)

	if len(result.Errors) > 0 {
		result.Status = doctorErrors
	} else if len(result.Warnings) > 0 {
		result.Status = doctorWarnings
	}
	return result
}

// checkSources verifies documents, annotation directories and caches.
func checkSources(cfg *config.Config, result *doctorResult) {
	src := &result.Sources
	src.DocumentsDir = cfg.Documents.Dir

	if jobs, err := resolveDocuments(nil, cfg); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Documents: %v", err))
	} else {
		src.Documents = len(jobs)
	}

	for _, dir := range annotationDirs(cfg) {
		src.AnnotationDirs = append(src.AnnotationDirs, dir)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Annotation directory missing: %s", dir))
		}
	}

	if cfg.Sources.Errata == "" {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("No errata list configured: erratum checksums are not verified (set %s)", envErrata))
	} else {
		var patches errata.Patches
		var err error
		if cfg.Sources.Patches != "" {
			patches, err = errata.LoadPatches(cfg.Sources.Patches)
		}
		var corpus *errata.Corpus
		if err == nil {
			corpus, err = errata.LoadCorpus(cfg.Sources.Errata, patches)
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Errata: %v", err))
		} else {
			src.Errata = corpus.Len()
		}
	}

	if cfg.Sources.Index == "" {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("No registry index configured: 'generate status' is unavailable (set %s)", envIndex))
	} else if ix, err := status.LoadIndex(cfg.Sources.Index); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Registry index: %v", err))
	} else {
		src.Index = ix.Len()
	}
}

// checkAssets verifies the policy and style resolve.
func checkAssets(cfg *config.Config, result *doctorResult) {
	result.Assets.Policy = cfg.Policy
	result.Assets.Style = cfg.Style
	if result.Assets.Style == "" {
		result.Assets.Style = assets.DefaultStyleName
	}

	resolver, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Asset path: %v", err))
		return
	}
	if resolver.HasCustomLoader() {
		result.Assets.CustomPath = cfg.Assets.BasePath
	}

	switch {
	case cfg.Policy == "":
		result.Warnings = append(result.Warnings, "No sanitization policy: HTML annotations are NOT filtered")
	default:
		if fileutil.IsFilePath(cfg.Policy) {
			_, err = sanitize.LoadPolicy(cfg.Policy)
		} else {
			var data []byte
			if data, err = resolver.LoadPolicy(cfg.Policy); err == nil {
				_, err = sanitize.ParsePolicy(data)
			}
		}
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Policy %q unusable, HTML annotations are NOT filtered: %v", cfg.Policy, err))
		} else {
			result.Assets.PolicyLoaded = true
		}
	}

	if fileutil.IsFilePath(result.Assets.Style) {
		_, err = os.Stat(result.Assets.Style)
	} else {
		_, err = resolver.LoadStyle(result.Assets.Style)
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Style %q: %v", result.Assets.Style, err))
	} else {
		result.Assets.StyleLoaded = true
	}
}

// checkOutput verifies the output directory accepts new files.
func checkOutput(cfg *config.Config, result *doctorResult) {
	dir := cfg.Output.Dir
	result.System.OutputDir = dir

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Output directory does not exist yet: %s", dir))
		return
	}
	testFile := filepath.Join(dir, ".rfcnotes-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Output directory not writable: %s", dir))
		return
	}
	_ = os.Remove(testFile)
	result.System.OutputWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "rfcnotes doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Sources")
	fmt.Fprintf(w, "  [OK] Documents: %d in %s\n", r.Sources.Documents, r.Sources.DocumentsDir)
	if r.Sources.Errata > 0 {
		fmt.Fprintf(w, "  [OK] Errata: %d cached\n", r.Sources.Errata)
	}
	if r.Sources.Index > 0 {
		fmt.Fprintf(w, "  [OK] Registry index: %d entries\n", r.Sources.Index)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Assets")
	if r.Assets.CustomPath != "" {
		fmt.Fprintf(w, "  [OK] Custom assets: %s\n", r.Assets.CustomPath)
	}
	if r.Assets.PolicyLoaded {
		fmt.Fprintf(w, "  [OK] Policy: %s\n", r.Assets.Policy)
	} else {
		fmt.Fprintln(w, "  [WARN] Policy: none")
	}
	if r.Assets.StyleLoaded {
		fmt.Fprintf(w, "  [OK] Style: %s\n", r.Assets.Style)
	} else {
		fmt.Fprintf(w, "  [ERROR] Style: %s\n", r.Assets.Style)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.System.OS, r.System.Arch)
	if r.System.OutputWritable {
		fmt.Fprintf(w, "  [OK] Output directory: %s writable\n", r.System.OutputDir)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case doctorReady:
		fmt.Fprintln(w, "Status: Ready to annotate")
	case doctorWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case doctorErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
