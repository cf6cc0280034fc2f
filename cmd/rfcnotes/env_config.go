package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-rfcnotes/internal/config"
)

// Environment variable names.
const (
	envPrefix       = "RFCNOTES_"
	envConfigPath   = "RFCNOTES_CONFIG"
	envPolicy       = "RFCNOTES_POLICY"
	envStyle        = "RFCNOTES_STYLE"
	envDocumentsDir = "RFCNOTES_DOCUMENTS_DIR"
	envAnnotations  = "RFCNOTES_ANNOTATIONS"
	envOutputDir    = "RFCNOTES_OUTPUT_DIR"
	envErrata       = "RFCNOTES_ERRATA"
	envPatches      = "RFCNOTES_PATCHES"
	envIndex        = "RFCNOTES_INDEX"
	envWorkers      = "RFCNOTES_WORKERS"
	envLogLevel     = "RFCNOTES_LOG_LEVEL"
	envLogFormat    = "RFCNOTES_LOG_FORMAT"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath   string   // RFCNOTES_CONFIG: config file name or path
	Policy       string   // RFCNOTES_POLICY: policy name or path
	Style        string   // RFCNOTES_STYLE: style name or path
	DocumentsDir string   // RFCNOTES_DOCUMENTS_DIR: base document directory
	Annotations  []string // RFCNOTES_ANNOTATIONS: annotation dirs, os.PathListSeparator separated
	OutputDir    string   // RFCNOTES_OUTPUT_DIR: output directory
	Errata       string   // RFCNOTES_ERRATA: errata JSON list
	Patches      string   // RFCNOTES_PATCHES: errata patch file
	Index        string   // RFCNOTES_INDEX: registry index XML
	Workers      int      // RFCNOTES_WORKERS: parallel workers
	LogLevel     string   // RFCNOTES_LOG_LEVEL: debug, info, warn, error
	LogFormat    string   // RFCNOTES_LOG_FORMAT: text, json
}

// knownEnvVars lists valid RFCNOTES_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	envConfigPath:   true,
	envPolicy:       true,
	envStyle:        true,
	envDocumentsDir: true,
	envAnnotations:  true,
	envOutputDir:    true,
	envErrata:       true,
	envPatches:      true,
	envIndex:        true,
	envWorkers:      true,
	envLogLevel:     true,
	envLogFormat:    true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:   os.Getenv(envConfigPath),
		Policy:       os.Getenv(envPolicy),
		Style:        os.Getenv(envStyle),
		DocumentsDir: os.Getenv(envDocumentsDir),
		OutputDir:    os.Getenv(envOutputDir),
		Errata:       os.Getenv(envErrata),
		Patches:      os.Getenv(envPatches),
		Index:        os.Getenv(envIndex),
		LogLevel:     os.Getenv(envLogLevel),
		LogFormat:    os.Getenv(envLogFormat),
	}

	if dirs := os.Getenv(envAnnotations); dirs != "" {
		for _, d := range filepath.SplitList(dirs) {
			if d != "" {
				cfg.Annotations = append(cfg.Annotations, d)
			}
		}
	}

	// Parse int for workers
	if workers := os.Getenv(envWorkers); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized RFCNOTES_* variables.
// Helps catch typos like RFCNOTES_ERATA instead of RFCNOTES_ERRATA.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by the command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Policy != "" {
		cfg.Policy = env.Policy
	}
	if env.Style != "" {
		cfg.Style = env.Style
	}
	if env.DocumentsDir != "" {
		cfg.Documents.Dir = env.DocumentsDir
	}
	if len(env.Annotations) > 0 {
		cfg.Annotations.Dirs = env.Annotations
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Errata != "" {
		cfg.Sources.Errata = env.Errata
	}
	if env.Patches != "" {
		cfg.Sources.Patches = env.Patches
	}
	if env.Index != "" {
		cfg.Sources.Index = env.Index
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
}
