// Package config loads and validates the YAML configuration of a run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-rfcnotes/internal/fileutil"
	"github.com/alnah/go-rfcnotes/internal/logging"
	"github.com/alnah/go-rfcnotes/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength   = 4096 // Linux PATH_MAX
	MaxURLLength    = 2048 // Browser limit
	MaxPrefixLength = 20   // "RFC", "BCP"
	MaxNameLength   = 100  // Style or policy name
	MaxDocuments    = 100000
	MaxWorkers      = 64
)

// Default values.
const (
	DefaultConfigDir       = "go-rfcnotes"
	DefaultGeneratedFolder = "_generated"
	DefaultStableThreshold = 8650
	DefaultPrefix          = "RFC"
	DefaultPolicy          = "default"
	DefaultLocalURL        = "./rfc%s.html"
	DefaultRemoteURL       = "https://www.rfc-editor.org/rfc/rfc%s.html"
	DefaultErrataURL       = "https://www.rfc-editor.org/errata/eid%s"
)

// Config holds all configuration for an annotation run.
type Config struct {
	Documents   DocumentsConfig   `yaml:"documents"`
	Annotations AnnotationsConfig `yaml:"annotations"`
	Output      OutputConfig      `yaml:"output"`
	Sources     SourcesConfig     `yaml:"sources"`
	Policy      string            `yaml:"policy"` // Embedded policy name or file path (empty = no filtering)
	Style       string            `yaml:"style"`  // Embedded style name or file path (empty = default)
	Assets      AssetsConfig      `yaml:"assets"`
	Registry    RegistryConfig    `yaml:"registry"`
	Parser      ParserConfig      `yaml:"parser"`
	Workers     int               `yaml:"workers"` // 0 = GOMAXPROCS
	Log         LogConfig         `yaml:"log"`
}

// DocumentsConfig selects the base documents.
type DocumentsConfig struct {
	Dir  string   `yaml:"dir"`  // Directory holding rfcNNNN.txt files
	List []string `yaml:"list"` // Document ids; empty = every document in Dir
}

// AnnotationsConfig locates annotation files.
type AnnotationsConfig struct {
	Dirs         []string `yaml:"dirs"`
	GeneratedDir string   `yaml:"generatedDir"` // Empty = <first dir>/_generated
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Empty = current directory
}

// SourcesConfig points at the cached collaborator data.
type SourcesConfig struct {
	Errata  string `yaml:"errata"`  // errata.json
	Patches string `yaml:"patches"` // errata.patch (optional)
	Index   string `yaml:"index"`   // rfc-index.xml
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// RegistryConfig defines document link targets.
type RegistryConfig struct {
	Prefix    string `yaml:"prefix"`
	LocalURL  string `yaml:"localURL"`
	RemoteURL string `yaml:"remoteURL"`
	ErrataURL string `yaml:"errataURL"`
}

// ParserConfig tunes annotation parsing.
type ParserConfig struct {
	StableThreshold int  `yaml:"stableThreshold"` // First document with unstable line numbers
	Markdown        bool `yaml:"markdown"`        // Honor "#X format:markdown"
}

// LogConfig defines logging options.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Validate checks field lengths and values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	paths := map[string]string{
		"documents.dir":            c.Documents.Dir,
		"annotations.generatedDir": c.Annotations.GeneratedDir,
		"output.dir":               c.Output.Dir,
		"sources.errata":           c.Sources.Errata,
		"sources.patches":          c.Sources.Patches,
		"sources.index":            c.Sources.Index,
		"assets.basePath":          c.Assets.BasePath,
		"policy":                   c.Policy,
		"style":                    c.Style,
	}
	for name, value := range paths {
		if err := validateFieldLength(name, value, MaxPathLength); err != nil {
			return err
		}
	}
	for i, d := range c.Annotations.Dirs {
		if err := validateFieldLength(fmt.Sprintf("annotations.dirs[%d]", i), d, MaxPathLength); err != nil {
			return err
		}
	}
	if len(c.Documents.List) > MaxDocuments {
		return fmt.Errorf("%w: documents.list has %d entries, max %d", ErrInvalidValue, len(c.Documents.List), MaxDocuments)
	}
	for i, d := range c.Documents.List {
		if err := validateFieldLength(fmt.Sprintf("documents.list[%d]", i), d, MaxNameLength); err != nil {
			return err
		}
	}

	if err := validateFieldLength("registry.prefix", c.Registry.Prefix, MaxPrefixLength); err != nil {
		return err
	}
	urls := []struct{ name, value string }{
		{"registry.localURL", c.Registry.LocalURL},
		{"registry.remoteURL", c.Registry.RemoteURL},
		{"registry.errataURL", c.Registry.ErrataURL},
	}
	for _, u := range urls {
		if err := validateFieldLength(u.name, u.value, MaxURLLength); err != nil {
			return err
		}
		if u.value != "" && strings.Count(u.value, "%s") != 1 {
			return fmt.Errorf("%w: %s must contain exactly one %%s, got %q", ErrInvalidValue, u.name, u.value)
		}
	}

	if c.Parser.StableThreshold < 0 {
		return fmt.Errorf("%w: parser.stableThreshold must not be negative, got %d", ErrInvalidValue, c.Parser.StableThreshold)
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	if c.Log.Level != "" {
		if _, err := logging.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("%w: log.level: %v", ErrInvalidValue, err)
		}
	}
	if c.Log.Format != "" {
		if _, err := logging.ParseFormat(c.Log.Format); err != nil {
			return fmt.Errorf("%w: log.format: %v", ErrInvalidValue, err)
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Documents:   DocumentsConfig{Dir: "."},
		Annotations: AnnotationsConfig{Dirs: []string{"annotations"}},
		Output:      OutputConfig{Dir: "."},
		Policy:      DefaultPolicy,
		Registry: RegistryConfig{
			Prefix:    DefaultPrefix,
			LocalURL:  DefaultLocalURL,
			RemoteURL: DefaultRemoteURL,
			ErrataURL: DefaultErrataURL,
		},
		Parser: ParserConfig{StableThreshold: DefaultStableThreshold, Markdown: true},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// GeneratedDir returns the directory generated annotation files go to.
func (c *Config) GeneratedDir() string {
	if c.Annotations.GeneratedDir != "" {
		return c.Annotations.GeneratedDir
	}
	base := "."
	if len(c.Annotations.Dirs) > 0 {
		base = c.Annotations.Dirs[0]
	}
	return filepath.Join(base, DefaultGeneratedFolder)
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values missing from the file keep their DefaultConfig value.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeFile(configPath, cfg, true); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths returns the candidate files for config name, in lookup order.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-rfcnotes/
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, DefaultConfigDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file of SearchPaths.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
