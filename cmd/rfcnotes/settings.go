package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/alnah/go-rfcnotes/internal/config"
	"github.com/alnah/go-rfcnotes/internal/fileutil"
	"github.com/alnah/go-rfcnotes/internal/hints"
	"github.com/alnah/go-rfcnotes/internal/logging"
)

// loadConfig resolves the configuration of a run.
// Precedence: CLI flags > env vars > config file > defaults.
// apply sets the command-specific flags on top of the environment.
func loadConfig(common commonFlags, sources sourceFlags, env *Environment, apply func(*config.Config)) (*config.Config, error) {
	ec := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg := config.DefaultConfig()
	name := common.config
	if name == "" {
		name = ec.ConfigPath
	}
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			hint := ""
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				hint = hints.ForConfigNotFound(config.SearchPaths(name))
			}
			return nil, fmt.Errorf("loading config: %w%s", err, hint)
		}
	}

	applyEnvConfig(ec, cfg)
	applySourceFlags(sources, cfg)
	if apply != nil {
		apply(cfg)
	}

	if common.logFormat != "" {
		cfg.Log.Format = common.logFormat
	}
	switch {
	case common.verbose:
		cfg.Log.Level = "debug"
	case common.quiet:
		cfg.Log.Level = "error"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applySourceFlags overrides source locations set on the command line.
func applySourceFlags(f sourceFlags, cfg *config.Config) {
	if f.documentsDir != "" {
		cfg.Documents.Dir = f.documentsDir
	}
	if len(f.annotations) > 0 {
		cfg.Annotations.Dirs = f.annotations
	}
	if f.errata != "" {
		cfg.Sources.Errata = f.errata
	}
	if f.patches != "" {
		cfg.Sources.Patches = f.patches
	}
}

// newLogger builds the run logger. Logs go to stderr so stdout only
// carries results.
func newLogger(cfg *config.Config, env *Environment) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return logging.New(env.Stderr, logging.Options{Level: level, Format: format}), nil
}
