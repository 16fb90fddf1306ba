// Package configloader provides configuration loading and resolution:
// XDG-compliant discovery, hierarchical merging, and environment variable
// overrides.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/gemrst/rst2gem/pkg/config"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to the current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	// If set, project config discovery is skipped.
	ExplicitPath string

	// IgnoreEnv skips environment variable overrides.
	IgnoreEnv bool

	// CLIConfig contains configuration from CLI flags. These take highest
	// precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded, in order.
	LoadedFrom []string
}

// Load resolves the final configuration by merging all sources.
// Precedence, highest to lowest:
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (RST2GEM_*)
//  3. Explicit config file (opts.ExplicitPath or RST2GEM_CONFIG)
//  4. Project config (.rst2gem.yaml upward search)
//  5. User config ($XDG_CONFIG_HOME/rst2gem/config.yaml)
//  6. System config (/etc/rst2gem/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}

	explicit := opts.ExplicitPath
	if explicit == "" && !opts.IgnoreEnv {
		explicit = os.Getenv(envVarPrefix + "CONFIG")
	}
	paths.Explicit = explicit

	result := &LoadResult{Paths: paths}
	cfg := config.Default()

	layers := []string{paths.System, paths.User}
	if explicit != "" {
		layers = append(layers, explicit)
	} else {
		layers = append(layers, paths.Project)
	}

	for _, path := range layers {
		if path == "" {
			continue
		}
		layer, err := loadFile(path)
		if err != nil {
			// An explicit path must exist; discovered layers already did.
			return nil, err
		}
		cfg = cfg.Merge(layer)
		result.LoadedFrom = append(result.LoadedFrom, path)
	}

	if !opts.IgnoreEnv {
		env, err := LoadFromEnv()
		if err != nil {
			return nil, err
		}
		cfg = cfg.Merge(env)
	}

	cfg = cfg.Merge(opts.CLIConfig)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	result.Config = cfg
	return result, nil
}

// loadFile parses one YAML configuration file.
func loadFile(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := config.FromYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
