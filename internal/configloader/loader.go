// Package configloader discovers, parses, validates and merges collation
// configuration from config files, a .env file, the environment and
// command-line flags.
package configloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/collation/internal/logging"
	"github.com/yaklabco/collation/pkg/config"
	"github.com/yaklabco/collation/pkg/lint"
	"github.com/yaklabco/collation/pkg/matcher"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	// If set, project config discovery is skipped.
	ExplicitPath string

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips environment variables and the .env file.
	IgnoreEnv bool

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config

	// Registry resolves rule keys. Defaults to lint.DefaultRegistry.
	Registry *lint.Registry
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Imports is the compiled form of Config.ImportRules.
	Imports *matcher.Set

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (COLLATION_*)
//  3. COLLATION_* entries of a .env file in the working directory
//  4. Explicit config file (opts.ExplicitPath), or else the project config
//     (.collation.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/collation/config.yaml)
//  6. Defaults
//
// Every error wraps ErrInvalidConfig.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	logger := logging.FromContext(ctx)

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}
	registry := opts.Registry
	if registry == nil {
		registry = lint.DefaultRegistry
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath
	result := &LoadResult{Paths: paths}

	var files []string
	if !opts.IgnoreUserConfig && paths.User != "" {
		files = append(files, paths.User)
	}
	switch {
	case paths.Explicit != "":
		files = append(files, paths.Explicit)
	case !opts.IgnoreProjectConfig && paths.Project != "":
		files = append(files, paths.Project)
	}

	cfg := config.NewConfig()
	for _, path := range files {
		fileCfg, err := loadConfigFile(path)
		if err != nil {
			return nil, err
		}
		validation := ValidateWithFile(fileCfg, path, registry)
		if err := validation.Err(); err != nil {
			return nil, err
		}
		for _, w := range validation.Warnings {
			result.Warnings = append(result.Warnings, w.Error())
		}

		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, path)
		logger.Debug("loaded config", logging.FieldPath, path)
	}

	if !opts.IgnoreEnv {
		dotEnv := paths.DotEnv
		src, err := newEnvSource(dotEnv)
		if err != nil {
			return nil, err
		}
		if err := applyEnv(cfg, src); err != nil {
			return nil, err
		}
		if dotEnv != "" {
			logger.Debug("read environment file", logging.FieldPath, dotEnv)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg, registry)
	if err := validation.Err(); err != nil {
		return nil, err
	}

	imports, err := matcher.Compile(cfg.ImportRules)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, importRulesKey, err)
	}

	result.Config = cfg
	result.Imports = imports
	return result, nil
}

// loadConfigFile parses one YAML config file. The import rules are checked
// against the JSON Schema first so shape errors name the offending key;
// unknown top-level keys are rejected.
func loadConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidConfig, path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, &ValidationError{FilePath: path, Message: fmt.Sprintf("parse YAML: %v", err)}
	}
	if err := validateImportRulesSchema(doc, path); err != nil {
		return nil, err
	}

	cfg := &config.Config{}
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ValidationError{FilePath: path, Message: fmt.Sprintf("parse YAML: %v", err)}
	}

	if cfg.Rules == nil {
		cfg.Rules = make(map[string]config.RuleConfig)
	}
	return cfg, nil
}
