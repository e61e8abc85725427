package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/yaklabco/collation/pkg/config"
)

// envVarPrefix is the prefix for all collation environment variables.
const envVarPrefix = "COLLATION_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping binds one environment variable to a config field.
type envMapping struct {
	typ         envFieldType
	description string
	apply       func(cfg *config.Config, value any)
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"SEVERITY_DEFAULT": {
		typ:         envTypeString,
		description: "Default severity: error, warning, or info",
		apply:       func(cfg *config.Config, v any) { cfg.SeverityDefault = v.(string) },
	},
	"FORMAT": {
		typ:         envTypeString,
		description: "Output format: text, table, json, or diff",
		apply:       func(cfg *config.Config, v any) { cfg.Format = config.OutputFormat(v.(string)) },
	},
	"RULE_FORMAT": {
		typ:         envTypeString,
		description: "Rule identifiers in output: name, id, or combined",
		apply:       func(cfg *config.Config, v any) { cfg.RuleFormat = config.RuleFormat(v.(string)) },
	},
	"DRY_RUN": {
		typ:         envTypeBool,
		description: "Compute fixes without writing files: true or false",
		apply:       func(cfg *config.Config, v any) { cfg.DryRun = v.(bool) },
	},
	"PRINT_DIAGNOSTICS": {
		typ:         envTypeBool,
		description: "Print every diagnostic: true or false",
		apply:       func(cfg *config.Config, v any) { cfg.PrintDiagnostics = v.(bool) },
	},
	"JOBS": {
		typ:         envTypeInt,
		description: "Number of parallel workers (0 = auto)",
		apply:       func(cfg *config.Config, v any) { cfg.Jobs = v.(int) },
	},
	"INCLUDE": {
		typ:         envTypeSlice,
		description: "Comma-separated list of file globs to restrict discovery to",
		apply:       func(cfg *config.Config, v any) { cfg.Include = v.([]string) },
	},
	"IGNORE": {
		typ:         envTypeSlice,
		description: "Comma-separated list of file globs to skip",
		apply:       func(cfg *config.Config, v any) { cfg.Ignore = v.([]string) },
	},
	"RULES": {
		typ:         envTypeSlice,
		description: "Comma-separated list of rule names or IDs to run",
		apply:       func(cfg *config.Config, v any) { cfg.IncludeRules = v.([]string) },
	},
	"EXCLUDE_RULES": {
		typ:         envTypeSlice,
		description: "Comma-separated list of rule names or IDs to skip",
		apply:       func(cfg *config.Config, v any) { cfg.ExcludeRules = v.([]string) },
	},
}

// envSource looks up environment variables. The process environment wins
// over values read from a .env file.
type envSource struct {
	dotenv map[string]string
}

// newEnvSource reads COLLATION_* variables from a .env file, if given.
func newEnvSource(dotEnvPath string) (*envSource, error) {
	src := &envSource{dotenv: map[string]string{}}
	if dotEnvPath == "" {
		return src, nil
	}

	values, err := godotenv.Read(dotEnvPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidConfig, dotEnvPath, err)
	}
	for key, value := range values {
		if strings.HasPrefix(key, envVarPrefix) {
			src.dotenv[key] = value
		}
	}
	return src, nil
}

func (s *envSource) lookup(key string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return s.dotenv[key]
}

// LoadFromEnv applies COLLATION_* environment variable overrides to the
// configuration.
func LoadFromEnv(cfg *config.Config) error {
	return applyEnv(cfg, &envSource{})
}

func applyEnv(cfg *config.Config, src *envSource) error {
	if cfg == nil {
		return nil
	}

	for suffix, mapping := range envMappings {
		envVar := envVarPrefix + suffix
		value := src.lookup(envVar)
		if value == "" {
			continue
		}

		parsed, err := parseEnvValue(mapping.typ, value, envVar)
		if err != nil {
			return err
		}
		mapping.apply(cfg, parsed)
	}
	return nil
}

// parseEnvValue converts a raw environment value to the field's type.
func parseEnvValue(typ envFieldType, value, envVar string) (any, error) {
	switch typ {
	case envTypeString:
		return value, nil
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid boolean for %s: %q (expected true/false/1/0)", ErrInvalidConfig, envVar, value)
		}
		return b, nil
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid integer for %s: %q", ErrInvalidConfig, envVar, value)
		}
		return i, nil
	case envTypeSlice:
		return parseSliceValue(value), nil
	default:
		return nil, fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// EnvVar describes one supported environment variable.
type EnvVar struct {
	Name        string
	Description string
}

// ListEnvVars returns the supported environment variables sorted by name.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(envMappings))
	for suffix, mapping := range envMappings {
		vars = append(vars, EnvVar{Name: envVarPrefix + suffix, Description: mapping.description})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}
