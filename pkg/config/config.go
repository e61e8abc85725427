// Package config defines core configuration types for collation.
// These types are pure data structures; loading and validation live in
// internal/configloader.
package config

// Severity represents the severity level of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// RuleConfig holds per-rule configuration options.
type RuleConfig struct {
	Enabled  *bool          `yaml:"enabled,omitempty"`
	Severity *string        `yaml:"severity,omitempty" validate:"omitempty,oneof=error warning info"`
	Options  map[string]any `yaml:"options,omitempty"`
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatDiff  OutputFormat = "diff"
)

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "exports-last"
	RuleFormatID       RuleFormat = "id"       // "CL003"
	RuleFormatCombined RuleFormat = "combined" // "CL003/exports-last"
)

// Config is the root configuration structure for collation.
type Config struct {
	// SeverityDefault is the default severity for rules that don't specify one.
	SeverityDefault string `yaml:"severity_default,omitempty" validate:"omitempty,oneof=error warning info"`

	// Rules contains per-rule configuration keyed by rule ID.
	Rules map[string]RuleConfig `yaml:"rules,omitempty" validate:"dive"`

	// ImportRules maps a module specifier to the rules that move its
	// imports elsewhere.
	ImportRules ImportRules `yaml:"import_rules,omitempty" validate:"dive,dive"`

	// Include contains glob patterns that restrict discovery. Empty means
	// every source file.
	Include []string `yaml:"include,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty"`

	// CLI-level options (not persisted to config files).

	// DryRun computes fixes without writing files.
	DryRun bool `yaml:"-"`

	// PrintDiagnostics prints every diagnostic, not just the summary.
	PrintDiagnostics bool `yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"-" validate:"omitempty,oneof=text table json diff"`

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat RuleFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-" validate:"gte=0"`

	// IncludeRules limits the run to these rule names or IDs.
	IncludeRules []string `yaml:"-"`

	// ExcludeRules removes these rule names or IDs from the run.
	ExcludeRules []string `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		SeverityDefault: string(SeverityWarning),
		Rules:           make(map[string]RuleConfig),
		ImportRules:     make(ImportRules),
		Format:          FormatText,
		RuleFormat:      RuleFormatCombined,
		Jobs:            0, // 0 means use GOMAXPROCS
	}
}
