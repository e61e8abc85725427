package lint

import "github.com/yaklabco/collation/pkg/config"

// BaseRule provides a default implementation of the Rule metadata methods.
// Embed this in rule implementations and implement Apply.
//
// Fields are unexported to avoid stutter and name collisions with interface methods.
type BaseRule struct {
	id       string   // Unique identifier (e.g., "CL001")
	name     string   // Human-readable name
	desc     string   // Detailed description
	tags     []string // Categorization tags
	fixable  bool     // Whether the rule can auto-fix
	disabled bool     // Whether the rule is opt-in
	severity config.Severity
}

// NewBaseRule creates a BaseRule with the given properties. The rule is
// enabled by default with warning severity.
func NewBaseRule(id, name, desc string, tags []string, fixable bool) BaseRule {
	return BaseRule{
		id:       id,
		name:     name,
		desc:     desc,
		tags:     tags,
		fixable:  fixable,
		severity: config.SeverityWarning,
	}
}

// OptIn returns a copy of the rule that is disabled by default.
func (r BaseRule) OptIn() BaseRule {
	r.disabled = true
	return r
}

// WithSeverity returns a copy of the rule with another default severity.
func (r BaseRule) WithSeverity(s config.Severity) BaseRule {
	r.severity = s
	return r
}

// ID returns the unique identifier for this rule.
func (r *BaseRule) ID() string {
	return r.id
}

// Name returns the human-readable name of the rule.
func (r *BaseRule) Name() string {
	return r.name
}

// Description returns a detailed description of what the rule checks.
func (r *BaseRule) Description() string {
	return r.desc
}

// DefaultEnabled returns whether the rule is enabled by default.
func (r *BaseRule) DefaultEnabled() bool {
	return !r.disabled
}

// DefaultSeverity returns the default severity for this rule.
func (r *BaseRule) DefaultSeverity() config.Severity {
	return r.severity
}

// Tags returns categorization tags for this rule.
func (r *BaseRule) Tags() []string {
	return r.tags
}

// CanFix returns whether this rule can auto-fix issues.
func (r *BaseRule) CanFix() bool {
	return r.fixable
}
