// Package lint provides the rule engine, diagnostics, and registry for collation.
package lint

import (
	"github.com/yaklabco/collation/pkg/config"
	"github.com/yaklabco/collation/pkg/fix"
)

// Diagnostic represents a single policy violation found in a file.
type Diagnostic struct {
	// RuleID is the identifier of the rule that produced this diagnostic.
	RuleID string

	// RuleName is the human-readable name of the rule (e.g., "exports-last").
	RuleName string

	// Message is the human-readable description of the issue.
	Message string

	// Severity indicates the importance of the diagnostic.
	Severity config.Severity

	// FilePath is the path to the file containing the issue.
	FilePath string

	// StartLine is the 1-based line number where the issue starts.
	StartLine int

	// StartColumn is the 1-based column number where the issue starts.
	StartColumn int

	// EndLine is the 1-based line number where the issue ends.
	EndLine int

	// EndColumn is the 1-based column number where the issue ends.
	EndColumn int

	// Suggestion is an optional hint, such as the neighbour an element
	// should be placed next to.
	Suggestion string
}

// RuleResult is the outcome of applying one rule to one file.
type RuleResult struct {
	RuleID   string
	RuleName string
	Path     string

	// Diagnostics are the violations found on the first pass.
	Diagnostics []Diagnostic

	// Before and After are the file contents around the invocation.
	Before []byte
	After  []byte

	// Diff is the unified diff from Before to After, nil when unchanged.
	Diff *fix.Diff

	// Passes is the number of passes the engine ran.
	Passes int

	// EditsApplied counts edits applied across all passes.
	EditsApplied int

	// Deferred counts edits left over when the pass budget ran out.
	Deferred int
}

// Changed reports whether the rule modified the file.
func (r *RuleResult) Changed() bool {
	return r.Diff != nil
}

// Rule defines the interface that all rules must implement.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "CL003").
	// Rules run in ID order.
	ID() string

	// Name returns the human-readable name of the rule.
	Name() string

	// Description returns a detailed description of what the rule checks.
	Description() string

	// DefaultEnabled returns whether the rule is enabled by default.
	DefaultEnabled() bool

	// DefaultSeverity returns the default severity for this rule.
	DefaultSeverity() config.Severity

	// Tags returns categorization tags for this rule (e.g., ["imports"]).
	Tags() []string

	// CanFix returns whether this rule can auto-fix issues.
	CanFix() bool

	// Apply executes the rule against the given context and returns diagnostics.
	//
	// Rules must:
	//   - Return diagnostics for each violation found.
	//   - Propose fixes through the RuleContext edit methods.
	//   - Respect context cancellation.
	//   - Return error only for internal failures, not violations.
	Apply(ctx *RuleContext) ([]Diagnostic, error)
}
