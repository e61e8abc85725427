package lint

import (
	"github.com/yaklabco/collation/pkg/config"
	"github.com/yaklabco/collation/pkg/tsast"
)

// DiagnosticBuilder helps construct Diagnostic values.
type DiagnosticBuilder struct {
	diag Diagnostic
}

// NewDiagnostic starts building a diagnostic covering span in file.
func NewDiagnostic(ruleID string, file *tsast.File, span tsast.Span, message string) *DiagnosticBuilder {
	b := &DiagnosticBuilder{
		diag: Diagnostic{
			RuleID:  ruleID,
			Message: message,
		},
	}
	if file != nil {
		b.diag.FilePath = file.Path
		b.diag.StartLine, b.diag.StartColumn = file.Position(span.Start)
		b.diag.EndLine, b.diag.EndColumn = file.Position(span.End)
	}
	return b
}

// NewDiagnosticAt starts building a diagnostic at a specific position.
func NewDiagnosticAt(ruleID, filePath string, line, column int, message string) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		diag: Diagnostic{
			RuleID:      ruleID,
			Message:     message,
			FilePath:    filePath,
			StartLine:   line,
			StartColumn: column,
			EndLine:     line,
			EndColumn:   column,
		},
	}
}

// WithRuleName sets the rule's human-readable name.
func (b *DiagnosticBuilder) WithRuleName(name string) *DiagnosticBuilder {
	b.diag.RuleName = name
	return b
}

// WithSeverity sets the severity.
func (b *DiagnosticBuilder) WithSeverity(s config.Severity) *DiagnosticBuilder {
	b.diag.Severity = s
	return b
}

// WithSuggestion sets a human-readable hint.
func (b *DiagnosticBuilder) WithSuggestion(s string) *DiagnosticBuilder {
	b.diag.Suggestion = s
	return b
}

// Build returns the constructed Diagnostic.
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.diag
}
