package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/collation/pkg/config"
	"github.com/yaklabco/collation/pkg/lint"
)

// sourceIndent lines source context up under the message.
const sourceIndent = "        "

// FormatDiagnostic renders one diagnostic, with the offending source line
// and a caret when sourceLine is not empty.
func (s *Styles) FormatDiagnostic(diag *lint.Diagnostic, sourceLine string, ruleFormat config.RuleFormat) string {
	var b strings.Builder

	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(diag.FilePath), diag.StartLine, diag.StartColumn)
	rule := s.RuleID.Render("(" + config.FormatRuleID(ruleFormat, diag.RuleID, diag.RuleName) + ")")
	fmt.Fprintf(&b, "  %s  %s  %s  %s\n", location, s.FormatSeverity(diag.Severity), s.Message.Render(diag.Message), rule)

	if sourceLine != "" {
		b.WriteString(sourceIndent + s.SourceLine.Render(sourceLine) + "\n")
		if diag.StartColumn > 0 {
			b.WriteString(sourceIndent + strings.Repeat(" ", diag.StartColumn-1) + s.Caret.Render("^") + "\n")
		}
	}

	if diag.Suggestion != "" {
		b.WriteString("    " + s.Dim.Render("Suggestion:") + " " + s.Suggestion.Render(diag.Suggestion) + "\n")
	}
	return b.String()
}

// FormatSeverity returns a styled severity word.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatFileHeader renders a file path with its issue count.
func (s *Styles) FormatFileHeader(path string, issues int) string {
	header := s.FilePath.Render(path)
	if issues > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%s)", Plural(issues, "issue", "issues")))
	}
	return header
}

// Plural renders n with the singular or plural word.
func Plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
