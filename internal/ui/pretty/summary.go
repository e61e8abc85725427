package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/collation/pkg/config"
	"github.com/yaklabco/collation/pkg/runner"
)

// FormatSummaryLine renders run statistics on one line, for example
// "5 issues (2 errors, 3 warnings) in 2 files, 9 edits applied, 2 files written".
func (s *Styles) FormatSummaryLine(stats runner.Stats, dryRun bool) string {
	var parts []string

	if stats.DiagnosticsTotal == 0 {
		parts = append(parts, s.Success.Render("No issues found")+
			s.Dim.Render(fmt.Sprintf(" (%s checked)", Plural(stats.FilesProcessed, "file", "files"))))
	} else {
		var bySeverity []string
		if n := stats.DiagnosticsBySeverity[config.SeverityError]; n > 0 {
			bySeverity = append(bySeverity, s.Error.Render(Plural(n, "error", "errors")))
		}
		if n := stats.DiagnosticsBySeverity[config.SeverityWarning]; n > 0 {
			bySeverity = append(bySeverity, s.Warning.Render(Plural(n, "warning", "warnings")))
		}
		if n := stats.DiagnosticsBySeverity[config.SeverityInfo]; n > 0 {
			bySeverity = append(bySeverity, s.Info.Render(fmt.Sprintf("%d info", n)))
		}
		parts = append(parts, fmt.Sprintf("%s (%s) in %s",
			Plural(stats.DiagnosticsTotal, "issue", "issues"),
			strings.Join(bySeverity, ", "),
			Plural(stats.FilesWithIssues, "file", "files")))
	}

	if stats.EditsApplied > 0 {
		parts = append(parts, s.Success.Render(Plural(stats.EditsApplied, "edit", "edits")+" applied"))
	}
	switch {
	case dryRun && stats.FilesModified > 0:
		parts = append(parts, s.Dim.Render(Plural(stats.FilesModified, "file", "files")+" would change (dry run)"))
	case stats.FilesWritten > 0:
		parts = append(parts, s.Success.Render(Plural(stats.FilesWritten, "file", "files")+" written"))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(Plural(stats.FilesErrored, "file", "files")+" failed"))
	}

	return strings.Join(parts, ", ") + "\n"
}
