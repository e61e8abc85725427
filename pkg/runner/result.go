package runner

import (
	"errors"

	"github.com/yaklabco/collation/pkg/config"
	"github.com/yaklabco/collation/pkg/fix"
	"github.com/yaklabco/collation/pkg/lint"
)

// FileOutcome is everything that happened to one file.
type FileOutcome struct {
	// Path is the project-relative file path.
	Path string

	// Results holds one entry per rule that ran, in run order.
	Results []*lint.RuleResult

	// Diff is the change from the content before the run to after it,
	// nil when unchanged.
	Diff *fix.Diff

	// Written is set when the file was saved.
	Written bool

	// Error is set if the file could not be parsed or a rule failed on
	// it. Rules after the failure did not run on the file.
	Error error
}

// Diagnostics returns the diagnostics of every rule, in run order.
func (o *FileOutcome) Diagnostics() []lint.Diagnostic {
	var out []lint.Diagnostic
	for _, r := range o.Results {
		out = append(out, r.Diagnostics...)
	}
	return out
}

// RuleOutcome is one rule's results across the project, sorted by path.
type RuleOutcome struct {
	RuleID   string
	RuleName string
	Results  []*lint.RuleResult
}

// Diagnostics counts the rule's diagnostics.
func (o *RuleOutcome) Diagnostics() int {
	n := 0
	for _, r := range o.Results {
		n += len(r.Diagnostics)
	}
	return n
}

// Stats captures aggregate information about a run.
type Stats struct {
	// RulesRun is the number of rules applied.
	RulesRun int

	// FilesProcessed is the number of files every rule ran on.
	FilesProcessed int

	// FilesErrored is the number of files that failed to parse or on
	// which a rule failed.
	FilesErrored int

	// FilesWithIssues is the number of files with at least one diagnostic.
	FilesWithIssues int

	// FilesModified is the number of files whose content changed.
	FilesModified int

	// FilesWritten is the number of files saved.
	FilesWritten int

	// DiagnosticsTotal is the total number of diagnostics.
	DiagnosticsTotal int

	// DiagnosticsBySeverity maps severity levels to counts.
	DiagnosticsBySeverity map[config.Severity]int

	// EditsApplied is the total number of edits applied.
	EditsApplied int
}

// Result is the outcome of a run.
type Result struct {
	// RunID identifies the run in logs and reports.
	RunID string

	// Files holds the per-file outcomes sorted by path.
	Files []*FileOutcome

	// Rules holds the per-rule outcomes in run order.
	Rules []*RuleOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats

	// Errors contains failures that are not tied to one rule and file,
	// such as files that could not be saved.
	Errors []error
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	return r != nil && r.Stats.DiagnosticsTotal > 0
}

// HasErrors reports whether a file or the run failed.
func (r *Result) HasErrors() bool {
	return r != nil && (r.Stats.FilesErrored > 0 || len(r.Errors) > 0)
}

// Err joins every file and run error, or returns nil.
func (r *Result) Err() error {
	if r == nil {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for _, f := range r.Files {
		if f.Error != nil {
			errs = append(errs, f.Error)
		}
	}
	return errors.Join(append(errs, r.Errors...)...)
}

func newStats() Stats {
	return Stats{DiagnosticsBySeverity: make(map[config.Severity]int)}
}

// accumulate adds a finished file to the stats.
func (s *Stats) accumulate(outcome *FileOutcome) {
	if outcome.Error != nil {
		s.FilesErrored++
	} else {
		s.FilesProcessed++
	}
	if outcome.Diff != nil {
		s.FilesModified++
	}
	if outcome.Written {
		s.FilesWritten++
	}

	diags := outcome.Diagnostics()
	if len(diags) > 0 {
		s.FilesWithIssues++
	}
	s.DiagnosticsTotal += len(diags)
	for _, d := range diags {
		severity := d.Severity
		if severity == "" {
			severity = config.SeverityWarning
		}
		s.DiagnosticsBySeverity[severity]++
	}
	for _, r := range outcome.Results {
		s.EditsApplied += r.EditsApplied
	}
}
