package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/collation/pkg/runner"
)

// jsonSchemaVersion is bumped when the output shape changes.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	RunID   string           `json:"runId"`
	DryRun  bool             `json:"dryRun"`
	Files   []JSONFileResult `json:"files"`
	Rules   []JSONRuleResult `json:"rules"`
	Errors  []string         `json:"errors,omitempty"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string           `json:"path"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	Modified    bool             `json:"modified"`
	Written     bool             `json:"written"`
	Additions   int              `json:"additions,omitempty"`
	Deletions   int              `json:"deletions,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// JSONDiagnostic represents a single diagnostic.
type JSONDiagnostic struct {
	RuleID      string `json:"ruleId"`
	RuleName    string `json:"ruleName"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
	Suggestion  string `json:"suggestion,omitempty"`
}

// JSONRuleResult counts one rule's work across the project.
type JSONRuleResult struct {
	RuleID       string `json:"ruleId"`
	RuleName     string `json:"ruleName"`
	Diagnostics  int    `json:"diagnostics"`
	FilesChanged int    `json:"filesChanged"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	RulesRun        int            `json:"rulesRun"`
	FilesChecked    int            `json:"filesChecked"`
	FilesWithIssues int            `json:"filesWithIssues"`
	FilesModified   int            `json:"filesModified"`
	FilesWritten    int            `json:"filesWritten"`
	FilesErrored    int            `json:"filesErrored"`
	TotalIssues     int            `json:"totalIssues"`
	EditsApplied    int            `json:"editsApplied"`
	BySeverity      map[string]int `json:"bySeverity"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalIssues, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		DryRun:  r.opts.DryRun,
		Files:   make([]JSONFileResult, 0),
		Rules:   make([]JSONRuleResult, 0),
		Summary: JSONSummary{BySeverity: make(map[string]int)},
	}
	if result == nil {
		return output
	}
	output.RunID = result.RunID

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:        file.Path,
			Diagnostics: make([]JSONDiagnostic, 0),
			Modified:    file.Diff != nil,
			Written:     file.Written,
		}
		if file.Diff != nil {
			fileResult.Additions = file.Diff.Additions
			fileResult.Deletions = file.Diff.Deletions
		}
		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}
		for _, d := range file.Diagnostics() {
			fileResult.Diagnostics = append(fileResult.Diagnostics, JSONDiagnostic{
				RuleID:      d.RuleID,
				RuleName:    d.RuleName,
				Severity:    string(d.Severity),
				Message:     d.Message,
				StartLine:   d.StartLine,
				StartColumn: d.StartColumn,
				EndLine:     d.EndLine,
				EndColumn:   d.EndColumn,
				Suggestion:  d.Suggestion,
			})
		}
		output.Files = append(output.Files, fileResult)
	}

	for _, rule := range result.Rules {
		changed := 0
		for _, res := range rule.Results {
			if res.Changed() {
				changed++
			}
		}
		output.Rules = append(output.Rules, JSONRuleResult{
			RuleID:       rule.RuleID,
			RuleName:     rule.RuleName,
			Diagnostics:  rule.Diagnostics(),
			FilesChanged: changed,
		})
	}

	for _, runErr := range result.Errors {
		output.Errors = append(output.Errors, runErr.Error())
	}

	stats := result.Stats
	output.Summary.RulesRun = stats.RulesRun
	output.Summary.FilesChecked = stats.FilesProcessed
	output.Summary.FilesWithIssues = stats.FilesWithIssues
	output.Summary.FilesModified = stats.FilesModified
	output.Summary.FilesWritten = stats.FilesWritten
	output.Summary.FilesErrored = stats.FilesErrored
	output.Summary.TotalIssues = stats.DiagnosticsTotal
	output.Summary.EditsApplied = stats.EditsApplied
	for sev, n := range stats.DiagnosticsBySeverity {
		output.Summary.BySeverity[string(sev)] = n
	}
	return output
}
