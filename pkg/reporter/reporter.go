// Package reporter writes run results as text, tables, JSON or diffs.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/collation/pkg/lint"
	"github.com/yaklabco/collation/pkg/runner"
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of issues reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatTable:
		return NewTableReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// located is a diagnostic with the content its positions refer to.
type located struct {
	path    string
	diag    lint.Diagnostic
	content []byte
}

// diagnosticsOf flattens a file's diagnostics in run order. Positions of
// a rule's diagnostics refer to the content that rule saw, so each keeps
// that content for source context.
func diagnosticsOf(file *runner.FileOutcome) []located {
	var out []located
	for _, res := range file.Results {
		for _, d := range res.Diagnostics {
			out = append(out, located{path: file.Path, diag: d, content: res.Before})
		}
	}
	return out
}

// sourceLine returns the 1-based line of content, without its newline.
func sourceLine(content []byte, line int) string {
	if line < 1 {
		return ""
	}
	current := 1
	start := 0
	for i, b := range content {
		if b != '\n' {
			continue
		}
		if current == line {
			return string(content[start:i])
		}
		current++
		start = i + 1
	}
	if current == line && start < len(content) {
		return string(content[start:])
	}
	return ""
}
