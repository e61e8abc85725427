package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/collation/internal/ui/pretty"
	"github.com/yaklabco/collation/pkg/runner"
)

// TextReporter writes human-readable output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n", r.styles.FilePath.Render(file.Path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
			continue
		}
		if r.opts.PrintDiagnostics {
			r.writeDiagnostics(file)
			continue
		}
		if file.Diff != nil {
			r.writeChanged(file)
		}
	}

	for _, runErr := range result.Errors {
		fmt.Fprintln(r.bw, r.styles.Error.Render(fmt.Sprintf("error: %v", runErr)))
	}

	if r.opts.ShowSummary {
		if len(result.Files) > 0 {
			fmt.Fprintln(r.bw)
		}
		fmt.Fprint(r.bw, r.styles.FormatSummaryLine(result.Stats, r.opts.DryRun))
	}

	return result.Stats.DiagnosticsTotal, nil
}

// writeChanged lists a rewritten file on one line.
func (r *TextReporter) writeChanged(file *runner.FileOutcome) {
	verb := "fixed"
	switch {
	case r.opts.DryRun:
		verb = "would fix"
	case !file.Written:
		verb = "not written"
	}
	fmt.Fprintf(r.bw, "%s %s\n", r.styles.FilePath.Render(file.Path),
		r.styles.Dim.Render(fmt.Sprintf("(%s, %s)", verb, pretty.Plural(len(file.Diagnostics()), "issue", "issues"))))
}

// writeDiagnostics writes a file header and every diagnostic under it.
func (r *TextReporter) writeDiagnostics(file *runner.FileOutcome) {
	diags := diagnosticsOf(file)
	if len(diags) == 0 {
		return
	}

	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(file.Path, len(diags)))
	for _, d := range diags {
		line := ""
		if r.opts.ShowContext {
			line = sourceLine(d.content, d.diag.StartLine)
		}
		fmt.Fprint(r.bw, r.styles.FormatDiagnostic(&d.diag, line, r.opts.RuleFormat))
	}
	fmt.Fprintln(r.bw)
}
