package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yaklabco/collation/internal/ui/pretty"
	"github.com/yaklabco/collation/pkg/config"
	"github.com/yaklabco/collation/pkg/runner"
)

// minMessageWidth keeps the message column readable on narrow terminals.
const minMessageWidth = 20

// TableReporter writes one table row per diagnostic.
type TableReporter struct {
	opts   Options
	styles *pretty.Styles
	width  int
	bw     *bufio.Writer
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	return &TableReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		width:  pretty.Width(opts.Writer),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var rows [][]string
	var severities []config.Severity
	for _, file := range result.Files {
		if file.Error != nil {
			rows = append(rows, []string{file.Path, "", "error", "", file.Error.Error()})
			severities = append(severities, config.SeverityError)
			continue
		}
		for _, d := range diagnosticsOf(file) {
			rows = append(rows, []string{
				d.path,
				strconv.Itoa(d.diag.StartLine) + ":" + strconv.Itoa(d.diag.StartColumn),
				string(d.diag.Severity),
				config.FormatRuleID(r.opts.RuleFormat, d.diag.RuleID, d.diag.RuleName),
				d.diag.Message,
			})
			severities = append(severities, d.diag.Severity)
		}
	}

	if len(rows) > 0 {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(r.styles.Dim).
			Headers("FILE", "LINE", "SEVERITY", "RULE", "MESSAGE").
			Rows(rows...).
			Width(max(r.width, minMessageWidth*3)).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return r.styles.Header.Padding(0, 1)
				}
				if col == 2 && row >= 0 && row < len(severities) {
					return r.severityStyle(severities[row]).Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			})
		fmt.Fprintln(r.bw, t.Render())
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryLine(result.Stats, r.opts.DryRun))
	}
	return result.Stats.DiagnosticsTotal, nil
}

func (r *TableReporter) severityStyle(sev config.Severity) lipgloss.Style {
	switch sev {
	case config.SeverityError:
		return r.styles.Error
	case config.SeverityInfo:
		return r.styles.Info
	default:
		return r.styles.Warning
	}
}
