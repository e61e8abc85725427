package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/collation/internal/ui/pretty"
	"github.com/yaklabco/collation/pkg/config"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// PrintDiagnostics lists every diagnostic. Without it the text format
	// lists changed files and the summary only.
	PrintDiagnostics bool

	// ShowContext includes the offending source line under a diagnostic.
	ShowContext bool

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// Compact uses minified JSON.
	Compact bool

	// DryRun words changed files as pending instead of written.
	DryRun bool

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat config.RuleFormat
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       pretty.ColorAuto,
		ShowContext: true,
		ShowSummary: true,
		RuleFormat:  config.RuleFormatCombined,
	}
}
