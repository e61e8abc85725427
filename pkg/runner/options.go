// Package runner applies a set of rules to every file of a project.
package runner

import (
	"github.com/yaklabco/collation/pkg/config"
	"github.com/yaklabco/collation/pkg/matcher"
)

// Options controls a run.
type Options struct {
	// Jobs bounds how many files are processed at once within a rule.
	// Zero or negative means runtime.NumCPU().
	Jobs int

	// DryRun computes fixes without saving files.
	DryRun bool

	// Config is the resolved configuration handed to every rule.
	Config *config.Config

	// Imports are the compiled import rules (may be nil).
	Imports *matcher.Set
}
