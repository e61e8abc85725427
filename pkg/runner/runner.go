package runner

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/collation/internal/logging"
	"github.com/yaklabco/collation/pkg/fix"
	"github.com/yaklabco/collation/pkg/lint"
	"github.com/yaklabco/collation/pkg/project"
	"github.com/yaklabco/collation/pkg/tsast"
)

// Runner applies rules to projects through an Engine.
type Runner struct {
	// Engine runs one rule on one file.
	Engine *lint.Engine
}

// New creates a new Runner with the given engine.
func New(engine *lint.Engine) *Runner {
	return &Runner{Engine: engine}
}

// fileState is the runner's view of one file across rules.
type fileState struct {
	source  *project.File
	before  []byte
	parsed  *tsast.File
	outcome *FileOutcome
}

// Run applies rules to every file of p in rule-major order: each rule
// runs on all files before the next rule starts, so later rules see
// earlier rules' output. Within a rule, files are processed concurrently,
// bounded by opts.Jobs. Results are assembled in path order regardless
// of completion order.
//
// A parse or rule error is recorded on the file and the file takes no
// further part in the run; the other files carry on. Unless opts.DryRun
// is set, changed files are saved after the last rule.
func (r *Runner) Run(
	ctx context.Context,
	p *project.Project,
	rules []lint.ResolvedRule,
	opts Options,
) (*Result, error) {
	runID := uuid.NewString()
	ctx = logging.With(ctx, logging.FieldRunID, runID)
	logger := logging.FromContext(ctx)

	result := &Result{RunID: runID, Stats: newStats()}
	result.Stats.RulesRun = len(rules)

	files := p.Files()
	states := make([]*fileState, len(files))
	for i, f := range files {
		states[i] = &fileState{
			source:  f,
			before:  f.Content,
			outcome: &FileOutcome{Path: f.Path},
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	env := lint.Env{
		Config:   opts.Config,
		Settings: p.Settings,
		Imports:  opts.Imports,
		Registry: r.Engine.Registry,
	}

	logger.Debug("starting run",
		logging.FieldFiles, len(files),
		logging.FieldRules, len(rules),
		logging.FieldJobs, jobs,
		logging.FieldDryRun, opts.DryRun)

	for _, rr := range rules {
		outcome, err := r.runRule(ctx, rr, states, env, jobs)
		if err != nil {
			return result, err
		}
		result.Rules = append(result.Rules, outcome)
	}

	for _, st := range states {
		st.outcome.Diff = fix.GenerateDiff(st.source.Path, st.before, st.source.Content)
	}

	if !opts.DryRun {
		written, err := p.Save(ctx)
		if err != nil {
			result.Errors = append(result.Errors, err)
		}
		saved := make(map[string]bool, len(written))
		for _, path := range written {
			saved[path] = true
		}
		for _, st := range states {
			st.outcome.Written = saved[st.source.Path]
		}
	}

	for _, st := range states {
		result.Files = append(result.Files, st.outcome)
		result.Stats.accumulate(st.outcome)
	}

	logger.Debug("run complete",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesModified, result.Stats.FilesModified,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal)
	return result, nil
}

// runRule applies one rule to every healthy file.
func (r *Runner) runRule(
	ctx context.Context,
	rr lint.ResolvedRule,
	states []*fileState,
	env lint.Env,
	jobs int,
) (*RuleOutcome, error) {
	results := make([]*lint.RuleResult, len(states))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, st := range states {
		if st.outcome.Error != nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if st.parsed == nil {
				parsed, err := st.source.Parse()
				if err != nil {
					st.outcome.Error = err
					return nil
				}
				st.parsed = parsed
			}

			res, next, err := r.Engine.ApplyRule(gctx, rr, st.parsed, env)
			if err != nil {
				if gctx.Err() != nil {
					return err
				}
				st.outcome.Error = err
				return nil
			}
			st.parsed = next
			st.source.Content = next.Content
			st.outcome.Results = append(st.outcome.Results, res)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	outcome := &RuleOutcome{RuleID: rr.Rule.ID(), RuleName: rr.Rule.Name()}
	for _, res := range results {
		if res != nil {
			outcome.Results = append(outcome.Results, res)
		}
	}
	logging.FromContext(ctx).Debug("rule finished",
		logging.FieldRule, rr.Rule.ID(),
		logging.FieldDiagnosticsTotal, outcome.Diagnostics())
	return outcome, nil
}
