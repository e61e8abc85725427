package lint

import (
	"context"
	"fmt"

	"github.com/yaklabco/collation/internal/logging"
	"github.com/yaklabco/collation/pkg/fix"
	"github.com/yaklabco/collation/pkg/tsast"
)

// DefaultMaxFixPasses is the maximum number of passes per rule and file.
// A pass is needed again only when edits were deferred because they
// overlapped; nested collections settle in two.
const DefaultMaxFixPasses = 10

// Engine applies rules to parsed files.
type Engine struct {
	// Registry holds all available rules.
	Registry *Registry

	// MaxPasses limits passes per rule and file. Zero means
	// DefaultMaxFixPasses.
	MaxPasses int
}

// NewEngine creates a new Engine with the given registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{Registry: registry}
}

// ApplyRule runs one rule on one file until its edits settle and returns
// the result along with the rewritten file.
//
// Each pass runs the rule (wrapped with WithRetry) on the current snapshot,
// composes its edits, applies the accepted ones and re-parses. Overlapping
// edits are deferred to the next pass. Diagnostics come from the first
// pass. On error the input file is left as it was.
func (e *Engine) ApplyRule(
	ctx context.Context,
	rr ResolvedRule,
	file *tsast.File,
	env Env,
) (*RuleResult, *tsast.File, error) {
	maxPasses := e.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxFixPasses
	}
	if env.Registry == nil {
		env.Registry = e.Registry
	}

	rule := WithRetry(rr.Rule)
	result := &RuleResult{
		RuleID:   rr.Rule.ID(),
		RuleName: rr.Rule.Name(),
		Path:     file.Path,
		Before:   file.Content,
	}

	current := file
	for pass := range maxPasses {
		if err := ctx.Err(); err != nil {
			return nil, file, fmt.Errorf("rule %s cancelled: %w", rr.Rule.ID(), err)
		}

		rc := newInvocation(ctx, rr.Rule, rr, current, env)
		diags, err := rule.Apply(rc)
		if err != nil {
			return nil, file, fmt.Errorf("rule %s on %s: %w", rr.Rule.ID(), file.Path, err)
		}
		result.Passes++
		if pass == 0 {
			result.Diagnostics = stamp(diags, rr, file.Path)
		}

		current = rc.File
		comp, err := fix.Compose(rc.Builder.Take(), len(current.Content))
		if err != nil {
			return nil, file, fmt.Errorf("rule %s on %s: %w", rr.Rule.ID(), file.Path, err)
		}
		if len(comp.Accepted) > 0 {
			next, err := current.Apply(comp.Accepted)
			if err != nil {
				return nil, file, fmt.Errorf("rule %s on %s: %w", rr.Rule.ID(), file.Path, err)
			}
			current = next
			result.EditsApplied += len(comp.Accepted)
		}

		result.Deferred = len(comp.Deferred)
		if !comp.HasDeferred() {
			break
		}
		rc.Logger().Debug("deferring overlapping edits to the next pass",
			logging.FieldPass, pass+1,
			logging.FieldDeferred, len(comp.Deferred))
	}

	if result.Deferred > 0 {
		logging.FromContext(ctx).Warn("edits still overlapping after the last pass",
			logging.FieldRule, rr.Rule.ID(),
			logging.FieldPath, file.Path,
			logging.FieldDeferred, result.Deferred)
	}

	result.After = current.Content
	result.Diff = fix.GenerateDiff(file.Path, result.Before, result.After)
	return result, current, nil
}

// ApplyRules runs rules on one file in order, each seeing the previous
// rule's output. It stops at the first error.
func (e *Engine) ApplyRules(
	ctx context.Context,
	rules []ResolvedRule,
	file *tsast.File,
	env Env,
) ([]*RuleResult, *tsast.File, error) {
	results := make([]*RuleResult, 0, len(rules))
	for _, rr := range rules {
		result, next, err := e.ApplyRule(ctx, rr, file, env)
		if err != nil {
			return results, file, err
		}
		results = append(results, result)
		file = next
	}
	return results, file, nil
}

// stamp fills in the fields the engine owns.
func stamp(diags []Diagnostic, rr ResolvedRule, path string) []Diagnostic {
	for i := range diags {
		diags[i].Severity = rr.Severity
		if diags[i].FilePath == "" {
			diags[i].FilePath = path
		}
		if diags[i].RuleID == "" {
			diags[i].RuleID = rr.Rule.ID()
		}
		if diags[i].RuleName == "" {
			diags[i].RuleName = rr.Rule.Name()
		}
	}
	return diags
}
