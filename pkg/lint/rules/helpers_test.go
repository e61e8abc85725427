package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/collation/pkg/config"
	"github.com/yaklabco/collation/pkg/lint"
	"github.com/yaklabco/collation/pkg/matcher"
	"github.com/yaklabco/collation/pkg/tsast"
)

// fixture is one rule invocation through the engine.
type fixture struct {
	path    string
	options map[string]any
	env     lint.Env
}

func (f fixture) resolved(rule lint.Rule) lint.ResolvedRule {
	rr := lint.ResolvedRule{Rule: rule, Enabled: true, Severity: rule.DefaultSeverity()}
	if f.options != nil {
		rr.Config = &config.RuleConfig{Options: f.options}
	}
	return rr
}

// run applies rule to src and returns the result and the new content.
func (f fixture) run(t *testing.T, rule lint.Rule, src string) (*lint.RuleResult, string) {
	t.Helper()

	path := f.path
	if path == "" {
		path = "input.ts"
	}
	file, err := tsast.Parse(path, []byte(src))
	require.NoError(t, err)

	env := f.env
	if env.Config == nil {
		env.Config = config.NewConfig()
	}
	engine := lint.NewEngine(lint.NewRegistry())
	result, next, err := engine.ApplyRule(context.Background(), f.resolved(rule), file, env)
	require.NoError(t, err)
	return result, string(next.Content)
}

// fix runs rule, then runs it again on the output to check that the
// rewrite is stable: no diagnostics and no further changes.
func (f fixture) fix(t *testing.T, rule lint.Rule, src string) (*lint.RuleResult, string) {
	t.Helper()

	result, out := f.run(t, rule, src)
	again, stable := f.run(t, rule, out)
	require.Empty(t, again.Diagnostics, "second run reported diagnostics on:\n%s", out)
	require.Equal(t, out, stable, "second run changed the output")
	return result, out
}

func messages(diags []lint.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Message)
	}
	return out
}

func compileImports(t *testing.T, rules config.ImportRules) *matcher.Set {
	t.Helper()

	set, err := matcher.Compile(rules)
	require.NoError(t, err)
	return set
}

func boolPtr(b bool) *bool {
	return &b
}
