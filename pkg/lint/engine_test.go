package lint_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/collation/pkg/config"
	"github.com/yaklabco/collation/pkg/lint"
	"github.com/yaklabco/collation/pkg/tsast"
)

var errBoom = errors.New("boom")

// funcRule is a test rule backed by a function.
type funcRule struct {
	lint.BaseRule
	apply func(rc *lint.RuleContext) ([]lint.Diagnostic, error)
}

func (r *funcRule) Apply(rc *lint.RuleContext) ([]lint.Diagnostic, error) {
	return r.apply(rc)
}

func newFuncRule(id string, apply func(rc *lint.RuleContext) ([]lint.Diagnostic, error)) *funcRule {
	return &funcRule{
		BaseRule: lint.NewBaseRule(id, "test-"+strings.ToLower(id), "test rule", nil, true),
		apply:    apply,
	}
}

func resolved(rule lint.Rule, severity config.Severity) lint.ResolvedRule {
	return lint.ResolvedRule{Rule: rule, Enabled: true, Severity: severity}
}

// upperConstRule turns `let` into `const` and upper-cases the first
// binding. Both edits cover the same name, so they always overlap.
func upperConstRule() *funcRule {
	return newFuncRule("CL900", func(rc *lint.RuleContext) ([]lint.Diagnostic, error) {
		var diags []lint.Diagnostic
		for _, stmt := range rc.File.Statements {
			decl, ok := stmt.(*tsast.Declaration)
			if !ok || decl.Decl != tsast.DeclVariable {
				continue
			}
			if decl.Keyword == "let" {
				text := strings.Replace(rc.File.Slice(decl.Span()), "let", "const", 1)
				if err := rc.Replace(decl, decl.Span(), text); err != nil {
					return nil, err
				}
				diags = append(diags, rc.Report(decl.Span(), "use const").Build())
			}
			if upper := strings.ToUpper(decl.Name); upper != decl.Name {
				if err := rc.Replace(decl, decl.NameSpan, upper); err != nil {
					return nil, err
				}
				diags = append(diags, rc.Report(decl.NameSpan, "shout").Build())
			}
		}
		return diags, nil
	})
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	registry := lint.NewRegistry()
	engine := lint.NewEngine(registry)

	assert.Same(t, registry, engine.Registry)
	assert.Zero(t, engine.MaxPasses)
}

func TestEngine_ApplyRule_Clean(t *testing.T) {
	t.Parallel()

	file := parseFile(t, "a.ts", "const A = 1;\n")
	engine := lint.NewEngine(lint.NewRegistry())

	result, next, err := engine.ApplyRule(context.Background(), resolved(upperConstRule(), config.SeverityWarning), file, lint.Env{})
	require.NoError(t, err)

	assert.Same(t, file, next)
	assert.Empty(t, result.Diagnostics)
	assert.False(t, result.Changed())
	assert.Equal(t, 1, result.Passes)
	assert.Zero(t, result.EditsApplied)
	assert.Equal(t, "CL900", result.RuleID)
	assert.Equal(t, "test-cl900", result.RuleName)
	assert.Equal(t, "a.ts", result.Path)
}

func TestEngine_ApplyRule_DefersOverlappingEdits(t *testing.T) {
	t.Parallel()

	file := parseFile(t, "a.ts", "let a = 1;\n")
	engine := lint.NewEngine(lint.NewRegistry())

	result, next, err := engine.ApplyRule(context.Background(), resolved(upperConstRule(), config.SeverityError), file, lint.Env{})
	require.NoError(t, err)

	assert.Equal(t, "const A = 1;\n", string(next.Content))
	assert.Equal(t, "let a = 1;\n", string(result.Before))
	assert.Equal(t, "const A = 1;\n", string(result.After))
	assert.Equal(t, 2, result.Passes)
	assert.Equal(t, 2, result.EditsApplied)
	assert.Zero(t, result.Deferred)
	require.NotNil(t, result.Diff)
	assert.True(t, result.Changed())

	// Diagnostics come from the first pass and are stamped by the engine.
	require.Len(t, result.Diagnostics, 2)
	for _, diag := range result.Diagnostics {
		assert.Equal(t, config.SeverityError, diag.Severity)
		assert.Equal(t, "a.ts", diag.FilePath)
		assert.Equal(t, "CL900", diag.RuleID)
		assert.Equal(t, "test-cl900", diag.RuleName)
	}

	// The input snapshot is untouched.
	assert.Equal(t, "let a = 1;\n", string(file.Content))

	// Running again changes nothing.
	again, _, err := engine.ApplyRule(context.Background(), resolved(upperConstRule(), config.SeverityError), next, lint.Env{})
	require.NoError(t, err)
	assert.Empty(t, again.Diagnostics)
	assert.Nil(t, again.Diff)
}

func TestEngine_ApplyRule_PassLimit(t *testing.T) {
	t.Parallel()

	// The insertion always lands inside the replacement and is never
	// accepted.
	rule := newFuncRule("CL901", func(rc *lint.RuleContext) ([]lint.Diagnostic, error) {
		rc.Builder.ReplaceRange(0, len(rc.File.Content), string(rc.File.Content))
		rc.Builder.Insert(1, "x")
		return nil, nil
	})

	file := parseFile(t, "a.ts", "const a = 1;\n")
	engine := &lint.Engine{Registry: lint.NewRegistry(), MaxPasses: 3}

	result, next, err := engine.ApplyRule(context.Background(), resolved(rule, config.SeverityWarning), file, lint.Env{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Passes)
	assert.Equal(t, 3, result.EditsApplied)
	assert.Equal(t, 1, result.Deferred)
	assert.Equal(t, "const a = 1;\n", string(next.Content))
	assert.Nil(t, result.Diff)
}

func TestEngine_ApplyRule_RuleError(t *testing.T) {
	t.Parallel()

	rule := newFuncRule("CL902", func(*lint.RuleContext) ([]lint.Diagnostic, error) {
		return nil, errBoom
	})

	file := parseFile(t, "a.ts", "const a = 1;\n")
	result, next, err := lint.NewEngine(lint.NewRegistry()).
		ApplyRule(context.Background(), resolved(rule, config.SeverityWarning), file, lint.Env{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errBoom))
	assert.Contains(t, err.Error(), "CL902")
	assert.Nil(t, result)
	assert.Same(t, file, next)
}

func TestEngine_ApplyRule_InvalidEdit(t *testing.T) {
	t.Parallel()

	rule := newFuncRule("CL903", func(rc *lint.RuleContext) ([]lint.Diagnostic, error) {
		rc.Builder.ReplaceRange(5, 500, "")
		return nil, nil
	})

	file := parseFile(t, "a.ts", "const a = 1;\n")
	_, next, err := lint.NewEngine(lint.NewRegistry()).
		ApplyRule(context.Background(), resolved(rule, config.SeverityWarning), file, lint.Env{})

	require.Error(t, err)
	assert.Same(t, file, next)
}

func TestEngine_ApplyRule_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	rule := newFuncRule("CL904", func(*lint.RuleContext) ([]lint.Diagnostic, error) {
		called = true
		return nil, nil
	})

	file := parseFile(t, "a.ts", "const a = 1;\n")
	_, _, err := lint.NewEngine(lint.NewRegistry()).
		ApplyRule(ctx, resolved(rule, config.SeverityWarning), file, lint.Env{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, called)
}

func TestEngine_ApplyRule_PassesEnv(t *testing.T) {
	t.Parallel()

	registry := lint.NewRegistry()
	cfg := config.NewConfig()
	ruleCfg := &config.RuleConfig{Options: map[string]any{"hooks": []any{"useQuery"}}}

	var seen *lint.RuleContext
	rule := newFuncRule("CL905", func(rc *lint.RuleContext) ([]lint.Diagnostic, error) {
		seen = rc
		return nil, nil
	})

	rr := resolved(rule, config.SeverityWarning)
	rr.Config = ruleCfg
	env := lint.Env{Config: cfg, Settings: lint.Settings{IsolatedModules: true}}

	file := parseFile(t, "a.ts", "")
	_, _, err := lint.NewEngine(registry).ApplyRule(context.Background(), rr, file, env)
	require.NoError(t, err)

	require.NotNil(t, seen)
	assert.Same(t, cfg, seen.Config)
	assert.Same(t, ruleCfg, seen.RuleConfig)
	assert.Same(t, registry, seen.Registry)
	assert.True(t, seen.Settings.IsolatedModules)
	assert.Equal(t, []string{"useQuery"}, seen.OptionStringSlice("hooks", nil))
}

func TestEngine_ApplyRules_Sequential(t *testing.T) {
	t.Parallel()

	// The second rule only sees `const` after the first one ran.
	tag := newFuncRule("CL906", func(rc *lint.RuleContext) ([]lint.Diagnostic, error) {
		content := string(rc.File.Content)
		if strings.HasPrefix(content, "const") && !strings.HasSuffix(content, "// ok\n") {
			rc.Append("// ok\n")
		}
		return nil, nil
	})

	file := parseFile(t, "a.ts", "let a = 1;\n")
	rules := []lint.ResolvedRule{
		resolved(upperConstRule(), config.SeverityWarning),
		resolved(tag, config.SeverityWarning),
	}

	results, next, err := lint.NewEngine(lint.NewRegistry()).ApplyRules(context.Background(), rules, file, lint.Env{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "const A = 1;\n// ok\n", string(next.Content))
	assert.Equal(t, "const A = 1;\n", string(results[1].Before))
	assert.True(t, results[0].Changed())
	assert.True(t, results[1].Changed())
}

func TestSettings_TypeExports(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version string
		want    bool
	}{
		{"", true},
		{"3.7.5", false},
		{"3.8.0", true},
		{"5.4.2", true},
	}

	for _, tt := range tests {
		s := lint.Settings{}
		if tt.version != "" {
			s.TypeScriptVersion = semver.MustParse(tt.version)
		}
		assert.Equal(t, tt.want, s.TypeExports(), "version %q", tt.version)
	}
}
