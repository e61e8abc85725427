package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/collation/pkg/config"
	"github.com/yaklabco/collation/pkg/lint"
	"github.com/yaklabco/collation/pkg/lint/rules"
	"github.com/yaklabco/collation/pkg/project"
	"github.com/yaklabco/collation/pkg/runner"
	"github.com/yaklabco/collation/pkg/tsast"
)

var errBoom = errors.New("boom")

// funcRule adapts a function to lint.Rule.
type funcRule struct {
	lint.BaseRule
	apply func(rc *lint.RuleContext) ([]lint.Diagnostic, error)
}

func (r *funcRule) Apply(rc *lint.RuleContext) ([]lint.Diagnostic, error) {
	return r.apply(rc)
}

func newFuncRule(id string, apply func(rc *lint.RuleContext) ([]lint.Diagnostic, error)) *funcRule {
	return &funcRule{
		BaseRule: lint.NewBaseRule(id, "func-"+id, "test rule", nil, true),
		apply:    apply,
	}
}

func resolved(rules ...lint.Rule) []lint.ResolvedRule {
	out := make([]lint.ResolvedRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, lint.ResolvedRule{Rule: r, Enabled: true, Severity: r.DefaultSeverity()})
	}
	return out
}

func newRunner() *runner.Runner {
	registry := lint.NewRegistry()
	rules.RegisterAll(registry)
	return runner.New(lint.NewEngine(registry))
}

func newProject(t *testing.T, files map[string]string) *project.Project {
	t.Helper()

	p := project.New(t.TempDir(), lint.Settings{})
	for path, content := range files {
		p.Add(path, []byte(content))
	}
	return p
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := newRunner().Run(context.Background(), newProject(t, nil),
		resolved(rules.NewEnumRule()), runner.Options{DryRun: true})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Equal(t, 1, result.Stats.RulesRun)
	assert.False(t, result.HasIssues())
	assert.False(t, result.HasErrors())

	_, err = uuid.Parse(result.RunID)
	require.NoError(t, err)
}

func TestRunner_Run_DeterministicOrder(t *testing.T) {
	t.Parallel()

	files := map[string]string{}
	for _, name := range []string{"e", "b", "d", "a", "c", "f", "h", "g"} {
		files["src/"+name+".ts"] = "enum E { B = 1, A = 2 }\n"
	}
	p := newProject(t, files)

	result, err := newRunner().Run(context.Background(), p,
		resolved(rules.NewEnumRule()), runner.Options{Jobs: 3, DryRun: true})
	require.NoError(t, err)

	var got []string
	for _, f := range result.Files {
		got = append(got, f.Path)
		assert.Len(t, f.Diagnostics(), 2)
		assert.NotNil(t, f.Diff)
	}
	assert.Equal(t, []string{
		"src/a.ts", "src/b.ts", "src/c.ts", "src/d.ts",
		"src/e.ts", "src/f.ts", "src/g.ts", "src/h.ts",
	}, got)

	require.Len(t, result.Rules, 1)
	assert.Equal(t, "CL006", result.Rules[0].RuleID)
	assert.Len(t, result.Rules[0].Results, 8)
	assert.Equal(t, "src/a.ts", result.Rules[0].Results[0].Path)

	assert.Equal(t, 8, result.Stats.FilesModified)
	assert.Equal(t, 16, result.Stats.DiagnosticsTotal)
	assert.Equal(t, 16, result.Stats.DiagnosticsBySeverity[config.SeverityWarning])
	assert.Equal(t, 0, result.Stats.FilesWritten)
}

func TestRunner_Run_RuleMajorOrder(t *testing.T) {
	t.Parallel()

	p := newProject(t, map[string]string{
		"a.ts": "export function foo() {}\nexport const limit = 3;\n",
	})
	p.Add("is-empty.ts", []byte("export default function foo() {}\n"))

	result, err := newRunner().Run(context.Background(), p,
		resolved(rules.NewExportsLastRule(), rules.NewDefaultExportNameRule()),
		runner.Options{DryRun: true})
	require.NoError(t, err)
	require.Len(t, result.Rules, 2)

	a, err := p.Lookup("a.ts")
	require.NoError(t, err)
	assert.Equal(t, "function foo() {}\nconst limit = 3;\nexport { foo, limit };\n", string(a.Content))

	isEmpty, err := p.Lookup("is-empty.ts")
	require.NoError(t, err)
	assert.Equal(t, "function isEmpty() {}\nexport default isEmpty;\n", string(isEmpty.Content))
}

func TestRunner_Run_LaterRulesSeeEarlierOutput(t *testing.T) {
	t.Parallel()

	var seen atomic.Value
	appender := newFuncRule("T001", func(rc *lint.RuleContext) ([]lint.Diagnostic, error) {
		if string(rc.File.Content) == "const a = 1;\n" {
			rc.Append("const b = 2;\n")
		}
		return nil, nil
	})
	observer := newFuncRule("T002", func(rc *lint.RuleContext) ([]lint.Diagnostic, error) {
		seen.Store(string(rc.File.Content))
		return nil, nil
	})

	p := newProject(t, map[string]string{"a.ts": "const a = 1;\n"})
	_, err := newRunner().Run(context.Background(), p, resolved(appender, observer), runner.Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, "const a = 1;\nconst b = 2;\n", seen.Load())
}

func TestRunner_Run_RuleErrorIsolatedToFile(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	failing := newFuncRule("T001", func(rc *lint.RuleContext) ([]lint.Diagnostic, error) {
		if rc.File.Path == "bad.ts" {
			return nil, errBoom
		}
		return nil, nil
	})
	counting := newFuncRule("T002", func(*lint.RuleContext) ([]lint.Diagnostic, error) {
		calls.Add(1)
		return nil, nil
	})

	p := newProject(t, map[string]string{"bad.ts": "let a;\n", "good.ts": "let b;\n"})
	result, err := newRunner().Run(context.Background(), p, resolved(failing, counting), runner.Options{DryRun: true})
	require.NoError(t, err)

	assert.True(t, result.HasErrors())
	require.ErrorIs(t, result.Err(), errBoom)
	assert.Equal(t, 1, result.Stats.FilesErrored)
	assert.Equal(t, 1, result.Stats.FilesProcessed)
	assert.Equal(t, int32(1), calls.Load(), "the failed file is skipped by later rules")
}

func TestRunner_Run_ParseError(t *testing.T) {
	t.Parallel()

	p := newProject(t, map[string]string{"broken.ts": "function f() {\n"})
	result, err := newRunner().Run(context.Background(), p, resolved(rules.NewEnumRule()), runner.Options{DryRun: true})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	require.ErrorIs(t, result.Files[0].Error, tsast.ErrParse)
}

func TestRunner_Run_Saves(t *testing.T) {
	t.Parallel()

	p := newProject(t, map[string]string{
		"pets.ts":  "enum Pet { Dog = \"dog\", Wolf = \"wolf\", Cat = \"cat\" }\n",
		"other.ts": "enum Ok { A = 1, B = 2 }\n",
	})

	result, err := newRunner().Run(context.Background(), p, resolved(rules.NewEnumRule()), runner.Options{})
	require.NoError(t, err)
	assert.False(t, result.HasErrors())
	assert.Equal(t, 1, result.Stats.FilesWritten)
	assert.Equal(t, 3, result.Stats.DiagnosticsTotal)

	got, err := os.ReadFile(filepath.Join(p.Root, "pets.ts"))
	require.NoError(t, err)
	assert.Equal(t, "enum Pet { Cat = \"cat\", Dog = \"dog\", Wolf = \"wolf\" }\n", string(got))

	_, err = os.Stat(filepath.Join(p.Root, "other.ts"))
	assert.True(t, os.IsNotExist(err), "unchanged files are not written")
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newProject(t, map[string]string{"a.ts": "enum E { B = 1, A = 2 }\n"})
	_, err := newRunner().Run(ctx, p, resolved(rules.NewEnumRule()), runner.Options{DryRun: true})
	require.ErrorIs(t, err, context.Canceled)
}
