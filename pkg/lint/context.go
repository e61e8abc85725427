package lint

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/yaklabco/collation/internal/logging"
	"github.com/yaklabco/collation/pkg/config"
	"github.com/yaklabco/collation/pkg/fix"
	"github.com/yaklabco/collation/pkg/matcher"
	"github.com/yaklabco/collation/pkg/tsast"
)

// typeExportsSince is the first TypeScript release with `export type {}`.
//
//nolint:gochecknoglobals // Constant version.
var typeExportsSince = semver.MustParse("3.8.0")

// Settings carries the compiler facts a project exposes to rules.
type Settings struct {
	// IsolatedModules is compilerOptions.isolatedModules from tsconfig.json.
	IsolatedModules bool

	// TypeScriptVersion is the typescript version the project depends on,
	// nil when unknown.
	TypeScriptVersion *semver.Version
}

// TypeExports reports whether `export type { ... }` is available.
// An unknown version is assumed to be recent.
func (s Settings) TypeExports() bool {
	return s.TypeScriptVersion == nil || !s.TypeScriptVersion.LessThan(typeExportsSince)
}

// Env is the per-run input shared by every rule invocation.
type Env struct {
	Config   *config.Config
	Settings Settings
	Imports  *matcher.Set
	Registry *Registry
}

// RuleContext provides all context needed by a rule to inspect and rewrite
// one file.
//
// Design note: RuleContext stores context.Context as a field (Ctx) rather than
// passing it as a method parameter. This is acceptable because RuleContext is
// a short-lived parameter object created per-rule-invocation, not a long-lived
// struct.
type RuleContext struct {
	// Ctx is the context for cancellation and logging.
	Ctx context.Context

	// File is the current snapshot. It changes when the rule commits.
	File *tsast.File

	// Config is the resolved configuration.
	Config *config.Config

	// RuleConfig is the rule-specific configuration (may be nil).
	RuleConfig *config.RuleConfig

	// Builder accumulates text edits against File.
	Builder *fix.EditBuilder

	// Registry provides access to the rule registry for name lookups.
	Registry *Registry

	// Settings are the project's compiler settings.
	Settings Settings

	// Imports are the compiled import rules (may be nil).
	Imports *matcher.Set

	rule    Rule
	logger  *log.Logger
	commits int
}

// NewRuleContext creates a RuleContext for the given file and configuration.
func NewRuleContext(
	ctx context.Context,
	file *tsast.File,
	cfg *config.Config,
	ruleCfg *config.RuleConfig,
) *RuleContext {
	return &RuleContext{
		Ctx:        ctx,
		File:       file,
		Config:     cfg,
		RuleConfig: ruleCfg,
		Builder:    fix.NewEditBuilder(),
	}
}

// newInvocation builds the context the engine hands to rule.
func newInvocation(ctx context.Context, rule Rule, rr ResolvedRule, file *tsast.File, env Env) *RuleContext {
	rc := NewRuleContext(ctx, file, env.Config, rr.Config)
	rc.Registry = env.Registry
	rc.Settings = env.Settings
	rc.Imports = env.Imports
	rc.rule = rule
	return rc
}

// Cancelled returns true if the context has been cancelled.
func (rc *RuleContext) Cancelled() bool {
	select {
	case <-rc.Ctx.Done():
		return true
	default:
		return false
	}
}

// Logger returns the logger for this invocation, tagged with the rule and
// file.
func (rc *RuleContext) Logger() *log.Logger {
	if rc.logger == nil {
		logger := logging.FromContext(rc.Ctx)
		if rc.File != nil {
			logger = logger.With(logging.FieldPath, rc.File.Path)
		}
		if rc.rule != nil {
			logger = logger.With(logging.FieldRule, rc.rule.ID())
		}
		rc.logger = logger
	}
	return rc.logger
}

// Report starts a diagnostic for the invoking rule covering span.
func (rc *RuleContext) Report(span tsast.Span, message string) *DiagnosticBuilder {
	b := NewDiagnostic("", rc.File, span, message)
	if rc.rule != nil {
		b.diag.RuleID = rc.rule.ID()
		b.diag.RuleName = rc.rule.Name()
	}
	return b
}

// Replace proposes replacing span, which must lie within owner, with text.
// owner must belong to the current snapshot.
func (rc *RuleContext) Replace(owner tsast.Node, span tsast.Span, text string) error {
	if err := rc.File.Check(owner); err != nil {
		return err
	}
	rc.Builder.ReplaceRange(span.Start, span.End, text)
	return nil
}

// Insert proposes inserting text at offset, next to owner.
func (rc *RuleContext) Insert(owner tsast.Node, offset int, text string) error {
	if err := rc.File.Check(owner); err != nil {
		return err
	}
	rc.Builder.Insert(offset, text)
	return nil
}

// Delete proposes deleting span.
func (rc *RuleContext) Delete(owner tsast.Node, span tsast.Span) error {
	return rc.Replace(owner, span, "")
}

// Append proposes inserting text at the end of the file.
func (rc *RuleContext) Append(text string) {
	rc.Builder.Insert(len(rc.File.Content), text)
}

// Commit applies the pending edits and replaces File with the re-parsed
// result. Every node obtained before the commit becomes stale.
func (rc *RuleContext) Commit() error {
	if rc.Builder.Len() == 0 {
		return nil
	}
	next, err := rc.File.Apply(rc.Builder.Take())
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	rc.File = next
	rc.commits++
	rc.Logger().Debug("committed edits", logging.FieldGeneration, next.Generation())
	return nil
}

// Commits returns how many times the rule committed.
func (rc *RuleContext) Commits() int {
	return rc.commits
}

// Option returns a rule-specific option value, or the default if not set.
func (rc *RuleContext) Option(key string, defaultValue any) any {
	if rc.RuleConfig == nil || rc.RuleConfig.Options == nil {
		return defaultValue
	}
	if v, ok := rc.RuleConfig.Options[key]; ok {
		return v
	}
	return defaultValue
}

// OptionInt returns a rule-specific integer option, or the default.
func (rc *RuleContext) OptionInt(key string, defaultValue int) int {
	v := rc.Option(key, defaultValue)
	switch val := v.(type) {
	case int:
		return val
	case float64:
		return int(val)
	default:
		return defaultValue
	}
}

// OptionString returns a rule-specific string option, or the default.
func (rc *RuleContext) OptionString(key string, defaultValue string) string {
	v := rc.Option(key, defaultValue)
	if s, ok := v.(string); ok {
		return s
	}
	return defaultValue
}

// OptionBool returns a rule-specific boolean option, or the default.
func (rc *RuleContext) OptionBool(key string, defaultValue bool) bool {
	v := rc.Option(key, defaultValue)
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultValue
}

// OptionStringSlice returns a rule-specific string slice option, or the default.
func (rc *RuleContext) OptionStringSlice(key string, defaultValue []string) []string {
	v := rc.Option(key, defaultValue)
	if slice, ok := v.([]string); ok {
		return slice
	}
	// YAML decodes sequences into []any.
	if items, ok := v.([]any); ok {
		result := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
