package rules

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/yaklabco/collation/pkg/lint"
	"github.com/yaklabco/collation/pkg/tsast"
)

// MergeImportsRule merges named imports of the same module into one
// statement.
type MergeImportsRule struct {
	lint.BaseRule
}

// NewMergeImportsRule creates a new merge-duplicate-imports rule.
func NewMergeImportsRule() *MergeImportsRule {
	return &MergeImportsRule{
		BaseRule: lint.NewBaseRule(
			"CL002",
			"merge-duplicate-imports",
			"Named imports from one module should share a single import statement",
			[]string{"imports"},
			true,
		),
	}
}

// Apply merges, per container, imports that agree on module, type-only
// flag and import attributes. Namespace and side-effect imports are left
// alone, as is a duplicate that also carries a default binding.
func (r *MergeImportsRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}
	file := ctx.File

	var diags []lint.Diagnostic
	for _, c := range containersOf(file) {
		var (
			order  []string
			groups = make(map[string][]*tsast.ImportDecl)
		)
		for _, stmt := range c.stmts {
			imp, ok := stmt.(*tsast.ImportDecl)
			if !ok || !imp.HasBraces || imp.Namespace != nil || imp.SideEffect {
				continue
			}
			key := imp.Module + "\x00" + strconv.FormatBool(imp.TypeOnly) + "\x00" + compact(file.Slice(imp.Attributes))
			if _, seen := groups[key]; !seen {
				order = append(order, key)
			}
			groups[key] = append(groups[key], imp)
		}

		for _, key := range order {
			d, err := r.merge(ctx, groups[key])
			if err != nil {
				return diags, err
			}
			diags = append(diags, d...)
		}
	}
	return diags, nil
}

func (r *MergeImportsRule) merge(ctx *lint.RuleContext, imports []*tsast.ImportDecl) ([]lint.Diagnostic, error) {
	if len(imports) < 2 {
		return nil, nil
	}
	file := ctx.File
	target := imports[0]

	specs := make([]string, 0, len(target.Named))
	add := func(imp *tsast.ImportDecl) {
		for _, spec := range imp.Named {
			text := file.Slice(spec.Span())
			if !slices.ContainsFunc(specs, func(t string) bool { return compact(t) == compact(text) }) {
				specs = append(specs, text)
			}
		}
	}
	add(target)

	line, _ := file.Position(target.Span().Start)
	var diags []lint.Diagnostic
	for _, imp := range imports[1:] {
		if imp.Default != nil {
			continue
		}
		add(imp)
		if err := ctx.Delete(imp, file.LineSpan(imp.Span())); err != nil {
			return diags, err
		}
		diags = append(diags, ctx.Report(imp.Span(),
			fmt.Sprintf("%q is imported more than once", target.Module)).
			WithSuggestion(fmt.Sprintf("Merge into the import on line %d", line)).
			Build())
	}
	if len(diags) == 0 {
		return nil, nil
	}
	if err := ctx.Replace(target, target.Braces, braceList(file, target.Braces, specs)); err != nil {
		return diags, err
	}
	return diags, nil
}
