package rules

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/samber/lo"

	"github.com/yaklabco/collation/internal/logging"
	"github.com/yaklabco/collation/pkg/casing"
	"github.com/yaklabco/collation/pkg/lint"
	"github.com/yaklabco/collation/pkg/tsast"
)

// ExportsLastRule turns inline exports into declarations plus one export
// statement per kind at the end of the file or module block.
type ExportsLastRule struct {
	lint.BaseRule
}

// NewExportsLastRule creates a new exports-last rule.
func NewExportsLastRule() *ExportsLastRule {
	return &ExportsLastRule{
		BaseRule: lint.NewBaseRule(
			"CL003",
			"exports-last",
			"Exports should be collected in export statements at the end of the file",
			[]string{"exports"},
			true,
		),
	}
}

// exportQueue collects the names stripped from inline exports.
type exportQueue struct {
	values []string
	types  []string
	dflt   string
}

func (q *exportQueue) empty() bool {
	return len(q.values) == 0 && len(q.types) == 0 && q.dflt == ""
}

// exportGroup is the set of export statements that belong together: same
// type-only flag and same source module.
type exportGroup struct {
	typeOnly   bool
	module     string
	hasModule  bool
	stmts      []*tsast.ExportDecl
	specifiers []string
}

// Apply runs in two phases. The first strips inline export modifiers and
// appends export statements for the names; the second, on the committed
// result, merges and moves export statements.
func (r *ExportsLastRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	var diags []lint.Diagnostic
	for _, c := range containersOf(ctx.File) {
		d, err := r.inlineExports(ctx, c)
		if err != nil {
			return diags, err
		}
		diags = append(diags, d...)
	}

	if ctx.Builder.Len() > 0 {
		if err := ctx.Commit(); err != nil {
			return diags, err
		}
	}

	for _, c := range containersOf(ctx.File) {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		d, err := r.collectExports(ctx, c)
		if err != nil {
			return diags, err
		}
		diags = append(diags, d...)
	}
	return diags, nil
}

func (r *ExportsLastRule) inlineExports(ctx *lint.RuleContext, c container) ([]lint.Diagnostic, error) {
	logger := ctx.Logger()
	file := ctx.File
	noun := c.noun()

	var (
		q     exportQueue
		diags []lint.Diagnostic
	)
	for _, stmt := range c.stmts {
		switch s := stmt.(type) {
		case *tsast.Declaration:
			if !s.Exported {
				continue
			}
			if s.Default {
				name := s.Name
				if name == "" {
					style := casing.Camel
					if s.Decl == tsast.DeclClass {
						style = casing.Pascal
					}
					name = defaultName(file, c, style)
					if name == "" || scopeNames(file, c)[name] {
						logger.Debug("cannot name default export",
							logging.FieldName, name)
						continue
					}
					if err := r.nameDeclaration(ctx, s, name); err != nil {
						return diags, err
					}
				}
				if err := ctx.Delete(s, s.ExportSpan); err != nil {
					return diags, err
				}
				q.dflt = name
				diags = append(diags, ctx.Report(s.ExportSpan,
					fmt.Sprintf("Default export %q should be declared separately and exported at the end of the %s", name, noun)).
					WithSuggestion(fmt.Sprintf("Add \"export default %s;\" at the end of the %s", name, noun)).
					Build())
				continue
			}

			names := s.Names()
			if len(names) == 0 {
				continue
			}
			if err := ctx.Delete(s, s.ExportSpan); err != nil {
				return diags, err
			}
			if s.Decl.IsType() {
				q.types = append(q.types, names...)
			} else {
				q.values = append(q.values, names...)
			}
			diags = append(diags, ctx.Report(s.ExportSpan,
				fmt.Sprintf("Export of %s should move to the export statement at the end of the %s",
					JoinAnd(quoteAll(names)), noun)).
				Build())

		case *tsast.ExportAssignment:
			switch s.ExprKind {
			case tsast.ExprIdentifier:
				if !scopeNames(file, c)[s.Name] {
					logger.Debug("default export does not resolve to a declaration",
						logging.FieldName, s.Name)
				}
			case tsast.ExprLiteral, tsast.ExprArrow, tsast.ExprFunction,
				tsast.ExprClass, tsast.ExprObject, tsast.ExprArray:
				style := casing.Camel
				if s.ExprKind == tsast.ExprClass {
					style = casing.Pascal
				}
				name := defaultName(file, c, style)
				if name == "" || scopeNames(file, c)[name] {
					logger.Debug("cannot name default export",
						logging.FieldName, name)
					continue
				}
				if err := ctx.Replace(s, s.Keyword, "const "+name+" = "); err != nil {
					return diags, err
				}
				if !s.Semicolon {
					if err := ctx.Insert(s, s.Expr.End, ";"); err != nil {
						return diags, err
					}
				}
				q.dflt = name
				diags = append(diags, ctx.Report(s.Keyword,
					fmt.Sprintf("Default export expression should be assigned to %q and exported at the end of the %s", name, noun)).
					Build())
			case tsast.ExprOther:
			}
		}
	}

	if q.empty() {
		return diags, nil
	}
	offset, text := tailInsertion(file, c, nil, r.tail(ctx, q))
	if err := ctx.Insert(c.owner(), offset, text); err != nil {
		return diags, err
	}
	return diags, nil
}

// nameDeclaration writes name after the function or class keyword of an
// anonymous declaration.
func (r *ExportsLastRule) nameDeclaration(ctx *lint.RuleContext, d *tsast.Declaration, name string) error {
	content := ctx.File.Content
	pos := d.NameInsert
	if pos < len(content) && content[pos] == ' ' {
		text := name
		if d.Decl == tsast.DeclClass {
			text += " "
		}
		return ctx.Insert(d, pos+1, text)
	}
	return ctx.Insert(d, pos, " "+name)
}

// tail renders the export statements for q. Types get a statement of
// their own only when the project compiles with isolated modules and the
// compiler supports `export type`.
func (r *ExportsLastRule) tail(ctx *lint.RuleContext, q exportQueue) []string {
	values := lo.Uniq(q.values)
	types := lo.Without(lo.Uniq(q.types), values...)

	isolated := ctx.OptionBool("isolated_modules", ctx.Settings.IsolatedModules) && ctx.Settings.TypeExports()

	var lines []string
	if isolated {
		if len(values) > 0 {
			lines = append(lines, "export "+braceList(ctx.File, tsast.Span{}, values)+";")
		}
		if len(types) > 0 {
			lines = append(lines, "export type "+braceList(ctx.File, tsast.Span{}, types)+";")
		}
	} else if all := append(slices.Clone(values), types...); len(all) > 0 {
		lines = append(lines, "export "+braceList(ctx.File, tsast.Span{}, all)+";")
	}
	if q.dflt != "" {
		lines = append(lines, "export default "+q.dflt+";")
	}
	return lines
}

// collectExports merges export statements and moves the local ones, plus
// `export default name`, to the end of the container.
func (r *ExportsLastRule) collectExports(ctx *lint.RuleContext, c container) ([]lint.Diagnostic, error) {
	file := ctx.File
	noun := c.noun()

	var (
		groups []*exportGroup
		dflt   *tsast.ExportAssignment
		diags  []lint.Diagnostic
	)
	byKey := make(map[string]*exportGroup)
	names := scopeNames(file, c)
	for _, stmt := range c.stmts {
		switch s := stmt.(type) {
		case *tsast.ExportDecl:
			if s.Star || len(s.Specifiers) == 0 || !s.Attributes.IsZero() {
				continue
			}
			key := strconv.FormatBool(s.TypeOnly) + "\x00" + strconv.FormatBool(s.HasModule) + "\x00" + s.Module
			g, ok := byKey[key]
			if !ok {
				g = &exportGroup{typeOnly: s.TypeOnly, module: s.Module, hasModule: s.HasModule}
				byKey[key] = g
				groups = append(groups, g)
			}
			g.stmts = append(g.stmts, s)
			for _, spec := range s.Specifiers {
				text := file.Slice(spec.Span())
				if !slices.ContainsFunc(g.specifiers, func(t string) bool { return compact(t) == compact(text) }) {
					g.specifiers = append(g.specifiers, text)
				}
			}
		case *tsast.ExportAssignment:
			if dflt == nil && s.ExprKind == tsast.ExprIdentifier && names[s.Name] {
				dflt = s
			}
		}
	}

	var local []*exportGroup
	for _, g := range groups {
		if !g.hasModule {
			local = append(local, g)
			continue
		}
		if len(g.stmts) < 2 {
			continue
		}
		first := g.stmts[0]
		if err := ctx.Replace(first, first.Braces, braceList(file, first.Braces, g.specifiers)); err != nil {
			return diags, err
		}
		for _, s := range g.stmts[1:] {
			if err := ctx.Delete(s, file.LineSpan(s.Span())); err != nil {
				return diags, err
			}
		}
		diags = append(diags, ctx.Report(first.Span(),
			fmt.Sprintf("%d re-export statements from %q should be merged into one", len(g.stmts), g.module)).
			Build())
	}

	var tail []tsast.Statement
	for _, g := range local {
		for _, s := range g.stmts {
			tail = append(tail, s)
		}
	}
	if dflt != nil {
		tail = append(tail, dflt)
	}
	if len(tail) == 0 || r.settled(c, local, tail) {
		return diags, nil
	}

	var (
		removed []tsast.Span
		lines   []string
	)
	for _, s := range tail {
		span := file.LineSpan(s.Span())
		if err := ctx.Delete(s, span); err != nil {
			return diags, err
		}
		removed = append(removed, span)
	}
	for _, g := range local {
		first := g.stmts[0]
		if len(g.stmts) == 1 {
			lines = append(lines, file.Slice(first.Span()))
			continue
		}
		keyword := "export "
		if g.typeOnly {
			keyword = "export type "
		}
		lines = append(lines, keyword+braceList(file, first.Braces, g.specifiers)+semicolon(first.Semicolon))
		diags = append(diags, ctx.Report(first.Span(),
			fmt.Sprintf("%d export statements should be merged into one", len(g.stmts))).
			Build())
	}
	if dflt != nil {
		lines = append(lines, file.Slice(dflt.Span()))
	}

	offset, text := tailInsertion(file, c, removed, lines)
	if err := ctx.Insert(c.owner(), offset, text); err != nil {
		return diags, err
	}
	for _, s := range tail {
		if !r.trailing(c, s, len(tail)) {
			diags = append(diags, ctx.Report(s.Span(),
				fmt.Sprintf("Export statement should be at the end of the %s", noun)).
				Build())
		}
	}
	return diags, nil
}

// settled reports whether every local group is a single statement and the
// tail statements already close the container in order.
func (r *ExportsLastRule) settled(c container, local []*exportGroup, tail []tsast.Statement) bool {
	for _, g := range local {
		if len(g.stmts) != 1 {
			return false
		}
	}
	if len(tail) > len(c.stmts) {
		return false
	}
	last := c.stmts[len(c.stmts)-len(tail):]
	for i := range tail {
		if last[i] != tail[i] {
			return false
		}
	}
	return true
}

// trailing reports whether s is among the last n statements of c.
func (r *ExportsLastRule) trailing(c container, s tsast.Statement, n int) bool {
	if n > len(c.stmts) {
		n = len(c.stmts)
	}
	return slices.Contains(c.stmts[len(c.stmts)-n:], s)
}

func quoteAll(names []string) []string {
	return lo.Map(names, func(n string, _ int) string { return strconv.Quote(n) })
}
