package rules

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/yaklabco/collation/pkg/fix"
	"github.com/yaklabco/collation/pkg/lint"
	"github.com/yaklabco/collation/pkg/matcher"
	"github.com/yaklabco/collation/pkg/tsast"
)

// ImportRulesRule moves imports and re-exports to the modules configured
// under import_rules.
type ImportRulesRule struct {
	lint.BaseRule
}

// NewImportRulesRule creates a new import-rules rule.
func NewImportRulesRule() *ImportRulesRule {
	return &ImportRulesRule{
		BaseRule: lint.NewBaseRule(
			"CL001",
			"import-rules",
			"Names should be imported from their preferred module",
			[]string{"imports"},
			true,
		),
	}
}

// moduleSpecifier is a named import or re-export specifier.
type moduleSpecifier struct {
	node tsast.Node
	text string

	// full covers the specifier and the comments on the lines above it.
	full tsast.Span

	// match is the name looked up in the import rules: the imported name,
	// or the local one for `default as X`.
	match string

	// name is the binding a default-style replacement introduces: the
	// local name of an import, the exported name of a re-export.
	name     string
	typeOnly bool
}

// moduleStatement is an import or re-export with a named clause.
type moduleStatement struct {
	node     tsast.Node
	reexport bool
	typeOnly bool
	module   string
	quote    byte
	semi     bool
	braces   tsast.Span
	specs    []*moduleSpecifier

	// binding is the default import next to the clause, if any.
	binding *tsast.Binding
}

// claim is a specifier matched by an import rule.
type claim struct {
	spec *moduleSpecifier
	res  matcher.Resolution
}

// importGroup is one new statement: claims sharing a destination and
// import style.
type importGroup struct {
	dest      string
	asDefault bool
	claims    []claim
}

// Apply rewrites every statement whose module has import rules.
func (r *ImportRulesRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil || ctx.Imports == nil {
		return nil, nil
	}

	var statements []*moduleStatement
	tsast.Walk(ctx.File.Statements, func(n tsast.Node) bool {
		if stmt := asModuleStatement(ctx.File, n); stmt != nil && ctx.Imports.Has(stmt.module) {
			statements = append(statements, stmt)
		}
		return true
	})

	var diags []lint.Diagnostic
	for _, stmt := range statements {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		diag, err := r.rewrite(ctx, stmt)
		if err != nil {
			return diags, err
		}
		diags = append(diags, diag...)
	}
	return diags, nil
}

func asModuleStatement(file *tsast.File, n tsast.Node) *moduleStatement {
	switch s := n.(type) {
	case *tsast.ImportDecl:
		if !s.HasBraces || len(s.Named) == 0 {
			return nil
		}
		stmt := &moduleStatement{
			node: s, typeOnly: s.TypeOnly, module: s.Module, quote: s.Quote,
			semi: s.Semicolon, braces: s.Braces, binding: s.Default,
		}
		for _, spec := range s.Named {
			match := spec.Imported
			if match == "default" {
				match = spec.Local
			}
			stmt.specs = append(stmt.specs, &moduleSpecifier{
				node: spec, text: file.Slice(spec.Span()), full: spec.Full, match: match,
				name: spec.Local, typeOnly: spec.TypeOnly,
			})
		}
		return stmt
	case *tsast.ExportDecl:
		if !s.HasModule || s.Star || len(s.Specifiers) == 0 {
			return nil
		}
		stmt := &moduleStatement{
			node: s, reexport: true, typeOnly: s.TypeOnly, module: s.Module,
			quote: s.Quote, semi: s.Semicolon, braces: s.Braces,
		}
		for _, spec := range s.Specifiers {
			match := spec.Local
			if match == "default" {
				match = spec.Exported
			}
			stmt.specs = append(stmt.specs, &moduleSpecifier{
				node: spec, text: file.Slice(spec.Span()), full: spec.Full, match: match,
				name: spec.Exported, typeOnly: spec.TypeOnly,
			})
		}
		return stmt
	}
	return nil
}

// claimSpecifiers matches specifiers entry by entry, most specific entry
// first. A matched specifier leaves the candidate set, so a broader entry
// never sees it, even when the match keeps it in place. Claims are returned in source order.
func claimSpecifiers(set *matcher.Set, stmt *moduleStatement) []claim {
	remaining := stmt.specs
	var claims []claim
	for _, entry := range set.Entries(stmt.module) {
		matched := lo.Filter(remaining, func(spec *moduleSpecifier, _ int) bool {
			res, ok := entry.Resolve(stmt.module, spec.match)
			if ok && res.Moves() {
				claims = append(claims, claim{spec: spec, res: res})
			}
			return ok
		})
		remaining = lo.Without(remaining, matched...)
	}

	slices.SortStableFunc(claims, func(a, b claim) int {
		return slices.Index(stmt.specs, a.spec) - slices.Index(stmt.specs, b.spec)
	})
	return claims
}

// groupClaims groups claims by destination and style in order of first
// appearance. Every default-style name gets a statement of its own.
func groupClaims(claims []claim) []*importGroup {
	var groups []*importGroup
	byKey := make(map[string]*importGroup)
	for _, c := range claims {
		// A Props companion is a named export of its component's module.
		asDefault := c.res.Default && c.res.Name == c.spec.match

		key := c.res.Destination + "\x00" + strconv.FormatBool(asDefault)
		if asDefault {
			key += "\x00" + c.spec.name
		}
		g, ok := byKey[key]
		if !ok {
			g = &importGroup{dest: c.res.Destination, asDefault: asDefault}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.claims = append(g.claims, c)
	}
	return groups
}

// statement renders the group in the style of the statement it came from.
func (g *importGroup) statement(file *tsast.File, stmt *moduleStatement) string {
	keyword := "import"
	if stmt.reexport {
		keyword = "export"
	}

	var clause string
	typeOnly := stmt.typeOnly
	switch {
	case g.asDefault && stmt.reexport:
		spec := g.claims[0].spec
		clause = "{ default as " + spec.name + " }"
		typeOnly = typeOnly || spec.typeOnly
	case g.asDefault:
		spec := g.claims[0].spec
		clause = spec.name
		typeOnly = typeOnly || spec.typeOnly
	default:
		texts := lo.Map(g.claims, func(c claim, _ int) string { return c.spec.text })
		clause = braceList(file, stmt.braces, texts)
	}

	var b strings.Builder
	b.WriteString(keyword + " ")
	if typeOnly {
		b.WriteString("type ")
	}
	b.WriteString(clause + " from " + quoteModule(g.dest, stmt.quote) + semicolon(stmt.semi))
	return b.String()
}

// comments returns the lines of the comments written above the group's
// specifiers, which move with them.
func (g *importGroup) comments(file *tsast.File) []string {
	var lines []string
	for _, c := range g.claims {
		above := file.Slice(tsast.Span{Start: c.spec.full.Start, End: c.spec.node.Span().Start})
		for _, line := range strings.Split(strings.TrimSpace(above), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

func (r *ImportRulesRule) rewrite(ctx *lint.RuleContext, stmt *moduleStatement) ([]lint.Diagnostic, error) {
	claims := claimSpecifiers(ctx.Imports, stmt)
	if len(claims) == 0 {
		return nil, nil
	}

	file := ctx.File
	groups := groupClaims(claims)
	span := stmt.node.Span()
	sep := file.Newline() + file.Indent(span.Start)

	texts := lo.Map(groups, func(g *importGroup, _ int) string { return g.statement(file, stmt) })
	lines := make([]string, 0, len(groups))
	for i, g := range groups {
		lines = append(lines, append(g.comments(file), texts[i])...)
	}
	replacement := strings.Join(lines, sep)

	if len(claims) < len(stmt.specs) || stmt.binding != nil {
		rest, err := withoutClaimed(file, stmt, claims)
		if err != nil {
			return nil, err
		}
		replacement += sep + rest
	}

	if err := ctx.Replace(stmt.node, span, replacement); err != nil {
		return nil, err
	}

	return []lint.Diagnostic{ctx.Report(span, importMessage(stmt, groups)).
		WithSuggestion(strings.Join(texts, "; ")).
		Build()}, nil
}

// withoutClaimed returns the statement's text with the claimed specifiers
// and their separators removed.
func withoutClaimed(file *tsast.File, stmt *moduleStatement, claims []claim) (string, error) {
	span := stmt.node.Span()
	claimed := lo.SliceToMap(claims, func(c claim) (*moduleSpecifier, bool) { return c.spec, true })
	kept := lo.Reject(stmt.specs, func(spec *moduleSpecifier, _ int) bool { return claimed[spec] })

	rel := func(start, end int) fix.TextEdit {
		return fix.TextEdit{StartOffset: start - span.Start, EndOffset: end - span.Start}
	}

	var edits []fix.TextEdit
	if len(kept) == 0 {
		// Only the default binding remains: drop `, { ... }`.
		edits = append(edits, rel(stmt.binding.Span.End, stmt.braces.End))
	} else {
		lastKept := slices.Index(stmt.specs, kept[len(kept)-1])
		prevKept := -1
		for i, spec := range stmt.specs {
			if !claimed[spec] {
				prevKept = i
				continue
			}
			if i < lastKept {
				edits = append(edits, rel(spec.full.Start, stmt.specs[i+1].full.Start))
			} else {
				edits = append(edits, rel(stmt.specs[prevKept].node.Span().End, spec.full.End))
			}
		}
	}

	// Deletions of a run of neighbours overlap and are merged.
	comp, err := fix.Compose(edits, span.Len())
	if err != nil {
		return "", fmt.Errorf("remove specifiers: %w", err)
	}
	return string(fix.ApplyEdits([]byte(file.Slice(span)), comp.Accepted)), nil
}

// importMessage describes the moves. Several destinations share one
// message.
func importMessage(stmt *moduleStatement, groups []*importGroup) string {
	verb := "Import"
	if stmt.reexport {
		verb = "Re-export"
	}

	var dests []string
	names := make(map[string][]string)
	for _, g := range groups {
		if _, ok := names[g.dest]; !ok {
			dests = append(dests, g.dest)
		}
		for _, c := range g.claims {
			names[g.dest] = append(names[g.dest], strconv.Quote(c.spec.match))
		}
	}

	if len(dests) == 1 {
		return fmt.Sprintf("%s %s from %q instead of %q", verb, JoinAnd(names[dests[0]]), dests[0], stmt.module)
	}
	parts := lo.Map(dests, func(dest string, _ int) string {
		return fmt.Sprintf("%s from %q", strings.Join(names[dest], ", "), dest)
	})
	return fmt.Sprintf("%s %s instead of %q", verb, JoinAnd(parts), stmt.module)
}
