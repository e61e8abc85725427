package rules

import (
	"fmt"

	"github.com/yaklabco/collation/internal/logging"
	"github.com/yaklabco/collation/pkg/casing"
	"github.com/yaklabco/collation/pkg/lint"
	"github.com/yaklabco/collation/pkg/tsast"
)

// DefaultExportNameRule names a default-exported function or class after
// its file.
type DefaultExportNameRule struct {
	lint.BaseRule
}

// NewDefaultExportNameRule creates a new default-export-name rule.
func NewDefaultExportNameRule() *DefaultExportNameRule {
	return &DefaultExportNameRule{
		BaseRule: lint.NewBaseRule(
			"CL004",
			"default-export-name",
			"A default-exported function or class should be named after its file",
			[]string{"exports", "naming"},
			true,
		),
	}
}

// Apply renames the default export and every reference to it.
func (r *DefaultExportNameRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}
	file := ctx.File

	decl := defaultDeclaration(file.Statements)
	if decl == nil || decl.Name == "" {
		return nil, nil
	}

	style := casing.Camel
	if decl.Decl == tsast.DeclClass {
		style = casing.Pascal
	}
	want := defaultName(file, container{stmts: file.Statements}, style)
	if want == "" || want == decl.Name {
		return nil, nil
	}

	logger := ctx.Logger()
	if exportedByName(file.Statements, decl.Name) {
		logger.Debug("skipping default export that is also a named export", logging.FieldName, decl.Name)
		return nil, nil
	}
	for _, tok := range file.Tokens() {
		if tok.Kind == tsast.TokenIdent && tok.Text == want {
			logger.Debug("skipping rename that would collide", logging.FieldName, decl.Name,
				logging.FieldReason, fmt.Sprintf("%q is already used", want))
			return nil, nil
		}
	}

	refs, c := references(file, decl.Name, decl.NameSpan)
	if c != nil {
		line, _ := file.Position(c.offset)
		logger.Debug("skipping rename that would collide", logging.FieldName, decl.Name,
			logging.FieldLine, line, logging.FieldReason, c.reason)
		return nil, nil
	}
	for _, ref := range refs {
		text := want
		if ref.shorthand {
			text = decl.Name + ": " + want
		}
		if err := ctx.Replace(decl, ref.span, text); err != nil {
			return nil, err
		}
	}

	return []lint.Diagnostic{
		ctx.Report(decl.NameSpan,
			fmt.Sprintf("Default export %q should be named %q after its file", decl.Name, want)).
			WithSuggestion(fmt.Sprintf("Rename %q to %q", decl.Name, want)).
			Build(),
	}, nil
}

// defaultDeclaration finds the function or class the file exports as
// default, inline or through `export default name` or
// `export { name as default }`.
func defaultDeclaration(stmts []tsast.Statement) *tsast.Declaration {
	target := ""
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *tsast.Declaration:
			if s.Exported && s.Default && isCallable(s) {
				return s
			}
		case *tsast.ExportAssignment:
			if s.ExprKind == tsast.ExprIdentifier {
				target = s.Name
			}
		case *tsast.ExportDecl:
			if s.HasModule || s.Star {
				continue
			}
			for _, spec := range s.Specifiers {
				if spec.Exported == "default" {
					target = spec.Local
				}
			}
		}
	}
	if target == "" {
		return nil
	}
	for _, stmt := range stmts {
		if d, ok := stmt.(*tsast.Declaration); ok && isCallable(d) && d.Name == target {
			return d
		}
	}
	return nil
}

func isCallable(d *tsast.Declaration) bool {
	return d.Decl == tsast.DeclFunction || d.Decl == tsast.DeclClass
}

// exportedByName reports whether name is also exported under a name other
// than default; renaming it would break importers.
func exportedByName(stmts []tsast.Statement, name string) bool {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *tsast.Declaration:
			if s.Exported && !s.Default && s.Name == name {
				return true
			}
		case *tsast.ExportDecl:
			if s.HasModule {
				continue
			}
			for _, spec := range s.Specifiers {
				if spec.Local == name && spec.Exported != "default" {
					return true
				}
			}
		}
	}
	return false
}
