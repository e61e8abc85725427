package rules

import (
	"fmt"

	"github.com/yaklabco/collation/internal/logging"
	"github.com/yaklabco/collation/pkg/lint"
	"github.com/yaklabco/collation/pkg/tsast"
)

// InterfaceRule sorts interface properties and methods by name.
type InterfaceRule struct {
	lint.BaseRule
}

// NewInterfaceRule creates a new alphabetize-interfaces rule.
func NewInterfaceRule() *InterfaceRule {
	return &InterfaceRule{
		BaseRule: lint.NewBaseRule(
			"CL007",
			"alphabetize-interfaces",
			"Interface members should be sorted alphabetically",
			[]string{"ordering", "types"},
			true,
		),
	}
}

// Apply sorts interfaces made only of named properties and methods.
// Interfaces with index, call or construct signatures are left alone.
func (r *InterfaceRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	var (
		diags []lint.Diagnostic
		err   error
	)
	tsast.Walk(ctx.File.Statements, func(n tsast.Node) bool {
		decl, ok := n.(*tsast.Declaration)
		if !ok || err != nil {
			return err == nil
		}
		if decl.Decl != tsast.DeclInterface || len(decl.Properties) < 2 {
			return true
		}
		if ctx.Cancelled() {
			err = fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
			return false
		}

		items := make([]orderItem, 0, len(decl.Properties))
		for _, m := range decl.Properties {
			if !m.Named() {
				ctx.Logger().Debug("skipping interface with unnamed members", logging.FieldNode, decl.Name)
				return true
			}
			items = append(items, orderItem{Key: m.Name, Label: m.Name, Span: m.Span(), Full: m.Full})
		}

		var found []lint.Diagnostic
		found, err = applyReorder(ctx, decl, items, "Interface member")
		diags = append(diags, found...)
		return err == nil
	})

	return diags, err
}
