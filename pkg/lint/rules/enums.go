package rules

import (
	"fmt"

	"github.com/yaklabco/collation/internal/logging"
	"github.com/yaklabco/collation/pkg/lint"
	"github.com/yaklabco/collation/pkg/tsast"
)

// EnumRule sorts enum members by name.
type EnumRule struct {
	lint.BaseRule
}

// NewEnumRule creates a new alphabetize-enums rule.
func NewEnumRule() *EnumRule {
	return &EnumRule{
		BaseRule: lint.NewBaseRule(
			"CL006",
			"alphabetize-enums",
			"Enum members should be sorted alphabetically",
			[]string{"ordering"},
			true,
		),
	}
}

// Apply sorts every enum whose members all have initializers. Reordering
// members without initializers would change their values.
func (r *EnumRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
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
		if decl.Decl != tsast.DeclEnum || len(decl.Members) < 2 {
			return true
		}
		if ctx.Cancelled() {
			err = fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
			return false
		}

		items := make([]orderItem, 0, len(decl.Members))
		for _, m := range decl.Members {
			if !m.HasInitializer {
				ctx.Logger().Debug("skipping enum with implicit member values",
					logging.FieldNode, decl.Name, logging.FieldName, m.Name)
				return true
			}
			items = append(items, orderItem{Key: m.Name, Label: m.Name, Span: m.Span(), Full: m.Full})
		}

		var found []lint.Diagnostic
		found, err = applyReorder(ctx, decl, items, "Enum member")
		diags = append(diags, found...)
		return err == nil
	})

	return diags, err
}
