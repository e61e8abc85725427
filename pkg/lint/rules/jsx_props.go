package rules

import (
	"fmt"

	"github.com/yaklabco/collation/internal/logging"
	"github.com/yaklabco/collation/pkg/lint"
	"github.com/yaklabco/collation/pkg/tsast"
)

// JSXPropsRule sorts JSX attributes by name.
type JSXPropsRule struct {
	lint.BaseRule
}

// NewJSXPropsRule creates a new alphabetize-jsx-props rule.
func NewJSXPropsRule() *JSXPropsRule {
	return &JSXPropsRule{
		BaseRule: lint.NewBaseRule(
			"CL008",
			"alphabetize-jsx-props",
			"JSX attributes should be sorted alphabetically",
			[]string{"ordering", "react", "jsx"},
			true,
		),
	}
}

// Apply sorts attributes between spreads. Attributes never move across a
// spread because later attributes override earlier ones.
func (r *JSXPropsRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	var diags []lint.Diagnostic
	for _, el := range ctx.File.JSXElements {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		if el.Unsortable {
			ctx.Logger().Debug("skipping JSX element with unrecognized attributes", logging.FieldNode, el.Name)
			continue
		}

		for _, segment := range spreadSegments(el.Attributes) {
			items := make([]orderItem, 0, len(segment))
			for _, attr := range segment {
				items = append(items, orderItem{Key: attr.Name, Label: attr.Name, Span: attr.Span(), Full: attr.Full})
			}
			found, err := applyReorder(ctx, el, items, "Prop")
			if err != nil {
				return diags, err
			}
			diags = append(diags, found...)
		}
	}

	return diags, nil
}

// spreadSegments splits attrs at spread attributes, dropping segments that
// have nothing to sort.
func spreadSegments(attrs []*tsast.JSXAttribute) [][]*tsast.JSXAttribute {
	var (
		segments [][]*tsast.JSXAttribute
		current  []*tsast.JSXAttribute
	)
	flush := func() {
		if len(current) > 1 {
			segments = append(segments, current)
		}
		current = nil
	}
	for _, attr := range attrs {
		if attr.Spread {
			flush()
			continue
		}
		current = append(current, attr)
	}
	flush()
	return segments
}
