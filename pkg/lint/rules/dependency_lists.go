package rules

import (
	"fmt"
	"slices"

	"github.com/yaklabco/collation/internal/logging"
	"github.com/yaklabco/collation/pkg/lint"
)

// defaultHooks are the React hooks whose last argument is a dependency list.
//
//nolint:gochecknoglobals // Read-only default.
var defaultHooks = []string{
	"useCallback",
	"useEffect",
	"useImperativeHandle",
	"useInsertionEffect",
	"useLayoutEffect",
	"useMemo",
}

// DependencyListRule sorts the dependency arrays of React hooks.
type DependencyListRule struct {
	lint.BaseRule
}

// NewDependencyListRule creates a new alphabetize-dependency-lists rule.
func NewDependencyListRule() *DependencyListRule {
	return &DependencyListRule{
		BaseRule: lint.NewBaseRule(
			"CL005",
			"alphabetize-dependency-lists",
			"Hook dependency arrays should be sorted alphabetically",
			[]string{"ordering", "react"},
			true,
		),
	}
}

// Apply sorts the last array argument of every hook call. The option
// "hooks" adds hook names to the built-in list.
func (r *DependencyListRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	hooks := append(slices.Clone(defaultHooks), ctx.OptionStringSlice("hooks", nil)...)

	var diags []lint.Diagnostic
	for _, call := range ctx.File.Calls {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		deps := call.LastArray
		if deps == nil || len(call.Args) < 2 || !slices.Contains(hooks, call.Name) {
			continue
		}

		items := make([]orderItem, 0, len(deps.Elements))
		simple := true
		for _, el := range deps.Elements {
			if !el.Simple {
				simple = false
				break
			}
			items = append(items, orderItem{Key: el.Key, Label: el.Key, Span: el.Span(), Full: el.Full})
		}
		if !simple {
			ctx.Logger().Debug("skipping dependency list with non-identifier elements",
				logging.FieldNode, call.Callee)
			continue
		}

		found, err := applyReorder(ctx, call, items, "Dependency")
		if err != nil {
			return diags, err
		}
		diags = append(diags, found...)
	}

	return diags, nil
}
