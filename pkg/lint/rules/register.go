package rules

import (
	"github.com/yaklabco/collation/pkg/config"
	"github.com/yaklabco/collation/pkg/lint"
)

// RegisterAll registers all built-in rules with the given registry.
func RegisterAll(registry *lint.Registry) {
	// Import rules
	registry.Register(NewImportRulesRule())  // CL001
	registry.Register(NewMergeImportsRule()) // CL002

	// Export rules
	registry.Register(NewExportsLastRule())       // CL003
	registry.Register(NewDefaultExportNameRule()) // CL004

	// Ordering rules
	registry.Register(NewDependencyListRule()) // CL005
	registry.Register(NewEnumRule())           // CL006
	registry.Register(NewInterfaceRule())      // CL007
	registry.Register(NewJSXPropsRule())       // CL008
}

// RuleInfos describes the rules of registry for config templates.
func RuleInfos(registry *lint.Registry) []config.RuleInfo {
	rules := registry.Rules()
	infos := make([]config.RuleInfo, 0, len(rules))
	for _, r := range rules {
		infos = append(infos, config.RuleInfo{
			ID:          r.ID(),
			Name:        r.Name(),
			Description: r.Description(),
			Enabled:     r.DefaultEnabled(),
			Severity:    r.DefaultSeverity(),
			Tags:        r.Tags(),
			CanFix:      r.CanFix(),
		})
	}
	return infos
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(lint.DefaultRegistry)
	config.DefaultRuleInfoProvider = func() []config.RuleInfo {
		return RuleInfos(lint.DefaultRegistry)
	}
}
