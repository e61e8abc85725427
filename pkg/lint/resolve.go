package lint

import (
	"slices"

	"github.com/yaklabco/collation/pkg/config"
)

// ResolvedRule pairs a Rule with its resolved configuration.
type ResolvedRule struct {
	// Rule is the underlying rule implementation.
	Rule Rule

	// Enabled indicates whether the rule should be run.
	Enabled bool

	// Severity is the resolved severity for diagnostics from this rule.
	Severity config.Severity

	// Config is the rule-specific configuration (may be nil).
	Config *config.RuleConfig
}

// ResolveRules determines which rules to run based on registry and config.
// Returns only enabled rules, in execution order.
func ResolveRules(registry *Registry, cfg *config.Config) ([]ResolvedRule, error) {
	var include, exclude []string
	if cfg != nil {
		var err error
		if include, err = registry.ResolveAll(cfg.IncludeRules); err != nil {
			return nil, err
		}
		if exclude, err = registry.ResolveAll(cfg.ExcludeRules); err != nil {
			return nil, err
		}
	}

	var resolved []ResolvedRule
	for _, rule := range registry.Rules() {
		rr := resolveRule(registry, rule, cfg)
		switch {
		case slices.Contains(exclude, rule.ID()):
			rr.Enabled = false
		case len(include) > 0:
			rr.Enabled = slices.Contains(include, rule.ID())
		}
		if rr.Enabled {
			resolved = append(resolved, rr)
		}
	}

	return resolved, nil
}

// resolveRule resolves the configuration for a single rule.
func resolveRule(registry *Registry, rule Rule, cfg *config.Config) ResolvedRule {
	rr := ResolvedRule{
		Rule:     rule,
		Enabled:  rule.DefaultEnabled(),
		Severity: rule.DefaultSeverity(),
	}

	if cfg == nil {
		return rr
	}

	if cfg.SeverityDefault != "" {
		rr.Severity = config.Severity(cfg.SeverityDefault)
	}

	// Rule configuration may be keyed by ID or by name.
	for key, ruleCfg := range cfg.Rules {
		id, _, ok := registry.Resolve(key)
		if !ok || id != rule.ID() {
			continue
		}
		rr.Config = &ruleCfg
		if ruleCfg.Enabled != nil {
			rr.Enabled = *ruleCfg.Enabled
		}
		if ruleCfg.Severity != nil {
			rr.Severity = config.Severity(*ruleCfg.Severity)
		}
		break
	}

	return rr
}
