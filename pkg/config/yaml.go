package config

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// ToYAML serializes the configuration to YAML format.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent())

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if cfg.Rules == nil {
		cfg.Rules = make(map[string]RuleConfig)
	}
	if cfg.ImportRules == nil {
		cfg.ImportRules = make(ImportRules)
	}

	return cfg, nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := &Config{
		SeverityDefault:  c.SeverityDefault,
		Include:          slices.Clone(c.Include),
		Ignore:           slices.Clone(c.Ignore),
		DryRun:           c.DryRun,
		PrintDiagnostics: c.PrintDiagnostics,
		Format:           c.Format,
		RuleFormat:       c.RuleFormat,
		Jobs:             c.Jobs,
		IncludeRules:     slices.Clone(c.IncludeRules),
		ExcludeRules:     slices.Clone(c.ExcludeRules),
	}

	if c.Rules != nil {
		clone.Rules = make(map[string]RuleConfig, len(c.Rules))
		for k, v := range c.Rules {
			clone.Rules[k] = v.clone()
		}
	}

	if c.ImportRules != nil {
		clone.ImportRules = make(ImportRules, len(c.ImportRules))
		for module, rules := range c.ImportRules {
			list := make(ImportRuleList, len(rules))
			for i, r := range rules {
				r.ImportName = slices.Clone(r.ImportName)
				if r.ImportPropsFromSameModule != nil {
					v := *r.ImportPropsFromSameModule
					r.ImportPropsFromSameModule = &v
				}
				list[i] = r
			}
			clone.ImportRules[module] = list
		}
	}

	return clone
}

// clone creates a deep copy of a RuleConfig.
func (rc RuleConfig) clone() RuleConfig {
	clone := RuleConfig{}

	if rc.Enabled != nil {
		enabled := *rc.Enabled
		clone.Enabled = &enabled
	}

	if rc.Severity != nil {
		severity := *rc.Severity
		clone.Severity = &severity
	}

	if rc.Options != nil {
		clone.Options = make(map[string]any, len(rc.Options))
		maps.Copy(clone.Options, rc.Options) // Nested maps/slices in Options are shared.
	}

	return clone
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}
