package config

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// ImportRule moves matching named imports of a module to another module.
type ImportRule struct {
	// ImportName lists the names the rule claims. Each entry is an exact
	// name, the wildcard "*" or a glob such as "Modal*".
	ImportName StringList `yaml:"importName" json:"importName" validate:"min=1,dive,required"`

	// ReplacementModuleSpecifier is the destination module. The token
	// {importName} is replaced by the matched name.
	ReplacementModuleSpecifier string `yaml:"replacementModuleSpecifier" json:"replacementModuleSpecifier" validate:"required"`

	// ReplaceAsDefault imports the name as the destination's default export.
	ReplaceAsDefault bool `yaml:"replaceAsDefault,omitempty" json:"replaceAsDefault,omitempty"`

	// TransformImportName converts the name before substitution.
	TransformImportName string `yaml:"transformImportName,omitempty" json:"transformImportName,omitempty" validate:"omitempty,oneof=camelCase pascalCase kebabCase snakeCase constantCase lowerCase upperCase"`

	// ImportPropsFromSameModule resolves FooProps through Foo. Defaults to true.
	ImportPropsFromSameModule *bool `yaml:"importPropsFromSameModule,omitempty" json:"importPropsFromSameModule,omitempty"`
}

// PropsFromSameModule reports the effective importPropsFromSameModule.
func (r ImportRule) PropsFromSameModule() bool {
	return r.ImportPropsFromSameModule == nil || *r.ImportPropsFromSameModule
}

// ImportRuleList is one or more rules for a module. In YAML it may be a
// single mapping or a sequence of mappings.
type ImportRuleList []ImportRule

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *ImportRuleList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.MappingNode:
		var rule ImportRule
		if err := value.Decode(&rule); err != nil {
			return err
		}
		*l = ImportRuleList{rule}
		return nil
	case yaml.SequenceNode:
		var rules []ImportRule
		if err := value.Decode(&rules); err != nil {
			return err
		}
		*l = rules
		return nil
	default:
		return fmt.Errorf("line %d: import rule must be a mapping or a list of mappings", value.Line)
	}
}

// ImportRules maps module specifiers to their rules.
type ImportRules map[string]ImportRuleList

// Modules returns the configured module specifiers in sorted order.
func (r ImportRules) Modules() []string {
	modules := make([]string, 0, len(r))
	for m := range r {
		modules = append(modules, m)
	}
	slices.Sort(modules)
	return modules
}

// StringList is a list of strings that may be written as a single scalar.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*s = StringList{value.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*s = items
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", value.Line)
	}
}
