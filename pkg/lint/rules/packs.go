package rules

import "github.com/yaklabco/collation/pkg/config"

// Pack describes a named group of rule defaults for a particular use case.
// Packs are configuration fragments that can be used as starting points
// for .collation.yml files.
type Pack struct {
	// Name is the short identifier for the pack (e.g., "imports", "strict").
	Name string

	// Description explains the purpose and characteristics of the pack.
	Description string

	// Rules contains rule configurations keyed by rule ID.
	Rules map[string]config.RuleConfig
}

// ImportsPack returns the pack that only touches import and export
// statements.
func ImportsPack() Pack {
	return Pack{
		Name:        "imports",
		Description: "Module hygiene: preferred import paths, merged imports, exports at the end of the file",
		Rules: map[string]config.RuleConfig{
			"CL001": enabled("warning"), // import-rules
			"CL002": enabled("warning"), // merge-duplicate-imports
			"CL003": enabled("warning"), // exports-last
			"CL004": enabled("info"),    // default-export-name
			"CL005": disabled(),         // alphabetize-dependency-lists
			"CL006": disabled(),         // alphabetize-enums
			"CL007": disabled(),         // alphabetize-interfaces
			"CL008": disabled(),         // alphabetize-jsx-props
		},
	}
}

// OrderingPack returns the pack that only sorts collections.
func OrderingPack() Pack {
	return Pack{
		Name:        "ordering",
		Description: "Alphabetical order for hook dependencies, enums, interfaces and JSX props",
		Rules: map[string]config.RuleConfig{
			"CL001": disabled(),         // import-rules
			"CL002": disabled(),         // merge-duplicate-imports
			"CL003": disabled(),         // exports-last
			"CL004": disabled(),         // default-export-name
			"CL005": enabled("warning"), // alphabetize-dependency-lists
			"CL006": enabled("warning"), // alphabetize-enums
			"CL007": enabled("warning"), // alphabetize-interfaces
			"CL008": enabled("warning"), // alphabetize-jsx-props
		},
	}
}

// StrictPack returns the pack with every rule enabled as an error.
func StrictPack() Pack {
	return Pack{
		Name:        "strict",
		Description: "Strict pack: every rule enabled, violations are errors",
		Rules: map[string]config.RuleConfig{
			"CL001": enabled("error"), // import-rules
			"CL002": enabled("error"), // merge-duplicate-imports
			"CL003": enabled("error"), // exports-last
			"CL004": enabled("error"), // default-export-name
			"CL005": enabled("error"), // alphabetize-dependency-lists
			"CL006": enabled("error"), // alphabetize-enums
			"CL007": enabled("error"), // alphabetize-interfaces
			"CL008": enabled("error"), // alphabetize-jsx-props
		},
	}
}

// Packs returns all built-in rule packs.
func Packs() []Pack {
	return []Pack{
		ImportsPack(),
		OrderingPack(),
		StrictPack(),
	}
}

// PackByName returns a pack by name, or nil if not found.
func PackByName(name string) *Pack {
	for _, p := range Packs() {
		if p.Name == name {
			return &p
		}
	}
	return nil
}

// PackNames returns the names of all available packs.
func PackNames() []string {
	packs := Packs()
	names := make([]string, len(packs))
	for i, p := range packs {
		names[i] = p.Name
	}
	return names
}

// enabled creates a RuleConfig with the rule enabled and the given severity.
func enabled(sev string) config.RuleConfig {
	on := true
	return config.RuleConfig{
		Enabled:  &on,
		Severity: &sev,
	}
}

func disabled() config.RuleConfig {
	off := false
	return config.RuleConfig{Enabled: &off}
}
