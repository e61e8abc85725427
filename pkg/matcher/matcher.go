// Package matcher resolves import names against compiled import rules.
//
// Rules are compiled once, at configuration load, into per-module entry
// lists ordered exact names first, then globs, then the universal
// wildcard. Declaration order is kept within each class, so the first
// matching entry is always the most specific one.
package matcher

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/collation/pkg/casing"
	"github.com/yaklabco/collation/pkg/config"
)

// Token is replaced by the matched name in destination templates.
const Token = "{importName}"

const propsSuffix = "Props"

// Kind orders entries by specificity.
type Kind uint8

const (
	KindExact Kind = iota
	KindGlob
	KindWildcard
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindGlob:
		return "glob"
	default:
		return "wildcard"
	}
}

// Entry is one compiled name pattern of an import rule.
type Entry struct {
	Kind    Kind
	Pattern string
	Rule    config.ImportRule

	// RuleIndex is the position of Rule in its module's rule list.
	RuleIndex int

	style casing.Style
	glob  glob.Glob
}

func (e *Entry) matches(name string) bool {
	switch e.Kind {
	case KindExact:
		return name == e.Pattern
	case KindGlob:
		return e.glob.Match(name)
	default:
		return true
	}
}

// Resolution is the outcome of a successful match.
type Resolution struct {
	Entry *Entry

	// Name is the name that matched, after the Props companion was stripped.
	Name string

	// Source is the module the name was imported from; Destination is the
	// module the import moves to.
	Source      string
	Destination string

	// Default is set when the name becomes the destination's default import.
	Default bool
}

// Moves reports whether the destination differs from the source. A
// matching entry that pins a name to its own module leaves it in place.
func (r Resolution) Moves() bool {
	return r.Destination != r.Source
}

// Set holds the compiled entries of every configured module.
type Set struct {
	modules map[string][]*Entry
}

// Compile validates rules and builds the ordered entry lists.
func Compile(rules config.ImportRules) (*Set, error) {
	s := &Set{modules: make(map[string][]*Entry, len(rules))}
	for _, module := range rules.Modules() {
		var entries []*Entry
		for idx, rule := range rules[module] {
			var style casing.Style
			if rule.TransformImportName != "" {
				st, err := casing.ParseStyle(rule.TransformImportName)
				if err != nil {
					return nil, fmt.Errorf("import rule %d for %q: %w", idx, module, err)
				}
				style = st
			}
			if rule.ReplacementModuleSpecifier == "" {
				return nil, fmt.Errorf("import rule %d for %q: replacementModuleSpecifier is required", idx, module)
			}

			for _, pattern := range rule.ImportName {
				e := &Entry{Pattern: pattern, Rule: rule, RuleIndex: idx, style: style}
				switch {
				case pattern == "*":
					e.Kind = KindWildcard
				case strings.ContainsAny(pattern, "*?[{"):
					g, err := glob.Compile(pattern)
					if err != nil {
						return nil, fmt.Errorf("import rule %d for %q: bad pattern %q: %w", idx, module, pattern, err)
					}
					e.Kind, e.glob = KindGlob, g
				default:
					e.Kind = KindExact
				}
				entries = append(entries, e)
			}
		}
		slices.SortStableFunc(entries, func(a, b *Entry) int {
			return int(a.Kind) - int(b.Kind)
		})
		s.modules[module] = entries
	}
	return s, nil
}

// Modules returns the configured module specifiers in sorted order.
func (s *Set) Modules() []string {
	if s == nil {
		return nil
	}
	modules := make([]string, 0, len(s.modules))
	for m := range s.modules {
		modules = append(modules, m)
	}
	slices.Sort(modules)
	return modules
}

// Has reports whether module has rules.
func (s *Set) Has(module string) bool {
	if s == nil {
		return false
	}
	_, ok := s.modules[module]
	return ok
}

// Entries returns the ordered entries of module.
func (s *Set) Entries(module string) []*Entry {
	if s == nil {
		return nil
	}
	return s.modules[module]
}

// Match resolves name imported from module. The first matching entry wins,
// even when it keeps the name in module; ok is set only for a move.
func (s *Set) Match(module, name string) (Resolution, bool) {
	for _, e := range s.Entries(module) {
		if res, ok := e.Resolve(module, name); ok {
			return res, res.Moves()
		}
	}
	return Resolution{}, false
}

// Resolve matches name against this entry alone.
func (e *Entry) Resolve(module, name string) (Resolution, bool) {
	for _, candidate := range candidates(e, name) {
		if !e.matches(candidate) {
			continue
		}
		dest := strings.ReplaceAll(e.Rule.ReplacementModuleSpecifier, Token, e.style.Apply(candidate))
		return Resolution{
			Entry:       e,
			Name:        candidate,
			Source:      module,
			Destination: dest,
			Default:     e.Rule.ReplaceAsDefault && !IndexLike(dest),
		}, true
	}
	return Resolution{}, false
}

// candidates lists the names tried for e: the Props companion's base name
// first, then the name itself.
func candidates(e *Entry, name string) []string {
	if e.Rule.PropsFromSameModule() && len(name) > len(propsSuffix) && strings.HasSuffix(name, propsSuffix) {
		return []string{strings.TrimSuffix(name, propsSuffix), name}
	}
	return []string{name}
}

// IndexLike reports whether a module specifier points at a directory index
// ("." or "../" or "./lib/index"), which has no meaningful default export.
func IndexLike(module string) bool {
	switch {
	case module == "." || module == "..":
		return true
	case strings.HasSuffix(module, "/"):
		return true
	case module == "index" || strings.HasSuffix(module, "/index"):
		return true
	}
	return false
}
