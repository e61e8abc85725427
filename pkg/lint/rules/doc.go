// Package rules provides the built-in rules for collation.
//
// # Rule Domains
//
//   - Imports:
//
//   - CL001: import-rules - Names should be imported from their preferred module
//
//   - CL002: merge-duplicate-imports - One import statement per module
//
//   - Exports:
//
//   - CL003: exports-last - Exports are collected at the end of the file
//
//   - CL004: default-export-name - A default export is named after its file
//
//   - Ordering:
//
//   - CL005: alphabetize-dependency-lists - React hook dependency arrays are sorted
//
//   - CL006: alphabetize-enums - Enum members with initializers are sorted
//
//   - CL007: alphabetize-interfaces - Interface members are sorted
//
//   - CL008: alphabetize-jsx-props - JSX props are sorted between spreads
//
// # Rule IDs
//
// Rules run in ID order: later rules see the output of earlier ones, so
// imports are rewritten before duplicates are merged and exports are
// collected before the default export is renamed.
//
// # Rule Packs
//
// Rule packs are configuration presets for common use cases:
//
//   - imports: module hygiene only
//   - ordering: the alphabetizing rules only
//   - strict: every rule, violations are errors
//
// Use PackByName or Packs to access pack definitions programmatically.
//
// # Registration
//
// Rules are registered with the default registry via RegisterAll.
// Each rule follows the lint.Rule interface and reports through the
// RuleContext; edits are validated against the node that owns them.
package rules
