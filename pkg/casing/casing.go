// Package casing converts identifiers and file names between naming
// conventions.
package casing

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Style names a naming convention.
type Style string

const (
	Camel    Style = "camelCase"
	Pascal   Style = "pascalCase"
	Kebab    Style = "kebabCase"
	Snake    Style = "snakeCase"
	Constant Style = "constantCase"
	Lower    Style = "lowerCase"
	Upper    Style = "upperCase"
)

// Styles lists every supported style in documentation order.
//
//nolint:gochecknoglobals // Read-only list.
var Styles = []Style{Camel, Pascal, Kebab, Snake, Constant, Lower, Upper}

// ParseStyle validates a style name.
func ParseStyle(name string) (Style, error) {
	for _, s := range Styles {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown case transformation %q", name)
}

// Apply converts s to the style. An empty style returns s unchanged.
func (st Style) Apply(s string) string {
	switch st {
	case Camel:
		return ToCamel(s)
	case Pascal:
		return ToPascal(s)
	case Kebab:
		return ToKebab(s)
	case Snake:
		return ToSnake(s)
	case Constant:
		return ToConstant(s)
	case Lower:
		return strings.ToLower(s)
	case Upper:
		return strings.ToUpper(s)
	default:
		return s
	}
}

// Words splits s at separators and case boundaries. "HTMLParser2Go" yields
// HTML, Parser2, Go; "is-empty" yields is, empty.
func Words(s string) []string {
	var (
		words   []string
		current []rune
	)
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if i > 0 && unicode.IsUpper(r) && len(current) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()
	return words
}

// ToCamel converts s to camelCase.
func ToCamel(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)
	var b strings.Builder
	b.WriteString(lower.String(words[0]))
	for _, w := range words[1:] {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// ToPascal converts s to PascalCase.
func ToPascal(s string) string {
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// ToKebab converts s to kebab-case.
func ToKebab(s string) string {
	return joinLower(s, "-")
}

// ToSnake converts s to snake_case.
func ToSnake(s string) string {
	return joinLower(s, "_")
}

// ToConstant converts s to CONSTANT_CASE.
func ToConstant(s string) string {
	return strings.ToUpper(joinLower(s, "_"))
}

func joinLower(s, sep string) string {
	lower := cases.Lower(language.Und)
	words := Words(s)
	for i, w := range words {
		words[i] = lower.String(w)
	}
	return strings.Join(words, sep)
}

// Identifier turns a file base name into a valid identifier in the style,
// "is-empty" → "isEmpty". A leading digit gets an underscore prefix.
func Identifier(name string, st Style) string {
	id := st.Apply(name)
	if id == "" {
		return "_"
	}
	if r := []rune(id)[0]; unicode.IsDigit(r) {
		return "_" + id
	}
	return id
}
