package rules

import (
	"strings"

	"github.com/yaklabco/collation/pkg/tsast"
)

// JoinAnd joins items as an English list: "a", "a and b", "a, b, and c".
func JoinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}

// quoteModule writes module with the quote character the file used.
func quoteModule(module string, quote byte) string {
	if quote != '\'' && quote != '"' {
		quote = '"'
	}
	q := string(quote)
	return q + strings.ReplaceAll(module, q, `\`+q) + q
}

// semicolon returns ";" when the statement it mimics had one.
func semicolon(had bool) string {
	if had {
		return ";"
	}
	return ""
}

// braceList formats specifiers the way the original clause was laid out:
// on one line, or one per line when the clause spanned several lines.
func braceList(file *tsast.File, clause tsast.Span, specs []string) string {
	if len(specs) == 0 {
		return "{}"
	}
	original := file.Slice(clause)
	if !strings.Contains(original, "\n") {
		return "{ " + strings.Join(specs, ", ") + " }"
	}

	nl := file.Newline()
	outer := file.Indent(clause.Start)
	inner := outer + "  "
	var b strings.Builder
	b.WriteString("{" + nl)
	for _, spec := range specs {
		b.WriteString(inner + spec + "," + nl)
	}
	b.WriteString(outer + "}")
	return b.String()
}

// compact strips whitespace so specifier texts compare by content.
func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}
