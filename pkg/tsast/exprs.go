package tsast

import "strings"

// notCallees are keywords that precede a parenthesis without being calls.
//
//nolint:gochecknoglobals // Read-only lookup table.
var notCallees = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"return": true, "typeof": true, "function": true, "with": true, "import": true,
	"new": true, "await": true, "void": true, "delete": true, "in": true, "of": true,
}

// findCalls collects every call whose callee is an identifier or a member
// access chain ending in one.
func (p *parser) findCalls(end int) []*CallExpr {
	var calls []*CallExpr
	for i := 0; i < end; i++ {
		t := p.toks[i]
		if t.Kind != TokenIdent || t.JSX || notCallees[t.Text] || p.is(i-1, "function") {
			continue
		}

		k := i + 1
		if p.is(k, "<") {
			k = p.skipAngles(k, end)
		}
		if !p.is(k, "(") {
			continue
		}
		closing := p.match[k]

		callee, first := p.calleePath(i)
		call := &CallExpr{Callee: callee, Name: t.Text}
		items := p.splitList(k, closing)
		for _, r := range items {
			call.Args = append(call.Args, p.span(r[0], r[1]))
		}
		if n := len(items); n > 0 {
			a, b := items[n-1][0], items[n-1][1]
			if p.is(a, "[") && p.match[a] == b-1 {
				call.LastArray = p.arrayLiteral(a, b-1)
			}
		}
		call.span = Span{Start: p.toks[first].Start, End: p.toks[closing].End}
		calls = append(calls, call)
	}
	return calls
}

func (p *parser) calleePath(i int) (string, int) {
	parts := []string{p.toks[i].Text}
	first := i
	for j := i - 1; j >= 1 && (p.is(j, ".") || p.is(j, "?.")) && p.isIdent(j-1); j -= 2 {
		parts = append([]string{p.toks[j-1].Text}, parts...)
		first = j - 1
	}
	return strings.Join(parts, "."), first
}

func (p *parser) arrayLiteral(open, closing int) *ArrayLiteral {
	arr := &ArrayLiteral{}
	arr.span = p.span(open, closing+1)

	floor := p.toks[open].End
	for _, r := range p.splitList(open, closing) {
		a, b := r[0], r[1]
		var key strings.Builder
		for k := a; k < b; k++ {
			key.WriteString(p.toks[k].Text)
		}
		el := &ArrayElement{Key: key.String(), Simple: p.isMemberChain(a, b)}
		el.span = p.span(a, b)
		el.Full = Span{Start: p.f.leadingStart(floor, el.span.Start), End: el.span.End}
		arr.Elements = append(arr.Elements, el)

		floor = p.toks[b-1].End
		if b < closing {
			floor = p.toks[b].End
		}
	}
	return arr
}

// isMemberChain reports whether [a, b) is `ident(.ident)*`, optional
// chaining included.
func (p *parser) isMemberChain(a, b int) bool {
	if (b-a)%2 == 0 || !p.isIdent(a) {
		return false
	}
	for k := a + 1; k < b; k += 2 {
		if !(p.is(k, ".") || p.is(k, "?.")) || !p.isIdent(k+1) {
			return false
		}
	}
	return true
}

func (p *parser) isJSXPunct(i int, s string) bool {
	t := p.tok(i)
	return t.JSX && t.Kind == TokenPunct && t.Text == s
}

// findJSXElements collects opening and self-closing JSX tags with their
// attributes.
func (p *parser) findJSXElements(end int) []*JSXElement {
	var elements []*JSXElement
	for i := 0; i < end; i++ {
		name := p.tok(i + 1)
		if !p.isJSXPunct(i, "<") || !name.JSX || name.Kind != TokenIdent {
			continue
		}

		el := &JSXElement{Name: name.Text}
		floor := name.End
		k := i + 2

	attrs:
		for k < end && !p.isJSXPunct(k, ">") && !p.isJSXPunct(k, "/") {
			t := p.toks[k]
			attr := &JSXAttribute{}
			start := k

			switch {
			case p.isJSXPunct(k, "{"):
				attr.Spread = p.tok(k+1).Text == "..."
				if !attr.Spread {
					el.Unsortable = true
					break attrs
				}
				k = p.match[k] + 1
			case t.JSX && t.Kind == TokenIdent:
				attr.Name = t.Text
				k++
				if p.isJSXPunct(k, "=") {
					k++
					switch {
					case p.tok(k).Kind == TokenString:
						k++
					case p.isJSXPunct(k, "{"):
						k = p.match[k] + 1
					default:
						el.Unsortable = true
						break attrs
					}
				}
			default:
				el.Unsortable = true
				break attrs
			}

			attr.span = p.span(start, k)
			attr.Full = Span{Start: p.f.leadingStart(floor, attr.span.Start), End: attr.span.End}
			el.Attributes = append(el.Attributes, attr)
			floor = attr.span.End
		}

		last := min(k, end-1)
		if p.isJSXPunct(last, "/") && p.isJSXPunct(last+1, ">") {
			last++
		}
		if last < i+1 {
			last = i + 1
		}
		el.span = Span{Start: p.toks[i].Start, End: p.toks[last].End}
		elements = append(elements, el)
	}
	return elements
}
