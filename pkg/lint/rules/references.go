package rules

import (
	"github.com/yaklabco/collation/pkg/tsast"
)

// frameKind classifies the bracket an identifier sits in.
type frameKind uint8

const (
	frameBlock   frameKind = iota // statement block, expression parens or brackets
	frameObject                   // object literal or type literal
	frameMembers                  // class, interface or enum body
	framePattern                  // destructuring pattern
	frameParams                   // parameter list
	frameClause                   // import or export specifier braces
)

type frame struct {
	kind frameKind
	open int
}

// occurrence is one token spelled like the renamed binding.
type occurrence struct {
	span tsast.Span

	// shorthand is set for `{ name }` object properties, which keep their
	// key when the value is renamed.
	shorthand bool
}

// conflict is a token that binds the name again or cannot be classified.
type conflict struct {
	offset int
	reason string
}

//nolint:gochecknoglobals // Read-only lookup table.
var bindingKeywords = map[string]bool{
	"let": true, "const": true, "var": true, "function": true, "class": true,
	"interface": true, "enum": true, "namespace": true,
}

//nolint:gochecknoglobals // Read-only lookup table.
var memberModifiers = map[string]bool{
	"get": true, "set": true, "async": true, "static": true, "readonly": true,
	"public": true, "private": true, "protected": true, "abstract": true,
	"declare": true, "override": true, "accessor": true,
}

//nolint:gochecknoglobals // Read-only lookup table.
var paramModifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "readonly": true, "override": true,
}

// objectAfter lists words after which `{` opens an object literal.
//
//nolint:gochecknoglobals // Read-only lookup table.
var objectAfter = map[string]bool{
	"return": true, "yield": true, "await": true, "in": true, "of": true,
	"throw": true, "void": true, "typeof": true, "case": true, "delete": true,
	"satisfies": true, "as": true,
}

// referenceScanner walks a file's tokens, tracking which kind of bracket
// each token is nested in.
type referenceScanner struct {
	file   *tsast.File
	toks   []tsast.Token
	decl   tsast.Span
	frames []frame
}

// references finds the tokens that refer to the top-level binding declared
// at decl. Property keys, class and interface members, imported names and
// member accesses are skipped. A conflict is returned for the first token
// that declares the name again in a nested scope or whose role is unclear.
func references(file *tsast.File, name string, decl tsast.Span) ([]occurrence, *conflict) {
	s := &referenceScanner{file: file, toks: file.Tokens(), decl: decl}

	var found []occurrence
	for i, tok := range s.toks {
		switch {
		case tok.Kind == tsast.TokenTemplateHead:
			s.push(frameBlock, i)
		case tok.Kind == tsast.TokenTemplateMiddle:
			s.pop()
			s.push(frameBlock, i)
		case tok.Kind == tsast.TokenTemplateTail:
			s.pop()
		case tok.Kind == tsast.TokenPunct && (tok.Text == "(" || tok.Text == "[" || tok.Text == "{"):
			s.push(s.classifyOpen(i), i)
		case tok.Kind == tsast.TokenPunct && (tok.Text == ")" || tok.Text == "]" || tok.Text == "}"):
			s.pop()
		case tok.Kind == tsast.TokenIdent && tok.Text == name:
			occ, keep, c := s.classify(i)
			if c != nil {
				return nil, c
			}
			if keep {
				found = append(found, occ)
			}
		}
	}
	return found, nil
}

func (s *referenceScanner) push(kind frameKind, open int) {
	s.frames = append(s.frames, frame{kind: kind, open: open})
}

func (s *referenceScanner) pop() {
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

func (s *referenceScanner) top() frame {
	if len(s.frames) == 0 {
		return frame{kind: frameBlock, open: -1}
	}
	return s.frames[len(s.frames)-1]
}

func (s *referenceScanner) tok(i int) tsast.Token {
	if i < 0 || i >= len(s.toks) {
		return tsast.Token{Kind: tsast.TokenEOF}
	}
	return s.toks[i]
}

// is reports whether token i is the non-JSX punctuator or word text.
func (s *referenceScanner) is(i int, text string) bool {
	t := s.tok(i)
	return !t.JSX && t.Is(text)
}

// classify decides what the identifier at i is. keep reports whether it
// is a reference to rename.
func (s *referenceScanner) classify(i int) (occurrence, bool, *conflict) {
	tok := s.toks[i]
	occ := occurrence{span: tsast.Span{Start: tok.Start, End: tok.End}}
	prev := s.tok(i - 1)

	if tok.Start == s.decl.Start {
		return occ, true, nil
	}
	if s.is(i-1, ".") || s.is(i-1, "?.") {
		return occ, false, nil
	}
	if tok.JSX {
		// Tag names are references; attribute names are not.
		return occ, prev.JSX && (prev.Is("<") || prev.Is("/")), nil
	}

	bound := func() (occurrence, bool, *conflict) {
		return occ, false, &conflict{offset: tok.Start, reason: "declared again in a nested scope"}
	}
	unclear := func() (occurrence, bool, *conflict) {
		return occ, false, &conflict{offset: tok.Start, reason: "used in a position that cannot be classified"}
	}

	if prev.Kind == tsast.TokenIdent && bindingKeywords[prev.Text] && !prev.JSX {
		return bound()
	}
	if s.is(i-1, "*") && s.is(i-2, "function") {
		return bound()
	}
	if s.is(i+1, "=>") {
		return bound()
	}

	switch f := s.top(); f.kind {
	case frameClause:
		return s.classifyClause(i, f, occ)
	case frameMembers:
		if s.keyPosition(i) {
			return occ, false, nil
		}
	case frameObject:
		if !s.keyPosition(i) {
			break
		}
		switch {
		case s.is(i+1, ":"), s.is(i+1, "("), s.is(i+1, "?"), s.is(i+1, "<"):
			return occ, false, nil
		case s.is(i+1, ","), s.is(i+1, "}"):
			occ.shorthand = true
			return occ, true, nil
		default:
			return unclear()
		}
	case framePattern:
		if s.is(i-1, "=") {
			break
		}
		if s.keyPosition(i) && s.is(i+1, ":") {
			return occ, false, nil
		}
		return bound()
	case frameParams:
		if s.is(i-1, "(") || s.is(i-1, ",") || s.is(i-1, "...") ||
			(prev.Kind == tsast.TokenIdent && paramModifiers[prev.Text]) {
			return bound()
		}
	case frameBlock:
	}

	return occ, true, nil
}

// classifyClause handles names inside `import { ... }` and `export { ... }`.
func (s *referenceScanner) classifyClause(i int, f frame, occ occurrence) (occurrence, bool, *conflict) {
	left := s.is(i+1, "as")
	right := s.is(i-1, "as") && !left

	keyword := f.open - 1
	for keyword >= 0 && !s.is(keyword, "import") && !s.is(keyword, "export") {
		keyword--
	}
	if s.is(keyword, "import") {
		if left {
			return occ, false, nil
		}
		return occ, false, &conflict{offset: occ.span.Start, reason: "imported under the same name"}
	}

	if s.is(s.file.Match(f.open)+1, "from") || right {
		return occ, false, nil
	}
	return occ, true, nil
}

// keyPosition reports whether the identifier at i starts a property or
// member: it follows the opening brace, a separator, or a modifier that
// itself starts one.
func (s *referenceScanner) keyPosition(i int) bool {
	prev := s.tok(i - 1)
	switch {
	case s.is(i-1, "{"), s.is(i-1, ","), s.is(i-1, ";"), s.is(i-1, "}"):
		return true
	case s.is(i-1, "*"):
		return s.keyPosition(i - 1)
	case prev.Kind == tsast.TokenIdent && memberModifiers[prev.Text]:
		return s.keyPosition(i - 1)
	case s.toks[i].NewlineBefore && s.top().kind == frameMembers:
		return prev.Kind != tsast.TokenPunct || s.is(i-1, ")") || s.is(i-1, "]")
	case s.toks[i].NewlineBefore && s.top().kind == frameObject:
		return prev.Kind != tsast.TokenPunct && !objectAfter[prev.Text] && !prev.Is("new")
	}
	return false
}

// classifyOpen decides what the bracket opened at i contains.
func (s *referenceScanner) classifyOpen(i int) frameKind {
	tok := s.toks[i]
	prev := s.tok(i - 1)
	outer := s.top().kind

	if tok.JSX {
		return frameBlock
	}

	switch tok.Text {
	case "(":
		if s.paramsAt(i) {
			return frameParams
		}
		return frameBlock
	case "[":
		switch {
		case s.declarator(i - 1):
			return framePattern
		case outer == frameParams && (s.is(i-1, "(") || s.is(i-1, ",") || s.is(i-1, "...")):
			return framePattern
		case outer == framePattern && !s.is(i-1, "="):
			return framePattern
		}
		return frameBlock
	}

	switch {
	case s.declarator(i - 1):
		return framePattern
	case outer == frameParams && (s.is(i-1, "(") || s.is(i-1, ",") || s.is(i-1, "...")):
		return framePattern
	case outer == framePattern && (s.is(i-1, ":") || s.is(i-1, ",") || s.is(i-1, "[")):
		return framePattern
	case s.clauseAt(i):
		return frameClause
	case s.membersAt(i):
		return frameMembers
	}

	switch {
	case prev.Kind == tsast.TokenEOF:
		return frameBlock
	case prev.Kind == tsast.TokenIdent:
		if objectAfter[prev.Text] || (prev.Text == "default" && s.is(i-2, "export")) {
			return frameObject
		}
		return frameBlock
	case s.is(i-1, ")"), s.is(i-1, "]"), s.is(i-1, "}"), s.is(i-1, ";"),
		s.is(i-1, "{"), s.is(i-1, "=>"), s.is(i-1, ">"):
		return frameBlock
	case s.is(i-1, ":") && s.caseLabel(i-1):
		return frameBlock
	case prev.Kind == tsast.TokenPunct:
		return frameObject
	}
	return frameBlock
}

// declarator reports whether token i is let, const or var.
func (s *referenceScanner) declarator(i int) bool {
	return s.is(i, "let") || s.is(i, "const") || s.is(i, "var")
}

// paramsAt reports whether the parenthesis at i opens a parameter list.
func (s *referenceScanner) paramsAt(i int) bool {
	switch {
	case s.is(i-1, "function"), s.is(i-1, "catch"), s.is(i-1, "constructor"):
		return true
	case s.is(i-1, "*") && s.is(i-2, "function"):
		return true
	case s.tok(i-1).Kind == tsast.TokenIdent && s.is(i-2, "function"):
		return true
	case s.tok(i-1).Kind == tsast.TokenIdent && s.is(i-2, "*") && s.is(i-3, "function"):
		return true
	case s.is(s.file.Match(i)+1, "=>"):
		return true
	}
	if s.tok(i-1).Kind == tsast.TokenIdent {
		if k := s.top().kind; k == frameObject || k == frameMembers {
			return s.keyPosition(i - 1)
		}
	}
	return false
}

// clauseAt reports whether the brace at i opens an import or export clause.
func (s *referenceScanner) clauseAt(i int) bool {
	switch {
	case s.is(i-1, "import"), s.is(i-1, "export"):
		return true
	case s.is(i-1, "type") && (s.is(i-2, "import") || s.is(i-2, "export")):
		return true
	case s.is(i-1, ",") && s.tok(i-2).Kind == tsast.TokenIdent && s.is(i-3, "import"):
		return true
	}
	return false
}

// membersAt reports whether the brace at i opens a class, interface or enum
// body, looking back over the heading (name, type parameters, heritage).
func (s *referenceScanner) membersAt(i int) bool {
	for j := i - 1; j >= 0; j-- {
		t := s.toks[j]
		if t.JSX {
			return false
		}
		if t.Kind == tsast.TokenIdent {
			switch t.Text {
			case "class", "interface", "enum":
				return !s.is(j-1, ".")
			}
			continue
		}
		switch t.Text {
		case "<", ">", ">>", ">>>", ",", ".", "=", "|", "&":
			continue
		}
		return false
	}
	return false
}

// caseLabel reports whether the colon at i ends a `case x:` or `default:`
// label.
func (s *referenceScanner) caseLabel(i int) bool {
	for j := i - 1; j >= 0; j-- {
		t := s.toks[j]
		if t.Kind == tsast.TokenPunct {
			switch t.Text {
			case ";", "{", "}", "(", "[", ",", "=", "=>":
				return false
			case ")", "]":
				if open := s.file.Match(j); open >= 0 {
					j = open
				}
				continue
			}
		}
		if t.Is("case") || (t.Is("default") && j == i-1) {
			return true
		}
	}
	return false
}
