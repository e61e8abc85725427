package tsast

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

type frameKind uint8

const (
	frameNone frameKind = iota
	frameBrace
	frameTemplate
	frameJSXAttrExpr
	frameJSXChildExpr
	frameJSXTag
	frameJSXChildren
)

type lexFrame struct {
	kind        frameKind
	closing     bool
	selfClosing bool
}

// exprKeywords are keywords after which an expression (and therefore a
// regex or a JSX element) may start.
//
//nolint:gochecknoglobals // Read-only lookup table.
var exprKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true, "default": true,
}

//nolint:gochecknoglobals // Read-only lookup table, longest first.
var multiPunct = []string{
	"...", "===", "!==", "**=", "&&=", "||=", "??=",
	"=>", "==", "!=", "**", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
}

type lexer struct {
	src      []byte
	pos      int
	jsx      bool
	newline  bool
	tokens   []Token
	comments []Comment
	stack    []lexFrame
}

type lexError struct {
	offset  int
	message string
}

func (e *lexError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.offset, e.message)
}

// lex tokenizes src. When jsx is set, `<` in expression position starts a
// JSX element.
func lex(src []byte, jsx bool) ([]Token, []Comment, error) {
	l := &lexer{src: src, jsx: jsx}
	if bytes.HasPrefix(src, []byte("\xef\xbb\xbf")) {
		l.pos = 3
	}
	if bytes.HasPrefix(src[l.pos:], []byte("#!")) {
		l.skipLineComment()
	}

	for l.pos < len(l.src) {
		var err error
		switch l.top() {
		case frameJSXTag:
			err = l.lexJSXTag()
		case frameJSXChildren:
			err = l.lexJSXChildren()
		default:
			err = l.lexJS()
		}
		if err != nil {
			return nil, nil, err
		}
	}

	if len(l.stack) > 0 {
		return nil, nil, &lexError{offset: len(l.src), message: "unexpected end of file"}
	}

	l.tokens = append(l.tokens, Token{
		Kind:          TokenEOF,
		Start:         len(l.src),
		End:           len(l.src),
		NewlineBefore: l.newline,
	})

	return l.tokens, l.comments, nil
}

func (l *lexer) top() frameKind {
	if len(l.stack) == 0 {
		return frameNone
	}
	return l.stack[len(l.stack)-1].kind
}

func (l *lexer) push(f lexFrame) {
	l.stack = append(l.stack, f)
}

func (l *lexer) pop() lexFrame {
	f := l.stack[len(l.stack)-1]
	l.stack = l.stack[:len(l.stack)-1]
	return f
}

func (l *lexer) emit(kind TokenKind, start, end int, jsx bool) {
	l.tokens = append(l.tokens, Token{
		Kind:          kind,
		Text:          string(l.src[start:end]),
		Start:         start,
		End:           end,
		NewlineBefore: l.newline,
		JSX:           jsx,
	})
	l.newline = false
}

// skipTrivia consumes whitespace and comments.
func (l *lexer) skipTrivia() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.newline = true
			l.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case c == '/' && l.peek(1) == '/':
			l.skipLineComment()
		case c == '/' && l.peek(1) == '*':
			end := bytes.Index(l.src[l.pos+2:], []byte("*/"))
			if end < 0 {
				return &lexError{offset: l.pos, message: "unterminated block comment"}
			}
			end += l.pos + 4
			if bytes.IndexByte(l.src[l.pos:end], '\n') >= 0 {
				l.newline = true
			}
			l.comments = append(l.comments, Comment{Span: Span{Start: l.pos, End: end}, Block: true})
			l.pos = end
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRune(l.src[l.pos:])
			if r != 0xA0 && r != 0xFEFF && r != 0x2028 && r != 0x2029 {
				return nil
			}
			if r == 0x2028 || r == 0x2029 {
				l.newline = true
			}
			l.pos += size
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) skipLineComment() {
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
	l.comments = append(l.comments, Comment{Span: Span{Start: start, End: l.pos}})
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset < len(l.src) {
		return l.src[l.pos+offset]
	}
	return 0
}

func (l *lexer) lexJS() error {
	if err := l.skipTrivia(); err != nil || l.pos >= len(l.src) {
		return err
	}

	start := l.pos
	c := l.src[l.pos]

	switch {
	case isIdentStart(c) || c == '#' || c >= utf8.RuneSelf:
		l.pos++
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		l.emit(TokenIdent, start, l.pos, false)
	case isDigit(c) || (c == '.' && isDigit(l.peek(1))):
		l.lexNumber()
	case c == '"' || c == '\'':
		return l.lexString(c, false)
	case c == '`':
		l.pos++
		return l.lexTemplate(start, true)
	case c == '/' && l.exprAllowed() && l.lexRegex():
		return nil
	case c == '<' && l.jsx && l.exprAllowed() && l.looksLikeJSX():
		l.pos++
		l.emit(TokenPunct, start, l.pos, true)
		l.push(lexFrame{kind: frameJSXTag})
	case c == '{':
		l.pos++
		l.emit(TokenPunct, start, l.pos, false)
		l.push(lexFrame{kind: frameBrace})
	case c == '}':
		l.pos++
		switch l.top() {
		case frameTemplate:
			l.pop()
			return l.lexTemplate(start, false)
		case frameJSXAttrExpr, frameJSXChildExpr:
			l.pop()
			l.emit(TokenPunct, start, l.pos, true)
		case frameBrace:
			l.pop()
			l.emit(TokenPunct, start, l.pos, false)
		default:
			// Stray brace; bracket matching reports it.
			l.emit(TokenPunct, start, l.pos, false)
		}
	default:
		l.lexPunct(false)
	}

	return nil
}

func (l *lexer) lexPunct(jsx bool) {
	start := l.pos
	for _, p := range multiPunct {
		if !bytes.HasPrefix(l.src[l.pos:], []byte(p)) {
			continue
		}
		if p == "?." && isDigit(l.peek(2)) {
			continue
		}
		l.pos += len(p)
		l.emit(TokenPunct, start, l.pos, jsx)
		return
	}
	l.pos++
	l.emit(TokenPunct, start, l.pos, jsx)
}

func (l *lexer) lexNumber() {
	start := l.pos
	if l.src[l.pos] == '0' && isRadixMarker(l.peek(1)) {
		l.pos += 2
		for l.pos < len(l.src) && (isHexDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
			l.pos++
		}
	} else {
		l.skipDigits()
		if l.pos < len(l.src) && l.src[l.pos] == '.' {
			l.pos++
			l.skipDigits()
		}
		if c := l.peek(0); c == 'e' || c == 'E' {
			next := l.pos + 1
			if next < len(l.src) && (l.src[next] == '+' || l.src[next] == '-') {
				next++
			}
			if next < len(l.src) && isDigit(l.src[next]) {
				l.pos = next
				l.skipDigits()
			}
		}
	}
	if l.peek(0) == 'n' {
		l.pos++
	}
	l.emit(TokenNumber, start, l.pos, false)
}

func (l *lexer) skipDigits() {
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
		l.pos++
	}
}

// lexString scans a quoted string. JSX attribute strings have no escapes
// and may span lines.
func (l *lexer) lexString(quote byte, jsx bool) error {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\\' && !jsx:
			l.pos += 2
		case c == quote:
			l.pos++
			l.emit(TokenString, start, l.pos, jsx)
			return nil
		case c == '\n' && !jsx:
			return &lexError{offset: start, message: "unterminated string literal"}
		default:
			l.pos++
		}
	}
	return &lexError{offset: start, message: "unterminated string literal"}
}

// lexTemplate scans template text from start (a backtick or the closing
// brace of a substitution) up to the next substitution or the closing
// backtick.
func (l *lexer) lexTemplate(start int, head bool) error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\\':
			l.pos = min(l.pos+2, len(l.src))
		case c == '`':
			l.pos++
			kind := TokenTemplateTail
			if head {
				kind = TokenTemplate
			}
			l.emit(kind, start, l.pos, false)
			return nil
		case c == '$' && l.peek(1) == '{':
			l.pos += 2
			kind := TokenTemplateMiddle
			if head {
				kind = TokenTemplateHead
			}
			l.emit(kind, start, l.pos, false)
			l.push(lexFrame{kind: frameTemplate})
			return nil
		default:
			l.pos++
		}
	}
	return &lexError{offset: start, message: "unterminated template literal"}
}

// lexRegex scans a regular expression literal. It reports false, consuming
// nothing, when the slash cannot start one.
func (l *lexer) lexRegex() bool {
	inClass := false
	for j := l.pos + 1; j < len(l.src); j++ {
		switch c := l.src[j]; {
		case c == '\\':
			j++
		case c == '\n' || c == '\r':
			return false
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			j++
			for j < len(l.src) && isIdentPart(l.src[j]) {
				j++
			}
			start := l.pos
			l.pos = j
			l.emit(TokenRegex, start, j, false)
			return true
		}
	}
	return false
}

// exprAllowed reports whether the previous token leaves the lexer in a
// position where an expression may begin.
func (l *lexer) exprAllowed() bool {
	if len(l.tokens) == 0 {
		return true
	}
	prev := l.tokens[len(l.tokens)-1]
	switch prev.Kind {
	case TokenIdent:
		return exprKeywords[prev.Text]
	case TokenPunct:
		switch prev.Text {
		case ")", "]", "}", "++", "--":
			return false
		case ">":
			return !prev.JSX
		}
		return true
	case TokenTemplateHead, TokenTemplateMiddle:
		return true
	default:
		return false
	}
}

// looksLikeJSX distinguishes `<div ...>` and `<>` from type parameter lists
// such as `<T,>` or `<T extends U>`.
func (l *lexer) looksLikeJSX() bool {
	j := l.skipSpaceFrom(l.pos + 1)
	if j >= len(l.src) {
		return false
	}
	if l.src[j] == '>' {
		return true
	}
	if !isIdentStart(l.src[j]) {
		return false
	}
	for j < len(l.src) && isJSXNamePart(l.src[j]) {
		j++
	}
	j = l.skipSpaceFrom(j)
	if j >= len(l.src) {
		return false
	}

	switch c := l.src[j]; {
	case c == '>' || c == '/' || c == '{':
		return true
	case isIdentStart(c):
		end := j
		for end < len(l.src) && isIdentPart(l.src[end]) {
			end++
		}
		return string(l.src[j:end]) != "extends"
	}
	return false
}

func (l *lexer) skipSpaceFrom(j int) int {
	for j < len(l.src) && isSpace(l.src[j]) {
		j++
	}
	return j
}

func (l *lexer) lexJSXTag() error {
	if err := l.skipTrivia(); err != nil || l.pos >= len(l.src) {
		return err
	}

	start := l.pos
	c := l.src[l.pos]

	switch {
	case c == '>':
		l.pos++
		l.emit(TokenPunct, start, l.pos, true)
		tag := l.pop()
		switch {
		case tag.closing:
			if l.top() == frameJSXChildren {
				l.pop()
			}
		case tag.selfClosing:
		default:
			l.push(lexFrame{kind: frameJSXChildren})
		}
	case c == '/':
		l.pos++
		l.emit(TokenPunct, start, l.pos, true)
		l.stack[len(l.stack)-1].selfClosing = true
	case c == '{':
		l.pos++
		l.emit(TokenPunct, start, l.pos, true)
		l.push(lexFrame{kind: frameJSXAttrExpr})
	case c == '"' || c == '\'':
		return l.lexString(c, true)
	case c == '<':
		l.pos++
		l.emit(TokenPunct, start, l.pos, true)
		l.push(lexFrame{kind: frameJSXTag})
	case isIdentStart(c) || c >= utf8.RuneSelf:
		for l.pos < len(l.src) && isJSXNamePart(l.src[l.pos]) {
			l.pos++
		}
		l.emit(TokenIdent, start, l.pos, true)
	default:
		l.pos++
		l.emit(TokenPunct, start, l.pos, true)
	}

	return nil
}

func (l *lexer) lexJSXChildren() error {
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != '<' && l.src[l.pos] != '{' {
		l.pos++
	}
	if text := l.src[start:l.pos]; len(bytes.TrimSpace(text)) > 0 {
		l.emit(TokenJSXText, start, l.pos, true)
	} else if bytes.IndexByte(text, '\n') >= 0 {
		l.newline = true
	}
	if l.pos >= len(l.src) {
		return nil
	}

	start = l.pos
	l.pos++
	if l.src[start] == '{' {
		l.emit(TokenPunct, start, l.pos, true)
		l.push(lexFrame{kind: frameJSXChildExpr})
		return nil
	}

	l.emit(TokenPunct, start, l.pos, true)
	if j := l.skipSpaceFrom(l.pos); j < len(l.src) && l.src[j] == '/' {
		l.emit(TokenPunct, j, j+1, true)
		l.pos = j + 1
		l.push(lexFrame{kind: frameJSXTag, closing: true})
		return nil
	}
	l.push(lexFrame{kind: frameJSXTag})
	return nil
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c >= utf8.RuneSelf
}

func isJSXNamePart(c byte) bool {
	return isIdentPart(c) || c == '-' || c == ':' || c == '.'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isRadixMarker(c byte) bool {
	switch c {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
