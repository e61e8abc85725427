// Package tsast parses TypeScript and JavaScript sources (including TSX and
// JSX) into an immutable, generation-stamped statement tree.
//
// The tree is deliberately shallow: it models imports, exports and
// declarations at statement level, plus the expression shapes the rules
// rewrite (hook calls with array arguments, JSX tags). Everything else is
// kept as opaque token ranges. A File never changes; applying edits yields a
// new File with a new generation, and nodes from older generations are
// rejected with ErrStaleHandle.
package tsast

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/yaklabco/collation/pkg/fix"
)

// Language selects the dialect a file is lexed with.
type Language uint8

const (
	LangTypeScript Language = iota
	LangTSX
	LangJavaScript
	LangJSX
)

// JSX reports whether `<` in expression position starts a JSX element.
func (l Language) JSX() bool {
	return l != LangTypeScript
}

func (l Language) String() string {
	switch l {
	case LangTypeScript:
		return "TypeScript"
	case LangTSX:
		return "TSX"
	case LangJavaScript:
		return "JavaScript"
	case LangJSX:
		return "JSX"
	default:
		return "unknown"
	}
}

// LanguageFromPath derives the language from a file extension.
func LanguageFromPath(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx":
		return LangTSX
	case ".jsx":
		return LangJSX
	case ".js", ".mjs", ".cjs":
		return LangJavaScript
	default:
		return LangTypeScript
	}
}

// Extensions lists the file extensions the parser accepts.
//
//nolint:gochecknoglobals // Read-only list.
var Extensions = []string{".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".mjs", ".cjs"}

// generations hands out a unique generation to every parsed file.
//
//nolint:gochecknoglobals // Process-wide counter.
var generations atomic.Uint64

// Option configures Parse.
type Option func(*parseOptions)

type parseOptions struct {
	language    Language
	languageSet bool
}

// WithLanguage overrides the language derived from the path.
func WithLanguage(lang Language) Option {
	return func(o *parseOptions) {
		o.language = lang
		o.languageSet = true
	}
}

// File is an immutable parsed snapshot of one source file.
type File struct {
	Path     string
	Content  []byte
	Language Language

	// Statements are the top-level statements in source order.
	Statements []Statement

	// Calls are the call expressions anywhere in the file, in source order.
	Calls []*CallExpr

	// JSXElements are the opening and self-closing JSX tags in source order.
	JSXElements []*JSXElement

	tokens   []Token
	match    []int
	comments []Comment
	lines    []int
	gen      uint64
	nodes    map[Handle]Node
}

// Parse tokenizes and parses content.
func Parse(path string, content []byte, opts ...Option) (*File, error) {
	options := parseOptions{language: LanguageFromPath(path)}
	for _, opt := range opts {
		opt(&options)
	}

	f := &File{
		Path:     path,
		Content:  content,
		Language: options.language,
		gen:      generations.Add(1),
	}
	f.lines = lineStarts(content)

	toks, comments, err := lex(content, options.language.JSX())
	if err != nil {
		var lErr *lexError
		if errors.As(err, &lErr) {
			return nil, f.syntaxError(lErr.offset, lErr.message)
		}
		return nil, err
	}
	f.tokens = toks
	f.comments = comments

	match, err := f.matchBrackets()
	if err != nil {
		return nil, err
	}
	f.match = match

	p := &parser{f: f, toks: toks, match: match}
	end := len(toks) - 1 // EOF
	f.Statements = p.parseStatements(0, end)
	f.Calls = p.findCalls(end)
	if options.language.JSX() {
		f.JSXElements = p.findJSXElements(end)
	}

	f.index()
	return f, nil
}

// Apply applies edits and re-parses, returning the next generation of the
// file. Edits are validated and must not overlap.
func (f *File) Apply(edits []fix.TextEdit) (*File, error) {
	prepared, err := fix.PrepareEdits(edits, len(f.Content))
	if err != nil {
		return nil, fmt.Errorf("apply edits to %s: %w", f.Path, err)
	}
	content := fix.ApplyEdits(f.Content, prepared)
	next, err := Parse(f.Path, content, WithLanguage(f.Language))
	if err != nil {
		return nil, fmt.Errorf("reparse %s after edits: %w", f.Path, err)
	}
	return next, nil
}

// Generation returns the file's generation.
func (f *File) Generation() uint64 {
	return f.gen
}

// Check returns ErrStaleHandle if n was not produced by this file.
func (f *File) Check(n Node) error {
	if n.Generation() != f.gen {
		return staleError(n, f.gen)
	}
	return nil
}

// Resolve returns the node a handle refers to in this file.
func (f *File) Resolve(h Handle) (Node, error) {
	if h.Gen != f.gen {
		return nil, fmt.Errorf("%w: %s [%d:%d] from generation %d, file is at generation %d",
			ErrStaleHandle, h.Kind, h.Span.Start, h.Span.End, h.Gen, f.gen)
	}
	n, ok := f.nodes[h]
	if !ok {
		return nil, fmt.Errorf("%w: no %s at [%d:%d]", ErrStaleHandle, h.Kind, h.Span.Start, h.Span.End)
	}
	return n, nil
}

// Text returns the source text of n.
func (f *File) Text(n Node) (string, error) {
	if err := f.Check(n); err != nil {
		return "", err
	}
	return f.Slice(n.Span()), nil
}

// Slice returns the source text of a span.
func (f *File) Slice(s Span) string {
	return string(f.Content[s.Start:s.End])
}

// Tokens returns the file's tokens, ending with an EOF token.
func (f *File) Tokens() []Token {
	return f.tokens
}

// Comments returns the file's comments in source order.
func (f *File) Comments() []Comment {
	return f.comments
}

// Match returns the index of the token closing the bracket opened at token
// i, or the opener of the closer at i. It returns -1 for other tokens.
func (f *File) Match(i int) int {
	if i < 0 || i >= len(f.match) {
		return -1
	}
	return f.match[i]
}

// Position converts a byte offset to a 1-based line and column.
func (f *File) Position(offset int) (int, int) {
	line := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > offset })
	return line, offset - f.lines[line-1] + 1
}

// Newline returns the line terminator the file uses.
func (f *File) Newline() string {
	if bytes.Contains(f.Content, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

// Indent returns the leading whitespace of the line containing offset.
func (f *File) Indent(offset int) string {
	line, _ := f.Position(offset)
	start := f.lines[line-1]
	end := start
	for end < len(f.Content) && (f.Content[end] == ' ' || f.Content[end] == '\t') {
		end++
	}
	return string(f.Content[start:end])
}

// LineSpan widens s to whole lines, including the line break, when nothing
// but whitespace shares those lines with it. Otherwise s is returned as is.
func (f *File) LineSpan(s Span) Span {
	start := s.Start
	for start > 0 && (f.Content[start-1] == ' ' || f.Content[start-1] == '\t') {
		start--
	}
	if start > 0 && f.Content[start-1] != '\n' {
		return s
	}

	end := s.End
	for end < len(f.Content) && (f.Content[end] == ' ' || f.Content[end] == '\t' || f.Content[end] == '\r') {
		end++
	}
	switch {
	case end == len(f.Content):
	case f.Content[end] == '\n':
		end++
	default:
		return s
	}
	return Span{Start: start, End: end}
}

// leadingStart returns where the comments documenting the construct at
// start begin. Only comments between floor and start count, and only from
// the first one that starts on a new line: a comment on the same line as
// floor trails the previous construct.
func (f *File) leadingStart(floor, start int) int {
	idx := sort.Search(len(f.comments), func(i int) bool { return f.comments[i].Span.Start >= floor })
	for ; idx < len(f.comments); idx++ {
		c := f.comments[idx]
		if c.Span.End > start {
			break
		}
		if bytes.IndexByte(f.Content[floor:c.Span.Start], '\n') >= 0 {
			return c.Span.Start
		}
	}
	return start
}

// TrailingComment returns the comment that ends the line of the construct
// ending at end, possibly after one `,` or `;` separator.
func (f *File) TrailingComment(end int) (Comment, bool) {
	j := skipBlanks(f.Content, end)
	if j < len(f.Content) && (f.Content[j] == ',' || f.Content[j] == ';') {
		j = skipBlanks(f.Content, j+1)
	}
	idx := sort.Search(len(f.comments), func(i int) bool { return f.comments[i].Span.Start >= j })
	if idx == len(f.comments) || f.comments[idx].Span.Start != j {
		return Comment{}, false
	}
	c := f.comments[idx]
	k := skipBlanks(f.Content, c.Span.End)
	if k < len(f.Content) && f.Content[k] == '\r' {
		k++
	}
	if k < len(f.Content) && f.Content[k] != '\n' {
		return Comment{}, false
	}
	return c, true
}

func skipBlanks(content []byte, i int) int {
	for i < len(content) && (content[i] == ' ' || content[i] == '\t') {
		i++
	}
	return i
}

func (f *File) syntaxError(offset int, message string) *SyntaxError {
	line, col := 1, 1
	if len(f.lines) > 0 {
		line, col = f.Position(min(offset, len(f.Content)))
	}
	return &SyntaxError{Path: f.Path, Offset: offset, Line: line, Column: col, Message: message}
}

// matchBrackets pairs every opening bracket with its closing bracket.
// Template literal heads chain through their middles to the tail.
func (f *File) matchBrackets() ([]int, error) {
	match := make([]int, len(f.tokens))
	for i := range match {
		match[i] = -1
	}

	var stack []int
	pop := func(i int) (int, error) {
		if len(stack) == 0 {
			return 0, f.syntaxError(f.tokens[i].Start, fmt.Sprintf("unexpected %q", f.tokens[i].Text))
		}
		open := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !bracketsPair(f.tokens[open], f.tokens[i]) {
			return 0, f.syntaxError(f.tokens[i].Start,
				fmt.Sprintf("%q does not close %q opened at offset %d", f.tokens[i].Text, f.tokens[open].Text, f.tokens[open].Start))
		}
		return open, nil
	}

	for i, t := range f.tokens {
		switch {
		case isOpener(t):
			stack = append(stack, i)
		case t.Kind == TokenTemplateMiddle:
			open, err := pop(i)
			if err != nil {
				return nil, err
			}
			match[open] = i
			stack = append(stack, i)
		case isCloser(t) || t.Kind == TokenTemplateTail:
			open, err := pop(i)
			if err != nil {
				return nil, err
			}
			match[open] = i
			match[i] = open
		}
	}

	if len(stack) > 0 {
		open := f.tokens[stack[len(stack)-1]]
		return nil, f.syntaxError(open.Start, fmt.Sprintf("unclosed %q", open.Text))
	}

	return match, nil
}

func (f *File) index() {
	f.nodes = make(map[Handle]Node)
	add := func(n Node) bool {
		n.base().gen = f.gen
		f.nodes[HandleOf(n)] = n
		return true
	}

	Walk(f.Statements, add)
	for _, call := range f.Calls {
		add(call)
		if call.LastArray != nil {
			add(call.LastArray)
			for _, el := range call.LastArray.Elements {
				add(el)
			}
		}
	}
	for _, el := range f.JSXElements {
		add(el)
		for _, attr := range el.Attributes {
			add(attr)
		}
	}
}

func isOpener(t Token) bool {
	if t.Kind == TokenTemplateHead {
		return true
	}
	return t.Kind == TokenPunct && (t.Text == "(" || t.Text == "[" || t.Text == "{")
}

func isCloser(t Token) bool {
	return t.Kind == TokenPunct && (t.Text == ")" || t.Text == "]" || t.Text == "}")
}

func bracketsPair(open, closing Token) bool {
	if open.Kind == TokenTemplateHead || open.Kind == TokenTemplateMiddle {
		return closing.Kind == TokenTemplateMiddle || closing.Kind == TokenTemplateTail
	}
	if closing.Kind != TokenPunct {
		return false
	}
	switch open.Text {
	case "(":
		return closing.Text == ")"
	case "[":
		return closing.Text == "]"
	default:
		return closing.Text == "}"
	}
}

func lineStarts(content []byte) []int {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Unquote strips the quotes of a string literal's source text.
func Unquote(text string) string {
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') && text[len(text)-1] == text[0] {
		return text[1 : len(text)-1]
	}
	return text
}
