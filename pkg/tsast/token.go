package tsast

// TokenKind classifies a lexical token.
type TokenKind uint8

const (
	// TokenEOF marks the end of input.
	TokenEOF TokenKind = iota

	// TokenIdent is an identifier or keyword, including private names (#x)
	// and, inside JSX tags, dashed or namespaced names (aria-label, xlink:href).
	TokenIdent

	// TokenString is a quoted string literal.
	TokenString

	// TokenNumber is a numeric literal.
	TokenNumber

	// TokenRegex is a regular expression literal.
	TokenRegex

	// TokenPunct is an operator or punctuator.
	TokenPunct

	// TokenTemplate is a template literal without substitutions.
	TokenTemplate

	// TokenTemplateHead is the `...${ part of a template literal.
	TokenTemplateHead

	// TokenTemplateMiddle is the }...${ part of a template literal.
	TokenTemplateMiddle

	// TokenTemplateTail is the }...` part of a template literal.
	TokenTemplateTail

	// TokenJSXText is raw text between JSX tags.
	TokenJSXText
)

// String returns a readable name for the kind.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenIdent:
		return "identifier"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenRegex:
		return "regex"
	case TokenPunct:
		return "punctuator"
	case TokenTemplate, TokenTemplateHead, TokenTemplateMiddle, TokenTemplateTail:
		return "template"
	case TokenJSXText:
		return "jsx text"
	default:
		return "unknown"
	}
}

// Token is a single lexical token.
type Token struct {
	Kind  TokenKind
	Text  string
	Start int
	End   int

	// NewlineBefore is set when a line break separates this token from the
	// previous one (comments included).
	NewlineBefore bool

	// JSX is set for tokens produced while lexing JSX tags or children.
	JSX bool
}

// Is reports whether the token is the punctuator or identifier text s.
func (t Token) Is(s string) bool {
	return (t.Kind == TokenPunct || t.Kind == TokenIdent) && t.Text == s
}

// Comment is a line or block comment.
type Comment struct {
	Span  Span
	Block bool
}

// Span is a half-open byte range [Start, End) in a source file.
type Span struct {
	Start int
	End   int
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether other lies within s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Overlaps reports whether the spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// IsZero reports whether the span is unset.
func (s Span) IsZero() bool {
	return s.Start == 0 && s.End == 0
}
