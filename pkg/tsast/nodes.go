package tsast

// NodeKind identifies the concrete type of a Node.
type NodeKind uint8

const (
	KindOther NodeKind = iota
	KindImport
	KindImportSpecifier
	KindExport
	KindExportSpecifier
	KindExportAssignment
	KindDeclaration
	KindEnumMember
	KindInterfaceMember
	KindCall
	KindArray
	KindArrayElement
	KindJSXElement
	KindJSXAttribute
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = [...]string{
	KindOther:            "statement",
	KindImport:           "import",
	KindImportSpecifier:  "import specifier",
	KindExport:           "export",
	KindExportSpecifier:  "export specifier",
	KindExportAssignment: "export assignment",
	KindDeclaration:      "declaration",
	KindEnumMember:       "enum member",
	KindInterfaceMember:  "interface member",
	KindCall:             "call",
	KindArray:            "array",
	KindArrayElement:     "array element",
	KindJSXElement:       "jsx element",
	KindJSXAttribute:     "jsx attribute",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "node"
}

// Node is any located construct of a parsed File. A node belongs to the
// generation of the File that produced it and must not be used with a
// File of another generation.
type Node interface {
	Span() Span
	Generation() uint64
	Kind() NodeKind
	base() *node
}

type node struct {
	span Span
	gen  uint64
}

// Span returns the source range of the node.
func (n *node) Span() Span { return n.span }

// Generation returns the generation of the file the node was parsed from.
func (n *node) Generation() uint64 { return n.gen }

func (n *node) base() *node { return n }

// Handle identifies a node independently of the Go value holding it. A
// handle only resolves against the file generation it was taken from.
type Handle struct {
	Gen  uint64
	Kind NodeKind
	Span Span
}

// HandleOf returns the handle for n.
func HandleOf(n Node) Handle {
	return Handle{Gen: n.Generation(), Kind: n.Kind(), Span: n.Span()}
}

// Statement is a top-level or module-block statement.
type Statement interface {
	Node
	statement()
}

// Binding is a declared name and where it is written.
type Binding struct {
	Name string
	Span Span
}

// ImportDecl is an `import ... from "m"` or `import "m"` statement.
type ImportDecl struct {
	node

	TypeOnly   bool
	SideEffect bool

	Default   *Binding
	Namespace *Binding
	Named     []*ImportSpecifier

	// HasBraces is set when the statement has a named import clause; Braces
	// covers it from `{` to `}`.
	HasBraces bool
	Braces    Span

	Module     string
	ModuleSpan Span
	Quote      byte

	// Attributes covers a trailing `with { ... }` clause, if any.
	Attributes Span
	Semicolon  bool
}

// ImportSpecifier is one entry of a named import clause.
type ImportSpecifier struct {
	node

	// Imported is the name exported by the module; Local is the binding
	// introduced in this file. They differ for `a as b`.
	Imported string
	Local    string
	TypeOnly bool

	// Full extends Span over the comments on the lines directly above.
	Full Span
}

// Aliased reports whether the specifier renames its binding.
func (s *ImportSpecifier) Aliased() bool { return s.Imported != s.Local }

// ExportDecl is an `export { ... }`, `export { ... } from "m"` or
// `export * from "m"` statement.
type ExportDecl struct {
	node

	TypeOnly bool

	Star      bool
	StarAlias string

	Specifiers []*ExportSpecifier
	Braces     Span

	HasModule  bool
	Module     string
	ModuleSpan Span
	Quote      byte

	Attributes Span
	Semicolon  bool
}

// ExportSpecifier is one entry of an export clause.
type ExportSpecifier struct {
	node

	Local    string
	Exported string
	TypeOnly bool

	// Full extends Span over the comments on the lines directly above.
	Full Span
}

// Aliased reports whether the specifier exports under another name.
func (s *ExportSpecifier) Aliased() bool { return s.Local != s.Exported }

// ExprKind classifies the expression of an export assignment.
type ExprKind uint8

const (
	ExprOther ExprKind = iota
	ExprIdentifier
	ExprLiteral
	ExprArrow
	ExprFunction
	ExprClass
	ExprObject
	ExprArray
)

// ExportAssignment is `export default <expression>;`.
type ExportAssignment struct {
	node

	// Keyword covers `export default ` up to the expression.
	Keyword   Span
	Expr      Span
	ExprKind  ExprKind
	Name      string
	Semicolon bool
}

// DeclKind classifies a declaration.
type DeclKind uint8

const (
	DeclVariable DeclKind = iota
	DeclFunction
	DeclClass
	DeclInterface
	DeclTypeAlias
	DeclEnum
	DeclModule
)

// IsType reports whether the declaration only introduces a type name.
func (k DeclKind) IsType() bool {
	return k == DeclInterface || k == DeclTypeAlias
}

// Declaration is a variable, function, class, interface, type alias, enum
// or module/namespace declaration, possibly carrying export modifiers.
type Declaration struct {
	node

	// Decl is the kind of declaration.
	Decl DeclKind

	// Keyword is the declaring keyword (const, function, namespace, ...).
	Keyword string

	// Name is empty for anonymous default-exported functions and classes.
	Name     string
	NameSpan Span

	// NameInsert is the offset right after `function`, `function*` or
	// `class` where a synthesized name would be written.
	NameInsert int

	// Bindings lists every name a variable statement declares.
	Bindings []Binding

	Exported bool
	Default  bool
	Declare  bool
	Async    bool
	Const    bool

	// ExportSpan covers `export ` or `export default ` up to the next token.
	ExportSpan Span

	// Body covers the braces of a function, class, interface, enum or module.
	Body Span

	Members    []*EnumMember
	Properties []*InterfaceMember
	Statements []Statement

	// ModuleString is set for `declare module "name"`.
	ModuleString bool
}

// Names returns every name the declaration introduces.
func (d *Declaration) Names() []string {
	if d.Decl == DeclVariable {
		names := make([]string, 0, len(d.Bindings))
		for _, b := range d.Bindings {
			names = append(names, b.Name)
		}
		return names
	}
	if d.Name == "" {
		return nil
	}
	return []string{d.Name}
}

// EnumMember is one member of an enum body. Full extends Span over the
// comments on the lines directly above the member.
type EnumMember struct {
	node

	Name           string
	NameSpan       Span
	HasInitializer bool
	Initializer    Span
	Full           Span
}

// MemberKind classifies an interface member.
type MemberKind uint8

const (
	MemberProperty MemberKind = iota
	MemberMethod
	MemberIndex
	MemberCall
	MemberConstruct
	MemberComputed
	MemberOther
)

// InterfaceMember is one member of an interface body.
type InterfaceMember struct {
	node

	Name   string
	Member MemberKind
	Full   Span
}

// Named reports whether the member is a plain named property or method.
func (m *InterfaceMember) Named() bool {
	return m.Member == MemberProperty || m.Member == MemberMethod
}

// OtherStatement is any statement not modelled in more detail.
type OtherStatement struct {
	node
}

// CallExpr is a call whose callee is an identifier or member chain.
type CallExpr struct {
	node

	// Callee is the full callee path (React.useMemo); Name its last segment.
	Callee string
	Name   string
	Args   []Span

	// LastArray is set when the last argument is an array literal.
	LastArray *ArrayLiteral
}

// ArrayLiteral is an array literal argument.
type ArrayLiteral struct {
	node

	Elements []*ArrayElement
}

// ArrayElement is one element of an array literal. Key is the element's
// text with whitespace removed; Simple is set for identifiers and member
// access chains.
type ArrayElement struct {
	node

	Key    string
	Simple bool
	Full   Span
}

// JSXElement is an opening or self-closing JSX tag.
type JSXElement struct {
	node

	Name       string
	Attributes []*JSXAttribute

	// Unsortable is set when an attribute could not be delimited.
	Unsortable bool
}

// JSXAttribute is one attribute or spread of a JSX tag.
type JSXAttribute struct {
	node

	Name   string
	Spread bool
	Full   Span
}

func (*ImportDecl) Kind() NodeKind       { return KindImport }
func (*ImportSpecifier) Kind() NodeKind  { return KindImportSpecifier }
func (*ExportDecl) Kind() NodeKind       { return KindExport }
func (*ExportSpecifier) Kind() NodeKind  { return KindExportSpecifier }
func (*ExportAssignment) Kind() NodeKind { return KindExportAssignment }
func (*Declaration) Kind() NodeKind      { return KindDeclaration }
func (*EnumMember) Kind() NodeKind       { return KindEnumMember }
func (*InterfaceMember) Kind() NodeKind  { return KindInterfaceMember }
func (*OtherStatement) Kind() NodeKind   { return KindOther }
func (*CallExpr) Kind() NodeKind         { return KindCall }
func (*ArrayLiteral) Kind() NodeKind     { return KindArray }
func (*ArrayElement) Kind() NodeKind     { return KindArrayElement }
func (*JSXElement) Kind() NodeKind       { return KindJSXElement }
func (*JSXAttribute) Kind() NodeKind     { return KindJSXAttribute }

func (*ImportDecl) statement()       {}
func (*ExportDecl) statement()       {}
func (*ExportAssignment) statement() {}
func (*Declaration) statement()      {}
func (*OtherStatement) statement()   {}

// Walk calls fn for every statement node and its nested nodes in source
// order. Returning false from fn skips the children of that node.
func Walk(stmts []Statement, fn func(Node) bool) {
	for _, stmt := range stmts {
		if !fn(stmt) {
			continue
		}
		switch s := stmt.(type) {
		case *ImportDecl:
			for _, spec := range s.Named {
				fn(spec)
			}
		case *ExportDecl:
			for _, spec := range s.Specifiers {
				fn(spec)
			}
		case *Declaration:
			for _, m := range s.Members {
				fn(m)
			}
			for _, m := range s.Properties {
				fn(m)
			}
			Walk(s.Statements, fn)
		}
	}
}
