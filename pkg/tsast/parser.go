package tsast

// parser builds statements from the token stream. Every parse function
// takes a token index and returns the index just past what it consumed;
// an ok of false means the construct is not the expected shape and the
// caller falls back to treating it as an opaque statement.
type parser struct {
	f     *File
	toks  []Token
	match []int
}

// nonTerminal lists words after which a line break never ends a statement.
//
//nolint:gochecknoglobals // Read-only lookup table.
var nonTerminal = map[string]bool{
	"export": true, "default": true, "import": true, "const": true, "let": true,
	"var": true, "function": true, "class": true, "interface": true, "type": true,
	"enum": true, "namespace": true, "module": true, "declare": true, "abstract": true,
	"async": true, "new": true, "typeof": true, "keyof": true, "as": true,
	"satisfies": true, "in": true, "of": true, "instanceof": true, "extends": true,
	"implements": true, "await": true, "yield": true, "delete": true, "void": true,
	"case": true, "readonly": true, "unique": true, "infer": true, "is": true,
	"asserts": true, "from": true, "else": true, "do": true,
}

// continuation lists words that continue an expression on a new line.
//
//nolint:gochecknoglobals // Read-only lookup table.
var continuation = map[string]bool{
	"as": true, "satisfies": true, "in": true, "of": true, "instanceof": true,
	"extends": true, "implements": true, "is": true,
}

//nolint:gochecknoglobals // Read-only lookup table.
var declKeywords = map[string]bool{
	"const": true, "let": true, "var": true, "function": true, "class": true,
	"interface": true, "type": true, "enum": true, "namespace": true, "module": true,
	"global": true, "abstract": true, "async": true,
}

func (p *parser) tok(i int) Token {
	if i < 0 || i >= len(p.toks) {
		return Token{Kind: TokenEOF}
	}
	return p.toks[i]
}

// is reports whether token i is the non-JSX punctuator or word s.
func (p *parser) is(i int, s string) bool {
	t := p.tok(i)
	return !t.JSX && t.Is(s)
}

func (p *parser) isIdent(i int) bool {
	t := p.tok(i)
	return t.Kind == TokenIdent && !t.JSX
}

func (p *parser) isString(i int) bool {
	return p.tok(i).Kind == TokenString
}

// span covers tokens [from, to).
func (p *parser) span(from, to int) Span {
	return Span{Start: p.toks[from].Start, End: p.toks[to-1].End}
}

func (p *parser) tokSpan(i int) Span {
	return Span{Start: p.toks[i].Start, End: p.toks[i].End}
}

// closeOf returns the index of the bracket closing the opener at i.
func (p *parser) closeOf(i int) int {
	j := p.match[i]
	for j >= 0 && p.toks[j].Kind == TokenTemplateMiddle {
		j = p.match[j]
	}
	return j
}

// asiBoundary reports whether a statement ends before token j because a
// line break separates a complete expression from a new statement.
func (p *parser) asiBoundary(j int) bool {
	if j == 0 {
		return false
	}
	t := p.toks[j]
	if !t.NewlineBefore || t.JSX {
		return false
	}
	return endsExpr(p.toks[j-1]) && startsStatement(t)
}

func endsExpr(t Token) bool {
	switch t.Kind {
	case TokenIdent:
		return !nonTerminal[t.Text]
	case TokenNumber, TokenString, TokenRegex, TokenTemplate, TokenTemplateTail:
		return true
	case TokenPunct:
		switch t.Text {
		case ")", "]", "}", "++", "--", ">", "!":
			return true
		}
	}
	return false
}

func startsStatement(t Token) bool {
	switch t.Kind {
	case TokenIdent:
		return !continuation[t.Text]
	case TokenString:
		return true
	case TokenPunct:
		return t.Text == "@"
	}
	return false
}

// scanExpr skips an expression starting at i and returns the index of the
// token that ends it: a semicolon, an unmatched closer, a statement
// boundary or, with stopComma, a top-level comma.
func (p *parser) scanExpr(i, end int, stopComma bool) int {
	j := i
	for j < end {
		t := p.toks[j]
		if j > i && p.asiBoundary(j) {
			return j
		}
		switch {
		case isCloser(t):
			return j
		case t.Kind == TokenPunct && !t.JSX && t.Text == ";":
			return j
		case stopComma && t.Kind == TokenPunct && !t.JSX && t.Text == ",":
			return j
		case isOpener(t):
			j = p.closeOf(j) + 1
		default:
			j++
		}
	}
	return end
}

func (p *parser) skipStatement(i, end int) int {
	j := p.scanExpr(i, end, false)
	if j == i {
		j = i + 1
	}
	if j < end && p.is(j, ";") {
		j++
	}
	return j
}

// findTop returns the index of the first top-level token s in [from, to),
// or -1.
func (p *parser) findTop(from, to int, s string) int {
	for j := from; j < to; {
		if p.is(j, s) {
			return j
		}
		if isOpener(p.toks[j]) {
			j = p.closeOf(j) + 1
			continue
		}
		j++
	}
	return -1
}

// splitList returns the token ranges of the comma-separated items between
// the brackets at open and closing. Empty items are dropped.
func (p *parser) splitList(open, closing int) [][2]int {
	var items [][2]int
	start := open + 1
	for j := start; j < closing; {
		t := p.toks[j]
		if t.Kind == TokenPunct && t.Text == "," {
			if j > start {
				items = append(items, [2]int{start, j})
			}
			j++
			start = j
			continue
		}
		if isOpener(t) {
			j = p.closeOf(j) + 1
			continue
		}
		j++
	}
	if closing > start {
		items = append(items, [2]int{start, closing})
	}
	return items
}

// itemFull extends the list item [r[0], r[1]) over its leading comments
// and advances floor past the item and its separator.
func (p *parser) itemFull(floor *int, r [2]int, closing int) Span {
	s := p.span(r[0], r[1])
	full := Span{Start: p.f.leadingStart(*floor, s.Start), End: s.End}
	*floor = p.toks[r[1]-1].End
	if r[1] < closing {
		*floor = p.toks[r[1]].End
	}
	return full
}

// skipAngles skips a type parameter or argument list starting at the `<`
// at i.
func (p *parser) skipAngles(i, end int) int {
	depth := 0
	for j := i; j < end; {
		t := p.toks[j]
		switch {
		case p.is(j, "<"):
			depth++
		case p.is(j, ">"):
			depth--
			if depth == 0 {
				return j + 1
			}
		case isCloser(t) || p.is(j, ";"):
			return j
		case isOpener(t):
			j = p.closeOf(j) + 1
			continue
		}
		j++
	}
	return end
}

type typeStops struct {
	eq    bool
	comma bool
	body  bool

	// member also ends the type at a line break before `[` or `(`, which
	// start the next interface member rather than continue this type.
	member bool
}

// skipType skips a type annotation starting at i.
func (p *parser) skipType(i, end int, stops typeStops) int {
	angle := 0
	for j := i; j < end; {
		t := p.toks[j]
		if j > i && angle == 0 && p.asiBoundary(j) {
			return j
		}
		if stops.member && j > i && angle == 0 && t.NewlineBefore &&
			(p.is(j, "[") || p.is(j, "(")) && typeEnds(p.toks[j-1]) {
			return j
		}
		if t.Kind == TokenPunct && !t.JSX {
			switch t.Text {
			case "<":
				angle++
				j++
				continue
			case ">":
				if angle > 0 {
					angle--
				}
				j++
				continue
			case ";":
				return j
			case "=":
				if stops.eq && angle == 0 {
					return j
				}
			case ",":
				if stops.comma && angle == 0 {
					return j
				}
			case "{":
				if stops.body && angle == 0 && j > i && typeEnds(p.toks[j-1]) {
					return j
				}
			}
		}
		if isCloser(t) {
			return j
		}
		if isOpener(t) {
			j = p.closeOf(j) + 1
			continue
		}
		j++
	}
	return end
}

func typeEnds(t Token) bool {
	switch t.Kind {
	case TokenIdent:
		switch t.Text {
		case "keyof", "typeof", "infer", "extends", "is", "asserts", "readonly", "unique", "new":
			return false
		}
		return true
	case TokenString, TokenNumber, TokenTemplate, TokenTemplateTail:
		return true
	case TokenPunct:
		switch t.Text {
		case ">", "]", ")", "}":
			return true
		}
	}
	return false
}

func (p *parser) parseStatements(start, end int) []Statement {
	var stmts []Statement
	for i := start; i < end; {
		if p.is(i, ";") {
			i++
			continue
		}
		stmt, next := p.parseStatement(i, end)
		if next <= i {
			next = i + 1
		}
		stmts = append(stmts, stmt)
		i = next
	}
	return stmts
}

func (p *parser) parseStatement(i, end int) (Statement, int) {
	start := i
	if p.is(i, "@") {
		i = p.skipDecorators(i)
	}

	var (
		stmt Statement
		next int
		ok   bool
	)
	if p.isIdent(i) {
		switch p.toks[i].Text {
		case "import":
			stmt, next, ok = p.parseImport(i, end)
		case "export":
			stmt, next, ok = p.parseExport(i, end)
		default:
			stmt, next, ok = p.parseDeclaration(i, end)
		}
	}
	if !ok {
		stmt = &OtherStatement{}
		next = p.skipStatement(i, end)
	}

	stmt.base().span = p.span(start, next)
	return stmt, next
}

func (p *parser) skipDecorators(i int) int {
	for p.is(i, "@") {
		i++
		if p.isIdent(i) {
			i++
		}
		for p.is(i, ".") && p.isIdent(i+1) {
			i += 2
		}
		if p.is(i, "(") {
			i = p.match[i] + 1
		}
	}
	return i
}

// trailer consumes an optional `with { ... }` clause and semicolon.
func (p *parser) trailer(j int) (int, Span, bool) {
	var attrs Span
	if (p.is(j, "with") || p.is(j, "assert")) && p.is(j+1, "{") && !p.toks[j].NewlineBefore {
		closing := p.match[j+1]
		attrs = p.span(j, closing+1)
		j = closing + 1
	}
	if p.is(j, ";") {
		return j + 1, attrs, true
	}
	return j, attrs, false
}

func (p *parser) parseImport(i, end int) (*ImportDecl, int, bool) {
	d := &ImportDecl{}
	j := i + 1
	if j >= end || p.is(j, "(") || p.is(j, ".") {
		return nil, 0, false
	}

	if p.isString(j) {
		d.SideEffect = true
		p.setModule(&d.Module, &d.ModuleSpan, &d.Quote, j)
		next, attrs, semi := p.trailer(j + 1)
		d.Attributes, d.Semicolon = attrs, semi
		return d, next, true
	}

	if p.is(j, "type") && !p.is(j+1, "from") && !p.is(j+1, ",") && !p.is(j+1, "=") {
		d.TypeOnly = true
		j++
	}
	if p.isIdent(j) && p.is(j+1, "=") {
		// import x = require("m")
		return nil, 0, false
	}

	if p.isIdent(j) && (p.is(j+1, ",") || p.is(j+1, "from")) {
		d.Default = &Binding{Name: p.toks[j].Text, Span: p.tokSpan(j)}
		j++
		if p.is(j, ",") {
			j++
		}
	}

	switch {
	case p.is(j, "*"):
		if !p.is(j+1, "as") || !p.isIdent(j+2) {
			return nil, 0, false
		}
		d.Namespace = &Binding{Name: p.toks[j+2].Text, Span: p.tokSpan(j + 2)}
		j += 3
	case p.is(j, "{"):
		closing := p.match[j]
		d.HasBraces = true
		d.Braces = p.span(j, closing+1)
		floor := p.toks[j].End
		for _, r := range p.splitList(j, closing) {
			spec, ok := p.parseImportSpecifier(r[0], r[1])
			if !ok {
				return nil, 0, false
			}
			spec.Full = p.itemFull(&floor, r, closing)
			d.Named = append(d.Named, spec)
		}
		j = closing + 1
	}

	if !p.is(j, "from") || !p.isString(j+1) {
		return nil, 0, false
	}
	p.setModule(&d.Module, &d.ModuleSpan, &d.Quote, j+1)

	next, attrs, semi := p.trailer(j + 2)
	d.Attributes, d.Semicolon = attrs, semi
	return d, next, true
}

func (p *parser) setModule(module *string, span *Span, quote *byte, i int) {
	t := p.toks[i]
	*module = Unquote(t.Text)
	*span = p.tokSpan(i)
	*quote = t.Text[0]
}

// specifierParts splits `[type] name [as alias]` in [a, b).
func (p *parser) specifierParts(a, b int) (string, string, bool, bool) {
	typeOnly := false
	if p.is(a, "type") && (b-a == 2 || b-a == 4) {
		typeOnly = true
		a++
	}
	if !p.isIdent(a) && !p.isString(a) {
		return "", "", false, false
	}
	name := Unquote(p.toks[a].Text)
	switch b - a {
	case 1:
		return name, name, typeOnly, true
	case 3:
		if p.is(a+1, "as") && (p.isIdent(a+2) || p.isString(a+2)) {
			return name, Unquote(p.toks[a+2].Text), typeOnly, true
		}
	}
	return "", "", false, false
}

func (p *parser) parseImportSpecifier(a, b int) (*ImportSpecifier, bool) {
	imported, local, typeOnly, ok := p.specifierParts(a, b)
	if !ok {
		return nil, false
	}
	spec := &ImportSpecifier{Imported: imported, Local: local, TypeOnly: typeOnly}
	spec.span = p.span(a, b)
	return spec, true
}

func (p *parser) parseExport(i, end int) (Statement, int, bool) {
	j := i + 1

	switch {
	case p.is(j, "default"):
		k := j + 1
		if k >= end {
			return nil, 0, false
		}
		keyword := Span{Start: p.toks[i].Start, End: p.toks[k].Start}
		switch p.toks[k].Text {
		case "function", "async", "class", "abstract", "interface":
			if d, next, ok := p.parseDeclaration(k, end); ok {
				d.Exported, d.Default = true, true
				d.ExportSpan = keyword
				return d, next, true
			}
		}
		next := p.scanExpr(k, end, false)
		if next == k {
			return nil, 0, false
		}
		a := &ExportAssignment{Keyword: keyword, Expr: p.span(k, next)}
		p.classifyExpr(a, k, next)
		if p.is(next, ";") {
			a.Semicolon = true
			next++
		}
		return a, next, true
	case p.is(j, "=") || p.is(j, "import") || p.is(j, "as"):
		return nil, 0, false
	case p.is(j, "*") || p.is(j, "{") || (p.is(j, "type") && (p.is(j+1, "{") || p.is(j+1, "*"))):
		return p.parseExportDecl(i)
	}

	d, next, ok := p.parseDeclaration(j, end)
	if !ok {
		return nil, 0, false
	}
	d.Exported = true
	d.ExportSpan = Span{Start: p.toks[i].Start, End: p.toks[j].Start}
	return d, next, true
}

func (p *parser) parseExportDecl(i int) (*ExportDecl, int, bool) {
	e := &ExportDecl{}
	j := i + 1
	if p.is(j, "type") {
		e.TypeOnly = true
		j++
	}

	switch {
	case p.is(j, "*"):
		e.Star = true
		j++
		if p.is(j, "as") && (p.isIdent(j+1) || p.isString(j+1)) {
			e.StarAlias = Unquote(p.toks[j+1].Text)
			j += 2
		}
	case p.is(j, "{"):
		closing := p.match[j]
		e.Braces = p.span(j, closing+1)
		floor := p.toks[j].End
		for _, r := range p.splitList(j, closing) {
			local, exported, typeOnly, ok := p.specifierParts(r[0], r[1])
			if !ok {
				return nil, 0, false
			}
			spec := &ExportSpecifier{Local: local, Exported: exported, TypeOnly: typeOnly}
			spec.span = p.span(r[0], r[1])
			spec.Full = p.itemFull(&floor, r, closing)
			e.Specifiers = append(e.Specifiers, spec)
		}
		j = closing + 1
	default:
		return nil, 0, false
	}

	if p.is(j, "from") && p.isString(j+1) {
		e.HasModule = true
		p.setModule(&e.Module, &e.ModuleSpan, &e.Quote, j+1)
		j += 2
	} else if e.Star {
		return nil, 0, false
	}

	next, attrs, semi := p.trailer(j)
	e.Attributes, e.Semicolon = attrs, semi
	return e, next, true
}

func (p *parser) classifyExpr(a *ExportAssignment, from, to int) {
	t := p.toks[from]
	n := to - from

	switch {
	case n == 1 && t.Kind == TokenIdent:
		switch t.Text {
		case "true", "false", "null", "undefined":
			a.ExprKind = ExprLiteral
		default:
			a.ExprKind = ExprIdentifier
			a.Name = t.Text
		}
	case n == 1 && (t.Kind == TokenString || t.Kind == TokenNumber || t.Kind == TokenTemplate || t.Kind == TokenRegex):
		a.ExprKind = ExprLiteral
	case t.Is("function") || (t.Is("async") && p.is(from+1, "function")):
		a.ExprKind = ExprFunction
	case t.Is("class"):
		a.ExprKind = ExprClass
	case (t.Is("(") || t.Is("async") || t.Is("<") || (t.Kind == TokenIdent && p.is(from+1, "=>"))) &&
		p.findTop(from, to, "=>") >= 0:
		a.ExprKind = ExprArrow
	case t.Is("{") && p.closeOf(from) == to-1:
		a.ExprKind = ExprObject
	case t.Is("[") && p.closeOf(from) == to-1:
		a.ExprKind = ExprArray
	default:
		a.ExprKind = ExprOther
	}
}

func (p *parser) parseDeclaration(i, end int) (*Declaration, int, bool) {
	d := &Declaration{}
	j := i

modifiers:
	for {
		switch {
		case p.is(j, "declare") && declKeywords[p.tok(j+1).Text] && !p.tok(j+1).NewlineBefore:
			d.Declare = true
		case p.is(j, "abstract") && p.is(j+1, "class"):
		case p.is(j, "async") && p.is(j+1, "function") && !p.tok(j+1).NewlineBefore:
			d.Async = true
		default:
			break modifiers
		}
		j++
	}

	if !p.isIdent(j) {
		return nil, 0, false
	}

	var (
		next int
		ok   bool
	)
	switch p.toks[j].Text {
	case "const":
		if p.is(j+1, "enum") {
			d.Const = true
			next, ok = p.parseEnum(d, j+1, end)
		} else {
			next, ok = p.parseVariable(d, j, end)
		}
	case "let", "var":
		next, ok = p.parseVariable(d, j, end)
	case "function":
		next, ok = p.parseFunction(d, j, end)
	case "class":
		next, ok = p.parseClass(d, j, end)
	case "interface":
		next, ok = p.parseInterface(d, j, end)
	case "type":
		next, ok = p.parseTypeAlias(d, j, end)
	case "enum":
		next, ok = p.parseEnum(d, j, end)
	case "namespace", "module":
		next, ok = p.parseModule(d, j, end)
	case "global":
		if d.Declare {
			next, ok = p.parseModule(d, j, end)
		}
	}
	if !ok {
		return nil, 0, false
	}
	return d, next, true
}

func (p *parser) parseVariable(d *Declaration, j, end int) (int, bool) {
	d.Decl = DeclVariable
	d.Keyword = p.toks[j].Text

	k := j + 1
	for {
		names, next, ok := p.bindingNames(k)
		if !ok {
			return 0, false
		}
		d.Bindings = append(d.Bindings, names...)
		k = next
		if p.is(k, "!") {
			k++
		}
		if p.is(k, ":") {
			k = p.skipType(k+1, end, typeStops{eq: true, comma: true})
		}
		if p.is(k, "=") {
			k = p.scanExpr(k+1, end, true)
		}
		if !p.is(k, ",") {
			break
		}
		k++
	}
	if p.is(k, ";") {
		k++
	}

	if len(d.Bindings) > 0 {
		d.Name = d.Bindings[0].Name
		d.NameSpan = d.Bindings[0].Span
	}
	return k, true
}

func (p *parser) bindingNames(k int) ([]Binding, int, bool) {
	switch {
	case p.isIdent(k):
		return []Binding{{Name: p.toks[k].Text, Span: p.tokSpan(k)}}, k + 1, true
	case p.is(k, "{") || p.is(k, "["):
		closing := p.match[k]
		return p.patternNames(k, closing), closing + 1, true
	}
	return nil, 0, false
}

func (p *parser) patternNames(open, closing int) []Binding {
	var names []Binding
	object := p.is(open, "{")
	for _, r := range p.splitList(open, closing) {
		a, b := r[0], r[1]
		if p.is(a, "...") {
			a++
		}
		if eq := p.findTop(a, b, "="); eq >= 0 {
			b = eq
		}
		if object {
			if colon := p.findTop(a, b, ":"); colon >= 0 {
				a = colon + 1
			}
		}
		switch {
		case p.is(a, "{") || p.is(a, "["):
			names = append(names, p.patternNames(a, p.match[a])...)
		case p.isIdent(a):
			names = append(names, Binding{Name: p.toks[a].Text, Span: p.tokSpan(a)})
		}
	}
	return names
}

func (p *parser) parseFunction(d *Declaration, j, end int) (int, bool) {
	d.Decl = DeclFunction
	d.Keyword = "function"
	d.NameInsert = p.toks[j].End

	k := j + 1
	if p.is(k, "*") {
		d.NameInsert = p.toks[k].End
		k++
	}
	if p.isIdent(k) {
		d.Name = p.toks[k].Text
		d.NameSpan = p.tokSpan(k)
		k++
	}
	if p.is(k, "<") {
		k = p.skipAngles(k, end)
	}
	if !p.is(k, "(") {
		return 0, false
	}
	k = p.match[k] + 1
	if p.is(k, ":") {
		k = p.skipType(k+1, end, typeStops{body: true})
	}

	switch {
	case p.is(k, "{"):
		closing := p.match[k]
		d.Body = p.span(k, closing+1)
		k = closing + 1
	case p.is(k, ";"):
		k++
	}
	return k, true
}

// bodyOpen finds the `{` opening a class or interface body at angle
// depth zero.
func (p *parser) bodyOpen(k, end int) (int, bool) {
	angle := 0
	for k < end {
		t := p.toks[k]
		switch {
		case p.is(k, "<"):
			angle++
		case p.is(k, ">"):
			if angle > 0 {
				angle--
			}
		case p.is(k, "{") && angle == 0:
			return k, true
		case isCloser(t) || p.is(k, ";"):
			return 0, false
		case isOpener(t):
			k = p.closeOf(k) + 1
			continue
		}
		k++
	}
	return 0, false
}

func (p *parser) parseClass(d *Declaration, j, end int) (int, bool) {
	d.Decl = DeclClass
	d.Keyword = "class"
	d.NameInsert = p.toks[j].End

	k := j + 1
	if p.isIdent(k) && !p.is(k, "extends") && !p.is(k, "implements") {
		d.Name = p.toks[k].Text
		d.NameSpan = p.tokSpan(k)
		k++
	}

	open, ok := p.bodyOpen(k, end)
	if !ok {
		return 0, false
	}
	closing := p.match[open]
	d.Body = p.span(open, closing+1)
	return closing + 1, true
}

func (p *parser) parseInterface(d *Declaration, j, end int) (int, bool) {
	if !p.isIdent(j + 1) {
		return 0, false
	}
	d.Decl = DeclInterface
	d.Keyword = "interface"
	d.Name = p.toks[j+1].Text
	d.NameSpan = p.tokSpan(j + 1)

	open, ok := p.bodyOpen(j+2, end)
	if !ok {
		return 0, false
	}
	closing := p.match[open]
	d.Body = p.span(open, closing+1)
	d.Properties = p.parseInterfaceMembers(open, closing)
	return closing + 1, true
}

func (p *parser) parseTypeAlias(d *Declaration, j, end int) (int, bool) {
	if !p.isIdent(j+1) || !(p.is(j+2, "=") || p.is(j+2, "<")) {
		return 0, false
	}
	d.Decl = DeclTypeAlias
	d.Keyword = "type"
	d.Name = p.toks[j+1].Text
	d.NameSpan = p.tokSpan(j + 1)

	k := j + 2
	if p.is(k, "<") {
		k = p.skipAngles(k, end)
	}
	if !p.is(k, "=") {
		return 0, false
	}
	k = p.skipType(k+1, end, typeStops{})
	if p.is(k, ";") {
		k++
	}
	return k, true
}

func (p *parser) parseEnum(d *Declaration, j, end int) (int, bool) {
	if !p.isIdent(j+1) || !p.is(j+2, "{") {
		return 0, false
	}
	d.Decl = DeclEnum
	d.Keyword = "enum"
	d.Name = p.toks[j+1].Text
	d.NameSpan = p.tokSpan(j + 1)

	open := j + 2
	closing := p.match[open]
	if closing >= end {
		return 0, false
	}
	d.Body = p.span(open, closing+1)
	d.Members = p.parseEnumMembers(open, closing)
	return closing + 1, true
}

func (p *parser) parseEnumMembers(open, closing int) []*EnumMember {
	var members []*EnumMember
	floor := p.toks[open].End
	for _, r := range p.splitList(open, closing) {
		a, b := r[0], r[1]
		m := &EnumMember{NameSpan: p.tokSpan(a)}
		switch t := p.toks[a]; t.Kind {
		case TokenIdent, TokenString:
			m.Name = Unquote(t.Text)
		default:
			m.Name = p.f.Slice(p.span(a, b))
		}
		if a+1 < b && p.is(a+1, "=") && a+2 < b {
			m.HasInitializer = true
			m.Initializer = p.span(a+2, b)
		}
		m.span = p.span(a, b)
		m.Full = Span{Start: p.f.leadingStart(floor, m.span.Start), End: m.span.End}
		members = append(members, m)

		floor = p.toks[b-1].End
		if b < closing {
			floor = p.toks[b].End
		}
	}
	return members
}

func (p *parser) isMemberNameStart(i int) bool {
	t := p.tok(i)
	return (t.Kind == TokenIdent && !t.JSX) || t.Kind == TokenString || t.Kind == TokenNumber || p.is(i, "[")
}

func (p *parser) parseInterfaceMembers(open, closing int) []*InterfaceMember {
	var members []*InterfaceMember
	floor := p.toks[open].End

	for k := open + 1; k < closing; {
		if p.is(k, ";") || p.is(k, ",") {
			floor = p.toks[k].End
			k++
			continue
		}

		start := k
		m := &InterfaceMember{Member: MemberProperty}
		for (p.is(k, "readonly") || p.is(k, "get") || p.is(k, "set")) &&
			p.isMemberNameStart(k+1) && !p.toks[k+1].NewlineBefore {
			k++
		}

		switch {
		case p.is(k, "["):
			bracket := p.match[k]
			if p.findTop(k+1, bracket, ":") >= 0 {
				m.Member = MemberIndex
			} else {
				m.Member = MemberComputed
				m.Name = p.f.Slice(p.span(k, bracket+1))
			}
			k = bracket + 1
		case p.is(k, "(") || p.is(k, "<"):
			m.Member = MemberCall
		case p.is(k, "new") && (p.is(k+1, "(") || p.is(k+1, "<")):
			m.Member = MemberConstruct
			k++
		case p.isMemberNameStart(k):
			m.Name = Unquote(p.toks[k].Text)
			k++
		default:
			m.Member = MemberOther
		}

		if p.is(k, "?") {
			k++
		}
		if m.Member == MemberProperty && (p.is(k, "(") || p.is(k, "<")) {
			m.Member = MemberMethod
		}

		next := p.skipType(k, closing, typeStops{comma: true, member: true})
		if next <= start {
			next = start + 1
		}
		m.span = p.span(start, next)
		m.Full = Span{Start: p.f.leadingStart(floor, m.span.Start), End: m.span.End}
		members = append(members, m)

		floor = p.toks[next-1].End
		k = next
	}
	return members
}

func (p *parser) parseModule(d *Declaration, j, end int) (int, bool) {
	d.Decl = DeclModule
	d.Keyword = p.toks[j].Text

	k := j + 1
	switch {
	case d.Keyword == "global":
		d.Name = "global"
		d.NameSpan = p.tokSpan(j)
	case p.isString(k):
		d.Name = Unquote(p.toks[k].Text)
		d.NameSpan = p.tokSpan(k)
		d.ModuleString = true
		k++
	case p.isIdent(k):
		name := p.toks[k].Text
		nameStart := k
		k++
		for p.is(k, ".") && p.isIdent(k+1) {
			name += "." + p.toks[k+1].Text
			k += 2
		}
		d.Name = name
		d.NameSpan = p.span(nameStart, k)
	default:
		return 0, false
	}

	if p.is(k, "{") {
		closing := p.match[k]
		d.Body = p.span(k, closing+1)
		d.Statements = p.parseStatements(k+1, closing)
		return closing + 1, true
	}
	if !d.ModuleString {
		return 0, false
	}
	if p.is(k, ";") {
		k++
	}
	return k, true
}
