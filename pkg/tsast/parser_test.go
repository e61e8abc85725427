package tsast_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/collation/pkg/fix"
	"github.com/yaklabco/collation/pkg/tsast"
)

func mustParse(t *testing.T, path, src string) *tsast.File {
	t.Helper()
	f, err := tsast.Parse(path, []byte(src))
	require.NoError(t, err)
	return f
}

func TestParseImports(t *testing.T) {
	t.Parallel()

	src := `import React, { useMemo, type FC as F } from "react";
import type { Props } from './props'
import * as path from "node:path";
import './styles.css';
const lazy = import("./lazy");
`
	f := mustParse(t, "a.ts", src)
	require.Len(t, f.Statements, 5)

	first, ok := f.Statements[0].(*tsast.ImportDecl)
	require.True(t, ok)
	require.NotNil(t, first.Default)
	assert.Equal(t, "React", first.Default.Name)
	assert.Equal(t, "react", first.Module)
	assert.Equal(t, byte('"'), first.Quote)
	assert.True(t, first.Semicolon)
	assert.True(t, first.HasBraces)
	require.Len(t, first.Named, 2)
	assert.Equal(t, "useMemo", first.Named[0].Imported)
	assert.False(t, first.Named[0].Aliased())
	assert.Equal(t, "FC", first.Named[1].Imported)
	assert.Equal(t, "F", first.Named[1].Local)
	assert.True(t, first.Named[1].TypeOnly)
	assert.Equal(t, "type FC as F", f.Slice(first.Named[1].Span()))

	second, ok := f.Statements[1].(*tsast.ImportDecl)
	require.True(t, ok)
	assert.True(t, second.TypeOnly)
	assert.False(t, second.Semicolon)
	assert.Equal(t, byte('\''), second.Quote)
	assert.Equal(t, "./props", second.Module)

	third, ok := f.Statements[2].(*tsast.ImportDecl)
	require.True(t, ok)
	require.NotNil(t, third.Namespace)
	assert.Equal(t, "path", third.Namespace.Name)

	fourth, ok := f.Statements[3].(*tsast.ImportDecl)
	require.True(t, ok)
	assert.True(t, fourth.SideEffect)
	assert.Equal(t, "./styles.css", fourth.Module)

	_, ok = f.Statements[4].(*tsast.Declaration)
	assert.True(t, ok, "dynamic import is part of a variable declaration")
}

func TestParseExports(t *testing.T) {
	t.Parallel()

	src := `export const a = 1, b = 2;
export function foo() {}
export default function () {}
export interface Shape { size: number }
export { a as alpha, type Shape as S } from "./m";
export * from "./all";
export * as ns from "./ns";
export default value;
export type { T };
`
	f := mustParse(t, "a.ts", src)
	require.Len(t, f.Statements, 9)

	vars, ok := f.Statements[0].(*tsast.Declaration)
	require.True(t, ok)
	assert.Equal(t, tsast.DeclVariable, vars.Decl)
	assert.True(t, vars.Exported)
	assert.Equal(t, []string{"a", "b"}, vars.Names())
	assert.Equal(t, "export ", f.Slice(vars.ExportSpan))

	fn, ok := f.Statements[1].(*tsast.Declaration)
	require.True(t, ok)
	assert.Equal(t, tsast.DeclFunction, fn.Decl)
	assert.Equal(t, "foo", fn.Name)

	anon, ok := f.Statements[2].(*tsast.Declaration)
	require.True(t, ok)
	assert.True(t, anon.Default)
	assert.Empty(t, anon.Name)
	assert.Equal(t, "export default ", f.Slice(anon.ExportSpan))
	assert.Equal(t, "export default function", string(f.Content[anon.Span().Start:anon.NameInsert]))

	iface, ok := f.Statements[3].(*tsast.Declaration)
	require.True(t, ok)
	assert.True(t, iface.Decl.IsType())

	reexport, ok := f.Statements[4].(*tsast.ExportDecl)
	require.True(t, ok)
	assert.True(t, reexport.HasModule)
	assert.Equal(t, "./m", reexport.Module)
	require.Len(t, reexport.Specifiers, 2)
	assert.Equal(t, "a", reexport.Specifiers[0].Local)
	assert.Equal(t, "alpha", reexport.Specifiers[0].Exported)
	assert.True(t, reexport.Specifiers[1].TypeOnly)

	star, ok := f.Statements[5].(*tsast.ExportDecl)
	require.True(t, ok)
	assert.True(t, star.Star)

	starAs, ok := f.Statements[6].(*tsast.ExportDecl)
	require.True(t, ok)
	assert.Equal(t, "ns", starAs.StarAlias)

	assign, ok := f.Statements[7].(*tsast.ExportAssignment)
	require.True(t, ok)
	assert.Equal(t, tsast.ExprIdentifier, assign.ExprKind)
	assert.Equal(t, "value", assign.Name)

	typeExport, ok := f.Statements[8].(*tsast.ExportDecl)
	require.True(t, ok)
	assert.True(t, typeExport.TypeOnly)
}

func TestParseWithoutSemicolons(t *testing.T) {
	t.Parallel()

	src := `const a = 1
export const b = a
type Props = React.ComponentProps<typeof Foo>
export default b
`
	f := mustParse(t, "a.tsx", src)
	require.Len(t, f.Statements, 4)

	alias, ok := f.Statements[2].(*tsast.Declaration)
	require.True(t, ok)
	assert.Equal(t, tsast.DeclTypeAlias, alias.Decl)
	assert.Equal(t, "type Props = React.ComponentProps<typeof Foo>", f.Slice(alias.Span()))

	_, ok = f.Statements[3].(*tsast.ExportAssignment)
	assert.True(t, ok)
}

func TestParseExportDefaultExpressions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want tsast.ExprKind
	}{
		{"export default 42;", tsast.ExprLiteral},
		{"export default 'x';", tsast.ExprLiteral},
		{"export default () => null;", tsast.ExprArrow},
		{"export default async (a) => a;", tsast.ExprArrow},
		{"export default { a: 1 };", tsast.ExprObject},
		{"export default [1, 2];", tsast.ExprArray},
		{"export default connect(a)(B);", tsast.ExprOther},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			f := mustParse(t, "a.ts", tt.src)
			require.Len(t, f.Statements, 1)
			assign, ok := f.Statements[0].(*tsast.ExportAssignment)
			require.True(t, ok)
			assert.Equal(t, tt.want, assign.ExprKind)
			assert.True(t, assign.Semicolon)
		})
	}
}

func TestParseModuleBlocks(t *testing.T) {
	t.Parallel()

	src := `declare module "widgets" {
  export interface Widget { id: string }
  export default function (): void;
}
namespace A.B {
  export const c = 1;
}
declare module "empty";
`
	f := mustParse(t, "types.d.ts", src)
	require.Len(t, f.Statements, 3)

	widgets, ok := f.Statements[0].(*tsast.Declaration)
	require.True(t, ok)
	assert.Equal(t, tsast.DeclModule, widgets.Decl)
	assert.True(t, widgets.Declare)
	assert.True(t, widgets.ModuleString)
	assert.Equal(t, "widgets", widgets.Name)
	require.Len(t, widgets.Statements, 2)

	fn, ok := widgets.Statements[1].(*tsast.Declaration)
	require.True(t, ok)
	assert.True(t, fn.Default)
	assert.Equal(t, tsast.DeclFunction, fn.Decl)

	ns, ok := f.Statements[1].(*tsast.Declaration)
	require.True(t, ok)
	assert.Equal(t, "A.B", ns.Name)
	require.Len(t, ns.Statements, 1)

	empty, ok := f.Statements[2].(*tsast.Declaration)
	require.True(t, ok)
	assert.Empty(t, empty.Statements)
}

func TestParseEnumMembers(t *testing.T) {
	t.Parallel()

	src := `enum Animal {
  // the dog
  Dog = "dog",
  Wolf = "wolf", // trailing
  Cat = "cat",
}
enum Bare { A, B }
`
	f := mustParse(t, "a.ts", src)
	require.Len(t, f.Statements, 2)

	animal := f.Statements[0].(*tsast.Declaration)
	require.Len(t, animal.Members, 3)
	assert.Equal(t, "Dog", animal.Members[0].Name)
	assert.True(t, animal.Members[0].HasInitializer)
	assert.Equal(t, "// the dog\n  Dog = \"dog\"", f.Slice(animal.Members[0].Full))
	assert.Equal(t, `Wolf = "wolf"`, f.Slice(animal.Members[1].Full))
	assert.Equal(t, `Cat = "cat"`, f.Slice(animal.Members[2].Full))

	bare := f.Statements[1].(*tsast.Declaration)
	require.Len(t, bare.Members, 2)
	assert.False(t, bare.Members[0].HasInitializer)
}

func TestParseInterfaceMembers(t *testing.T) {
	t.Parallel()

	src := `interface Props<T extends object = {}> extends Base<T> {
  readonly zeta: string
  alpha?: number;
  /** docs */
  render(item: T): void,
  get size(): number
  [key: string]: unknown
}
`
	f := mustParse(t, "a.ts", src)
	require.Len(t, f.Statements, 1)

	props := f.Statements[0].(*tsast.Declaration)
	require.Len(t, props.Properties, 5)
	assert.Equal(t, "zeta", props.Properties[0].Name)
	assert.Equal(t, tsast.MemberProperty, props.Properties[0].Member)
	assert.Equal(t, "alpha", props.Properties[1].Name)
	assert.Equal(t, "render", props.Properties[2].Name)
	assert.Equal(t, tsast.MemberMethod, props.Properties[2].Member)
	assert.Equal(t, "/** docs */\n  render(item: T): void", f.Slice(props.Properties[2].Full))
	assert.Equal(t, "size", props.Properties[3].Name)
	assert.Equal(t, tsast.MemberIndex, props.Properties[4].Member)
	assert.False(t, props.Properties[4].Named())
}

func TestParseCalls(t *testing.T) {
	t.Parallel()

	src := `const v = React.useMemo(() => {}, [setProject, theme.colors.gray900, a?.b, fn()]);
useEffect(() => {
  run();
}, []);
`
	f := mustParse(t, "a.ts", src)

	var memo, effect *tsast.CallExpr
	for _, call := range f.Calls {
		switch call.Name {
		case "useMemo":
			memo = call
		case "useEffect":
			effect = call
		}
	}
	require.NotNil(t, memo)
	assert.Equal(t, "React.useMemo", memo.Callee)
	require.NotNil(t, memo.LastArray)
	require.Len(t, memo.LastArray.Elements, 4)
	assert.Equal(t, "setProject", memo.LastArray.Elements[0].Key)
	assert.Equal(t, "theme.colors.gray900", memo.LastArray.Elements[1].Key)
	assert.True(t, memo.LastArray.Elements[1].Simple)
	assert.True(t, memo.LastArray.Elements[2].Simple)
	assert.False(t, memo.LastArray.Elements[3].Simple)

	require.NotNil(t, effect)
	require.NotNil(t, effect.LastArray)
	assert.Empty(t, effect.LastArray.Elements)
}

func TestParseJSX(t *testing.T) {
	t.Parallel()

	src := "const el = (\n" +
		"  <Button\n" +
		"    // primary action\n" +
		"    onClick={handle}\n" +
		"    {...rest}\n" +
		"    disabled\n" +
		"    aria-label=\"x\"\n" +
		"  >\n" +
		"    Save {count > 1 ? <Icon b a /> : null}\n" +
		"  </Button>\n" +
		");\n" +
		"const id = <T,>(x: T) => x;\n" +
		"const re = /[}]/g;\n"

	f := mustParse(t, "a.tsx", src)
	require.Len(t, f.Statements, 3)
	require.Len(t, f.JSXElements, 2)

	button := f.JSXElements[0]
	assert.Equal(t, "Button", button.Name)
	assert.False(t, button.Unsortable)
	require.Len(t, button.Attributes, 4)
	assert.Equal(t, "onClick", button.Attributes[0].Name)
	assert.Equal(t, "// primary action\n    onClick={handle}", f.Slice(button.Attributes[0].Full))
	assert.True(t, button.Attributes[1].Spread)
	assert.Equal(t, "disabled", button.Attributes[2].Name)
	assert.Equal(t, "aria-label", button.Attributes[3].Name)

	icon := f.JSXElements[1]
	assert.Equal(t, "Icon", icon.Name)
	assert.Equal(t, "<Icon b a />", f.Slice(icon.Span()))
}

func TestParseTemplates(t *testing.T) {
	t.Parallel()

	src := "const s = `a ${ { b: `c ${d}` }.b } e`;\nexport const x = 1;\n"
	f := mustParse(t, "a.ts", src)
	require.Len(t, f.Statements, 2)

	decl := f.Statements[1].(*tsast.Declaration)
	assert.True(t, decl.Exported)
}

func TestParseSyntaxError(t *testing.T) {
	t.Parallel()

	tests := []string{
		"function f() {",
		"const a = (1;",
		"const s = 'open",
		"/* never closed",
		"const t = `${a`",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			t.Parallel()

			_, err := tsast.Parse("bad.ts", []byte(src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tsast.ErrParse))

			var sErr *tsast.SyntaxError
			require.True(t, errors.As(err, &sErr))
			assert.Equal(t, "bad.ts", sErr.Path)
			assert.Equal(t, 1, sErr.Line)
		})
	}
}

func TestStaleHandles(t *testing.T) {
	t.Parallel()

	f := mustParse(t, "a.ts", "export const a = 1;\n")
	decl := f.Statements[0].(*tsast.Declaration)
	handle := tsast.HandleOf(decl)

	resolved, err := f.Resolve(handle)
	require.NoError(t, err)
	assert.Same(t, decl, resolved)
	require.NoError(t, f.Check(decl))

	next, err := f.Apply([]fix.TextEdit{{StartOffset: decl.ExportSpan.Start, EndOffset: decl.ExportSpan.End}})
	require.NoError(t, err)
	assert.Equal(t, "const a = 1;\n", string(next.Content))
	assert.Greater(t, next.Generation(), f.Generation())

	_, err = next.Text(decl)
	assert.True(t, errors.Is(err, tsast.ErrStaleHandle))
	_, err = next.Resolve(handle)
	assert.True(t, errors.Is(err, tsast.ErrStaleHandle))

	_, err = f.Apply([]fix.TextEdit{{StartOffset: 0, EndOffset: 5}, {StartOffset: 3, EndOffset: 8}})
	assert.Error(t, err)
}

func TestLineSpanAndPosition(t *testing.T) {
	t.Parallel()

	src := "const a = 1;\n  export { a };\nfoo(); export { b };\n"
	f := mustParse(t, "a.ts", src)
	require.Len(t, f.Statements, 4)

	whole := f.LineSpan(f.Statements[1].Span())
	assert.Equal(t, "  export { a };\n", f.Slice(whole))

	shared := f.LineSpan(f.Statements[3].Span())
	assert.Equal(t, "export { b };", f.Slice(shared))

	line, col := f.Position(f.Statements[1].Span().Start)
	assert.Equal(t, 2, line)
	assert.Equal(t, 3, col)
	assert.Equal(t, "  ", f.Indent(f.Statements[1].Span().Start))
	assert.Equal(t, "\n", f.Newline())
}

func TestSpecifierComments(t *testing.T) {
	t.Parallel()

	src := "import {\n  // layout\n  Box,\n  Heading, // head\n  Text,\n} from 'ui';\n"
	f := mustParse(t, "a.ts", src)
	imp, ok := f.Statements[0].(*tsast.ImportDecl)
	require.True(t, ok)
	require.Len(t, imp.Named, 3)

	assert.Equal(t, "// layout\n  Box", f.Slice(imp.Named[0].Full))
	assert.Equal(t, "Heading", f.Slice(imp.Named[1].Full))
	assert.Equal(t, "Text", f.Slice(imp.Named[2].Full), "a trailing comment is not leading")

	c, ok := f.TrailingComment(imp.Named[1].Span().End)
	require.True(t, ok)
	assert.Equal(t, "// head", f.Slice(c.Span))

	_, ok = f.TrailingComment(imp.Named[0].Span().End)
	assert.False(t, ok)

	inline := mustParse(t, "b.ts", "enum E { A = 1, /* one */ B = 2 }\n")
	decl, ok := inline.Statements[0].(*tsast.Declaration)
	require.True(t, ok)
	_, ok = inline.TrailingComment(decl.Members[0].Span().End)
	assert.False(t, ok, "a comment followed by code does not end the line")
}

func TestMatchBrackets(t *testing.T) {
	t.Parallel()

	f := mustParse(t, "a.ts", "f({ a: [1] });\n")
	toks := f.Tokens()
	require.Len(t, toks, 12)

	assert.Equal(t, 9, f.Match(1))
	assert.Equal(t, 1, f.Match(9))
	assert.Equal(t, 8, f.Match(2))
	assert.Equal(t, 7, f.Match(5))
	assert.Equal(t, -1, f.Match(0))
	assert.Equal(t, -1, f.Match(len(toks)))
}

func TestLanguageFromPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, tsast.LangTSX, tsast.LanguageFromPath("a/b.tsx"))
	assert.Equal(t, tsast.LangTypeScript, tsast.LanguageFromPath("a/b.mts"))
	assert.Equal(t, tsast.LangJavaScript, tsast.LanguageFromPath("a/b.cjs"))
	assert.True(t, tsast.LangJavaScript.JSX())
	assert.False(t, tsast.LangTypeScript.JSX())
}
