package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/collation/pkg/lint"
	"github.com/yaklabco/collation/pkg/tsast"
)

func TestDefaultExportNameRule(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		src     string
		want    string
		message string
	}{
		{
			name:    "function named after the file",
			path:    "src/is-empty.ts",
			src:     "export default function foo() {}\n",
			want:    "export default function isEmpty() {}\n",
			message: `Default export "foo" should be named "isEmpty" after its file`,
		},
		{
			name:    "references are renamed, properties are not",
			path:    "is-empty.ts",
			src:     "function foo() {}\nfoo();\nobj.foo = 1;\nexport default foo;\n",
			want:    "function isEmpty() {}\nisEmpty();\nobj.foo = 1;\nexport default isEmpty;\n",
			message: `Default export "foo" should be named "isEmpty" after its file`,
		},
		{
			name:    "object keys are not renamed",
			path:    "is-empty.ts",
			src:     "function foo() {}\nconst obj = { foo: 1, bar: foo };\nobj.foo;\nexport default foo;\n",
			want:    "function isEmpty() {}\nconst obj = { foo: 1, bar: isEmpty };\nobj.foo;\nexport default isEmpty;\n",
			message: `Default export "foo" should be named "isEmpty" after its file`,
		},
		{
			name:    "shorthand property keeps its key",
			path:    "is-empty.ts",
			src:     "function foo() {}\nconst o = { foo };\nexport default foo;\n",
			want:    "function isEmpty() {}\nconst o = { foo: isEmpty };\nexport default isEmpty;\n",
			message: `Default export "foo" should be named "isEmpty" after its file`,
		},
		{
			name:    "interface property",
			path:    "is-empty.ts",
			src:     "interface Opts { foo: string }\nexport default function foo(opts: Opts) { return opts.foo; }\n",
			want:    "interface Opts { foo: string }\nexport default function isEmpty(opts: Opts) { return opts.foo; }\n",
			message: `Default export "foo" should be named "isEmpty" after its file`,
		},
		{
			name:    "class method",
			path:    "is-empty.ts",
			src:     "class K {\n  foo() {}\n  static foo = 1;\n}\nexport default function foo() { return new K().foo(); }\n",
			want:    "class K {\n  foo() {}\n  static foo = 1;\n}\nexport default function isEmpty() { return new K().foo(); }\n",
			message: `Default export "foo" should be named "isEmpty" after its file`,
		},
		{
			name:    "imported name of another module",
			path:    "is-empty.ts",
			src:     "import { foo as q } from 'lib';\nexport { foo as bar } from './bar';\nexport default function foo() { return q; }\n",
			want:    "import { foo as q } from 'lib';\nexport { foo as bar } from './bar';\nexport default function isEmpty() { return q; }\n",
			message: `Default export "foo" should be named "isEmpty" after its file`,
		},
		{
			name: "members, keys and imported names together",
			path: "is-empty.ts",
			src: "import { foo as q } from 'lib';\ninterface Opts { foo: string }\nclass K { foo() {} }\n" +
				"const o = { foo };\nexport default function foo() {}\n",
			want: "import { foo as q } from 'lib';\ninterface Opts { foo: string }\nclass K { foo() {} }\n" +
				"const o = { foo: isEmpty };\nexport default function isEmpty() {}\n",
			message: `Default export "foo" should be named "isEmpty" after its file`,
		},
		{
			name:    "template and JSX expressions are references",
			path:    "modal-dialog.tsx",
			src:     "export default class Foo {}\nconst el = <Foo render={Foo} label={`${Foo.name}`}>{Foo}</Foo>;\n",
			want:    "export default class ModalDialog {}\nconst el = <ModalDialog render={ModalDialog} label={`${ModalDialog.name}`}>{ModalDialog}</ModalDialog>;\n",
			message: `Default export "Foo" should be named "ModalDialog" after its file`,
		},
		{
			name: "shadowing parameter",
			path: "is-empty.ts",
			src:  "export default function foo() {}\nfunction g(foo: number) { return foo; }\n",
			want: "export default function foo() {}\nfunction g(foo: number) { return foo; }\n",
		},
		{
			name: "shadowing destructured parameter",
			path: "is-empty.ts",
			src:  "export default function foo() {}\nconst g = ({ foo }) => foo;\n",
			want: "export default function foo() {}\nconst g = ({ foo }) => foo;\n",
		},
		{
			name: "shadowing local",
			path: "is-empty.ts",
			src:  "export default function foo() {}\nfunction g() { const foo = 1; return foo; }\n",
			want: "export default function foo() {}\nfunction g() { const foo = 1; return foo; }\n",
		},
		{
			name:    "class and JSX tags",
			path:    "modal-dialog.tsx",
			src:     "export default class Dialog {}\nconst el = <Dialog title=\"x\" />;\n",
			want:    "export default class ModalDialog {}\nconst el = <ModalDialog title=\"x\" />;\n",
			message: `Default export "Dialog" should be named "ModalDialog" after its file`,
		},
		{
			name:    "index file uses its directory",
			path:    "src/use-toast/index.ts",
			src:     "function hook() {}\nexport { hook as default };\n",
			want:    "function useToast() {}\nexport { useToast as default };\n",
			message: `Default export "hook" should be named "useToast" after its file`,
		},
		{
			name: "collision",
			path: "is-empty.ts",
			src:  "const isEmpty = 1;\nexport default function foo() {}\n",
			want: "const isEmpty = 1;\nexport default function foo() {}\n",
		},
		{
			name: "also a named export",
			path: "is-empty.ts",
			src:  "export function foo() {}\nexport { foo as default };\n",
			want: "export function foo() {}\nexport { foo as default };\n",
		},
		{
			name: "already named",
			path: "is-empty.ts",
			src:  "export default function isEmpty() {}\n",
			want: "export default function isEmpty() {}\n",
		},
		{
			name: "variables are not renamed",
			path: "is-empty.ts",
			src:  "const foo = () => true;\nexport default foo;\n",
			want: "const foo = () => true;\nexport default foo;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, out := fixture{path: tt.path}.fix(t, NewDefaultExportNameRule(), tt.src)
			assert.Equal(t, tt.want, out)
			if tt.message == "" {
				assert.Empty(t, result.Diagnostics)
				return
			}
			require.Len(t, result.Diagnostics, 1)
			assert.Equal(t, tt.message, result.Diagnostics[0].Message)
		})
	}
}

func TestExportRulesInSequence(t *testing.T) {
	file, err := tsast.Parse("is-empty.ts", []byte("export default function foo() {}\nexport const limit = 3;\n"))
	require.NoError(t, err)

	registry := lint.NewRegistry()
	RegisterAll(registry)
	var rules []lint.ResolvedRule
	for _, id := range []string{"CL003", "CL004"} {
		rule, ok := registry.GetByID(id)
		require.True(t, ok)
		rules = append(rules, lint.ResolvedRule{Rule: rule, Enabled: true, Severity: rule.DefaultSeverity()})
	}

	results, final, err := lint.NewEngine(registry).ApplyRules(context.Background(), rules, file, lint.Env{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t,
		"function isEmpty() {}\nconst limit = 3;\nexport { limit };\nexport default isEmpty;\n",
		string(final.Content))
	assert.Len(t, results[0].Diagnostics, 2)
	assert.Len(t, results[1].Diagnostics, 1)
}
