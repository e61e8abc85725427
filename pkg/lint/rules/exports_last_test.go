package rules

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/collation/pkg/lint"
)

func TestExportsLastRule(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		src   string
		want  string
		diags []string
	}{
		{
			name: "inline exports move to the end",
			src:  "export const a = 1;\nexport function f() {}\nconst b = 2;\n",
			want: "const a = 1;\nfunction f() {}\nconst b = 2;\nexport { a, f };\n",
			diags: []string{
				`Export of "a" should move to the export statement at the end of the file`,
				`Export of "f" should move to the export statement at the end of the file`,
			},
		},
		{
			name: "export statements are merged",
			src:  "export { a };\nconst x = 1;\nexport { b };\n",
			want: "const x = 1;\nexport { a, b };\n",
			diags: []string{
				"2 export statements should be merged into one",
				"Export statement should be at the end of the file",
			},
		},
		{
			name: "default export expression gets a name",
			path: "is-empty.ts",
			src:  "export default () => true;\n",
			want: "const isEmpty = () => true;\nexport default isEmpty;\n",
			diags: []string{
				`Default export expression should be assigned to "isEmpty" and exported at the end of the file`,
			},
		},
		{
			name: "anonymous default function",
			path: "use-toast.ts",
			src:  "export default function () {}\n",
			want: "function useToast() {}\nexport default useToast;\n",
			diags: []string{
				`Default export "useToast" should be declared separately and exported at the end of the file`,
			},
		},
		{
			name: "anonymous default class",
			path: "modal-dialog.tsx",
			src:  "export default class {}\n",
			want: "class ModalDialog {}\nexport default ModalDialog;\n",
			diags: []string{
				`Default export "ModalDialog" should be declared separately and exported at the end of the file`,
			},
		},
		{
			name: "default goes after named exports",
			path: "f.ts",
			src:  "export default function f() {}\nexport const a = 1;\n",
			want: "function f() {}\nconst a = 1;\nexport { a };\nexport default f;\n",
			diags: []string{
				`Default export "f" should be declared separately and exported at the end of the file`,
				`Export of "a" should move to the export statement at the end of the file`,
			},
		},
		{
			name: "re-exports from one module are merged in place",
			src:  "export { a } from \"./a\";\nexport { b } from \"./a\";\n",
			want: "export { a, b } from \"./a\";\n",
			diags: []string{
				`2 re-export statements from "./a" should be merged into one`,
			},
		},
		{
			name: "ambient module block",
			src:  "declare module \"x\" {\n  export const a: number;\n  const b: string;\n}\n",
			want: "declare module \"x\" {\n  const a: number;\n  const b: string;\n  export { a };\n}\n",
			diags: []string{
				`Export of "a" should move to the export statement at the end of the module`,
			},
		},
		{
			name: "unresolvable default is left alone",
			src:  "export default foo;\n",
			want: "export default foo;\n",
		},
		{
			name: "settled",
			src:  "const a = 1;\nexport { a };\nexport default a;\n",
			want: "const a = 1;\nexport { a };\nexport default a;\n",
		},
		{
			name: "overloads export once",
			src:  "export function f(a: string): void;\nexport function f(a: any) {}\n",
			want: "function f(a: string): void;\nfunction f(a: any) {}\nexport { f };\n",
			diags: []string{
				`Export of "f" should move to the export statement at the end of the file`,
				`Export of "f" should move to the export statement at the end of the file`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, out := fixture{path: tt.path}.fix(t, NewExportsLastRule(), tt.src)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, tt.diags, messages(result.Diagnostics))
		})
	}
}

func TestExportsLastRule_TypeExports(t *testing.T) {
	src := "export interface P {}\nexport const a = 1;\n"

	tests := []struct {
		name     string
		settings lint.Settings
		options  map[string]any
		want     string
	}{
		{
			name: "combined by default",
			want: "interface P {}\nconst a = 1;\nexport { a, P };\n",
		},
		{
			name:     "isolated modules from tsconfig",
			settings: lint.Settings{IsolatedModules: true},
			want:     "interface P {}\nconst a = 1;\nexport { a };\nexport type { P };\n",
		},
		{
			name:    "isolated modules from the rule option",
			options: map[string]any{"isolated_modules": true},
			want:    "interface P {}\nconst a = 1;\nexport { a };\nexport type { P };\n",
		},
		{
			name:     "compiler without export type",
			settings: lint.Settings{IsolatedModules: true, TypeScriptVersion: semver.MustParse("3.7.5")},
			want:     "interface P {}\nconst a = 1;\nexport { a, P };\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fixture{options: tt.options, env: lint.Env{Settings: tt.settings}}
			result, out := f.fix(t, NewExportsLastRule(), src)
			assert.Equal(t, tt.want, out)
			assert.Len(t, result.Diagnostics, 2)
		})
	}
}

func TestExportsLastRule_Commits(t *testing.T) {
	result, out := fixture{}.run(t, NewExportsLastRule(), "export { a };\nexport const b = 1;\nexport { c };\n")
	assert.Equal(t, "const b = 1;\nexport { a, c, b };\n", out)
	require.Equal(t, 1, result.Passes)
}
