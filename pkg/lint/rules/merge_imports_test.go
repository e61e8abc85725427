package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeImportsRule(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  string
		diags int
	}{
		{
			name:  "duplicates merge into the first import",
			src:   "import { a } from \"m\";\nimport { b, a } from \"m\";\nimport type { T } from \"m\";\n",
			want:  "import { a, b } from \"m\";\nimport type { T } from \"m\";\n",
			diags: 1,
		},
		{
			name:  "three statements",
			src:   "import { c } from './m';\nconst x = 1;\nimport { b } from './m';\nimport { a } from './m';\n",
			want:  "import { c, b, a } from './m';\nconst x = 1;\n",
			diags: 2,
		},
		{
			name:  "default binding on the first import",
			src:   "import D, { a } from \"m\";\nimport { b } from \"m\";\n",
			want:  "import D, { a, b } from \"m\";\n",
			diags: 1,
		},
		{
			name: "default binding on a later import",
			src:  "import { a } from \"m\";\nimport D, { b } from \"m\";\n",
			want: "import { a } from \"m\";\nimport D, { b } from \"m\";\n",
		},
		{
			name: "type-only imports are kept apart",
			src:  "import type { A } from \"m\";\nimport { b } from \"m\";\n",
			want: "import type { A } from \"m\";\nimport { b } from \"m\";\n",
		},
		{
			name: "namespace and side-effect imports",
			src:  "import * as m from \"m\";\nimport \"m\";\nimport { a } from \"m\";\n",
			want: "import * as m from \"m\";\nimport \"m\";\nimport { a } from \"m\";\n",
		},
		{
			name:  "ambient module block",
			src:   "declare module \"x\" {\n  import { a } from \"m\";\n  import { b } from \"m\";\n}\n",
			want:  "declare module \"x\" {\n  import { a, b } from \"m\";\n}\n",
			diags: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, out := fixture{}.fix(t, NewMergeImportsRule(), tt.src)
			assert.Equal(t, tt.want, out)
			assert.Len(t, result.Diagnostics, tt.diags)
		})
	}
}

func TestMergeImportsRule_Message(t *testing.T) {
	result, _ := fixture{}.run(t, NewMergeImportsRule(), "import { a } from \"m\";\n\nimport { b } from \"m\";\n")
	require.Len(t, result.Diagnostics, 1)

	d := result.Diagnostics[0]
	assert.Equal(t, `"m" is imported more than once`, d.Message)
	assert.Equal(t, "Merge into the import on line 1", d.Suggestion)
	assert.Equal(t, 3, d.StartLine)
}
