package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/collation/pkg/config"
	"github.com/yaklabco/collation/pkg/lint"
)

const paste = "@twilio-paste/core"

func pasteRules(rules ...config.ImportRule) config.ImportRules {
	return config.ImportRules{paste: rules}
}

func TestImportRulesRule(t *testing.T) {
	boxRule := config.ImportRule{
		ImportName:                 config.StringList{"Box"},
		ReplacementModuleSpecifier: "@twilio-paste/core/box",
	}
	wildcard := config.ImportRule{
		ImportName:                 config.StringList{"*"},
		ReplacementModuleSpecifier: "@twilio-paste/core/{importName}",
		TransformImportName:        "kebabCase",
	}

	tests := []struct {
		name    string
		rules   config.ImportRules
		src     string
		want    string
		message string
	}{
		{
			name:    "matched name moves, the rest stays",
			rules:   pasteRules(boxRule),
			src:     "import { Box, Heading } from '@twilio-paste/core';\n",
			want:    "import { Box } from '@twilio-paste/core/box';\nimport { Heading } from '@twilio-paste/core';\n",
			message: `Import "Box" from "@twilio-paste/core/box" instead of "@twilio-paste/core"`,
		},
		{
			name:    "wildcard with case transform",
			rules:   pasteRules(wildcard),
			src:     "import { ModalDialog, Box } from \"@twilio-paste/core\";\n",
			want:    "import { ModalDialog } from \"@twilio-paste/core/modal-dialog\";\nimport { Box } from \"@twilio-paste/core/box\";\n",
			message: `Import "ModalDialog" from "@twilio-paste/core/modal-dialog" and "Box" from "@twilio-paste/core/box" instead of "@twilio-paste/core"`,
		},
		{
			name:    "exact entry wins over wildcard",
			rules:   pasteRules(wildcard, boxRule, config.ImportRule{ImportName: config.StringList{"Text"}, ReplacementModuleSpecifier: "@twilio-paste/core/typography"}),
			src:     "import { Text } from \"@twilio-paste/core\";\n",
			want:    "import { Text } from \"@twilio-paste/core/typography\";\n",
			message: `Import "Text" from "@twilio-paste/core/typography" instead of "@twilio-paste/core"`,
		},
		{
			name:  "props companion follows its component",
			rules: pasteRules(boxRule),
			src:   "import type { BoxProps } from \"@twilio-paste/core\";\n",
			want:  "import type { BoxProps } from \"@twilio-paste/core/box\";\n",
			message: `Import "BoxProps" from "@twilio-paste/core/box" instead of "@twilio-paste/core"`,
		},
		{
			name:    "aliases are kept",
			rules:   pasteRules(boxRule),
			src:     "import { Box as PasteBox } from \"@twilio-paste/core\";\n",
			want:    "import { Box as PasteBox } from \"@twilio-paste/core/box\";\n",
			message: `Import "Box" from "@twilio-paste/core/box" instead of "@twilio-paste/core"`,
		},
		{
			name:    "default binding stays behind",
			rules:   pasteRules(boxRule),
			src:     "import Core, { Box } from \"@twilio-paste/core\";\n",
			want:    "import { Box } from \"@twilio-paste/core/box\";\nimport Core from \"@twilio-paste/core\";\n",
			message: `Import "Box" from "@twilio-paste/core/box" instead of "@twilio-paste/core"`,
		},
		{
			name:    "multi-line clause",
			rules:   pasteRules(boxRule),
			src:     "import {\n  Box,\n  Heading,\n} from '@twilio-paste/core';\n",
			want:    "import {\n  Box,\n} from '@twilio-paste/core/box';\nimport {\n  Heading,\n} from '@twilio-paste/core';\n",
			message: `Import "Box" from "@twilio-paste/core/box" instead of "@twilio-paste/core"`,
		},
		{
			name:  "comment above a moved name moves with it",
			rules: pasteRules(boxRule),
			src:   "import {\n  // layout\n  Box,\n  Heading, // head\n} from '@twilio-paste/core';\n",
			want: "// layout\nimport {\n  Box,\n} from '@twilio-paste/core/box';\n" +
				"import {\n  Heading, // head\n} from '@twilio-paste/core';\n",
			message: `Import "Box" from "@twilio-paste/core/box" instead of "@twilio-paste/core"`,
		},
		{
			name:  "comment above a moved last name",
			rules: pasteRules(boxRule),
			src:   "import {\n  Heading,\n  // layout\n  Box,\n} from '@twilio-paste/core';\n",
			want: "// layout\nimport {\n  Box,\n} from '@twilio-paste/core/box';\n" +
				"import {\n  Heading,\n} from '@twilio-paste/core';\n",
			message: `Import "Box" from "@twilio-paste/core/box" instead of "@twilio-paste/core"`,
		},
		{
			name:    "re-export",
			rules:   pasteRules(wildcard),
			src:     "export { Box, Text as Label } from \"@twilio-paste/core\";\n",
			want:    "export { Box } from \"@twilio-paste/core/box\";\nexport { Text as Label } from \"@twilio-paste/core/text\";\n",
			message: `Re-export "Box" from "@twilio-paste/core/box" and "Text" from "@twilio-paste/core/text" instead of "@twilio-paste/core"`,
		},
		{
			name: "default import with props companion",
			rules: config.ImportRules{"./components": {{
				ImportName:                 config.StringList{"*"},
				ReplacementModuleSpecifier: "./components/{importName}",
				ReplaceAsDefault:           true,
			}}},
			src:     "import { Button, ButtonProps } from \"./components\";\n",
			want:    "import Button from \"./components/Button\";\nimport { ButtonProps } from \"./components/Button\";\n",
			message: `Import "Button" and "ButtonProps" from "./components/Button" instead of "./components"`,
		},
		{
			name:  "unmatched names are untouched",
			rules: pasteRules(boxRule),
			src:   "import { Heading } from \"@twilio-paste/core\";\n",
			want:  "import { Heading } from \"@twilio-paste/core\";\n",
		},
		{
			name: "props companion opt-out",
			rules: pasteRules(config.ImportRule{
				ImportName:                 config.StringList{"Box"},
				ReplacementModuleSpecifier: "@twilio-paste/core/box",
				ImportPropsFromSameModule:  boolPtr(false),
			}),
			src:  "import { BoxProps } from \"@twilio-paste/core\";\n",
			want: "import { BoxProps } from \"@twilio-paste/core\";\n",
		},
		{
			name: "destination equal to the source is not a move",
			rules: pasteRules(config.ImportRule{
				ImportName:                 config.StringList{"*"},
				ReplacementModuleSpecifier: paste,
			}),
			src:  "import { Box } from \"@twilio-paste/core\";\n",
			want: "import { Box } from \"@twilio-paste/core\";\n",
		},
		{
			name: "name pinned to its source is not claimed by the wildcard",
			rules: pasteRules(wildcard, config.ImportRule{
				ImportName:                 config.StringList{"Theme"},
				ReplacementModuleSpecifier: paste,
			}),
			src:     "import { Theme, Box } from \"@twilio-paste/core\";\n",
			want:    "import { Box } from \"@twilio-paste/core/box\";\nimport { Theme } from \"@twilio-paste/core\";\n",
			message: `Import "Box" from "@twilio-paste/core/box" instead of "@twilio-paste/core"`,
		},
		{
			name:  "module without rules",
			rules: pasteRules(boxRule),
			src:   "import { Box } from \"other\";\n",
			want:  "import { Box } from \"other\";\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fixture{path: "app.tsx", env: lint.Env{Imports: compileImports(t, tt.rules)}}
			result, out := f.fix(t, NewImportRulesRule(), tt.src)
			assert.Equal(t, tt.want, out)

			if tt.message == "" {
				assert.Empty(t, result.Diagnostics)
				return
			}
			require.Len(t, result.Diagnostics, 1)
			assert.Equal(t, tt.message, result.Diagnostics[0].Message)
			assert.Equal(t, 1, result.Diagnostics[0].StartLine)
		})
	}
}

func TestImportRulesRule_NoRules(t *testing.T) {
	src := "import { Box } from \"@twilio-paste/core\";\n"
	result, out := fixture{}.run(t, NewImportRulesRule(), src)
	assert.Equal(t, src, out)
	assert.Empty(t, result.Diagnostics)
}
