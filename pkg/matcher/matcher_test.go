package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/collation/pkg/config"
	"github.com/yaklabco/collation/pkg/matcher"
)

const paste = "@twilio-paste/core"

func compile(t *testing.T, rules config.ImportRules) *matcher.Set {
	t.Helper()
	set, err := matcher.Compile(rules)
	require.NoError(t, err)
	return set
}

func TestMatchExactBeforeWildcard(t *testing.T) {
	t.Parallel()

	// The wildcard is declared first; the exact entry still wins.
	set := compile(t, config.ImportRules{
		paste: {
			{ImportName: config.StringList{"*"}, ReplacementModuleSpecifier: paste + "/{importName}", TransformImportName: "kebabCase"},
			{ImportName: config.StringList{"Option"}, ReplacementModuleSpecifier: paste + "/select"},
		},
	})

	got, ok := set.Match(paste, "Option")
	require.True(t, ok)
	assert.Equal(t, paste+"/select", got.Destination)
	assert.Equal(t, matcher.KindExact, got.Entry.Kind)
	assert.Equal(t, 1, got.Entry.RuleIndex)

	got, ok = set.Match(paste, "ModalDialog")
	require.True(t, ok)
	assert.Equal(t, paste+"/modal-dialog", got.Destination)
	assert.Equal(t, matcher.KindWildcard, got.Entry.Kind)
}

func TestMatchGlobBeforeWildcard(t *testing.T) {
	t.Parallel()

	set := compile(t, config.ImportRules{
		paste: {
			{ImportName: config.StringList{"*"}, ReplacementModuleSpecifier: paste + "/{importName}"},
			{ImportName: config.StringList{"Modal*"}, ReplacementModuleSpecifier: paste + "/modal"},
		},
	})

	got, ok := set.Match(paste, "ModalHeader")
	require.True(t, ok)
	assert.Equal(t, paste+"/modal", got.Destination)
	assert.Equal(t, matcher.KindGlob, got.Entry.Kind)

	entries := set.Entries(paste)
	require.Len(t, entries, 2)
	assert.Equal(t, matcher.KindGlob, entries[0].Kind)
	assert.Equal(t, matcher.KindWildcard, entries[1].Kind)
}

func TestMatchPropsCompanion(t *testing.T) {
	t.Parallel()

	off := false
	set := compile(t, config.ImportRules{
		paste: {
			{ImportName: config.StringList{"Box"}, ReplacementModuleSpecifier: paste + "/box"},
		},
		"ui": {
			{ImportName: config.StringList{"*"}, ReplacementModuleSpecifier: "ui/{importName}", TransformImportName: "kebabCase"},
		},
		"strict": {
			{ImportName: config.StringList{"Box"}, ReplacementModuleSpecifier: "strict/box", ImportPropsFromSameModule: &off},
		},
	})

	got, ok := set.Match(paste, "BoxProps")
	require.True(t, ok)
	assert.Equal(t, paste+"/box", got.Destination)
	assert.Equal(t, "Box", got.Name)

	got, ok = set.Match("ui", "ButtonProps")
	require.True(t, ok)
	assert.Equal(t, "ui/button", got.Destination)

	_, ok = set.Match("strict", "BoxProps")
	assert.False(t, ok)
}

func TestMatchNoMatch(t *testing.T) {
	t.Parallel()

	set := compile(t, config.ImportRules{
		paste: {{ImportName: config.StringList{"Box"}, ReplacementModuleSpecifier: paste + "/box"}},
		"self": {{ImportName: config.StringList{"*"}, ReplacementModuleSpecifier: "self"}},
	})

	_, ok := set.Match(paste, "Heading")
	assert.False(t, ok)

	_, ok = set.Match("other", "Box")
	assert.False(t, ok)

	_, ok = set.Match("self", "Anything")
	assert.False(t, ok, "a destination equal to the source is not a match")

	var nilSet *matcher.Set
	_, ok = nilSet.Match(paste, "Box")
	assert.False(t, ok)
}

func TestMatchPinnedToSource(t *testing.T) {
	t.Parallel()

	set := compile(t, config.ImportRules{
		paste: {
			{ImportName: config.StringList{"*"}, ReplacementModuleSpecifier: paste + "/{importName}", TransformImportName: "kebabCase"},
			{ImportName: config.StringList{"Theme"}, ReplacementModuleSpecifier: paste},
		},
	})

	_, ok := set.Match(paste, "Theme")
	assert.False(t, ok, "the exact entry keeps the name; the wildcard never sees it")

	res, ok := set.Entries(paste)[0].Resolve(paste, "Theme")
	require.True(t, ok)
	assert.False(t, res.Moves())
	assert.Equal(t, paste, res.Source)

	got, ok := set.Match(paste, "Box")
	require.True(t, ok)
	assert.True(t, got.Moves())
	assert.Equal(t, paste+"/box", got.Destination)
}

func TestMatchDefaultStyle(t *testing.T) {
	t.Parallel()

	set := compile(t, config.ImportRules{
		"lodash": {{ImportName: config.StringList{"*"}, ReplacementModuleSpecifier: "lodash/{importName}", ReplaceAsDefault: true}},
		"./lib":  {{ImportName: config.StringList{"*"}, ReplacementModuleSpecifier: "../", ReplaceAsDefault: true}},
	})

	got, ok := set.Match("lodash", "debounce")
	require.True(t, ok)
	assert.True(t, got.Default)
	assert.Equal(t, "lodash/debounce", got.Destination)

	got, ok = set.Match("./lib", "thing")
	require.True(t, ok)
	assert.False(t, got.Default, "index-like destinations are never default-style")
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]config.ImportRules{
		"unknown transform": {"m": {{ImportName: config.StringList{"A"}, ReplacementModuleSpecifier: "x", TransformImportName: "kebab"}}},
		"bad glob":          {"m": {{ImportName: config.StringList{"A[b"}, ReplacementModuleSpecifier: "x"}}},
		"no destination":    {"m": {{ImportName: config.StringList{"A"}}}},
	}

	for name, rules := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := matcher.Compile(rules)
			assert.Error(t, err)
		})
	}
}

func TestIndexLike(t *testing.T) {
	t.Parallel()

	for _, m := range []string{".", "..", "../", "./components/", "./lib/index", "index"} {
		assert.True(t, matcher.IndexLike(m), m)
	}
	for _, m := range []string{"lodash/debounce", "./button", "@scope/pkg"} {
		assert.False(t, matcher.IndexLike(m), m)
	}
}
