package lint_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/collation/pkg/config"
	"github.com/yaklabco/collation/pkg/lint"
	"github.com/yaklabco/collation/pkg/tsast"
)

func parseFile(t *testing.T, path, src string) *tsast.File {
	t.Helper()

	file, err := tsast.Parse(path, []byte(src))
	require.NoError(t, err)
	return file
}

func TestNewRuleContext(t *testing.T) {
	t.Parallel()

	file := parseFile(t, "a.ts", "const a = 1;\n")
	cfg := config.NewConfig()
	ruleCfg := &config.RuleConfig{Options: map[string]any{"key": "value"}}

	rc := lint.NewRuleContext(context.Background(), file, cfg, ruleCfg)

	assert.Same(t, file, rc.File)
	assert.Same(t, cfg, rc.Config)
	assert.Same(t, ruleCfg, rc.RuleConfig)
	require.NotNil(t, rc.Builder)
	assert.Zero(t, rc.Builder.Len())
	assert.NotNil(t, rc.Logger())
}

func TestRuleContext_Cancelled(t *testing.T) {
	t.Parallel()

	file := parseFile(t, "a.ts", "")
	ctx, cancel := context.WithCancel(context.Background())
	rc := lint.NewRuleContext(ctx, file, nil, nil)

	assert.False(t, rc.Cancelled())
	cancel()
	assert.True(t, rc.Cancelled())
}

func TestRuleContext_Options(t *testing.T) {
	t.Parallel()

	rc := lint.NewRuleContext(context.Background(), nil, nil, &config.RuleConfig{
		Options: map[string]any{
			"count":    4,
			"ratio":    2.0,
			"name":     "value",
			"flag":     true,
			"hooks":    []any{"useQuery", 3, "useMutation"},
			"plain":    []string{"a"},
			"mismatch": "not-a-number",
		},
	})

	assert.Equal(t, 4, rc.OptionInt("count", 0))
	assert.Equal(t, 2, rc.OptionInt("ratio", 0))
	assert.Equal(t, 7, rc.OptionInt("mismatch", 7))
	assert.Equal(t, 9, rc.OptionInt("missing", 9))

	assert.Equal(t, "value", rc.OptionString("name", ""))
	assert.Equal(t, "fallback", rc.OptionString("count", "fallback"))

	assert.True(t, rc.OptionBool("flag", false))
	assert.True(t, rc.OptionBool("missing", true))

	assert.Equal(t, []string{"useQuery", "useMutation"}, rc.OptionStringSlice("hooks", nil))
	assert.Equal(t, []string{"a"}, rc.OptionStringSlice("plain", nil))
	assert.Equal(t, []string{"d"}, rc.OptionStringSlice("missing", []string{"d"}))

	empty := lint.NewRuleContext(context.Background(), nil, nil, nil)
	assert.Equal(t, "d", empty.OptionString("name", "d"))
}

func TestRuleContext_Commit(t *testing.T) {
	t.Parallel()

	file := parseFile(t, "a.ts", "enum A { B = 1 }\n")
	rc := lint.NewRuleContext(context.Background(), file, nil, nil)

	// Nothing pending: the snapshot is kept.
	require.NoError(t, rc.Commit())
	assert.Same(t, file, rc.File)
	assert.Zero(t, rc.Commits())

	enum := file.Statements[0].(*tsast.Declaration)
	require.NoError(t, rc.Replace(enum, enum.NameSpan, "Letters"))
	require.NoError(t, rc.Commit())

	assert.Equal(t, 1, rc.Commits())
	assert.Equal(t, "enum Letters { B = 1 }\n", string(rc.File.Content))
	assert.NotEqual(t, file.Generation(), rc.File.Generation())
	assert.Zero(t, rc.Builder.Len())

	// Nodes from before the commit are stale.
	err := rc.Replace(enum, enum.NameSpan, "Other")
	require.Error(t, err)
	assert.True(t, errors.Is(err, tsast.ErrStaleHandle))
	assert.Zero(t, rc.Builder.Len())

	err = rc.Insert(enum.Members[0], enum.Members[0].Span().End, ",")
	assert.True(t, errors.Is(err, tsast.ErrStaleHandle))

	fresh := rc.File.Statements[0].(*tsast.Declaration)
	require.NoError(t, rc.Delete(fresh, fresh.Members[0].Initializer))
	assert.Equal(t, 1, rc.Builder.Len())
}

func TestRuleContext_CommitInvalidEdits(t *testing.T) {
	t.Parallel()

	file := parseFile(t, "a.ts", "const a = 1;\n")
	rc := lint.NewRuleContext(context.Background(), file, nil, nil)

	rc.Builder.Insert(0, "const a = (;\n")
	err := rc.Commit()
	require.Error(t, err)
	assert.True(t, errors.Is(err, tsast.ErrParse))
	assert.Same(t, file, rc.File)
}

func TestRuleContext_Report(t *testing.T) {
	t.Parallel()

	file := parseFile(t, "pets.ts", "enum Pet {\n  Dog = \"dog\",\n  Cat = \"cat\",\n}\n")
	rc := lint.NewRuleContext(context.Background(), file, nil, nil)

	cat := file.Statements[0].(*tsast.Declaration).Members[1]
	diag := rc.Report(cat.NameSpan, "Cat is out of order").Build()

	assert.Equal(t, "pets.ts", diag.FilePath)
	assert.Equal(t, 3, diag.StartLine)
	assert.Equal(t, 3, diag.StartColumn)
}

func TestRuleContext_Append(t *testing.T) {
	t.Parallel()

	file := parseFile(t, "a.ts", "const a = 1;\n")
	rc := lint.NewRuleContext(context.Background(), file, nil, nil)

	rc.Append("export { a };\n")
	require.NoError(t, rc.Commit())
	assert.Equal(t, "const a = 1;\nexport { a };\n", string(rc.File.Content))
}
