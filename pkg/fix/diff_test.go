package fix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/collation/pkg/fix"
)

func TestGenerateDiffIdentical(t *testing.T) {
	t.Parallel()

	assert.Nil(t, fix.GenerateDiff("a.ts", nil, nil))

	content := []byte("const a = 1;\n")
	diff := fix.GenerateDiff("a.ts", content, content)
	assert.Nil(t, diff)
	assert.False(t, diff.HasChanges())
	assert.Empty(t, diff.String())
}

func TestGenerateDiffSingleChange(t *testing.T) {
	t.Parallel()

	original := []byte("enum A {\n  Dog = 'dog',\n  Cat = 'cat',\n}\n")
	modified := []byte("enum A {\n  Cat = 'cat',\n  Dog = 'dog',\n}\n")

	diff := fix.GenerateDiff("src/a.ts", original, modified)
	require.NotNil(t, diff)
	assert.True(t, diff.HasChanges())
	require.Len(t, diff.Hunks, 1)
	assert.Equal(t, 1, diff.Additions)
	assert.Equal(t, 1, diff.Deletions)

	want := "--- a/src/a.ts\n" +
		"+++ b/src/a.ts\n" +
		"@@ -1,4 +1,4 @@\n" +
		" enum A {\n" +
		"-  Dog = 'dog',\n" +
		"   Cat = 'cat',\n" +
		"+  Dog = 'dog',\n" +
		" }\n"
	assert.Equal(t, want, diff.String())
	assert.Equal(t, "diff --git a/src/a.ts b/src/a.ts\n"+want, diff.FullString())
}

func TestGenerateDiffSplitsDistantHunks(t *testing.T) {
	t.Parallel()

	var original, modified []byte
	for i := range 20 {
		line := []byte("line\n")
		if i == 0 || i == 19 {
			original = append(original, []byte("old\n")...)
			modified = append(modified, []byte("new\n")...)
			continue
		}
		original = append(original, line...)
		modified = append(modified, line...)
	}

	diff := fix.GenerateDiff("f.ts", original, modified)
	require.NotNil(t, diff)
	require.Len(t, diff.Hunks, 2)
	assert.Equal(t, 1, diff.Hunks[0].OriginalStart)
	assert.Equal(t, 17, diff.Hunks[1].OriginalStart)
	assert.Equal(t, 4, diff.Hunks[1].OriginalCount)
}

func TestGenerateDiffAddition(t *testing.T) {
	t.Parallel()

	diff := fix.GenerateDiff("f.ts", []byte("a\n"), []byte("a\nexport { a };\n"))
	require.NotNil(t, diff)
	assert.Equal(t, 1, diff.Additions)
	assert.Equal(t, 0, diff.Deletions)
	assert.Contains(t, diff.String(), "+export { a };\n")
}
