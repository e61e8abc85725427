package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/collation/pkg/lint"
	"github.com/yaklabco/collation/pkg/project"
)

const unsortedEnum = "enum Pet { Dog = 1, Cat = 2 }\n"

// workspace creates a repository with the given files, isolates user
// config and changes into it.
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(root)
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand(BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"})
	var out, logs bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	cmd := NewRootCommand(BuildInfo{})
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"run", "rules", "init", "version"})

	for _, flag := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRunCommand_Flags(t *testing.T) {
	t.Parallel()

	cmd := newRunCommand()
	names := []string{
		"all", "dry-run", "check", "print-diagnostics", "include", "exclude", "jobs",
		"format", "rule-format", "no-context", "backup", "include-generated", "follow-symlinks",
	}
	for _, name := range names {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "n", cmd.Flags().Lookup("dry-run").Shorthand)
	assert.True(t, cmd.Flags().Lookup("diagnostics").Hidden)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "collation")
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "abc123")
}

func TestRulesCommand_JSON(t *testing.T) {
	out, err := execute(t, "rules", "--format", "json")
	require.NoError(t, err)

	var infos []ruleInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 8)
	assert.Equal(t, "CL001", infos[0].ID)
	assert.Equal(t, "import-rules", infos[0].Name)
	assert.Equal(t, "CL008", infos[7].ID)
	for _, info := range infos {
		assert.True(t, info.Fixable, info.ID)
	}
}

func TestRulesCommand_Text(t *testing.T) {
	out, err := execute(t, "rules", "--rule-format", "id")
	require.NoError(t, err)
	assert.Contains(t, out, "CL006")
	assert.NotContains(t, out, "CL006 alphabetize-enums")
}

func TestRulesCommand_InvalidFormat(t *testing.T) {
	_, err := execute(t, "rules", "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestInitCommand(t *testing.T) {
	root := workspace(t, nil)

	_, err := execute(t, "init")
	require.NoError(t, err)
	content, err := os.ReadFile(filepath.Join(root, defaultConfigFile))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# collation configuration")

	_, err = execute(t, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "init", "--force", "--pack", "imports")
	require.NoError(t, err)
	content, err = os.ReadFile(filepath.Join(root, defaultConfigFile))
	require.NoError(t, err)
	assert.Contains(t, string(content), "imports pack")
	assert.Contains(t, string(content), "CL001:")
}

func TestInitCommand_UnknownPack(t *testing.T) {
	workspace(t, nil)

	_, err := execute(t, "init", "--pack", "everything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown pack "everything"`)
}

func TestRun_Fixes(t *testing.T) {
	root := workspace(t, map[string]string{"src/pets.ts": unsortedEnum})

	out, err := execute(t, "run")
	require.NoError(t, err)
	assert.Contains(t, out, "src/pets.ts (fixed, 2 issues)")

	got, err := os.ReadFile(filepath.Join(root, "src", "pets.ts"))
	require.NoError(t, err)
	assert.Equal(t, "enum Pet { Cat = 2, Dog = 1 }\n", string(got))

	out, err = execute(t, "run", "--check")
	require.NoError(t, err, "fixed output is canonical")
	assert.Contains(t, out, "No issues found")
}

func TestRun_DryRun(t *testing.T) {
	root := workspace(t, map[string]string{"pets.ts": unsortedEnum})

	out, err := execute(t, "run", "--dry-run", "--format", "diff")
	require.NoError(t, err)
	assert.Contains(t, out, "diff --git a/pets.ts b/pets.ts")
	assert.Contains(t, out, "+enum Pet { Cat = 2, Dog = 1 }")

	got, err := os.ReadFile(filepath.Join(root, "pets.ts"))
	require.NoError(t, err)
	assert.Equal(t, unsortedEnum, string(got))
}

func TestRun_Check(t *testing.T) {
	root := workspace(t, map[string]string{"pets.ts": unsortedEnum})

	_, err := execute(t, "run", "--check")
	require.ErrorIs(t, err, ErrViolationsFound)
	assert.Equal(t, ExitFailure, ExitCode(err))
	assert.True(t, IsSilent(err))

	got, err := os.ReadFile(filepath.Join(root, "pets.ts"))
	require.NoError(t, err)
	assert.Equal(t, unsortedEnum, string(got))
}

func TestRun_ExcludeRule(t *testing.T) {
	workspace(t, map[string]string{"pets.ts": unsortedEnum})

	out, err := execute(t, "run", "--check", "--exclude", "alphabetize-enums")
	require.NoError(t, err)
	assert.Contains(t, out, "No issues found")
}

func TestRun_ConfigDisablesRule(t *testing.T) {
	workspace(t, map[string]string{
		"pets.ts":        unsortedEnum,
		".collation.yml": "rules:\n  alphabetize-enums:\n    enabled: false\n",
	})

	_, err := execute(t, "run", "--check")
	require.NoError(t, err)

	_, err = execute(t, "run", "--check", "--all")
	require.ErrorIs(t, err, ErrViolationsFound)
}

func TestRun_JSON(t *testing.T) {
	workspace(t, map[string]string{"pets.ts": unsortedEnum})

	out, err := execute(t, "run", "--dry-run", "--format", "json")
	require.NoError(t, err)

	var decoded struct {
		DryRun  bool `json:"dryRun"`
		Summary struct {
			FilesModified int `json:"filesModified"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.True(t, decoded.DryRun)
	assert.Equal(t, 1, decoded.Summary.FilesModified)
}

func TestRun_MissingFile(t *testing.T) {
	workspace(t, map[string]string{"pets.ts": "export {};\n"})

	_, err := execute(t, "run", "pest.ts")
	require.ErrorIs(t, err, project.ErrFileNotFound)
	assert.Contains(t, err.Error(), `did you mean "pets.ts"?`)
}

func TestRun_UnknownRule(t *testing.T) {
	workspace(t, map[string]string{"pets.ts": "export {};\n"})

	_, err := execute(t, "run", "--include", "alphabetize-everything")
	require.ErrorIs(t, err, lint.ErrUnknownRule)
}

func TestRun_InvalidConfig(t *testing.T) {
	workspace(t, map[string]string{
		"pets.ts":        "export {};\n",
		".collation.yml": "flavor: vanilla\n",
	})

	_, err := execute(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load configuration")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(lint.ErrUnknownRule))
	assert.False(t, IsSilent(lint.ErrUnknownRule))
}
