package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/collation/internal/logging"
	"github.com/yaklabco/collation/pkg/config"
	"github.com/yaklabco/collation/pkg/lint/rules"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

const defaultConfigFile = ".collation.yml"

type initFlags struct {
	force  bool
	full   bool
	pack   string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a collation configuration file",
		Long: `Create a .collation.yml configuration file in the current directory.

Examples:
  collation init                     Create a commented minimal config
  collation init --full              Document every rule in the config
  collation init --pack imports      Start from a rule pack
  collation init --output ci.yml     Write to a custom file path

Packs: ` + strings.Join(rules.PackNames(), ", "),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "document every rule in the generated file")
	cmd.Flags().StringVar(&flags.pack, "pack", "", "start from a rule pack: "+strings.Join(rules.PackNames(), ", "))
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.FromContext(cmd.Context())

	content, err := initContent(flags)
	if err != nil {
		return err
	}

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("file %q already exists; use --force to overwrite", flags.output)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("check %s: %w", flags.output, err)
	}

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	return nil
}

func initContent(flags *initFlags) ([]byte, error) {
	if flags.pack == "" {
		content, err := config.GenerateTemplate(config.TemplateOptions{Full: flags.full})
		if err != nil {
			return nil, fmt.Errorf("generate template: %w", err)
		}
		return content, nil
	}

	pack := rules.PackByName(flags.pack)
	if pack == nil {
		return nil, fmt.Errorf("unknown pack %q: must be one of %s",
			flags.pack, strings.Join(rules.PackNames(), ", "))
	}
	body, err := (&config.Config{Rules: pack.Rules}).ToYAML()
	if err != nil {
		return nil, fmt.Errorf("encode pack %s: %w", pack.Name, err)
	}
	header := fmt.Sprintf("# collation configuration: %s pack\n# %s\n\n", pack.Name, pack.Description)
	return append([]byte(header), body...), nil
}
