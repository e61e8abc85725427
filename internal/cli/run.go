package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/collation/internal/configloader"
	"github.com/yaklabco/collation/internal/logging"
	"github.com/yaklabco/collation/pkg/config"
	"github.com/yaklabco/collation/pkg/lint"
	_ "github.com/yaklabco/collation/pkg/lint/rules" // Register built-in rules
	"github.com/yaklabco/collation/pkg/project"
	"github.com/yaklabco/collation/pkg/reporter"
	"github.com/yaklabco/collation/pkg/runner"
)

type runFlags struct {
	all              bool
	check            bool
	backup           bool
	includeGenerated bool
	followSymlinks   bool
	noContext        bool
	format           string
	ruleFormat       string
	include          []string
	exclude          []string
}

func newRunCommand() *cobra.Command {
	var cfg config.Config
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Apply rules to the project and fix violations",
		Long:  runLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(cmd, args, &cfg, flags)
		},
	}

	addRunFlags(cmd, &cfg, flags)

	return cmd
}

const runLongDescription = `Apply rules to TypeScript and JavaScript files and write the fixes.

By default every .ts, .tsx, .mts, .cts, .js, .jsx, .mjs and .cjs file under
the current directory is processed with the rules enabled in the
configuration. Name files or directories to restrict the run to them.

Examples:
  collation run                          # Fix the whole project
  collation run src/components           # Fix one directory
  collation run --all                    # Run every rule, even disabled ones
  collation run --include exports-last   # Run one rule
  collation run --exclude CL005,CL008    # Skip rules by name or ID
  collation run --dry-run --format diff  # Show fixes without writing them
  collation run --check                  # Fail if any file would change`

func runRules(cmd *cobra.Command, args []string, cfg *config.Config, flags *runFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromContext(ctx)

	// Only flags given on the command line override file and env config.
	if cmd.Flags().Changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	if cmd.Flags().Changed("rule-format") {
		cfg.RuleFormat = config.RuleFormat(flags.ruleFormat)
	}
	cfg.IncludeRules = flags.include
	cfg.ExcludeRules = flags.exclude
	if flags.check {
		cfg.DryRun = true
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	registry := lint.DefaultRegistry
	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cfg,
		Registry:     registry,
	})
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	finalCfg := loadResult.Config
	if flags.all {
		finalCfg.IncludeRules = registry.IDs()
	}

	rules, err := lint.ResolveRules(registry, finalCfg)
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded",
		logging.FieldConfig, loadResult.LoadedFrom,
		logging.FieldRules, len(rules),
		logging.FieldDryRun, finalCfg.DryRun,
		logging.FieldJobs, finalCfg.Jobs)

	p, err := project.Load(ctx, project.Options{
		Root:             workDir,
		Paths:            args,
		Include:          finalCfg.Include,
		Ignore:           finalCfg.Ignore,
		FollowSymlinks:   flags.followSymlinks,
		IncludeGenerated: flags.includeGenerated,
		Backup:           flags.backup,
	})
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}
	for _, missing := range p.Missing {
		logger.Error(missing.Error())
	}

	result, err := runner.New(lint.NewEngine(registry)).Run(ctx, p, rules, runner.Options{
		Jobs:    finalCfg.Jobs,
		DryRun:  finalCfg.DryRun,
		Config:  finalCfg,
		Imports: loadResult.Imports,
	})
	if err != nil {
		return err
	}

	if err := report(cmd, result, finalCfg, flags); err != nil {
		return err
	}

	var errs []error
	for _, missing := range p.Missing {
		errs = append(errs, missing)
	}
	if runErr := result.Err(); runErr != nil {
		errs = append(errs, runErr)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if flags.check && result.Stats.FilesModified > 0 {
		return ErrViolationsFound
	}
	return nil
}

func report(cmd *cobra.Command, result *runner.Result, cfg *config.Config, flags *runFlags) error {
	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:           cmd.OutOrStdout(),
		Format:           format,
		Color:            colorMode,
		PrintDiagnostics: cfg.PrintDiagnostics,
		ShowContext:      !flags.noContext,
		ShowSummary:      true,
		DryRun:           cfg.DryRun,
		RuleFormat:       cfg.RuleFormat,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}
	if _, err := rep.Report(cmd.Context(), result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}
	return nil
}

func addRunFlags(cmd *cobra.Command, cfg *config.Config, flags *runFlags) {
	f := cmd.Flags()
	f.BoolVarP(&flags.all, "all", "a", false, "run every rule, including rules disabled by configuration")
	f.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "compute fixes without writing files")
	f.BoolVar(&flags.check, "check", false, "dry run that fails when any file would change")
	f.BoolVar(&cfg.PrintDiagnostics, "print-diagnostics", false, "print every diagnostic")
	f.BoolVar(&cfg.PrintDiagnostics, "diagnostics", false, "alias for --print-diagnostics")
	f.StringSliceVar(&flags.include, "include", nil, "run only these rule names or IDs")
	f.StringSliceVar(&flags.exclude, "exclude", nil, "skip these rule names or IDs")
	f.IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	f.StringVar(&flags.format, "format", "text", "output format: text, table, json, diff")
	f.StringVar(&flags.ruleFormat, "rule-format", "combined",
		"rule identifier format in output: name, id, or combined")
	f.BoolVar(&flags.noContext, "no-context", false, "hide source line context in diagnostics")
	f.BoolVar(&flags.backup, "backup", false, "keep a .collation.bak copy of every file written")
	f.BoolVar(&flags.includeGenerated, "include-generated", false, "process vendored, minified and generated files")
	f.BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")

	_ = f.MarkHidden("diagnostics")
}
