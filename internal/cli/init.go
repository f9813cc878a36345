package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/jotdown/internal/logging"
	"github.com/yaklabco/jotdown/pkg/config"
	"github.com/yaklabco/jotdown/pkg/fsutil"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand(globals *globalFlags) *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new jotdown configuration file",
		Long: `Create a .jotdown.yml configuration file in the current directory.

Every setting is listed with its default value and a short description. Settings
are commented out unless --full is given.`,
		Example: `  jotdown init                      # Create .jotdown.yml
  jotdown init --full               # Uncomment every setting
  jotdown init --format toml        # Create .jotdown.toml instead
  jotdown init --output custom.yml  # Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, globals, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "uncomment every setting")
	cmd.Flags().StringVar(&flags.format, "format", config.TemplateYAML, "output format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path (default: .jotdown.yml or .jotdown.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, globals *globalFlags, flags *initFlags) error {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "info")

	if flags.format != config.TemplateYAML && flags.format != config.TemplateTOML {
		return fmt.Errorf("%w: invalid format %q: must be yaml or toml", ErrInvalidUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".jotdown.yml"
		if flags.format == config.TemplateTOML {
			outputPath = ".jotdown.toml"
		}
	}

	workDir, err := resolveWorkDir(globals.chdir)
	if err != nil {
		return err
	}
	absPath := outputPath
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(workDir, absPath)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrInvalidUsage, outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := fsutil.WriteAtomic(ctx, absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	if isInteractive() {
		logger.Info("customize your configuration by editing the file")
		logger.Info("run 'jotdown render' to compile the documents in this directory")
	}
	return nil
}

// isInteractive reports whether a person is watching stdout.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
