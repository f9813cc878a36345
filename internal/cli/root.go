// Package cli provides the Cobra command structure for jotdown.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/jotdown/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug      bool
	trace      []string
	configPath string
	noConfig   bool
	color      string
	chdir      string
}

// NewRootCommand creates the root jotdown command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "jotdown",
		Short: "Compile JotDown documents to HTML",
		Long: `jotdown compiles JotDown, a lightweight markup language, to HTML.

Documents are scanned with a backtracking tokenizer, parsed into a tree and
rendered as an HTML fragment or a standalone page. Whole directories can be
compiled in parallel, and the token stream and tree of a single document can
be inspected for debugging.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if globals.debug || len(globals.trace) > 0 {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&globals.debug, "debug", false, "enable debug logging")
	flags.StringSliceVar(&globals.trace, "trace", nil,
		"trace compiler components: scanner, parser, special, overrides, tree, output, all")
	flags.StringVar(&globals.configPath, "config", "", "path to config file")
	flags.BoolVar(&globals.noConfig, "no-config", false, "ignore system, user and project config files")
	flags.StringVar(&globals.color, "color", "auto", "colorize output: auto, always, never")
	flags.StringVarP(&globals.chdir, "chdir", "C", "", "run as if started in this directory")

	rootCmd.AddCommand(newRenderCommand(globals))
	rootCmd.AddCommand(newCheckCommand(globals))
	rootCmd.AddCommand(newTokensCommand(globals))
	rootCmd.AddCommand(newTreeCommand(globals))
	rootCmd.AddCommand(newInitCommand(globals))
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(globals.color, os.Stdout).ApplyToCommand(rootCmd)

	return rootCmd
}
