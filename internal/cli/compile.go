package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/jotdown/internal/logging"
	"github.com/yaklabco/jotdown/pkg/config"
	"github.com/yaklabco/jotdown/pkg/jotdown"
	"github.com/yaklabco/jotdown/pkg/reporter"
	"github.com/yaklabco/jotdown/pkg/runner"
)

// compileFlags are shared by render and check.
type compileFlags struct {
	format         string
	jobs           int
	ignore         []string
	include        []string
	extensions     []string
	followSymlinks bool
	noContext      bool
	verbose        bool
	compact        bool

	// render only
	outputDir       string
	stdout          bool
	standalone      bool
	stylesheet      string
	noDefaultStyles bool
	highlight       bool
	highlightStyle  string
	detectLanguage  bool
}

func newRenderCommand(globals *globalFlags) *cobra.Command {
	flags := &compileFlags{}

	cmd := &cobra.Command{
		Use:   "render [paths...]",
		Short: "Render JotDown files to HTML",
		Long: `Render JotDown files to HTML.

By default, renders every .jd, .jot and .jotdown file under the current
directory and writes each result next to its source with an .html extension.
Files whose rendered output is unchanged are not rewritten.`,
		Example: `  jotdown render                          # Render the current directory
  jotdown render docs/ --output-dir site   # Mirror docs/ into site/
  jotdown render notes.jd --stdout         # Print one document
  cat notes.jd | jotdown render - --stdout # Render standard input
  jotdown render --standalone --highlight  # Full pages with coloured code`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, args, globals, flags, runner.ModeRender)
		},
	}

	addCompileFlags(cmd, flags)
	cmd.Flags().StringVarP(&flags.outputDir, "output-dir", "o", "", "directory receiving rendered files")
	cmd.Flags().BoolVar(&flags.stdout, "stdout", false, "write a single rendered document to standard output")
	cmd.Flags().BoolVar(&flags.standalone, "standalone", false, "wrap output in html and body elements")
	cmd.Flags().StringVar(&flags.stylesheet, "stylesheet", "", "CSS file used instead of the default styles")
	cmd.Flags().BoolVar(&flags.noDefaultStyles, "no-default-styles", false, "inject no stylesheet")
	cmd.Flags().BoolVar(&flags.highlight, "highlight", false, "colour fenced code")
	cmd.Flags().StringVar(&flags.highlightStyle, "highlight-style", "", "chroma style used for highlighting")
	cmd.Flags().BoolVar(&flags.detectLanguage, "detect-language", false, "guess the language of unlabeled fences")

	return cmd
}

func newCheckCommand(globals *globalFlags) *cobra.Command {
	flags := &compileFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Parse JotDown files and report errors",
		Long: `Parse JotDown files without writing output.

Every parse error is reported with its location and source line. The command
exits with status 1 if any file fails.`,
		Example: `  jotdown check                   # Check the current directory
  jotdown check --format json     # Machine-readable report for CI`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, args, globals, flags, runner.ModeCheck)
		},
	}

	addCompileFlags(cmd, flags)
	return cmd
}

func addCompileFlags(cmd *cobra.Command, flags *compileFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "", "report format: text, json")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to skip")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "glob patterns files must match")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "source file extensions (default .jd, .jot, .jotdown)")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list every file and print a detailed summary")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
}

// toConfig builds the CLI configuration layer. Only flags that were set
// override lower-precedence sources.
func (f *compileFlags) toConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{
		Format:     config.OutputFormat(f.format),
		Jobs:       f.jobs,
		OutputDir:  f.outputDir,
		Stdout:     f.stdout,
		Extensions: f.extensions,
		Ignore:     f.ignore,
	}
	cfg.Render.Stylesheet = f.stylesheet
	cfg.Render.HighlightStyle = f.highlightStyle

	for name, target := range map[string]struct {
		value bool
		field **bool
	}{
		"standalone":        {f.standalone, &cfg.Render.Standalone},
		"no-default-styles": {f.noDefaultStyles, &cfg.Render.NoDefaultStyles},
		"highlight":         {f.highlight, &cfg.Render.Highlight},
		"detect-language":   {f.detectLanguage, &cfg.Render.DetectLanguage},
	} {
		if cmd.Flags().Changed(name) {
			*target.field = config.Bool(target.value)
		}
	}
	return cfg
}

func runCompile(cmd *cobra.Command, args []string, globals *globalFlags, flags *compileFlags, mode runner.Mode) error {
	sess, err := newSession(cmd, globals, flags.toConfig(cmd))
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(string(sess.cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	runOpts, err := sess.runOptions()
	if err != nil {
		return err
	}

	if mode == runner.ModeRender && sess.cfg.Stdout {
		return renderToStdout(sess, args, runOpts.Document)
	}

	runOpts.Paths = args
	runOpts.IncludeGlobs = flags.include
	runOpts.FollowSymlinks = flags.followSymlinks
	runOpts.Mode = mode

	sess.logger.Debug("starting run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
		"mode", mode,
	)

	result, err := runner.New(runner.WithLogger(sess.logger)).Run(sess.ctx, runOpts)
	if err != nil {
		return fmt.Errorf("%s run failed: %w", mode, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       globals.color,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		Verbose:     flags.verbose,
		Compact:     flags.compact,
		WorkingDir:  sess.workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}
	if _, err := rep.Report(sess.ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrFilesFailed
	}
	return nil
}

// renderToStdout compiles exactly one document and prints the HTML.
func renderToStdout(sess *session, args []string, opts jotdown.Options) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: --stdout takes exactly one file or -", ErrInvalidUsage)
	}

	source, err := sess.readSource(args[0])
	if err != nil {
		return err
	}
	doc, err := jotdown.Parse(source, opts)
	if err != nil {
		return sess.reportParseFailure(args[0], source, err)
	}

	_, err = io.WriteString(sess.cmd.OutOrStdout(), doc.Render())
	return err
}
