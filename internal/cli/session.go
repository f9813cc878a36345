package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/jotdown/internal/configloader"
	"github.com/yaklabco/jotdown/internal/logging"
	"github.com/yaklabco/jotdown/internal/ui/pretty"
	"github.com/yaklabco/jotdown/pkg/config"
	"github.com/yaklabco/jotdown/pkg/fsutil"
	"github.com/yaklabco/jotdown/pkg/jotdown"
	"github.com/yaklabco/jotdown/pkg/runner"
)

// stdinPath reads the document from standard input.
const stdinPath = "-"

// session is the resolved environment of one command invocation.
type session struct {
	cmd     *cobra.Command
	ctx     context.Context
	globals *globalFlags
	workDir string
	cfg     *config.Config
	logger  *log.Logger
}

// newSession resolves the working directory and loads configuration with
// cliCfg as the highest-precedence layer.
func newSession(cmd *cobra.Command, globals *globalFlags, cliCfg *config.Config) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	level := "info"
	if globals.debug || len(globals.trace) > 0 {
		level = "debug"
	}
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)
	ctx = logging.WithLogger(ctx, logger)

	workDir, err := resolveWorkDir(globals.chdir)
	if err != nil {
		return nil, err
	}

	configPath := globals.configPath
	if configPath != "" && !filepath.IsAbs(configPath) {
		configPath = filepath.Join(workDir, configPath)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:          workDir,
		ExplicitPath:        configPath,
		IgnoreSystemConfig:  globals.noConfig,
		IgnoreUserConfig:    globals.noConfig,
		IgnoreProjectConfig: globals.noConfig,
		CLIConfig:           cliCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldPaths, loadResult.LoadedFrom)
	}

	return &session{
		cmd:     cmd,
		ctx:     ctx,
		globals: globals,
		workDir: workDir,
		cfg:     loadResult.Config,
		logger:  logger,
	}, nil
}

func resolveWorkDir(chdir string) (string, error) {
	if chdir == "" {
		workDir, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return workDir, nil
	}
	workDir, err := filepath.Abs(chdir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", chdir, err)
	}
	info, err := os.Stat(workDir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidUsage, chdir)
	}
	return workDir, nil
}

// path resolves p against the working directory.
func (s *session) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.workDir, p)
}

// stylesheet reads the configured stylesheet, if any.
func (s *session) stylesheet() (string, error) {
	if s.cfg.Render.Stylesheet == "" {
		return "", nil
	}
	content, _, err := fsutil.ReadFile(s.ctx, s.path(s.cfg.Render.Stylesheet))
	if err != nil {
		return "", fmt.Errorf("read stylesheet: %w", err)
	}
	return string(content), nil
}

// runOptions maps the loaded configuration onto runner options.
func (s *session) runOptions() (runner.Options, error) {
	styles, err := s.stylesheet()
	if err != nil {
		return runner.Options{}, err
	}
	debug, err := parseTrace(s.globals.trace)
	if err != nil {
		return runner.Options{}, err
	}

	opts := runner.OptionsFromConfig(s.cfg, styles)
	opts.WorkingDir = s.workDir
	opts.Document.Logger = s.logger
	opts.Document.Debug = debug
	return opts, nil
}

// readSource reads a single document named on the command line.
func (s *session) readSource(arg string) (string, error) {
	if arg == stdinPath {
		content, err := io.ReadAll(s.cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(content), nil
	}
	content, _, err := fsutil.ReadFile(s.ctx, s.path(arg))
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// parseTrace maps --trace names onto debug options.
func parseTrace(names []string) (jotdown.DebugOptions, error) {
	var debug jotdown.DebugOptions
	var unknown []string
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "all":
			debug.All = true
		case "scanner":
			debug.Scanner = true
		case "parser":
			debug.Parser = true
		case "special":
			debug.Special = true
		case "overrides":
			debug.Overrides = true
		case "tree":
			debug.Tree = true
		case "output":
			debug.Output = true
		default:
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return debug, fmt.Errorf("%w: unknown trace component %s", ErrInvalidUsage, strings.Join(unknown, ", "))
	}
	return debug, nil
}

// reportParseFailure prints a single-document failure the way the text
// reporter prints run failures.
func (s *session) reportParseFailure(name, source string, err error) error {
	var outcome runner.FileOutcome
	outcome.Path = name
	outcome.Error = err
	outcome.Location = runner.Locate([]byte(source), err)

	stderr := s.cmd.ErrOrStderr()
	styles := pretty.NewStyles(pretty.IsColorEnabled(s.globals.color, stderr))
	fmt.Fprint(stderr, styles.FormatFailure(outcome, true, pretty.TerminalWidth(stderr)))
	return errors.Join(ErrFilesFailed, err)
}
