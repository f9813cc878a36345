package cli

import (
	"errors"

	"github.com/yaklabco/jotdown/internal/configloader"
	"github.com/yaklabco/jotdown/pkg/fsutil"
	"github.com/yaklabco/jotdown/pkg/parser"
	"github.com/yaklabco/jotdown/pkg/runner"
	"github.com/yaklabco/jotdown/pkg/scanner"
)

// Exit codes for jotdown.
const (
	// ExitSuccess indicates every file compiled.
	ExitSuccess = 0

	// ExitFailure indicates at least one document failed to parse or render.
	ExitFailure = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrFilesFailed is returned when one or more documents failed. The
	// failures have already been reported.
	ErrFilesFailed = errors.New("one or more files failed")

	// ErrInvalidUsage marks flag and argument errors.
	ErrInvalidUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code of a multi-file run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitFailure
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var (
		validationErr *configloader.ValidationError
		configErr     *scanner.ConfigError
		parseErr      *parser.Error
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrFilesFailed), errors.As(err, &parseErr):
		return ExitFailure
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.As(err, &validationErr):
		return ExitConfigError
	case errors.As(err, &configErr):
		return ExitInternalError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	default:
		return ExitFailure
	}
}
