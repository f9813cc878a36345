package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/jotdown/internal/ui/pretty"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowContext prints the offending source line under parse errors.
	ShowContext bool

	// ShowSummary prints aggregate statistics after the failures.
	ShowSummary bool

	// Verbose lists every processed file, not just failures, and uses the
	// block summary.
	Verbose bool

	// Compact disables JSON indentation.
	Compact bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is.
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       pretty.ColorAuto,
		ShowContext: true,
		ShowSummary: true,
	}
}
