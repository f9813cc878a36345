package reporter

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/jotdown/internal/ui/pretty"
	"github.com/yaklabco/jotdown/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	width  int
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		width:  pretty.TerminalWidth(opts.Writer),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to compile."))
		}
		return 0, nil
	}

	var failed int
	for _, file := range result.Files {
		file.Path = relativePath(r.opts.WorkingDir, file.Path)
		if file.Failed() {
			fmt.Fprint(r.bw, r.styles.FormatFailure(file, r.opts.ShowContext, r.width))
			failed++
			continue
		}
		if r.opts.Verbose {
			r.reportProcessed(result.Mode, file)
		}
	}

	if r.opts.ShowSummary {
		if failed > 0 {
			fmt.Fprintln(r.bw)
		}
		if r.opts.Verbose {
			fmt.Fprint(r.bw, r.styles.FormatSummary(result.Mode, result.Stats))
		} else {
			fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Mode, result.Stats))
		}
	}

	return failed, nil
}

func (r *TextReporter) reportProcessed(mode runner.Mode, file runner.FileOutcome) {
	counts := r.styles.Dim.Render(fmt.Sprintf("(%d tokens, %d blocks)", file.Tokens, file.Blocks))
	if mode == runner.ModeCheck || file.OutputPath == "" {
		fmt.Fprintf(r.bw, "%s  %s  %s\n", r.styles.FilePath.Render(file.Path), r.styles.Success.Render("ok"), counts)
		return
	}
	fmt.Fprintf(r.bw, "%s -> %s  %s  %s\n",
		r.styles.FilePath.Render(file.Path),
		relativePath(r.opts.WorkingDir, file.OutputPath),
		r.styles.Success.Render(file.Status.String()),
		counts,
	)
}

// relativePath makes path relative to dir when possible.
func relativePath(dir, path string) string {
	if dir == "" || path == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return path
	}
	return rel
}
