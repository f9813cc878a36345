package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/yaklabco/jotdown/pkg/runner"
)

// schemaVersion is bumped when JSONOutput changes incompatibly.
const schemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Mode    string           `json:"mode"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's outcome.
type JSONFileResult struct {
	Path       string        `json:"path"`
	Output     string        `json:"output,omitempty"`
	Status     string        `json:"status"`
	Tokens     int           `json:"tokens"`
	Blocks     int           `json:"blocks"`
	DurationMS float64       `json:"durationMs"`
	Error      string        `json:"error,omitempty"`
	Location   *JSONLocation `json:"location,omitempty"`
}

// JSONLocation is the source position of a parse error.
type JSONLocation struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Text   string `json:"text"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int     `json:"filesDiscovered"`
	FilesProcessed  int     `json:"filesProcessed"`
	FilesFailed     int     `json:"filesFailed"`
	FilesWritten    int     `json:"filesWritten"`
	FilesUnchanged  int     `json:"filesUnchanged"`
	Tokens          int     `json:"tokens"`
	Blocks          int     `json:"blocks"`
	DurationMS      float64 `json:"durationMs"`
}

// Status values in JSONFileResult.
const (
	statusFailed  = "failed"
	statusChecked = "checked"
)

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesFailed, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: schemaVersion,
		Mode:    runner.ModeRender.String(),
		Files:   make([]JSONFileResult, 0),
	}
	if result == nil {
		return output
	}

	output.Mode = result.Mode.String()
	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		entry := JSONFileResult{
			Path:       relativePath(r.opts.WorkingDir, file.Path),
			Output:     relativePath(r.opts.WorkingDir, file.OutputPath),
			Tokens:     file.Tokens,
			Blocks:     file.Blocks,
			DurationMS: milliseconds(file.Duration.Seconds()),
		}
		switch {
		case file.Failed():
			entry.Status = statusFailed
			entry.Error = file.Error.Error()
		case file.OutputPath == "":
			entry.Status = statusChecked
		default:
			entry.Status = file.Status.String()
		}
		if loc := file.Location; loc != nil {
			entry.Location = &JSONLocation{Line: loc.Line, Column: loc.Column, Text: loc.Text}
		}
		output.Files = append(output.Files, entry)
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesDiscovered: stats.FilesDiscovered,
		FilesProcessed:  stats.FilesProcessed,
		FilesFailed:     stats.FilesFailed,
		FilesWritten:    stats.FilesWritten,
		FilesUnchanged:  stats.FilesUnchanged,
		Tokens:          stats.TokensTotal,
		Blocks:          stats.BlocksTotal,
		DurationMS:      milliseconds(stats.Duration.Seconds()),
	}
	return output
}

func milliseconds(seconds float64) float64 {
	return math.Round(seconds*1e6) / 1e3
}
