package runner

import (
	"time"

	"github.com/yaklabco/jotdown/pkg/fsutil"
)

// Location points at the source position a parse error was raised at.
type Location struct {
	// Line and Column are 1-based; Column counts bytes.
	Line   int
	Column int

	// Text is the source line without its newline.
	Text string
}

// FileOutcome is the result of processing one source file.
type FileOutcome struct {
	// Path is the source file that was processed.
	Path string

	// OutputPath is the rendered file. Empty in check mode.
	OutputPath string

	// Status reports whether OutputPath was written or already current.
	Status fsutil.WriteStatus

	// Tokens and Blocks count the parsed tokens and top-level nodes.
	Tokens int
	Blocks int

	Duration time.Duration

	// Error is set if the file could not be processed.
	Error error

	// Location is set when Error is a parse error.
	Location *Location
}

// Failed reports whether the file could not be processed.
func (o FileOutcome) Failed() bool {
	return o.Error != nil
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesFailed     int
	FilesWritten    int
	FilesUnchanged  int
	TokensTotal     int
	BlocksTotal     int
	Duration        time.Duration
}

// Result is the overall runner result.
type Result struct {
	// Mode is the mode the run used.
	Mode Mode

	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	Stats Stats
}

// HasFailures reports whether any file failed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesFailed > 0
}

// Failures returns the failed outcomes in path order.
func (r *Result) Failures() []FileOutcome {
	if r == nil {
		return nil
	}
	var failed []FileOutcome
	for _, outcome := range r.Files {
		if outcome.Failed() {
			failed = append(failed, outcome)
		}
	}
	return failed
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesFailed++
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.TokensTotal += outcome.Tokens
	r.Stats.BlocksTotal += outcome.Blocks

	if outcome.OutputPath == "" {
		return
	}
	if outcome.Status == fsutil.StatusUnchanged {
		r.Stats.FilesUnchanged++
	} else {
		r.Stats.FilesWritten++
	}
}
