package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/jotdown/internal/logging"
	"github.com/yaklabco/jotdown/pkg/fsutil"
	"github.com/yaklabco/jotdown/pkg/jdast"
	"github.com/yaklabco/jotdown/pkg/jotdown"
	"github.com/yaklabco/jotdown/pkg/parser"
)

// Option configures a Runner.
type Option func(*Runner)

// WithLogger records per-file progress at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Runner compiles files concurrently. Every in-flight file gets its own
// jotdown.Document.
type Runner struct {
	logger *log.Logger
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{logger: logging.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run discovers files under opts.Paths and processes them with a worker
// pool. Outcomes are returned in path order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	ctx = logging.WithLogger(ctx, r.logger)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("discovered", logging.FieldFilesDiscovered, len(files), logging.FieldPaths, opts.effectivePaths())

	result := &Result{
		Mode:  opts.Mode,
		Files: make([]FileOutcome, 0, len(files)),
	}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	outputDir := opts.OutputDir
	if outputDir != "" && !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(workDir, outputDir)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range workCh {
				outcome := r.process(ctx, path, workDir, outputDir, opts)
				select {
				case <-ctx.Done():
					return
				case outCh <- outcome:
				}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}
	result.Stats.Duration = time.Since(start)

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}

func (r *Runner) process(ctx context.Context, path, workDir, outputDir string, opts Options) (outcome FileOutcome) {
	start := time.Now()
	outcome.Path = path
	ctx = logging.WithFields(ctx, logging.FieldPath, path)
	logger := logging.FromContext(ctx)
	defer func() {
		outcome.Duration = time.Since(start)
	}()

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	doc, err := jotdown.Parse(string(content), opts.Document)
	if err != nil {
		outcome.Error = err
		outcome.Location = Locate(content, err)
		logger.Debug("parse failed", logging.FieldError, err)
		return outcome
	}
	outcome.Tokens = len(doc.ParsedTokens())
	outcome.Blocks = len(doc.Blocks())

	if opts.Mode == ModeCheck {
		logger.Debug("checked", logging.FieldTokens, outcome.Tokens)
		return outcome
	}

	target, err := fsutil.OutputPath(path, workDir, outputDir)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	status, err := fsutil.WriteAtomicIfChanged(ctx, target, []byte(doc.Render()), 0)
	if err != nil {
		outcome.Error = fmt.Errorf("write %s: %w", target, err)
		return outcome
	}
	outcome.OutputPath = target
	outcome.Status = status
	logger.Debug("rendered", logging.FieldOutput, target, "status", status)
	return outcome
}

// Locate maps a parse error in content to its source line. It returns nil
// for errors that carry no source offset.
func Locate(content []byte, err error) *Location {
	var pErr *parser.Error
	if !errors.As(err, &pErr) {
		return nil
	}
	index := jdast.NewLineIndex(content)
	line, col := index.LineAt(pErr.Offset())
	if line == 0 {
		return nil
	}
	return &Location{Line: line, Column: col, Text: index.LineContent(line)}
}
