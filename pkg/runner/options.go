// Package runner compiles many JotDown files concurrently.
package runner

import (
	"slices"

	"github.com/yaklabco/jotdown/pkg/config"
	"github.com/yaklabco/jotdown/pkg/jotdown"
)

// Mode selects what the runner does with each file.
type Mode int

const (
	// ModeRender parses, renders and writes HTML.
	ModeRender Mode = iota

	// ModeCheck only parses.
	ModeCheck
)

func (m Mode) String() string {
	if m == ModeCheck {
		return "check"
	}
	return "render"
}

// Options controls multi-file behavior.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths and
	// glob patterns. If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (with leading dot) considered
	// JotDown sources. Defaults to config.DefaultExtensions.
	Extensions []string

	// IncludeGlobs are doublestar patterns a file must match, relative to
	// WorkingDir. Empty includes everything that matches Extensions.
	IncludeGlobs []string

	// ExcludeGlobs are doublestar patterns used to skip files or directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	Mode Mode

	// OutputDir mirrors rendered files under this directory, relative to
	// WorkingDir. Empty writes next to each source.
	OutputDir string

	// Document configures the compiler instance created for every file.
	Document jotdown.Options
}

// OptionsFromConfig maps cfg onto runner options. The stylesheet content is
// passed separately because reading it is the caller's concern.
func OptionsFromConfig(cfg *config.Config, stylesheet string) Options {
	return Options{
		Extensions:   slices.Clone(cfg.Extensions),
		ExcludeGlobs: slices.Clone(cfg.Ignore),
		Jobs:         cfg.Jobs,
		OutputDir:    cfg.OutputDir,
		Document: jotdown.Options{
			Standalone:      config.IsSet(cfg.Render.Standalone),
			Styles:          stylesheet,
			NoDefaultStyles: config.IsSet(cfg.Render.NoDefaultStyles),
			Highlight:       config.IsSet(cfg.Render.Highlight),
			HighlightStyle:  cfg.Render.HighlightStyle,
			DetectLanguage:  config.IsSet(cfg.Render.DetectLanguage),
		},
	}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return config.DefaultExtensions
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
