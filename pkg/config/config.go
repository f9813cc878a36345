// Package config defines core configuration types for jotdown.
// These types are pure data structures; loading and merging live in
// internal/configloader.
package config

import "slices"

// OutputFormat specifies the format of run reports.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// DefaultExtensions are the source file extensions discovered by default.
//
//nolint:gochecknoglobals // Read-only default.
var DefaultExtensions = []string{".jd", ".jot", ".jotdown"}

// RenderConfig controls HTML output. Nil booleans are unset and do not
// override lower-precedence sources when merged.
type RenderConfig struct {
	// Standalone wraps output in html and body elements.
	Standalone *bool `mapstructure:"standalone" yaml:"standalone,omitempty" toml:"standalone,omitempty"`

	// Stylesheet is a CSS file injected instead of the default styles.
	Stylesheet string `mapstructure:"stylesheet" yaml:"stylesheet,omitempty" toml:"stylesheet,omitempty"`

	// NoDefaultStyles suppresses the default stylesheet.
	NoDefaultStyles *bool `mapstructure:"no_default_styles" yaml:"no_default_styles,omitempty" toml:"no_default_styles,omitempty"`

	// Highlight colours fenced code.
	Highlight *bool `mapstructure:"highlight" yaml:"highlight,omitempty" toml:"highlight,omitempty"`

	// HighlightStyle names the chroma style used for highlighting.
	HighlightStyle string `mapstructure:"highlight_style" yaml:"highlight_style,omitempty" toml:"highlight_style,omitempty"`

	// DetectLanguage guesses the language of unlabeled fences.
	DetectLanguage *bool `mapstructure:"detect_language" yaml:"detect_language,omitempty" toml:"detect_language,omitempty"`
}

// Config is the root configuration structure for jotdown.
type Config struct {
	Render RenderConfig `mapstructure:"render" yaml:"render" toml:"render"`

	// Extensions lists the source file extensions to discover.
	Extensions []string `mapstructure:"extensions" yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	// Ignore contains doublestar glob patterns for files to skip.
	Ignore []string `mapstructure:"ignore" yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// OutputDir receives rendered files. Empty writes next to the source.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir,omitempty" toml:"output_dir,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the report format.
	Format OutputFormat `mapstructure:"-" yaml:"-" toml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-" toml:"-"`

	// Stdout writes rendered output to standard output.
	Stdout bool `mapstructure:"-" yaml:"-" toml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Standalone:      Bool(false),
			NoDefaultStyles: Bool(false),
			Highlight:       Bool(false),
			HighlightStyle:  "github",
			DetectLanguage:  Bool(false),
		},
		Extensions: slices.Clone(DefaultExtensions),
		Format:     FormatText,
		Jobs:       0, // 0 means use GOMAXPROCS
	}
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}

// IsSet reports whether p is non-nil and true.
func IsSet(p *bool) bool {
	return p != nil && *p
}
