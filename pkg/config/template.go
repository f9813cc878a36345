package config

import (
	"fmt"
	"strings"
)

// Template formats understood by GenerateTemplate.
const (
	TemplateYAML = "yaml"
	TemplateTOML = "toml"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "toml".
	Format string

	// Full uncomments every setting with its default value.
	Full bool
}

type templateSetting struct {
	comment string
	key     string
	yaml    string
	toml    string
}

//nolint:gochecknoglobals // Read-only template table.
var templateRender = []templateSetting{
	{"Wrap output in html and body elements", "standalone", "false", "false"},
	{"CSS file injected instead of the default styles", "stylesheet", `""`, `""`},
	{"Inject no stylesheet at all", "no_default_styles", "false", "false"},
	{"Colour fenced code", "highlight", "false", "false"},
	{"Chroma style used for highlighting", "highlight_style", "github", `"github"`},
	{"Guess the language of fences that declare none", "detect_language", "false", "false"},
}

// GenerateTemplate creates a commented configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch strings.ToLower(opts.Format) {
	case TemplateYAML, "yml", "":
		return generateYAMLTemplate(opts.Full), nil
	case TemplateTOML:
		return generateTOMLTemplate(opts.Full), nil
	default:
		return nil, fmt.Errorf("unknown template format %q; valid formats: yaml, toml", opts.Format)
	}
}

func commentPrefix(full bool) string {
	if full {
		return ""
	}
	return "# "
}

func generateYAMLTemplate(full bool) []byte {
	var buf strings.Builder
	prefix := commentPrefix(full)

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\nrender:\n")
	for _, s := range templateRender {
		fmt.Fprintf(&buf, "  # %s\n  %s%s: %s\n", s.comment, prefix, s.key, s.yaml)
	}
	buf.WriteString("\n# Source file extensions\n")
	buf.WriteString("extensions:\n")
	for _, ext := range DefaultExtensions {
		fmt.Fprintf(&buf, "  - %q\n", ext)
	}
	buf.WriteString("\n# File patterns to ignore (doublestar globs)\n")
	fmt.Fprintf(&buf, "%signore:\n%s  - \"node_modules/**\"\n", prefix, prefix)
	buf.WriteString("\n# Directory for rendered files (default: next to the source)\n")
	fmt.Fprintf(&buf, "%soutput_dir: \"\"\n", prefix)
	return []byte(buf.String())
}

func generateTOMLTemplate(full bool) []byte {
	var buf strings.Builder
	prefix := commentPrefix(full)

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n# Source file extensions\n")
	quoted := make([]string, 0, len(DefaultExtensions))
	for _, ext := range DefaultExtensions {
		quoted = append(quoted, fmt.Sprintf("%q", ext))
	}
	fmt.Fprintf(&buf, "extensions = [%s]\n", strings.Join(quoted, ", "))
	buf.WriteString("\n# File patterns to ignore (doublestar globs)\n")
	fmt.Fprintf(&buf, "%signore = [\"node_modules/**\"]\n", prefix)
	buf.WriteString("\n# Directory for rendered files (default: next to the source)\n")
	fmt.Fprintf(&buf, "%soutput_dir = \"\"\n", prefix)
	buf.WriteString("\n[render]\n")
	for _, s := range templateRender {
		fmt.Fprintf(&buf, "# %s\n%s%s = %s\n", s.comment, prefix, s.key, s.toml)
	}
	return []byte(buf.String())
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# jotdown configuration
# See: https://github.com/yaklabco/jotdown`
}
