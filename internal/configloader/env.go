package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/jotdown/pkg/config"
)

// envVarPrefix is the prefix for all jotdown environment variables.
const envVarPrefix = "JOTDOWN_"

type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"STANDALONE":        {"render.standalone", envTypeBool, "Wrap output in html and body: true or false"},
	"STYLESHEET":        {"render.stylesheet", envTypeString, "CSS file injected instead of the default styles"},
	"NO_DEFAULT_STYLES": {"render.no_default_styles", envTypeBool, "Inject no stylesheet: true or false"},
	"HIGHLIGHT":         {"render.highlight", envTypeBool, "Colour fenced code: true or false"},
	"HIGHLIGHT_STYLE":   {"render.highlight_style", envTypeString, "Chroma style name"},
	"DETECT_LANGUAGE":   {"render.detect_language", envTypeBool, "Guess unlabeled fence languages: true or false"},
	"EXTENSIONS":        {"extensions", envTypeSlice, "Comma-separated list of source extensions"},
	"IGNORE":            {"ignore", envTypeSlice, "Comma-separated list of ignore patterns"},
	"OUTPUT_DIR":        {"output_dir", envTypeString, "Directory for rendered files"},
	"FORMAT":            {"format", envTypeString, "Report format: text or json"},
	"JOBS":              {"jobs", envTypeInt, "Number of parallel workers (0 = auto)"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with JOTDOWN_ (e.g., JOTDOWN_HIGHLIGHT).
func LoadFromEnv(cfg *config.Config) error {
	return loadFromLookup(cfg, os.LookupEnv)
}

func loadFromLookup(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}

	for _, envSuffix := range sortedEnvSuffixes() {
		envVar := envVarPrefix + envSuffix
		value, ok := lookup(envVar)
		if !ok || value == "" {
			continue
		}

		if err := applyEnvValue(cfg, envMappings[envSuffix], value, envVar); err != nil {
			return err
		}
	}

	return nil
}

func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "render.stylesheet":
		cfg.Render.Stylesheet = value
	case "render.highlight_style":
		cfg.Render.HighlightStyle = value
	case "output_dir":
		cfg.OutputDir = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "render.standalone":
		cfg.Render.Standalone = config.Bool(value)
	case "render.no_default_styles":
		cfg.Render.NoDefaultStyles = config.Bool(value)
	case "render.highlight":
		cfg.Render.Highlight = config.Bool(value)
	case "render.detect_language":
		cfg.Render.DetectLanguage = config.Bool(value)
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "extensions":
		cfg.Extensions = value
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

func sortedEnvSuffixes() []string {
	suffixes := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)
	return suffixes
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns every supported environment variable with its
// description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
