package config

import "fmt"

// ParseOutputFormat parses a report format, returning an error for unknown
// formats.
func ParseOutputFormat(format string) (OutputFormat, error) {
	switch OutputFormat(format) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q; valid formats: text, json", format)
	}
}

// IsValid returns true if the format is a known valid format.
func (f OutputFormat) IsValid() bool {
	return f == FormatText || f == FormatJSON
}

func (f OutputFormat) String() string {
	return string(f)
}
