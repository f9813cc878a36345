// Package treedump writes parsed trees and token streams for inspection.
package treedump

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sanity-io/litter"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/jotdown/pkg/jdast"
)

// Format selects the dump encoding.
type Format string

// Dump formats.
const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatLitter Format = "litter"
)

// ParseFormat parses a format string, returning an error for unknown formats.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML, FormatLitter:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q; valid formats: text, json, yaml, litter", s)
	}
}

func (f Format) String() string {
	return string(f)
}

var litterConfig = litter.Options{
	StripPackageNames: true,
	HidePrivateFields: true,
	Separator:         " ",
}

// Tree writes every top-level block of tree to w.
func Tree(w io.Writer, format Format, tree *jdast.Tree) error {
	views := tree.Export()
	switch format {
	case FormatText, "":
		for _, view := range views {
			writeOutline(w, view, 0)
		}
		return nil
	default:
		return encode(w, format, views)
	}
}

// Tokens writes a token stream to w. The text format prints one token per
// line.
func Tokens(w io.Writer, format Format, tokens []jdast.Token) error {
	switch format {
	case FormatText, "":
		for _, tok := range tokens {
			if _, err := fmt.Fprintln(w, tok.String()); err != nil {
				return fmt.Errorf("write token: %w", err)
			}
		}
		return nil
	default:
		if tokens == nil {
			tokens = []jdast.Token{}
		}
		return encode(w, format, tokens)
	}
}

// String returns the dump of tree, or the encoding error text.
func String(format Format, tree *jdast.Tree) string {
	var sb strings.Builder
	if err := Tree(&sb, format, tree); err != nil {
		return err.Error()
	}
	return sb.String()
}

func encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("close yaml encoder: %w", err)
		}
	case FormatLitter:
		if _, err := io.WriteString(w, litterConfig.Sdump(v)+"\n"); err != nil {
			return fmt.Errorf("write litter: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

func writeOutline(w io.Writer, view *jdast.View, depth int) {
	if view == nil {
		return
	}
	line := strings.Repeat("  ", depth) + view.Kind
	if view.Value != "" {
		line += fmt.Sprintf(" %q", view.Value)
	}
	line += fmt.Sprintf(" [%d:%d]", view.Start, view.End)
	fmt.Fprintln(w, line)
	for _, summary := range view.Summary {
		writeOutline(w, summary, depth+2)
	}
	for _, child := range view.Children {
		writeOutline(w, child, depth+1)
	}
}
