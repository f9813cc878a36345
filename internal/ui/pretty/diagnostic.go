package pretty

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/jotdown/pkg/parser"
	"github.com/yaklabco/jotdown/pkg/runner"
)

// contextIndent aligns source context under the failure line.
const contextIndent = "    "

// FormatFailure formats a failed file for terminal output:
//
//	path:line:col  error  message  (kind)
//	    source line
//	    ^
//
// width bounds the source line; zero disables truncation.
func (s *Styles) FormatFailure(outcome runner.FileOutcome, showContext bool, width int) string {
	if outcome.Error == nil {
		return ""
	}
	var builder strings.Builder

	location := s.FilePath.Render(outcome.Path)
	if loc := outcome.Location; loc != nil {
		location += s.Location.Render(fmt.Sprintf(":%d:%d", loc.Line, loc.Column))
	}

	line := fmt.Sprintf("%s  %s  %s", location, s.Error.Render("error"), s.Message.Render(outcome.Error.Error()))
	if kind := failureKind(outcome.Error); kind != "" {
		line += "  " + s.Kind.Render("("+kind+")")
	}
	builder.WriteString(line + "\n")

	if showContext && outcome.Location != nil && outcome.Location.Text != "" {
		builder.WriteString(s.FormatSourceContext(outcome.Location.Text, outcome.Location.Column, width))
	}
	return builder.String()
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column, width int) string {
	var builder strings.Builder

	line = strings.ReplaceAll(line, "\t", " ")
	if limit := width - len(contextIndent); width > 0 && limit > 0 && len(line) > limit {
		// Keep the caret visible on long lines.
		start := 0
		if column > limit {
			start = column - limit
			column = limit
		}
		line = line[start:min(start+limit, len(line))]
	}

	builder.WriteString(contextIndent + s.SourceLine.Render(line) + "\n")
	if column > 0 {
		builder.WriteString(contextIndent + strings.Repeat(" ", column-1) + s.Caret.Render("^") + "\n")
	}
	return builder.String()
}

// failureKind names the class of a parse failure.
func failureKind(err error) string {
	var pErr *parser.Error
	if !errors.As(err, &pErr) {
		return ""
	}
	switch {
	case errors.Is(pErr.Kind, parser.ErrUnclosedToken):
		return "unclosed"
	case errors.Is(pErr.Kind, parser.ErrNewlineRequired):
		return "newline"
	case errors.Is(pErr.Kind, parser.ErrInvalidStyle):
		return "style"
	case errors.Is(pErr.Kind, parser.ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}
