package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/jotdown/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int) string {
	if n == 1 {
		return wordFile
	}
	return wordFiles
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "4 files rendered (3 written, 1 unchanged), 1 failed".
func (s *Styles) FormatSummaryOneLine(mode runner.Mode, stats runner.Stats) string {
	verb := "rendered"
	if mode == runner.ModeCheck {
		verb = "checked"
	}

	msg := fmt.Sprintf("%d %s %s", stats.FilesProcessed, plural(stats.FilesProcessed), verb)
	if stats.FilesFailed == 0 {
		msg = s.Success.Render(msg)
	}
	if mode == runner.ModeRender && stats.FilesProcessed > 0 {
		msg += s.Dim.Render(fmt.Sprintf(" (%d written, %d unchanged)", stats.FilesWritten, stats.FilesUnchanged))
	}
	if stats.FilesFailed > 0 {
		msg += ", " + s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesFailed))
	}
	return msg + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(mode runner.Mode, stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row := func(label, value string) {
		fmt.Fprintf(&builder, "  %-18s %s\n", label+":", value)
	}

	row("Files discovered", s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)))
	row("Files processed", s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)))
	if stats.FilesFailed > 0 {
		row("Files failed", s.Failure.Render(strconv.Itoa(stats.FilesFailed)))
	}
	if mode == runner.ModeRender {
		row("Files written", s.Success.Render(strconv.Itoa(stats.FilesWritten)))
		row("Files unchanged", s.SummaryValue.Render(strconv.Itoa(stats.FilesUnchanged)))
	}
	builder.WriteString("\n")
	row("Tokens", s.SummaryValue.Render(strconv.Itoa(stats.TokensTotal)))
	row("Blocks", s.SummaryValue.Render(strconv.Itoa(stats.BlocksTotal)))
	row("Duration", s.Dim.Render(stats.Duration.Round(time.Microsecond).String()))
	builder.WriteString("\n")

	title := "Render"
	if mode == runner.ModeCheck {
		title = "Check"
	}
	if stats.FilesFailed > 0 {
		builder.WriteString(s.Failure.Render(title + " failed"))
	} else {
		builder.WriteString(s.Success.Render(title + " passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
