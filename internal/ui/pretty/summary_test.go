package pretty_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/jotdown/internal/ui/pretty"
	"github.com/yaklabco/jotdown/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		mode  runner.Mode
		stats runner.Stats
		want  string
	}{
		{
			name:  "render",
			mode:  runner.ModeRender,
			stats: runner.Stats{FilesProcessed: 4, FilesWritten: 3, FilesUnchanged: 1},
			want:  "4 files rendered (3 written, 1 unchanged)\n",
		},
		{
			name:  "render with failures",
			mode:  runner.ModeRender,
			stats: runner.Stats{FilesProcessed: 1, FilesWritten: 1, FilesFailed: 2},
			want:  "1 file rendered (1 written, 0 unchanged), 2 failed\n",
		},
		{
			name:  "check",
			mode:  runner.ModeCheck,
			stats: runner.Stats{FilesProcessed: 1},
			want:  "1 file checked\n",
		},
		{
			name:  "nothing rendered",
			mode:  runner.ModeRender,
			stats: runner.Stats{FilesFailed: 1},
			want:  "0 files rendered, 1 failed\n",
		},
	}

	styles := pretty.NewStyles(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.mode, tt.stats))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	stats := runner.Stats{
		FilesDiscovered: 3,
		FilesProcessed:  2,
		FilesFailed:     1,
		TokensTotal:     40,
		BlocksTotal:     7,
		Duration:        1500 * time.Microsecond,
	}

	got := styles.FormatSummary(runner.ModeCheck, stats)

	assert.Contains(t, got, "Summary\n")
	assert.Contains(t, got, "  Files discovered:  3\n")
	assert.Contains(t, got, "  Files failed:      1\n")
	assert.Contains(t, got, "  Tokens:            40\n")
	assert.Contains(t, got, "  Duration:          1.5ms\n")
	assert.NotContains(t, got, "Files written")
	assert.Contains(t, got, "Check failed\n")

	got = styles.FormatSummary(runner.ModeRender, runner.Stats{FilesProcessed: 1, FilesWritten: 1})
	assert.Contains(t, got, "  Files written:     1\n")
	assert.Contains(t, got, "Render passed\n")
}
