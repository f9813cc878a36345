package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/jotdown/pkg/runner"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()
	rel := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	return rel
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"index.jd":              "",
		"notes.jot":             "",
		"long.jotdown":          "",
		"readme.md":             "",
		".hidden.jd":            "",
		".git/config.jd":        "",
		"docs/guide.jd":         "",
		"docs/drafts/wip.jd":    "",
		"vendor/lib/thing.jd":   "",
		"docs/UPPER.JD":         "",
		"node_modules/x/pkg.jd": "",
	}

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "default extensions skip hidden entries",
			want: []string{
				"docs/UPPER.JD", "docs/drafts/wip.jd", "docs/guide.jd", "index.jd",
				"long.jotdown", "node_modules/x/pkg.jd", "notes.jot", "vendor/lib/thing.jd",
			},
		},
		{
			name: "exclude globs",
			opts: runner.Options{ExcludeGlobs: []string{"vendor/**", "**/drafts/**", "node_modules"}},
			want: []string{"docs/UPPER.JD", "docs/guide.jd", "index.jd", "long.jotdown", "notes.jot"},
		},
		{
			name: "include globs",
			opts: runner.Options{IncludeGlobs: []string{"docs/**/*.jd"}},
			want: []string{"docs/drafts/wip.jd", "docs/guide.jd"},
		},
		{
			name: "base name pattern",
			opts: runner.Options{ExcludeGlobs: []string{"*.jd"}, Extensions: []string{".jd", ".jot"}},
			want: []string{"docs/UPPER.JD", "notes.jot"},
		},
		{
			name: "explicit paths deduplicate",
			opts: runner.Options{Paths: []string{"docs", "docs/guide.jd", ".hidden.jd"}},
			want: []string{".hidden.jd", "docs/UPPER.JD", "docs/drafts/wip.jd", "docs/guide.jd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			writeTree(t, root, files)
			opts := tt.opts
			opts.WorkingDir = root

			got, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, relAll(t, root, got))
		})
	}
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	_, err := runner.Discover(context.Background(), runner.Options{WorkingDir: root, Paths: []string{"missing"}})
	require.Error(t, err)

	_, err = runner.Discover(context.Background(), runner.Options{WorkingDir: root, ExcludeGlobs: []string{"a/[b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid glob")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Discover(ctx, runner.Options{WorkingDir: root})
	require.ErrorIs(t, err, context.Canceled)
}
