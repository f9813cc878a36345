package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/jotdown/pkg/config"
)

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(t.TempDir()))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, config.DefaultExtensions, result.Config.Extensions)
	assert.Equal(t, "github", result.Config.Render.HighlightStyle)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: ".jotdown.yml",
			content: `
render:
  standalone: true
output_dir: site
`,
		},
		{
			name: "toml",
			file: ".jotdown.toml",
			content: `
output_dir = "site"

[render]
standalone = true
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, tt.file), tt.content)

			result, err := Load(context.Background(), isolated(dir))
			require.NoError(t, err)

			assert.True(t, config.IsSet(result.Config.Render.Standalone))
			assert.Equal(t, "site", result.Config.OutputDir)
			assert.Equal(t, "github", result.Config.Render.HighlightStyle)
			assert.Equal(t, []string{filepath.Join(dir, tt.file)}, result.LoadedFrom)
		})
	}
}

func TestLoad_UpwardSearchStopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".jotdown.yml"), "output_dir: outer\n")
	repo := filepath.Join(root, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	nested := filepath.Join(repo, "docs", "guide")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := FindProjectConfig(context.Background(), nested)
	require.NoError(t, err)
	assert.Empty(t, found)

	writeFile(t, filepath.Join(repo, ".jotdown.yaml"), "output_dir: inner\n")
	found, err = FindProjectConfig(context.Background(), nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(repo, ".jotdown.yaml"), found)
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".jotdown.yml"), "output_dir: project\nrender:\n  highlight: true\n")
	explicit := filepath.Join(dir, "custom.toml")
	writeFile(t, explicit, "output_dir = \"explicit\"\n")

	opts := isolated(dir)
	opts.ExplicitPath = explicit
	opts.CLIConfig = &config.Config{Jobs: 2, Render: config.RenderConfig{Highlight: config.Bool(false)}}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "explicit", result.Config.OutputDir)
	assert.Equal(t, 2, result.Config.Jobs)
	assert.False(t, config.IsSet(result.Config.Render.Highlight))
	assert.Len(t, result.LoadedFrom, 2)
	assert.Equal(t, explicit, result.Paths.Explicit)
}

func TestLoad_InvalidFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".jotdown.yml")
	writeFile(t, path, "extensions: [\"md\"]\n")

	_, err := Load(context.Background(), isolated(dir))

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, path, vErr.FilePath)
	assert.Equal(t, "extensions[0]", vErr.Field)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".jotdown.toml"), "render = [\n")

	_, err := Load(context.Background(), isolated(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load project config")
}

func TestLoad_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"JOTDOWN_STANDALONE":      "true",
		"JOTDOWN_HIGHLIGHT_STYLE": "monokai",
		"JOTDOWN_IGNORE":          " a/** , ,b/** ",
		"JOTDOWN_JOBS":            "3",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := config.NewConfig()
	require.NoError(t, loadFromLookup(cfg, lookup))

	assert.True(t, config.IsSet(cfg.Render.Standalone))
	assert.Equal(t, "monokai", cfg.Render.HighlightStyle)
	assert.Equal(t, []string{"a/**", "b/**"}, cfg.Ignore)
	assert.Equal(t, 3, cfg.Jobs)
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key, value string
	}{
		{"JOTDOWN_HIGHLIGHT", "maybe"},
		{"JOTDOWN_JOBS", "many"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()
			lookup := func(key string) (string, bool) {
				if key == tt.key {
					return tt.value, true
				}
				return "", false
			}
			err := loadFromLookup(config.NewConfig(), lookup)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestEnvVarHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "JOTDOWN_OUTPUT_DIR", GetEnvVarName("output_dir"))
	assert.Empty(t, GetEnvVarName("nope"))
	assert.Contains(t, ListEnvVars(), "JOTDOWN_HIGHLIGHT")
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	base.Ignore = []string{"base/**"}

	override := &config.Config{
		Render:     config.RenderConfig{Standalone: config.Bool(true), HighlightStyle: "dracula"},
		Extensions: []string{".jd"},
	}

	merged := MergeAll(base, override)

	assert.True(t, config.IsSet(merged.Render.Standalone))
	assert.False(t, config.IsSet(merged.Render.Highlight))
	require.NotNil(t, merged.Render.Highlight)
	assert.Equal(t, "dracula", merged.Render.HighlightStyle)
	assert.Equal(t, []string{".jd"}, merged.Extensions)
	assert.Equal(t, []string{"base/**"}, merged.Ignore)

	*merged.Render.Standalone = false
	assert.True(t, *override.Render.Standalone)
	assert.Nil(t, MergeAll())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		mutate       func(*config.Config)
		wantErrors   int
		wantWarnings int
	}{
		{name: "defaults", mutate: func(*config.Config) {}},
		{name: "bad format", mutate: func(c *config.Config) { c.Format = "xml" }, wantErrors: 1},
		{name: "negative jobs", mutate: func(c *config.Config) { c.Jobs = -1 }, wantErrors: 1},
		{name: "bad ignore glob", mutate: func(c *config.Config) { c.Ignore = []string{"a/[b"} }, wantErrors: 1},
		{name: "bad extension", mutate: func(c *config.Config) { c.Extensions = []string{"jd", "."} }, wantErrors: 2},
		{name: "unknown style", mutate: func(c *config.Config) { c.Render.HighlightStyle = "nope" }, wantWarnings: 1},
		{
			name:         "detection without highlight",
			mutate:       func(c *config.Config) { c.Render.DetectLanguage = config.Bool(true) },
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.mutate(cfg)
			result := ValidateWithFile(cfg, "cfg.yml")

			assert.Len(t, result.Errors, tt.wantErrors)
			assert.Len(t, result.Warnings, tt.wantWarnings)
			assert.Equal(t, tt.wantErrors == 0, result.Valid())
			for _, msg := range result.AllMessages() {
				assert.Contains(t, msg, "cfg.yml")
			}
		})
	}
}
