package treedump_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/jotdown/pkg/jdast"
	"github.com/yaklabco/jotdown/pkg/parser"
	"github.com/yaklabco/jotdown/pkg/rules"
	"github.com/yaklabco/jotdown/pkg/scanner"
	"github.com/yaklabco/jotdown/pkg/treedump"
)

func parseTree(t *testing.T, input string) *parser.Parser {
	t.Helper()
	sc, err := scanner.New(rules.Default())
	require.NoError(t, err)
	p := parser.New(sc)
	require.NoError(t, p.Parse(input))
	return p
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    treedump.Format
		wantErr bool
	}{
		{in: "", want: treedump.FormatText},
		{in: "text", want: treedump.FormatText},
		{in: "JSON", want: treedump.FormatJSON},
		{in: "yaml", want: treedump.FormatYAML},
		{in: "litter", want: treedump.FormatLitter},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := treedump.ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTree_JSON(t *testing.T) {
	t.Parallel()

	p := parseTree(t, "#1 Hello\n")

	var buf bytes.Buffer
	require.NoError(t, treedump.Tree(&buf, treedump.FormatJSON, p.Tree()))

	var views []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "heading", views[0]["type"])

	data, ok := views[0]["data"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 1, data["level"], 0)

	children, ok := views[0]["children"].([]any)
	require.True(t, ok)
	require.Len(t, children, 1)
	child, ok := children[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "blank", child["type"])
	assert.Equal(t, "Hello", child["value"])
}

func TestTree_YAML(t *testing.T) {
	t.Parallel()

	p := parseTree(t, "!!bold!!\n")

	var buf bytes.Buffer
	require.NoError(t, treedump.Tree(&buf, treedump.FormatYAML, p.Tree()))

	var views []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "text", views[0]["type"])
	assert.Contains(t, buf.String(), "type: strong")
	assert.Contains(t, buf.String(), "value: bold")
}

func TestTree_Litter(t *testing.T) {
	t.Parallel()

	p := parseTree(t, "#1 Hello\n")
	out := treedump.String(treedump.FormatLitter, p.Tree())

	assert.Contains(t, out, `Kind: "heading"`)
	assert.Contains(t, out, `Value: "Hello"`)
	assert.Contains(t, out, "Level: 1")
}

func TestTree_TextOutline(t *testing.T) {
	t.Parallel()

	p := parseTree(t, "#1 Hello\n")
	out := treedump.String(treedump.FormatText, p.Tree())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "heading ["))
	assert.True(t, strings.HasPrefix(lines[1], `  blank "Hello" [`))
}

func TestTokens(t *testing.T) {
	t.Parallel()

	tokens := []jdast.Token{
		{Type: rules.Strong, Value: "!!", Start: 0, End: 2},
		{Value: "bold", Start: 2, End: 6},
	}

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, treedump.Tokens(&buf, treedump.FormatText, tokens))
		assert.Equal(t, "strong \"!!\" [0:2]\ntext \"bold\" [2:6]\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, treedump.Tokens(&buf, treedump.FormatJSON, tokens))

		var got []jdast.Token
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, tokens, got)
	})

	t.Run("empty json is an array", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, treedump.Tokens(&buf, treedump.FormatJSON, nil))
		assert.Equal(t, "[]\n", buf.String())
	})
}

func TestTree_UnknownFormat(t *testing.T) {
	t.Parallel()

	p := parseTree(t, "plain")
	err := treedump.Tree(&bytes.Buffer{}, treedump.Format("xml"), p.Tree())
	require.Error(t, err)
}
