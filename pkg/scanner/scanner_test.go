package scanner_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/jotdown/pkg/jdast"
	"github.com/yaklabco/jotdown/pkg/rules"
	"github.com/yaklabco/jotdown/pkg/scanner"
)

func newScanner(t *testing.T, opts ...scanner.Option) *scanner.Scanner {
	t.Helper()
	sc, err := scanner.New(rules.Default(), opts...)
	require.NoError(t, err)
	return sc
}

func scanAll(sc *scanner.Scanner, chunks ...string) []jdast.Token {
	var tokens []jdast.Token
	for _, chunk := range chunks {
		tokens = append(tokens, sc.Scan(chunk)...)
	}
	return append(tokens, sc.Flush()...)
}

func values(tokens []jdast.Token) string {
	var builder strings.Builder
	for _, tok := range tokens {
		builder.WriteString(tok.Value)
	}
	return builder.String()
}

func TestNew_StartOfStream(t *testing.T) {
	t.Parallel()

	sc := newScanner(t)

	assert.Equal(t, []jdast.Token{{Type: rules.Newline, Value: "\n", Start: 0, End: 1}}, sc.EmittedTokens())
	assert.Equal(t, "\n", sc.RawStream())
	assert.Zero(t, sc.CharactersScanned())
	assert.Empty(t, sc.MatchBuffer())
	assert.Empty(t, sc.OutputBuffer())
}

func TestNew_InvalidLookBehind(t *testing.T) {
	t.Parallel()

	table := append(rules.Default(), rules.Rule{
		Name:       "bogus",
		Literal:    "%%",
		LookBehind: rules.AfterRule("missing"),
	})

	sc, err := scanner.New(table)
	require.Error(t, err)
	assert.Nil(t, sc)

	var configErr *scanner.ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "bogus", configErr.Rule.Name)
	assert.Equal(t, "missing", configErr.Missing)
	assert.Contains(t, err.Error(), "missing")
}

func TestScan_Tokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []jdast.Token
	}{
		{
			name:  "heading",
			input: "#1 Title",
			want: []jdast.Token{
				{Type: rules.Heading, Value: "#1 ", Start: 0, End: 3},
				{Value: "Title", Start: 3, End: 8},
			},
		},
		{
			name:  "strong",
			input: "!!bold!!",
			want: []jdast.Token{
				{Type: rules.Strong, Value: "!!", Start: 0, End: 2},
				{Value: "bold", Start: 2, End: 6},
				{Type: rules.Strong, Value: "!!", Start: 6, End: 8},
			},
		},
		{
			name:  "failed partial match becomes text",
			input: "!x",
			want:  []jdast.Token{{Value: "!x", Start: 0, End: 2}},
		},
		{
			name:  "image and link",
			input: "![a](b)",
			want: []jdast.Token{
				{Type: rules.Image, Value: "![", Start: 0, End: 2},
				{Value: "a", Start: 2, End: 3},
				{Type: rules.MidLink, Value: "](", Start: 3, End: 5},
				{Value: "b", Start: 5, End: 6},
				{Type: rules.RightPara, Value: ")", Start: 6, End: 7},
			},
		},
		{
			name:  "block group at start of line",
			input: "{{x",
			want: []jdast.Token{
				{Type: rules.BlockGroupStart, Value: "{{", Start: 0, End: 2},
				{Value: "x", Start: 2, End: 3},
			},
		},
		{
			name:  "inline group mid line",
			input: "a{{x",
			want: []jdast.Token{
				{Value: "a", Start: 0, End: 1},
				{Type: rules.InlineGroupStart, Value: "{{", Start: 1, End: 3},
				{Value: "x", Start: 3, End: 4},
			},
		},
		{
			name:  "checked task item",
			input: ". [x] done",
			want: []jdast.Token{
				{Type: rules.UL, Value: ". ", Start: 0, End: 2},
				{Type: rules.CheckedTaskItem, Value: "[x]", Start: 2, End: 5},
				{Value: " done", Start: 5, End: 10},
			},
		},
		{
			name:  "escaped strong",
			input: `\!!x`,
			want:  []jdast.Token{{Value: "!!x", Start: 0, End: 4}},
		},
		{
			name:  "escaped escape",
			input: `a\\`,
			want:  []jdast.Token{{Value: `a\`, Start: 0, End: 3}},
		},
		{
			name:  "table row",
			input: "|a|\n",
			want: []jdast.Token{
				{Type: rules.TableRowStart, Value: "|", Start: 0, End: 1},
				{Value: "a", Start: 1, End: 2},
				{Type: rules.TableRowEnd, Value: "|\n", Start: 2, End: 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sc := newScanner(t)
			got := scanAll(sc, tt.input)
			assert.Equal(t, tt.want, got)
			assert.True(t, jdast.ValidateTokens(got, 0))
		})
	}
}

func TestScan_RetainsPartialMatch(t *testing.T) {
	t.Parallel()

	sc := newScanner(t)

	tokens := sc.Scan("a|")
	assert.Equal(t, []jdast.Token{{Value: "a", Start: 0, End: 1}}, tokens)
	assert.Equal(t, "|", sc.MatchBuffer())
	require.Len(t, sc.MatchedRules(), 2)
	assert.Equal(t, rules.TableRowEnd, sc.MatchedRules()[0].Name)

	tokens = sc.Scan("\nb")
	assert.Equal(t, []jdast.Token{
		{Type: rules.TableRowEnd, Value: "|\n", Start: 1, End: 3},
		{Value: "b", Start: 3, End: 4},
	}, tokens)
	assert.Equal(t, 4, sc.CharactersScanned())
}

func TestFlush_ResolvesPartialMatch(t *testing.T) {
	t.Parallel()

	sc := newScanner(t)
	sc.Scan("a|")

	assert.Equal(t, []jdast.Token{{Type: rules.Pipe, Value: "|", Start: 1, End: 2}}, sc.Flush())
	assert.Empty(t, sc.MatchBuffer())
	assert.Empty(t, sc.MatchedRules())
}

func TestScan_TrailingEscapeWaits(t *testing.T) {
	t.Parallel()

	sc := newScanner(t)

	assert.Equal(t, []jdast.Token{{Value: "a", Start: 0, End: 1}}, sc.Scan(`a\`))
	assert.Equal(t, `\`, sc.MatchBuffer())

	tokens := sc.Scan("!!")
	assert.Equal(t, []jdast.Token{{Value: "!", Start: 1, End: 3}}, tokens, "escaped bang is text")
	assert.Equal(t, "!", sc.MatchBuffer())
}

func TestFlush_LoneEscapeIsLiteral(t *testing.T) {
	t.Parallel()

	sc := newScanner(t)
	sc.Scan(`a\`)

	assert.Equal(t, []jdast.Token{{Value: `\`, Start: 1, End: 2}}, sc.Flush())
}

func TestScan_EscapeBlocksLiteralLookBehind(t *testing.T) {
	t.Parallel()

	plain := newScanner(t)
	plain.Scan("a\n")
	tokens := plain.Scan("#1 x")
	require.NotEmpty(t, tokens)
	assert.Equal(t, rules.Heading, tokens[0].Type)

	escaped := newScanner(t)
	escaped.Scan("a\\\n")
	tokens = append(escaped.Scan("#1 x"), escaped.Flush()...)
	assert.Equal(t, []jdast.Token{{Value: "#1 x", Start: 3, End: 7}}, tokens)
}

func TestScan_NegativeLookBehind(t *testing.T) {
	t.Parallel()

	table := []rules.Rule{
		{Name: "x", Literal: "x", LookBehind: &rules.LookBehind{Literal: "a", Negative: true}},
	}
	sc, err := scanner.New(table)
	require.NoError(t, err)

	assert.Equal(t, []jdast.Token{{Value: "ax", Start: 0, End: 2}}, scanAll(sc, "ax"))

	sc.Reset()
	assert.Equal(t, []jdast.Token{
		{Value: "b", Start: 0, End: 1},
		{Type: "x", Value: "x", Start: 1, End: 2},
	}, scanAll(sc, "bx"))
}

func TestScan_RuleNameLookBehind(t *testing.T) {
	t.Parallel()

	sc := newScanner(t)
	tokens := scanAll(sc, "a [] b")
	assert.Equal(t, rules.LeftBrac, tokens[1].Type, "task item requires a list marker")

	sc.Reset()
	tokens = scanAll(sc, ") [] b")
	assert.Equal(t, rules.OL, tokens[0].Type)
	assert.Equal(t, rules.TaskItem, tokens[1].Type)
}

func TestWithStartOfStream(t *testing.T) {
	t.Parallel()

	sc := newScanner(t, scanner.WithStartOfStream(""))

	assert.Empty(t, sc.EmittedTokens())
	tokens := scanAll(sc, "#1 x")
	assert.Equal(t, []jdast.Token{{Value: "#1 x", Start: 0, End: 4}}, tokens)
}

func TestWithEscape(t *testing.T) {
	t.Parallel()

	sc := newScanner(t, scanner.WithEscape('%'))

	assert.Equal(t, []jdast.Token{{Value: "!!x", Start: 0, End: 4}}, scanAll(sc, "%!!x"))
}

func TestReset_Idempotent(t *testing.T) {
	t.Parallel()

	const input = "#2 Intro\n!!a!! //b// [^1]\n|x|y|\n"

	sc := newScanner(t)
	first := scanAll(sc, input)

	sc.Scan("!")
	sc.Reset()
	assert.Empty(t, sc.MatchBuffer())
	assert.Zero(t, sc.CharactersScanned())
	assert.Len(t, sc.EmittedTokens(), 1)

	second := scanAll(sc, input)
	assert.Equal(t, first, second)
}

func TestReset_RestoresEmittedOffsets(t *testing.T) {
	t.Parallel()

	const input = "#1 Title\n!!bold!! and more\n"

	sc := newScanner(t)
	scanAll(sc, input)
	first := append([]jdast.Token(nil), sc.EmittedTokens()...)
	require.Positive(t, sc.CharactersScanned())

	sc.Reset()
	assert.Equal(t, []jdast.Token{{Type: rules.Newline, Value: "\n", Start: 0, End: 1}}, sc.EmittedTokens())

	scanAll(sc, input)
	assert.Equal(t, first, sc.EmittedTokens())
}

func TestScan_Reconstruction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{input: "plain text", expected: "plain text"},
		{input: "#1 Head #id#\n\n!!b!! __u__ ||m|| //e// ~~s~~", expected: "#1 Head #id#\n\n!!b!! __u__ ||m|| //e// ~~s~~"},
		{input: `\!!not bold\!!`, expected: "!!not bold!!"},
		{input: `a\\b`, expected: `a\b`},
		{input: "trailing !", expected: "trailing !"},
		{input: "{{\n. one\n  . two\n}}\n", expected: "{{\n. one\n  . two\n}}\n"},
		{input: "x\\", expected: "x\\"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			whole := newScanner(t)
			tokens := scanAll(whole, tt.input)
			assert.Equal(t, tt.expected, values(tokens))
			assert.Equal(t, "\n"+tt.input, whole.RawStream())
			assert.True(t, jdast.ValidateTokens(tokens, 0))
			assert.Equal(t, len(tt.input), whole.CharactersScanned())

			for split := 1; split < len(tt.input); split++ {
				chunked := newScanner(t)
				got := scanAll(chunked, tt.input[:split], tt.input[split:])
				assert.Equal(t, tt.expected, values(got), "split at %d", split)
				assert.True(t, jdast.ValidateTokens(got, 0), "split at %d", split)
			}
		})
	}
}
