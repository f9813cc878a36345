package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/jotdown/pkg/jdast"
	"github.com/yaklabco/jotdown/pkg/parser"
	"github.com/yaklabco/jotdown/pkg/rules"
	"github.com/yaklabco/jotdown/pkg/scanner"
	"github.com/yaklabco/jotdown/pkg/validate"
)

func newParser(t *testing.T) *parser.Parser {
	t.Helper()
	sc, err := scanner.New(rules.Default())
	require.NoError(t, err)
	return parser.New(sc)
}

func parse(t *testing.T, input string) *parser.Parser {
	t.Helper()
	p := newParser(t)
	require.NoError(t, p.Parse(input))
	return p
}

// outline lists every reachable node kind indented by depth.
func outline(tree *jdast.Tree) []string {
	var lines []string
	//nolint:errcheck // The callback never fails.
	tree.Walk(func(_ jdast.NodeID, node *jdast.Node, depth int) error {
		lines = append(lines, strings.Repeat("  ", depth)+node.Kind.String())
		return nil
	})
	return lines
}

func firstOfKind(t *testing.T, tree *jdast.Tree, kind jdast.Kind) *jdast.Node {
	t.Helper()
	found := tree.FindByKind(kind)
	require.NotEmpty(t, found, "no %s node", kind)
	return tree.Node(found[0])
}

func TestParser_Shapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "heading",
			input: "#1 Hello\n",
			want:  []string{"heading", "  blank"},
		},
		{
			name:  "strong paragraph",
			input: "!!bold!!\n",
			want:  []string{"text", "  strong", "    blank", "  newline"},
		},
		{
			name:  "paragraph closed at end of input",
			input: "plain",
			want:  []string{"text", "  blank"},
		},
		{
			name:  "strong closed at end of input",
			input: "!!bold!!",
			want:  []string{"text", "  strong", "    blank"},
		},
		{
			// Only bracketed cells on the first row form a header; plain
			// pipes there are body cells.
			name:  "first row without brackets is a body row",
			input: "|a|b|\n|c|d|\n",
			want: []string{
				"table",
				"  table_row", "    table_cell", "      blank", "    table_cell", "      blank",
				"  table_row", "    table_cell", "      blank", "    table_cell", "      blank",
			},
		},
		{
			name:  "flat list",
			input: ". a\n. b\n",
			want:  []string{"ul", "  list_item", "    blank", "  list_item", "    blank"},
		},
		{
			name:  "nested list",
			input: ". a\n  . b\n. c\n",
			want: []string{
				"ul",
				"  list_item", "    blank", "    ul", "      list_item", "        blank",
				"  list_item", "    blank",
			},
		},
		{
			name:  "ordered list",
			input: ") one\n) two\n",
			want:  []string{"ol", "  list_item", "    blank", "  list_item", "    blank"},
		},
		{
			name:  "block group",
			input: "{{\n#1 A\n}}\n",
			want:  []string{"div", "  newline", "  heading", "    blank", "newline"},
		},
		{
			name:  "inline group",
			input: "a{{b}}c\n",
			want:  []string{"text", "  blank", "  span", "    blank", "  blank", "  newline"},
		},
		{
			name:  "block comment",
			input: "/* hi */\n",
			want:  []string{"comment", "  blank"},
		},
		{
			name:  "horizontal rule",
			input: "---\n",
			want:  []string{"hr"},
		},
		{
			name:  "inline code",
			input: "`a   b`\n",
			want:  []string{"text", "  code", "    blank", "  newline"},
		},
		{
			name:  "spoiler body",
			input: "+++Hidden\nsecret\n+++\n",
			want:  []string{"spoiler", "  blank", "  newline"},
		},
		{
			name:  "fences",
			input: "```go\nx\n```\n",
			want:  []string{"fences", "  blank"},
		},
		{
			name:  "stylesheet",
			input: "$$$\np {}\n$$$\n",
			want:  []string{"stylesheet", "  blank"},
		},
		{
			name:  "block plaintext",
			input: "=== raw !!x\n===\n",
			want:  []string{"plaintext", "  blank"},
		},
		{
			name:  "inline plaintext",
			input: "a=!!x=\n",
			want:  []string{"text", "  blank", "  plaintext", "    blank", "  newline"},
		},
		{
			name:  "two paragraphs",
			input: "a\n\nb\n",
			want:  []string{"text", "  blank", "  newline", "text", "  blank", "  newline"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := parse(t, tt.input)
			if diff := cmp.Diff(tt.want, outline(p.Tree())); diff != "" {
				t.Errorf("outline mismatch (-want +got):\n%s", diff)
			}
			assert.True(t, p.HasEmptyDepthStack())
		})
	}
}

func TestParser_TokensReconstructInput(t *testing.T) {
	t.Parallel()

	input := "#1 Title\n\n!!a!! and //b// with [link](x.y)\n\n|c|d|\n. e\n"
	p := parse(t, input)

	var builder strings.Builder
	for _, tok := range p.ParsedTokens() {
		builder.WriteString(tok.Value)
	}
	assert.Equal(t, input, builder.String())
}

func TestParser_FeedInChunks(t *testing.T) {
	t.Parallel()

	whole := parse(t, "!!bold!! text\n")

	p := newParser(t)
	for _, chunk := range []string{"!", "!bo", "ld!", "! te", "xt\n"} {
		require.NoError(t, p.Feed(chunk))
	}
	require.NoError(t, p.Finish())

	assert.Equal(t, outline(whole.Tree()), outline(p.Tree()))
	assert.Equal(t, whole.Tree().Text(whole.Tree().Blocks()[0]), p.Tree().Text(p.Tree().Blocks()[0]))
}

func TestParser_DepthStackWhileOpen(t *testing.T) {
	t.Parallel()

	p := newParser(t)
	require.NoError(t, p.Feed("!!a"))

	assert.False(t, p.HasEmptyDepthStack())
	stack := p.DepthStack()
	require.Len(t, stack, 3)
	assert.Equal(t, jdast.KindText, stack[0].Kind)
	assert.Equal(t, jdast.KindStrong, stack[1].Kind)
	assert.True(t, stack[2].Kind.IsBlank())
}

func TestParser_Heading(t *testing.T) {
	t.Parallel()

	p := parse(t, "#3 #intro# Getting started\n")
	tree := p.Tree()

	heading := firstOfKind(t, tree, jdast.KindHeading)
	data, ok := jdast.DataAs[*jdast.HeadingData](heading)
	require.True(t, ok)
	assert.Equal(t, 3, data.Level)
	assert.Equal(t, "intro", data.ID)
	assert.Equal(t, "Getting started", tree.Text(tree.FindByKind(jdast.KindHeading)[0]))
}

func TestParser_TableHeader(t *testing.T) {
	t.Parallel()

	p := parse(t, "|[a|b]|\n|c|d|\n")
	tree := p.Tree()

	table := firstOfKind(t, tree, jdast.KindTable)
	data, ok := jdast.DataAs[*jdast.TableData](table)
	require.True(t, ok)
	assert.True(t, data.HasHeader)

	require.Len(t, table.Children, 2)
	header := tree.Node(tree.Node(table.Children[0]).Children[0])
	assert.Equal(t, jdast.KindTableHeader, header.Kind)
	assert.Len(t, header.Children, 2)
	assert.Equal(t, "ab", tree.Text(tree.Node(table.Children[0]).Children[0]))
	assert.Equal(t, "cd", tree.Text(table.Children[1]))
}

func TestParser_TableWithoutBracketsHasNoHeader(t *testing.T) {
	t.Parallel()

	p := parse(t, "|H1|H2|\n|c1|c2|\n")
	tree := p.Tree()

	table := firstOfKind(t, tree, jdast.KindTable)
	data, ok := jdast.DataAs[*jdast.TableData](table)
	require.True(t, ok)
	assert.False(t, data.HasHeader)
	assert.Empty(t, tree.FindByKind(jdast.KindTableHeader))
	require.Len(t, table.Children, 2)
}

func TestParser_TaskItems(t *testing.T) {
	t.Parallel()

	p := parse(t, ". [] todo\n. [x] done\n. plain\n")
	tree := p.Tree()

	items := tree.FindByKind(jdast.KindListItem)
	require.Len(t, items, 3)

	first, ok := jdast.DataAs[*jdast.ListItemData](tree.Node(items[0]))
	require.True(t, ok)
	assert.True(t, first.Task)
	assert.False(t, first.Checked)

	second, ok := jdast.DataAs[*jdast.ListItemData](tree.Node(items[1]))
	require.True(t, ok)
	assert.True(t, second.Checked)

	_, ok = jdast.DataAs[*jdast.ListItemData](tree.Node(items[2]))
	assert.False(t, ok)
}

func TestParser_BlockMetadata(t *testing.T) {
	t.Parallel()

	t.Run("fence language is trimmed", func(t *testing.T) {
		t.Parallel()

		p := parse(t, "``` go \nfmt.Println()\n```\n")
		fences := firstOfKind(t, p.Tree(), jdast.KindFences)
		data, ok := jdast.DataAs[*jdast.FenceData](fences)
		require.True(t, ok)
		assert.Equal(t, "go", data.Language)
		assert.Equal(t, "fmt.Println()\n", p.Tree().Text(p.Tree().FindByKind(jdast.KindFences)[0]))
	})

	t.Run("blockquote cite", func(t *testing.T) {
		t.Parallel()

		p := parse(t, "\"\"\"Someone\nquoted\n\"\"\"\n")
		quote := firstOfKind(t, p.Tree(), jdast.KindBlockquote)
		data, ok := jdast.DataAs[*jdast.BlockquoteData](quote)
		require.True(t, ok)
		assert.Equal(t, "Someone", data.Cite)
	})

	t.Run("spoiler summary", func(t *testing.T) {
		t.Parallel()

		p := parse(t, "+++Hidden\nsecret\n+++\n")
		spoiler := firstOfKind(t, p.Tree(), jdast.KindSpoiler)
		data, ok := jdast.DataAs[*jdast.SpoilerData](spoiler)
		require.True(t, ok)
		assert.False(t, data.OnSummary)
		assert.Equal(t, "Hidden", p.Tree().TextOf(data.Summary))
	})
}

func TestParser_InlinePayloads(t *testing.T) {
	t.Parallel()

	t.Run("link with title", func(t *testing.T) {
		t.Parallel()

		p := parse(t, "[see](http://x.y Title)\n")
		link := firstOfKind(t, p.Tree(), jdast.KindLink)
		data, ok := jdast.DataAs[*jdast.LinkData](link)
		require.True(t, ok)
		assert.Equal(t, "http://x.y", data.Link)
		assert.Equal(t, "Title", data.Title)
	})

	t.Run("image", func(t *testing.T) {
		t.Parallel()

		p := parse(t, "![alt](src.png)\n")
		image := firstOfKind(t, p.Tree(), jdast.KindImage)
		data, ok := jdast.DataAs[*jdast.LinkData](image)
		require.True(t, ok)
		assert.Equal(t, "src.png", data.Link)
		assert.Equal(t, "alt", p.Tree().Text(p.Tree().FindByKind(jdast.KindImage)[0]))
	})

	t.Run("email", func(t *testing.T) {
		t.Parallel()

		p := parse(t, "@[mail](me@x.io)\n")
		email := firstOfKind(t, p.Tree(), jdast.KindEmail)
		data, ok := jdast.DataAs[*jdast.LinkData](email)
		require.True(t, ok)
		assert.Equal(t, "me@x.io", data.Link)
	})

	t.Run("abbreviation", func(t *testing.T) {
		t.Parallel()

		p := parse(t, ">>HTML<<(HyperText Markup Language)\n")
		abbr := firstOfKind(t, p.Tree(), jdast.KindAbbr)
		data, ok := jdast.DataAs[*jdast.AbbrData](abbr)
		require.True(t, ok)
		assert.Equal(t, "HyperText Markup Language", data.FullText)
		assert.Equal(t, "HTML", p.Tree().Text(p.Tree().FindByKind(jdast.KindAbbr)[0]))
	})

	t.Run("code collapses whitespace", func(t *testing.T) {
		t.Parallel()

		p := parse(t, "`a   b`\n")
		assert.Equal(t, "a b", p.Tree().Text(p.Tree().FindByKind(jdast.KindCode)[0]))
	})

	t.Run("escaped marker is literal", func(t *testing.T) {
		t.Parallel()

		p := parse(t, "\\!!x\n")
		assert.Empty(t, p.Tree().FindByKind(jdast.KindStrong))
		assert.Equal(t, "!!x", p.Tree().Text(p.Tree().Blocks()[0]))
	})
}

func TestParser_References(t *testing.T) {
	t.Parallel()

	t.Run("citation before its definition", func(t *testing.T) {
		t.Parallel()

		p := parse(t, "a(^key) b\n\n(^key) Source\n")
		tree := p.Tree()

		citation := firstOfKind(t, tree, jdast.KindCitation)
		ref, ok := jdast.DataAs[*jdast.ReferenceData](citation)
		require.True(t, ok)
		assert.Equal(t, "key", ref.Key)
		assert.Equal(t, "a", ref.Index)

		definition := firstOfKind(t, tree, jdast.KindCitationDefinition)
		def, ok := jdast.DataAs[*jdast.DefinitionData](definition)
		require.True(t, ok)
		assert.Equal(t, "key", def.Key)
		assert.Equal(t, 1, def.Refs)
		assert.Equal(t, " Source", tree.Text(tree.FindByKind(jdast.KindCitationDefinition)[0]))
	})

	t.Run("footnote before its definition", func(t *testing.T) {
		t.Parallel()

		p := parse(t, "a[^1] b[^1]\n\n[^1] Note\n")
		tree := p.Tree()

		footnotes := tree.FindByKind(jdast.KindFootnote)
		require.Len(t, footnotes, 2)
		last, ok := jdast.DataAs[*jdast.ReferenceData](tree.Node(footnotes[1]))
		require.True(t, ok)
		assert.Equal(t, "2", last.Index)

		def, ok := jdast.DataAs[*jdast.DefinitionData](firstOfKind(t, tree, jdast.KindFootnoteDefinition))
		require.True(t, ok)
		assert.Equal(t, 2, def.Refs)
	})
}

func TestParser_Overrides(t *testing.T) {
	t.Parallel()

	t.Run("attached to the next block", func(t *testing.T) {
		t.Parallel()

		p := parse(t, "{$color: red; margin: 0$ #intro .a .b}\n#1 Title\n")
		tree := p.Tree()

		raw := firstOfKind(t, tree, jdast.KindOverrides)
		assert.Equal(t, "$color: red; margin: 0$ #intro .a .b", raw.Value)

		heading := firstOfKind(t, tree, jdast.KindHeading)
		require.NotNil(t, heading.Overrides)
		assert.Equal(t, []jdast.StyleDecl{
			{Property: "color", Value: "red"},
			{Property: "margin", Value: "0"},
		}, heading.Overrides.Style)
		assert.Equal(t, "intro", heading.Overrides.ID)
		assert.Equal(t, "a b", heading.Overrides.Classes)

		newline := firstOfKind(t, tree, jdast.KindNewline)
		assert.Nil(t, newline.Overrides)
	})

	t.Run("kept pending across a comment", func(t *testing.T) {
		t.Parallel()

		p := parse(t, "{.note}\n/* c */\n#1 Title\n")
		tree := p.Tree()

		comment := firstOfKind(t, tree, jdast.KindComment)
		assert.Nil(t, comment.Overrides)
		assert.Nil(t, tree.Node(comment.Children[0]).Overrides)

		heading := firstOfKind(t, tree, jdast.KindHeading)
		require.NotNil(t, heading.Overrides)
		assert.Equal(t, "note", heading.Overrides.Classes)
	})

	t.Run("inline before a paragraph", func(t *testing.T) {
		t.Parallel()

		p := parse(t, "{.note}para\n")
		text := firstOfKind(t, p.Tree(), jdast.KindText)
		require.NotNil(t, text.Overrides)
		assert.Equal(t, "note", text.Overrides.Classes)
	})
}

func TestParser_TableOfContents(t *testing.T) {
	t.Parallel()

	p := parse(t, ":toc:\n#1 A\n#2 B\n{#cee}\n#1 C\n")
	tree := p.Tree()

	require.NotEmpty(t, tree.Blocks())
	toc := tree.Node(tree.Blocks()[0])
	assert.Equal(t, jdast.KindUL, toc.Kind)

	want := []string{"#A", "#B", "#cee"}
	links := tree.FindByKind(jdast.KindLink)
	require.Len(t, links, len(want))
	for i, id := range links {
		data, ok := jdast.DataAs[*jdast.LinkData](tree.Node(id))
		require.True(t, ok)
		assert.Equal(t, want[i], data.Link, "link %d", i)
	}

	// B nests under A, C returns to the top level.
	assert.Len(t, toc.Children, 2)

	headings := tree.FindByKind(jdast.KindHeading)
	require.Len(t, headings, 3)
	data, ok := jdast.DataAs[*jdast.HeadingData](tree.Node(headings[0]))
	require.True(t, ok)
	assert.Equal(t, "A", data.ID)
}

func TestParser_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []error
	}{
		{name: "unclosed strong", input: "!!bold", want: []error{parser.ErrUnclosedToken}},
		{name: "text after rule", input: "---x\n", want: []error{parser.ErrNewlineRequired}},
		{name: "unclosed fences", input: "```go\ncode\n", want: []error{parser.ErrUnclosedToken}},
		{name: "unclosed block group", input: "{{\ntext\n", want: []error{parser.ErrUnclosedToken}},
		{name: "unterminated table row", input: "|a|b\n", want: []error{parser.ErrUnclosedToken}},
		{name: "unclosed overrides", input: "{.a", want: []error{parser.ErrUnclosedToken}},
		{name: "style without value", input: "{$color$}\n", want: []error{parser.ErrInvalidStyle}},
		{
			name:  "definition before use",
			input: "(^key) Source\n",
			want:  []error{parser.ErrValidation, validate.ErrDefinedBeforeUse},
		},
		{
			name:  "duplicate heading id",
			input: "#1 #a# A\n\n#1 #a# B\n",
			want:  []error{parser.ErrValidation, validate.ErrDuplicateID},
		},
		{
			name:  "duplicate footnote definition",
			input: "a[^1]\n\n[^1] X\n\n[^1] Y\n",
			want:  []error{validate.ErrDuplicateDefinition},
		},
		{
			name:  "invalid footnote key",
			input: "a[^!] b\n",
			want:  []error{validate.ErrInvalidChars},
		},
		{
			name:  "citation after footnote",
			input: "a[^k] b(^k)\n",
			want:  []error{validate.ErrNamespaceCollision},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := newParser(t).Parse(tt.input)
			require.Error(t, err)
			for _, want := range tt.want {
				assert.ErrorIs(t, err, want)
			}

			var pErr *parser.Error
			assert.ErrorAs(t, err, &pErr)
		})
	}
}

func TestParser_UnclosedMessage(t *testing.T) {
	t.Parallel()

	err := newParser(t).Parse("!!bold")

	var pErr *parser.Error
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, jdast.KindStrong, pErr.Node)
	assert.Equal(t, "bold", pErr.Near)
	assert.Equal(t, fmt.Sprintf("unclosed token 'strong' near %q", "bold"), err.Error())
}

func TestParser_ResetClearsDocumentState(t *testing.T) {
	t.Parallel()

	input := "#1 #a# Title\n"
	p := parse(t, input)

	require.Error(t, p.Feed(input), "second heading reuses the id")

	p.Reset()
	assert.Empty(t, p.ParsedTokens())
	assert.Empty(t, p.Tree().Blocks())
	require.NoError(t, p.Parse(input))
	assert.Len(t, p.Tree().Blocks(), 1)
	assert.NoError(t, p.Tree().Err())
}

func TestParser_OpenBlockGroupCountsAsEmpty(t *testing.T) {
	t.Parallel()

	p := newParser(t)
	require.NoError(t, p.Feed("{{\n"))
	assert.True(t, p.HasEmptyDepthStack())

	require.NoError(t, p.Feed("text"))
	assert.False(t, p.HasEmptyDepthStack())
}
