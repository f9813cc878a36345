package html

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// highlighter colours fenced code with inline styles so the output needs no
// extra stylesheet.
type highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

func newHighlighter(styleName string) *highlighter {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &highlighter{
		style:     style,
		formatter: chromahtml.New(chromahtml.PreventSurroundingPre(true)),
	}
}

// highlight writes source coloured as language. It reports false without
// writing when no lexer handles language.
func (h *highlighter) highlight(w io.Writer, language, source string) (bool, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return false, nil
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, source)
	if err != nil {
		return false, fmt.Errorf("tokenise %s: %w", language, err)
	}
	if err := h.formatter.Format(w, h.style, iterator); err != nil {
		return false, fmt.Errorf("format %s: %w", language, err)
	}
	return true, nil
}
