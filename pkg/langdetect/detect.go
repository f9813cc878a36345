// Package langdetect guesses the language of a fenced block that declares
// none, so the renderer can pick a syntax highlighter for it.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/go-enry/go-enry/v2"
)

// Unknown is returned when no strategy is confident.
const Unknown = ""

// probe reports a language for source it recognises with certainty.
type probe struct {
	lang  string
	match func(source []byte) bool
}

//nolint:gochecknoglobals // Read-only probe table, checked in order.
var probes = []probe{
	{lang: "go", match: func(src []byte) bool {
		return bytes.HasPrefix(bytes.TrimSpace(src), []byte("package "))
	}},
	{lang: "python", match: func(src []byte) bool {
		return bytes.Contains(src, []byte("def ")) && bytes.Contains(src, []byte("):")) ||
			bytes.Contains(src, []byte("__name__"))
	}},
	{lang: "html", match: func(src []byte) bool {
		lower := bytes.ToLower(src)
		return bytes.Contains(lower, []byte("<!doctype html")) || bytes.Contains(lower, []byte("<html"))
	}},
	{lang: "json", match: func(src []byte) bool {
		trimmed := bytes.TrimSpace(src)
		return (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
			bytes.Contains(trimmed, []byte(`":`))
	}},
	{lang: "sql", match: func(src []byte) bool {
		upper := strings.ToUpper(strings.TrimSpace(string(src)))
		for _, verb := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, verb) {
				return true
			}
		}
		return false
	}},
	{lang: "rust", match: func(src []byte) bool {
		return bytes.Contains(src, []byte("fn main()")) || bytes.Contains(src, []byte("let mut "))
	}},
	{lang: "javascript", match: func(src []byte) bool {
		return bytes.Contains(src, []byte("=>")) || bytes.Contains(src, []byte("console.log"))
	}},
	{lang: "yaml", match: isYAML},
}

//nolint:gochecknoglobals // Classifier candidates, most common first.
var candidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript", "Ruby", "Rust",
	"Java", "C", "C++", "SQL", "JSON", "YAML", "HTML", "CSS", "Dockerfile",
}

// Detect returns a chroma lexer name for source, or Unknown.
func Detect(source string) string {
	src := []byte(source)
	if len(bytes.TrimSpace(src)) == 0 {
		return Unknown
	}

	if lang, safe := enry.GetLanguageByShebang(src); safe {
		return normalize(lang)
	}

	for _, p := range probes {
		if p.match(src) {
			return p.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(src, candidates); safe && lang != "" {
		return normalize(lang)
	}

	if lexer := lexers.Analyse(source); lexer != nil {
		return normalize(lexer.Config().Name)
	}
	return Unknown
}

// Supported reports whether lang names a lexer the highlighter can use.
func Supported(lang string) bool {
	return lang != Unknown && lexers.Get(lang) != nil
}

func isYAML(src []byte) bool {
	pairs := 0
	for _, line := range bytes.Split(src, []byte("\n")) {
		line = bytes.TrimSpace(line)
		switch {
		case len(line) == 0 || line[0] == '#':
		case bytes.HasPrefix(line, []byte("- ")):
			pairs++
		case bytes.Contains(line, []byte(": ")) && !bytes.ContainsAny(line, `({"`):
			pairs++
		}
	}
	return pairs >= 2
}

func normalize(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
