package jotdown_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/jotdown/pkg/jotdown"
)

// benchmarkDocument mixes the common block and inline constructs.
func benchmarkDocument(sections int) string {
	section := "#1 Title\n\n!!bold!! text and `code`\n\n. a\n  . b\n. c\n\n```go\nx := 1\n```\n\n"
	return strings.Repeat(section, sections)
}

func BenchmarkParse(b *testing.B) {
	source := benchmarkDocument(50)
	b.SetBytes(int64(len(source)))

	b.ResetTimer()
	for range b.N {
		if _, err := jotdown.Parse(source, jotdown.Options{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRescan(b *testing.B) {
	source := benchmarkDocument(50)
	doc, err := jotdown.New(jotdown.Options{})
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(source)))

	b.ResetTimer()
	for range b.N {
		if _, err := doc.Rescan(source); err != nil {
			b.Fatal(err)
		}
		_ = doc.Render()
	}
}

func BenchmarkReadChunks(b *testing.B) {
	source := benchmarkDocument(50)
	const chunk = 64
	doc, err := jotdown.New(jotdown.Options{})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for range b.N {
		doc.Reset()
		for i := 0; i < len(source); i += chunk {
			if _, err := doc.Read(source[i:min(i+chunk, len(source))]); err != nil {
				b.Fatal(err)
			}
		}
		if err := doc.Finish(); err != nil {
			b.Fatal(err)
		}
	}
}
