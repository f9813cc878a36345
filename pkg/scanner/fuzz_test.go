package scanner_test

import (
	"testing"

	"github.com/yaklabco/jotdown/pkg/jdast"
	"github.com/yaklabco/jotdown/pkg/rules"
	"github.com/yaklabco/jotdown/pkg/scanner"
)

// FuzzScan checks that chunking never changes the token stream.
func FuzzScan(f *testing.F) {
	seeds := []string{
		"",
		"plain text",
		"#1 Heading\n",
		"!!bold!! a{{b}}c `a   b`",
				". one\n  . two\n. three\n",
		"|a|b|\n|c|d|\n",
		"```go\nfunc main() {}\n```\n",
		"\\!!escaped\\\\",
		"{{\n#1 A\n}}\n",
		"/* comment */",
		"$$$\np {}\n$$$\n",
		"a[^1]\n\n[^1] X\n",
		"a\\",
	}
	for _, seed := range seeds {
		f.Add(seed, uint(len(seed)/2))
	}

	f.Fuzz(func(t *testing.T, input string, split uint) {
		whole, err := scanner.New(rules.Default())
		if err != nil {
			t.Fatal(err)
		}
		want := append(whole.Scan(input), whole.Flush()...)

		if !jdast.ValidateTokens(want, 0) {
			t.Fatalf("invalid token ranges for %q", input)
		}
		if whole.CharactersScanned() != len(input) {
			t.Fatalf("scanned %d characters, want %d", whole.CharactersScanned(), len(input))
		}

		cut := int(split % uint(len(input)+1))
		chunked, err := scanner.New(rules.Default())
		if err != nil {
			t.Fatal(err)
		}
		got := chunked.Scan(input[:cut])
		got = append(got, chunked.Scan(input[cut:])...)
		got = append(got, chunked.Flush()...)

		if values(got) != values(want) {
			t.Fatalf("split at %d: got %q, want %q", cut, values(got), values(want))
		}
	})
}
