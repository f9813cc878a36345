package jdast

import "fmt"

// Token is a resolved lexical unit. Start and End are byte offsets into the
// source and accumulate across every scan of one stream. Value has escape
// characters removed, so it can be shorter than End-Start.
type Token struct {
	// Type is the rule name, or empty for literal text.
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
}

// IsBlank reports whether the token carries literal text rather than syntax.
func (t Token) IsBlank() bool {
	return t.Type == ""
}

// Len returns the number of raw bytes the token consumed.
func (t Token) Len() int {
	return t.End - t.Start
}

func (t Token) String() string {
	name := t.Type
	if name == "" {
		name = "text"
	}
	return fmt.Sprintf("%s %q [%d:%d]", name, t.Value, t.Start, t.End)
}

// ValidateTokens reports whether tokens are contiguous, starting at offset
// start. Token streams produced by a single scanner always satisfy this.
func ValidateTokens(tokens []Token, start int) bool {
	offset := start
	for _, tok := range tokens {
		if tok.Start != offset || tok.End < tok.Start {
			return false
		}
		offset = tok.End
	}
	return true
}
