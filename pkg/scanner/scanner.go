// Package scanner turns JotDown source into tokens using an ordered rule
// table. It resolves ambiguous prefixes by backtracking and can be fed one
// logical stream in several chunks.
package scanner

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/jotdown/pkg/jdast"
	"github.com/yaklabco/jotdown/pkg/rules"
)

const (
	// DefaultEscape protects the character that follows it.
	DefaultEscape = '\\'

	// DefaultStartOfStream is scanned before any input so that start-of-line
	// lookbehinds hold for the first line.
	DefaultStartOfStream = "\n"
)

// ConfigError reports a rule whose name-based lookbehind references a rule
// name that does not exist in the table.
type ConfigError struct {
	Rule    rules.Rule
	Missing string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rule %q (literal %q) has invalid lookbehind rule name %q",
		e.Rule.Name, e.Rule.Literal, e.Missing)
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithEscape sets the escape character.
func WithEscape(escape byte) Option {
	return func(s *Scanner) {
		s.escape = escape
	}
}

// WithStartOfStream sets the text scanned at construction and after Reset.
// An empty value disables the start-of-stream token.
func WithStartOfStream(sof string) Option {
	return func(s *Scanner) {
		s.sof = sof
	}
}

// WithLogger sets the logger that receives a debug record per emitted token.
func WithLogger(logger *log.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Scanner tokenizes one logical stream. It is not safe for concurrent use.
type Scanner struct {
	escape byte
	sof    string
	table  []rules.Rule
	logger *log.Logger

	matched  []rules.Rule
	matchBuf string
	outBuf   string

	chars   int
	emitted []jdast.Token
	raw     strings.Builder
}

// New returns a scanner for table with the start-of-stream text already
// scanned. It fails when a lookbehind names a rule missing from table.
func New(table []rules.Rule, opts ...Option) (*Scanner, error) {
	s := &Scanner{
		escape: DefaultEscape,
		sof:    DefaultStartOfStream,
		table:  table,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	if rule, ok := rules.Validate(table); !ok {
		return nil, &ConfigError{Rule: rule, Missing: rule.LookBehind.RuleName}
	}

	s.start()
	return s, nil
}

// Scan consumes chunk and returns every token it could resolve. A trailing
// partial match is retained for the next call; unmatched text is emitted.
func (s *Scanner) Scan(chunk string) []jdast.Token {
	tokens := s.tokenize(chunk, nil)
	return s.flushOutput(tokens)
}

// Flush resolves a retained partial match at end of input. The buffered text
// is emitted as the longest rule it still satisfies followed by literal text.
func (s *Scanner) Flush() []jdast.Token {
	var tokens []jdast.Token
	for s.matchBuf != "" {
		buffered := s.matchBuf
		s.matchBuf = ""

		if len(s.matched) == 0 {
			// Only a lone escape is retained without candidates.
			tokens = s.flushOutput(tokens)
			tokens = append(tokens, s.emit("", buffered, false))
			continue
		}

		candidates := s.matched
		s.matched = nil
		if rule, ok := s.prefixRule(candidates, buffered); ok {
			tokens = s.flushOutput(tokens)
			tokens = append(tokens, s.emit(rule.Name, buffered[:len(rule.Literal)], true))
			tokens = s.tokenize(buffered[len(rule.Literal):], tokens)
			continue
		}
		s.outBuf += buffered[:1]
		tokens = s.tokenize(buffered[1:], tokens)
	}
	return s.flushOutput(tokens)
}

// Reset clears all buffers and history and rescans the start-of-stream text.
func (s *Scanner) Reset() {
	s.matched = nil
	s.matchBuf = ""
	s.outBuf = ""
	s.emitted = nil
	s.raw.Reset()
	s.start()
}

// MatchBuffer returns the retained ambiguous text.
func (s *Scanner) MatchBuffer() string { return s.matchBuf }

// MatchedRules returns the candidates for the retained text.
func (s *Scanner) MatchedRules() []rules.Rule { return s.matched }

// OutputBuffer returns text known to match no rule that is not yet emitted.
func (s *Scanner) OutputBuffer() string { return s.outBuf }

// EmittedTokens returns every token emitted since construction or Reset,
// including the start-of-stream token.
func (s *Scanner) EmittedTokens() []jdast.Token { return s.emitted }

// RawStream returns the raw text of every emitted token.
func (s *Scanner) RawStream() string { return s.raw.String() }

// CharactersScanned returns the offset the next token starts at.
func (s *Scanner) CharactersScanned() int { return s.chars }

func (s *Scanner) start() {
	s.chars = 0
	if s.sof != "" {
		s.Scan(s.sof)
	}
	s.chars = 0
}

// tokenize consumes input byte by byte. Backtracking prepends the unresolved
// remainder to the pending input instead of recursing.
func (s *Scanner) tokenize(input string, tokens []jdast.Token) []jdast.Token {
	for input != "" {
		s.matchBuf += input[:1]
		input = input[1:]

		candidates := s.matched
		if len(candidates) == 0 {
			candidates = s.table
		}

		found := s.filter(candidates, s.matchBuf)

		switch {
		case len(found) == 0 && len(s.matched) > 0:
			buffered := s.matchBuf
			s.matchBuf = ""
			s.matched = nil
			if rule, ok := s.prefixRule(candidates, buffered); ok {
				tokens = s.flushOutput(tokens)
				tokens = append(tokens, s.emit(rule.Name, buffered[:len(rule.Literal)], true))
				input = buffered[len(rule.Literal):] + input
				continue
			}
			s.outBuf += buffered[:1]
			input = buffered[1:] + input

		case len(found) == 0:
			if !s.isEscape(s.matchBuf) {
				s.outBuf += s.matchBuf
				s.matchBuf = ""
			}

		case len(found) == 1 && found[0].Literal == s.matchBuf:
			tokens = s.flushOutput(tokens)
			tokens = append(tokens, s.emit(found[0].Name, s.matchBuf, true))
			s.matchBuf = ""
			s.matched = nil

		default:
			s.matched = found
		}
	}
	return tokens
}

// filter returns the candidates whose literal starts with buffered and whose
// lookbehind holds.
func (s *Scanner) filter(candidates []rules.Rule, buffered string) []rules.Rule {
	var found []rules.Rule
	for _, rule := range candidates {
		if strings.HasPrefix(rule.Literal, buffered) && s.lookBehind(rule) {
			found = append(found, rule)
		}
	}
	return found
}

// prefixRule returns the first candidate whose whole literal starts buffered.
func (s *Scanner) prefixRule(candidates []rules.Rule, buffered string) (rules.Rule, bool) {
	for _, rule := range candidates {
		if strings.HasPrefix(buffered, rule.Literal) && s.lookBehind(rule) {
			return rule, true
		}
	}
	return rules.Rule{}, false
}

func (s *Scanner) lookBehind(rule rules.Rule) bool {
	lb := rule.LookBehind
	if lb == nil {
		return true
	}

	if lb.RuleName != "" {
		if len(s.emitted) == 0 {
			return lb.Negative
		}
		last := s.emitted[len(s.emitted)-1]
		return (last.Type == lb.RuleName) != lb.Negative
	}

	check := s.outBuf
	if dif := len(lb.Literal) - len(check); dif > 0 {
		raw := s.raw.String()
		check = tail(raw, dif) + check
		// An escaped character cannot satisfy a literal lookbehind.
		if idx := len(raw) - dif - 1; idx >= 0 && raw[idx] == s.escape {
			check += string(s.escape)
		}
	}
	return (check == lb.Literal) != lb.Negative
}

func (s *Scanner) flushOutput(tokens []jdast.Token) []jdast.Token {
	if s.outBuf == "" {
		return tokens
	}
	tok := s.emit("", s.outBuf, true)
	s.outBuf = ""
	return append(tokens, tok)
}

// emit records a token for raw. Offsets count raw bytes; with unescape set the
// value drops each escape that is not itself escaped.
func (s *Scanner) emit(name, raw string, unescape bool) jdast.Token {
	value := raw
	if unescape {
		value = s.unescape(raw)
	}
	tok := jdast.Token{
		Type:  name,
		Value: value,
		Start: s.chars,
		End:   s.chars + len(raw),
	}
	s.chars = tok.End
	s.raw.WriteString(raw)
	s.emitted = append(s.emitted, tok)

	s.logger.Debug("token", "type", tok.Type, "value", tok.Value, "start", tok.Start, "end", tok.End)
	return tok
}

func (s *Scanner) unescape(raw string) string {
	if strings.IndexByte(raw, s.escape) < 0 {
		return raw
	}
	var builder strings.Builder
	builder.Grow(len(raw))
	escaped := false
	for i := 0; i < len(raw); i++ {
		if raw[i] == s.escape && !escaped {
			escaped = true
			continue
		}
		escaped = false
		builder.WriteByte(raw[i])
	}
	return builder.String()
}

func (s *Scanner) isEscape(buffered string) bool {
	return len(buffered) == 1 && buffered[0] == s.escape
}

func tail(text string, n int) string {
	if n >= len(text) {
		return text
	}
	return text[len(text)-n:]
}
