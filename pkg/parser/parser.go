// Package parser turns the JotDown token stream into a document tree.
//
// A Parser owns one scanner, one tree and one validator and serves a single
// document at a time. Tokens are routed by the current mode to the base,
// special (tables, lists, table of contents) or overrides parser, all of
// which share one parse state.
package parser

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/jotdown/pkg/jdast"
	"github.com/yaklabco/jotdown/pkg/rules"
	"github.com/yaklabco/jotdown/pkg/scanner"
	"github.com/yaklabco/jotdown/pkg/validate"
)

// Option configures a Parser.
type Option func(*Parser)

// WithLogger traces token dispatch.
func WithLogger(logger *log.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithSpecialLogger traces table, list and table of contents operations.
func WithSpecialLogger(logger *log.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.specialLogger = logger
		}
	}
}

// WithOverridesLogger traces parsed override blocks.
func WithOverridesLogger(logger *log.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.overridesLogger = logger
		}
	}
}

// Parser is the mode router. It is not safe for concurrent use.
type Parser struct {
	scanner   *scanner.Scanner
	validator *validate.Validator

	base      *baseParser
	special   *specialParser
	overrides *overridesParser

	logger          *log.Logger
	specialLogger   *log.Logger
	overridesLogger *log.Logger

	parsed []jdast.Token
}

// New creates a Parser reading tokens from sc.
func New(sc *scanner.Scanner, opts ...Option) *Parser {
	discard := log.New(io.Discard)
	p := &Parser{
		scanner:         sc,
		validator:       validate.New(),
		logger:          discard,
		specialLogger:   discard,
		overridesLogger: discard,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.base = newBaseParser(p.validator, p.logger)
	p.special = newSpecialParser(p.base, p.specialLogger)
	p.overrides = newOverridesParser(p.base, p.overridesLogger)
	return p
}

// Feed scans chunk and parses every token it completes. Partial matches stay
// in the scanner until a later chunk or Finish resolves them.
func (p *Parser) Feed(chunk string) error {
	return p.dispatch(p.scanner.Scan(chunk))
}

// Parse feeds input as one chunk and finishes the document.
func (p *Parser) Parse(input string) error {
	if err := p.Feed(input); err != nil {
		return err
	}
	return p.Finish()
}

// Reset clears the scanner, the tree and the validator tables.
func (p *Parser) Reset() {
	p.scanner.Reset()
	p.validator.Reset()
	p.base.reset()
	p.special.reset()
	p.overrides.reset()
	p.parsed = nil
}

// Tree returns the document tree built so far.
func (p *Parser) Tree() *jdast.Tree {
	return p.base.tree
}

// Scanner returns the scanner feeding the parser.
func (p *Parser) Scanner() *scanner.Scanner {
	return p.scanner
}

// ParsedTokens returns every token dispatched so far.
func (p *Parser) ParsedTokens() []jdast.Token {
	return p.parsed
}

// DepthStack returns a copy of the tree's open-node stack.
func (p *Parser) DepthStack() []jdast.DepthEntry {
	return p.base.tree.DepthStack()
}

// HasEmptyDepthStack reports whether every opened node has been closed. An
// open block group alone still counts as empty.
func (p *Parser) HasEmptyDepthStack() bool {
	depth := p.base.tree.Depth()
	return depth == 0 || (depth == 1 && p.base.blockGroupMode)
}

func (p *Parser) dispatch(tokens []jdast.Token) error {
	for _, tok := range tokens {
		if err := p.next(tok); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) next(tok jdast.Token) error {
	if tok.Value == "" {
		return nil
	}
	p.logger.Debug("dispatch", "token", tok.Type, "value", tok.Value, "mode", p.base.mode, "sub", p.base.sub)

	if err := p.route(tok); err != nil {
		return err
	}
	p.parsed = append(p.parsed, tok)

	if err := p.base.tree.Err(); err != nil {
		return &Error{Kind: ErrTreeState, Token: tok, Node: kindOf(p.base.tree.Current()), Err: err}
	}
	return nil
}

func (p *Parser) route(tok jdast.Token) error {
	b := p.base

	if b.ignoreUntil != "" && b.ignoreUntil != tok.Type {
		b.tree.PushBlank(tok)
		return nil
	}

	if tok.Type == rules.TOC && b.mode == modeNewline && !b.overridesMode {
		if b.requiresNewline {
			return b.newlineRequired(tok)
		}
		p.special.setupTOC(tok)
		return nil
	}

	if b.mode == modeHeading && tok.Type == rules.Newline {
		if err := p.special.parseTOC(tok); err != nil {
			return err
		}
	}

	switch {
	case b.overridesMode:
		return p.overrides.parse(tok)
	case b.mode == modeNewline:
		return b.parseBlock(tok)
	case b.mode == modeTable:
		return p.special.parseTable(tok)
	case b.mode == modeList:
		return p.special.parseList(tok)
	default:
		return b.parseInline(tok)
	}
}

// Finish flushes the scanner and closes what the end of input closes: an
// open paragraph, heading or definition, the list levels, a table whose last
// row was terminated and a pending mandatory newline. Anything else still
// open is reported as unclosed.
func (p *Parser) Finish() error {
	if err := p.dispatch(p.scanner.Flush()); err != nil {
		return err
	}

	b := p.base
	eof := jdast.Token{Type: rules.Newline, Value: "\n", Start: p.scanner.CharactersScanned(), End: p.scanner.CharactersScanned()}

	if b.ignoreUntil != "" {
		kind, ok := ignoreKinds[b.ignoreUntil]
		if !ok {
			kind = kindOf(b.tree.Current())
		}
		return b.unclosed(eof, kind)
	}
	if b.overridesMode {
		return b.unclosed(eof, jdast.KindOverrides)
	}

	switch b.mode {
	case modeText:
		if err := p.closeParagraph(eof); err != nil {
			return err
		}
	case modeHeading, modeCitationDefinition, modeFootnoteDefinition:
		if err := p.route(eof); err != nil {
			return err
		}
	case modeTable:
		if p.special.table.prevOp != tableCloseRow {
			return b.unclosed(eof, kindOf(b.tree.Current()))
		}
		if err := p.special.closeTable(eof); err != nil {
			return err
		}
		b.mode = modeNewline
	case modeList:
		b.tree.PopIfBlank(eof)
		p.special.closeLists(eof)
		p.special.list.reset()
		b.mode = modeNewline
	case modeFences, modeBlockquote, modeSpoiler:
		kind, _ := b.mode.kind()
		return b.unclosed(eof, kind)
	}

	b.requiresNewline = false
	if b.blockGroupMode {
		return b.unclosed(eof, jdast.KindDiv)
	}

	b.tree.PopIfBlank(eof)
	if top, ok := b.tree.Top(); ok {
		return b.unclosed(eof, top.Kind)
	}
	if err := b.tree.Err(); err != nil {
		return &Error{Kind: ErrTreeState, Token: eof, Err: err}
	}

	p.logger.Debug("finish", "tokens", len(p.parsed), "blocks", len(b.tree.Blocks()))
	return nil
}

// closeParagraph ends the open paragraph without adding a newline node the
// input never contained.
func (p *Parser) closeParagraph(eof jdast.Token) error {
	b := p.base
	b.tree.PopIfBlank(eof)
	if err := b.validateDepthStack(eof, jdast.KindText); err != nil {
		return err
	}
	if top, ok := b.tree.Top(); ok && top.Kind == jdast.KindText {
		b.tree.Push(jdast.Spec(jdast.KindText, eof))
	}
	b.mode = modeNewline
	b.doubleNewline = false
	return nil
}

// String summarises the parse state for debugging.
func (p *Parser) String() string {
	return fmt.Sprintf("mode=%s sub=%s depth=%d tokens=%d", p.base.mode, p.base.sub, p.base.tree.Depth(), len(p.parsed))
}
