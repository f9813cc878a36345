// Package jotdown compiles JotDown source to a document tree and HTML.
//
// A Document bundles one scanner, parser and renderer. It serves a single
// document at a time and is not safe for concurrent use; create one Document
// per goroutine.
package jotdown

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/jotdown/internal/logging"
	"github.com/yaklabco/jotdown/pkg/jdast"
	"github.com/yaklabco/jotdown/pkg/parser"
	"github.com/yaklabco/jotdown/pkg/render/html"
	"github.com/yaklabco/jotdown/pkg/rules"
	"github.com/yaklabco/jotdown/pkg/scanner"
	"github.com/yaklabco/jotdown/pkg/treedump"
)

// DebugOptions selects the components that emit debug records.
type DebugOptions struct {
	// All enables every component below.
	All bool

	Scanner   bool
	Parser    bool
	Special   bool
	Overrides bool

	// Tree logs a dump of the tree after Finish.
	Tree bool

	// Output logs the rendered HTML.
	Output bool
}

// Options configures a Document.
type Options struct {
	// Logger receives debug records. Nil uses the logging default.
	Logger *log.Logger
	Debug  DebugOptions

	// Rules replaces the default rule table.
	Rules []rules.Rule

	Standalone bool

	// Styles replaces the default stylesheet.
	Styles          string
	NoDefaultStyles bool

	Highlight      bool
	HighlightStyle string
	DetectLanguage bool
}

// Document is a JotDown compiler instance.
type Document struct {
	scanner  *scanner.Scanner
	parser   *parser.Parser
	renderer *html.Renderer

	treeLogger   *log.Logger
	outputLogger *log.Logger
	dumpTree     bool
	dumpOutput   bool
}

// New creates an empty Document.
func New(opts Options) (*Document, error) {
	debug := opts.Debug
	component := func(name string, enabled bool) *log.Logger {
		return logging.Component(opts.Logger, name, enabled || debug.All)
	}

	table := opts.Rules
	if table == nil {
		table = rules.Default()
	}

	sc, err := scanner.New(table, scanner.WithLogger(component("scanner", debug.Scanner)))
	if err != nil {
		return nil, fmt.Errorf("create scanner: %w", err)
	}

	p := parser.New(sc,
		parser.WithLogger(component("parser", debug.Parser)),
		parser.WithSpecialLogger(component("special", debug.Special)),
		parser.WithOverridesLogger(component("overrides", debug.Overrides)),
	)

	renderOpts := []html.Option{html.WithStandalone(opts.Standalone)}
	if opts.NoDefaultStyles || opts.Styles != "" {
		renderOpts = append(renderOpts, html.WithStyles(opts.Styles))
	}
	if opts.Highlight {
		renderOpts = append(renderOpts,
			html.WithHighlighting(opts.HighlightStyle),
			html.WithLanguageDetection(opts.DetectLanguage),
		)
	}

	return &Document{
		scanner:      sc,
		parser:       p,
		renderer:     html.New(renderOpts...),
		treeLogger:   component("tree", debug.Tree),
		outputLogger: component("output", debug.Output),
		dumpTree:     debug.Tree || debug.All,
		dumpOutput:   debug.Output || debug.All,
	}, nil
}

// Parse creates a Document and compiles source as a whole document.
func Parse(source string, opts Options) (*Document, error) {
	doc, err := New(opts)
	if err != nil {
		return nil, err
	}
	if _, err := doc.Rescan(source); err != nil {
		return doc, err
	}
	return doc, nil
}

// Read feeds chunk to the parser. It reports whether chunk produced any
// tokens; text held back as a partial match produces none until a later Read
// or Finish resolves it.
func (d *Document) Read(chunk string) (bool, error) {
	before := len(d.scanner.EmittedTokens())
	if err := d.parser.Feed(chunk); err != nil {
		return len(d.scanner.EmittedTokens()) > before, err
	}
	return len(d.scanner.EmittedTokens()) > before, nil
}

// Finish ends the document. See parser.Parser.Finish.
func (d *Document) Finish() error {
	if err := d.parser.Finish(); err != nil {
		return err
	}
	if d.dumpTree {
		d.treeLogger.Debug("tree\n" + treedump.String(treedump.FormatText, d.Tree()))
	}
	return nil
}

// Rescan discards the current document and compiles source from scratch.
func (d *Document) Rescan(source string) (bool, error) {
	d.Reset()
	scanned, err := d.Read(source)
	if err != nil {
		return scanned, err
	}
	return scanned, d.Finish()
}

// Reset clears all document state.
func (d *Document) Reset() {
	d.parser.Reset()
}

// Render returns the HTML for the current tree.
func (d *Document) Render() string {
	return d.RenderTree(d.Tree())
}

// RenderTree returns the HTML for tree using the Document's render options.
func (d *Document) RenderTree(tree *jdast.Tree) string {
	out := d.renderer.Render(tree)
	if d.dumpOutput {
		d.outputLogger.Debug("output\n" + out)
	}
	return out
}

// Tree returns the document tree.
func (d *Document) Tree() *jdast.Tree { return d.parser.Tree() }

// Blocks returns the top-level nodes in document order.
func (d *Document) Blocks() []*jdast.Node {
	tree := d.Tree()
	ids := tree.Blocks()
	nodes := make([]*jdast.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, tree.Node(id))
	}
	return nodes
}

// DepthStack returns a copy of the open-node stack.
func (d *Document) DepthStack() []jdast.DepthEntry { return d.parser.DepthStack() }

// MatchBuffer returns the partial match retained by the scanner.
func (d *Document) MatchBuffer() string { return d.scanner.MatchBuffer() }

// MatchedRules returns the rules still consistent with the match buffer.
func (d *Document) MatchedRules() []rules.Rule { return d.scanner.MatchedRules() }

// ParsedTokens returns every token the parser has consumed.
func (d *Document) ParsedTokens() []jdast.Token { return d.parser.ParsedTokens() }

// CharactersScanned returns the number of source bytes scanned.
func (d *Document) CharactersScanned() int { return d.scanner.CharactersScanned() }

// EmittedTokens returns every token the scanner has emitted.
func (d *Document) EmittedTokens() []jdast.Token { return d.scanner.EmittedTokens() }

// RawStream returns the source scanned so far.
func (d *Document) RawStream() string { return d.scanner.RawStream() }

// HasEmptyDepthStack reports whether every opened node has been closed.
func (d *Document) HasEmptyDepthStack() bool { return d.parser.HasEmptyDepthStack() }
