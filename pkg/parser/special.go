package parser

import "github.com/charmbracelet/log"

// specialParser handles the constructs whose structure spans several lines:
// tables, nested lists and the table of contents.
type specialParser struct {
	base   *baseParser
	logger *log.Logger

	table tableState
	list  listState
	toc   tocState
}

func newSpecialParser(base *baseParser, logger *log.Logger) *specialParser {
	s := &specialParser{base: base, logger: logger}
	s.reset()
	return s
}

func (s *specialParser) reset() {
	s.table.reset()
	s.list.reset()
	s.toc.reset()
}
