package parser

import (
	"github.com/yaklabco/jotdown/pkg/jdast"
	"github.com/yaklabco/jotdown/pkg/rules"
)

type tableOp int

const (
	tableNone tableOp = iota
	tableNewRow
	tableStartHeader
	tableEndHeader
	tableCloseCell
	tableCloseRow
	tableCloseTable
)

var tableOpNames = map[tableOp]string{
	tableNone:        "none",
	tableNewRow:      "newRow",
	tableStartHeader: "startHeader",
	tableEndHeader:   "endHeader",
	tableCloseCell:   "closeCell",
	tableCloseRow:    "closeRow",
	tableCloseTable:  "closeTable",
}

func (op tableOp) String() string {
	return tableOpNames[op]
}

type tableState struct {
	prevOp    tableOp
	hasHeader bool
	row       int
}

func (t *tableState) reset() {
	*t = tableState{}
}

// parseTable handles a token inside a table. Bracketed cells on the first
// row form the header. A row terminator not followed by a new row ends the
// table and the token is parsed as the start of the next block.
func (s *specialParser) parseTable(tok jdast.Token) error {
	b := s.base
	op := tableNone

	switch tok.Type {
	case rules.LeftBrac:
		if s.table.row == 0 {
			data, err := payloadOf[*jdast.TableData](b.safe(true), tok)
			if err != nil {
				return err
			}
			s.table.hasHeader = true
			data.HasHeader = true
			b.tree.Push(jdast.Spec(jdast.KindTableHeader, tok))
			op = tableStartHeader
		}

	case rules.RightBrac:
		if s.table.row == 0 && s.table.hasHeader {
			if err := b.validateDepthStack(tok, jdast.KindTableCell); err != nil {
				return err
			}
			b.tree.Push(jdast.Spec(jdast.KindTableCell, tok), jdast.Spec(jdast.KindTableHeader, tok))
			op = tableEndHeader
		}

	case rules.TableRowStart:
		if err := b.validateDepthStack(tok, jdast.KindTable); err != nil {
			return err
		}
		b.tree.Push(jdast.Spec(jdast.KindTableRow, tok))
		op = tableNewRow

	case rules.Pipe:
		if err := b.validateDepthStack(tok, jdast.KindTableCell); err != nil {
			return err
		}
		b.tree.Push(jdast.Spec(jdast.KindTableCell, tok))
		op = tableCloseCell

	case rules.TableRowEnd:
		s.table.row++
		if cur := b.safe(false); cur == nil || cur.Kind != jdast.KindTableRow {
			if err := b.validateDepthStack(tok, jdast.KindTableCell); err != nil {
				return err
			}
			b.tree.Push(jdast.Spec(jdast.KindTableCell, tok))
		}
		if err := b.validateDepthStack(tok, jdast.KindTableRow); err != nil {
			return err
		}
		b.tree.Push(jdast.Spec(jdast.KindTableRow, tok))
		op = tableCloseRow
	}

	if s.table.prevOp == tableCloseRow && op != tableNewRow {
		if err := s.closeTable(tok); err != nil {
			return err
		}
		s.table.prevOp = tableCloseTable
		s.logger.Debug("table", "token", tok.Type, "op", tableCloseTable)
		return b.parseBlock(tok)
	}

	if op == tableNone {
		if cur := b.safe(false); cur != nil && (cur.Kind == jdast.KindTableRow || cur.Kind == jdast.KindTableHeader) {
			b.tree.Push(jdast.Spec(jdast.KindTableCell, tok))
		}
		if err := b.parseInline(tok); err != nil {
			return err
		}
	}

	s.table.prevOp = op
	s.logger.Debug("table", "token", tok.Type, "op", op, "row", s.table.row)
	return nil
}

func (s *specialParser) closeTable(tok jdast.Token) error {
	if err := s.base.validateDepthStack(tok, jdast.KindTable); err != nil {
		return err
	}
	s.base.pushClose(jdast.KindTable, tok)
	s.table.reset()
	return nil
}
