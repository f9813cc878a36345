package parser

import (
	"github.com/yaklabco/jotdown/pkg/jdast"
	"github.com/yaklabco/jotdown/pkg/rules"
)

type listOp int

const (
	listNone listOp = iota
	listNewList
	listAddItem
	listAddTask
	listEndList
	listIgnoreInput
)

var listOpNames = map[listOp]string{
	listNone:        "none",
	listNewList:     "newList",
	listAddItem:     "addItem",
	listAddTask:     "addTask",
	listEndList:     "endList",
	listIgnoreInput: "ignoreInput",
}

func (op listOp) String() string {
	return listOpNames[op]
}

// listState tracks indentation. levels holds the leading-space count of
// every open list, outermost first.
type listState struct {
	prevOp listOp
	indent int
	levels []int
}

func (l *listState) reset() {
	l.prevOp = listNone
	l.indent = 0
	l.levels = []int{0}
}

// parseList handles a token inside a list.
func (s *specialParser) parseList(tok jdast.Token) error {
	b := s.base
	op := listNone

	switch {
	case tok.Type == rules.TaskItem || tok.Type == rules.CheckedTaskItem:
		item := b.safe(false)
		if item == nil || item.Kind != jdast.KindListItem {
			return &Error{Kind: ErrPayload, Token: tok, Node: kindOf(item)}
		}
		item.Data = &jdast.ListItemData{Task: true, Checked: tok.Type == rules.CheckedTaskItem}
		op = listAddTask

	case s.list.prevOp != listNewList && tok.Type == rules.Space:
		s.list.indent++
		op = listIgnoreInput

	case s.list.prevOp == listIgnoreInput && tok.Type != rules.UL && tok.Type != rules.OL:
		b.tree.PopIfBlank(tok)
		s.closeLists(tok)
		s.list.reset()
		s.list.prevOp = listEndList
		s.logger.Debug("list", "token", tok.Type, "op", listEndList)
		return b.parseBlock(tok)

	case tok.Type == rules.UL || tok.Type == rules.OL:
		if s.list.indent > s.list.levels[len(s.list.levels)-1] {
			s.list.levels = append(s.list.levels, s.list.indent)
			b.tree.Push(
				jdast.NodeSpec{Kind: jdast.Kind(tok.Type), Start: tok.Start, End: tok.Start},
				jdast.Spec(jdast.KindListItem, tok),
			)
			op = listNewList
			break
		}
		if err := b.validateDepthStack(tok, jdast.KindListItem); err != nil {
			return err
		}
		b.pushClose(jdast.KindListItem, tok)
		if err := s.popListLevels(tok); err != nil {
			return err
		}
		b.tree.Push(jdast.Spec(jdast.KindListItem, tok))
		op = listAddItem

	case tok.Type == rules.Newline:
		b.tree.PopIfBlank(tok)
		if err := b.validateDepthStack(tok, jdast.KindListItem); err != nil {
			return err
		}
		s.list.indent = 0
		op = listIgnoreInput

	default:
		if err := b.parseInline(tok); err != nil {
			return err
		}
	}

	s.list.prevOp = op
	s.logger.Debug("list", "token", tok.Type, "op", op, "indent", s.list.indent, "levels", s.list.levels)
	return nil
}

// popListLevels closes nested lists deeper than the current indentation.
func (s *specialParser) popListLevels(tok jdast.Token) error {
	b := s.base
	target := len(s.list.levels) - 1
	for i, level := range s.list.levels {
		if level >= s.list.indent {
			target = i
			break
		}
	}

	for toPop := len(s.list.levels) - 1 - target; toPop > 0; {
		cur := b.safe(false)
		if cur == nil {
			return b.unclosed(tok, jdast.KindListItem)
		}
		progressed := false
		if cur.Kind.IsList() {
			b.pushClose(cur.Kind, tok)
			s.list.levels = s.list.levels[:len(s.list.levels)-1]
			toPop--
			progressed = true
			cur = b.safe(false)
		}
		if cur != nil && cur.Kind == jdast.KindListItem {
			b.pushClose(jdast.KindListItem, tok)
			progressed = true
		}
		if !progressed {
			return b.unclosed(tok, cur.Kind)
		}
	}
	return nil
}

// closeLists closes every open list item and list on top of the stack.
func (s *specialParser) closeLists(tok jdast.Token) {
	for {
		top, ok := s.base.tree.Top()
		if !ok || (top.Kind != jdast.KindListItem && !top.Kind.IsList()) {
			return
		}
		s.base.pushClose(top.Kind, tok)
	}
}
