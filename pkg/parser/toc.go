package parser

import (
	"github.com/yaklabco/jotdown/pkg/jdast"
)

type tocOp int

const (
	tocNone tocOp = iota
	tocSubLevel
	tocSameLevel
	tocSupLevel
)

var tocOpNames = map[tocOp]string{
	tocNone:      "none",
	tocSubLevel:  "subLevel",
	tocSameLevel: "sameLevel",
	tocSupLevel:  "supLevel",
}

func (op tocOp) String() string {
	return tocOpNames[op]
}

// tocState holds the table of contents built from headings that follow the
// marker. The fragment lives in its own tree and is copied over the marker
// on every change.
type tocState struct {
	active bool
	marker jdast.DepthEntry
	start  int
	end    int
	tree   *jdast.Tree
	levels []int
	prevOp tocOp
}

func (t *tocState) reset() {
	if t.tree == nil {
		t.tree = jdast.NewTree()
	}
	t.tree.Reset()
	t.active = false
	t.marker = jdast.DepthEntry{}
	t.start, t.end = 0, 0
	t.levels = nil
	t.prevOp = tocNone
}

// setupTOC records the position of a table of contents marker.
func (s *specialParser) setupTOC(tok jdast.Token) {
	b := s.base
	b.requiresNewline = true
	b.pushSkip(jdast.KindTOC, tok)
	s.toc.marker, s.toc.active = b.tree.Top()
	s.toc.start = tok.Start
	s.toc.end = tok.End
	b.tree.Push(jdast.Spec(jdast.KindTOC, tok))
}

// parseTOC adds the heading being closed to the table of contents.
func (s *specialParser) parseTOC(tok jdast.Token) error {
	if !s.toc.active {
		return nil
	}
	b := s.base
	headingID := b.safeID(true)
	heading := b.tree.Node(headingID)
	data, err := payloadOf[*jdast.HeadingData](heading, tok)
	if err != nil {
		return err
	}

	text := b.tree.Text(headingID)
	anchor := data.ID
	if anchor == "" && heading.Overrides != nil {
		anchor = heading.Overrides.ID
	}
	if anchor == "" {
		data.ID = text
		anchor = text
	}

	entry := []jdast.NodeSpec{
		{Kind: jdast.KindListItem},
		{Kind: jdast.KindLink, Data: &jdast.LinkData{Link: "#" + anchor}},
		{Kind: jdast.KindBlank, Value: text},
		{Kind: jdast.KindLink},
	}

	toc := s.toc.tree
	current := 0
	if len(s.toc.levels) > 0 {
		current = s.toc.levels[len(s.toc.levels)-1]
	}

	var op tocOp
	switch {
	case data.Level > current:
		toc.Push(append([]jdast.NodeSpec{{Kind: jdast.KindUL}}, entry...)...)
		s.toc.levels = append(s.toc.levels, data.Level)
		op = tocSubLevel
	case data.Level == current:
		toc.Push(append([]jdast.NodeSpec{{Kind: jdast.KindListItem}}, entry...)...)
		op = tocSameLevel
	default:
		if err := s.popTOCLevels(tok, data.Level); err != nil {
			return err
		}
		toc.Push(append([]jdast.NodeSpec{{Kind: jdast.KindListItem}}, entry...)...)
		op = tocSupLevel
	}

	root := toc.Blocks()[0]
	toc.Node(root).Start = s.toc.start
	toc.Node(root).End = s.toc.end
	if err := b.tree.ReplaceAt(s.toc.marker, toc, root); err != nil {
		return &Error{Kind: ErrTreeState, Token: tok, Node: jdast.KindTOC, Err: err}
	}

	s.toc.prevOp = op
	s.logger.Debug("toc", "level", data.Level, "op", op)
	return nil
}

// popTOCLevels closes nested lists until the innermost open list is at or
// above level.
func (s *specialParser) popTOCLevels(tok jdast.Token, level int) error {
	target := len(s.toc.levels) - 1
	for i, l := range s.toc.levels {
		if l >= level {
			target = i
			break
		}
	}

	toc := s.toc.tree
	for toPop := len(s.toc.levels) - 1 - target; toPop > 0; {
		switch cur := toc.Current(); kindOf(cur) {
		case jdast.KindListItem:
			toc.Push(jdast.NodeSpec{Kind: jdast.KindListItem})
		case jdast.KindUL:
			toc.Push(jdast.NodeSpec{Kind: jdast.KindUL})
			s.toc.levels = s.toc.levels[:len(s.toc.levels)-1]
			toPop--
		default:
			return &Error{Kind: ErrTreeState, Token: tok, Node: kindOf(cur)}
		}
	}
	return nil
}
