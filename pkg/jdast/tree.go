package jdast

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDepthExceeded is reported when a position addresses a child slot that
// does not exist.
var ErrDepthExceeded = errors.New("depth exceeded")

// Tree is a forest of top-level blocks plus the stack of currently open
// nodes. Pushing a node whose kind matches the innermost open node closes
// that node instead of opening a sibling.
//
// A Tree is not safe for concurrent use.
type Tree struct {
	arena    []Node
	blocks   []NodeID
	stack    []DepthEntry
	override *Overrides
	err      error
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// Reset discards every node, the depth stack, any pending override and a
// recorded error.
func (t *Tree) Reset() {
	t.arena = t.arena[:0]
	t.blocks = t.blocks[:0]
	t.stack = t.stack[:0]
	t.override = nil
	t.err = nil
}

// Err returns the first structural inconsistency met while navigating, if any.
// Navigation methods return NoNode or nil after recording it.
func (t *Tree) Err() error {
	return t.err
}

// Node returns the node at id, or nil when id is not allocated.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.arena) {
		return nil
	}
	return &t.arena[id]
}

// Blocks returns the top-level nodes in document order. The slice is owned by
// the tree.
func (t *Tree) Blocks() []NodeID {
	return t.blocks
}

// Len returns the number of allocated nodes.
func (t *Tree) Len() int {
	return len(t.arena)
}

// DepthStack returns a copy of the open-node stack, outermost first.
func (t *Tree) DepthStack() []DepthEntry {
	out := make([]DepthEntry, len(t.stack))
	copy(out, t.stack)
	return out
}

// Depth returns the number of open nodes.
func (t *Tree) Depth() int {
	return len(t.stack)
}

// Top returns the innermost open entry.
func (t *Tree) Top() (DepthEntry, bool) {
	if len(t.stack) == 0 {
		return DepthEntry{}, false
	}
	return t.stack[len(t.stack)-1], true
}

// SetOverride records o to be attached to the next pushed node.
func (t *Tree) SetOverride(o *Overrides) {
	t.override = o
}

// PendingOverride returns the override waiting for a node, if any.
func (t *Tree) PendingOverride() *Overrides {
	return t.override
}

// Resolve returns the node an entry addresses.
func (t *Tree) Resolve(entry DepthEntry) NodeID {
	if entry.Parent == NoNode {
		if entry.Slot < 0 || entry.Slot >= len(t.blocks) {
			t.fail(fmt.Errorf("%w: block %d of %d", ErrDepthExceeded, entry.Slot, len(t.blocks)))
			return NoNode
		}
		return t.blocks[entry.Slot]
	}
	parent := t.Node(entry.Parent)
	if parent == nil || entry.Slot < 0 || entry.Slot >= len(parent.Children) {
		t.fail(fmt.Errorf("%w: child %d of %s node %d", ErrDepthExceeded, entry.Slot, entry.Kind, entry.Parent))
		return NoNode
	}
	return parent.Children[entry.Slot]
}

// CurrentID returns the innermost open node, or the last top-level block when
// nothing is open.
func (t *Tree) CurrentID() NodeID {
	return t.Access(false, KindBlank)
}

// Current is CurrentID resolved to its node.
func (t *Tree) Current() *Node {
	return t.Node(t.CurrentID())
}

// Access locates a node through the depth stack. Without blockLevel it returns
// the innermost open node. With blockLevel and a non-blank within kind it
// returns the node one level below the most recent open node of that kind,
// so enclosing groups are skipped. Otherwise it returns the last top-level
// block.
func (t *Tree) Access(blockLevel bool, within Kind) NodeID {
	if len(t.stack) > 0 && !blockLevel {
		return t.Resolve(t.stack[len(t.stack)-1])
	}
	if within != KindBlank {
		for i := len(t.stack) - 1; i >= 0; i-- {
			if t.stack[i].Kind != within {
				continue
			}
			return t.Resolve(t.stack[min(i+1, len(t.stack)-1)])
		}
	}
	if len(t.blocks) == 0 {
		return NoNode
	}
	return t.blocks[len(t.blocks)-1]
}

// Push adds each spec in order, applying the close-on-match rule.
func (t *Tree) Push(specs ...NodeSpec) {
	for _, spec := range specs {
		node := Node{
			Kind:  spec.Kind,
			Value: spec.Value,
			Data:  spec.Data,
			Start: spec.Start,
			End:   spec.End,
		}
		if t.override != nil && !spec.SkipOverrides {
			node.Overrides = t.override
			t.override = nil
		}
		t.add(node, spec.Leaf)
	}
}

// PushBlank appends tok's text to the open blank node, or opens one. A blank
// push with empty text closes the open blank node. Blank text never takes the
// pending override.
func (t *Tree) PushBlank(tok Token) {
	t.Push(NodeSpec{Kind: KindBlank, Value: tok.Value, Start: tok.Start, End: tok.End, SkipOverrides: true})
}

// PopIfBlank closes the current node when it is blank, ending it at tok.
func (t *Tree) PopIfBlank(tok Token) {
	cur := t.Current()
	if cur == nil || !cur.Kind.IsBlank() {
		return
	}
	cur.End = tok.Start
	t.pop()
}

// Text concatenates the blank-node text beneath id.
func (t *Tree) Text(id NodeID) string {
	var builder strings.Builder
	t.writeText(&builder, id)
	return builder.String()
}

// TextOf concatenates the blank-node text beneath each of ids.
func (t *Tree) TextOf(ids []NodeID) string {
	var builder strings.Builder
	for _, id := range ids {
		t.writeChildText(&builder, id)
	}
	return builder.String()
}

func (t *Tree) writeText(builder *strings.Builder, id NodeID) {
	node := t.Node(id)
	if node == nil {
		return
	}
	for _, child := range node.Children {
		t.writeChildText(builder, child)
	}
}

func (t *Tree) writeChildText(builder *strings.Builder, id NodeID) {
	child := t.Node(id)
	switch {
	case child == nil:
	case len(child.Children) > 0:
		t.writeText(builder, id)
	case child.Kind.IsBlank():
		builder.WriteString(child.Value)
	}
}

// Replace overwrites the top-level block at slot with a copy of the subtree
// rooted at root in src. The replaced subtree stays allocated but unreachable.
func (t *Tree) Replace(slot int, src *Tree, root NodeID) error {
	if slot < 0 || slot >= len(t.blocks) {
		return fmt.Errorf("replace: %w: block %d of %d", ErrDepthExceeded, slot, len(t.blocks))
	}
	if src.Node(root) == nil {
		return fmt.Errorf("replace: %w: source node %d", ErrDepthExceeded, root)
	}
	t.blocks[slot] = t.graft(src, root)
	return nil
}

// ReplaceAt overwrites the node addressed by entry, which may be nested, with
// a copy of the subtree rooted at root in src.
func (t *Tree) ReplaceAt(entry DepthEntry, src *Tree, root NodeID) error {
	if entry.Parent == NoNode {
		return t.Replace(entry.Slot, src, root)
	}
	parent := t.Node(entry.Parent)
	if parent == nil || entry.Slot < 0 || entry.Slot >= len(parent.Children) {
		return fmt.Errorf("replace: %w: child %d of node %d", ErrDepthExceeded, entry.Slot, entry.Parent)
	}
	if src.Node(root) == nil {
		return fmt.Errorf("replace: %w: source node %d", ErrDepthExceeded, root)
	}
	grafted := t.graft(src, root)
	t.arena[entry.Parent].Children[entry.Slot] = grafted
	return nil
}

func (t *Tree) graft(src *Tree, id NodeID) NodeID {
	node := src.arena[id]
	children := node.Children
	node.Children = nil
	if spoiler, ok := node.Data.(*SpoilerData); ok {
		copied := &SpoilerData{OnSummary: spoiler.OnSummary}
		for _, summaryID := range spoiler.Summary {
			copied.Summary = append(copied.Summary, t.graft(src, summaryID))
		}
		node.Data = copied
	}

	newID := t.alloc(node)
	grafted := make([]NodeID, 0, len(children))
	for _, child := range children {
		grafted = append(grafted, t.graft(src, child))
	}
	t.arena[newID].Children = grafted
	return newID
}

func (t *Tree) add(node Node, leaf bool) {
	if cur := t.Current(); cur != nil && cur.Kind.IsBlank() {
		if node.Kind.IsBlank() {
			cur.Value += node.Value
			cur.End = node.End
			if node.Value == "" {
				t.pop()
			}
			return
		}
		cur.End = node.Start
		t.pop()
	}

	if node.Kind.IsBlank() && node.Value == "" {
		return
	}

	top, ok := t.Top()
	if !ok {
		if !leaf {
			node.End = node.Start
		}
		t.blocks = append(t.blocks, t.alloc(node))
		if !leaf {
			t.stack = append(t.stack, DepthEntry{Kind: node.Kind, Parent: NoNode, Slot: len(t.blocks) - 1})
		}
		return
	}

	parentID := t.Resolve(top)
	if parentID == NoNode {
		return
	}
	if node.Kind == top.Kind {
		t.arena[parentID].End = node.End
		t.pop()
		return
	}

	if !leaf {
		node.End = node.Start
	}
	childID := t.alloc(node)
	parent := &t.arena[parentID]
	parent.Children = append(parent.Children, childID)
	if !leaf {
		t.stack = append(t.stack, DepthEntry{Kind: node.Kind, Parent: parentID, Slot: len(parent.Children) - 1})
	}
}

func (t *Tree) alloc(node Node) NodeID {
	t.arena = append(t.arena, node)
	return NodeID(len(t.arena) - 1)
}

func (t *Tree) pop() {
	if len(t.stack) > 0 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

func (t *Tree) fail(err error) {
	if t.err == nil {
		t.err = err
	}
}
