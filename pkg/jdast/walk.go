package jdast

// WalkFunc is called for each visited node with its nesting depth, zero for
// top-level blocks. Returning SkipChildren prunes the node's subtree; any
// other non-nil error stops the walk.
type WalkFunc func(id NodeID, node *Node, depth int) error

// SkipChildren is returned by a WalkFunc to skip a node's children.
var SkipChildren = &skipError{}

type skipError struct{}

func (e *skipError) Error() string {
	return "skip children"
}

// Walk performs a pre-order traversal of every top-level block.
func (t *Tree) Walk(fn WalkFunc) error {
	for _, id := range t.blocks {
		if err := t.walk(id, 0, fn); err != nil {
			return err
		}
	}
	return nil
}

// WalkFrom performs a pre-order traversal of the subtree rooted at id.
func (t *Tree) WalkFrom(id NodeID, fn WalkFunc) error {
	return t.walk(id, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn WalkFunc) error {
	node := t.Node(id)
	if node == nil {
		return nil
	}
	if err := fn(id, node, depth); err != nil {
		if err == SkipChildren { //nolint:errorlint // Sentinel is never wrapped
			return nil
		}
		return err
	}
	for _, child := range node.Children {
		if err := t.walk(child, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// FindByKind returns every reachable node of kind in document order.
func (t *Tree) FindByKind(kind Kind) []NodeID {
	var found []NodeID

	//nolint:errcheck // The callback never fails.
	t.Walk(func(id NodeID, node *Node, _ int) error {
		if node.Kind == kind {
			found = append(found, id)
		}
		return nil
	})

	return found
}
