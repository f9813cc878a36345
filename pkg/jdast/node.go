// Package jdast defines the JotDown document tree: tokens, typed nodes with
// per-kind payloads, and an arena-backed tree built in a single streaming pass.
package jdast

// NodeID addresses a node in a Tree's arena.
type NodeID int

// NoNode is the zero address returned when no node qualifies.
const NoNode NodeID = -1

// Node is a single element of the document tree. Children are addresses in
// the owning tree and each child has exactly one parent.
type Node struct {
	Kind Kind

	// Value is the literal text of a blank node.
	Value string

	Data      Data
	Overrides *Overrides

	Children []NodeID

	// Start and End are byte offsets in the source. End is only final once
	// the node has been closed.
	Start int
	End   int
}

// NodeSpec describes a node to push onto a Tree.
type NodeSpec struct {
	Kind  Kind
	Value string
	Data  Data
	Start int
	End   int

	// Leaf appends the node already closed instead of opening it.
	Leaf bool

	// SkipOverrides leaves a pending override for the next push.
	SkipOverrides bool
}

// Spec converts a token into a NodeSpec of the given kind.
func Spec(kind Kind, tok Token) NodeSpec {
	return NodeSpec{Kind: kind, Start: tok.Start, End: tok.End}
}

// DepthEntry records one open node: the parent that owns it (NoNode for a
// top-level block) and its slot among that parent's children.
type DepthEntry struct {
	Kind   Kind   `json:"type" yaml:"type"`
	Parent NodeID `json:"parent" yaml:"parent"`
	Slot   int    `json:"depth" yaml:"depth"`
}
