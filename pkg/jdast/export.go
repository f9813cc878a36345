package jdast

// View is a self-contained copy of a node and its subtree, suitable for
// encoding.
type View struct {
	Kind      string     `json:"type" yaml:"type"`
	Value     string     `json:"value,omitempty" yaml:"value,omitempty"`
	Data      Data       `json:"data,omitempty" yaml:"data,omitempty"`
	Summary   []*View    `json:"summary,omitempty" yaml:"summary,omitempty"`
	Overrides *Overrides `json:"overrides,omitempty" yaml:"overrides,omitempty"`
	Start     int        `json:"start" yaml:"start"`
	End       int        `json:"end" yaml:"end"`
	Children  []*View    `json:"children,omitempty" yaml:"children,omitempty"`
}

// Export returns views of every top-level block.
func (t *Tree) Export() []*View {
	views := make([]*View, 0, len(t.blocks))
	for _, id := range t.blocks {
		views = append(views, t.ExportNode(id))
	}
	return views
}

// ExportNode returns a view of the subtree rooted at id, or nil.
func (t *Tree) ExportNode(id NodeID) *View {
	node := t.Node(id)
	if node == nil {
		return nil
	}
	view := &View{
		Kind:      string(node.Kind),
		Value:     node.Value,
		Data:      node.Data,
		Overrides: node.Overrides,
		Start:     node.Start,
		End:       node.End,
	}
	if spoiler, ok := node.Data.(*SpoilerData); ok {
		for _, summaryID := range spoiler.Summary {
			view.Summary = append(view.Summary, t.ExportNode(summaryID))
		}
	}
	for _, child := range node.Children {
		view.Children = append(view.Children, t.ExportNode(child))
	}
	return view
}
