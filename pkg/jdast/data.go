package jdast

// Data is the kind-specific payload of a node. Each payload type documents the
// kinds that carry it; parser and renderer match on the concrete type.
type Data interface {
	isData()
}

// HeadingData is carried by KindHeading.
type HeadingData struct {
	Level int    `json:"level" yaml:"level"`
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
}

// FenceData is carried by KindFences.
type FenceData struct {
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// BlockquoteData is carried by KindBlockquote.
type BlockquoteData struct {
	Cite string `json:"cite,omitempty" yaml:"cite,omitempty"`
}

// SpoilerData is carried by KindSpoiler. Summary holds the nodes of the
// spoiler's first line once it has been read.
type SpoilerData struct {
	Summary   []NodeID `json:"-" yaml:"-"`
	OnSummary bool     `json:"onSummary" yaml:"onSummary"`
}

// TableData is carried by KindTable.
type TableData struct {
	HasHeader bool `json:"hasHeader" yaml:"hasHeader"`
}

// ListItemData is carried by KindListItem when the item is a task.
type ListItemData struct {
	Task    bool `json:"isTaskItem" yaml:"isTaskItem"`
	Checked bool `json:"checked" yaml:"checked"`
}

// AbbrData is carried by KindAbbr.
type AbbrData struct {
	FullText string `json:"fullText" yaml:"fullText"`
}

// LinkData is carried by KindLink, KindImage and KindEmail.
type LinkData struct {
	Link  string `json:"link" yaml:"link"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// ReferenceData is carried by KindCitation and KindFootnote. Index is the
// reference label resolved for this use of Key.
type ReferenceData struct {
	Key   string `json:"key" yaml:"key"`
	Index string `json:"index,omitempty" yaml:"index,omitempty"`
}

// DefinitionData is carried by KindCitationDefinition and
// KindFootnoteDefinition. Refs is the number of uses preceding the definition.
type DefinitionData struct {
	Key  string `json:"key" yaml:"key"`
	Refs int    `json:"refs" yaml:"refs"`
}

func (*HeadingData) isData()    {}
func (*FenceData) isData()      {}
func (*BlockquoteData) isData() {}
func (*SpoilerData) isData()    {}
func (*TableData) isData()      {}
func (*ListItemData) isData()   {}
func (*AbbrData) isData()       {}
func (*LinkData) isData()       {}
func (*ReferenceData) isData()  {}
func (*DefinitionData) isData() {}

// DataAs returns the payload of n as T.
func DataAs[T Data](n *Node) (T, bool) {
	var zero T
	if n == nil || n.Data == nil {
		return zero, false
	}
	data, ok := n.Data.(T)
	return data, ok
}

// StyleDecl is one property of an inline style override.
type StyleDecl struct {
	Property string `json:"property" yaml:"property"`
	Value    string `json:"value" yaml:"value"`
}

// Overrides is author metadata attached to the node that follows it.
type Overrides struct {
	Style   []StyleDecl `json:"style,omitempty" yaml:"style,omitempty"`
	Classes string      `json:"classes,omitempty" yaml:"classes,omitempty"`
	ID      string      `json:"id,omitempty" yaml:"id,omitempty"`
	Raw     string      `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// SetStyle sets property to value, replacing an earlier declaration.
func (o *Overrides) SetStyle(property, value string) {
	for i := range o.Style {
		if o.Style[i].Property == property {
			o.Style[i].Value = value
			return
		}
	}
	o.Style = append(o.Style, StyleDecl{Property: property, Value: value})
}
