package jdast

// Kind identifies what a node represents. Kinds share their spelling with the
// rule and mode names that produce them, so a token type converts directly.
type Kind string

// Node kinds.
const (
	KindBlank Kind = ""

	KindOverrides  Kind = "overrides"
	KindStylesheet Kind = "stylesheet"
	KindPlaintext  Kind = "plaintext"
	KindTOC        Kind = "toc"
	KindDiv        Kind = "div"
	KindSpan       Kind = "span"
	KindNewline    Kind = "newline"
	KindComment    Kind = "comment"
	KindHR         Kind = "hr"

	// Block-level nodes.
	KindText               Kind = "text"
	KindHeading            Kind = "heading"
	KindFences             Kind = "fences"
	KindBlockquote         Kind = "blockquote"
	KindSpoiler            Kind = "spoiler"
	KindUL                 Kind = "ul"
	KindOL                 Kind = "ol"
	KindList               Kind = "list"
	KindListItem           Kind = "list_item"
	KindTable              Kind = "table"
	KindTableHeader        Kind = "table_header"
	KindTableRow           Kind = "table_row"
	KindTableCell          Kind = "table_cell"
	KindCitationDefinition Kind = "citation_definition"
	KindFootnoteDefinition Kind = "footnote_definition"

	// Inline-level nodes.
	KindAbbr     Kind = "abbr"
	KindSup      Kind = "sup"
	KindSub      Kind = "sub"
	KindCitation Kind = "citation"
	KindFootnote Kind = "footnote"
	KindLink     Kind = "link"
	KindEmail    Kind = "email"
	KindImage    Kind = "image"
	KindStrong   Kind = "strong"
	KindU        Kind = "u"
	KindMark     Kind = "mark"
	KindEm       Kind = "em"
	KindS        Kind = "s"
	KindCode     Kind = "code"
)

//nolint:gochecknoglobals // Read-only lookup table.
var knownKinds = map[Kind]struct{}{
	KindBlank: {}, KindOverrides: {}, KindStylesheet: {}, KindPlaintext: {},
	KindTOC: {}, KindDiv: {}, KindSpan: {}, KindNewline: {}, KindComment: {},
	KindHR: {}, KindText: {}, KindHeading: {}, KindFences: {}, KindBlockquote: {},
	KindSpoiler: {}, KindUL: {}, KindOL: {}, KindList: {}, KindListItem: {},
	KindTable: {}, KindTableHeader: {}, KindTableRow: {}, KindTableCell: {},
	KindCitationDefinition: {}, KindFootnoteDefinition: {}, KindAbbr: {},
	KindSup: {}, KindSub: {}, KindCitation: {}, KindFootnote: {}, KindLink: {},
	KindEmail: {}, KindImage: {}, KindStrong: {}, KindU: {}, KindMark: {},
	KindEm: {}, KindS: {}, KindCode: {},
}

// Known reports whether k is one of the declared kinds.
func (k Kind) Known() bool {
	_, ok := knownKinds[k]
	return ok
}

// IsBlank reports whether k is the literal-text kind.
func (k Kind) IsBlank() bool {
	return k == KindBlank
}

// IsList reports whether k is an ordered or unordered list container.
func (k Kind) IsList() bool {
	return k == KindUL || k == KindOL
}

// IsLinkLike reports whether k carries a LinkData payload.
func (k Kind) IsLinkLike() bool {
	return k == KindLink || k == KindImage || k == KindEmail
}

func (k Kind) String() string {
	if k == KindBlank {
		return "blank"
	}
	return string(k)
}
