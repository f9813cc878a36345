package parser

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/jotdown/pkg/jdast"
	"github.com/yaklabco/jotdown/pkg/rules"
	"github.com/yaklabco/jotdown/pkg/validate"
)

// mode is the block-level context the next token is read in.
type mode string

const (
	modeNewline            mode = "newline"
	modeText               mode = "text"
	modeHeading            mode = "heading"
	modeHR                 mode = "hr"
	modeFences             mode = "fences"
	modeBlockquote         mode = "blockquote"
	modeSpoiler            mode = "spoiler"
	modeList               mode = "list"
	modeTable              mode = "table"
	modeComment            mode = "comment"
	modeStylesheet         mode = "stylesheet"
	modePlaintext          mode = "plaintext"
	modeCitationDefinition mode = "citation_definition"
	modeFootnoteDefinition mode = "footnote_definition"
)

// modeKinds maps modes that own a block node to that node's kind.
var modeKinds = map[mode]jdast.Kind{
	modeText:               jdast.KindText,
	modeHeading:            jdast.KindHeading,
	modeFences:             jdast.KindFences,
	modeBlockquote:         jdast.KindBlockquote,
	modeSpoiler:            jdast.KindSpoiler,
	modeComment:            jdast.KindComment,
	modeStylesheet:         jdast.KindStylesheet,
	modePlaintext:          jdast.KindPlaintext,
	modeCitationDefinition: jdast.KindCitationDefinition,
	modeFootnoteDefinition: jdast.KindFootnoteDefinition,
}

func (m mode) kind() (jdast.Kind, bool) {
	kind, ok := modeKinds[m]
	return kind, ok
}

// closesOnNewline reports whether a single newline ends the mode's block.
func (m mode) closesOnNewline() bool {
	return m == modeHeading || m == modeCitationDefinition || m == modeFootnoteDefinition
}

// tertMode captures the rest of an opener's line as block metadata.
type tertMode string

const (
	tertNone       tertMode = ""
	tertFences     tertMode = "fences"
	tertBlockquote tertMode = "blockquote"
	tertSpoiler    tertMode = "spoiler"
)

// submode siphons tokens into a single data field until its closer.
type submode string

const (
	subNone               submode = ""
	subComment            submode = "comment"
	subHeadingID          submode = "heading_id"
	subMidAbbr            submode = "mid_abbr"
	subMidLink            submode = "mid_link"
	subCitation           submode = "citation"
	subFootnote           submode = "footnote"
	subCitationDefinition submode = "citation_definition"
	subFootnoteDefinition submode = "footnote_definition"
)

// ignoreKinds names the node an armed ignore filter belongs to.
var ignoreKinds = map[string]jdast.Kind{
	rules.Stylesheet:      jdast.KindStylesheet,
	rules.BlockPlaintext:  jdast.KindPlaintext,
	rules.InlinePlaintext: jdast.KindPlaintext,
	rules.EndComment:      jdast.KindComment,
	rules.Fences:          jdast.KindFences,
	rules.Code:            jdast.KindCode,
	rules.MidLink:         jdast.KindImage,
}

// baseParser selects block modes and parses inline content. It owns all of
// the parse state shared with the special and overrides parsers.
type baseParser struct {
	tree      *jdast.Tree
	validator *validate.Validator
	logger    *log.Logger

	mode mode
	tert tertMode
	sub  submode

	// requiresNewline rejects anything but a newline after a closed block.
	requiresNewline bool
	// ignoreUntil passes every token through as text until one of this type.
	ignoreUntil    string
	overridesMode  bool
	blockGroupMode bool
	doubleNewline  bool
}

func newBaseParser(validator *validate.Validator, logger *log.Logger) *baseParser {
	return &baseParser{
		tree:      jdast.NewTree(),
		validator: validator,
		logger:    logger,
		mode:      modeNewline,
	}
}

func (b *baseParser) reset() {
	b.tree.Reset()
	b.mode = modeNewline
	b.tert = tertNone
	b.sub = subNone
	b.requiresNewline = false
	b.ignoreUntil = ""
	b.overridesMode = false
	b.blockGroupMode = false
	b.doubleNewline = false
}

// safeID returns the innermost open node, or with blockLevel the current
// block, looking past an enclosing block group.
func (b *baseParser) safeID(blockLevel bool) jdast.NodeID {
	if b.blockGroupMode && blockLevel {
		return b.tree.Access(true, jdast.KindDiv)
	}
	return b.tree.Access(blockLevel, jdast.KindBlank)
}

func (b *baseParser) safe(blockLevel bool) *jdast.Node {
	return b.tree.Node(b.safeID(blockLevel))
}

// near returns the text of the innermost node for error messages.
func (b *baseParser) near() string {
	id := b.safeID(false)
	if node := b.tree.Node(id); node != nil && node.Kind.IsBlank() {
		return node.Value
	}
	return b.tree.Text(id)
}

// validateDepthStack fails unless the innermost open node is valid or blank.
func (b *baseParser) validateDepthStack(tok jdast.Token, valid jdast.Kind) error {
	top, ok := b.tree.Top()
	if !ok || top.Kind == valid || top.Kind.IsBlank() {
		return nil
	}
	return b.unclosed(tok, top.Kind)
}

func (b *baseParser) unclosed(tok jdast.Token, kind jdast.Kind) error {
	return &Error{Kind: ErrUnclosedToken, Token: tok, Node: kind, Near: b.near()}
}

func (b *baseParser) newlineRequired(tok jdast.Token) error {
	return &Error{Kind: ErrNewlineRequired, Token: tok, Node: kindOf(b.tree.Current()), Near: b.near()}
}

func (b *baseParser) invalid(tok jdast.Token, err error) error {
	return &Error{Kind: ErrValidation, Token: tok, Node: kindOf(b.tree.Current()), Err: err}
}

func kindOf(node *jdast.Node) jdast.Kind {
	if node == nil {
		return jdast.KindBlank
	}
	return node.Kind
}

// payloadOf returns the payload of node as T.
func payloadOf[T jdast.Data](node *jdast.Node, tok jdast.Token) (T, error) {
	data, ok := jdast.DataAs[T](node)
	if !ok {
		return data, &Error{Kind: ErrPayload, Token: tok, Node: kindOf(node)}
	}
	return data, nil
}

func (b *baseParser) pushNewline(tok jdast.Token) {
	b.tree.Push(jdast.NodeSpec{
		Kind:          jdast.KindNewline,
		Start:         tok.Start,
		End:           tok.End,
		Leaf:          true,
		SkipOverrides: true,
	})
}

// pushClose pushes a zero-width node of kind at tok, closing the open node
// of the same kind.
func (b *baseParser) pushClose(kind jdast.Kind, tok jdast.Token) {
	b.tree.Push(jdast.NodeSpec{Kind: kind, Start: tok.Start, End: tok.Start})
}

func (b *baseParser) openOverrides(tok jdast.Token) {
	b.tree.Push(jdast.Spec(jdast.KindOverrides, tok))
	b.overridesMode = true
}

func (b *baseParser) closeBlockGroup(tok jdast.Token) {
	b.tree.Push(jdast.Spec(jdast.KindDiv, tok))
	b.blockGroupMode = false
	b.mode = modeNewline
	b.requiresNewline = true
}

// parseBlock selects the block mode opened by tok.
func (b *baseParser) parseBlock(tok jdast.Token) error {
	switch tok.Type {
	case rules.LeftCurly:
		b.openOverrides(tok)
		return nil
	case rules.BlockGroupStart:
		b.tree.Push(jdast.Spec(jdast.KindDiv, tok))
		b.blockGroupMode = true
		return nil
	case rules.BlockGroupEnd:
		if err := b.validateDepthStack(tok, jdast.KindDiv); err != nil {
			return err
		}
		b.closeBlockGroup(tok)
		return nil
	}

	if b.requiresNewline && tok.Type != rules.Newline {
		return b.newlineRequired(tok)
	}

	switch tok.Type {
	case rules.Newline:
		b.requiresNewline = false
		b.mode = modeNewline
		b.pushNewline(tok)

	case rules.Stylesheet:
		b.mode = modeStylesheet
		b.ignoreUntil = rules.Stylesheet
		b.pushSkip(jdast.KindStylesheet, tok)

	case rules.BlockPlaintext:
		b.mode = modePlaintext
		b.ignoreUntil = rules.BlockPlaintext
		b.pushSkip(jdast.KindPlaintext, tok)

	case rules.StartComment:
		b.mode = modeComment
		b.ignoreUntil = rules.EndComment
		b.pushSkip(jdast.KindComment, tok)

	case rules.HR:
		b.mode = modeHR
		spec := jdast.Spec(jdast.KindHR, tok)
		spec.Leaf = true
		b.tree.Push(spec)
		b.requiresNewline = true

	case rules.Heading:
		b.mode = modeHeading
		spec := jdast.Spec(jdast.KindHeading, tok)
		spec.Data = &jdast.HeadingData{Level: headingLevel(tok.Value)}
		b.tree.Push(spec)

	case rules.Fences:
		b.mode = modeFences
		b.tert = tertFences
		spec := jdast.Spec(jdast.KindFences, tok)
		spec.Data = &jdast.FenceData{}
		b.tree.Push(spec)

	case rules.Blockquote:
		b.mode = modeBlockquote
		b.tert = tertBlockquote
		spec := jdast.Spec(jdast.KindBlockquote, tok)
		spec.Data = &jdast.BlockquoteData{}
		b.tree.Push(spec)

	case rules.Spoiler:
		b.mode = modeSpoiler
		b.tert = tertSpoiler
		spec := jdast.Spec(jdast.KindSpoiler, tok)
		spec.Data = &jdast.SpoilerData{OnSummary: true}
		b.tree.Push(spec)

	case rules.TableRowStart:
		b.mode = modeTable
		table := jdast.Spec(jdast.KindTable, tok)
		table.Data = &jdast.TableData{}
		b.tree.Push(table, jdast.Spec(jdast.KindTableRow, tok))

	case rules.UL, rules.OL:
		b.mode = modeList
		b.tree.Push(jdast.Spec(jdast.Kind(tok.Type), tok), jdast.Spec(jdast.KindListItem, tok))

	case rules.Citation:
		b.mode = modeCitationDefinition
		b.sub = subCitationDefinition
		spec := jdast.Spec(jdast.KindCitationDefinition, tok)
		spec.Data = &jdast.DefinitionData{}
		b.tree.Push(spec)

	case rules.Footnote:
		b.mode = modeFootnoteDefinition
		b.sub = subFootnoteDefinition
		spec := jdast.Spec(jdast.KindFootnoteDefinition, tok)
		spec.Data = &jdast.DefinitionData{}
		b.tree.Push(spec)

	default:
		b.mode = modeText
		b.tree.Push(jdast.Spec(jdast.KindText, tok))
		return b.parseInline(tok)
	}
	return nil
}

func (b *baseParser) pushSkip(kind jdast.Kind, tok jdast.Token) {
	spec := jdast.Spec(kind, tok)
	spec.SkipOverrides = true
	b.tree.Push(spec)
}

// headingLevel reads the level digit of a heading marker such as "#2 ".
func headingLevel(marker string) int {
	if len(marker) >= 2 && marker[0] == '#' && marker[1] >= '1' && marker[1] <= '6' {
		return int(marker[1] - '0')
	}
	return 6
}
