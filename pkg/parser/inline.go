package parser

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/yaklabco/jotdown/pkg/jdast"
	"github.com/yaklabco/jotdown/pkg/rules"
)

var whitespaceRun = regexp2.MustCompile(`\s+`, regexp2.ECMAScript)

// parseInline adds tok to the block opened by the current mode.
func (b *baseParser) parseInline(tok jdast.Token) error {
	if b.ignoreUntil != "" && b.ignoreUntil != tok.Type {
		b.tree.PushBlank(tok)
		return nil
	}

	switch tok.Type {
	case rules.LeftCurly:
		b.openOverrides(tok)
		return nil
	case rules.InlineGroupStart:
		b.tree.Push(jdast.Spec(jdast.KindSpan, tok))
		return nil
	case rules.InlineGroupEnd:
		if err := b.validateDepthStack(tok, jdast.KindSpan); err != nil {
			return err
		}
		b.tree.Push(jdast.Spec(jdast.KindSpan, tok))
		return nil
	case rules.BlockGroupEnd:
		if kind, ok := b.mode.kind(); ok {
			b.pushClose(kind, tok)
		}
		if err := b.validateDepthStack(tok, jdast.KindDiv); err != nil {
			return err
		}
		b.closeBlockGroup(tok)
		return nil
	}

	if b.requiresNewline && tok.Type != rules.Newline {
		return b.newlineRequired(tok)
	}

	if tok.Type == rules.Newline {
		if handled, err := b.inlineNewline(tok); handled || err != nil {
			return err
		}
	}

	b.doubleNewline = false

	if b.sub != subNone {
		if captured, err := b.capture(tok); captured || err != nil {
			return err
		}
	}

	return b.inlineNode(tok)
}

// inlineNewline handles a newline that ends or continues the current block.
func (b *baseParser) inlineNewline(tok jdast.Token) (bool, error) {
	switch {
	case b.mode == modeText:
		if cur := b.tree.Current(); cur != nil && cur.Kind == jdast.KindCode {
			return true, nil
		}
		if err := b.validateDepthStack(tok, jdast.KindText); err != nil {
			return true, err
		}
		if b.doubleNewline {
			b.tree.Push(jdast.Spec(jdast.KindText, tok))
			b.mode = modeNewline
		} else {
			b.doubleNewline = true
			b.pushNewline(tok)
		}
		return true, nil

	case b.mode.closesOnNewline():
		kind, _ := b.mode.kind()
		if err := b.validateDepthStack(tok, kind); err != nil {
			return true, err
		}
		b.tree.Push(jdast.Spec(kind, tok))
		b.mode = modeNewline
		return true, nil

	case b.requiresNewline:
		b.mode = modeNewline
		b.requiresNewline = false
		return true, nil

	case b.mode != modeNewline && b.tert != tertNone:
		return true, b.closeTert(tok)

	case b.mode == modeBlockquote || b.mode == modeSpoiler:
		b.pushNewline(tok)
		return true, nil
	}
	return false, nil
}

// closeTert moves the text read since the block opener into the block's
// metadata: fence language, blockquote cite or spoiler summary.
func (b *baseParser) closeTert(tok jdast.Token) error {
	b.tree.PopIfBlank(tok)
	kind, _ := b.mode.kind()
	if err := b.validateDepthStack(tok, kind); err != nil {
		return err
	}

	id := b.tree.CurrentID()
	node := b.tree.Node(id)
	text := b.tree.Text(id)

	switch b.tert {
	case tertFences:
		data, err := payloadOf[*jdast.FenceData](node, tok)
		if err != nil {
			return err
		}
		data.Language = strings.TrimSpace(text)
		b.ignoreUntil = rules.Fences
	case tertBlockquote:
		data, err := payloadOf[*jdast.BlockquoteData](node, tok)
		if err != nil {
			return err
		}
		data.Cite = strings.TrimSpace(text)
	case tertSpoiler:
		data, err := payloadOf[*jdast.SpoilerData](node, tok)
		if err != nil {
			return err
		}
		data.Summary = node.Children
		data.OnSummary = false
	}

	node.Children = nil
	b.tert = tertNone
	return nil
}

// capture appends tok to the data field the active submode collects. It
// reports false when tok is the submode's closer.
func (b *baseParser) capture(tok jdast.Token) (bool, error) {
	switch b.sub {
	case subHeadingID:
		if tok.Type == rules.HeadingID {
			return false, nil
		}
		data, err := payloadOf[*jdast.HeadingData](b.safe(true), tok)
		if err != nil {
			return true, err
		}
		data.ID += tok.Value

	case subMidAbbr:
		if tok.Type == rules.RightPara {
			return false, nil
		}
		data, err := payloadOf[*jdast.AbbrData](b.tree.Current(), tok)
		if err != nil {
			return true, err
		}
		data.FullText += tok.Value

	case subMidLink:
		if tok.Type == rules.RightPara {
			return false, nil
		}
		data, err := payloadOf[*jdast.LinkData](b.tree.Current(), tok)
		if err != nil {
			return true, err
		}
		data.Link += tok.Value

	case subCitation, subFootnote:
		closer := rules.RightPara
		if b.sub == subFootnote {
			closer = rules.RightBrac
		}
		if tok.Type == closer {
			return false, nil
		}
		data, err := payloadOf[*jdast.ReferenceData](b.tree.Current(), tok)
		if err != nil {
			return true, err
		}
		data.Key += tok.Value

	case subCitationDefinition, subFootnoteDefinition:
		closer := rules.RightPara
		if b.sub == subFootnoteDefinition {
			closer = rules.RightBrac
		}
		if tok.Type == closer {
			return false, nil
		}
		data, err := payloadOf[*jdast.DefinitionData](b.tree.Current(), tok)
		if err != nil {
			return true, err
		}
		data.Key += tok.Value

	default:
		return false, nil
	}
	return true, nil
}

func (b *baseParser) inlineNode(tok jdast.Token) error {
	switch tok.Type {
	case rules.Stylesheet:
		return b.closeIgnored(tok, modeStylesheet, jdast.KindStylesheet)
	case rules.BlockPlaintext:
		return b.closeIgnored(tok, modePlaintext, jdast.KindPlaintext)
	case rules.Fences, rules.Blockquote, rules.Spoiler:
		return b.closeQuoted(tok)

	case rules.StartComment:
		b.sub = subComment
		b.ignoreUntil = rules.EndComment
		b.pushSkip(jdast.KindComment, tok)
	case rules.EndComment:
		switch {
		case b.mode == modeComment:
			b.ignoreUntil = ""
			b.requiresNewline = true
			b.pushSkip(jdast.KindComment, tok)
		case b.sub == subComment:
			b.ignoreUntil = ""
			b.sub = subNone
			b.pushSkip(jdast.KindComment, tok)
		default:
			b.tree.PushBlank(tok)
		}

	case rules.Strong, rules.Underline, rules.Mark, rules.Em, rules.Strike, rules.Sup, rules.Sub:
		if b.sub != subNone {
			b.tree.PushBlank(tok)
			break
		}
		b.tree.Push(jdast.Spec(jdast.Kind(tok.Type), tok))

	case rules.Code:
		if b.sub != subNone {
			b.tree.PushBlank(tok)
			break
		}
		if b.ignoreUntil == "" {
			b.ignoreUntil = rules.Code
		} else {
			if cur := b.tree.Current(); cur != nil && cur.Kind.IsBlank() {
				if collapsed, err := whitespaceRun.Replace(cur.Value, " ", -1, -1); err == nil {
					cur.Value = collapsed
				}
			}
			b.ignoreUntil = ""
		}
		b.tree.Push(jdast.Spec(jdast.KindCode, tok))

	case rules.InlinePlaintext:
		if b.sub != subNone {
			b.tree.PushBlank(tok)
			break
		}
		if b.ignoreUntil == "" {
			b.ignoreUntil = rules.InlinePlaintext
		} else {
			b.ignoreUntil = ""
		}
		b.pushSkip(jdast.KindPlaintext, tok)

	case rules.Abbr:
		b.openWithData(tok, jdast.KindAbbr, &jdast.AbbrData{})
	case rules.MidAbbr:
		b.tree.PopIfBlank(tok)
		if cur := b.tree.Current(); b.sub == subNone && cur != nil && cur.Kind == jdast.KindAbbr {
			b.sub = subMidAbbr
			break
		}
		b.tree.PushBlank(tok)

	case rules.Citation, rules.Footnote:
		if b.sub != subNone {
			b.tree.PushBlank(tok)
			break
		}
		b.openWithData(tok, jdast.Kind(tok.Type), &jdast.ReferenceData{})
		b.sub = submode(tok.Type)

	case rules.LeftBrac:
		b.openWithData(tok, jdast.KindLink, &jdast.LinkData{})
	case rules.Email:
		b.openWithData(tok, jdast.KindEmail, &jdast.LinkData{})
	case rules.Image:
		if b.sub != subNone {
			b.tree.PushBlank(tok)
			break
		}
		b.openWithData(tok, jdast.KindImage, &jdast.LinkData{})
		b.ignoreUntil = rules.MidLink
	case rules.MidLink:
		b.tree.PopIfBlank(tok)
		cur := b.tree.Current()
		if b.sub != subNone || cur == nil || !cur.Kind.IsLinkLike() {
			b.tree.PushBlank(tok)
			break
		}
		if cur.Kind == jdast.KindImage {
			b.ignoreUntil = ""
		}
		b.sub = subMidLink

	case rules.HeadingID:
		return b.headingID(tok)
	case rules.RightPara:
		return b.rightPara(tok)
	case rules.RightBrac:
		return b.rightBrac(tok)

	default:
		b.tree.PushBlank(tok)
	}
	return nil
}

// openWithData opens a data-bearing inline node unless a submode is active,
// in which case tok is literal text.
func (b *baseParser) openWithData(tok jdast.Token, kind jdast.Kind, data jdast.Data) {
	if b.sub != subNone {
		b.tree.PushBlank(tok)
		return
	}
	spec := jdast.Spec(kind, tok)
	spec.Data = data
	b.tree.Push(spec)
}

// closeIgnored ends a stylesheet or block plaintext region.
func (b *baseParser) closeIgnored(tok jdast.Token, want mode, kind jdast.Kind) error {
	if b.mode != want {
		b.tree.PushBlank(tok)
		return nil
	}
	b.pushSkip(kind, tok)
	b.ignoreUntil = ""
	b.requiresNewline = true
	return nil
}

// closeQuoted ends a fenced, quoted or spoiler block.
func (b *baseParser) closeQuoted(tok jdast.Token) error {
	if string(b.mode) != tok.Type {
		b.tree.PushBlank(tok)
		return nil
	}
	kind := jdast.Kind(tok.Type)
	if err := b.validateDepthStack(tok, kind); err != nil {
		return err
	}
	b.tree.Push(jdast.Spec(kind, tok))
	b.ignoreUntil = ""
	b.requiresNewline = true
	return nil
}

func (b *baseParser) headingID(tok jdast.Token) error {
	if b.mode != modeHeading || (b.sub != subNone && b.sub != subHeadingID) {
		b.tree.PushBlank(tok)
		return nil
	}
	data, err := payloadOf[*jdast.HeadingData](b.safe(true), tok)
	if err != nil {
		return err
	}
	if b.sub == subNone {
		data.ID = ""
		b.sub = subHeadingID
		return nil
	}
	if err := b.validator.ValidateID(data.ID); err != nil {
		return b.invalid(tok, err)
	}
	b.sub = subNone
	return nil
}

func (b *baseParser) rightPara(tok jdast.Token) error {
	cur := b.tree.Current()
	switch {
	case b.sub == subCitation:
		data, err := payloadOf[*jdast.ReferenceData](cur, tok)
		if err != nil {
			return err
		}
		index, err := b.validator.CitationKey(data.Key)
		if err != nil {
			return b.invalid(tok, err)
		}
		data.Index = index
		b.tree.Push(jdast.Spec(jdast.KindCitation, tok))
		b.sub = subNone

	case b.mode == modeCitationDefinition && b.sub == subCitationDefinition:
		data, err := payloadOf[*jdast.DefinitionData](cur, tok)
		if err != nil {
			return err
		}
		refs, err := b.validator.CitationDefinition(data.Key)
		if err != nil {
			return b.invalid(tok, err)
		}
		data.Refs = refs
		b.sub = subNone

	case cur != nil && (b.sub == subMidAbbr || b.sub == subMidLink):
		if cur.Kind == jdast.KindLink || cur.Kind == jdast.KindImage {
			data, err := payloadOf[*jdast.LinkData](cur, tok)
			if err != nil {
				return err
			}
			if parts := strings.Split(data.Link, " "); len(parts) == 2 {
				data.Link, data.Title = parts[0], parts[1]
			}
		}
		b.tree.Push(jdast.Spec(cur.Kind, tok))
		b.sub = subNone

	default:
		b.tree.PushBlank(tok)
	}
	return nil
}

func (b *baseParser) rightBrac(tok jdast.Token) error {
	cur := b.tree.Current()
	switch {
	case b.sub == subFootnote:
		data, err := payloadOf[*jdast.ReferenceData](cur, tok)
		if err != nil {
			return err
		}
		index, err := b.validator.FootnoteKey(data.Key)
		if err != nil {
			return b.invalid(tok, err)
		}
		data.Index = index
		b.tree.Push(jdast.Spec(jdast.KindFootnote, tok))
		b.sub = subNone

	case b.mode == modeFootnoteDefinition && b.sub == subFootnoteDefinition:
		data, err := payloadOf[*jdast.DefinitionData](cur, tok)
		if err != nil {
			return err
		}
		refs, err := b.validator.FootnoteDefinition(data.Key)
		if err != nil {
			return b.invalid(tok, err)
		}
		data.Refs = refs
		b.sub = subNone

	default:
		b.tree.PushBlank(tok)
	}
	return nil
}
