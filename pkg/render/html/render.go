// Package html renders a JotDown document tree as HTML.
package html

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/jotdown/pkg/jdast"
	"github.com/yaklabco/jotdown/pkg/langdetect"
	"github.com/yaklabco/jotdown/pkg/validate"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithStandalone wraps the output in an html and body element.
func WithStandalone(standalone bool) Option {
	return func(r *Renderer) {
		r.standalone = standalone
	}
}

// WithStyles replaces the injected stylesheet. An empty css injects none.
func WithStyles(css string) Option {
	return func(r *Renderer) {
		r.styles = css
	}
}

// WithHighlighting colours fenced code using the named chroma style.
func WithHighlighting(style string) Option {
	return func(r *Renderer) {
		if style == "" {
			style = DefaultHighlightStyle
		}
		r.highlighter = newHighlighter(style)
	}
}

// WithLanguageDetection guesses the language of fences that declare none.
// It only has an effect together with WithHighlighting.
func WithLanguageDetection(detect bool) Option {
	return func(r *Renderer) {
		r.detect = detect
	}
}

// WithLogger traces rendered blocks.
func WithLogger(logger *log.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer turns a finished tree into HTML. A Renderer holds no per-document
// state and may be shared between goroutines.
type Renderer struct {
	standalone  bool
	styles      string
	highlighter *highlighter
	detect      bool
	logger      *log.Logger
}

// New creates a Renderer that injects DefaultStyles unless told otherwise.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		styles: DefaultStyles,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns the HTML for tree.
func (r *Renderer) Render(tree *jdast.Tree) string {
	w := &writer{renderer: r, tree: tree}

	if r.standalone {
		w.out.WriteString("<html>\n<body>\n")
	}
	if r.styles != "" {
		w.out.WriteString("<style>")
		w.out.WriteString(r.styles)
		w.out.WriteString("</style>\n")
	}
	for _, id := range tree.Blocks() {
		w.node(id)
		w.out.WriteString("\n")
		r.logger.Debug("block", "kind", tree.Node(id).Kind, "bytes", w.out.Len())
	}
	if r.standalone {
		w.out.WriteString("\n</body>\n</html>")
	}

	return w.out.String()
}

// RenderTo writes the HTML for tree to out.
func (r *Renderer) RenderTo(out io.Writer, tree *jdast.Tree) error {
	if _, err := io.WriteString(out, r.Render(tree)); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}

// writer renders one document.
type writer struct {
	renderer *Renderer
	tree     *jdast.Tree
	out      strings.Builder

	// raw disables escaping inside stylesheet and plaintext regions.
	raw bool
}

func (w *writer) node(id jdast.NodeID) {
	node := w.tree.Node(id)
	if node == nil {
		return
	}

	switch node.Kind {
	case jdast.KindBlank:
		w.text(node.Value)
	case jdast.KindOverrides, jdast.KindComment, jdast.KindTOC:
	case jdast.KindStylesheet:
		w.out.WriteString("<style>")
		w.rawChildren(node)
		w.out.WriteString("</style>")
	case jdast.KindPlaintext:
		w.rawChildren(node)
	case jdast.KindNewline:
		w.out.WriteString("\n<br/>\n")
	case jdast.KindHR:
		fmt.Fprintf(&w.out, "\n<hr%s/>\n", w.attrs(node))
	case jdast.KindDiv, jdast.KindSpan, jdast.KindStrong, jdast.KindU, jdast.KindMark,
		jdast.KindEm, jdast.KindS, jdast.KindSup, jdast.KindSub:
		w.element(string(node.Kind), node, "")
	case jdast.KindText:
		fmt.Fprintf(&w.out, "<p%s>\n", w.attrs(node))
		w.children(node)
		w.out.WriteString("\n</p>\n")
	case jdast.KindHeading:
		level := 6
		if data, ok := jdast.DataAs[*jdast.HeadingData](node); ok {
			level = data.Level
		}
		w.element("h"+strconv.Itoa(level), node, "")
		w.out.WriteString("\n")
	case jdast.KindBlockquote:
		cite := ""
		if data, ok := jdast.DataAs[*jdast.BlockquoteData](node); ok {
			cite = data.Cite
		}
		w.element("blockquote", node, attr("cite", cite))
	case jdast.KindFences:
		w.fences(node)
	case jdast.KindCode:
		w.out.WriteString("<span>")
		w.element("code", node, "")
		w.out.WriteString("</span>")
	case jdast.KindSpoiler:
		w.spoiler(node)
	case jdast.KindAbbr:
		full := ""
		if data, ok := jdast.DataAs[*jdast.AbbrData](node); ok {
			full = data.FullText
		}
		w.element("abbr", node, attr("title", full))
	case jdast.KindLink, jdast.KindEmail:
		w.link(id, node)
	case jdast.KindImage:
		w.image(id, node)
	case jdast.KindCitation, jdast.KindFootnote:
		w.reference(node)
	case jdast.KindCitationDefinition, jdast.KindFootnoteDefinition:
		w.definition(node)
	case jdast.KindUL, jdast.KindOL:
		w.list(node)
	case jdast.KindTable:
		w.table(node)
	default:
		w.children(node)
	}
}

// children renders the children of node without a leading or trailing
// newline node.
func (w *writer) children(node *jdast.Node) {
	for _, child := range trimmed(w.tree, node.Children) {
		w.node(child)
	}
}

func (w *writer) rawChildren(node *jdast.Node) {
	raw := w.raw
	w.raw = true
	w.children(node)
	w.raw = raw
}

func (w *writer) text(value string) {
	if w.raw {
		w.out.WriteString(value)
		return
	}
	w.out.Write(util.EscapeHTML([]byte(value)))
}

func (w *writer) element(tag string, node *jdast.Node, extra string) {
	fmt.Fprintf(&w.out, "<%s%s%s>", tag, w.attrs(node), extra)
	w.children(node)
	fmt.Fprintf(&w.out, "</%s>", tag)
}

func (w *writer) fences(node *jdast.Node) {
	language := ""
	if data, ok := jdast.DataAs[*jdast.FenceData](node); ok {
		language = data.Language
	}

	fmt.Fprintf(&w.out, "<pre><code%s>", w.attrs(node))
	if !w.highlight(language, w.textOf(node)) {
		w.children(node)
	}
	w.out.WriteString("</code></pre>\n")
}

// highlight writes source through the highlighter and reports whether it did.
func (w *writer) highlight(language, source string) bool {
	h := w.renderer.highlighter
	if h == nil {
		return false
	}
	if language == "" && w.renderer.detect {
		language = langdetect.Detect(source)
	}
	if !langdetect.Supported(language) {
		return false
	}

	var coloured strings.Builder
	ok, err := h.highlight(&coloured, language, source)
	if err != nil {
		w.renderer.logger.Debug("highlight failed", "language", language, "error", err)
		return false
	}
	if ok {
		w.out.WriteString(coloured.String())
	}
	return ok
}

func (w *writer) spoiler(node *jdast.Node) {
	fmt.Fprintf(&w.out, "<details%s><summary>", w.attrs(node))
	if data, ok := jdast.DataAs[*jdast.SpoilerData](node); ok {
		for _, id := range trimmed(w.tree, data.Summary) {
			w.node(id)
		}
	}
	w.out.WriteString("</summary>")
	w.children(node)
	w.out.WriteString("</details>\n")
}

func (w *writer) link(id jdast.NodeID, node *jdast.Node) {
	data, _ := jdast.DataAs[*jdast.LinkData](node)
	href, title := "", w.tree.Text(id)
	if data != nil {
		href = data.Link
		if data.Title != "" {
			title = data.Title
		}
	}
	if node.Kind == jdast.KindEmail {
		href = "mailto:" + href
	}
	w.element("a", node, attr("href", escapeURL(href))+attr("title", title))
}

func (w *writer) image(id jdast.NodeID, node *jdast.Node) {
	data, _ := jdast.DataAs[*jdast.LinkData](node)
	src, title := "", ""
	if data != nil {
		src, title = data.Link, data.Title
	}
	fmt.Fprintf(&w.out, "<img%s%s%s%s/>",
		w.attrs(node), attr("src", escapeURL(src)), attr("alt", w.tree.Text(id)), attr("title", title))
}

func (w *writer) reference(node *jdast.Node) {
	data, ok := jdast.DataAs[*jdast.ReferenceData](node)
	if !ok {
		return
	}
	key := escape(escapeURL(data.Key))
	if node.Kind == jdast.KindCitation {
		fmt.Fprintf(&w.out, `(<a style="text-decoration: none" id="ctref:%s:%s" href="#ct:%s">%s</a>)`,
			key, data.Index, key, escape(data.Key))
		return
	}
	fmt.Fprintf(&w.out, `<sup>[<a style="text-decoration: none" id="fnref:%s:%s" href="#fn:%s">%s</a>]</sup>`,
		key, data.Index, key, escape(data.Key))
}

// definition renders a citation or footnote definition followed by a
// back-link to every use of its key. Citation uses are lettered, footnote
// uses numbered, matching the labels given to the references.
func (w *writer) definition(node *jdast.Node) {
	data, ok := jdast.DataAs[*jdast.DefinitionData](node)
	if !ok {
		return
	}
	prefix, label := "fn", func(i int) string { return strconv.Itoa(i + 1) }
	if node.Kind == jdast.KindCitationDefinition {
		prefix, label = "ct", validate.IndexToLetters
	}

	key := escape(escapeURL(data.Key))
	fmt.Fprintf(&w.out, `<div%s id="%s:%s">%s`, w.classAndStyle(node), prefix, key, escape(data.Key))
	w.children(node)
	w.out.WriteString(" ")
	for i := range data.Refs {
		fmt.Fprintf(&w.out, `<sup><b><i><a style="text-decoration: none" href="#%sref:%s:%s">%s</a></i></b></sup> `,
			prefix, key, label(i), label(i))
	}
	w.out.WriteString("</div>")
}

func (w *writer) list(node *jdast.Node) {
	tag := string(node.Kind)
	fmt.Fprintf(&w.out, "\n<%s%s>\n", tag, w.attrs(node))
	for _, id := range node.Children {
		item := w.tree.Node(id)
		if item == nil {
			continue
		}
		fmt.Fprintf(&w.out, "<li%s>", w.attrs(item))
		if task, ok := jdast.DataAs[*jdast.ListItemData](item); ok && task.Task {
			state := "disabled"
			if task.Checked {
				state = "checked readonly"
			}
			fmt.Fprintf(&w.out, `<input type="checkbox" %s/>`, state)
		}
		w.children(item)
		w.out.WriteString("</li>\n")
	}
	fmt.Fprintf(&w.out, "</%s>\n", tag)
}

func (w *writer) table(node *jdast.Node) {
	fmt.Fprintf(&w.out, "<table%s>", w.attrs(node))

	rows := node.Children
	if data, ok := jdast.DataAs[*jdast.TableData](node); ok && data.HasHeader && len(rows) > 0 {
		w.out.WriteString("<thead><tr>")
		if first := w.tree.Node(rows[0]); first != nil && len(first.Children) > 0 {
			if header := w.tree.Node(first.Children[0]); header != nil {
				w.cells("th", header.Children)
			}
		}
		w.out.WriteString("</tr></thead>")
		rows = rows[1:]
	}

	w.out.WriteString("<tbody>")
	for _, id := range rows {
		row := w.tree.Node(id)
		if row == nil {
			continue
		}
		w.out.WriteString("<tr>")
		w.cells("td", row.Children)
		w.out.WriteString("</tr>")
	}
	w.out.WriteString("</tbody></table>")
}

func (w *writer) cells(tag string, ids []jdast.NodeID) {
	for _, id := range ids {
		cell := w.tree.Node(id)
		if cell == nil {
			continue
		}
		fmt.Fprintf(&w.out, "<%s%s>", tag, w.attrs(cell))
		w.children(cell)
		fmt.Fprintf(&w.out, "</%s>", tag)
	}
}

func (w *writer) textOf(node *jdast.Node) string {
	return w.tree.TextOf(node.Children)
}

// attrs formats the id, class and style attributes of node. A heading's own
// id wins over an override id.
func (w *writer) attrs(node *jdast.Node) string {
	id := ""
	if data, ok := jdast.DataAs[*jdast.HeadingData](node); ok {
		id = data.ID
	}
	if id == "" && node.Overrides != nil {
		id = node.Overrides.ID
	}
	return attr("id", id) + w.classAndStyle(node)
}

func (w *writer) classAndStyle(node *jdast.Node) string {
	o := node.Overrides
	if o == nil {
		return ""
	}
	decls := make([]string, 0, len(o.Style))
	for _, decl := range o.Style {
		decls = append(decls, decl.Property+":"+decl.Value)
	}
	return attr("class", o.Classes) + attr("style", strings.Join(decls, ";"))
}

// trimmed drops a leading and a trailing newline node from ids.
func trimmed(tree *jdast.Tree, ids []jdast.NodeID) []jdast.NodeID {
	isNewline := func(id jdast.NodeID) bool {
		node := tree.Node(id)
		return node != nil && node.Kind == jdast.KindNewline
	}
	if len(ids) > 0 && isNewline(ids[len(ids)-1]) {
		ids = ids[:len(ids)-1]
	}
	if len(ids) > 0 && isNewline(ids[0]) {
		ids = ids[1:]
	}
	return ids
}

func attr(name, value string) string {
	if value == "" {
		return ""
	}
	return " " + name + `="` + escape(value) + `"`
}

func escape(value string) string {
	return string(util.EscapeHTML([]byte(value)))
}

func escapeURL(value string) string {
	return string(util.URLEscape([]byte(value), false))
}
