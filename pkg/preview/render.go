// Package preview renders an mdast tree to the sanitized HTML fragment shown
// in the read-only preview pane.
//
// Images render to nothing, not even their alt text, and raw HTML is dropped,
// so a preview never references an external resource or carries markup from
// the note itself.
package preview

import (
	"bufio"
	"bytes"
	"strconv"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/mdnotes/pkg/langdetect"
	"github.com/yaklabco/mdnotes/pkg/mdast"
)

// Renderer converts mdast trees to HTML. It holds no per-call state and is
// safe for concurrent use.
type Renderer struct {
	policy          *bluemonday.Policy
	writer          html.Writer
	detectLanguages bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLanguageDetection tags fenced code without an info string with the
// language guessed from its content.
func WithLanguageDetection(enabled bool) Option {
	return func(r *Renderer) {
		r.detectLanguages = enabled
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		policy: newPolicy(),
		writer: html.DefaultWriter,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns the sanitized HTML for the tree rooted at root. It is
// deterministic and never fails; a nil root renders as the empty string.
func (r *Renderer) Render(root *mdast.Node) string {
	if root == nil {
		return ""
	}

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	r.renderNode(w, root)
	_ = w.Flush() // writes to a bytes.Buffer cannot fail

	return r.policy.Sanitize(buf.String())
}

func (r *Renderer) renderChildren(w *bufio.Writer, n *mdast.Node) {
	for child := n.FirstChild; child != nil; child = child.Next {
		r.renderNode(w, child)
	}
}

func (r *Renderer) renderNode(w *bufio.Writer, n *mdast.Node) {
	switch n.Kind {
	case mdast.NodeDocument:
		r.renderChildren(w, n)

	case mdast.NodeParagraph:
		if inTightList(n) {
			r.renderChildren(w, n)
			if n.Next != nil {
				_ = w.WriteByte('\n')
			}
			return
		}
		r.wrap(w, n, "<p>", "</p>\n")

	case mdast.NodeHeading:
		level := strconv.Itoa(min(max(n.Level(), 1), 6))
		r.wrap(w, n, "<h"+level+">", "</h"+level+">\n")

	case mdast.NodeBlockquote:
		r.wrap(w, n, "<blockquote>\n", "</blockquote>\n")

	case mdast.NodeList:
		r.renderList(w, n)

	case mdast.NodeListItem:
		r.wrap(w, n, "<li>", "</li>\n")

	case mdast.NodeCodeBlock:
		r.renderCodeBlock(w, n)

	case mdast.NodeThematicBreak:
		_, _ = w.WriteString("<hr>\n")

	case mdast.NodeTable:
		r.renderTable(w, n)

	case mdast.NodeText:
		r.renderText(w, n)

	case mdast.NodeSoftBreak:
		_ = w.WriteByte('\n')

	case mdast.NodeHardBreak:
		_, _ = w.WriteString("<br>\n")

	case mdast.NodeEmphasis:
		r.wrap(w, n, "<em>", "</em>")

	case mdast.NodeStrong:
		r.wrap(w, n, "<strong>", "</strong>")

	case mdast.NodeStrikethrough:
		r.wrap(w, n, "<del>", "</del>")

	case mdast.NodeCodeSpan:
		_, _ = w.WriteString("<code>")
		if n.Inline != nil {
			r.writer.RawWrite(w, bytes.ReplaceAll(n.Inline.Text, []byte("\n"), []byte(" ")))
		}
		_, _ = w.WriteString("</code>")

	case mdast.NodeLink:
		r.renderLink(w, n)

	case mdast.NodeImage, mdast.NodeHTMLBlock, mdast.NodeHTMLInline:
		// Suppressed: no output, and image alt text is not rendered either.

	case mdast.NodeRaw:
		if n.Ext["type"] == "Unmapped" {
			return
		}
		r.renderChildren(w, n)

	default:
		r.renderChildren(w, n)
	}
}

func (r *Renderer) wrap(w *bufio.Writer, n *mdast.Node, open, close string) {
	_, _ = w.WriteString(open)
	r.renderChildren(w, n)
	_, _ = w.WriteString(close)
}

func (r *Renderer) renderText(w *bufio.Writer, n *mdast.Node) {
	if n.Inline == nil {
		return
	}
	if n.Inline.Raw {
		r.writer.RawWrite(w, n.Inline.Text)
		return
	}
	r.writer.Write(w, n.Inline.Text)
	if _, task := n.Ext["task_checked"]; task {
		_ = w.WriteByte(' ')
	}
}

func (r *Renderer) renderList(w *bufio.Writer, n *mdast.Node) {
	attrs := n.Block
	if attrs == nil || attrs.List == nil || !attrs.List.Ordered {
		r.wrap(w, n, "<ul>\n", "</ul>\n")
		return
	}
	open := "<ol>\n"
	if attrs.List.StartNumber != 1 {
		open = `<ol start="` + strconv.Itoa(attrs.List.StartNumber) + `">` + "\n"
	}
	r.wrap(w, n, open, "</ol>\n")
}

func (r *Renderer) renderCodeBlock(w *bufio.Writer, n *mdast.Node) {
	var code *mdast.CodeBlockAttrs
	if n.Block != nil {
		code = n.Block.CodeBlock
	}
	if code == nil {
		code = &mdast.CodeBlockAttrs{}
	}

	_, _ = w.WriteString("<pre><code")
	if lang := langdetect.ForCodeBlock(code.Info, code.Literal, r.detectLanguages && !code.Indented); lang != "" {
		_, _ = w.WriteString(` class="language-`)
		_, _ = w.Write(util.EscapeHTML([]byte(lang)))
		_ = w.WriteByte('"')
	}
	_ = w.WriteByte('>')
	r.writer.RawWrite(w, code.Literal)
	_, _ = w.WriteString("</code></pre>\n")
}

func (r *Renderer) renderLink(w *bufio.Writer, n *mdast.Node) {
	var link *mdast.LinkAttrs
	if n.Inline != nil {
		link = n.Inline.Link
	}
	if link == nil || html.IsDangerousURL([]byte(link.Destination)) {
		r.renderChildren(w, n)
		return
	}

	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(util.EscapeHTML(util.URLEscape([]byte(link.Destination), true)))
	_ = w.WriteByte('"')
	if link.Title != "" {
		_, _ = w.WriteString(` title="`)
		r.writer.Write(w, []byte(link.Title))
		_ = w.WriteByte('"')
	}
	_ = w.WriteByte('>')
	r.renderChildren(w, n)
	_, _ = w.WriteString("</a>")
}

func (r *Renderer) renderTable(w *bufio.Writer, n *mdast.Node) {
	_, _ = w.WriteString("<table>\n")
	inBody := false
	for row := n.FirstChild; row != nil; row = row.Next {
		header := row.Block != nil && row.Block.Table != nil && row.Block.Table.Header
		switch {
		case header:
			_, _ = w.WriteString("<thead>\n")
		case !inBody:
			_, _ = w.WriteString("<tbody>\n")
			inBody = true
		}
		r.renderRow(w, row, header)
		if header {
			_, _ = w.WriteString("</thead>\n")
		}
	}
	if inBody {
		_, _ = w.WriteString("</tbody>\n")
	}
	_, _ = w.WriteString("</table>\n")
}

func (r *Renderer) renderRow(w *bufio.Writer, row *mdast.Node, header bool) {
	tag := "td"
	if header {
		tag = "th"
	}
	_, _ = w.WriteString("<tr>\n")
	for cell := row.FirstChild; cell != nil; cell = cell.Next {
		_, _ = w.WriteString("<" + tag)
		if cell.Block != nil && cell.Block.Table != nil && cell.Block.Table.Align != "" {
			_, _ = w.WriteString(` align="` + cell.Block.Table.Align + `"`)
		}
		_ = w.WriteByte('>')
		r.renderChildren(w, cell)
		_, _ = w.WriteString("</" + tag + ">\n")
	}
	_, _ = w.WriteString("</tr>\n")
}

// inTightList reports whether a paragraph sits directly in an item of a
// tight list, where it renders without <p>.
func inTightList(n *mdast.Node) bool {
	item := n.Parent
	if item == nil || item.Kind != mdast.NodeListItem || item.Parent == nil {
		return false
	}
	list := item.Parent
	return list.Block != nil && list.Block.List != nil && list.Block.List.Tight
}
