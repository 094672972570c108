package goldmark

import (
	"bytes"

	"github.com/yaklabco/mdnotes/pkg/mdast"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// mapper converts a goldmark AST into an mdast.Node tree with source spans.
//
// goldmark records segments for text and leaf block lines only. Marker spans
// are recovered from the source around those segments, and blocks without
// lines are resolved relative to cursor.
type mapper struct {
	src []byte

	// cursor is the end of the last mapped block.
	cursor int

	// hint is where searches for inline markers without segments begin.
	hint int
}

// newMapper creates a new mapper for the given content.
func newMapper(src []byte) *mapper {
	return &mapper{src: src}
}

// mapDocument converts a goldmark document node to an mdast.Node tree.
func (m *mapper) mapDocument(gmDoc ast.Node) *mdast.Node {
	doc := mdast.NewDocument()
	m.mapChildren(gmDoc, doc)
	doc.Span = mdast.SpanOf(0, len(m.src))
	m.normalize(doc)
	m.fillGaps(doc)
	return doc
}

// mapChildren maps all children of a goldmark node and appends them to parent.
func (m *mapper) mapChildren(gmParent ast.Node, parent *mdast.Node) {
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		node := m.mapNode(child)
		if node == nil {
			continue
		}
		mdast.AppendChild(parent, node)
		m.advance(node)

		if t, ok := child.(*ast.Text); ok {
			if brk := m.mapBreak(t); brk != nil {
				mdast.AppendChild(parent, brk)
				m.advance(brk)
			}
		}
	}
}

// advance moves the block cursor or the inline hint past node.
func (m *mapper) advance(node *mdast.Node) {
	if !node.Span.Valid() {
		return
	}
	if node.IsBlock() {
		m.cursor = max(m.cursor, node.Span.End)
		return
	}
	m.hint = max(m.hint, node.Span.End)
}

// mapNode converts a single goldmark node to an mdast.Node.
func (m *mapper) mapNode(gmNode ast.Node) *mdast.Node {
	switch gmn := gmNode.(type) {
	// Block-level nodes.
	case *ast.Heading:
		return m.mapHeading(gmn)
	case *ast.Paragraph, *ast.TextBlock:
		return m.mapLeaf(mdast.NodeParagraph, gmn)
	case *ast.List:
		return m.mapList(gmn)
	case *ast.ListItem:
		return m.mapContainer(mdast.NodeListItem, gmn)
	case *ast.Blockquote:
		return m.mapContainer(mdast.NodeBlockquote, gmn)
	case *ast.FencedCodeBlock:
		return m.mapFencedCodeBlock(gmn)
	case *ast.CodeBlock:
		return m.mapIndentedCodeBlock(gmn)
	case *ast.ThematicBreak:
		node := mdast.NewNode(mdast.NodeThematicBreak)
		node.Span = m.emptyLineSpan()
		return node
	case *ast.HTMLBlock:
		return m.mapHTMLBlock(gmn)

	// Inline-level nodes.
	case *ast.Text:
		return m.mapText(gmn)
	case *ast.String:
		node := mdast.NewNode(mdast.NodeText)
		node.Inline = &mdast.InlineAttrs{Text: gmn.Value}
		node.Inline.Raw = gmn.IsRaw()
		return node
	case *ast.Emphasis:
		return m.mapEmphasis(gmn)
	case *ast.CodeSpan:
		return m.mapCodeSpan(gmn)
	case *ast.Link:
		return m.mapLink(mdast.NodeLink, gmn, gmn.Destination, gmn.Title)
	case *ast.Image:
		return m.mapLink(mdast.NodeImage, gmn, gmn.Destination, gmn.Title)
	case *ast.AutoLink:
		return m.mapAutoLink(gmn)
	case *ast.RawHTML:
		node := mdast.NewNode(mdast.NodeHTMLInline)
		node.Span = segmentsSpan(gmn.Segments)
		return node

	// GFM extension nodes.
	case *east.Strikethrough:
		return m.mapStrikethrough(gmn)
	case *east.TaskCheckBox:
		return m.mapTaskCheckBox(gmn)
	case *east.Table:
		return m.mapContainer(mdast.NodeTable, gmn)
	case *east.TableHeader:
		return m.mapTableRow(gmn, true)
	case *east.TableRow:
		return m.mapTableRow(gmn, false)
	case *east.TableCell:
		return m.mapTableCell(gmn)

	default:
		return m.mapRaw(gmNode)
	}
}

// mapHeading converts a goldmark Heading. ATX headings get the "#" run and
// its trailing whitespace as the opening marker and an optional closing "#"
// sequence; setext headings get their underline as the closing marker.
func (m *mapper) mapHeading(h *ast.Heading) *mdast.Node {
	node := mdast.NewNode(mdast.NodeHeading)
	node.Block = &mdast.BlockAttrs{HeadingLevel: h.Level}

	lines := h.Lines()
	if lines.Len() == 0 {
		// Empty ATX heading such as "#" or "##  ".
		line, ok := m.nextNonBlankLine(m.cursor)
		if !ok {
			return node
		}
		hash := m.indexFrom(line, []byte("#"))
		if hash < 0 || hash >= m.lineEnd(line) {
			return node
		}
		mdast.SetMarkers(node, mdast.SpanOf(hash, m.trimmedLineEnd(line)), mdast.NoSpan, mdast.NoSpan)
		return node
	}

	m.hint = lines.At(0).Start
	m.mapChildren(h, node)

	content := childSpan(node)
	if !content.Valid() {
		content = m.trim(segmentsSpan(lines))
	}

	if opening, ok := m.atxOpening(content.Start); ok {
		mdast.SetMarkers(node, opening, content, m.atxClosing(content.End))
		return node
	}

	node.Block.Setext = true
	closing := mdast.NoSpan
	if under := m.nextLine(content.End); under < len(m.src) {
		start, end := m.firstContent(under), m.trimmedLineEnd(under)
		if start < end && (m.src[start] == '=' || m.src[start] == '-') {
			closing = mdast.SpanOf(start, end)
		}
	}
	mdast.SetMarkers(node, mdast.NoSpan, content, closing)
	return node
}

// atxOpening scans back from the heading content over whitespace and a "#"
// run. It reports false for setext headings.
func (m *mapper) atxOpening(contentStart int) (mdast.Span, bool) {
	i := m.clamp(contentStart)
	for i > 0 && isSpaceOrTab(m.src[i-1]) {
		i--
	}
	hashes := m.countBefore(i, '#', 6)
	if hashes == 0 {
		return mdast.NoSpan, false
	}
	return mdast.SpanOf(i-hashes, contentStart), true
}

// atxClosing returns the optional closing "#" sequence after the content.
func (m *mapper) atxClosing(contentEnd int) mdast.Span {
	start := m.firstNonSpace(contentEnd, m.lineEnd(contentEnd))
	hashes := m.countAfter(start, '#', len(m.src))
	if hashes == 0 || start+hashes != m.trimmedLineEnd(contentEnd) {
		return mdast.NoSpan
	}
	return mdast.SpanOf(start, start+hashes)
}

// mapLeaf converts a paragraph-like block whose lines hold inline content.
func (m *mapper) mapLeaf(kind mdast.NodeKind, gmNode ast.Node) *mdast.Node {
	node := mdast.NewNode(kind)
	lines := gmNode.Lines()
	if lines.Len() > 0 {
		m.hint = lines.At(0).Start
	}
	m.mapChildren(gmNode, node)
	node.Span = m.trim(segmentsSpan(lines)).Union(childSpan(node))
	node.Content = node.Span
	if !node.Span.Valid() && !node.HasChildren() {
		// A paragraph emptied by link reference definitions.
		return nil
	}
	return node
}

// mapContainer converts a block whose extent is given by its children. The
// span is widened to the first non-space byte of the first child's line so it
// includes list markers and blockquote prefixes.
func (m *mapper) mapContainer(kind mdast.NodeKind, gmNode ast.Node) *mdast.Node {
	node := mdast.NewNode(kind)
	m.mapChildren(gmNode, node)

	span := childSpan(node)
	if !span.Valid() {
		node.Span = m.emptyLineSpan()
		return node
	}
	span.Start = m.firstNonSpace(m.lineStart(span.Start), span.Start)
	node.Span = span
	return node
}

// mapList converts a goldmark List to an mdast node.
func (m *mapper) mapList(list *ast.List) *mdast.Node {
	node := m.mapContainer(mdast.NodeList, list)
	node.Block = &mdast.BlockAttrs{List: &mdast.ListAttrs{
		Ordered:      list.IsOrdered(),
		BulletMarker: string(list.Marker),
		StartNumber:  list.Start,
		Tight:        list.IsTight,
	}}
	return node
}

// mapFencedCodeBlock converts a fenced code block. The fences become the
// opening and closing markers.
func (m *mapper) mapFencedCodeBlock(codeBlock *ast.FencedCodeBlock) *mdast.Node {
	node := mdast.NewNode(mdast.NodeCodeBlock)
	lines := codeBlock.Lines()

	attrs := &mdast.CodeBlockAttrs{Literal: m.segmentsValue(lines)}
	node.Block = &mdast.BlockAttrs{CodeBlock: attrs}

	var fenceLine int
	switch {
	case codeBlock.Info != nil:
		attrs.Info = string(bytes.TrimSpace(codeBlock.Info.Segment.Value(m.src)))
		fenceLine = m.lineStart(codeBlock.Info.Segment.Start)
	case lines.Len() > 0:
		fenceLine = m.prevLine(lines.At(0).Start)
	default:
		line, ok := m.nextNonBlankLine(m.cursor)
		if !ok {
			return node
		}
		fenceLine = line
	}

	opening := m.fenceSpan(fenceLine, 0)
	content := m.trim(segmentsSpan(lines))

	closing := mdast.NoSpan
	if opening.Valid() {
		after := m.nextLine(fenceLine)
		if lines.Len() > 0 {
			after = m.lineAtOrAfter(lines.At(lines.Len() - 1).Stop)
		}
		closing = m.fenceSpan(after, m.src[opening.Start])
	}

	mdast.SetMarkers(node, opening, content, closing)
	return node
}

// mapIndentedCodeBlock converts an indented code block.
func (m *mapper) mapIndentedCodeBlock(codeBlock *ast.CodeBlock) *mdast.Node {
	node := mdast.NewNode(mdast.NodeCodeBlock)
	lines := codeBlock.Lines()
	node.Block = &mdast.BlockAttrs{CodeBlock: &mdast.CodeBlockAttrs{
		Indented: true,
		Literal:  m.segmentsValue(lines),
	}}
	node.Span = m.trim(segmentsSpan(lines))
	node.Content = node.Span
	return node
}

// mapHTMLBlock converts a raw HTML block. Its lines are kept as the span but
// never as renderable content.
func (m *mapper) mapHTMLBlock(block *ast.HTMLBlock) *mdast.Node {
	node := mdast.NewNode(mdast.NodeHTMLBlock)
	span := segmentsSpan(block.Lines())
	if block.HasClosure() {
		span = span.Union(mdast.SpanOf(block.ClosureLine.Start, block.ClosureLine.Stop))
	}
	node.Span = m.trim(span)
	return node
}

// mapText converts a goldmark Text node to an mdast node.
func (m *mapper) mapText(textNode *ast.Text) *mdast.Node {
	node := mdast.NewNode(mdast.NodeText)
	seg := textNode.Segment
	node.Inline = &mdast.InlineAttrs{Text: seg.Value(m.src)}
	node.Inline.Raw = textNode.IsRaw()
	node.Span = mdast.SpanOf(seg.Start, seg.Stop)
	node.Content = node.Span
	return node
}

// mapBreak returns the soft or hard line break that follows a text node, or
// nil. The break spans from the end of the text through the newline.
func (m *mapper) mapBreak(textNode *ast.Text) *mdast.Node {
	var kind mdast.NodeKind
	switch {
	case textNode.HardLineBreak():
		kind = mdast.NodeHardBreak
	case textNode.SoftLineBreak():
		kind = mdast.NodeSoftBreak
	default:
		return nil
	}

	node := mdast.NewNode(kind)
	start := m.clamp(textNode.Segment.Stop)
	end := m.lineEnd(start)
	if end < len(m.src) {
		end++
	}
	node.Span = mdast.SpanOf(start, end)
	return node
}

// mapEmphasis converts a goldmark Emphasis node. Its markers are the level
// delimiter bytes on each side of the children.
func (m *mapper) mapEmphasis(emphasis *ast.Emphasis) *mdast.Node {
	kind := mdast.NodeEmphasis
	if emphasis.Level >= 2 {
		kind = mdast.NodeStrong
	}
	node := mdast.NewNode(kind)
	node.Inline = &mdast.InlineAttrs{EmphasisLevel: emphasis.Level}

	m.mapChildren(emphasis, node)
	content := childSpan(node)
	if !content.Valid() {
		return node
	}
	mdast.SetMarkers(node,
		m.markerBefore(content.Start, emphasis.Level, "*_"),
		content,
		m.markerAfter(content.End, emphasis.Level, "*_"),
	)
	return node
}

// mapStrikethrough converts a GFM Strikethrough to an mdast node.
func (m *mapper) mapStrikethrough(s *east.Strikethrough) *mdast.Node {
	node := mdast.NewNode(mdast.NodeStrikethrough)
	m.mapChildren(s, node)
	content := childSpan(node)
	if !content.Valid() {
		return node
	}
	tildes := m.countBefore(content.Start, '~', 2)
	mdast.SetMarkers(node,
		m.markerBefore(content.Start, tildes, "~"),
		content,
		m.markerAfter(content.End, tildes, "~"),
	)
	return node
}

// mapCodeSpan converts a goldmark CodeSpan. The backtick runs, plus the one
// padding space CommonMark strips, become the markers.
func (m *mapper) mapCodeSpan(codeSpan *ast.CodeSpan) *mdast.Node {
	node := mdast.NewNode(mdast.NodeCodeSpan)

	var value []byte
	content := mdast.NoSpan
	for child := codeSpan.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			value = append(value, t.Segment.Value(m.src)...)
			content = content.Union(mdast.SpanOf(t.Segment.Start, t.Segment.Stop))
		}
	}
	node.Inline = &mdast.InlineAttrs{Text: value}
	node.Inline.Raw = true
	if !content.Valid() {
		return node
	}

	start := content.Start
	if m.countBefore(start, ' ', 1) == 1 && m.countBefore(start-1, '`', 1) == 1 {
		start--
	}
	opening := m.markerBefore(start, m.countBefore(start, '`', len(m.src)), "`")

	end := content.End
	if m.countAfter(end, ' ', 1) == 1 && m.countAfter(end+1, '`', 1) == 1 {
		end++
	}
	closing := m.markerAfter(end, m.countAfter(end, '`', len(m.src)), "`")

	if opening.Valid() {
		opening.End = content.Start
	}
	if closing.Valid() {
		closing.Start = content.End
	}
	mdast.SetMarkers(node, opening, content, closing)
	return node
}

// mapLink converts a link or image. The opening marker is "[" or "![" and the
// closing marker runs from "]" through the destination or reference label.
func (m *mapper) mapLink(kind mdast.NodeKind, gmNode ast.Node, dest, title []byte) *mdast.Node {
	node := mdast.NewNode(kind)
	node.Inline = &mdast.InlineAttrs{Link: &mdast.LinkAttrs{
		Destination: string(dest),
		Title:       string(title),
	}}

	prefix := []byte("[")
	if kind == mdast.NodeImage {
		prefix = []byte("![")
	}

	searchFrom := m.hint
	m.mapChildren(gmNode, node)

	content := childSpan(node)
	opening := mdast.NoSpan
	switch {
	case content.Valid():
		start := content.Start - len(prefix)
		if start >= 0 && bytes.HasPrefix(m.src[start:], prefix) {
			opening = mdast.SpanOf(start, content.Start)
		}
	default:
		// Empty label, e.g. "[](url)".
		if at := m.indexFrom(searchFrom, prefix); at >= 0 {
			opening = mdast.SpanOf(at, at+len(prefix))
			content = mdast.SpanOf(opening.End, opening.End)
		}
	}
	if !content.Valid() {
		return node
	}
	mdast.SetMarkers(node, opening, content, m.linkClosing(content.End))
	return node
}

// mapAutoLink converts "<https://...>", "<a@b.c>" and GFM bare URLs into a
// link node with a single text child.
func (m *mapper) mapAutoLink(al *ast.AutoLink) *mdast.Node {
	node := mdast.NewNode(mdast.NodeLink)
	node.Inline = &mdast.InlineAttrs{Link: &mdast.LinkAttrs{
		Destination: string(al.URL(m.src)),
		Autolink:    true,
		Email:       al.AutoLinkType == ast.AutoLinkEmail,
	}}

	label := al.Label(m.src)
	textNode := mdast.NewNode(mdast.NodeText)
	textNode.Inline = &mdast.InlineAttrs{Text: label}
	mdast.AppendChild(node, textNode)

	at := m.indexFrom(m.hint, label)
	if at < 0 || len(label) == 0 {
		return node
	}
	content := mdast.SpanOf(at, at+len(label))
	textNode.Span, textNode.Content = content, content

	opening, closing := mdast.NoSpan, mdast.NoSpan
	if m.countBefore(at, '<', 1) == 1 && m.countAfter(content.End, '>', 1) == 1 {
		opening = mdast.SpanOf(at-1, at)
		closing = mdast.SpanOf(content.End, content.End+1)
	}
	mdast.SetMarkers(node, opening, content, closing)
	return node
}

// mapTaskCheckBox converts a GFM task list marker to a text node.
func (m *mapper) mapTaskCheckBox(cb *east.TaskCheckBox) *mdast.Node {
	node := mdast.NewNode(mdast.NodeText)
	value := "[ ]"
	if cb.IsChecked {
		value = "[x]"
	}
	node.Inline = &mdast.InlineAttrs{Text: []byte(value)}
	node.SetExt("task_checked", cb.IsChecked)

	if open := m.indexFrom(m.hint, []byte("[")); open >= 0 && open+3 <= len(m.src) && m.src[open+2] == ']' {
		node.Span = mdast.SpanOf(open, open+3)
		node.Content = node.Span
	}
	return node
}

// mapTableRow converts a GFM header or body row.
func (m *mapper) mapTableRow(gmNode ast.Node, header bool) *mdast.Node {
	node := m.mapContainer(mdast.NodeTableRow, gmNode)
	node.Block = &mdast.BlockAttrs{Table: &mdast.TableAttrs{Header: header}}
	return node
}

// mapTableCell converts a GFM table cell.
func (m *mapper) mapTableCell(cell *east.TableCell) *mdast.Node {
	node := mdast.NewNode(mdast.NodeTableCell)
	_, header := cell.Parent().(*east.TableHeader)
	node.Block = &mdast.BlockAttrs{Table: &mdast.TableAttrs{
		Header: header,
		Align:  alignmentName(cell.Alignment),
	}}

	lines := cell.Lines()
	if lines.Len() > 0 {
		m.hint = lines.At(0).Start
	}
	m.mapChildren(cell, node)
	node.Span = m.trim(segmentsSpan(lines)).Union(childSpan(node))
	node.Content = node.Span
	return node
}

func alignmentName(align east.Alignment) string {
	switch align {
	case east.AlignLeft:
		return "left"
	case east.AlignRight:
		return "right"
	case east.AlignCenter:
		return "center"
	default:
		return ""
	}
}

// mapRaw is the fallback for node types without a dedicated mapping.
func (m *mapper) mapRaw(gmNode ast.Node) *mdast.Node {
	node := mdast.NewNode(mdast.NodeRaw)
	node.SetExt("type", gmNode.Kind().String())
	m.mapChildren(gmNode, node)

	span := childSpan(node)
	if gmNode.Type() == ast.TypeBlock {
		span = m.trim(segmentsSpan(gmNode.Lines())).Union(span)
	}
	node.Span = span
	return node
}

// normalize clamps every span to the content and replaces malformed spans
// with NoSpan.
func (m *mapper) normalize(root *mdast.Node) {
	fix := func(span mdast.Span) mdast.Span {
		if !span.Valid() {
			return mdast.NoSpan
		}
		return span.Clamp(len(m.src))
	}

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	mdast.Walk(root, func(n *mdast.Node) error {
		n.Span = fix(n.Span)
		n.Opening = fix(n.Opening)
		n.Closing = fix(n.Closing)
		n.Content = fix(n.Content)
		return nil
	})
}

// fillGaps inserts Raw nodes for non-blank source between top-level blocks
// that no block claims, such as link reference definitions, so the document's
// children cover every non-whitespace byte.
func (m *mapper) fillGaps(doc *mdast.Node) {
	prev := 0
	for _, child := range doc.Children() {
		if !child.Span.Valid() {
			continue
		}
		if child.Span.Start > prev {
			if gap := m.gapNode(prev, child.Span.Start); gap != nil {
				mdast.InsertBefore(child, gap)
			}
		}
		prev = max(prev, child.Span.End)
	}
	if gap := m.gapNode(prev, len(m.src)); gap != nil {
		mdast.AppendChild(doc, gap)
	}
}

func (m *mapper) gapNode(start, end int) *mdast.Node {
	span := m.trim(mdast.SpanOf(start, end))
	if span.IsEmpty() {
		return nil
	}
	node := mdast.NewNode(mdast.NodeRaw)
	node.Span = span
	node.SetExt("type", "Unmapped")
	return node
}
