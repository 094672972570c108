package mdast_test

import (
	"testing"

	"github.com/yaklabco/mdnotes/pkg/mdast"
)

func TestNode_IsBlockAndIsInline(t *testing.T) {
	t.Parallel()

	blockKinds := []mdast.NodeKind{
		mdast.NodeDocument, mdast.NodeParagraph, mdast.NodeHeading,
		mdast.NodeList, mdast.NodeListItem, mdast.NodeBlockquote,
		mdast.NodeCodeBlock, mdast.NodeThematicBreak, mdast.NodeHTMLBlock,
		mdast.NodeTable, mdast.NodeTableRow, mdast.NodeTableCell,
	}
	for _, kind := range blockKinds {
		node := mdast.NewNode(kind)
		if !node.IsBlock() || node.IsInline() {
			t.Errorf("expected %s to be block only", kind)
		}
	}

	inlineKinds := []mdast.NodeKind{
		mdast.NodeText, mdast.NodeEmphasis, mdast.NodeStrong,
		mdast.NodeStrikethrough, mdast.NodeCodeSpan, mdast.NodeLink,
		mdast.NodeImage, mdast.NodeSoftBreak, mdast.NodeHardBreak,
		mdast.NodeHTMLInline,
	}
	for _, kind := range inlineKinds {
		node := mdast.NewNode(kind)
		if !node.IsInline() || node.IsBlock() {
			t.Errorf("expected %s to be inline only", kind)
		}
	}

	raw := mdast.NewNode(mdast.NodeRaw)
	if raw.IsBlock() || raw.IsInline() {
		t.Error("expected Raw to be neither block nor inline")
	}
}

func TestNodeKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind mdast.NodeKind
		want string
	}{
		{mdast.NodeDocument, "Document"},
		{mdast.NodeHeading, "Heading"},
		{mdast.NodeStrong, "Strong"},
		{mdast.NodeHTMLInline, "HTMLInline"},
		{mdast.NodeRaw, "Raw"},
		{mdast.NodeKind(999), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("NodeKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestNode_Children(t *testing.T) {
	t.Parallel()

	parent := mdast.NewNode(mdast.NodeParagraph)
	if parent.HasChildren() || parent.ChildCount() != 0 {
		t.Fatal("new node should have no children")
	}

	first := mdast.NewNode(mdast.NodeText)
	second := mdast.NewNode(mdast.NodeEmphasis)
	mdast.AppendChild(parent, first)
	mdast.AppendChild(parent, second)

	children := parent.Children()
	if len(children) != 2 || children[0] != first || children[1] != second {
		t.Fatalf("unexpected children: %v", children)
	}
	if parent.ChildCount() != 2 {
		t.Errorf("ChildCount() = %d, want 2", parent.ChildCount())
	}
}

func TestNode_Level(t *testing.T) {
	t.Parallel()

	heading := mdast.NewNode(mdast.NodeHeading)
	heading.Block = &mdast.BlockAttrs{HeadingLevel: 3}
	if heading.Level() != 3 {
		t.Errorf("heading Level() = %d, want 3", heading.Level())
	}

	strong := mdast.NewNode(mdast.NodeStrong)
	strong.Inline = &mdast.InlineAttrs{EmphasisLevel: 2}
	if strong.Level() != 2 {
		t.Errorf("strong Level() = %d, want 2", strong.Level())
	}

	if mdast.NewNode(mdast.NodeText).Level() != 0 {
		t.Error("text Level() should be 0")
	}
}

func TestNode_SetExt(t *testing.T) {
	t.Parallel()

	node := mdast.NewNode(mdast.NodeRaw)
	node.SetExt("reason", "gap")
	if node.Ext["reason"] != "gap" {
		t.Errorf("Ext[reason] = %v, want gap", node.Ext["reason"])
	}
}

func TestNode_TextAndPosition(t *testing.T) {
	t.Parallel()

	snap := mdast.NewSnapshot([]byte("# Title\n**bold**"), 4)
	strong := mdast.NewNode(mdast.NodeStrong)
	mdast.SetMarkers(strong, mdast.SpanOf(8, 10), mdast.SpanOf(10, 14), mdast.SpanOf(14, 16))
	mdast.SetFile(strong, snap)

	if got := string(strong.Text()); got != "**bold**" {
		t.Errorf("Text() = %q", got)
	}
	if got := string(strong.ContentText()); got != "bold" {
		t.Errorf("ContentText() = %q", got)
	}
	if pos := strong.Position(); pos != (mdast.Position{Line: 2, Column: 1}) {
		t.Errorf("Position() = %+v", pos)
	}

	orphan := mdast.NewNode(mdast.NodeText)
	if orphan.Text() != nil || orphan.Position().IsValid() {
		t.Error("node without file should have no text or position")
	}
}
