package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdnotes/pkg/mdast"
)

// FormatTree prints one line per node: indentation by depth, kind, source
// position, and spans. maxDepth limits the dump; 0 means unlimited.
func (s *Styles) FormatTree(root *mdast.Node, maxDepth int) string {
	var sb strings.Builder
	depth := -1

	enter := func(n *mdast.Node) error {
		depth++
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(s.Kind.Render(n.Kind.String()))

		if pos := n.Position(); pos.IsValid() {
			sb.WriteString(s.Dim.Render(fmt.Sprintf(" %d:%d", pos.Line, pos.Column)))
		}
		sb.WriteString(" " + s.Span.Render(formatSpan(n.Span)))

		if n.Opening.Valid() || n.Closing.Valid() {
			sb.WriteString(s.Span.Render(fmt.Sprintf(" open=%s close=%s", formatSpan(n.Opening), formatSpan(n.Closing))))
		}
		if level := n.Level(); level > 0 {
			sb.WriteString(fmt.Sprintf(" level=%d", level))
		}
		if n.Kind == mdast.NodeText && n.Inline != nil {
			sb.WriteString(fmt.Sprintf(" %q", truncateString(string(n.Inline.Text), 40)))
		}

		sb.WriteString("\n")
		if maxDepth > 0 && depth+1 >= maxDepth {
			return mdast.SkipChildren
		}
		return nil
	}
	leave := func(*mdast.Node) error {
		depth--
		return nil
	}

	_ = mdast.WalkWithContext(root, enter, leave)
	return sb.String()
}

func formatSpan(span mdast.Span) string {
	if !span.Valid() {
		return "-"
	}
	return fmt.Sprintf("[%d,%d)", span.Start, span.End)
}
