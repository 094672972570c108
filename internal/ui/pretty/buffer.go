package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/mdnotes/pkg/buffer"
	"github.com/yaklabco/mdnotes/pkg/style"
)

// RenderBuffer prints text with each run styled by its attributes. A
// terminal has one font size, so enlarged text is underlined instead, and
// hidden markers are drawn faint in the marker color.
func RenderBuffer(r *lipgloss.Renderer, text string, runs []buffer.Run) string {
	var sb strings.Builder
	sb.Grow(len(text))

	for _, run := range runs {
		if run.Start < 0 || run.End > len(text) || run.Start >= run.End {
			continue
		}
		segment := text[run.Start:run.End]
		if run.Attrs.IsZero() {
			sb.WriteString(segment)
			continue
		}
		sb.WriteString(renderLines(AttributeStyle(r, run.Attrs), segment))
	}

	return sb.String()
}

// AttributeStyle maps buffer attributes onto a terminal style.
func AttributeStyle(r *lipgloss.Renderer, attrs style.Attributes) lipgloss.Style {
	s := r.NewStyle().
		Bold(attrs.Bold).
		Italic(attrs.Italic).
		Underline(attrs.FontSizeDelta > 0).
		Faint(attrs.HiddenMarker).
		TabWidth(lipgloss.NoTabConversion)
	if attrs.Foreground != "" {
		s = s.Foreground(lipgloss.Color(attrs.Foreground))
	}
	return s
}

// renderLines styles each line on its own so escapes never span a newline.
func renderLines(s lipgloss.Style, segment string) string {
	lines := strings.Split(segment, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = s.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
