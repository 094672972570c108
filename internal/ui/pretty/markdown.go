package pretty

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

// minWrapWidth keeps rendered notes readable on very narrow terminals.
const minWrapWidth = 20

// RenderMarkdown renders note text as a terminal reading view, wrapped to
// width columns. Without color the plain "notty" style is used.
func RenderMarkdown(text string, width int, colorEnabled bool) (string, error) {
	style := styles.NoTTYStyle
	if colorEnabled {
		style = styles.DarkStyle
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width, minWrapWidth)),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}

	out, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
