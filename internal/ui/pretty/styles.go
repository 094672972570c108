// Package pretty provides Lipgloss-based styled output for the mdnotes CLI.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const defaultTermWidth = 100

// Styles contains all styled renderers for CLI output.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style

	// Note list
	Title          lipgloss.Style
	TableHeader    lipgloss.Style
	TableSeparator lipgloss.Style
	Selected       lipgloss.Style

	// AST dump
	Kind lipgloss.Style
	Span lipgloss.Style

	// Diff output
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	r := NewRenderer(os.Stdout, true)
	return &Styles{
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),

		Title:          r.NewStyle().Bold(true),
		TableHeader:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		TableSeparator: r.NewStyle().Foreground(lipgloss.Color("8")),
		Selected:       r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),

		Kind: r.NewStyle().Foreground(lipgloss.Color("14")),
		Span: r.NewStyle().Foreground(lipgloss.Color("8")),

		DiffHeader:  r.NewStyle().Bold(true),
		DiffHunk:    r.NewStyle().Foreground(lipgloss.Color("14")),
		DiffAdd:     r.NewStyle().Foreground(lipgloss.Color("10")),
		DiffRemove:  r.NewStyle().Foreground(lipgloss.Color("9")),
		DiffContext: r.NewStyle(),

		Dim:  r.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: r.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := NewRenderer(io.Discard, false).NewStyle()
	return &Styles{
		Error:          plain,
		Warning:        plain,
		Success:        plain,
		Title:          plain,
		TableHeader:    plain,
		TableSeparator: plain,
		Selected:       plain,
		Kind:           plain,
		Span:           plain,
		DiffHeader:     plain,
		DiffHunk:       plain,
		DiffAdd:        plain,
		DiffRemove:     plain,
		DiffContext:    plain,
		Dim:            plain,
		Bold:           plain,
	}
}

// NewRenderer returns a lipgloss renderer for w that emits ANSI 256 colors
// when colorEnabled is set, whether or not w is a terminal, and plain text
// otherwise.
func NewRenderer(w io.Writer, colorEnabled bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if colorEnabled {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}

// TerminalWidth returns the width of the terminal behind writer, or a
// default when it is not a terminal.
func TerminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
