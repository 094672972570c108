// Package style projects an mdast tree onto attribute ranges for the
// editable buffer. Markup markers are dimmed, never removed.
package style

import (
	"github.com/yaklabco/mdnotes/pkg/mdast"
)

// Default base font values.
const (
	DefaultFamily           = "Monospaced"
	DefaultSize             = 14
	DefaultMarkerForeground = "#C0C0C0"
)

// BaseFont is the unstyled appearance of the buffer. Every render cycle
// resets the whole buffer to it before overlaying ranges.
type BaseFont struct {
	Family           string
	Size             int
	Foreground       string
	MarkerForeground string
}

// DefaultBaseFont returns the base font used when none is configured.
func DefaultBaseFont() BaseFont {
	return BaseFont{
		Family:           DefaultFamily,
		Size:             DefaultSize,
		MarkerForeground: DefaultMarkerForeground,
	}
}

// Attributes returns the reset attributes for the font.
func (f BaseFont) Attributes() Attributes {
	return Attributes{Foreground: f.Foreground}
}

// Attributes is the styling applied to a run of buffer bytes.
type Attributes struct {
	Bold          bool
	Italic        bool
	FontSizeDelta int
	// Foreground is a color such as "#C0C0C0"; empty means the base color.
	Foreground string
	// HiddenMarker marks markup characters shown dimmed.
	HiddenMarker bool
}

// IsZero reports whether a carries no styling at all.
func (a Attributes) IsZero() bool {
	return a == Attributes{}
}

// Merge overlays b onto a. Flags accumulate; a non-zero size delta or a
// non-empty foreground in b wins.
func Merge(a, b Attributes) Attributes {
	out := a
	out.Bold = a.Bold || b.Bold
	out.Italic = a.Italic || b.Italic
	out.HiddenMarker = a.HiddenMarker || b.HiddenMarker
	if b.FontSizeDelta != 0 {
		out.FontSizeDelta = b.FontSizeDelta
	}
	if b.Foreground != "" {
		out.Foreground = b.Foreground
	}
	return out
}

// Role says which part of a node a range styles.
type Role uint8

// Range roles.
const (
	RoleContent Role = iota
	RoleOpening
	RoleClosing
)

func (r Role) String() string {
	switch r {
	case RoleOpening:
		return "opening"
	case RoleClosing:
		return "closing"
	default:
		return "content"
	}
}

// Range is one attribute overlay for a single render cycle.
type Range struct {
	Start  int
	Length int
	Attrs  Attributes

	// Kind and Role identify the node part that produced the range.
	Kind mdast.NodeKind
	Role Role
}

// End returns the offset just past the range.
func (r Range) End() int {
	return r.Start + r.Length
}

// HeadingSizeDelta returns the font size increase for a heading level.
// Levels other than 1, 2 and 3 get no increase.
func HeadingSizeDelta(level int) int {
	switch level {
	case 1:
		return 6
	case 2:
		return 4
	case 3:
		return 2
	default:
		return 0
	}
}

// Project walks the tree in document order and returns the ranges to overlay
// on the buffer. For each node the content range comes before its markers,
// and a node's ranges come before those of its descendants. Zero-length and
// unknown spans produce nothing.
func Project(root *mdast.Node, base BaseFont) []Range {
	var ranges []Range
	marker := Attributes{HiddenMarker: true, Foreground: base.MarkerForeground}

	emit := func(n *mdast.Node, span mdast.Span, role Role, attrs Attributes) {
		if !span.Valid() || span.IsEmpty() {
			return
		}
		ranges = append(ranges, Range{
			Start:  span.Start,
			Length: span.Len(),
			Attrs:  attrs,
			Kind:   n.Kind,
			Role:   role,
		})
	}

	//nolint:errcheck,revive // the callback never fails
	mdast.Walk(root, func(n *mdast.Node) error {
		switch n.Kind {
		case mdast.NodeHeading:
			delta := HeadingSizeDelta(n.Level())
			emit(n, n.Content, RoleContent, Attributes{Bold: true, FontSizeDelta: delta})
			headingMarker := marker
			headingMarker.FontSizeDelta = delta
			emit(n, n.Opening, RoleOpening, headingMarker)
		case mdast.NodeStrong:
			emit(n, n.Content, RoleContent, Attributes{Bold: true})
			emit(n, n.Opening, RoleOpening, marker)
			emit(n, n.Closing, RoleClosing, marker)
		case mdast.NodeEmphasis:
			emit(n, n.Content, RoleContent, Attributes{Italic: true})
			emit(n, n.Opening, RoleOpening, marker)
			emit(n, n.Closing, RoleClosing, marker)
		default:
			// Text, images, raw HTML and everything else inherit the base.
		}
		return nil
	})

	return ranges
}
