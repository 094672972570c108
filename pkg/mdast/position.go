package mdast

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int
	End   int
}

// NoSpan marks a span that is unknown or does not apply to a node.
var NoSpan = Span{Start: -1, End: -1}

// SpanOf returns the span [start, end).
func SpanOf(start, end int) Span {
	return Span{Start: start, End: end}
}

// Len returns the length of the span in bytes, or 0 for an invalid span.
func (s Span) Len() int {
	if !s.Valid() {
		return 0
	}
	return s.End - s.Start
}

// IsEmpty returns true if the span has zero length or is invalid.
func (s Span) IsEmpty() bool {
	return s.Len() == 0
}

// Valid reports whether the span is well formed.
func (s Span) Valid() bool {
	return s.Start >= 0 && s.End >= s.Start
}

// Contains returns true if the given offset is within this span.
func (s Span) Contains(offset int) bool {
	return s.Valid() && offset >= s.Start && offset < s.End
}

// Union returns the smallest span covering both s and other.
// An invalid operand is ignored.
func (s Span) Union(other Span) Span {
	switch {
	case !other.Valid():
		return s
	case !s.Valid():
		return other
	}
	return Span{Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

// Clamp limits the span to [0, length].
func (s Span) Clamp(length int) Span {
	if !s.Valid() {
		return s
	}
	return Span{Start: min(s.Start, length), End: min(s.End, length)}
}

// Position represents a 1-based line and column in a file.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Position returns the line/column of the node's start.
// Returns an invalid position if the node has no associated file.
func (n *Node) Position() Position {
	if n.File == nil || !n.Span.Valid() {
		return Position{}
	}
	line, col := n.File.LineAt(n.Span.Start)
	return Position{Line: line, Column: col}
}

// Text returns the source text covered by the node's span.
// Returns nil if the node has no associated file.
func (n *Node) Text() []byte {
	if n.File == nil {
		return nil
	}
	return n.File.Slice(n.Span)
}

// ContentText returns the source text covered by the node's content span.
func (n *Node) ContentText() []byte {
	if n.File == nil {
		return nil
	}
	return n.File.Slice(n.Content)
}
