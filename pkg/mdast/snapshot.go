// Package mdast provides the Markdown AST shared by the parser, the style
// projector and the preview renderer. It defines:
// - Snapshot: the parsed text at a given document version
// - Node: the tree, tagged by NodeKind
// - Span: byte ranges for a node's extent, markers and content
package mdast

// Snapshot is an immutable view of a document at a specific version.
// It holds the raw content, line metadata and AST root.
type Snapshot struct {
	// Content is the full document bytes.
	Content []byte

	// Version is the document edit version the snapshot was parsed from.
	Version uint64

	// Lines holds the span of every line, terminators excluded.
	Lines []Span

	// Root is the AST root node (Document).
	Root *Node
}

// NewSnapshot creates a new Snapshot from content.
// It builds the line index but does not parse (that requires a Parser).
func NewSnapshot(content []byte, version uint64) *Snapshot {
	return &Snapshot{
		Content: content,
		Version: version,
		Lines:   BuildLines(content),
	}
}

// Len returns the content length in bytes.
func (f *Snapshot) Len() int {
	return len(f.Content)
}

// Slice returns the content covered by span, clamped to the content.
// Returns nil for an invalid span.
func (f *Snapshot) Slice(span Span) []byte {
	if !span.Valid() {
		return nil
	}
	span = span.Clamp(len(f.Content))
	return f.Content[span.Start:span.End]
}
