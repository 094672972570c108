package mdast

// BlockAttrs carries the kind-specific data of a block node. Only the field
// matching the node's kind is set.
type BlockAttrs struct {
	HeadingLevel int  // 1-6 for NodeHeading
	Setext       bool // heading underlined with = or -

	List      *ListAttrs
	CodeBlock *CodeBlockAttrs
	Table     *TableAttrs // rows and cells
}

// ListAttrs describes a NodeList.
type ListAttrs struct {
	Ordered bool

	// BulletMarker is "-", "+" or "*" for bullet lists and "." or ")" for
	// ordered ones.
	BulletMarker string
	StartNumber  int

	// Tight lists have no blank lines between items.
	Tight bool
}

// CodeBlockAttrs describes a fenced or indented NodeCodeBlock.
type CodeBlockAttrs struct {
	Info     string // fence info string, trimmed
	Indented bool

	// Literal is the code with container prefixes stripped.
	Literal []byte
}

// TableAttrs describes a GFM table row or cell.
type TableAttrs struct {
	Header bool
	Align  string // "left", "right", "center" or ""
}

// InlineAttrs carries the kind-specific data of an inline node.
type InlineAttrs struct {
	// Text is the literal of NodeText, NodeCodeSpan and NodeHTMLInline.
	Text []byte

	// Raw text is emitted without resolving escapes or entities.
	Raw bool

	Link *LinkAttrs // NodeLink and NodeImage

	// EmphasisLevel is 1 for emphasis and 2 for strong.
	EmphasisLevel int
}

// LinkAttrs describes a link or image target.
type LinkAttrs struct {
	Destination string
	Title       string

	// Autolink marks <scheme:...> links and GFM bare URLs; Email marks
	// <user@host> autolinks.
	Autolink bool
	Email    bool
}
