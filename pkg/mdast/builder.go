package mdast

// NewNode returns a detached node of kind with every span set to NoSpan.
func NewNode(kind NodeKind) *Node {
	return &Node{
		Kind:    kind,
		Span:    NoSpan,
		Opening: NoSpan,
		Closing: NoSpan,
		Content: NoSpan,
	}
}

// NewDocument returns an empty document root.
func NewDocument() *Node {
	return NewNode(NodeDocument)
}

// AppendChild makes child the last child of parent, detaching it from any
// previous parent first.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	child.detach()

	child.Parent = parent
	child.Prev = parent.LastChild
	if parent.LastChild == nil {
		parent.FirstChild = child
	} else {
		parent.LastChild.Next = child
	}
	parent.LastChild = child
}

// InsertBefore links node into sibling's parent just ahead of sibling.
// It does nothing when sibling is detached.
func InsertBefore(sibling, node *Node) {
	if sibling == nil || node == nil || sibling.Parent == nil || sibling == node {
		return
	}
	node.detach()

	node.Parent = sibling.Parent
	node.Prev = sibling.Prev
	node.Next = sibling
	if sibling.Prev == nil {
		sibling.Parent.FirstChild = node
	} else {
		sibling.Prev.Next = node
	}
	sibling.Prev = node
}

// Detach unlinks n from its parent and siblings. Its children stay attached.
func Detach(n *Node) {
	if n != nil {
		n.detach()
	}
}

func (n *Node) detach() {
	parent := n.Parent
	if parent == nil {
		return
	}

	if n.Prev == nil {
		parent.FirstChild = n.Next
	} else {
		n.Prev.Next = n.Next
	}
	if n.Next == nil {
		parent.LastChild = n.Prev
	} else {
		n.Next.Prev = n.Prev
	}
	n.Parent, n.Prev, n.Next = nil, nil, nil
}

// SetMarkers records the opening, content and closing spans of n and widens
// its full span to cover all three.
func SetMarkers(n *Node, opening, content, closing Span) {
	if n == nil {
		return
	}
	n.Opening = opening
	n.Content = content
	n.Closing = closing
	n.Span = n.Span.Union(opening).Union(content).Union(closing)
}

// SetFile points node and all of its descendants at file.
func SetFile(node *Node, file *Snapshot) {
	_ = Walk(node, func(n *Node) error {
		n.File = file
		return nil
	})
}
