package buffer

// Preview is the read-only HTML pane. Every update replaces the content
// wholesale and scrolls back to the top.
type Preview struct {
	html    string
	scroll  int
	updates int
}

// NewPreview creates an empty preview pane.
func NewPreview() *Preview {
	return &Preview{}
}

// HTML returns the current content.
func (p *Preview) HTML() string { return p.html }

// Scroll returns the scroll offset.
func (p *Preview) Scroll() int { return p.scroll }

// SetScroll records a scroll offset, as a user scrolling would.
func (p *Preview) SetScroll(offset int) { p.scroll = max(offset, 0) }

// Updates counts SetHTML calls.
func (p *Preview) Updates() int { return p.updates }

// SetHTML replaces the content and resets the scroll offset.
func (p *Preview) SetHTML(html string) {
	p.html = html
	p.scroll = 0
	p.updates++
}
