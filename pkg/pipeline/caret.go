package pipeline

import "unicode/utf8"

// Caret is the part of an editor the caret tracker needs.
type Caret interface {
	Text() string
	Caret() int
	SetCaret(offset int)
}

// TrackCaret runs fn and then puts the caret back where it was before fn,
// clamped to the text fn left behind.
func TrackCaret(c Caret, fn func()) {
	saved := c.Caret()
	defer func() {
		c.SetCaret(ClampCaret(c.Text(), saved))
	}()
	fn()
}

// ClampCaret limits offset to [0, len(text)] and backs it up to the start of
// the UTF-8 sequence it falls inside.
func ClampCaret(text string, offset int) int {
	offset = min(max(offset, 0), len(text))
	for offset > 0 && offset < len(text) && !utf8.RuneStart(text[offset]) {
		offset--
	}
	return offset
}
