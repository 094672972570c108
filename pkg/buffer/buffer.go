// Package buffer is the in-memory editor widget behind the panel: markdown
// text with per-byte style attributes, a caret, and change listeners.
//
// A Buffer is not safe for concurrent use. It is owned by the event loop and
// every mutation, listener call included, happens there.
package buffer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/yaklabco/mdnotes/pkg/style"
)

// ErrOutOfRange is returned by edits whose offsets fall outside the text.
var ErrOutOfRange = errors.New("offset out of range")

// ChangeKind classifies a buffer mutation.
type ChangeKind uint8

const (
	ChangeInsert ChangeKind = iota
	ChangeRemove
	ChangeAttributes
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeInsert:
		return "insert"
	case ChangeRemove:
		return "remove"
	case ChangeAttributes:
		return "attributes"
	default:
		return "unknown"
	}
}

// Change describes one mutation. Listeners get attribute changes as well as
// text edits and cannot tell a restyle from typing by anything but Kind.
type Change struct {
	Kind    ChangeKind
	Offset  int
	Length  int
	Version uint64
}

// Listener observes buffer changes.
type Listener func(Change)

// Run is a maximal stretch of bytes sharing the same attributes.
type Run struct {
	Start int
	End   int
	Attrs style.Attributes
}

// Buffer holds the editable text.
type Buffer struct {
	text    []byte
	attrs   []style.Attributes
	caret   int
	version uint64

	listeners []*Listener
}

// New creates a buffer holding text with the caret at 0.
func New(text string) *Buffer {
	return &Buffer{
		text:  []byte(text),
		attrs: make([]style.Attributes, len(text)),
	}
}

// Text returns the current content.
func (b *Buffer) Text() string { return string(b.text) }

// Len returns the content length in bytes.
func (b *Buffer) Len() int { return len(b.text) }

// Version increments on every text edit. Attribute changes leave it alone.
func (b *Buffer) Version() uint64 { return b.version }

// Caret returns the caret offset.
func (b *Buffer) Caret() int { return b.caret }

// SetCaret moves the caret, clamped to [0, Len()].
func (b *Buffer) SetCaret(offset int) {
	b.caret = min(max(offset, 0), len(b.text))
}

// OnChange registers fn and returns a function that unregisters it.
func (b *Buffer) OnChange(fn Listener) (unsubscribe func()) {
	l := &fn
	b.listeners = append(b.listeners, l)
	return func() {
		b.listeners = slices.DeleteFunc(b.listeners, func(x *Listener) bool { return x == l })
	}
}

// SetText replaces the whole content, clears attributes and moves the caret
// to 0. Listeners see a removal of the old text followed by an insertion of
// the new text, skipping either when it is empty.
func (b *Buffer) SetText(text string) {
	old := len(b.text)
	b.text = []byte(text)
	b.attrs = make([]style.Attributes, len(text))
	b.caret = 0
	b.version++

	if old > 0 {
		b.emit(Change{Kind: ChangeRemove, Offset: 0, Length: old, Version: b.version})
	}
	if len(text) > 0 {
		b.emit(Change{Kind: ChangeInsert, Offset: 0, Length: len(text), Version: b.version})
	}
}

// Insert inserts s at offset. A caret at or after offset moves with the text.
func (b *Buffer) Insert(offset int, s string) error {
	if offset < 0 || offset > len(b.text) {
		return fmt.Errorf("insert at %d in %d bytes: %w", offset, len(b.text), ErrOutOfRange)
	}
	if s == "" {
		return nil
	}

	b.text = slices.Insert(b.text, offset, []byte(s)...)
	b.attrs = slices.Insert(b.attrs, offset, make([]style.Attributes, len(s))...)
	if b.caret >= offset {
		b.caret += len(s)
	}
	b.version++

	b.emit(Change{Kind: ChangeInsert, Offset: offset, Length: len(s), Version: b.version})
	return nil
}

// Delete removes [offset, offset+length). A caret inside the removed range
// moves to offset; one after it shifts left.
func (b *Buffer) Delete(offset, length int) error {
	if offset < 0 || length < 0 || offset+length > len(b.text) {
		return fmt.Errorf("delete [%d,+%d) in %d bytes: %w", offset, length, len(b.text), ErrOutOfRange)
	}
	if length == 0 {
		return nil
	}

	end := offset + length
	b.text = slices.Delete(b.text, offset, end)
	b.attrs = slices.Delete(b.attrs, offset, end)
	switch {
	case b.caret >= end:
		b.caret -= length
	case b.caret > offset:
		b.caret = offset
	}
	b.version++

	b.emit(Change{Kind: ChangeRemove, Offset: offset, Length: length, Version: b.version})
	return nil
}

// SetAttributes styles [start, start+length), clamped to the content. With
// replace the previous attributes are discarded, otherwise attrs is merged
// on top. It satisfies style.Styler.
func (b *Buffer) SetAttributes(start, length int, attrs style.Attributes, replace bool) {
	from := min(max(start, 0), len(b.text))
	to := min(max(start+length, from), len(b.text))
	if from == to {
		return
	}

	for i := from; i < to; i++ {
		if replace {
			b.attrs[i] = attrs
		} else {
			b.attrs[i] = style.Merge(b.attrs[i], attrs)
		}
	}

	b.emit(Change{Kind: ChangeAttributes, Offset: from, Length: to - from, Version: b.version})
}

// AttributesAt returns the attributes of the byte at offset, or the zero
// value outside the content.
func (b *Buffer) AttributesAt(offset int) style.Attributes {
	if offset < 0 || offset >= len(b.attrs) {
		return style.Attributes{}
	}
	return b.attrs[offset]
}

// Runs returns the content split into runs of equal attributes.
func (b *Buffer) Runs() []Run {
	var runs []Run
	for i := 0; i < len(b.attrs); {
		j := i + 1
		for j < len(b.attrs) && b.attrs[j] == b.attrs[i] {
			j++
		}
		runs = append(runs, Run{Start: i, End: j, Attrs: b.attrs[i]})
		i = j
	}
	return runs
}

func (b *Buffer) emit(c Change) {
	for _, l := range slices.Clone(b.listeners) {
		(*l)(c)
	}
}
