package goldmark

import (
	"bytes"

	"github.com/yaklabco/mdnotes/pkg/mdast"
	"github.com/yuin/goldmark/text"
)

// Source scanning helpers. Every helper tolerates out-of-range offsets and
// clamps to the content instead of panicking.

func isSpaceOrTab(b byte) bool {
	return b == ' ' || b == '\t'
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func (m *mapper) clamp(off int) int {
	return max(0, min(off, len(m.src)))
}

// lineStart returns the offset of the first byte of the line containing off.
func (m *mapper) lineStart(off int) int {
	off = m.clamp(off)
	for off > 0 && m.src[off-1] != '\n' {
		off--
	}
	return off
}

// lineEnd returns the offset of the newline ending the line containing off,
// or the content length for the last line.
func (m *mapper) lineEnd(off int) int {
	off = m.clamp(off)
	if i := bytes.IndexByte(m.src[off:], '\n'); i >= 0 {
		return off + i
	}
	return len(m.src)
}

// trimmedLineEnd returns lineEnd without trailing whitespace.
func (m *mapper) trimmedLineEnd(off int) int {
	start, end := m.lineStart(off), m.lineEnd(off)
	for end > start && isBlank(m.src[end-1]) {
		end--
	}
	return end
}

// nextLine returns the start of the line after the one containing off.
func (m *mapper) nextLine(off int) int {
	return m.clamp(m.lineEnd(off) + 1)
}

// prevLine returns the start of the line before the one containing off.
func (m *mapper) prevLine(off int) int {
	start := m.lineStart(off)
	if start == 0 {
		return 0
	}
	return m.lineStart(start - 1)
}

// lineAtOrAfter returns off when it starts a line, otherwise the next line.
func (m *mapper) lineAtOrAfter(off int) int {
	off = m.clamp(off)
	if off == m.lineStart(off) {
		return off
	}
	return m.nextLine(off)
}

// nextNonBlankLine returns the start of the first line at or after off that
// holds something other than whitespace.
func (m *mapper) nextNonBlankLine(off int) (int, bool) {
	for line := m.lineAtOrAfter(off); line < len(m.src); line = m.nextLine(line) {
		if m.firstNonSpace(line, m.lineEnd(line)) < m.trimmedLineEnd(line) {
			return line, true
		}
	}
	return 0, false
}

// firstNonSpace returns the first offset in [from, to) that is not a space
// or tab, or to.
func (m *mapper) firstNonSpace(from, to int) int {
	from, to = m.clamp(from), m.clamp(to)
	for from < to && isSpaceOrTab(m.src[from]) {
		from++
	}
	return from
}

// firstContent skips indentation and blockquote markers on a line.
func (m *mapper) firstContent(line int) int {
	end := m.lineEnd(line)
	for line < end && (isSpaceOrTab(m.src[line]) || m.src[line] == '>') {
		line++
	}
	return line
}

// indexFrom returns the offset of the first sub at or after off, or -1.
func (m *mapper) indexFrom(off int, sub []byte) int {
	off = m.clamp(off)
	if i := bytes.Index(m.src[off:], sub); i >= 0 {
		return off + i
	}
	return -1
}

// lineSpan returns the trimmed extent of the line starting at line.
func (m *mapper) lineSpan(line int) mdast.Span {
	return mdast.SpanOf(m.firstNonSpace(line, m.lineEnd(line)), m.trimmedLineEnd(line))
}

// emptyLineSpan resolves a block that carries no line information by taking
// the next non-blank line after the previously mapped block.
func (m *mapper) emptyLineSpan() mdast.Span {
	line, ok := m.nextNonBlankLine(m.cursor)
	if !ok {
		return mdast.NoSpan
	}
	return m.lineSpan(line)
}

// trim narrows span so it neither starts nor ends on whitespace.
func (m *mapper) trim(span mdast.Span) mdast.Span {
	if !span.Valid() {
		return span
	}
	span = span.Clamp(len(m.src))
	for span.Start < span.End && isBlank(m.src[span.Start]) {
		span.Start++
	}
	for span.End > span.Start && isBlank(m.src[span.End-1]) {
		span.End--
	}
	return span
}

// segmentsSpan returns the union of a block's line segments.
func segmentsSpan(lines *text.Segments) mdast.Span {
	span := mdast.NoSpan
	if lines == nil {
		return span
	}
	for i := range lines.Len() {
		seg := lines.At(i)
		span = span.Union(mdast.SpanOf(seg.Start, seg.Stop))
	}
	return span
}

// segmentsValue concatenates the values of a block's line segments.
func (m *mapper) segmentsValue(lines *text.Segments) []byte {
	var buf bytes.Buffer
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(m.src))
	}
	return buf.Bytes()
}

// childSpan returns the union of the spans of node's children.
func childSpan(node *mdast.Node) mdast.Span {
	span := mdast.NoSpan
	for child := node.FirstChild; child != nil; child = child.Next {
		span = span.Union(child.Span)
	}
	return span
}

// markerBefore returns the n bytes before pos when they are a run of one of
// the given marker characters.
func (m *mapper) markerBefore(pos, n int, chars string) mdast.Span {
	if pos < n || pos > len(m.src) || n <= 0 {
		return mdast.NoSpan
	}
	run := m.src[pos-n : pos]
	if !isRunOf(run, chars) {
		return mdast.NoSpan
	}
	return mdast.SpanOf(pos-n, pos)
}

// markerAfter returns the n bytes at pos when they are a run of one of the
// given marker characters.
func (m *mapper) markerAfter(pos, n int, chars string) mdast.Span {
	if pos < 0 || pos+n > len(m.src) || n <= 0 {
		return mdast.NoSpan
	}
	if !isRunOf(m.src[pos:pos+n], chars) {
		return mdast.NoSpan
	}
	return mdast.SpanOf(pos, pos+n)
}

func isRunOf(run []byte, chars string) bool {
	if len(run) == 0 || bytes.IndexByte([]byte(chars), run[0]) < 0 {
		return false
	}
	for _, b := range run {
		if b != run[0] {
			return false
		}
	}
	return true
}

// countBefore counts consecutive c bytes ending at pos, up to limit.
func (m *mapper) countBefore(pos int, c byte, limit int) int {
	n := 0
	for n < limit && pos-n-1 >= 0 && pos-n-1 < len(m.src) && m.src[pos-n-1] == c {
		n++
	}
	return n
}

// countAfter counts consecutive c bytes starting at pos, up to limit.
func (m *mapper) countAfter(pos int, c byte, limit int) int {
	n := 0
	for n < limit && pos+n >= 0 && pos+n < len(m.src) && m.src[pos+n] == c {
		n++
	}
	return n
}

// matchParen returns the offset of the ')' closing the '(' at open, skipping
// escapes, nested parentheses, <...> destinations and quoted titles.
func (m *mapper) matchParen(open int) int {
	depth := 0
	var quote byte
	for i := open + 1; i < len(m.src); i++ {
		c := m.src[i]
		switch {
		case c == '\\':
			i++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '<' && m.firstNonSpace(open+1, i) == i:
			if end := bytes.IndexByte(m.src[i:], '>'); end >= 0 {
				i += end
			}
		case (c == '"' || c == '\'') && isBlank(m.src[i-1]):
			quote = c
		case c == '(':
			depth++
		case c == ')':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// linkClosing returns the "](dest)", "][label]" or "]" following a link label
// whose content ends at pos.
func (m *mapper) linkClosing(pos int) mdast.Span {
	bracket := m.indexFrom(pos, []byte("]"))
	if bracket < 0 {
		return mdast.NoSpan
	}
	next := bracket + 1
	if next < len(m.src) {
		switch m.src[next] {
		case '(':
			if end := m.matchParen(next); end >= 0 {
				return mdast.SpanOf(bracket, end+1)
			}
		case '[':
			if end := m.indexFrom(next, []byte("]")); end >= 0 {
				return mdast.SpanOf(bracket, end+1)
			}
		}
	}
	return mdast.SpanOf(bracket, next)
}

// fenceSpan returns the span of a code fence line starting at line, from the
// first fence character to the end of the line. want restricts the fence
// character when non-zero.
func (m *mapper) fenceSpan(line int, want byte) mdast.Span {
	if line >= len(m.src) {
		return mdast.NoSpan
	}
	start := m.firstContent(line)
	if start >= len(m.src) {
		return mdast.NoSpan
	}
	c := m.src[start]
	if (c != '`' && c != '~') || (want != 0 && c != want) || m.countAfter(start, c, 3) < 3 {
		return mdast.NoSpan
	}
	return mdast.SpanOf(start, m.trimmedLineEnd(line))
}
