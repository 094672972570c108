package mdast

import (
	"bytes"
	"cmp"
	"slices"
)

// BuildLines splits content into line spans. A span stops before the line
// terminator, LF or CRLF. Content ending in a newline has an empty last line.
func BuildLines(content []byte) []Span {
	if len(content) == 0 {
		return nil
	}

	lines := make([]Span, 0, bytes.Count(content, []byte{'\n'})+1)
	start := 0
	for {
		idx := bytes.IndexByte(content[start:], '\n')
		if idx < 0 {
			break
		}
		end := start + idx
		if end > start && content[end-1] == '\r' {
			end--
		}
		lines = append(lines, SpanOf(start, end))
		start += idx + 1
	}

	return append(lines, SpanOf(start, len(content)))
}

// LineCount returns the number of lines in the snapshot.
func (f *Snapshot) LineCount() int {
	return len(f.Lines)
}

// LineAt converts a byte offset to a 1-based line and byte column.
// Offsets past the end land on the last line; negative offsets give (0, 0).
func (f *Snapshot) LineAt(offset int) (int, int) {
	if offset < 0 || len(f.Lines) == 0 {
		return 0, 0
	}

	idx, found := slices.BinarySearchFunc(f.Lines, offset, func(line Span, off int) int {
		return cmp.Compare(line.Start, off)
	})
	if !found {
		idx--
	}
	return idx + 1, offset - f.Lines[idx].Start + 1
}
