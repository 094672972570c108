// Package notediff computes line diffs between a stored note and the text
// about to replace it.
package notediff

import (
	"fmt"
	"strings"
)

// Op is the kind of a diff line.
type Op int

const (
	// Keep is a line present on both sides.
	Keep Op = iota

	// Insert is a line only in the new text.
	Insert

	// Delete is a line only in the stored text.
	Delete
)

// contextLines is the number of unchanged lines kept around each change.
const contextLines = 3

// Line is one line of a hunk, without its trailing newline.
type Line struct {
	Op   Op
	Text string
}

// Hunk is a run of changes with surrounding context. Start fields are
// 1-based line numbers.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Lines              []Line
}

// Change describes how saving new text would alter a note.
type Change struct {
	// Name is the file name shown in the headers.
	Name string

	// Created is true when nothing was stored before.
	Created bool

	Hunks    []Hunk
	Inserted int
	Deleted  int
}

// Compare returns the change from old to updated for the file name, or nil
// when the two have the same lines. A missing trailing newline is not a
// change.
func Compare(name, old, updated string) *Change {
	oldLines, newLines := splitLines(old), splitLines(updated)
	if equalLines(oldLines, newLines) {
		return nil
	}

	ops := script(oldLines, newLines)
	change := &Change{
		Name:    name,
		Created: old == "",
		Hunks:   hunks(ops),
	}
	for _, op := range ops {
		switch op.Op {
		case Insert:
			change.Inserted++
		case Delete:
			change.Deleted++
		}
	}
	return change
}

// Unified renders the change in unified diff format.
func (c *Change) Unified() string {
	if c == nil || len(c.Hunks) == 0 {
		return ""
	}

	var b strings.Builder
	if c.Created {
		b.WriteString("--- /dev/null\n")
	} else {
		fmt.Fprintf(&b, "--- a/%s\n", c.Name)
	}
	fmt.Fprintf(&b, "+++ b/%s\n", c.Name)

	for _, h := range c.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, line := range h.Lines {
			b.WriteByte(line.Op.prefix())
			b.WriteString(line.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (o Op) prefix() byte {
	switch o {
	case Insert:
		return '+'
	case Delete:
		return '-'
	default:
		return ' '
	}
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// script returns the edit script from a to b built on their longest common
// subsequence. Deletions come before insertions within a changed run.
func script(a, b []string) []Line {
	// common[i][j] is the LCS length of a[i:] and b[j:].
	common := make([][]int, len(a)+1)
	for i := range common {
		common[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				common[i][j] = common[i+1][j+1] + 1
			} else {
				common[i][j] = max(common[i+1][j], common[i][j+1])
			}
		}
	}

	ops := make([]Line, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			ops = append(ops, Line{Op: Keep, Text: a[i]})
			i++
			j++
		case common[i+1][j] >= common[i][j+1]:
			ops = append(ops, Line{Op: Delete, Text: a[i]})
			i++
		default:
			ops = append(ops, Line{Op: Insert, Text: b[j]})
			j++
		}
	}
	for ; i < len(a); i++ {
		ops = append(ops, Line{Op: Delete, Text: a[i]})
	}
	for ; j < len(b); j++ {
		ops = append(ops, Line{Op: Insert, Text: b[j]})
	}
	return ops
}

// hunks groups the script into hunks, merging changes separated by no more
// than twice the context.
func hunks(ops []Line) []Hunk {
	var out []Hunk

	for start := 0; start < len(ops); {
		for start < len(ops) && ops[start].Op == Keep {
			start++
		}
		if start == len(ops) {
			break
		}

		// Extend end past every change reachable within the merge distance.
		end := start
		for k := start; k < len(ops); k++ {
			if ops[k].Op != Keep {
				end = k + 1
				continue
			}
			if k-end >= 2*contextLines {
				break
			}
		}

		lo := max(start-contextLines, 0)
		hi := min(end+contextLines, len(ops))
		out = append(out, newHunk(ops, lo, hi))
		start = hi
	}

	return out
}

func newHunk(ops []Line, lo, hi int) Hunk {
	h := Hunk{OldStart: 1, NewStart: 1}
	for _, op := range ops[:lo] {
		if op.Op != Insert {
			h.OldStart++
		}
		if op.Op != Delete {
			h.NewStart++
		}
	}

	h.Lines = append([]Line(nil), ops[lo:hi]...)
	for _, op := range h.Lines {
		if op.Op != Insert {
			h.OldCount++
		}
		if op.Op != Delete {
			h.NewCount++
		}
	}

	// Unified diffs number an empty side from the line before it.
	if h.OldCount == 0 {
		h.OldStart--
	}
	if h.NewCount == 0 {
		h.NewStart--
	}
	return h
}
