package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdnotes/pkg/notediff"
)

// FormatDiff formats a note change as a colored unified diff followed by a
// summary line such as "2 insertions(+), 1 deletion(-)". A nil change
// formats as "no changes".
func (s *Styles) FormatDiff(change *notediff.Change) string {
	if change == nil {
		return s.Dim.Render("no changes") + "\n"
	}

	var b strings.Builder
	for _, line := range strings.SplitAfter(change.Unified(), "\n") {
		text := strings.TrimSuffix(line, "\n")
		if text == "" && line == "" {
			continue
		}
		b.WriteString(s.diffLine(text))
		b.WriteByte('\n')
	}

	var parts []string
	if change.Inserted > 0 {
		parts = append(parts, s.DiffAdd.Render(fmt.Sprintf("%d %s(+)", change.Inserted, plural(change.Inserted, "insertion"))))
	}
	if change.Deleted > 0 {
		parts = append(parts, s.DiffRemove.Render(fmt.Sprintf("%d %s(-)", change.Deleted, plural(change.Deleted, "deletion"))))
	}
	b.WriteString(strings.Join(parts, ", "))
	b.WriteByte('\n')

	return b.String()
}

func (s *Styles) diffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return s.DiffHeader.Render(line)
	case strings.HasPrefix(line, "@@"):
		return s.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+"):
		return s.DiffAdd.Render(line)
	case strings.HasPrefix(line, "-"):
		return s.DiffRemove.Render(line)
	default:
		return s.DiffContext.Render(line)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
