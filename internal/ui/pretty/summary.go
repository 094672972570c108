package pretty

import (
	"fmt"

	"github.com/yaklabco/mdnotes/pkg/pipeline"
)

// FormatCycleSummary formats render cycle statistics as a single line.
// Example: "5 ranges styled, 1 skipped, 48 B of HTML (v3)".
func (s *Styles) FormatCycleSummary(stats pipeline.CycleStats) string {
	rangeWord := "ranges"
	if stats.Applied == 1 {
		rangeWord = "range"
	}

	msg := s.Success.Render(fmt.Sprintf("%d %s styled", stats.Applied, rangeWord))
	if stats.Skipped > 0 {
		msg += ", " + s.Warning.Render(fmt.Sprintf("%d skipped", stats.Skipped))
	}
	msg += fmt.Sprintf(", %s of HTML", FormatSize(int64(stats.HTMLBytes)))
	msg += s.Dim.Render(fmt.Sprintf(" (v%d)", stats.Version))

	return msg + "\n"
}
