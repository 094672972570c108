package style

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdnotes/internal/logging"
)

// Styler is a buffer whose byte ranges can carry attributes.
type Styler interface {
	Len() int
	// SetAttributes styles [start, start+length). With replace the previous
	// attributes are discarded, otherwise attrs is merged on top.
	SetAttributes(start, length int, attrs Attributes, replace bool)
}

// ApplyStats counts what Apply did with the ranges it was given.
type ApplyStats struct {
	Applied int
	// Stale ranges fell outside the buffer, usually because the text changed
	// between parse and apply.
	Stale int
	Empty int
}

// Skipped returns the number of ranges that were not applied.
func (s ApplyStats) Skipped() int {
	return s.Stale + s.Empty
}

// Apply resets the whole buffer to the base font and overlays ranges in
// order. Ranges outside the buffer are logged and skipped, never applied.
func Apply(s Styler, ranges []Range, base BaseFont, logger *log.Logger) ApplyStats {
	logger = logging.Or(logger)

	var stats ApplyStats
	length := s.Len()
	s.SetAttributes(0, length, base.Attributes(), true)

	for _, r := range ranges {
		switch {
		case r.Length == 0:
			stats.Empty++
		case r.Start < 0 || r.Length < 0 || r.End() > length:
			stats.Stale++
			logger.Warn("skipping stale style range",
				logging.FieldStart, r.Start,
				logging.FieldLength, r.Length,
				logging.FieldDocLength, length,
				logging.FieldKind, r.Kind,
			)
		default:
			s.SetAttributes(r.Start, r.Length, r.Attrs, false)
			stats.Applied++
		}
	}

	return stats
}
