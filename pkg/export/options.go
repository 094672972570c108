// Package export renders stored notes to standalone HTML files.
package export

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Extension is appended to note stems to form exported file names.
const Extension = ".html"

// Options controls a bulk export.
type Options struct {
	// OutDir receives one HTML file per exported note. It is created when
	// missing.
	OutDir string

	// Match limits the export to notes whose stem matches one of these glob
	// patterns. Empty means every note.
	Match []string

	// Exclude skips notes whose stem matches any of these glob patterns.
	Exclude []string

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int
}

// Validate reports malformed glob patterns.
func (o Options) Validate() error {
	if o.OutDir == "" {
		return ErrNoOutDir
	}
	for _, pattern := range append(append([]string(nil), o.Match...), o.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}
	return nil
}
