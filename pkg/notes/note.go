// Package notes persists markdown notes as one file per title.
//
// A title maps to a file name by replacing every rune outside [A-Za-z0-9.-]
// with "_" and appending ".md". Distinct titles can map to the same file; the
// later save wins.
package notes

import (
	"context"
	"errors"
	"strings"
)

// Extension is appended to sanitized titles to form file names.
const Extension = ".md"

var (
	// ErrEmptyTitle is returned for blank titles.
	ErrEmptyTitle = errors.New("note title is empty")

	// ErrNotFound is returned when no note exists for a title.
	ErrNotFound = errors.New("note not found")
)

// Note is a titled markdown document.
type Note struct {
	Title   string
	Content string
}

// Store is the persistence collaborator behind the panel.
type Store interface {
	Save(ctx context.Context, title, content string) error
	Load(ctx context.Context, title string) (Note, error)
	// List returns stored titles in sorted order.
	List(ctx context.Context) ([]string, error)
	// Delete reports whether a note was removed.
	Delete(ctx context.Context, title string) (bool, error)
}

// SanitizeTitle returns the file stem for title.
func SanitizeTitle(title string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, title)
}

// FileName returns the file name a title is stored under.
func FileName(title string) string {
	return SanitizeTitle(title) + Extension
}

func checkTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}
