package export

// Outcome is the result of exporting one note.
type Outcome struct {
	// Title is the stored note stem.
	Title string

	// Path is the HTML file written for the note.
	Path string

	// Bytes is the size of the written document.
	Bytes int

	// Written is false when the file already held the same document.
	Written bool

	// Error is set if the note could not be exported.
	Error error
}

// Stats captures aggregate information about an export.
type Stats struct {
	// NotesListed is the number of notes in the store.
	NotesListed int

	// NotesSelected is the number of notes left after pattern filtering.
	NotesSelected int

	// NotesWritten is the number of files created or replaced.
	NotesWritten int

	// NotesUnchanged is the number of files that already matched.
	NotesUnchanged int

	// NotesErrored is the number of notes that failed.
	NotesErrored int

	// Bytes is the total size of every exported document.
	Bytes int
}

// Result is the overall export result.
type Result struct {
	// Notes holds one outcome per selected note, in title order.
	Notes []Outcome

	// Stats contains aggregate statistics for the export.
	Stats Stats
}

// HasFailures reports whether any note failed to export.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.NotesErrored > 0
}

// Errors returns the per-note errors in title order.
func (r *Result) Errors() []error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, outcome := range r.Notes {
		if outcome.Error != nil {
			errs = append(errs, outcome.Error)
		}
	}
	return errs
}

func (r *Result) accumulate(outcome Outcome) {
	r.Notes = append(r.Notes, outcome)

	if outcome.Error != nil {
		r.Stats.NotesErrored++
		return
	}

	r.Stats.Bytes += outcome.Bytes
	if outcome.Written {
		r.Stats.NotesWritten++
	} else {
		r.Stats.NotesUnchanged++
	}
}
