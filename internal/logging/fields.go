package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError = "error"
	FieldPath  = "path"
	FieldDir   = "dir"
	FieldOp    = "op"

	// Configuration fields.
	FieldFlavor      = "flavor"
	FieldQuietPeriod = "quiet_period"
	FieldConfig      = "config"

	// Render cycle fields.
	FieldStart     = "start"
	FieldLength    = "length"
	FieldDocLength = "doc_length"
	FieldKind      = "kind"
	FieldRanges    = "ranges"
	FieldSkipped   = "skipped"
	FieldHTMLBytes = "html_bytes"
	FieldCycle     = "cycle"
	FieldCaret     = "caret"
	FieldDuration  = "duration"
	FieldPanic     = "panic"

	// Note fields.
	FieldTitle = "title"
	FieldNotes = "notes"
	FieldEvent = "event"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
