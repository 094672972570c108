package pretty

import (
	"fmt"
	"strings"
	"time"
)

// Table formatting constants.
const (
	selectedSymbol   = "*"
	tablePadding     = 2
	tableColumnCount = 3 // TITLE, SIZE, MODIFIED
	markerWidth      = 2
	minTitleWidth    = 20
	sizeWidth        = 8
	modifiedWidth    = 16
	heavySeparator   = "="
	modifiedLayout   = "2006-01-02 15:04"
)

// NoteRow is one line of the note list.
type NoteRow struct {
	Title    string
	Size     int64
	Modified time.Time
	Selected bool
}

// TableFormatter formats the note list as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// FormatNotes formats rows as a table. It returns "" for an empty list.
func (t *TableFormatter) FormatNotes(rows []NoteRow) string {
	if len(rows) == 0 {
		return ""
	}

	titleWidth := t.titleWidth(rows)

	var builder strings.Builder
	header := fmt.Sprintf("%-*s%-*s  %*s  %-*s",
		markerWidth, "",
		titleWidth, "TITLE",
		sizeWidth, "SIZE",
		modifiedWidth, "MODIFIED",
	)
	builder.WriteString(t.styles.TableHeader.Render(header))
	builder.WriteString("\n")
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, totalWidth(titleWidth))))
	builder.WriteString("\n")

	for _, row := range rows {
		builder.WriteString(t.formatRow(row, titleWidth))
		builder.WriteString("\n")
	}

	return builder.String()
}

func (t *TableFormatter) formatRow(row NoteRow, titleWidth int) string {
	marker := strings.Repeat(" ", markerWidth)
	title := fmt.Sprintf("%-*s", titleWidth, truncateString(row.Title, titleWidth))
	if row.Selected {
		marker = t.styles.Selected.Render(selectedSymbol) + " "
		title = t.styles.Selected.Render(title)
	}

	modified := ""
	if !row.Modified.IsZero() {
		modified = row.Modified.Format(modifiedLayout)
	}

	return fmt.Sprintf("%s%s  %*s  %s",
		marker,
		title,
		sizeWidth, FormatSize(row.Size),
		t.styles.Dim.Render(modified),
	)
}

// titleWidth fits the widest title, shrunk to the terminal but never below
// minTitleWidth.
func (t *TableFormatter) titleWidth(rows []NoteRow) int {
	width := minTitleWidth
	for _, row := range rows {
		width = max(width, len(row.Title))
	}
	if excess := totalWidth(width) - t.termWidth; excess > 0 {
		width = max(minTitleWidth, width-excess)
	}
	return width
}

func totalWidth(titleWidth int) int {
	return markerWidth + titleWidth + sizeWidth + modifiedWidth + tablePadding*(tableColumnCount-1)
}

// FormatSize renders a byte count for humans.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}
