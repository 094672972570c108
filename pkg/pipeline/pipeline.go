// Package pipeline runs one styling and preview cycle over the editor:
// parse the text, project style ranges onto the buffer, render the preview,
// and leave the caret where the user had it.
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdnotes/internal/logging"
	"github.com/yaklabco/mdnotes/pkg/mdast"
	"github.com/yaklabco/mdnotes/pkg/style"
)

// Parser turns text into a snapshot tagged with the version it came from.
type Parser interface {
	ParseVersion(text string, version uint64) *mdast.Snapshot
}

// Renderer turns a tree into preview HTML.
type Renderer interface {
	Render(root *mdast.Node) string
}

// Editor is the styled source buffer.
type Editor interface {
	style.Styler
	Caret
	Version() uint64
}

// Preview is the HTML pane.
type Preview interface {
	SetHTML(html string)
}

// Document is the editor content a cycle worked from.
type Document struct {
	Text    string
	Version uint64
}

// CycleStats summarizes one render cycle.
type CycleStats struct {
	Version   uint64
	Ranges    int
	Applied   int
	Skipped   int
	HTMLBytes int
	Duration  time.Duration
}

// Context carries everything a render cycle touches. The zero value is not
// usable; Parser, Renderer, Editor and Preview must be set.
type Context struct {
	Parser   Parser
	Renderer Renderer
	Editor   Editor
	Preview  Preview
	Base     style.BaseFont
	Logger   *log.Logger

	cycles int
	last   CycleStats
}

// Document returns the current editor content.
func (c *Context) Document() Document {
	return Document{Text: c.Editor.Text(), Version: c.Editor.Version()}
}

// RunCycle parses the editor text, restyles the buffer, replaces the
// preview and restores the caret.
func (c *Context) RunCycle() CycleStats {
	logger := logging.Or(c.Logger)
	started := time.Now()

	var stats CycleStats
	TrackCaret(c.Editor, func() {
		doc := c.Document()
		snapshot := c.Parser.ParseVersion(doc.Text, doc.Version)

		ranges := style.Project(snapshot.Root, c.Base)
		applied := style.Apply(c.Editor, ranges, c.Base, logger)

		html := c.Renderer.Render(snapshot.Root)
		c.Preview.SetHTML(html)

		stats = CycleStats{
			Version:   snapshot.Version,
			Ranges:    len(ranges),
			Applied:   applied.Applied,
			Skipped:   applied.Skipped(),
			HTMLBytes: len(html),
		}
	})
	stats.Duration = time.Since(started)

	c.cycles++
	c.last = stats

	logger.Debug("render cycle",
		logging.FieldCycle, c.cycles,
		logging.FieldVersion, stats.Version,
		logging.FieldRanges, stats.Ranges,
		logging.FieldSkipped, stats.Skipped,
		logging.FieldHTMLBytes, stats.HTMLBytes,
		logging.FieldCaret, c.Editor.Caret(),
		logging.FieldDuration, stats.Duration,
	)

	return stats
}

// LastCycle returns the stats of the most recent cycle.
func (c *Context) LastCycle() CycleStats {
	return c.last
}

// Cycles returns how many cycles have run.
func (c *Context) Cycles() int {
	return c.cycles
}
