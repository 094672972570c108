package pipeline_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdnotes/internal/logging"
	"github.com/yaklabco/mdnotes/pkg/buffer"
	"github.com/yaklabco/mdnotes/pkg/mdast"
	"github.com/yaklabco/mdnotes/pkg/parser/goldmark"
	"github.com/yaklabco/mdnotes/pkg/pipeline"
	"github.com/yaklabco/mdnotes/pkg/preview"
	"github.com/yaklabco/mdnotes/pkg/style"
)

func newContext(text string) (*pipeline.Context, *buffer.Buffer, *buffer.Preview) {
	b := buffer.New(text)
	p := buffer.NewPreview()
	return &pipeline.Context{
		Parser:   goldmark.New(goldmark.FlavorCommonMark),
		Renderer: preview.New(),
		Editor:   b,
		Preview:  p,
		Base:     style.DefaultBaseFont(),
		Logger:   logging.Discard(),
	}, b, p
}

func TestRunCycle_StylesAndRenders(t *testing.T) {
	t.Parallel()

	ctx, b, p := newContext("# Hello **World**")
	b.SetCaret(9)

	stats := ctx.RunCycle()

	assert.Equal(t, 5, stats.Ranges)
	assert.Equal(t, 5, stats.Applied)
	assert.Zero(t, stats.Skipped)
	assert.Equal(t, len(p.HTML()), stats.HTMLBytes)
	assert.Equal(t, stats, ctx.LastCycle())
	assert.Equal(t, 1, ctx.Cycles())

	marker := b.AttributesAt(0)
	assert.True(t, marker.HiddenMarker)
	assert.Equal(t, 6, marker.FontSizeDelta)

	hello := b.AttributesAt(2)
	assert.True(t, hello.Bold)
	assert.False(t, hello.HiddenMarker)

	strongMarker := b.AttributesAt(8)
	assert.True(t, strongMarker.HiddenMarker)
	assert.True(t, strongMarker.Bold, "strong markers sit inside the heading content")

	world := b.AttributesAt(10)
	assert.True(t, world.Bold)
	assert.Equal(t, 6, world.FontSizeDelta)

	assert.Contains(t, p.HTML(), "<h1>Hello <strong>World</strong></h1>")
	assert.Equal(t, 9, b.Caret())
	assert.Equal(t, "# Hello **World**", b.Text(), "styling never changes the text")
}

func TestRunCycle_ResetsPreviousStyling(t *testing.T) {
	t.Parallel()

	ctx, b, _ := newContext("**bold**")
	ctx.RunCycle()
	require.True(t, b.AttributesAt(3).Bold)

	b.SetText("plain text")
	ctx.RunCycle()

	for i := range b.Len() {
		assert.False(t, b.AttributesAt(i).Bold, "offset %d", i)
	}
	assert.Equal(t, style.DefaultBaseFont().Foreground, b.AttributesAt(0).Foreground)
}

func TestRunCycle_ImageAndHTMLNotRendered(t *testing.T) {
	t.Parallel()

	ctx, _, p := newContext("![alt](http://x/y.png)\n\n<div>raw</div>\n")
	ctx.RunCycle()

	assert.NotContains(t, p.HTML(), "<img")
	assert.NotContains(t, p.HTML(), "alt")
	assert.NotContains(t, p.HTML(), "raw")
}

func TestRunCycle_VersionRecorded(t *testing.T) {
	t.Parallel()

	ctx, b, _ := newContext("")
	require.NoError(t, b.Insert(0, "a"))
	require.NoError(t, b.Insert(1, "b"))

	stats := ctx.RunCycle()
	assert.Equal(t, uint64(2), stats.Version)
	assert.Equal(t, pipeline.Document{Text: "ab", Version: 2}, ctx.Document())
}

// staleParser parses a different text than the editor holds, as if the
// buffer changed between parse and apply.
type staleParser struct {
	text string
}

func (p staleParser) ParseVersion(_ string, version uint64) *mdast.Snapshot {
	return goldmark.New(goldmark.FlavorCommonMark).ParseVersion(p.text, version)
}

func TestRunCycle_StaleRangesSkipped(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	b := buffer.New("# Hi")
	ctx := &pipeline.Context{
		Parser:   staleParser{text: "# Hi there **long** text"},
		Renderer: preview.New(),
		Editor:   b,
		Preview:  buffer.NewPreview(),
		Base:     style.DefaultBaseFont(),
		Logger:   logging.NewWithWriter(&logs, "warn"),
	}

	stats := ctx.RunCycle()

	assert.Positive(t, stats.Skipped)
	assert.Equal(t, stats.Ranges, stats.Applied+stats.Skipped)
	assert.Contains(t, logs.String(), "skipping stale style range")
	assert.Equal(t, "# Hi", b.Text())
}

func TestRunCycle_CaretClampedToRuneBoundary(t *testing.T) {
	t.Parallel()

	ctx, b, _ := newContext("*é*")
	b.SetCaret(2)

	ctx.RunCycle()
	assert.Equal(t, 1, b.Caret())
}

func TestRunCycle_ChangesAreAttributeOnly(t *testing.T) {
	t.Parallel()

	ctx, b, _ := newContext("some *text*")
	var kinds []buffer.ChangeKind
	b.OnChange(func(c buffer.Change) { kinds = append(kinds, c.Kind) })

	ctx.RunCycle()

	require.NotEmpty(t, kinds)
	for _, k := range kinds {
		assert.Equal(t, buffer.ChangeAttributes, k)
	}
	assert.False(t, strings.Contains(b.Text(), "<"))
}
