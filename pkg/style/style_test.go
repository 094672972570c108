package style_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdnotes/pkg/mdast"
	"github.com/yaklabco/mdnotes/pkg/parser/goldmark"
	"github.com/yaklabco/mdnotes/pkg/style"
)

func project(t *testing.T, input string) []style.Range {
	t.Helper()
	snap := goldmark.New(goldmark.FlavorCommonMark).Parse(input)
	return style.Project(snap.Root, style.DefaultBaseFont())
}

func rangesOf(ranges []style.Range, kind mdast.NodeKind, role style.Role) []style.Range {
	var out []style.Range
	for _, r := range ranges {
		if r.Kind == kind && r.Role == role {
			out = append(out, r)
		}
	}
	return out
}

func TestHeadingSizeDelta(t *testing.T) {
	t.Parallel()

	want := map[int]int{0: 0, 1: 6, 2: 4, 3: 2, 4: 0, 5: 0, 6: 0, 7: 0, -1: 0}
	for level, delta := range want {
		assert.Equal(t, delta, style.HeadingSizeDelta(level), "level %d", level)
	}
}

func TestProject_HeadingLevels(t *testing.T) {
	t.Parallel()

	want := []int{6, 4, 2, 0, 0, 0}
	for i, delta := range want {
		level := i + 1
		ranges := project(t, strings.Repeat("#", level)+" Title")

		content := rangesOf(ranges, mdast.NodeHeading, style.RoleContent)
		require.Len(t, content, 1, "level %d", level)
		assert.True(t, content[0].Attrs.Bold)
		assert.Equal(t, delta, content[0].Attrs.FontSizeDelta, "level %d", level)
		assert.Equal(t, level+1, content[0].Start)

		opening := rangesOf(ranges, mdast.NodeHeading, style.RoleOpening)
		require.Len(t, opening, 1)
		assert.True(t, opening[0].Attrs.HiddenMarker)
		assert.Equal(t, delta, opening[0].Attrs.FontSizeDelta)
		assert.Equal(t, 0, opening[0].Start)
		assert.Equal(t, level+1, opening[0].Length)
	}
}

func TestProject_SetextHeading(t *testing.T) {
	t.Parallel()

	ranges := project(t, "Title\n---\n")
	require.Len(t, ranges, 1)
	assert.Equal(t, style.Range{
		Start: 0, Length: 5,
		Attrs: style.Attributes{Bold: true, FontSizeDelta: 4},
		Kind:  mdast.NodeHeading, Role: style.RoleContent,
	}, ranges[0])
}

func TestProject_HelloWorldExample(t *testing.T) {
	t.Parallel()

	marker := style.Attributes{HiddenMarker: true, Foreground: style.DefaultMarkerForeground}
	headingMarker := marker
	headingMarker.FontSizeDelta = 6

	want := []style.Range{
		{Start: 2, Length: 15, Attrs: style.Attributes{Bold: true, FontSizeDelta: 6}, Kind: mdast.NodeHeading, Role: style.RoleContent},
		{Start: 0, Length: 2, Attrs: headingMarker, Kind: mdast.NodeHeading, Role: style.RoleOpening},
		{Start: 10, Length: 5, Attrs: style.Attributes{Bold: true}, Kind: mdast.NodeStrong, Role: style.RoleContent},
		{Start: 8, Length: 2, Attrs: marker, Kind: mdast.NodeStrong, Role: style.RoleOpening},
		{Start: 15, Length: 2, Attrs: marker, Kind: mdast.NodeStrong, Role: style.RoleClosing},
	}

	assert.Equal(t, want, project(t, "# Hello **World**"))
}

func TestProject_MarkersDistinctFromContent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"*a* **b** _c_ __d__",
		"***both***",
		"**outer *inner* outer**",
		"# Heading with *emphasis*",
	}

	for _, input := range inputs {
		ranges := project(t, input)
		require.NotEmpty(t, ranges, input)
		for _, r := range ranges {
			if r.Kind != mdast.NodeStrong && r.Kind != mdast.NodeEmphasis {
				continue
			}
			switch r.Role {
			case style.RoleContent:
				assert.False(t, r.Attrs.HiddenMarker, "%q content %+v", input, r)
				assert.True(t, r.Attrs.Bold || r.Attrs.Italic, "%q content %+v", input, r)
			default:
				assert.True(t, r.Attrs.HiddenMarker, "%q marker %+v", input, r)
				assert.False(t, r.Attrs.Bold, "%q marker %+v", input, r)
				assert.False(t, r.Attrs.Italic, "%q marker %+v", input, r)
			}
		}
	}
}

func TestProject_NoRangesForOtherNodes(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"plain text",
		"![alt](http://x/y.png)",
		"<b>raw</b>",
		"<div>\nblock\n</div>",
		"`code` [link](/x)\n\n- item\n\n> quote",
		"",
	}
	for _, input := range inputs {
		assert.Empty(t, project(t, input), input)
	}
}

func TestProject_SkipsZeroLengthSpans(t *testing.T) {
	t.Parallel()

	root := mdast.NewDocument()
	strong := mdast.NewNode(mdast.NodeStrong)
	mdast.SetMarkers(strong, mdast.SpanOf(0, 2), mdast.SpanOf(2, 2), mdast.SpanOf(2, 4))
	mdast.AppendChild(root, strong)

	ranges := style.Project(root, style.DefaultBaseFont())
	require.Len(t, ranges, 2)
	assert.Equal(t, style.RoleOpening, ranges[0].Role)
	assert.Equal(t, style.RoleClosing, ranges[1].Role)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := style.Attributes{Bold: true, FontSizeDelta: 6, Foreground: "#000000"}
	got := style.Merge(base, style.Attributes{HiddenMarker: true, Foreground: "#C0C0C0"})
	assert.Equal(t, style.Attributes{Bold: true, FontSizeDelta: 6, Foreground: "#C0C0C0", HiddenMarker: true}, got)

	got = style.Merge(base, style.Attributes{Italic: true, FontSizeDelta: 2})
	assert.Equal(t, style.Attributes{Bold: true, Italic: true, FontSizeDelta: 2, Foreground: "#000000"}, got)

	assert.True(t, style.Attributes{}.IsZero())
	assert.False(t, got.IsZero())
}
