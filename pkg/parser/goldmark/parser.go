// Package goldmark turns markdown text into an mdast tree using goldmark.
package goldmark

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mdnotes/pkg/mdast"
)

// Supported flavors.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

//nolint:gochecknoglobals // read-only table
var flavorExtensions = map[string][]goldmark.Extender{
	FlavorCommonMark: nil,
	FlavorGFM:        {extension.GFM},
}

// Parser converts markdown text into mdast snapshots. It is safe for
// concurrent use; each call gets its own goldmark context and mapper.
type Parser struct {
	flavor string
	parser parser.Parser
}

// New returns a parser for flavor. Unknown flavors fall back to CommonMark.
func New(flavor string) *Parser {
	extensions, ok := flavorExtensions[flavor]
	if !ok {
		flavor = FlavorCommonMark
	}
	// Only goldmark's parser half is used; HTML comes from the preview package.
	md := goldmark.New(goldmark.WithExtensions(extensions...))
	return &Parser{flavor: flavor, parser: md.Parser()}
}

// Flavor returns the flavor the parser was built for.
func (p *Parser) Flavor() string {
	return p.flavor
}

// ValidFlavor reports whether New accepts flavor as is.
func ValidFlavor(flavor string) bool {
	_, ok := flavorExtensions[flavor]
	return ok
}

// Parse converts text into a snapshot at version 0. It never fails: every
// input produces a tree whose root spans the whole text.
func (p *Parser) Parse(text string) *mdast.Snapshot {
	return p.ParseVersion(text, 0)
}

// ParseVersion is Parse for a snapshot of the given document version.
func (p *Parser) ParseVersion(content string, version uint64) *mdast.Snapshot {
	snap := mdast.NewSnapshot([]byte(content), version)
	doc := p.parser.Parse(text.NewReader(snap.Content), parser.WithContext(parser.NewContext()))
	snap.Root = newMapper(snap.Content).mapDocument(doc)
	mdast.SetFile(snap.Root, snap)
	return snap
}
