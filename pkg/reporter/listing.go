package reporter

import (
	"github.com/yaklabco/gomdmark/pkg/highlight"
	"github.com/yaklabco/gomdmark/pkg/mdast"
	"github.com/yaklabco/gomdmark/pkg/posmap"
	"github.com/yaklabco/gomdmark/pkg/protect"
	"github.com/yaklabco/gomdmark/pkg/view"
)

// MarkEntry is one rendered highlight.
type MarkEntry struct {
	Index int
	Text  string

	// Block is the data-sourcepos of the nearest positioned ancestor, or
	// nil when none lies within the search depth.
	Block *mdast.SourcePosition

	// Wrapper is the source range of the "==...==" wrapper, or nil when it
	// could not be identified uniquely.
	Wrapper *mdast.SourceRange

	// WrapperPos is Wrapper as a source position.
	WrapperPos *mdast.SourcePosition
}

// MarkListing lists the highlights of one document.
type MarkListing struct {
	Path  string
	Marks []MarkEntry
}

// NewMarkListing collects the highlights of v, which must be the view of
// source, and resolves each back to its wrapper.
func NewMarkListing(path, source string, v *view.View, maxDepth int) *MarkListing {
	doc := mdast.NewDocument(path, source)
	listing := &MarkListing{Path: path, Marks: []MarkEntry{}}

	for _, mark := range v.Marks() {
		entry := MarkEntry{Index: mark.Index, Text: mark.Text}
		if pos, ok := mark.SourcePos(maxDepth); ok {
			entry.Block = &pos
		}
		if r, ok := highlight.ResolveWrapper(source, mark.Text, mark.Scope(doc, maxDepth)); ok {
			pos := doc.Position(r)
			entry.Wrapper = &r
			entry.WrapperPos = &pos
		}
		listing.Marks = append(listing.Marks, entry)
	}

	return listing
}

// ProtectedEntry is one region highlights may not touch.
type ProtectedEntry struct {
	Kind      protect.Kind
	Range     mdast.SourceRange
	StartLine int
	EndLine   int

	// Language is the fence's labelled or detected language.
	Language string

	// Closed is false for a fence that runs to the end of the document.
	Closed bool

	// Problem is the YAML error of an unparseable frontmatter block.
	Problem string
}

// ProtectedListing lists the protected ranges of one document.
type ProtectedListing struct {
	Path   string
	Ranges []ProtectedEntry
}

// NewProtectedListing finds the protected ranges of source.
func NewProtectedListing(path, source string) *ProtectedListing {
	doc := mdast.NewDocument(path, source)
	listing := &ProtectedListing{Path: path, Ranges: []ProtectedEntry{}}

	for _, pr := range protect.Find(source) {
		pos := doc.Position(pr.SourceRange)
		entry := ProtectedEntry{
			Kind:      pr.Kind,
			Range:     pr.SourceRange,
			StartLine: pos.StartLine,
			EndLine:   pos.EndLine,
			Language:  pr.Language(source),
			Closed:    pr.Closed,
		}
		if err := pr.ValidateFrontmatter(source); err != nil {
			entry.Problem = err.Error()
		}
		listing.Ranges = append(listing.Ranges, entry)
	}

	return listing
}

// Rendered is the reading view of one document.
type Rendered struct {
	Path string

	// Text is the rendered text of the whole source.
	Text string

	// HTML is the rendered view, when requested.
	HTML string

	// Map is the position map of the source, when requested.
	Map *posmap.Map
}
