// Package view models the rendered reading view of a document as a DOM.
// It finds the rendered highlights and the blocks a selection falls in,
// and translates their data-sourcepos attributes into source ranges that
// serve as resolver hints.
package view

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/yaklabco/gomdmark/pkg/mdast"
	"github.com/yaklabco/gomdmark/pkg/parser/goldmark"
	"github.com/yaklabco/gomdmark/pkg/posmap"
	"github.com/yaklabco/gomdmark/pkg/resolve"
)

// Default ancestor search depths. A removal starts from an inline <mark>
// and may sit deeper in the tree than a selected block.
const (
	DefaultSelectionDepth = 5
	DefaultRemoveDepth    = 8
)

const (
	sourcePosSelector = "[" + goldmark.AttrSourcePos + "]"
	markSelector      = "mark"
)

// View is a parsed reading view.
type View struct {
	doc *goquery.Document
}

// New parses rendered HTML into a view.
func New(markup string) (*View, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse view: %w", err)
	}
	return &View{doc: goquery.NewDocumentFromNode(root)}, nil
}

// Text returns the visible text of the view.
func (v *View) Text() string {
	return v.doc.Text()
}

// HTML returns the markup of the view's body.
func (v *View) HTML() (string, error) {
	markup, err := v.doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serialize view: %w", err)
	}
	return markup, nil
}

// Mark is a rendered highlight.
type Mark struct {
	// Index is the mark's position among all marks, in document order.
	Index int

	// Text is the mark's visible text.
	Text string

	sel *goquery.Selection
}

// SourcePos returns the position of the nearest block containing the mark.
func (m Mark) SourcePos(maxDepth int) (mdast.SourcePosition, bool) {
	return NearestSourcePos(m.sel, maxDepth)
}

// Scope translates the containing block's position into a source range
// of doc. It returns nil when there is no usable position.
func (m Mark) Scope(doc *mdast.Document, maxDepth int) *mdast.SourceRange {
	return rangeOf(doc, m.sel, maxDepth)
}

// Marks returns every rendered highlight in document order.
func (v *View) Marks() []Mark {
	var marks []Mark
	v.doc.Find(markSelector).Each(func(i int, s *goquery.Selection) {
		marks = append(marks, Mark{Index: i, Text: s.Text(), sel: s})
	})
	return marks
}

// Mark returns the highlight at index i.
func (v *View) Mark(i int) (Mark, bool) {
	sel := v.doc.Find(markSelector).Eq(i)
	if i < 0 || sel.Length() == 0 {
		return Mark{}, false
	}
	return Mark{Index: i, Text: sel.Text(), sel: sel}, true
}

// leaves returns the positioned blocks that contain no other positioned
// block, in document order.
func (v *View) leaves() []*goquery.Selection {
	var out []*goquery.Selection
	v.doc.Find(sourcePosSelector).
		FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.Find(sourcePosSelector).Length() == 0
		}).
		Each(func(_ int, s *goquery.Selection) {
			out = append(out, s)
		})
	return out
}

// Locate finds the blocks where a selection of snippet starts and ends:
// the single leaf block whose text contains it, or else the single
// shortest run of consecutive leaf blocks whose joined text contains it.
// Any ambiguity yields no blocks.
func (v *View) Locate(snippet string) (anchor, focus *goquery.Selection, ok bool) {
	want := posmap.Normalize(snippet)
	if want == "" {
		return nil, nil, false
	}

	leaves := v.leaves()
	texts := make([]string, len(leaves))
	for i, leaf := range leaves {
		texts[i] = posmap.Normalize(leaf.Text())
	}

	var single []int
	for i, text := range texts {
		if strings.Contains(text, want) {
			single = append(single, i)
		}
	}
	switch len(single) {
	case 1:
		return leaves[single[0]], leaves[single[0]], true
	case 0:
	default:
		return nil, nil, false
	}

	first, last, found := -1, -1, 0
	for i := range texts {
		for j := i + 1; j < len(texts); j++ {
			if !strings.Contains(strings.Join(texts[i:j+1], " "), want) {
				continue
			}
			if !strings.Contains(strings.Join(texts[i+1:j+1], " "), want) {
				first, last = i, j
				found++
			}
			break
		}
	}
	if found != 1 {
		return nil, nil, false
	}

	return leaves[first], leaves[last], true
}

// SelectionHints locates snippet and translates the blocks it spans into
// resolver hints for doc. Both hints are nil unless both ends locate and
// translate.
func (v *View) SelectionHints(doc *mdast.Document, snippet string, maxDepth int) resolve.Hints {
	anchor, focus, ok := v.Locate(snippet)
	if !ok {
		return resolve.Hints{}
	}
	hints := resolve.Hints{
		Anchor: rangeOf(doc, anchor, maxDepth),
		Focus:  rangeOf(doc, focus, maxDepth),
	}
	if hints.Anchor == nil || hints.Focus == nil {
		return resolve.Hints{}
	}
	return hints
}

// NearestSourcePos walks from sel up through at most maxDepth ancestors
// and returns the first data-sourcepos it finds.
func NearestSourcePos(sel *goquery.Selection, maxDepth int) (mdast.SourcePosition, bool) {
	for depth := 0; sel != nil && sel.Length() > 0 && depth <= maxDepth; depth++ {
		if value, exists := sel.Attr(goldmark.AttrSourcePos); exists {
			sp, err := mdast.ParseSourcePos(value)
			if err != nil {
				return mdast.SourcePosition{}, false
			}
			return sp, true
		}
		sel = sel.Parent()
	}
	return mdast.SourcePosition{}, false
}

func rangeOf(doc *mdast.Document, sel *goquery.Selection, maxDepth int) *mdast.SourceRange {
	sp, ok := NearestSourcePos(sel, maxDepth)
	if !ok {
		return nil
	}
	r, err := doc.Range(sp)
	if err != nil {
		return nil
	}
	return &r
}
