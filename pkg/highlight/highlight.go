// Package highlight inserts and removes "==" highlight markers in a
// Markdown source. Both operations are pure: they take the current source
// and return the mutated source together with the edits that produced it,
// or an error and no mutation.
package highlight

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gomdmark/pkg/fix"
	"github.com/yaklabco/gomdmark/pkg/mdast"
	"github.com/yaklabco/gomdmark/pkg/posmap"
	"github.com/yaklabco/gomdmark/pkg/protect"
	"github.com/yaklabco/gomdmark/pkg/resolve"
)

// Selection is rendered text a reader selected, with optional hints
// locating the blocks it starts and ends in.
type Selection struct {
	Text  string
	Hints resolve.Hints
}

// RemoveTarget is the text of a rendered highlight, with the optional
// source range of the block that contains it.
type RemoveTarget struct {
	Text  string
	Scope *mdast.SourceRange
}

// Result describes a completed mutation.
type Result struct {
	// Content is the mutated source.
	Content string

	// Edits transform the original source into Content.
	Edits []fix.TextEdit

	// Range is the original source range the operation acted on.
	Range mdast.SourceRange

	// Tier is the resolver tier used by Insert. Empty for Remove.
	Tier resolve.Tier

	// Changed is false when every line in Range was left as it was.
	Changed bool
}

// Insert wraps the source text behind sel in highlight markers.
func Insert(source string, sel Selection, opts resolve.Options) (*Result, error) {
	if strings.TrimSpace(sel.Text) == "" {
		return nil, ErrEmptySelection
	}

	res, ok := resolve.Selection(source, sel.Text, sel.Hints, opts)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvableRange, posmap.Normalize(sel.Text))
	}

	if pr, overlaps := protect.Overlapping(source, res.Range); overlaps {
		return nil, &OverlapError{Range: res.Range, Protected: pr}
	}

	original := source[res.Range.StartOffset:res.Range.EndOffset]
	edits := []fix.TextEdit{fix.Replace(res.Range, AddHighlightsByParagraph(original))}

	content, err := fix.Apply(source, edits)
	if err != nil {
		return nil, fmt.Errorf("apply highlight: %w", err)
	}

	return &Result{
		Content: content,
		Edits:   edits,
		Range:   res.Range,
		Tier:    res.Tier,
		Changed: content != source,
	}, nil
}

// Remove strips the markers of the highlight matching target.
func Remove(source string, target RemoveTarget) (*Result, error) {
	snippet := posmap.Normalize(target.Text)
	if snippet == "" {
		return nil, ErrNoRemoveTarget
	}

	r, ok := ResolveWrapper(source, snippet, target.Scope)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvableWrapper, snippet)
	}

	if err := checkWrapper(source, r); err != nil {
		return nil, err
	}

	edits := fix.NewEditBuilder().
		Delete(r.StartOffset, r.StartOffset+len(Marker)).
		Delete(r.EndOffset-len(Marker), r.EndOffset).
		Edits()

	content, err := fix.Apply(source, edits)
	if err != nil {
		return nil, fmt.Errorf("apply removal: %w", err)
	}

	return &Result{
		Content: content,
		Edits:   edits,
		Range:   r,
		Changed: true,
	}, nil
}
