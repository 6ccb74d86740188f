// Package fix describes source mutations as byte-range text edits and
// applies them as a single atomic transform.
package fix

import "github.com/yaklabco/gomdmark/pkg/mdast"

// TextEdit represents a single text replacement in a source.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// Replace returns an edit replacing r with text.
func Replace(r mdast.SourceRange, text string) TextEdit {
	return TextEdit{StartOffset: r.StartOffset, EndOffset: r.EndOffset, NewText: text}
}

// Range returns the replaced byte range.
func (e TextEdit) Range() mdast.SourceRange {
	return mdast.SourceRange{StartOffset: e.StartOffset, EndOffset: e.EndOffset}
}

// Delta is the change in source length caused by the edit.
func (e TextEdit) Delta() int {
	return len(e.NewText) - (e.EndOffset - e.StartOffset)
}

// EditBuilder accumulates the edits of one mutation.
type EditBuilder struct {
	edits []TextEdit
}

// NewEditBuilder creates a new EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{}
}

// ReplaceRange adds an edit that replaces bytes [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) *EditBuilder {
	b.edits = append(b.edits, TextEdit{StartOffset: start, EndOffset: end, NewText: newText})
	return b
}

// Insert adds an edit that inserts text at the given offset.
func (b *EditBuilder) Insert(offset int, text string) *EditBuilder {
	return b.ReplaceRange(offset, offset, text)
}

// Delete adds an edit that deletes bytes [start, end).
func (b *EditBuilder) Delete(start, end int) *EditBuilder {
	return b.ReplaceRange(start, end, "")
}

// Edits returns a copy of the accumulated edits.
func (b *EditBuilder) Edits() []TextEdit {
	out := make([]TextEdit, len(b.edits))
	copy(out, b.edits)
	return out
}
