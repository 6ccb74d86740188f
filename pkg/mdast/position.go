package mdast

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidSourcePos is returned when a source position string or value
// cannot be translated into a byte range.
var ErrInvalidSourcePos = errors.New("invalid source position")

// SourceRange represents a byte range in the source content.
type SourceRange struct {
	// StartOffset is the byte index where the range begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the range ends (exclusive).
	EndOffset int
}

// Len returns the length of the range in bytes.
func (r SourceRange) Len() int {
	return r.EndOffset - r.StartOffset
}

// IsEmpty returns true if the range has zero length.
func (r SourceRange) IsEmpty() bool {
	return r.StartOffset == r.EndOffset
}

// Contains returns true if the given offset is within this range.
func (r SourceRange) Contains(offset int) bool {
	return offset >= r.StartOffset && offset < r.EndOffset
}

// Overlaps reports whether two half-open ranges share at least one byte.
// Touching ranges do not overlap.
func (r SourceRange) Overlaps(other SourceRange) bool {
	return r.StartOffset < other.EndOffset && r.EndOffset > other.StartOffset
}

// Within reports whether the range is well formed and fits a source of
// length n.
func (r SourceRange) Within(n int) bool {
	return r.StartOffset >= 0 && r.StartOffset <= r.EndOffset && r.EndOffset <= n
}

// Union returns the smallest range covering both r and other.
func (r SourceRange) Union(other SourceRange) SourceRange {
	return SourceRange{
		StartOffset: min(r.StartOffset, other.StartOffset),
		EndOffset:   max(r.EndOffset, other.EndOffset),
	}
}

func (r SourceRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.StartOffset, r.EndOffset)
}

// Position represents a 1-based line and column in a file.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// SourcePosition represents a range in terms of line/column positions.
// Both ends are 1-based and the end column is inclusive, matching the
// data-sourcepos attribute written into rendered HTML.
type SourcePosition struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Start returns the start position.
func (sp SourcePosition) Start() Position {
	return Position{Line: sp.StartLine, Column: sp.StartColumn}
}

// End returns the end position.
func (sp SourcePosition) End() Position {
	return Position{Line: sp.EndLine, Column: sp.EndColumn}
}

// IsValid returns true if both start and end positions are valid.
func (sp SourcePosition) IsValid() bool {
	return sp.StartLine > 0 && sp.StartColumn > 0 &&
		sp.EndLine > 0 && sp.EndColumn > 0
}

// IsSingleLine returns true if start and end are on the same line.
func (sp SourcePosition) IsSingleLine() bool {
	return sp.StartLine == sp.EndLine
}

// String formats the position as "L:C-L:C".
func (sp SourcePosition) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", sp.StartLine, sp.StartColumn, sp.EndLine, sp.EndColumn)
}

var sourcePosPattern = regexp.MustCompile(`^(\d+):(\d+)-(\d+):(\d+)$`)

// ParseSourcePos parses a "L:C-L:C" string.
func ParseSourcePos(s string) (SourcePosition, error) {
	m := sourcePosPattern.FindStringSubmatch(s)
	if m == nil {
		return SourcePosition{}, fmt.Errorf("%w: %q", ErrInvalidSourcePos, s)
	}

	vals := make([]int, 4)
	for i := range vals {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return SourcePosition{}, fmt.Errorf("%w: %q: %w", ErrInvalidSourcePos, s, err)
		}
		vals[i] = v
	}

	sp := SourcePosition{StartLine: vals[0], StartColumn: vals[1], EndLine: vals[2], EndColumn: vals[3]}
	if !sp.IsValid() {
		return SourcePosition{}, fmt.Errorf("%w: %q", ErrInvalidSourcePos, s)
	}
	return sp, nil
}

// Range translates a source position into a half-open byte range.
// Columns are clamped to their line's length. Because the end column is
// inclusive, the end offset is one past it, capped at the source length.
func (d *Document) Range(sp SourcePosition) (SourceRange, error) {
	if !sp.IsValid() {
		return SourceRange{}, fmt.Errorf("%w: %s", ErrInvalidSourcePos, sp)
	}

	start, ok := d.Offset(sp.StartLine, sp.StartColumn)
	if !ok {
		return SourceRange{}, fmt.Errorf("%w: %s: start line past end", ErrInvalidSourcePos, sp)
	}

	end, ok := d.Offset(sp.EndLine, sp.EndColumn)
	if !ok {
		return SourceRange{}, fmt.Errorf("%w: %s: end line past end", ErrInvalidSourcePos, sp)
	}
	end = min(end+1, len(d.Content))

	if end < start {
		return SourceRange{}, fmt.Errorf("%w: %s: end before start", ErrInvalidSourcePos, sp)
	}

	return SourceRange{StartOffset: start, EndOffset: end}, nil
}

// Position translates a byte range into a source position with an
// inclusive end column. An empty range yields a single-column position.
func (d *Document) Position(r SourceRange) SourcePosition {
	startLine, startCol := d.LineAt(r.StartOffset)

	last := r.EndOffset - 1
	if r.IsEmpty() {
		last = r.StartOffset
	}
	endLine, endCol := d.LineAt(last)

	return SourcePosition{
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
	}
}
