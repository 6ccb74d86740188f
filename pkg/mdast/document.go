// Package mdast provides the coordinate system shared by every gomdmark
// component: half-open byte ranges into a Markdown source, 1-based
// line/column positions, and the line table that converts between them.
//
// A Document is an immutable view of the source for the duration of one
// operation. Nothing in this package retains source text beyond the
// Document value the caller owns.
package mdast

// Document is an immutable view of a Markdown source and its line table.
type Document struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Content is the raw Markdown source.
	Content string

	// Lines contains metadata for each line in the source.
	Lines []LineInfo
}

// LineInfo holds metadata for a single line in a source.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of source).
	EndOffset int
}

// TextEnd returns the offset of the "\n" terminating the line, or the end of
// the line when it has none. A trailing "\r" counts as line text.
func (l LineInfo) TextEnd() int {
	if l.EndOffset > l.StartOffset && l.EndOffset > l.NewlineStart {
		return l.EndOffset - 1
	}
	return l.EndOffset
}

// NewDocument creates a Document and builds its line table.
func NewDocument(path, content string) *Document {
	return &Document{
		Path:    path,
		Content: content,
		Lines:   BuildLines(content),
	}
}

// Len returns the source length in bytes.
func (d *Document) Len() int {
	return len(d.Content)
}

// Slice returns the source text covered by r, or "" if r is out of bounds.
func (d *Document) Slice(r SourceRange) string {
	if !r.Within(len(d.Content)) {
		return ""
	}
	return d.Content[r.StartOffset:r.EndOffset]
}
