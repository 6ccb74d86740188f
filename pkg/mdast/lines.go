package mdast

import "sort"

// BuildLines constructs line metadata from source content.
// It handles both LF (\n) and CRLF (\r\n) line endings. Every source has at
// least one line, so an empty source yields a single empty line.
func BuildLines(content string) []LineInfo {
	lines := make([]LineInfo, 0, 1)
	lineStart := 0

	for idx := range len(content) {
		if content[idx] != '\n' {
			continue
		}

		newlineStart := idx
		if idx > lineStart && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}

		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	// The last line may not have a trailing newline.
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes.
// Returns (0, 0) if the offset is out of range.
func (d *Document) LineAt(offset int) (int, int) {
	if offset < 0 || offset > len(d.Content) || len(d.Lines) == 0 {
		return 0, 0
	}

	lineIdx := sort.Search(len(d.Lines), func(i int) bool {
		return d.Lines[i].EndOffset > offset
	})
	if lineIdx >= len(d.Lines) {
		lineIdx = len(d.Lines) - 1
	}

	return lineIdx + 1, offset - d.Lines[lineIdx].StartOffset + 1
}

// Offset converts 1-based line and column numbers to a byte offset.
// Columns past the end of the line are clamped to the line's length, so a
// column can never reach into the next line.
// Returns (0, false) if line or col is below 1 or the line does not exist.
func (d *Document) Offset(line, col int) (int, bool) {
	if line < 1 || col < 1 || line > len(d.Lines) {
		return 0, false
	}

	info := d.Lines[line-1]
	lineLen := info.TextEnd() - info.StartOffset

	return info.StartOffset + min(col-1, lineLen), true
}

// LineContent returns the content of a 1-based line number, excluding the newline.
// Returns "" if the line number is out of range.
func (d *Document) LineContent(line int) string {
	if line < 1 || line > len(d.Lines) {
		return ""
	}

	info := d.Lines[line-1]
	return d.Content[info.StartOffset:info.NewlineStart]
}
