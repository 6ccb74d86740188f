package fix

import "strings"

// Apply validates edits against content and applies them in one pass.
// Either every edit is applied or content is returned unchanged with an
// error.
func Apply(content string, edits []TextEdit) (string, error) {
	prepared, err := PrepareEdits(edits, len(content))
	if err != nil {
		return content, err
	}
	return ApplyEdits(content, prepared), nil
}

// ApplyEdits applies a sorted, validated slice of edits to content.
// Edits must be prepared with PrepareEdits before calling.
func ApplyEdits(content string, edits []TextEdit) string {
	if len(edits) == 0 {
		return content
	}

	size := len(content)
	for _, e := range edits {
		size += e.Delta()
	}

	var out strings.Builder
	out.Grow(max(size, 0))

	cursor := 0
	for _, e := range edits {
		out.WriteString(content[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.WriteString(content[cursor:])

	return out.String()
}
