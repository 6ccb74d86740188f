package fix

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidEdit is wrapped by every ValidationError and ConflictError.
var ErrInvalidEdit = errors.New("invalid edit")

// ValidationError describes an edit whose range does not fit the content.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidEdit
}

// ConflictError describes overlapping edits.
type ConflictError struct {
	Edit1 TextEdit
	Edit2 TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.Edit1.StartOffset, e.Edit1.EndOffset,
		e.Edit2.StartOffset, e.Edit2.EndOffset)
}

func (e *ConflictError) Unwrap() error {
	return ErrInvalidEdit
}

// ValidateEdits checks that all edits have valid ranges for the given content length.
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, edit := range edits {
		switch {
		case edit.StartOffset < 0:
			return &ValidationError{Edit: edit, Message: "start offset is negative"}
		case edit.EndOffset < edit.StartOffset:
			return &ValidationError{Edit: edit, Message: "end offset is before start offset"}
		case edit.EndOffset > contentLen:
			return &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", edit.EndOffset, contentLen),
			}
		}
	}
	return nil
}

// SortEdits sorts edits by start offset, then by end offset.
func SortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		if a.StartOffset != b.StartOffset {
			return a.StartOffset - b.StartOffset
		}
		return a.EndOffset - b.EndOffset
	})
}

// DetectConflicts checks a sorted slice for overlapping edits. Two
// insertions at the same offset also conflict, since their order would be
// ambiguous.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		prev, curr := edits[i-1], edits[i]
		if curr.StartOffset < prev.EndOffset ||
			(curr.StartOffset == prev.StartOffset && prev.StartOffset == prev.EndOffset && curr.StartOffset == curr.EndOffset) {
			return &ConflictError{Edit1: prev, Edit2: curr}
		}
	}
	return nil
}

// PrepareEdits validates, sorts, and checks for conflicts. The input slice
// is not modified.
func PrepareEdits(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return nil, nil
	}

	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, err
	}

	sorted := slices.Clone(edits)
	SortEdits(sorted)

	if err := DetectConflicts(sorted); err != nil {
		return nil, err
	}

	return sorted, nil
}
