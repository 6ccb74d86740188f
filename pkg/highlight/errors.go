package highlight

import (
	"errors"
	"fmt"

	"github.com/yaklabco/gomdmark/pkg/mdast"
	"github.com/yaklabco/gomdmark/pkg/protect"
)

// Sentinel errors for operations that leave the source untouched.
var (
	// ErrEmptySelection is returned when the selection holds no
	// non-whitespace text.
	ErrEmptySelection = errors.New("no text selected")

	// ErrUnresolvableRange is returned when the selection cannot be mapped
	// to a unique source range.
	ErrUnresolvableRange = errors.New("selection not found in source")

	// ErrProtectedOverlap is returned when the resolved range touches
	// frontmatter or a fenced code block.
	ErrProtectedOverlap = errors.New("cannot highlight inside a code block or frontmatter")

	// ErrNoRemoveTarget is returned when there is no highlight to remove or
	// it holds no text.
	ErrNoRemoveTarget = errors.New("no highlight selected for removal")

	// ErrUnresolvableWrapper is returned when no unique highlight in the
	// source matches the removal target.
	ErrUnresolvableWrapper = errors.New("highlight not found in source")

	// ErrMalformedWrapper is returned when a resolved highlight is not
	// delimited by "==" on both ends.
	ErrMalformedWrapper = errors.New("highlight markers are malformed")
)

// OverlapError reports the protected range a selection ran into.
type OverlapError struct {
	Range     mdast.SourceRange
	Protected protect.Range
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s: range %s overlaps %s %s",
		ErrProtectedOverlap, e.Range, e.Protected.Kind, e.Protected.SourceRange)
}

func (e *OverlapError) Unwrap() error {
	return ErrProtectedOverlap
}

// WrapperError reports a resolved highlight range that failed the
// delimiter check.
type WrapperError struct {
	Range mdast.SourceRange
	Text  string
}

func (e *WrapperError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrMalformedWrapper, e.Range, e.Text)
}

func (e *WrapperError) Unwrap() error {
	return ErrMalformedWrapper
}
