package resolve

import (
	"strings"

	"github.com/yaklabco/gomdmark/pkg/mdast"
	"github.com/yaklabco/gomdmark/pkg/posmap"
)

// inlineDelimiters are checked longest first.
var inlineDelimiters = []string{"***", "___", "**", "__", "*", "_", "`"}

// AdjustLeadingDelimiter moves the start of r back over an inline delimiter
// that immediately precedes it, so a selection beginning just inside
// emphasis carries the opening delimiter into the highlight.
func AdjustLeadingDelimiter(source string, r mdast.SourceRange) mdast.SourceRange {
	before := source[:r.StartOffset]
	for _, delim := range inlineDelimiters {
		if strings.HasSuffix(before, delim) {
			r.StartOffset -= len(delim)
			return r
		}
	}
	return r
}

// AdjustTrailingDelimiter moves the end of r forward over the closing
// delimiter of a formatting span that opens at the start of r and closes
// immediately after it. Delimiters that close no such span are literal
// text and stay outside the range.
func AdjustTrailingDelimiter(source string, r mdast.SourceRange) mdast.SourceRange {
	if r.StartOffset >= r.EndOffset || r.EndOffset >= len(source) {
		return r
	}
	span, ok := posmap.DetectFormatting(source, r.StartOffset)
	if !ok {
		return r
	}
	end := r.StartOffset + span.FullLength
	if end-span.StartOffset == r.EndOffset {
		r.EndOffset = end
	}
	return r
}
