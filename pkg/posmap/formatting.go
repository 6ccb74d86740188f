package posmap

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// formattingChars are the bytes that may open an inline formatting span.
const formattingChars = "*_~=`"

// delimiters are tried longest first so nested strong+emphasis is seen as
// one span.
var delimiters = []string{"***", "___", "**", "__", "~~", "==", "*", "_"}

// Formatting describes an inline formatting span found at some position.
type Formatting struct {
	// Content is the text between the delimiters.
	Content string

	// StartOffset is the length of the opening delimiter.
	StartOffset int

	// FullLength covers both delimiters and the content.
	FullLength int

	// Code is true for code spans, whose content is literal.
	Code bool
}

// DetectFormatting reports the formatting span opening at text[pos:], if any.
func DetectFormatting(text string, pos int) (Formatting, bool) {
	rest := text[pos:]

	if f, ok := codeSpan(rest); ok {
		return f, true
	}

	for _, delim := range delimiters {
		if !strings.HasPrefix(rest, delim) {
			continue
		}
		if delim[0] == '_' && !underscoreOpens(text, pos, len(delim)) {
			continue
		}

		closeIdx := ClosingDelimiter(rest, delim)
		if closeIdx <= len(delim) {
			continue
		}

		return Formatting{
			Content:     rest[len(delim):closeIdx],
			StartOffset: len(delim),
			FullLength:  closeIdx + len(delim),
		}, true
	}

	return Formatting{}, false
}

// codeSpan matches a single-backtick code span with non-empty content.
func codeSpan(rest string) (Formatting, bool) {
	if !strings.HasPrefix(rest, "`") {
		return Formatting{}, false
	}
	closeIdx := strings.IndexByte(rest[1:], '`') + 1
	if closeIdx <= 1 {
		return Formatting{}, false
	}
	return Formatting{
		Content:     rest[1:closeIdx],
		StartOffset: 1,
		FullLength:  closeIdx + 1,
		Code:        true,
	}, true
}

// ClosingDelimiter returns the index of the delimiter closing a span that
// opens at the start of text, or -1. Escaped delimiters never close, and
// underscore delimiters must be right-flanking.
func ClosingDelimiter(text, delim string) int {
	from := len(delim)
	for from <= len(text)-len(delim) {
		idx := strings.Index(text[from:], delim)
		if idx < 0 {
			return -1
		}
		idx += from

		if text[idx-1] == '\\' ||
			(delim[0] == '_' && !underscoreCloses(text, idx, len(delim))) {
			from = idx + len(delim)
			continue
		}

		return idx
	}
	return -1
}

func underscoreOpens(text string, pos, delimLen int) bool {
	before := runeBefore(text, pos)
	after := runeAfter(text, pos+delimLen)
	if after == utf8.RuneError || unicode.IsSpace(after) {
		return false
	}
	return !(isWordLike(before) && isWordLike(after))
}

func underscoreCloses(text string, idx, delimLen int) bool {
	before := runeBefore(text, idx)
	after := runeAfter(text, idx+delimLen)
	if before == utf8.RuneError || unicode.IsSpace(before) {
		return false
	}
	return !(isWordLike(before) && isWordLike(after))
}

func runeBefore(text string, pos int) rune {
	if pos <= 0 {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return r
}

func runeAfter(text string, pos int) rune {
	if pos >= len(text) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return r
}

func isWordLike(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsNumber(r))
}
