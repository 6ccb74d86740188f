package pretty

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// NoticeLevel is the severity of a user-visible notice.
type NoticeLevel string

const (
	NoticeError   NoticeLevel = "error"
	NoticeWarning NoticeLevel = "warning"
	NoticeInfo    NoticeLevel = "info"
)

// FormatNotice formats a one-line notice: "gomdmark: warning: message".
func (s *Styles) FormatNotice(level NoticeLevel, message string) string {
	return fmt.Sprintf("%s %s %s\n",
		s.Dim.Render("gomdmark:"),
		s.FormatLevel(level),
		s.Message.Render(message),
	)
}

// FormatLevel returns a styled level label with a trailing colon.
func (s *Styles) FormatLevel(level NoticeLevel) string {
	switch level {
	case NoticeError:
		return s.Error.Render("error:")
	case NoticeWarning:
		return s.Warning.Render("warning:")
	case NoticeInfo:
		return s.Info.Render("info:")
	default:
		return string(level) + ":"
	}
}

// FormatLocation formats path:pos with the path in bold.
func (s *Styles) FormatLocation(path, pos string) string {
	if pos == "" {
		return s.FilePath.Render(path)
	}
	return s.FilePath.Render(path) + s.Location.Render(":"+pos)
}

// FormatSourceContext formats a source line with carets under columns
// [startCol, endCol), both 1-based byte columns. endCol <= startCol marks a
// single column; startCol < 1 marks nothing.
func (s *Styles) FormatSourceContext(line string, startCol, endCol int) string {
	const indent = "    "

	var builder strings.Builder
	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if startCol < 1 {
		return builder.String()
	}
	startCol = min(startCol, len(line)+1)
	endCol = min(max(endCol, startCol+1), len(line)+1)

	pad := utf8.RuneCountInString(line[:startCol-1])
	width := max(utf8.RuneCountInString(line[startCol-1:endCol-1]), 1)
	builder.WriteString(indent + strings.Repeat(" ", pad) + s.Caret.Render(strings.Repeat("^", width)) + "\n")

	return builder.String()
}

// FormatHighlighted renders text the way the reading view shows a mark.
func (s *Styles) FormatHighlighted(text string) string {
	return s.Highlight.Render(text)
}

// FormatFileHeader formats a file header for a listing.
func (s *Styles) FormatFileHeader(path string, count int, noun string) string {
	header := s.FilePath.Render(path)
	if count > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", count, Plural(count, noun)))
	}
	return header
}

// Plural appends "s" to noun unless n is 1.
func Plural(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
