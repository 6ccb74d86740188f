package highlight

import (
	"regexp"
	"strings"
	"unicode"
)

// Marker is the highlight delimiter.
const Marker = "=="

var (
	paragraphBreak   = regexp.MustCompile(`\n\s*\n`)
	horizontalRule   = regexp.MustCompile(`^(-{3,}|\*{3,}|_{3,})\s*$`)
	blockquotePrefix = regexp.MustCompile(`^(>+\s*)(.*)$`)
	bulletPrefix     = regexp.MustCompile(`^([-*+]\s+)(.*)$`)
	orderedPrefix    = regexp.MustCompile(`^(\d+\.\s+)(.*)$`)
	headingPrefix    = regexp.MustCompile(`^(#{1,6}\s+)(.*)$`)
)

// prefixRules are block prefixes kept outside the highlight.
var prefixRules = []*regexp.Regexp{bulletPrefix, orderedPrefix, headingPrefix}

// IsWrapped reports whether s starts and ends with its own highlight
// markers.
func IsWrapped(s string) bool {
	return len(s) >= 2*len(Marker) && strings.HasPrefix(s, Marker) && strings.HasSuffix(s, Marker)
}

// AddHighlightsByParagraph wraps every highlightable line of text.
// Paragraph breaks and blank lines are kept verbatim.
func AddHighlightsByParagraph(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 8)

	last := 0
	for _, loc := range paragraphBreak.FindAllStringIndex(text, -1) {
		b.WriteString(highlightParagraph(text[last:loc[0]]))
		b.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(highlightParagraph(text[last:]))

	return b.String()
}

func highlightParagraph(paragraph string) string {
	lines := strings.Split(paragraph, "\n")
	for i, line := range lines {
		lines[i] = AddHighlightToLine(line)
	}
	return strings.Join(lines, "\n")
}

// AddHighlightToLine wraps the content of a single line in highlight
// markers. Indentation, trailing whitespace and block prefixes (quote
// markers, list bullets, heading hashes) stay outside the markers. Lines
// that cannot hold a highlight are returned unchanged: images, HTML,
// horizontal rules, table rows, and lines already highlighted.
func AddHighlightToLine(line string) string {
	body := strings.TrimLeftFunc(line, unicode.IsSpace)
	leading := line[:len(line)-len(body)]
	trimmed := strings.TrimRightFunc(body, unicode.IsSpace)
	trailing := body[len(trimmed):]

	if trimmed == "" {
		return line
	}

	switch {
	case strings.HasPrefix(trimmed, "!["),
		strings.HasPrefix(trimmed, "<"),
		horizontalRule.MatchString(trimmed),
		strings.HasPrefix(trimmed, "|"),
		IsWrapped(trimmed):
		return line
	}

	if m := blockquotePrefix.FindStringSubmatch(trimmed); m != nil {
		if strings.TrimSpace(m[2]) == "" {
			return line
		}
		return leading + m[1] + AddHighlightToLine(m[2]) + trailing
	}

	for _, rule := range prefixRules {
		m := rule.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		content := m[2]
		if strings.TrimSpace(content) == "" || IsWrapped(strings.TrimSpace(content)) {
			return line
		}
		return leading + m[1] + Marker + content + Marker + trailing
	}

	return leading + Marker + trimmed + Marker + trailing
}
