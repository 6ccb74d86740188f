// Package posmap approximates how Markdown inline syntax renders to plain
// text and records, for every rendered rune, the source bytes it came from.
//
// The approximation covers the syntax a reader can select across:
// emphasis and strong delimiters, strikethrough, highlight markers, code
// spans, Markdown links, wikilinks, inline HTML, and backslash escapes.
// Block syntax (list bullets, heading hashes, quote markers) passes through
// unchanged.
package posmap

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/gomdmark/pkg/mdast"
)

// LinkType identifies the kind of link a rendered rune belongs to.
type LinkType string

const (
	// LinkNone marks runes outside any link.
	LinkNone LinkType = ""

	// LinkMarkdown marks display text of [text](url) links.
	LinkMarkdown LinkType = "markdown"

	// LinkWiki marks display text of [[target|alias]] links.
	LinkWiki LinkType = "wiki"
)

// Entry maps one rendered rune back to the source.
type Entry struct {
	// SourceStart and SourceEnd delimit the source bytes that produced the
	// rune. For link text this is the whole link.
	SourceStart int
	SourceEnd   int

	// RenderedPos is the byte offset of the rune in Map.Rendered.
	RenderedPos int

	LinkType LinkType

	// Code is true for runes inside a code span.
	Code bool
}

// InLink reports whether the entry is link display text.
func (e Entry) InLink() bool {
	return e.LinkType != LinkNone
}

// Map is the rendered text of a source together with its position entries.
// Entries are ordered by RenderedPos and by SourceStart.
type Map struct {
	Rendered string
	Entries  []Entry
}

var (
	htmlCommentPattern  = regexp.MustCompile(`(?s)^<!--.*?-->`)
	htmlTagPattern      = regexp.MustCompile(`^</?[A-Za-z][^>\n]*>`)
	markdownLinkPattern = regexp.MustCompile(`^\[([^\]]+)\]\([^)]*\)`)
	wikiLinkPattern     = regexp.MustCompile(`^\[\[([^\]|]*?)(?:\|([^\]]*?))?\]\]`)
)

// Build creates the position map for source. Offsets are relative to the
// start of source.
func Build(source string) *Map {
	return BuildAt(source, 0)
}

// BuildAt creates the position map for a fragment that starts at base in
// some larger source. Entry source offsets are shifted by base.
func BuildAt(source string, base int) *Map {
	b := &builder{entries: make([]Entry, 0, len(source))}
	b.scan(source, base)
	return &Map{Rendered: b.rendered.String(), Entries: b.entries}
}

// Render returns the approximate rendered text of source.
func Render(source string) string {
	return Build(source).Rendered
}

// Normalize trims s and collapses every whitespace run to a single space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// EntryAt returns the last entry whose RenderedPos is at or before pos.
func (m *Map) EntryAt(pos int) (Entry, bool) {
	idx := sort.Search(len(m.Entries), func(i int) bool {
		return m.Entries[i].RenderedPos > pos
	}) - 1
	if idx < 0 {
		return Entry{}, false
	}
	return m.Entries[idx], true
}

// SourceRange maps the rendered range [start, end) to a source range.
// When both ends fall inside the same link, the whole link is returned.
func (m *Map) SourceRange(start, end int) (mdast.SourceRange, bool) {
	if start < 0 || end <= start || end > len(m.Rendered) {
		return mdast.SourceRange{}, false
	}

	idx := sort.Search(len(m.Entries), func(i int) bool {
		return m.Entries[i].RenderedPos >= start
	})
	if idx == len(m.Entries) || m.Entries[idx].RenderedPos != start {
		return mdast.SourceRange{}, false
	}
	first := m.Entries[idx]

	last, ok := m.EntryAt(end - 1)
	if !ok {
		return mdast.SourceRange{}, false
	}

	if first.InLink() && last.InLink() && first.SourceStart == last.SourceStart {
		return mdast.SourceRange{StartOffset: first.SourceStart, EndOffset: first.SourceEnd}, true
	}

	return mdast.SourceRange{StartOffset: first.SourceStart, EndOffset: last.SourceEnd}, true
}

type builder struct {
	rendered strings.Builder
	entries  []Entry
}

func (b *builder) add(text string, srcStart, srcEnd int, link LinkType, code bool) {
	b.entries = append(b.entries, Entry{
		SourceStart: srcStart,
		SourceEnd:   srcEnd,
		RenderedPos: b.rendered.Len(),
		LinkType:    link,
		Code:        code,
	})
	b.rendered.WriteString(text)
}

// addLinkText emits each rune of display mapped to the whole link span.
func (b *builder) addLinkText(display string, srcStart, srcEnd int, link LinkType) {
	for i := 0; i < len(display); {
		_, size := utf8.DecodeRuneInString(display[i:])
		b.add(display[i:i+size], srcStart, srcEnd, link, false)
		i += size
	}
}

// addCode emits each rune of a code span mapped to its own source bytes.
func (b *builder) addCode(content string, base int) {
	for i := 0; i < len(content); {
		_, size := utf8.DecodeRuneInString(content[i:])
		b.add(content[i:i+size], base+i, base+i+size, LinkNone, true)
		i += size
	}
}

func (b *builder) scan(text string, base int) {
	pos := 0
	for pos < len(text) {
		rest := text[pos:]
		char := text[pos]

		switch {
		case char == '\\' && len(rest) > 1 && isASCIIPunct(rest[1]):
			b.add(rest[1:2], base+pos, base+pos+2, LinkNone, false)
			pos += 2
			continue

		case char == '<':
			if tag := inlineHTML(rest); tag != "" {
				pos += len(tag)
				continue
			}

		case char == '[':
			if m := markdownLinkPattern.FindStringSubmatch(rest); m != nil {
				b.addLinkText(m[1], base+pos, base+pos+len(m[0]), LinkMarkdown)
				pos += len(m[0])
				continue
			}
			if m := wikiLinkPattern.FindStringSubmatch(rest); m != nil {
				display := m[2]
				if display == "" {
					display = m[1]
				}
				b.addLinkText(display, base+pos, base+pos+len(m[0]), LinkWiki)
				pos += len(m[0])
				continue
			}

		case strings.IndexByte(formattingChars, char) >= 0:
			if f, ok := DetectFormatting(text, pos); ok {
				contentBase := base + pos + f.StartOffset
				if f.Code {
					b.addCode(f.Content, contentBase)
				} else {
					b.scan(f.Content, contentBase)
				}
				pos += f.FullLength
				continue
			}
		}

		_, size := utf8.DecodeRuneInString(rest)
		b.add(rest[:size], base+pos, base+pos+size, LinkNone, false)
		pos += size
	}
}

func inlineHTML(rest string) string {
	if m := htmlCommentPattern.FindString(rest); m != "" {
		return m
	}
	return htmlTagPattern.FindString(rest)
}

func isASCIIPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}
