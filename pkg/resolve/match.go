package resolve

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/yaklabco/gomdmark/pkg/mdast"
	"github.com/yaklabco/gomdmark/pkg/posmap"
)

// flexibleTimeout caps a single flexible-match regex evaluation.
const flexibleTimeout = 250 * time.Millisecond

// FindMatchWithLinks locates snippet in source without hints: verbatim,
// then in the rendered text, then first word through last word. Each step
// must find exactly one occurrence.
func FindMatchWithLinks(source, snippet string, opts Options) (mdast.SourceRange, Tier, bool) {
	if r, ok := uniqueIndex(source, snippet); ok {
		return r, TierDirect, true
	}

	m := posmap.Build(source)
	if rendered, ok := findRendered(m.Rendered, snippet); ok {
		if r, ok := m.SourceRange(rendered.StartOffset, rendered.EndOffset); ok {
			return r, TierRendered, true
		}
	}

	if r, ok := findFlexible(source, snippet, opts.ratio()); ok {
		return r, TierFlexible, true
	}

	return mdast.SourceRange{}, "", false
}

// uniqueIndex finds needle in s and fails if it occurs again after the
// first occurrence.
func uniqueIndex(s, needle string) (mdast.SourceRange, bool) {
	idx := strings.Index(s, needle)
	if idx < 0 {
		return mdast.SourceRange{}, false
	}
	end := idx + len(needle)
	if strings.Contains(s[end:], needle) {
		return mdast.SourceRange{}, false
	}
	return mdast.SourceRange{StartOffset: idx, EndOffset: end}, true
}

// findRendered searches rendered text for the trimmed snippet, exactly
// first and then with whitespace runs collapsed on both sides. The
// collapsed search counts overlapping occurrences.
func findRendered(text, snippet string) (mdast.SourceRange, bool) {
	trimmed := strings.TrimSpace(snippet)
	if r, ok := uniqueIndex(text, trimmed); ok {
		return r, true
	}

	hay := collapseSpaces(text)
	needle := collapseSpaces(trimmed).text
	if needle == "" {
		return mdast.SourceRange{}, false
	}

	found, count := -1, 0
	for pos := 0; pos <= len(hay.text); {
		idx := strings.Index(hay.text[pos:], needle)
		if idx < 0 {
			break
		}
		if count++; count > 1 {
			return mdast.SourceRange{}, false
		}
		found = pos + idx
		pos = found + 1
	}
	if count != 1 {
		return mdast.SourceRange{}, false
	}

	return hay.original(found, found+len(needle)), true
}

// collapsed is text with each whitespace run replaced by one space, plus
// the original span of every collapsed byte.
type collapsed struct {
	text  string
	start []int
	end   []int
}

func collapseSpaces(s string) collapsed {
	var b strings.Builder
	c := collapsed{start: make([]int, 0, len(s)), end: make([]int, 0, len(s))}

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			b.WriteString(s[i : i+size])
			for k := range size {
				c.start = append(c.start, i+k)
				c.end = append(c.end, i+size)
			}
			i += size
			continue
		}

		j := i + size
		for j < len(s) {
			r, size := utf8.DecodeRuneInString(s[j:])
			if !unicode.IsSpace(r) {
				break
			}
			j += size
		}
		b.WriteByte(' ')
		c.start = append(c.start, i)
		c.end = append(c.end, j)
		i = j
	}

	c.text = b.String()
	return c
}

// original maps the collapsed range [start, end) back to s.
func (c collapsed) original(start, end int) mdast.SourceRange {
	return mdast.SourceRange{StartOffset: c.start[start], EndOffset: c.end[end-1]}
}

// findFlexible matches from the first word of snippet to its last word,
// lazily and ignoring case. Matches longer than ratio times the snippet are
// discarded; exactly one must remain.
func findFlexible(source, snippet string, ratio int) (mdast.SourceRange, bool) {
	words := strings.Fields(snippet)
	if len(words) < 2 {
		return mdast.SourceRange{}, false
	}

	pattern := regexp2.Escape(words[0]) + `[\s\S]*?` + regexp2.Escape(words[len(words)-1])
	re, err := regexp2.Compile(pattern, regexp2.IgnoreCase)
	if err != nil {
		return mdast.SourceRange{}, false
	}
	re.MatchTimeout = flexibleTimeout

	limit := utf8.RuneCountInString(snippet) * ratio
	runes := runeOffsets(source)

	var (
		valid mdast.SourceRange
		count int
	)
	m, err := re.FindStringMatch(source)
	for m != nil && err == nil {
		if m.Length <= limit {
			if count++; count > 1 {
				return mdast.SourceRange{}, false
			}
			valid = mdast.SourceRange{StartOffset: runes[m.Index], EndOffset: runes[m.Index+m.Length]}
		}
		m, err = re.FindNextMatch(m)
	}
	if err != nil || count != 1 {
		return mdast.SourceRange{}, false
	}

	return valid, true
}

// runeOffsets returns the byte offset of every rune index in s, plus len(s)
// at the end. regexp2 reports match positions in runes.
func runeOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}
