// Package protect locates the regions of a Markdown source that must never
// be wrapped in highlight markers: a leading frontmatter block and fenced
// code blocks.
package protect

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gomdmark/pkg/langdetect"
	"github.com/yaklabco/gomdmark/pkg/mdast"
)

// Kind identifies what a protected range covers.
type Kind string

const (
	// KindFrontmatter is a "---" delimited block at the start of the source.
	KindFrontmatter Kind = "frontmatter"

	// KindFence is a fenced code block, fences included.
	KindFence Kind = "fence"
)

// Range is a protected region of the source.
type Range struct {
	mdast.SourceRange

	Kind Kind

	// Marker is the fence character ('`' or '~'). Zero for frontmatter.
	Marker byte

	// FenceLen is the length of the opening fence run.
	FenceLen int

	// Info is the trimmed info string following the opening fence.
	Info string

	// Closed is false for a fence that runs to the end of the source.
	Closed bool

	// BodyRange covers the text between the delimiters.
	BodyRange mdast.SourceRange
}

// Find returns every protected range in source, frontmatter first and then
// fences in document order.
func Find(source string) []Range {
	lines := mdast.BuildLines(source)

	ranges := make([]Range, 0, 4)
	if fm, ok := frontmatter(source, lines); ok {
		ranges = append(ranges, fm)
	}
	return append(ranges, fences(source, lines)...)
}

// Overlapping returns the first protected range that shares a byte with r.
func Overlapping(source string, r mdast.SourceRange) (Range, bool) {
	for _, pr := range Find(source) {
		if r.Overlaps(pr.SourceRange) {
			return pr, true
		}
	}
	return Range{}, false
}

// Overlaps reports whether r touches any protected range of source.
func Overlaps(source string, r mdast.SourceRange) bool {
	_, ok := Overlapping(source, r)
	return ok
}

// Language returns the fence's language: the first word of the info string,
// or a detected language for unlabelled fences.
func (r Range) Language(source string) string {
	if r.Kind != KindFence {
		return ""
	}
	if fields := strings.Fields(r.Info); len(fields) > 0 {
		return fields[0]
	}
	return langdetect.DetectString(source[r.BodyRange.StartOffset:r.BodyRange.EndOffset])
}

// ValidateFrontmatter parses the body of a frontmatter range as YAML.
// It returns nil for other kinds.
func (r Range) ValidateFrontmatter(source string) error {
	if r.Kind != KindFrontmatter {
		return nil
	}
	var out map[string]any
	return yaml.Unmarshal([]byte(source[r.BodyRange.StartOffset:r.BodyRange.EndOffset]), &out)
}

func lineText(source string, info mdast.LineInfo) string {
	return source[info.StartOffset:info.TextEnd()]
}

// frontmatter only recognises a block whose first line is "---" and which
// is closed by "---" or "...". An unclosed block protects nothing.
func frontmatter(source string, lines []mdast.LineInfo) (Range, bool) {
	if strings.TrimSpace(lineText(source, lines[0])) != "---" {
		return Range{}, false
	}

	for _, info := range lines[1:] {
		trimmed := strings.TrimSpace(lineText(source, info))
		if trimmed != "---" && trimmed != "..." {
			continue
		}
		return Range{
			SourceRange: mdast.SourceRange{StartOffset: 0, EndOffset: info.EndOffset},
			Kind:        KindFrontmatter,
			Closed:      true,
			BodyRange:   mdast.SourceRange{StartOffset: lines[0].EndOffset, EndOffset: info.StartOffset},
		}, true
	}

	return Range{}, false
}

// fenceRun returns the marker and length of a fence run of at least three
// backticks or tildes at the start of s.
func fenceRun(s string) (byte, int) {
	if s == "" || (s[0] != '`' && s[0] != '~') {
		return 0, 0
	}
	n := 0
	for n < len(s) && s[n] == s[0] {
		n++
	}
	if n < 3 {
		return 0, 0
	}
	return s[0], n
}

func fences(source string, lines []mdast.LineInfo) []Range {
	var (
		ranges []Range
		open   *Range
	)

	for _, info := range lines {
		trimmed := strings.TrimLeft(lineText(source, info), " \t")
		marker, n := fenceRun(trimmed)

		if open == nil {
			if n == 0 {
				continue
			}
			open = &Range{
				SourceRange: mdast.SourceRange{StartOffset: info.StartOffset},
				Kind:        KindFence,
				Marker:      marker,
				FenceLen:    n,
				Info:        strings.TrimSpace(trimmed[n:]),
				BodyRange:   mdast.SourceRange{StartOffset: info.EndOffset},
			}
			continue
		}

		if n == 0 || marker != open.Marker || n < open.FenceLen || strings.TrimSpace(trimmed[n:]) != "" {
			continue
		}

		open.EndOffset = info.EndOffset
		open.BodyRange.EndOffset = info.StartOffset
		open.Closed = true
		ranges = append(ranges, *open)
		open = nil
	}

	if open != nil {
		open.EndOffset = len(source)
		open.BodyRange.EndOffset = len(source)
		ranges = append(ranges, *open)
	}

	return ranges
}
