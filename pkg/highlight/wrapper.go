package highlight

import (
	"regexp"

	"github.com/yaklabco/gomdmark/pkg/mdast"
	"github.com/yaklabco/gomdmark/pkg/posmap"
)

var wrapperPattern = regexp.MustCompile(`(?s)==(.*?)==`)

// FindWrapper returns the single highlight inside scope whose content
// renders to snippet. It fails when there is no such highlight or more
// than one.
func FindWrapper(source, snippet string, scope mdast.SourceRange) (mdast.SourceRange, bool) {
	want := posmap.Normalize(snippet)
	if want == "" || scope.StartOffset < 0 || scope.EndOffset > len(source) || scope.StartOffset >= scope.EndOffset {
		return mdast.SourceRange{}, false
	}

	segment := source[scope.StartOffset:scope.EndOffset]

	var (
		found mdast.SourceRange
		count int
	)
	for _, loc := range wrapperPattern.FindAllStringSubmatchIndex(segment, -1) {
		if posmap.Normalize(posmap.Render(segment[loc[2]:loc[3]])) != want {
			continue
		}
		count++
		found = mdast.SourceRange{
			StartOffset: scope.StartOffset + loc[0],
			EndOffset:   scope.StartOffset + loc[1],
		}
	}

	return found, count == 1
}

// ResolveWrapper searches scope first, when given, and then the whole
// source.
func ResolveWrapper(source, snippet string, scope *mdast.SourceRange) (mdast.SourceRange, bool) {
	if scope != nil {
		if r, ok := FindWrapper(source, snippet, *scope); ok {
			return r, true
		}
	}
	return FindWrapper(source, snippet, mdast.SourceRange{StartOffset: 0, EndOffset: len(source)})
}

// checkWrapper verifies that r is delimited by markers on both ends.
func checkWrapper(source string, r mdast.SourceRange) error {
	if !r.Within(len(source)) || r.Len() < 2*len(Marker) ||
		source[r.StartOffset:r.StartOffset+len(Marker)] != Marker ||
		source[r.EndOffset-len(Marker):r.EndOffset] != Marker {
		text := ""
		if r.Within(len(source)) {
			text = source[r.StartOffset:r.EndOffset]
		}
		return &WrapperError{Range: r, Text: text}
	}
	return nil
}
