// Package resolve maps a rendered-text selection back to a unique byte range
// in the Markdown source.
//
// Resolution is tiered. Structural hints (the source ranges of the blocks
// where a selection starts and ends) are tried first because they cannot
// match identical text elsewhere in the document. Without usable hints the
// whole document is searched, and any ambiguity is reported as a miss
// rather than resolved arbitrarily.
package resolve

import (
	"strings"

	"github.com/yaklabco/gomdmark/pkg/mdast"
	"github.com/yaklabco/gomdmark/pkg/posmap"
)

// Tier names the resolution strategy that produced a range.
type Tier string

const (
	// TierHintExact refined the hinted blocks to an exact rendered match.
	TierHintExact Tier = "hint-exact"

	// TierHintRelaxed accepted the hinted blocks as they are.
	TierHintRelaxed Tier = "hint-relaxed"

	// TierDirect found the snippet verbatim, exactly once, in the source.
	TierDirect Tier = "direct"

	// TierRendered found the snippet once in the rendered text.
	TierRendered Tier = "rendered"

	// TierFlexible matched first word through last word, once.
	TierFlexible Tier = "flexible"
)

// DefaultMaxLengthRatio bounds a flexible match to this multiple of the
// snippet length.
const DefaultMaxLengthRatio = 3

// Options tunes resolution.
type Options struct {
	// MaxLengthRatio bounds flexible matches. Zero means DefaultMaxLengthRatio.
	MaxLengthRatio int

	// UseHints enables the hint tiers.
	UseHints bool
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{MaxLengthRatio: DefaultMaxLengthRatio, UseHints: true}
}

func (o Options) ratio() int {
	if o.MaxLengthRatio <= 0 {
		return DefaultMaxLengthRatio
	}
	return o.MaxLengthRatio
}

// Hints are the source ranges of the blocks containing the two ends of a
// selection. Either may be nil when the view carried no position metadata.
type Hints struct {
	Anchor *mdast.SourceRange
	Focus  *mdast.SourceRange
}

// SingleHint returns hints where both ends lie in the same block.
func SingleHint(r mdast.SourceRange) Hints {
	return Hints{Anchor: &r, Focus: &r}
}

// Bounds returns the smallest range covering both hinted blocks. It fails
// when either hint is missing or the result does not fit a source of
// length n.
func (h Hints) Bounds(n int) (mdast.SourceRange, bool) {
	if h.Anchor == nil || h.Focus == nil {
		return mdast.SourceRange{}, false
	}
	bounds := h.Anchor.Union(*h.Focus)
	if !bounds.Within(n) || bounds.IsEmpty() {
		return mdast.SourceRange{}, false
	}
	return bounds, true
}

// Result is a resolved selection.
type Result struct {
	// Range is the range to wrap, after delimiter adjustment.
	Range mdast.SourceRange

	// Matched is the range the tier produced, before adjustment.
	Matched mdast.SourceRange

	Tier Tier
}

// Selection resolves snippet to the source range that should be wrapped in
// a highlight. The range is widened to take in emphasis delimiters the
// selection starts or ends inside of.
func Selection(source, snippet string, hints Hints, opts Options) (Result, bool) {
	if opts.UseHints {
		if bounds, ok := hints.Bounds(len(source)); ok {
			if r, ok := refineWithinBounds(source, snippet, bounds, opts); ok {
				return finish(source, r, TierHintExact), true
			}
			if couldMapTo(source[bounds.StartOffset:bounds.EndOffset], snippet) {
				return finish(source, bounds, TierHintRelaxed), true
			}
		}
	}

	r, tier, ok := FindMatchWithLinks(source, snippet, opts)
	if !ok {
		return Result{}, false
	}
	return finish(source, r, tier), true
}

func finish(source string, r mdast.SourceRange, tier Tier) Result {
	adjusted := AdjustTrailingDelimiter(source, AdjustLeadingDelimiter(source, r))
	return Result{Range: adjusted, Matched: r, Tier: tier}
}

// refineWithinBounds searches only inside bounds and accepts a candidate
// whose rendered text equals the snippet, either as found or once widened
// over surrounding delimiters.
func refineWithinBounds(source, snippet string, bounds mdast.SourceRange, opts Options) (mdast.SourceRange, bool) {
	if bounds.StartOffset < 0 || bounds.EndOffset > len(source) || bounds.StartOffset >= bounds.EndOffset {
		return mdast.SourceRange{}, false
	}

	fragment := source[bounds.StartOffset:bounds.EndOffset]
	local, _, ok := FindMatchWithLinks(fragment, snippet, opts)
	if !ok {
		return mdast.SourceRange{}, false
	}

	candidate := mdast.SourceRange{
		StartOffset: bounds.StartOffset + local.StartOffset,
		EndOffset:   bounds.StartOffset + local.EndOffset,
	}
	if rendersAs(source[candidate.StartOffset:candidate.EndOffset], snippet) {
		return candidate, true
	}

	widened := AdjustTrailingDelimiter(source, AdjustLeadingDelimiter(source, candidate))
	if widened != candidate && rendersAs(source[widened.StartOffset:widened.EndOffset], snippet) {
		return widened, true
	}

	return mdast.SourceRange{}, false
}

// rendersAs reports whether text renders to exactly the snippet, modulo
// whitespace.
func rendersAs(text, snippet string) bool {
	want := posmap.Normalize(snippet)
	if want == "" {
		return false
	}
	return posmap.Normalize(posmap.Render(text)) == want
}

// couldMapTo reports whether text renders to the snippet, a superset of it,
// or a subset of it. A superset holding the snippet more than once is
// ambiguous and does not count.
func couldMapTo(text, snippet string) bool {
	want := posmap.Normalize(snippet)
	if want == "" {
		return false
	}
	got := posmap.Normalize(posmap.Render(text))
	if got == "" {
		return false
	}
	switch {
	case got == want:
		return true
	case strings.Contains(got, want):
		return occurrences(got, want) == 1
	default:
		return strings.Contains(want, got)
	}
}

// occurrences counts matches of needle in s, overlapping ones included.
func occurrences(s, needle string) int {
	count := 0
	for idx := strings.Index(s, needle); idx >= 0; {
		count++
		next := strings.Index(s[idx+1:], needle)
		if next < 0 {
			break
		}
		idx += next + 1
	}
	return count
}
