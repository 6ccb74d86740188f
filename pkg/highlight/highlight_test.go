package highlight_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdmark/pkg/highlight"
	"github.com/yaklabco/gomdmark/pkg/mdast"
	"github.com/yaklabco/gomdmark/pkg/protect"
	"github.com/yaklabco/gomdmark/pkg/resolve"
)

func span(start, end int) mdast.SourceRange {
	return mdast.SourceRange{StartOffset: start, EndOffset: end}
}

func TestInsert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		sel      highlight.Selection
		want     string
		wantTier resolve.Tier
	}{
		{
			name:     "selection across strong",
			source:   "Some **bold** text here.",
			sel:      highlight.Selection{Text: "bold text"},
			want:     "Some ==**bold** text== here.",
			wantTier: resolve.TierRendered,
		},
		{
			name:     "hints pick the second paragraph",
			source:   "first foo\n\nsecond foo",
			sel:      highlight.Selection{Text: "foo", Hints: resolve.SingleHint(span(11, 21))},
			want:     "first foo\n\nsecond ==foo==",
			wantTier: resolve.TierHintExact,
		},
		{
			name:     "two paragraphs",
			source:   "alpha one\n\nbeta two\n",
			sel:      highlight.Selection{Text: "one\n\nbeta"},
			want:     "alpha ==one==\n\n==beta== two\n",
			wantTier: resolve.TierDirect,
		},
		{
			name:     "two list items",
			source:   "- item one\n- item two\n",
			sel:      highlight.Selection{Text: "item one item two"},
			want:     "- ==item one==\n- ==item two==\n",
			wantTier: resolve.TierFlexible,
		},
		{
			name:     "literal underscore after the selection",
			source:   "x a_b_ y",
			sel:      highlight.Selection{Text: "a_b"},
			want:     "x ==a_b==_ y",
			wantTier: resolve.TierDirect,
		},
		{
			name:     "selection inside strong",
			source:   "Some **bold** text.",
			sel:      highlight.Selection{Text: "bold"},
			want:     "Some ==**bold**== text.",
			wantTier: resolve.TierDirect,
		},
		{
			name:     "text after a fence",
			source:   "```\nx\n```\n\nafter text\n",
			sel:      highlight.Selection{Text: "after text"},
			want:     "```\nx\n```\n\n==after text==\n",
			wantTier: resolve.TierDirect,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := highlight.Insert(testCase.source, testCase.sel, resolve.DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got.Content)
			assert.Equal(t, testCase.wantTier, got.Tier)
			assert.True(t, got.Changed)
			require.Len(t, got.Edits, 1)
		})
	}
}

func TestInsert_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		source  string
		text    string
		wantErr error
	}{
		{"empty selection", "text", "  \n ", highlight.ErrEmptySelection},
		{"ambiguous", "foo. foo.", "foo", highlight.ErrUnresolvableRange},
		{"absent", "some text", "missing", highlight.ErrUnresolvableRange},
		{"inside fence", "```\ncode here\n```\n", "code here", highlight.ErrProtectedOverlap},
		{"inside frontmatter", "---\ntitle: x\n---\nbody\n", "title: x", highlight.ErrProtectedOverlap},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := highlight.Insert(testCase.source, highlight.Selection{Text: testCase.text}, resolve.DefaultOptions())
			require.ErrorIs(t, err, testCase.wantErr)
			assert.Nil(t, got)
		})
	}
}

func TestInsert_OverlapErrorNamesProtectedRange(t *testing.T) {
	t.Parallel()

	_, err := highlight.Insert("```go\nfmt.Println()\n```\n", highlight.Selection{Text: "fmt.Println()"}, resolve.DefaultOptions())

	var overlap *highlight.OverlapError
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, protect.KindFence, overlap.Protected.Kind)
	assert.Equal(t, "go", overlap.Protected.Info)
}

func TestInsert_UnchangedLine(t *testing.T) {
	t.Parallel()

	source := "a\n\n---\n\nb"
	got, err := highlight.Insert(source, highlight.Selection{Text: "---"}, resolve.DefaultOptions())
	require.NoError(t, err)
	assert.False(t, got.Changed)
	assert.Equal(t, source, got.Content)
}

func TestRemove(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		source    string
		target    highlight.RemoveTarget
		want      string
		wantRange mdast.SourceRange
	}{
		{
			name:      "strong inside highlight",
			source:    "Some ==**bold** text== here.",
			target:    highlight.RemoveTarget{Text: "bold text"},
			want:      "Some **bold** text here.",
			wantRange: span(5, 22),
		},
		{
			name:      "scope picks one of two",
			source:    "==a== and ==a==",
			target:    highlight.RemoveTarget{Text: "a", Scope: &mdast.SourceRange{StartOffset: 10, EndOffset: 15}},
			want:      "==a== and a",
			wantRange: span(10, 15),
		},
		{
			name:      "wikilink alias",
			source:    "see ==[[Page|alias]]== now",
			target:    highlight.RemoveTarget{Text: "alias"},
			want:      "see [[Page|alias]] now",
			wantRange: span(4, 22),
		},
		{
			name:      "scope miss falls back to whole source",
			source:    "x\n\n==only==\n",
			target:    highlight.RemoveTarget{Text: " only ", Scope: &mdast.SourceRange{StartOffset: 0, EndOffset: 1}},
			want:      "x\n\nonly\n",
			wantRange: span(3, 11),
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := highlight.Remove(testCase.source, testCase.target)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got.Content)
			assert.Equal(t, testCase.wantRange, got.Range)
			assert.Len(t, got.Edits, 2)
			assert.True(t, got.Changed)
		})
	}
}

func TestRemove_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		source  string
		text    string
		wantErr error
	}{
		{"empty target", "==a==", " ", highlight.ErrNoRemoveTarget},
		{"duplicate", "==a== and ==a==", "a", highlight.ErrUnresolvableWrapper},
		{"absent", "==a==", "b", highlight.ErrUnresolvableWrapper},
		{"plain text", "just a", "a", highlight.ErrUnresolvableWrapper},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := highlight.Remove(testCase.source, highlight.RemoveTarget{Text: testCase.text})
			require.ErrorIs(t, err, testCase.wantErr)
			assert.Nil(t, got)
		})
	}
}

func TestInsertRemove_RoundTrip(t *testing.T) {
	t.Parallel()

	sources := []struct {
		source string
		text   string
	}{
		{"Some **bold** text here.", "bold text"},
		{"alpha one\n\nbeta gamma\n", "gamma"},
		{"- item one\n- item two\n", "item two"},
		{"see [[Page|alias]] now", "alias"},
	}

	for _, testCase := range sources {
		t.Run(testCase.text, func(t *testing.T) {
			t.Parallel()

			inserted, err := highlight.Insert(testCase.source, highlight.Selection{Text: testCase.text}, resolve.DefaultOptions())
			require.NoError(t, err)

			removed, err := highlight.Remove(inserted.Content, highlight.RemoveTarget{Text: testCase.text})
			require.NoError(t, err)
			assert.Equal(t, testCase.source, removed.Content)
		})
	}
}

func TestWrapperError(t *testing.T) {
	t.Parallel()

	err := &highlight.WrapperError{Range: span(0, 3), Text: "==a"}
	assert.True(t, errors.Is(err, highlight.ErrMalformedWrapper))
	assert.Contains(t, err.Error(), `"==a"`)
}

func TestFindWrapper(t *testing.T) {
	t.Parallel()

	source := "==one== two ==three=="
	r, ok := highlight.FindWrapper(source, "three", span(0, len(source)))
	require.True(t, ok)
	assert.Equal(t, span(12, 21), r)

	_, ok = highlight.FindWrapper(source, "three", span(0, 7))
	assert.False(t, ok)

	_, ok = highlight.FindWrapper(source, "three", span(5, 400))
	assert.False(t, ok)
}
