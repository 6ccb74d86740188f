package posmap_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdmark/pkg/mdast"
	"github.com/yaklabco/gomdmark/pkg/posmap"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"plain", "hello world", "hello world"},
		{"strong", "Some **bold** text", "Some bold text"},
		{"emphasis star", "an *em* word", "an em word"},
		{"strong emphasis", "***both***", "both"},
		{"underscore emphasis", "an _em_ word", "an em word"},
		{"intraword underscore stays", "snake_case_name", "snake_case_name"},
		{"underscore before space stays", "a _ b_", "a _ b_"},
		{"strikethrough", "~~gone~~ here", "gone here"},
		{"highlight", "==marked== text", "marked text"},
		{"code span", "run `go test` now", "run go test now"},
		{"code span keeps stars", "`**x**`", "**x**"},
		{"empty code span", "``", "``"},
		{"markdown link", "[click here](http://x) ok", "click here ok"},
		{"wikilink", "see [[Page]]", "see Page"},
		{"wikilink alias", "see [[Page|the page]]", "see the page"},
		{"inline html", `<a id="x"></a>Title`, "Title"},
		{"html comment", "a<!-- note -->b", "ab"},
		{"escaped star", `\*not em\*`, "*not em*"},
		{"escaped bracket", `\[x](y)`, "[x](y)"},
		{"escaped closing delimiter", `**a\**b**`, "a**b"},
		{"unclosed strong", "**open", "**open"},
		{"nested link in strong", "**[a](b) c**", "a c"},
		{"list marker passes", "- item", "- item"},
		{"unicode", "한글 **강조** 끝", "한글 강조 끝"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, posmap.Render(testCase.source))
		})
	}
}

func TestBuild_EntriesPointIntoSource(t *testing.T) {
	t.Parallel()

	source := "Some **bold** and `code` text"
	m := posmap.Build(source)

	require.Len(t, m.Entries, len([]rune(m.Rendered)))
	for _, e := range m.Entries {
		require.GreaterOrEqual(t, e.SourceStart, 0)
		require.LessOrEqual(t, e.SourceEnd, len(source))

		if e.InLink() {
			continue
		}
		rendered := m.Rendered[e.RenderedPos:]
		assert.True(t, strings.HasPrefix(rendered, source[e.SourceStart:e.SourceEnd]),
			"entry %+v", e)
	}

	bold := strings.Index(m.Rendered, "bold")
	e, ok := m.EntryAt(bold)
	require.True(t, ok)
	assert.Equal(t, 7, e.SourceStart)

	code := strings.Index(m.Rendered, "code")
	e, ok = m.EntryAt(code)
	require.True(t, ok)
	assert.True(t, e.Code)
	assert.Equal(t, 19, e.SourceStart)
}

func TestBuildAt_ShiftsOffsets(t *testing.T) {
	t.Parallel()

	m := posmap.BuildAt("*x*", 10)
	require.Len(t, m.Entries, 1)
	assert.Equal(t, 11, m.Entries[0].SourceStart)
	assert.Equal(t, 12, m.Entries[0].SourceEnd)
}

func TestMap_SourceRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		rendered string
		want     mdast.SourceRange
	}{
		{
			name:     "across strong",
			source:   "Some **bold** text here.",
			rendered: "bold text",
			want:     mdast.SourceRange{StartOffset: 7, EndOffset: 18},
		},
		{
			name:     "link text collapses to whole link",
			source:   "[click here](http://x)",
			rendered: "click",
			want:     mdast.SourceRange{StartOffset: 0, EndOffset: 22},
		},
		{
			name:     "wikilink alias",
			source:   "go to [[Target|alias]] now",
			rendered: "alias",
			want:     mdast.SourceRange{StartOffset: 6, EndOffset: 22},
		},
		{
			name:     "ends inside link",
			source:   "see [the docs](u) now",
			rendered: "see the",
			want:     mdast.SourceRange{StartOffset: 0, EndOffset: 17},
		},
		{
			name:     "multibyte end",
			source:   "가나다 라마",
			rendered: "나다",
			want:     mdast.SourceRange{StartOffset: 3, EndOffset: 9},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			m := posmap.Build(testCase.source)
			start := strings.Index(m.Rendered, testCase.rendered)
			require.GreaterOrEqual(t, start, 0)

			got, ok := m.SourceRange(start, start+len(testCase.rendered))
			require.True(t, ok)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestMap_SourceRangeRejectsBadInput(t *testing.T) {
	t.Parallel()

	m := posmap.Build("abc")

	_, ok := m.SourceRange(2, 2)
	assert.False(t, ok)
	_, ok = m.SourceRange(-1, 2)
	assert.False(t, ok)
	_, ok = m.SourceRange(0, 4)
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", posmap.Normalize("  a\n\tb   c \n"))
	assert.Empty(t, posmap.Normalize(" \n "))
}

func TestClosingDelimiter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 8, posmap.ClosingDelimiter("**ab\\**c**", "**"))
	assert.Equal(t, -1, posmap.ClosingDelimiter("**abc", "**"))
	assert.Equal(t, -1, posmap.ClosingDelimiter("_a_b", "_"))
	assert.Equal(t, 2, posmap.ClosingDelimiter("_a_ b", "_"))
}
