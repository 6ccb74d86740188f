package goldmark_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdmark/pkg/parser/goldmark"
)

func TestParser_New(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		flavor     string
		wantFlavor string
	}{
		{"commonmark", goldmark.FlavorCommonMark, goldmark.FlavorCommonMark},
		{"gfm", goldmark.FlavorGFM, goldmark.FlavorGFM},
		{"invalid defaults to commonmark", "invalid", goldmark.FlavorCommonMark},
		{"empty defaults to commonmark", "", goldmark.FlavorCommonMark},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.wantFlavor, goldmark.New(testCase.flavor).Flavor())
		})
	}
}

func TestParser_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		flavor string
		source string
		want   []string
		absent []string
	}{
		{
			name:   "paragraph with mark",
			source: "Some ==marked== text\n",
			want:   []string{`<p data-sourcepos="1:1-1:20">Some <mark>marked</mark> text</p>`},
		},
		{
			name:   "heading content position",
			source: "# Title\n",
			want:   []string{`<h1 data-sourcepos="1:3-1:7">Title</h1>`},
		},
		{
			name:   "second paragraph",
			source: "one\n\ntwo words\n",
			want:   []string{`<p data-sourcepos="3:1-3:9">two words</p>`},
		},
		{
			name:   "blockquote covers its paragraph",
			source: "> quoted\n",
			want:   []string{`<blockquote data-sourcepos="1:3-1:8">`, `<p data-sourcepos="1:3-1:8">quoted</p>`},
		},
		{
			name:   "list items",
			source: "- a\n- b\n",
			want:   []string{`<ul data-sourcepos="1:3-2:3">`, `<li data-sourcepos="2:3-2:3">b</li>`},
		},
		{
			name:   "mark around strong",
			source: "==**b** c==\n",
			want:   []string{"<mark><strong>b</strong> c</mark>"},
		},
		{
			name:   "triple equals is literal",
			source: "===x===\n",
			want:   []string{"===x==="},
			absent: []string{"<mark>"},
		},
		{
			name:   "spaced equals is literal",
			source: "a == b == c\n",
			want:   []string{"a == b == c"},
			absent: []string{"<mark>"},
		},
		{
			name:   "mark does not cross paragraphs",
			source: "==a\n\nb==\n",
			absent: []string{"<mark>"},
		},
		{
			name:   "wikilink alias",
			source: "see [[Page|alias]] now\n",
			want:   []string{`see <a href="Page" class="internal-link">alias</a> now`},
		},
		{
			name:   "wikilink target",
			source: "[[My Page]]\n",
			want:   []string{`<a href="My%20Page" class="internal-link">My Page</a>`},
		},
		{
			name:   "empty wikilink is not a link",
			source: "[[]]\n",
			absent: []string{"internal-link"},
		},
		{
			name:   "markdown link still works",
			source: "[text](http://x)\n",
			want:   []string{`<a href="http://x">text</a>`},
		},
		{
			name:   "strikethrough is literal in commonmark",
			source: "~~s~~\n",
			absent: []string{"<del>"},
		},
		{
			name:   "strikethrough in gfm",
			flavor: goldmark.FlavorGFM,
			source: "~~s~~\n",
			want:   []string{"<del>s</del>"},
		},
		{
			name:   "table in gfm",
			flavor: goldmark.FlavorGFM,
			source: "| a | b |\n|---|---|\n| 1 | 2 |\n",
			want:   []string{"<table"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			html, err := goldmark.New(testCase.flavor).Render(context.Background(), []byte(testCase.source))
			require.NoError(t, err)
			for _, want := range testCase.want {
				assert.Contains(t, html, want)
			}
			for _, absent := range testCase.absent {
				assert.NotContains(t, html, absent)
			}
		})
	}
}

func TestParser_Parse_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := goldmark.New(goldmark.FlavorCommonMark).Parse(ctx, []byte("text"))
	require.ErrorIs(t, err, context.Canceled)

	_, err = goldmark.New(goldmark.FlavorCommonMark).Render(ctx, []byte("text"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestParser_Parse_SourcePosAttribute(t *testing.T) {
	t.Parallel()

	root, err := goldmark.New(goldmark.FlavorCommonMark).Parse(context.Background(), []byte("alpha\n\nbeta\n"))
	require.NoError(t, err)

	second := root.FirstChild().NextSibling()
	require.NotNil(t, second)

	value, ok := second.AttributeString(goldmark.AttrSourcePos)
	require.True(t, ok)
	assert.Equal(t, []byte("3:1-3:4"), value)
}
