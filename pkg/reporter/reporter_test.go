package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdmark/pkg/fix"
	"github.com/yaklabco/gomdmark/pkg/highlight"
	"github.com/yaklabco/gomdmark/pkg/parser/goldmark"
	"github.com/yaklabco/gomdmark/pkg/posmap"
	"github.com/yaklabco/gomdmark/pkg/reporter"
	"github.com/yaklabco/gomdmark/pkg/resolve"
	"github.com/yaklabco/gomdmark/pkg/session"
	"github.com/yaklabco/gomdmark/pkg/view"
)

const boldSource = "Some **bold** text here.\n"

func highlightOutcome(t *testing.T, written bool) *session.Outcome {
	t.Helper()

	res, err := highlight.Insert(boldSource, highlight.Selection{Text: "bold text"}, resolve.DefaultOptions())
	require.NoError(t, err)

	return &session.Outcome{
		Action:   session.ActionHighlight,
		Path:     "notes.md",
		Original: boldSource,
		Result:   res,
		Written:  written,
		Diff:     fix.GenerateDiff("notes.md", boldSource, res.Content),
	}
}

func newReporter(t *testing.T, format reporter.Format) (reporter.Reporter, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	opts := reporter.DefaultOptions()
	opts.Writer = &buf
	opts.Format = format
	opts.Color = "never"

	rep, err := reporter.New(opts)
	require.NoError(t, err)
	return rep, &buf
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "diff", input: "diff", want: reporter.FormatDiff},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(testCase.input)
			if testCase.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  reporter.Format
		want    any
		wantErr bool
	}{
		{format: reporter.FormatText, want: &reporter.TextReporter{}},
		{format: reporter.FormatJSON, want: &reporter.JSONReporter{}},
		{format: reporter.FormatDiff, want: &reporter.DiffReporter{}},
		{format: "", want: &reporter.TextReporter{}},
		{format: "table", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(string(testCase.format), func(t *testing.T) {
			t.Parallel()

			rep, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: testCase.format})
			if testCase.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, testCase.want, rep)
		})
	}
}

func TestTextReporter_ReportOutcome(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatText)
	require.NoError(t, rep.ReportOutcome(context.Background(), highlightOutcome(t, true)))

	want := "Highlighted notes.md:1:6-1:18 (rendered) +1 -1\n" +
		"    Some **bold** text here.\n" +
		"         ^^^^^^^^^^^^^\n"
	assert.Equal(t, want, buf.String())
}

func TestTextReporter_ReportOutcome_DryRun(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatText)
	require.NoError(t, rep.ReportOutcome(context.Background(), highlightOutcome(t, false)))

	assert.True(t, strings.HasPrefix(buf.String(), "Would be highlighted notes.md:1:6-1:18"), buf.String())
}

func TestTextReporter_ReportOutcome_Unchanged(t *testing.T) {
	t.Parallel()

	source := "---\n"
	res, err := highlight.Insert(source, highlight.Selection{Text: "---"}, resolve.DefaultOptions())
	require.NoError(t, err)
	require.False(t, res.Changed)

	rep, buf := newReporter(t, reporter.FormatText)
	require.NoError(t, rep.ReportOutcome(context.Background(), &session.Outcome{
		Action: session.ActionHighlight, Path: "rule.md", Original: source, Result: res,
	}))

	assert.Equal(t, "No change to rule.md\n", buf.String())
}

func TestDiffReporter_ReportOutcome(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatDiff)
	require.NoError(t, rep.ReportOutcome(context.Background(), highlightOutcome(t, false)))

	want := "diff --git a/notes.md b/notes.md\n" +
		"--- a/notes.md\n" +
		"+++ b/notes.md\n" +
		"@@ -1,1 +1,1 @@\n" +
		"-Some **bold** text here.\n" +
		"+Some ==**bold** text== here.\n" +
		"1 file changed, 1 insertion(+), 1 deletion(-)\n"
	assert.Equal(t, want, buf.String())
}

func TestDiffReporter_NoChanges(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatDiff)
	require.NoError(t, rep.ReportOutcome(context.Background(), &session.Outcome{Path: "a.md"}))

	assert.Empty(t, buf.String())
}

func TestJSONReporter_ReportOutcome(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatJSON)
	require.NoError(t, rep.ReportOutcome(context.Background(), highlightOutcome(t, true)))

	var got reporter.JSONOutcome
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "highlight", got.Action)
	assert.Equal(t, "notes.md", got.Path)
	assert.Equal(t, reporter.JSONRange{StartOffset: 5, EndOffset: 18, SourcePos: "1:6-1:18"}, got.Range)
	assert.Equal(t, "rendered", got.Tier)
	assert.True(t, got.Changed)
	assert.True(t, got.Written)
	require.Len(t, got.Edits, 1)
	assert.Equal(t, "==**bold** text==", got.Edits[0].NewText)
	assert.Contains(t, got.Diff, "+Some ==**bold** text== here.")
}

func renderView(t *testing.T, source string) *view.View {
	t.Helper()

	html, err := goldmark.New(goldmark.FlavorCommonMark).Render(context.Background(), []byte(source))
	require.NoError(t, err)
	v, err := view.New(html)
	require.NoError(t, err)
	return v
}

func TestNewMarkListing(t *testing.T) {
	t.Parallel()

	source := "Intro ==one== and ==two==.\n\n- ==three==\n"
	listing := reporter.NewMarkListing("marks.md", source, renderView(t, source), view.DefaultRemoveDepth)

	require.Len(t, listing.Marks, 3)

	wantText := []string{"one", "two", "three"}
	wantWrapper := []string{"1:7-1:13", "1:19-1:25", "3:3-3:11"}
	for i, mark := range listing.Marks {
		assert.Equal(t, i, mark.Index)
		assert.Equal(t, wantText[i], mark.Text)
		require.NotNil(t, mark.Block, "mark %d", i)
		require.NotNil(t, mark.WrapperPos, "mark %d", i)
		assert.Equal(t, wantWrapper[i], mark.WrapperPos.String())
		assert.Equal(t, "=="+wantText[i]+"==", source[mark.Wrapper.StartOffset:mark.Wrapper.EndOffset])
	}
	assert.Equal(t, "1:1-1:26", listing.Marks[0].Block.String())
}

func TestNewMarkListing_AmbiguousWrapper(t *testing.T) {
	t.Parallel()

	source := "==same== and ==same==\n"
	listing := reporter.NewMarkListing("dup.md", source, renderView(t, source), view.DefaultRemoveDepth)

	require.Len(t, listing.Marks, 2)
	assert.Nil(t, listing.Marks[0].Wrapper)
	assert.Nil(t, listing.Marks[1].Wrapper)
}

func TestTextReporter_ReportMarks(t *testing.T) {
	t.Parallel()

	source := "Intro ==one== and ==one==.\n"
	listing := reporter.NewMarkListing("marks.md", source, renderView(t, source), view.DefaultRemoveDepth)

	rep, buf := newReporter(t, reporter.FormatText)
	require.NoError(t, rep.ReportMarks(context.Background(), listing))

	out := buf.String()
	assert.Contains(t, out, "marks.md (2 marks)")
	assert.Contains(t, out, "WRAPPER")
	assert.Contains(t, out, "? = 2 marks not removable by text")
}

func TestTextReporter_ReportMarks_Empty(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatText)
	require.NoError(t, rep.ReportMarks(context.Background(), &reporter.MarkListing{Path: "plain.md"}))

	assert.Equal(t, "No highlights in plain.md\n", buf.String())
}

func TestJSONReporter_ReportMarks(t *testing.T) {
	t.Parallel()

	source := "a ==b== c\n"
	listing := reporter.NewMarkListing("m.md", source, renderView(t, source), view.DefaultRemoveDepth)

	rep, buf := newReporter(t, reporter.FormatJSON)
	require.NoError(t, rep.ReportMarks(context.Background(), listing))

	var got reporter.JSONMarks
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Marks, 1)
	assert.Equal(t, "b", got.Marks[0].Text)
	assert.Equal(t, "1:1-1:9", got.Marks[0].Block)
	require.NotNil(t, got.Marks[0].Wrapper)
	assert.Equal(t, reporter.JSONRange{StartOffset: 2, EndOffset: 7, SourcePos: "1:3-1:7"}, *got.Marks[0].Wrapper)
}

const protectedSource = "---\ntitle: x\n---\n\n```go\nfmt.Println()\n```\n\n~~~\nstill code\n"

func TestNewProtectedListing(t *testing.T) {
	t.Parallel()

	listing := reporter.NewProtectedListing("p.md", protectedSource)
	require.Len(t, listing.Ranges, 3)

	fm := listing.Ranges[0]
	assert.Equal(t, "frontmatter", string(fm.Kind))
	assert.Equal(t, 1, fm.StartLine)
	assert.Equal(t, 3, fm.EndLine)
	assert.True(t, fm.Closed)
	assert.Empty(t, fm.Problem)

	fence := listing.Ranges[1]
	assert.Equal(t, "fence", string(fence.Kind))
	assert.Equal(t, 5, fence.StartLine)
	assert.Equal(t, 7, fence.EndLine)
	assert.Equal(t, "go", fence.Language)
	assert.True(t, fence.Closed)

	open := listing.Ranges[2]
	assert.Equal(t, 9, open.StartLine)
	assert.False(t, open.Closed)
}

func TestNewProtectedListing_InvalidFrontmatter(t *testing.T) {
	t.Parallel()

	listing := reporter.NewProtectedListing("p.md", "---\nkey: [unclosed\n---\nbody\n")
	require.Len(t, listing.Ranges, 1)
	assert.NotEmpty(t, listing.Ranges[0].Problem)
}

func TestTextReporter_ReportProtected(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatText)
	require.NoError(t, rep.ReportProtected(context.Background(), reporter.NewProtectedListing("p.md", protectedSource)))

	out := buf.String()
	assert.Contains(t, out, "p.md (3 protected ranges)")
	assert.Contains(t, out, "frontmatter")
	assert.Contains(t, out, "1-3")
	assert.Contains(t, out, "5-7")
	assert.Contains(t, out, "unclosed")
}

func TestDiffReporter_ReportProtectedFallsBackToText(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatDiff)
	require.NoError(t, rep.ReportProtected(context.Background(), &reporter.ProtectedListing{Path: "a.md"}))

	assert.Equal(t, "No protected ranges in a.md\n", buf.String())
}

func TestJSONReporter_ReportProtected(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatJSON)
	require.NoError(t, rep.ReportProtected(context.Background(), reporter.NewProtectedListing("p.md", protectedSource)))

	var got reporter.JSONProtectedRanges
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Ranges, 3)
	assert.Equal(t, 0, got.Ranges[0].Start)
	assert.Equal(t, 17, got.Ranges[0].End)
	assert.Equal(t, "go", got.Ranges[1].Language)
}

func TestReportRendered(t *testing.T) {
	t.Parallel()

	source := "[[Target|shown]] and `code`"
	rendered := &reporter.Rendered{
		Path: "r.md",
		Text: posmap.Render(source),
		HTML: "<p>shown</p>\n",
		Map:  posmap.Build(source),
	}

	rep, buf := newReporter(t, reporter.FormatText)
	require.NoError(t, rep.ReportRendered(context.Background(), rendered))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "shown and code\n"), out)
	assert.Contains(t, out, "<p>shown</p>")
	assert.Contains(t, out, "[0,16)")
	assert.Contains(t, out, "wiki")

	rep, buf = newReporter(t, reporter.FormatJSON)
	require.NoError(t, rep.ReportRendered(context.Background(), rendered))

	var got reporter.JSONRendered
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "shown and code", got.Text)
	assert.Len(t, got.Map, len("shown and code"))
	assert.Equal(t, "wiki", got.Map[0].LinkType)
	assert.True(t, got.Map[len(got.Map)-1].Code)
}
