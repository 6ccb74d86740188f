package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/gomdmark/internal/ui/pretty"
	"github.com/yaklabco/gomdmark/pkg/mdast"
	"github.com/yaklabco/gomdmark/pkg/session"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	table  *pretty.TableFormatter
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)
	return &TextReporter{
		opts:   opts,
		styles: styles,
		table:  pretty.NewTableFormatter(styles, opts.TermWidth),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// ReportOutcome implements Reporter.
func (r *TextReporter) ReportOutcome(_ context.Context, outcome *session.Outcome) (err error) {
	defer r.flush(&err)

	if outcome == nil || outcome.Result == nil {
		return nil
	}

	res := outcome.Result
	doc := mdast.NewDocument(outcome.Path, outcome.Original)
	pos := doc.Position(res.Range)

	mutation := pretty.Mutation{
		Verb:      pastTense(outcome.Action),
		Path:      displayPath(outcome.Path, r.opts.WorkingDir),
		SourcePos: pos.String(),
		Tier:      string(res.Tier),
		Changed:   res.Changed,
		Written:   outcome.Written,
		DryRun:    res.Changed && !outcome.Written,
	}
	if outcome.Diff != nil {
		mutation.Additions = outcome.Diff.Additions
		mutation.Deletions = outcome.Diff.Deletions
	}
	fmt.Fprint(r.bw, r.styles.FormatMutation(mutation))

	if r.opts.ShowContext && res.Changed {
		line := doc.LineContent(pos.StartLine)
		endCol := len(line) + 1
		if pos.IsSingleLine() {
			endCol = pos.EndColumn + 1
		}
		fmt.Fprint(r.bw, r.styles.FormatSourceContext(line, pos.StartColumn, endCol))
	}

	return nil
}

// ReportMarks implements Reporter.
func (r *TextReporter) ReportMarks(_ context.Context, listing *MarkListing) (err error) {
	defer r.flush(&err)

	path := displayPath(listing.Path, r.opts.WorkingDir)
	if len(listing.Marks) == 0 {
		fmt.Fprintln(r.bw, r.styles.Dim.Render("No highlights in ")+r.styles.FilePath.Render(path))
		return nil
	}

	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(listing.Marks), "mark"))

	columns := []pretty.Column{
		{Header: "#"},
		{Header: "BLOCK"},
		{Header: "WRAPPER"},
		{Header: "TEXT", Flex: true},
	}
	rows := make([][]string, 0, len(listing.Marks))
	unresolved := 0
	for _, mark := range listing.Marks {
		wrapper := "?"
		if mark.WrapperPos != nil {
			wrapper = mark.WrapperPos.String()
		} else {
			unresolved++
		}
		rows = append(rows, []string{
			strconv.Itoa(mark.Index),
			positionOrDash(mark.Block),
			wrapper,
			r.styles.FormatHighlighted(oneLine(mark.Text)),
		})
	}
	fmt.Fprint(r.bw, r.table.Format(columns, rows))

	if unresolved > 0 {
		fmt.Fprint(r.bw, r.table.FormatLegend(fmt.Sprintf("? = %d %s not removable by text",
			unresolved, pretty.Plural(unresolved, "mark"))))
	}

	return nil
}

// ReportProtected implements Reporter.
func (r *TextReporter) ReportProtected(_ context.Context, listing *ProtectedListing) (err error) {
	defer r.flush(&err)

	path := displayPath(listing.Path, r.opts.WorkingDir)
	if len(listing.Ranges) == 0 {
		fmt.Fprintln(r.bw, r.styles.Dim.Render("No protected ranges in ")+r.styles.FilePath.Render(path))
		return nil
	}

	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(listing.Ranges), "protected range"))

	columns := []pretty.Column{
		{Header: "KIND"},
		{Header: "LINES"},
		{Header: "LANGUAGE"},
		{Header: "STATUS", Flex: true},
	}
	rows := make([][]string, 0, len(listing.Ranges))
	for _, pr := range listing.Ranges {
		lines := strconv.Itoa(pr.StartLine)
		if pr.EndLine != pr.StartLine {
			lines += "-" + strconv.Itoa(pr.EndLine)
		}
		rows = append(rows, []string{
			string(pr.Kind),
			lines,
			orDash(pr.Language),
			r.protectedStatus(pr),
		})
	}
	fmt.Fprint(r.bw, r.table.Format(columns, rows))

	return nil
}

func (r *TextReporter) protectedStatus(pr ProtectedEntry) string {
	switch {
	case pr.Problem != "":
		return r.styles.Warning.Render("invalid yaml: " + oneLine(pr.Problem))
	case !pr.Closed:
		return r.styles.Warning.Render("unclosed")
	default:
		return r.styles.Success.Render("ok")
	}
}

// ReportRendered implements Reporter.
func (r *TextReporter) ReportRendered(_ context.Context, rendered *Rendered) (err error) {
	defer r.flush(&err)

	fmt.Fprint(r.bw, rendered.Text)
	if !strings.HasSuffix(rendered.Text, "\n") {
		fmt.Fprintln(r.bw)
	}

	if rendered.HTML != "" {
		fmt.Fprintln(r.bw)
		fmt.Fprint(r.bw, rendered.HTML)
	}

	if rendered.Map != nil && len(rendered.Map.Entries) > 0 {
		fmt.Fprintln(r.bw)
		columns := []pretty.Column{
			{Header: "POS"},
			{Header: "CHAR"},
			{Header: "SOURCE"},
			{Header: "LINK"},
			{Header: "CODE"},
		}
		rows := make([][]string, 0, len(rendered.Map.Entries))
		for _, entry := range rendered.Map.Entries {
			code := ""
			if entry.Code {
				code = "yes"
			}
			rows = append(rows, []string{
				strconv.Itoa(entry.RenderedPos),
				entryChar(rendered.Map.Rendered, entry.RenderedPos),
				fmt.Sprintf("[%d,%d)", entry.SourceStart, entry.SourceEnd),
				orDash(string(entry.LinkType)),
				orDash(code),
			})
		}
		fmt.Fprint(r.bw, r.table.Format(columns, rows))
	}

	return nil
}

func (r *TextReporter) flush(err *error) {
	if flushErr := r.bw.Flush(); *err == nil {
		*err = flushErr
	}
}

func pastTense(action session.Action) string {
	switch action {
	case session.ActionHighlight:
		return "highlighted"
	case session.ActionUnhighlight:
		return "unhighlighted"
	default:
		return string(action)
	}
}

func positionOrDash(pos *mdast.SourcePosition) string {
	if pos == nil {
		return "-"
	}
	return pos.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// oneLine collapses newlines so a value fits a table cell.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// entryChar returns the rendered rune at pos, quoted.
func entryChar(rendered string, pos int) string {
	if pos < 0 || pos >= len(rendered) {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(rendered[pos:])
	return strconv.QuoteRune(r)
}
