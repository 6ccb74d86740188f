package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gomdmark/pkg/mdast"
	"github.com/yaklabco/gomdmark/pkg/session"
)

// jsonVersion is the schema version of every JSON document.
const jsonVersion = "1.0.0"

// JSONRange is a half-open byte range with its source position.
type JSONRange struct {
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	SourcePos   string `json:"sourcepos"`
}

// JSONEdit is one edit of a mutation.
type JSONEdit struct {
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	NewText     string `json:"newText"`
}

// JSONOutcome is the JSON form of a highlight operation.
type JSONOutcome struct {
	Version   string     `json:"version"`
	Action    string     `json:"action"`
	Path      string     `json:"path"`
	Range     JSONRange  `json:"range"`
	Tier      string     `json:"tier,omitempty"`
	Changed   bool       `json:"changed"`
	Written   bool       `json:"written"`
	Edits     []JSONEdit `json:"edits"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
	Diff      string     `json:"diff,omitempty"`
}

// JSONMark is one highlight in a listing.
type JSONMark struct {
	Index   int        `json:"index"`
	Text    string     `json:"text"`
	Block   string     `json:"block,omitempty"`
	Wrapper *JSONRange `json:"wrapper,omitempty"`
}

// JSONMarks is the JSON form of a mark listing.
type JSONMarks struct {
	Version string     `json:"version"`
	Path    string     `json:"path"`
	Marks   []JSONMark `json:"marks"`
}

// JSONProtected is one protected range in a listing.
type JSONProtected struct {
	Kind      string `json:"kind"`
	Start     int    `json:"startOffset"`
	End       int    `json:"endOffset"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	Language  string `json:"language,omitempty"`
	Closed    bool   `json:"closed"`
	Problem   string `json:"problem,omitempty"`
}

// JSONProtectedRanges is the JSON form of a protected-range listing.
type JSONProtectedRanges struct {
	Version string          `json:"version"`
	Path    string          `json:"path"`
	Ranges  []JSONProtected `json:"ranges"`
}

// JSONMapEntry is one position map entry.
type JSONMapEntry struct {
	RenderedPos int    `json:"renderedPos"`
	SourceStart int    `json:"sourceStart"`
	SourceEnd   int    `json:"sourceEnd"`
	LinkType    string `json:"linkType,omitempty"`
	Code        bool   `json:"code,omitempty"`
}

// JSONRendered is the JSON form of a rendered view.
type JSONRendered struct {
	Version string         `json:"version"`
	Path    string         `json:"path"`
	Text    string         `json:"text"`
	HTML    string         `json:"html,omitempty"`
	Map     []JSONMapEntry `json:"map,omitempty"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// ReportOutcome implements Reporter.
func (r *JSONReporter) ReportOutcome(_ context.Context, outcome *session.Outcome) error {
	if outcome == nil || outcome.Result == nil {
		return nil
	}

	res := outcome.Result
	doc := mdast.NewDocument(outcome.Path, outcome.Original)

	output := &JSONOutcome{
		Version: jsonVersion,
		Action:  string(outcome.Action),
		Path:    displayPath(outcome.Path, r.opts.WorkingDir),
		Range:   jsonRange(doc, res.Range),
		Tier:    string(res.Tier),
		Changed: res.Changed,
		Written: outcome.Written,
		Edits:   make([]JSONEdit, 0, len(res.Edits)),
	}
	for _, edit := range res.Edits {
		output.Edits = append(output.Edits, JSONEdit{
			StartOffset: edit.StartOffset,
			EndOffset:   edit.EndOffset,
			NewText:     edit.NewText,
		})
	}
	if outcome.Diff != nil {
		output.Additions = outcome.Diff.Additions
		output.Deletions = outcome.Diff.Deletions
		output.Diff = outcome.Diff.String()
	}

	return r.encode(output)
}

// ReportMarks implements Reporter.
func (r *JSONReporter) ReportMarks(_ context.Context, listing *MarkListing) error {
	output := &JSONMarks{
		Version: jsonVersion,
		Path:    displayPath(listing.Path, r.opts.WorkingDir),
		Marks:   make([]JSONMark, 0, len(listing.Marks)),
	}
	for _, mark := range listing.Marks {
		entry := JSONMark{Index: mark.Index, Text: mark.Text}
		if mark.Block != nil {
			entry.Block = mark.Block.String()
		}
		if mark.Wrapper != nil {
			entry.Wrapper = &JSONRange{
				StartOffset: mark.Wrapper.StartOffset,
				EndOffset:   mark.Wrapper.EndOffset,
				SourcePos:   mark.WrapperPos.String(),
			}
		}
		output.Marks = append(output.Marks, entry)
	}

	return r.encode(output)
}

// ReportProtected implements Reporter.
func (r *JSONReporter) ReportProtected(_ context.Context, listing *ProtectedListing) error {
	output := &JSONProtectedRanges{
		Version: jsonVersion,
		Path:    displayPath(listing.Path, r.opts.WorkingDir),
		Ranges:  make([]JSONProtected, 0, len(listing.Ranges)),
	}
	for _, pr := range listing.Ranges {
		output.Ranges = append(output.Ranges, JSONProtected{
			Kind:      string(pr.Kind),
			Start:     pr.Range.StartOffset,
			End:       pr.Range.EndOffset,
			StartLine: pr.StartLine,
			EndLine:   pr.EndLine,
			Language:  pr.Language,
			Closed:    pr.Closed,
			Problem:   pr.Problem,
		})
	}

	return r.encode(output)
}

// ReportRendered implements Reporter.
func (r *JSONReporter) ReportRendered(_ context.Context, rendered *Rendered) error {
	output := &JSONRendered{
		Version: jsonVersion,
		Path:    displayPath(rendered.Path, r.opts.WorkingDir),
		Text:    rendered.Text,
		HTML:    rendered.HTML,
	}
	if rendered.Map != nil {
		output.Map = make([]JSONMapEntry, 0, len(rendered.Map.Entries))
		for _, entry := range rendered.Map.Entries {
			output.Map = append(output.Map, JSONMapEntry{
				RenderedPos: entry.RenderedPos,
				SourceStart: entry.SourceStart,
				SourceEnd:   entry.SourceEnd,
				LinkType:    string(entry.LinkType),
				Code:        entry.Code,
			})
		}
	}

	return r.encode(output)
}

func (r *JSONReporter) encode(v any) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(r.bw)
	encoder.SetEscapeHTML(false)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func jsonRange(doc *mdast.Document, rng mdast.SourceRange) JSONRange {
	return JSONRange{
		StartOffset: rng.StartOffset,
		EndOffset:   rng.EndOffset,
		SourcePos:   doc.Position(rng).String(),
	}
}
