// Package reporter writes the results of highlight operations and the
// read-only listings (marks, protected ranges, rendered text) in text, JSON,
// or diff form.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/gomdmark/pkg/session"
)

// Reporter formats and writes operation results.
type Reporter interface {
	// ReportOutcome writes the result of a highlight or unhighlight.
	ReportOutcome(ctx context.Context, outcome *session.Outcome) error

	// ReportMarks writes the highlights of a document.
	ReportMarks(ctx context.Context, listing *MarkListing) error

	// ReportProtected writes the protected ranges of a document.
	ReportProtected(ctx context.Context, listing *ProtectedListing) error

	// ReportRendered writes the rendered reading view of a document.
	ReportRendered(ctx context.Context, rendered *Rendered) error
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
