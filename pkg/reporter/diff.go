package reporter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/gomdmark/internal/ui/pretty"
	"github.com/yaklabco/gomdmark/pkg/fix"
	"github.com/yaklabco/gomdmark/pkg/session"
)

// DiffReporter formats mutations as unified diffs in git style. Listings
// have no diff form and are written as text.
type DiffReporter struct {
	*TextReporter
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	return &DiffReporter{TextReporter: NewTextReporter(opts)}
}

// ReportOutcome implements Reporter. Nothing is written when the outcome
// changed nothing.
func (r *DiffReporter) ReportOutcome(_ context.Context, outcome *session.Outcome) (err error) {
	defer r.flush(&err)

	if outcome == nil || !outcome.Diff.HasChanges() {
		return nil
	}

	r.writeDiff(outcome.Diff)
	r.writeSummary(outcome.Diff.Additions, outcome.Diff.Deletions)
	return nil
}

// writeDiff outputs a single file's diff with formatting.
func (r *DiffReporter) writeDiff(diff *fix.Diff) {
	path := displayPath(diff.Path, r.opts.WorkingDir)

	header := fmt.Sprintf("diff --git a/%s b/%s", path, path)
	fmt.Fprintln(r.bw, r.styles.DiffHeader.Render(header))
	fmt.Fprintln(r.bw, r.styles.DiffRemove.Render("--- a/"+path))
	fmt.Fprintln(r.bw, r.styles.DiffAdd.Render("+++ b/"+path))

	// The first two lines of String() are its own file headers.
	lines := strings.Split(strings.TrimSuffix(diff.String(), "\n"), "\n")
	for _, line := range lines[2:] {
		r.writeDiffLine(line)
	}
}

// writeDiffLine formats a single diff line with color.
func (r *DiffReporter) writeDiffLine(line string) {
	var styled string

	switch {
	case strings.HasPrefix(line, "@@"):
		styled = r.styles.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+"):
		styled = r.styles.DiffAdd.Render(line)
	case strings.HasPrefix(line, "-"):
		styled = r.styles.DiffRemove.Render(line)
	default:
		styled = r.styles.DiffContext.Render(line)
	}

	fmt.Fprintln(r.bw, styled)
}

// writeSummary writes a summary line at the end.
func (r *DiffReporter) writeSummary(additions, deletions int) {
	parts := []string{"1 file changed"}

	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(
			fmt.Sprintf("%d %s(+)", additions, pretty.Plural(additions, "insertion"))))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(
			fmt.Sprintf("%d %s(-)", deletions, pretty.Plural(deletions, "deletion"))))
	}

	fmt.Fprintln(r.bw, strings.Join(parts, ", "))
}

// displayPath makes path relative to workDir. Paths that would need more
// than two parent traversals are shown by base name.
func displayPath(path, workDir string) string {
	if workDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return filepath.Base(path)
	}
	if strings.Count(rel, "..") > 2 {
		return filepath.Base(path)
	}
	return rel
}
