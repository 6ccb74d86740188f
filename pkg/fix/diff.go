package fix

import (
	"fmt"
	"strings"
)

// contextLines is the number of unchanged lines shown around a change.
const contextLines = 3

// DiffLineKind indicates the type of diff line.
type DiffLineKind int

const (
	// DiffLineContext is an unchanged context line.
	DiffLineContext DiffLineKind = iota

	// DiffLineAdd is a line added in the modified version.
	DiffLineAdd

	// DiffLineRemove is a line removed from the original version.
	DiffLineRemove
)

func (k DiffLineKind) prefix() string {
	switch k {
	case DiffLineAdd:
		return "+"
	case DiffLineRemove:
		return "-"
	default:
		return " "
	}
}

// DiffLine is one line of a hunk, without its prefix.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// DiffHunk is a run of changed lines with surrounding context.
// Start lines are 1-based.
type DiffHunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []DiffLine
}

// Diff is a line-level unified diff of a mutation.
type Diff struct {
	Path      string
	Hunks     []DiffHunk
	Additions int
	Deletions int
}

// GenerateDiff diffs original against modified. Returns nil when the two
// have the same lines.
func GenerateDiff(path, original, modified string) *Diff {
	orig := splitLines(original)
	mod := splitLines(modified)

	ops := diffLines(orig, mod)
	hunks := groupHunks(ops)
	if len(hunks) == 0 {
		return nil
	}

	d := &Diff{Path: path, Hunks: hunks}
	for _, h := range hunks {
		for _, l := range h.Lines {
			switch l.Kind {
			case DiffLineAdd:
				d.Additions++
			case DiffLineRemove:
				d.Deletions++
			case DiffLineContext:
			}
		}
	}
	return d
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String renders the diff in unified format with a/ and b/ file headers.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range d.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)
		for _, l := range h.Lines {
			b.WriteString(l.Kind.prefix())
			b.WriteString(l.Content)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// splitLines splits content into lines, dropping the empty string after a
// trailing newline.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// diffLines returns the edit script turning orig into mod. Common leading
// and trailing lines are peeled off before the quadratic LCS so that a
// small mutation in a large document stays cheap.
func diffLines(orig, mod []string) []DiffLine {
	head := 0
	for head < len(orig) && head < len(mod) && orig[head] == mod[head] {
		head++
	}
	tail := 0
	for tail < len(orig)-head && tail < len(mod)-head &&
		orig[len(orig)-1-tail] == mod[len(mod)-1-tail] {
		tail++
	}

	ops := make([]DiffLine, 0, len(orig)+len(mod))
	for _, l := range orig[:head] {
		ops = append(ops, DiffLine{Kind: DiffLineContext, Content: l})
	}
	ops = append(ops, lcsScript(orig[head:len(orig)-tail], mod[head:len(mod)-tail])...)
	for _, l := range orig[len(orig)-tail:] {
		ops = append(ops, DiffLine{Kind: DiffLineContext, Content: l})
	}
	return ops
}

// lcsScript diffs two line slices with a longest-common-subsequence table.
// Removals are emitted before additions within a change.
func lcsScript(a, b []string) []DiffLine {
	table := make([][]int, len(a)+1)
	for i := range table {
		table[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	var ops []DiffLine
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			ops = append(ops, DiffLine{Kind: DiffLineContext, Content: a[i]})
			i++
			j++
		case j == len(b) || (i < len(a) && table[i+1][j] >= table[i][j+1]):
			ops = append(ops, DiffLine{Kind: DiffLineRemove, Content: a[i]})
			i++
		default:
			ops = append(ops, DiffLine{Kind: DiffLineAdd, Content: b[j]})
			j++
		}
	}
	return ops
}

// groupHunks cuts an edit script into hunks, merging changes separated by
// at most twice the context size.
func groupHunks(ops []DiffLine) []DiffHunk {
	var hunks []DiffHunk

	origLine, modLine := 1, 1
	for idx := 0; idx < len(ops); {
		if ops[idx].Kind == DiffLineContext {
			origLine++
			modLine++
			idx++
			continue
		}

		start := max(idx-contextLines, 0)
		end := idx
		for end < len(ops) {
			if ops[end].Kind != DiffLineContext {
				end++
				continue
			}
			run := end
			for run < len(ops) && ops[run].Kind == DiffLineContext {
				run++
			}
			if run == len(ops) || run-end > 2*contextLines {
				end = min(end+contextLines, len(ops))
				break
			}
			end = run
		}

		back := idx - start
		h := DiffHunk{OriginalStart: origLine - back, ModifiedStart: modLine - back}
		for _, op := range ops[start:end] {
			h.Lines = append(h.Lines, op)
			if op.Kind != DiffLineAdd {
				h.OriginalCount++
			}
			if op.Kind != DiffLineRemove {
				h.ModifiedCount++
			}
		}
		hunks = append(hunks, h)

		for _, op := range ops[idx:end] {
			if op.Kind != DiffLineAdd {
				origLine++
			}
			if op.Kind != DiffLineRemove {
				modLine++
			}
		}
		idx = end
	}

	return hunks
}
