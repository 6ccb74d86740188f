package pretty

import (
	"fmt"
	"strings"
)

// Mutation describes one highlight operation for the summary line.
type Mutation struct {
	// Verb is the past-tense action, e.g. "highlighted".
	Verb string

	Path string

	// SourcePos is the mutated range as "L:C-L:C".
	SourcePos string

	// Tier is the resolution strategy; empty for removals.
	Tier string

	Additions int
	Deletions int

	Changed bool
	Written bool
	DryRun  bool
}

// FormatMutation formats a mutation as one line, for example
// "highlighted notes.md:3:1-3:10 (direct)".
func (s *Styles) FormatMutation(m Mutation) string {
	if !m.Changed {
		return s.Dim.Render("No change to ") + s.FilePath.Render(m.Path) + "\n"
	}

	var parts []string
	verb := m.Verb
	if m.DryRun || !m.Written {
		verb = "would be " + verb
	}
	parts = append(parts, s.Success.Render(capitalize(verb)))
	parts = append(parts, s.FormatLocation(m.Path, m.SourcePos))
	if m.Tier != "" {
		parts = append(parts, s.Tier.Render("("+m.Tier+")"))
	}
	if m.Additions > 0 || m.Deletions > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("+%d -%d", m.Additions, m.Deletions)))
	}

	return strings.Join(parts, " ") + "\n"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
