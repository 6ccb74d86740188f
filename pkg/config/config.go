// Package config defines core configuration types for gomdmark.
// These types are pure data structures; discovery and merging live in
// internal/configloader.
package config

// Flavor specifies the Markdown flavor used to render the reading view.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// IsValid returns true if the flavor is known.
func (f Flavor) IsValid() bool {
	switch f {
	case FlavorCommonMark, FlavorGFM:
		return true
	default:
		return false
	}
}

// OutputFormat specifies how operation results are printed.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatDiff OutputFormat = "diff"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff:
		return true
	default:
		return false
	}
}

// Default ancestor search depths and flexible match bound.
const (
	DefaultSelectionDepth = 5
	DefaultRemoveDepth    = 8
	DefaultMaxLengthRatio = 3
)

// SelectionConfig tunes how a selection is located in the reading view.
type SelectionConfig struct {
	// AncestorDepth bounds the search for a data-sourcepos ancestor.
	AncestorDepth int `yaml:"ancestor_depth"`
}

// RemoveConfig tunes how a clicked highlight is located.
type RemoveConfig struct {
	// AncestorDepth bounds the search for a data-sourcepos ancestor.
	AncestorDepth int `yaml:"ancestor_depth"`
}

// MatchingConfig tunes selection resolution.
type MatchingConfig struct {
	// MaxLengthRatio bounds a flexible match to this multiple of the
	// selection length.
	MaxLengthRatio int `yaml:"max_length_ratio"`

	// Hints enables structural hints from the reading view. Nil means true.
	Hints *bool `yaml:"hints,omitempty"`
}

// UseHints reports whether structural hints are enabled.
func (m MatchingConfig) UseHints() bool {
	return m.Hints == nil || *m.Hints
}

// BackupsConfig controls backups taken before each mutation.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Mode    string `yaml:"mode"` // "sidecar" or "none"
}

// Config is the root configuration structure for gomdmark.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor"`

	Selection SelectionConfig `yaml:"selection"`
	Remove    RemoveConfig    `yaml:"remove"`
	Matching  MatchingConfig  `yaml:"matching"`
	Backups   BackupsConfig   `yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// DryRun prints the mutation instead of writing it.
	DryRun bool `yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Flavor:    FlavorCommonMark,
		Selection: SelectionConfig{AncestorDepth: DefaultSelectionDepth},
		Remove:    RemoveConfig{AncestorDepth: DefaultRemoveDepth},
		Matching:  MatchingConfig{MaxLengthRatio: DefaultMaxLengthRatio},
		Backups: BackupsConfig{
			Enabled: false,
			Mode:    "sidecar",
		},
		Format: FormatText,
	}
}
