package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting uncommented. Otherwise only the flavor is
	// set and the rest is shown commented out.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON(NewConfig())
	}
	if opts.Full {
		return generateFullTemplate(), nil
	}
	return generateMinimalTemplate(), nil
}

func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Markdown flavor of the reading view: commonmark or gfm
flavor: commonmark

# How far up from a selection to look for a block position
# selection:
#   ancestor_depth: 5

# How far up from a clicked highlight to look for a block position
# remove:
#   ancestor_depth: 8

# matching:
#   # Reject first-word-to-last-word matches longer than this many
#   # times the selection
#   max_length_ratio: 3
#   # Use block positions from the reading view to disambiguate
#   hints: true

# Keep a copy of the document as it was before the last change
# backups:
#   enabled: false
#   mode: sidecar
`)

	return buf.Bytes()
}

func generateFullTemplate() []byte {
	defaults := NewConfig()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `# gomdmark configuration - Full Template
# See: https://github.com/yaklabco/gomdmark
#
# Every setting is listed with its default value.

# Markdown flavor of the reading view: commonmark or gfm
flavor: %s

# How far up from a selection to look for a block position
selection:
  ancestor_depth: %d

# How far up from a clicked highlight to look for a block position
remove:
  ancestor_depth: %d

matching:
  # Reject first-word-to-last-word matches longer than this many
  # times the selection
  max_length_ratio: %d
  # Use block positions from the reading view to disambiguate
  hints: %t

# Keep a copy of the document as it was before the last change
backups:
  enabled: %t
  # sidecar writes <file>.gomdmark.bak next to the document; none disables
  mode: %s
`,
		defaults.Flavor,
		defaults.Selection.AncestorDepth,
		defaults.Remove.AncestorDepth,
		defaults.Matching.MaxLengthRatio,
		defaults.Matching.UseHints(),
		defaults.Backups.Enabled,
		defaults.Backups.Mode,
	)

	return buf.Bytes()
}

// templateToJSON renders cfg as indented JSON, keyed like the YAML form.
func templateToJSON(cfg *Config) ([]byte, error) {
	yamlBytes, err := cfg.ToYAML()
	if err != nil {
		return nil, err
	}

	var generic map[string]any
	if err := yaml.Unmarshal(yamlBytes, &generic); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(generic, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gomdmark configuration
# See: https://github.com/yaklabco/gomdmark`
}
