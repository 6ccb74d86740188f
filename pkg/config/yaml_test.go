package config_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdmark/pkg/config"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, config.FlavorCommonMark, cfg.Flavor)
	assert.Equal(t, 5, cfg.Selection.AncestorDepth)
	assert.Equal(t, 8, cfg.Remove.AncestorDepth)
	assert.Equal(t, 3, cfg.Matching.MaxLengthRatio)
	assert.True(t, cfg.Matching.UseHints())
	assert.False(t, cfg.Backups.Enabled)
	assert.Equal(t, config.FormatText, cfg.Format)
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("copies hints pointer", func(t *testing.T) {
		t.Parallel()

		off := false
		original := config.NewConfig()
		original.Matching.Hints = &off
		original.DryRun = true

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, original.Matching.Hints, clone.Matching.Hints)
		assert.False(t, clone.Matching.UseHints())
		assert.True(t, clone.DryRun)

		*clone.Matching.Hints = true
		assert.False(t, original.Matching.UseHints())
	})
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Flavor = config.FlavorGFM
	cfg.DryRun = true

	data, err := cfg.ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "ancestor_depth: 5")
	assert.NotContains(t, string(data), "dry_run")

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, config.FlavorGFM, parsed.Flavor)
	assert.Equal(t, cfg.Matching, parsed.Matching)
	assert.False(t, parsed.DryRun)
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		check   func(t *testing.T, cfg *config.Config)
		wantErr bool
	}{
		{
			name:  "partial document",
			input: "matching:\n  hints: false\n",
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.False(t, cfg.Matching.UseHints())
				assert.Zero(t, cfg.Matching.MaxLengthRatio)
			},
		},
		{
			name:  "backups",
			input: "backups:\n  enabled: true\n  mode: none\n",
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.True(t, cfg.Backups.Enabled)
				assert.Equal(t, "none", cfg.Backups.Mode)
			},
		},
		{
			name:    "malformed",
			input:   "flavor: [",
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.FromYAML([]byte(testCase.input))
			if testCase.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			testCase.check(t, cfg)
		})
	}
}

func TestToYAMLWithHeader(t *testing.T) {
	t.Parallel()

	data, err := config.NewConfig().ToYAMLWithHeader(config.DefaultTemplateHeader())
	require.NoError(t, err)
	assert.Contains(t, string(data), "# gomdmark configuration\n")
	assert.Contains(t, string(data), "flavor: commonmark")
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	t.Run("minimal parses to flavor only", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{})
		require.NoError(t, err)

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, config.FlavorCommonMark, cfg.Flavor)
		assert.Zero(t, cfg.Selection.AncestorDepth)
	})

	t.Run("full parses to defaults", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{Full: true})
		require.NoError(t, err)

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)

		want := config.NewConfig()
		assert.Equal(t, want.Selection, cfg.Selection)
		assert.Equal(t, want.Remove, cfg.Remove)
		assert.Equal(t, want.Backups, cfg.Backups)
		assert.Equal(t, want.Matching.MaxLengthRatio, cfg.Matching.MaxLengthRatio)
		assert.True(t, cfg.Matching.UseHints())
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "commonmark", decoded["flavor"])
		assert.Contains(t, decoded, "matching")
	})
}
