package configloader

import "github.com/yaklabco/gomdmark/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointers: override overwrites base if override is non-nil
//   - Unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Format != "" {
		result.Format = override.Format
	}

	if override.Selection.AncestorDepth != 0 {
		result.Selection.AncestorDepth = override.Selection.AncestorDepth
	}
	if override.Remove.AncestorDepth != 0 {
		result.Remove.AncestorDepth = override.Remove.AncestorDepth
	}
	if override.Matching.MaxLengthRatio != 0 {
		result.Matching.MaxLengthRatio = override.Matching.MaxLengthRatio
	}
	if override.Matching.Hints != nil {
		hints := *override.Matching.Hints
		result.Matching.Hints = &hints
	}

	// false is the zero value, so a later layer can only switch these on.
	if override.DryRun {
		result.DryRun = true
	}
	if override.Backups.Enabled {
		result.Backups.Enabled = true
	}
	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
