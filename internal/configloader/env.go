package configloader

import (
	"fmt"
	"os"
	"strconv"

	"github.com/yaklabco/gomdmark/pkg/config"
)

// envVarPrefix is the prefix for all gomdmark environment variables.
const envVarPrefix = "GOMDMARK_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FLAVOR":                   {field: "flavor", typ: envTypeString},
	"FORMAT":                   {field: "format", typ: envTypeString},
	"DRY_RUN":                  {field: "dry_run", typ: envTypeBool},
	"SELECTION_ANCESTOR_DEPTH": {field: "selection.ancestor_depth", typ: envTypeInt},
	"REMOVE_ANCESTOR_DEPTH":    {field: "remove.ancestor_depth", typ: envTypeInt},
	"MAX_LENGTH_RATIO":         {field: "matching.max_length_ratio", typ: envTypeInt},
	"HINTS":                    {field: "matching.hints", typ: envTypeBool},
	"BACKUPS_ENABLED":          {field: "backups.enabled", typ: envTypeBool},
	"BACKUPS_MODE":             {field: "backups.mode", typ: envTypeString},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with GOMDMARK_ (e.g., GOMDMARK_FLAVOR).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "flavor":
		cfg.Flavor = config.Flavor(value)
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "backups.mode":
		cfg.Backups.Mode = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "dry_run":
		cfg.DryRun = value
	case "matching.hints":
		cfg.Matching.Hints = &value
	case "backups.enabled":
		cfg.Backups.Enabled = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "selection.ancestor_depth":
		cfg.Selection.AncestorDepth = value
	case "remove.ancestor_depth":
		cfg.Remove.AncestorDepth = value
	case "matching.max_length_ratio":
		cfg.Matching.MaxLengthRatio = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns a list of all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		"GOMDMARK_FLAVOR":                   "Markdown flavor: commonmark or gfm",
		"GOMDMARK_FORMAT":                   "Output format: text, json, or diff",
		"GOMDMARK_DRY_RUN":                  "Dry-run mode: true or false",
		"GOMDMARK_SELECTION_ANCESTOR_DEPTH": "Ancestors searched for a selection's source position",
		"GOMDMARK_REMOVE_ANCESTOR_DEPTH":    "Ancestors searched for a clicked highlight's source position",
		"GOMDMARK_MAX_LENGTH_RATIO":         "Longest flexible match as a multiple of the selection",
		"GOMDMARK_HINTS":                    "Use structural hints: true or false",
		"GOMDMARK_BACKUPS_ENABLED":          "Back up files before writing: true or false",
		"GOMDMARK_BACKUPS_MODE":             "Backup mode: sidecar or none",
	}
}
