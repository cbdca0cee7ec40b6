package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/gorazor/pkg/config"
)

// envVarPrefix is the prefix for all gorazor environment variables.
const envVarPrefix = "GORAZOR_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping binds one variable to a config field.
type envMapping struct {
	typ         envFieldType
	description string

	// sep splits slice values. Defaults to a comma.
	sep string

	apply       func(cfg *config.Config, value envValue)
}

// envValue carries a parsed variable; only the field matching the mapping's
// type is set.
type envValue struct {
	str   string
	b     bool
	i     int
	slice []string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"DESIGN_TIME": {
		typ: envTypeBool, description: "Parse the way an editor does: true or false",
		apply: func(cfg *config.Config, v envValue) { cfg.DesignTime = v.b },
	},
	"TAG_HELPER_PREFIX": {
		typ: envTypeString, description: "Default tag helper prefix",
		apply: func(cfg *config.Config, v envValue) { cfg.TagHelperPrefix = v.str },
	},
	"DESCRIPTORS": {
		typ: envTypeSlice, description: "Comma-separated tag helper catalogue files",
		apply: func(cfg *config.Config, v envValue) { cfg.Descriptors = v.slice },
	},
	"LOOKUPS": {
		typ: envTypeSlice, sep: ";", description: "Semicolon-separated addTagHelper lookups, e.g. \"*, Acme.Web\"",
		apply: func(cfg *config.Config, v envValue) { cfg.Lookups = v.slice },
	},
	"EXTENSIONS": {
		typ: envTypeSlice, description: "Comma-separated template file extensions",
		apply: func(cfg *config.Config, v envValue) { cfg.Extensions = v.slice },
	},
	"IGNORE": {
		typ: envTypeSlice, description: "Comma-separated list of ignore patterns",
		apply: func(cfg *config.Config, v envValue) { cfg.Ignore = v.slice },
	},
	"MIN_SEVERITY": {
		typ: envTypeString, description: "Drop diagnostics below: error, warning, or info",
		apply: func(cfg *config.Config, v envValue) { cfg.MinSeverity = v.str },
	},
	"FORMAT": {
		typ: envTypeString, description: "Output format: text, table, json, sarif, or summary",
		apply: func(cfg *config.Config, v envValue) { cfg.Format = config.OutputFormat(v.str) },
	},
	"JOBS": {
		typ: envTypeInt, description: "Number of parallel workers (0 = auto)",
		apply: func(cfg *config.Config, v envValue) { cfg.Jobs = v.i },
	},
	"STRICT": {
		typ: envTypeBool, description: "Fail on warnings: true or false",
		apply: func(cfg *config.Config, v envValue) { cfg.Strict = v.b },
	},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with GORAZOR_ (e.g., GORAZOR_JOBS).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for suffix, mapping := range envMappings {
		envVar := envVarPrefix + suffix
		raw := os.Getenv(envVar)
		if raw == "" {
			continue
		}

		value, err := parseEnvValue(mapping, raw, envVar)
		if err != nil {
			return err
		}
		mapping.apply(cfg, value)
	}

	return nil
}

func parseEnvValue(mapping envMapping, raw, envVar string) (envValue, error) {
	switch mapping.typ {
	case envTypeBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return envValue{}, fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, raw)
		}
		return envValue{b: b}, nil
	case envTypeInt:
		i, err := strconv.Atoi(raw)
		if err != nil {
			return envValue{}, fmt.Errorf("invalid integer for %s: %q", envVar, raw)
		}
		return envValue{i: i}, nil
	case envTypeSlice:
		sep := mapping.sep
		if sep == "" {
			sep = ","
		}
		return envValue{slice: parseSliceValue(raw, sep)}, nil
	default:
		return envValue{str: raw}, nil
	}
}

// parseSliceValue splits value at sep. Each element is trimmed of
// whitespace and empty elements are dropped.
func parseSliceValue(value, sep string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns every supported environment variable with its description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
