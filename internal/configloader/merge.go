package configloader

import (
	"maps"

	"github.com/yaklabco/gorazor/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Maps: deep merge, with override's values taking precedence
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.TagHelperPrefix != "" {
		result.TagHelperPrefix = override.TagHelperPrefix
	}
	if override.MinSeverity != "" {
		result.MinSeverity = override.MinSeverity
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	// Booleans can only be switched on by a later layer; false is the zero
	// value and indistinguishable from unset.
	if override.DesignTime {
		result.DesignTime = true
	}
	if override.Strict {
		result.Strict = true
	}
	if override.Hints {
		result.Hints = true
	}

	result.Diagnostics = mergeDiagnostics(base.Diagnostics, override.Diagnostics)

	if override.Descriptors != nil {
		result.Descriptors = override.Descriptors
	}
	if override.Lookups != nil {
		result.Lookups = override.Lookups
	}
	if override.Directives != nil {
		result.Directives = override.Directives
	}
	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.EnableCodes != nil {
		result.EnableCodes = override.EnableCodes
	}
	if override.DisableCodes != nil {
		result.DisableCodes = override.DisableCodes
	}

	return &result
}

// mergeDiagnostics performs a deep merge of per-code overrides.
func mergeDiagnostics(base, override map[string]config.DiagnosticConfig) map[string]config.DiagnosticConfig {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]config.DiagnosticConfig, len(base)+len(override))
	maps.Copy(result, base)

	for code, val := range override {
		existing, ok := result[code]
		if !ok {
			result[code] = val
			continue
		}
		if val.Enabled != nil {
			existing.Enabled = val.Enabled
		}
		if val.Severity != nil {
			existing.Severity = val.Severity
		}
		result[code] = existing
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
