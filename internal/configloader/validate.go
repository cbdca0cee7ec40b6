package configloader

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/gorazor/pkg/config"
	"github.com/yaklabco/gorazor/pkg/diag"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "diagnostics.RZ1025.severity").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown codes).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// knownFormats lists valid output format values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFormats = map[config.OutputFormat]bool{
	config.FormatText:    true,
	config.FormatTable:   true,
	config.FormatJSON:    true,
	config.FormatSARIF:   true,
	config.FormatSummary: true,
}

// knownDirectiveKinds lists valid directive body kinds.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownDirectiveKinds = map[string]bool{
	"":                         true,
	config.DirectiveSingleLine: true,
	config.DirectiveCodeBlock:  true,
	config.DirectiveRazorBlock: true,
}

// knownTokenKinds lists valid directive token kinds.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownTokenKinds = map[string]bool{
	config.TokenType:      true,
	config.TokenMember:    true,
	config.TokenNamespace: true,
	config.TokenString:    true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.MinSeverity != "" && !IsValidSeverity(cfg.MinSeverity) {
		result.fail("min_severity", cfg.MinSeverity,
			"invalid severity %q; must be one of: error, warning, info", cfg.MinSeverity)
	}

	if cfg.Format != "" && !knownFormats[cfg.Format] {
		result.fail("format", cfg.Format,
			"invalid format %q; must be one of: text, table, json, sarif, summary", cfg.Format)
	}

	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			result.fail(fmt.Sprintf("extensions[%d]", i), ext, "extension %q must start with \".\"", ext)
		}
	}

	for i, pattern := range cfg.Ignore {
		// filepath.Match returns an error only for malformed patterns.
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	validateDiagnostics(cfg, result)
	validateDirectives(cfg, result)

	return result
}

// validateDiagnostics checks per-code overrides and the CLI code lists.
func validateDiagnostics(cfg *config.Config, result *ValidationResult) {
	for _, code := range slices.Sorted(maps.Keys(cfg.Diagnostics)) {
		dc := cfg.Diagnostics[code]
		if _, ok := diag.DefaultCatalog.Get(code); !ok {
			result.warn("diagnostics."+code, code, "unknown diagnostic code %q; it will be ignored", code)
		}
		if dc.Severity != nil && !IsValidSeverity(*dc.Severity) {
			result.fail("diagnostics."+code+".severity", *dc.Severity,
				"invalid severity %q; must be one of: error, warning, info", *dc.Severity)
		}
	}

	lists := []struct {
		field string
		codes []string
	}{{"enable", cfg.EnableCodes}, {"disable", cfg.DisableCodes}}
	for _, list := range lists {
		for _, code := range list.codes {
			if _, ok := diag.DefaultCatalog.Get(code); !ok {
				result.warn(list.field, code, "unknown diagnostic code %q", code)
			}
		}
	}
}

// validateDirectives checks extra directive declarations.
func validateDirectives(cfg *config.Config, result *ValidationResult) {
	seen := make(map[string]bool, len(cfg.Directives))
	for i, d := range cfg.Directives {
		field := fmt.Sprintf("directives[%d]", i)

		if d.Name == "" {
			result.fail(field+".name", d.Name, "directive name is required")
		} else if seen[d.Name] {
			result.warn(field+".name", d.Name, "directive %q is declared more than once; the last wins", d.Name)
		}
		seen[d.Name] = true

		if !knownDirectiveKinds[d.Kind] {
			result.fail(field+".kind", d.Kind,
				"invalid directive kind %q; must be one of: single-line, code-block, razor-block", d.Kind)
		}

		for j, token := range d.Tokens {
			if !knownTokenKinds[strings.TrimSuffix(token, "?")] {
				result.fail(fmt.Sprintf("%s.tokens[%d]", field, j), token,
					"invalid token kind %q; must be one of: type, member, namespace, string", token)
			}
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidSeverity returns true if the severity string is valid.
func IsValidSeverity(s string) bool {
	_, ok := diag.ParseSeverity(s)
	return ok
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	return knownFormats[f]
}
