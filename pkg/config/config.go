// Package config defines core configuration types for gorazor.
// These types are pure data structures with no dependency on the engine
// packages or on any config loader.
package config

// Severity represents the severity level of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// DiagnosticConfig overrides one diagnostic code.
type DiagnosticConfig struct {
	Enabled  *bool   `mapstructure:"enabled" yaml:"enabled"`
	Severity *string `mapstructure:"severity" yaml:"severity"`
}

// Directive body kinds accepted in DirectiveConfig.Kind.
const (
	DirectiveSingleLine = "single-line"
	DirectiveCodeBlock  = "code-block"
	DirectiveRazorBlock = "razor-block"
)

// Directive token kinds accepted in DirectiveConfig.Tokens. A trailing "?"
// marks a token optional.
const (
	TokenType      = "type"
	TokenMember    = "member"
	TokenNamespace = "namespace"
	TokenString    = "string"
)

// DirectiveConfig declares a directive beyond the built-in set.
type DirectiveConfig struct {
	Name string `mapstructure:"name" yaml:"name"`

	// Kind is one of single-line (default), code-block, razor-block.
	Kind string `mapstructure:"kind" yaml:"kind,omitempty"`

	// Tokens lists the token kinds a single-line directive expects.
	Tokens []string `mapstructure:"tokens" yaml:"tokens,omitempty"`

	// Once limits the directive to one occurrence per document.
	Once bool `mapstructure:"once" yaml:"once,omitempty"`

	Description string `mapstructure:"description" yaml:"description,omitempty"`
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatSummary OutputFormat = "summary"
)

// SummaryOrder controls the order of tables in summary output.
type SummaryOrder string

const (
	// SummaryOrderCodes shows the codes table first (default).
	SummaryOrderCodes SummaryOrder = "codes"
	// SummaryOrderFiles shows the files table first.
	SummaryOrderFiles SummaryOrder = "files"
)

// IsValid returns true if the summary order is valid.
func (s SummaryOrder) IsValid() bool {
	switch s {
	case SummaryOrderCodes, SummaryOrderFiles:
		return true
	default:
		return false
	}
}

// Config is the root configuration structure for gorazor.
type Config struct {
	// DesignTime parses the way an editor does: whitespace stays with
	// markup and line endings after code blocks are kept.
	DesignTime bool `mapstructure:"design_time" yaml:"design_time"`

	// TagHelperPrefix applies when a document has no @tagHelperPrefix.
	TagHelperPrefix string `mapstructure:"tag_helper_prefix" yaml:"tag_helper_prefix,omitempty"`

	// Descriptors lists tag helper catalogue files.
	Descriptors []string `mapstructure:"descriptors" yaml:"descriptors,omitempty"`

	// Lookups are addTagHelper lookup texts applied to every document
	// before its own directives, e.g. "*, Acme.Web".
	Lookups []string `mapstructure:"lookups" yaml:"lookups,omitempty"`

	// Directives extends the built-in directive set.
	Directives []DirectiveConfig `mapstructure:"directives" yaml:"directives,omitempty"`

	// Extensions selects the template files to check.
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `mapstructure:"ignore" yaml:"ignore,omitempty"`

	// MinSeverity drops diagnostics below this severity.
	MinSeverity string `mapstructure:"min_severity" yaml:"min_severity"`

	// Diagnostics contains per-code overrides keyed by code, e.g. "RZ1025".
	Diagnostics map[string]DiagnosticConfig `mapstructure:"diagnostics" yaml:"diagnostics,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-"`

	// Strict makes warnings fail the run.
	Strict bool `mapstructure:"-" yaml:"-"`

	// Hints adds informational diagnostics such as the detected language of
	// opaque script bodies.
	Hints bool `mapstructure:"-" yaml:"-"`

	// EnableCodes contains codes to explicitly enable.
	EnableCodes []string `mapstructure:"-" yaml:"-"`

	// DisableCodes contains codes to explicitly disable.
	DisableCodes []string `mapstructure:"-" yaml:"-"`
}

// DefaultExtensions are the template file extensions checked when none are
// configured.
func DefaultExtensions() []string {
	return []string{".cshtml", ".razor"}
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Extensions:  DefaultExtensions(),
		MinSeverity: string(SeverityInfo),
		Diagnostics: make(map[string]DiagnosticConfig),
		Format:      FormatText,
		Jobs:        0, // 0 means use GOMAXPROCS
	}
}

// CodeEnabled reports whether diagnostics with code should be reported.
// CLI lists win over the config file.
func (c *Config) CodeEnabled(code string) bool {
	for _, disabled := range c.DisableCodes {
		if disabled == code {
			return false
		}
	}
	for _, enabled := range c.EnableCodes {
		if enabled == code {
			return true
		}
	}
	if dc, ok := c.Diagnostics[code]; ok && dc.Enabled != nil {
		return *dc.Enabled
	}
	return true
}

// SeverityFor returns the configured severity override for code, if any.
func (c *Config) SeverityFor(code string) (Severity, bool) {
	dc, ok := c.Diagnostics[code]
	if !ok || dc.Severity == nil {
		return "", false
	}
	return Severity(*dc.Severity), true
}
