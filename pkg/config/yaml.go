package config

import (
	"bytes"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

const yamlIndent = 2

// ToYAML encodes c in the layout of a configuration file. Empty fields
// are omitted.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes. Keys not present keep
// their zero value; merge the result over NewConfig for defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if cfg.Diagnostics == nil {
		cfg.Diagnostics = make(map[string]DiagnosticConfig)
	}

	return cfg, nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := &Config{
		DesignTime:      c.DesignTime,
		TagHelperPrefix: c.TagHelperPrefix,
		Descriptors:     slices.Clone(c.Descriptors),
		Lookups:         slices.Clone(c.Lookups),
		Extensions:      slices.Clone(c.Extensions),
		Ignore:          slices.Clone(c.Ignore),
		MinSeverity:     c.MinSeverity,
		Format:          c.Format,
		Jobs:            c.Jobs,
		Strict:          c.Strict,
		Hints:           c.Hints,
		EnableCodes:     slices.Clone(c.EnableCodes),
		DisableCodes:    slices.Clone(c.DisableCodes),
	}

	if c.Directives != nil {
		clone.Directives = make([]DirectiveConfig, len(c.Directives))
		for i, d := range c.Directives {
			d.Tokens = slices.Clone(d.Tokens)
			clone.Directives[i] = d
		}
	}

	if c.Diagnostics != nil {
		clone.Diagnostics = make(map[string]DiagnosticConfig, len(c.Diagnostics))
		for k, v := range c.Diagnostics {
			clone.Diagnostics[k] = v.clone()
		}
	}

	return clone
}

func (dc DiagnosticConfig) clone() DiagnosticConfig {
	var out DiagnosticConfig
	if dc.Enabled != nil {
		out.Enabled = new(bool)
		*out.Enabled = *dc.Enabled
	}
	if dc.Severity != nil {
		out.Severity = new(string)
		*out.Severity = *dc.Severity
	}
	return out
}
