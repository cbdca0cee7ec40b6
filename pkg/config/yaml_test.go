package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gorazor/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		clone := c.Clone()
		assert.Nil(t, clone)
	})

	t.Run("empty config", func(t *testing.T) {
		c := &config.Config{}
		clone := c.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, c, clone)
	})

	t.Run("deep copies Diagnostics map", func(t *testing.T) {
		enabled := true
		severity := "error"
		original := &config.Config{
			Diagnostics: map[string]config.DiagnosticConfig{
				"RZ1025": {Enabled: &enabled, Severity: &severity},
			},
		}

		clone := original.Clone()
		require.NotNil(t, clone)

		require.Contains(t, clone.Diagnostics, "RZ1025")
		assert.True(t, *clone.Diagnostics["RZ1025"].Enabled)
		assert.Equal(t, "error", *clone.Diagnostics["RZ1025"].Severity)

		*clone.Diagnostics["RZ1025"].Severity = "warning"
		assert.Equal(t, "error", *original.Diagnostics["RZ1025"].Severity)
	})

	t.Run("deep copies directives", func(t *testing.T) {
		original := &config.Config{
			Directives: []config.DirectiveConfig{{Name: "rendermode", Tokens: []string{"member"}}},
		}

		clone := original.Clone()
		clone.Directives[0].Tokens[0] = "type"
		assert.Equal(t, "member", original.Directives[0].Tokens[0])
	})

	t.Run("preserves all fields", func(t *testing.T) {
		original := &config.Config{
			DesignTime:      true,
			TagHelperPrefix: "th:",
			Descriptors:     []string{"helpers.yaml"},
			Lookups:         []string{"*, Acme"},
			Extensions:      []string{".cshtml"},
			Ignore:          []string{"obj/**"},
			MinSeverity:     "warning",
			Format:          config.FormatJSON,
			Jobs:            4,
			Strict:          true,
			Hints:           true,
			EnableCodes:     []string{"RZ1025"},
			DisableCodes:    []string{"RZ2009"},
		}

		clone := original.Clone()
		assert.Equal(t, original, clone)

		clone.Ignore[0] = "changed"
		assert.Equal(t, "obj/**", original.Ignore[0])
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("basic config serializes", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.TagHelperPrefix = "th:"
		cfg.Strict = true

		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Contains(t, string(data), "tag_helper_prefix:")
		assert.Contains(t, string(data), "min_severity: info")
		assert.NotContains(t, string(data), "strict")
	})
}

func TestFromYAML(t *testing.T) {
	t.Run("parses valid YAML", func(t *testing.T) {
		data := []byte(`
design_time: true
lookups: ["*, Acme"]
directives:
  - name: rendermode
    tokens: [member]
diagnostics:
  RZ1025:
    enabled: false
`)
		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.True(t, cfg.DesignTime)
		assert.Equal(t, []string{"*, Acme"}, cfg.Lookups)
		require.Len(t, cfg.Directives, 1)
		assert.Equal(t, "rendermode", cfg.Directives[0].Name)
		require.Contains(t, cfg.Diagnostics, "RZ1025")
		assert.False(t, cfg.CodeEnabled("RZ1025"))
	})

	t.Run("initializes empty Diagnostics map", func(t *testing.T) {
		cfg, err := config.FromYAML([]byte(`design_time: false`))
		require.NoError(t, err)
		assert.NotNil(t, cfg.Diagnostics)
	})

	t.Run("rejects malformed YAML", func(t *testing.T) {
		_, err := config.FromYAML([]byte("extensions: [\n"))
		assert.Error(t, err)
	})
}

func TestConfig_CodeEnabled(t *testing.T) {
	t.Parallel()

	off := false
	cfg := config.NewConfig()
	cfg.Diagnostics["RZ2009"] = config.DiagnosticConfig{Enabled: &off}

	assert.True(t, cfg.CodeEnabled("RZ1025"))
	assert.False(t, cfg.CodeEnabled("RZ2009"))

	cfg.EnableCodes = []string{"RZ2009"}
	assert.True(t, cfg.CodeEnabled("RZ2009"))

	cfg.DisableCodes = []string{"RZ1025"}
	assert.False(t, cfg.CodeEnabled("RZ1025"))
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	t.Run("minimal template parses", func(t *testing.T) {
		t.Parallel()

		data := config.GenerateTemplate(config.TemplateOptions{})
		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultExtensions(), cfg.Extensions)
		assert.Equal(t, "info", cfg.MinSeverity)
	})

	t.Run("full template lists codes", func(t *testing.T) {
		t.Parallel()

		data := config.GenerateTemplate(config.TemplateOptions{
			Full: true,
			Codes: []config.CodeInfo{
				{Code: "RZ1025", Severity: config.SeverityError, Message: "The element was not closed."},
			},
		})

		var raw map[string]any
		require.NoError(t, yaml.Unmarshal(data, &raw))
		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		require.Contains(t, cfg.Diagnostics, "RZ1025")
		assert.Equal(t, "error", *cfg.Diagnostics["RZ1025"].Severity)
		assert.Contains(t, string(data), "# The element was not closed.")
	})
}
