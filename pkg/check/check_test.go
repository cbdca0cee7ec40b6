package check_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/pkg/check"
	"github.com/yaklabco/gorazor/pkg/config"
	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/edit"
	"github.com/yaklabco/gorazor/pkg/parser"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/syntax"
	"github.com/yaklabco/gorazor/pkg/taghelper"
)

const catalog = `
descriptors:
  - name: Acme.ListTagHelper
    assembly: Acme
    rules:
      - tag: list
    allowed_children: [item]
  - name: Acme.ItemTagHelper
    assembly: Acme
    rules:
      - tag: item
        parent: list
`

func writeCatalog(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "helpers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0o600))
	return path
}

func newChecker(t *testing.T, cfg *config.Config) *check.Checker {
	t.Helper()

	reg, err := check.LoadRegistry([]string{writeCatalog(t)})
	require.NoError(t, err)
	opts, err := check.OptionsFromConfig(cfg, reg)
	require.NoError(t, err)
	return check.New(opts)
}

func codes(diags []diag.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func TestChecker_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		lookups []string
		input   string
		want    []string
	}{
		{name: "clean markup", input: "<p>@Model.Name</p>", want: []string{}},
		{name: "helpers not imported", input: "<list>hello</list>", want: []string{}},
		{name: "helpers from directive", input: "@addTagHelper *, Acme\n<list>hello</list>", want: []string{"RZ2009"}},
		{name: "helpers from defaults", lookups: []string{"*, Acme"}, input: "<list>hello</list>", want: []string{"RZ2009"}},
		{name: "allowed child", lookups: []string{"*, Acme"}, input: "<list><item></item></list>", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			cfg.Lookups = tt.lookups
			c := newChecker(t, cfg)

			result, err := c.Check(context.Background(), "index.cshtml", []byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, codes(result.Diagnostics))
			assert.Equal(t, len(tt.want) > 0, result.HasIssues())
			assert.Equal(t, tt.input, result.Tree.Text())
		})
	}
}

func TestChecker_ParseError(t *testing.T) {
	t.Parallel()

	result, err := newChecker(t, config.NewConfig()).Check(context.Background(), "a.cshtml", []byte("@{ <p> }"))
	require.NoError(t, err)
	assert.Contains(t, codes(result.Diagnostics), "RZ1025")
	assert.Equal(t, codes(result.ParseDiagnostics), codes(result.Diagnostics))
	assert.Positive(t, result.CountBySeverity(diag.SeverityError))
}

func TestChecker_Raw(t *testing.T) {
	t.Parallel()

	reg, err := check.LoadRegistry([]string{writeCatalog(t)})
	require.NoError(t, err)

	c := check.New(check.Options{Registry: reg, Raw: true, Defaults: taghelper.Defaults{Lookups: []string{"*, Acme"}}})
	result, err := c.Check(context.Background(), "a.cshtml", []byte("<list>hello</list>"))
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
	assert.Nil(t, result.Binder)
	assert.Same(t, result.Raw, result.Tree)
	assert.Empty(t, result.Tree.FindByKind(syntax.TagHelperElement))
}

func TestChecker_Rewrites(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Lookups = []string{"*, Acme"}
	c := newChecker(t, cfg)

	result, err := c.Check(context.Background(), "a.cshtml", []byte("<list><item></item></list>"))
	require.NoError(t, err)
	require.NotNil(t, result.Binder)
	assert.Len(t, result.Tree.FindByKind(syntax.TagHelperElement), 2)
	assert.Empty(t, result.Raw.FindByKind(syntax.TagHelperElement))
}

func TestChecker_Hints(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Hints = true
	c := newChecker(t, cfg)

	input := "<script>const x = () => 1;</script>\n<script type=\"application/json\">{\"a\": 1}</script>\n<script></script>"
	result, err := c.Check(context.Background(), "a.cshtml", []byte(input))
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 2)
	assert.Equal(t, "RZ9000", result.Diagnostics[0].Code)
	assert.Equal(t, diag.SeverityInfo, result.Diagnostics[0].Severity)
	assert.Equal(t, "Opaque <script> body looks like javascript.", result.Diagnostics[0].Message)
	assert.Equal(t, len("<script>"), result.Diagnostics[0].Span.AbsoluteIndex)
	assert.Equal(t, "Opaque <script> body looks like json.", result.Diagnostics[1].Message)
	assert.Equal(t, 2, result.CountBySeverity(diag.SeverityInfo))

	cfg.MinSeverity = string(config.SeverityWarning)
	c = newChecker(t, cfg)
	result, err = c.Check(context.Background(), "a.cshtml", []byte(input))
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
}

func TestChecker_CustomDirectives(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Directives = []config.DirectiveConfig{{Name: "implements", Tokens: []string{config.TokenNamespace}}}
	c := newChecker(t, cfg)

	result, err := c.Check(context.Background(), "a.cshtml", []byte("@implements My.\n"))
	require.NoError(t, err)
	assert.Contains(t, codes(result.Diagnostics), "RZ1014")

	result, err = c.Check(context.Background(), "a.cshtml", []byte("@implements My.Contracts\n"))
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
	assert.Len(t, parser.Directives(result.Tree), 1)
}

func TestChecker_NilDocument(t *testing.T) {
	t.Parallel()

	_, err := check.New(check.Options{}).CheckDocument(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, check.ErrParseFailure)
	assert.ErrorIs(t, err, parser.ErrNilDocument)
}

func TestChecker_Update(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		before   string
		after    string
		accepted bool
	}{
		{name: "identifier grows", before: "<p>@foo</p>\n@{ <b> }", after: "<p>@foob</p>\n@{ <b> }", accepted: true},
		{name: "space ends expression", before: "<p>@foo</p>", after: "<p>@foo bar</p>", accepted: false},
		{name: "new code block", before: "<p>text</p>", after: "<p>te@{x}xt</p>", accepted: false},
		{name: "string opened in statement", before: "@{ var x = 1; }", after: "@{ var x = 1\"; }", accepted: false},
		{name: "keyword renamed", before: "@if (a) { <p>x</p> }", after: "@iif (a) { <p>x</p> }", accepted: false},
		{name: "keyword extended", before: "@foreach (var i in xs) { }", after: "@foreachx (var i in xs) { }", accepted: false},
		{name: "functions member renamed", before: "@functions { int x; }", after: "@functions { int xy; }", accepted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := check.New(check.Options{})
			prev, err := c.Check(context.Background(), "a.cshtml", []byte(tt.before))
			require.NoError(t, err)

			next, status, err := c.Update(context.Background(), prev, tt.after)
			require.NoError(t, err)
			assert.Equal(t, tt.accepted, status.Has(edit.Accepted), status.String())
			assert.Equal(t, tt.after, next.Tree.Text())
			assert.Equal(t, "a.cshtml", next.Document.Path)

			full, err := c.Check(context.Background(), "a.cshtml", []byte(tt.after))
			require.NoError(t, err)
			require.Equal(t, codes(full.Diagnostics), codes(next.Diagnostics))
			for i := range full.Diagnostics {
				assert.Equal(t, full.Diagnostics[i].Span.AbsoluteIndex, next.Diagnostics[i].Span.AbsoluteIndex)
			}
		})
	}
}

func TestChecker_UpdateUnchanged(t *testing.T) {
	t.Parallel()

	c := check.New(check.Options{})
	prev, err := c.Check(context.Background(), "a.cshtml", []byte("<p>@foo</p>"))
	require.NoError(t, err)

	next, status, err := c.Update(context.Background(), prev, "<p>@foo</p>")
	require.NoError(t, err)
	assert.Same(t, prev, next)
	assert.Equal(t, edit.Accepted, status)
}

func TestFilter(t *testing.T) {
	t.Parallel()

	doc := source.NewDocument("a.cshtml", "0123456789")
	diags := []diag.Diagnostic{
		diag.DuplicateBoundAttribute.New(doc.Span(5, 1), "x", "y"),
		diag.MissingEndTag.New(doc.Span(1, 1), "p"),
		diag.OpaqueBodyLanguage.New(doc.Span(3, 1), "script", "json"),
	}

	off := false
	errorSeverity := "error"

	tests := []struct {
		name      string
		configure func(cfg *config.Config)
		want      []string
		severity  map[string]diag.Severity
	}{
		{
			name:      "sorts by position",
			configure: func(*config.Config) {},
			want:      []string{"RZ1025", "RZ9000", "RZ3001"},
		},
		{
			name:      "min severity",
			configure: func(cfg *config.Config) { cfg.MinSeverity = string(config.SeverityWarning) },
			want:      []string{"RZ1025", "RZ3001"},
		},
		{
			name: "disabled in config",
			configure: func(cfg *config.Config) {
				cfg.Diagnostics["RZ1025"] = config.DiagnosticConfig{Enabled: &off}
			},
			want: []string{"RZ9000", "RZ3001"},
		},
		{
			name:      "disabled on command line",
			configure: func(cfg *config.Config) { cfg.DisableCodes = []string{"RZ9000"} },
			want:      []string{"RZ1025", "RZ3001"},
		},
		{
			name: "severity override",
			configure: func(cfg *config.Config) {
				cfg.Diagnostics["RZ3001"] = config.DiagnosticConfig{Severity: &errorSeverity}
				cfg.MinSeverity = string(config.SeverityError)
			},
			want:     []string{"RZ1025", "RZ3001"},
			severity: map[string]diag.Severity{"RZ3001": diag.SeverityError},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.configure(cfg)

			got := check.Filter(diags, cfg)
			assert.Equal(t, tt.want, codes(got))
			for _, d := range got {
				if want, ok := tt.severity[d.Code]; ok {
					assert.Equal(t, want, d.Severity)
				}
			}
		})
	}

	assert.Equal(t, diag.SeverityWarning, diags[0].Severity, "input must not be modified")
	assert.Equal(t, []string{"RZ1025", "RZ9000", "RZ3001"}, codes(check.Filter(diags, nil)))
}

func TestDirectivesFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("converts kinds and tokens", func(t *testing.T) {
		t.Parallel()

		got, err := check.DirectivesFromConfig([]config.DirectiveConfig{
			{Name: "rendermode", Tokens: []string{config.TokenMember}, Once: true},
			{Name: "region", Kind: config.DirectiveRazorBlock, Tokens: []string{"string?"}},
		})
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, parser.DirectiveSingleLine, got[0].Kind)
		assert.Equal(t, parser.FileScopedSinglyOccurring, got[0].Usage)
		require.Len(t, got[0].Tokens, 1)
		assert.Equal(t, parser.DirectiveTokenMember, got[0].Tokens[0].Kind)
		assert.False(t, got[0].Tokens[0].Optional)

		assert.Equal(t, parser.DirectiveRazorBlock, got[1].Kind)
		require.Len(t, got[1].Tokens, 1)
		assert.Equal(t, parser.DirectiveTokenString, got[1].Tokens[0].Kind)
		assert.True(t, got[1].Tokens[0].Optional)
	})

	t.Run("collects every error", func(t *testing.T) {
		t.Parallel()

		_, err := check.DirectivesFromConfig([]config.DirectiveConfig{
			{Name: ""},
			{Name: "a", Kind: "inline"},
			{Name: "b", Tokens: []string{"number"}},
		})
		require.Error(t, err)
		require.ErrorIs(t, err, check.ErrInvalidDirective)
		assert.Contains(t, err.Error(), "missing name")
		assert.Contains(t, err.Error(), `unknown kind "inline"`)
		assert.Contains(t, err.Error(), `unknown token kind "number"`)
	})
}

func TestLoadRegistry(t *testing.T) {
	t.Parallel()

	reg, err := check.LoadRegistry([]string{writeCatalog(t)})
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	reg, err = check.LoadRegistry([]string{writeCatalog(t), filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.Equal(t, 2, reg.Len())
}
