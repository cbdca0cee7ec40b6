package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/pkg/config"
)

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultExtensions(), result.Config.Extensions)
	assert.Equal(t, "info", result.Config.MinSeverity)
	assert.Empty(t, result.LoadedFrom)
	assert.Empty(t, result.Warnings)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	writeFile(t, filepath.Join(dir, ".gorazor.yml"), `
design_time: true
lookups:
  - "*, Acme.Web"
min_severity: warning
diagnostics:
  RZ1025:
    severity: warning
  RZ2009:
    enabled: false
`)

	// Discovery walks upward from a nested directory.
	nested := filepath.Join(dir, "Views", "Home")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	result, err := Load(context.Background(), isolated(nested))
	require.NoError(t, err)

	cfg := result.Config
	assert.True(t, cfg.DesignTime)
	assert.Equal(t, []string{"*, Acme.Web"}, cfg.Lookups)
	assert.Equal(t, "warning", cfg.MinSeverity)
	assert.Equal(t, config.DefaultExtensions(), cfg.Extensions)
	assert.False(t, cfg.CodeEnabled("RZ2009"))

	sev, ok := cfg.SeverityFor("RZ1025")
	require.True(t, ok)
	assert.Equal(t, config.SeverityWarning, sev)

	assert.Equal(t, []string{filepath.Join(dir, ".gorazor.yml")}, result.LoadedFrom)
}

func TestLoad_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gorazor.yml"), "min_severity: error\n")
	repo := filepath.Join(dir, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	result, err := Load(context.Background(), isolated(repo))
	require.NoError(t, err)
	assert.Empty(t, result.Paths.Project)
	assert.Equal(t, "info", result.Config.MinSeverity)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	writeFile(t, filepath.Join(dir, ".gorazor.yml"), "min_severity: error\nextensions: [.cshtml]\n")
	explicit := filepath.Join(dir, "ci.yaml")
	writeFile(t, explicit, "extensions: [.razor]\nignore: [\"bin/**\"]\n")

	t.Setenv("GORAZOR_IGNORE", "obj/**, tmp/**")
	t.Setenv("GORAZOR_JOBS", "3")
	t.Setenv("GORAZOR_LOOKUPS", "*, Acme.Web; Acme.Item, Acme.Web")

	opts := isolated(dir)
	opts.IgnoreEnv = false
	opts.ExplicitPath = explicit
	opts.CLIConfig = &config.Config{Jobs: 8}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, "error", cfg.MinSeverity)
	assert.Equal(t, []string{".razor"}, cfg.Extensions)
	assert.Equal(t, []string{"obj/**", "tmp/**"}, cfg.Ignore)
	assert.Equal(t, []string{"*, Acme.Web", "Acme.Item, Acme.Web"}, cfg.Lookups)
	assert.Equal(t, 8, cfg.Jobs)
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "bad severity", content: "min_severity: fatal\n", field: "min_severity"},
		{name: "bad extension", content: "extensions: [cshtml]\n", field: "extensions[0]"},
		{name: "bad code severity", content: "diagnostics:\n  RZ1025:\n    severity: loud\n", field: "diagnostics.RZ1025.severity"},
		{name: "bad directive kind", content: "directives:\n  - name: x\n    kind: block\n", field: "directives[0].kind"},
		{name: "bad directive token", content: "directives:\n  - name: x\n    tokens: [expr]\n", field: "directives[0].tokens[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
			path := filepath.Join(dir, ".gorazor.yml")
			writeFile(t, path, tt.content)

			_, err := Load(context.Background(), isolated(dir))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, path, verr.FilePath)
		})
	}
}

func TestLoad_UnknownCodeWarns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	writeFile(t, filepath.Join(dir, ".gorazor.yml"), "diagnostics:\n  RZ0000:\n    enabled: false\n")

	opts := isolated(dir)
	opts.CLIConfig = &config.Config{DisableCodes: []string{"RZ9999"}}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], `unknown diagnostic code "RZ0000"`)
	assert.Contains(t, result.Warnings[1], `"RZ9999"`)
}

func TestLoad_MissingExplicit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	opts := isolated(dir)
	opts.ExplicitPath = filepath.Join(dir, "nope.yml")

	_, err := Load(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load explicit config")
}

func TestLoad_InvalidEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GORAZOR_STRICT", "maybe")

	opts := isolated(dir)
	opts.IgnoreEnv = false

	_, err := Load(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GORAZOR_STRICT")
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	enabled := false
	warning := "warning"

	base := config.NewConfig()
	base.Diagnostics["RZ1025"] = config.DiagnosticConfig{Severity: &warning}

	override := &config.Config{
		Strict:      true,
		Diagnostics: map[string]config.DiagnosticConfig{"RZ1025": {Enabled: &enabled}},
	}

	got := MergeAll(base, override, nil)
	require.NotNil(t, got)
	assert.True(t, got.Strict)
	assert.Equal(t, config.DefaultExtensions(), got.Extensions)
	require.NotNil(t, got.Diagnostics["RZ1025"].Enabled)
	require.NotNil(t, got.Diagnostics["RZ1025"].Severity)
	assert.False(t, *got.Diagnostics["RZ1025"].Enabled)
	assert.Equal(t, "warning", *got.Diagnostics["RZ1025"].Severity)

	assert.Nil(t, MergeAll())
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	assert.Contains(t, vars, "GORAZOR_JOBS")
	assert.Contains(t, vars, "GORAZOR_LOOKUPS")
	assert.Len(t, vars, len(envMappings))
}

func TestParseSliceValue(t *testing.T) {
	t.Parallel()

	assert.Nil(t, parseSliceValue("", ","))
	assert.Equal(t, []string{"a", "b"}, parseSliceValue(" a , ,b ", ","))
	assert.Equal(t, []string{"*, A", "B"}, parseSliceValue("*, A;B", ";"))
}

func TestFindProjectConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "gorazor.yaml"), "jobs: 2\n")
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	worktree := filepath.Join(dir, "wt")
	writeFile(t, filepath.Join(worktree, ".git"), "gitdir: elsewhere\n")

	tests := []struct {
		name  string
		start string
		want  string
	}{
		{name: "walks up", start: nested, want: filepath.Join(dir, "gorazor.yaml")},
		{name: "same directory", start: dir, want: filepath.Join(dir, "gorazor.yaml")},
		{name: "git file stops the walk", start: worktree, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FindProjectConfig(context.Background(), tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindProjectConfig_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FindProjectConfig(ctx, t.TempDir())
	require.ErrorIs(t, err, context.Canceled)
}
