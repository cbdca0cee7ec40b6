package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/internal/cli"
	"github.com/yaklabco/gorazor/pkg/config"
)

var testInfo = cli.BuildInfo{Version: "test-version", Commit: "test-commit", Date: "test-date"}

// run executes the root command with args and returns its standard output.
// A temporary config file keeps the run independent of project config.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("min_severity: info\n"), 0o600))

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCommand(testInfo)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--config", configPath, "--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo)
	assert.Equal(t, "gorazor", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"check", "tree", "codes", "watch", "verify", "init", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		flags   []string
	}{
		{"check", []string{"format", "jobs", "ignore", "enable", "disable", "min-severity", "strict", "no-context", "compact", "per-file", "summary-order", "design-time", "hints", "descriptors"}},
		{"tree", []string{"raw", "offsets", "contexts", "depth", "no-diagnostics", "design-time"}},
		{"codes", []string{"format"}},
		{"watch", []string{"ignore", "debounce", "no-context", "descriptors"}},
		{"verify", []string{"quiet", "design-time"}},
		{"init", []string{"force", "full", "output"}},
	}

	root := cli.NewRootCommand(testInfo)
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()

			sub, _, err := root.Find([]string{tt.command})
			require.NoError(t, err)
			for _, flag := range tt.flags {
				assert.NotNil(t, sub.Flags().Lookup(flag), flag)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", want: cli.ExitSuccess},
		{name: "exit error", err: &cli.ExitError{Code: cli.ExitIOError, Err: errors.New("disk")}, want: cli.ExitIOError},
		{name: "usage", err: cli.ErrUsage, want: cli.ExitInvalidUsage},
		{name: "other", err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gorazor")
	assert.Contains(t, out, "test-version")
	assert.Contains(t, out, "test-commit")
	assert.Contains(t, out, "test-date")
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"check", "--bogus"}},
		{name: "bad format", args: []string{"check", "--format", "xml"}},
		{name: "bad summary order", args: []string{"check", "--summary-order", "sideways"}},
		{name: "tree without file", args: []string{"tree"}},
		{name: "tree of missing file", args: []string{"tree", "does-not-exist.cshtml"}},
		{name: "verify without book", args: []string{"verify"}},
		{name: "version with args", args: []string{"version", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
		})
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	clean := writeFile(t, dir, "Clean.cshtml", "<p>@Model.Name</p>\n")
	broken := writeFile(t, dir, "Broken.cshtml", "@{ var x = 1;")

	out, err := run(t, "check", clean)
	require.NoError(t, err)
	assert.Contains(t, out, "No issues found")

	out, err = run(t, "check", "--format", "json", broken)
	require.Error(t, err)
	require.ErrorIs(t, err, cli.ErrIssuesFound)
	assert.Equal(t, cli.ExitIssueErrors, cli.ExitCode(err))

	var report struct {
		Diagnostics []struct {
			Code     string `json:"code"`
			Severity string `json:"severity"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	var found []string
	for _, d := range report.Diagnostics {
		found = append(found, d.Code)
	}
	assert.Contains(t, found, "RZ1006")

	_, err = run(t, "check", "--disable", "RZ1006", broken)
	require.NoError(t, err)
}

func TestCheck_MissingConfig(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"check", "--config", filepath.Join(t.TempDir(), "missing.yml"), t.TempDir()})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}

func TestTree(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "Index.cshtml", "<p>@x</p>\n@{ var n = 1;")

	out, err := run(t, "tree", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Document"))
	assert.Contains(t, out, "RZ1006")

	out, err = run(t, "tree", "--no-diagnostics", "--depth", "1", path)
	require.NoError(t, err)
	assert.Equal(t, "Document\n", out)
}

func TestCodes(t *testing.T) {
	t.Parallel()

	out, err := run(t, "codes")
	require.NoError(t, err)
	assert.Contains(t, out, "RZ1025")
	assert.Contains(t, out, "{}")

	out, err = run(t, "codes", "--format", "json")
	require.NoError(t, err)

	var codes []struct {
		Code     string `json:"code"`
		Severity string `json:"severity"`
		Message  string `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &codes))
	require.NotEmpty(t, codes)
	for _, c := range codes {
		assert.True(t, strings.HasPrefix(c.Code, "RZ"), c.Code)
		assert.NotEmpty(t, c.Severity)
		assert.NotEmpty(t, c.Message)
	}
}

func TestInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "razor.yml")

	_, err := run(t, "init", "--output", path)
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "min_severity: info")
	assert.True(t, strings.HasSuffix(string(content), "\n"))

	// Without a terminal there is nobody to confirm the overwrite.
	_, err = run(t, "init", "--output", path)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	_, err = run(t, "init", "--full", "--force", "--output", path)
	require.NoError(t, err)
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(content), "\n"))
	full, err := config.FromYAML(content)
	require.NoError(t, err)
	assert.Contains(t, full.Diagnostics, "RZ1025")

	// The basic template only mentions codes in comments.
	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Contains(t, string(backup), "#   RZ1025:")
	basic, err := config.FromYAML(backup)
	require.NoError(t, err)
	assert.NotContains(t, basic.Diagnostics, "RZ1025")
}

func TestVerify(t *testing.T) {
	t.Parallel()

	out, err := run(t, "verify", filepath.Join("..", "..", "pkg", "casebook", "testdata", "basic.md"))
	require.NoError(t, err)
	assert.Contains(t, out, "PASS Clean markup")
	assert.Contains(t, out, "0 failed")

	book := writeFile(t, t.TempDir(), "book.md", "# Book\n\n## Wrong code\n\n```cshtml\n@{ var x = 1;\n```\n\n```diagnostics\nRZ1025\n```\n")
	out, err = run(t, "verify", "--quiet", book)
	require.Error(t, err)
	assert.Equal(t, cli.ExitIssueErrors, cli.ExitCode(err))
	assert.Contains(t, out, "FAIL Wrong code")
	assert.Contains(t, out, "-RZ1025")
	assert.Contains(t, out, "+RZ1006")
	assert.Contains(t, out, "1 failed")

	invalid := writeFile(t, t.TempDir(), "invalid.md", "## No template\n\n```diagnostics\n```\n")
	_, err = run(t, "verify", invalid)
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}
