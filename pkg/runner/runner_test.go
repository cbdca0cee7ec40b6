package runner_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/pkg/check"
	"github.com/yaklabco/gorazor/pkg/config"
	"github.com/yaklabco/gorazor/pkg/runner"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func newRunner() *runner.Runner {
	return runner.New(check.New(check.Options{Config: config.NewConfig()}))
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"Good.cshtml":       "<p>@Model.Name</p>",
		"Broken.cshtml":     "@{ <p> }",
		"Pages/Also.cshtml": "@{ <div> }\n@(x",
		"notes.txt":         "@{",
	})

	result, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 2})
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.Equal(t, filepath.Join(dir, "Broken.cshtml"), result.Files[0].Path)
	assert.Equal(t, filepath.Join(dir, "Good.cshtml"), result.Files[1].Path)
	assert.Equal(t, filepath.Join(dir, "Pages", "Also.cshtml"), result.Files[2].Path)

	assert.Equal(t, 3, result.Stats.FilesDiscovered)
	assert.Equal(t, 3, result.Stats.FilesProcessed)
	assert.Equal(t, 2, result.Stats.FilesWithIssues)
	assert.Zero(t, result.Stats.FilesErrored)
	assert.Positive(t, result.Stats.DiagnosticsByCode["RZ1025"])
	assert.Len(t, result.Diagnostics(), result.Stats.DiagnosticsTotal)
	assert.True(t, result.HasIssues())
	assert.True(t, result.HasFailures())
	assert.Empty(t, result.Files[1].Result.Diagnostics)
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"readme.md": "# x"})
	result, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.False(t, result.HasIssues())
	assert.False(t, result.HasFailures())
}

func TestRunner_Run_SkipsLargeFiles(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"big.cshtml":   "<p>0123456789</p>",
		"small.cshtml": "<p/>",
	})

	result, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir, MaxFileSize: 8})
	require.NoError(t, err)
	require.Len(t, result.Files, 2)
	assert.True(t, result.Files[0].Skipped)
	assert.Nil(t, result.Files[0].Result)
	assert.Equal(t, 1, result.Stats.FilesSkipped)
	assert.Equal(t, 1, result.Stats.FilesProcessed)
}

func TestRunner_Run_SerialMatchesParallel(t *testing.T) {
	t.Parallel()

	files := make(map[string]string)
	for i := range 20 {
		files[fmt.Sprintf("v%02d.cshtml", i)] = fmt.Sprintf("@{ var x%d = 1; <b>@x%d</b> }\n<p>@(a%d</p>", i, i, i)
	}
	dir := writeFiles(t, files)

	serial, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 1})
	require.NoError(t, err)
	parallel, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 8})
	require.NoError(t, err)

	require.Len(t, parallel.Files, len(serial.Files))
	for i := range serial.Files {
		assert.Equal(t, serial.Files[i].Path, parallel.Files[i].Path)
		assert.Equal(t, serial.Files[i].Result.Diagnostics, parallel.Files[i].Result.Diagnostics)
	}
	assert.Equal(t, serial.Stats.DiagnosticsBySeverity, parallel.Stats.DiagnosticsBySeverity)
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"a.cshtml": "<p/>"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner().Run(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Ignore = []string{"obj/**"}
	cfg.Jobs = 3

	opts := runner.OptionsFromConfig(cfg, []string{"Views"})
	assert.Equal(t, []string{"Views"}, opts.Paths)
	assert.Equal(t, cfg.Extensions, opts.Extensions)
	assert.Equal(t, []string{"obj/**"}, opts.ExcludeGlobs)
	assert.Equal(t, 3, opts.Jobs)

	assert.Equal(t, runner.Options{Paths: []string{"x"}}, runner.OptionsFromConfig(nil, []string{"x"}))
}

func TestResult_NilSafe(t *testing.T) {
	t.Parallel()

	var r *runner.Result
	assert.False(t, r.HasFailures())
	assert.False(t, r.HasWarnings())
	assert.False(t, r.HasIssues())
	assert.Nil(t, r.Diagnostics())
}
