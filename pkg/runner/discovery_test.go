package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/pkg/runner"
)

// makeTree creates files (with parent directories) under a temp dir.
func makeTree(t *testing.T, files ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("<p>@x</p>"), 0o600))
	}
	return dir
}

func rel(t *testing.T, dir string, files []string) []string {
	t.Helper()

	out := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	layout := []string{
		"Index.cshtml",
		"Pages/About.cshtml",
		"Pages/Shared/_Layout.cshtml",
		"Components/Counter.razor",
		"Components/Counter.razor.cs",
		"obj/Debug/Generated.cshtml",
		".hidden/Secret.cshtml",
		"wwwroot/site.css",
		"README.md",
	}

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "default extensions",
			want: []string{
				"Components/Counter.razor",
				"Index.cshtml",
				"Pages/About.cshtml",
				"Pages/Shared/_Layout.cshtml",
				"obj/Debug/Generated.cshtml",
			},
		},
		{
			name: "custom extensions",
			opts: runner.Options{Extensions: []string{".razor", ".MD"}},
			want: []string{"Components/Counter.razor", "README.md"},
		},
		{
			name: "exclude directory",
			opts: runner.Options{ExcludeGlobs: []string{"obj/**", "**/Shared"}},
			want: []string{"Components/Counter.razor", "Index.cshtml", "Pages/About.cshtml"},
		},
		{
			name: "exclude by base name",
			opts: runner.Options{ExcludeGlobs: []string{"_*.cshtml"}},
			want: []string{
				"Components/Counter.razor",
				"Index.cshtml",
				"Pages/About.cshtml",
				"obj/Debug/Generated.cshtml",
			},
		},
		{
			name: "include globs",
			opts: runner.Options{IncludeGlobs: []string{"Pages/**"}},
			want: []string{"Pages/About.cshtml", "Pages/Shared/_Layout.cshtml"},
		},
		{
			name: "subdirectory path",
			opts: runner.Options{Paths: []string{"Components"}},
			want: []string{"Components/Counter.razor"},
		},
		{
			name: "duplicate paths",
			opts: runner.Options{Paths: []string{"Pages", "Pages/About.cshtml", "."}, ExcludeGlobs: []string{"obj/**"}},
			want: []string{
				"Components/Counter.razor",
				"Index.cshtml",
				"Pages/About.cshtml",
				"Pages/Shared/_Layout.cshtml",
			},
		},
		{
			name: "explicit file is filtered",
			opts: runner.Options{Paths: []string{"README.md"}},
			want: []string{},
		},
	}

	dir := makeTree(t, layout...)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := tt.opts
			opts.WorkingDir = dir
			files, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rel(t, dir, files))
			for _, f := range files {
				assert.True(t, filepath.IsAbs(f), f)
			}
		})
	}
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, "a.cshtml")

	_, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir, Paths: []string{"missing"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stat missing")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Discover(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, "views/a.cshtml", "shared/b.cshtml")
	if err := os.Symlink(filepath.Join(dir, "shared"), filepath.Join(dir, "views", "linked")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(dir, "views", "a.cshtml"), filepath.Join(dir, "views", "alias.cshtml")))

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir, Paths: []string{"views"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"views/a.cshtml", "views/alias.cshtml"}, rel(t, dir, files))

	files, err = runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir, Paths: []string{"views"}, FollowSymlinks: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"shared/b.cshtml", "views/a.cshtml", "views/alias.cshtml"}, rel(t, dir, files))
}

func TestFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	filter, err := runner.NewFilter(runner.Options{WorkingDir: dir, ExcludeGlobs: []string{"bin/**"}})
	require.NoError(t, err)

	tests := []struct {
		path  string
		match bool
	}{
		{path: "Views/Index.cshtml", match: true},
		{path: filepath.Join(dir, "Pages", "Counter.razor"), match: true},
		{path: "Views/readme.md", match: false},
		{path: "Views/.Index.cshtml", match: false},
		{path: "bin/Index.cshtml", match: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.match, filter.Match(tt.path), tt.path)
	}

	assert.True(t, filter.SkipDir("bin"))
	assert.True(t, filter.SkipDir(".git"))
	assert.False(t, filter.SkipDir("Views"))
	assert.False(t, filter.SkipDir("."))
}

func TestMatchGlob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		pattern string
		want    bool
	}{
		{path: "Index.cshtml", pattern: "*.cshtml", want: true},
		{path: "Pages/Index.cshtml", pattern: "*.cshtml", want: true},
		{path: "Pages/Index.cshtml", pattern: "Pages/*.cshtml", want: true},
		{path: "Pages/Index.cshtml", pattern: "*.razor", want: false},
		{path: "obj/Debug/x.cshtml", pattern: "obj/**", want: true},
		{path: "obj", pattern: "obj/**", want: true},
		{path: "objects/x.cshtml", pattern: "obj/**", want: false},
		{path: "src/bin/x.cshtml", pattern: "**/bin", want: true},
		{path: "src/bin/x.cshtml", pattern: "**/bin/**", want: true},
		{path: "src/binary/x.cshtml", pattern: "**/bin/**", want: false},
		{path: "a/Views/b/c.cshtml", pattern: "a/**/*.cshtml", want: true},
		{path: "z/Views/c.cshtml", pattern: "a/**/*.cshtml", want: false},
		{path: "anything", pattern: "**", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, runner.MatchGlob(tt.path, tt.pattern))
		})
	}
}
