package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "Index.cshtml")
	require.NoError(t, os.WriteFile(path, []byte("<p>@x</p>"), 0o640))

	content, info, err := fsutil.ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "<p>@x</p>", string(content))
	assert.Equal(t, path, info.Path)
	assert.Equal(t, int64(9), info.Size)
	assert.Equal(t, os.FileMode(0o640), info.Mode.Perm())
	assert.NotEqual(t, [32]byte{}, info.Hash)
}

func TestReadFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)

	_, _, err = fsutil.ReadFile(context.Background(), dir)
	require.ErrorIs(t, err, fsutil.ErrIsDirectory)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = fsutil.ReadFile(ctx, dir)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		change func(t *testing.T, path string)
		want   bool
	}{
		{name: "untouched", change: func(*testing.T, string) {}, want: false},
		{
			name: "same bytes rewritten",
			change: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, []byte("<p>a</p>"), 0o600))
			},
			want: false,
		},
		{
			name: "same size different bytes",
			change: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, []byte("<p>b</p>"), 0o600))
			},
			want: true,
		},
		{
			name: "grown",
			change: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, []byte("<p>abc</p>"), 0o600))
			},
			want: true,
		},
		{
			name: "deleted",
			change: func(t *testing.T, path string) {
				require.NoError(t, os.Remove(path))
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "a.cshtml")
			require.NoError(t, os.WriteFile(path, []byte("<p>a</p>"), 0o600))
			_, info, err := fsutil.ReadFile(context.Background(), path)
			require.NoError(t, err)

			tt.change(t, path)

			modified, err := fsutil.CheckModified(context.Background(), info)
			require.NoError(t, err)
			assert.Equal(t, tt.want, modified)
		})
	}
}

func TestCheckModified_NilInfo(t *testing.T) {
	t.Parallel()

	_, err := fsutil.CheckModified(context.Background(), nil)
	require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".gorazor.yml")
	ctx := context.Background()

	require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("jobs: 2\n"), 0))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jobs: 2\n", string(got))

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fsutil.DefaultFileMode, stat.Mode().Perm())

	require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("jobs: 4\n"), 0o600))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jobs: 4\n", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestWriteAtomic_Errors(t *testing.T) {
	t.Parallel()

	err := fsutil.WriteAtomic(context.Background(), filepath.Join(t.TempDir(), "missing", "a.yml"), []byte("x"), 0)
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = fsutil.WriteAtomic(ctx, filepath.Join(t.TempDir(), "a.yml"), []byte("x"), 0)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.yml")
	ctx := context.Background()

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("a"), 0o600)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("a"), 0o600)
	require.NoError(t, err)
	assert.False(t, written)

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("b"), 0o600)
	require.NoError(t, err)
	assert.True(t, written)
}

func TestCreateBackup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".gorazor.yml")
	ctx := context.Background()

	backup, err := fsutil.CreateBackup(ctx, path)
	require.NoError(t, err)
	assert.Empty(t, backup, "nothing to back up")

	require.NoError(t, os.WriteFile(path, []byte("first"), 0o600))
	backup, err = fsutil.CreateBackup(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, fsutil.BackupPath(path), backup)
	assert.Equal(t, path+".bak", backup)

	got, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	stat, err := os.Stat(backup)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), stat.Mode().Perm())

	require.NoError(t, os.WriteFile(path, []byte("second"), 0o600))
	_, err = fsutil.CreateBackup(ctx, path)
	require.NoError(t, err)
	got, err = os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got), "later backups replace earlier ones")

	_, err = fsutil.CreateBackup(ctx, dir)
	require.ErrorIs(t, err, fsutil.ErrIsDirectory)
}
