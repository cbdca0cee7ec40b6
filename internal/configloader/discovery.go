package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ProjectConfigName is the file name init writes.
const ProjectConfigName = ".gorazor.yml"

// ConfigPaths holds one discovered file per layer. Empty means absent.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string
}

var (
	projectConfigNames = []string{ProjectConfigName, ".gorazor.yaml", "gorazor.yml", "gorazor.yaml"}
	globalConfigNames  = []string{"config.yaml", "config.yml"}
	vcsRootMarkers     = []string{".git", ".hg", ".svn"}
)

// DiscoverPaths locates the system, user and project layers for workDir.
// The explicit layer is filled in by the caller.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	paths := &ConfigPaths{Project: project}
	paths.System = firstFile(systemConfigDir(), globalConfigNames)
	if dir, err := os.UserConfigDir(); err == nil {
		paths.User = firstFile(filepath.Join(dir, "gorazor"), globalConfigNames)
	}
	return paths, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/gorazor"
	}
	if dir := os.Getenv("ProgramData"); dir != "" {
		return filepath.Join(dir, "gorazor")
	}
	return `C:\ProgramData\gorazor`
}

// FindProjectConfig walks up from startDir (the working directory when
// empty) and returns the first project config file. The walk ends at a
// repository root, the home directory or the filesystem root, whichever
// comes first; "" means none was found.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", startDir, err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("discover config: %w", err)
		}
		if path := firstFile(dir, projectConfigNames); path != "" {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir || dir == home || isVCSRoot(dir) {
			return "", nil
		}
		dir = parent
	}
}

// isVCSRoot accepts a marker of any type, since .git is a file in
// worktrees and submodules.
func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}
