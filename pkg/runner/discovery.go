package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Discover finds template files matching opts. It returns sorted,
// de-duplicated absolute paths. Explicit file arguments are subject to the
// extension and glob filters like walked files.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{ctx: ctx, workDir: workDir, opts: opts, extensions: opts.extensions(), seen: map[string]bool{}}
	for _, input := range opts.paths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		path := input
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		path = filepath.Clean(path)

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if info.IsDir() {
			if err := d.walk(path); err != nil {
				return nil, err
			}
			continue
		}
		d.consider(path)
	}

	slices.Sort(d.files)
	return d.files, nil
}

type discoverer struct {
	ctx        context.Context
	workDir    string
	opts       Options
	extensions []string
	seen       map[string]bool
	files      []string
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

func (d *discoverer) consider(path string) {
	if d.seen[path] || !d.matches(path) {
		return
	}
	d.seen[path] = true
	d.files = append(d.files, path)
}

// walk adds matching files below root. Hidden entries are skipped, as are
// directories matching an exclude glob.
func (d *discoverer) walk(root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := d.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")
		if entry.IsDir() {
			if hidden || matchAny(d.rel(path), d.opts.ExcludeGlobs) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			return d.symlink(path)
		}
		d.consider(path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// symlink follows a link found during a walk. Broken links are ignored.
// Directory targets are walked only with FollowSymlinks; the target itself
// is walked so WalkDir's Lstat cannot recurse through the link.
func (d *discoverer) symlink(path string) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil //nolint:nilerr // broken links are skipped
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // unreadable targets are skipped
	}
	if !info.IsDir() {
		d.consider(path)
		return nil
	}
	if !d.opts.FollowSymlinks {
		return nil
	}
	return d.walk(target)
}

func (d *discoverer) rel(path string) string {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		return path
	}
	return rel
}

func (d *discoverer) matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.ContainsFunc(d.extensions, func(e string) bool { return strings.ToLower(e) == ext }) {
		return false
	}

	rel := d.rel(path)
	if matchAny(rel, d.opts.ExcludeGlobs) {
		return false
	}
	return len(d.opts.IncludeGlobs) == 0 || matchAny(rel, d.opts.IncludeGlobs)
}

// Filter applies the discovery rules to single paths, for callers that
// learn about files one at a time.
type Filter struct {
	d *discoverer
}

// NewFilter builds a filter from opts.
func NewFilter(opts Options) (*Filter, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	return &Filter{d: &discoverer{workDir: workDir, opts: opts, extensions: opts.extensions()}}, nil
}

// Match reports whether a file would be discovered.
func (f *Filter) Match(path string) bool {
	path = f.abs(path)
	return !strings.HasPrefix(filepath.Base(path), ".") && f.d.matches(path)
}

// SkipDir reports whether a walk would skip the directory.
func (f *Filter) SkipDir(path string) bool {
	path = f.abs(path)
	return strings.HasPrefix(filepath.Base(path), ".") || matchAny(f.d.rel(path), f.d.opts.ExcludeGlobs)
}

func (f *Filter) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(f.d.workDir, path)
}

func matchAny(rel string, patterns []string) bool {
	return slices.ContainsFunc(patterns, func(p string) bool { return MatchGlob(rel, p) })
}

// MatchGlob matches a slash-separated relative path against a glob. Besides
// filepath.Match syntax it understands a leading "**/" (any depth), a
// trailing "/**" (everything below) and one "**" in the middle. A pattern
// without a slash also matches the base name, so "*.razor" matches at any
// depth.
func MatchGlob(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	before, after, found := strings.Cut(pattern, "**")
	if !found {
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
		ok, _ := filepath.Match(pattern, filepath.Base(path))
		return ok
	}

	prefix := strings.TrimSuffix(before, "/")
	suffix := strings.TrimPrefix(after, "/")

	switch {
	case prefix == "" && suffix == "":
		return true
	case suffix == "":
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	case prefix == "":
		return matchSuffix(path, suffix)
	default:
		return strings.HasPrefix(path, prefix+"/") && matchSuffix(strings.TrimPrefix(path, prefix+"/"), suffix)
	}
}

// matchSuffix reports whether a single segment of path, or a trailing run
// of segments, matches pattern. A pattern ending in "/**" matches any run.
func matchSuffix(path, pattern string) bool {
	inner, open := strings.CutSuffix(pattern, "/**")
	segments := strings.Split(path, "/")
	for i := range segments {
		for j := i + 1; j <= len(segments); j++ {
			if !open && j != i+1 && j != len(segments) {
				continue
			}
			if ok, _ := filepath.Match(inner, strings.Join(segments[i:j], "/")); ok {
				return true
			}
		}
	}
	return false
}
