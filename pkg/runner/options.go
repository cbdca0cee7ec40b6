// Package runner checks many template files concurrently.
package runner

import "github.com/yaklabco/gorazor/pkg/config"

// Options controls a multi-file run.
type Options struct {
	// Paths are the user-specified files or directories. Empty means the
	// working directory.
	Paths []string

	// WorkingDir is the base for relative Paths and glob matching. Empty
	// means the process working directory.
	WorkingDir string

	// Extensions are the template file extensions, lower-case with a leading
	// dot. Empty means config.DefaultExtensions().
	Extensions []string

	// IncludeGlobs restrict discovery to matching files when non-empty.
	IncludeGlobs []string

	// ExcludeGlobs skip matching files and directories. They merge the
	// configured ignore list with --ignore.
	ExcludeGlobs []string

	// FollowSymlinks walks into symlinked directories.
	FollowSymlinks bool

	// Jobs is the worker count. 0 or negative means runtime.NumCPU().
	Jobs int

	// MaxFileSize skips larger files. 0 means DefaultMaxFileSize.
	MaxFileSize int64
}

// DefaultMaxFileSize is the largest template read when Options.MaxFileSize is
// unset.
const DefaultMaxFileSize int64 = 8 << 20

// OptionsFromConfig fills discovery options from cfg.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{Paths: paths}
	if cfg == nil {
		return opts
	}
	opts.Extensions = cfg.Extensions
	opts.ExcludeGlobs = cfg.Ignore
	opts.Jobs = cfg.Jobs
	return opts
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return config.DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) paths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) maxFileSize() int64 {
	if o.MaxFileSize <= 0 {
		return DefaultMaxFileSize
	}
	return o.MaxFileSize
}
