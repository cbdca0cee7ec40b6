// Package watch re-checks template files as they change on disk. Changes to
// a known file are offered to the incremental edit engine first; the file
// is re-parsed from scratch only when the engine rejects them.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/gorazor/internal/logging"
	"github.com/yaklabco/gorazor/pkg/check"
	"github.com/yaklabco/gorazor/pkg/runner"
)

// DefaultDebounce is the quiet period used when Options.Debounce is unset.
const DefaultDebounce = 100 * time.Millisecond

// Handler receives events in the order files were processed. It is never
// called concurrently.
type Handler func(ctx context.Context, ev Event)

// Options configures a Watcher.
type Options struct {
	// Discovery selects the watched files. Its Paths are the watch roots.
	Discovery runner.Options

	// Debounce groups bursts of file system events. Zero means
	// DefaultDebounce.
	Debounce time.Duration
}

// Watcher checks every matching file once and then again whenever it
// changes.
type Watcher struct {
	opts    Options
	filter  *runner.Filter
	session *Session
	handler Handler
}

// New creates a watcher. handler may be nil.
func New(checker *check.Checker, opts Options, handler Handler) (*Watcher, error) {
	filter, err := runner.NewFilter(opts.Discovery)
	if err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if handler == nil {
		handler = func(context.Context, Event) {}
	}
	return &Watcher{
		opts:    opts,
		filter:  filter,
		session: NewSession(checker, opts.Discovery.MaxFileSize),
		handler: handler,
	}, nil
}

// Session returns the watcher's file state.
func (w *Watcher) Session() *Session {
	return w.session
}

// Run checks the discovered files, then watches until ctx is cancelled.
// Cancellation is not an error.
func (w *Watcher) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	dirs, err := w.roots()
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := w.addTree(fsw, dir); err != nil {
			return err
		}
	}

	files, err := runner.Discover(ctx, w.opts.Discovery)
	if err != nil {
		return err
	}
	for _, path := range files {
		w.process(ctx, path)
	}
	logger.Info("watching", logging.FieldPaths, dirs, logging.FieldFiles, len(files))

	pending := map[string]bool{}
	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(event.Name)
			if event.Has(fsnotify.Create) && isDir(path) {
				if !w.filter.SkipDir(path) {
					if err := w.addTree(fsw, path); err != nil {
						logger.Warn("cannot watch directory", logging.FieldPath, path, logging.FieldError, err)
					}
					w.queueTree(path, pending)
					timer.Reset(w.opts.Debounce)
				}
				continue
			}
			if !w.filter.Match(path) {
				continue
			}
			logger.Debug("file event", logging.FieldPath, path, logging.FieldEvent, event.Op.String())
			pending[path] = true
			timer.Reset(w.opts.Debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", logging.FieldError, err)

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			clear(pending)
			slices.Sort(paths)
			for _, path := range paths {
				w.process(ctx, path)
			}
		}
	}
}

func (w *Watcher) process(ctx context.Context, path string) {
	ev, changed := w.session.Process(ctx, path)
	if !changed {
		return
	}

	logger := logging.FromContext(ctx)
	switch ev.Kind {
	case Failed:
		logger.Warn("check failed", logging.FieldPath, path, logging.FieldError, ev.Err)
	case Checked, Updated:
		logger.Debug("file "+ev.Kind.String(),
			logging.FieldPath, path,
			logging.FieldAccepted, ev.Incremental(),
			logging.FieldStatus, ev.Status.String(),
			logging.FieldDiagnostics, len(ev.Result.Diagnostics),
			logging.FieldDuration, ev.Duration,
		)
	default:
		logger.Debug("file "+ev.Kind.String(), logging.FieldPath, path)
	}
	w.handler(ctx, ev)
}

// roots returns the absolute directories to watch. A file argument is
// watched through its parent directory.
func (w *Watcher) roots() ([]string, error) {
	workDir := w.opts.Discovery.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	paths := w.opts.Discovery.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var dirs []string
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(workDir, p)
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			p = filepath.Dir(p)
		}
		p = filepath.Clean(p)
		if !slices.Contains(dirs, p) {
			dirs = append(dirs, p)
		}
	}
	return dirs, nil
}

// addTree watches root and every directory below it that discovery would
// walk.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && w.filter.SkipDir(path) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	return nil
}

// queueTree queues the files of a directory that appeared after it was
// created, since their own events may have been missed.
func (w *Watcher) queueTree(root string, pending map[string]bool) {
	//nolint:errcheck // unreadable entries are skipped
	filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // skip
		}
		if entry.IsDir() {
			if path != root && w.filter.SkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.filter.Match(path) {
			pending[path] = true
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
