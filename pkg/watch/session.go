package watch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/yaklabco/gorazor/pkg/check"
	"github.com/yaklabco/gorazor/pkg/edit"
	"github.com/yaklabco/gorazor/pkg/fsutil"
	"github.com/yaklabco/gorazor/pkg/runner"
)

// Kind classifies an Event.
type Kind int

const (
	// Checked means the file was checked for the first time.
	Checked Kind = iota
	// Updated means a known file changed and was re-checked.
	Updated
	// Removed means a known file disappeared.
	Removed
	// Skipped means the file exceeds the size limit.
	Skipped
	// Failed means the file could not be read or parsed.
	Failed
)

func (k Kind) String() string {
	switch k {
	case Checked:
		return "checked"
	case Updated:
		return "updated"
	case Removed:
		return "removed"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event reports what happened to one file.
type Event struct {
	Kind Kind
	Path string

	// Status is the incremental engine's verdict for Updated events.
	// Anything without edit.Accepted was re-parsed from scratch.
	Status edit.Status

	// Result is set for Checked and Updated events.
	Result *check.Result

	// Err is set for Failed events.
	Err error

	Duration time.Duration
}

// Incremental reports whether the engine took the change in place.
func (e Event) Incremental() bool {
	return e.Kind == Updated && e.Status.Has(edit.Accepted)
}

type entry struct {
	result *check.Result
	info   *fsutil.FileInfo
}

// Session remembers the last result of every file it has seen so that
// later versions can be offered to the incremental engine. It is safe for
// concurrent use.
type Session struct {
	checker *check.Checker
	maxSize int64

	mu    sync.Mutex
	files map[string]*entry
}

// NewSession creates a session. maxSize limits the files it reads; zero
// means runner.DefaultMaxFileSize.
func NewSession(checker *check.Checker, maxSize int64) *Session {
	if maxSize <= 0 {
		maxSize = runner.DefaultMaxFileSize
	}
	return &Session{checker: checker, maxSize: maxSize, files: map[string]*entry{}}
}

// Process brings path up to date. It returns false when the file is known
// and unchanged on disk, or unknown and missing.
func (s *Session) Process(ctx context.Context, path string) (Event, bool) {
	started := time.Now()

	s.mu.Lock()
	prev := s.files[path]
	s.mu.Unlock()

	if prev != nil {
		modified, err := fsutil.CheckModified(ctx, prev.info)
		if err == nil && !modified {
			return Event{}, false
		}
	}

	content, info, err := fsutil.ReadFile(ctx, path)
	switch {
	case errors.Is(err, fsutil.ErrNotFound):
		if prev == nil {
			return Event{}, false
		}
		s.forget(path)
		return Event{Kind: Removed, Path: path, Duration: time.Since(started)}, true
	case err != nil:
		s.forget(path)
		return Event{Kind: Failed, Path: path, Err: err, Duration: time.Since(started)}, true
	case info.Size > s.maxSize:
		s.forget(path)
		return Event{Kind: Skipped, Path: path, Duration: time.Since(started)}, true
	}

	ev := Event{Kind: Checked, Path: path}
	if prev == nil {
		ev.Result, err = s.checker.Check(ctx, path, content)
	} else {
		ev.Kind = Updated
		ev.Result, ev.Status, err = s.checker.Update(ctx, prev.result, string(content))
	}
	ev.Duration = time.Since(started)
	if err != nil {
		s.forget(path)
		return Event{Kind: Failed, Path: path, Err: fmt.Errorf("check %s: %w", path, err), Duration: ev.Duration}, true
	}

	s.mu.Lock()
	s.files[path] = &entry{result: ev.Result, info: info}
	s.mu.Unlock()
	return ev, true
}

// Result returns the last result for path, or nil.
func (s *Session) Result(path string) *check.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.files[path]; e != nil {
		return e.result
	}
	return nil
}

// Paths returns the tracked files in sorted order.
func (s *Session) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.files))
	for path := range s.files {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}

func (s *Session) forget(path string) {
	s.mu.Lock()
	delete(s.files, path)
	s.mu.Unlock()
}
