package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/pkg/check"
	"github.com/yaklabco/gorazor/pkg/runner"
	"github.com/yaklabco/gorazor/pkg/watch"
)

const eventTimeout = 5 * time.Second

// waitFor returns the first event for path that satisfies match. Writes
// may surface as several events, so earlier ones are skipped.
func waitFor(t *testing.T, events <-chan watch.Event, path string, match func(watch.Event) bool) watch.Event {
	t.Helper()

	deadline := time.After(eventTimeout)
	for {
		select {
		case ev := <-events:
			if ev.Path == path && match(ev) {
				return ev
			}
		case <-deadline:
			t.Fatalf("no event for %s", path)
		}
	}
}

func hasText(text string) func(watch.Event) bool {
	return func(ev watch.Event) bool {
		return ev.Result != nil && ev.Result.Tree.Text() == text
	}
}

func TestWatcher_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "a.cshtml")
	writeFile(t, first, "<p>@foo</p>")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	events := make(chan watch.Event, 16)
	w, err := watch.New(check.New(check.Options{}), watch.Options{
		Discovery: runner.Options{WorkingDir: dir},
		Debounce:  20 * time.Millisecond,
	}, func(_ context.Context, ev watch.Event) {
		events <- ev
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	ev := waitFor(t, events, first, func(watch.Event) bool { return true })
	assert.Equal(t, watch.Checked, ev.Kind)

	writeFile(t, first, "<p>@foob</p>")
	ev = waitFor(t, events, first, hasText("<p>@foob</p>"))
	assert.Equal(t, watch.Updated, ev.Kind)

	sub := filepath.Join(dir, "Views")
	require.NoError(t, os.Mkdir(sub, 0o755))
	second := filepath.Join(sub, "b.razor")
	writeFile(t, second, "<b>x</b>")
	waitFor(t, events, second, hasText("<b>x</b>"))

	require.NoError(t, os.Remove(first))
	waitFor(t, events, first, func(ev watch.Event) bool { return ev.Kind == watch.Removed })

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(eventTimeout):
		t.Fatal("watcher did not stop")
	}
	assert.Equal(t, []string{second}, w.Session().Paths())
}

func TestWatcher_MissingRoot(t *testing.T) {
	t.Parallel()

	w, err := watch.New(check.New(check.Options{}), watch.Options{
		Discovery: runner.Options{WorkingDir: t.TempDir(), Paths: []string{"missing"}},
	}, nil)
	require.NoError(t, err)
	require.Error(t, w.Run(context.Background()))
}
