package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/yaklabco/gorazor/internal/logging"
	"github.com/yaklabco/gorazor/pkg/check"
	"github.com/yaklabco/gorazor/pkg/fsutil"
)

// Runner checks discovered files with a shared Checker.
type Runner struct {
	Checker *check.Checker
}

// New creates a runner.
func New(checker *check.Checker) *Runner {
	return &Runner{Checker: checker}
}

// Run discovers files under opts.Paths and checks them on a worker pool.
// Outcomes are ordered by path regardless of completion order. A cancelled
// context stops the run and returns the outcomes collected so far.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))
	logger.Debug("checking files", logging.FieldFiles, len(files), logging.FieldJobs, jobs)

	// Each index is written by exactly one worker.
	outcomes := make([]FileOutcome, len(files))
	checked := make([]bool, len(files))
	maxSize := opts.maxFileSize()

	work := make(chan int)
	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				if ctx.Err() != nil {
					continue
				}
				outcomes[i] = r.checkFile(ctx, files[i], maxSize)
				checked[i] = true
			}
		}()
	}

feed:
	for i := range files {
		select {
		case <-ctx.Done():
			break feed
		case work <- i:
		}
	}
	close(work)
	wg.Wait()

	for i, outcome := range outcomes {
		if checked[i] {
			result.accumulate(outcome)
		}
	}
	result.Stats.Duration = time.Since(started)

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}

func (r *Runner) checkFile(ctx context.Context, path string, maxSize int64) FileOutcome {
	outcome := FileOutcome{Path: path}

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	if info.Size > maxSize {
		logging.FromContext(ctx).Warn("skipping large file", logging.FieldPath, path, logging.FieldSize, info.Size)
		outcome.Skipped = true
		return outcome
	}

	res, err := r.Checker.Check(ctx, path, content)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Result = res
	return outcome
}
