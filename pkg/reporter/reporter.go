// Package reporter renders check results as text, tables, JSON, SARIF and
// summaries.
package reporter

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/gorazor/pkg/analysis"
	"github.com/yaklabco/gorazor/pkg/runner"
)

// ErrUnknownFormat is returned for an output format that does not exist.
var ErrUnknownFormat = errors.New("unknown format")

// Compile-time interface check for reporterFacade.
var _ Reporter = (*reporterFacade)(nil)

// Reporter formats and writes check results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of issues reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// reporterFacade bridges the Reporter interface to Renderer implementations.
type reporterFacade struct {
	renderer     Renderer
	analysisOpts analysis.Options
}

// Report implements Reporter by analyzing the result and rendering it.
func (f *reporterFacade) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, f.analysisOpts)
	if err := f.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Issues, nil
}

// New creates a Reporter for opts.Format, writing to stdout when
// opts.Writer is nil.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}

	entry, ok := formats[opts.Format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, opts.Format)
	}

	return &reporterFacade{
		renderer:     entry.newRenderer(opts),
		analysisOpts: entry.analysisOptions(opts.WorkingDir),
	}, nil
}

// flush flushes a buffered writer into *err unless an error is already set.
func flush(w interface{ Flush() error }, err *error) {
	if flushErr := w.Flush(); *err == nil {
		*err = flushErr
	}
}
