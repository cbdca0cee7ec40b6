package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gorazor/internal/ui/pretty"
	"github.com/yaklabco/gorazor/pkg/analysis"
)

// TextRenderer formats reports as styled terminal output.
type TextRenderer struct {
	opts   Options
	styles *pretty.Styles
}

// NewTextRenderer creates a new text renderer.
func NewTextRenderer(opts Options) *TextRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
	}
}

// Render implements Renderer.
func (r *TextRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer flush(bw, &err)

	if report.Totals.Files == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(bw, r.styles.Success.Render("No files to check."))
		}
		return nil
	}

	for _, failure := range report.Failures {
		fmt.Fprintf(bw, "%s: %s\n",
			r.styles.FilePath.Render(failure.Path),
			r.styles.Error.Render("error: "+failure.Error),
		)
	}

	if r.opts.GroupByFile {
		r.renderGrouped(bw, report.Diagnostics)
	} else {
		for i := range report.Diagnostics {
			fmt.Fprint(bw, r.styles.FormatDiagnostic(&report.Diagnostics[i], r.opts.ShowContext))
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(bw, r.styles.FormatSummaryOneLine(report.Totals))
	}

	return nil
}

// renderGrouped writes one header per file followed by its diagnostics.
// Entries arrive ordered by file.
func (r *TextRenderer) renderGrouped(bw *bufio.Writer, entries []analysis.DiagnosticEntry) {
	for start := 0; start < len(entries); {
		end := start
		for end < len(entries) && entries[end].FilePath == entries[start].FilePath {
			end++
		}

		fmt.Fprintln(bw, r.styles.FormatFileHeader(entries[start].FilePath, end-start))
		for i := start; i < end; i++ {
			fmt.Fprint(bw, r.styles.FormatDiagnostic(&entries[i], r.opts.ShowContext))
		}
		fmt.Fprintln(bw)

		start = end
	}
}
