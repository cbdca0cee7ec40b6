package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"github.com/yaklabco/gorazor/internal/ui/pretty"
	"github.com/yaklabco/gorazor/pkg/analysis"
)

// defaultTermWidth is used when terminal width cannot be determined.
const defaultTermWidth = 100

// TableRenderer formats reports as a styled table with color-coded rows.
type TableRenderer struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
}

// NewTableRenderer creates a new table renderer.
func NewTableRenderer(opts Options) *TableRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)

	return &TableRenderer{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, colorEnabled, terminalWidth(opts.Writer)),
	}
}

// Render implements Renderer.
func (r *TableRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer flush(bw, &err)

	if report.Totals.Files == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(bw, r.styles.Success.Render("No files to check."))
		}
		return nil
	}

	if !report.Totals.HasIssues() {
		if r.opts.ShowSummary {
			fmt.Fprintln(bw, r.styles.Success.Render("All files passed!"))
			fmt.Fprintln(bw, r.styles.Dim.Render(fmt.Sprintf("%d files checked", report.Totals.Files)))
		}
		return nil
	}

	if r.opts.PerFile {
		fmt.Fprint(bw, r.formatter.FormatFileTables(report))
		if r.opts.ShowSummary {
			fmt.Fprintln(bw, r.styles.TableSeparator.Render(strings.Repeat("═", defaultTermWidth)))
			fmt.Fprintln(bw, r.styles.Bold.Render("Overall Summary"))
		}
	} else {
		fmt.Fprint(bw, r.formatter.FormatTable(report))
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(bw, r.formatter.FormatTableSummary(report.Totals, ""))
	}
	return nil
}

// terminalWidth attempts to get the terminal width from the writer.
func terminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
