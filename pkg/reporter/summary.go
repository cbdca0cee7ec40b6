package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gorazor/internal/ui/pretty"
	"github.com/yaklabco/gorazor/pkg/analysis"
	"github.com/yaklabco/gorazor/pkg/config"
)

// Table layout constants for summary output.
// Both tables use the same width for visual consistency.
const (
	tableWidth        = 90
	codeColWidth      = 30
	fileColWidth      = 60
	numColWidth       = 7
	warnColWidth      = 9
	maxFilePathLength = 58
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryRenderer formats reports as aggregated tables by code and by file.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer flush(bw, &err)

	if !report.Totals.HasIssues() {
		fmt.Fprintln(bw, r.styles.Success.Render("No issues found"))
		return nil
	}

	if r.opts.SummaryOrder == config.SummaryOrderFiles {
		r.renderFileTable(bw, report.ByFile)
		fmt.Fprintln(bw)
		r.renderCodeTable(bw, report.ByCode)
	} else {
		r.renderCodeTable(bw, report.ByCode)
		fmt.Fprintln(bw)
		r.renderFileTable(bw, report.ByFile)
	}

	fmt.Fprintln(bw)
	fmt.Fprint(bw, r.styles.Bold.Render("Total: ")+r.styles.FormatSummaryOneLine(report.Totals))
	return nil
}

func (r *SummaryRenderer) header(bw *bufio.Writer, title, first string, firstWidth int) {
	fmt.Fprintln(bw, r.styles.Bold.Render(title))
	fmt.Fprintln(bw, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))
	fmt.Fprintf(bw, "%s %s %s %s %s\n",
		r.styles.TableHeader.Render(padRight(first, firstWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", warnColWidth)),
		r.styles.TableHeader.Render(padLeft("Info", numColWidth)),
	)
	fmt.Fprintln(bw, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))
}

func (r *SummaryRenderer) row(bw *bufio.Writer, name string, width, issues, errors, warnings, infos int) {
	padded := padRight(name, width)
	switch {
	case errors > 0:
		padded = r.styles.TableErrorRow.Render(padded)
	case warnings > 0:
		padded = r.styles.TableWarnRow.Render(padded)
	case infos > 0:
		padded = r.styles.TableInfoRow.Render(padded)
	}

	fmt.Fprintf(bw, "%s %s %s %s %s\n",
		padded,
		padLeft(strconv.Itoa(issues), numColWidth),
		padLeft(strconv.Itoa(errors), numColWidth),
		padLeft(strconv.Itoa(warnings), warnColWidth),
		padLeft(strconv.Itoa(infos), numColWidth),
	)
}

func (r *SummaryRenderer) renderCodeTable(bw *bufio.Writer, codes []analysis.CodeAnalysis) {
	if len(codes) == 0 {
		return
	}

	r.header(bw, "Codes Summary", "Code", codeColWidth)
	for _, code := range codes {
		r.row(bw, code.Code, codeColWidth, code.Issues, code.Errors, code.Warnings, code.Infos)
	}
}

func (r *SummaryRenderer) renderFileTable(bw *bufio.Writer, files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}

	r.header(bw, "Files Summary", "File", fileColWidth)
	for _, file := range files {
		path := file.Path
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}
		r.row(bw, path, fileColWidth, file.Issues, file.Errors, file.Warnings, file.Infos)
	}
}
