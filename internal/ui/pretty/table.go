package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gorazor/pkg/analysis"
	"github.com/yaklabco/gorazor/pkg/diag"
)

// Table formatting constants.
const (
	tablePadding     = 2
	minFileWidth     = 20
	minLocWidth      = 8
	minMessageWidth  = 35
	minCodeWidth     = 6
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
)

// TableRow is one diagnostic in the table.
type TableRow struct {
	File     string
	Location string
	Message  string
	Code     string
	Severity diag.Severity
}

// RowFromEntry converts a report entry to a table row.
func RowFromEntry(entry *analysis.DiagnosticEntry) TableRow {
	return TableRow{
		File:     entry.FilePath,
		Location: fmt.Sprintf("%d:%d", entry.StartLine, entry.StartColumn),
		Message:  entry.Message,
		Code:     entry.Code,
		Severity: diag.Severity(entry.Severity),
	}
}

// TableFormatter formats diagnostics as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a table formatter. A non-positive termWidth
// uses a default.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, colorEnabled: colorEnabled, termWidth: termWidth}
}

// columns describes the table layout. file is 0 in per-file tables.
type columns struct {
	file, loc, message, code int
}

func (c columns) total() int {
	n := c.loc + c.message + c.code + tablePadding*3
	if c.file > 0 {
		n += c.file + tablePadding
	}
	return n
}

// FormatTable formats every diagnostic of a report in one table, grouped by
// file.
func (t *TableFormatter) FormatTable(report *analysis.Report) string {
	groups := groupRows(report)
	if len(groups) == 0 {
		return ""
	}

	cols := t.layout(groups, true)

	var builder strings.Builder
	builder.WriteString(t.header(cols) + "\n")
	builder.WriteString(t.separator(cols, heavySeparator) + "\n")
	for i, group := range groups {
		if i > 0 {
			builder.WriteString(t.separator(cols, lightSeparator) + "\n")
		}
		for _, row := range group {
			builder.WriteString(t.row(row, cols) + "\n")
		}
	}
	builder.WriteString(t.separator(cols, heavySeparator) + "\n")
	builder.WriteString(t.legend() + "\n")
	return builder.String()
}

// FormatFileTables formats one table per file, the file name as heading.
func (t *TableFormatter) FormatFileTables(report *analysis.Report) string {
	var builder strings.Builder
	for _, rows := range groupRows(report) {
		cols := t.layout([][]TableRow{rows}, false)

		builder.WriteString(t.styles.FilePath.Render(rows[0].File) + "\n")
		builder.WriteString(t.header(cols) + "\n")
		builder.WriteString(t.separator(cols, heavySeparator) + "\n")
		for _, row := range rows {
			builder.WriteString(t.row(row, cols) + "\n")
		}
		builder.WriteString(t.separator(cols, heavySeparator) + "\n")
		builder.WriteString(t.fileSummary(rows) + "\n\n")
	}
	return builder.String()
}

// FormatTableSummary formats the closing line of table output.
func (t *TableFormatter) FormatTableSummary(totals analysis.Totals, duration string) string {
	parts := []string{fmt.Sprintf("%d files checked", totals.Files)}
	if totals.Errors > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d errors", totals.Errors)))
	}
	if totals.Warnings > 0 {
		parts = append(parts, t.styles.Warning.Render(fmt.Sprintf("%d warnings", totals.Warnings)))
	}
	if totals.Infos > 0 {
		parts = append(parts, t.styles.Info.Render(fmt.Sprintf("%d info", totals.Infos)))
	}
	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}
	return " " + strings.Join(parts, " | ")
}

func groupRows(report *analysis.Report) [][]TableRow {
	if report == nil {
		return nil
	}

	var groups [][]TableRow
	for i := range report.Diagnostics {
		row := RowFromEntry(&report.Diagnostics[i])
		if n := len(groups); n > 0 && groups[n-1][0].File == row.File {
			groups[n-1] = append(groups[n-1], row)
			continue
		}
		groups = append(groups, []TableRow{row})
	}
	return groups
}

// layout sizes columns to their content, then shrinks the message and file
// columns to fit the terminal.
func (t *TableFormatter) layout(groups [][]TableRow, withFile bool) columns {
	cols := columns{loc: minLocWidth, message: minMessageWidth, code: minCodeWidth}
	if withFile {
		cols.file = minFileWidth
	}

	for _, group := range groups {
		for _, row := range group {
			if withFile {
				cols.file = max(cols.file, len(row.File))
			}
			cols.loc = max(cols.loc, len(row.Location))
			cols.message = max(cols.message, len(row.Message))
			cols.code = max(cols.code, len(row.Code))
		}
	}

	if excess := cols.total() - t.termWidth; excess > 0 {
		cols.message = max(minMessageWidth, cols.message-excess)
	}
	if excess := cols.total() - t.termWidth; excess > 0 && withFile {
		cols.file = max(minFileWidth, cols.file-excess)
	}
	return cols
}

func (t *TableFormatter) header(cols columns) string {
	var header string
	if cols.file > 0 {
		header = fmt.Sprintf(" %-*s  ", cols.file, "FILE")
	} else {
		header = " "
	}
	header += fmt.Sprintf("%-*s  %-*s  %-*s ", cols.loc, "LOC", cols.message, "MESSAGE", cols.code, "CODE")
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) separator(cols columns, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, cols.total()))
}

func (t *TableFormatter) row(row TableRow, cols columns) string {
	var content string
	if cols.file > 0 {
		content = fmt.Sprintf(" %-*s  ", cols.file, truncateFilePath(row.File, cols.file))
	} else {
		content = " "
	}
	content += fmt.Sprintf("%-*s  %-*s  %-*s ",
		cols.loc, truncateString(row.Location, cols.loc),
		cols.message, truncateString(row.Message, cols.message),
		cols.code, truncateString(row.Code, cols.code),
	)
	return t.rowStyle(row.Severity).Render(content)
}

func (t *TableFormatter) rowStyle(severity diag.Severity) lipgloss.Style {
	switch severity {
	case diag.SeverityError:
		return t.styles.TableErrorRow
	case diag.SeverityWarning:
		return t.styles.TableWarnRow
	case diag.SeverityInfo:
		return t.styles.TableInfoRow
	default:
		return lipgloss.NewStyle()
	}
}

func (t *TableFormatter) fileSummary(rows []TableRow) string {
	var errors, warnings, infos int
	for _, row := range rows {
		switch row.Severity {
		case diag.SeverityError:
			errors++
		case diag.SeverityWarning:
			warnings++
		case diag.SeverityInfo:
			infos++
		}
	}

	var parts []string
	if errors > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d errors", errors)))
	}
	if warnings > 0 {
		parts = append(parts, t.styles.Warning.Render(fmt.Sprintf("%d warnings", warnings)))
	}
	if infos > 0 {
		parts = append(parts, t.styles.Info.Render(fmt.Sprintf("%d info", infos)))
	}
	return " " + strings.Join(parts, " | ")
}

func (t *TableFormatter) legend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(" Legend: rows are ordered by file, then position")
	}
	return t.styles.TableLegend.Render(fmt.Sprintf(" Legend: %s = error  %s = warning  %s = info",
		t.styles.TableErrorRow.Render(" error "),
		t.styles.TableWarnRow.Render(" warning "),
		t.styles.TableInfoRow.Render(" info "),
	))
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath keeps the end of a path, where the file name is.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
