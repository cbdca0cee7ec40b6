package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gorazor/pkg/analysis"
)

const summaryDividerWidth = 40

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run totals as a single line, e.g.
// "5 issues (3 errors, 2 warnings) in 2 files".
func (s *Styles) FormatSummaryOneLine(totals analysis.Totals) string {
	if totals.Issues == 0 {
		return s.Success.Render("No issues found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", totals.Files, plural(totals.Files, "file", "files"))) + "\n"
	}

	var severities []string
	if totals.Errors > 0 {
		severities = append(severities, s.Error.Render(fmt.Sprintf("%d %s", totals.Errors, plural(totals.Errors, "error", "errors"))))
	}
	if totals.Warnings > 0 {
		severities = append(severities, s.Warning.Render(fmt.Sprintf("%d %s", totals.Warnings, plural(totals.Warnings, "warning", "warnings"))))
	}
	if totals.Infos > 0 {
		severities = append(severities, s.Info.Render(fmt.Sprintf("%d info", totals.Infos)))
	}

	line := fmt.Sprintf("%d %s", totals.Issues, plural(totals.Issues, "issue", "issues"))
	if len(severities) > 0 {
		line += " (" + strings.Join(severities, ", ") + ")"
	}
	line += fmt.Sprintf(" in %d %s", totals.FilesWithIssues, plural(totals.FilesWithIssues, "file", "files"))

	if totals.FilesErrored > 0 {
		line += ", " + s.Failure.Render(fmt.Sprintf("%d unreadable", totals.FilesErrored))
	}
	return line + "\n"
}

// FormatSummary formats run totals as a summary block.
func (s *Styles) FormatSummary(totals analysis.Totals) string {
	var builder strings.Builder

	row := func(label, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label, value))
	}

	builder.WriteString("\n" + s.SummaryTitle.Render("Summary") + "\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth) + "\n")

	row("Files checked:", s.SummaryValue.Render(strconv.Itoa(totals.Files)))
	if totals.FilesWithIssues > 0 {
		row("Files with issues:", s.Failure.Render(strconv.Itoa(totals.FilesWithIssues)))
	}
	if totals.FilesSkipped > 0 {
		row("Files skipped:", s.Dim.Render(strconv.Itoa(totals.FilesSkipped)))
	}
	if totals.FilesErrored > 0 {
		row("Files unreadable:", s.Failure.Render(strconv.Itoa(totals.FilesErrored)))
	}
	builder.WriteString("\n")

	row("Total issues:", s.SummaryValue.Render(strconv.Itoa(totals.Issues)))
	if totals.Errors > 0 {
		row("  Errors:", s.Error.Render(strconv.Itoa(totals.Errors)))
	}
	if totals.Warnings > 0 {
		row("  Warnings:", s.Warning.Render(strconv.Itoa(totals.Warnings)))
	}
	if totals.Infos > 0 {
		row("  Info:", s.Info.Render(strconv.Itoa(totals.Infos)))
	}
	builder.WriteString("\n")

	switch {
	case totals.Errors > 0:
		builder.WriteString(s.Failure.Render("Check failed with errors"))
	case totals.Warnings > 0:
		builder.WriteString(s.Warning.Render("Check completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Check passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
