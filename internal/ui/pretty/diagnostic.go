package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gorazor/pkg/analysis"
	"github.com/yaklabco/gorazor/pkg/diag"
)

// FormatDiagnostic formats a single diagnostic for terminal output:
//
//	path:line:col  severity  message  (RZ1025)
//
// followed by the source line and a caret when showContext is set.
func (s *Styles) FormatDiagnostic(entry *analysis.DiagnosticEntry, showContext bool) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(entry.FilePath), entry.StartLine, entry.StartColumn)
	fmt.Fprintf(&builder, "  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity(entry.Severity)),
		s.Message.Render(entry.Message),
		s.Code.Render("("+entry.Code+")"),
	)

	if showContext && entry.SourceLine != "" {
		width := 1
		if entry.EndLine == entry.StartLine && entry.EndColumn > entry.StartColumn {
			width = entry.EndColumn - entry.StartColumn
		}
		builder.WriteString(s.FormatSourceContext(entry.SourceLine, entry.StartColumn, width))
	}

	if entry.Suggestion != "" {
		builder.WriteString("    " + s.Dim.Render("Suggestion:") + " " + s.Suggestion.Render(entry.Suggestion) + "\n")
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev diag.Severity) string {
	switch sev {
	case diag.SeverityError:
		return s.Error.Render("error")
	case diag.SeverityWarning:
		return s.Warning.Render("warning")
	case diag.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatSourceContext formats the source line with carets under width bytes
// starting at the one-based column.
func (s *Styles) FormatSourceContext(line string, column, width int) string {
	const indent = "        "

	var builder strings.Builder
	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		width = max(1, min(width, len(line)-column+1))
		builder.WriteString(indent + strings.Repeat(" ", column-1) + s.Caret.Render(strings.Repeat("^", width)) + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	switch issueCount {
	case 0:
	case 1:
		header += s.Dim.Render(" (1 issue)")
	default:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}
