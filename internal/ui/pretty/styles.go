// Package pretty renders diagnostics, summaries, tables, syntax trees and
// case-book diffs with lipgloss styles.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Severity styles
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Diagnostic components
	FilePath   lipgloss.Style
	Location   lipgloss.Style
	Code       lipgloss.Style
	Message    lipgloss.Style
	Suggestion lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	// Case book mismatch diffs
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Table styles
	TableHeader    lipgloss.Style
	TableBorder    lipgloss.Style
	TableErrorRow  lipgloss.Style
	TableWarnRow   lipgloss.Style
	TableInfoRow   lipgloss.Style
	TableLegend    lipgloss.Style
	TableSeparator lipgloss.Style

	// Syntax tree dump
	TreeMarkup    lipgloss.Style
	TreeCode      lipgloss.Style
	TreeTagHelper lipgloss.Style
	TreeDetail    lipgloss.Style
	TreeText      lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles returns colored styles, or plain ones that render text
// unchanged.
func NewStyles(colorEnabled bool) *Styles {
	s := uniform(lipgloss.NewStyle())
	if !colorEnabled {
		return s
	}

	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	const (
		red     = "9"
		green   = "10"
		yellow  = "11"
		blue    = "12"
		magenta = "13"
		cyan    = "14"
		light   = "7"
		grey    = "8"
	)

	s.Bold = lipgloss.NewStyle().Bold(true)
	s.Error = fg(red).Bold(true)
	s.Warning = fg(yellow).Bold(true)
	s.Info = fg(blue).Bold(true)

	s.FilePath = s.Bold
	s.Location = fg(grey)
	s.Code = fg(grey)
	s.Suggestion = fg(green).Italic(true)
	s.SourceLine = fg(light)
	s.Caret = fg(red)

	s.DiffHeader = s.Bold
	s.DiffHunk = fg(cyan)
	s.DiffAdd = fg(green)
	s.DiffRemove = fg(red)
	s.DiffContext = fg(grey)

	s.SummaryTitle = s.Bold
	s.SummaryValue = s.Bold
	s.Success = fg(green).Bold(true)
	s.Failure = fg(red).Bold(true)

	s.TableHeader = fg(light).Bold(true)
	s.TableBorder = fg(grey)
	s.TableErrorRow = fg(red)
	s.TableWarnRow = fg(yellow)
	s.TableInfoRow = fg(blue)
	s.TableLegend = fg(grey).Italic(true)
	s.TableSeparator = fg(grey)

	s.TreeMarkup = fg(cyan)
	s.TreeCode = fg(magenta)
	s.TreeTagHelper = fg(green).Bold(true)
	s.TreeDetail = fg(grey)
	s.TreeText = fg(yellow)

	s.Dim = fg(grey)
	return s
}

// uniform returns Styles with every field set to base.
func uniform(base lipgloss.Style) *Styles {
	return &Styles{
		Error: base, Warning: base, Info: base,
		FilePath: base, Location: base, Code: base, Message: base,
		Suggestion: base, SourceLine: base, Caret: base,
		DiffHeader: base, DiffHunk: base, DiffAdd: base, DiffRemove: base, DiffContext: base,
		SummaryTitle: base, SummaryValue: base, Success: base, Failure: base,
		TableHeader: base, TableBorder: base, TableErrorRow: base, TableWarnRow: base,
		TableInfoRow: base, TableLegend: base, TableSeparator: base,
		TreeMarkup: base, TreeCode: base, TreeTagHelper: base, TreeDetail: base, TreeText: base,
		Dim:  base,
		Bold: base,
	}
}

// IsColorEnabled resolves a --color mode for w. "always" and "never" are
// absolute; anything else means auto: color on a terminal unless NO_COLOR
// is set.
func IsColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
