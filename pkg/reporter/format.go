package reporter

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/gorazor/pkg/analysis"
)

// Format names an output format.
type Format string

const (
	FormatText    Format = "text"
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatSARIF   Format = "sarif"
	FormatSummary Format = "summary"
)

// Renderer writes an analysed report. Renderers hold no state between calls.
type Renderer interface {
	Render(ctx context.Context, report *analysis.Report) error
}

// formatEntry binds a format to its renderer and the analysis views it reads.
type formatEntry struct {
	newRenderer func(Options) Renderer
	// aggregates is set for formats that read the ByFile and ByCode views.
	aggregates bool
	// totalsOnly is set for formats that never list single diagnostics.
	totalsOnly bool
}

var formats = map[Format]formatEntry{
	FormatText:    {newRenderer: func(o Options) Renderer { return NewTextRenderer(o) }},
	FormatTable:   {newRenderer: func(o Options) Renderer { return NewTableRenderer(o) }},
	FormatJSON:    {newRenderer: func(o Options) Renderer { return NewJSONRenderer(o) }, aggregates: true},
	FormatSARIF:   {newRenderer: func(o Options) Renderer { return NewSARIFRenderer(o) }},
	FormatSummary: {newRenderer: func(o Options) Renderer { return NewSummaryRenderer(o) }, aggregates: true, totalsOnly: true},
}

// Formats returns the known formats, sorted by name.
func Formats() []Format {
	names := make([]Format, 0, len(formats))
	for f := range formats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// ParseFormat maps a flag or config value to a Format. Empty means text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	if f := Format(s); f.IsValid() {
		return f, nil
	}
	valid := make([]string, 0, len(formats))
	for _, f := range Formats() {
		valid = append(valid, string(f))
	}
	return "", fmt.Errorf("%w %q; valid formats: %s", ErrUnknownFormat, s, strings.Join(valid, ", "))
}

func (f Format) String() string {
	return string(f)
}

// IsValid reports whether f has a renderer.
func (f Format) IsValid() bool {
	_, ok := formats[f]
	return ok
}

func (e formatEntry) analysisOptions(workingDir string) analysis.Options {
	return analysis.Options{
		IncludeDiagnostics: !e.totalsOnly,
		IncludeByFile:      e.aggregates,
		IncludeByCode:      e.aggregates,
		SortBy:             analysis.SortByCount,
		SortDesc:           true,
		WorkingDir:         workingDir,
	}
}
