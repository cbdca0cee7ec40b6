// Package analysis aggregates a check run into per-file and per-code views
// shared by the reporters.
package analysis

import "slices"

// SortField orders the ByFile and ByCode views.
type SortField string

const (
	SortByCount    SortField = "count"
	SortByAlpha    SortField = "alpha"
	SortBySeverity SortField = "severity"
)

var sortFields = []SortField{SortByCount, SortByAlpha, SortBySeverity}

// IsValid reports whether s names a known ordering.
func (s SortField) IsValid() bool {
	return slices.Contains(sortFields, s)
}

// Options selects which views Analyze builds and how they are ordered.
// Paths are made relative to WorkingDir when it is set.
type Options struct {
	IncludeDiagnostics bool
	IncludeByFile      bool
	IncludeByCode      bool

	SortBy   SortField
	SortDesc bool

	WorkingDir string
}

// DefaultOptions builds every view, most issues first.
func DefaultOptions() Options {
	return Options{
		IncludeDiagnostics: true,
		IncludeByFile:      true,
		IncludeByCode:      true,
		SortBy:             SortByCount,
		SortDesc:           true,
	}
}
