package runner

import (
	"time"

	"github.com/yaklabco/gorazor/pkg/check"
	"github.com/yaklabco/gorazor/pkg/diag"
)

// FileOutcome is the result of checking one file.
type FileOutcome struct {
	// Path is the absolute file path.
	Path string

	// Result is nil when Error is set or the file was skipped.
	Result *check.Result

	// Skipped is set for files over the size limit.
	Skipped bool

	// Error is set if the file could not be read or parsed.
	Error error
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesSkipped    int
	FilesErrored    int
	FilesWithIssues int

	// DiagnosticsTotal counts diagnostics after filtering.
	DiagnosticsTotal int

	// DiagnosticsBySeverity maps severity names to counts.
	DiagnosticsBySeverity map[string]int

	// DiagnosticsByCode maps diagnostic codes to counts.
	DiagnosticsByCode map[string]int

	Duration time.Duration
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome

	Stats Stats
}

// HasFailures reports whether any error diagnostics occurred.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsBySeverity[string(diag.SeverityError)] > 0
}

// HasWarnings reports whether any warning diagnostics occurred.
func (r *Result) HasWarnings() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsBySeverity[string(diag.SeverityWarning)] > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsTotal > 0
}

// Diagnostics returns every diagnostic of the run in file order.
func (r *Result) Diagnostics() []diag.Diagnostic {
	if r == nil {
		return nil
	}
	var out []diag.Diagnostic
	for _, f := range r.Files {
		if f.Result != nil {
			out = append(out, f.Result.Diagnostics...)
		}
	}
	return out
}

func newStats() Stats {
	return Stats{
		DiagnosticsBySeverity: make(map[string]int),
		DiagnosticsByCode:     make(map[string]int),
	}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Error != nil:
		r.Stats.FilesErrored++
		return
	case outcome.Skipped:
		r.Stats.FilesSkipped++
		return
	case outcome.Result == nil:
		return
	}

	r.Stats.FilesProcessed++
	diags := outcome.Result.Diagnostics
	r.Stats.DiagnosticsTotal += len(diags)
	if len(diags) > 0 {
		r.Stats.FilesWithIssues++
	}
	for _, d := range diags {
		r.Stats.DiagnosticsBySeverity[string(d.Severity)]++
		r.Stats.DiagnosticsByCode[d.Code]++
	}
}
