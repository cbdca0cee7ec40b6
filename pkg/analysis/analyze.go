package analysis

import (
	"cmp"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/runner"
	"github.com/yaklabco/gorazor/pkg/source"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

func relativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	rel, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return rel
}

// counts is the severity tally shared by files, codes and totals.
type counts struct{ errors, warnings, infos *int }

func (c counts) add(s diag.Severity) {
	switch s {
	case diag.SeverityError:
		*c.errors++
	case diag.SeverityWarning:
		*c.warnings++
	case diag.SeverityInfo:
		*c.infos++
	}
}

type aggregator struct {
	files     map[string]*FileAnalysis
	codes     map[string]*CodeAnalysis
	fileCodes map[string]map[string]bool
	codeFiles map[string]map[string]bool
}

func (a *aggregator) file(path string) *FileAnalysis {
	fa, ok := a.files[path]
	if !ok {
		fa = &FileAnalysis{Path: path}
		a.files[path] = fa
		a.fileCodes[path] = make(map[string]bool)
	}
	return fa
}

func (a *aggregator) code(code string) *CodeAnalysis {
	ca, ok := a.codes[code]
	if !ok {
		ca = &CodeAnalysis{Code: code}
		a.codes[code] = ca
		a.codeFiles[code] = make(map[string]bool)
	}
	return ca
}

// Analyze turns a runner result into a Report in a single pass.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{Version: ReportVersion, Timestamp: time.Now()}
	if result == nil {
		return report
	}

	agg := &aggregator{
		files:     make(map[string]*FileAnalysis),
		codes:     make(map[string]*CodeAnalysis),
		fileCodes: make(map[string]map[string]bool),
		codeFiles: make(map[string]map[string]bool),
	}
	totals := &report.Totals

	for _, file := range result.Files {
		totals.Files++
		switch {
		case file.Error != nil:
			totals.FilesErrored++
			report.Failures = append(report.Failures, FileFailure{
				Path:  relativePath(file.Path, opts.WorkingDir),
				Error: file.Error.Error(),
			})
			continue
		case file.Skipped:
			totals.FilesSkipped++
			continue
		case file.Result == nil:
			continue
		}

		diags := file.Result.Diagnostics
		if len(diags) == 0 {
			continue
		}
		totals.FilesWithIssues++

		path := relativePath(file.Path, opts.WorkingDir)
		fa := agg.file(path)
		for i := range diags {
			d := &diags[i]
			ca := agg.code(d.Code)

			totals.Issues++
			fa.Issues++
			ca.Issues++
			counts{&totals.Errors, &totals.Warnings, &totals.Infos}.add(d.Severity)
			counts{&fa.Errors, &fa.Warnings, &fa.Infos}.add(d.Severity)
			counts{&ca.Errors, &ca.Warnings, &ca.Infos}.add(d.Severity)
			agg.fileCodes[path][d.Code] = true
			agg.codeFiles[d.Code][path] = true

			if opts.IncludeDiagnostics {
				report.Diagnostics = append(report.Diagnostics, NewEntry(path, file.Result.Document, d))
			}
		}
	}

	if opts.IncludeByCode {
		report.ByCode = make([]CodeAnalysis, 0, len(agg.codes))
		for code, ca := range agg.codes {
			ca.Files = slices.Sorted(maps.Keys(agg.codeFiles[code]))
			report.ByCode = append(report.ByCode, *ca)
		}
		sortBy(report.ByCode, opts, func(c CodeAnalysis) (string, int, int, int) {
			return c.Code, c.Errors, c.Warnings, c.Issues
		})
	}
	if opts.IncludeByFile {
		report.ByFile = make([]FileAnalysis, 0, len(agg.files))
		for path, fa := range agg.files {
			fa.Codes = slices.Sorted(maps.Keys(agg.fileCodes[path]))
			report.ByFile = append(report.ByFile, *fa)
		}
		sortBy(report.ByFile, opts, func(f FileAnalysis) (string, int, int, int) {
			return f.Path, f.Errors, f.Warnings, f.Issues
		})
	}

	return report
}

// NewEntry converts a diagnostic to a report entry. doc supplies the end
// position and the source line; it may be nil.
func NewEntry(path string, doc *source.Document, d *diag.Diagnostic) DiagnosticEntry {
	entry := DiagnosticEntry{
		FilePath:    path,
		Code:        d.Code,
		Severity:    string(d.Severity),
		Message:     d.Message,
		StartLine:   d.Span.Line + 1,
		StartColumn: d.Span.Column + 1,
		EndLine:     d.Span.Line + 1,
		EndColumn:   d.Span.Column + 1 + d.Span.Length,
		Offset:      d.Span.AbsoluteIndex,
		Length:      d.Span.Length,
		Suggestion:  d.Suggestion,
	}
	if doc != nil {
		end := doc.Location(d.Span.End())
		entry.EndLine = end.Line + 1
		entry.EndColumn = end.Column + 1
		entry.SourceLine = doc.LineContent(d.Span.Line)
	}
	return entry
}

// sortBy orders views. Alphabetical order is always ascending and severity
// order always puts errors first; SortDesc only affects count order.
func sortBy[T any](items []T, opts Options, key func(T) (name string, errors, warnings, issues int)) {
	slices.SortFunc(items, func(left, right T) int {
		ln, le, lw, li := key(left)
		rn, re, rw, ri := key(right)

		var result int
		switch opts.SortBy {
		case SortByAlpha:
			return cmp.Compare(ln, rn)
		case SortBySeverity:
			result = cmp.Or(cmp.Compare(re, le), cmp.Compare(rw, lw), cmp.Compare(ri, li))
		default:
			result = cmp.Compare(li, ri)
			if opts.SortDesc {
				result = -result
			}
		}
		return cmp.Or(result, cmp.Compare(ln, rn))
	})
}
