package analysis

import "time"

// Report is the output of Analyze shared by every renderer. ByFile and
// ByCode are only filled when requested; Failures lists files that could
// not be read or checked.
type Report struct {
	Diagnostics []DiagnosticEntry `json:"diagnostics"`
	ByFile      []FileAnalysis    `json:"byFile,omitempty"`
	ByCode      []CodeAnalysis    `json:"byCode,omitempty"`
	Failures    []FileFailure     `json:"failures,omitempty"`
	Totals      Totals            `json:"summary"`
	Version     string            `json:"version"`
	Timestamp   time.Time         `json:"timestamp"`
}

// DiagnosticEntry is one diagnostic with one-based positions.
type DiagnosticEntry struct {
	FilePath    string `json:"filePath"`
	Code        string `json:"code"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
	Offset      int    `json:"offset"`
	Length      int    `json:"length"`
	Suggestion  string `json:"suggestion,omitempty"`

	// SourceLine is the text of the start line, for renderers that show
	// context.
	SourceLine string `json:"-"`
}

// FileFailure is a file the run could not check.
type FileFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Totals counts files and diagnostics across the run.
type Totals struct {
	Files           int `json:"filesChecked"`
	FilesWithIssues int `json:"filesWithIssues"`
	FilesSkipped    int `json:"filesSkipped"`
	FilesErrored    int `json:"filesErrored"`
	Issues          int `json:"totalIssues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Infos           int `json:"infos"`
}

func (t Totals) HasIssues() bool { return t.Issues > 0 }

func (t Totals) HasErrors() bool { return t.Errors > 0 }

// FileAnalysis is one row of the per-file view. Codes is sorted.
type FileAnalysis struct {
	Path     string   `json:"path"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
	Codes    []string `json:"codes,omitempty"`
}

// CodeAnalysis is one row of the per-code view. Files is sorted.
type CodeAnalysis struct {
	Code     string   `json:"code"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
	Files    []string `json:"files,omitempty"`
}
