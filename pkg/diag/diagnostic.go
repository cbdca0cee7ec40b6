// Package diag provides diagnostics, the catalog of diagnostic codes, and the
// sink that collects them during a parse and rewrite pass.
package diag

import (
	"fmt"

	"github.com/yaklabco/gorazor/pkg/source"
)

// Severity represents the severity level of a diagnostic.
type Severity string

// Severity levels.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ParseSeverity validates a severity name.
func ParseSeverity(name string) (Severity, bool) {
	switch Severity(name) {
	case SeverityError, SeverityWarning, SeverityInfo:
		return Severity(name), true
	}
	return "", false
}

// Rank orders severities: errors rank highest.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 2
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 0
	}
	return 0
}

// Diagnostic is one problem found in a document.
type Diagnostic struct {
	// Code is the catalog code, e.g. "RZ1025".
	Code string

	// Severity indicates the importance of the diagnostic.
	Severity Severity

	// Message is the formatted message.
	Message string

	// Args are the message arguments Message was formatted from.
	Args []string

	// Span addresses the offending source text.
	Span source.Span

	// Suggestion is an optional human-readable hint.
	Suggestion string
}

// FilePath returns the path of the document the diagnostic belongs to.
func (d *Diagnostic) FilePath() string {
	return d.Span.FilePath
}

// IsError reports whether the diagnostic has error severity.
func (d *Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// String renders "path:line:col: severity CODE: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Span.Location, d.Severity, d.Code, d.Message)
}
