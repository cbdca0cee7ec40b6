package cli

import (
	"errors"

	"github.com/yaklabco/gorazor/pkg/runner"
)

// Exit codes for gorazor. The usage, data and I/O codes follow sysexits.h.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitIssueErrors indicates a check that found errors.
	ExitIssueErrors = 1

	// ExitIssueWarnings indicates a strict check that found warnings.
	ExitIssueWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates an invalid configuration, catalogue or case
	// book.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrIssuesFound is returned when a run found diagnostics that fail it.
	// It only signals the exit code and is not logged.
	ErrIssuesFound = errors.New("issues found")

	// ErrUsage marks invalid command-line usage.
	ErrUsage = errors.New("invalid usage")
)

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func withExit(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, ErrUsage) {
		return ExitInvalidUsage
	}
	return ExitInternalError
}

// ExitCodeFromResult determines the exit code of a check run. Errors fail
// the run; warnings fail it only in strict mode. Files that could not be
// read fail it when nothing else did.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasFailures() {
		return ExitIssueErrors
	}

	if strict && result.HasWarnings() {
		return ExitIssueWarnings
	}

	if result.Stats.FilesErrored > 0 {
		return ExitIOError
	}

	return ExitSuccess
}
