package reporter

import (
	"io"

	"github.com/yaklabco/gorazor/pkg/config"
)

const bufWriterSize = 64 * 1024

// Options configures a Reporter.
type Options struct {
	Writer io.Writer
	Format Format
	// Color is "auto", "always" or "never".
	Color string

	// ShowContext prints the source line and a caret under each diagnostic
	// in text output.
	ShowContext bool
	ShowSummary bool
	GroupByFile bool
	// Compact disables indentation of JSON and SARIF.
	Compact bool
	// PerFile prints one table per file in table output.
	PerFile      bool
	SummaryOrder config.SummaryOrder

	// WorkingDir, when set, makes reported paths relative to it.
	WorkingDir  string
	ToolVersion string
}
