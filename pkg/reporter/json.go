package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gorazor/pkg/analysis"
)

// JSONRenderer writes the report as a JSON document.
type JSONRenderer struct {
	opts Options
}

// NewJSONRenderer creates a new JSON renderer.
func NewJSONRenderer(opts Options) *JSONRenderer {
	return &JSONRenderer{opts: opts}
}

// Render implements Renderer.
func (r *JSONRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer flush(bw, &err)

	// Empty lists rather than null keep consumers simple.
	out := *report
	if out.Diagnostics == nil {
		out.Diagnostics = []analysis.DiagnosticEntry{}
	}

	encoder := json.NewEncoder(bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(&out); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
