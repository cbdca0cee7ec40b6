package reporter

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/pkg/analysis"
	"github.com/yaklabco/gorazor/pkg/config"
)

func summaryReport() *analysis.Report {
	return &analysis.Report{
		ByCode: []analysis.CodeAnalysis{
			{Code: "RZ1025", Issues: 5, Errors: 5},
			{Code: "RZ9000", Issues: 2, Infos: 2},
		},
		ByFile: []analysis.FileAnalysis{
			{Path: "Views/Home/Index.cshtml", Issues: 4, Errors: 3, Infos: 1},
			{Path: strings.Repeat("deep/", 20) + "Page.cshtml", Issues: 3, Errors: 2, Infos: 1},
		},
		Totals: analysis.Totals{Files: 3, FilesWithIssues: 2, Issues: 7, Errors: 5, Infos: 2},
	}
}

func renderSummary(t *testing.T, order config.SummaryOrder, report *analysis.Report) string {
	t.Helper()

	var buf bytes.Buffer
	renderer := NewSummaryRenderer(Options{Writer: &buf, Color: "never", SummaryOrder: order})
	require.NoError(t, renderer.Render(context.Background(), report))
	return buf.String()
}

func TestSummaryRenderer_EmptyReport(t *testing.T) {
	t.Parallel()

	out := renderSummary(t, config.SummaryOrderCodes, &analysis.Report{})
	assert.Equal(t, "No issues found\n", out)
}

func TestSummaryRenderer_Order(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		order      config.SummaryOrder
		codesFirst bool
	}{
		{name: "codes first", order: config.SummaryOrderCodes, codesFirst: true},
		{name: "default", order: "", codesFirst: true},
		{name: "files first", order: config.SummaryOrderFiles, codesFirst: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := renderSummary(t, tt.order, summaryReport())
			codes := strings.Index(out, "Codes Summary")
			files := strings.Index(out, "Files Summary")
			require.NotEqual(t, -1, codes)
			require.NotEqual(t, -1, files)
			assert.Equal(t, tt.codesFirst, codes < files)
		})
	}
}

func TestSummaryRenderer_Rows(t *testing.T) {
	t.Parallel()

	out := renderSummary(t, config.SummaryOrderCodes, summaryReport())

	assert.Contains(t, out, padRight("RZ1025", codeColWidth)+" "+padLeft("5", numColWidth))
	assert.Contains(t, out, "Views/Home/Index.cshtml")
	assert.Contains(t, out, "…")
	assert.Contains(t, out, "Page.cshtml")
	assert.Contains(t, out, "Total: 7 issues (5 errors, 2 info) in 2 files")
}

func TestPadding(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "  ab", padLeft("ab", 4))
	assert.Equal(t, "abcdef", padRight("abcdef", 4))
	assert.Equal(t, "abcdef", padLeft("abcdef", 4))
}
