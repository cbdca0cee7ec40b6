package diag_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/source"
)

func TestDescriptorNew(t *testing.T) {
	t.Parallel()

	doc := source.NewDocument("a.cshtml", "<p>\n<div>")
	d := diag.MissingEndTag.New(doc.Span(4, 5), "div")

	assert.Equal(t, "RZ1025", d.Code)
	assert.Equal(t, diag.SeverityError, d.Severity)
	assert.Equal(t, []string{"div"}, d.Args)
	assert.True(t, strings.HasPrefix(d.Message, `The "div" element was not closed.`))
	assert.Equal(t, "a.cshtml", d.FilePath())
	assert.True(t, d.IsError())
	assert.True(t, strings.HasPrefix(d.String(), "a.cshtml:2:1: error RZ1025: "))
	assert.True(t, strings.HasPrefix(diag.MissingEndTag.Summary(), `The "{}" element was not closed.`))
}

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	codes := diag.DefaultCatalog.Codes()
	require.NotEmpty(t, codes)
	assert.IsIncreasing(t, codes)

	for _, d := range diag.DefaultCatalog.Descriptors() {
		assert.True(t, strings.HasPrefix(d.Code, "RZ"), d.Code)
		_, ok := diag.ParseSeverity(string(d.Severity))
		assert.True(t, ok, d.Code)
	}

	got, ok := diag.DefaultCatalog.Get("RZ2008")
	require.True(t, ok)
	assert.Same(t, diag.EmptyBoundAttribute, got)

	_, ok = diag.DefaultCatalog.Get("RZ0000")
	assert.False(t, ok)
}

func TestCatalogRegisterReplaces(t *testing.T) {
	t.Parallel()

	c := diag.NewCatalog()
	c.Register(&diag.Descriptor{Code: "X1", Severity: diag.SeverityInfo, Format: "one"})
	c.Register(&diag.Descriptor{Code: "X1", Severity: diag.SeverityError, Format: "two"})

	got, ok := c.Get("X1")
	require.True(t, ok)
	assert.Equal(t, "two", got.Format)
	assert.Len(t, c.Descriptors(), 1)
}

func TestSink(t *testing.T) {
	t.Parallel()

	doc := source.NewDocument("", "@\n<p>")
	sink := diag.NewSink(doc)

	sink.Report(diag.MissingEndTag, 3, 1, "p")
	sink.Report(diag.UnexpectedWhiteSpaceAtStartOfCodeBlock, 1, 1)
	sink.Report(diag.MissingEndTag, 3, 1, "p")
	sink.Add(diag.OpaqueBodyLanguage.New(sink.Span(0, 0), "script", "JavaScript"))

	require.Equal(t, 3, sink.Len())
	assert.True(t, sink.HasErrors())

	items := sink.Diagnostics()
	assert.Equal(t, "RZ1025", items[0].Code)
	assert.Equal(t, 1, items[0].Span.Line)

	diag.Sort(items)
	codes := []string{items[0].Code, items[1].Code, items[2].Code}
	assert.Equal(t, []string{"RZ9000", "RZ1003", "RZ1025"}, codes)
}

func TestSinkWithoutDocument(t *testing.T) {
	t.Parallel()

	sink := diag.NewSink(nil)
	sink.Report(diag.TagHelperMalformedAttributes, 7, 2)

	items := sink.Diagnostics()
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Span.AbsoluteIndex)
	assert.Equal(t, 2, items[0].Span.Length)
	assert.False(t, diag.NewSink(nil).HasErrors())
}

func TestBuilder(t *testing.T) {
	t.Parallel()

	span := source.NewSpan(source.Location{FilePath: "x.cshtml"}, 3)
	d := diag.NewBuilder(diag.DuplicateBoundAttribute, span).
		WithArgs("count", "myth").
		WithSeverity(diag.SeverityError).
		WithSuggestion("remove one of the attributes").
		Build()

	assert.Equal(t, "RZ3001", d.Code)
	assert.Equal(t, diag.SeverityError, d.Severity)
	assert.Contains(t, d.Message, "'count' on tag helper element 'myth'")
	assert.Equal(t, "remove one of the attributes", d.Suggestion)
}

func TestSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ok   bool
		rank int
	}{
		{name: "error", ok: true, rank: 2},
		{name: "warning", ok: true, rank: 1},
		{name: "info", ok: true, rank: 0},
		{name: "fatal", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, ok := diag.ParseSeverity(tt.name)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.rank, s.Rank())
			}
		})
	}
}
