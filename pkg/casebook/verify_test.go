package casebook_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/pkg/casebook"
	"github.com/yaklabco/gorazor/pkg/check"
)

func TestVerify_Passes(t *testing.T) {
	t.Parallel()

	book, err := casebook.ParseFile(filepath.Join("testdata", "basic.md"))
	require.NoError(t, err)

	report, err := casebook.Verify(context.Background(), book, check.Options{})
	require.NoError(t, err)
	require.Len(t, report.Outcomes, len(book.Cases))

	for _, outcome := range report.Outcomes {
		for _, m := range outcome.Mismatches {
			t.Errorf("case %q: %s mismatch:\n%s", outcome.Case.Name, m.Part, m.Diff)
		}
	}
	assert.True(t, report.Passed())
	assert.Zero(t, report.Failed())

	raw := report.Outcomes[3]
	assert.Same(t, raw.Result.Raw, raw.Result.Tree)
}

func TestVerify_Mismatch(t *testing.T) {
	t.Parallel()

	content := "## Wrong\n\n```cshtml\n<p>@x</p>\n```\n\n```outline\nNothing\n```\n\n```diagnostics\nRZ1025\n```\n"
	book, err := casebook.Parse("wrong.md", []byte(content))
	require.NoError(t, err)

	report, err := casebook.Verify(context.Background(), book, check.Options{})
	require.NoError(t, err)
	assert.False(t, report.Passed())
	assert.Equal(t, 1, report.Failed())

	mismatches := report.Outcomes[0].Mismatches
	require.Len(t, mismatches, 2)
	assert.Equal(t, "outline", mismatches[0].Part)
	assert.Contains(t, mismatches[0].Diff.String(), "-Nothing")
	assert.Equal(t, "diagnostics", mismatches[1].Part)
	assert.Contains(t, mismatches[1].Diff.String(), "-RZ1025")
}

func TestVerify_OutlineAndPositions(t *testing.T) {
	t.Parallel()

	const template = "@{ <p> }"

	res, err := check.New(check.Options{}).Check(context.Background(), "probe.cshtml", []byte(template))
	require.NoError(t, err)
	require.NotEmpty(t, res.Diagnostics)

	var diagnostics strings.Builder
	for _, d := range res.Diagnostics {
		fmt.Fprintf(&diagnostics, "%s %d %d\n", d.Code, d.Span.AbsoluteIndex, d.Span.Length)
	}

	content := "## Probe\n\n```cshtml\n" + template + "\n```\n\n" +
		"```outline\n" + res.Tree.Outline() + "```\n\n" +
		"```diagnostics\n" + diagnostics.String() + "```\n"

	book, err := casebook.Parse("probe.md", []byte(content))
	require.NoError(t, err)

	report, err := casebook.Verify(context.Background(), book, check.Options{})
	require.NoError(t, err)
	assert.True(t, report.Passed())

	// Shift one expected position; the positional comparison must notice.
	book.Cases[0].Diagnostics[0].Offset++
	report, err = casebook.Verify(context.Background(), book, check.Options{})
	require.NoError(t, err)
	require.Len(t, report.Outcomes[0].Mismatches, 1)
	assert.Equal(t, "diagnostics", report.Outcomes[0].Mismatches[0].Part)
}

func TestVerify_Canceled(t *testing.T) {
	t.Parallel()

	book, err := casebook.ParseFile(filepath.Join("testdata", "basic.md"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = casebook.Verify(ctx, book, check.Options{})
	require.ErrorIs(t, err, context.Canceled)
}
