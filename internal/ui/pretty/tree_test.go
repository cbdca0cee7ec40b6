package pretty_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/internal/ui/pretty"
	"github.com/yaklabco/gorazor/pkg/parser"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

func parseTree(t *testing.T, content string) *syntax.Tree {
	t.Helper()

	tree, _, err := parser.Parse(context.Background(), source.NewDocument("t.cshtml", content), parser.Options{})
	require.NoError(t, err)
	return tree
}

func TestFormatTree_PlainMatchesDump(t *testing.T) {
	t.Parallel()

	tree := parseTree(t, "<p class=\"a @b\">@x.y</p>\n@{ var n = 1; }")
	styles := pretty.NewStyles(false)

	tests := []struct {
		name string
		opts pretty.TreeOptions
	}{
		{name: "outline"},
		{name: "offsets", opts: pretty.TreeOptions{Offsets: true}},
		{name: "contexts", opts: pretty.TreeOptions{Offsets: true, Contexts: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var want strings.Builder
			require.NoError(t, tree.Dump(&want, syntax.DumpOptions{Offsets: tt.opts.Offsets, Contexts: tt.opts.Contexts}))
			assert.Equal(t, want.String(), styles.FormatTree(tree, tt.opts))
		})
	}
}

func TestFormatTree_MaxDepth(t *testing.T) {
	t.Parallel()

	tree := parseTree(t, "<p>@x</p>")
	styles := pretty.NewStyles(false)

	assert.Equal(t, "Document\n", styles.FormatTree(tree, pretty.TreeOptions{MaxDepth: 1}))

	lines := strings.Split(strings.TrimSuffix(styles.FormatTree(tree, pretty.TreeOptions{MaxDepth: 2}), "\n"), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, "  "))
		assert.False(t, strings.HasPrefix(line, "    "))
	}
}
