package parser_test

import (
	"context"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/yaklabco/gorazor/pkg/parser"
	"github.com/yaklabco/gorazor/pkg/source"
)

// fragments are pieces of template syntax, valid and broken, that random
// documents are assembled from.
var fragments = []interface{}{
	"<p>", "</p>", "<div class=\"a\">", "</div>", "<br/>", "<input checked>",
	"text", " ", "\n", "\r\n", "\t",
	"@", "@@", "@x", "@x.y", "@(a + b)", "@(", ")", "@{", "}", "{", "@:",
	"@if (a) {", "} else {", "@foreach (var i in xs) {", "@using System\n",
	"@model Foo\n", "@section S {", "@functions {", "@addTagHelper *, Asm\n",
	"@*", "*@", "<!--", "-->", "--", "<text>", "</text>", "<script>", "</script>",
	"\"", "'", "/*", "*/", "//", "<", ">", "/", "=", "!", "?", "[", "]", ";",
}

func TestParseProperties(t *testing.T) {
	t.Parallel()

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 300
	properties := gopter.NewProperties(params)

	docGen := gen.SliceOf(gen.OneConstOf(fragments...)).Map(func(parts []string) string {
		return strings.Join(parts, "")
	})

	properties.Property("tree covers the input exactly", prop.ForAll(
		func(src string) bool {
			for _, designTime := range []bool{false, true} {
				tree, _, err := parser.Parse(context.Background(), source.NewDocument("p.cshtml", src),
					parser.Options{DesignTime: designTime})
				if err != nil || tree.Validate(len(src)) != nil || tree.Text() != src {
					return false
				}
			}
			return true
		},
		docGen,
	))

	properties.Property("diagnostics lie inside the input", prop.ForAll(
		func(src string) bool {
			_, diags, err := parser.Parse(context.Background(), source.NewDocument("p.cshtml", src), parser.Options{})
			if err != nil {
				return false
			}
			for _, d := range diags {
				if d.Span.AbsoluteIndex < 0 || d.Span.End() > len(src)+1 {
					return false
				}
			}
			return true
		},
		docGen,
	))

	properties.TestingRun(t)
}
