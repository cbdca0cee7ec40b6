package taghelper_test

import (
	"context"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/parser"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/taghelper"
)

var markupFragments = []interface{}{
	"<myth req>", "<myth req count=\"@x\">", "<myth>", "</myth>", "<myth req/>",
	"<list>", "</list>", "<item>", "</item>", "<input>", "</input>", "<pair/>",
	"<p>", "</p>", "<div>", "</div>", "<br/>", "text", " ", "\n", "@x", "@(a)",
	"@if (a) {", "}", "<text>", "</text>", "<script>", "</script>", "<!myth>", "\"",
}

func TestRewriteProperties(t *testing.T) {
	t.Parallel()

	reg := testRegistry(t)
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	docGen := gen.SliceOf(gen.OneConstOf(markupFragments...)).Map(func(parts []string) string {
		return strings.Join(parts, "")
	})

	properties.Property("rewritten tree covers the input", prop.ForAll(
		func(src string) bool {
			doc := source.NewDocument("p.cshtml", src)
			tree, _, err := parser.Parse(context.Background(), doc, parser.Options{})
			if err != nil {
				return false
			}
			binder := taghelper.Resolve(tree, reg, taghelper.Defaults{Lookups: []string{"*, Acme"}})
			out, err := taghelper.Rewrite(tree, binder, diag.NewSink(doc))
			return err == nil && out.Validate(len(src)) == nil && out.Text() == src
		},
		docGen,
	))

	properties.Property("rewriting twice changes nothing", prop.ForAll(
		func(src string) bool {
			doc := source.NewDocument("p.cshtml", src)
			tree, _, err := parser.Parse(context.Background(), doc, parser.Options{})
			if err != nil {
				return false
			}
			binder := taghelper.Resolve(tree, reg, taghelper.Defaults{Lookups: []string{"*, Acme"}})

			first := diag.NewSink(doc)
			once, err := taghelper.Rewrite(tree, binder, first)
			if err != nil {
				return false
			}
			second := diag.NewSink(doc)
			twice, err := taghelper.Rewrite(once, binder, second)
			if err != nil || twice != once {
				return false
			}

			type key struct {
				code      string
				at, width int
			}
			seen := make(map[key]bool)
			for _, d := range first.Diagnostics() {
				seen[key{d.Code, d.Span.AbsoluteIndex, d.Span.Length}] = true
			}
			for _, d := range second.Diagnostics() {
				if !seen[key{d.Code, d.Span.AbsoluteIndex, d.Span.Length}] {
					return false
				}
			}
			return true
		},
		docGen,
	))

	properties.TestingRun(t)
}
