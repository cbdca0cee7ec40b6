package parser_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/parser"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

func parse(t *testing.T, src string, opts parser.Options) (*syntax.Tree, []diag.Diagnostic) {
	t.Helper()

	tree, diags, err := parser.Parse(context.Background(), source.NewDocument("test.cshtml", src), opts)
	require.NoError(t, err)
	require.NoError(t, tree.Validate(len(src)))
	require.Equal(t, src, tree.Text())
	return tree, diags
}

func codes(diags []diag.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func contents(tree *syntax.Tree, kind syntax.NodeKind) []string {
	var out []string
	for _, id := range tree.FindByKind(kind) {
		out = append(out, tree.Content(id))
	}
	return out
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	_, _, err := parser.Parse(context.Background(), nil, parser.Options{})
	require.ErrorIs(t, err, parser.ErrNilDocument)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = parser.Parse(ctx, source.NewDocument("a.cshtml", "x"), parser.Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"plain text",
		"<p>Hello @Name!</p>",
		"<ul>@foreach (var i in Items) { <li>@i</li> }</ul>",
		"@{ var x = 1; }\n<p>@x</p>",
		"@if (a) { <p>x</p> } else if (b) { <p>y</p> } else { <p>z</p> }",
		"@try { Foo(); } catch (Exception e) when (e != null) { <p>e</p> } finally { }",
		"@do { i++; } while (i < 10);",
		"@switch (x) { case 1: <p>one</p> break; default: break; }",
		"@using (Html.BeginForm()) { <input /> }",
		"<!-- comment @x -->",
		"<!-- bad -- comment -->",
		"<!DOCTYPE html><?xml version=\"1.0\"?><![CDATA[ <p> ]]>",
		"<script>if (a < b) { x(); }</script>",
		"<script>unterminated",
		"@* template comment *@",
		"@* open comment",
		"@@ escaped",
		"@",
		"@ x",
		"@{",
		"@(",
		"@foo(",
		"<p @x class=\"a @b\" checked>",
		"<text>raw</text>",
		"@{ <text>inside</text> @:line @x\n }",
		"@section Scripts {\n<script>x</script>\n}",
		"@functions { int Count() { return 1; } }",
		"@model IEnumerable<Foo.Bar>\n@inject ILogger<T> Logger\n",
		"@addTagHelper \"*, Asm\"\n@removeTagHelper Foo, Asm\n@tagHelperPrefix th:\n",
		"@{ Func<int, object> f = @<p>@item</p>; }",
		"</p>",
		"<p></div>",
		"@x.y?.z?[0](1)[2].",
		"\r\n@{\r\n  var s = @\"verbatim \"\" quote\";\r\n}\r\n",
	}

	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			t.Parallel()
			parse(t, src, parser.Options{})
			parse(t, src, parser.Options{DesignTime: true})
		})
	}
}

func TestParseDiagnostics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "unterminated string", src: "@{ var s = \"abc; }", want: "RZ1000"},
		{name: "unterminated block comment", src: "@{ /* x }", want: "RZ1001"},
		{name: "whitespace after transition", src: "@ x", want: "RZ1003"},
		{name: "eof after transition", src: "<p>@", want: "RZ1004"},
		{name: "invalid start character", src: "@!", want: "RZ1005"},
		{name: "unclosed code block", src: "@{ var x = 1;", want: "RZ1006"},
		{name: "unclosed explicit expression", src: "@(x", want: "RZ1006"},
		{name: "reserved word", src: "@class Foo", want: "RZ1007"},
		{name: "markup in single line body", src: "@if (x) <p>a</p>", want: "RZ1008"},
		{name: "transition before tag in code", src: "@{ @<p>x</p> }", want: "RZ1009"},
		{name: "nested code block", src: "@{ @{ } }", want: "RZ1010"},
		{name: "eof after directive", src: "@model", want: "RZ1012"},
		{name: "directive expects type", src: "@model 1\n", want: "RZ1013"},
		{name: "directive expects identifier", src: "@section {\n}", want: "RZ1015"},
		{name: "directive expects string", src: "@page 12\n", want: "RZ1016"},
		{name: "literal after directive", src: "@model Foo Bar\n", want: "RZ1017"},
		{name: "block directive without brace", src: "@functions int x;", want: "RZ1017"},
		{name: "tag helper directive without value", src: "@addTagHelper\n", want: "RZ1018"},
		{name: "incomplete quotes", src: "@addTagHelper \"*, Asm\n", want: "RZ1019"},
		{name: "invalid prefix", src: "@tagHelperPrefix t!\n", want: "RZ1020"},
		{name: "invalid lookup text", src: "@addTagHelper Foo\n", want: "RZ1036"},
		{name: "unbalanced call", src: "@foo(", want: "RZ1027"},
		{name: "unterminated template comment", src: "@* x", want: "RZ1028"},
		{name: "duplicate directive", src: "@model A\n@model B\n", want: "RZ2001"},
		{name: "nested section", src: "@section A { @section B { } }", want: "RZ2002"},
		{name: "nested template", src: "@{ Func<int, object> f = @<p>@Foo(@<b>x</b>)</p>; }", want: "RZ2003"},
		{name: "unclosed tag in code block", src: "@{ <p> }", want: "RZ1025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, diags := parse(t, tt.src, parser.Options{})
			assert.Contains(t, codes(diags), tt.want)
		})
	}
}

func TestParseClean(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"<p>Hello @Name!</p>",
		"@if (a) { <p>x</p> } else { <b>y</b> }",
		"@foreach (var item in Model.Items)\n{\n    <li>@item.Name</li>\n}\n",
		"@section Scripts {\n<script>x</script>\n}",
		"@functions { int x; }",
		"@model Foo.Bar<int>\n",
		"@page\n",
		"@page \"/home\"\n",
		"@using System.Linq\n",
		"@addTagHelper *, MyAssembly\n",
		"<script>if (a<b) { x(); }</script>",
		"<!-- a comment -->",
		"@(a + b)",
	}

	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			t.Parallel()
			_, diags := parse(t, src, parser.Options{})
			assert.Empty(t, diags)
		})
	}
}

func TestImplicitExpression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "identifier", src: "<p>@name</p>", want: "name"},
		{name: "trailing dot is text", src: "@x.", want: "x"},
		{name: "member chain", src: "@x.y.z ", want: "x.y.z"},
		{name: "calls and indexers", src: "@x.y(1)[2] text", want: "x.y(1)[2]"},
		{name: "null conditional", src: "@a?.b?[0]!", want: "a?.b?[0]"},
		{name: "await", src: "@await Task() done", want: "await Task()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tree, _ := parse(t, tt.src, parser.Options{})
			require.Len(t, tree.FindByKind(syntax.ImplicitExpression), 1)
			assert.Equal(t, []string{tt.want}, contents(tree, syntax.CodeExpressionLiteral))
		})
	}
}

func TestExplicitExpression(t *testing.T) {
	t.Parallel()

	tree, diags := parse(t, "<p>@(a + (b * c))</p>", parser.Options{})
	assert.Empty(t, diags)
	require.Len(t, tree.FindByKind(syntax.ExplicitExpression), 1)
	assert.Equal(t, []string{"a + (b * c)"}, contents(tree, syntax.CodeExpressionLiteral))
	assert.Equal(t, []string{"(", ")"}, contents(tree, syntax.MetaCode))
}

func TestEscapedTransition(t *testing.T) {
	t.Parallel()

	tree, diags := parse(t, "user@@example.com", parser.Options{})
	assert.Empty(t, diags)
	assert.Empty(t, tree.FindByKind(syntax.CodeBlock))
	assert.Equal(t, []string{"@"}, contents(tree, syntax.MarkupEphemeralTextLiteral))
}

func TestTemplateComment(t *testing.T) {
	t.Parallel()

	tree, diags := parse(t, "a @* hidden @x *@ b", parser.Options{})
	assert.Empty(t, diags)
	require.Len(t, tree.FindByKind(syntax.TemplateComment), 1)
	assert.Empty(t, tree.FindByKind(syntax.ImplicitExpression))
}

func TestStatementBlockSuppressesLineEnd(t *testing.T) {
	t.Parallel()

	src := "@{ var x = 1; }\n<p>@x</p>"

	tree, _ := parse(t, src, parser.Options{})
	assert.Contains(t, contents(tree, syntax.MarkupEphemeralTextLiteral), "\n")

	tree, _ = parse(t, src, parser.Options{DesignTime: true})
	assert.NotContains(t, contents(tree, syntax.MarkupEphemeralTextLiteral), "\n")
}

func TestDirectiveAfterSuppressedLineEnd(t *testing.T) {
	t.Parallel()

	src := "@{ var x = 1; }\n  @model Foo\n  <p>@x</p>"

	tree, diags := parse(t, src, parser.Options{})
	require.Empty(t, diags)

	// The statement block swallows its own line end only. The directive
	// owns its indentation and line break and never asks for suppression,
	// so the indentation of the next line stays markup.
	assert.Equal(t, []string{"\n"}, contents(tree, syntax.MarkupEphemeralTextLiteral))
	assert.Contains(t, contents(tree, syntax.CodeEphemeralLiteral), "  ")
	assert.Contains(t, contents(tree, syntax.MarkupTextLiteral), "  ")

	directives := parser.Directives(tree)
	require.Len(t, directives, 1)
	assert.Equal(t, "Foo", directives[0].Value)

	tree, diags = parse(t, src, parser.Options{DesignTime: true})
	require.Empty(t, diags)
	assert.Empty(t, contents(tree, syntax.MarkupEphemeralTextLiteral))
	assert.NotContains(t, contents(tree, syntax.CodeEphemeralLiteral), "  ")
}

func TestStatementBlockMarkup(t *testing.T) {
	t.Parallel()

	tree, diags := parse(t, "@if (a) { <p>x</p> } else { <b>y</b> }", parser.Options{})
	assert.Empty(t, diags)
	require.Len(t, tree.FindByKind(syntax.Statement), 1)

	blocks := tree.FindByKind(syntax.MarkupBlock)
	// The document block plus one per branch.
	assert.Len(t, blocks, 3)
}

func TestUnclosedBlockAutoCompletes(t *testing.T) {
	t.Parallel()

	tree, diags := parse(t, "@{ var x = 1;", parser.Options{})
	require.Contains(t, codes(diags), "RZ1006")

	found := false
	for _, leaf := range tree.Leaves() {
		h := tree.Context(leaf).Handler
		if h.Kind == syntax.EditAutoComplete && h.AutoComplete == "}" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCodeEditHandlers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		code string
		want syntax.EditKind
	}{
		{name: "statement block body", src: "@{ var x = 1; }", code: "var", want: syntax.EditDefault},
		{name: "keyword statement", src: "@if (a) { <b>x</b> }", code: "if", want: syntax.EditDefault},
		{name: "functions body", src: "@functions { int x = 1; }", code: "int", want: syntax.EditCodeBlock},
		{name: "code body", src: "@code { int x; }", code: "int", want: syntax.EditCodeBlock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, _ := parse(t, tt.src, parser.Options{})
			found := false
			for _, leaf := range tree.Leaves() {
				if tree.Kind(leaf) == syntax.CodeStatementLiteral && strings.Contains(tree.Content(leaf), tt.code) {
					found = true
					assert.Equal(t, tt.want, tree.Context(leaf).Handler.Kind)
				}
			}
			assert.True(t, found, tree.Outline())
		})
	}
}

func TestScriptBodyIsOpaque(t *testing.T) {
	t.Parallel()

	tree, diags := parse(t, "<script>var a = '<div>'; @x</script>", parser.Options{})
	assert.Empty(t, diags)
	assert.Len(t, tree.FindByKind(syntax.ImplicitExpression), 1)
	for _, id := range tree.FindByKind(syntax.MarkupStartTag) {
		assert.NotContains(t, tree.Content(id), "div")
	}
}

func TestMarkupComments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		valid bool
	}{
		{name: "simple", src: "<!-- x -->", valid: true},
		{name: "with code", src: "<!-- @x -->", valid: true},
		{name: "empty", src: "<!---->", valid: true},
		{name: "starts with close", src: "<!-->", valid: false},
		{name: "starts with arrow", src: "<!--->", valid: false},
		{name: "double hyphen inside", src: "<!-- a -- b -->", valid: false},
		{name: "nested opener", src: "<!-- <!-- -->", valid: false},
		{name: "unterminated", src: "<!-- x", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tree, _ := parse(t, tt.src, parser.Options{})
			blocks := tree.FindByKind(syntax.MarkupCommentBlock)
			if tt.valid {
				assert.Len(t, blocks, 1)
			} else {
				assert.Empty(t, blocks)
			}
		})
	}
}

func TestDirectives(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		"@model Foo.Bar<int>",
		"@inject ILogger Log",
		"@using System.Linq",
		"@addTagHelper \"*, MyAssembly\"",
		"@tagHelperPrefix th:",
		"@page",
		"",
	}, "\n")

	tree, diags := parse(t, src, parser.Options{})
	require.Empty(t, diags)

	got := parser.Directives(tree)
	require.Len(t, got, 6)

	assert.Equal(t, "model", got[0].Name)
	assert.Equal(t, "Foo.Bar<int>", got[0].Value)
	assert.Equal(t, syntax.GenDirectiveToken, got[0].Generator)
	assert.Equal(t, strings.Index(src, "Foo"), got[0].Offset)

	assert.Equal(t, "inject", got[1].Name)
	assert.Equal(t, "ILogger Log", got[1].Value)

	assert.Equal(t, "using", got[2].Name)
	assert.Equal(t, "System.Linq", got[2].Value)

	assert.Equal(t, "addTagHelper", got[3].Name)
	assert.Equal(t, "*, MyAssembly", got[3].Value)
	assert.Equal(t, syntax.GenAddTagHelper, got[3].Generator)

	assert.Equal(t, "tagHelperPrefix", got[4].Name)
	assert.Equal(t, "th:", got[4].Value)

	assert.Equal(t, "page", got[5].Name)
	assert.Empty(t, got[5].Value)
}

func TestCustomDirective(t *testing.T) {
	t.Parallel()

	opts := parser.Options{Directives: []parser.Directive{{
		Name:   "implements",
		Kind:   parser.DirectiveSingleLine,
		Tokens: []parser.DirectiveToken{{Kind: parser.DirectiveTokenNamespace}},
	}}}

	tree, diags := parse(t, "@implements My.Contracts\n", opts)
	require.Empty(t, diags)
	got := parser.Directives(tree)
	require.Len(t, got, 1)
	assert.Equal(t, "My.Contracts", got[0].Value)

	_, diags = parse(t, "@implements My.\n", opts)
	assert.Contains(t, codes(diags), "RZ1014")
}

func TestSection(t *testing.T) {
	t.Parallel()

	tree, diags := parse(t, "@section Scripts {\n<p>@x</p>\n}\n<footer/>", parser.Options{})
	require.Empty(t, diags)

	directives := tree.FindByKind(syntax.Directive)
	require.Len(t, directives, 1)
	assert.Equal(t, "Scripts", parser.Directives(tree)[0].Value)

	var inner int
	for _, id := range tree.FindByKind(syntax.MarkupBlock) {
		for _, anc := range tree.Ancestors(id) {
			if anc == directives[0] {
				inner++
				break
			}
		}
	}
	assert.Equal(t, 1, inner)
}

func TestParseLookupText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want parser.LookupText
		ok   bool
	}{
		{text: "*, MyAssembly", want: parser.LookupText{TypePattern: "*", Assembly: "MyAssembly"}, ok: true},
		{text: " Foo.Bar , Asm ", want: parser.LookupText{TypePattern: "Foo.Bar", Assembly: "Asm"}, ok: true},
		{text: "Foo", ok: false},
		{text: "Foo,", ok: false},
		{text: "a, b, c", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			got, ok := parser.ParseLookupText(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupTextMatches(t *testing.T) {
	t.Parallel()

	all := parser.LookupText{TypePattern: "*", Assembly: "Asm"}
	assert.True(t, all.Matches("Any.Type", "Asm"))
	assert.False(t, all.Matches("Any.Type", "Other"))

	prefix := parser.LookupText{TypePattern: "Foo.*", Assembly: "Asm"}
	assert.True(t, prefix.Matches("Foo.Bar", "Asm"))
	assert.False(t, prefix.Matches("Baz.Bar", "Asm"))

	exact := parser.LookupText{TypePattern: "Foo.Bar", Assembly: "Asm"}
	assert.True(t, exact.Matches("Foo.Bar", "Asm"))
	assert.False(t, exact.Matches("Foo.Barn", "Asm"))
}

func TestDirectiveValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "*, Asm", parser.DirectiveValue(`  "*, Asm" `))
	assert.Equal(t, "th:", parser.DirectiveValue("th:"))
	assert.Equal(t, `"`, parser.DirectiveValue(`"`))
}

func TestInvalidPrefixChar(t *testing.T) {
	t.Parallel()

	_, bad := parser.InvalidPrefixChar("th:")
	assert.False(t, bad)

	r, bad := parser.InvalidPrefixChar("t h")
	assert.True(t, bad)
	assert.Equal(t, ' ', r)

	r, bad = parser.InvalidPrefixChar("a*b")
	assert.True(t, bad)
	assert.Equal(t, '*', r)
}

func TestDefaultDirectives(t *testing.T) {
	t.Parallel()

	names := make(map[string]parser.Directive)
	for _, d := range parser.DefaultDirectives() {
		names[d.Name] = d
	}
	for _, name := range []string{"model", "inject", "inherits", "layout", "page", "functions", "code", "section"} {
		assert.Contains(t, names, name)
	}
	assert.Equal(t, parser.DirectiveRazorBlock, names["section"].Kind)
	assert.Equal(t, parser.FileScopedSinglyOccurring, names["model"].Usage)
	assert.Equal(t, "DirectiveCodeBlock", names["functions"].Kind.String())
}
