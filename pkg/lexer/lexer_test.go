package lexer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/pkg/lexer"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

type tokenCase struct {
	name  string
	input string
	want  []syntax.Token
}

func tok(kind syntax.TokenKind, content string) syntax.Token {
	return syntax.NewToken(kind, content)
}

func TestMarkupTokenizer(t *testing.T) {
	t.Parallel()

	tests := []tokenCase{
		{
			name:  "start tag with attribute",
			input: `<a href="x">`,
			want: []syntax.Token{
				tok(syntax.TokenOpenAngle, "<"),
				tok(syntax.TokenText, "a"),
				tok(syntax.TokenWhitespace, " "),
				tok(syntax.TokenText, "href"),
				tok(syntax.TokenEquals, "="),
				tok(syntax.TokenDoubleQuote, `"`),
				tok(syntax.TokenText, "x"),
				tok(syntax.TokenDoubleQuote, `"`),
				tok(syntax.TokenCloseAngle, ">"),
			},
		},
		{
			name:  "comment delimiters",
			input: "<!-- a-b -->",
			want: []syntax.Token{
				tok(syntax.TokenOpenAngle, "<"),
				tok(syntax.TokenBang, "!"),
				tok(syntax.TokenDoubleHyphen, "--"),
				tok(syntax.TokenWhitespace, " "),
				tok(syntax.TokenText, "a-b"),
				tok(syntax.TokenWhitespace, " "),
				tok(syntax.TokenDoubleHyphen, "--"),
				tok(syntax.TokenCloseAngle, ">"),
			},
		},
		{
			name:  "braces split text",
			input: "a{b}",
			want: []syntax.Token{
				tok(syntax.TokenText, "a"),
				tok(syntax.TokenLeftBrace, "{"),
				tok(syntax.TokenText, "b"),
				tok(syntax.TokenRightBrace, "}"),
			},
		},
		{
			name:  "line breaks",
			input: "a\r\nb\rc\n",
			want: []syntax.Token{
				tok(syntax.TokenText, "a"),
				tok(syntax.TokenNewLine, "\r\n"),
				tok(syntax.TokenText, "b"),
				tok(syntax.TokenNewLine, "\r"),
				tok(syntax.TokenText, "c"),
				tok(syntax.TokenNewLine, "\n"),
			},
		},
		{
			name:  "transitions",
			input: "x@@y:z",
			want: []syntax.Token{
				tok(syntax.TokenText, "x"),
				tok(syntax.TokenTransition, "@"),
				tok(syntax.TokenTransition, "@"),
				tok(syntax.TokenText, "y"),
				tok(syntax.TokenColon, ":"),
				tok(syntax.TokenText, "z"),
			},
		},
		{
			name:  "template comment",
			input: "@* hi *@!",
			want: []syntax.Token{
				tok(syntax.TokenCommentTransition, "@"),
				tok(syntax.TokenCommentStar, "*"),
				tok(syntax.TokenCommentBody, " hi "),
				tok(syntax.TokenCommentStar, "*"),
				tok(syntax.TokenCommentTransition, "@"),
				tok(syntax.TokenBang, "!"),
			},
		},
		{
			name:  "unterminated template comment",
			input: "@* open",
			want: []syntax.Token{
				tok(syntax.TokenCommentTransition, "@"),
				tok(syntax.TokenCommentStar, "*"),
				tok(syntax.TokenCommentBody, " open"),
			},
		},
		{
			name:  "empty template comment",
			input: "@**@",
			want: []syntax.Token{
				tok(syntax.TokenCommentTransition, "@"),
				tok(syntax.TokenCommentStar, "*"),
				tok(syntax.TokenCommentStar, "*"),
				tok(syntax.TokenCommentTransition, "@"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := lexer.Tokenize(lexer.NewMarkup(tt.input, 0))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, syntax.JoinTokens(got))
		})
	}
}

func TestCodeTokenizer(t *testing.T) {
	t.Parallel()

	tests := []tokenCase{
		{
			name:  "member call",
			input: "Model.Items[0]?.Name(x, 1.5)",
			want: []syntax.Token{
				tok(syntax.TokenIdentifier, "Model"),
				tok(syntax.TokenDot, "."),
				tok(syntax.TokenIdentifier, "Items"),
				tok(syntax.TokenLeftBracket, "["),
				tok(syntax.TokenIntegerLiteral, "0"),
				tok(syntax.TokenRightBracket, "]"),
				tok(syntax.TokenQuestionMark, "?"),
				tok(syntax.TokenDot, "."),
				tok(syntax.TokenIdentifier, "Name"),
				tok(syntax.TokenLeftParen, "("),
				tok(syntax.TokenIdentifier, "x"),
				tok(syntax.TokenComma, ","),
				tok(syntax.TokenWhitespace, " "),
				tok(syntax.TokenRealLiteral, "1.5"),
				tok(syntax.TokenRightParen, ")"),
			},
		},
		{
			name:  "keywords and operators",
			input: "if (a == b) { return; }",
			want: []syntax.Token{
				tok(syntax.TokenKeyword, "if"),
				tok(syntax.TokenWhitespace, " "),
				tok(syntax.TokenLeftParen, "("),
				tok(syntax.TokenIdentifier, "a"),
				tok(syntax.TokenWhitespace, " "),
				tok(syntax.TokenOperator, "=="),
				tok(syntax.TokenWhitespace, " "),
				tok(syntax.TokenIdentifier, "b"),
				tok(syntax.TokenRightParen, ")"),
				tok(syntax.TokenWhitespace, " "),
				tok(syntax.TokenLeftBrace, "{"),
				tok(syntax.TokenWhitespace, " "),
				tok(syntax.TokenKeyword, "return"),
				tok(syntax.TokenSemicolon, ";"),
				tok(syntax.TokenWhitespace, " "),
				tok(syntax.TokenRightBrace, "}"),
			},
		},
		{
			name:  "string literals",
			input: `"a\"}" @"b""c" 'd'`,
			want: []syntax.Token{
				tok(syntax.TokenStringLiteral, `"a\"}"`),
				tok(syntax.TokenWhitespace, " "),
				tok(syntax.TokenStringLiteral, `@"b""c"`),
				tok(syntax.TokenWhitespace, " "),
				tok(syntax.TokenCharacterLiteral, `'d'`),
			},
		},
		{
			name:  "unterminated string stops at line end",
			input: "\"abc\nx",
			want: []syntax.Token{
				tok(syntax.TokenStringLiteral, `"abc`),
				tok(syntax.TokenNewLine, "\n"),
				tok(syntax.TokenIdentifier, "x"),
			},
		},
		{
			name:  "comments",
			input: "// line\n/* block } */",
			want: []syntax.Token{
				tok(syntax.TokenComment, "// line"),
				tok(syntax.TokenNewLine, "\n"),
				tok(syntax.TokenComment, "/* block } */"),
			},
		},
		{
			name:  "transition and assignment",
			input: "x = @y::z",
			want: []syntax.Token{
				tok(syntax.TokenIdentifier, "x"),
				tok(syntax.TokenWhitespace, " "),
				tok(syntax.TokenAssign, "="),
				tok(syntax.TokenWhitespace, " "),
				tok(syntax.TokenTransition, "@"),
				tok(syntax.TokenIdentifier, "y"),
				tok(syntax.TokenDoubleColon, "::"),
				tok(syntax.TokenIdentifier, "z"),
			},
		},
		{
			name:  "unknown characters",
			input: "#§",
			want: []syntax.Token{
				tok(syntax.TokenUnknown, "#"),
				tok(syntax.TokenUnknown, "§"),
			},
		},
		{
			name:  "unicode identifier and hex",
			input: "größe 0x1Fu",
			want: []syntax.Token{
				tok(syntax.TokenIdentifier, "größe"),
				tok(syntax.TokenWhitespace, " "),
				tok(syntax.TokenIntegerLiteral, "0x1Fu"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := lexer.Tokenize(lexer.NewCode(tt.input, 0))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirectiveTokenizerStopsAfterFirstLine(t *testing.T) {
	t.Parallel()

	src := "addTagHelper \"*, Lib\"\r\n<p>ignored</p>"
	d := lexer.NewDirective(src, len("addTagHelper"))

	got := lexer.Tokenize(d)
	require.Len(t, got, 3)
	assert.Equal(t, syntax.TokenWhitespace, got[0].Kind)
	assert.Equal(t, tok(syntax.TokenStringLiteral, `"*, Lib"`), got[1])
	assert.Equal(t, tok(syntax.TokenNewLine, "\r\n"), got[2])
	assert.Equal(t, strings.Index(src, "<p>"), d.Offset())
}

func TestDirectiveTokenizerSkipsLeadingBlankLines(t *testing.T) {
	t.Parallel()

	got := lexer.Tokenize(lexer.NewDirective("\n  model Foo\nbar", 0))
	assert.Equal(t, "\n  model Foo\n", syntax.JoinTokens(got))
}

func TestTokenizerOffset(t *testing.T) {
	t.Parallel()

	src := "<p>@x</p>"
	m := lexer.NewMarkup(src, 3)
	assert.Equal(t, 3, m.Offset())

	first, ok := m.Next()
	require.True(t, ok)
	assert.Equal(t, syntax.TokenTransition, first.Kind)
	assert.Equal(t, 4, m.Offset())

	c := lexer.NewCode(src, m.Offset())
	name, ok := c.Next()
	require.True(t, ok)
	assert.Equal(t, tok(syntax.TokenIdentifier, "x"), name)
	assert.Equal(t, 5, c.Offset())
}

func TestTemplateCommentOffsets(t *testing.T) {
	t.Parallel()

	m := lexer.NewMarkup("@*a*@b", 0)
	offsets := []int{}
	for {
		offsets = append(offsets, m.Offset())
		if _, ok := m.Next(); !ok {
			break
		}
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, offsets)
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	assert.True(t, lexer.IsKeyword("foreach"))
	assert.True(t, lexer.IsKeyword("await"))
	assert.False(t, lexer.IsKeyword("Foreach"))
	assert.False(t, lexer.IsKeyword("model"))
	assert.NotEmpty(t, lexer.Keywords())
}
