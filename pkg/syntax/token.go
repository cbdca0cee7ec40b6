package syntax

//go:generate stringer -type=TokenKind -trimprefix=Token

// TokenKind classifies a token produced by one of the tokenizers.
// Markup and code tokenizers share this one closed set.
type TokenKind uint8

// Token kinds. Kinds used by both tokenizers come first.
const (
	TokenUnknown TokenKind = iota
	TokenMarker            // zero-width placeholder for an empty span
	TokenText
	TokenWhitespace
	TokenNewLine
	TokenTransition         // '@'
	TokenCommentTransition  // '@' opening or closing a template comment
	TokenCommentStar        // '*' next to a comment transition
	TokenCommentBody        // everything between "@*" and "*@"
	TokenLeftBracket        // '['
	TokenRightBracket       // ']'
	TokenQuestionMark       // '?'
	TokenColon              // ':'
	TokenDoubleQuote        // '"' (markup)
	TokenSingleQuote        // '\'' (markup)
	TokenOpenAngle          // '<' (markup)
	TokenCloseAngle         // '>' (markup)
	TokenBang               // '!'
	TokenForwardSlash       // '/' (markup)
	TokenDoubleHyphen       // "--" (markup)
	TokenEquals             // '=' (markup)
	TokenIdentifier         // code
	TokenKeyword            // code
	TokenIntegerLiteral     // code
	TokenRealLiteral        // code
	TokenStringLiteral      // code, including verbatim @"..."
	TokenCharacterLiteral   // code
	TokenComment            // code: "//" or "/* */"
	TokenLeftParen          // '('
	TokenRightParen         // ')'
	TokenLeftBrace          // '{'
	TokenRightBrace         // '}'
	TokenDot                // '.'
	TokenSemicolon          // ';'
	TokenComma              // ','
	TokenLessThan           // '<' (code)
	TokenGreaterThan        // '>' (code)
	TokenAssign             // '=' (code)
	TokenDoubleColon        // "::"
	TokenOperator           // any other code punctuation
)

// Token is one classified run of source text.
// Tokens carry no position: the position of a token is the sum of the widths
// of everything before it.
type Token struct {
	Kind    TokenKind
	Content string
}

// NewToken is shorthand for a Token literal.
func NewToken(kind TokenKind, content string) Token {
	return Token{Kind: kind, Content: content}
}

// Marker returns the zero-width marker token.
func Marker() Token {
	return Token{Kind: TokenMarker}
}

// Width returns the length of the token in bytes.
func (t Token) Width() int {
	return len(t.Content)
}

// IsTrivia reports whether the token is whitespace or a newline.
func (t Token) IsTrivia() bool {
	return t.Kind == TokenWhitespace || t.Kind == TokenNewLine
}

// Is reports whether the token has the given kind.
func (t Token) Is(kind TokenKind) bool {
	return t.Kind == kind
}

// JoinTokens concatenates token contents.
func JoinTokens(tokens []Token) string {
	switch len(tokens) {
	case 0:
		return ""
	case 1:
		return tokens[0].Content
	}

	size := 0
	for _, tok := range tokens {
		size += len(tok.Content)
	}

	buf := make([]byte, 0, size)
	for _, tok := range tokens {
		buf = append(buf, tok.Content...)
	}

	return string(buf)
}
