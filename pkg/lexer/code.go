package lexer

import (
	"sort"
	"unicode"

	"github.com/yaklabco/gorazor/pkg/syntax"
)

var keywords = syntax.NewKeywordSet(
	"abstract", "as", "async", "await", "base", "bool", "break", "case", "catch", "checked",
	"class", "const", "continue", "default", "do", "else", "enum", "false", "finally",
	"fixed", "for", "foreach", "goto", "if", "in", "interface", "internal", "is", "lock",
	"namespace", "new", "null", "private", "protected", "public", "readonly", "return",
	"sizeof", "static", "struct", "switch", "this", "throw", "true", "try", "typeof",
	"unchecked", "using", "var", "void", "where", "while",
)

// IsKeyword reports whether word is a keyword of the code language.
func IsKeyword(word string) bool {
	idx := sort.SearchStrings(keywords, word)
	return idx < len(keywords) && keywords[idx] == word
}

// Keywords returns the sorted keyword list. The slice must not be modified.
func Keywords() []string {
	return keywords
}

// Code tokenizes the embedded code language.
type Code struct {
	scanner
}

// NewCode returns a code tokenizer positioned at offset.
func NewCode(src string, offset int) *Code {
	return &Code{scanner: scanner{src: src, pos: offset}}
}

// Offset implements Tokenizer.
func (c *Code) Offset() int {
	return c.offset()
}

// Next implements Tokenizer.
func (c *Code) Next() (syntax.Token, bool) {
	if tok, ok := c.popPending(); ok {
		return tok, true
	}
	if c.atEnd() {
		return syntax.Token{}, false
	}

	start := c.pos
	if w := c.newlineWidth(); w > 0 {
		c.pos += w
		return c.emit(syntax.TokenNewLine, start), true
	}
	if c.whitespace() {
		return c.emit(syntax.TokenWhitespace, start), true
	}

	ch := c.src[c.pos]
	switch {
	case isTemplateCommentStart(c.src, c.pos):
		c.templateComment()
		return c.popPending()
	case ch == '@' && c.peekByte(1) == '"',
		ch == '@' && c.peekByte(1) == '$' && c.peekByte(2) == '"',
		ch == '$' && c.peekByte(1) == '@' && c.peekByte(2) == '"':
		c.verbatimString()
		return c.emit(syntax.TokenStringLiteral, start), true
	case ch == '$' && c.peekByte(1) == '"':
		c.pos++
		c.quoted('"')
		return c.emit(syntax.TokenStringLiteral, start), true
	case ch == '"':
		c.quoted('"')
		return c.emit(syntax.TokenStringLiteral, start), true
	case ch == '\'':
		c.quoted('\'')
		return c.emit(syntax.TokenCharacterLiteral, start), true
	case ch == '/' && c.peekByte(1) == '/':
		c.lineComment()
		return c.emit(syntax.TokenComment, start), true
	case ch == '/' && c.peekByte(1) == '*':
		c.blockComment()
		return c.emit(syntax.TokenComment, start), true
	case ch >= '0' && ch <= '9',
		ch == '.' && isDigit(c.peekByte(1)):
		return c.emit(c.number(), start), true
	}

	if r, _ := c.peekRune(); isIdentStart(r) {
		c.identifier()
		word := c.src[start:c.pos]
		if IsKeyword(word) {
			return c.emit(syntax.TokenKeyword, start), true
		}
		return c.emit(syntax.TokenIdentifier, start), true
	}

	return c.emit(c.punctuation(), start), true
}

func (c *Code) identifier() {
	for !c.atEnd() {
		r, size := c.peekRune()
		if !isIdentPart(r) {
			return
		}
		c.pos += size
	}
}

// quoted scans a regular string or character literal. An unterminated
// literal stops before the line break.
func (c *Code) quoted(quote byte) {
	c.pos++
	for !c.atEnd() {
		switch c.src[c.pos] {
		case '\\':
			c.pos++
			if !c.atEnd() && c.newlineWidth() == 0 {
				c.pos++
			}
		case quote:
			c.pos++
			return
		case '\n', '\r':
			return
		default:
			c.pos++
		}
	}
}

// verbatimString scans @"..." where "" escapes a quote. It may span lines.
func (c *Code) verbatimString() {
	for c.src[c.pos] != '"' {
		c.pos++
	}
	c.pos++
	for !c.atEnd() {
		if c.src[c.pos] == '"' {
			if c.peekByte(1) == '"' {
				c.pos += 2
				continue
			}
			c.pos++
			return
		}
		c.pos++
	}
}

func (c *Code) lineComment() {
	for !c.atEnd() && c.newlineWidth() == 0 {
		c.pos++
	}
}

func (c *Code) blockComment() {
	c.pos += 2
	for !c.atEnd() {
		if c.src[c.pos] == '*' && c.peekByte(1) == '/' {
			c.pos += 2
			return
		}
		c.pos++
	}
}

func (c *Code) number() syntax.TokenKind {
	kind := syntax.TokenIntegerLiteral
	if c.src[c.pos] == '0' && (c.peekByte(1) == 'x' || c.peekByte(1) == 'X') {
		c.pos += 2
		for !c.atEnd() && (isHexDigit(c.src[c.pos]) || c.src[c.pos] == '_') {
			c.pos++
		}
		c.suffix()
		return kind
	}

	c.digits()
	if !c.atEnd() && c.src[c.pos] == '.' && isDigit(c.peekByte(1)) {
		kind = syntax.TokenRealLiteral
		c.pos++
		c.digits()
	}
	if !c.atEnd() && (c.src[c.pos] == 'e' || c.src[c.pos] == 'E') {
		next := c.peekByte(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(c.peekByte(2))) {
			kind = syntax.TokenRealLiteral
			c.pos += 2
			c.digits()
		}
	}
	if c.suffix() {
		switch c.src[c.pos-1] {
		case 'f', 'F', 'd', 'D', 'm', 'M':
			kind = syntax.TokenRealLiteral
		}
	}
	return kind
}

func (c *Code) digits() {
	for !c.atEnd() && (isDigit(c.src[c.pos]) || c.src[c.pos] == '_') {
		c.pos++
	}
}

func (c *Code) suffix() bool {
	start := c.pos
	for !c.atEnd() {
		switch c.src[c.pos] {
		case 'u', 'U', 'l', 'L', 'f', 'F', 'd', 'D', 'm', 'M':
			c.pos++
		default:
			return c.pos > start
		}
	}
	return c.pos > start
}

var twoCharOperators = map[string]bool{
	"==": true, "!=": true, "<=": true, ">=": true, "=>": true, "&&": true, "||": true,
	"++": true, "--": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "??": true, "->": true,
}

func (c *Code) punctuation() syntax.TokenKind {
	ch := c.src[c.pos]
	if c.pos+1 < len(c.src) {
		pair := c.src[c.pos : c.pos+2]
		switch {
		case pair == "::":
			c.pos += 2
			return syntax.TokenDoubleColon
		case twoCharOperators[pair]:
			c.pos += 2
			return syntax.TokenOperator
		}
	}

	switch ch {
	case '(':
		c.pos++
		return syntax.TokenLeftParen
	case ')':
		c.pos++
		return syntax.TokenRightParen
	case '{':
		c.pos++
		return syntax.TokenLeftBrace
	case '}':
		c.pos++
		return syntax.TokenRightBrace
	case '[':
		c.pos++
		return syntax.TokenLeftBracket
	case ']':
		c.pos++
		return syntax.TokenRightBracket
	case '.':
		c.pos++
		return syntax.TokenDot
	case ';':
		c.pos++
		return syntax.TokenSemicolon
	case ',':
		c.pos++
		return syntax.TokenComma
	case '?':
		c.pos++
		return syntax.TokenQuestionMark
	case ':':
		c.pos++
		return syntax.TokenColon
	case '<':
		c.pos++
		return syntax.TokenLessThan
	case '>':
		c.pos++
		return syntax.TokenGreaterThan
	case '=':
		c.pos++
		return syntax.TokenAssign
	case '!':
		c.pos++
		return syntax.TokenBang
	case '@':
		c.pos++
		return syntax.TokenTransition
	case '+', '-', '*', '/', '%', '&', '|', '^', '~':
		c.pos++
		return syntax.TokenOperator
	}

	_, size := c.peekRune()
	c.pos += size
	return syntax.TokenUnknown
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Pc, r)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// Directive is a Code tokenizer that ends after the first logical line: once
// a token other than whitespace or a line break has been produced, the next
// line break is the last token returned.
type Directive struct {
	code    *Code
	seen    bool
	stopped bool
}

// NewDirective returns a directive tokenizer positioned at offset.
func NewDirective(src string, offset int) *Directive {
	return &Directive{code: NewCode(src, offset)}
}

// Offset implements Tokenizer.
func (d *Directive) Offset() int {
	return d.code.Offset()
}

// Next implements Tokenizer.
func (d *Directive) Next() (syntax.Token, bool) {
	if d.stopped {
		return syntax.Token{}, false
	}

	tok, ok := d.code.Next()
	if !ok {
		return tok, false
	}

	switch tok.Kind {
	case syntax.TokenNewLine:
		if d.seen {
			d.stopped = true
		}
	case syntax.TokenWhitespace:
	default:
		d.seen = true
	}
	return tok, true
}
