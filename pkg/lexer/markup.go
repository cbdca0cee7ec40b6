package lexer

import (
	"unicode"

	"github.com/yaklabco/gorazor/pkg/syntax"
)

// Markup tokenizes the markup language.
type Markup struct {
	scanner
}

// NewMarkup returns a markup tokenizer positioned at offset.
func NewMarkup(src string, offset int) *Markup {
	return &Markup{scanner: scanner{src: src, pos: offset}}
}

// Offset implements Tokenizer.
func (m *Markup) Offset() int {
	return m.offset()
}

// Next implements Tokenizer.
func (m *Markup) Next() (syntax.Token, bool) {
	if tok, ok := m.popPending(); ok {
		return tok, true
	}
	if m.atEnd() {
		return syntax.Token{}, false
	}

	start := m.pos
	if w := m.newlineWidth(); w > 0 {
		m.pos += w
		return m.emit(syntax.TokenNewLine, start), true
	}
	if m.whitespace() {
		return m.emit(syntax.TokenWhitespace, start), true
	}

	if isTemplateCommentStart(m.src, m.pos) {
		m.templateComment()
		return m.popPending()
	}

	if kind, ok := markupPunctuation(m.src[m.pos]); ok {
		m.pos++
		return m.emit(kind, start), true
	}

	if m.src[m.pos] == '-' && m.peekByte(1) == '-' {
		m.pos += 2
		return m.emit(syntax.TokenDoubleHyphen, start), true
	}

	m.text()
	return m.emit(syntax.TokenText, start), true
}

// text consumes the longest run that starts no other token. A single '-' is
// part of the run; "--" ends it.
func (m *Markup) text() {
	for !m.atEnd() {
		c := m.src[m.pos]
		if _, ok := markupPunctuation(c); ok {
			return
		}
		if c == '-' && m.peekByte(1) == '-' {
			return
		}
		r, size := m.peekRune()
		if unicode.IsSpace(r) {
			return
		}
		m.pos += size
	}
}

func markupPunctuation(c byte) (syntax.TokenKind, bool) {
	switch c {
	case '<':
		return syntax.TokenOpenAngle, true
	case '>':
		return syntax.TokenCloseAngle, true
	case '!':
		return syntax.TokenBang, true
	case '/':
		return syntax.TokenForwardSlash, true
	case '?':
		return syntax.TokenQuestionMark, true
	case '[':
		return syntax.TokenLeftBracket, true
	case ']':
		return syntax.TokenRightBracket, true
	case '=':
		return syntax.TokenEquals, true
	case '"':
		return syntax.TokenDoubleQuote, true
	case '\'':
		return syntax.TokenSingleQuote, true
	case '@':
		return syntax.TokenTransition, true
	case ':':
		return syntax.TokenColon, true
	case '{':
		return syntax.TokenLeftBrace, true
	case '}':
		return syntax.TokenRightBrace, true
	}
	return syntax.TokenUnknown, false
}
