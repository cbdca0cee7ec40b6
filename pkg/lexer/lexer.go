// Package lexer converts template source text into tokens.
//
// Two tokenizers share the token kinds of package syntax: Markup for the
// literal markup language and Code for the embedded expression language.
// Directive is a Code tokenizer restricted to one logical line. Tokenizers
// never fail; text they cannot classify comes back as TokenText or
// TokenUnknown and the parser decides what it means.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/gorazor/pkg/syntax"
)

// Tokenizer produces tokens from a fixed source string.
type Tokenizer interface {
	// Next returns the next token, or false at end of input.
	Next() (syntax.Token, bool)

	// Offset returns the absolute offset of the next token.
	Offset() int
}

// Tokenize drains t.
func Tokenize(t Tokenizer) []syntax.Token {
	var out []syntax.Token
	for {
		tok, ok := t.Next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

// scanner is the byte cursor shared by the tokenizers.
type scanner struct {
	src string
	pos int

	// pending holds tokens already scanned as a group, e.g. a template comment.
	pending []syntax.Token
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peekByte(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos+n]
}

func (s *scanner) peekRune() (rune, int) {
	if s.atEnd() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(s.src[s.pos:])
}

func (s *scanner) emit(kind syntax.TokenKind, start int) syntax.Token {
	return syntax.NewToken(kind, s.src[start:s.pos])
}

func (s *scanner) popPending() (syntax.Token, bool) {
	if len(s.pending) == 0 {
		return syntax.Token{}, false
	}
	tok := s.pending[0]
	s.pending = s.pending[1:]
	s.pos += len(tok.Content)
	return tok, true
}

// Pending tokens start at pos; popPending advances past each one.
func (s *scanner) offset() int {
	return s.pos
}

// newlineWidth reports the width of the line break at pos, or 0.
func (s *scanner) newlineWidth() int {
	switch s.peekByte(0) {
	case '\n':
		return 1
	case '\r':
		if s.peekByte(1) == '\n' {
			return 2
		}
		return 1
	}
	return 0
}

// whitespace consumes a run of non-newline whitespace.
func (s *scanner) whitespace() bool {
	start := s.pos
	for !s.atEnd() {
		r, size := s.peekRune()
		if r == '\n' || r == '\r' || !unicode.IsSpace(r) {
			break
		}
		s.pos += size
	}
	return s.pos > start
}

// templateComment scans "@*...*@" starting at pos into pending tokens.
func (s *scanner) templateComment() {
	body := s.pos + 2
	end := body
	closed := false
	for end < len(s.src) {
		if s.src[end] == '*' && end+1 < len(s.src) && s.src[end+1] == '@' {
			closed = true
			break
		}
		end++
	}

	toks := []syntax.Token{
		syntax.NewToken(syntax.TokenCommentTransition, "@"),
		syntax.NewToken(syntax.TokenCommentStar, "*"),
	}
	if end > body {
		toks = append(toks, syntax.NewToken(syntax.TokenCommentBody, s.src[body:end]))
	}
	if closed {
		toks = append(toks,
			syntax.NewToken(syntax.TokenCommentStar, "*"),
			syntax.NewToken(syntax.TokenCommentTransition, "@"))
	}

	s.pending = append(s.pending, toks...)
}

func isTemplateCommentStart(src string, pos int) bool {
	return pos+1 < len(src) && src[pos] == '@' && src[pos+1] == '*'
}
