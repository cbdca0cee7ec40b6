package parser

import (
	"github.com/yaklabco/gorazor/pkg/lexer"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// cursor buffers tokens from one tokenizer. Look-ahead never consumes: a
// speculative scan records mark() and rewinds with reset().
type cursor struct {
	tz     lexer.Tokenizer
	toks   []syntax.Token
	starts []int
	pos    int
	done   bool
}

func newCursor(tz lexer.Tokenizer) *cursor {
	return &cursor{tz: tz}
}

// fill makes sure index i is buffered.
func (c *cursor) fill(i int) bool {
	for len(c.toks) <= i {
		if c.done {
			return false
		}
		start := c.tz.Offset()
		tok, ok := c.tz.Next()
		if !ok {
			c.done = true
			return false
		}
		c.toks = append(c.toks, tok)
		c.starts = append(c.starts, start)
	}
	return true
}

func (c *cursor) eof() bool {
	return !c.fill(c.pos)
}

// peek returns the token n positions ahead of the current one.
func (c *cursor) peek(n int) (syntax.Token, bool) {
	if !c.fill(c.pos + n) {
		return syntax.Token{}, false
	}
	return c.toks[c.pos+n], true
}

func (c *cursor) current() syntax.Token {
	tok, _ := c.peek(0)
	return tok
}

func (c *cursor) at(kind syntax.TokenKind) bool {
	return c.peekIs(0, kind)
}

func (c *cursor) peekIs(n int, kind syntax.TokenKind) bool {
	tok, ok := c.peek(n)
	return ok && tok.Kind == kind
}

// peekText reports whether the token n ahead has the given kind and content.
func (c *cursor) peekText(n int, kind syntax.TokenKind, content string) bool {
	tok, ok := c.peek(n)
	return ok && tok.Kind == kind && tok.Content == content
}

// advance consumes the current token.
func (c *cursor) advance() syntax.Token {
	tok, ok := c.peek(0)
	if ok {
		c.pos++
	}
	return tok
}

// offset is the absolute source offset of the current token, or of the end
// of the tokenizer's input once it is exhausted.
func (c *cursor) offset() int {
	if c.fill(c.pos) {
		return c.starts[c.pos]
	}
	return c.tz.Offset()
}

func (c *cursor) mark() int {
	return c.pos
}

func (c *cursor) reset(mark int) {
	c.pos = mark
}

// since returns the tokens consumed after mark.
func (c *cursor) since(mark int) []syntax.Token {
	out := make([]syntax.Token, c.pos-mark)
	copy(out, c.toks[mark:c.pos])
	return out
}
