package parser

import (
	"strings"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// specialTag reads "<!...>" (DOCTYPE, or a malformed comment) as text.
func (p *parser) specialTag() bool {
	p.accept()
	p.accept()
	p.accept()
	return p.acceptThrough(syntax.TokenCloseAngle)
}

// xmlPI reads "<? ... ?>" as text.
func (p *parser) xmlPI() bool {
	p.accept()
	p.accept()
	return p.acceptThrough(syntax.TokenQuestionMark, syntax.TokenCloseAngle)
}

// cdata reads "<![CDATA[ ... ]]>" as text.
func (p *parser) cdata() bool {
	p.acceptAll(syntax.TokenOpenAngle, syntax.TokenBang, syntax.TokenLeftBracket,
		syntax.TokenText, syntax.TokenLeftBracket)
	return p.acceptThrough(syntax.TokenRightBracket, syntax.TokenRightBracket, syntax.TokenCloseAngle)
}

func (p *parser) cdataAhead(n int) bool {
	tok, ok := p.cur.peek(n)
	return ok && tok.Kind == syntax.TokenText && strings.EqualFold(tok.Content, "CDATA") &&
		p.cur.peekIs(n+1, syntax.TokenLeftBracket)
}

// acceptThrough accepts tokens up to and including the first occurrence of
// seq. It reports whether seq was found.
func (p *parser) acceptThrough(seq ...syntax.TokenKind) bool {
	for !p.eof() {
		if p.atSequence(seq) {
			for range seq {
				p.accept()
			}
			return true
		}
		p.accept()
	}
	return false
}

func (p *parser) atSequence(seq []syntax.TokenKind) bool {
	for i, kind := range seq {
		if !p.cur.peekIs(i, kind) {
			return false
		}
	}
	return true
}

// Markup comments.

// validComment scans ahead from "<!--" and reports whether a well-formed
// comment follows. Nothing is consumed. A comment may not start with '>' or
// "->", may not contain "<!--" or a "--" other than its terminator, and may
// not end with "<!-".
func (p *parser) validComment() bool {
	c := p.cur
	const open = 3

	if c.peekIs(open, syntax.TokenCloseAngle) ||
		(c.peekText(open, syntax.TokenText, "-") && c.peekIs(open+1, syntax.TokenCloseAngle)) {
		return false
	}

	for i := open; ; i++ {
		tok, ok := c.peek(i)
		if !ok {
			return false
		}

		switch tok.Kind {
		case syntax.TokenDoubleHyphen:
			last := i
			for c.peekIs(last+1, syntax.TokenDoubleHyphen) {
				last++
			}
			switch {
			case c.peekIs(last+1, syntax.TokenCloseAngle):
				return !p.endsWithReservedOpener(open, i)
			case c.peekText(last+1, syntax.TokenText, "-") && c.peekIs(last+2, syntax.TokenCloseAngle):
				return true
			default:
				// "--!>" or a "--" inside the text.
				return false
			}
		case syntax.TokenOpenAngle:
			if c.peekIs(i+1, syntax.TokenBang) && c.peekIs(i+2, syntax.TokenDoubleHyphen) {
				return false
			}
		}
	}
}

// endsWithReservedOpener reports whether the look-ahead tokens [from, to)
// end with "<!-".
func (p *parser) endsWithReservedOpener(from, to int) bool {
	if to-from < 3 {
		return false
	}
	return p.cur.peekIs(to-3, syntax.TokenOpenAngle) &&
		p.cur.peekIs(to-2, syntax.TokenBang) &&
		p.cur.peekText(to-1, syntax.TokenText, "-")
}

// markupComment parses a comment already validated by validComment. Code
// inside the comment is still parsed.
func (p *parser) markupComment(out *[]syntax.NodeID, cc codeContext) {
	p.emit(out, syntax.MarkupTextLiteral, markupCtx)

	var children []syntax.NodeID
	p.acceptAll(syntax.TokenOpenAngle, syntax.TokenBang, syntax.TokenDoubleHyphen)
	p.emit(&children, syntax.MarkupTextLiteral, markupCtx.Accepting(syntax.AcceptNone))

	contentCtx := markupCtx.Accepting(syntax.AcceptWhiteSpace)
	for !p.eof() {
		p.markupLoop(&children, markupScope{stop: atDoubleHyphen, cc: cc})
		if p.eof() {
			break
		}

		closer := p.holdLastDoubleHyphen()
		if p.at(syntax.TokenCloseAngle) {
			p.emitMarker(&children, syntax.MarkupTextLiteral, contentCtx)
			p.acceptTokens(closer)
			p.accept()
			p.emit(&children, syntax.MarkupTextLiteral, markupCtx.Accepting(syntax.AcceptNone))
			*out = append(*out, p.b.Node(syntax.MarkupCommentBlock, children...))
			return
		}
		p.acceptTokens(closer)
	}

	p.emit(&children, syntax.MarkupTextLiteral, contentCtx)
	*out = append(*out, p.b.Node(syntax.MarkupCommentBlock, children...))
}

func atDoubleHyphen(c *cursor) bool {
	return c.at(syntax.TokenDoubleHyphen)
}

// holdLastDoubleHyphen accepts a run of "--" tokens except the last, which
// is returned unaccepted together with a following "-" when that "-" is
// directly before '>'.
func (p *parser) holdLastDoubleHyphen() []syntax.Token {
	for p.cur.peekIs(1, syntax.TokenDoubleHyphen) {
		p.accept()
	}
	held := []syntax.Token{p.cur.advance()}

	if p.cur.peekText(0, syntax.TokenText, "-") {
		if p.cur.peekIs(1, syntax.TokenCloseAngle) {
			return append(held, p.cur.advance())
		}
		p.acceptTokens(held)
		p.accept()
		return nil
	}
	return held
}

// Script bodies.

func isScript(name string) bool {
	return strings.EqualFold(name, "script")
}

// atScriptEnd reports whether "</script" followed by whitespace, '>' or the
// end of input is next.
func atScriptEnd(c *cursor) bool {
	if !c.at(syntax.TokenOpenAngle) || !c.peekIs(1, syntax.TokenForwardSlash) {
		return false
	}
	name, ok := c.peek(2)
	if !ok || name.Kind != syntax.TokenText || !isScript(name.Content) {
		return false
	}
	after, ok := c.peek(3)
	return !ok || after.Kind == syntax.TokenWhitespace || after.Kind == syntax.TokenNewLine ||
		after.Kind == syntax.TokenCloseAngle
}

// scriptElement groups an opaque script body with its tags. The body is
// text with embedded code; tags inside it are not recognised.
func (p *parser) scriptElement(tag tagStart, cc codeContext, strict bool) syntax.NodeID {
	children := []syntax.NodeID{tag.id}

	p.markupLoop(&children, markupScope{stop: atScriptEnd, cc: cc})
	p.emit(&children, syntax.MarkupTextLiteral, markupCtx)

	if p.eof() {
		if strict {
			p.report(diag.MissingEndTag, tag.offset+1, max(len(tag.name), 1), tag.name)
		}
		return p.b.Node(syntax.MarkupElement, children...)
	}

	var end []syntax.NodeID
	start := p.offset()
	p.acceptAll(syntax.TokenOpenAngle, syntax.TokenForwardSlash, syntax.TokenText)
	p.acceptUntil(syntax.TokenCloseAngle)
	if !p.tryAccept(syntax.TokenCloseAngle) {
		p.report(diag.UnfinishedTag, start+2, len("script"), "script")
	}
	p.emit(&end, syntax.MarkupTextLiteral, markupCtx)
	children = append(children, p.b.Node(syntax.MarkupEndTag, end...))

	return p.b.Node(syntax.MarkupElement, children...)
}
