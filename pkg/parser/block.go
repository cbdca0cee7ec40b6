package parser

import (
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

const textTagName = "text"

// voidElements never wait for an end tag.
var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true, atom.Command: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true, atom.Keygen: true,
	atom.Link: true, atom.Meta: true, atom.Param: true, atom.Source: true, atom.Track: true,
	atom.Wbr: true,
}

// IsVoidElement reports whether name is a void HTML element, ignoring case.
func IsVoidElement(name string) bool {
	return voidElements[atom.Lookup([]byte(strings.ToLower(name)))]
}

// openTag is an entry of the tag stack of a markup block inside code.
type openTag struct {
	name   string
	offset int
}

// parseMarkupBlock parses the markup of a code block: one balanced element,
// a "<text>" block, or an "@:" line. The cursor may be in either language;
// on return it is back in code.
func (p *parser) parseMarkupBlock(prefix []syntax.Token, cc codeContext) syntax.NodeID {
	p.markupAt(p.offset())
	cc.nested = false

	var children []syntax.NodeID
	p.acceptTokens(prefix)

	switch {
	case p.at(syntax.TokenTransition):
		p.emit(&children, syntax.MarkupTextLiteral, markupCtx)
		p.accept()
		p.emit(&children, syntax.MarkupTransition, metaCtx)
		switch {
		case p.at(syntax.TokenColon):
			p.accept()
			p.emit(&children, syntax.MetaCode, noneCtx)
			p.singleLineMarkup(&children, cc)
		case p.at(syntax.TokenOpenAngle):
			p.tagBlock(&children, cc)
		}
	case p.at(syntax.TokenOpenAngle):
		p.tagBlock(&children, cc)
	default:
		p.report(diag.MarkupBlockMustStartWithTag, p.offset(), 1)
	}
	p.emit(&children, syntax.MarkupTextLiteral, markupCtx)

	id := p.b.Node(syntax.MarkupBlock, children...)
	p.codeAt(p.offset())
	return id
}

// singleLineMarkup reads markup up to and including the next line break.
func (p *parser) singleLineMarkup(children *[]syntax.NodeID, cc codeContext) {
	p.markupLoop(children, markupScope{stop: atNewLine, cc: cc})
	ctx := markupCtx
	if p.tryAccept(syntax.TokenNewLine) {
		ctx = ctx.Accepting(syntax.AcceptNone)
	}
	p.emit(children, syntax.MarkupTextLiteral, ctx)
}

func atNewLine(c *cursor) bool {
	return c.at(syntax.TokenNewLine)
}

func atOpenAngle(c *cursor) bool {
	return c.at(syntax.TokenOpenAngle)
}

// tagBlock parses tags until the first one opened is closed.
func (p *parser) tagBlock(children *[]syntax.NodeID, cc codeContext) {
	var tags []openTag
	complete := false

	for {
		p.markupLoop(children, markupScope{stop: atOpenAngle, cc: cc})
		p.emit(children, syntax.MarkupTextLiteral, markupCtx)
		if p.eof() {
			break
		}
		complete = p.tagInBlock(children, &tags, cc)
		if len(tags) == 0 {
			break
		}
	}

	p.endTagBlock(children, tags, complete)
}

// tagInBlock parses one tag at '<' and reports whether it was complete.
func (p *parser) tagInBlock(children *[]syntax.NodeID, tags *[]openTag, cc codeContext) bool {
	start := p.offset()
	next, ok := p.cur.peek(1)
	if !ok {
		if len(*tags) == 0 {
			p.report(diag.OuterTagMissingName, start, 1)
		}
		p.accept()
		p.emit(children, syntax.MarkupTextLiteral, markupCtx)
		return false
	}

	var complete bool
	switch {
	case next.Kind == syntax.TokenForwardSlash:
		return p.endTagInBlock(children, tags, start)
	case next.Kind == syntax.TokenQuestionMark:
		complete = p.xmlPI()
	case next.Kind == syntax.TokenBang && !p.atBangEscape(1):
		switch p.angleState() {
		case stateMarkupComment:
			p.markupComment(children, cc)
			return true
		case stateCData:
			complete = p.cdata()
		default:
			complete = p.specialTag()
		}
	default:
		return p.startTagInBlock(children, tags, cc)
	}

	ctx := markupCtx
	if complete {
		ctx = ctx.Accepting(syntax.AcceptNone)
	}
	p.emit(children, syntax.MarkupTextLiteral, ctx)
	return complete
}

func (p *parser) startTagInBlock(children *[]syntax.NodeID, tags *[]openTag, cc codeContext) bool {
	if name, ok := p.cur.peek(1); ok && len(*tags) == 0 &&
		name.Kind == syntax.TokenText && strings.EqualFold(name.Content, textTagName) {
		return p.textStartTag(children, tags)
	}

	tag := p.startTag(cc, true)
	if !tag.closed {
		*children = append(*children, tag.id)
		if !p.at(syntax.TokenOpenAngle) {
			p.report(diag.UnfinishedTag, tag.offset+1, max(len(tag.stackName()), 1), tag.stackName())
		}
		return false
	}
	if tag.selfClosing {
		*children = append(*children, tag.id)
		return true
	}

	switch {
	case IsVoidElement(tag.name):
		*children = append(*children, tag.id)
		if end, ok := p.voidEndTag(children, tag.name); ok {
			return end
		}
	case isScript(tag.name) && !tag.expectsMarkup():
		*children = append(*children, p.scriptElement(tag, cc, true))
	default:
		*children = append(*children, tag.id)
		*tags = append(*tags, openTag{name: tag.stackName(), offset: tag.offset})
	}
	return true
}

// voidEndTag accepts an explicit end tag directly after a void element.
// ok is false, with nothing consumed, when there is none.
func (p *parser) voidEndTag(children *[]syntax.NodeID, name string) (complete, ok bool) {
	mark := p.cur.mark()
	ws := p.read(isSpacingOrNewLine)

	tok, found := p.cur.peek(2)
	if !p.at(syntax.TokenOpenAngle) || !p.cur.peekIs(1, syntax.TokenForwardSlash) ||
		!found || tok.Kind != syntax.TokenText || !strings.EqualFold(tok.Content, name) {
		p.cur.reset(mark)
		return false, false
	}

	p.acceptTokens(ws)
	p.emit(children, syntax.MarkupTextLiteral, markupCtx)

	var parts []syntax.NodeID
	p.accept()
	p.accept()
	p.accept()
	p.acceptUntil(syntax.TokenCloseAngle, syntax.TokenOpenAngle)
	complete = p.tryAccept(syntax.TokenCloseAngle)
	ctx := markupCtx
	if complete {
		ctx = ctx.Accepting(syntax.AcceptNone)
	}
	p.emit(&parts, syntax.MarkupTextLiteral, ctx)
	*children = append(*children, p.b.Node(syntax.MarkupEndTag, parts...))
	return complete, true
}

// textStartTag parses "<text>" or "<text/>", which only switch to markup
// and render nothing.
func (p *parser) textStartTag(children *[]syntax.NodeID, tags *[]openTag) bool {
	start := p.offset()
	p.accept()
	nameAt := p.offset()
	p.accept()

	mark := p.cur.mark()
	ws := p.read(isSpacingOrNewLine)
	empty := p.at(syntax.TokenForwardSlash)
	if empty {
		p.acceptTokens(ws)
		p.accept()
		mark = p.cur.mark()
		ws = p.read(isSpacingOrNewLine)
	}

	ctx := metaCtx
	if p.at(syntax.TokenCloseAngle) {
		p.acceptTokens(ws)
		p.accept()
	} else {
		p.cur.reset(mark)
		p.report(diag.TextTagCannotContainAttributes, nameAt, len(textTagName))
		p.recoverTextTag()
		ctx = noneCtx
	}

	var parts []syntax.NodeID
	p.emit(&parts, syntax.MarkupTransition, ctx)
	*children = append(*children, p.b.Node(syntax.MarkupStartTag, parts...))

	if !empty {
		*tags = append(*tags, openTag{name: textTagName, offset: start})
	}
	return true
}

func (p *parser) recoverTextTag() {
	p.acceptUntil(syntax.TokenCloseAngle, syntax.TokenNewLine)
	p.tryAccept(syntax.TokenCloseAngle)
}

func (p *parser) endTagInBlock(children *[]syntax.NodeID, tags *[]openTag, start int) bool {
	name, ok := p.endTagName()
	if !ok {
		p.accept()
		p.accept()
		p.emit(children, syntax.MarkupTextLiteral, markupCtx)
		return false
	}

	matched := p.removeTag(tags, name, start)
	if len(*tags) == 0 && matched && strings.EqualFold(name, textTagName) {
		return p.textEndTag(children)
	}

	var parts []syntax.NodeID
	p.accept()
	p.accept()
	p.bangEscape(&parts)
	p.acceptUntil(syntax.TokenCloseAngle)
	complete := p.tryAccept(syntax.TokenCloseAngle)
	ctx := markupCtx
	if complete {
		ctx = ctx.Accepting(syntax.AcceptNone)
	}
	p.emit(&parts, syntax.MarkupTextLiteral, ctx)
	*children = append(*children, p.b.Node(syntax.MarkupEndTag, parts...))
	return complete
}

// endTagName reads the name of the end tag at "</" without consuming it.
// ok is false when the input ends after "</".
func (p *parser) endTagName() (string, bool) {
	tok, ok := p.cur.peek(2)
	if !ok {
		return "", false
	}
	switch tok.Kind {
	case syntax.TokenBang:
		if name := p.peekTagName(3); name != "" {
			return "!" + name, true
		}
	case syntax.TokenText:
		return p.peekTagName(2), true
	}
	return "", true
}

// peekTagName reads the tag name starting n tokens ahead without consuming it.
func (p *parser) peekTagName(n int) string {
	var b strings.Builder
	for {
		tok, ok := p.cur.peek(n)
		if !ok {
			break
		}
		if tok.Kind == syntax.TokenColon {
			if next, ok := p.cur.peek(n + 1); !ok || next.Kind != syntax.TokenText {
				break
			}
		} else if tok.Kind != syntax.TokenText {
			break
		}
		b.WriteString(tok.Content)
		n++
	}
	return b.String()
}

func (p *parser) textEndTag(children *[]syntax.NodeID) bool {
	p.accept()
	p.accept()
	nameAt := p.offset()
	p.accept()

	ctx := metaCtx
	complete := p.tryAccept(syntax.TokenCloseAngle)
	if !complete {
		p.report(diag.TextTagCannotContainAttributes, nameAt, len(textTagName))
		p.recoverTextTag()
		ctx = noneCtx
	}

	var parts []syntax.NodeID
	p.emit(&parts, syntax.MarkupTransition, ctx)
	*children = append(*children, p.b.Node(syntax.MarkupEndTag, parts...))
	return complete
}

// removeTag pops the stack up to the tag name closes. Popping past an open
// tag reports it as unclosed; an end tag with nothing open is reported too.
func (p *parser) removeTag(tags *[]openTag, name string, start int) bool {
	var last *openTag
	for len(*tags) > 0 {
		top := (*tags)[len(*tags)-1]
		*tags = (*tags)[:len(*tags)-1]
		if strings.EqualFold(name, top.name) {
			return true
		}
		last = &top
	}

	if last != nil {
		p.report(diag.MissingEndTag, last.offset+1, len(last.name), last.name)
	} else {
		p.report(diag.UnexpectedEndTag, start+2, len(name), name)
	}
	return false
}

// endTagBlock reports what is still open and takes the rest of the line.
func (p *parser) endTagBlock(children *[]syntax.NodeID, tags []openTag, complete bool) {
	if len(tags) > 0 {
		outer := tags[0]
		p.report(diag.MissingEndTag, outer.offset+1, len(outer.name), outer.name)
	}

	ctx := markupCtx
	if len(tags) == 0 && complete {
		ctx = ctx.Accepting(syntax.AcceptNone)
	}

	takeLineEnd := ctx.Accepted == syntax.AcceptAny
	if !p.opts.DesignTime {
		takeLineEnd = true
		if p.endsWithTransition(*children) {
			// After "</text>" the line end stays with code unless more
			// markup follows.
			mark := p.cur.mark()
			p.read(isSpacingOrNewLine)
			takeLineEnd = p.at(syntax.TokenOpenAngle) ||
				(p.at(syntax.TokenTransition) && p.cur.peekIs(1, syntax.TokenColon))
			p.cur.reset(mark)
		}
	}
	if takeLineEnd {
		p.acceptWhile(isSpacing)
		p.tryAccept(syntax.TokenNewLine)
	}

	if !complete && len(p.pending) == 0 {
		p.pending = append(p.pending, syntax.Marker())
	}
	p.emit(children, syntax.MarkupTextLiteral, ctx)
}

// endsWithTransition reports whether the last node built is a "<text>" or
// "</text>" transition tag.
func (p *parser) endsWithTransition(children []syntax.NodeID) bool {
	if len(children) == 0 {
		return false
	}
	last := children[len(children)-1]
	switch p.b.Kind(last) {
	case syntax.MarkupStartTag, syntax.MarkupEndTag:
	default:
		return false
	}
	parts := p.b.Children(last)
	return len(parts) > 0 && p.b.Kind(parts[len(parts)-1]) == syntax.MarkupTransition
}
