package parser

import (
	"strings"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// markupState is what the markup driver expects next.
type markupState uint8

const (
	stateMarkupText markupState = iota
	stateTag
	stateSpecialTag
	stateXMLPI
	stateCData
	stateMarkupComment
	stateTemplateComment
	stateDoubleTransition
	stateCodeTransition
	stateMisc
	stateUnknown
	stateEndOfFile
)

var (
	markupCtx    = syntax.MarkupContext()
	noneCtx      = syntax.SpanContext{Generator: syntax.GenNone, Accepted: syntax.AcceptAny}
	metaCtx      = syntax.SpanContext{Generator: syntax.GenNone, Accepted: syntax.AcceptNone}
	attrValueCtx = syntax.SpanContext{Generator: syntax.GenLiteralAttribute, Accepted: syntax.AcceptAny}
)

// markupScope restricts one run of the markup driver.
type markupScope struct {
	// tags enables tag, comment and special tag recognition. Without it
	// everything but code transitions is literal text.
	tags bool

	// section stops at the '}' that closes a section body.
	section bool

	// stop ends the run before the current token.
	stop func(c *cursor) bool

	cc codeContext
}

// markupLoop is the markup state machine. It leaves its last literal run
// pending for the caller to seal.
func (p *parser) markupLoop(out *[]syntax.NodeID, scope markupScope) {
	suppress := false
	depth := 0

	for {
		if suppress {
			suppress = false
			if scope.tags {
				p.suppressLineEnd(out)
				continue
			}
		}

		if !p.eof() {
			if scope.stop != nil && scope.stop(p.cur) {
				return
			}
			if scope.section {
				switch p.cur.current().Kind {
				case syntax.TokenLeftBrace:
					depth++
				case syntax.TokenRightBrace:
					if depth == 0 {
						return
					}
					depth--
				}
			}
		}

		switch p.markupState(scope.tags) {
		case stateEndOfFile:
			return
		case stateTemplateComment:
			p.markupTemplateComment(out, p.atLineStart(p.offset()))
		case stateDoubleTransition:
			p.doubleTransition(out)
		case stateCodeTransition:
			suppress = p.markupCode(out, nil, scope.cc)
		case stateMisc:
			suppress = p.misc(out, scope.cc)
		case stateTag:
			p.documentTag(out, scope.cc)
		case stateSpecialTag:
			p.specialTag()
		case stateXMLPI:
			p.xmlPI()
		case stateCData:
			p.cdata()
		case stateMarkupComment:
			p.markupComment(out, scope.cc)
		case stateMarkupText, stateUnknown:
			p.accept()
		}
	}
}

// markupState classifies the upcoming tokens without consuming them.
func (p *parser) markupState(tags bool) markupState {
	tok, ok := p.cur.peek(0)
	if !ok {
		return stateEndOfFile
	}

	switch tok.Kind {
	case syntax.TokenCommentTransition:
		return stateTemplateComment
	case syntax.TokenTransition:
		if p.cur.peekIs(1, syntax.TokenTransition) {
			return stateDoubleTransition
		}
		return stateCodeTransition
	case syntax.TokenWhitespace, syntax.TokenNewLine:
		return stateMisc
	}

	if tags && tok.Kind == syntax.TokenOpenAngle {
		return p.angleState()
	}
	if tok.Kind == syntax.TokenText {
		return stateMarkupText
	}
	return stateUnknown
}

func (p *parser) angleState() markupState {
	c := p.cur
	switch {
	case c.peekIs(1, syntax.TokenQuestionMark):
		return stateXMLPI
	case !c.peekIs(1, syntax.TokenBang), p.atBangEscape(1):
		return stateTag
	case c.peekIs(2, syntax.TokenDoubleHyphen):
		if p.validComment() {
			return stateMarkupComment
		}
		return stateSpecialTag
	case c.peekIs(2, syntax.TokenLeftBracket) && p.cdataAhead(3):
		return stateCData
	}
	return stateSpecialTag
}

// atBangEscape reports whether "!name" starts n tokens ahead, where name is
// anything but DOCTYPE. The bang opts the element out of tag helpers.
func (p *parser) atBangEscape(n int) bool {
	if !p.cur.peekIs(n, syntax.TokenBang) {
		return false
	}
	next, ok := p.cur.peek(n + 1)
	return ok && next.Kind == syntax.TokenText && !strings.EqualFold(next.Content, "DOCTYPE")
}

func (p *parser) atLineStart(offset int) bool {
	if offset == 0 {
		return true
	}
	c := p.src[offset-1]
	return c == '\n' || c == '\r'
}

// suppressLineEnd swallows the rest of a line after a code block into a
// non-generating literal.
func (p *parser) suppressLineEnd(out *[]syntax.NodeID) {
	p.emit(out, syntax.MarkupTextLiteral, markupCtx)
	p.acceptWhile(isSpacing)
	p.tryAccept(syntax.TokenNewLine)
	p.emit(out, syntax.MarkupEphemeralTextLiteral, noneCtx)
}

func (p *parser) doubleTransition(out *[]syntax.NodeID) {
	p.emit(out, syntax.MarkupTextLiteral, markupCtx)
	p.accept()
	p.emit(out, syntax.MarkupEphemeralTextLiteral, noneCtx)
	p.accept()
}

// misc handles a whitespace or newline token. Indentation before a code
// transition at the start of a line belongs to the code block.
func (p *parser) misc(out *[]syntax.NodeID, cc codeContext) bool {
	if p.at(syntax.TokenNewLine) {
		p.accept()
		return false
	}

	lineStart := p.atLineStart(p.offset())
	switch {
	case lineStart && !p.opts.DesignTime &&
		p.cur.peekIs(1, syntax.TokenTransition) && !p.cur.peekIs(2, syntax.TokenTransition):
		p.emit(out, syntax.MarkupTextLiteral, markupCtx)
		prefix := []syntax.Token{p.cur.advance()}
		return p.markupCode(out, prefix, cc)

	case lineStart && p.cur.peekIs(1, syntax.TokenCommentTransition):
		p.emit(out, syntax.MarkupTextLiteral, markupCtx)
		p.accept()
		p.emit(out, syntax.MarkupEphemeralTextLiteral, noneCtx)
		p.markupTemplateComment(out, true)
		return false
	}

	p.accept()
	return false
}

// markupCode seals pending markup and parses the code block at the current
// transition. It reports whether the rest of the line should be suppressed.
func (p *parser) markupCode(out *[]syntax.NodeID, prefix []syntax.Token, cc codeContext) bool {
	p.emit(out, syntax.MarkupTextLiteral, markupCtx)
	id, suppress := p.codeFromMarkup(prefix, cc)
	*out = append(*out, id)
	return suppress
}

// codeFromMarkup switches to code at the current '@', parses one code block
// and switches back.
func (p *parser) codeFromMarkup(prefix []syntax.Token, cc codeContext) (syntax.NodeID, bool) {
	id, suppress := p.parseCode(prefix, cc)
	p.markupAt(p.offset())
	return id, suppress
}

func (p *parser) markupTemplateComment(out *[]syntax.NodeID, lineStart bool) {
	p.emit(out, syntax.MarkupTextLiteral, markupCtx)
	*out = append(*out, p.templateComment())

	if !lineStart {
		return
	}
	mark := p.cur.mark()
	ws := p.read(isSpacing)
	if !p.at(syntax.TokenNewLine) {
		p.cur.reset(mark)
		return
	}
	p.acceptTokens(ws)
	p.accept()
	p.emit(out, syntax.MarkupEphemeralTextLiteral, noneCtx)
}

// templateComment parses "@* ... *@". The markup and code tokenizers produce
// the same tokens for it.
func (p *parser) templateComment() syntax.NodeID {
	start := p.offset()
	var children []syntax.NodeID

	p.accept()
	p.tryAccept(syntax.TokenCommentStar)
	p.emit(&children, syntax.CommentLiteral, metaCtx)

	p.tryAccept(syntax.TokenCommentBody)
	p.emitMarker(&children, syntax.CommentLiteral, noneCtx)

	if p.acceptAll(syntax.TokenCommentStar, syntax.TokenCommentTransition) {
		p.emit(&children, syntax.CommentLiteral, metaCtx)
	} else {
		p.emit(&children, syntax.CommentLiteral, noneCtx)
		p.report(diag.UnterminatedTemplateComment, start, 2)
	}

	return p.b.Node(syntax.TemplateComment, children...)
}

// Tags.

// tagStart describes a parsed start tag.
type tagStart struct {
	id          syntax.NodeID
	name        string
	offset      int
	closed      bool
	selfClosing bool

	// typeAttr is the literal value of a "type" attribute, if any.
	typeAttr    string
	hasTypeAttr bool

	// bang is set for "<!name", which never binds to a tag helper.
	bang bool
}

// stackName is the name the tag is matched by; escaped tags keep their '!'.
func (t tagStart) stackName() string {
	if t.bang {
		return "!" + t.name
	}
	return t.name
}

// documentTag parses one tag at document level. Tags are not matched there:
// start and end tags are siblings and only an opaque script body is grouped.
func (p *parser) documentTag(out *[]syntax.NodeID, cc codeContext) {
	p.emit(out, syntax.MarkupTextLiteral, markupCtx)

	if p.cur.peekIs(1, syntax.TokenForwardSlash) {
		*out = append(*out, p.lenientEndTag())
		return
	}

	tag := p.startTag(cc, false)
	if isScript(tag.name) && tag.closed && !tag.selfClosing && !tag.expectsMarkup() {
		*out = append(*out, p.scriptElement(tag, cc, false))
		return
	}
	*out = append(*out, tag.id)
}

// startTag parses '<' [!] name attributes* ['/'] ['>']. Inside code blocks
// a complete tag accepts no edits.
func (p *parser) startTag(cc codeContext, block bool) tagStart {
	var children []syntax.NodeID
	tag := tagStart{offset: p.offset()}

	p.accept()
	tag.bang = p.bangEscape(&children)
	if p.at(syntax.TokenText) {
		tag.name = p.tagName()
	}

	p.tagContent(&children, &tag, cc)

	slash := p.tryAccept(syntax.TokenForwardSlash)
	tag.closed = p.tryAccept(syntax.TokenCloseAngle)
	tag.selfClosing = slash && tag.closed

	ctx := markupCtx
	if block && tag.closed {
		ctx = ctx.Accepting(syntax.AcceptNone)
	}
	p.emit(&children, syntax.MarkupTextLiteral, ctx)
	tag.id = p.b.Node(syntax.MarkupStartTag, children...)
	return tag
}

// lenientEndTag parses "</name>" without reporting anything.
func (p *parser) lenientEndTag() syntax.NodeID {
	var children []syntax.NodeID
	p.accept()
	p.accept()
	p.bangEscape(&children)
	if p.at(syntax.TokenText) {
		p.tagName()
	}
	p.tryAccept(syntax.TokenWhitespace)
	p.tryAccept(syntax.TokenCloseAngle)
	p.emit(&children, syntax.MarkupTextLiteral, markupCtx)
	return p.b.Node(syntax.MarkupEndTag, children...)
}

// tagName accepts a tag name. A name may carry a prefix, as in "th:input".
func (p *parser) tagName() string {
	var b strings.Builder
	for p.at(syntax.TokenText) || (p.at(syntax.TokenColon) && p.cur.peekIs(1, syntax.TokenText)) {
		b.WriteString(p.cur.current().Content)
		p.accept()
	}
	return b.String()
}

// bangEscape turns the '!' of "<!name" into its own non-generating leaf.
func (p *parser) bangEscape(children *[]syntax.NodeID) bool {
	if !p.atBangEscape(0) {
		return false
	}
	p.emit(children, syntax.MarkupTextLiteral, markupCtx)
	p.accept()
	p.emit(children, syntax.MetaCode, metaCtx)
	return true
}

func (p *parser) tagContent(children *[]syntax.NodeID, tag *tagStart, cc codeContext) {
	if !p.at(syntax.TokenWhitespace) && !p.at(syntax.TokenNewLine) {
		p.recoverToEndOfTag(children, cc)
		return
	}
	for !p.eof() && !p.isEndOfTag() {
		p.beforeAttribute(children, tag, cc)
	}
}

// isEndOfTag stops at "/>", '>' or '<'. A lone '/' is accepted as text.
func (p *parser) isEndOfTag() bool {
	if p.at(syntax.TokenForwardSlash) {
		if p.cur.peekIs(1, syntax.TokenCloseAngle) {
			return true
		}
		p.accept()
	}
	return p.at(syntax.TokenCloseAngle) || p.at(syntax.TokenOpenAngle)
}

// recoverToEndOfTag reads malformed tag content as text, still parsing code
// and skipping quoted runs, up to the next '>', '/' or '<'.
func (p *parser) recoverToEndOfTag(children *[]syntax.NodeID, cc codeContext) {
	for !p.eof() {
		p.markupLoop(children, markupScope{stop: atTagRecoveryStop, cc: cc})
		switch p.cur.current().Kind {
		case syntax.TokenSingleQuote, syntax.TokenDoubleQuote:
			p.quoted(children, cc)
		case syntax.TokenOpenAngle, syntax.TokenForwardSlash, syntax.TokenCloseAngle:
			return
		default:
			p.accept()
		}
	}
}

func atTagRecoveryStop(c *cursor) bool {
	switch c.current().Kind {
	case syntax.TokenCloseAngle, syntax.TokenForwardSlash, syntax.TokenOpenAngle,
		syntax.TokenSingleQuote, syntax.TokenDoubleQuote:
		return true
	}
	return false
}

func (p *parser) quoted(children *[]syntax.NodeID, cc codeContext) {
	quote := p.cur.current().Kind
	p.accept()
	p.markupLoop(children, markupScope{stop: func(c *cursor) bool { return c.at(quote) }, cc: cc})
	p.tryAccept(quote)
}

// Attributes.

func isAttributeNameToken(tok syntax.Token) bool {
	switch tok.Kind {
	case syntax.TokenWhitespace, syntax.TokenNewLine, syntax.TokenCloseAngle, syntax.TokenOpenAngle,
		syntax.TokenForwardSlash, syntax.TokenDoubleQuote, syntax.TokenSingleQuote,
		syntax.TokenEquals, syntax.TokenUnknown:
		return false
	}
	return true
}

func (p *parser) beforeAttribute(children *[]syntax.NodeID, tag *tagStart, cc codeContext) {
	ws := p.read(isSpacingOrNewLine)

	tok, ok := p.cur.peek(0)
	if !ok || tok.Kind == syntax.TokenTransition || tok.Kind == syntax.TokenCommentTransition ||
		!isAttributeNameToken(tok) {
		p.acceptTokens(ws)
		p.recoverToEndOfTag(children, cc)
		return
	}

	var name []syntax.Token
	for {
		tok, ok := p.cur.peek(0)
		if !ok || p.isAttributeNameEnd(tok) {
			break
		}
		name = append(name, p.cur.advance())
	}

	afterName := p.cur.mark()
	wsAfterName := p.read(isSpacingOrNewLine)
	attrName := syntax.JoinTokens(name)

	// Everything before the attribute, usually the tag name.
	p.emit(children, syntax.MarkupTextLiteral, markupCtx)

	var attr []syntax.NodeID
	p.acceptTokens(ws)
	p.emitMarker(&attr, syntax.MarkupTextLiteral, markupCtx)
	p.acceptTokens(name)
	p.emit(&attr, syntax.MarkupTextLiteral, markupCtx)

	if !p.at(syntax.TokenEquals) {
		p.cur.reset(afterName)
		*children = append(*children, p.b.Attribute(syntax.MarkupMinimizedAttributeBlock,
			syntax.AttributeInfo{Name: attrName, Structure: syntax.Minimized}, attr...))
		return
	}

	p.acceptTokens(wsAfterName)
	p.accept()

	afterEquals := p.cur.mark()
	wsAfterEquals := p.read(isSpacingOrNewLine)
	quote := syntax.TokenUnknown
	structure := syntax.NoQuotes
	switch {
	case p.at(syntax.TokenDoubleQuote), p.at(syntax.TokenSingleQuote):
		p.acceptTokens(wsAfterEquals)
		quote = p.cur.current().Kind
		if quote == syntax.TokenSingleQuote {
			structure = syntax.SingleQuotes
		} else {
			structure = syntax.DoubleQuotes
		}
		p.accept()
	case len(wsAfterEquals) > 0:
		// "a= b" has no value; b is the next attribute.
		p.cur.reset(afterEquals)
	}
	p.emit(&attr, syntax.MarkupTextLiteral, noneCtx)

	var value []syntax.NodeID
	var literal strings.Builder
	if quote != syntax.TokenUnknown || len(wsAfterEquals) == 0 {
		for !p.eof() && !p.isEndOfAttributeValue(quote) {
			literal.WriteString(p.attributeValue(&value, quote, cc))
		}
	}
	attr = append(attr, p.b.Node(syntax.MarkupBlock, value...))

	if quote != syntax.TokenUnknown {
		p.tryAccept(quote)
	}
	p.emitMarker(&attr, syntax.MarkupTextLiteral, noneCtx)

	*children = append(*children, p.b.Attribute(syntax.MarkupAttributeBlock,
		syntax.AttributeInfo{Name: attrName, Structure: structure}, attr...))

	if strings.EqualFold(attrName, "type") {
		tag.typeAttr = literal.String()
		tag.hasTypeAttr = true
	}
}

func (p *parser) isAttributeNameEnd(tok syntax.Token) bool {
	switch tok.Kind {
	case syntax.TokenWhitespace, syntax.TokenNewLine, syntax.TokenEquals,
		syntax.TokenCloseAngle, syntax.TokenOpenAngle:
		return true
	case syntax.TokenForwardSlash:
		return p.cur.peekIs(1, syntax.TokenCloseAngle)
	}
	return false
}

func (p *parser) isEndOfAttributeValue(quote syntax.TokenKind) bool {
	tok, ok := p.cur.peek(0)
	if !ok {
		return true
	}
	if quote != syntax.TokenUnknown {
		return tok.Kind == quote
	}
	return p.isUnquotedValueEnd(tok)
}

func (p *parser) isUnquotedValueEnd(tok syntax.Token) bool {
	switch tok.Kind {
	case syntax.TokenDoubleQuote, syntax.TokenSingleQuote, syntax.TokenOpenAngle, syntax.TokenEquals,
		syntax.TokenCloseAngle, syntax.TokenWhitespace, syntax.TokenNewLine:
		return true
	case syntax.TokenForwardSlash:
		return p.cur.peekIs(1, syntax.TokenCloseAngle)
	}
	return false
}

// attributeValue parses one whitespace-separated part of an attribute value
// and returns the literal text it contributes.
func (p *parser) attributeValue(value *[]syntax.NodeID, quote syntax.TokenKind, cc codeContext) string {
	prefix := p.read(isSpacingOrNewLine)
	var parts []syntax.NodeID

	if p.at(syntax.TokenTransition) {
		if p.cur.peekIs(1, syntax.TokenTransition) {
			// "@@" renders a single '@'.
			p.acceptTokens(prefix)
			p.accept()
			literal := syntax.JoinTokens(p.pending)
			p.emit(&parts, syntax.MarkupTextLiteral, attrValueCtx.Accepting(syntax.AcceptNone))
			p.accept()
			p.emit(&parts, syntax.MarkupEphemeralTextLiteral, metaCtx)
			*value = append(*value, p.b.Node(syntax.MarkupBlock, parts...))
			return literal
		}

		p.acceptTokens(prefix)
		p.emit(&parts, syntax.MarkupTextLiteral, attrValueCtx)
		code, _ := p.codeFromMarkup(nil, cc)
		parts = append(parts, code)
		*value = append(*value, p.b.Node(syntax.MarkupDynamicAttributeValue, parts...))
		return ""
	}

	p.acceptTokens(prefix)
	p.emit(&parts, syntax.MarkupTextLiteral, attrValueCtx)
	for {
		tok, ok := p.cur.peek(0)
		if !ok || tok.Kind == syntax.TokenTransition || isSpacingOrNewLine(tok) || p.isEndOfAttributeValue(quote) {
			break
		}
		p.accept()
	}
	text := syntax.JoinTokens(prefix) + syntax.JoinTokens(p.pending)
	p.emit(&parts, syntax.MarkupTextLiteral, attrValueCtx)
	if len(parts) > 0 {
		*value = append(*value, p.b.Node(syntax.MarkupLiteralAttributeValue, parts...))
	}
	return text
}

// expectsMarkup reports whether a script tag's body is markup: its type
// attribute must be exactly "text/html".
func (t tagStart) expectsMarkup() bool {
	return t.hasTypeAttr && strings.EqualFold(strings.TrimSpace(t.typeAttr), "text/html")
}
