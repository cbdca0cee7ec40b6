package parser

import (
	"strings"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// codeContext is the per-call state of the code parser. It is passed by
// value so a nested parse never leaks state into its caller.
type codeContext struct {
	// nested is set for a code block started from inside code, e.g. the
	// "@x" in "@{ var y = @x; }".
	nested     bool
	inSection  bool
	inTemplate bool
}

// codeSpan says which leaf pending code tokens become when something
// interrupts them.
type codeSpan struct {
	kind syntax.NodeKind
	ctx  syntax.SpanContext
}

var (
	stmtCtx = syntax.StatementContext()
	exprCtx = syntax.SpanContext{Generator: syntax.GenExpression, Accepted: syntax.AcceptAny}
	// blockCtx is the body of a code-block directive such as @functions.
	// It is the only statement code that takes edits in place; keyword
	// statements and "@{ }" bodies always re-parse.
	blockCtx = syntax.SpanContext{
		Generator: syntax.GenStatement,
		Accepted:  syntax.AcceptAny,
		Handler:   syntax.EditHandler{Kind: syntax.EditCodeBlock},
	}

	stmtSpan  = codeSpan{kind: syntax.CodeStatementLiteral, ctx: stmtCtx}
	exprSpan  = codeSpan{kind: syntax.CodeExpressionLiteral, ctx: exprCtx}
	blockSpan = codeSpan{kind: syntax.CodeStatementLiteral, ctx: blockCtx}
)

// parseCode parses one code block. The cursor, in either language, is at
// the '@' that starts it; prefix is indentation the block owns. On return
// the cursor is in code right after the block. The second result asks the
// caller to suppress the rest of the line.
func (p *parser) parseCode(prefix []syntax.Token, cc codeContext) (syntax.NodeID, bool) {
	at := p.offset()
	p.codeAt(at + 1)

	var children []syntax.NodeID
	if len(prefix) > 0 {
		p.acceptTokens(prefix)
		if p.atDirectiveName() {
			p.emit(&children, syntax.CodeEphemeralLiteral, noneCtx)
		} else {
			p.emit(&children, syntax.CodeStatementLiteral, syntax.StatementContext())
		}
	}

	p.acceptTokens([]syntax.Token{syntax.NewToken(syntax.TokenTransition, "@")})
	transition := p.output(syntax.CodeTransition, metaCtx)

	block, suppress := p.afterTransition(transition, cc)
	children = append(children, block)
	return p.b.Node(syntax.CodeBlock, children...), suppress
}

func (p *parser) atDirectiveName() bool {
	tok, ok := p.cur.peek(0)
	if !ok || (tok.Kind != syntax.TokenIdentifier && tok.Kind != syntax.TokenKeyword) {
		return false
	}
	_, found := p.directives[tok.Content]
	return found || isTagHelperDirective(tok.Content)
}

// afterTransition dispatches on the token after '@'.
func (p *parser) afterTransition(transition syntax.NodeID, cc codeContext) (syntax.NodeID, bool) {
	tok, ok := p.cur.peek(0)
	if ok {
		switch tok.Kind {
		case syntax.TokenLeftParen:
			return p.explicitExpression(transition, cc), false
		case syntax.TokenLeftBrace:
			return p.statementBlock(transition, cc)
		case syntax.TokenIdentifier, syntax.TokenKeyword:
			if d, found := p.directives[tok.Content]; found {
				return p.directive(transition, d, cc), false
			}
			if isTagHelperDirective(tok.Content) {
				return p.tagHelperDirective(transition, tok.Content, cc), false
			}
			if tok.Kind == syntax.TokenKeyword {
				return p.keywordBlock(transition, cc), false
			}
			return p.implicitExpression(transition, cc, false), false
		}
	}
	return p.invalidStart(transition, cc), false
}

func (p *parser) implicitCtx(cc codeContext, accepted syntax.AcceptedCharacters) syntax.SpanContext {
	return syntax.SpanContext{
		Generator: syntax.GenExpression,
		Accepted:  accepted,
		Handler: syntax.EditHandler{
			Kind:              syntax.EditImplicitExpression,
			Keywords:          p.keywords,
			AcceptTrailingDot: cc.nested,
		},
	}
}

// invalidStart reports what follows a lone '@' and yields an empty
// implicit expression.
func (p *parser) invalidStart(transition syntax.NodeID, cc codeContext) syntax.NodeID {
	tok, ok := p.cur.peek(0)
	switch {
	case !ok:
		p.report(diag.UnexpectedEndOfFileAtStartOfCodeBlock, p.offset(), 1)
	case tok.Kind == syntax.TokenWhitespace, tok.Kind == syntax.TokenNewLine:
		p.report(diag.UnexpectedWhiteSpaceAtStartOfCodeBlock, p.offset(), len(tok.Content))
	default:
		p.report(diag.UnexpectedCharacterAtStartOfCodeBlock, p.offset(), len(tok.Content), tok.Content)
	}

	children := []syntax.NodeID{transition}
	p.emitMarker(&children, syntax.CodeExpressionLiteral, p.implicitCtx(cc, syntax.AcceptNonWhiteSpace))
	return p.b.Node(syntax.ImplicitExpression, children...)
}

// Implicit expressions.

// implicitExpression reads an identifier chain with calls, indexers and
// null-conditional access. With await set the leading "await" and the
// spaces after it belong to the expression.
func (p *parser) implicitExpression(transition syntax.NodeID, cc codeContext, await bool) syntax.NodeID {
	base := syntax.AcceptNonWhiteSpace
	children := []syntax.NodeID{transition}

	if await {
		base = syntax.AcceptAnyExceptNewLine
		p.accept()
		p.acceptWhile(isSpacingOrComment)
	}

	accepted := base
	for {
		if p.at(syntax.TokenIdentifier) || p.at(syntax.TokenKeyword) {
			p.accept()
		}
		if !p.memberAccess(&children, cc, base, &accepted) {
			break
		}
	}

	p.emitMarker(&children, syntax.CodeExpressionLiteral, p.implicitCtx(cc, accepted))
	return p.b.Node(syntax.ImplicitExpression, children...)
}

// memberAccess accepts calls, indexers and member access after an
// identifier. It reports whether another identifier is expected.
func (p *parser) memberAccess(out *[]syntax.NodeID, cc codeContext, base syntax.AcceptedCharacters,
	accepted *syntax.AcceptedCharacters,
) bool {
	tok, ok := p.cur.peek(0)
	if !ok {
		return false
	}

	switch tok.Kind {
	case syntax.TokenLeftParen, syntax.TokenLeftBracket:
		*accepted = syntax.AcceptAny
		right := flipBracket(tok.Kind)
		span := codeSpan{kind: syntax.CodeExpressionLiteral, ctx: p.implicitCtx(cc, syntax.AcceptAny)}
		if !p.balance(out, span, balanceBacktrack|balanceTemplates, cc) {
			p.acceptUntil(syntax.TokenLessThan)
		}
		if p.tryAccept(right) {
			*accepted = base
		}
		return p.memberAccess(out, cc, base, accepted)

	case syntax.TokenQuestionMark:
		next, ok := p.cur.peek(1)
		if !ok {
			return false
		}
		switch next.Kind {
		case syntax.TokenDot:
			p.accept()
			p.accept()
			return p.at(syntax.TokenIdentifier) || p.at(syntax.TokenKeyword)
		case syntax.TokenLeftBracket:
			p.accept()
			return p.memberAccess(out, cc, base, accepted)
		}

	case syntax.TokenDot:
		if p.cur.peekIs(1, syntax.TokenIdentifier) || p.cur.peekIs(1, syntax.TokenKeyword) {
			p.accept()
			return true
		}
		// A trailing dot is sentence punctuation unless the expression
		// is itself inside code.
		if cc.nested {
			p.accept()
		}
	}
	return false
}

// Explicit expressions.

func (p *parser) explicitExpression(transition syntax.NodeID, cc codeContext) syntax.NodeID {
	start := p.offset()
	children := []syntax.NodeID{transition}

	p.accept()
	p.emit(&children, syntax.MetaCode, metaCtx)

	if !p.balanceRest(&children, exprSpan, syntax.TokenLeftParen, syntax.TokenRightParen, start,
		balanceBacktrack|balanceNoError|balanceTemplates, cc) {
		p.acceptUntil(syntax.TokenLessThan)
		p.report(diag.ExpectedEndOfBlockBeforeEOF, start, 1, "explicit expression", ")", "(")
	}
	p.emitMarker(&children, syntax.CodeExpressionLiteral, exprCtx)

	if p.tryAccept(syntax.TokenRightParen) {
		p.emit(&children, syntax.MetaCode, metaCtx)
	}
	return p.b.Node(syntax.ExplicitExpression, children...)
}

// Balancing.

type balanceMode uint8

const (
	balanceBacktrack balanceMode = 1 << iota
	balanceNoError
	balanceTemplates
)

func flipBracket(kind syntax.TokenKind) syntax.TokenKind {
	switch kind {
	case syntax.TokenLeftParen:
		return syntax.TokenRightParen
	case syntax.TokenRightParen:
		return syntax.TokenLeftParen
	case syntax.TokenLeftBracket:
		return syntax.TokenRightBracket
	case syntax.TokenRightBracket:
		return syntax.TokenLeftBracket
	case syntax.TokenLeftBrace:
		return syntax.TokenRightBrace
	case syntax.TokenRightBrace:
		return syntax.TokenLeftBrace
	case syntax.TokenLessThan:
		return syntax.TokenGreaterThan
	case syntax.TokenGreaterThan:
		return syntax.TokenLessThan
	}
	return syntax.TokenUnknown
}

func bracketText(kind syntax.TokenKind) string {
	switch kind {
	case syntax.TokenLeftParen:
		return "("
	case syntax.TokenRightParen:
		return ")"
	case syntax.TokenLeftBracket:
		return "["
	case syntax.TokenRightBracket:
		return "]"
	case syntax.TokenLeftBrace:
		return "{"
	case syntax.TokenRightBrace:
		return "}"
	case syntax.TokenLessThan:
		return "<"
	case syntax.TokenGreaterThan:
		return ">"
	}
	return ""
}

// balance accepts the opening bracket at the cursor and everything up to
// its matching closer, which is left unconsumed. It reports whether the
// closer was found.
func (p *parser) balance(out *[]syntax.NodeID, span codeSpan, mode balanceMode, cc codeContext) bool {
	left := p.cur.current().Kind
	right := flipBracket(left)
	start := p.offset()

	p.accept()
	if p.eof() && mode&balanceNoError == 0 {
		p.report(diag.ExpectedCloseBracketBeforeEOF, start, 1, bracketText(left), bracketText(right))
	}
	return p.balanceRest(out, span, left, right, start, mode, cc)
}

// balanceRest is balance after the opener has been accepted. Templates and
// template comments inside the brackets are parsed when the mode allows;
// once one has been emitted a failure can no longer backtrack past it.
func (p *parser) balanceRest(out *[]syntax.NodeID, span codeSpan, left, right syntax.TokenKind, start int,
	mode balanceMode, cc codeContext,
) bool {
	nesting := 1
	mark := p.cur.mark()

	for !p.eof() {
		if mode&balanceTemplates != 0 && p.atEmbeddedTransition() {
			p.acceptSince(mark)
			p.embeddedTransition(out, span, cc)
			mark = p.cur.mark()
			continue
		}

		switch p.cur.current().Kind {
		case left:
			nesting++
		case right:
			nesting--
		}
		if nesting == 0 {
			break
		}
		p.cur.advance()
	}

	if nesting == 0 {
		p.acceptSince(mark)
		return true
	}

	if mode&balanceNoError == 0 {
		p.report(diag.ExpectedCloseBracketBeforeEOF, start, 1, bracketText(left), bracketText(right))
	}
	if mode&balanceBacktrack != 0 {
		p.cur.reset(mark)
	} else {
		p.acceptSince(mark)
	}
	return false
}

// atEmbeddedTransition reports whether a template ("@<", "@:") or a
// template comment starts at the cursor.
func (p *parser) atEmbeddedTransition() bool {
	if p.at(syntax.TokenCommentTransition) {
		return true
	}
	return p.at(syntax.TokenTransition) &&
		(p.cur.peekIs(1, syntax.TokenLessThan) || p.cur.peekIs(1, syntax.TokenColon) ||
			p.cur.peekIs(1, syntax.TokenDoubleColon))
}

func (p *parser) embeddedTransition(out *[]syntax.NodeID, span codeSpan, cc codeContext) {
	if p.at(syntax.TokenTransition) {
		p.template(out, span, cc)
		return
	}
	p.emit(out, span.kind, span.ctx)
	*out = append(*out, p.templateComment())
}

// template parses inline markup such as "@<p>@item</p>" inside code.
func (p *parser) template(out *[]syntax.NodeID, span codeSpan, cc codeContext) {
	if cc.inTemplate {
		p.report(diag.TemplatesCannotBeNested, p.offset(), 1)
	}
	p.emit(out, span.kind, span.ctx)

	cc.inTemplate = true
	block := p.parseMarkupBlock(nil, cc)
	*out = append(*out, p.b.Node(syntax.TemplateBlock, block))
}

// Token bookkeeping for code.

// acceptSince accepts the tokens the cursor moved past after mark.
func (p *parser) acceptSince(mark int) {
	for i := mark; i < p.cur.pos; i++ {
		p.checkLiteral(p.cur.toks[i], p.cur.starts[i])
	}
	p.pending = append(p.pending, p.cur.since(mark)...)
}

// checkLiteral reports string, character and block comment tokens that run
// into the end of the line or input.
func (p *parser) checkLiteral(tok syntax.Token, offset int) {
	switch tok.Kind {
	case syntax.TokenStringLiteral, syntax.TokenCharacterLiteral:
		if !literalTerminated(tok.Content) {
			p.report(diag.UnterminatedStringLiteral, offset, 1)
		}
	case syntax.TokenComment:
		if strings.HasPrefix(tok.Content, "/*") && (len(tok.Content) < 4 || !strings.HasSuffix(tok.Content, "*/")) {
			p.report(diag.UnterminatedBlockComment, offset, 2)
		}
	}
}

// literalTerminated reports whether a string or character literal token
// ends with its closing quote.
func literalTerminated(s string) bool {
	verbatim := false
	for len(s) > 0 && (s[0] == '@' || s[0] == '$') {
		verbatim = verbatim || s[0] == '@'
		s = s[1:]
	}
	if len(s) < 2 {
		return false
	}

	quote := s[0]
	for i := 1; i < len(s); i++ {
		switch {
		case !verbatim && s[i] == '\\':
			i++
		case verbatim && s[i] == quote && i+1 < len(s) && s[i+1] == quote:
			i++
		case s[i] == quote:
			return i == len(s)-1
		}
	}
	return false
}

// completeBlock takes the trailing whitespace and line break of a line that
// ends with a top-level code block.
func (p *parser) completeBlock(cc codeContext) {
	if cc.nested || p.opts.DesignTime {
		return
	}
	mark := p.cur.mark()
	p.read(isSpacing)
	if p.at(syntax.TokenNewLine) {
		p.cur.advance()
		p.acceptSince(mark)
		return
	}
	p.cur.reset(mark)
}
