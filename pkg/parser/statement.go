package parser

import (
	"slices"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// statementKeywords start statement blocks after '@'. Together with the
// directive names they end implicit expressions during incremental edits.
var statementKeywords = []string{
	"class", "do", "for", "foreach", "if", "lock", "namespace", "switch", "try", "using", "while",
}

// block names a construct for "missing closing brace" diagnostics.
type block struct {
	name  string
	start int
}

// statementBlock parses "@{ ... }".
func (p *parser) statementBlock(transition syntax.NodeID, cc codeContext) (syntax.NodeID, bool) {
	start := p.offset()
	children := []syntax.NodeID{transition}

	p.accept()
	p.emit(&children, syntax.MetaCode, metaCtx)

	var body []syntax.NodeID
	found := p.codeBody(&body, cc)

	ctx := stmtCtx
	if !found {
		ctx.Handler = syntax.EditHandler{Kind: syntax.EditAutoComplete, AutoComplete: "}"}
		p.report(diag.ExpectedEndOfBlockBeforeEOF, start, 1, "code", "}", "{")
	}
	p.emitMarker(&body, syntax.CodeStatementLiteral, ctx)
	children = append(children, p.b.Node(syntax.CodeBlock, body...))

	suppress := false
	if found {
		p.accept()
		p.emit(&children, syntax.MetaCode, metaCtx)
		suppress = !cc.nested && !p.opts.DesignTime &&
			(p.at(syntax.TokenNewLine) || (p.at(syntax.TokenWhitespace) && p.cur.peekIs(1, syntax.TokenNewLine)))
	}
	return p.b.Node(syntax.Statement, children...), suppress
}

// codeBody parses statements up to the '}' that closes the current block.
// It reports whether that brace was found; it is not consumed.
func (p *parser) codeBody(out *[]syntax.NodeID, cc codeContext) bool {
	for !p.eof() && !p.at(syntax.TokenRightBrace) {
		p.statement(out, cc, nil)
	}
	return !p.eof()
}

// keywordBlock parses a statement introduced by a keyword directly after
// '@', such as "@if (x) { ... } else { ... }".
func (p *parser) keywordBlock(transition syntax.NodeID, cc codeContext) syntax.NodeID {
	word := p.cur.current().Content
	switch word {
	case "class", "namespace":
		return p.reservedWord(transition, cc)
	case "await":
		return p.implicitExpression(transition, cc, true)
	case "using":
		if p.atUsingDeclaration() {
			return p.usingDirective(transition, cc)
		}
	}
	if !slices.Contains(statementKeywords, word) {
		return p.implicitExpression(transition, cc, false)
	}

	var body []syntax.NodeID
	p.keywordStatement(&body, cc)
	p.completeBlock(cc)
	p.emitMarker(&body, syntax.CodeStatementLiteral, stmtCtx)

	return p.b.Node(syntax.Statement, transition, p.b.Node(syntax.CodeBlock, body...))
}

// keywordStatement parses the statement at a keyword. It reports false,
// consuming nothing, for keywords that do not start a statement.
func (p *parser) keywordStatement(out *[]syntax.NodeID, cc codeContext) bool {
	switch p.cur.current().Content {
	case "for", "foreach", "while", "switch", "lock":
		p.conditionalBlock(out, cc, "")
	case "if":
		p.conditionalBlock(out, cc, "")
		p.afterIfClause(out, cc)
	case "try":
		p.unconditionalBlock(out, cc)
		p.afterTryClause(out, cc)
	case "do":
		p.unconditionalBlock(out, cc)
		p.whileClause(out, cc)
	case "using":
		p.usingStatement(out, cc)
	case "case", "default":
		p.acceptUntil(syntax.TokenColon)
		p.tryAccept(syntax.TokenColon)
	case "class", "namespace":
		p.report(diag.ReservedWord, p.offset(), len(p.cur.current().Content), p.cur.current().Content)
		p.accept()
	case "await":
		p.accept()
		p.acceptWhile(isSpacingOrComment)
	default:
		return false
	}
	return true
}

// reservedWord handles "@class" and "@namespace", which are not valid in
// templates.
func (p *parser) reservedWord(transition syntax.NodeID, cc codeContext) syntax.NodeID {
	word := p.cur.current().Content
	p.report(diag.ReservedWord, p.offset(), len(word), word)

	p.accept()
	p.completeBlock(cc)
	keyword := p.output(syntax.MetaCode, metaCtx)

	body := p.b.Node(syntax.DirectiveBody, keyword, p.b.Node(syntax.CodeBlock))
	return p.b.Node(syntax.Directive, transition, body)
}

// Statements.

// statement parses one statement of a code block. blk names the enclosing
// construct when the statement is the body of a keyword.
func (p *parser) statement(out *[]syntax.NodeID, cc codeContext, blk *block) {
	mark := p.cur.mark()
	ws := p.read(isSpacingOrNewLine)
	lines := len(ws)
	for lines > 0 && ws[lines-1].Kind == syntax.TokenWhitespace {
		lines--
	}

	tok, ok := p.cur.peek(0)
	if !ok {
		p.acceptSince(mark)
		return
	}

	singleLine := tok.Kind == syntax.TokenTransition &&
		(p.cur.peekIs(1, syntax.TokenColon) || p.cur.peekIs(1, syntax.TokenDoubleColon))
	markup := singleLine || tok.Kind == syntax.TokenLessThan ||
		(tok.Kind == syntax.TokenTransition && p.cur.peekIs(1, syntax.TokenLessThan))

	if !markup {
		p.acceptSince(mark)
		p.handleStatement(out, tok, cc, blk)
		return
	}

	// Indentation before markup belongs to the markup, except before
	// "<text>" and at design time.
	p.acceptTokens(ws[:lines])
	prefix := ws[lines:]
	if p.opts.DesignTime || (tok.Kind == syntax.TokenLessThan && p.cur.peekText(1, syntax.TokenIdentifier, textTagName)) {
		p.acceptTokens(prefix)
		prefix = nil
	}

	if tok.Kind == syntax.TokenTransition && !singleLine {
		p.report(diag.UnexpectedTransitionInCode, p.offset(), 1)
	}
	p.emit(out, syntax.CodeStatementLiteral, stmtCtx)
	*out = append(*out, p.parseMarkupBlock(prefix, cc))
}

func (p *parser) handleStatement(out *[]syntax.NodeID, tok syntax.Token, cc codeContext, blk *block) {
	switch tok.Kind {
	case syntax.TokenCommentTransition:
		p.emit(out, syntax.CodeStatementLiteral, stmtCtx)
		*out = append(*out, p.templateComment())
		p.statement(out, cc, blk)
	case syntax.TokenLeftBrace:
		if blk == nil {
			blk = &block{name: "code", start: p.offset()}
		}
		p.accept()
		if p.codeBody(out, cc) {
			p.accept()
		} else {
			p.report(diag.ExpectedEndOfBlockBeforeEOF, blk.start, 1, blk.name, "}", "{")
		}
	case syntax.TokenKeyword:
		if !p.keywordStatement(out, cc) {
			p.standardStatement(out, cc)
		}
	case syntax.TokenTransition:
		p.embeddedExpression(out, cc)
	case syntax.TokenRightBrace:
	case syntax.TokenComment:
		p.accept()
	default:
		p.standardStatement(out, cc)
	}
}

// embeddedExpression handles '@' inside code: "@@" escapes a literal '@',
// anything else starts a nested code block.
func (p *parser) embeddedExpression(out *[]syntax.NodeID, cc codeContext) {
	if p.cur.peekIs(1, syntax.TokenTransition) {
		p.emit(out, syntax.CodeStatementLiteral, stmtCtx)
		p.accept()
		p.emit(out, syntax.CodeEphemeralLiteral, noneCtx)
		p.accept()
		p.standardStatement(out, cc)
		return
	}

	if p.cur.peekIs(1, syntax.TokenLeftBrace) {
		p.report(diag.UnexpectedNestedCodeBlock, p.offset()+1, 1)
	}
	p.emit(out, syntax.CodeStatementLiteral, stmtCtx)

	cc.nested = true
	id, _ := p.parseCode(nil, cc)
	*out = append(*out, id)
}

func isStatementBoundary(tok syntax.Token) bool {
	switch tok.Kind {
	case syntax.TokenSemicolon, syntax.TokenCommentTransition, syntax.TokenTransition,
		syntax.TokenLeftBrace, syntax.TokenLeftParen, syntax.TokenLeftBracket, syntax.TokenRightBrace:
		return true
	}
	return false
}

// standardStatement reads plain code up to the end of the statement.
func (p *parser) standardStatement(out *[]syntax.NodeID, cc codeContext) {
	for !p.eof() {
		bookmark := p.cur.mark()
		p.read(func(tok syntax.Token) bool { return !isStatementBoundary(tok) })

		switch {
		case p.at(syntax.TokenLeftBrace), p.at(syntax.TokenLeftParen), p.at(syntax.TokenLeftBracket):
			p.acceptSince(bookmark)
			if !p.balance(out, stmtSpan, balanceBacktrack|balanceTemplates, cc) {
				p.acceptUntil(syntax.TokenLessThan, syntax.TokenRightBrace)
				return
			}
			p.tryAccept(syntax.TokenRightBrace)

		case p.at(syntax.TokenTransition) &&
			(p.cur.peekIs(1, syntax.TokenLessThan) || p.cur.peekIs(1, syntax.TokenColon)):
			p.acceptSince(bookmark)
			p.template(out, stmtSpan, cc)

		case p.at(syntax.TokenCommentTransition):
			p.acceptSince(bookmark)
			p.emit(out, syntax.CodeStatementLiteral, stmtCtx)
			*out = append(*out, p.templateComment())

		case p.at(syntax.TokenSemicolon):
			p.acceptSince(bookmark)
			p.accept()
			return

		case p.at(syntax.TokenRightBrace):
			p.acceptSince(bookmark)
			return

		default:
			p.cur.reset(bookmark)
			p.acceptUntil(syntax.TokenLessThan, syntax.TokenLeftBrace, syntax.TokenRightBrace)
			return
		}
	}
}

// Keyword statements.

func (p *parser) keywordName() string {
	tok, ok := p.cur.peek(0)
	if !ok || (tok.Kind != syntax.TokenKeyword && tok.Kind != syntax.TokenIdentifier) {
		return ""
	}
	return tok.Content
}

func (p *parser) atKeyword(word string) bool {
	return p.cur.peekText(0, syntax.TokenKeyword, word)
}

// conditionalBlock parses keyword, condition and body, e.g. "while (x) { }".
func (p *parser) conditionalBlock(out *[]syntax.NodeID, cc codeContext, name string) {
	if name == "" {
		name = p.keywordName()
	}
	blk := &block{name: name, start: p.offset()}

	p.accept()
	p.acceptWhile(isSpacingNewLineOrComment)
	if p.acceptCondition(out, cc) {
		p.acceptWhile(isSpacingNewLineOrComment)
		p.expectCodeBlock(out, cc, blk)
	}
}

// acceptCondition accepts a parenthesized condition if one is next. It
// reports false when the parentheses do not balance.
func (p *parser) acceptCondition(out *[]syntax.NodeID, cc codeContext) bool {
	if !p.at(syntax.TokenLeftParen) {
		return true
	}
	if !p.balance(out, stmtSpan, balanceBacktrack|balanceTemplates, cc) {
		p.acceptUntil(syntax.TokenNewLine)
		return false
	}
	p.tryAccept(syntax.TokenRightParen)
	return true
}

func (p *parser) unconditionalBlock(out *[]syntax.NodeID, cc codeContext) {
	blk := &block{name: p.keywordName(), start: p.offset()}
	p.accept()
	p.acceptWhile(isSpacingNewLineOrComment)
	p.expectCodeBlock(out, cc, blk)
}

// expectCodeBlock parses the body of a keyword. A body without braces is a
// single statement and may not contain markup.
func (p *parser) expectCodeBlock(out *[]syntax.NodeID, cc codeContext, blk *block) {
	if p.eof() {
		return
	}

	switch {
	case p.at(syntax.TokenLessThan):
		p.report(diag.SingleLineControlFlowCannotContainMarkup, p.offset(), len(p.cur.current().Content))
	case p.at(syntax.TokenTransition) && p.cur.peekIs(1, syntax.TokenColon),
		p.at(syntax.TokenTransition) && p.cur.peekIs(1, syntax.TokenTransition):
		p.report(diag.SingleLineControlFlowCannotContainMarkup, p.offset(), 2)
	}
	p.statement(out, cc, blk)
}

// skipToNextImportantToken reads whitespace and comments, parsing template
// comments on the way. It returns the mark before the unaccepted run.
func (p *parser) skipToNextImportantToken(out *[]syntax.NodeID) int {
	for {
		mark := p.cur.mark()
		p.read(isSpacingNewLineOrComment)
		if !p.at(syntax.TokenCommentTransition) {
			return mark
		}
		p.acceptSince(mark)
		p.emit(out, syntax.CodeStatementLiteral, stmtCtx)
		*out = append(*out, p.templateComment())
	}
}

func (p *parser) afterIfClause(out *[]syntax.NodeID, cc codeContext) {
	mark := p.skipToNextImportantToken(out)
	if !p.atKeyword("else") {
		p.cur.reset(mark)
		return
	}
	p.acceptSince(mark)

	start := p.offset()
	p.accept()
	p.acceptWhile(isSpacingNewLineOrComment)
	if p.atKeyword("if") {
		p.conditionalBlock(out, cc, "else if")
		p.afterIfClause(out, cc)
		return
	}
	if !p.eof() {
		p.expectCodeBlock(out, cc, &block{name: "else", start: start})
	}
}

func (p *parser) afterTryClause(out *[]syntax.NodeID, cc codeContext) {
	mark := p.skipToNextImportantToken(out)
	switch {
	case p.atKeyword("catch"):
		p.acceptSince(mark)
		p.catchBlock(out, cc)
		p.afterTryClause(out, cc)
	case p.atKeyword("finally"):
		p.acceptSince(mark)
		p.unconditionalBlock(out, cc)
	default:
		p.cur.reset(mark)
	}
}

// catchBlock parses "catch (E e) when (filter) { }".
func (p *parser) catchBlock(out *[]syntax.NodeID, cc codeContext) {
	blk := &block{name: "catch", start: p.offset()}
	p.accept()
	p.acceptWhile(isSpacingNewLineOrComment)
	if !p.acceptCondition(out, cc) {
		return
	}
	p.acceptWhile(isSpacingNewLineOrComment)

	if p.cur.peekText(0, syntax.TokenIdentifier, "when") {
		p.accept()
		p.acceptWhile(isSpacingNewLineOrComment)
		if !p.acceptCondition(out, cc) {
			return
		}
		p.acceptWhile(isSpacingNewLineOrComment)
	}
	p.expectCodeBlock(out, cc, blk)
}

// whileClause parses the "while (x);" that ends a do statement.
func (p *parser) whileClause(out *[]syntax.NodeID, cc codeContext) {
	mark := p.skipToNextImportantToken(out)
	if !p.atKeyword("while") {
		p.cur.reset(mark)
		return
	}
	p.acceptSince(mark)
	p.accept()
	p.acceptWhile(isSpacingNewLineOrComment)
	if p.acceptCondition(out, cc) {
		p.tryAccept(syntax.TokenSemicolon)
	}
}

// usingStatement parses "using (resource) { }". A using declaration inside
// a code block is ordinary code.
func (p *parser) usingStatement(out *[]syntax.NodeID, cc codeContext) {
	blk := &block{name: "using", start: p.offset()}
	p.accept()
	p.acceptWhile(isSpacingOrComment)

	switch {
	case p.at(syntax.TokenLeftParen):
		if p.acceptCondition(out, cc) {
			p.acceptWhile(isSpacingNewLineOrComment)
			p.expectCodeBlock(out, cc, blk)
		}
	case p.at(syntax.TokenIdentifier), p.atKeyword("static"):
		p.standardStatement(out, cc)
	}
}

// atUsingDeclaration reports whether "using" at the cursor imports a
// namespace rather than starting a using statement.
func (p *parser) atUsingDeclaration() bool {
	for i := 1; ; i++ {
		tok, ok := p.cur.peek(i)
		if !ok {
			return false
		}
		switch tok.Kind {
		case syntax.TokenWhitespace, syntax.TokenComment:
			continue
		case syntax.TokenIdentifier:
			return true
		case syntax.TokenKeyword:
			return tok.Content == "static"
		}
		return false
	}
}
