package parser

import (
	"strings"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

//go:generate stringer -type=DirectiveKind,DirectiveTokenKind,DirectiveUsage -output=directive_string.go

// DirectiveKind is the shape of a directive's body.
type DirectiveKind uint8

const (
	// DirectiveSingleLine ends at the line break after its tokens.
	DirectiveSingleLine DirectiveKind = iota
	// DirectiveCodeBlock is followed by a braced code body.
	DirectiveCodeBlock
	// DirectiveRazorBlock is followed by a braced markup body.
	DirectiveRazorBlock
)

// DirectiveTokenKind is what a directive token must look like.
type DirectiveTokenKind uint8

const (
	DirectiveTokenType DirectiveTokenKind = iota
	DirectiveTokenMember
	DirectiveTokenNamespace
	DirectiveTokenString
)

func (k DirectiveTokenKind) label() string {
	return strings.ToLower(strings.TrimPrefix(k.String(), "DirectiveToken"))
}

// DirectiveUsage restricts where a directive may appear.
type DirectiveUsage uint8

const (
	Unrestricted DirectiveUsage = iota
	// FileScopedSinglyOccurring directives may appear once per document.
	FileScopedSinglyOccurring
)

// DirectiveToken describes one token of a directive.
type DirectiveToken struct {
	Kind     DirectiveTokenKind
	Optional bool
	Name     string
}

// Directive describes a keyword that may follow '@'.
type Directive struct {
	Name        string
	Kind        DirectiveKind
	Usage       DirectiveUsage
	Tokens      []DirectiveToken
	Description string
}

// DefaultDirectives returns the built-in directives.
func DefaultDirectives() []Directive {
	return []Directive{
		{
			Name: "model", Kind: DirectiveSingleLine, Usage: FileScopedSinglyOccurring,
			Tokens:      []DirectiveToken{{Kind: DirectiveTokenType, Name: "TypeName"}},
			Description: "Specify the view or page model.",
		},
		{
			Name: "inject", Kind: DirectiveSingleLine,
			Tokens: []DirectiveToken{
				{Kind: DirectiveTokenType, Name: "TypeName"},
				{Kind: DirectiveTokenMember, Name: "PropertyName"},
			},
			Description: "Inject a service into the template.",
		},
		{
			Name: "inherits", Kind: DirectiveSingleLine, Usage: FileScopedSinglyOccurring,
			Tokens:      []DirectiveToken{{Kind: DirectiveTokenType, Name: "TypeName"}},
			Description: "Specify the base class of the template.",
		},
		{
			Name: "layout", Kind: DirectiveSingleLine, Usage: FileScopedSinglyOccurring,
			Tokens:      []DirectiveToken{{Kind: DirectiveTokenType, Name: "TypeName"}},
			Description: "Specify the layout of the template.",
		},
		{
			Name: "page", Kind: DirectiveSingleLine, Usage: FileScopedSinglyOccurring,
			Tokens:      []DirectiveToken{{Kind: DirectiveTokenString, Optional: true, Name: "RouteTemplate"}},
			Description: "Mark the template as a routable page.",
		},
		{
			Name: "functions", Kind: DirectiveCodeBlock,
			Description: "Declare members of the generated class.",
		},
		{
			Name: "code", Kind: DirectiveCodeBlock,
			Description: "Declare members of the generated class.",
		},
		{
			Name: "section", Kind: DirectiveRazorBlock,
			Tokens:      []DirectiveToken{{Kind: DirectiveTokenMember, Name: "SectionName"}},
			Description: "Define a section to be rendered by the layout.",
		},
	}
}

const (
	addTagHelperKeyword    = "addTagHelper"
	removeTagHelperKeyword = "removeTagHelper"
	tagHelperPrefixKeyword = "tagHelperPrefix"
)

func isTagHelperDirective(name string) bool {
	switch name {
	case addTagHelperKeyword, removeTagHelperKeyword, tagHelperPrefixKeyword:
		return true
	}
	return false
}

var (
	directiveTokenCtx = syntax.SpanContext{
		Generator: syntax.GenDirectiveToken,
		Accepted:  syntax.AcceptNonWhiteSpace,
		Handler:   syntax.EditHandler{Kind: syntax.EditDirectiveToken},
	}
	directiveSpaceCtx = syntax.SpanContext{Generator: syntax.GenNone, Accepted: syntax.AcceptWhiteSpace}
	directiveGapCtx   = syntax.SpanContext{Generator: syntax.GenNone, Accepted: syntax.AcceptAllWhiteSpace}
)

// directive parses a registered directive. The cursor is at its keyword.
func (p *parser) directive(transition syntax.NodeID, d Directive, cc codeContext) syntax.NodeID {
	keywordAt := p.offset()
	if d.Kind == DirectiveSingleLine {
		p.directiveAt(keywordAt)
	}
	if d.Usage == FileScopedSinglyOccurring {
		if p.seen[d.Name] {
			p.report(diag.DuplicateDirective, keywordAt, len(d.Name), d.Name)
		}
		p.seen[d.Name] = true
	}

	p.accept()
	keyword := p.output(syntax.MetaCode, metaCtx)

	var body []syntax.NodeID
	ok := p.directiveTokens(&body, d)

	switch {
	case !ok:
	case d.Kind == DirectiveSingleLine:
		p.directiveLineEnd(&body, d)
	default:
		p.directiveBlock(&body, d, cc)
	}
	p.emit(&body, syntax.CodeStatementLiteral, stmtCtx)

	if d.Kind == DirectiveSingleLine {
		p.codeAt(p.offset())
	}
	directiveBody := p.b.Node(syntax.DirectiveBody, keyword, p.b.Node(syntax.CodeBlock, body...))
	return p.b.Node(syntax.Directive, transition, directiveBody)
}

// directiveTokens parses the tokens a directive declares. It reports false
// after a diagnostic.
func (p *parser) directiveTokens(out *[]syntax.NodeID, d Directive) bool {
	for _, want := range d.Tokens {
		p.acceptWhile(isSpacingOrComment)
		if want.Kind == DirectiveTokenString {
			p.emit(out, syntax.MarkupEphemeralTextLiteral, directiveSpaceCtx)
		} else {
			p.emit(out, syntax.CodeEphemeralLiteral, directiveSpaceCtx)
		}

		if want.Optional && (p.eof() || p.at(syntax.TokenNewLine)) {
			break
		}
		if p.eof() {
			p.report(diag.UnexpectedEOFAfterDirective, p.offset(), 1, d.Name, want.Kind.label())
			return false
		}

		at, length := p.offset(), max(len(p.cur.current().Content), 1)
		var found bool
		switch want.Kind {
		case DirectiveTokenType:
			found = p.namespaceOrTypeName()
			if !found {
				p.report(diag.DirectiveExpectsTypeName, at, length, d.Name)
			}
		case DirectiveTokenNamespace:
			found = p.qualifiedIdentifier()
			if !found {
				p.report(diag.DirectiveExpectsNamespace, at, length, d.Name)
			}
		case DirectiveTokenMember:
			found = p.tryAccept(syntax.TokenIdentifier)
			if !found {
				p.report(diag.DirectiveExpectsIdentifier, at, length, d.Name)
			}
		case DirectiveTokenString:
			tok := p.cur.current()
			found = tok.Kind == syntax.TokenStringLiteral && strings.HasPrefix(tok.Content, `"`) &&
				literalTerminated(tok.Content)
			if found {
				p.accept()
			} else {
				p.report(diag.DirectiveExpectsQuotedString, at, length, d.Name)
			}
		}
		if !found {
			return false
		}
		p.emit(out, syntax.CodeStatementLiteral, directiveTokenCtx)
	}
	return true
}

// directiveLineEnd accepts an optional ';' and the rest of the line.
func (p *parser) directiveLineEnd(out *[]syntax.NodeID, d Directive) {
	p.tryAccept(syntax.TokenSemicolon)
	p.acceptWhile(isSpacingOrComment)
	if !p.tryAccept(syntax.TokenNewLine) && !p.eof() {
		p.report(diag.UnexpectedDirectiveLiteral, p.offset(), max(len(p.cur.current().Content), 1),
			d.Name, "line break")
	}
	p.emit(out, syntax.MetaCode, directiveSpaceCtx)
}

// directiveBlock parses the braced body of a block directive.
func (p *parser) directiveBlock(out *[]syntax.NodeID, d Directive, cc codeContext) {
	p.acceptWhile(isSpacingNewLineOrComment)
	p.emit(out, syntax.UnclassifiedTextLiteral, directiveGapCtx)

	if p.eof() {
		p.report(diag.UnexpectedEOFAfterDirective, p.offset(), 1, d.Name, "{")
		return
	}
	if !p.at(syntax.TokenLeftBrace) {
		p.report(diag.UnexpectedDirectiveLiteral, p.offset(), max(len(p.cur.current().Content), 1), d.Name, "{")
		return
	}

	start := p.offset()
	p.accept()
	p.emit(out, syntax.MetaCode, metaCtx)

	if d.Kind == DirectiveRazorBlock {
		if cc.inSection {
			p.report(diag.SectionsCannotBeNested, start, 1, d.Name)
		}
		inner := cc
		inner.inSection = true
		inner.nested = false

		p.markupAt(p.offset())
		var children []syntax.NodeID
		p.markupLoop(&children, markupScope{tags: true, section: true, cc: inner})
		p.emit(&children, syntax.MarkupTextLiteral, markupCtx)
		*out = append(*out, p.b.Node(syntax.MarkupBlock, children...))
		p.codeAt(p.offset())
	} else {
		p.balanceRest(out, blockSpan, syntax.TokenLeftBrace, syntax.TokenRightBrace, start, balanceNoError, cc)
		p.emitMarker(out, syntax.CodeStatementLiteral, blockCtx)
	}

	if !p.at(syntax.TokenRightBrace) {
		p.report(diag.ExpectedEndOfBlockBeforeEOF, start, 1, d.Name, "}", "{")
		ctx := syntax.SpanContext{
			Generator: syntax.GenNone,
			Accepted:  syntax.AcceptAny,
			Handler:   syntax.EditHandler{Kind: syntax.EditAutoComplete, AutoComplete: "}"},
		}
		p.emitMarker(out, syntax.CodeStatementLiteral, ctx)
		return
	}
	p.accept()
	p.completeBlock(cc)
	p.emit(out, syntax.MetaCode, metaCtx)
}

// tagHelperDirective parses addTagHelper, removeTagHelper and
// tagHelperPrefix. Their value runs to the end of the line.
func (p *parser) tagHelperDirective(transition syntax.NodeID, name string, cc codeContext) syntax.NodeID {
	keywordAt := p.offset()
	p.directiveAt(keywordAt)

	p.accept()
	keywordCtx := metaCtx.Accepting(syntax.AcceptAnyExceptNewLine)
	mark := p.cur.mark()
	if len(p.read(isSpacing)) > 0 {
		p.acceptSince(mark)
		keywordCtx = metaCtx
	}
	keyword := p.output(syntax.MetaCode, keywordCtx)

	gen := syntax.GenAddTagHelper
	switch name {
	case removeTagHelperKeyword:
		gen = syntax.GenRemoveTagHelper
	case tagHelperPrefixKeyword:
		gen = syntax.GenTagHelperPrefix
	}
	valueCtx := syntax.SpanContext{Generator: gen, Accepted: syntax.AcceptAnyExceptNewLine}

	var body []syntax.NodeID
	if p.eof() || p.at(syntax.TokenNewLine) {
		p.report(diag.DirectiveMustHaveValue, keywordAt, len(name), name)
		p.emitMarker(&body, syntax.CodeStatementLiteral, valueCtx)
	} else {
		valueAt := p.offset()
		p.acceptUntil(syntax.TokenNewLine)
		var text strings.Builder
		for _, tok := range p.pending {
			text.WriteString(tok.Content)
		}
		p.emit(&body, syntax.CodeStatementLiteral, valueCtx)
		p.checkTagHelperValue(name, text.String(), valueAt)
	}

	p.completeBlock(cc)
	p.emit(&body, syntax.MetaCode, directiveSpaceCtx)
	p.codeAt(p.offset())

	directiveBody := p.b.Node(syntax.DirectiveBody, keyword, p.b.Node(syntax.CodeBlock, body...))
	return p.b.Node(syntax.Directive, transition, directiveBody)
}

func (p *parser) checkTagHelperValue(name, text string, offset int) {
	raw := strings.TrimSpace(text)
	offset += strings.Index(text, raw)

	startQuote := strings.HasPrefix(raw, `"`)
	endQuote := len(raw) > 1 && strings.HasSuffix(raw, `"`)
	if startQuote != endQuote {
		p.report(diag.IncompleteQuotesAroundDirective, offset, len(raw), name)
		return
	}

	value := DirectiveValue(raw)
	switch name {
	case addTagHelperKeyword, removeTagHelperKeyword:
		if _, ok := ParseLookupText(value); !ok {
			p.report(diag.InvalidTagHelperLookupText, offset, len(raw), value)
		}
	case tagHelperPrefixKeyword:
		if r, bad := InvalidPrefixChar(value); bad {
			p.report(diag.InvalidTagHelperPrefixValue, offset, len(raw), name, string(r), value)
		}
	}
}

// usingDirective parses a namespace import such as "@using System.Linq".
func (p *parser) usingDirective(transition syntax.NodeID, cc codeContext) syntax.NodeID {
	p.accept()
	keyword := p.output(syntax.MetaCode, metaCtx)

	var body []syntax.NodeID
	p.acceptWhile(isSpacingOrComment)
	p.emit(&body, syntax.CodeEphemeralLiteral, directiveSpaceCtx)

	p.acceptWhile(func(tok syntax.Token) bool {
		switch tok.Kind {
		case syntax.TokenIdentifier, syntax.TokenDot, syntax.TokenDoubleColon, syntax.TokenAssign,
			syntax.TokenLessThan, syntax.TokenGreaterThan, syntax.TokenComma, syntax.TokenWhitespace:
			return true
		case syntax.TokenKeyword:
			return tok.Content == "static"
		}
		return false
	})
	p.tryAccept(syntax.TokenSemicolon)
	p.emitMarker(&body, syntax.CodeStatementLiteral,
		syntax.SpanContext{Generator: syntax.GenDirectiveToken, Accepted: syntax.AcceptAnyExceptNewLine})

	p.completeBlock(cc)
	p.emit(&body, syntax.MetaCode, directiveSpaceCtx)

	directiveBody := p.b.Node(syntax.DirectiveBody, keyword, p.b.Node(syntax.CodeBlock, body...))
	return p.b.Node(syntax.Directive, transition, directiveBody)
}

// Names.

// namespaceOrTypeName accepts a type such as "List<int>[]", "global::Foo.Bar?"
// or "(int, string)".
func (p *parser) namespaceOrTypeName() bool {
	var discard []syntax.NodeID
	if p.at(syntax.TokenLeftParen) {
		if p.balance(&discard, stmtSpan, 0, codeContext{}) {
			p.accept()
		}
		p.typeSuffix()
		return true
	}
	if !p.at(syntax.TokenIdentifier) && !p.at(syntax.TokenKeyword) {
		return false
	}
	p.accept()

	if p.at(syntax.TokenDoubleColon) {
		p.accept()
		if !p.at(syntax.TokenIdentifier) && !p.at(syntax.TokenKeyword) {
			return false
		}
		p.accept()
	}
	if p.at(syntax.TokenLessThan) {
		if p.balance(&discard, stmtSpan, 0, codeContext{}) {
			p.tryAccept(syntax.TokenGreaterThan)
		}
	}
	if p.at(syntax.TokenDot) && (p.cur.peekIs(1, syntax.TokenIdentifier) || p.cur.peekIs(1, syntax.TokenKeyword)) {
		p.accept()
		return p.namespaceOrTypeName()
	}
	p.typeSuffix()
	return true
}

// typeSuffix accepts nullable and array markers.
func (p *parser) typeSuffix() {
	var discard []syntax.NodeID
	p.tryAccept(syntax.TokenQuestionMark)
	for p.at(syntax.TokenLeftBracket) {
		if !p.balance(&discard, stmtSpan, 0, codeContext{}) {
			return
		}
		p.tryAccept(syntax.TokenRightBracket)
	}
}

// qualifiedIdentifier accepts "A.B.C". Nothing is accepted unless the run
// ends with an identifier.
func (p *parser) qualifiedIdentifier() bool {
	mark := p.cur.mark()
	for {
		if !p.at(syntax.TokenIdentifier) {
			p.cur.reset(mark)
			return false
		}
		p.cur.advance()
		if !p.at(syntax.TokenDot) {
			break
		}
		p.cur.advance()
	}
	p.acceptSince(mark)
	return true
}

// Directive values.

// LookupText is the value of an addTagHelper or removeTagHelper directive.
type LookupText struct {
	// TypePattern is a type name, or a prefix ending in '*'.
	TypePattern string
	Assembly    string
}

// ParseLookupText splits "TypePattern, Assembly".
func ParseLookupText(text string) (LookupText, bool) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return LookupText{}, false
	}
	lt := LookupText{
		TypePattern: strings.TrimSpace(parts[0]),
		Assembly:    strings.TrimSpace(parts[1]),
	}
	if lt.Assembly == "" {
		return LookupText{}, false
	}
	return lt, true
}

// Matches reports whether a descriptor of the given type and assembly is
// selected.
func (lt LookupText) Matches(typeName, assembly string) bool {
	if lt.Assembly != assembly {
		return false
	}
	if lt.TypePattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(lt.TypePattern, "*"); ok {
		return strings.HasPrefix(typeName, prefix)
	}
	return lt.TypePattern == typeName
}

// DirectiveValue trims raw and removes one pair of surrounding quotes.
func DirectiveValue(raw string) string {
	v := strings.TrimSpace(raw)
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	return v
}

// InvalidPrefixChar returns the first character not allowed in a tag helper
// prefix.
func InvalidPrefixChar(prefix string) (rune, bool) {
	for _, r := range prefix {
		switch r {
		case ' ', '\t', '\r', '\n', '\f', '!', '@', '<', '/', '?', '[', '>', ']', '=', '"', '\'', '*':
			return r, true
		}
	}
	return 0, false
}

// DirectiveInfo is a directive found in a parsed document.
type DirectiveInfo struct {
	Name  string
	Value string
	// Offset is where the value starts.
	Offset    int
	Generator syntax.Generator
}

// Directives lists the directives of tree in document order.
func Directives(tree *syntax.Tree) []DirectiveInfo {
	var out []DirectiveInfo
	for _, id := range tree.FindByKind(syntax.Directive) {
		children := tree.Children(id)
		if len(children) < 2 || tree.Kind(children[1]) != syntax.DirectiveBody {
			continue
		}
		body := tree.Children(children[1])
		if len(body) == 0 {
			continue
		}

		info := DirectiveInfo{
			Name:   strings.TrimSpace(tree.Content(body[0])),
			Offset: tree.End(body[0]),
		}
		var values []string
		for _, leaf := range tree.LeavesOf(id) {
			gen := tree.Context(leaf).Generator
			switch gen {
			case syntax.GenDirectiveToken, syntax.GenAddTagHelper, syntax.GenRemoveTagHelper, syntax.GenTagHelperPrefix:
			default:
				continue
			}
			if len(values) == 0 {
				info.Offset = tree.Start(leaf)
				info.Generator = gen
			}
			values = append(values, strings.TrimSpace(tree.Content(leaf)))
		}
		info.Value = strings.Join(values, " ")
		if info.Generator != syntax.GenDirectiveToken && info.Generator != syntax.GenNone {
			info.Value = DirectiveValue(info.Value)
		}
		out = append(out, info)
	}
	return out
}
