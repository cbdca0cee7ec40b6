// Package parser turns a template document into a syntax tree.
//
// Parsing is a recursive descent over two token streams. The markup parser
// drives the document and hands control to the code parser at every
// transition character; the code parser hands back to markup for tags
// inside code blocks, "<text>" and "@:" lines, templates and section bodies.
// Each hand-off re-creates a tokenizer at the absolute offset where the other
// language stopped, so tokens are never shared between languages.
//
// Every byte of the input ends up in exactly one leaf. Malformed input is
// reported through diagnostics and parsed best-effort; Parse itself only
// fails on caller errors.
package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/lexer"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// ErrNilDocument is returned when Parse is called without a document.
var ErrNilDocument = errors.New("parser: nil document")

// Options configures a parse.
type Options struct {
	// DesignTime keeps whitespace with markup at code boundaries and never
	// suppresses line endings after code blocks, as an editor needs.
	DesignTime bool

	// Directives extends the built-in directive set. A directive with the
	// name of a built-in replaces it.
	Directives []Directive
}

// Parse builds the syntax tree of doc. Diagnostics describe problems in the
// document; the returned error is non-nil only for caller mistakes or a
// cancelled context.
func Parse(ctx context.Context, doc *source.Document, opts Options) (*syntax.Tree, []diag.Diagnostic, error) {
	if doc == nil {
		return nil, nil, ErrNilDocument
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", doc.Path, err)
	}

	p := newParser(doc, opts)
	tree := p.parseDocument()

	return tree, p.sink.Diagnostics(), nil
}

// parser holds the state of one parse. It is never shared.
type parser struct {
	src  string
	opts Options
	sink *diag.Sink
	b    *syntax.Builder

	// cur is the cursor of whichever language is active.
	cur *cursor

	// pending holds accepted tokens not yet sealed into a leaf.
	pending []syntax.Token

	directives map[string]Directive
	seen       map[string]bool
	keywords   []string
}

func newParser(doc *source.Document, opts Options) *parser {
	p := &parser{
		src:        doc.Content,
		opts:       opts,
		sink:       diag.NewSink(doc),
		b:          syntax.NewBuilder(),
		directives: make(map[string]Directive),
		seen:       make(map[string]bool),
	}

	names := append([]string(nil), statementKeywords...)
	for _, d := range DefaultDirectives() {
		p.directives[d.Name] = d
	}
	for _, d := range opts.Directives {
		p.directives[d.Name] = d
	}
	for name := range p.directives {
		names = append(names, name)
	}
	names = append(names, "await", addTagHelperKeyword, removeTagHelperKeyword, tagHelperPrefixKeyword)
	p.keywords = syntax.NewKeywordSet(names...)

	return p
}

func (p *parser) parseDocument() *syntax.Tree {
	p.markupAt(0)

	var children []syntax.NodeID
	p.markupLoop(&children, markupScope{tags: true})
	p.emit(&children, syntax.MarkupTextLiteral, markupCtx)
	if len(children) == 0 {
		p.pending = append(p.pending, syntax.Marker())
		p.emit(&children, syntax.MarkupTextLiteral, markupCtx)
	}

	block := p.b.Node(syntax.MarkupBlock, children...)
	return p.b.Tree(p.b.Node(syntax.Document, block))
}

// Language switches. Everything accepted so far must already be sealed.

func (p *parser) markupAt(offset int) {
	p.mustBeFlushed()
	p.cur = newCursor(lexer.NewMarkup(p.src, offset))
}

func (p *parser) codeAt(offset int) {
	p.mustBeFlushed()
	p.cur = newCursor(lexer.NewCode(p.src, offset))
}

func (p *parser) directiveAt(offset int) {
	p.mustBeFlushed()
	p.cur = newCursor(lexer.NewDirective(p.src, offset))
}

func (p *parser) mustBeFlushed() {
	if len(p.pending) > 0 {
		panic(fmt.Sprintf("parser: %d unsealed tokens at language switch", len(p.pending)))
	}
}

func (p *parser) offset() int {
	return p.cur.offset()
}

func (p *parser) eof() bool {
	return p.cur.eof()
}

func (p *parser) at(kind syntax.TokenKind) bool {
	return p.cur.at(kind)
}

// Token acceptance.

func (p *parser) accept() {
	if tok, ok := p.cur.peek(0); ok {
		p.checkLiteral(tok, p.cur.offset())
		p.cur.advance()
		p.pending = append(p.pending, tok)
	}
}

func (p *parser) acceptTokens(toks []syntax.Token) {
	p.pending = append(p.pending, toks...)
}

// tryAccept accepts the current token if it has the given kind.
func (p *parser) tryAccept(kind syntax.TokenKind) bool {
	if p.at(kind) {
		p.accept()
		return true
	}
	return false
}

func (p *parser) acceptWhile(pred func(syntax.Token) bool) {
	for {
		tok, ok := p.cur.peek(0)
		if !ok || !pred(tok) {
			return
		}
		p.accept()
	}
}

// acceptUntil accepts tokens until one of kinds or the end of input.
func (p *parser) acceptUntil(kinds ...syntax.TokenKind) {
	p.acceptWhile(func(tok syntax.Token) bool {
		for _, k := range kinds {
			if tok.Kind == k {
				return false
			}
		}
		return true
	})
}

// acceptAll accepts kinds in sequence, stopping at the first mismatch.
func (p *parser) acceptAll(kinds ...syntax.TokenKind) bool {
	for _, k := range kinds {
		if !p.tryAccept(k) {
			return false
		}
	}
	return true
}

// read consumes tokens matching pred without accepting them.
func (p *parser) read(pred func(syntax.Token) bool) []syntax.Token {
	start := p.cur.mark()
	for {
		tok, ok := p.cur.peek(0)
		if !ok || !pred(tok) {
			break
		}
		p.cur.advance()
	}
	return p.cur.since(start)
}

// Leaf emission.

// output seals the pending tokens into a leaf, or returns InvalidNode when
// nothing is pending.
func (p *parser) output(kind syntax.NodeKind, ctx syntax.SpanContext) syntax.NodeID {
	if len(p.pending) == 0 {
		return syntax.InvalidNode
	}
	toks := p.pending
	p.pending = nil
	return p.b.Leaf(kind, ctx, toks...)
}

func (p *parser) emit(out *[]syntax.NodeID, kind syntax.NodeKind, ctx syntax.SpanContext) {
	if id := p.output(kind, ctx); id != syntax.InvalidNode {
		*out = append(*out, id)
	}
}

// emitMarker is emit, but produces a zero-width leaf when nothing is pending.
func (p *parser) emitMarker(out *[]syntax.NodeID, kind syntax.NodeKind, ctx syntax.SpanContext) {
	if len(p.pending) == 0 {
		p.pending = append(p.pending, syntax.Marker())
	}
	p.emit(out, kind, ctx)
}

func (p *parser) report(desc *diag.Descriptor, offset, length int, args ...string) {
	p.sink.Report(desc, offset, length, args...)
}

// Token predicates shared by both languages.

func isSpacing(tok syntax.Token) bool {
	return tok.Kind == syntax.TokenWhitespace
}

func isSpacingOrNewLine(tok syntax.Token) bool {
	return tok.Kind == syntax.TokenWhitespace || tok.Kind == syntax.TokenNewLine
}

func isSpacingOrComment(tok syntax.Token) bool {
	return tok.Kind == syntax.TokenWhitespace || tok.Kind == syntax.TokenComment
}

func isSpacingNewLineOrComment(tok syntax.Token) bool {
	return isSpacingOrNewLine(tok) || tok.Kind == syntax.TokenComment
}

func equalFold(tok syntax.Token, kind syntax.TokenKind, word string) bool {
	return tok.Kind == kind && strings.EqualFold(tok.Content, word)
}
