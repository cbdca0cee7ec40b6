package syntax

import (
	"sort"
	"strings"
)

//go:generate stringer -type=Generator,AcceptedCharacters,EditKind -output=context_string.go

// Generator tells code generation how to treat a leaf's text.
// Every leaf carries exactly one.
type Generator uint8

// Generators.
const (
	// GenNone suppresses the text from generated output.
	GenNone Generator = iota
	GenMarkup
	GenExpression
	GenStatement
	GenDirectiveToken
	GenLiteralAttribute
	GenAddTagHelper
	GenRemoveTagHelper
	GenTagHelperPrefix
)

// AcceptedCharacters governs which characters a leaf may absorb at its end
// during an incremental edit.
type AcceptedCharacters uint8

// Accepted character policies.
const (
	AcceptNone AcceptedCharacters = iota
	AcceptNewLine
	AcceptWhiteSpace
	AcceptNonWhiteSpace
	AcceptAllWhiteSpace
	AcceptAny
	AcceptAnyExceptNewLine
)

// EditKind selects the incremental edit policy of a leaf.
type EditKind uint8

// Edit policies.
const (
	// EditDefault rejects every change.
	EditDefault EditKind = iota
	EditCodeBlock
	EditImplicitExpression
	EditDirectiveToken
	EditAutoComplete
)

// EditHandler is the per-leaf incremental edit policy description.
type EditHandler struct {
	Kind EditKind

	// Keywords that end an implicit expression. Sorted; shared between leaves.
	Keywords []string

	// AcceptTrailingDot lets an implicit expression keep a trailing '.'.
	AcceptTrailingDot bool

	// AutoComplete is the text an editor would insert to close the block.
	AutoComplete string
}

// HasKeyword reports whether word is one of the handler's keywords.
func (h EditHandler) HasKeyword(word string) bool {
	idx := sort.SearchStrings(h.Keywords, word)
	return idx < len(h.Keywords) && h.Keywords[idx] == word
}

// SpanContext is the annotation every leaf carries.
type SpanContext struct {
	Generator Generator
	Handler   EditHandler
	Accepted  AcceptedCharacters
}

// MarkupContext is the context a plain markup literal starts with.
func MarkupContext() SpanContext {
	return SpanContext{Generator: GenMarkup, Accepted: AcceptAny}
}

// StatementContext is the context a plain code literal starts with.
func StatementContext() SpanContext {
	return SpanContext{Generator: GenStatement, Accepted: AcceptAny}
}

// With returns a copy of the context with a different generator.
func (c SpanContext) With(gen Generator) SpanContext {
	c.Generator = gen
	return c
}

// Accepting returns a copy of the context with a different accepted policy.
func (c SpanContext) Accepting(accepted AcceptedCharacters) SpanContext {
	c.Accepted = accepted
	return c
}

// String renders the context compactly for tree dumps.
func (c SpanContext) String() string {
	var b strings.Builder
	b.WriteString("Gen<")
	b.WriteString(strings.TrimPrefix(c.Generator.String(), "Gen"))
	b.WriteString(">;Accepts:")
	b.WriteString(strings.TrimPrefix(c.Accepted.String(), "Accept"))
	if c.Handler.Kind != EditDefault {
		b.WriteString(";")
		b.WriteString(strings.TrimPrefix(c.Handler.Kind.String(), "Edit"))
	}
	return b.String()
}

// NewKeywordSet returns a sorted, de-duplicated copy of words.
func NewKeywordSet(words ...string) []string {
	set := make([]string, 0, len(words))
	set = append(set, words...)
	sort.Strings(set)

	out := set[:0]
	for i, w := range set {
		if i == 0 || set[i-1] != w {
			out = append(out, w)
		}
	}
	return out
}
