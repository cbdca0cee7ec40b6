package diag

import "github.com/yaklabco/gorazor/pkg/source"

// Builder helps construct Diagnostic values.
type Builder struct {
	desc *Descriptor
	diag Diagnostic
}

// NewBuilder starts building a diagnostic for desc at span.
func NewBuilder(desc *Descriptor, span source.Span) *Builder {
	return &Builder{desc: desc, diag: desc.New(span)}
}

// WithArgs formats the message with args.
func (b *Builder) WithArgs(args ...string) *Builder {
	b.diag.Args = args
	b.diag.Message = b.desc.Message(args...)
	return b
}

// WithSeverity overrides the descriptor's severity.
func (b *Builder) WithSeverity(s Severity) *Builder {
	b.diag.Severity = s
	return b
}

// WithSuggestion sets a human-readable hint.
func (b *Builder) WithSuggestion(s string) *Builder {
	b.diag.Suggestion = s
	return b
}

// Build returns the constructed Diagnostic.
func (b *Builder) Build() Diagnostic {
	return b.diag
}
