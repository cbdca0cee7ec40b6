package diag

import (
	"cmp"
	"slices"

	"github.com/yaklabco/gorazor/pkg/source"
)

// Sink collects diagnostics for one parse and rewrite pass. It is owned by a
// single pass and is not safe for concurrent use.
type Sink struct {
	doc   *source.Document
	items []Diagnostic
	seen  map[sinkKey]struct{}
}

type sinkKey struct {
	code  string
	start int
	len   int
}

// NewSink creates a sink for doc. Offsets reported through Report are
// resolved against doc's line index.
func NewSink(doc *source.Document) *Sink {
	return &Sink{doc: doc, seen: make(map[sinkKey]struct{})}
}

// Add appends d unless an identical code was already reported for the same span.
func (s *Sink) Add(d Diagnostic) {
	key := sinkKey{code: d.Code, start: d.Span.AbsoluteIndex, len: d.Span.Length}
	if _, dup := s.seen[key]; dup {
		return
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, d)
}

// Report adds a diagnostic for desc covering [offset, offset+length).
func (s *Sink) Report(desc *Descriptor, offset, length int, args ...string) {
	s.Add(desc.New(s.Span(offset, length), args...))
}

// Span resolves an offset range against the sink's document.
func (s *Sink) Span(offset, length int) source.Span {
	if s.doc == nil {
		return source.NewSpan(source.Location{AbsoluteIndex: offset}, length)
	}
	return s.doc.Span(offset, length)
}

// Len returns the number of collected diagnostics.
func (s *Sink) Len() int {
	return len(s.items)
}

// HasErrors reports whether any collected diagnostic is an error.
func (s *Sink) HasErrors() bool {
	for i := range s.items {
		if s.items[i].IsError() {
			return true
		}
	}
	return false
}

// Diagnostics returns a copy of the collected diagnostics in report order.
func (s *Sink) Diagnostics() []Diagnostic {
	return slices.Clone(s.items)
}

// Sort orders diagnostics by position, then code.
func Sort(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		if c := cmp.Compare(a.Span.FilePath, b.Span.FilePath); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Span.AbsoluteIndex, b.Span.AbsoluteIndex); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
}
