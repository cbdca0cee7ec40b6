// Package source holds template documents and the location arithmetic the
// tokenizers, parser and diagnostics share.
//
// A Document is immutable once built: the line index is computed up front and
// every Location handed out by the package is a plain value.
package source

// Document is an immutable, line-indexed view of one template source file.
type Document struct {
	// Path identifies the document (may be empty for in-memory content).
	Path string

	// Content is the full template text.
	Content string

	// Lines contains metadata for each line in the document.
	Lines []LineInfo
}

// LineInfo holds metadata for a single line.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where the line terminator begins.
	// For the last line this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the terminator (or end of content).
	EndOffset int
}

// NewDocument builds a document and its line index.
func NewDocument(path, content string) *Document {
	return &Document{
		Path:    path,
		Content: content,
		Lines:   BuildLines(content),
	}
}

// Len returns the length of the content in bytes.
func (d *Document) Len() int {
	return len(d.Content)
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// Slice returns the text covered by span, clamped to the content.
func (d *Document) Slice(span Span) string {
	start := clamp(span.AbsoluteIndex, 0, len(d.Content))
	end := clamp(span.End(), start, len(d.Content))
	return d.Content[start:end]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
