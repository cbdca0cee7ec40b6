package source

import "fmt"

// Location is a zero-based position in a document.
type Location struct {
	FilePath      string
	AbsoluteIndex int
	Line          int
	Column        int
}

// Zero is the location of the first byte of an anonymous document.
var Zero = Location{}

// String renders the location one-based, the way editors show it.
func (l Location) String() string {
	if l.FilePath == "" {
		return fmt.Sprintf("%d:%d", l.Line+1, l.Column+1)
	}
	return fmt.Sprintf("%s:%d:%d", l.FilePath, l.Line+1, l.Column+1)
}

// Span is a location plus a length in bytes.
type Span struct {
	Location

	Length int
}

// NewSpan builds a span at loc covering length bytes.
func NewSpan(loc Location, length int) Span {
	return Span{Location: loc, Length: length}
}

// End returns the absolute index just past the span.
func (s Span) End() int {
	return s.AbsoluteIndex + s.Length
}

// Contains reports whether offset lies inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.AbsoluteIndex && offset < s.End()
}

// Advance returns the location reached after scanning text from loc.
// It does not consult any line index, so it works on locations of
// documents that are still being assembled.
func Advance(loc Location, text string) Location {
	line, column := loc.Line, loc.Column

	for idx := 0; idx < len(text); idx++ {
		switch text[idx] {
		case '\n':
			line++
			column = 0
		case '\r':
			if idx+1 < len(text) && text[idx+1] == '\n' {
				idx++
			}
			line++
			column = 0
		default:
			column++
		}
	}

	return Location{
		FilePath:      loc.FilePath,
		AbsoluteIndex: loc.AbsoluteIndex + len(text),
		Line:          line,
		Column:        column,
	}
}
