package source

import "sort"

// BuildLines constructs line metadata from content.
// "\n", "\r\n" and a lone "\r" all terminate a line.
func BuildLines(content string) []LineInfo {
	lines := make([]LineInfo, 0, 1+len(content)/40)
	lineStart := 0

	for idx := 0; idx < len(content); idx++ {
		switch content[idx] {
		case '\n':
			lines = append(lines, LineInfo{StartOffset: lineStart, NewlineStart: idx, EndOffset: idx + 1})
			lineStart = idx + 1
		case '\r':
			end := idx + 1
			if end < len(content) && content[end] == '\n' {
				end++
			}
			lines = append(lines, LineInfo{StartOffset: lineStart, NewlineStart: idx, EndOffset: end})
			lineStart = end
			idx = end - 1
		}
	}

	// The last line never has a terminator; it may be empty.
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// Location converts an absolute offset into a zero-based Location.
// Offsets past the end are clamped to the end of the content.
func (d *Document) Location(offset int) Location {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.Content) {
		offset = len(d.Content)
	}

	lineIdx := sort.Search(len(d.Lines), func(i int) bool {
		return d.Lines[i].EndOffset > offset
	})
	if lineIdx >= len(d.Lines) {
		lineIdx = len(d.Lines) - 1
	}

	return Location{
		FilePath:      d.Path,
		AbsoluteIndex: offset,
		Line:          lineIdx,
		Column:        offset - d.Lines[lineIdx].StartOffset,
	}
}

// Span returns the span of length bytes starting at offset.
func (d *Document) Span(offset, length int) Span {
	return Span{Location: d.Location(offset), Length: length}
}

// Offset converts zero-based line and column numbers to a byte offset.
// Returns (offset, true) on success, or (0, false) if out of range.
func (d *Document) Offset(line, column int) (int, bool) {
	if line < 0 || line >= len(d.Lines) || column < 0 {
		return 0, false
	}

	info := d.Lines[line]
	offset := info.StartOffset + column

	// A column may point at the terminator (cursor at end of line).
	if offset > info.NewlineStart {
		return 0, false
	}

	return offset, true
}

// LineContent returns the zero-based line without its terminator.
// Returns "" if the line number is out of range.
func (d *Document) LineContent(line int) string {
	if line < 0 || line >= len(d.Lines) {
		return ""
	}

	info := d.Lines[line]
	return d.Content[info.StartOffset:info.NewlineStart]
}
