// Package edit absorbs small text changes into an existing syntax tree
// without re-parsing the document.
//
// The leaf that owns a change decides, through the edit policy recorded in
// its span context, whether the change can be taken in place. Accepted
// changes re-tokenize that one leaf and splice it into a derived tree;
// everything else is shared with the previous tree.
package edit

import (
	"fmt"
	"slices"
	"strings"
)

// Change replaces OldLength bytes at Start with NewText.
type Change struct {
	// Start is the byte offset where the change begins.
	Start int

	// OldLength is the number of bytes replaced.
	OldLength int

	// NewText is the replacement text.
	NewText string
}

// Insert returns a change inserting text at offset.
func Insert(offset int, text string) Change {
	return Change{Start: offset, NewText: text}
}

// Delete returns a change deleting [start, end).
func Delete(start, end int) Change {
	return Change{Start: start, OldLength: end - start}
}

// Replace returns a change replacing [start, end) with text.
func Replace(start, end int, text string) Change {
	return Change{Start: start, OldLength: end - start, NewText: text}
}

// End returns the offset just past the replaced bytes.
func (c Change) End() int {
	return c.Start + c.OldLength
}

// IsInsert reports whether the change only adds text.
func (c Change) IsInsert() bool {
	return c.OldLength == 0 && c.NewText != ""
}

// IsDelete reports whether the change only removes text.
func (c Change) IsDelete() bool {
	return c.OldLength > 0 && c.NewText == ""
}

// IsReplace reports whether the change removes and adds text.
func (c Change) IsReplace() bool {
	return c.OldLength > 0 && c.NewText != ""
}

func (c Change) String() string {
	return fmt.Sprintf("[%d:%d]->%q", c.Start, c.End(), c.NewText)
}

// RangeError describes a change that does not fit the document.
type RangeError struct {
	Change  Change
	Message string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid change [%d:%d]: %s", e.Change.Start, e.Change.End(), e.Message)
}

// ConflictError describes overlapping changes in one batch.
type ConflictError struct {
	First  Change
	Second Change
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping changes: [%d:%d] and [%d:%d]",
		e.First.Start, e.First.End(), e.Second.Start, e.Second.End())
}

// Validate checks that every change fits a document of contentLen bytes.
func Validate(changes []Change, contentLen int) error {
	for _, c := range changes {
		if c.Start < 0 {
			return &RangeError{Change: c, Message: "start offset is negative"}
		}
		if c.OldLength < 0 {
			return &RangeError{Change: c, Message: "length is negative"}
		}
		if c.End() > contentLen {
			return &RangeError{
				Change:  c,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", c.End(), contentLen),
			}
		}
	}
	return nil
}

// Prepare validates changes, orders them by position and rejects overlaps.
// Two insertions at the same offset overlap.
func Prepare(changes []Change, contentLen int) ([]Change, error) {
	if len(changes) == 0 {
		return nil, nil
	}
	if err := Validate(changes, contentLen); err != nil {
		return nil, err
	}

	sorted := slices.Clone(changes)
	slices.SortStableFunc(sorted, func(a, b Change) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.End() - b.End()
	})

	for i := 1; i < len(sorted); i++ {
		prev, curr := sorted[i-1], sorted[i]
		if curr.Start < prev.End() || curr.Start == prev.Start {
			return nil, &ConflictError{First: prev, Second: curr}
		}
	}
	return sorted, nil
}

// ApplyText applies prepared changes to content.
func ApplyText(content string, changes []Change) string {
	if len(changes) == 0 {
		return content
	}

	delta := 0
	for _, c := range changes {
		delta += len(c.NewText) - c.OldLength
	}

	var out strings.Builder
	out.Grow(len(content) + delta)
	cursor := 0
	for _, c := range changes {
		out.WriteString(content[cursor:c.Start])
		out.WriteString(c.NewText)
		cursor = c.End()
	}
	out.WriteString(content[cursor:])
	return out.String()
}

// Diff returns the single change that turns before into after: the bytes
// between their common prefix and common suffix. ok is false when the two
// are equal.
func Diff(before, after string) (Change, bool) {
	if before == after {
		return Change{}, false
	}

	prefix := 0
	for prefix < len(before) && prefix < len(after) && before[prefix] == after[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(before)-prefix && suffix < len(after)-prefix &&
		before[len(before)-1-suffix] == after[len(after)-1-suffix] {
		suffix++
	}

	return Change{
		Start:     prefix,
		OldLength: len(before) - prefix - suffix,
		NewText:   after[prefix : len(after)-suffix],
	}, true
}
