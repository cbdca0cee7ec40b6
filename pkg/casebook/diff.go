package casebook

import (
	"fmt"
	"strings"
)

// Diff is a unified diff between an expectation and what the engine
// produced.
type Diff struct {
	// Label names both sides in the header.
	Label string

	Hunks []Hunk

	Additions int
	Deletions int
}

// Hunk is one region of change with its context.
type Hunk struct {
	// WantStart and GotStart are one-based line numbers.
	WantStart, WantCount int
	GotStart, GotCount   int

	Lines []Line
}

// Line is one diff line.
type Line struct {
	Kind    LineKind
	Content string
}

// LineKind tells context, added and removed lines apart.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdd
	LineRemove
)

// contextLines is the number of context lines shown around changes.
const contextLines = 3

// NewDiff compares want with got line by line. It returns nil when they are
// equal.
func NewDiff(label, want, got string) *Diff {
	wantLines := splitLines(want)
	gotLines := splitLines(got)
	if slicesEqual(wantLines, gotLines) {
		return nil
	}

	ops := diffOps(wantLines, gotLines)
	d := &Diff{Label: label, Hunks: hunks(ops)}
	for _, op := range ops {
		switch op.Kind {
		case LineAdd:
			d.Additions++
		case LineRemove:
			d.Deletions++
		}
	}
	return d
}

// String renders the diff in unified format.
func (d *Diff) String() string {
	if d == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- want/%s\n+++ got/%s\n", d.Label, d.Label)
	for _, h := range d.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.WantStart, h.WantCount, h.GotStart, h.GotCount)
		for _, line := range h.Lines {
			b.WriteString(line.Kind.prefix() + line.Content + "\n")
		}
	}
	return b.String()
}

func (k LineKind) prefix() string {
	switch k {
	case LineAdd:
		return "+"
	case LineRemove:
		return "-"
	default:
		return " "
	}
}

// splitLines splits s into lines, ignoring one trailing newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// diffOps walks the longest common subsequence table to produce an edit
// script. Removals come before additions within a change.
func diffOps(want, got []string) []Line {
	n, m := len(want), len(got)

	// lcs[i][j] is the LCS length of want[i:] and got[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if want[i] == got[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]Line, 0, n+m)
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && want[i] == got[j]:
			ops = append(ops, Line{LineContext, want[i]})
			i++
			j++
		case j == m || (i < n && lcs[i+1][j] >= lcs[i][j+1]):
			ops = append(ops, Line{LineRemove, want[i]})
			i++
		default:
			ops = append(ops, Line{LineAdd, got[j]})
			j++
		}
	}
	return ops
}

// hunks groups an edit script into hunks, merging changes separated by at
// most twice the context.
func hunks(ops []Line) []Hunk {
	type span struct{ start, end int }

	var changes []span
	for i := 0; i < len(ops); {
		if ops[i].Kind == LineContext {
			i++
			continue
		}
		start := i
		for i < len(ops) && ops[i].Kind != LineContext {
			i++
		}
		if n := len(changes); n > 0 && start-changes[n-1].end <= contextLines*2 {
			changes[n-1].end = i
			continue
		}
		changes = append(changes, span{start, i})
	}

	result := make([]Hunk, 0, len(changes))
	for _, c := range changes {
		start := max(0, c.start-contextLines)
		end := min(len(ops), c.end+contextLines)

		h := Hunk{WantStart: 1, GotStart: 1}
		for _, op := range ops[:start] {
			if op.Kind != LineAdd {
				h.WantStart++
			}
			if op.Kind != LineRemove {
				h.GotStart++
			}
		}
		for _, op := range ops[start:end] {
			h.Lines = append(h.Lines, op)
			if op.Kind != LineAdd {
				h.WantCount++
			}
			if op.Kind != LineRemove {
				h.GotCount++
			}
		}
		result = append(result, h)
	}
	return result
}
