package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gorazor/pkg/syntax"
)

// TreeOptions controls FormatTree output.
type TreeOptions struct {
	// Offsets shows the [start..end) range of every node.
	Offsets bool

	// Contexts shows each leaf's span context.
	Contexts bool

	// MaxDepth stops descending below this depth. Zero means unlimited.
	MaxDepth int
}

// FormatTree renders a syntax tree as an indented outline, one node per
// line. Kind names are coloured by category: markup, code and tag helper.
func (s *Styles) FormatTree(tree *syntax.Tree, opts TreeOptions) string {
	var builder strings.Builder

	dumpOpts := syntax.DumpOptions{Offsets: opts.Offsets, Contexts: opts.Contexts}
	depth := 0

	//nolint:errcheck // callbacks never fail
	tree.WalkWithContext(tree.Root(),
		func(id syntax.NodeID) error {
			depth++
			if opts.MaxDepth > 0 && depth > opts.MaxDepth {
				return nil
			}
			builder.WriteString(strings.Repeat("  ", depth-1))
			builder.WriteString(s.treeLine(tree, id, dumpOpts))
			builder.WriteString("\n")
			return nil
		},
		func(syntax.NodeID) error {
			depth--
			return nil
		})

	return builder.String()
}

func (s *Styles) treeLine(tree *syntax.Tree, id syntax.NodeID, opts syntax.DumpOptions) string {
	kind := tree.Kind(id)
	line := tree.Describe(id, opts)

	name, rest, _ := strings.Cut(line, " ")
	styled := s.kindStyle(kind).Render(name)
	if rest == "" {
		return styled
	}

	// Leaves end with their quoted text.
	if kind.IsLeaf() {
		if i := strings.Index(rest, `"`); i >= 0 {
			detail := strings.TrimSpace(rest[:i])
			text := s.TreeText.Render(rest[i:])
			if detail == "" {
				return styled + " " + text
			}
			return styled + " " + s.TreeDetail.Render(detail) + " " + text
		}
	}
	return styled + " " + s.TreeDetail.Render(rest)
}

func (s *Styles) kindStyle(kind syntax.NodeKind) lipgloss.Style {
	switch {
	case kind.IsTagHelper():
		return s.TreeTagHelper
	case kind.IsCode():
		return s.TreeCode
	default:
		return s.TreeMarkup
	}
}
