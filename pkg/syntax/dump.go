package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DumpOptions controls Dump output.
type DumpOptions struct {
	// Contexts includes each leaf's span context.
	Contexts bool

	// Offsets includes the [start..end) range of every node.
	Offsets bool

	// Indent is the per-level indentation. Defaults to two spaces.
	Indent string
}

// Dump writes an indented outline of the tree, one node per line.
func (t *Tree) Dump(w io.Writer, opts DumpOptions) error {
	indent := opts.Indent
	if indent == "" {
		indent = "  "
	}

	depth := 0
	return t.WalkWithContext(t.root,
		func(id NodeID) error {
			line := t.Describe(id, opts)
			_, err := io.WriteString(w, strings.Repeat(indent, depth)+line+"\n")
			depth++
			return err
		},
		func(NodeID) error {
			depth--
			return nil
		})
}

// Outline returns Dump output as a string with offsets and contexts omitted.
func (t *Tree) Outline() string {
	var b strings.Builder
	//nolint:errcheck // strings.Builder never fails
	t.Dump(&b, DumpOptions{})
	return b.String()
}

// Describe renders one node the way Dump does, without indentation.
func (t *Tree) Describe(id NodeID, opts DumpOptions) string {
	n := &t.nodes[id]

	var b strings.Builder
	b.WriteString(n.kind.String())

	if opts.Offsets {
		start := t.Start(id)
		fmt.Fprintf(&b, " [%d..%d)", start, start+n.width)
	}

	if n.element != nil {
		fmt.Fprintf(&b, " <%s> %s", n.element.TagName, n.element.Mode)
		if len(n.element.Descriptors) > 0 {
			b.WriteString(" " + strings.Join(n.element.Descriptors, ","))
		}
	}

	if n.attr != nil {
		fmt.Fprintf(&b, " %s %s", n.attr.Name, n.attr.Structure)
		if n.attr.Bound {
			b.WriteString(" bound")
		}
	}

	if n.kind.IsLeaf() {
		if opts.Contexts {
			b.WriteString(" ")
			b.WriteString(n.ctx.String())
		}
		b.WriteString(" ")
		b.WriteString(strconv.Quote(JoinTokens(n.tokens)))
	}

	return b.String()
}
