package syntax

import (
	"errors"
	"fmt"
)

// ErrInvalidTree is wrapped by every error Validate returns.
var ErrInvalidTree = errors.New("invalid syntax tree")

// Validate checks the structural invariants of the tree: the root is a
// Document, leaves have no children, inner nodes have no tokens, every
// parent's width equals the sum of its children's widths, and the leaves
// cover exactly contentLen bytes.
func (t *Tree) Validate(contentLen int) error {
	if t.root == InvalidNode || int(t.root) >= len(t.nodes) {
		return fmt.Errorf("%w: missing root", ErrInvalidTree)
	}
	if t.nodes[t.root].kind != Document {
		return fmt.Errorf("%w: root is %s", ErrInvalidTree, t.nodes[t.root].kind)
	}

	var errs []error
	covered := 0

	//nolint:errcheck // the callback never fails
	t.Walk(t.root, func(id NodeID) error {
		n := &t.nodes[id]
		if n.kind.IsLeaf() {
			if len(n.children) > 0 {
				errs = append(errs, fmt.Errorf("%w: leaf %d (%s) has children", ErrInvalidTree, id, n.kind))
			}
			width := 0
			for _, tok := range n.tokens {
				width += len(tok.Content)
			}
			if width != n.width {
				errs = append(errs, fmt.Errorf("%w: leaf %d (%s) width %d, tokens %d",
					ErrInvalidTree, id, n.kind, n.width, width))
			}
			covered += width
			return nil
		}

		if len(n.tokens) > 0 {
			errs = append(errs, fmt.Errorf("%w: node %d (%s) has tokens", ErrInvalidTree, id, n.kind))
		}
		sum := 0
		for _, child := range n.children {
			sum += t.nodes[child].width
		}
		if sum != n.width {
			errs = append(errs, fmt.Errorf("%w: node %d (%s) width %d, children %d",
				ErrInvalidTree, id, n.kind, n.width, sum))
		}
		return nil
	})

	if covered != contentLen {
		errs = append(errs, fmt.Errorf("%w: leaves cover %d bytes, source has %d", ErrInvalidTree, covered, contentLen))
	}

	return errors.Join(errs...)
}
