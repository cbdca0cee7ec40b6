package syntax

import "errors"

// WalkFunc is called for each visited node. Return a non-nil error to stop.
type WalkFunc func(id NodeID) error

// SkipChildren may be returned by an enter callback to skip a subtree.
var SkipChildren = errors.New("skip children")

// errStopWalk is a sentinel used by the Find helpers.
var errStopWalk = errors.New("stop walk")

// Walk performs a pre-order traversal starting at from.
// It uses an explicit stack, so deeply nested documents cannot exhaust the
// call stack.
func (t *Tree) Walk(from NodeID, fn WalkFunc) error {
	return t.WalkWithContext(from, fn, nil)
}

// WalkWithContext performs a traversal with enter and leave callbacks.
// Either callback may be nil. If enter returns SkipChildren the node's
// children are not visited but leave is still called for it.
func (t *Tree) WalkWithContext(from NodeID, enter, leave WalkFunc) error {
	type frame struct {
		id      NodeID
		next    int
		entered bool
	}

	stack := []frame{{id: from}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if !top.entered {
			top.entered = true
			if enter != nil {
				if err := enter(top.id); err != nil {
					if !errors.Is(err, SkipChildren) {
						return err
					}
					top.next = len(t.nodes[top.id].children)
				}
			}
		}

		children := t.nodes[top.id].children
		if top.next < len(children) {
			child := children[top.next]
			top.next++
			stack = append(stack, frame{id: child})
			continue
		}

		id := top.id
		stack = stack[:len(stack)-1]
		if leave != nil {
			if err := leave(id); err != nil {
				return err
			}
		}
	}

	return nil
}

// FindAll returns all nodes below from (inclusive) matching predicate.
func (t *Tree) FindAll(from NodeID, predicate func(id NodeID) bool) []NodeID {
	var result []NodeID

	//nolint:errcheck // the callback never fails
	t.Walk(from, func(id NodeID) error {
		if predicate(id) {
			result = append(result, id)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching predicate, or InvalidNode.
func (t *Tree) FindFirst(from NodeID, predicate func(id NodeID) bool) NodeID {
	found := InvalidNode

	//nolint:errcheck // errStopWalk is expected
	t.Walk(from, func(id NodeID) error {
		if predicate(id) {
			found = id
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByKind returns all nodes of the given kind in document order.
func (t *Tree) FindByKind(kind NodeKind) []NodeID {
	return t.FindAll(t.root, func(id NodeID) bool {
		return t.nodes[id].kind == kind
	})
}
