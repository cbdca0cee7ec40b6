// Package syntax defines the immutable syntax tree produced by the parser and
// rewritten by the tag helper pass.
//
// Nodes live in an arena owned by a Tree and are addressed by NodeID. A node
// stores only its width; absolute positions are derived on first read and
// cached per Tree. Rewrites append new nodes to a derived arena that shares
// every unchanged node with the tree it came from, so older trees stay valid
// and may be read concurrently.
package syntax

import (
	"strings"
	"sync"
)

// NodeID addresses a node inside a Tree's arena.
type NodeID int32

// InvalidNode is returned by lookups that find nothing.
const InvalidNode NodeID = -1

//go:generate stringer -type=TagMode,AttributeStructure -output=info_string.go

// TagMode describes how a tag helper element is written.
type TagMode uint8

// Tag modes.
const (
	StartTagAndEndTag TagMode = iota
	SelfClosing
	StartTagOnly
)

// AttributeStructure records how an attribute value was quoted.
type AttributeStructure uint8

// Attribute structures.
const (
	DoubleQuotes AttributeStructure = iota
	SingleQuotes
	NoQuotes
	Minimized
)

// TagHelperInfo annotates a TagHelperElement node.
type TagHelperInfo struct {
	TagName     string
	Mode        TagMode
	Descriptors []string
}

// AttributeInfo annotates TagHelperAttribute and TagHelperMinimizedAttribute nodes.
type AttributeInfo struct {
	Name      string
	Structure AttributeStructure
	Bound     bool
}

type node struct {
	kind     NodeKind
	width    int
	children []NodeID
	tokens   []Token
	ctx      SpanContext
	element  *TagHelperInfo
	attr     *AttributeInfo
}

// Tree is an immutable syntax tree.
type Tree struct {
	nodes []node
	root  NodeID

	layoutOnce sync.Once
	starts     []int
	parents    []NodeID
	leaves     []NodeID
}

// Root returns the root node, always of kind Document.
func (t *Tree) Root() NodeID {
	return t.root
}

// Kind returns the kind of id.
func (t *Tree) Kind(id NodeID) NodeKind {
	return t.nodes[id].kind
}

// Width returns the number of source bytes id covers.
func (t *Tree) Width(id NodeID) int {
	return t.nodes[id].width
}

// Children returns the ordered children of id. The slice must not be modified.
func (t *Tree) Children(id NodeID) []NodeID {
	return t.nodes[id].children
}

// Tokens returns the tokens of a leaf. The slice must not be modified.
func (t *Tree) Tokens(id NodeID) []Token {
	return t.nodes[id].tokens
}

// Context returns the span context of a leaf.
func (t *Tree) Context(id NodeID) SpanContext {
	return t.nodes[id].ctx
}

// IsLeaf reports whether id is a leaf.
func (t *Tree) IsLeaf(id NodeID) bool {
	return t.nodes[id].kind.IsLeaf()
}

// TagHelper returns the annotation of a TagHelperElement, or nil.
func (t *Tree) TagHelper(id NodeID) *TagHelperInfo {
	return t.nodes[id].element
}

// Attribute returns the annotation of a tag helper attribute, or nil.
func (t *Tree) Attribute(id NodeID) *AttributeInfo {
	return t.nodes[id].attr
}

// Content returns the source text covered by id.
func (t *Tree) Content(id NodeID) string {
	n := &t.nodes[id]
	if n.kind.IsLeaf() {
		return JoinTokens(n.tokens)
	}

	var b strings.Builder
	b.Grow(n.width)
	for _, leaf := range t.LeavesOf(id) {
		for _, tok := range t.nodes[leaf].tokens {
			b.WriteString(tok.Content)
		}
	}
	return b.String()
}

// Text returns the full source text of the tree.
func (t *Tree) Text() string {
	return t.Content(t.root)
}

// Start returns the absolute offset of id. Nodes not reachable from the root
// report -1.
func (t *Tree) Start(id NodeID) int {
	t.layout()
	return t.starts[id]
}

// End returns the absolute offset just past id.
func (t *Tree) End(id NodeID) int {
	return t.Start(id) + t.Width(id)
}

// Parent returns the parent of id, or InvalidNode for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	t.layout()
	return t.parents[id]
}

// Leaves returns every leaf of the tree in document order.
func (t *Tree) Leaves() []NodeID {
	t.layout()
	return t.leaves
}

// LeavesOf returns the leaves below id in document order.
func (t *Tree) LeavesOf(id NodeID) []NodeID {
	var out []NodeID
	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[cur]
		if n.kind.IsLeaf() {
			out = append(out, cur)
			continue
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	return out
}

// LeafAt returns the leaf whose range contains offset. At a boundary between
// two leaves the earlier one wins, so an insertion at the end of a span is
// offered to that span. Zero-width leaves are skipped.
func (t *Tree) LeafAt(offset int) NodeID {
	t.layout()
	for _, leaf := range t.leaves {
		start := t.starts[leaf]
		end := start + t.nodes[leaf].width
		if t.nodes[leaf].width == 0 {
			continue
		}
		if offset >= start && offset <= end {
			return leaf
		}
	}
	return InvalidNode
}

// Ancestors returns the chain of ancestors of id, nearest first.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for p := t.Parent(id); p != InvalidNode; p = t.Parent(p) {
		out = append(out, p)
	}
	return out
}

func (t *Tree) layout() {
	t.layoutOnce.Do(func() {
		starts := make([]int, len(t.nodes))
		parents := make([]NodeID, len(t.nodes))
		for i := range starts {
			starts[i] = -1
			parents[i] = InvalidNode
		}

		type frame struct {
			id    NodeID
			start int
		}

		var leaves []NodeID
		stack := []frame{{id: t.root, start: 0}}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			starts[cur.id] = cur.start
			n := &t.nodes[cur.id]
			if n.kind.IsLeaf() {
				leaves = append(leaves, cur.id)
				continue
			}

			// Push in reverse so children pop in document order.
			offset := cur.start + n.width
			for i := len(n.children) - 1; i >= 0; i-- {
				child := n.children[i]
				offset -= t.nodes[child].width
				parents[child] = cur.id
				stack = append(stack, frame{id: child, start: offset})
			}
		}

		t.starts = starts
		t.parents = parents
		t.leaves = leaves
	})
}
