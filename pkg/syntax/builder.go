package syntax

import "fmt"

// Builder appends nodes to an arena. Children must be built before their
// parent; a node's width is fixed when it is created.
type Builder struct {
	nodes []node
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{nodes: make([]node, 0, 64)}
}

// Derive returns a builder whose arena shares every node of t. Nodes added to
// the builder never affect t.
func (t *Tree) Derive() *Builder {
	n := len(t.nodes)
	return &Builder{nodes: t.nodes[:n:n]}
}

// Leaf adds a leaf node.
func (b *Builder) Leaf(kind NodeKind, ctx SpanContext, tokens ...Token) NodeID {
	if !kind.IsLeaf() {
		panic(fmt.Sprintf("syntax: %s is not a leaf kind", kind))
	}

	width := 0
	for _, tok := range tokens {
		width += len(tok.Content)
	}

	b.nodes = append(b.nodes, node{kind: kind, width: width, tokens: tokens, ctx: ctx})
	return NodeID(len(b.nodes) - 1)
}

// Node adds an inner node over children.
func (b *Builder) Node(kind NodeKind, children ...NodeID) NodeID {
	if kind.IsLeaf() {
		panic(fmt.Sprintf("syntax: %s is a leaf kind", kind))
	}

	width := 0
	for _, child := range children {
		width += b.nodes[child].width
	}

	b.nodes = append(b.nodes, node{kind: kind, width: width, children: children})
	return NodeID(len(b.nodes) - 1)
}

// Element adds a TagHelperElement annotated with info.
func (b *Builder) Element(info TagHelperInfo, children ...NodeID) NodeID {
	id := b.Node(TagHelperElement, children...)
	b.nodes[id].element = &info
	return id
}

// Attribute adds a tag helper attribute node annotated with info.
func (b *Builder) Attribute(kind NodeKind, info AttributeInfo, children ...NodeID) NodeID {
	id := b.Node(kind, children...)
	b.nodes[id].attr = &info
	return id
}

// Kind returns the kind of a node already in the arena.
func (b *Builder) Kind(id NodeID) NodeKind {
	return b.nodes[id].kind
}

// Width returns the width of a node already in the arena.
func (b *Builder) Width(id NodeID) int {
	return b.nodes[id].width
}

// Children returns the children of a node already in the arena.
func (b *Builder) Children(id NodeID) []NodeID {
	return b.nodes[id].children
}

// Tokens returns the tokens of a leaf already in the arena.
func (b *Builder) Tokens(id NodeID) []Token {
	return b.nodes[id].tokens
}

// Context returns the span context of a leaf already in the arena.
func (b *Builder) Context(id NodeID) SpanContext {
	return b.nodes[id].ctx
}

// Len returns the number of nodes in the arena.
func (b *Builder) Len() int {
	return len(b.nodes)
}

// Tree seals the arena into a tree rooted at root. The builder must not be
// used afterwards.
func (b *Builder) Tree(root NodeID) *Tree {
	nodes := b.nodes
	b.nodes = nil
	return &Tree{nodes: nodes, root: root}
}
