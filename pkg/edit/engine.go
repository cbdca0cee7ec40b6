package edit

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/yaklabco/gorazor/pkg/lexer"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// ErrNilTree is returned when Apply is called without a tree.
var ErrNilTree = errors.New("edit: nil tree")

// Status is the outcome of offering a change to a tree.
type Status uint8

// Status flags. Exactly one of Accepted and Rejected is set; the others
// qualify it.
const (
	Rejected Status = 1 << iota
	Accepted
	// Provisional marks an accepted change that is likely to be followed
	// by another keystroke completing it, such as a trailing '.'.
	Provisional
	// SpanContextChanged marks a change that altered what the leaf means.
	SpanContextChanged
	// AutoCompleteBlock asks an editor to insert the closing text of an
	// unterminated block.
	AutoCompleteBlock
)

var statusNames = []struct {
	flag Status
	name string
}{
	{Rejected, "Rejected"},
	{Accepted, "Accepted"},
	{Provisional, "Provisional"},
	{SpanContextChanged, "SpanContextChanged"},
	{AutoCompleteBlock, "AutoCompleteBlock"},
}

// Has reports whether every flag in flags is set.
func (s Status) Has(flags Status) bool {
	return s&flags == flags
}

func (s Status) String() string {
	if s == 0 {
		return "None"
	}
	var parts []string
	for _, n := range statusNames {
		if s.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Result describes what happened to a change.
type Result struct {
	Status Status

	// Tree is the derived tree when the change was accepted, otherwise the
	// tree the change was offered to.
	Tree *syntax.Tree

	// Owner is the leaf of the original tree that owned the change, or
	// syntax.InvalidNode when no leaf did.
	Owner syntax.NodeID

	// Leaf is the re-tokenized leaf in Tree when the change was accepted.
	Leaf syntax.NodeID

	// AutoComplete is the text an editor should insert when Status has
	// AutoCompleteBlock.
	AutoComplete string
}

// Span is the view of the owning leaf a Policy decides on.
type Span struct {
	Kind    syntax.NodeKind
	Context syntax.SpanContext

	// Start is the absolute offset of the leaf.
	Start int

	// Content is the leaf text before the change.
	Content string
}

// Edited returns the leaf text after applying change.
func (s Span) Edited(change Change) string {
	rel := change.Start - s.Start
	return s.Content[:rel] + change.NewText + s.Content[rel+change.OldLength:]
}

// Policy decides whether a leaf absorbs a change it owns.
type Policy interface {
	Decide(span Span, change Change) Status
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(span Span, change Change) Status

// Decide implements Policy.
func (f PolicyFunc) Decide(span Span, change Change) Status {
	return f(span, change)
}

// Engine offers changes to trees. The zero value is not usable; call
// NewEngine. An Engine is safe for concurrent use.
type Engine struct {
	mu       sync.RWMutex
	policies map[syntax.EditKind]Policy
}

// NewEngine returns an engine with the built-in policy for every edit kind.
func NewEngine() *Engine {
	return &Engine{
		policies: map[syntax.EditKind]Policy{
			syntax.EditDefault:            PolicyFunc(rejectAll),
			syntax.EditDirectiveToken:     PolicyFunc(rejectAll),
			syntax.EditCodeBlock:          PolicyFunc(codeBlock),
			syntax.EditImplicitExpression: PolicyFunc(implicitExpression),
			syntax.EditAutoComplete:       PolicyFunc(autoComplete),
		},
	}
}

// SetPolicy replaces the policy used for kind.
func (e *Engine) SetPolicy(kind syntax.EditKind, policy Policy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.policies[kind] = policy
}

func (e *Engine) policy(kind syntax.EditKind) Policy {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if p, ok := e.policies[kind]; ok {
		return p
	}
	return PolicyFunc(rejectAll)
}

// Apply offers change to tree. A rejected change leaves the tree untouched
// and the caller must re-parse. An accepted change returns a derived tree in
// which only the owning leaf and its ancestors are new.
func (e *Engine) Apply(tree *syntax.Tree, change Change) (Result, error) {
	if tree == nil {
		return Result{}, ErrNilTree
	}
	if err := Validate([]Change{change}, tree.Width(tree.Root())); err != nil {
		return Result{}, err
	}

	res := Result{Status: Rejected, Tree: tree, Owner: Owner(tree, change), Leaf: syntax.InvalidNode}
	if res.Owner == syntax.InvalidNode {
		return res, nil
	}

	ctx := tree.Context(res.Owner)
	span := Span{
		Kind:    tree.Kind(res.Owner),
		Context: ctx,
		Start:   tree.Start(res.Owner),
		Content: tree.Content(res.Owner),
	}

	res.Status = e.policy(ctx.Handler.Kind).Decide(span, change)
	if res.Status.Has(AutoCompleteBlock) {
		res.AutoComplete = ctx.Handler.AutoComplete
	}
	if !res.Status.Has(Accepted) {
		return res, nil
	}

	res.Tree, res.Leaf = splice(tree, res.Owner, span.Edited(change))
	return res, nil
}

// Owner returns the first leaf whose span owns change. A change owns a leaf
// when it starts inside the leaf and ends before the leaf's end, or ends
// exactly at the leaf's end and the leaf accepts trailing characters.
func Owner(tree *syntax.Tree, change Change) syntax.NodeID {
	for _, leaf := range tree.Leaves() {
		start, end := tree.Start(leaf), tree.End(leaf)
		if change.Start < start || change.Start > end {
			continue
		}
		if change.End() < end {
			return leaf
		}
		if change.End() == end && tree.Context(leaf).Accepted != syntax.AcceptNone {
			return leaf
		}
	}
	return syntax.InvalidNode
}

// splice replaces leaf with a re-tokenized leaf holding text and rebuilds
// its ancestors. Every other node is shared with tree.
func splice(tree *syntax.Tree, leaf syntax.NodeID, text string) (*syntax.Tree, syntax.NodeID) {
	b := tree.Derive()
	kind := tree.Kind(leaf)
	replaced := b.Leaf(kind, tree.Context(leaf), retokenize(kind, text)...)

	old, current := leaf, replaced
	for _, parent := range tree.Ancestors(leaf) {
		children := slices.Clone(tree.Children(parent))
		idx := slices.Index(children, old)
		if idx < 0 {
			panic(fmt.Sprintf("edit: node %d is not a child of its parent %d", old, parent))
		}
		children[idx] = current

		switch {
		case tree.TagHelper(parent) != nil:
			current = b.Element(*tree.TagHelper(parent), children...)
		case tree.Attribute(parent) != nil:
			current = b.Attribute(tree.Kind(parent), *tree.Attribute(parent), children...)
		default:
			current = b.Node(tree.Kind(parent), children...)
		}
		old = parent
	}
	return b.Tree(current), replaced
}

func retokenize(kind syntax.NodeKind, text string) []syntax.Token {
	if text == "" {
		return []syntax.Token{syntax.Marker()}
	}
	if kind.IsCode() {
		return lexer.Tokenize(lexer.NewCode(text, 0))
	}
	return lexer.Tokenize(lexer.NewMarkup(text, 0))
}
