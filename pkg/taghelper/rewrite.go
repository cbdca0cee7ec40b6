package taghelper

import (
	"errors"
	"slices"
	"strings"
	"unicode"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/parser"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// ErrNilTree is returned when Rewrite is called without a tree.
var ErrNilTree = errors.New("taghelper: nil tree")

// Rewrite returns a tree in which every element bound by binder is a
// TagHelperElement. Problems are reported to sink. The input tree is not
// modified; when nothing binds, tree itself is returned.
//
// Existing TagHelperElement nodes are left alone, so rewriting a rewritten
// tree with the same binder changes nothing.
func Rewrite(tree *syntax.Tree, binder *Binder, sink *diag.Sink) (*syntax.Tree, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	if binder.Empty() {
		return tree, nil
	}

	r := &rewriter{tree: tree, b: tree.Derive(), binder: binder, sink: sink}
	root := r.node(tree.Root(), scope{})
	if root == tree.Root() {
		return tree, nil
	}
	return r.b.Tree(root), nil
}

type rewriter struct {
	tree   *syntax.Tree
	b      *syntax.Builder
	binder *Binder
	sink   *diag.Sink
}

// scope describes the element enclosing the content being rewritten.
type scope struct {
	name    string
	helper  bool
	allowed []string
}

func (r *rewriter) report(desc *diag.Descriptor, offset, length int, args ...string) {
	if r.sink != nil {
		r.sink.Report(desc, offset, length, args...)
	}
}

// node rewrites the subtree at id and returns id itself when nothing changed.
func (r *rewriter) node(id syntax.NodeID, sc scope) syntax.NodeID {
	kind := r.tree.Kind(id)
	switch {
	case kind.IsLeaf(), kind.IsTagHelper():
		return id
	case kind == syntax.MarkupBlock:
		return r.block(id, sc)
	}

	children := r.tree.Children(id)
	var out []syntax.NodeID
	for i, child := range children {
		next := r.node(child, sc)
		if next != child && out == nil {
			out = slices.Clone(children[:i])
		}
		if out != nil {
			out = append(out, next)
		}
	}
	if out == nil {
		return id
	}

	switch kind {
	case syntax.MarkupAttributeBlock, syntax.MarkupMinimizedAttributeBlock:
		return r.b.Attribute(kind, *r.tree.Attribute(id), out...)
	default:
		return r.b.Node(kind, out...)
	}
}

// block rewrites the flat child list of a markup block. Start and end tags
// are siblings there; the tracker pairs them.
func (r *rewriter) block(id syntax.NodeID, sc scope) syntax.NodeID {
	children := r.tree.Children(id)
	t := &tracker{r: r, outer: sc}

	for _, child := range children {
		switch r.tree.Kind(child) {
		case syntax.MarkupStartTag:
			t.startTag(child)
		case syntax.MarkupEndTag:
			t.endTag(child)
		case syntax.MarkupElement:
			t.element(child)
		default:
			t.content(child)
		}
	}

	out := t.finish()
	if slices.Equal(out, children) {
		return id
	}
	return r.b.Node(syntax.MarkupBlock, out...)
}

type frameKind uint8

const (
	framePlain frameKind = iota
	frameHelper
)

// frame is one entry of the tracking stack: a plain element, or a bound
// element still collecting its body.
type frame struct {
	kind frameKind
	name string

	// Helper frames only.
	binding      *Binding
	source       syntax.NodeID
	start        syntax.NodeID
	body         []syntax.NodeID
	allowed      []string
	openMatching int
}

type tracker struct {
	r      *rewriter
	outer  scope
	frames []*frame
	out    []syntax.NodeID
}

func (t *tracker) scope() scope {
	if n := len(t.frames); n > 0 {
		f := t.frames[n-1]
		return scope{name: f.name, helper: f.kind == frameHelper, allowed: f.allowed}
	}
	return t.outer
}

// emit appends to the body of the innermost open helper, or to the block.
func (t *tracker) emit(id syntax.NodeID) {
	if h := t.nearestHelper(); h != nil {
		h.body = append(h.body, id)
		return
	}
	t.out = append(t.out, id)
}

func (t *tracker) nearestHelper() *frame {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if t.frames[i].kind == frameHelper {
			return t.frames[i]
		}
	}
	return nil
}

func (t *tracker) startTag(id syntax.NodeID) {
	r := t.r
	tag := r.startTagInfo(id)
	if tag.transition || tag.name == "" {
		t.emit(id)
		return
	}

	parent := t.scope()
	t.checkChild(tag.name, r.tree.Start(id)+1, parent)

	var binding *Binding
	if !tag.bang {
		binding = r.binder.Match(tag.name, tag.attrs, parent.name, parent.helper)
	}
	if binding == nil {
		t.emit(r.node(id, parent))
		if tag.selfClosing || parser.IsVoidElement(tag.name) {
			return
		}
		if h := t.nearestHelper(); h != nil && equalFold(h.name, tag.name) {
			h.openMatching++
			return
		}
		t.frames = append(t.frames, &frame{kind: framePlain, name: tag.stackName()})
		return
	}

	start := r.boundStartTag(id, tag, binding)
	mode := r.tagMode(id, tag, binding)
	if mode != syntax.StartTagAndEndTag {
		t.emit(r.b.Element(elementInfo(tag.name, mode, binding), start))
		return
	}
	t.frames = append(t.frames, &frame{
		kind:    frameHelper,
		name:    tag.name,
		binding: binding,
		source:  id,
		start:   start,
		allowed: binding.AllowedChildren(),
	})
}

func (t *tracker) endTag(id syntax.NodeID) {
	r := t.r
	name, transition := r.endTagName(id)
	if transition || name == "" {
		t.emit(id)
		return
	}

	idx := -1
	for i := len(t.frames) - 1; i >= 0; i-- {
		if equalFold(t.frames[i].name, name) {
			idx = i
			break
		}
	}

	if idx < 0 {
		t.strayEndTag(id, name)
		t.emit(id)
		return
	}

	f := t.frames[idx]
	if f.kind == frameHelper && f.openMatching > 0 {
		f.openMatching--
		t.emit(id)
		return
	}

	t.unwind(idx + 1)
	t.frames = t.frames[:idx]
	if f.kind == framePlain {
		t.emit(id)
		return
	}

	end := r.b.Node(syntax.TagHelperEndTag, r.tree.Children(id)...)
	children := append([]syntax.NodeID{f.start}, f.body...)
	children = append(children, end)
	t.emit(r.b.Element(elementInfo(f.name, syntax.StartTagAndEndTag, f.binding), children...))
}

// strayEndTag reports an end tag with no start tag in scope, when the tag
// name alone would bind.
func (t *tracker) strayEndTag(id syntax.NodeID, name string) {
	r := t.r
	parent := t.scope()
	binding := r.binder.Match(name, nil, parent.name, parent.helper)
	if binding == nil {
		return
	}

	offset := r.tree.Start(id) + 2
	if structure, _, _ := binding.Structure(); structure == StructureWithoutEndTag {
		r.report(diag.TagHelperEndTagNotAllowed, offset, len(name), name, binding.Names()[0], "WithoutEndTag")
		return
	}
	r.report(diag.TagHelperMalformed, offset, len(name), name)
}

// element handles a grouped element, i.e. a script tag with an opaque body.
func (t *tracker) element(id syntax.NodeID) {
	r := t.r
	children := r.tree.Children(id)
	parent := t.scope()
	if len(children) == 0 || r.tree.Kind(children[0]) != syntax.MarkupStartTag {
		t.emit(r.node(id, parent))
		return
	}

	tag := r.startTagInfo(children[0])
	t.checkChild(tag.name, r.tree.Start(id)+1, parent)

	var binding *Binding
	if !tag.bang && tag.name != "" {
		binding = r.binder.Match(tag.name, tag.attrs, parent.name, parent.helper)
	}
	if binding == nil {
		t.emit(r.node(id, parent))
		return
	}

	out := []syntax.NodeID{r.boundStartTag(children[0], tag, binding)}
	mode := r.tagMode(children[0], tag, binding)
	for _, child := range children[1:] {
		if r.tree.Kind(child) == syntax.MarkupEndTag {
			child = r.b.Node(syntax.TagHelperEndTag, r.tree.Children(child)...)
		}
		out = append(out, child)
	}
	t.emit(r.b.Element(elementInfo(tag.name, mode, binding), out...))
}

func (t *tracker) content(id syntax.NodeID) {
	r := t.r
	parent := t.scope()
	if parent.helper && len(parent.allowed) > 0 && r.tree.Kind(id) == syntax.MarkupTextLiteral {
		text := r.tree.Content(id)
		trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
		lead := len(text) - len(trimmed)
		trimmed = strings.TrimRightFunc(trimmed, unicode.IsSpace)
		if trimmed != "" {
			r.report(diag.CannotHaveNonTagContent, r.tree.Start(id)+lead, len(trimmed),
				parent.name, strings.Join(parent.allowed, ", "))
		}
	}
	t.emit(r.node(id, parent))
}

// checkChild validates a child tag against the allowed children of its
// direct parent.
func (t *tracker) checkChild(name string, offset int, parent scope) {
	if !parent.helper || len(parent.allowed) == 0 {
		return
	}
	bare := name
	if stripped, ok := t.r.binder.stripPrefix(name); ok {
		bare = stripped
	}
	if allows(parent.allowed, bare) {
		return
	}
	t.r.report(diag.InvalidNestedTag, offset, len(name), name, parent.name, strings.Join(parent.allowed, ", "))
}

// unwind closes the frames from index from upwards. Helpers closed this way
// never saw their end tag.
func (t *tracker) unwind(from int) {
	for len(t.frames) > from {
		f := t.frames[len(t.frames)-1]
		t.frames = t.frames[:len(t.frames)-1]
		if f.kind == frameHelper {
			t.malformed(f)
		}
	}
}

func (t *tracker) malformed(f *frame) {
	r := t.r
	r.report(diag.TagHelperMalformed, r.tree.Start(f.source)+1, len(f.name), f.name)
	children := append([]syntax.NodeID{f.start}, f.body...)
	t.emit(r.b.Element(elementInfo(f.name, syntax.StartTagAndEndTag, f.binding), children...))
}

func (t *tracker) finish() []syntax.NodeID {
	t.unwind(0)
	return t.out
}

func elementInfo(name string, mode syntax.TagMode, binding *Binding) syntax.TagHelperInfo {
	return syntax.TagHelperInfo{TagName: name, Mode: mode, Descriptors: binding.Names()}
}

// tagMode derives how a bound element is written from its trailing tokens
// and the structures its descriptors expect.
func (r *rewriter) tagMode(id syntax.NodeID, tag tagInfo, binding *Binding) syntax.TagMode {
	structure, conflict, ok := binding.Structure()
	if !ok {
		r.report(diag.InconsistentTagStructure, r.tree.Start(id)+1, len(tag.name), conflict[0], conflict[1], tag.name)
	}
	switch {
	case tag.selfClosing:
		return syntax.SelfClosing
	case structure == StructureWithoutEndTag:
		return syntax.StartTagOnly
	}
	return syntax.StartTagAndEndTag
}

// tagInfo is what the rewriter reads off a start tag.
type tagInfo struct {
	name        string
	attrs       []Attr
	closed      bool
	selfClosing bool
	bang        bool

	// transition marks "<text>", which only switches languages.
	transition bool
	// code is set when the declaration holds code outside attribute values.
	code bool
	// malformed is set when the declaration holds text that is not an attribute.
	malformed bool
}

func (t tagInfo) stackName() string {
	if t.bang {
		return "!" + t.name
	}
	return t.name
}

func (r *rewriter) startTagInfo(id syntax.NodeID) tagInfo {
	var tag tagInfo
	children := r.tree.Children(id)
	if len(children) > 0 && r.tree.Kind(children[0]) == syntax.MarkupTransition {
		tag.transition = true
		return tag
	}

	content := r.tree.Content(id)
	tag.closed = strings.HasSuffix(content, ">")
	tag.selfClosing = strings.HasSuffix(content, "/>")

	var loose strings.Builder
	for _, child := range children {
		kind := r.tree.Kind(child)
		switch {
		case kind == syntax.MetaCode:
			tag.bang = true
		case kind == syntax.MarkupAttributeBlock, kind == syntax.MarkupMinimizedAttributeBlock:
			tag.attrs = append(tag.attrs, r.attr(child))
		case kind.IsLeaf():
			loose.WriteString(r.tree.Content(child))
		case kind == syntax.TemplateComment:
		default:
			tag.code = true
		}
	}

	rest := strings.TrimPrefix(loose.String(), "<")
	end := strings.IndexFunc(rest, isTagNameEnd)
	if end < 0 {
		end = len(rest)
	}
	tag.name = rest[:end]
	leftover := strings.Map(func(c rune) rune {
		if unicode.IsSpace(c) || c == '/' || c == '>' {
			return -1
		}
		return c
	}, rest[end:])
	tag.malformed = leftover != ""
	return tag
}

func isTagNameEnd(c rune) bool {
	return unicode.IsSpace(c) || c == '/' || c == '>' || c == '<' || c == '@'
}

// attr reads the name and literal value of an attribute block.
func (r *rewriter) attr(id syntax.NodeID) Attr {
	a := Attr{Name: r.tree.Attribute(id).Name}
	value := r.valueBlock(id)
	if value == syntax.InvalidNode {
		return a
	}

	var text strings.Builder
	for _, leaf := range r.tree.LeavesOf(value) {
		switch kind := r.tree.Kind(leaf); {
		case kind == syntax.MarkupEphemeralTextLiteral:
		case kind.IsCode():
			a.Dynamic = true
		default:
			text.WriteString(r.tree.Content(leaf))
		}
	}
	a.Value = text.String()
	return a
}

// valueBlock returns the MarkupBlock holding an attribute's value.
func (r *rewriter) valueBlock(id syntax.NodeID) syntax.NodeID {
	for _, child := range r.tree.Children(id) {
		if r.tree.Kind(child) == syntax.MarkupBlock {
			return child
		}
	}
	return syntax.InvalidNode
}

// endTagName returns the name an end tag closes. transition is set for
// "</text>".
func (r *rewriter) endTagName(id syntax.NodeID) (name string, transition bool) {
	children := r.tree.Children(id)
	if len(children) > 0 && r.tree.Kind(children[0]) == syntax.MarkupTransition {
		return "", true
	}

	bang := false
	var text strings.Builder
	for _, child := range children {
		if r.tree.Kind(child) == syntax.MetaCode {
			bang = true
			continue
		}
		text.WriteString(r.tree.Content(child))
	}

	rest := strings.TrimPrefix(text.String(), "</")
	end := strings.IndexFunc(rest, isTagNameEnd)
	if end < 0 {
		end = len(rest)
	}
	name = rest[:end]
	if bang && name != "" {
		name = "!" + name
	}
	return name, false
}
