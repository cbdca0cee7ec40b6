package taghelper

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

var expressionCtx = syntax.SpanContext{Generator: syntax.GenExpression, Accepted: syntax.AcceptAny}

// boundStartTag rewrites the start tag of a bound element: attribute blocks
// become tag helper attributes and non-string bound values become code.
func (r *rewriter) boundStartTag(id syntax.NodeID, tag tagInfo, binding *Binding) syntax.NodeID {
	nameAt := r.tree.Start(id) + 1
	if tag.bang {
		nameAt++
	}
	if !tag.closed {
		r.report(diag.TagHelperMissingCloseAngle, nameAt, len(tag.name), tag.name)
	}
	if tag.code {
		r.report(diag.TagHelperCodeInDeclaration, nameAt, len(tag.name), tag.name)
	} else if tag.malformed {
		r.report(diag.TagHelperMalformedAttributes, nameAt, len(tag.name))
	}

	seen := make(map[string]bool)
	children := r.tree.Children(id)
	out := make([]syntax.NodeID, 0, len(children))
	for _, child := range children {
		switch r.tree.Kind(child) {
		case syntax.MarkupAttributeBlock, syntax.MarkupMinimizedAttributeBlock:
			out = append(out, r.attribute(child, tag.name, binding, seen))
		default:
			out = append(out, child)
		}
	}
	return r.b.Node(syntax.TagHelperStartTag, out...)
}

// attribute rewrites one attribute block of a bound element.
func (r *rewriter) attribute(id syntax.NodeID, tagName string, binding *Binding, seen map[string]bool) syntax.NodeID {
	info := *r.tree.Attribute(id)
	children := r.tree.Children(id)

	nameAt := r.tree.Start(id)
	if len(children) > 0 {
		nameAt += r.tree.Width(children[0])
	}

	var typ string
	bound := false
	if binding.missingIndexerKey(info.Name) {
		r.report(diag.TagHelperIndexerAttributeMissingKey, nameAt, len(info.Name),
			info.Name, tagName, tagName, info.Name)
	} else {
		_, typ, bound = binding.BoundAttribute(info.Name)
	}
	// A repeated bound attribute stays bound but its value is not compiled.
	duplicate := false
	if bound {
		folded := cases.Fold().String(info.Name)
		if seen[folded] {
			r.report(diag.DuplicateBoundAttribute, nameAt, len(info.Name), info.Name, tagName)
			duplicate = true
		}
		seen[folded] = true
	}
	info.Bound = bound

	if r.tree.Kind(id) == syntax.MarkupMinimizedAttributeBlock {
		if bound && !isBoolType(typ) {
			r.report(diag.EmptyBoundAttribute, nameAt, len(info.Name), info.Name, tagName, typ)
		}
		return r.b.Attribute(syntax.TagHelperMinimizedAttribute, info, children...)
	}

	out := make([]syntax.NodeID, 0, len(children))
	for _, child := range children {
		if r.tree.Kind(child) != syntax.MarkupBlock {
			out = append(out, child)
			continue
		}
		if !bound || isStringType(typ) {
			out = append(out, r.b.Node(syntax.TagHelperAttributeValue, r.tree.Children(child)...))
			continue
		}
		if strings.TrimSpace(r.tree.Content(child)) == "" {
			r.report(diag.EmptyBoundAttribute, nameAt, len(info.Name), info.Name, tagName, typ)
		}
		if duplicate {
			out = append(out, r.b.Node(syntax.TagHelperAttributeValue, r.tree.Children(child)...))
			continue
		}
		out = append(out, r.codeValue(child))
	}
	return r.b.Attribute(syntax.TagHelperAttribute, info, out...)
}

// codeValue turns a non-string attribute value into expression code. Markup
// text and embedded expressions merge into CodeExpressionLiteral runs;
// transitions and escapes keep their own leaves.
func (r *rewriter) codeValue(value syntax.NodeID) syntax.NodeID {
	for _, stmt := range r.tree.FindAll(value, func(id syntax.NodeID) bool {
		return r.tree.Kind(id) == syntax.Statement
	}) {
		r.report(diag.CodeBlocksNotSupportedInAttributes, r.tree.Start(stmt), r.tree.Width(stmt))
	}

	var parts []syntax.NodeID
	var run []syntax.Token
	flush := func() {
		if len(run) > 0 {
			parts = append(parts, r.b.Leaf(syntax.CodeExpressionLiteral, expressionCtx, run...))
			run = nil
		}
	}

	for _, leaf := range r.tree.LeavesOf(value) {
		switch r.tree.Kind(leaf) {
		case syntax.CodeTransition, syntax.MarkupTransition, syntax.MarkupEphemeralTextLiteral:
			flush()
			parts = append(parts, leaf)
		default:
			for _, tok := range r.tree.Tokens(leaf) {
				if tok.Kind != syntax.TokenMarker {
					run = append(run, tok)
				}
			}
		}
	}
	flush()
	return r.b.Node(syntax.TagHelperAttributeValue, parts...)
}
