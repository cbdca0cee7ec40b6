package syntax

//go:generate stringer -type=NodeKind

// NodeKind is the closed set of syntax node kinds.
// Consumers switch over it exhaustively; adding a kind means updating them.
type NodeKind uint8

// Node kinds.
const (
	Document NodeKind = iota

	// Markup structure.
	MarkupBlock
	MarkupElement
	MarkupStartTag
	MarkupEndTag
	MarkupAttributeBlock
	MarkupMinimizedAttributeBlock
	MarkupLiteralAttributeValue
	MarkupDynamicAttributeValue
	MarkupCommentBlock

	// Code structure.
	CodeBlock
	ExplicitExpression
	ImplicitExpression
	Statement
	Directive
	DirectiveBody
	TemplateBlock
	TemplateComment

	// Tag helper structure, produced by the rewriter.
	TagHelperElement
	TagHelperStartTag
	TagHelperEndTag
	TagHelperAttribute
	TagHelperMinimizedAttribute
	TagHelperAttributeValue

	// Leaves.
	MarkupTextLiteral
	MarkupEphemeralTextLiteral
	MarkupTransition
	CodeTransition
	MetaCode
	CodeExpressionLiteral
	CodeStatementLiteral
	CodeEphemeralLiteral
	UnclassifiedTextLiteral
	CommentLiteral
)

// IsLeaf reports whether nodes of this kind carry tokens instead of children.
func (k NodeKind) IsLeaf() bool {
	switch k {
	case MarkupTextLiteral, MarkupEphemeralTextLiteral, MarkupTransition,
		CodeTransition, MetaCode, CodeExpressionLiteral, CodeStatementLiteral,
		CodeEphemeralLiteral, UnclassifiedTextLiteral, CommentLiteral:
		return true
	case Document, MarkupBlock, MarkupElement, MarkupStartTag, MarkupEndTag,
		MarkupAttributeBlock, MarkupMinimizedAttributeBlock, MarkupLiteralAttributeValue,
		MarkupDynamicAttributeValue, MarkupCommentBlock, CodeBlock, ExplicitExpression,
		ImplicitExpression, Statement, Directive, DirectiveBody, TemplateBlock,
		TemplateComment, TagHelperElement, TagHelperStartTag, TagHelperEndTag,
		TagHelperAttribute, TagHelperMinimizedAttribute, TagHelperAttributeValue:
		return false
	}
	return false
}

// IsCode reports whether the kind belongs to the embedded code language.
func (k NodeKind) IsCode() bool {
	switch k {
	case CodeBlock, ExplicitExpression, ImplicitExpression, Statement, Directive,
		DirectiveBody, CodeTransition, CodeExpressionLiteral, CodeStatementLiteral,
		CodeEphemeralLiteral, UnclassifiedTextLiteral:
		return true
	case Document, MarkupBlock, MarkupElement, MarkupStartTag, MarkupEndTag,
		MarkupAttributeBlock, MarkupMinimizedAttributeBlock, MarkupLiteralAttributeValue,
		MarkupDynamicAttributeValue, MarkupCommentBlock, TemplateBlock, TemplateComment,
		TagHelperElement, TagHelperStartTag, TagHelperEndTag, TagHelperAttribute,
		TagHelperMinimizedAttribute, TagHelperAttributeValue, MarkupTextLiteral,
		MarkupEphemeralTextLiteral, MarkupTransition, MetaCode, CommentLiteral:
		return false
	}
	return false
}

// IsTagHelper reports whether the kind is produced by tag helper rewriting.
func (k NodeKind) IsTagHelper() bool {
	return k >= TagHelperElement && k <= TagHelperAttributeValue
}
