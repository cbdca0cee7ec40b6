package check

import (
	"strings"
	"unicode"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/langdetect"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// scriptHints reports the detected language of every opaque script body.
func scriptHints(tree *syntax.Tree, sink *diag.Sink) {
	for _, id := range tree.FindByKind(syntax.MarkupElement) {
		children := tree.Children(id)
		if len(children) < 2 || tree.Kind(children[0]) != syntax.MarkupStartTag {
			continue
		}
		if !strings.EqualFold(startTagName(tree, children[0]), "script") {
			continue
		}

		body := children[1:]
		if tree.Kind(body[len(body)-1]) == syntax.MarkupEndTag {
			body = body[:len(body)-1]
		}
		if len(body) == 0 {
			continue
		}

		start := tree.Start(body[0])
		end := tree.End(body[len(body)-1])
		content := tree.Text()[start:end]
		if strings.TrimSpace(content) == "" {
			continue
		}

		lang := langdetect.DetectScript(typeAttribute(tree, children[0]), []byte(content))
		sink.Report(diag.OpaqueBodyLanguage, start, end-start, "script", lang)
	}
}

// startTagName returns the element name written in a start tag.
func startTagName(tree *syntax.Tree, tag syntax.NodeID) string {
	var text strings.Builder
	for _, child := range tree.Children(tag) {
		if !tree.Kind(child).IsLeaf() {
			break
		}
		text.WriteString(tree.Content(child))
	}
	name := strings.TrimPrefix(text.String(), "<")
	if end := strings.IndexFunc(name, func(c rune) bool {
		return unicode.IsSpace(c) || c == '/' || c == '>'
	}); end >= 0 {
		name = name[:end]
	}
	return name
}

// typeAttribute returns the literal value of a start tag's type attribute.
func typeAttribute(tree *syntax.Tree, tag syntax.NodeID) string {
	for _, child := range tree.Children(tag) {
		if tree.Kind(child) != syntax.MarkupAttributeBlock {
			continue
		}
		if info := tree.Attribute(child); info == nil || !strings.EqualFold(info.Name, "type") {
			continue
		}
		for _, part := range tree.Children(child) {
			if tree.Kind(part) == syntax.MarkupBlock {
				return tree.Content(part)
			}
		}
	}
	return ""
}
