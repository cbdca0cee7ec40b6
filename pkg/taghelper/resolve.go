package taghelper

import (
	"slices"

	"github.com/yaklabco/gorazor/pkg/parser"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// Defaults are applied before a document's own directives, the way an
// imports file would be.
type Defaults struct {
	Prefix string

	// Lookups are addTagHelper lookup texts, e.g. "*, Acme.Tags".
	Lookups []string
}

// Resolve builds the binder for tree from the registry. addTagHelper and
// removeTagHelper directives are applied in document order; the last valid
// tagHelperPrefix wins. Values the parser reported as invalid are skipped.
func Resolve(tree *syntax.Tree, reg *Registry, defaults Defaults) *Binder {
	prefix := defaults.Prefix
	var active []*Descriptor

	add := func(value string) {
		lt, ok := parser.ParseLookupText(value)
		if !ok {
			return
		}
		for _, d := range reg.Lookup(lt.Matches) {
			if !slices.Contains(active, d) {
				active = append(active, d)
			}
		}
	}
	remove := func(value string) {
		lt, ok := parser.ParseLookupText(value)
		if !ok {
			return
		}
		active = slices.DeleteFunc(active, func(d *Descriptor) bool {
			return lt.Matches(d.Name, d.Assembly)
		})
	}

	for _, lookup := range defaults.Lookups {
		add(lookup)
	}

	if tree != nil {
		for _, d := range parser.Directives(tree) {
			switch d.Generator {
			case syntax.GenAddTagHelper:
				add(d.Value)
			case syntax.GenRemoveTagHelper:
				remove(d.Value)
			case syntax.GenTagHelperPrefix:
				if _, bad := parser.InvalidPrefixChar(d.Value); !bad {
					prefix = d.Value
				}
			default:
			}
		}
	}

	return NewBinder(prefix, active)
}
