package taghelper

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Attr is an attribute of a tag occurrence as the binder sees it.
type Attr struct {
	Name  string
	Value string

	// Dynamic is set when the value contains code; its text is unknown.
	Dynamic bool
}

// Match pairs a descriptor with the rules that selected it.
type Match struct {
	Descriptor *Descriptor
	Rules      []*TagMatchingRule
}

// Binding is the result of matching one tag occurrence.
type Binding struct {
	// TagName is the tag name as written, prefix included.
	TagName string
	Prefix  string
	Matches []Match
}

// Binder matches tags against the descriptors in scope for one document.
// A Binder is immutable and may be shared.
type Binder struct {
	prefix string
	descs  []*Descriptor
}

// NewBinder returns a binder for descs. Tags must start with prefix to be
// considered at all.
func NewBinder(prefix string, descs []*Descriptor) *Binder {
	return &Binder{prefix: prefix, descs: slices.Clone(descs)}
}

// Prefix returns the tag prefix in effect.
func (b *Binder) Prefix() string {
	return b.prefix
}

// Descriptors returns the descriptors in scope.
func (b *Binder) Descriptors() []*Descriptor {
	return slices.Clone(b.descs)
}

// Empty reports whether no descriptor is in scope.
func (b *Binder) Empty() bool {
	return b == nil || len(b.descs) == 0
}

// Match returns the binding for a tag occurrence, or nil when no descriptor
// matches. parentTag is the name of the enclosing element; when that element
// is itself a tag helper its prefix is ignored.
func (b *Binder) Match(tagName string, attrs []Attr, parentTag string, parentIsHelper bool) *Binding {
	if b.Empty() {
		return nil
	}
	name, ok := b.stripPrefix(tagName)
	if !ok {
		return nil
	}
	if parentIsHelper {
		if stripped, ok := b.stripPrefix(parentTag); ok {
			parentTag = stripped
		}
	}

	var matches []Match
	for _, d := range b.descs {
		var rules []*TagMatchingRule
		for i := range d.Rules {
			rule := &d.Rules[i]
			if ruleMatches(rule, name, attrs, parentTag) {
				rules = append(rules, rule)
			}
		}
		if len(rules) > 0 {
			matches = append(matches, Match{Descriptor: d, Rules: rules})
		}
	}
	if len(matches) == 0 {
		return nil
	}
	return &Binding{TagName: tagName, Prefix: b.prefix, Matches: matches}
}

func (b *Binder) stripPrefix(name string) (string, bool) {
	if b.prefix == "" {
		return name, true
	}
	if len(name) <= len(b.prefix) || !equalFold(name[:len(b.prefix)], b.prefix) {
		return "", false
	}
	return name[len(b.prefix):], true
}

func ruleMatches(rule *TagMatchingRule, name string, attrs []Attr, parentTag string) bool {
	if !rule.CatchAll() && !equalFold(rule.TagName, name) {
		return false
	}
	if rule.ParentTag != "" && !equalFold(rule.ParentTag, parentTag) {
		return false
	}
	for _, req := range rule.Attributes {
		if !slices.ContainsFunc(attrs, func(a Attr) bool { return requiredMatches(req, a) }) {
			return false
		}
	}
	return true
}

func requiredMatches(req RequiredAttribute, attr Attr) bool {
	switch req.NameComparison {
	case NamePrefix:
		if len(attr.Name) <= len(req.Name) || !equalFold(attr.Name[:len(req.Name)], req.Name) {
			return false
		}
	default:
		if !equalFold(attr.Name, req.Name) {
			return false
		}
	}

	if req.ValueComparison == ValueNone {
		return true
	}
	if attr.Dynamic {
		return false
	}
	switch req.ValueComparison {
	case ValueFull:
		return attr.Value == req.Value
	case ValuePrefix:
		return strings.HasPrefix(attr.Value, req.Value)
	case ValueSuffix:
		return strings.HasSuffix(attr.Value, req.Value)
	case ValueNone:
	}
	return true
}

// Names returns the names of the bound descriptors.
func (b *Binding) Names() []string {
	names := make([]string, len(b.Matches))
	for i, m := range b.Matches {
		names[i] = m.Descriptor.Name
	}
	return names
}

// AllowedChildren returns the union of the descriptors' allowed child tags,
// or nil when children are unrestricted.
func (b *Binding) AllowedChildren() []string {
	var allowed []string
	for _, m := range b.Matches {
		for _, tag := range m.Descriptor.AllowedChildTags {
			if !slices.ContainsFunc(allowed, func(s string) bool { return equalFold(s, tag) }) {
				allowed = append(allowed, tag)
			}
		}
	}
	return allowed
}

// Structure returns the tag structure the matched rules agree on. When two
// descriptors disagree, conflict names them.
func (b *Binding) Structure() (structure TagStructure, conflict [2]string, ok bool) {
	owner := ""
	for _, m := range b.Matches {
		for _, rule := range m.Rules {
			if rule.Structure == StructureUnspecified {
				continue
			}
			switch {
			case structure == StructureUnspecified:
				structure, owner = rule.Structure, m.Descriptor.Name
			case structure != rule.Structure:
				return structure, [2]string{owner, m.Descriptor.Name}, false
			}
		}
	}
	return structure, conflict, true
}

// BoundAttribute returns the first bound attribute declared for name by any
// matched descriptor, together with its value type.
func (b *Binding) BoundAttribute(name string) (BoundAttribute, string, bool) {
	for _, m := range b.Matches {
		if attr, typ, ok := m.Descriptor.boundAttribute(name); ok {
			return attr, typ, true
		}
	}
	return BoundAttribute{}, "", false
}

// missingIndexerKey reports whether name is an indexer prefix with no key.
func (b *Binding) missingIndexerKey(name string) bool {
	for _, m := range b.Matches {
		if m.Descriptor.isIndexerPrefix(name) {
			return true
		}
	}
	return false
}

// allows reports whether tag is in the allowed child list.
func allows(allowed []string, tag string) bool {
	return slices.ContainsFunc(allowed, func(s string) bool { return equalFold(s, tag) })
}

// equalFold compares under Unicode case folding. Casers carry state, so one
// is made per call.
func equalFold(a, b string) bool {
	if a == b {
		return true
	}
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}
