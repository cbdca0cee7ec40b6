// Package taghelper binds markup elements to tag helper descriptors and
// rewrites a parsed tree so that bound elements become tag helper nodes.
//
// Descriptors come from YAML catalogues (LoadCatalog) collected in a
// Registry. Resolve reads the addTagHelper, removeTagHelper and
// tagHelperPrefix directives of a document and yields a Binder for it;
// Rewrite walks the tree once with an explicit tracking stack and produces a
// new tree. The input tree is never modified.
package taghelper

import (
	"fmt"
	"strings"
)

//go:generate stringer -type=TagStructure,NameComparison,ValueComparison -output=descriptor_string.go

// TagStructure constrains how a bound element may be written.
type TagStructure uint8

const (
	// StructureUnspecified defers to other descriptors on the same tag.
	StructureUnspecified TagStructure = iota
	// StructureNormalOrSelfClosing allows "<x></x>" and "<x/>".
	StructureNormalOrSelfClosing
	// StructureWithoutEndTag allows "<x>" and "<x/>" only.
	StructureWithoutEndTag
)

var structureNames = map[string]TagStructure{
	"":                       StructureUnspecified,
	"unspecified":            StructureUnspecified,
	"normal-or-self-closing": StructureNormalOrSelfClosing,
	"without-end-tag":        StructureWithoutEndTag,
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TagStructure) UnmarshalText(text []byte) error {
	v, ok := structureNames[strings.ToLower(string(text))]
	if !ok {
		return fmt.Errorf("unknown tag structure %q", text)
	}
	*s = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s TagStructure) MarshalText() ([]byte, error) {
	for name, v := range structureNames {
		if v == s && name != "" {
			return []byte(name), nil
		}
	}
	return nil, fmt.Errorf("unknown tag structure %d", s)
}

// NameComparison selects how a required attribute name is compared.
type NameComparison uint8

const (
	NameFull NameComparison = iota
	NamePrefix
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *NameComparison) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "full":
		*c = NameFull
	case "prefix":
		*c = NamePrefix
	default:
		return fmt.Errorf("unknown name comparison %q", text)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c NameComparison) MarshalText() ([]byte, error) {
	if c == NamePrefix {
		return []byte("prefix"), nil
	}
	return []byte("full"), nil
}

// ValueComparison selects how a required attribute value is compared.
type ValueComparison uint8

const (
	// ValueNone only requires the attribute to be present.
	ValueNone ValueComparison = iota
	ValueFull
	ValuePrefix
	ValueSuffix
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ValueComparison) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "none":
		*c = ValueNone
	case "full":
		*c = ValueFull
	case "prefix":
		*c = ValuePrefix
	case "suffix":
		*c = ValueSuffix
	default:
		return fmt.Errorf("unknown value comparison %q", text)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c ValueComparison) MarshalText() ([]byte, error) {
	switch c {
	case ValueFull:
		return []byte("full"), nil
	case ValuePrefix:
		return []byte("prefix"), nil
	case ValueSuffix:
		return []byte("suffix"), nil
	case ValueNone:
	}
	return []byte("none"), nil
}

// RequiredAttribute is an attribute a tag must carry for a rule to match.
type RequiredAttribute struct {
	Name            string          `yaml:"name"`
	NameComparison  NameComparison  `yaml:"name_comparison,omitempty"`
	Value           string          `yaml:"value,omitempty"`
	ValueComparison ValueComparison `yaml:"value_comparison,omitempty"`
}

// TagMatchingRule selects elements by name, parent and attributes.
type TagMatchingRule struct {
	// TagName is matched case-insensitively; "*" matches any tag.
	TagName    string              `yaml:"tag"`
	ParentTag  string              `yaml:"parent,omitempty"`
	Structure  TagStructure        `yaml:"structure,omitempty"`
	Attributes []RequiredAttribute `yaml:"attributes,omitempty"`
}

// CatchAll reports whether the rule matches every tag name.
func (r *TagMatchingRule) CatchAll() bool {
	return r.TagName == "*"
}

// BoundAttribute maps a markup attribute to a property of the helper.
type BoundAttribute struct {
	Name     string `yaml:"name"`
	Property string `yaml:"property,omitempty"`
	Type     string `yaml:"type"`

	// IndexerPrefix binds every attribute starting with it to a dictionary
	// entry of IndexerType, e.g. "route-" for "route-id".
	IndexerPrefix string `yaml:"indexer_prefix,omitempty"`
	IndexerType   string `yaml:"indexer_type,omitempty"`
}

// Descriptor describes one tag helper.
type Descriptor struct {
	// Name is the helper's type name, matched by lookup text patterns.
	Name     string `yaml:"name"`
	Assembly string `yaml:"assembly"`

	Rules            []TagMatchingRule `yaml:"rules"`
	Attributes       []BoundAttribute  `yaml:"attributes,omitempty"`
	AllowedChildTags []string          `yaml:"allowed_children,omitempty"`
	Documentation    string            `yaml:"documentation,omitempty"`
}

// Validate checks the fields a descriptor cannot work without.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: descriptor without name", ErrInvalidCatalog)
	}
	if d.Assembly == "" {
		return fmt.Errorf("%w: descriptor %s has no assembly", ErrInvalidCatalog, d.Name)
	}
	if len(d.Rules) == 0 {
		return fmt.Errorf("%w: descriptor %s has no rules", ErrInvalidCatalog, d.Name)
	}
	for i, rule := range d.Rules {
		if strings.TrimSpace(rule.TagName) == "" {
			return fmt.Errorf("%w: descriptor %s rule %d has no tag", ErrInvalidCatalog, d.Name, i)
		}
		for _, attr := range rule.Attributes {
			if attr.Name == "" {
				return fmt.Errorf("%w: descriptor %s rule %d has an unnamed attribute", ErrInvalidCatalog, d.Name, i)
			}
		}
	}
	for _, attr := range d.Attributes {
		if attr.Name == "" && attr.IndexerPrefix == "" {
			return fmt.Errorf("%w: descriptor %s has an unnamed bound attribute", ErrInvalidCatalog, d.Name)
		}
	}
	return nil
}

// boundAttribute finds the bound attribute for name. Indexer prefixes match
// when a key follows them.
func (d *Descriptor) boundAttribute(name string) (BoundAttribute, string, bool) {
	for _, attr := range d.Attributes {
		if attr.Name != "" && equalFold(attr.Name, name) {
			return attr, attr.Type, true
		}
	}
	for _, attr := range d.Attributes {
		if attr.IndexerPrefix != "" && len(name) > len(attr.IndexerPrefix) &&
			equalFold(name[:len(attr.IndexerPrefix)], attr.IndexerPrefix) {
			return attr, attr.IndexerType, true
		}
	}
	return BoundAttribute{}, "", false
}

// isIndexerPrefix reports whether name is exactly one of the descriptor's
// indexer prefixes, i.e. a dictionary attribute without a key.
func (d *Descriptor) isIndexerPrefix(name string) bool {
	for _, attr := range d.Attributes {
		if attr.IndexerPrefix != "" && equalFold(attr.IndexerPrefix, name) {
			return true
		}
	}
	return false
}

func isStringType(typ string) bool {
	switch strings.TrimSpace(typ) {
	case "string", "String", "System.String", "string?":
		return true
	}
	return false
}

func isBoolType(typ string) bool {
	switch strings.TrimSpace(typ) {
	case "bool", "Boolean", "System.Boolean", "bool?":
		return true
	}
	return false
}
