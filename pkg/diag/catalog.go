package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/yaklabco/gorazor/pkg/source"
)

// Descriptor describes one diagnostic code.
type Descriptor struct {
	Code     string
	Severity Severity
	Format   string
}

// New creates a diagnostic for d at span. Args fill the %s verbs of Format.
func (d *Descriptor) New(span source.Span, args ...string) Diagnostic {
	return Diagnostic{
		Code:     d.Code,
		Severity: d.Severity,
		Message:  d.Message(args...),
		Args:     args,
		Span:     span,
	}
}

// Message formats the descriptor's message.
func (d *Descriptor) Message(args ...string) string {
	if len(args) == 0 {
		return d.Format
	}
	vals := make([]any, len(args))
	for i, a := range args {
		vals[i] = a
	}
	return fmt.Sprintf(d.Format, vals...)
}

// Summary returns the message format with every argument shown as "{}".
func (d *Descriptor) Summary() string {
	return strings.ReplaceAll(d.Format, "%s", "{}")
}

// Catalog holds the known diagnostic descriptors.
type Catalog struct {
	mu     sync.RWMutex
	byCode map[string]*Descriptor
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byCode: make(map[string]*Descriptor)}
}

// Register adds a descriptor. A descriptor with the same code is replaced.
func (c *Catalog) Register(d *Descriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byCode[d.Code] = d
}

// Get retrieves a descriptor by code.
func (c *Catalog) Get(code string) (*Descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.byCode[code]
	return d, ok
}

// Descriptors returns all descriptors sorted by code.
func (c *Catalog) Descriptors() []*Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*Descriptor, 0, len(c.byCode))
	for _, d := range c.byCode {
		result = append(result, d)
	}

	slices.SortFunc(result, func(a, b *Descriptor) int {
		return cmp.Compare(a.Code, b.Code)
	})

	return result
}

// Codes returns all registered codes in sorted order.
func (c *Catalog) Codes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]string, 0, len(c.byCode))
	for code := range c.byCode {
		result = append(result, code)
	}

	slices.Sort(result)
	return result
}

// DefaultCatalog holds every built-in descriptor.
//
//nolint:gochecknoglobals // Global catalog is intentional for descriptor registration
var DefaultCatalog = NewCatalog()

func define(code string, severity Severity, format string) *Descriptor {
	d := &Descriptor{Code: code, Severity: severity, Format: format}
	DefaultCatalog.Register(d)
	return d
}

// Built-in descriptors.
//
//nolint:gochecknoglobals // descriptors are immutable after init
var (
	UnterminatedStringLiteral = define("RZ1000", SeverityError,
		"Unterminated string literal. Strings that start with a quotation mark (\") must be terminated before the end of the line.")
	UnterminatedBlockComment = define("RZ1001", SeverityError,
		"End of file reached before the end of the block comment. All comments started with \"/*\" must be terminated with \"*/\".")
	UnexpectedWhiteSpaceAtStartOfCodeBlock = define("RZ1003", SeverityError,
		"A space or line break was encountered after the \"@\" character. Only valid identifiers, keywords, comments, \"(\" and \"{\" are valid at the start of a code block.")
	UnexpectedEndOfFileAtStartOfCodeBlock = define("RZ1004", SeverityError,
		"End-of-file was found after the \"@\" character. \"@\" must be followed by a valid code block.")
	UnexpectedCharacterAtStartOfCodeBlock = define("RZ1005", SeverityError,
		"\"%s\" is not valid at the start of a code block. Only identifiers, keywords, comments, \"(\" and \"{\" are valid.")
	ExpectedEndOfBlockBeforeEOF = define("RZ1006", SeverityError,
		"The %s block is missing a closing \"%s\" character. Make sure you have a matching \"%s\" character for every opening one within this block.")
	ReservedWord = define("RZ1007", SeverityError,
		"\"%s\" is a reserved word and cannot be used in implicit expressions. An explicit expression (\"@()\") must be used.")
	SingleLineControlFlowCannotContainMarkup = define("RZ1008", SeverityError,
		"Single-statement control-flow statements in Razor documents statements cannot contain markup. Markup should be enclosed in \"{\" and \"}\".")
	UnexpectedTransitionInCode = define("RZ1009", SeverityError,
		"The \"@\" character must be followed by a \":\", \"(\", or a C# identifier. If you intended to switch to markup, use an HTML start tag.")
	UnexpectedNestedCodeBlock = define("RZ1010", SeverityError,
		"Unexpected \"{\" after \"@\" character. Once inside the body of a code block (@if {}, @{}, etc.) you do not need to use \"@{\" to switch to code.")
	UnexpectedEOFAfterDirective = define("RZ1012", SeverityError,
		"Unexpected end of file following the '%s' directive. Expected '%s'.")
	DirectiveExpectsTypeName = define("RZ1013", SeverityError,
		"The '%s' directive expects a type name.")
	DirectiveExpectsNamespace = define("RZ1014", SeverityError,
		"The '%s' directive expects a namespace name.")
	DirectiveExpectsIdentifier = define("RZ1015", SeverityError,
		"The '%s' directive expects an identifier.")
	DirectiveExpectsQuotedString = define("RZ1016", SeverityError,
		"The '%s' directive expects a string surrounded by double quotes.")
	UnexpectedDirectiveLiteral = define("RZ1017", SeverityError,
		"Unexpected literal following the '%s' directive. Expected '%s'.")
	DirectiveMustHaveValue = define("RZ1018", SeverityError,
		"Directive '%s' must have a value.")
	IncompleteQuotesAroundDirective = define("RZ1019", SeverityError,
		"Optional quote around the directive '%s' is missing the corresponding opening or closing quote.")
	InvalidTagHelperPrefixValue = define("RZ1020", SeverityError,
		"Invalid tag helper directive '%s' value. '%s' is not allowed in prefix '%s'.")
	MarkupBlockMustStartWithTag = define("RZ1021", SeverityError,
		"Markup in a code block must start with a tag and all start tags must be matched with end tags.")
	OuterTagMissingName = define("RZ1022", SeverityError,
		"Outer tag is missing a name. The first character of a markup block must be an HTML tag with a valid name.")
	TextTagCannotContainAttributes = define("RZ1023", SeverityError,
		"\"<text>\" and \"</text>\" tags cannot contain attributes.")
	UnfinishedTag = define("RZ1024", SeverityError,
		"End of file or an unexpected character was reached before the \"%s\" tag could be parsed. Elements inside markup blocks must be complete.")
	MissingEndTag = define("RZ1025", SeverityError,
		"The \"%s\" element was not closed. All elements must be either self-closing or have a matching end tag.")
	UnexpectedEndTag = define("RZ1026", SeverityError,
		"Encountered end tag \"%s\" with no matching start tag. Are your start/end tags properly balanced?")
	ExpectedCloseBracketBeforeEOF = define("RZ1027", SeverityError,
		"An opening \"%s\" is missing the corresponding closing \"%s\".")
	UnterminatedTemplateComment = define("RZ1028", SeverityError,
		"End of file was reached before the end of the template comment. Template comments started with \"@*\" must be terminated with \"*@\".")
	TagHelperIndexerAttributeMissingKey = define("RZ1029", SeverityError,
		"The tag helper attribute '%s' in element '%s' is missing a key. The syntax is '<%s %s{ key }=\"value\">'.")
	TagHelperMalformedAttributes = define("RZ1030", SeverityError,
		"Tag helper attributes must be well-formed.")
	TagHelperCodeInDeclaration = define("RZ1031", SeverityError,
		"The tag helper '%s' must not have C# in the element's attribute declaration area.")
	TagHelperEndTagNotAllowed = define("RZ1033", SeverityError,
		"Found an end tag (</%s>) for tag helper '%s' with tag structure that disallows an end tag ('%s').")
	TagHelperMalformed = define("RZ1034", SeverityError,
		"Found a malformed '%s' tag helper. Tag helpers must have a start and end tag or be self closing.")
	TagHelperMissingCloseAngle = define("RZ1035", SeverityError,
		"Missing close angle for tag helper '%s'.")
	InvalidTagHelperLookupText = define("RZ1036", SeverityError,
		"Invalid tag helper directive look up text '%s'. The correct look up text format is: \"name, assemblyName\".")
	DuplicateDirective = define("RZ2001", SeverityError,
		"The '%s' directive may only occur once per document.")
	SectionsCannotBeNested = define("RZ2002", SeverityError,
		"Section blocks (\"%s\") cannot be nested. Only one level of section blocks are allowed.")
	TemplatesCannotBeNested = define("RZ2003", SeverityError,
		"Inline markup blocks (@<p>Content</p>) cannot be nested. Only one level of inline markup is allowed.")
	CodeBlocksNotSupportedInAttributes = define("RZ2006", SeverityError,
		"Code blocks (e.g. @{var variable = 23;}) must not appear in non-string tag helper attribute values.\n Already in an expression (code) context. If necessary an explicit expression (e.g. @(@readonly)) may be used.")
	EmptyBoundAttribute = define("RZ2008", SeverityError,
		"Attribute '%s' on tag helper element '%s' requires a value. Tag helper bound attributes of type '%s' cannot be empty or contain only whitespace.")
	CannotHaveNonTagContent = define("RZ2009", SeverityError,
		"The parent <%s> tag helper does not allow non-tag content. Only child tag helper(s) targeting tag name(s) '%s' are allowed.")
	InvalidNestedTag = define("RZ2010", SeverityError,
		"The <%s> tag is not allowed by parent <%s> tag helper. Only child tags with name(s) '%s' are allowed.")
	InconsistentTagStructure = define("RZ2011", SeverityError,
		"Tag helpers '%s' and '%s' targeting element '%s' must not expect different TagStructure values.")
	DuplicateBoundAttribute = define("RZ3001", SeverityWarning,
		"Duplicate bound attribute '%s' on tag helper element '%s'; the value is rendered as markup.")
	OpaqueBodyLanguage = define("RZ9000", SeverityInfo,
		"Opaque <%s> body looks like %s.")
)
