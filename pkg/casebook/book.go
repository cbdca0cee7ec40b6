// Package casebook reads Markdown case books and verifies the engine against
// them.
//
// A book is a Markdown document. Each level-two heading starts a case; the
// fenced code blocks that follow it carry the case's parts, selected by the
// fence language:
//
//	cshtml, razor  the template (required; the final newline is dropped)
//	outline        the expected syntax tree outline
//	diagnostics    the expected diagnostics, one "CODE [offset length]" per line
//	taghelpers     a tag helper catalogue
//
// A taghelpers fence before the first case applies to every case. Words
// after the template language set per-case flags: "design-time" and "raw".
// Other fences and prose are ignored.
package casebook

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gorazor/pkg/taghelper"
)

// ErrInvalidBook is returned for a book that cannot be run.
var ErrInvalidBook = errors.New("invalid case book")

// Book is a parsed case book.
type Book struct {
	Path string

	// Catalog applies to cases without their own.
	Catalog []*taghelper.Descriptor

	Cases []*Case
}

// Case is one template and its expectations.
type Case struct {
	Name string

	// Line is the one-based line of the case heading.
	Line int

	Template   string
	DesignTime bool
	Raw        bool

	// Outline is the expected outline; HasOutline distinguishes an empty
	// expectation from none.
	Outline    string
	HasOutline bool

	// Diagnostics are the expected diagnostics; HasDiagnostics
	// distinguishes "none expected" from "not checked".
	Diagnostics    []Expected
	HasDiagnostics bool

	Catalog []*taghelper.Descriptor

	hasTemplate bool
}

// Expected is one expected diagnostic. Offset and Length are -1 when the
// book names only the code.
type Expected struct {
	Code   string
	Offset int
	Length int
}

func (e Expected) String() string {
	if e.Offset < 0 {
		return e.Code
	}
	return fmt.Sprintf("%s %d %d", e.Code, e.Offset, e.Length)
}

// Positional reports whether the book gave a position.
func (e Expected) Positional() bool {
	return e.Offset >= 0
}

// ParseFile reads and parses the book at path.
func ParseFile(path string) (*Book, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read case book: %w", err)
	}
	return Parse(path, content)
}

// Parse parses a case book.
func Parse(path string, content []byte) (*Book, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(content))

	b := &bookParser{book: &Book{Path: path}, source: content}
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if err := b.visit(node); err != nil {
			return nil, err
		}
	}
	if err := b.close(); err != nil {
		return nil, err
	}

	return b.book, nil
}

type bookParser struct {
	book    *Book
	source  []byte
	current *Case
}

func (b *bookParser) visit(node ast.Node) error {
	switch n := node.(type) {
	case *ast.Heading:
		if n.Level != 2 {
			return nil
		}
		if err := b.close(); err != nil {
			return err
		}
		b.current = &Case{
			Name: strings.TrimSpace(string(linesValue(n.Lines(), b.source))),
			Line: b.lineOf(n),
		}
	case *ast.FencedCodeBlock:
		return b.fence(n)
	}
	return nil
}

func (b *bookParser) fence(n *ast.FencedCodeBlock) error {
	var info []string
	if n.Info != nil {
		info = strings.Fields(string(n.Info.Segment.Value(b.source)))
	}
	if len(info) == 0 {
		return nil
	}
	body := linesValue(n.Lines(), b.source)

	if b.current == nil {
		if info[0] != "taghelpers" {
			return nil
		}
		descs, err := taghelper.LoadCatalog(bytes.NewReader(body))
		if err != nil {
			return b.fail(n, "book catalogue: %v", err)
		}
		b.book.Catalog = descs
		return nil
	}

	c := b.current
	switch info[0] {
	case "cshtml", "razor":
		if c.hasTemplate {
			return b.fail(n, "case %q has two templates", c.Name)
		}
		c.hasTemplate = true
		c.Template = strings.TrimSuffix(string(body), "\n")
		for _, flag := range info[1:] {
			switch flag {
			case "design-time":
				c.DesignTime = true
			case "raw":
				c.Raw = true
			default:
				return b.fail(n, "case %q: unknown flag %q", c.Name, flag)
			}
		}
	case "outline":
		c.Outline = string(body)
		c.HasOutline = true
	case "diagnostics":
		expected, err := parseExpected(string(body))
		if err != nil {
			return b.fail(n, "case %q: %v", c.Name, err)
		}
		c.Diagnostics = expected
		c.HasDiagnostics = true
	case "taghelpers":
		descs, err := taghelper.LoadCatalog(bytes.NewReader(body))
		if err != nil {
			return b.fail(n, "case %q catalogue: %v", c.Name, err)
		}
		c.Catalog = descs
	}
	return nil
}

func (b *bookParser) close() error {
	c := b.current
	b.current = nil
	if c == nil {
		return nil
	}
	if !c.hasTemplate {
		return fmt.Errorf("%w: %s:%d: case %q has no template", ErrInvalidBook, b.book.Path, c.Line, c.Name)
	}
	b.book.Cases = append(b.book.Cases, c)
	return nil
}

func (b *bookParser) fail(n ast.Node, format string, args ...any) error {
	return fmt.Errorf("%w: %s:%d: %s", ErrInvalidBook, b.book.Path, b.lineOf(n), fmt.Sprintf(format, args...))
}

// lineOf returns the one-based line of a block's first content line. Fences
// report the line after the opening fence.
func (b *bookParser) lineOf(n ast.Node) int {
	lines := n.Lines()
	if lines.Len() == 0 {
		return 0
	}
	return bytes.Count(b.source[:lines.At(0).Start], []byte("\n")) + 1
}

func linesValue(lines *text.Segments, source []byte) []byte {
	var buf bytes.Buffer
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.Bytes()
}

// parseExpected reads "CODE [offset length]" lines.
func parseExpected(body string) ([]Expected, error) {
	expected := []Expected{}
	for _, line := range strings.Split(body, "\n") {
		fields := strings.Fields(line)
		switch len(fields) {
		case 0:
			continue
		case 1:
			expected = append(expected, Expected{Code: fields[0], Offset: -1, Length: -1})
		case 3:
			offset, err1 := strconv.Atoi(fields[1])
			length, err2 := strconv.Atoi(fields[2])
			if err1 != nil || err2 != nil || offset < 0 || length < 0 {
				return nil, fmt.Errorf("bad diagnostic position in %q", line)
			}
			expected = append(expected, Expected{Code: fields[0], Offset: offset, Length: length})
		default:
			return nil, fmt.Errorf("bad diagnostic line %q; want \"CODE [offset length]\"", line)
		}
	}
	return expected, nil
}
