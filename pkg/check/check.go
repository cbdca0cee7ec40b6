// Package check runs the per-document pipeline: parse, resolve the tag
// helpers a document can use, rewrite the tree against them, and filter the
// diagnostics through the configuration.
package check

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/yaklabco/gorazor/internal/logging"
	"github.com/yaklabco/gorazor/pkg/config"
	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/edit"
	"github.com/yaklabco/gorazor/pkg/parser"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/syntax"
	"github.com/yaklabco/gorazor/pkg/taghelper"
)

// ErrParseFailure wraps errors returned by the parser. Problems in the
// document itself are diagnostics, never errors.
var ErrParseFailure = errors.New("parse failure")

// Options configures a Checker.
type Options struct {
	// Parser is passed to every parse.
	Parser parser.Options

	// Registry holds the known tag helper descriptors. Nil disables tag
	// helper binding.
	Registry *taghelper.Registry

	// Defaults are applied before each document's own directives.
	Defaults taghelper.Defaults

	// Raw skips tag helper rewriting.
	Raw bool

	// Hints adds informational diagnostics for opaque script bodies.
	Hints bool

	// Config filters diagnostics and overrides their severities. Nil keeps
	// every diagnostic as reported.
	Config *config.Config
}

// OptionsFromConfig builds checker options from a loaded configuration.
func OptionsFromConfig(cfg *config.Config, reg *taghelper.Registry) (Options, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	directives, err := DirectivesFromConfig(cfg.Directives)
	if err != nil {
		return Options{}, err
	}

	return Options{
		Parser:   parser.Options{DesignTime: cfg.DesignTime, Directives: directives},
		Registry: reg,
		Defaults: taghelper.Defaults{Prefix: cfg.TagHelperPrefix, Lookups: cfg.Lookups},
		Hints:    cfg.Hints,
		Config:   cfg,
	}, nil
}

// Result is the outcome of checking one document.
type Result struct {
	// Document is the checked source.
	Document *source.Document

	// Raw is the tree as parsed.
	Raw *syntax.Tree

	// Tree is the tree after tag helper rewriting. It equals Raw when
	// nothing was bound or rewriting is disabled.
	Tree *syntax.Tree

	// Binder is the tag helper set the document resolved to.
	Binder *taghelper.Binder

	// ParseDiagnostics are the parser's diagnostics before filtering.
	ParseDiagnostics []diag.Diagnostic

	// Diagnostics contains the filtered, sorted diagnostics.
	Diagnostics []diag.Diagnostic
}

// HasIssues returns true if any diagnostics were found.
func (r *Result) HasIssues() bool {
	return len(r.Diagnostics) > 0
}

// IssueCount returns the total number of diagnostics.
func (r *Result) IssueCount() int {
	return len(r.Diagnostics)
}

// CountBySeverity returns the number of diagnostics with severity s.
func (r *Result) CountBySeverity(s diag.Severity) int {
	count := 0
	for i := range r.Diagnostics {
		if r.Diagnostics[i].Severity == s {
			count++
		}
	}
	return count
}

// Checker runs the pipeline. It is safe for concurrent use; every call
// owns its own parse state.
type Checker struct {
	opts   Options
	engine *edit.Engine
}

// New creates a checker.
func New(opts Options) *Checker {
	return &Checker{opts: opts, engine: edit.NewEngine()}
}

// Options returns the checker's options.
func (c *Checker) Options() Options {
	return c.opts
}

// Check checks in-memory content attributed to path.
func (c *Checker) Check(ctx context.Context, path string, content []byte) (*Result, error) {
	return c.CheckDocument(ctx, source.NewDocument(path, string(content)))
}

// CheckDocument checks doc from scratch.
func (c *Checker) CheckDocument(ctx context.Context, doc *source.Document) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, parser.ErrNilDocument)
	}

	started := time.Now()
	tree, parseDiags, err := parser.Parse(ctx, doc, c.opts.Parser)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	result, err := c.finish(doc, tree, parseDiags)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug("checked document",
		logging.FieldPath, doc.Path,
		logging.FieldDiagnostics, len(result.Diagnostics),
		logging.FieldDuration, time.Since(started),
	)
	return result, nil
}

// Update checks content as the next version of prev. The difference is
// offered to the incremental edit engine first; when the engine accepts it
// only the edited leaf is re-tokenized and the previous parse diagnostics
// are carried over. Otherwise the document is checked from scratch. The
// returned status is the engine's verdict.
func (c *Checker) Update(ctx context.Context, prev *Result, content string) (*Result, edit.Status, error) {
	if prev == nil || prev.Raw == nil {
		result, err := c.CheckDocument(ctx, source.NewDocument("", content))
		return result, edit.Rejected, err
	}

	change, changed := edit.Diff(prev.Document.Content, content)
	if !changed {
		return prev, edit.Accepted, nil
	}

	logger := logging.FromContext(ctx)
	res, err := c.engine.Apply(prev.Raw, change)
	if err != nil {
		return nil, 0, fmt.Errorf("apply change: %w", err)
	}

	doc := source.NewDocument(prev.Document.Path, content)
	if !res.Status.Has(edit.Accepted) {
		logger.Debug("incremental change rejected",
			logging.FieldPath, doc.Path, logging.FieldChange, change.String(), logging.FieldStatus, res.Status.String())
		result, err := c.CheckDocument(ctx, doc)
		return result, res.Status, err
	}

	logger.Debug("incremental change accepted",
		logging.FieldPath, doc.Path, logging.FieldChange, change.String(), logging.FieldStatus, res.Status.String())
	result, err := c.finish(doc, res.Tree, shiftDiagnostics(doc, prev.ParseDiagnostics, change))
	return result, res.Status, err
}

// finish binds tag helpers on a parsed tree and assembles the result.
func (c *Checker) finish(doc *source.Document, raw *syntax.Tree, parseDiags []diag.Diagnostic) (*Result, error) {
	result := &Result{
		Document:         doc,
		Raw:              raw,
		Tree:             raw,
		ParseDiagnostics: parseDiags,
	}

	sink := diag.NewSink(doc)
	if !c.opts.Raw && c.opts.Registry != nil {
		result.Binder = taghelper.Resolve(raw, c.opts.Registry, c.opts.Defaults)
		tree, err := taghelper.Rewrite(raw, result.Binder, sink)
		if err != nil {
			return nil, fmt.Errorf("rewrite tag helpers: %w", err)
		}
		result.Tree = tree
	}
	if c.opts.Hints {
		scriptHints(result.Tree, sink)
	}

	all := slices.Concat(parseDiags, sink.Diagnostics())
	result.Diagnostics = Filter(all, c.opts.Config)
	return result, nil
}

// shiftDiagnostics moves diagnostics of the previous version past an
// accepted change. Diagnostics overlapping the change are dropped.
func shiftDiagnostics(doc *source.Document, diags []diag.Diagnostic, change edit.Change) []diag.Diagnostic {
	delta := len(change.NewText) - change.OldLength
	out := make([]diag.Diagnostic, 0, len(diags))
	for _, d := range diags {
		start := d.Span.AbsoluteIndex
		switch {
		case d.Span.End() <= change.Start:
		case start >= change.End():
			start += delta
		default:
			continue
		}
		d.Span = doc.Span(start, d.Span.Length)
		out = append(out, d)
	}
	return out
}
