package casebook

import (
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/gorazor/internal/logging"
	"github.com/yaklabco/gorazor/pkg/check"
	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/taghelper"
)

// Mismatch is one expectation the engine did not meet.
type Mismatch struct {
	// Part is "outline" or "diagnostics".
	Part string
	Diff *Diff
}

// Outcome is the result of running one case.
type Outcome struct {
	Case       *Case
	Result     *check.Result
	Mismatches []Mismatch
}

// Passed reports whether every expectation held.
func (o *Outcome) Passed() bool {
	return len(o.Mismatches) == 0
}

// Report collects the outcomes of a book.
type Report struct {
	Book     *Book
	Outcomes []Outcome
}

// Failed returns the number of failing cases.
func (r *Report) Failed() int {
	n := 0
	for i := range r.Outcomes {
		if !r.Outcomes[i].Passed() {
			n++
		}
	}
	return n
}

// Passed reports whether every case passed.
func (r *Report) Passed() bool {
	return r.Failed() == 0
}

// Verify runs every case of book. base configures the checker; a case's
// flags and catalogue are layered over it.
func Verify(ctx context.Context, book *Book, base check.Options) (*Report, error) {
	ctx, _ = logging.With(ctx, logging.FieldBook, book.Path)
	report := &Report{Book: book, Outcomes: make([]Outcome, 0, len(book.Cases))}

	for _, c := range book.Cases {
		caseCtx, logger := logging.With(ctx, logging.FieldCase, c.Name)
		outcome, err := runCase(caseCtx, book, c, base)
		if err != nil {
			return nil, fmt.Errorf("%s: case %q: %w", book.Path, c.Name, err)
		}
		logger.Debug("case verified", logging.FieldPassed, outcome.Passed())
		report.Outcomes = append(report.Outcomes, outcome)
	}

	return report, nil
}

func runCase(ctx context.Context, book *Book, c *Case, opts check.Options) (Outcome, error) {
	opts.Parser.DesignTime = opts.Parser.DesignTime || c.DesignTime
	opts.Raw = opts.Raw || c.Raw

	catalog := c.Catalog
	if catalog == nil {
		catalog = book.Catalog
	}
	if catalog != nil {
		reg := taghelper.NewRegistry()
		reg.Register(catalog...)
		opts.Registry = reg
	}

	res, err := check.New(opts).Check(ctx, book.Path, []byte(c.Template))
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Case: c, Result: res}
	if c.HasOutline {
		if d := NewDiff(c.Name+"/outline", c.Outline, res.Tree.Outline()); d != nil {
			outcome.Mismatches = append(outcome.Mismatches, Mismatch{Part: "outline", Diff: d})
		}
	}
	if c.HasDiagnostics {
		want, got := diagnosticLines(c.Diagnostics, res.Diagnostics)
		if d := NewDiff(c.Name+"/diagnostics", want, got); d != nil {
			outcome.Mismatches = append(outcome.Mismatches, Mismatch{Part: "diagnostics", Diff: d})
		}
	}
	return outcome, nil
}

// diagnosticLines renders both sides at the precision the book uses: with
// positions when any expectation has one, codes only otherwise.
func diagnosticLines(expected []Expected, actual []diag.Diagnostic) (string, string) {
	positional := false
	for _, e := range expected {
		positional = positional || e.Positional()
	}

	var want, got strings.Builder
	for _, e := range expected {
		want.WriteString(e.String() + "\n")
	}
	for i := range actual {
		e := Expected{Code: actual[i].Code, Offset: -1, Length: -1}
		if positional {
			e.Offset = actual[i].Span.AbsoluteIndex
			e.Length = actual[i].Span.Length
		}
		got.WriteString(e.String() + "\n")
	}
	return want.String(), got.String()
}
