package check

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/gorazor/pkg/config"
	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/parser"
	"github.com/yaklabco/gorazor/pkg/taghelper"
)

// ErrInvalidDirective is returned for a directive declaration that cannot
// be turned into a parser directive.
var ErrInvalidDirective = errors.New("invalid directive")

var directiveKinds = map[string]parser.DirectiveKind{
	"":                         parser.DirectiveSingleLine,
	config.DirectiveSingleLine: parser.DirectiveSingleLine,
	config.DirectiveCodeBlock:  parser.DirectiveCodeBlock,
	config.DirectiveRazorBlock: parser.DirectiveRazorBlock,
}

var directiveTokenKinds = map[string]struct {
	kind parser.DirectiveTokenKind
	name string
}{
	config.TokenType:      {parser.DirectiveTokenType, "TypeName"},
	config.TokenMember:    {parser.DirectiveTokenMember, "MemberName"},
	config.TokenNamespace: {parser.DirectiveTokenNamespace, "Namespace"},
	config.TokenString:    {parser.DirectiveTokenString, "Value"},
}

// DirectivesFromConfig converts configured directives to parser directives.
func DirectivesFromConfig(cfgs []config.DirectiveConfig) ([]parser.Directive, error) {
	var errs []error
	out := make([]parser.Directive, 0, len(cfgs))

	for _, dc := range cfgs {
		if dc.Name == "" {
			errs = append(errs, fmt.Errorf("%w: missing name", ErrInvalidDirective))
			continue
		}

		kind, ok := directiveKinds[dc.Kind]
		if !ok {
			errs = append(errs, fmt.Errorf("%w %q: unknown kind %q", ErrInvalidDirective, dc.Name, dc.Kind))
			continue
		}

		d := parser.Directive{Name: dc.Name, Kind: kind, Description: dc.Description}
		if dc.Once {
			d.Usage = parser.FileScopedSinglyOccurring
		}

		for _, tok := range dc.Tokens {
			name, optional := strings.CutSuffix(tok, "?")
			token, ok := directiveTokenKinds[name]
			if !ok {
				errs = append(errs, fmt.Errorf("%w %q: unknown token kind %q", ErrInvalidDirective, dc.Name, tok))
				continue
			}
			d.Tokens = append(d.Tokens, parser.DirectiveToken{
				Kind:     token.kind,
				Optional: optional,
				Name:     token.name,
			})
		}
		out = append(out, d)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// LoadRegistry reads every catalogue file into one registry.
func LoadRegistry(paths []string) (*taghelper.Registry, error) {
	reg := taghelper.NewRegistry()
	var errs []error
	for _, path := range paths {
		descs, err := taghelper.LoadCatalogFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reg.Register(descs...)
	}
	return reg, errors.Join(errs...)
}

// Filter applies the configuration to diagnostics: disabled codes and those
// below the minimum severity are dropped, severity overrides are applied,
// and the result is sorted by position. A nil cfg only sorts.
func Filter(diags []diag.Diagnostic, cfg *config.Config) []diag.Diagnostic {
	out := slices.Clone(diags)
	if cfg != nil {
		minRank := diag.SeverityInfo.Rank()
		if s, ok := diag.ParseSeverity(cfg.MinSeverity); ok {
			minRank = s.Rank()
		}

		out = out[:0]
		for _, d := range diags {
			if !cfg.CodeEnabled(d.Code) {
				continue
			}
			if override, ok := cfg.SeverityFor(d.Code); ok {
				if s, valid := diag.ParseSeverity(string(override)); valid {
					d.Severity = s
				}
			}
			if d.Severity.Rank() < minRank {
				continue
			}
			out = append(out, d)
		}
	}
	diag.Sort(out)
	return out
}
