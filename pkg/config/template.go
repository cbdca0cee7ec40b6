package config

import (
	"bytes"
	"fmt"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full lists every diagnostic code with its message.
	// If false, generates a minimal template.
	Full bool

	// Codes describes the diagnostic codes for a full template.
	Codes []CodeInfo
}

// CodeInfo contains diagnostic code metadata for template generation.
type CodeInfo struct {
	Code     string
	Severity Severity
	Message  string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Parse the way an editor does (keeps whitespace around code blocks)
design_time: false

# Template file extensions to check
extensions:
  - .cshtml
  - .razor

# Tag helper catalogues (YAML descriptor files)
# descriptors:
#   - taghelpers.yaml

# addTagHelper lookups applied before a document's own directives
# lookups:
#   - "*, Acme.Web"

# Prefix required on tag helper elements when a document sets none
# tag_helper_prefix: "th:"

# Extra directives
# directives:
#   - name: rendermode
#     kind: single-line
#     tokens: [member]

# Drop diagnostics below this severity: error, warning, or info
min_severity: info

# File patterns to ignore (glob patterns)
# ignore:
#   - "bin/**"
#   - "obj/**"
`)

	if !opts.Full || len(opts.Codes) == 0 {
		buf.WriteString(`
# Per-code overrides
# diagnostics:
#   RZ1025:
#     severity: warning
#   RZ2009:
#     enabled: false
`)
		return buf.Bytes()
	}

	buf.WriteString("\n# Per-code overrides\ndiagnostics:\n")
	for _, info := range opts.Codes {
		for _, line := range wrapComment(info.Message, commentWrapWidth) {
			fmt.Fprintf(&buf, "  # %s\n", line)
		}
		fmt.Fprintf(&buf, "  %s:\n    enabled: true\n    severity: %s\n\n", info.Code, info.Severity)
	}
	return bytes.TrimRight(buf.Bytes(), "\n")
}

// wrapComment splits text into lines of at most width runes, breaking at
// spaces.
func wrapComment(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gorazor configuration
# See: https://github.com/yaklabco/gorazor`
}
