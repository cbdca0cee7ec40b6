package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gorazor/pkg/casebook"
)

// FormatDiff renders a case book mismatch as a coloured unified diff. A nil
// diff renders as "".
func (s *Styles) FormatDiff(d *casebook.Diff) string {
	if d == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(s.DiffHeader.Render("--- want/"+d.Label) + "\n")
	b.WriteString(s.DiffHeader.Render("+++ got/"+d.Label) + "\n")
	for _, h := range d.Hunks {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.WantStart, h.WantCount, h.GotStart, h.GotCount)
		b.WriteString(s.DiffHunk.Render(header) + "\n")
		for _, line := range h.Lines {
			switch line.Kind {
			case casebook.LineAdd:
				b.WriteString(s.DiffAdd.Render("+"+line.Content) + "\n")
			case casebook.LineRemove:
				b.WriteString(s.DiffRemove.Render("-"+line.Content) + "\n")
			default:
				b.WriteString(s.DiffContext.Render(" "+line.Content) + "\n")
			}
		}
	}
	return b.String()
}
