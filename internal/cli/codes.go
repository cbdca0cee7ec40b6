package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorazor/internal/ui/pretty"
	"github.com/yaklabco/gorazor/pkg/diag"
)

const formatJSON = "json"

// codeInfo represents a diagnostic code in JSON output.
type codeInfo struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func newCodesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "codes",
		Short: "List diagnostic codes",
		Long: `List every diagnostic code with its default severity and message.
Message arguments are shown as {}.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			descs := diag.DefaultCatalog.Descriptors()

			switch format {
			case formatJSON:
				return outputCodesJSON(cmd, descs)
			case "", "text":
				colorMode, _ := cmd.Flags().GetString("color") //nolint:errcheck // persistent flag always exists
				styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()))
				fmt.Fprint(cmd.OutOrStdout(), formatCodes(styles, descs))
				return nil
			default:
				return withExit(ExitInvalidUsage, fmt.Errorf("%w: format %q; valid formats: text, json", ErrUsage, format))
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

// severityWidth fits the longest severity name.
const severityWidth = len("warning")

func formatCodes(styles *pretty.Styles, descs []*diag.Descriptor) string {
	var b strings.Builder
	for _, d := range descs {
		sev := string(d.Severity)
		b.WriteString(styles.Code.Render(d.Code))
		b.WriteString("  ")
		b.WriteString(styles.FormatSeverity(d.Severity))
		b.WriteString(strings.Repeat(" ", severityWidth-len(sev)+2))
		b.WriteString(styles.Message.Render(d.Summary()))
		b.WriteString("\n")
	}
	return b.String()
}

// outputCodesJSON outputs codes as a JSON array.
func outputCodesJSON(cmd *cobra.Command, descs []*diag.Descriptor) error {
	infos := make([]codeInfo, 0, len(descs))
	for _, d := range descs {
		infos = append(infos, codeInfo{
			Code:     d.Code,
			Severity: string(d.Severity),
			Message:  d.Summary(),
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return withExit(ExitIOError, fmt.Errorf("encoding codes: %w", err))
	}
	return nil
}
