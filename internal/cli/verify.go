package cli

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorazor/internal/logging"
	"github.com/yaklabco/gorazor/internal/ui/pretty"
	"github.com/yaklabco/gorazor/pkg/casebook"
)

type verifyFlags struct {
	engine engineFlags
	quiet  bool
}

func newVerifyCommand() *cobra.Command {
	flags := &verifyFlags{}

	cmd := &cobra.Command{
		Use:   "verify <book.md>...",
		Short: "Run Markdown case books against the parser",
		Long: `Run case books and report every case whose syntax tree outline or
diagnostics differ from what the book expects.

A case book is a Markdown file. Each "##" heading starts a case; its fenced
blocks hold the template (cshtml or razor), the expected outline, the
expected diagnostics ("CODE [offset length]" per line) and optionally a
taghelpers catalogue.

Examples:
  gorazor verify testdata/cases.md
  gorazor verify --quiet books/*.md`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args, flags)
		},
	}

	addEngineFlags(cmd, &flags.engine)
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "only report failing cases")

	return cmd
}

func runVerify(cmd *cobra.Command, books []string, flags *verifyFlags) (err error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	workDir, err := workingDir()
	if err != nil {
		return err
	}
	opts, _, err := checkerOptions(cmd, workDir, &flags.engine, nil)
	if err != nil {
		return err
	}

	colorMode, _ := cmd.Flags().GetString("color") //nolint:errcheck // persistent flag always exists
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()))

	bw := bufio.NewWriter(cmd.OutOrStdout())
	defer func() {
		if flushErr := bw.Flush(); flushErr != nil && err == nil {
			err = withExit(ExitIOError, fmt.Errorf("flush output: %w", flushErr))
		}
	}()

	total, failed := 0, 0
	for _, path := range books {
		book, err := casebook.ParseFile(path)
		if err != nil {
			if errors.Is(err, casebook.ErrInvalidBook) {
				return withExit(ExitConfigError, err)
			}
			return withExit(ExitIOError, err)
		}

		report, err := casebook.Verify(ctx, book, opts)
		if err != nil {
			return withExit(ExitInternalError, err)
		}
		logger.Debug("book verified", logging.FieldBook, path, "cases", len(report.Outcomes))

		for i := range report.Outcomes {
			writeOutcome(bw, styles, path, &report.Outcomes[i], flags.quiet)
		}
		total += len(report.Outcomes)
		failed += report.Failed()
	}

	summary := fmt.Sprintf("%d cases, %d passed, %d failed", total, total-failed, failed)
	if failed > 0 {
		fmt.Fprintln(bw, styles.Failure.Render(summary))
		return withExit(ExitIssueErrors, ErrIssuesFound)
	}
	fmt.Fprintln(bw, styles.Success.Render(summary))
	return nil
}

func writeOutcome(w *bufio.Writer, styles *pretty.Styles, book string, outcome *casebook.Outcome, quiet bool) {
	location := fmt.Sprintf("%s:%d", book, outcome.Case.Line)
	if outcome.Passed() {
		if !quiet {
			fmt.Fprintf(w, "%s %s %s\n", styles.Success.Render("PASS"), outcome.Case.Name, styles.Dim.Render(location))
		}
		return
	}

	fmt.Fprintf(w, "%s %s %s\n", styles.Failure.Render("FAIL"), outcome.Case.Name, styles.Dim.Render(location))
	for _, m := range outcome.Mismatches {
		fmt.Fprint(w, styles.FormatDiff(m.Diff))
	}
}
