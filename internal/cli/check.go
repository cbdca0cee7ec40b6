package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorazor/internal/logging"
	"github.com/yaklabco/gorazor/pkg/check"
	"github.com/yaklabco/gorazor/pkg/config"
	"github.com/yaklabco/gorazor/pkg/reporter"
	"github.com/yaklabco/gorazor/pkg/runner"
)

type checkFlags struct {
	engine       engineFlags
	format       string
	jobs         int
	ignore       []string
	enable       []string
	disable      []string
	minSeverity  string
	strict       bool
	noContext    bool
	compact      bool
	perFile      bool
	summaryOrder string
}

func newCheckCommand(info BuildInfo) *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check Razor templates",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags, info)
		},
	}

	addEngineFlags(cmd, &flags.engine)
	formats := make([]string, 0, len(reporter.Formats()))
	for _, f := range reporter.Formats() {
		formats = append(formats, f.String())
	}
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: "+strings.Join(formats, ", "))
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "diagnostic codes to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "diagnostic codes to disable")
	cmd.Flags().StringVar(&flags.minSeverity, "min-severity", "", "drop diagnostics below: error, warning, info")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as errors for exit code")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.perFile, "per-file", false, "output separate report for each file (table format)")
	cmd.Flags().StringVar(&flags.summaryOrder, "summary-order", string(config.SummaryOrderCodes),
		"order of tables in summary output: codes, files")

	return cmd
}

const checkLongDescription = `Check Razor templates for syntax and tag helper problems.

By default, checks all .cshtml and .razor files in the current directory
and subdirectories. Specify paths to check specific files or directories.

Examples:
  gorazor check                        # Check current directory
  gorazor check Views/                 # Check one directory
  gorazor check Views/Home/Index.cshtml
  gorazor check --descriptors th.yaml  # Bind tag helpers from a catalogue
  gorazor check --format sarif         # Output SARIF for code scanning
  gorazor check --strict               # Treat warnings as errors`

func runCheck(cmd *cobra.Command, args []string, flags *checkFlags, info BuildInfo) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	if _, err := reporter.ParseFormat(flags.format); err != nil {
		return withExit(ExitInvalidUsage, err)
	}
	order := config.SummaryOrder(flags.summaryOrder)
	if !order.IsValid() {
		return withExit(ExitInvalidUsage, fmt.Errorf("%w: summary order %q", ErrUsage, flags.summaryOrder))
	}

	workDir, err := workingDir()
	if err != nil {
		return err
	}

	cli := &config.Config{
		Format:       config.OutputFormat(flags.format),
		Jobs:         flags.jobs,
		Strict:       flags.strict,
		MinSeverity:  flags.minSeverity,
		Ignore:       flags.ignore,
		EnableCodes:  flags.enable,
		DisableCodes: flags.disable,
	}
	opts, cfg, err := checkerOptions(cmd, workDir, &flags.engine, cli)
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return withExit(ExitConfigError, err)
	}

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = workDir

	logger.Debug("starting check run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(check.New(opts)).Run(ctx, runOpts)
	if err != nil {
		return withExit(ExitIOError, fmt.Errorf("check run failed: %w", err))
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:       cmd.OutOrStdout(),
		Format:       format,
		Color:        colorMode,
		ShowContext:  !flags.noContext,
		ShowSummary:  true,
		GroupByFile:  true,
		Compact:      flags.compact,
		PerFile:      flags.perFile,
		SummaryOrder: order,
		WorkingDir:   workDir,
		ToolVersion:  info.Version,
	})
	if err != nil {
		return withExit(ExitInvalidUsage, err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return withExit(ExitIOError, fmt.Errorf("report results: %w", err))
	}

	if code := ExitCodeFromResult(result, cfg.Strict); code != ExitSuccess {
		return withExit(code, ErrIssuesFound)
	}
	return nil
}
