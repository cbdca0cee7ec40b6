package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorazor/internal/logging"
	"github.com/yaklabco/gorazor/internal/ui/pretty"
	"github.com/yaklabco/gorazor/pkg/analysis"
	"github.com/yaklabco/gorazor/pkg/check"
	"github.com/yaklabco/gorazor/pkg/config"
	"github.com/yaklabco/gorazor/pkg/runner"
	"github.com/yaklabco/gorazor/pkg/watch"
)

type watchFlags struct {
	engine    engineFlags
	ignore    []string
	debounce  time.Duration
	noContext bool
}

func newWatchCommand() *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-check templates as they change",
		Long: `Check templates once, then re-check each file whenever it changes.

Edits to a known file are first offered to the incremental parser, which
re-tokenizes only the edited span when it can. Other edits re-parse the
file. Stop with Ctrl-C.

Examples:
  gorazor watch                 # Watch the current directory
  gorazor watch Views/ Pages/`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, flags)
		},
	}

	addEngineFlags(cmd, &flags.engine)
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", watch.DefaultDebounce, "quiet period before re-checking")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, flags *watchFlags) error {
	workDir, err := workingDir()
	if err != nil {
		return err
	}

	opts, cfg, err := checkerOptions(cmd, workDir, &flags.engine, &config.Config{Ignore: flags.ignore})
	if err != nil {
		return err
	}

	logger := logging.NewInteractive()
	logger.SetLevel(logging.Default().GetLevel())

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	discovery := runner.OptionsFromConfig(cfg, args)
	discovery.WorkingDir = workDir

	colorMode, _ := cmd.Flags().GetString("color") //nolint:errcheck // persistent flag always exists
	printer := &eventPrinter{
		out:         cmd.OutOrStdout(),
		styles:      pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout())),
		workDir:     workDir,
		showContext: !flags.noContext,
	}

	w, err := watch.New(check.New(opts), watch.Options{Discovery: discovery, Debounce: flags.debounce}, printer.print)
	if err != nil {
		return withExit(ExitIOError, err)
	}
	if err := w.Run(ctx); err != nil {
		return withExit(ExitIOError, err)
	}
	logger.Info("stopped")
	return nil
}

// eventPrinter writes watch events: a status line per update and the
// diagnostics of every file that has any.
type eventPrinter struct {
	out         io.Writer
	styles      *pretty.Styles
	workDir     string
	showContext bool

	mu sync.Mutex
}

func (p *eventPrinter) print(ctx context.Context, ev watch.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	logger := logging.FromContext(ctx)
	path := p.rel(ev.Path)

	switch ev.Kind {
	case watch.Removed:
		logger.Info("removed", logging.FieldPath, path)
		return
	case watch.Skipped:
		logger.Warn("skipped large file", logging.FieldPath, path)
		return
	case watch.Failed:
		logger.Error("check failed", logging.FieldPath, path, logging.FieldError, ev.Err)
		return
	}

	diags := ev.Result.Diagnostics
	if ev.Kind == watch.Updated {
		logger.Info("updated",
			logging.FieldPath, path,
			logging.FieldAccepted, ev.Incremental(),
			logging.FieldDiagnostics, len(diags),
			logging.FieldDuration, ev.Duration.Round(time.Microsecond),
		)
	}
	if len(diags) == 0 {
		return
	}

	fmt.Fprintln(p.out, p.styles.FormatFileHeader(path, len(diags)))
	for i := range diags {
		entry := analysis.NewEntry(path, ev.Result.Document, &diags[i])
		fmt.Fprint(p.out, p.styles.FormatDiagnostic(&entry, p.showContext))
	}
}

func (p *eventPrinter) rel(path string) string {
	if rel, err := filepath.Rel(p.workDir, path); err == nil {
		return rel
	}
	return path
}
