package cli

import (
	"bufio"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorazor/internal/ui/pretty"
	"github.com/yaklabco/gorazor/pkg/analysis"
	"github.com/yaklabco/gorazor/pkg/check"
	"github.com/yaklabco/gorazor/pkg/fsutil"
)

type treeFlags struct {
	engine   engineFlags
	raw      bool
	offsets  bool
	contexts bool
	depth    int
	noDiags  bool
}

func newTreeCommand() *cobra.Command {
	flags := &treeFlags{}

	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the syntax tree of a template",
		Long: `Print the syntax tree of one template, one node per line, followed by
its diagnostics.

The tree is shown after tag helper rewriting unless --raw is given.

Examples:
  gorazor tree Views/Home/Index.cshtml
  gorazor tree --offsets --contexts Pages/Counter.razor
  gorazor tree --raw --depth 3 Index.cshtml
  gorazor tree --hints Index.cshtml    # Name the language of script bodies`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, args[0], flags)
		},
	}

	addEngineFlags(cmd, &flags.engine)
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "skip tag helper rewriting")
	cmd.Flags().BoolVar(&flags.offsets, "offsets", false, "show the range of every node")
	cmd.Flags().BoolVar(&flags.contexts, "contexts", false, "show span contexts (generator and accepted characters)")
	cmd.Flags().IntVar(&flags.depth, "depth", 0, "maximum depth to print (0 = unlimited)")
	cmd.Flags().BoolVar(&flags.noDiags, "no-diagnostics", false, "print the tree only")

	return cmd
}

func runTree(cmd *cobra.Command, path string, flags *treeFlags) (err error) {
	ctx := commandContext(cmd)

	workDir, err := workingDir()
	if err != nil {
		return err
	}

	opts, _, err := checkerOptions(cmd, workDir, &flags.engine, nil)
	if err != nil {
		return err
	}
	opts.Raw = opts.Raw || flags.raw

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, fsutil.ErrIsDirectory) {
			return withExit(ExitInvalidUsage, err)
		}
		return withExit(ExitIOError, err)
	}

	result, err := check.New(opts).Check(ctx, path, content)
	if err != nil {
		return withExit(ExitInternalError, err)
	}

	colorMode, _ := cmd.Flags().GetString("color") //nolint:errcheck // persistent flag always exists
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()))

	bw := bufio.NewWriter(cmd.OutOrStdout())
	defer func() {
		if flushErr := bw.Flush(); flushErr != nil && err == nil {
			err = withExit(ExitIOError, fmt.Errorf("flush output: %w", flushErr))
		}
	}()

	fmt.Fprint(bw, styles.FormatTree(result.Tree, pretty.TreeOptions{
		Offsets:  flags.offsets,
		Contexts: flags.contexts,
		MaxDepth: flags.depth,
	}))

	if flags.noDiags || len(result.Diagnostics) == 0 {
		return nil
	}

	display := path
	if rel, relErr := filepath.Rel(workDir, path); relErr == nil && filepath.IsAbs(path) {
		display = rel
	}

	fmt.Fprintln(bw)
	for i := range result.Diagnostics {
		entry := analysis.NewEntry(display, result.Document, &result.Diagnostics[i])
		fmt.Fprint(bw, styles.FormatDiagnostic(&entry, true))
	}
	return nil
}
