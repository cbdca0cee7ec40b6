package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gorazor/internal/configloader"
	"github.com/yaklabco/gorazor/internal/logging"
	"github.com/yaklabco/gorazor/pkg/config"
	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/fsutil"
)

const configFilePermissions = 0o644

// errConfigExists is returned when init would overwrite a file without
// permission.
var errConfigExists = errors.New("configuration file already exists")

type initFlags struct {
	force  bool
	full   bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a gorazor configuration file",
		Long: `Create a .gorazor.yml configuration file in the current directory.

An existing file is only replaced with --force, or after confirmation when
running in a terminal. The previous file is kept with a .bak suffix.

Examples:
  gorazor init                      Create a minimal .gorazor.yml
  gorazor init --full               List every diagnostic code with its default
  gorazor init --output razor.yml   Write to a custom path`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "list every diagnostic code with its default severity")
	cmd.Flags().StringVarP(&flags.output, "output", "o", configloader.ProjectConfigName, "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	ctx := commandContext(cmd)
	logger := logging.NewInteractive()

	path, err := filepath.Abs(flags.output)
	if err != nil {
		return withExit(ExitIOError, fmt.Errorf("resolve path: %w", err))
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return withExit(ExitInvalidUsage, fmt.Errorf("%s is a directory", flags.output))
	case err == nil:
		if !flags.force {
			ok, promptErr := confirmOverwrite(cmd, flags.output)
			if promptErr != nil {
				return promptErr
			}
			if !ok {
				logger.Info("left existing file unchanged", logging.FieldPath, flags.output)
				return nil
			}
		}
		backup, backupErr := fsutil.CreateBackup(ctx, path)
		if backupErr != nil {
			return withExit(ExitIOError, backupErr)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output, logging.FieldBackup, backup)
	case !errors.Is(err, os.ErrNotExist):
		return withExit(ExitIOError, fmt.Errorf("stat %s: %w", flags.output, err))
	}

	content := config.GenerateTemplate(config.TemplateOptions{Full: flags.full, Codes: codeInfos()})
	if len(content) > 0 && content[len(content)-1] != '\n' {
		content = append(content, '\n')
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, content, configFilePermissions)
	if err != nil {
		return withExit(ExitIOError, err)
	}
	if !written {
		logger.Info("configuration file already up to date", logging.FieldPath, flags.output)
		return nil
	}

	logger.Info("wrote configuration file", logging.FieldPath, flags.output)
	logger.Info("run 'gorazor codes' to list the diagnostic codes")
	return nil
}

func codeInfos() []config.CodeInfo {
	descriptors := diag.DefaultCatalog.Descriptors()
	infos := make([]config.CodeInfo, 0, len(descriptors))
	for _, d := range descriptors {
		infos = append(infos, config.CodeInfo{
			Code:     d.Code,
			Severity: config.Severity(d.Severity),
			Message:  d.Summary(),
		})
	}
	return infos
}

// confirmOverwrite asks before replacing name. Without a terminal on both
// ends there is nobody to ask and the overwrite is refused.
func confirmOverwrite(cmd *cobra.Command, name string) (bool, error) {
	if !isTerminal(cmd.InOrStdin()) || !isTerminal(cmd.OutOrStdout()) {
		return false, withExit(ExitInvalidUsage, fmt.Errorf("%w: %s (use --force to overwrite)", errConfigExists, name))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s already exists. Overwrite? [y/N] ", name)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, withExit(ExitIOError, fmt.Errorf("read answer: %w", err))
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
