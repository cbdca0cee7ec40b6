package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gorazor/internal/configloader"
	"github.com/yaklabco/gorazor/internal/logging"
	"github.com/yaklabco/gorazor/pkg/check"
	"github.com/yaklabco/gorazor/pkg/config"
)

// engineFlags are the flags shared by every command that runs the checker.
type engineFlags struct {
	designTime  bool
	hints       bool
	descriptors []string
}

func addEngineFlags(cmd *cobra.Command, flags *engineFlags) {
	cmd.Flags().BoolVar(&flags.designTime, "design-time", false, "parse the way an editor does")
	cmd.Flags().BoolVar(&flags.hints, "hints", false, "report the detected language of script bodies")
	cmd.Flags().StringSliceVar(&flags.descriptors, "descriptors", nil,
		"additional tag helper catalogue files")
}

// commandContext returns the command's context, which carries the logger.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return logging.WithLogger(context.Background(), logging.Default())
}

// loadConfig resolves the configuration for cmd with cli layered on top.
// Load errors carry ExitConfigError.
func loadConfig(cmd *cobra.Command, workDir string, cli *config.Config) (*config.Config, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cli,
	})
	if err != nil {
		return nil, withExit(ExitConfigError, fmt.Errorf("load configuration: %w", err))
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldPaths, result.LoadedFrom)
	}

	cfg := result.Config
	if logger.GetLevel() <= log.DebugLevel {
		if data, err := cfg.ToYAML(); err == nil {
			logger.Debug("configuration resolved", logging.FieldConfig, string(data))
		}
	}
	return cfg, nil
}

// checkerOptions loads the configuration, applies the engine flags and
// builds checker options from it.
func checkerOptions(cmd *cobra.Command, workDir string, flags *engineFlags, cli *config.Config) (check.Options, *config.Config, error) {
	if cli == nil {
		cli = &config.Config{}
	}
	cli.DesignTime = flags.designTime
	cli.Hints = flags.hints

	cfg, err := loadConfig(cmd, workDir, cli)
	if err != nil {
		return check.Options{}, nil, err
	}
	cfg.Descriptors = append(cfg.Descriptors, flags.descriptors...)

	reg, err := check.LoadRegistry(cfg.Descriptors)
	if err != nil {
		return check.Options{}, nil, withExit(ExitConfigError, fmt.Errorf("load tag helper catalogues: %w", err))
	}

	opts, err := check.OptionsFromConfig(cfg, reg)
	if err != nil {
		return check.Options{}, nil, withExit(ExitConfigError, err)
	}
	return opts, cfg, nil
}

func workingDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", withExit(ExitIOError, fmt.Errorf("get working directory: %w", err))
	}
	return wd, nil
}
