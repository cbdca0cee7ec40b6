// Package configloader resolves the gorazor configuration. It implements
// XDG-style discovery, layered merging, GORAZOR_ environment variables and
// validation.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/gorazor/internal/logging"
	"github.com/yaklabco/gorazor/pkg/config"
)

// LoadOptions selects the layers Load reads. WorkingDir defaults to the
// process working directory; CLIConfig holds flag values and wins over
// every other layer.
type LoadOptions struct {
	WorkingDir   string
	ExplicitPath string

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	CLIConfig *config.Config
}

// LoadResult is the merged configuration with the files it came from, in
// load order, and any non-fatal validation warnings.
type LoadResult struct {
	Config     *config.Config
	Paths      *ConfigPaths
	LoadedFrom []string
	Warnings   []string
}

type layer struct {
	name string
	path string
}

// fileLayers returns the file layers to read, lowest precedence first.
func (o LoadOptions) fileLayers(paths *ConfigPaths) []layer {
	var layers []layer
	add := func(name, path string, ignored bool) {
		if !ignored && path != "" {
			layers = append(layers, layer{name: name, path: path})
		}
	}
	add("system", paths.System, o.IgnoreSystemConfig)
	add("user", paths.User, o.IgnoreUserConfig)
	add("project", paths.Project, o.IgnoreProjectConfig)
	add("explicit", paths.Explicit, false)
	return layers
}

// Load merges defaults, then the system, user, project and explicit files,
// then GORAZOR_ variables, then opts.CLIConfig. Each file is validated on
// its own so errors name the file; the first error aborts the load.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	logger := logging.FromContext(ctx)

	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, err
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	for _, l := range opts.fileLayers(paths) {
		layerCfg, err := readLayer(l)
		if err != nil {
			return nil, err
		}
		validation := ValidateWithFile(layerCfg, l.path)
		if !validation.Valid() {
			return nil, &validation.Errors[0]
		}
		for _, w := range validation.Warnings {
			result.Warnings = append(result.Warnings, w.Error())
		}

		cfg = merge(cfg, layerCfg)
		result.LoadedFrom = append(result.LoadedFrom, l.path)
		logger.Debug("loaded config layer", logging.FieldLayer, l.name, logging.FieldPath, l.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}
	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	// Only enable/disable warnings are new here; the rest were reported
	// per file.
	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		if w.Field == "enable" || w.Field == "disable" {
			result.Warnings = append(result.Warnings, w.Error())
		}
	}

	result.Config = cfg
	return result, nil
}

func readLayer(l layer) (*config.Config, error) {
	content, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("load %s config: %w", l.name, err)
	}
	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, fmt.Errorf("load %s config: %s: %w", l.name, l.path, err)
	}
	return cfg, nil
}
