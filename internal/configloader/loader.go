// Package configloader resolves the effective configuration from defaults,
// config files, environment variables and CLI flags.
package configloader

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/yaklabco/gosyntax/pkg/config"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// ProjectConfigName is the file written by WriteProjectConfig.
const ProjectConfigName = ".gosyntax.yaml"

// configHeader is prepended to generated config files.
const configHeader = `# gosyntax configuration
# Values shown are the defaults.`

// CLIFlags carries flag values. Empty strings leave the config unchanged.
type CLIFlags struct {
	Flavor     string
	Color      string
	Format     string
	StoreLevel string
}

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// Flags holds CLI flag values, applied last.
	Flags CLIFlags
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.Flags)
//  2. Environment variables (GOSYNTAX_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.gosyntax.yaml upward search)
//  5. User config ($XDG_CONFIG_HOME/gosyntax/config.yaml)
//  6. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	layers := []struct {
		name string
		path string
		skip bool
	}{
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, false},
	}
	for _, layer := range layers {
		if layer.skip || layer.path == "" {
			continue
		}
		if err := mergeFile(cfg, layer.path); err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	applyFlags(cfg, opts.Flags)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	result.Config = cfg
	return result, nil
}

func mergeFile(cfg *config.Config, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if err := cfg.MergeYAML(content); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func applyFlags(cfg *config.Config, flags CLIFlags) {
	if flags.Flavor != "" {
		cfg.Flavor = config.Flavor(flags.Flavor)
	}
	if flags.Color != "" {
		cfg.Color = flags.Color
	}
	if flags.Format != "" {
		cfg.Format = config.OutputFormat(flags.Format)
	}
	if flags.StoreLevel != "" {
		cfg.Store.Level = flags.StoreLevel
	}
}

// WriteProjectConfig writes cfg with a header comment to path.
func WriteProjectConfig(cfg *config.Config, path string) error {
	content, err := cfg.ToYAMLWithHeader(configHeader)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
