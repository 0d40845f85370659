// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/blpembed/blpembed/internal/cueutil"
	"github.com/blpembed/blpembed/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "blpembed"
	// FileName is the project configuration file looked up in the project root.
	FileName = AppName + ".cue"
	// EnvPrefix prefixes environment overrides: BLPEMBED_COMPILER_TIMEOUT.
	EnvPrefix = "BLPEMBED"
)

// ErrConfigExists is returned by WriteDefault when the file already exists.
var ErrConfigExists = errors.New("configuration file already exists")

//go:embed config_schema.cue
var configSchema string

// loadWithOptions builds a Viper instance over the defaults, merges the
// configuration file (if any) and the environment, and decodes the result.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := resolvePath(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the values match the configuration schema").
				WithSuggestion("Run 'blpembed config show' to see the effective configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("decode configuration").
			WithResource(path).
			WithSuggestion("Check BLPEMBED_* environment variables for malformed values").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Fix the fields listed above").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	return &cfg, nil
}

// resolvePath returns the configuration file to read: the explicit path,
// which must exist, or blpembed.cue in the project root when present.
func resolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'blpembed config init' to create a configuration file").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %w", fs.ErrNotExist)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	candidate := filepath.Join(opts.ProjectRoot, FileName)
	if fileExists(candidate) {
		return candidate, nil
	}
	return "", nil
}

func setDefaults(v *viper.Viper, defaults *Config) {
	v.SetDefault("compiler.candidates", defaults.Compiler.Candidates)
	v.SetDefault("compiler.timeout", defaults.Compiler.Timeout)
	v.SetDefault("discovery.suffix", defaults.Discovery.Suffix)
	v.SetDefault("discovery.exclude_dirs", defaults.Discovery.ExcludeDirs)
	v.SetDefault("discovery.ignore", defaults.Discovery.Ignore)
	v.SetDefault("output.package", defaults.Output.Package)
	v.SetDefault("output.var_name", defaults.Output.VarName)
	v.SetDefault("output.prefix", defaults.Output.Prefix)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into
// Viper, keeping defaults for unset fields and letting the environment
// override it.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.Decode[map[string]any](configSchema, data, "#Config", cueutil.WithFilename(path))
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteDefault writes the default configuration to blpembed.cue in root and
// returns its path. An existing file is only replaced when force is set.
func WriteDefault(root string, force bool) (string, error) {
	path := filepath.Join(root, FileName)
	if !force && fileExists(path) {
		return "", fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// GenerateCUE renders cfg as a blpembed.cue document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// blpembed configuration\n")
	sb.WriteString("// Environment variables override these values, e.g. BLPEMBED_COMPILER_TIMEOUT=30s.\n\n")

	sb.WriteString("compiler: {\n")
	sb.WriteString("\t// Tried in order; the first one that can be started is used.\n")
	sb.WriteString("\tcandidates: [\n")
	for _, c := range cfg.Compiler.Candidates {
		fmt.Fprintf(&sb, "\t\t{command: %q", c.Command)
		if c.Args != nil {
			fmt.Fprintf(&sb, ", args: %s", cueList(c.Args))
		}
		if c.ProjectRelative {
			sb.WriteString(", project_relative: true")
		}
		sb.WriteString("},\n")
	}
	sb.WriteString("\t]\n")
	fmt.Fprintf(&sb, "\ttimeout: %q\n", durationString(cfg))
	sb.WriteString("}\n")

	sb.WriteString("\ndiscovery: {\n")
	fmt.Fprintf(&sb, "\tsuffix:       %q\n", cfg.Discovery.Suffix)
	fmt.Fprintf(&sb, "\texclude_dirs: %s\n", cueList(cfg.Discovery.ExcludeDirs))
	fmt.Fprintf(&sb, "\tignore:       %s\n", cueList(cfg.Discovery.Ignore))
	sb.WriteString("}\n")

	sb.WriteString("\noutput: {\n")
	fmt.Fprintf(&sb, "\tpackage:  %q\n", cfg.Output.Package)
	fmt.Fprintf(&sb, "\tvar_name: %q\n", cfg.Output.VarName)
	fmt.Fprintf(&sb, "\tprefix:   %q\n", cfg.Output.Prefix)
	fmt.Fprintf(&sb, "\tformat:   %q\n", cfg.Output.Format)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	return sb.String()
}

func durationString(cfg *Config) string {
	if cfg.Compiler.Timeout == 0 {
		return "0"
	}
	return cfg.Compiler.Timeout.String()
}

func cueList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
