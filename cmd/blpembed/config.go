// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blpembed/blpembed/internal/config"
	"github.com/blpembed/blpembed/internal/issue"
)

func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage blpembed configuration",
		Long: `Manage blpembed configuration.

Configuration is read from ` + config.FileName + ` in the project root, or from the
file given with --config. Any value can be overridden from the environment
with the ` + config.EnvPrefix + `_ prefix, for example ` + config.EnvPrefix + `_COMPILER_TIMEOUT=30s.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.Open(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			source := SubtitleStyle.Render("(using defaults)")
			if s.Config.Path != "" {
				source = s.Config.Path
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "// %s: %s\n", KeyStyle.Render("Config file"), source)
			fmt.Fprint(w, config.GenerateCUE(s.Config))
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default " + config.FileName + " in the project root",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			root := rootFlags.root
			if root == "" {
				root = "."
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return err
			}
			path, err := config.WriteDefault(root, force)
			if err != nil {
				ec := issue.NewErrorContext().
					WithOperation("create configuration").
					WithResource(filepath.Join(root, config.FileName)).
					Wrap(err)
				if errors.Is(err, config.ErrConfigExists) {
					ec.WithSuggestion("Pass --force to overwrite it")
					return &ExitError{Code: ExitUsage, Err: ec.Build()}
				}
				return ec.BuildError()
			}
			printSuccess(cmd.OutOrStdout(), "Created %s", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}
