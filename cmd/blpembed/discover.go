// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDiscoverCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "discover [dir]",
		Short: "List the blueprints a catalog would contain",
		Long: `List every blueprint under dir (default: the project root) as the
catalog key it would get, in catalog order. Nothing is compiled.`,
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Open(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			disc, err := s.Discoverer()
			if err != nil {
				return err
			}
			gen, err := s.Generator()
			if err != nil {
				return err
			}
			res, err := disc.DiscoverWithDiagnostics(s.resolve(dir))
			if err != nil {
				return actionable(err, "discover blueprints", dir)
			}
			for _, diag := range res.Diagnostics {
				s.Logger.Warn(diag.Message, "code", string(diag.Code))
			}

			for _, path := range res.Paths {
				fmt.Fprintln(cmd.OutOrStdout(), gen.Key(path))
			}
			s.Logger.Debug("discovery finished", "sources", len(res.Paths), "skipped", len(res.Diagnostics))
			return nil
		},
	}
}
