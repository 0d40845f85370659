// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blpembed/blpembed/internal/generate"
	"github.com/blpembed/blpembed/internal/issue"
	"github.com/blpembed/blpembed/pkg/catalog"
)

func newLookupCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var sourceCheck bool
	cmd := &cobra.Command{
		Use:   "lookup <catalog-file> <key>",
		Short: "Print the compiled XML stored in a catalog file",
		Long: `Print the value stored under key in a catalog written by
'blpembed catalog --format json|toml|msgpack'. The format is taken from the
file extension. The key is normalized the same way catalog keys are, so
"./ui/window.blp" and "ui\window.blp" both find "ui/window.blp".

A missing key is an error; there is no default value.`,
		Example: `  blpembed lookup blueprints.json ui/window.blp
  blpembed lookup blueprints.toml ui/window.blp --source-check`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Open(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}

			key := catalog.Normalize(args[1])
			if sourceCheck {
				if err := generate.CheckSource(s.Root, key); err != nil {
					return actionable(err, "look up blueprint", key)
				}
			}

			c, err := readCatalog(args[0])
			if err != nil {
				return err
			}
			value, err := c.Lookup(key)
			if err != nil {
				return actionable(err, "look up blueprint", args[0])
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), value)
			return err
		},
	}
	cmd.Flags().BoolVar(&sourceCheck, "source-check", false, "fail unless the source file exists under the project root")
	return cmd
}

func readCatalog(path string) (*catalog.Catalog, error) {
	format, err := catalog.FormatFromPath(path)
	if err != nil {
		return nil, &usageError{err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read catalog").
			WithResource(path).
			WithSuggestion("Generate it with 'blpembed catalog --format " + format.String() + " -o " + path + "'").
			Wrap(err).
			BuildError()
	}
	c, err := catalog.Unmarshal(data, format)
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return c, nil
}
