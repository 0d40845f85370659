// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blpembed/blpembed/internal/generate"
	"github.com/blpembed/blpembed/internal/watch"
)

type catalogFlagValues struct {
	format   string
	output   string
	pkg      string
	varName  string
	prefix   string
	watch    bool
	debounce time.Duration
}

func newCatalogCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &catalogFlagValues{}
	formats := make([]string, 0, len(generate.OutputFormats()))
	for _, f := range generate.OutputFormats() {
		formats = append(formats, f.String())
	}

	cmd := &cobra.Command{
		Use:   "catalog [dir]",
		Short: "Compile every blueprint under a directory into a catalog",
		Long: `Discover every blueprint under dir (default: the project root), compile
each one, and emit a catalog mapping source paths to compiled XML.

Keys are forward-slash paths relative to the project root. The .git and target
directories are skipped, plus any configured in discovery.exclude_dirs.
If any blueprint fails to compile, every failure is reported and nothing is
written.

The go format declares one constant per blueprint plus a catalog variable, so
code referencing a blueprint that no longer exists fails to build.`,
		Example: `  blpembed catalog ui --package ui -o ui/blueprints.go
  blpembed catalog --format json -o blueprints.json
  blpembed catalog ui -o ui/blueprints.go --watch`,
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runCatalog(cmd, app, rootFlags, flags, dir)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "", "output format: "+strings.Join(formats, ", ")+" (default from output.format)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().StringVar(&flags.pkg, "package", "", "package of the generated Go file (default from output.package)")
	cmd.Flags().StringVar(&flags.varName, "var", "", "name of the catalog variable (default from output.var_name)")
	cmd.Flags().StringVar(&flags.prefix, "prefix", "", "prefix of per-blueprint constant names (default from output.prefix)")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "rebuild whenever a blueprint changes")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", watch.DefaultDebounce, "quiet period before a rebuild in watch mode")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(formats, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func runCatalog(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, flags *catalogFlagValues, dir string) error {
	ctx := cmd.Context()
	s, err := app.Open(ctx, rootFlags)
	if err != nil {
		return err
	}

	format := s.Config.Output.Format
	if flags.format != "" {
		if format, err = generate.ParseOutputFormat(flags.format); err != nil {
			return &usageError{err: err}
		}
	}
	file := s.Config.CatalogFile()
	if flags.pkg != "" {
		file.Package = flags.pkg
	}
	if flags.varName != "" {
		file.VarName = flags.varName
	}
	if flags.prefix != "" {
		file.Prefix = flags.prefix
	}

	gen, err := s.Generator()
	if err != nil {
		return err
	}

	build := func(ctx context.Context) error {
		c, err := gen.Catalog(ctx, dir)
		if err != nil {
			return actionable(err, "build catalog", dir)
		}
		data, err := generate.RenderCatalog(c, format, file)
		if err != nil {
			return err
		}
		if err := writeOutput(cmd.OutOrStdout(), flags.output, data); err != nil {
			return err
		}
		if flags.output != "" {
			printSuccess(cmd.ErrOrStderr(), "%d blueprints → %s", c.Len(), flags.output)
		}
		return nil
	}

	if !flags.watch {
		return build(ctx)
	}
	if flags.output == "" || flags.output == "-" {
		return &usageError{err: fmt.Errorf("--watch requires --output")}
	}
	return watchCatalog(ctx, app, s, flags, dir, build)
}

// watchCatalog builds once, then rebuilds on every blueprint change until the
// context is cancelled. Build failures are reported and watching continues.
func watchCatalog(ctx context.Context, app *App, s *Session, flags *catalogFlagValues, dir string, build func(context.Context) error) error {
	if err := build(ctx); err != nil {
		renderError(app.stderr, err, app.verbose, app.colorScheme)
	}

	w, err := watch.New(watch.Config{
		Root:        s.resolve(dir),
		Patterns:    []string{"**/*" + s.Config.Discovery.Suffix},
		ExcludeDirs: s.Config.Discovery.ExcludeDirs,
		Ignore:      s.Config.Discovery.Ignore,
		Debounce:    flags.debounce,
		Logger:      s.Logger,
		OnChange: func(ctx context.Context, changed []string) error {
			s.Logger.Info("rebuilding catalog", "changed", changed)
			if err := build(ctx); err != nil {
				renderError(app.stderr, err, app.verbose, app.colorScheme)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(app.stderr, SubtitleStyle.Render("Watching "+filepath.ToSlash(w.Root())+" for blueprint changes. Press Ctrl+C to stop."))
	return w.Run(ctx)
}
