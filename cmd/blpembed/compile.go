// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"path"

	"github.com/spf13/cobra"

	"github.com/blpembed/blpembed/internal/generate"
)

type compileFlagValues struct {
	raw    bool
	pkg    string
	name   string
	output string
}

func newCompileCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &compileFlagValues{}
	cmd := &cobra.Command{
		Use:   "compile <file.blp>",
		Short: "Compile one blueprint into a Go constant",
		Long: `Compile one blueprint with blueprint-compiler.

The path is relative to the project root. By default the compiled XML is
emitted as a Go file declaring a single string constant; --raw prints the
XML itself. Nothing is written when compilation fails.`,
		Example: `  blpembed compile ui/window.blp -o window_ui.go
  blpembed compile ui/window.blp --package views --name WindowUI
  blpembed compile ui/window.blp --raw`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, app, rootFlags, flags, args[0])
		},
	}

	cmd.Flags().BoolVar(&flags.raw, "raw", false, "emit the compiled XML instead of Go source")
	cmd.Flags().StringVar(&flags.pkg, "package", "", "package of the generated file (default from output.package)")
	cmd.Flags().StringVar(&flags.name, "name", "", "name of the generated constant (default derived from the file name, e.g. Window for window.blp)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func runCompile(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, flags *compileFlagValues, source string) error {
	ctx := cmd.Context()
	s, err := app.Open(ctx, rootFlags)
	if err != nil {
		return err
	}
	gen, err := s.Generator()
	if err != nil {
		return err
	}

	key := gen.Key(s.resolve(source))
	xml, err := gen.Single(ctx, key)
	if err != nil {
		return actionable(err, "compile blueprint", key)
	}

	data := []byte(xml)
	if !flags.raw {
		f := generate.ConstFile{
			Package: flags.pkg,
			Name:    flags.name,
			Source:  key,
			XML:     xml,
		}
		if f.Package == "" {
			f.Package = s.Config.Output.Package
		}
		if f.Name == "" {
			f.Name = generate.ConstName("", s.Config.Discovery.Suffix, path.Base(key))
		}
		if data, err = generate.RenderConstFile(f); err != nil {
			return err
		}
	}

	if err := writeOutput(cmd.OutOrStdout(), flags.output, data); err != nil {
		return err
	}
	if flags.output != "" {
		s.Logger.Info("wrote artifact", "source", key, "path", flags.output)
	}
	return nil
}
