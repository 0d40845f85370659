// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/blpembed/blpembed/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
)

// NewRootCommand builds the blpembed command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Compile GTK Blueprint files into embeddable Go artifacts",
		Long: TitleStyle.Render(config.AppName) + SubtitleStyle.Render(" - compile GTK Blueprint files into embeddable Go artifacts") + `

blpembed runs blueprint-compiler on .blp sources and emits the resulting
GtkBuilder XML as a Go string constant, or as a catalog mapping every source
path under a directory to its compiled XML.

` + SubtitleStyle.Render("Examples:") + `
  blpembed compile ui/window.blp -o window_ui.go
  blpembed catalog ui --package ui -o ui/blueprints.go
  blpembed catalog --format json -o blueprints.json
  blpembed lookup blueprints.json ui/window.blp
  blpembed discover

Use it from go:generate:
  //go:generate go run github.com/blpembed/blpembed catalog --root ../.. -o blueprints.go`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging and detailed errors")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is <root>/"+config.FileName+")")
	rootCmd.PersistentFlags().StringVar(&flags.root, "root", "", "project root that source paths are relative to (default is the working directory)")

	rootCmd.AddCommand(
		newCompileCommand(app, flags),
		newCatalogCommand(app, flags),
		newLookupCommand(app, flags),
		newDiscoverCommand(app, flags),
		newConfigCommand(app, flags),
	)
	return rootCmd
}

// Execute runs the CLI and exits the process with the classified exit code.
// This is called by main.main().
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:]))
}

// Run executes the CLI with args and returns the process exit code.
func Run(ctx context.Context, args []string) int {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)

	opts := []fang.Option{
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			renderError(w, err, app.verbose, app.colorScheme)
		}),
	}
	if Commit != "unknown" {
		opts = append(opts, fang.WithCommit(Commit))
	}
	return exitCodeFor(fang.Execute(ctx, rootCmd, opts...))
}

func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return Version
}

// newLogger returns a slog logger backed by charmbracelet/log. Library
// packages log through slog; only the CLI decides how it looks.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := charmlog.WarnLevel
	if verbose {
		level = charmlog.DebugLevel
	}
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Prefix: config.AppName,
		Level:  level,
	})
	return slog.New(handler)
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	return writeArtifact(path, data)
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, SuccessStyle.Render("✓")+" "+fmt.Sprintf(format, args...))
}
