// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/blpembed/blpembed/internal/compiler"
	"github.com/blpembed/blpembed/internal/config"
	"github.com/blpembed/blpembed/internal/discovery"
	"github.com/blpembed/blpembed/internal/generate"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires CLI services. Every command handler receives the App and
	// resolves its Session through it.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer

		// verbose and colorScheme are set once a Session is opened and are read
		// by the error handler after the command returns.
		verbose     bool
		colorScheme config.ColorScheme
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// Session is the state of one command invocation: the resolved project
	// root, the loaded configuration and the logger.
	Session struct {
		Root   string
		Config *config.Config
		Logger *slog.Logger
	}

	rootFlagValues struct {
		verbose    bool
		configPath string
		root       string
	}
)

// NewApp creates an App from deps.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:      deps.Config,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		colorScheme: config.ColorSchemeAuto,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// Open resolves the project root, loads its configuration and installs the
// logger. The --verbose flag and ui.verbose both enable debug logging.
func (a *App) Open(ctx context.Context, flags *rootFlagValues) (*Session, error) {
	a.verbose = flags.verbose

	root := flags.root
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	if info, statErr := os.Stat(root); statErr != nil {
		return nil, &usageError{err: fmt.Errorf("project root: %w", statErr)}
	} else if !info.IsDir() {
		return nil, &usageError{err: fmt.Errorf("project root %s is not a directory", root)}
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configPath,
		ProjectRoot:    root,
	})
	if err != nil {
		return nil, err
	}

	a.verbose = flags.verbose || cfg.UI.Verbose
	a.colorScheme = cfg.UI.ColorScheme
	logger := newLogger(a.stderr, a.verbose)
	slog.SetDefault(logger)

	if cfg.Path != "" {
		logger.Debug("loaded configuration", "path", cfg.Path)
	}
	return &Session{Root: root, Config: cfg, Logger: logger}, nil
}

// Discoverer builds the source discoverer configured for the session.
func (s *Session) Discoverer() (*discovery.Discoverer, error) {
	return discovery.New(s.Config.Discovery.Options())
}

// Generator builds an artifact generator whose compiler follows the
// configured candidates and timeout.
func (s *Session) Generator() (*generate.Generator, error) {
	opts, err := s.Config.Compiler.InvokerOptions()
	if err != nil {
		return nil, err
	}
	invoker := compiler.NewInvoker(s.Root, append(opts, compiler.WithLogger(s.Logger))...)
	s.Logger.Debug("compiler candidates", "strategies", invoker.Strategies())

	disc, err := s.Discoverer()
	if err != nil {
		return nil, err
	}
	return generate.New(s.Root, invoker,
		generate.WithDiscoverer(disc),
		generate.WithLogger(s.Logger),
	)
}

// resolve interprets a path argument relative to the project root.
func (s *Session) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(s.Root, path)
}
