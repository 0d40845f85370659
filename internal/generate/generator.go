// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/blpembed/blpembed/internal/compiler"
	"github.com/blpembed/blpembed/internal/discovery"
	"github.com/blpembed/blpembed/pkg/catalog"
)

type (
	// Compiler compiles one source path, relative to the project root or absolute.
	// *compiler.Invoker satisfies it.
	Compiler interface {
		Invoke(ctx context.Context, source string) compiler.Outcome
	}

	// Generator produces artifacts for one project root.
	Generator struct {
		root       string
		compiler   Compiler
		discoverer *discovery.Discoverer
		logger     *slog.Logger
	}

	// Option configures a Generator.
	Option func(*Generator)
)

// WithDiscoverer sets the discoverer used in catalog mode.
func WithDiscoverer(d *discovery.Discoverer) Option {
	return func(g *Generator) {
		if d != nil {
			g.discoverer = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a Generator for root. Without WithDiscoverer the default
// discovery options are used.
func New(root string, c Compiler, opts ...Option) (*Generator, error) {
	g := &Generator{
		root:     root,
		compiler: c,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.discoverer == nil {
		d, err := discovery.New(discovery.DefaultOptions())
		if err != nil {
			return nil, err
		}
		g.discoverer = d
	}
	return g, nil
}

// Root returns the project root.
func (g *Generator) Root() string { return g.root }

// Single compiles one source and returns the compiled text verbatim.
// Any failure is returned unchanged.
func (g *Generator) Single(ctx context.Context, source string) (string, error) {
	return g.compiler.Invoke(ctx, source).Result()
}

// Catalog compiles every source discovered under start. A relative start is
// resolved against the project root.
//
// Compile errors are collected into an *AggregateCompileError; a missing
// compiler, an invocation failure or a discovery failure is returned
// immediately. No catalog is returned unless every source compiled.
func (g *Generator) Catalog(ctx context.Context, start string) (*catalog.Catalog, error) {
	if !filepath.IsAbs(start) {
		start = filepath.Join(g.root, start)
	}

	paths, err := g.discoverer.Discover(start)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("discovered blueprints", "start", start, "count", len(paths))

	entries := make([]catalog.Entry, 0, len(paths))
	var failures []FileFailure

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		key := g.Key(path)
		outcome := g.compiler.Invoke(ctx, key)
		if outcome.OK() {
			entries = append(entries, catalog.Entry{Key: key, Value: outcome.Output})
			continue
		}

		var compileErr *compiler.CompileError
		if !errors.As(outcome.Err, &compileErr) {
			return nil, outcome.Err
		}
		g.logger.Warn("blueprint failed to compile", "source", key)
		failures = append(failures, FileFailure{Key: key, Err: compileErr})
	}

	if len(failures) > 0 {
		return nil, &AggregateCompileError{Failures: failures}
	}

	c, err := catalog.New(entries...)
	if err != nil {
		return nil, fmt.Errorf("assembling catalog: %w", err)
	}
	g.logger.Info("compiled catalog", "entries", c.Len())
	return c, nil
}

// Key returns the catalog key for a discovered path: relative to the project
// root when the path lies under it, then normalized.
func (g *Generator) Key(path string) string {
	if rel, ok := relativeUnder(g.root, path); ok {
		path = rel
	}
	return catalog.Normalize(path)
}

func relativeUnder(root, path string) (string, bool) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
