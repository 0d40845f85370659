// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

type (
	// Outcome is the result of compiling one source file: either compiled
	// text (Err == nil) or a failure.
	Outcome struct {
		// Source is the path the compiler was asked to compile.
		Source string
		// Output is the compiled XML when Err is nil.
		Output string
		// Strategy names the strategy that produced the outcome, if any ran.
		Strategy string
		// Err is a *ToolNotFoundError, *InvocationError or *CompileError.
		Err error
	}

	// Invoker compiles sources by trying its strategies in priority order.
	// It holds no per-call state and runs one child process at a time.
	Invoker struct {
		root       string
		strategies []Strategy
		timeout    time.Duration
		logger     *slog.Logger
	}

	// Option configures an Invoker.
	Option func(*Invoker)
)

// OK reports whether compilation succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Result returns the outcome as a value/error pair.
func (o Outcome) Result() (string, error) {
	if o.Err != nil {
		return "", o.Err
	}
	return o.Output, nil
}

// WithCandidates replaces the strategy list with the given candidates.
func WithCandidates(candidates ...Candidate) Option {
	return func(i *Invoker) {
		i.strategies = make([]Strategy, len(candidates))
		for n, c := range candidates {
			i.strategies[n] = c
		}
	}
}

// WithStrategies replaces the strategy list.
func WithStrategies(strategies ...Strategy) Option {
	return func(i *Invoker) {
		i.strategies = strategies
	}
}

// WithTimeout bounds each compiler invocation. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(i *Invoker) {
		i.timeout = d
	}
}

// WithLogger sets the logger used for resolution tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Invoker) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// NewInvoker creates an Invoker rooted at root using DefaultCandidates unless
// overridden by options.
func NewInvoker(root string, opts ...Option) *Invoker {
	i := &Invoker{
		root:   root,
		logger: slog.Default(),
	}
	WithCandidates(DefaultCandidates()...)(i)
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Root returns the project root the invoker runs in.
func (i *Invoker) Root() string { return i.root }

// Strategies returns the descriptions of the configured strategies in order.
func (i *Invoker) Strategies() []string {
	names := make([]string, len(i.strategies))
	for n, s := range i.strategies {
		names[n] = s.String()
	}
	return names
}

// Invoke compiles source with the first strategy that can be resolved.
func (i *Invoker) Invoke(ctx context.Context, source string) Outcome {
	outcome := Outcome{Source: source}
	tried := make([]string, 0, len(i.strategies))

	for _, strategy := range i.strategies {
		output, err := i.run(ctx, strategy, source)
		if errors.Is(err, ErrNotApplicable) {
			i.logger.Debug("compiler candidate not found", "candidate", strategy.String(), "error", err)
			tried = append(tried, strategy.String())
			continue
		}

		outcome.Strategy = strategy.String()
		if err != nil {
			i.logger.Debug("blueprint compilation failed", "source", source, "candidate", outcome.Strategy, "error", err)
			outcome.Err = err
			return outcome
		}

		i.logger.Debug("compiled blueprint", "source", source, "candidate", outcome.Strategy, "bytes", len(output))
		outcome.Output = output
		return outcome
	}

	outcome.Err = &ToolNotFoundError{Tried: tried}
	return outcome
}

// Compile is Invoke returning a value/error pair.
func (i *Invoker) Compile(ctx context.Context, source string) (string, error) {
	return i.Invoke(ctx, source).Result()
}

func (i *Invoker) run(ctx context.Context, strategy Strategy, source string) (string, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}
	return strategy.Compile(ctx, Request{Root: i.root, Source: source})
}
