// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/blpembed/blpembed/internal/compiler"
	"github.com/blpembed/blpembed/internal/config"
	"github.com/blpembed/blpembed/internal/generate"
	"github.com/blpembed/blpembed/internal/issue"
	"github.com/blpembed/blpembed/pkg/catalog"
)

// Process exit codes.
const (
	ExitOK = 0
	// ExitFailure covers compile failures and anything unclassified.
	ExitFailure = 1
	// ExitUsage covers bad flags, arguments and configuration.
	ExitUsage = 2
	// ExitEnvironment means the compiler could not be found or started.
	ExitEnvironment = 3
	// ExitNotFound means a catalog key or a source file does not exist.
	ExitNotFound = 4
)

type (
	// ExitError signals a specific exit code without forcing os.Exit in
	// RunE handlers.
	ExitError struct {
		Code int
		Err  error
	}

	// usageError marks command line mistakes.
	usageError struct {
		err error
	}
)

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

// exitCodeFor classifies err. An explicit *ExitError wins over the kind of
// the wrapped error.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var usage *usageError
	switch {
	case errors.As(err, &usage),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, catalog.ErrUnknownFormat),
		errors.Is(err, generate.ErrUnknownOutputFormat),
		errors.Is(err, generate.ErrInvalidIdentifier):
		return ExitUsage
	case errors.Is(err, catalog.ErrKeyNotFound),
		errors.Is(err, generate.ErrSourceNotFound):
		return ExitNotFound
	case compiler.IsToolNotFound(err),
		errors.Is(err, compiler.ErrInvocation):
		return ExitEnvironment
	}

	if ae, ok := issue.Lookup(err); ok && ae.Issue == issue.ConfigLoadFailedId {
		return ExitUsage
	}
	return ExitFailure
}
