// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blpembed/blpembed/internal/compiler"
)

var (
	// ErrCatalogFailed is the sentinel error wrapped by AggregateCompileError.
	ErrCatalogFailed = errors.New("catalog generation failed")
	// ErrSourceNotFound is the sentinel error wrapped by SourceNotFoundError.
	ErrSourceNotFound = errors.New("blueprint source not found")
	// ErrInvalidIdentifier is returned when a package, constant or variable
	// name is not a valid Go identifier.
	ErrInvalidIdentifier = errors.New("invalid Go identifier")
)

type (
	// FileFailure is one source that failed to compile during catalog generation.
	FileFailure struct {
		// Key is the normalized catalog key of the source.
		Key string
		Err *compiler.CompileError
	}

	// AggregateCompileError lists every source that failed to compile in one
	// catalog run, in discovery order.
	AggregateCompileError struct {
		Failures []FileFailure
	}

	// SourceNotFoundError is returned by CheckSource when the requested source
	// does not exist on disk. It is distinct from catalog.KeyNotFoundError,
	// which means the source exists but is not in the catalog.
	SourceNotFoundError struct {
		Key  string
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *AggregateCompileError) Error() string {
	var b strings.Builder
	if len(e.Failures) == 1 {
		b.WriteString("1 blueprint failed to compile")
	} else {
		fmt.Fprintf(&b, "%d blueprints failed to compile", len(e.Failures))
	}
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "\n\n%s", f.Key)
		if f.Err.Exited {
			fmt.Fprintf(&b, " (exit code %s)", f.Err.ExitCode)
		}
		b.WriteString(":")
		if diag := f.Err.Diagnostic(); diag != "" {
			b.WriteString("\n" + diag)
		}
	}
	return b.String()
}

// Unwrap returns ErrCatalogFailed followed by every per-file error, so
// errors.Is(err, compiler.ErrCompile) holds.
func (e *AggregateCompileError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrCatalogFailed)
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// Keys returns the keys of the failing sources.
func (e *AggregateCompileError) Keys() []string {
	keys := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		keys[i] = f.Key
	}
	return keys
}

// Error implements the error interface.
func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("blueprint source %q does not exist (%s)", e.Key, e.Path)
}

// Unwrap returns ErrSourceNotFound and the underlying cause, if any.
func (e *SourceNotFoundError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSourceNotFound}
	}
	return []error{ErrSourceNotFound, e.Err}
}
