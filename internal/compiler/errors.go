// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotApplicable signals that a strategy could not be resolved (the
	// executable does not exist) and the next strategy should be tried.
	ErrNotApplicable = errors.New("compiler strategy not applicable")
	// ErrToolNotFound is the sentinel error wrapped by ToolNotFoundError.
	ErrToolNotFound = errors.New("blueprint-compiler not found")
	// ErrInvocation is the sentinel error wrapped by InvocationError.
	ErrInvocation = errors.New("compiler invocation failed")
	// ErrCompile is the sentinel error wrapped by CompileError.
	ErrCompile = errors.New("blueprint compilation failed")
	// ErrInvalidOutput is returned when the compiler writes non UTF-8 text to stdout.
	ErrInvalidOutput = errors.New("compiler output is not valid UTF-8")
)

type (
	// ToolNotFoundError is returned when no strategy could be resolved.
	ToolNotFoundError struct {
		// Tried lists every strategy that was attempted, in order.
		Tried []string
	}

	// InvocationError is returned when a resolved compiler could not be run for
	// a reason other than not being found (permission denied, timeout, bad output).
	InvocationError struct {
		Command string
		Err     error
	}

	// CompileError is returned when the compiler ran and reported failure.
	// blueprint-compiler prints source errors on stdout (exit code 1) and
	// environment errors on stderr, so both streams are kept.
	CompileError struct {
		Source   string
		ExitCode ExitCode
		// Exited is false when the process was terminated by a signal and no
		// exit code is available.
		Exited bool
		Stdout string
		Stderr string
	}
)

// Error implements the error interface.
func (e *ToolNotFoundError) Error() string {
	var msg strings.Builder
	msg.WriteString("blueprint-compiler not found. Make sure it is in $PATH or ./blueprint-compiler/blueprint-compiler.py")
	if len(e.Tried) > 0 {
		msg.WriteString(" (tried: ")
		msg.WriteString(strings.Join(e.Tried, ", "))
		msg.WriteString(")")
	}
	return msg.String()
}

// Unwrap returns ErrToolNotFound.
func (e *ToolNotFoundError) Unwrap() error { return ErrToolNotFound }

// Error implements the error interface.
func (e *InvocationError) Error() string {
	return fmt.Sprintf("unknown error occurred while invoking compiler %s:\n%v", e.Command, e.Err)
}

// Unwrap returns both ErrInvocation and the underlying cause.
func (e *InvocationError) Unwrap() []error { return []error{ErrInvocation, e.Err} }

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Exited {
		return fmt.Sprintf("blueprint-compiler exit code: %s\n%s\n%s", e.ExitCode, e.Stdout, e.Stderr)
	}
	return fmt.Sprintf("%s\n%s", e.Stdout, e.Stderr)
}

// Unwrap returns ErrCompile.
func (e *CompileError) Unwrap() error { return ErrCompile }

// Diagnostic returns the compiler's own messages without the exit code
// header, trimmed of surrounding blank lines.
func (e *CompileError) Diagnostic() string {
	parts := make([]string, 0, 2)
	for _, s := range []string{e.Stdout, e.Stderr} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// IsToolNotFound reports whether err means no compiler could be located.
func IsToolNotFound(err error) bool { return errors.Is(err, ErrToolNotFound) }

// IsCompileError reports whether err is a per-file compile failure.
func IsCompileError(err error) bool { return errors.Is(err, ErrCompile) }
