// SPDX-License-Identifier: MPL-2.0

package compiler

import "strconv"

// ExitCode is the exit status reported by the compiler process.
// The zero value means success.
type ExitCode int

// IsSyntaxError returns true for the status blueprint-compiler uses when the
// .blp source itself is invalid. Diagnostics for this case are on stdout.
func (c ExitCode) IsSyntaxError() bool { return c == 1 }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
