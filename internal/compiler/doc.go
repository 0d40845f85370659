// SPDX-License-Identifier: MPL-2.0

// Package compiler locates and runs the external blueprint-compiler.
//
// The compiler is treated as a black box invoked as `<compiler> compile <path>`.
// An Invoker tries an ordered list of strategies (normally Candidates, one per
// place the tool may be installed) and stops at the first one that applies.
// A strategy that cannot be found reports ErrNotApplicable so the next one is
// tried; any other failure ends the search.
package compiler
