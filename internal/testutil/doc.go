// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Besides filesystem helpers (MustChdir, MustMkdirAll, MustWriteFile) it
// provides a fake blueprint-compiler shell script (WriteFakeCompiler) so the
// pipeline can be exercised without the real tool installed.
package testutil
