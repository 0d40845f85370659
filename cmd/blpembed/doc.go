// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the blpembed CLI.
//
// The command tree is built by NewRootCommand around an App, which holds the
// injectable services (configuration provider, output streams) and the
// per-invocation state resolved from the global flags.
package cmd
