// SPDX-License-Identifier: MPL-2.0

// Package discovery finds Blueprint sources in a project tree.
//
// Discovery is a depth-first walk from a start directory. Version-control
// metadata and build-output directories are never entered. Entries that
// cannot be decoded or inspected are skipped and reported as diagnostics
// instead of failing the walk; an unreadable directory is fatal.
//
// File organization:
//   - discovery.go: Options, Discoverer and DiscoveryError
//   - discovery_files.go: the directory walk
//   - diagnostic.go: non-fatal diagnostics for skipped entries
package discovery
