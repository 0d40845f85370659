// SPDX-License-Identifier: MPL-2.0

// Package catalog holds compiled Blueprint output keyed by source path.
//
// A Catalog is built once by the generator and never mutated afterwards.
// Programs that embed a generated catalog import this package to look up
// compiled GtkBuilder XML by the project-relative path of its .blp source.
//
// File organization:
//   - path.go: source path normalization used for catalog keys
//   - catalog.go: Catalog type and the Lookup accessor
//   - codec.go: JSON, TOML and msgpack encodings of a catalog
package catalog
