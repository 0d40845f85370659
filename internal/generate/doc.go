// SPDX-License-Identifier: MPL-2.0

// Package generate turns discovered Blueprint sources into embeddable
// artifacts: a single compiled string, or a catalog of every source under a
// directory rendered as Go source or as a catalog data file.
//
// Single-file generation fails fast. Catalog generation keeps going past
// per-file compile errors so every broken file is reported at once, but it
// never returns a partial catalog.
package generate
