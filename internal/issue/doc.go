// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown help
// pages for the failures blpembed users run into: a missing or broken
// blueprint-compiler, sources that do not compile, unreadable project trees,
// catalog misses and bad configuration.
package issue
