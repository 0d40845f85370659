// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema
// definition and decodes them into Go values, with errors reported as
// "<file>: <json-path>: <message>".
package cueutil
