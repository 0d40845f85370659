// SPDX-License-Identifier: MPL-2.0

// Package config loads blpembed's project configuration using Viper with CUE
// as the file format.
//
// Configuration is read from blpembed.cue in the project root (or the file
// given with --config), validated against an embedded CUE schema
// (config_schema.cue), merged over the built-in defaults, and finally
// overridden by BLPEMBED_* environment variables such as
// BLPEMBED_COMPILER_TIMEOUT=30s or BLPEMBED_OUTPUT_PACKAGE=views.
package config
