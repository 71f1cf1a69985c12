// SPDX-License-Identifier: MPL-2.0

// Package config handles lbrun configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/lbrun/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/lbrun/config.cue on macOS, %APPDATA%\lbrun\config.cue
// on Windows), falling back to ./config.cue and then to built-in defaults. Files are
// validated against the embedded CUE schema (config_schema.cue).
//
// Environment variables never override configuration: the evaluator inputs are read
// from the environment by package launch, and the record directory is deliberately
// only configurable here.
package config
