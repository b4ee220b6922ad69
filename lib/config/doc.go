// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for bundleviz.
//
// The tool configuration is optional. When present it is loaded from a
// single file named by either the BUNDLEVIZ_CONFIG environment
// variable (via [Load]) or a --config flag (via [LoadFile]). There is
// no ~/.config discovery and no automatic file search. Without a file,
// [Default] supplies every value and the command line overrides it.
//
// The file may define named profiles under "profiles". The profile
// selected by the top-level "profile" key is applied over the base
// values after loading; empty fields in a profile leave the base value
// alone. Selecting a profile that is not defined is an error.
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. No other
// environment variables override config values.
//
// Key exports:
//
//   - [Config] -- diagram type, output path, timeout, renderer binaries
//   - [Default] -- returns a Config with built-in defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.BinaryPath] -- renderer binary lookup (Bin, then PATH)
//
// This package depends on no other bundleviz packages.
package config
