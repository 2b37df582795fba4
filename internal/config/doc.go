// SPDX-License-Identifier: MPL-2.0

// Package config handles fmkit configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/fmkit/config.cue (or $XDG_CONFIG_HOME on Linux,
// ~/Library/Application Support/fmkit/config.cue on macOS, %APPDATA%\fmkit\config.cue
// on Windows). Files are validated against the embedded config_schema.cue before
// being merged over the built-in defaults.
package config
