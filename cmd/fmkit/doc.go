// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for fmkit.
//
// Every command is built by a newXCommand(app) factory and receives the App
// composition root, which owns the configuration provider and the output
// streams. Model files are read through pkg/fmparser; failures are surfaced as
// issue.ActionableError values and mapped to process exit codes by ExitError.
package cmd
