// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that fail the test on
// error, reducing boilerplate in fixture setup.
//
// Common helpers cover environment variables (MustSetenv, SetConfigHome) and
// fixture files (MustMkdirAll, WriteFile).
package testutil
