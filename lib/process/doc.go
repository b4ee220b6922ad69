// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the binary entrypoint error handler for
// bundleviz. It covers the one raw I/O pattern that exists outside the
// structured logger: reporting an error from run() to stderr and
// exiting, when the logger may not be initialized.
//
// Errors that carry an exit code (any error with an ExitCode() int
// method, such as the CLI's ExitError) exit with that code; everything
// else exits 1.
package process
