// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

// ExitError signals a non-zero exit code without printing an extra
// error message. When a command handler returns an ExitError, main
// exits with the specified code without printing anything: the command
// is expected to have already written its own output.
//
// render returns one when some environments failed after the rest were
// rendered and summarized; validate returns one when the bundle has
// problems it has already listed.
type ExitError struct {
	Code int
}

// Error returns an empty message so that process.Report prints
// nothing for it.
func (e *ExitError) Error() string {
	return ""
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}
