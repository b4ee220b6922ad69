// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

type exitCoder interface {
	ExitCode() int
}

// Fatal writes "error: err" to stderr and exits. The exit code comes
// from the error when it carries one, otherwise 1. Use it in main()
// for errors from run() where the structured logger may not be
// initialized.
func Fatal(err error) {
	os.Exit(Report(os.Stderr, err))
}

// Report writes "error: err" to w and returns the exit code Fatal
// would use. An error whose message is empty is not printed; commands
// use that to exit non-zero after they have already reported.
func Report(w io.Writer, err error) int {
	if message := err.Error(); message != "" {
		fmt.Fprintf(w, "error: %s\n", message)
	}
	var coder exitCoder
	if errors.As(err, &coder) {
		if code := coder.ExitCode(); code != 0 {
			return code
		}
	}
	return 1
}
