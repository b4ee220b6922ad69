// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"fmt"
	"strings"
)

// EnvironmentFailure records why one environment failed.
type EnvironmentFailure struct {
	Name string
	Err  error
}

// PartialError reports that some environments failed while the others
// were processed.
type PartialError struct {
	// Total is the number of environments attempted.
	Total    int
	Failures []EnvironmentFailure
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%d of %d environments failed: %s", len(e.Failures), e.Total, strings.Join(e.Failed(), ", "))
}

// Unwrap returns the individual environment errors.
func (e *PartialError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for index, failure := range e.Failures {
		errs[index] = failure.Err
	}
	return errs
}

// Failed returns the names of the failed environments.
func (e *PartialError) Failed() []string {
	names := make([]string, len(e.Failures))
	for index, failure := range e.Failures {
		names[index] = failure.Name
	}
	return names
}
