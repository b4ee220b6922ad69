// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for bundleviz packages.
//
// [WriteFile] and [WriteBundle] lay out bundle fixtures (a root
// document plus resource fragments) under a test's temporary
// directory. [WriteScript] writes an executable shell script, used to
// stand in for the external diagram renderers so that renderer tests
// do not depend on plantuml or mmdc being installed. [Logger] returns
// a debug-level slog.Logger that writes to a buffer the test can
// inspect.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no bundleviz-internal dependencies.
package testutil
