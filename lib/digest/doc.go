// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest computes BLAKE3 content digests for the render cache.
//
// A diagram is re-rendered only when its source text changes. The
// renderer records the digest of the source it last rendered next to
// the source file, and compares against it before invoking the
// external renderer again. Digests are 32 bytes, formatted as 64
// lowercase hex characters on disk and in logs.
//
// This package has no bundleviz-internal dependencies.
package digest
