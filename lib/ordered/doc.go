// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ordered provides an insertion-ordered mapping and the generic
// value tree used to hold bundle documents without a fixed schema.
//
// Bundle documents are read from YAML (or JSONC) and their key order is
// observable: targets are processed in declaration order, jobs and tasks
// appear in diagrams in the order they were written, and a duplicate
// resource key keeps the position of its first occurrence. Go maps lose
// that order, so every mapping in a decoded document is a [*Map].
//
// A value in the tree is one of:
//
//   - nil
//   - bool
//   - int64 or float64
//   - string
//   - []any (elements are values)
//   - *Map (values are values)
//
// [Decode] turns YAML or JSON text into a value, [Clone] deep-copies a
// value, [Map.MarshalJSON] and [Map.MarshalYAML] serialize in key order,
// and [Plain] converts a value into builtin Go maps for encoders that
// have no notion of order (CBOR).
package ordered
