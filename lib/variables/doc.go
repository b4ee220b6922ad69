// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package variables resolves bundle variable placeholders for one
// deployment target.
//
// Three kinds of placeholder are recognized:
//
//   - ${bundle.target} becomes the target name.
//   - ${workspace.current_user.userName} becomes [CURRENT USER], since
//     the deploying identity is not known offline.
//   - ${var.NAME} becomes the target's override for NAME when it has a
//     non-null one, else the declared default, else the literal None.
//
// Resolution order for one target (see [Resolve]):
//
//  1. BaseReplacements: the two fixed placeholders.
//  2. ResolveTable: one ${var.NAME} entry per declared variable, in
//     declaration order. Each value has the base placeholders expanded
//     in it once.
//  3. Substitute: the merged table is applied to the JSON serialization
//     of the target body and of the merged resource tree, and the
//     results are parsed back.
//
// Substitution is textual. A placeholder is replaced wherever it
// occurs in the serialized structure, including in fields nobody reads
// and in mapping keys. Replacement is a single pass: placeholder text
// that appears inside a replacement value is left as is. Values are
// JSON-string-escaped before insertion so the serialization stays
// parseable. A placeholder that no table entry matches is left
// untouched, and resolution never fails for want of a value.
package variables
