// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapshot writes the resolved environments of a bundle to a
// file so that they can be diffed between runs or consumed by other
// tools without re-running variable resolution.
//
// The format is chosen from the file name: a base extension of .json,
// .yaml (or .yml), or .cbor selects the encoding, and an optional
// trailing .zst or .lz4 compresses the encoded stream with zstd or the
// LZ4 frame format. For example, "envs.cbor.zst" is zstd-compressed
// CBOR.
//
// JSON and YAML snapshots keep document order. CBOR snapshots use Core
// Deterministic Encoding (RFC 8949 §4.2), which sorts map keys, so the
// same resolved bundle always produces identical bytes.
package snapshot
