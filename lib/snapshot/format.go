// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Encoding names a serialization.
type Encoding string

const (
	EncodingJSON Encoding = "json"
	EncodingYAML Encoding = "yaml"
	EncodingCBOR Encoding = "cbor"
)

// Compression names a stream compressor. The zero value is no
// compression.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// Format is an encoding plus an optional compression.
type Format struct {
	Encoding    Encoding
	Compression Compression
}

func (f Format) String() string {
	if f.Compression == CompressionNone {
		return string(f.Encoding)
	}
	return string(f.Encoding) + "+" + string(f.Compression)
}

// FormatFromPath derives the snapshot format from a file name.
func FormatFromPath(path string) (Format, error) {
	var format Format
	name := strings.ToLower(filepath.Base(path))

	switch extension := filepath.Ext(name); extension {
	case ".zst":
		format.Compression = CompressionZstd
		name = strings.TrimSuffix(name, extension)
	case ".lz4":
		format.Compression = CompressionLZ4
		name = strings.TrimSuffix(name, extension)
	}

	switch extension := filepath.Ext(name); extension {
	case ".json":
		format.Encoding = EncodingJSON
	case ".yaml", ".yml":
		format.Encoding = EncodingYAML
	case ".cbor":
		format.Encoding = EncodingCBOR
	default:
		return Format{}, fmt.Errorf("snapshot %s: unknown extension %q (want .json, .yaml, .yml, or .cbor, optionally followed by .zst or .lz4)", path, extension)
	}
	return format, nil
}
