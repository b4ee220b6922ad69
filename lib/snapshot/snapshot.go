// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/bundleviz/lib/driver"
	"github.com/bureau-foundation/bundleviz/lib/ordered"
)

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("snapshot: CBOR encoder initialization failed: " + err.Error())
	}
	// Snapshot documents only have string keys; decode any-typed maps
	// as map[string]any so results compare with JSON and YAML ones.
	cborDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("snapshot: CBOR decoder initialization failed: " + err.Error())
	}
}

// Build assembles the snapshot document for a bundle's resolved
// environments:
//
//	bundle: NAME
//	environments:
//	  - name, mode, workspace_host
//	    variables: placeholder → value
//	    target: resolved target body
//	    resources: resolved resource tree
func Build(bundleName string, environments []*driver.Environment) *ordered.Map {
	entries := make([]any, 0, len(environments))
	for _, environment := range environments {
		variables := ordered.NewMap()
		for _, replacement := range environment.Variables.Entries() {
			variables.Set(replacement.Placeholder, replacement.Value)
		}

		entry := ordered.NewMap()
		entry.Set("name", environment.Name)
		entry.Set("mode", environment.Target.Mode())
		entry.Set("workspace_host", environment.Target.WorkspaceHost())
		entry.Set("variables", variables)
		entry.Set("target", environment.Target.Body)
		entry.Set("resources", environment.Tree.Resources())
		entries = append(entries, entry)
	}

	document := ordered.NewMap()
	document.Set("bundle", bundleName)
	document.Set("environments", entries)
	return document
}

// Encode writes document to w in the given format.
func Encode(w io.Writer, format Format, document *ordered.Map) (err error) {
	var compressor io.WriteCloser
	switch format.Compression {
	case CompressionNone:
	case CompressionZstd:
		compressor, err = zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fmt.Errorf("creating zstd writer: %w", err)
		}
	case CompressionLZ4:
		compressor = lz4.NewWriter(w)
	default:
		return fmt.Errorf("unknown compression %q", format.Compression)
	}
	if compressor != nil {
		w = compressor
		defer func() {
			if closeErr := compressor.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("flushing %s stream: %w", format.Compression, closeErr)
			}
		}()
	}

	switch format.Encoding {
	case EncodingJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(document)
	case EncodingYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(document); err != nil {
			return err
		}
		return encoder.Close()
	case EncodingCBOR:
		return cborEncMode.NewEncoder(w).Encode(ordered.Plain(document))
	default:
		return fmt.Errorf("unknown encoding %q", format.Encoding)
	}
}

// Decode reads a snapshot in the given format. JSON and YAML decode to
// ordered values; CBOR decodes to builtin maps.
func Decode(r io.Reader, format Format) (any, error) {
	switch format.Compression {
	case CompressionNone:
	case CompressionZstd:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		defer decoder.Close()
		r = decoder
	case CompressionLZ4:
		r = lz4.NewReader(r)
	default:
		return nil, fmt.Errorf("unknown compression %q", format.Compression)
	}

	switch format.Encoding {
	case EncodingJSON, EncodingYAML:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return ordered.Decode(data)
	case EncodingCBOR:
		var value any
		if err := cborDecMode.NewDecoder(r).Decode(&value); err != nil {
			return nil, err
		}
		return value, nil
	default:
		return nil, fmt.Errorf("unknown encoding %q", format.Encoding)
	}
}

// Write encodes document to path, choosing the format from the file
// name. Parent directories are created.
func Write(path string, document *ordered.Map) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot %s: %w", path, err)
	}
	if err := Encode(file, format, document); err != nil {
		file.Close()
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing snapshot %s: %w", path, err)
	}
	return nil
}

// Read decodes the snapshot at path.
func Read(path string) (any, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot %s: %w", path, err)
	}
	defer file.Close()
	value, err := Decode(file, format)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	return value, nil
}
