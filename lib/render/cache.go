// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/bureau-foundation/bundleviz/lib/digest"
)

// DigestSuffix is appended to a source path to name its cache record.
const DigestSuffix = ".blake3"

// DigestPath returns the cache record path for a source file.
func DigestPath(sourcePath string) string {
	return sourcePath + DigestSuffix
}

// Fresh reports whether outputPath is up to date with sourcePath as
// rendered by a renderer with the given fingerprint: the output exists
// and the recorded digest equals the digest of the fingerprint and the
// source's current content. A missing or unreadable record means not
// fresh.
func Fresh(sourcePath, outputPath, fingerprint string) (bool, error) {
	if _, err := os.Stat(outputPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	recorded, err := os.ReadFile(DigestPath(sourcePath))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	previous, err := digest.Parse(strings.TrimSpace(string(recorded)))
	if err != nil {
		return false, nil
	}

	current, err := renderDigest(sourcePath, fingerprint)
	if err != nil {
		return false, err
	}
	return current == previous, nil
}

// Record stores the digest of fingerprint and sourcePath as the last
// rendered state.
func Record(sourcePath, fingerprint string) error {
	current, err := renderDigest(sourcePath, fingerprint)
	if err != nil {
		return err
	}
	if err := os.WriteFile(DigestPath(sourcePath), []byte(current.String()+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing render cache record: %w", err)
	}
	return nil
}

func renderDigest(sourcePath, fingerprint string) (digest.Digest, error) {
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return digest.Digest{}, fmt.Errorf("reading %s for hashing: %w", sourcePath, err)
	}
	data := make([]byte, 0, len(fingerprint)+1+len(source))
	data = append(data, fingerprint...)
	data = append(data, 0)
	data = append(data, source...)
	return digest.Sum(data), nil
}
