// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
)

// WriteFile writes content to dir/name, creating parent directories,
// and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// WriteBundle writes every file in files (relative path → content)
// under a fresh temporary directory and returns the directory. Files
// are written in sorted path order.
func WriteBundle(t testing.TB, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		WriteFile(t, dir, name, files[name])
	}
	return dir
}

// WriteScript writes an executable /bin/sh script with the given body
// to dir/name and returns its path.
func WriteScript(t testing.TB, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	content := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("writing script %s: %v", path, err)
	}
	return path
}

// LogBuffer collects log output written by a [Logger].
type LogBuffer struct {
	mutex  sync.Mutex
	buffer bytes.Buffer
}

func (b *LogBuffer) Write(data []byte) (int, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.Write(data)
}

// String returns everything logged so far.
func (b *LogBuffer) String() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.String()
}

// Logger returns a debug-level text logger and the buffer it writes
// to.
func Logger() (*slog.Logger, *LogBuffer) {
	buffer := &LogBuffer{}
	handler := slog.NewTextHandler(buffer, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), buffer
}
