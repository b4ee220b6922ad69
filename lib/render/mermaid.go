// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultMermaidTheme is the mmdc theme used when none is configured.
const DefaultMermaidTheme = "dark"

// Mermaid renders Mermaid source with "mmdc -i SOURCE -o OUTPUT -t THEME".
type Mermaid struct {
	// Binary is the mmdc executable. Empty means "mmdc" on PATH.
	Binary string

	// Theme is the mmdc theme. Empty means DefaultMermaidTheme.
	Theme string

	Timeout time.Duration
}

func (r *Mermaid) Name() string { return "mermaid" }

func (r *Mermaid) Fingerprint() string {
	binary, theme := r.settings()
	return "mermaid\x00" + binary + "\x00" + theme
}

func (r *Mermaid) settings() (binary, theme string) {
	binary = r.Binary
	if binary == "" {
		binary = "mmdc"
	}
	theme = r.Theme
	if theme == "" {
		theme = DefaultMermaidTheme
	}
	return binary, theme
}

func (r *Mermaid) Render(ctx context.Context, sourcePath, outputPath string) error {
	binary, theme := r.settings()

	source, err := filepath.Abs(sourcePath)
	if err != nil {
		return fmt.Errorf("resolving source path %s: %w", sourcePath, err)
	}
	output, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolving output path %s: %w", outputPath, err)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	stdout, stderr, err := run(ctx, r.Name(), r.Timeout, "", binary, "-i", source, "-o", output, "-t", theme)
	if err != nil {
		return err
	}
	return requireFile(r.Name(), output, stdout, stderr)
}
