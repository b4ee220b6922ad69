// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// PlantUML renders PlantUML source with "plantuml -tpng". plantuml
// writes the image next to its input, so the source is first copied to
// a private temporary directory and the image is moved to the output
// path afterwards.
type PlantUML struct {
	// Binary is the plantuml executable. Empty means "plantuml" on PATH.
	Binary  string
	Timeout time.Duration
}

func (r *PlantUML) Name() string { return "plantuml" }

func (r *PlantUML) Fingerprint() string {
	return "plantuml\x00" + r.binary()
}

func (r *PlantUML) binary() string {
	if r.Binary == "" {
		return "plantuml"
	}
	return r.Binary
}

func (r *PlantUML) Render(ctx context.Context, sourcePath, outputPath string) error {
	binary := r.binary()

	output, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolving output path %s: %w", outputPath, err)
	}

	workDir, err := os.MkdirTemp("", "bundleviz-plantuml-*")
	if err != nil {
		return fmt.Errorf("creating plantuml work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	input := filepath.Join(workDir, "diagram.puml")
	if err := copyFile(sourcePath, input); err != nil {
		return err
	}

	stdout, stderr, err := run(ctx, r.Name(), r.Timeout, workDir, binary, "-tpng", input)
	if err != nil {
		return err
	}

	generated := filepath.Join(workDir, "diagram.png")
	if err := requireFile(r.Name(), generated, stdout, stderr); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return moveFile(generated, output)
}

// moveFile renames source to destination, falling back to copy and
// remove when they are on different filesystems (the temporary
// directory is often a tmpfs).
func moveFile(source, destination string) error {
	err := os.Rename(source, destination)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EXDEV) {
		return fmt.Errorf("moving %s to %s: %w", source, destination, err)
	}
	if err := copyFile(source, destination); err != nil {
		return err
	}
	return os.Remove(source)
}

func copyFile(source, destination string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("opening %s: %w", source, err)
	}
	defer in.Close()

	out, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", destination, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s to %s: %w", source, destination, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", destination, err)
	}
	return nil
}
