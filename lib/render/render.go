// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// Renderer converts a diagram source file into an image.
type Renderer interface {
	Name() string

	// Fingerprint identifies everything besides the source that
	// changes the rendered image: the renderer, its executable, and
	// its options. The render cache folds it into its digest.
	Fingerprint() string

	Render(ctx context.Context, sourcePath, outputPath string) error
}

// Options configures the renderers built by [ForDiagram].
type Options struct {
	// PlantUMLBinary and MermaidBinary override the executables looked
	// up on PATH.
	PlantUMLBinary string
	MermaidBinary  string

	// MermaidTheme is passed to mmdc -t. Defaults to DefaultMermaidTheme.
	MermaidTheme string

	// Timeout bounds each renderer invocation. Zero means no bound
	// beyond the caller's context.
	Timeout time.Duration
}

// ForDiagram returns the renderer for a diagram type name ("plantuml"
// or "mermaid").
func ForDiagram(diagramType string, options Options) (Renderer, error) {
	switch diagramType {
	case "plantuml":
		return &PlantUML{Binary: options.PlantUMLBinary, Timeout: options.Timeout}, nil
	case "mermaid":
		return &Mermaid{Binary: options.MermaidBinary, Theme: options.MermaidTheme, Timeout: options.Timeout}, nil
	default:
		return nil, fmt.Errorf("no renderer for diagram type %q", diagramType)
	}
}

// Error reports a failed renderer invocation.
type Error struct {
	Renderer string

	// ExitCode is the renderer's exit status, or -1 when it did not
	// exit normally (not found, killed, timed out).
	ExitCode int

	Stdout string
	Stderr string

	Err error
}

func (e *Error) Error() string {
	message := fmt.Sprintf("%s failed: %v", e.Renderer, e.Err)
	if detail := firstLine(e.Stderr); detail != "" {
		message += ": " + detail
	}
	return message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if index := strings.IndexByte(text, '\n'); index >= 0 {
		return text[:index]
	}
	return text
}

// waitDelay bounds how long Wait keeps reading output after the
// process group was killed.
const waitDelay = 5 * time.Second

// run executes binary with args in dir and captures its output. A
// non-zero exit or a failure to run becomes a *Error.
func run(ctx context.Context, renderer string, timeout time.Duration, dir, binary string, args ...string) (string, string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Own process group, so the kill on cancel reaches every process
	// the renderer spawned.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if err == nil {
		return stdout.String(), stderr.String(), nil
	}

	failure := &Error{
		Renderer: renderer,
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Err:      err,
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) && timeout > 0 {
			failure.Err = fmt.Errorf("timed out after %s: %w", timeout, ctxErr)
		} else {
			failure.Err = ctxErr
		}
		return failure.Stdout, failure.Stderr, failure
	}
	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		failure.ExitCode = exitError.ExitCode()
	}
	return failure.Stdout, failure.Stderr, failure
}

// requireFile returns a *Error when path does not exist after a
// renderer reported success.
func requireFile(renderer, path, stdout, stderr string) error {
	if _, err := os.Stat(path); err != nil {
		return &Error{
			Renderer: renderer,
			ExitCode: 0,
			Stdout:   stdout,
			Stderr:   stderr,
			Err:      fmt.Errorf("expected image not found at %s", path),
		}
	}
	return nil
}
