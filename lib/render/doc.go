// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package render invokes the external diagram renderers that turn
// diagram source into PNG images: plantuml for PlantUML source and
// mmdc (the Mermaid CLI) for Mermaid source.
//
// Each renderer runs as a child process in its own process group with
// captured stdout and stderr. A renderer that exits non-zero, or exits
// zero without producing the expected image, yields a [*Error] carrying
// the exit code and captured output. When a timeout is configured, or
// the caller's context is cancelled, the whole process group is killed
// so that JVM or browser helpers spawned by the renderer do not
// outlive it.
//
// [Fresh] and [Record] implement a content-addressed render cache: the
// BLAKE3 digest of the last successfully rendered source, together with
// the renderer's [Renderer.Fingerprint], is stored next to the source
// file. Rendering is skipped while neither has changed and the image
// still exists.
package render
