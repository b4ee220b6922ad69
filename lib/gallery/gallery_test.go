// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gallery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleItems(root string) []Item {
	return []Item{
		{
			Environment: "dev",
			Mode:        "development",
			Host:        "https://dev.example.com",
			SourcePath:  filepath.Join(root, "figures", "viz", "source", "dev.puml"),
			ImagePath:   filepath.Join(root, "figures", "viz_dev.png"),
			Status:      "rendered",
		},
		{
			Environment: "prod",
			Mode:        "production",
			Host:        "unknown",
			SourcePath:  filepath.Join(root, "figures", "viz", "source", "prod.puml"),
			Status:      "failed",
			Error:       "plantuml exited with code 1",
		},
	}
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := filepath.Join(root, "figures", "viz")
	got := Markdown(dir, "my_bundle", sampleItems(root))

	wantLines := []string{
		`# my\_bundle diagrams`,
		"| Environment | Mode | Host | Source | Status |",
		"| [dev](#dev) | development | https://dev.example.com | [dev.puml](source/dev.puml) | rendered |",
		"| [prod](#prod) | production | unknown | [prod.puml](source/prod.puml) | failed |",
		"## dev",
		"![dev](../viz_dev.png)",
		"## prod",
		"Rendering failed: `plantuml exited with code 1`",
	}
	for _, line := range wantLines {
		if !strings.Contains(got, line+"\n") {
			t.Errorf("Markdown missing line %q in:\n%s", line, got)
		}
	}
	if strings.Index(got, "## dev") > strings.Index(got, "## prod") {
		t.Error("sections are not in item order")
	}
}

func TestMarkdownEscapesCells(t *testing.T) {
	t.Parallel()

	got := Markdown(t.TempDir(), "b", []Item{{Environment: "a|b", Mode: "x*y", Status: "skipped"}})
	if !strings.Contains(got, `a\|b`) {
		t.Errorf("pipe not escaped in:\n%s", got)
	}
	if !strings.Contains(got, `x\*y`) {
		t.Errorf("emphasis not escaped in:\n%s", got)
	}
	if !strings.Contains(got, "No image was rendered.") {
		t.Errorf("missing placeholder for item without image in:\n%s", got)
	}
}

func TestHTML(t *testing.T) {
	t.Parallel()

	page, err := HTML("a <b> diagrams", "| A | B |\n|---|---|\n| 1 | 2 |\n\n![x](x.png)\n")
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	for _, want := range []string{
		"<title>a &lt;b&gt; diagrams</title>",
		"<table>",
		"<td>1</td>",
		`<img src="x.png" alt="x">`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("HTML missing %q in:\n%s", want, page)
		}
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := filepath.Join(root, "figures", "viz")
	markdownPath, htmlPath, err := Write(dir, "my_bundle", sampleItems(root))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if markdownPath != filepath.Join(dir, "index.md") {
		t.Errorf("markdown path = %q", markdownPath)
	}
	if htmlPath != filepath.Join(dir, "index.html") {
		t.Errorf("html path = %q", htmlPath)
	}

	page, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("reading index.html: %v", err)
	}
	if !strings.Contains(string(page), `<img src="../viz_dev.png" alt="dev">`) {
		t.Errorf("index.html does not embed the dev image:\n%s", page)
	}
	if !strings.Contains(string(page), `<a href="source/prod.puml">prod.puml</a>`) {
		t.Errorf("index.html does not link the prod source:\n%s", page)
	}
}

func TestHTMLHeadingAnchors(t *testing.T) {
	t.Parallel()

	page, err := HTML("b", Markdown(t.TempDir(), "b", []Item{{Environment: "dev", Status: "skipped"}}))
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(page, `<h2 id="dev">dev</h2>`) {
		t.Errorf("section heading has no dev anchor:\n%s", page)
	}
	if !strings.Contains(page, `<a href="#dev">dev</a>`) {
		t.Errorf("table does not link the dev anchor:\n%s", page)
	}
}
