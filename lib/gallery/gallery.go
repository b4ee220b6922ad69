// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package gallery writes an index of the diagrams rendered for a
// bundle: a Markdown page (index.md) with a summary table and one
// section per environment embedding its image, and the same page
// converted to HTML (index.html) with GitHub Flavored Markdown.
package gallery

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Item is one environment in the gallery. Paths are absolute or
// relative to the working directory; the gallery rewrites them
// relative to its own directory.
type Item struct {
	Environment string
	Mode        string
	Host        string
	SourcePath  string
	ImagePath   string

	// Status is a short word such as "rendered", "cached", "skipped",
	// or "failed".
	Status string

	// Error is the failure message when Status is "failed".
	Error string
}

var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func markdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		)
	})
	return markdownInstance
}

// Markdown renders the gallery page. dir is the directory the page
// will be written to; item paths are made relative to it.
func Markdown(dir, bundleName string, items []Item) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "# %s diagrams\n\n", escapeText(bundleName))
	builder.WriteString("| Environment | Mode | Host | Source | Status |\n")
	builder.WriteString("|---|---|---|---|---|\n")
	for _, item := range items {
		source := relative(dir, item.SourcePath)
		fmt.Fprintf(&builder, "| [%s](#%s) | %s | %s | [%s](%s) | %s |\n",
			escapeCell(item.Environment), anchor(item.Environment),
			escapeCell(item.Mode), escapeCell(item.Host),
			escapeCell(filepath.Base(source)), source,
			escapeCell(item.Status))
	}

	for _, item := range items {
		fmt.Fprintf(&builder, "\n## %s\n\n", escapeText(item.Environment))
		if item.Error != "" {
			fmt.Fprintf(&builder, "Rendering failed: `%s`\n", strings.ReplaceAll(item.Error, "`", "'"))
			continue
		}
		if item.ImagePath == "" {
			builder.WriteString("No image was rendered.\n")
			continue
		}
		fmt.Fprintf(&builder, "![%s](%s)\n", escapeText(item.Environment), relative(dir, item.ImagePath))
	}
	return builder.String()
}

// HTML converts the gallery Markdown into a standalone HTML page.
func HTML(title, markdownText string) (string, error) {
	var body bytes.Buffer
	if err := markdown().Convert([]byte(markdownText), &body); err != nil {
		return "", fmt.Errorf("converting gallery markdown: %w", err)
	}
	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("<style>body{font-family:sans-serif;max-width:72rem;margin:2rem auto}img{max-width:100%}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.3rem .6rem}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}

// Write writes index.md and index.html into dir and returns their
// paths.
func Write(dir, bundleName string, items []Item) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating gallery directory: %w", err)
	}
	markdownText := Markdown(dir, bundleName, items)
	page, err := HTML(bundleName+" diagrams", markdownText)
	if err != nil {
		return "", "", err
	}

	markdownPath := filepath.Join(dir, "index.md")
	if err := os.WriteFile(markdownPath, []byte(markdownText), 0o644); err != nil {
		return "", "", fmt.Errorf("writing %s: %w", markdownPath, err)
	}
	htmlPath := filepath.Join(dir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(page), 0o644); err != nil {
		return "", "", fmt.Errorf("writing %s: %w", htmlPath, err)
	}
	return markdownPath, htmlPath, nil
}

func relative(dir, path string) string {
	if path == "" {
		return ""
	}
	absoluteDir, err := filepath.Abs(dir)
	if err != nil {
		return filepath.ToSlash(path)
	}
	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(absoluteDir, absolutePath)
	if err != nil {
		return filepath.ToSlash(absolutePath)
	}
	return filepath.ToSlash(rel)
}

// anchor mirrors the heading IDs goldmark generates: lower case,
// spaces to hyphens, other punctuation dropped.
func anchor(heading string) string {
	var builder strings.Builder
	for _, r := range strings.ToLower(heading) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			builder.WriteRune(r)
		case r == ' ':
			builder.WriteByte('-')
		}
	}
	return builder.String()
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`, "`", "\\`", "<", `\<`, "#", `\#`,
)

func escapeText(text string) string {
	return textEscaper.Replace(text)
}

func escapeCell(text string) string {
	return strings.ReplaceAll(escapeText(text), "|", `\|`)
}
