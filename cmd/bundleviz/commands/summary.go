// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/bundleviz/lib/gallery"
)

// detailWidth bounds the last summary column so that long renderer
// errors stay on one line.
const detailWidth = 72

// printSummary writes one line per environment: name, mode, status,
// and the image path or failure message. Colors are used only when
// stdout is a terminal.
func printSummary(out streams, bundleName string, items []gallery.Item) {
	profile := termenv.Ascii
	if out.terminal {
		profile = termenv.ANSI256
	}
	renderer := lipgloss.NewRenderer(out.stdout, termenv.WithProfile(profile))
	// ColorProfile() re-detects from the writer unless set explicitly.
	renderer.SetColorProfile(profile)

	headerStyle := renderer.NewStyle().Bold(true)
	faintStyle := renderer.NewStyle().Faint(true)
	statusStyles := map[string]lipgloss.Style{
		"rendered": renderer.NewStyle().Foreground(lipgloss.Color("42")),
		"cached":   renderer.NewStyle().Foreground(lipgloss.Color("37")),
		"skipped":  renderer.NewStyle().Foreground(lipgloss.Color("245")),
		"failed":   renderer.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	}

	failed := 0
	nameWidth, modeWidth, statusWidth := len("TARGET"), len("MODE"), len("STATUS")
	for _, item := range items {
		nameWidth = max(nameWidth, ansi.StringWidth(item.Environment))
		modeWidth = max(modeWidth, ansi.StringWidth(item.Mode))
		statusWidth = max(statusWidth, ansi.StringWidth(item.Status))
		if item.Status == "failed" {
			failed++
		}
	}

	title := fmt.Sprintf("%s: %d %s", bundleName, len(items), plural(len(items), "target", "targets"))
	if failed > 0 {
		title += fmt.Sprintf(", %d failed", failed)
	}
	fmt.Fprintln(out.stdout, headerStyle.Render(title))

	header := pad("TARGET", nameWidth) + "  " + pad("MODE", modeWidth) + "  " + pad("STATUS", statusWidth) + "  DETAIL"
	fmt.Fprintln(out.stdout, faintStyle.Render(header))

	for _, item := range items {
		detail := item.ImagePath
		if item.Error != "" {
			detail = firstLine(item.Error)
		} else if detail == "" {
			detail = item.SourcePath
		}
		detail = ansi.Truncate(detail, detailWidth, "…")

		status := pad(item.Status, statusWidth)
		if style, ok := statusStyles[item.Status]; ok {
			status = style.Render(status)
		}
		fmt.Fprintf(out.stdout, "%s  %s  %s  %s\n",
			pad(item.Environment, nameWidth), pad(item.Mode, modeWidth), status, detail)
	}
}

// pad right-pads text with spaces to a display width.
func pad(text string, width int) string {
	padding := width - ansi.StringWidth(text)
	if padding <= 0 {
		return text
	}
	return text + strings.Repeat(" ", padding)
}

func plural(count int, singular, pluralForm string) string {
	if count == 1 {
		return singular
	}
	return pluralForm
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return line
}
