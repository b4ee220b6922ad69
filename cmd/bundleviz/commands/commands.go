// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the bundleviz command tree: render, resolve,
// validate, targets, and version.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/bundleviz/cmd/bundleviz/cli"
	"github.com/bureau-foundation/bundleviz/lib/version"
)

// streams carries where commands write and how they log. Root wires it
// to the process; tests substitute buffers.
type streams struct {
	stdout io.Writer

	// terminal reports whether stdout is a terminal, which enables
	// colors and syntax highlighting.
	terminal bool

	newLogger func(verbose bool) *slog.Logger
}

// Root builds and returns the complete bundleviz command tree.
func Root() *cli.Command {
	return newRoot(streams{
		stdout:    os.Stdout,
		terminal:  cli.StdoutIsTerminal(),
		newLogger: cli.NewCommandLogger,
	})
}

func newRoot(out streams) *cli.Command {
	return &cli.Command{
		Name: "bundleviz",
		Description: `bundleviz: diagrams of Databricks asset bundles.

Loads a bundle's root document and its included resource fragments,
merges the jobs they define, resolves variables for every target, and
renders one PlantUML or Mermaid diagram per target.`,
		Subcommands: []*cli.Command{
			renderCommand(out),
			resolveCommand(out),
			validateCommand(out),
			targetsCommand(out),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string) error {
					fmt.Fprintf(out.stdout, "bundleviz %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Render a PlantUML diagram for every target",
				Command:     "bundleviz render -i databricks.yml",
			},
			{
				Description: "Render Mermaid for prod only, with a gallery page",
				Command:     "bundleviz render -t mermaid --target prod --gallery",
			},
			{
				Description: "Show the resolved resources for dev",
				Command:     "bundleviz resolve --target dev",
			},
			{
				Description: "Check includes, task keys, and variable references",
				Command:     "bundleviz validate",
			},
		},
	}
}

// bundleParams are the flags shared by every command that reads a
// bundle.
type bundleParams struct {
	Input   string   `flag:"input,i" desc:"root bundle document" default:"databricks.yml"`
	Targets []string `flag:"target" desc:"only process this target (repeatable)"`
	Verbose bool     `flag:"verbose,v" desc:"log at debug level"`
}
