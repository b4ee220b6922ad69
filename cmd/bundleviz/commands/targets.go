// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/bundleviz/cmd/bundleviz/cli"
	"github.com/bureau-foundation/bundleviz/lib/bundle"
)

type targetsParams struct {
	cli.JSONOutput
	Input string `flag:"input,i" desc:"root bundle document" default:"databricks.yml"`
}

type targetEntry struct {
	Name          string `json:"name"`
	Mode          string `json:"mode"`
	WorkspaceHost string `json:"workspace_host"`
	Default       bool   `json:"default"`
	Overrides     int    `json:"variable_overrides"`
}

func targetsCommand(out streams) *cli.Command {
	var params targetsParams
	return &cli.Command{
		Name:    "targets",
		Summary: "List the targets a bundle declares",
		Usage:   "bundleviz targets [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("targets", &params)
		},
		Run: func(_ context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			document, err := bundle.LoadDocument(params.Input)
			if err != nil {
				return err
			}

			entries := make([]targetEntry, 0, len(document.Targets))
			for _, target := range document.Targets {
				entries = append(entries, targetEntry{
					Name:          target.Name,
					Mode:          target.Mode(),
					WorkspaceHost: target.WorkspaceHost(),
					Default:       target.IsDefault(),
					Overrides:     target.Overrides().Len(),
				})
			}

			if done, err := params.EmitJSON(out.stdout, entries); done {
				return err
			}

			writer := tabwriter.NewWriter(out.stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(writer, "TARGET\tMODE\tWORKSPACE HOST\tDEFAULT")
			for _, entry := range entries {
				isDefault := ""
				if entry.Default {
					isDefault = "yes"
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", entry.Name, entry.Mode, entry.WorkspaceHost, isDefault)
			}
			return writer.Flush()
		},
	}
}
