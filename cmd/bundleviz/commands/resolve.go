// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/bundleviz/cmd/bundleviz/cli"
	"github.com/bureau-foundation/bundleviz/lib/driver"
	"github.com/bureau-foundation/bundleviz/lib/snapshot"
)

type resolveParams struct {
	bundleParams
	cli.JSONOutput
	Format string `flag:"format" desc:"output format: yaml or json" default:"yaml"`
}

func resolveCommand(out streams) *cli.Command {
	var params resolveParams
	return &cli.Command{
		Name:    "resolve",
		Summary: "Print the resolved targets and resources",
		Description: `Print the resolved targets and resources.

Each selected target is printed with its mode, workspace host, the
variable table that was applied, the resolved target body, and the
merged resource tree after substitution. YAML output is highlighted
when stdout is a terminal.`,
		Usage: "bundleviz resolve [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("resolve", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			return runResolve(ctx, &params, out)
		},
	}
}

func runResolve(ctx context.Context, params *resolveParams, out streams) error {
	logger := out.newLogger(params.Verbose).With("command", "resolve")

	format := snapshot.Format{Encoding: snapshot.EncodingYAML}
	switch {
	case params.OutputJSON || params.Format == "json":
		format.Encoding = snapshot.EncodingJSON
	case params.Format == "yaml":
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", params.Format)
	}

	plan, err := driver.Prepare(params.Input, driver.Options{Targets: params.Targets, Logger: logger})
	if err != nil {
		return err
	}

	var environments []*driver.Environment
	walkErr := plan.Walk(ctx, func(_ context.Context, environment *driver.Environment) error {
		environments = append(environments, environment)
		return nil
	})
	var partial *driver.PartialError
	if walkErr != nil && !errors.As(walkErr, &partial) {
		return walkErr
	}

	var buffer bytes.Buffer
	if err := snapshot.Encode(&buffer, format, snapshot.Build(plan.Document.Name, environments)); err != nil {
		return fmt.Errorf("encoding resolved bundle: %w", err)
	}

	highlighted := false
	if out.terminal && format.Encoding == snapshot.EncodingYAML {
		highlighted = quick.Highlight(out.stdout, buffer.String(), "yaml", "terminal256", "monokai") == nil
	}
	if !highlighted {
		if _, err := out.stdout.Write(buffer.Bytes()); err != nil {
			return err
		}
	}
	if partial != nil {
		return &cli.ExitError{Code: 1}
	}
	return nil
}
