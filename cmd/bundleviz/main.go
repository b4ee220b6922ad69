// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// bundleviz renders diagrams of Databricks asset bundles. See
// "bundleviz --help" for the command list.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/bundleviz/cmd/bundleviz/commands"
	"github.com/bureau-foundation/bundleviz/lib/process"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return commands.Root().Execute(ctx, os.Args[1:])
}
