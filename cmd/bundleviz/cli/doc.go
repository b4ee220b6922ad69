// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command framework for the bundleviz binary:
// a small tree of [Command] values dispatched by name, flags bound from
// tagged params structs ([FlagsFromParams]), typo suggestions for
// unknown commands and flags, [ExitError] for commands that have
// already reported their own failure, and [NewCommandLogger] for the
// structured logger every command shares.
//
// Commands receive a context.Context that main cancels on SIGINT and
// SIGTERM. Renderer subprocesses are started with that context, so an
// interrupted run stops its renderer too.
package cli
