// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the warden CLI command tree.
//
// Every command that reads a world takes --file (a snapshot path whose
// extension selects the encoding) and --config. Commands that change
// the world write the snapshot back in place. --at pins the clock so
// that expiry decisions are reproducible.
package commands

import (
	"io"

	"github.com/bureau-foundation/warden/cmd/warden/cli"
)

// Root builds the complete warden command tree writing to stdout and
// stderr.
func Root(stdout, stderr io.Writer) *cli.Command {
	env := &environment{stdout: stdout, stderr: stderr}
	return &cli.Command{
		Name: "warden",
		Description: `warden: item expiry and attribution.

Stamp stacks with an expiry instant or bind them to an owner, inspect
what a stack carries, and purge or sweep expired stacks out of a world
snapshot.`,
		Subcommands: []*cli.Command{
			durationCommand(env),
			inspectCommand(env),
			findCommand(env),
			expireCommand(env),
			bindCommand(env),
			purgeCommand(env),
			countCommand(env),
			conflictsCommand(env),
			soonCommand(env),
			sweepCommand(env),
		},
	}
}
