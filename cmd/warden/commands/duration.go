// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warden/cmd/warden/cli"
	"github.com/bureau-foundation/warden/lib/ttl"
)

type durationParams struct {
	cli.JSONOutput
}

type durationResult struct {
	Input        string `json:"input"`
	Milliseconds int64  `json:"milliseconds"`
	Formatted    string `json:"formatted"`
}

func durationCommand(env *environment) *cli.Command {
	var params durationParams
	return &cli.Command{
		Name:    "duration",
		Summary: "Parse a duration expression",
		Description: `Parse a duration expression and print it in milliseconds.

An expression is a sequence of <integer><unit> tokens, where the unit
is s, m, h, or d (case-insensitive). Tokens are summed, so "1h30m" and
"30m1h" are both ninety minutes. A total of zero is rejected.`,
		Usage: "warden duration <expression> [flags]",
		Examples: []cli.Example{
			{Description: "Ninety minutes", Command: "warden duration 1h30m"},
			{Description: "One week, as JSON", Command: "warden duration 7d --json"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("duration", &params)
		},
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, 1, "warden duration <expression>"); err != nil {
				return err
			}
			duration, err := ttl.Parse(args[0])
			if err != nil {
				return cli.Validation("%w", err)
			}
			result := durationResult{
				Input:        args[0],
				Milliseconds: duration.Milliseconds(),
				Formatted:    ttl.FormatRemaining(duration),
			}
			if done, err := params.EmitJSON(env.stdout, result); done {
				return err
			}
			fmt.Fprintf(env.stdout, "%d ms (%s)\n", result.Milliseconds, result.Formatted)
			return nil
		},
	}
}
