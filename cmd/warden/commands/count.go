// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warden/cmd/warden/cli"
)

type countParams struct {
	WorldParams
	cli.JSONOutput
}

type holdingCount struct {
	Location string `json:"location"`
	Items    int    `json:"items"`
}

type countResult struct {
	Owner    string         `json:"owner"`
	Holdings []holdingCount `json:"holdings"`
	Total    int            `json:"total"`
}

func countCommand(env *environment) *cli.Command {
	var params countParams
	return &cli.Command{
		Name:    "count",
		Summary: "Count the items bound to an owner",
		Description: `Count the items bound to an owner in one holder, or in every player
inventory and container. Stack sizes are summed: a bound BREAD x5
counts as five. Holdings with no bound items are omitted.`,
		Usage: "warden count <owner> [holder] [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("count", &params)
		},
		Run: func(args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return cli.Validation("expected an owner and an optional holder\n\nUsage:\n  warden count <owner> [holder]")
			}
			s, err := params.open(env, "count")
			if err != nil {
				return err
			}
			owner, ownerLabel, err := s.resolveOwner(args[0])
			if err != nil {
				return err
			}
			holder := ""
			if len(args) == 2 {
				holder = args[1]
			}
			holdings, err := s.holdings(holder)
			if err != nil {
				return err
			}

			result := countResult{Owner: ownerLabel}
			for _, holding := range holdings {
				count := s.items.CountAttributed(holding.Inventory, owner)
				if count == 0 {
					continue
				}
				result.Holdings = append(result.Holdings, holdingCount{holding.Label, count})
				result.Total += count
			}

			if done, err := params.EmitJSON(env.stdout, result); done {
				return err
			}
			tw := tabwriter.NewWriter(env.stdout, 2, 0, 3, ' ', 0)
			for _, entry := range result.Holdings {
				fmt.Fprintf(tw, "%s\t%d\n", entry.Location, entry.Items)
			}
			fmt.Fprintf(tw, "total\t%d\n", result.Total)
			return tw.Flush()
		},
	}
}
