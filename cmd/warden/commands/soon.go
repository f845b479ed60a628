// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"cmp"
	"fmt"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warden/cmd/warden/cli"
	"github.com/bureau-foundation/warden/lib/ttl"
)

type soonParams struct {
	WorldParams
	cli.JSONOutput
}

type soonEntry struct {
	Location  string    `json:"location"`
	Item      string    `json:"item"`
	ExpireAt  time.Time `json:"expire_at"`
	Remaining string    `json:"remaining"`
}

func soonCommand(env *environment) *cli.Command {
	var params soonParams
	return &cli.Command{
		Name:    "soon",
		Summary: "List stacks expiring within a window",
		Description: `List the unexpired stacks in every player inventory and container
whose expiry falls within the window, soonest first.`,
		Usage: "warden soon <window> [holder] [flags]",
		Examples: []cli.Example{
			{Description: "Everything spoiling in the next hour", Command: "warden soon 1h -f world.yaml"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("soon", &params)
		},
		Run: func(args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return cli.Validation("expected a window and an optional holder\n\nUsage:\n  warden soon <window> [holder]")
			}
			window, err := ttl.Parse(args[0])
			if err != nil {
				return cli.Validation("%w", err)
			}
			s, err := params.open(env, "soon")
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

			var entries []soonEntry
			for _, holding := range holdings {
				for _, expiring := range s.items.ExpiringWithin(holding.Inventory, window) {
					entries = append(entries, soonEntry{
						Location:  fmt.Sprintf("%s slot %d", holding.Label, expiring.Slot),
						Item:      expiring.Item.String(),
						ExpireAt:  expiring.ExpireAt,
						Remaining: ttl.FormatRemaining(expiring.ExpireAt.Sub(s.clock.Now())),
					})
				}
			}
			slices.SortStableFunc(entries, func(a, b soonEntry) int {
				return cmp.Compare(a.ExpireAt.UnixMilli(), b.ExpireAt.UnixMilli())
			})

			if done, err := params.EmitJSON(env.stdout, entries); done {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(env.stdout, "nothing expires within %s\n", ttl.FormatRemaining(window))
				return nil
			}
			tw := tabwriter.NewWriter(env.stdout, 2, 0, 3, ' ', 0)
			for _, entry := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", entry.Location, entry.Item, s.timestamp(entry.ExpireAt), entry.Remaining)
			}
			return tw.Flush()
		},
	}
}
