// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warden/cmd/warden/cli"
	"github.com/bureau-foundation/warden/lib/inventory"
	"github.com/bureau-foundation/warden/lib/item"
)

type purgeParams struct {
	WorldParams
	cli.JSONOutput
	DryRun bool `json:"dry_run" flag:"dry-run,n" desc:"report what would be removed without writing the snapshot"`
}

type purgedStack struct {
	Location string `json:"location"`
	Item     string `json:"item"`
}

type purgeResult struct {
	Removed []purgedStack `json:"removed"`
	DryRun  bool          `json:"dry_run"`
}

func purgeCommand(env *environment) *cli.Command {
	var params purgeParams
	return &cli.Command{
		Name:    "purge",
		Summary: "Remove expired stacks",
		Description: `Remove every expired stack from one holder, or from every player,
cursor, container, and ground entity when no holder is given.

Unlike sweep, purge raises no events: nothing can veto a removal.`,
		Usage: "warden purge [holder] [flags]",
		Examples: []cli.Example{
			{Description: "Purge the whole world", Command: "warden purge -f world.yaml"},
			{Description: "Preview one chest", Command: "warden purge spawn-chest --dry-run -f world.yaml"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("purge", &params)
		},
		Run: func(args []string) error {
			if len(args) > 1 {
				return cli.Validation("expected at most one holder, got %d arguments", len(args))
			}
			holder := ""
			if len(args) == 1 {
				holder = args[0]
			}
			s, err := params.open(env, "purge")
			if err != nil {
				return err
			}
			holdings, err := s.holdings(holder)
			if err != nil {
				return err
			}

			result := purgeResult{DryRun: params.DryRun}
			for _, holding := range holdings {
				if params.DryRun {
					for _, slot := range inventory.Matching(holding.Inventory, s.items.IsExpired) {
						result.Removed = append(result.Removed, purgedStack{holding.Label, slot.Item.String()})
					}
					continue
				}
				for _, removed := range s.items.PurgeExpired(holding.Inventory) {
					result.Removed = append(result.Removed, purgedStack{holding.Label, removed.String()})
				}
			}

			if holder == "" {
				for _, player := range s.world.Players() {
					if cursor := player.Cursor(); s.items.IsExpired(cursor) {
						result.Removed = append(result.Removed, purgedStack{player.Label() + " cursor", cursor.String()})
						if !params.DryRun {
							player.SetCursor(item.Empty)
						}
					}
				}
				for _, entity := range s.world.Entities() {
					if s.items.IsExpired(entity.Item()) {
						result.Removed = append(result.Removed, purgedStack{"ground", entity.Item().String()})
						if !params.DryRun {
							entity.Remove()
						}
					}
				}
			}

			if len(result.Removed) > 0 && !params.DryRun {
				if err := s.save(); err != nil {
					return err
				}
				s.logger.Info("expired stacks purged", "count", len(result.Removed))
			}

			if done, err := params.EmitJSON(env.stdout, result); done {
				return err
			}
			for _, stack := range result.Removed {
				fmt.Fprintf(env.stdout, "%s: %s\n", stack.Location, stack.Item)
			}
			verb := "removed"
			if params.DryRun {
				verb = "would remove"
			}
			fmt.Fprintf(env.stdout, "%s %d expired stack(s)\n", verb, len(result.Removed))
			return nil
		},
	}
}
