// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warden/cmd/warden/cli"
	"github.com/bureau-foundation/warden/lib/inventory"
)

type conflictsParams struct {
	WorldParams
	cli.JSONOutput
}

type conflict struct {
	Location string   `json:"location"`
	Item     string   `json:"item"`
	Keys     []string `json:"keys"`
}

func conflictsCommand(env *environment) *cli.Command {
	var params conflictsParams
	return &cli.Command{
		Name:    "conflicts",
		Summary: "List stacks carrying another tool's ownership or expiry tags",
		Description: `List stacks with a tag outside warden's namespace whose name mentions
expire, attribution, owner, or bound. Such tags suggest another plugin
is tracking the same concerns and the two may disagree.

Exits 1 when any conflicting stack is found.`,
		Usage: "warden conflicts [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("conflicts", &params)
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return cli.Validation("conflicts takes no arguments")
			}
			s, err := params.open(env, "conflicts")
			if err != nil {
				return err
			}

			var conflicts []conflict
			for _, holding := range s.world.Holdings() {
				for _, slot := range inventory.Matching(holding.Inventory, s.items.HasConflictingNBT) {
					var keys []string
					for _, key := range slot.Item.Tags().Keys() {
						if key.Namespace != s.items.Namespace() {
							keys = append(keys, key.String())
						}
					}
					conflicts = append(conflicts, conflict{
						Location: fmt.Sprintf("%s slot %d", holding.Label, slot.Index),
						Item:     slot.Item.String(),
						Keys:     keys,
					})
				}
			}

			if done, err := params.EmitJSON(env.stdout, conflicts); done {
				if err == nil && len(conflicts) > 0 {
					return &cli.ExitError{Code: 1}
				}
				return err
			}
			if len(conflicts) == 0 {
				fmt.Fprintln(env.stdout, "no conflicting tags")
				return nil
			}
			for _, entry := range conflicts {
				fmt.Fprintf(env.stdout, "%s: %s [%s]\n", entry.Location, entry.Item, strings.Join(entry.Keys, ", "))
			}
			return &cli.ExitError{Code: 1}
		},
	}
}
