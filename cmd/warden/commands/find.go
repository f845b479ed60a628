// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warden/cmd/warden/cli"
	"github.com/bureau-foundation/warden/lib/item"
)

type findParams struct {
	WorldParams
	cli.JSONOutput
	Limit int `json:"limit" flag:"limit,n" desc:"maximum number of matches (0 for all)" default:"20"`
}

type findMatch struct {
	Location string    `json:"location"`
	Kind     item.Kind `json:"kind"`
	Amount   int       `json:"amount"`
	Score    int       `json:"score"`
}

var initMatcher sync.Once

// fuzzyScore matches pattern against text the way fzf does with its
// default scoring scheme. It returns false when pattern does not
// match.
func fuzzyScore(text string, pattern []rune, slab *util.Slab) (int, bool) {
	initMatcher.Do(func() { algo.Init("default") })
	chars := util.ToChars([]byte(text))
	result, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, slab)
	if result.Start < 0 {
		return 0, false
	}
	return result.Score, true
}

func findCommand(env *environment) *cli.Command {
	var params findParams
	return &cli.Command{
		Name:    "find",
		Summary: "Fuzzy-search stacks by kind",
		Description: `Search every player inventory, cursor, and container for stacks whose
kind fuzzy-matches the pattern, best matches first. Matching is
case-insensitive and follows fzf's scoring: "dsw" finds DIAMOND_SWORD.`,
		Usage: "warden find <pattern> [flags]",
		Examples: []cli.Example{
			{Description: "Every sword in the world", Command: "warden find sword -f world.yaml"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("find", &params)
		},
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, 1, "warden find <pattern>"); err != nil {
				return err
			}
			pattern := []rune(strings.ToLower(args[0]))
			s, err := params.open(env, "find")
			if err != nil {
				return err
			}

			slab := util.MakeSlab(100*1024, 2048)
			var matches []findMatch
			consider := func(location string, it item.Item) {
				if it.IsEmpty() {
					return
				}
				score, ok := fuzzyScore(string(it.Kind()), pattern, slab)
				if !ok {
					return
				}
				matches = append(matches, findMatch{
					Location: location,
					Kind:     it.Kind(),
					Amount:   it.Amount(),
					Score:    score,
				})
			}
			for _, holding := range s.world.Holdings() {
				for slot := range holding.Inventory.Size() {
					consider(fmt.Sprintf("%s slot %d", holding.Label, slot), holding.Inventory.Get(slot))
				}
			}
			for _, player := range s.world.Players() {
				consider(player.Label()+" cursor", player.Cursor())
			}

			// Stable so equal scores keep world order.
			slices.SortStableFunc(matches, func(a, b findMatch) int {
				return cmp.Compare(b.Score, a.Score)
			})
			if params.Limit > 0 && len(matches) > params.Limit {
				matches = matches[:params.Limit]
			}

			if done, err := params.EmitJSON(env.stdout, matches); done {
				return err
			}
			if len(matches) == 0 {
				fmt.Fprintf(env.stdout, "no stacks match %q\n", args[0])
				return &cli.ExitError{Code: 1}
			}
			tw := tabwriter.NewWriter(env.stdout, 2, 0, 3, ' ', 0)
			for _, match := range matches {
				fmt.Fprintf(tw, "%s\t%s x%d\t%d\n", match.Location, match.Kind, match.Amount, match.Score)
			}
			return tw.Flush()
		},
	}
}
