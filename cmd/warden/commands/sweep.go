// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warden/cmd/warden/cli"
	"github.com/bureau-foundation/warden/lib/enforce"
	"github.com/bureau-foundation/warden/lib/itemevent"
	"github.com/bureau-foundation/warden/lib/sweep"
	"github.com/bureau-foundation/warden/lib/tick"
)

type sweepParams struct {
	WorldParams
	cli.JSONOutput
	Ticks int      `json:"ticks" flag:"ticks" desc:"simulate this many ticks with the periodic sweeper running instead of one immediate pass"`
	Join  bool     `json:"join"  flag:"join"  desc:"with --ticks, schedule a join sweep for every online player"`
	Open  []string `json:"open"  flag:"open"  desc:"with --ticks, player=container pairs whose opening to simulate"`
}

type sweptStack struct {
	Actor  string `json:"actor"`
	Item   string `json:"item"`
	Action string `json:"action"`
}

type sweepResult struct {
	Ticks   int          `json:"ticks"`
	Actors  int          `json:"actors"`
	Removed []sweptStack `json:"removed"`
}

func sweepCommand(env *environment) *cli.Command {
	var params sweepParams
	return &cli.Command{
		Name:    "sweep",
		Summary: "Run the periodic sweeper over online players",
		Description: `Remove expired stacks from every online player's inventory the way a
running server does: each removal raises an Expired event, which this
command logs.

With --ticks, the sweeper is started on a simulated tick clock and the
world is advanced that many ticks. --join and --open schedule the join
and container-open sweeps as a server would when players connect or
open containers.`,
		Usage: "warden sweep [flags]",
		Examples: []cli.Example{
			{Description: "One sweep pass", Command: "warden sweep -f world.yaml"},
			{Description: "Five simulated minutes with joins", Command: "warden sweep --ticks 6000 --join -f world.yaml"},
			{Description: "Alice opens the spawn chest", Command: "warden sweep --ticks 1 --open Alice=spawn-chest -f world.yaml"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("sweep", &params)
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return cli.Validation("sweep takes no arguments")
			}
			if params.Ticks < 0 {
				return cli.Validation("--ticks must not be negative")
			}
			if params.Ticks == 0 && (params.Join || len(params.Open) > 0) {
				return cli.Validation("--join and --open need --ticks")
			}
			params.pinClock = params.Ticks > 0
			s, err := params.open(env, "sweep")
			if err != nil {
				return err
			}

			result := sweepResult{Ticks: params.Ticks}
			bus := itemevent.NewBus(s.logger)
			bus.OnExpired(0, func(event itemevent.Expired) itemevent.Verdict {
				s.logger.Info("expired stack removed", "event", event)
				result.Removed = append(result.Removed, sweptStack{
					Actor:  s.actorLabel(event.Actor.String()),
					Item:   event.Item.String(),
					Action: event.Action.String(),
				})
				return itemevent.Pass
			})
			bus.OnContainerExpired(0, func(event itemevent.ContainerExpired) {
				s.logger.Info("container swept", "event", event)
			})

			scheduler := tick.New(s.clock, s.config.TickInterval(), s.logger)
			matrix, err := enforce.New(enforce.Options{
				Items:      s.items,
				Bus:        bus,
				Scheduler:  scheduler,
				Containers: s.config.ContainerTypes(),
				OpenDelay:  s.config.Sweep.OpenDelayTicks,
				JoinDelay:  s.config.Sweep.JoinDelayTicks,
				Logger:     s.logger,
			})
			if err != nil {
				return cli.Internal("%w", err)
			}
			sweeper := sweep.New(matrix, s.world, s.config.Sweep.IntervalTicks, s.logger)

			if params.Ticks == 0 {
				result.Actors = sweeper.SweepOnce().Actors
			} else {
				if err := s.scheduleOpens(matrix, params.Open); err != nil {
					return err
				}
				if params.Join {
					for _, actor := range s.world.Online() {
						matrix.Join(actor)
					}
				}
				result.Actors = len(s.world.Online())
				sweeper.Start(scheduler)
				for range params.Ticks {
					s.fake.Advance(s.config.TickInterval())
					scheduler.Tick()
				}
				sweeper.Stop()
			}

			if len(result.Removed) > 0 {
				if err := s.save(); err != nil {
					return err
				}
			}

			if done, err := params.EmitJSON(env.stdout, result); done {
				return err
			}
			for _, stack := range result.Removed {
				fmt.Fprintf(env.stdout, "%s: %s (%s)\n", stack.Actor, stack.Item, stack.Action)
			}
			fmt.Fprintf(env.stdout, "swept %d online player(s), removed %d expired stack(s)\n",
				result.Actors, len(result.Removed))
			return nil
		},
	}
}

// scheduleOpens parses player=container pairs and schedules each
// opening on the matrix.
func (s *session) scheduleOpens(matrix *enforce.Matrix, pairs []string) error {
	for _, pair := range pairs {
		playerReference, containerName, ok := strings.Cut(pair, "=")
		if !ok {
			return cli.Validation("--open %q: want player=container", pair)
		}
		player, found := s.world.FindPlayer(playerReference)
		if !found {
			return cli.NotFound("--open %q: no player named %q", pair, playerReference)
		}
		grid, found := s.world.Container(containerName)
		if !found {
			return cli.NotFound("--open %q: no container named %q", pair, containerName)
		}
		matrix.ContainerOpen(player, grid)
	}
	return nil
}

// actorLabel returns a player's label for an identity string, or the
// identity itself for unknown players.
func (s *session) actorLabel(reference string) string {
	if player, ok := s.world.FindPlayer(reference); ok {
		return player.Label()
	}
	return reference
}
