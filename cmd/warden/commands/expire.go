// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warden/cmd/warden/cli"
	"github.com/bureau-foundation/warden/lib/item"
	"github.com/bureau-foundation/warden/lib/ttl"
)

func expireCommand(env *environment) *cli.Command {
	return &cli.Command{
		Name:    "expire",
		Summary: "Set, extend, or clear a stack's expiry",
		Description: `Manage the expiry instant stamped on a stack. An expired stack is
destroyed when picked up, used, placed, consumed, or clicked, and is
removed by purge and sweep.

Durations use the warden duration syntax: "30m", "1h30m", "7d".`,
		Subcommands: []*cli.Command{
			expireSetCommand(env),
			expireExtendCommand(env),
			expireClearCommand(env),
		},
	}
}

type expireParams struct {
	WorldParams
}

func expireSetCommand(env *environment) *cli.Command {
	var params expireParams
	return &cli.Command{
		Name:    "set",
		Summary: "Expire a stack a duration from now",
		Usage:   "warden expire set <holder> <slot|cursor> <duration> [flags]",
		Examples: []cli.Example{
			{Description: "Bread that spoils in a day", Command: "warden expire set Alice 3 1d -f world.yaml"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("set", &params)
		},
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, 3, "warden expire set <holder> <slot|cursor> <duration>"); err != nil {
				return err
			}
			s, err := params.open(env, "expire/set")
			if err != nil {
				return err
			}
			location, it, err := s.occupied(args[0], args[1])
			if err != nil {
				return err
			}
			deadline, err := ttl.ParseDeadline(s.clock.Now(), args[2])
			if err != nil {
				return cli.Validation("%w", err)
			}
			updated, err := s.items.SetExpiry(it, deadline)
			if err != nil {
				return metadataError(err)
			}
			return s.commitExpiry(env, location, updated)
		},
	}
}

func expireExtendCommand(env *environment) *cli.Command {
	var params expireParams
	return &cli.Command{
		Name:    "extend",
		Summary: "Push a stack's expiry later",
		Description: `Add a duration to a stack's current expiry. The stack must already
carry an expiry; an already-expired stack can be revived if the new
instant lies in the future.`,
		Usage: "warden expire extend <holder> <slot|cursor> <duration> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("extend", &params)
		},
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, 3, "warden expire extend <holder> <slot|cursor> <duration>"); err != nil {
				return err
			}
			s, err := params.open(env, "expire/extend")
			if err != nil {
				return err
			}
			location, it, err := s.occupied(args[0], args[1])
			if err != nil {
				return err
			}
			delta, err := ttl.Parse(args[2])
			if err != nil {
				return cli.Validation("%w", err)
			}
			updated, err := s.items.ExtendExpiry(it, delta)
			if err != nil {
				return metadataError(err)
			}
			return s.commitExpiry(env, location, updated)
		},
	}
}

func expireClearCommand(env *environment) *cli.Command {
	var params expireParams
	return &cli.Command{
		Name:    "clear",
		Summary: "Make a stack permanent",
		Usage:   "warden expire clear <holder> <slot|cursor> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("clear", &params)
		},
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, 2, "warden expire clear <holder> <slot|cursor>"); err != nil {
				return err
			}
			s, err := params.open(env, "expire/clear")
			if err != nil {
				return err
			}
			location, it, err := s.occupied(args[0], args[1])
			if err != nil {
				return err
			}
			if !s.items.HasExpiry(it) {
				fmt.Fprintf(env.stdout, "%s: %s has no expiry\n", location.label, it)
				return nil
			}
			location.set(s.items.RemoveExpiry(it))
			if err := s.save(); err != nil {
				return err
			}
			s.logger.Info("expiry cleared", "location", location.label, "item", it.String())
			fmt.Fprintf(env.stdout, "%s: %s is now permanent\n", location.label, it)
			return nil
		},
	}
}

// commitExpiry stores an updated stack, saves the snapshot, and
// reports the new instant.
func (s *session) commitExpiry(env *environment, location target, updated item.Item) error {
	at, ok := s.items.GetExpiry(updated)
	if !ok {
		return cli.Internal("%s: expiry missing after update", location.label)
	}
	location.set(updated)
	if err := s.save(); err != nil {
		return err
	}
	s.logger.Info("expiry set", "location", location.label, "item", updated.String(), "expire_at", at)

	remaining := ttl.FormatRemaining(s.items.RemainingTime(updated))
	fmt.Fprintf(env.stdout, "%s: %s expires %s (%s)\n", location.label, updated, s.timestamp(at), remaining)
	return nil
}
