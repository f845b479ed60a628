// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warden/cmd/warden/cli"
	"github.com/bureau-foundation/warden/lib/item"
	"github.com/bureau-foundation/warden/lib/itemmeta"
)

func bindCommand(env *environment) *cli.Command {
	return &cli.Command{
		Name:    "bind",
		Summary: "Bind stacks to an owner or release them",
		Description: `Manage the owner a stack is bound to. Only the owner can use, pick
up, or take a bound stack out of a container; everyone else is
refused.

Blocks and other materials that make no sense to own, expired stacks,
and stacks already bound to someone else are rejected unless --force is
given.`,
		Subcommands: []*cli.Command{
			bindSetCommand(env),
			bindGiveCommand(env),
			bindClearCommand(env),
		},
	}
}

type bindParams struct {
	WorldParams
	Force bool `json:"force" flag:"force" desc:"bind materials that are not normally attributable"`
}

// resolveOwner accepts a known player's name or identity, or any
// identity at all for owners absent from the snapshot.
func (s *session) resolveOwner(reference string) (uuid.UUID, string, error) {
	if player, ok := s.world.FindPlayer(reference); ok {
		return player.ID(), player.Label(), nil
	}
	if id, err := uuid.Parse(reference); err == nil {
		return id, id.String(), nil
	}
	return uuid.Nil, "", cli.NotFound("no player named %q", reference)
}

// checkBindable refuses stacks that cannot carry an owner or have
// already expired, and warns about tags left by other tools.
func (s *session) checkBindable(it item.Item, force bool) error {
	if !force {
		if !s.items.IsValidItemForAttribution(it) {
			return cli.Conflict("%s cannot be bound (use --force to bind it anyway)", it.Kind())
		}
		if s.items.IsExpired(it) {
			return cli.Conflict("%s: %w (use --force to bind it anyway)", it, itemmeta.ErrExpiredItem)
		}
	}
	if s.items.HasConflictingNBT(it) {
		s.logger.Warn("stack carries ownership or expiry tags from another namespace", "item", it.String())
	}
	return nil
}

func bindSetCommand(env *environment) *cli.Command {
	var params bindParams
	return &cli.Command{
		Name:    "set",
		Summary: "Bind a stack to a player",
		Usage:   "warden bind set <holder> <slot|cursor> <owner> [flags]",
		Examples: []cli.Example{
			{Description: "Bind Alice's sword to her", Command: "warden bind set Alice 0 Alice -f world.yaml"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("set", &params)
		},
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, 3, "warden bind set <holder> <slot|cursor> <owner>"); err != nil {
				return err
			}
			s, err := params.open(env, "bind/set")
			if err != nil {
				return err
			}
			location, it, err := s.occupied(args[0], args[1])
			if err != nil {
				return err
			}
			owner, ownerLabel, err := s.resolveOwner(args[2])
			if err != nil {
				return err
			}
			if current, ok := s.items.GetAttribution(it); ok && current != owner && !params.Force {
				return cli.Conflict("%s: %w (use --force to rebind it)", location.label, itemmeta.ErrAttribution)
			}
			if err := s.checkBindable(it, params.Force); err != nil {
				return err
			}
			bound, err := s.items.SetAttribution(it, owner)
			if err != nil {
				return metadataError(err)
			}
			location.set(bound)
			if err := s.save(); err != nil {
				return err
			}
			s.logger.Info("attribution set", "location", location.label, "item", bound.String(), "owner", owner)
			fmt.Fprintf(env.stdout, "%s: %s bound to %s\n", location.label, bound, ownerLabel)
			return nil
		},
	}
}

type bindGiveParams struct {
	WorldParams
	Force  bool `json:"force" flag:"force" desc:"bind materials that are not normally attributable"`
	Amount int  `json:"amount" flag:"amount" desc:"stack size of the copy (default: same as the source)"`
}

func bindGiveCommand(env *environment) *cli.Command {
	var params bindGiveParams
	return &cli.Command{
		Name:    "give",
		Summary: "Give a player a bound copy of a stack",
		Description: `Copy a stack, bind the copy to a player, and place it in the first
empty slot of that player's inventory. The source stack is left as it
was; any owner it had is replaced on the copy, never duplicated.`,
		Usage: "warden bind give <holder> <slot|cursor> <player> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("give", &params)
		},
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, 3, "warden bind give <holder> <slot|cursor> <player>"); err != nil {
				return err
			}
			s, err := params.open(env, "bind/give")
			if err != nil {
				return err
			}
			location, it, err := s.occupied(args[0], args[1])
			if err != nil {
				return err
			}
			recipient, ok := s.world.FindPlayer(args[2])
			if !ok {
				return cli.NotFound("no player named %q", args[2])
			}
			if err := s.checkBindable(it, params.Force); err != nil {
				return err
			}
			if params.Amount < 0 {
				return cli.Validation("--amount must be positive, got %d", params.Amount)
			}
			if params.Amount > 0 {
				if limit := s.items.Catalog().Lookup(it.Kind()).MaxStack; params.Amount > limit {
					return cli.Validation("--amount %d exceeds the stack limit of %d for %s", params.Amount, limit, it.Kind())
				}
				it = it.WithAmount(params.Amount)
			}

			copied, err := s.items.CopyWithAttribution(it, recipient.ID())
			if err != nil {
				return metadataError(err)
			}
			slot := recipient.Grid().Add(copied)
			if slot < 0 {
				return cli.Conflict("%s has no empty slot", recipient.Label())
			}
			if err := s.save(); err != nil {
				return err
			}
			s.logger.Info("bound copy given", "source", location.label, "item", copied.String(),
				"recipient", recipient.ID(), "slot", slot)
			fmt.Fprintf(env.stdout, "%s slot %d: %s bound to %s\n", recipient.Label(), slot, copied, recipient.Label())
			return nil
		},
	}
}

func bindClearCommand(env *environment) *cli.Command {
	var params WorldParams
	return &cli.Command{
		Name:    "clear",
		Summary: "Release a stack from its owner",
		Usage:   "warden bind clear <holder> <slot|cursor> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("clear", &params)
		},
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, 2, "warden bind clear <holder> <slot|cursor>"); err != nil {
				return err
			}
			s, err := params.open(env, "bind/clear")
			if err != nil {
				return err
			}
			location, it, err := s.occupied(args[0], args[1])
			if err != nil {
				return err
			}
			if !s.items.HasAttribution(it) {
				fmt.Fprintf(env.stdout, "%s: %s is not bound\n", location.label, it)
				return nil
			}
			location.set(s.items.RemoveAttribution(it))
			if err := s.save(); err != nil {
				return err
			}
			s.logger.Info("attribution cleared", "location", location.label, "item", it.String())
			fmt.Fprintf(env.stdout, "%s: %s released\n", location.label, it)
			return nil
		},
	}
}
