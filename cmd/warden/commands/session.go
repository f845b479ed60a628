// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bureau-foundation/warden/cmd/warden/cli"
	"github.com/bureau-foundation/warden/lib/clock"
	"github.com/bureau-foundation/warden/lib/config"
	"github.com/bureau-foundation/warden/lib/item"
	"github.com/bureau-foundation/warden/lib/itemmeta"
	"github.com/bureau-foundation/warden/lib/snapshot"
	"github.com/bureau-foundation/warden/lib/ttl"
	"github.com/bureau-foundation/warden/lib/world"
)

// environment carries the process streams into every command.
type environment struct {
	stdout io.Writer
	stderr io.Writer
}

// ConfigParams selects the configuration file.
type ConfigParams struct {
	Config string `json:"-" flag:"config" desc:"path to warden.yaml (default: $WARDEN_CONFIG, else built-in defaults)"`
}

// load returns the configuration named by --config, then
// WARDEN_CONFIG, then the built-in defaults.
func (p *ConfigParams) load() (*config.Config, error) {
	switch {
	case p.Config != "":
		return config.LoadFile(p.Config)
	case os.Getenv(config.EnvVar) != "":
		return config.Load()
	default:
		return config.Default(), nil
	}
}

// WorldParams is embedded by every command that operates on a world
// snapshot.
type WorldParams struct {
	ConfigParams
	File string `json:"-" flag:"file,f" desc:"world snapshot file (default: snapshot from config)"`
	At   string `json:"-" flag:"at" desc:"evaluate policy as of this RFC 3339 time instead of now"`

	// pinClock makes the session clock a fake one even without --at,
	// for commands that advance simulated time.
	pinClock bool
}

// session is one command's view of a loaded world.
type session struct {
	config *config.Config
	path   string
	world  *world.World
	items  *itemmeta.Manager
	clock  clock.Clock
	// fake is the session clock when it was pinned, nil otherwise.
	fake   *clock.FakeClock
	logger *slog.Logger
}

// open loads the configuration and the snapshot.
func (p *WorldParams) open(env *environment, command string) (*session, error) {
	cfg, err := p.load()
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	path := p.File
	if path == "" {
		path = cfg.Snapshot
	}
	if path == "" {
		return nil, cli.Validation("no snapshot file: pass --file or set snapshot in the config")
	}

	var clk clock.Clock = clock.Real()
	var fake *clock.FakeClock
	if p.At != "" {
		at, err := time.Parse(time.RFC3339, p.At)
		if err != nil {
			return nil, cli.Validation("--at: %w", err)
		}
		fake = clock.Fake(at)
	} else if p.pinClock {
		fake = clock.Fake(clk.Now())
	}
	if fake != nil {
		clk = fake
	}

	level, _ := cfg.LogLevel()
	logger := cli.NewCommandLogger(env.stderr, level).With("command", command, "snapshot", path)

	doc, err := snapshot.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, cli.NotFound("%w", err)
		}
		return nil, cli.Internal("%w", err)
	}
	w, err := snapshot.ToWorld(doc, cfg.Catalog())
	if err != nil {
		return nil, cli.Internal("%s: %w", path, err)
	}

	items := itemmeta.New(
		itemmeta.WithNamespace(cfg.Namespace),
		itemmeta.WithClock(clk),
		itemmeta.WithCatalog(cfg.Catalog()),
		itemmeta.WithNames(w),
		itemmeta.WithFormat(cfg.AnnotationFormat()),
		itemmeta.WithLogger(logger),
	)

	return &session{
		config: cfg,
		path:   path,
		world:  w,
		items:  items,
		clock:  clk,
		fake:   fake,
		logger: logger,
	}, nil
}

// save writes the world back to the snapshot it was read from.
func (s *session) save() error {
	if err := snapshot.Write(s.path, snapshot.FromWorld(s.world)); err != nil {
		return cli.Internal("%w", err)
	}
	s.logger.Debug("snapshot written")
	return nil
}

// holdings returns every holding, or the one named by reference.
func (s *session) holdings(reference string) ([]world.Holding, error) {
	if reference == "" {
		return s.world.Holdings(), nil
	}
	holding, _, err := s.holding(reference)
	if err != nil {
		return nil, err
	}
	return []world.Holding{holding}, nil
}

// holding resolves a player (by name or identity) or a container name.
// The player is nil for containers.
func (s *session) holding(reference string) (world.Holding, *world.Player, error) {
	if player, ok := s.world.FindPlayer(reference); ok {
		return world.Holding{Label: player.Label(), Inventory: player.Inventory()}, player, nil
	}
	if grid, ok := s.world.Container(reference); ok {
		return world.Holding{Label: reference, Inventory: grid}, nil, nil
	}
	return world.Holding{}, nil, cli.NotFound("no player or container named %q", reference)
}

// cursorSlot is the slot reference that addresses a player's cursor.
const cursorSlot = "cursor"

// target is one addressable item location.
type target struct {
	label string
	get   func() item.Item
	set   func(item.Item)
}

// target resolves a holder and slot reference. The slot is an index or
// "cursor" for a player's cursor.
func (s *session) target(holderReference, slotReference string) (target, error) {
	holding, player, err := s.holding(holderReference)
	if err != nil {
		return target{}, err
	}

	if strings.EqualFold(slotReference, cursorSlot) {
		if player == nil {
			return target{}, cli.Validation("%s is a container and has no cursor", holding.Label)
		}
		return target{
			label: holding.Label + " cursor",
			get:   player.Cursor,
			set:   player.SetCursor,
		}, nil
	}

	index, err := strconv.Atoi(slotReference)
	if err != nil || index < 0 || index >= holding.Inventory.Size() {
		return target{}, cli.Validation("slot %q: want an index in [0, %d) or %q",
			slotReference, holding.Inventory.Size(), cursorSlot)
	}
	inv := holding.Inventory
	return target{
		label: fmt.Sprintf("%s slot %d", holding.Label, index),
		get:   func() item.Item { return inv.Get(index) },
		set:   func(it item.Item) { inv.Set(index, it) },
	}, nil
}

// occupied resolves a target and fails when it holds nothing.
func (s *session) occupied(holderReference, slotReference string) (target, item.Item, error) {
	location, err := s.target(holderReference, slotReference)
	if err != nil {
		return target{}, item.Empty, err
	}
	it := location.get()
	if it.IsEmpty() {
		return target{}, item.Empty, cli.Validation("%s is empty", location.label)
	}
	return location, it, nil
}

// timestamp formats t for display with the configured layout and zone.
func (s *session) timestamp(t time.Time) string {
	format := s.config.AnnotationFormat()
	return ttl.FormatTimestamp(t, format.TimeLayout, format.Location)
}

// metadataError classifies errors from itemmeta.
func metadataError(err error) error {
	switch {
	case errors.Is(err, itemmeta.ErrInvalidTime):
		return cli.Validation("%w", err)
	case errors.Is(err, itemmeta.ErrInvalidItem), errors.Is(err, itemmeta.ErrAttribution):
		return cli.Conflict("%w", err)
	default:
		return cli.Internal("%w", err)
	}
}
