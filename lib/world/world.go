// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package world is an in-process host for the enforcement matrix:
// players with inventories and cursors, named block containers, and
// item entities lying on the ground. The warden CLI loads a world from
// a snapshot file, runs operations against it, and writes it back.
//
// A World is safe for concurrent use. The inventories it hands out are
// [inventory.Grid] values and carry their own locking.
package world

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/bureau-foundation/warden/lib/enforce"
	"github.com/bureau-foundation/warden/lib/inventory"
	"github.com/bureau-foundation/warden/lib/item"
	"github.com/bureau-foundation/warden/lib/itemmeta"
	"github.com/bureau-foundation/warden/lib/sweep"
)

// PlayerSlots is the size of a player inventory.
const PlayerSlots = 36

var (
	_ enforce.Actor         = (*Player)(nil)
	_ enforce.Dropped       = (*Entity)(nil)
	_ sweep.ActorSource     = (*World)(nil)
	_ itemmeta.NameResolver = (*World)(nil)
)

// World holds every player, container, and entity.
type World struct {
	mu sync.RWMutex

	players     map[uuid.UUID]*Player
	playerOrder []uuid.UUID

	containers     map[string]*inventory.Grid
	containerOrder []string

	entities   map[uint64]*Entity
	nextEntity uint64
}

// New returns an empty world.
func New() *World {
	return &World{
		players:    make(map[uuid.UUID]*Player),
		containers: make(map[string]*inventory.Grid),
		entities:   make(map[uint64]*Entity),
	}
}

// AddPlayer registers a player with an empty inventory. The player
// starts offline; call Join to bring them online.
func (w *World) AddPlayer(id uuid.UUID, name string) (*Player, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("player %q has the nil identity", name)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if existing, ok := w.players[id]; ok {
		return nil, fmt.Errorf("player %s already exists as %q", id, existing.name)
	}
	player := &Player{
		id:        id,
		name:      name,
		inventory: inventory.NewGrid(inventory.Player, PlayerSlots),
	}
	w.players[id] = player
	w.playerOrder = append(w.playerOrder, id)
	return player, nil
}

// Player looks up a player by identity.
func (w *World) Player(id uuid.UUID) (*Player, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	player, ok := w.players[id]
	return player, ok
}

// FindPlayer resolves a reference to a player: either the string form
// of an identity or a name, compared case-insensitively.
func (w *World) FindPlayer(reference string) (*Player, bool) {
	if id, err := uuid.Parse(reference); err == nil {
		return w.Player(id)
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, id := range w.playerOrder {
		if strings.EqualFold(w.players[id].name, reference) {
			return w.players[id], true
		}
	}
	return nil, false
}

// Players returns every registered player in registration order.
func (w *World) Players() []*Player {
	w.mu.RLock()
	defer w.mu.RUnlock()
	players := make([]*Player, 0, len(w.playerOrder))
	for _, id := range w.playerOrder {
		players = append(players, w.players[id])
	}
	return players
}

// Online returns the players currently online, in registration order.
func (w *World) Online() []enforce.Actor {
	var online []enforce.Actor
	for _, player := range w.Players() {
		if player.Online() {
			online = append(online, player)
		}
	}
	return online
}

// Name resolves a player's display name.
func (w *World) Name(id uuid.UUID) (string, bool) {
	player, ok := w.Player(id)
	if !ok || player.name == "" {
		return "", false
	}
	return player.name, true
}

// AddContainer registers a named block container.
func (w *World) AddContainer(name string, kind inventory.Type, size int) (*inventory.Grid, error) {
	if name == "" {
		return nil, fmt.Errorf("container name is required")
	}
	if size <= 0 {
		return nil, fmt.Errorf("container %q: size must be positive, got %d", name, size)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.containers[name]; ok {
		return nil, fmt.Errorf("container %q already exists", name)
	}
	grid := inventory.NewGrid(kind, size)
	w.containers[name] = grid
	w.containerOrder = append(w.containerOrder, name)
	return grid, nil
}

// Container looks up a container by name.
func (w *World) Container(name string) (*inventory.Grid, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	grid, ok := w.containers[name]
	return grid, ok
}

// ContainerNames returns the container names in registration order.
func (w *World) ContainerNames() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.containerOrder)
}

// Holding is an inventory with a label for reports: a player's name or
// a container's name.
type Holding struct {
	Label     string
	Inventory inventory.Inventory
}

// Holdings returns every player inventory followed by every container.
func (w *World) Holdings() []Holding {
	var holdings []Holding
	for _, player := range w.Players() {
		holdings = append(holdings, Holding{Label: player.Label(), Inventory: player.inventory})
	}
	for _, name := range w.ContainerNames() {
		grid, _ := w.Container(name)
		holdings = append(holdings, Holding{Label: name, Inventory: grid})
	}
	return holdings
}

// Spawn places it on the ground and returns the entity. Empty items
// are not spawned.
func (w *World) Spawn(it item.Item) (*Entity, error) {
	if it.IsEmpty() {
		return nil, fmt.Errorf("cannot spawn an empty item")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextEntity++
	entity := &Entity{world: w, id: w.nextEntity, item: it}
	w.entities[entity.id] = entity
	return entity, nil
}

// Entities returns the entities still in the world, oldest first.
func (w *World) Entities() []*Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	entities := make([]*Entity, 0, len(w.entities))
	for _, entity := range w.entities {
		entities = append(entities, entity)
	}
	slices.SortFunc(entities, func(a, b *Entity) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		}
		return 0
	})
	return entities
}

// Player is a participant with a 36-slot inventory and a cursor.
type Player struct {
	id        uuid.UUID
	name      string
	inventory *inventory.Grid

	mu     sync.Mutex
	cursor item.Item
	online bool
}

// ID returns the player's identity.
func (p *Player) ID() uuid.UUID { return p.id }

// Name returns the display name, which may be empty.
func (p *Player) Name() string { return p.name }

// Label returns the name, or the identity when there is no name.
func (p *Player) Label() string {
	if p.name != "" {
		return p.name
	}
	return p.id.String()
}

// Inventory returns the player's inventory.
func (p *Player) Inventory() inventory.Inventory { return p.inventory }

// Grid returns the player's inventory as its concrete type.
func (p *Player) Grid() *inventory.Grid { return p.inventory }

// Cursor returns the stack held on the cursor.
func (p *Player) Cursor() item.Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// SetCursor replaces the stack held on the cursor.
func (p *Player) SetCursor(it item.Item) {
	if it.IsEmpty() {
		it = item.Empty
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cursor = it
}

// Online reports whether the player is online.
func (p *Player) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

// Join brings the player online. It reports false if the player was
// already online.
func (p *Player) Join() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.online {
		return false
	}
	p.online = true
	return true
}

// Leave takes the player offline.
func (p *Player) Leave() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online = false
}

// Entity is an item lying on the ground.
type Entity struct {
	world *World
	id    uint64
	item  item.Item
}

// ID returns the entity's sequence number within its world.
func (e *Entity) ID() uint64 { return e.id }

// Item returns the stack the entity carries.
func (e *Entity) Item() item.Item { return e.item }

// Remove deletes the entity from the world. Removing twice is
// harmless.
func (e *Entity) Remove() {
	e.world.mu.Lock()
	defer e.world.mu.Unlock()
	delete(e.world.entities, e.id)
}

// Removed reports whether the entity is gone from the world.
func (e *Entity) Removed() bool {
	e.world.mu.RLock()
	defer e.world.mu.RUnlock()
	_, ok := e.world.entities[e.id]
	return !ok
}
