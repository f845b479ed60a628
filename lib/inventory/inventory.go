// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package inventory models slot-addressed item holdings: a player's
// inventory, a chest, a furnace. Hosts implement [Inventory] over their
// own storage; [Grid] is the in-memory implementation used by the
// warden CLI and tests.
//
// Slots hold immutable [item.Item] values. Writing a slot replaces the
// value; nothing reaches into a stored item to change it.
package inventory

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/bureau-foundation/warden/lib/item"
)

// Type classifies an inventory.
type Type string

const (
	Player       Type = "player"
	Chest        Type = "chest"
	Dispenser    Type = "dispenser"
	Dropper      Type = "dropper"
	Furnace      Type = "furnace"
	Brewing      Type = "brewing"
	Hopper       Type = "hopper"
	ShulkerBox   Type = "shulker_box"
	Barrel       Type = "barrel"
	BlastFurnace Type = "blast_furnace"
	Smoker       Type = "smoker"
	Crafting     Type = "crafting"
	EnderChest   Type = "ender_chest"
)

var knownTypes = []Type{
	Player, Chest, Dispenser, Dropper, Furnace, Brewing, Hopper,
	ShulkerBox, Barrel, BlastFurnace, Smoker, Crafting, EnderChest,
}

// ParseType accepts a type name in any case.
func ParseType(name string) (Type, error) {
	candidate := Type(strings.ToLower(strings.TrimSpace(name)))
	if slices.Contains(knownTypes, candidate) {
		return candidate, nil
	}
	return "", fmt.Errorf("unknown inventory type %q", name)
}

// TypeSet is a set of inventory types.
type TypeSet map[Type]struct{}

// NewTypeSet returns a set holding types.
func NewTypeSet(types ...Type) TypeSet {
	set := make(TypeSet, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

// Contains reports membership. A nil set contains nothing.
func (s TypeSet) Contains(t Type) bool {
	_, ok := s[t]
	return ok
}

// DefaultContainers is the set of block containers whose contents are
// swept on open and guarded against extraction of foreign items.
func DefaultContainers() TypeSet {
	return NewTypeSet(Chest, Dispenser, Dropper, Furnace, Brewing, Hopper,
		ShulkerBox, Barrel, BlastFurnace, Smoker)
}

// Inventory is a fixed number of slots. Get on an out-of-range slot
// returns item.Empty; Set on one is ignored.
type Inventory interface {
	Type() Type
	Size() int
	Get(slot int) item.Item
	Set(slot int, it item.Item)
}

// Grid is an in-memory Inventory safe for concurrent use.
type Grid struct {
	kind  Type
	mu    sync.RWMutex
	slots []item.Item
}

// NewGrid returns an empty grid. It panics on a negative size.
func NewGrid(kind Type, size int) *Grid {
	if size < 0 {
		panic(fmt.Sprintf("inventory.NewGrid: negative size %d", size))
	}
	return &Grid{kind: kind, slots: make([]item.Item, size)}
}

// Type returns the grid's inventory type.
func (g *Grid) Type() Type { return g.kind }

// Size returns the slot count.
func (g *Grid) Size() int { return len(g.slots) }

// Get returns the item in slot.
func (g *Grid) Get(slot int) item.Item {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if slot < 0 || slot >= len(g.slots) {
		return item.Empty
	}
	return g.slots[slot]
}

// Set stores it in slot. Empty items are normalised to item.Empty.
func (g *Grid) Set(slot int, it item.Item) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if slot < 0 || slot >= len(g.slots) {
		return
	}
	if it.IsEmpty() {
		it = item.Empty
	}
	g.slots[slot] = it
}

// Snapshot returns a copy of every slot.
func (g *Grid) Snapshot() []item.Item {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.slots)
}

// Add places it into the first empty slot and returns that slot, or -1
// when the grid is full.
func (g *Grid) Add(it item.Item) int {
	if it.IsEmpty() {
		return -1
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for slot, existing := range g.slots {
		if existing.IsEmpty() {
			g.slots[slot] = it
			return slot
		}
	}
	return -1
}
