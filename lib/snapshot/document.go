// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/bureau-foundation/warden/lib/inventory"
	"github.com/bureau-foundation/warden/lib/item"
	"github.com/bureau-foundation/warden/lib/world"
)

// Version is the document version written by this package. Documents
// with a higher version are rejected.
const Version = 1

// DefaultContainerSize is used for containers that omit a size.
const DefaultContainerSize = 27

// Document is the on-disk form of a world.
type Document struct {
	Version    int               `json:"version" yaml:"version"`
	Actors     []ActorRecord     `json:"actors,omitempty" yaml:"actors,omitempty"`
	Containers []ContainerRecord `json:"containers,omitempty" yaml:"containers,omitempty"`
	Entities   []item.Item       `json:"entities,omitempty" yaml:"entities,omitempty"`
}

// ActorRecord is one player.
type ActorRecord struct {
	ID     string       `json:"id" yaml:"id"`
	Name   string       `json:"name,omitempty" yaml:"name,omitempty"`
	Online bool         `json:"online,omitempty" yaml:"online,omitempty"`
	Slots  []SlotRecord `json:"slots,omitempty" yaml:"slots,omitempty"`
	Cursor *item.Item   `json:"cursor,omitempty" yaml:"cursor,omitempty"`
}

// ContainerRecord is one named container.
type ContainerRecord struct {
	Name  string       `json:"name" yaml:"name"`
	Type  string       `json:"type" yaml:"type"`
	Size  int          `json:"size,omitempty" yaml:"size,omitempty"`
	Slots []SlotRecord `json:"slots,omitempty" yaml:"slots,omitempty"`
}

// SlotRecord is one occupied slot.
type SlotRecord struct {
	Index int       `json:"index" yaml:"index"`
	Item  item.Item `json:"item" yaml:"item"`
}

// ToWorld builds a world from doc. Stacks larger than the catalog's
// limit for their kind are rejected, as are slot indices outside the
// inventory and slots listed twice.
func ToWorld(doc *Document, catalog item.Catalog) (*world.World, error) {
	if doc.Version > Version {
		return nil, fmt.Errorf("snapshot version %d is newer than supported version %d", doc.Version, Version)
	}

	w := world.New()
	for index, record := range doc.Actors {
		id, err := uuid.Parse(record.ID)
		if err != nil {
			return nil, fmt.Errorf("actors[%d]: invalid id %q: %w", index, record.ID, err)
		}
		player, err := w.AddPlayer(id, record.Name)
		if err != nil {
			return nil, fmt.Errorf("actors[%d]: %w", index, err)
		}
		if err := fill(player.Grid(), record.Slots, catalog); err != nil {
			return nil, fmt.Errorf("actor %s: %w", player.Label(), err)
		}
		if record.Cursor != nil {
			if err := checkStack(*record.Cursor, catalog); err != nil {
				return nil, fmt.Errorf("actor %s: cursor: %w", player.Label(), err)
			}
			player.SetCursor(*record.Cursor)
		}
		if record.Online {
			player.Join()
		}
	}

	for index, record := range doc.Containers {
		kind, err := inventory.ParseType(record.Type)
		if err != nil {
			return nil, fmt.Errorf("containers[%d]: %w", index, err)
		}
		size := record.Size
		if size == 0 {
			size = DefaultContainerSize
		}
		grid, err := w.AddContainer(record.Name, kind, size)
		if err != nil {
			return nil, fmt.Errorf("containers[%d]: %w", index, err)
		}
		if err := fill(grid, record.Slots, catalog); err != nil {
			return nil, fmt.Errorf("container %q: %w", record.Name, err)
		}
	}

	for index, it := range doc.Entities {
		if err := checkStack(it, catalog); err != nil {
			return nil, fmt.Errorf("entities[%d]: %w", index, err)
		}
		if _, err := w.Spawn(it); err != nil {
			return nil, fmt.Errorf("entities[%d]: %w", index, err)
		}
	}
	return w, nil
}

func fill(grid *inventory.Grid, slots []SlotRecord, catalog item.Catalog) error {
	seen := make(map[int]bool, len(slots))
	for _, slot := range slots {
		if slot.Index < 0 || slot.Index >= grid.Size() {
			return fmt.Errorf("slot %d outside inventory of %d slots", slot.Index, grid.Size())
		}
		if seen[slot.Index] {
			return fmt.Errorf("slot %d listed twice", slot.Index)
		}
		seen[slot.Index] = true
		if err := checkStack(slot.Item, catalog); err != nil {
			return fmt.Errorf("slot %d: %w", slot.Index, err)
		}
		grid.Set(slot.Index, slot.Item)
	}
	return nil
}

func checkStack(it item.Item, catalog item.Catalog) error {
	if it.IsEmpty() {
		return nil
	}
	if limit := catalog.Lookup(it.Kind()).MaxStack; it.Amount() > limit {
		return fmt.Errorf("%s exceeds the stack limit of %d", it, limit)
	}
	return nil
}

// FromWorld captures w. Empty slots and empty cursors are omitted.
func FromWorld(w *world.World) *Document {
	doc := &Document{Version: Version}
	for _, player := range w.Players() {
		record := ActorRecord{
			ID:     player.ID().String(),
			Name:   player.Name(),
			Online: player.Online(),
			Slots:  slotRecords(player.Inventory()),
		}
		if cursor := player.Cursor(); !cursor.IsEmpty() {
			record.Cursor = &cursor
		}
		doc.Actors = append(doc.Actors, record)
	}
	for _, name := range w.ContainerNames() {
		grid, _ := w.Container(name)
		doc.Containers = append(doc.Containers, ContainerRecord{
			Name:  name,
			Type:  string(grid.Type()),
			Size:  grid.Size(),
			Slots: slotRecords(grid),
		})
	}
	for _, entity := range w.Entities() {
		doc.Entities = append(doc.Entities, entity.Item())
	}
	return doc
}

func slotRecords(inv inventory.Inventory) []SlotRecord {
	var records []SlotRecord
	for _, slot := range inventory.Occupied(inv) {
		records = append(records, SlotRecord{Index: slot.Index, Item: slot.Item})
	}
	return records
}
