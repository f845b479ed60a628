// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package itemmeta

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/warden/lib/inventory"
	"github.com/bureau-foundation/warden/lib/item"
)

// AttributedItems returns the slots holding items bound to owner.
func (m *Manager) AttributedItems(inv inventory.Inventory, owner uuid.UUID) []inventory.Slot {
	return inventory.Matching(inv, func(it item.Item) bool {
		bound, ok := m.GetAttribution(it)
		return ok && bound == owner
	})
}

// ExpirableItems returns the slots holding items that have an expiry
// and have not yet reached it.
func (m *Manager) ExpirableItems(inv inventory.Inventory) []inventory.Slot {
	return inventory.Matching(inv, func(it item.Item) bool {
		_, ok := m.GetExpiry(it)
		return ok && !m.IsExpired(it)
	})
}

// Expiring is an unexpired item due to expire soon.
type Expiring struct {
	Slot     int
	Item     item.Item
	ExpireAt time.Time
}

// ExpiringWithin returns the unexpired items whose expiry falls within
// window of now, soonest first. Slot order breaks ties.
func (m *Manager) ExpiringWithin(inv inventory.Inventory, window time.Duration) []Expiring {
	now := m.clock.Now()
	var result []Expiring
	for _, slot := range m.ExpirableItems(inv) {
		at, _ := m.GetExpiry(slot.Item)
		if at.Sub(now) <= window {
			result = append(result, Expiring{Slot: slot.Index, Item: slot.Item, ExpireAt: at})
		}
	}
	slices.SortStableFunc(result, func(a, b Expiring) int {
		return a.ExpireAt.Compare(b.ExpireAt)
	})
	return result
}

// Status summarises an item's expiry state.
type Status string

const (
	StatusPermanent Status = "permanent"
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
)

// Info is everything worth showing about one item to one viewer.
type Info struct {
	Kind   item.Kind `json:"kind"`
	Amount int       `json:"amount"`
	Status Status    `json:"status"`

	ExpireAt  *time.Time    `json:"expire_at,omitempty"`
	Remaining time.Duration `json:"remaining_ns,omitempty"`

	Owner     *uuid.UUID `json:"owner,omitempty"`
	OwnerName string     `json:"owner_name,omitempty"`
	// ViewerOwns is true when Owner is set and equals the viewer.
	ViewerOwns bool `json:"viewer_owns"`

	Conflicting  bool `json:"conflicting_tags"`
	Attributable bool `json:"attributable"`
}

// Describe gathers Info for it as seen by viewer, which may be
// uuid.Nil.
func (m *Manager) Describe(it item.Item, viewer uuid.UUID) Info {
	info := Info{
		Kind:         it.Kind(),
		Amount:       it.Amount(),
		Status:       StatusPermanent,
		Conflicting:  m.HasConflictingNBT(it),
		Attributable: m.IsValidItemForAttribution(it),
	}
	if at, ok := m.GetExpiry(it); ok {
		info.ExpireAt = &at
		info.Remaining = m.RemainingTime(it)
		info.Status = StatusActive
		if m.IsExpired(it) {
			info.Status = StatusExpired
		}
	}
	if owner, ok := m.GetAttribution(it); ok {
		info.Owner = &owner
		info.OwnerName = m.ownerName(owner)
		info.ViewerOwns = owner == viewer
	}
	return info
}
