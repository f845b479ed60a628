// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package itemmeta

import (
	"github.com/google/uuid"

	"github.com/bureau-foundation/warden/lib/inventory"
	"github.com/bureau-foundation/warden/lib/item"
)

// PurgeExpired clears every slot holding an expired item and returns
// the removed items in slot order. No events are raised; the caller
// decides whether anyone should be told.
func (m *Manager) PurgeExpired(inv inventory.Inventory) []item.Item {
	var removed []item.Item
	for _, slot := range inventory.Matching(inv, m.IsExpired) {
		inv.Set(slot.Index, item.Empty)
		removed = append(removed, slot.Item)
	}
	if len(removed) > 0 {
		m.logger.Debug("purged expired items", "inventory", inv.Type(), "removed", len(removed))
	}
	return removed
}

// CountAttributed sums the amounts of every stack bound to owner.
func (m *Manager) CountAttributed(inv inventory.Inventory, owner uuid.UUID) int {
	total := 0
	for _, slot := range m.AttributedItems(inv, owner) {
		total += slot.Item.Amount()
	}
	return total
}
