// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package enforce

import (
	"github.com/google/uuid"

	"github.com/bureau-foundation/warden/lib/inventory"
	"github.com/bureau-foundation/warden/lib/item"
	"github.com/bureau-foundation/warden/lib/itemevent"
	"github.com/bureau-foundation/warden/lib/tick"
)

// SweepHoldings raises Expired for every expired item in the actor's
// inventory and clears each slot whose event was not cancelled. It
// returns the removed items. Nothing is blocked; sweeps run outside
// any interaction.
func (m *Matrix) SweepHoldings(actor Actor, action itemevent.Action) []item.Item {
	removed := m.sweepInventory(actor.ID(), actor.Inventory(), action)
	if len(removed) > 0 {
		m.logger.Info("removed expired items from holdings",
			"actor", actor.ID(),
			"action", action,
			"removed", len(removed),
		)
	}
	return removed
}

// SweepContainer removes expired items from a container on behalf of
// opener, raising Expired per item, then one ContainerExpired listing
// everything removed. No batch event is raised when nothing was
// removed.
func (m *Matrix) SweepContainer(opener Actor, container inventory.Inventory) []item.Item {
	openerID := opener.ID()
	removed := m.sweepInventory(openerID, container, itemevent.ContainerAccess)
	if len(removed) == 0 {
		return nil
	}
	m.bus.Dispatch(itemevent.ContainerExpired{
		Container: container,
		Removed:   removed,
		Opener:    openerID,
	})
	m.logger.Info("removed expired items from container",
		"container", container.Type(),
		"opener", openerID,
		"removed", len(removed),
	)
	return removed
}

func (m *Matrix) sweepInventory(actor uuid.UUID, inv inventory.Inventory, action itemevent.Action) []item.Item {
	var removed []item.Item
	for _, slot := range inventory.Matching(inv, m.items.IsExpired) {
		result := m.evaluate(actor, slot.Item, action)
		if result.reason != ReasonExpired || result.vetoed {
			continue
		}
		// An observer may have rearranged the inventory while handling
		// the event; only clear what is still there.
		if inv.Get(slot.Index).Equal(slot.Item) {
			inv.Set(slot.Index, item.Empty)
			removed = append(removed, slot.Item)
		}
	}
	return removed
}

// ContainerOpen schedules the open sweep OpenDelay ticks from now: the
// opener's holdings, then the opened inventory when it is a container.
// Expired events for the opener's holdings carry periodic_check; those
// for the container's contents carry container_access. The returned
// task can be cancelled if the actor leaves first.
func (m *Matrix) ContainerOpen(opener Actor, opened inventory.Inventory) *tick.Task {
	return m.scheduler.After(m.openDelay, func() {
		m.SweepHoldings(opener, itemevent.PeriodicCheck)
		if m.IsContainer(opened) {
			m.SweepContainer(opener, opened)
		}
	})
}

// Join schedules a holdings sweep JoinDelay ticks after an actor
// connects, catching items that expired while the actor was away.
func (m *Matrix) Join(actor Actor) *tick.Task {
	return m.scheduler.After(m.joinDelay, func() {
		m.SweepHoldings(actor, itemevent.PeriodicCheck)
	})
}
