// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package enforce

import (
	"github.com/bureau-foundation/warden/lib/inventory"
	"github.com/bureau-foundation/warden/lib/item"
	"github.com/bureau-foundation/warden/lib/itemevent"
)

// Pickup checks an actor picking up a dropped item. An expired item is
// destroyed and never reaches the actor; a foreign-bound one is left
// where it lies.
func (m *Matrix) Pickup(actor Actor, dropped Dropped) Decision {
	it := dropped.Item()
	result := m.evaluate(actor.ID(), it, itemevent.Pickup)
	decision := Decision{Reason: result.reason, Vetoed: result.vetoed}
	switch {
	case result.reason == ReasonNone || result.vetoed:
	case result.reason == ReasonExpired:
		dropped.Remove()
		decision.Blocked = true
		decision.Destroyed = true
	default:
		decision.Blocked = true
	}
	m.logDecision(actor.ID(), it, itemevent.Pickup, decision)
	return decision
}

// Use checks an actor using the held item.
func (m *Matrix) Use(actor Actor, held item.Item) Decision {
	return m.blockAndPurge(actor, held, itemevent.Use)
}

// Place checks an actor placing the held item as a block.
func (m *Matrix) Place(actor Actor, inHand item.Item) Decision {
	return m.blockAndPurge(actor, inHand, itemevent.PlaceBlock)
}

// Consume checks an actor eating or drinking it.
func (m *Matrix) Consume(actor Actor, it item.Item) Decision {
	return m.blockAndPurge(actor, it, itemevent.Consume)
}

// blockAndPurge blocks the action, and for expired items queues
// removal of every equal stack from the actor's inventory.
func (m *Matrix) blockAndPurge(actor Actor, it item.Item, action itemevent.Action) Decision {
	result := m.evaluate(actor.ID(), it, action)
	decision := Decision{Reason: result.reason, Vetoed: result.vetoed}
	if result.reason != ReasonNone && !result.vetoed {
		decision.Blocked = true
		if result.reason == ReasonExpired {
			m.scheduler.Defer(func() {
				inventory.RemoveAll(actor.Inventory(), it)
			})
			decision.Deferred = true
		}
	}
	m.logDecision(actor.ID(), it, action, decision)
	return decision
}

// Click describes an inventory slot click: the slot under the pointer
// in the clicked inventory, together with whatever the actor holds on
// the cursor.
type Click struct {
	Actor Actor
	// Inventory is the clicked inventory, nil for clicks outside any
	// inventory.
	Inventory inventory.Inventory
	Slot      int
}

func (c Click) current() item.Item {
	if c.Inventory == nil {
		return item.Empty
	}
	return c.Inventory.Get(c.Slot)
}

// Click checks an inventory click. Taking a foreign-bound item out of
// a container is denied first and ends the check. Otherwise the
// clicked item and the cursor item are each checked; an expired one
// blocks the click and is cleared next tick from whichever of the slot
// or cursor still holds it.
func (m *Matrix) Click(click Click) Decision {
	actorID := click.Actor.ID()
	current := click.current()

	if m.IsContainer(click.Inventory) {
		result := m.denial(actorID, current, itemevent.ContainerExtract)
		if result.reason != ReasonNone {
			decision := Decision{
				Blocked: !result.vetoed,
				Reason:  result.reason,
				Vetoed:  result.vetoed,
			}
			m.logDecision(actorID, current, itemevent.ContainerExtract, decision)
			return decision
		}
	}

	var decision Decision
	for _, it := range []item.Item{current, click.Actor.Cursor()} {
		result := m.evaluate(actorID, it, itemevent.InventoryClick)
		if result.reason == ReasonNone {
			continue
		}
		if decision.Reason == ReasonNone {
			decision.Reason = result.reason
		}
		if result.vetoed {
			decision.Vetoed = true
			continue
		}
		decision.Blocked = true
		if result.reason == ReasonExpired {
			stale := it
			m.scheduler.Defer(func() { m.clearStale(click, stale) })
			decision.Deferred = true
		}
	}
	m.logDecision(actorID, current, itemevent.InventoryClick, decision)
	return decision
}

func (m *Matrix) clearStale(click Click, stale item.Item) {
	if click.Inventory != nil && click.Inventory.Get(click.Slot).Equal(stale) {
		click.Inventory.Set(click.Slot, item.Empty)
	}
	if click.Actor.Cursor().Equal(stale) {
		click.Actor.SetCursor(item.Empty)
	}
}

// Drag checks an actor dragging oldCursor across slots. An expired
// cursor is cleared next tick if the actor still holds it.
func (m *Matrix) Drag(actor Actor, oldCursor item.Item) Decision {
	result := m.evaluate(actor.ID(), oldCursor, itemevent.InventoryDrag)
	decision := Decision{Reason: result.reason, Vetoed: result.vetoed}
	if result.reason != ReasonNone && !result.vetoed {
		decision.Blocked = true
		if result.reason == ReasonExpired {
			m.scheduler.Defer(func() {
				if actor.Cursor().Equal(oldCursor) {
					actor.SetCursor(item.Empty)
				}
			})
			decision.Deferred = true
		}
	}
	m.logDecision(actor.ID(), oldCursor, itemevent.InventoryDrag, decision)
	return decision
}

// Drop checks an actor dropping an item. The drop itself is never
// blocked for expired items: the dropped entity is destroyed instead.
// Dropping a foreign-bound item is blocked.
func (m *Matrix) Drop(actor Actor, dropped Dropped) Decision {
	it := dropped.Item()
	result := m.evaluate(actor.ID(), it, itemevent.Drop)
	decision := Decision{Reason: result.reason, Vetoed: result.vetoed}
	switch {
	case result.reason == ReasonNone || result.vetoed:
	case result.reason == ReasonExpired:
		dropped.Remove()
		decision.Destroyed = true
	default:
		decision.Blocked = true
	}
	m.logDecision(actor.ID(), it, itemevent.Drop, decision)
	return decision
}
