// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package enforce

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/warden/lib/clock"
	"github.com/bureau-foundation/warden/lib/inventory"
	"github.com/bureau-foundation/warden/lib/item"
	"github.com/bureau-foundation/warden/lib/itemevent"
	"github.com/bureau-foundation/warden/lib/itemmeta"
	"github.com/bureau-foundation/warden/lib/tick"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testActor struct {
	id     uuid.UUID
	inv    *inventory.Grid
	cursor item.Item
}

func newTestActor() *testActor {
	return &testActor{id: uuid.New(), inv: inventory.NewGrid(inventory.Player, 36)}
}

func (a *testActor) ID() uuid.UUID                  { return a.id }
func (a *testActor) Inventory() inventory.Inventory { return a.inv }
func (a *testActor) Cursor() item.Item              { return a.cursor }
func (a *testActor) SetCursor(it item.Item)         { a.cursor = it }

type testDropped struct {
	it      item.Item
	removed bool
}

func (d *testDropped) Item() item.Item { return d.it }
func (d *testDropped) Remove()         { d.removed = true }

type harness struct {
	t         *testing.T
	clock     *clock.FakeClock
	items     *itemmeta.Manager
	bus       *itemevent.Bus
	scheduler *tick.Scheduler
	matrix    *Matrix
	events    []itemevent.Event
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fake := clock.Fake(epoch)
	h := &harness{
		t:         t,
		clock:     fake,
		items:     itemmeta.New(itemmeta.WithClock(fake)),
		bus:       itemevent.NewBus(nil),
		scheduler: tick.New(fake, 50*time.Millisecond, nil),
	}
	h.bus.Subscribe(-100, func(event itemevent.Event) itemevent.Verdict {
		h.events = append(h.events, event)
		return itemevent.Pass
	})
	matrix, err := New(Options{Items: h.items, Bus: h.bus, Scheduler: h.scheduler})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.matrix = matrix
	return h
}

// expired returns a stack that expires one second from the epoch, and
// moves the clock past it on first use.
func (h *harness) expired(kind item.Kind, amount int) item.Item {
	h.t.Helper()
	it, err := h.items.SetExpiry(item.New(kind, amount), h.clock.Now().Add(time.Second))
	if err != nil {
		h.t.Fatal(err)
	}
	return it
}

func (h *harness) elapse() { h.clock.Advance(time.Minute) }

func (h *harness) boundTo(kind item.Kind, owner uuid.UUID) item.Item {
	h.t.Helper()
	it, err := h.items.SetAttribution(item.New(kind, 1), owner)
	if err != nil {
		h.t.Fatal(err)
	}
	return it
}

func (h *harness) vetoAll() {
	h.bus.Subscribe(0, func(itemevent.Event) itemevent.Verdict { return itemevent.Cancel })
}

func (h *harness) onlyEvent() itemevent.Event {
	h.t.Helper()
	if len(h.events) != 1 {
		h.t.Fatalf("got %d events, want 1: %+v", len(h.events), h.events)
	}
	return h.events[0]
}

func TestNewRequiresCollaborators(t *testing.T) {
	fake := clock.Fake(epoch)
	items := itemmeta.New(itemmeta.WithClock(fake))
	bus := itemevent.NewBus(nil)
	scheduler := tick.New(fake, time.Second, nil)

	for name, options := range map[string]Options{
		"no items":     {Bus: bus, Scheduler: scheduler},
		"no bus":       {Items: items, Scheduler: scheduler},
		"no scheduler": {Items: items, Bus: bus},
	} {
		if _, err := New(options); err == nil {
			t.Errorf("%s: New succeeded", name)
		}
	}
}

func TestEmptyItemsRaiseNothing(t *testing.T) {
	h := newHarness(t)
	actor := newTestActor()
	if decision := h.matrix.Use(actor, item.Empty); decision != (Decision{}) {
		t.Errorf("Use(Empty) = %+v", decision)
	}
	if decision := h.matrix.Drag(actor, item.Empty); decision != (Decision{}) {
		t.Errorf("Drag(Empty) = %+v", decision)
	}
	if len(h.events) != 0 {
		t.Errorf("events raised for empty items: %+v", h.events)
	}
}

func TestPlainItemsPass(t *testing.T) {
	h := newHarness(t)
	actor := newTestActor()
	owned := h.boundTo("DIAMOND_SWORD", actor.ID())
	for _, it := range []item.Item{item.New("STONE", 1), owned} {
		if decision := h.matrix.Use(actor, it); decision != (Decision{}) {
			t.Errorf("Use(%v) = %+v", it, decision)
		}
	}
	if len(h.events) != 0 {
		t.Errorf("events raised: %+v", h.events)
	}
}

func TestForeignOwnerUse(t *testing.T) {
	h := newHarness(t)
	owner, actor := uuid.New(), newTestActor()
	sword := h.boundTo("IRON_SWORD", owner)
	actor.inv.Set(0, sword)

	if h.items.CanUse(sword, actor.ID()) {
		t.Fatal("CanUse true for a foreign actor")
	}
	decision := h.matrix.Use(actor, sword)
	if !decision.Blocked || decision.Reason != ReasonAttributionDenied || decision.Deferred {
		t.Errorf("decision = %+v", decision)
	}
	denied, ok := h.onlyEvent().(itemevent.AttributionDenied)
	if !ok {
		t.Fatalf("event is %T", h.events[0])
	}
	if denied.Action != itemevent.Use || denied.Owner != owner || denied.Actor != actor.ID() {
		t.Errorf("event = %+v", denied)
	}

	h.scheduler.Tick()
	if actor.inv.Get(0).IsEmpty() {
		t.Error("attribution denial removed the item")
	}
}

func TestForeignOwnerUseVetoed(t *testing.T) {
	h := newHarness(t)
	h.vetoAll()
	actor := newTestActor()
	decision := h.matrix.Use(actor, h.boundTo("IRON_SWORD", uuid.New()))
	if decision.Blocked || !decision.Vetoed || decision.Reason != ReasonAttributionDenied {
		t.Errorf("decision = %+v", decision)
	}
}

func TestExpiredUseRemovesNextTick(t *testing.T) {
	for _, pathway := range []struct {
		name   string
		action itemevent.Action
		call   func(*Matrix, Actor, item.Item) Decision
	}{
		{"use", itemevent.Use, (*Matrix).Use},
		{"place", itemevent.PlaceBlock, (*Matrix).Place},
		{"consume", itemevent.Consume, (*Matrix).Consume},
	} {
		t.Run(pathway.name, func(t *testing.T) {
			h := newHarness(t)
			actor := newTestActor()
			bread := h.expired("BREAD", 3)
			actor.inv.Set(2, bread)
			actor.inv.Set(7, bread)
			actor.inv.Set(8, item.New("BREAD", 3))
			h.elapse()

			decision := pathway.call(h.matrix, actor, bread)
			if !decision.Blocked || !decision.Deferred || decision.Reason != ReasonExpired {
				t.Errorf("decision = %+v", decision)
			}
			expired, ok := h.onlyEvent().(itemevent.Expired)
			if !ok || expired.Action != pathway.action || !expired.ExpireAt.Equal(epoch.Add(time.Second)) {
				t.Errorf("event = %+v", h.events[0])
			}
			if actor.inv.Get(2).IsEmpty() {
				t.Fatal("item removed during the interaction")
			}

			h.scheduler.Tick()
			if !actor.inv.Get(2).IsEmpty() || !actor.inv.Get(7).IsEmpty() {
				t.Error("expired stacks not removed on the next tick")
			}
			if actor.inv.Get(8).IsEmpty() {
				t.Error("an untagged stack of the same kind was removed")
			}
		})
	}
}

func TestExpiredUseVetoed(t *testing.T) {
	h := newHarness(t)
	h.vetoAll()
	actor := newTestActor()
	bread := h.expired("BREAD", 1)
	actor.inv.Set(0, bread)
	h.elapse()

	decision := h.matrix.Use(actor, bread)
	if decision.Blocked || decision.Deferred || !decision.Vetoed {
		t.Errorf("decision = %+v", decision)
	}
	h.scheduler.Tick()
	if actor.inv.Get(0).IsEmpty() {
		t.Error("vetoed expiry still removed the item")
	}
}

func TestPickup(t *testing.T) {
	t.Run("expired", func(t *testing.T) {
		h := newHarness(t)
		dropped := &testDropped{it: h.expired("APPLE", 1)}
		h.elapse()
		decision := h.matrix.Pickup(newTestActor(), dropped)
		if !decision.Blocked || !decision.Destroyed || !dropped.removed {
			t.Errorf("decision = %+v, removed = %v", decision, dropped.removed)
		}
	})
	t.Run("foreign", func(t *testing.T) {
		h := newHarness(t)
		dropped := &testDropped{it: h.boundTo("BOW", uuid.New())}
		decision := h.matrix.Pickup(newTestActor(), dropped)
		if !decision.Blocked || decision.Destroyed || dropped.removed {
			t.Errorf("decision = %+v, removed = %v", decision, dropped.removed)
		}
		if denied := h.onlyEvent().(itemevent.AttributionDenied); denied.Action != itemevent.Pickup {
			t.Errorf("action = %v", denied.Action)
		}
	})
	t.Run("expired vetoed", func(t *testing.T) {
		h := newHarness(t)
		h.vetoAll()
		dropped := &testDropped{it: h.expired("APPLE", 1)}
		h.elapse()
		decision := h.matrix.Pickup(newTestActor(), dropped)
		if decision.Blocked || dropped.removed || !decision.Vetoed {
			t.Errorf("decision = %+v, removed = %v", decision, dropped.removed)
		}
	})
}

func TestDrop(t *testing.T) {
	t.Run("expired", func(t *testing.T) {
		h := newHarness(t)
		dropped := &testDropped{it: h.expired("APPLE", 1)}
		h.elapse()
		decision := h.matrix.Drop(newTestActor(), dropped)
		if decision.Blocked || !decision.Destroyed || !dropped.removed {
			t.Errorf("decision = %+v, removed = %v", decision, dropped.removed)
		}
		if expired := h.onlyEvent().(itemevent.Expired); expired.Action != itemevent.Drop {
			t.Errorf("action = %v", expired.Action)
		}
	})
	t.Run("foreign", func(t *testing.T) {
		h := newHarness(t)
		dropped := &testDropped{it: h.boundTo("BOW", uuid.New())}
		decision := h.matrix.Drop(newTestActor(), dropped)
		if !decision.Blocked || dropped.removed {
			t.Errorf("decision = %+v, removed = %v", decision, dropped.removed)
		}
	})
}

func TestClickContainerExtraction(t *testing.T) {
	h := newHarness(t)
	actor := newTestActor()
	chest := inventory.NewGrid(inventory.Chest, 27)
	chest.Set(4, h.boundTo("DIAMOND_CHESTPLATE", uuid.New()))
	actor.cursor = h.expired("BREAD", 1)
	h.elapse()

	decision := h.matrix.Click(Click{Actor: actor, Inventory: chest, Slot: 4})
	if !decision.Blocked || decision.Reason != ReasonAttributionDenied || decision.Deferred {
		t.Errorf("decision = %+v", decision)
	}
	denied, ok := h.onlyEvent().(itemevent.AttributionDenied)
	if !ok || denied.Action != itemevent.ContainerExtract {
		t.Errorf("event = %+v", h.events[0])
	}
}

func TestClickOwnItemInContainer(t *testing.T) {
	h := newHarness(t)
	actor := newTestActor()
	chest := inventory.NewGrid(inventory.Barrel, 27)
	chest.Set(0, h.boundTo("BOW", actor.ID()))
	if decision := h.matrix.Click(Click{Actor: actor, Inventory: chest, Slot: 0}); decision != (Decision{}) {
		t.Errorf("decision = %+v", decision)
	}
}

func TestClickExpiredSlotAndCursor(t *testing.T) {
	h := newHarness(t)
	actor := newTestActor()
	inSlot := h.expired("BREAD", 2)
	onCursor := h.expired("APPLE", 1)
	actor.inv.Set(5, inSlot)
	actor.cursor = onCursor
	h.elapse()

	decision := h.matrix.Click(Click{Actor: actor, Inventory: actor.inv, Slot: 5})
	if !decision.Blocked || !decision.Deferred || decision.Reason != ReasonExpired {
		t.Errorf("decision = %+v", decision)
	}
	if len(h.events) != 2 {
		t.Fatalf("got %d events, want one per side", len(h.events))
	}
	for _, event := range h.events {
		if expired := event.(itemevent.Expired); expired.Action != itemevent.InventoryClick {
			t.Errorf("action = %v", expired.Action)
		}
	}

	h.scheduler.Tick()
	if !actor.inv.Get(5).IsEmpty() || !actor.cursor.IsEmpty() {
		t.Error("stale slot or cursor not cleared")
	}
}

func TestClickClearOnlyIfUnchanged(t *testing.T) {
	h := newHarness(t)
	actor := newTestActor()
	stale := h.expired("BREAD", 2)
	actor.inv.Set(5, stale)
	h.elapse()

	h.matrix.Click(Click{Actor: actor, Inventory: actor.inv, Slot: 5})
	replacement := item.New("STONE", 1)
	actor.inv.Set(5, replacement)
	h.scheduler.Tick()
	if !actor.inv.Get(5).Equal(replacement) {
		t.Error("deferred clear removed a replacement item")
	}
}

func TestDrag(t *testing.T) {
	h := newHarness(t)
	actor := newTestActor()
	actor.cursor = h.expired("ARROW", 16)
	h.elapse()

	decision := h.matrix.Drag(actor, actor.cursor)
	if !decision.Blocked || !decision.Deferred {
		t.Errorf("decision = %+v", decision)
	}
	if expired := h.onlyEvent().(itemevent.Expired); expired.Action != itemevent.InventoryDrag {
		t.Errorf("action = %v", expired.Action)
	}
	h.scheduler.Tick()
	if !actor.cursor.IsEmpty() {
		t.Error("expired cursor not cleared")
	}
}

func TestReentrantInterceptionIsSkipped(t *testing.T) {
	h := newHarness(t)
	actor := newTestActor()
	bread := h.expired("BREAD", 1)
	h.elapse()

	var nested Decision
	h.bus.OnExpired(0, func(event itemevent.Expired) itemevent.Verdict {
		nested = h.matrix.Use(actor, event.Item)
		return itemevent.Pass
	})

	decision := h.matrix.Use(actor, bread)
	if !decision.Blocked {
		t.Errorf("outer decision = %+v", decision)
	}
	if nested != (Decision{}) {
		t.Errorf("nested decision = %+v, want zero", nested)
	}
	if len(h.events) != 1 {
		t.Errorf("got %d events, want 1", len(h.events))
	}

	// The guard is released once the dispatch returns.
	h.events = nil
	if decision := h.matrix.Use(actor, bread); !decision.Blocked || len(h.events) != 1 {
		t.Errorf("second interception = %+v with %d events", decision, len(h.events))
	}
}
