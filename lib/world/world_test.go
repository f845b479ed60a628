// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package world

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/warden/lib/clock"
	"github.com/bureau-foundation/warden/lib/enforce"
	"github.com/bureau-foundation/warden/lib/inventory"
	"github.com/bureau-foundation/warden/lib/item"
	"github.com/bureau-foundation/warden/lib/itemevent"
	"github.com/bureau-foundation/warden/lib/itemmeta"
	"github.com/bureau-foundation/warden/lib/sweep"
	"github.com/bureau-foundation/warden/lib/tick"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func mustPlayer(t *testing.T, w *World, name string) *Player {
	t.Helper()
	player, err := w.AddPlayer(uuid.New(), name)
	if err != nil {
		t.Fatalf("AddPlayer(%q): %v", name, err)
	}
	return player
}

func TestPlayers(t *testing.T) {
	w := New()
	alice := mustPlayer(t, w, "Alice")
	bob := mustPlayer(t, w, "Bob")

	if _, err := w.AddPlayer(alice.ID(), "Alice again"); err == nil {
		t.Error("AddPlayer accepted a duplicate identity")
	}
	if _, err := w.AddPlayer(uuid.Nil, "nobody"); err == nil {
		t.Error("AddPlayer accepted the nil identity")
	}

	if got := alice.Inventory().Size(); got != PlayerSlots {
		t.Errorf("player inventory size = %d, want %d", got, PlayerSlots)
	}
	if alice.Inventory().Type() != inventory.Player {
		t.Errorf("player inventory type = %s", alice.Inventory().Type())
	}

	players := w.Players()
	if len(players) != 2 || players[0] != alice || players[1] != bob {
		t.Errorf("Players() not in registration order: %v", players)
	}

	if found, ok := w.FindPlayer("bob"); !ok || found != bob {
		t.Error("FindPlayer by name is not case-insensitive")
	}
	if found, ok := w.FindPlayer(alice.ID().String()); !ok || found != alice {
		t.Error("FindPlayer by identity failed")
	}
	if _, ok := w.FindPlayer("carol"); ok {
		t.Error("FindPlayer found an unknown player")
	}
}

func TestOnline(t *testing.T) {
	w := New()
	alice := mustPlayer(t, w, "Alice")
	bob := mustPlayer(t, w, "Bob")

	if online := w.Online(); len(online) != 0 {
		t.Fatalf("players online before joining: %v", online)
	}

	if !bob.Join() {
		t.Error("first Join reported already online")
	}
	if bob.Join() {
		t.Error("second Join reported a fresh join")
	}
	alice.Join()

	online := w.Online()
	if len(online) != 2 || online[0].ID() != alice.ID() || online[1].ID() != bob.ID() {
		t.Errorf("Online() = %v, want alice then bob", online)
	}

	alice.Leave()
	online = w.Online()
	if len(online) != 1 || online[0].ID() != bob.ID() {
		t.Errorf("Online() after leave = %v", online)
	}
}

func TestNameResolver(t *testing.T) {
	w := New()
	alice := mustPlayer(t, w, "Alice")
	anonymous := mustPlayer(t, w, "")

	if name, ok := w.Name(alice.ID()); !ok || name != "Alice" {
		t.Errorf("Name(alice) = %q, %v", name, ok)
	}
	if _, ok := w.Name(anonymous.ID()); ok {
		t.Error("Name resolved a player without a name")
	}
	if _, ok := w.Name(uuid.New()); ok {
		t.Error("Name resolved an unknown identity")
	}
	if anonymous.Label() != anonymous.ID().String() {
		t.Errorf("Label() = %q, want the identity", anonymous.Label())
	}
}

func TestCursor(t *testing.T) {
	w := New()
	player := mustPlayer(t, w, "Alice")
	sword := item.New("DIAMOND_SWORD", 1)

	player.SetCursor(sword)
	if !player.Cursor().Equal(sword) {
		t.Errorf("Cursor() = %v", player.Cursor())
	}
	player.SetCursor(item.Empty)
	if !player.Cursor().IsEmpty() {
		t.Errorf("Cursor() after clear = %v", player.Cursor())
	}
}

func TestContainers(t *testing.T) {
	w := New()
	chest, err := w.AddContainer("spawn-chest", inventory.Chest, 27)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.AddContainer("spawn-chest", inventory.Barrel, 27); err == nil {
		t.Error("AddContainer accepted a duplicate name")
	}
	if _, err := w.AddContainer("", inventory.Chest, 27); err == nil {
		t.Error("AddContainer accepted an empty name")
	}
	if _, err := w.AddContainer("tiny", inventory.Chest, 0); err == nil {
		t.Error("AddContainer accepted a zero size")
	}

	if found, ok := w.Container("spawn-chest"); !ok || found != chest {
		t.Error("Container lookup failed")
	}

	player := mustPlayer(t, w, "Alice")
	holdings := w.Holdings()
	if len(holdings) != 2 {
		t.Fatalf("Holdings() = %d entries, want 2", len(holdings))
	}
	if holdings[0].Label != "Alice" || holdings[0].Inventory != player.Inventory() {
		t.Errorf("first holding = %+v, want the player", holdings[0])
	}
	if holdings[1].Label != "spawn-chest" {
		t.Errorf("second holding = %+v, want the chest", holdings[1])
	}
}

func TestEntities(t *testing.T) {
	w := New()
	if _, err := w.Spawn(item.Empty); err == nil {
		t.Error("Spawn accepted an empty item")
	}

	first, err := w.Spawn(item.New("APPLE", 3))
	if err != nil {
		t.Fatal(err)
	}
	second, err := w.Spawn(item.New("STONE", 64))
	if err != nil {
		t.Fatal(err)
	}

	entities := w.Entities()
	if len(entities) != 2 || entities[0] != first || entities[1] != second {
		t.Fatalf("Entities() = %v", entities)
	}

	first.Remove()
	first.Remove()
	if !first.Removed() || second.Removed() {
		t.Error("Remove affected the wrong entity")
	}
	if entities := w.Entities(); len(entities) != 1 || entities[0] != second {
		t.Errorf("Entities() after remove = %v", entities)
	}
}

// TestHostsEnforcement drives the matrix and sweeper against a world:
// an expired entity is destroyed on pickup and an expired stack in an
// online player's inventory is removed by a sweep pass.
func TestHostsEnforcement(t *testing.T) {
	fake := clock.Fake(epoch)
	w := New()
	items := itemmeta.New(itemmeta.WithClock(fake), itemmeta.WithNames(w))
	bus := itemevent.NewBus(nil)
	scheduler := tick.New(fake, 50*time.Millisecond, nil)
	matrix, err := enforce.New(enforce.Options{Items: items, Bus: bus, Scheduler: scheduler})
	if err != nil {
		t.Fatal(err)
	}

	alice := mustPlayer(t, w, "Alice")
	alice.Join()
	offline := mustPlayer(t, w, "Bob")

	perishable, err := items.SetExpiry(item.New("BREAD", 4), epoch.Add(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	entity, err := w.Spawn(perishable)
	if err != nil {
		t.Fatal(err)
	}
	alice.Grid().Set(3, perishable)
	offline.Grid().Set(0, perishable)

	fake.Advance(time.Minute)

	decision := matrix.Pickup(alice, entity)
	if !decision.Blocked || !decision.Destroyed {
		t.Errorf("Pickup(expired) = %+v", decision)
	}
	if !entity.Removed() {
		t.Error("expired entity still in the world")
	}

	report := sweep.New(matrix, w, 0, nil).SweepOnce()
	if report.Actors != 1 || report.Removed != 1 {
		t.Errorf("SweepOnce() = %+v, want 1 actor and 1 removal", report)
	}
	if !alice.Inventory().Get(3).IsEmpty() {
		t.Error("sweep left the expired stack in place")
	}
	if offline.Inventory().Get(0).IsEmpty() {
		t.Error("sweep touched an offline player")
	}
}

func TestAttributionLinesUseWorldNames(t *testing.T) {
	fake := clock.Fake(epoch)
	w := New()
	items := itemmeta.New(itemmeta.WithClock(fake), itemmeta.WithNames(w))
	alice := mustPlayer(t, w, "Alice")

	bound, err := items.SetAttribution(item.New("DIAMOND_SWORD", 1), alice.ID())
	if err != nil {
		t.Fatal(err)
	}
	lore := bound.Lore()
	if len(lore) != 1 {
		t.Fatalf("lore = %v, want one line", lore)
	}
	if text := lore[0].Text(); text != itemmeta.DefaultAnnotationFormat().AttributionLabel+"Alice" {
		t.Errorf("attribution line = %q", text)
	}
}
