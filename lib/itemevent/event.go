// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package itemevent

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/warden/lib/inventory"
	"github.com/bureau-foundation/warden/lib/item"
)

// Event is one of [Expired], [AttributionDenied], or
// [ContainerExpired]. The set is closed.
type Event interface {
	// Cancellable reports whether observer verdicts affect the
	// outcome of the interaction that raised the event.
	Cancellable() bool
	event()
}

// Expired is raised when an expired item is touched or swept. When
// cancelled the item is left in place and the interaction proceeds.
type Expired struct {
	// Actor is the acting identity, uuid.Nil when none.
	Actor    uuid.UUID
	Item     item.Item
	ExpireAt time.Time
	Action   Action
}

// AttributionDenied is raised when an actor touches an item bound to
// someone else. When cancelled the interaction proceeds.
type AttributionDenied struct {
	Actor  uuid.UUID
	Item   item.Item
	Owner  uuid.UUID
	Action Action
}

// ContainerExpired reports, after the fact, the items removed from a
// container when it was opened.
type ContainerExpired struct {
	Container inventory.Inventory
	Removed   []item.Item
	Opener    uuid.UUID
}

func (Expired) Cancellable() bool           { return true }
func (AttributionDenied) Cancellable() bool { return true }
func (ContainerExpired) Cancellable() bool  { return false }

func (Expired) event()           {}
func (AttributionDenied) event() {}
func (ContainerExpired) event()  {}

// LogValue groups the event fields for structured logging.
func (e Expired) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("type", "expired"),
		slog.String("actor", actorString(e.Actor)),
		slog.String("item", e.Item.String()),
		slog.Time("expire_at", e.ExpireAt),
		slog.String("action", e.Action.String()),
	)
}

// LogValue groups the event fields for structured logging.
func (e AttributionDenied) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("type", "attribution_denied"),
		slog.String("actor", actorString(e.Actor)),
		slog.String("item", e.Item.String()),
		slog.String("owner", e.Owner.String()),
		slog.String("action", e.Action.String()),
	)
}

// LogValue groups the event fields for structured logging.
func (e ContainerExpired) LogValue() slog.Value {
	containerType := ""
	if e.Container != nil {
		containerType = string(e.Container.Type())
	}
	return slog.GroupValue(
		slog.String("type", "container_expired"),
		slog.String("container", containerType),
		slog.Int("removed", len(e.Removed)),
		slog.String("opener", actorString(e.Opener)),
	)
}

func actorString(id uuid.UUID) string {
	if id == uuid.Nil {
		return "none"
	}
	return id.String()
}
