// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package enforce

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/bureau-foundation/warden/lib/inventory"
	"github.com/bureau-foundation/warden/lib/item"
	"github.com/bureau-foundation/warden/lib/itemevent"
	"github.com/bureau-foundation/warden/lib/itemmeta"
	"github.com/bureau-foundation/warden/lib/tick"
)

// Default delays, in ticks.
const (
	DefaultOpenDelay uint64 = 1
	DefaultJoinDelay uint64 = 20
)

// Actor is an identity holding an inventory and a cursor: the stack
// picked up with the mouse during inventory interaction.
type Actor interface {
	ID() uuid.UUID
	Inventory() inventory.Inventory
	Cursor() item.Item
	SetCursor(item.Item)
}

// Dropped is an item lying in the world.
type Dropped interface {
	Item() item.Item
	Remove()
}

// Reason is why policy intervened.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonExpired
	ReasonAttributionDenied
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonExpired:
		return "expired"
	case ReasonAttributionDenied:
		return "attribution_denied"
	default:
		return fmt.Sprintf("reason(%d)", uint8(r))
	}
}

// Decision is the outcome of one interception.
type Decision struct {
	// Blocked tells the host to cancel the action.
	Blocked bool
	// Reason is ReasonNone when policy had nothing to say.
	Reason Reason
	// Vetoed means an observer cancelled the raised event, so no
	// remediation was applied.
	Vetoed bool
	// Destroyed means the dropped entity was removed from the world.
	Destroyed bool
	// Deferred means a removal was queued for the next tick.
	Deferred bool
}

// Options configures a Matrix. Items, Bus, and Scheduler are required.
type Options struct {
	Items     itemmeta.API
	Bus       *itemevent.Bus
	Scheduler *tick.Scheduler
	// Containers are the inventory types swept on open and guarded
	// against extraction of foreign items. Nil means
	// inventory.DefaultContainers().
	Containers inventory.TypeSet
	// OpenDelay is the number of ticks between a container opening and
	// its sweep. Zero means DefaultOpenDelay.
	OpenDelay uint64
	// JoinDelay is the number of ticks between an actor joining and
	// its holdings sweep. Zero means DefaultJoinDelay.
	JoinDelay uint64
	Logger    *slog.Logger
}

// Matrix intercepts item interactions.
type Matrix struct {
	items      itemmeta.API
	bus        *itemevent.Bus
	scheduler  *tick.Scheduler
	containers inventory.TypeSet
	openDelay  uint64
	joinDelay  uint64
	logger     *slog.Logger

	// dispatching counts in-flight dispatches per item fingerprint.
	// An observer that triggers another interception on the same item
	// gets a zero Decision instead of a nested event.
	mu          sync.Mutex
	dispatching map[item.Fingerprint]int
}

// New returns a Matrix.
func New(options Options) (*Matrix, error) {
	if options.Items == nil {
		return nil, errors.New("enforce: Items is required")
	}
	if options.Bus == nil {
		return nil, errors.New("enforce: Bus is required")
	}
	if options.Scheduler == nil {
		return nil, errors.New("enforce: Scheduler is required")
	}
	if options.Containers == nil {
		options.Containers = inventory.DefaultContainers()
	}
	if options.OpenDelay == 0 {
		options.OpenDelay = DefaultOpenDelay
	}
	if options.JoinDelay == 0 {
		options.JoinDelay = DefaultJoinDelay
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Matrix{
		items:       options.Items,
		bus:         options.Bus,
		scheduler:   options.Scheduler,
		containers:  options.Containers,
		openDelay:   options.OpenDelay,
		joinDelay:   options.JoinDelay,
		logger:      options.Logger,
		dispatching: make(map[item.Fingerprint]int),
	}, nil
}

// IsContainer reports whether inv is one of the configured container
// types. A nil inventory is not.
func (m *Matrix) IsContainer(inv inventory.Inventory) bool {
	return inv != nil && m.containers.Contains(inv.Type())
}

// enter marks a dispatch for fingerprint as in flight. It returns
// false when one already is.
func (m *Matrix) enter(fingerprint item.Fingerprint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dispatching[fingerprint] > 0 {
		return false
	}
	m.dispatching[fingerprint]++
	return true
}

func (m *Matrix) leave(fingerprint item.Fingerprint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dispatching[fingerprint]--; m.dispatching[fingerprint] <= 0 {
		delete(m.dispatching, fingerprint)
	}
}

// verdict is the policy outcome for one item before remediation.
type verdict struct {
	reason Reason
	vetoed bool
}

// evaluate runs the two-step policy for it and dispatches the matching
// event.
func (m *Matrix) evaluate(actor uuid.UUID, it item.Item, action itemevent.Action) verdict {
	if it.IsEmpty() {
		return verdict{}
	}
	expired := m.items.IsExpired(it)
	owner, bound := m.items.GetAttribution(it)
	denied := !expired && bound && owner != actor
	if !expired && !denied {
		return verdict{}
	}

	fingerprint := it.Fingerprint()
	if !m.enter(fingerprint) {
		m.logger.Debug("skipping nested interception", "item", it.String(), "action", action)
		return verdict{}
	}
	defer m.leave(fingerprint)

	if expired {
		expireAt, _ := m.items.GetExpiry(it)
		vetoed := m.bus.Dispatch(itemevent.Expired{
			Actor:    actor,
			Item:     it,
			ExpireAt: expireAt,
			Action:   action,
		})
		return verdict{reason: ReasonExpired, vetoed: vetoed}
	}
	vetoed := m.bus.Dispatch(itemevent.AttributionDenied{
		Actor:  actor,
		Item:   it,
		Owner:  owner,
		Action: action,
	})
	return verdict{reason: ReasonAttributionDenied, vetoed: vetoed}
}

// denial dispatches AttributionDenied for a bound item regardless of
// expiry. Container extraction checks attribution only.
func (m *Matrix) denial(actor uuid.UUID, it item.Item, action itemevent.Action) verdict {
	if it.IsEmpty() {
		return verdict{}
	}
	owner, bound := m.items.GetAttribution(it)
	if !bound || owner == actor {
		return verdict{}
	}
	fingerprint := it.Fingerprint()
	if !m.enter(fingerprint) {
		return verdict{}
	}
	defer m.leave(fingerprint)
	vetoed := m.bus.Dispatch(itemevent.AttributionDenied{
		Actor:  actor,
		Item:   it,
		Owner:  owner,
		Action: action,
	})
	return verdict{reason: ReasonAttributionDenied, vetoed: vetoed}
}

func (m *Matrix) logDecision(actor uuid.UUID, it item.Item, action itemevent.Action, decision Decision) {
	if decision.Reason == ReasonNone {
		return
	}
	m.logger.Debug("item policy applied",
		"actor", actor,
		"item", it.String(),
		"action", action,
		"reason", decision.Reason,
		"blocked", decision.Blocked,
		"vetoed", decision.Vetoed,
		"destroyed", decision.Destroyed,
		"deferred", decision.Deferred,
	)
}
