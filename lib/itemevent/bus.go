// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package itemevent

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
)

// Verdict is an observer's answer to an event.
type Verdict uint8

const (
	// Pass leaves the running cancellation state unchanged.
	Pass Verdict = iota
	// Cancel marks the event cancelled.
	Cancel
	// Allow clears a cancellation set by an earlier observer.
	Allow
)

func (v Verdict) String() string {
	switch v {
	case Pass:
		return "pass"
	case Cancel:
		return "cancel"
	case Allow:
		return "allow"
	default:
		return fmt.Sprintf("verdict(%d)", uint8(v))
	}
}

// Observer receives dispatched events.
type Observer func(Event) Verdict

type subscription struct {
	id       uint64
	priority int
	observer Observer
}

// Bus delivers events to observers in ascending priority order,
// subscription order breaking ties. It is safe for concurrent use;
// observers may subscribe and unsubscribe from inside a dispatch,
// taking effect on the next dispatch.
type Bus struct {
	logger *slog.Logger

	mu            sync.Mutex
	nextID        uint64
	subscriptions []subscription
}

// NewBus returns a bus with no observers. A nil logger discards.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Bus{logger: logger}
}

// Subscribe registers observer and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (b *Bus) Subscribe(priority int, observer Observer) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	entry := subscription{id: id, priority: priority, observer: observer}
	// Insert after every subscription with priority <= this one so
	// equal priorities keep subscription order.
	index, _ := slices.BinarySearchFunc(b.subscriptions, priority+1, func(s subscription, target int) int {
		if s.priority < target {
			return -1
		}
		return 1
	})
	b.subscriptions = slices.Insert(b.subscriptions, index, entry)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.subscriptions = slices.DeleteFunc(b.subscriptions, func(s subscription) bool {
			return s.id == id
		})
	}
}

// Len returns the number of subscribed observers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscriptions)
}

// Dispatch runs every observer and folds their verdicts: Cancel sets
// the cancelled state, Allow clears it, Pass keeps it. The result is
// the final state, always false for events that are not cancellable.
// A panicking observer is logged and counts as Pass.
func (b *Bus) Dispatch(event Event) bool {
	b.mu.Lock()
	subscriptions := slices.Clone(b.subscriptions)
	b.mu.Unlock()

	cancelled := false
	for _, entry := range subscriptions {
		switch b.call(entry, event) {
		case Cancel:
			cancelled = true
		case Allow:
			cancelled = false
		}
	}
	return cancelled && event.Cancellable()
}

func (b *Bus) call(entry subscription, event Event) (verdict Verdict) {
	defer func() {
		if recovered := recover(); recovered != nil {
			b.logger.Error("event observer panicked",
				"priority", entry.priority,
				"event", event,
				"panic", recovered,
			)
			verdict = Pass
		}
	}()
	return entry.observer(event)
}

// OnExpired subscribes fn to Expired events only.
func (b *Bus) OnExpired(priority int, fn func(Expired) Verdict) (unsubscribe func()) {
	return b.Subscribe(priority, func(event Event) Verdict {
		if expired, ok := event.(Expired); ok {
			return fn(expired)
		}
		return Pass
	})
}

// OnAttributionDenied subscribes fn to AttributionDenied events only.
func (b *Bus) OnAttributionDenied(priority int, fn func(AttributionDenied) Verdict) (unsubscribe func()) {
	return b.Subscribe(priority, func(event Event) Verdict {
		if denied, ok := event.(AttributionDenied); ok {
			return fn(denied)
		}
		return Pass
	})
}

// OnContainerExpired subscribes fn to ContainerExpired events only.
func (b *Bus) OnContainerExpired(priority int, fn func(ContainerExpired)) (unsubscribe func()) {
	return b.Subscribe(priority, func(event Event) Verdict {
		if batch, ok := event.(ContainerExpired); ok {
			fn(batch)
		}
		return Pass
	})
}
