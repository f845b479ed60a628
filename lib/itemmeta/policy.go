// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package itemmeta

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/warden/lib/item"
)

// IsExpired reports whether the item has a readable expiry that now
// has passed. The expiry instant itself is not yet expired.
func (m *Manager) IsExpired(it item.Item) bool {
	millis, ok := m.expiryMillis(it)
	if !ok {
		return false
	}
	return m.clock.Now().UnixMilli() > millis
}

// CanUse reports whether actor may use the item: it must not be
// expired, and if it is bound, it must be bound to actor. A malformed
// attribution counts as unbound.
func (m *Manager) CanUse(it item.Item, actor uuid.UUID) bool {
	if m.IsExpired(it) {
		return false
	}
	owner, ok := m.GetAttribution(it)
	if !ok {
		return true
	}
	return owner == actor
}

// CompareAttributions reports whether a and b are both unbound or both
// bound to the same owner.
func (m *Manager) CompareAttributions(a, b item.Item) bool {
	ownerA, boundA := m.GetAttribution(a)
	ownerB, boundB := m.GetAttribution(b)
	if boundA != boundB {
		return false
	}
	return ownerA == ownerB
}

// RemainingTime returns the time left before expiry at millisecond
// precision, zero once expired, or NotApplicable when the item has no
// readable expiry.
func (m *Manager) RemainingTime(it item.Item) time.Duration {
	millis, ok := m.expiryMillis(it)
	if !ok {
		return NotApplicable
	}
	remaining := millis - m.clock.Now().UnixMilli()
	if remaining > math.MaxInt64/int64(time.Millisecond) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(max(0, remaining)) * time.Millisecond
}
