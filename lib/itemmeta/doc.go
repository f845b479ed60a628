// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package itemmeta attaches an expiry instant and an attributed owner
// to items, derives access policy from them, and keeps the items'
// annotation lines in sync.
//
// The metadata lives in two namespaced tags on the item:
//
//   - <namespace>:expire_time: a long, epoch milliseconds
//   - <namespace>:attribution_uuid: a string, canonical UUID
//
// Other tooling must not write these keys. Items carrying lookalike
// keys in a foreign namespace are flagged by [Manager.HasConflictingNBT].
//
// Every mutating operation takes an item by value and returns a new
// one; the caller stores the result wherever the old value lived. Read
// accessors never fail: absent, mistyped, or malformed tags read as
// absent. Mutations fail only on caller contract violations, reported
// as [*Error] values matching [ErrInvalidItem] or [ErrInvalidTime].
//
// A [Manager] is constructed once at startup and handed to every
// component that needs it:
//
//	items := itemmeta.New(
//	    itemmeta.WithNamespace(cfg.Namespace),
//	    itemmeta.WithClock(clock.Real()),
//	    itemmeta.WithNames(world),
//	)
//	sword, err := items.SetExpiry(sword, time.Now().Add(time.Hour))
package itemmeta
