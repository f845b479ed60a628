// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides the time source used by every time-dependent
// component in warden: expiry checks in the policy engine, annotation
// timestamps, and the tick loop that drains deferred work and drives the
// periodic sweeper.
//
// Production code passes [Real]. Tests pass [Fake], which stands still
// until [FakeClock.Advance] or [FakeClock.Set] is called, so an item
// set to expire one millisecond from now can be made expired by
// advancing two milliseconds instead of sleeping.
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	manager := itemmeta.New(itemmeta.WithClock(c))
//	sword, _ := manager.SetExpiry(sword, c.Now().Add(time.Millisecond))
//	c.Advance(2 * time.Millisecond)
//	manager.IsExpired(sword) // true
package clock
