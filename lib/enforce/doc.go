// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package enforce applies item policy at every point where an actor
// touches an item: picking it up, using it, moving it between slots,
// dropping it, placing it, eating it, or opening a container.
//
// Each interception runs the same two-step check. An expired item
// raises an [itemevent.Expired]; a live item bound to someone else
// raises an [itemevent.AttributionDenied]. When no observer cancels the
// event, the pathway's remediation applies, and the returned
// [Decision] tells the host whether to cancel its own action. Removing
// an item from an actor's holdings is never done during the
// interception itself: it is queued on the [tick.Scheduler] and runs
// on the next tick, once the host has finished with the interaction.
//
// The host adapts its players to [Actor] and its dropped-item entities
// to [Dropped], and calls the matching [Matrix] method from its own
// event handlers.
package enforce
