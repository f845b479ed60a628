// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package itemevent defines the events raised when policy intervenes
// in an item interaction, and the [Bus] that delivers them.
//
// Events are plain values. Observers do not mutate a shared cancelled
// flag; each returns a [Verdict], and [Bus.Dispatch] folds the verdicts
// in priority order into a single cancellation result that the caller
// acts on.
package itemevent
