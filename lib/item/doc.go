// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package item defines the item value that warden attaches policy
// metadata to.
//
// An [Item] is a stack of one [Kind] with an amount, a tag store
// ([Tags]) of namespaced, typed, CBOR-encoded values, and an ordered
// list of annotation [Line]s shown to players. Items are values: every
// method that changes something returns a new Item and leaves the
// receiver untouched. Whoever holds an item (an inventory slot, a
// cursor, a dropped entity) replaces its reference with the returned
// value.
//
// Annotation lines carry a structural [LineKind] next to their display
// segments. Code that needs to find "the expiry line" matches on
// [LineExpiry], never on the text, so labels can be reworded or
// translated without breaking removal.
//
// Kinds are looked up in a [Catalog] for the properties policy needs:
// whether the kind is edible, whether it is a placeable block, and how
// far it stacks.
package item
