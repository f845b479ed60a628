// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"github.com/bureau-foundation/warden/lib/item"
)

// Slot pairs a slot index with the item found there.
type Slot struct {
	Index int
	Item  item.Item
}

// Occupied returns every non-empty slot in index order.
func Occupied(inv Inventory) []Slot {
	var slots []Slot
	for index := range inv.Size() {
		if it := inv.Get(index); !it.IsEmpty() {
			slots = append(slots, Slot{Index: index, Item: it})
		}
	}
	return slots
}

// Matching returns every non-empty slot whose item satisfies keep.
func Matching(inv Inventory, keep func(item.Item) bool) []Slot {
	var slots []Slot
	for _, slot := range Occupied(inv) {
		if keep(slot.Item) {
			slots = append(slots, slot)
		}
	}
	return slots
}

// RemoveAll clears every slot holding an item Equal to it and returns
// the number of slots cleared.
func RemoveAll(inv Inventory, it item.Item) int {
	if it.IsEmpty() {
		return 0
	}
	cleared := 0
	for _, slot := range Occupied(inv) {
		if slot.Item.Equal(it) {
			inv.Set(slot.Index, item.Empty)
			cleared++
		}
	}
	return cleared
}

// CountKind sums the amounts of every stack of kind.
func CountKind(inv Inventory, kind item.Kind) int {
	total := 0
	for _, slot := range Occupied(inv) {
		if slot.Item.Kind() == kind {
			total += slot.Item.Amount()
		}
	}
	return total
}

// FindKind returns the first slot holding kind.
func FindKind(inv Inventory, kind item.Kind) (int, bool) {
	for _, slot := range Occupied(inv) {
		if slot.Item.Kind() == kind {
			return slot.Index, true
		}
	}
	return -1, false
}

// HasSpace reports whether it could be added without displacing
// anything: there is an empty slot, or a stack that differs from it
// only in amount has room below the material's stack limit.
func HasSpace(inv Inventory, it item.Item, catalog item.Catalog) bool {
	if it.IsEmpty() {
		return true
	}
	limit := catalog.Lookup(it.Kind()).MaxStack
	for index := range inv.Size() {
		existing := inv.Get(index)
		if existing.IsEmpty() {
			return true
		}
		if existing.WithAmount(1).Equal(it.WithAmount(1)) && existing.Amount() < limit {
			return true
		}
	}
	return false
}
