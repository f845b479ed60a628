// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package item

import (
	"fmt"
	"slices"
	"strings"
)

// Kind names a material, upper snake case: "DIAMOND_SWORD".
type Kind string

// Air is the kind of an empty slot.
const Air Kind = "AIR"

// NormalizeKind converts user input such as "minecraft:diamond_sword"
// or "Diamond Sword" to the canonical "DIAMOND_SWORD".
func NormalizeKind(raw string) Kind {
	raw = strings.TrimSpace(raw)
	if index := strings.IndexByte(raw, ':'); index >= 0 {
		raw = raw[index+1:]
	}
	raw = strings.NewReplacer(" ", "_", "-", "_").Replace(raw)
	return Kind(strings.ToUpper(raw))
}

// IsVoid reports whether k denotes no material at all.
func (k Kind) IsVoid() bool { return k == "" || k == Air }

// Item is an immutable stack of one kind. The zero value is [Empty].
type Item struct {
	kind   Kind
	amount int
	tags   Tags
	lore   []Line
}

// Empty is the item held by an empty slot.
var Empty = Item{}

// New returns a stack of amount items of kind with no tags or lore.
func New(kind Kind, amount int) Item {
	if kind.IsVoid() || amount <= 0 {
		return Empty
	}
	return Item{kind: kind, amount: amount}
}

// Kind returns the material of the stack.
func (it Item) Kind() Kind {
	if it.IsEmpty() {
		return Air
	}
	return it.kind
}

// Amount returns the stack size, zero for empty items.
func (it Item) Amount() int {
	if it.IsEmpty() {
		return 0
	}
	return it.amount
}

// IsEmpty reports whether the item has no substantive kind or no
// amount. Empty items have no tag-capable body.
func (it Item) IsEmpty() bool {
	return it.kind.IsVoid() || it.amount <= 0
}

// Tags returns the tag store. The store is itself copy-on-write, so
// the caller may derive new stores from it freely.
func (it Item) Tags() Tags { return it.tags }

// Lore returns a copy of the annotation lines.
func (it Item) Lore() []Line { return cloneLines(it.lore) }

// HasLore reports whether the item carries any annotation lines.
func (it Item) HasLore() bool { return len(it.lore) > 0 }

// WithAmount returns a copy with the stack size replaced. A
// non-positive amount yields Empty.
func (it Item) WithAmount(amount int) Item {
	if amount <= 0 {
		return Empty
	}
	it.amount = amount
	return it
}

// WithTags returns a copy carrying tags.
func (it Item) WithTags(tags Tags) Item {
	if it.IsEmpty() {
		return Empty
	}
	it.tags = tags
	return it
}

// WithLore returns a copy carrying a copy of lines. An empty slice
// clears the lore entirely.
func (it Item) WithLore(lines []Line) Item {
	if it.IsEmpty() {
		return Empty
	}
	if len(lines) == 0 {
		it.lore = nil
		return it
	}
	it.lore = cloneLines(lines)
	return it
}

// Equal reports whether two items have the same kind, amount, tags,
// and lore. Empty items are equal to each other regardless of stale
// fields.
func (it Item) Equal(other Item) bool {
	if it.IsEmpty() || other.IsEmpty() {
		return it.IsEmpty() && other.IsEmpty()
	}
	return it.kind == other.kind &&
		it.amount == other.amount &&
		it.tags.Equal(other.tags) &&
		slices.EqualFunc(it.lore, other.lore, Line.Equal)
}

// String returns "KIND x amount", or "AIR" for empty items.
func (it Item) String() string {
	if it.IsEmpty() {
		return string(Air)
	}
	return fmt.Sprintf("%s x%d", it.kind, it.amount)
}
