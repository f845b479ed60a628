// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package itemmeta

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/warden/lib/item"
)

// HasExpiry reports whether the item carries a long tag under the
// expiry key. The value is not decoded.
func (m *Manager) HasExpiry(it item.Item) bool {
	return !it.IsEmpty() && it.Tags().Has(m.expireKey, item.TagLong)
}

// SetExpiry returns a copy of it expiring at at, with its expiry line
// re-rendered. The instant is stored at millisecond precision and must
// be strictly after now at that precision.
func (m *Manager) SetExpiry(it item.Item, at time.Time) (item.Item, error) {
	if it.IsEmpty() {
		return it, newError("SetExpiry", ErrInvalidItem, "cannot set expiry on an empty item")
	}
	now := m.clock.Now()
	if at.UnixMilli() <= now.UnixMilli() {
		return it, newError("SetExpiry", ErrInvalidTime, "expiry %s is not after now (%s)",
			at.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	}

	result := it.WithTags(it.Tags().With(m.expireKey, item.LongTag(at.UnixMilli())))
	result = result.WithLore(m.renderExpiry(result.Lore(), time.UnixMilli(at.UnixMilli())))
	m.logger.Debug("expiry set", "item", result.String(), "expire_at", at)
	return result, nil
}

// GetExpiry returns the stored expiry. Absent or undecodable tags
// report false.
func (m *Manager) GetExpiry(it item.Item) (time.Time, bool) {
	millis, ok := m.expiryMillis(it)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(millis), true
}

func (m *Manager) expiryMillis(it item.Item) (int64, bool) {
	if it.IsEmpty() {
		return 0, false
	}
	tag, ok := it.Tags().Get(m.expireKey)
	if !ok {
		return 0, false
	}
	millis, err := tag.Long()
	if err != nil {
		return 0, false
	}
	return millis, true
}

// RemoveExpiry clears the expiry tag and line. Items without the tag
// are returned unchanged.
func (m *Manager) RemoveExpiry(it item.Item) item.Item {
	if !m.HasExpiry(it) {
		return it
	}
	result := it.WithTags(it.Tags().Without(m.expireKey))
	return result.WithLore(removeLines(result.Lore(), item.LineExpiry))
}

// ExtendExpiry moves the expiry by delta, which may be negative. The
// result must still lie in the future.
func (m *Manager) ExtendExpiry(it item.Item, delta time.Duration) (item.Item, error) {
	if !m.HasExpiry(it) {
		return it, newError("ExtendExpiry", ErrInvalidItem, "item has no expiry")
	}
	current, ok := m.GetExpiry(it)
	if !ok {
		return it, newError("ExtendExpiry", ErrInvalidTime, "stored expiry cannot be read")
	}
	return m.SetExpiry(it, current.Add(delta))
}

// HasAttribution reports whether the item carries a string tag under
// the attribution key. The value is not parsed.
func (m *Manager) HasAttribution(it item.Item) bool {
	return !it.IsEmpty() && it.Tags().Has(m.attributionKey, item.TagString)
}

// SetAttribution returns a copy of it bound to owner, with its
// attribution line re-rendered.
func (m *Manager) SetAttribution(it item.Item, owner uuid.UUID) (item.Item, error) {
	if it.IsEmpty() {
		return it, newError("SetAttribution", ErrInvalidItem, "cannot set attribution on an empty item")
	}
	result := it.WithTags(it.Tags().With(m.attributionKey, item.StringTag(owner.String())))
	result = result.WithLore(m.renderAttribution(result.Lore(), owner))
	m.logger.Debug("attribution set", "item", result.String(), "owner", owner)
	return result, nil
}

// GetAttribution returns the bound owner. Absent tags and strings that
// are not UUIDs report false.
func (m *Manager) GetAttribution(it item.Item) (uuid.UUID, bool) {
	if it.IsEmpty() {
		return uuid.Nil, false
	}
	tag, ok := it.Tags().Get(m.attributionKey)
	if !ok {
		return uuid.Nil, false
	}
	text, err := tag.Text()
	if err != nil {
		return uuid.Nil, false
	}
	owner, err := uuid.Parse(text)
	if err != nil {
		return uuid.Nil, false
	}
	return owner, true
}

// RemoveAttribution clears the attribution tag and line. Items without
// the tag are returned unchanged.
func (m *Manager) RemoveAttribution(it item.Item) item.Item {
	if !m.HasAttribution(it) {
		return it
	}
	result := it.WithTags(it.Tags().Without(m.attributionKey))
	return result.WithLore(removeLines(result.Lore(), item.LineAttribution))
}

// CopyWithAttribution rebinds it to owner, replacing any existing
// attribution.
func (m *Manager) CopyWithAttribution(it item.Item, owner uuid.UUID) (item.Item, error) {
	return m.SetAttribution(m.RemoveAttribution(it), owner)
}

var conflictTerms = []string{"expire", "attribution", "owner", "bound"}

// HasConflictingNBT reports whether a tag outside the manager's
// namespace has a name containing expire, attribution, owner, or
// bound. Such tags suggest another tool is tracking the same concerns.
func (m *Manager) HasConflictingNBT(it item.Item) bool {
	if it.IsEmpty() {
		return false
	}
	for _, key := range it.Tags().Keys() {
		if key.Namespace == m.namespace {
			continue
		}
		for _, term := range conflictTerms {
			if strings.Contains(key.Name, term) {
				return true
			}
		}
	}
	return false
}

var attributableTerms = []string{
	"SWORD", "AXE", "PICKAXE", "SHOVEL", "HELMET", "CHESTPLATE",
	"LEGGINGS", "BOOTS", "BOW", "CROSSBOW", "TRIDENT", "SHIELD",
}

// IsValidItemForAttribution reports whether binding the item to an
// owner makes sense: food, tools, weapons, armour, and anything that
// is not a placeable block.
func (m *Manager) IsValidItemForAttribution(it item.Item) bool {
	if it.IsEmpty() {
		return false
	}
	material := m.catalog.Lookup(it.Kind())
	if material.Edible {
		return true
	}
	name := string(it.Kind())
	for _, term := range attributableTerms {
		if strings.Contains(name, term) {
			return true
		}
	}
	return !material.Block
}

// RefreshAnnotations re-renders the expiry and attribution lines from
// the current tags, and strips lines whose tag is gone or unreadable.
func (m *Manager) RefreshAnnotations(it item.Item) item.Item {
	if it.IsEmpty() {
		return it
	}
	lore := it.Lore()
	if at, ok := m.GetExpiry(it); ok {
		lore = m.renderExpiry(lore, at)
	} else {
		lore = removeLines(lore, item.LineExpiry)
	}
	if owner, ok := m.GetAttribution(it); ok {
		lore = m.renderAttribution(lore, owner)
	} else {
		lore = removeLines(lore, item.LineAttribution)
	}
	return it.WithLore(lore)
}
