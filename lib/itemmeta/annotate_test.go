// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package itemmeta

import (
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/warden/lib/item"
)

func lineKinds(it item.Item) []item.LineKind {
	var kinds []item.LineKind
	for _, line := range it.Lore() {
		kinds = append(kinds, line.Kind)
	}
	return kinds
}

func TestAnnotationText(t *testing.T) {
	owner := uuid.MustParse("6f1c2b1e-8c2a-4d5e-9f00-0123456789ab")
	manager, _ := newTestManager(t, WithNames(staticNames{owner: "Steve"}))

	sword, err := manager.SetExpiry(item.New("IRON_SWORD", 1), time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	sword, err = manager.SetAttribution(sword, owner)
	if err != nil {
		t.Fatal(err)
	}

	lore := sword.Lore()
	if len(lore) != 2 {
		t.Fatalf("lore has %d lines", len(lore))
	}
	if got := lore[0].Text(); got != "⏱ Expires: 2026-03-02 08:30:00" {
		t.Errorf("expiry line = %q", got)
	}
	if lore[0].Segments[0].Color != item.ColorGray || lore[0].Segments[1].Color != item.ColorYellow {
		t.Errorf("expiry colours = %+v", lore[0].Segments)
	}
	if got := lore[1].Text(); got != "🔒 Bound to: Steve" {
		t.Errorf("attribution line = %q", got)
	}
	if lore[1].Segments[0].Color != item.ColorRed || lore[1].Segments[1].Color != item.ColorGold {
		t.Errorf("attribution colours = %+v", lore[1].Segments)
	}

	stranger := uuid.New()
	unnamed, err := manager.SetAttribution(item.New("BOW", 1), stranger)
	if err != nil {
		t.Fatal(err)
	}
	if got := unnamed.Lore()[0].Text(); got != "🔒 Bound to: "+stranger.String() {
		t.Errorf("unresolved owner line = %q", got)
	}
}

func TestAnnotationPlacement(t *testing.T) {
	manager, _ := newTestManager(t)
	owner := uuid.New()
	base := item.New("GOLDEN_APPLE", 1).WithLore([]item.Line{item.TextLine("first"), item.TextLine("second")})

	// Attribution before expiry: attribution goes first, then expiry
	// is inserted above it.
	attributed, err := manager.SetAttribution(base, owner)
	if err != nil {
		t.Fatal(err)
	}
	if got := lineKinds(attributed); !slices.Equal(got, []item.LineKind{item.LineAttribution, item.LineText, item.LineText}) {
		t.Errorf("after attribution: %v", got)
	}
	both, err := manager.SetExpiry(attributed, epoch.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if got := lineKinds(both); !slices.Equal(got, []item.LineKind{item.LineExpiry, item.LineAttribution, item.LineText, item.LineText}) {
		t.Errorf("after expiry: %v", got)
	}

	// Re-attributing with an expiry line present lands at index 1.
	rebound, err := manager.SetAttribution(both, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if got := lineKinds(rebound); !slices.Equal(got, []item.LineKind{item.LineExpiry, item.LineAttribution, item.LineText, item.LineText}) {
		t.Errorf("after rebinding: %v", got)
	}
	if got := rebound.Lore()[2].Text(); got != "first" {
		t.Errorf("foreign lines reordered: %q", got)
	}
}

func TestRemovalIgnoresDisplayText(t *testing.T) {
	manager, _ := newTestManager(t)
	// A foreign line that reads exactly like an expiry line must
	// survive removal.
	lookalike := item.TextLine("⏱ Expires: 2026-03-02 08:30:00")
	it, err := manager.SetExpiry(item.New("BREAD", 1).WithLore([]item.Line{lookalike}), epoch.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	removed := manager.RemoveExpiry(it)
	lore := removed.Lore()
	if len(lore) != 1 || !lore[0].Equal(lookalike) {
		t.Errorf("lore after removal = %+v", lore)
	}
}

func TestRenderingIsIdempotent(t *testing.T) {
	manager, _ := newTestManager(t)
	owner := uuid.New()
	at := epoch.Add(2 * time.Hour)

	once, err := manager.SetExpiry(item.New("TRIDENT", 1), at)
	if err != nil {
		t.Fatal(err)
	}
	once, err = manager.SetAttribution(once, owner)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := manager.SetExpiry(once, at)
	if err != nil {
		t.Fatal(err)
	}
	twice, err = manager.SetAttribution(twice, owner)
	if err != nil {
		t.Fatal(err)
	}
	if !once.Equal(twice) {
		t.Error("rendering twice differs from rendering once")
	}
	if refreshed := manager.RefreshAnnotations(once); !refreshed.Equal(once) {
		t.Error("RefreshAnnotations changed an up-to-date item")
	}
}

func TestCopyWithAttributionSingleLine(t *testing.T) {
	manager, _ := newTestManager(t)
	first, second := uuid.New(), uuid.New()

	it, err := manager.CopyWithAttribution(item.New("SHIELD", 1), first)
	if err != nil {
		t.Fatal(err)
	}
	it, err = manager.CopyWithAttribution(it, second)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, kind := range lineKinds(it) {
		if kind == item.LineAttribution {
			count++
		}
	}
	if count != 1 {
		t.Errorf("%d attribution lines after rebinding twice", count)
	}
	if owner, _ := manager.GetAttribution(it); owner != second {
		t.Errorf("owner = %v, want %v", owner, second)
	}
}

func TestRefreshAnnotations(t *testing.T) {
	owner := uuid.New()
	names := staticNames{}
	manager, _ := newTestManager(t, WithNames(names))

	it, err := manager.SetAttribution(item.New("BOW", 1), owner)
	if err != nil {
		t.Fatal(err)
	}
	names[owner] = "Alex"
	refreshed := manager.RefreshAnnotations(it)
	if got := refreshed.Lore()[0].Text(); got != "🔒 Bound to: Alex" {
		t.Errorf("refreshed line = %q", got)
	}

	// A stale line with no backing tag is dropped.
	stale := item.New("BOW", 1).WithLore([]item.Line{manager.ExpiryLine(epoch), item.TextLine("keep")})
	cleaned := manager.RefreshAnnotations(stale)
	if got := lineKinds(cleaned); !slices.Equal(got, []item.LineKind{item.LineText}) {
		t.Errorf("lines after refresh = %v", got)
	}
}
