// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package itemmeta

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/warden/lib/item"
	"github.com/bureau-foundation/warden/lib/ttl"
)

// AnnotationFormat controls how expiry and attribution lines read.
// Lines are identified by their item.LineKind, never by these labels,
// so changing the format does not orphan lines rendered earlier.
type AnnotationFormat struct {
	ExpiryLabel      string
	AttributionLabel string
	// TimeLayout is a time.Format layout.
	TimeLayout string
	// Location is the zone expiry instants are shown in. Nil means
	// time.Local.
	Location *time.Location
}

// DefaultAnnotationFormat returns the built-in labels and layout.
func DefaultAnnotationFormat() AnnotationFormat {
	return AnnotationFormat{
		ExpiryLabel:      "⏱ Expires: ",
		AttributionLabel: "🔒 Bound to: ",
		TimeLayout:       "2006-01-02 15:04:05",
	}
}

func (f AnnotationFormat) withDefaults() AnnotationFormat {
	defaults := DefaultAnnotationFormat()
	if f.ExpiryLabel == "" {
		f.ExpiryLabel = defaults.ExpiryLabel
	}
	if f.AttributionLabel == "" {
		f.AttributionLabel = defaults.AttributionLabel
	}
	if f.TimeLayout == "" {
		f.TimeLayout = defaults.TimeLayout
	}
	return f
}

// ExpiryLine returns the line shown for an expiry at at.
func (m *Manager) ExpiryLine(at time.Time) item.Line {
	return item.Line{
		Kind: item.LineExpiry,
		Segments: []item.Segment{
			{Text: m.format.ExpiryLabel, Color: item.ColorGray},
			{Text: ttl.FormatTimestamp(at, m.format.TimeLayout, m.format.Location), Color: item.ColorYellow},
		},
	}
}

// AttributionLine returns the line shown for owner. The name comes
// from the resolver, falling back to the UUID.
func (m *Manager) AttributionLine(owner uuid.UUID) item.Line {
	return item.Line{
		Kind: item.LineAttribution,
		Segments: []item.Segment{
			{Text: m.format.AttributionLabel, Color: item.ColorRed},
			{Text: m.ownerName(owner), Color: item.ColorGold},
		},
	}
}

func (m *Manager) ownerName(owner uuid.UUID) string {
	if m.names != nil {
		if name, ok := m.names.Name(owner); ok && name != "" {
			return name
		}
	}
	return owner.String()
}

// renderExpiry replaces any expiry line with a fresh one at index 0.
func (m *Manager) renderExpiry(lore []item.Line, at time.Time) []item.Line {
	lore = removeLines(lore, item.LineExpiry)
	return slices.Insert(lore, 0, m.ExpiryLine(at))
}

// renderAttribution replaces any attribution line with a fresh one,
// directly below the expiry line when there is one, else first.
func (m *Manager) renderAttribution(lore []item.Line, owner uuid.UUID) []item.Line {
	lore = removeLines(lore, item.LineAttribution)
	index := 0
	if hasLine(lore, item.LineExpiry) {
		index = 1
	}
	return slices.Insert(lore, index, m.AttributionLine(owner))
}

func removeLines(lore []item.Line, kind item.LineKind) []item.Line {
	return slices.DeleteFunc(lore, func(line item.Line) bool { return line.Kind == kind })
}

func hasLine(lore []item.Line, kind item.LineKind) bool {
	return slices.ContainsFunc(lore, func(line item.Line) bool { return line.Kind == kind })
}
