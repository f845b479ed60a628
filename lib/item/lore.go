// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package item

import (
	"fmt"
	"slices"
	"strings"
)

// LineKind marks who owns an annotation line.
type LineKind uint8

const (
	// LineText is a line warden did not produce. It is never removed
	// or reordered by the annotation renderer.
	LineText LineKind = iota
	// LineExpiry shows the expiry instant.
	LineExpiry
	// LineAttribution shows the attributed owner.
	LineAttribution
)

func (k LineKind) String() string {
	switch k {
	case LineText:
		return "text"
	case LineExpiry:
		return "expiry"
	case LineAttribution:
		return "attribution"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// ParseLineKind is the inverse of LineKind.String. The empty string
// means LineText so that hand-written snapshots can omit it.
func ParseLineKind(name string) (LineKind, error) {
	switch name {
	case "", "text":
		return LineText, nil
	case "expiry":
		return LineExpiry, nil
	case "attribution":
		return LineAttribution, nil
	default:
		return 0, fmt.Errorf("unknown line kind %q", name)
	}
}

// Color is a named display colour. The CLI maps names to terminal
// colours; hosts map them to their own palette.
type Color string

const (
	ColorNone   Color = ""
	ColorGray   Color = "gray"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
	ColorGold   Color = "gold"
	ColorGreen  Color = "green"
	ColorAqua   Color = "aqua"
	ColorWhite  Color = "white"
)

// Segment is a run of text in one colour.
type Segment struct {
	Text  string `json:"text" yaml:"text"`
	Color Color  `json:"color,omitempty" yaml:"color,omitempty"`
}

// Line is one annotation line.
type Line struct {
	Kind     LineKind
	Segments []Segment
}

// TextLine returns an uncoloured LineText line.
func TextLine(text string) Line {
	return Line{Kind: LineText, Segments: []Segment{{Text: text}}}
}

// Text returns the concatenated segment text.
func (l Line) Text() string {
	var builder strings.Builder
	for _, segment := range l.Segments {
		builder.WriteString(segment.Text)
	}
	return builder.String()
}

// Equal compares kind and segments.
func (l Line) Equal(other Line) bool {
	return l.Kind == other.Kind && slices.Equal(l.Segments, other.Segments)
}

func cloneLines(lines []Line) []Line {
	if lines == nil {
		return nil
	}
	out := make([]Line, len(lines))
	for i, line := range lines {
		out[i] = Line{Kind: line.Kind, Segments: slices.Clone(line.Segments)}
	}
	return out
}
