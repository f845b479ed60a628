// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ttl parses and formats the short duration strings operators
// use to set item lifetimes: "30s", "1h30m", "7d".
//
// A duration string is one or more <integer><unit> tokens, unit being
// s, m, h, or d (case-insensitive). Tokens are summed, so "1h1h" is two
// hours. Text between tokens is ignored. A string with no tokens, or
// whose tokens sum to zero, is rejected with [ErrInvalidDuration].
package ttl

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDuration is returned when a duration string has no tokens
// or sums to zero.
var ErrInvalidDuration = errors.New("invalid duration")

var tokenPattern = regexp.MustCompile(`(?i)(\d+)([smhd])`)

var units = map[byte]time.Duration{
	's': time.Second,
	'm': time.Minute,
	'h': time.Hour,
	'd': 24 * time.Hour,
}

// Parse sums the tokens of s.
func Parse(s string) (time.Duration, error) {
	matches := tokenPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("%w: %q has no <number><s|m|h|d> tokens", ErrInvalidDuration, s)
	}

	var total time.Duration
	for _, match := range matches {
		count, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidDuration, match[0], err)
		}
		unit := units[strings.ToLower(match[2])[0]]
		if count > int64(math.MaxInt64/unit) {
			return 0, fmt.Errorf("%w: %q overflows", ErrInvalidDuration, match[0])
		}
		step := time.Duration(count) * unit
		if total > math.MaxInt64-step {
			return 0, fmt.Errorf("%w: %q overflows", ErrInvalidDuration, s)
		}
		total += step
	}
	if total == 0 {
		return 0, fmt.Errorf("%w: %q sums to zero", ErrInvalidDuration, s)
	}
	return total, nil
}

// ParseDeadline returns now plus the parsed duration.
func ParseDeadline(now time.Time, s string) (time.Time, error) {
	duration, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(duration), nil
}

// Expired is what FormatRemaining returns for non-positive durations.
const Expired = "expired"

// FormatRemaining renders d as "1d 2h 3m 4s", omitting leading zero
// units and truncating to whole seconds. Durations under one second
// but above zero render as "0s".
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return Expired
	}
	seconds := int64(d / time.Second)
	days := seconds / 86400
	hours := seconds % 86400 / 3600
	minutes := seconds % 3600 / 60
	seconds %= 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// FormatTimestamp renders t in loc with layout. A nil loc means
// time.Local.
func FormatTimestamp(t time.Time, layout string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(layout)
}
