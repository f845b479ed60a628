// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package itemmeta

import (
	"errors"
	"fmt"
)

// Error categories. Match with errors.Is.
var (
	// ErrInvalidItem: the item is empty, or lacks the metadata the
	// operation requires.
	ErrInvalidItem = errors.New("invalid item")
	// ErrInvalidTime: an expiry at or before now, or a stored expiry
	// that cannot be read.
	ErrInvalidTime = errors.New("invalid time")
	// ErrExpiredItem is not returned by this package. Callers use it
	// to refuse operations on items that have already expired.
	ErrExpiredItem = errors.New("item expired")
	// ErrAttribution is not returned by this package. Callers use it
	// to refuse operations on items bound to someone else.
	ErrAttribution = errors.New("item bound to another owner")
)

// Error is a failed metadata operation.
type Error struct {
	// Op is the operation name, e.g. "SetExpiry".
	Op string
	// Kind is one of the Err* sentinels.
	Kind error
	// Err describes the failure.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches the error's category sentinel.
func (e *Error) Is(target error) bool { return target == e.Kind }

func newError(op string, kind error, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}
