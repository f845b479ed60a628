// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package item

import (
	"bytes"
	"slices"
	"testing"
)

func TestParseKey(t *testing.T) {
	key, err := ParseKey("warden:expire_time")
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	if key.Namespace != "warden" || key.Name != "expire_time" {
		t.Errorf("ParseKey = %+v", key)
	}
	if key.String() != "warden:expire_time" {
		t.Errorf("String() = %q", key.String())
	}

	for _, bad := range []string{"", "noseparator", ":name", "ns:", "NS:name", "ns:Name", "ns space:name"} {
		if _, err := ParseKey(bad); err == nil {
			t.Errorf("ParseKey(%q) succeeded, want error", bad)
		}
	}
}

func TestTypedAccessors(t *testing.T) {
	long := LongTag(-1234567890123)
	if value, err := long.Long(); err != nil || value != -1234567890123 {
		t.Errorf("Long() = %d, %v", value, err)
	}
	if _, err := long.Text(); err == nil {
		t.Error("Text() on a long tag succeeded")
	}

	text := StringTag("hello")
	if value, err := text.Text(); err != nil || value != "hello" {
		t.Errorf("Text() = %q, %v", value, err)
	}

	raw := BytesTag([]byte{1, 2, 3})
	if value, err := raw.Bytes(); err != nil || !bytes.Equal(value, []byte{1, 2, 3}) {
		t.Errorf("Bytes() = %v, %v", value, err)
	}

	// Declared long but holding a string encoding.
	mismatched := Tag{Type: TagLong, Raw: StringTag("soon").Raw}
	if _, err := mismatched.Long(); err == nil {
		t.Error("Long() on mismatched bytes succeeded")
	}
}

func TestTagsCopyOnWrite(t *testing.T) {
	a := NewKey("warden", "a")
	b := NewKey("warden", "b")

	var empty Tags
	one := empty.With(a, LongTag(1))
	two := one.With(b, StringTag("x"))

	if empty.Len() != 0 || one.Len() != 1 || two.Len() != 2 {
		t.Fatalf("lengths = %d, %d, %d", empty.Len(), one.Len(), two.Len())
	}
	if !two.Has(a, TagLong) || two.Has(a, TagString) {
		t.Error("Has does not respect declared type")
	}

	removed := two.Without(a)
	if removed.Has(a, TagLong) || !two.Has(a, TagLong) {
		t.Error("Without modified the receiver or failed to remove")
	}
	if got := removed.Without(a); !got.Equal(removed) {
		t.Error("Without on an absent key changed the store")
	}

	if got := two.Keys(); !slices.Equal(got, []Key{a, b}) {
		t.Errorf("Keys() = %v", got)
	}
	if !two.Equal(one.With(b, StringTag("x"))) {
		t.Error("stores built the same way are not Equal")
	}
	if two.Equal(one.With(b, StringTag("y"))) {
		t.Error("stores with different values are Equal")
	}
}
