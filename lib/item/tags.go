// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package item

import (
	"bytes"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/bureau-foundation/warden/lib/codec"
)

// Key is a namespaced tag key, written "namespace:name".
type Key struct {
	Namespace string
	Name      string
}

var (
	namespacePattern = regexp.MustCompile(`^[a-z0-9._-]+$`)
	keyNamePattern   = regexp.MustCompile(`^[a-z0-9/._-]+$`)
)

// NewKey returns the key namespace:name. It does not validate; use
// [Key.Validate] or [ParseKey] for untrusted input.
func NewKey(namespace, name string) Key {
	return Key{Namespace: namespace, Name: name}
}

// ParseKey parses "namespace:name".
func ParseKey(raw string) (Key, error) {
	namespace, name, found := strings.Cut(raw, ":")
	if !found {
		return Key{}, fmt.Errorf("tag key %q: missing namespace separator", raw)
	}
	key := Key{Namespace: namespace, Name: name}
	if err := key.Validate(); err != nil {
		return Key{}, err
	}
	return key, nil
}

// Validate checks the character set of both parts: lowercase letters,
// digits, '.', '_', '-', and additionally '/' in the name.
func (k Key) Validate() error {
	if !namespacePattern.MatchString(k.Namespace) {
		return fmt.Errorf("tag key %q: invalid namespace", k.String())
	}
	if !keyNamePattern.MatchString(k.Name) {
		return fmt.Errorf("tag key %q: invalid name", k.String())
	}
	return nil
}

// String returns "namespace:name".
func (k Key) String() string { return k.Namespace + ":" + k.Name }

// TagType is the declared type of a tag value.
type TagType uint8

const (
	// TagLong holds a 64-bit signed integer.
	TagLong TagType = iota + 1
	// TagString holds a UTF-8 string.
	TagString
	// TagBytes holds an opaque byte string.
	TagBytes
)

func (t TagType) String() string {
	switch t {
	case TagLong:
		return "long"
	case TagString:
		return "string"
	case TagBytes:
		return "bytes"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// ParseTagType is the inverse of TagType.String.
func ParseTagType(name string) (TagType, error) {
	switch name {
	case "long":
		return TagLong, nil
	case "string":
		return TagString, nil
	case "bytes":
		return TagBytes, nil
	default:
		return 0, fmt.Errorf("unknown tag type %q", name)
	}
}

// Tag is one typed value in a tag store. Raw holds the CBOR encoding
// of the value; it is decoded lazily by the typed accessors, which fail
// when the declared type and the encoding disagree.
type Tag struct {
	Type TagType
	Raw  codec.RawMessage
}

// LongTag encodes v as a TagLong value.
func LongTag(v int64) Tag { return Tag{Type: TagLong, Raw: mustMarshal(v)} }

// StringTag encodes s as a TagString value.
func StringTag(s string) Tag { return Tag{Type: TagString, Raw: mustMarshal(s)} }

// BytesTag encodes b as a TagBytes value.
func BytesTag(b []byte) Tag { return Tag{Type: TagBytes, Raw: mustMarshal(b)} }

func mustMarshal(v any) codec.RawMessage {
	data, err := codec.Marshal(v)
	if err != nil {
		panic("item: encoding primitive tag value: " + err.Error())
	}
	return data
}

// Long decodes a TagLong value.
func (t Tag) Long() (int64, error) {
	if t.Type != TagLong {
		return 0, fmt.Errorf("tag is %s, not long", t.Type)
	}
	var v int64
	if err := codec.Unmarshal(t.Raw, &v); err != nil {
		return 0, fmt.Errorf("decoding long tag: %w", err)
	}
	return v, nil
}

// Text decodes a TagString value.
func (t Tag) Text() (string, error) {
	if t.Type != TagString {
		return "", fmt.Errorf("tag is %s, not string", t.Type)
	}
	var v string
	if err := codec.Unmarshal(t.Raw, &v); err != nil {
		return "", fmt.Errorf("decoding string tag: %w", err)
	}
	return v, nil
}

// Bytes decodes a TagBytes value.
func (t Tag) Bytes() ([]byte, error) {
	if t.Type != TagBytes {
		return nil, fmt.Errorf("tag is %s, not bytes", t.Type)
	}
	var v []byte
	if err := codec.Unmarshal(t.Raw, &v); err != nil {
		return nil, fmt.Errorf("decoding bytes tag: %w", err)
	}
	return v, nil
}

// Equal compares declared type and encoded bytes.
func (t Tag) Equal(other Tag) bool {
	return t.Type == other.Type && bytes.Equal(t.Raw, other.Raw)
}

// Tags is a copy-on-write tag store. The zero value is an empty store.
// With and Without return new stores; the receiver is never modified.
type Tags struct {
	entries map[Key]Tag
}

// Len returns the number of tags.
func (t Tags) Len() int { return len(t.entries) }

// Get returns the tag stored under key.
func (t Tags) Get(key Key) (Tag, bool) {
	tag, ok := t.entries[key]
	return tag, ok
}

// Has reports whether key holds a tag of the given declared type.
func (t Tags) Has(key Key, tagType TagType) bool {
	tag, ok := t.entries[key]
	return ok && tag.Type == tagType
}

// With returns a store with key set to tag.
func (t Tags) With(key Key, tag Tag) Tags {
	entries := make(map[Key]Tag, len(t.entries)+1)
	for k, v := range t.entries {
		entries[k] = v
	}
	entries[key] = Tag{Type: tag.Type, Raw: bytes.Clone(tag.Raw)}
	return Tags{entries: entries}
}

// Without returns a store with key removed. When key is absent the
// receiver is returned as is.
func (t Tags) Without(key Key) Tags {
	if _, ok := t.entries[key]; !ok {
		return t
	}
	if len(t.entries) == 1 {
		return Tags{}
	}
	entries := make(map[Key]Tag, len(t.entries)-1)
	for k, v := range t.entries {
		if k != key {
			entries[k] = v
		}
	}
	return Tags{entries: entries}
}

// Keys returns every key, sorted by their string form.
func (t Tags) Keys() []Key {
	keys := make([]Key, 0, len(t.entries))
	for key := range t.entries {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b Key) int { return strings.Compare(a.String(), b.String()) })
	return keys
}

// Equal reports whether both stores hold the same keys with equal tags.
func (t Tags) Equal(other Tags) bool {
	if len(t.entries) != len(other.entries) {
		return false
	}
	for key, tag := range t.entries {
		otherTag, ok := other.entries[key]
		if !ok || !tag.Equal(otherTag) {
			return false
		}
	}
	return true
}
