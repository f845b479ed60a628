// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package item

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/warden/lib/codec"
)

// Record is the serialized form of an Item. CBOR encoding falls back
// to the json struct tags.
type Record struct {
	Kind   Kind                 `json:"kind" yaml:"kind"`
	Amount int                  `json:"amount" yaml:"amount"`
	Tags   map[string]TagRecord `json:"tags,omitempty" yaml:"tags,omitempty"`
	Lore   []LineRecord         `json:"lore,omitempty" yaml:"lore,omitempty"`
}

// TagRecord is one serialized tag. Value is an integer for long tags,
// a string for string tags, and standard base64 for bytes tags. A tag
// whose stored bytes do not decode as its declared type is written
// with Raw (base64 CBOR) instead of Value so that foreign data
// survives a round trip untouched.
type TagRecord struct {
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
	Raw   string `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// LineRecord is one serialized annotation line. Text is shorthand for
// a single uncoloured segment and is only read, never written.
type LineRecord struct {
	Kind     string    `json:"kind,omitempty" yaml:"kind,omitempty"`
	Text     string    `json:"text,omitempty" yaml:"text,omitempty"`
	Segments []Segment `json:"segments,omitempty" yaml:"segments,omitempty"`
}

// Record converts the item to its serialized form.
func (it Item) Record() Record {
	if it.IsEmpty() {
		return Record{Kind: Air}
	}
	record := Record{Kind: it.kind, Amount: it.amount}
	if it.tags.Len() > 0 {
		record.Tags = make(map[string]TagRecord, it.tags.Len())
		for _, key := range it.tags.Keys() {
			tag, _ := it.tags.Get(key)
			record.Tags[key.String()] = tagRecord(tag)
		}
	}
	for _, line := range it.lore {
		record.Lore = append(record.Lore, LineRecord{
			Kind:     line.Kind.String(),
			Segments: line.Segments,
		})
	}
	return record
}

func tagRecord(tag Tag) TagRecord {
	record := TagRecord{Type: tag.Type.String()}
	var err error
	switch tag.Type {
	case TagLong:
		record.Value, err = tag.Long()
	case TagString:
		record.Value, err = tag.Text()
	case TagBytes:
		var value []byte
		value, err = tag.Bytes()
		record.Value = base64.StdEncoding.EncodeToString(value)
	default:
		err = fmt.Errorf("unknown tag type")
	}
	if err != nil {
		record.Value = nil
		record.Raw = base64.StdEncoding.EncodeToString(tag.Raw)
	}
	return record
}

// FromRecord validates a record and builds the item it describes.
func FromRecord(record Record) (Item, error) {
	kind := NormalizeKind(string(record.Kind))
	if kind.IsVoid() || record.Amount <= 0 {
		if record.Tags != nil || record.Lore != nil {
			return Empty, fmt.Errorf("empty item %q cannot carry tags or lore", record.Kind)
		}
		return Empty, nil
	}

	it := New(kind, record.Amount)

	tags := Tags{}
	for rawKey, tagRec := range record.Tags {
		key, err := ParseKey(rawKey)
		if err != nil {
			return Empty, err
		}
		tag, err := tagFromRecord(tagRec)
		if err != nil {
			return Empty, fmt.Errorf("tag %s: %w", rawKey, err)
		}
		tags = tags.With(key, tag)
	}
	it.tags = tags

	for index, lineRec := range record.Lore {
		lineKind, err := ParseLineKind(lineRec.Kind)
		if err != nil {
			return Empty, fmt.Errorf("lore line %d: %w", index, err)
		}
		segments := lineRec.Segments
		if lineRec.Text != "" {
			if len(segments) > 0 {
				return Empty, fmt.Errorf("lore line %d: text and segments are mutually exclusive", index)
			}
			segments = []Segment{{Text: lineRec.Text}}
		}
		it.lore = append(it.lore, Line{Kind: lineKind, Segments: append([]Segment(nil), segments...)})
	}
	return it, nil
}

func tagFromRecord(record TagRecord) (Tag, error) {
	tagType, err := ParseTagType(record.Type)
	if err != nil {
		return Tag{}, err
	}
	if record.Raw != "" {
		if record.Value != nil {
			return Tag{}, fmt.Errorf("value and raw are mutually exclusive")
		}
		raw, err := base64.StdEncoding.DecodeString(record.Raw)
		if err != nil {
			return Tag{}, fmt.Errorf("decoding raw: %w", err)
		}
		if !codec.Wellformed(raw) {
			return Tag{}, fmt.Errorf("raw is not a well-formed CBOR value")
		}
		return Tag{Type: tagType, Raw: raw}, nil
	}

	switch tagType {
	case TagLong:
		value, err := toInt64(record.Value)
		if err != nil {
			return Tag{}, err
		}
		return LongTag(value), nil
	case TagString:
		value, ok := record.Value.(string)
		if !ok {
			return Tag{}, fmt.Errorf("string tag value is %T", record.Value)
		}
		return StringTag(value), nil
	default:
		encoded, ok := record.Value.(string)
		if !ok {
			return Tag{}, fmt.Errorf("bytes tag value is %T, want base64 string", record.Value)
		}
		value, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return Tag{}, fmt.Errorf("decoding bytes tag: %w", err)
		}
		return BytesTag(value), nil
	}
}

// toInt64 accepts the integer shapes produced by the JSON, YAML, and
// CBOR decoders when decoding into any.
func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("long tag value %d overflows int64", v)
		}
		return int64(v), nil
	case json.Number:
		parsed, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("long tag value %q: %w", v, err)
		}
		return parsed, nil
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v > math.MaxInt64 {
			return 0, fmt.Errorf("long tag value %v is not an integer", v)
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("long tag value is %T", value)
	}
}

// MarshalCBOR encodes the item record.
func (it Item) MarshalCBOR() ([]byte, error) {
	return codec.Marshal(it.Record())
}

// UnmarshalCBOR decodes and validates an item record.
func (it *Item) UnmarshalCBOR(data []byte) error {
	var record Record
	if err := codec.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("decoding item: %w", err)
	}
	return it.fromRecord(record)
}

// MarshalJSON encodes the item record.
func (it Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(it.Record())
}

// UnmarshalJSON decodes and validates an item record. Integers are
// decoded exactly, without a float64 round trip.
func (it *Item) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var record Record
	if err := decoder.Decode(&record); err != nil {
		return fmt.Errorf("decoding item: %w", err)
	}
	return it.fromRecord(record)
}

// MarshalYAML encodes the item record.
func (it Item) MarshalYAML() (any, error) {
	return it.Record(), nil
}

// UnmarshalYAML decodes and validates an item record.
func (it *Item) UnmarshalYAML(node *yaml.Node) error {
	var record Record
	if err := node.Decode(&record); err != nil {
		return fmt.Errorf("decoding item: %w", err)
	}
	return it.fromRecord(record)
}

func (it *Item) fromRecord(record Record) error {
	decoded, err := FromRecord(record)
	if err != nil {
		return err
	}
	*it = decoded
	return nil
}
