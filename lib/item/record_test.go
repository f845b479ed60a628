// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package item

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/warden/lib/codec"
)

func sampleItem() Item {
	tags := Tags{}.
		With(NewKey("warden", "expire_time"), LongTag(1760000000123)).
		With(NewKey("warden", "attribution_uuid"), StringTag("6f1c2b1e-8c2a-4d5e-9f00-0123456789ab")).
		With(NewKey("other", "blob"), BytesTag([]byte{0, 1, 254}))
	lore := []Line{
		{Kind: LineExpiry, Segments: []Segment{{Text: "⏱ Expires: ", Color: ColorGray}, {Text: "2025-10-09 08:53:20", Color: ColorYellow}}},
		TextLine("hand forged"),
	}
	return New("DIAMOND_SWORD", 1).WithTags(tags).WithLore(lore)
}

func TestRecordRoundTripFormats(t *testing.T) {
	original := sampleItem()

	t.Run("cbor", func(t *testing.T) {
		data, err := codec.Marshal(original)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		var decoded Item
		if err := codec.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if !decoded.Equal(original) {
			t.Errorf("CBOR round trip changed the item: %v", decoded.Record())
		}
	})

	t.Run("json", func(t *testing.T) {
		data, err := json.Marshal(original)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		var decoded Item
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if !decoded.Equal(original) {
			t.Errorf("JSON round trip changed the item: %s", data)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		data, err := yaml.Marshal(original)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		var decoded Item
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if !decoded.Equal(original) {
			t.Errorf("YAML round trip changed the item:\n%s", data)
		}
	})
}

func TestRecordPreservesMalformedTags(t *testing.T) {
	key := NewKey("warden", "expire_time")
	broken := Tag{Type: TagLong, Raw: StringTag("tomorrow").Raw}
	original := New("APPLE", 2).WithTags(Tags{}.With(key, broken))

	record := original.Record()
	tagRec := record.Tags["warden:expire_time"]
	if tagRec.Raw == "" || tagRec.Value != nil {
		t.Fatalf("malformed tag should serialize as raw, got %+v", tagRec)
	}

	decoded, err := FromRecord(record)
	if err != nil {
		t.Fatalf("FromRecord: %v", err)
	}
	if !decoded.Equal(original) {
		t.Error("malformed tag did not survive the round trip")
	}
}

func TestFromRecordShorthandAndErrors(t *testing.T) {
	var it Item
	input := `{"kind":"golden apple","amount":3,"lore":[{"text":"shiny"}],"tags":{"warden:expire_time":{"type":"long","value":1760000000000}}}`
	if err := json.Unmarshal([]byte(input), &it); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if it.Kind() != "GOLDEN_APPLE" || it.Amount() != 3 {
		t.Errorf("decoded %s", it)
	}
	if lore := it.Lore(); len(lore) != 1 || lore[0].Kind != LineText || lore[0].Text() != "shiny" {
		t.Errorf("lore = %+v", lore)
	}
	if tag, _ := it.Tags().Get(NewKey("warden", "expire_time")); tag.Type != TagLong {
		t.Errorf("tag type = %v", tag.Type)
	}

	cases := map[string]string{
		"bad key":       `{"kind":"STONE","amount":1,"tags":{"nocolon":{"type":"long","value":1}}}`,
		"bad type":      `{"kind":"STONE","amount":1,"tags":{"a:b":{"type":"float","value":1}}}`,
		"wrong value":   `{"kind":"STONE","amount":1,"tags":{"a:b":{"type":"long","value":"x"}}}`,
		"fractional":    `{"kind":"STONE","amount":1,"tags":{"a:b":{"type":"long","value":1.5}}}`,
		"bad line kind": `{"kind":"STONE","amount":1,"lore":[{"kind":"banner","text":"x"}]}`,
		"tags on empty": `{"kind":"AIR","amount":0,"tags":{"a:b":{"type":"long","value":1}}}`,
		"text+segments": `{"kind":"STONE","amount":1,"lore":[{"text":"x","segments":[{"text":"y"}]}]}`,
		"malformed raw": `{"kind":"STONE","amount":1,"tags":{"a:b":{"type":"long","raw":"/w=="}}}`,
	}
	for name, input := range cases {
		var it Item
		if err := json.Unmarshal([]byte(input), &it); err == nil {
			t.Errorf("%s: Unmarshal succeeded, want error", name)
		}
	}
}

func TestEmptyItemRecord(t *testing.T) {
	data, err := json.Marshal(Empty)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"kind":"AIR"`) {
		t.Errorf("Empty encodes as %s", data)
	}
	var decoded Item
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !decoded.IsEmpty() {
		t.Error("Empty did not decode as empty")
	}
}

func TestLongTagRecordProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	key := NewKey("warden", "expire_time")
	properties.Property("long tags survive CBOR, JSON, and YAML", prop.ForAll(
		func(value int64, amount int) bool {
			original := New("BREAD", amount).WithTags(Tags{}.With(key, LongTag(value)))

			cborData, err := codec.Marshal(original)
			if err != nil {
				return false
			}
			jsonData, err := json.Marshal(original)
			if err != nil {
				return false
			}
			yamlData, err := yaml.Marshal(original)
			if err != nil {
				return false
			}

			var fromCBOR, fromJSON, fromYAML Item
			if codec.Unmarshal(cborData, &fromCBOR) != nil ||
				json.Unmarshal(jsonData, &fromJSON) != nil ||
				yaml.Unmarshal(yamlData, &fromYAML) != nil {
				return false
			}
			return fromCBOR.Equal(original) && fromJSON.Equal(original) && fromYAML.Equal(original)
		},
		gen.Int64(),
		gen.IntRange(1, 64),
	))

	properties.TestingRun(t)
}
