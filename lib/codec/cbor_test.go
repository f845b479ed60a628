// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

type sampleRecord struct {
	Kind   string `json:"kind"`
	Amount int    `json:"amount"`
	Owner  string `json:"owner,omitempty"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRecord{Kind: "DIAMOND_SWORD", Amount: 1, Owner: "6f1c0c55-2a4b-4f6e-9d0e-5a1b2c3d4e5f"}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministicMapOrder(t *testing.T) {
	first, err := Marshal(map[string]int64{"warden:expire_time": 1, "other:bound": 2, "a": 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 10 {
		again, err := Marshal(map[string]int64{"a": 3, "other:bound": 2, "warden:expire_time": 1})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("encoding not deterministic:\n%x\n%x", first, again)
		}
	}
}

func TestInt64TagValue(t *testing.T) {
	const millis int64 = 1_767_225_600_000
	data, err := Marshal(millis)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded int64
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != millis {
		t.Errorf("decoded %d, want %d", decoded, millis)
	}

	// A text value must not decode as an integer.
	text, _ := Marshal("not a number")
	if err := Unmarshal(text, &decoded); err == nil {
		t.Error("text string decoded into int64 without error")
	}
}

func TestWellformed(t *testing.T) {
	good, _ := Marshal("owner")
	if !Wellformed(good) {
		t.Error("Wellformed rejected a valid text string")
	}
	if Wellformed([]byte{0x7f}) {
		t.Error("Wellformed accepted a truncated indefinite string")
	}
}

func TestDiagnose(t *testing.T) {
	data, _ := Marshal(map[string]any{"n": 1})
	got, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if got != `{"n": 1}` {
		t.Errorf("Diagnose = %q, want %q", got, `{"n": 1}`)
	}
}
