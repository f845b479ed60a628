// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Tag values decoded into any (snapshot tag records) must come
		// back as map[string]any, not map[any]any, so they can be
		// re-emitted as JSON or YAML.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		// Foreign tooling may write tags we do not understand; a
		// duplicate map key is the one malformation we refuse.
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v with Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Wellformed reports whether data is exactly one well-formed CBOR data
// item.
func Wellformed(data []byte) bool {
	return decMode.Wellformed(data) == nil
}

// RawMessage is an encoded CBOR value whose decoding is deferred. Tag
// values are held as RawMessage until a typed accessor reads them.
type RawMessage = cbor.RawMessage

// Diagnose returns the RFC 8949 §8 diagnostic notation of data. The
// CLI uses it to print foreign tag values it cannot interpret.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
