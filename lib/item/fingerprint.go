// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package item

import (
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/warden/lib/codec"
)

// Fingerprint identifies an item value. Two items with equal
// fingerprints are Equal.
type Fingerprint [32]byte

// String returns the first 12 hex characters, enough to tell items
// apart in logs.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:6])
}

// fingerprintDomainKey is the BLAKE3 key for item fingerprints: the
// ASCII domain name zero-padded to 32 bytes.
var fingerprintDomainKey = [32]byte{
	'w', 'a', 'r', 'd', 'e', 'n', '.', 'i', 't', 'e', 'm', '.',
	'f', 'i', 'n', 'g', 'e', 'r', 'p', 'r', 'i', 'n', 't',
}

// fingerprintBody is hashed instead of Record so that malformed tag
// bytes contribute exactly what is stored.
type fingerprintBody struct {
	Kind   Kind
	Amount int
	Tags   map[string]fingerprintTag
	Lore   []Line
}

type fingerprintTag struct {
	Type TagType
	Raw  []byte
}

// Fingerprint returns the keyed BLAKE3 hash of the item's
// deterministic CBOR encoding.
func (it Item) Fingerprint() Fingerprint {
	body := fingerprintBody{Kind: it.Kind(), Amount: it.Amount()}
	if !it.IsEmpty() {
		body.Lore = it.lore
		if it.tags.Len() > 0 {
			body.Tags = make(map[string]fingerprintTag, it.tags.Len())
			for key, tag := range it.tags.entries {
				body.Tags[key.String()] = fingerprintTag{Type: tag.Type, Raw: tag.Raw}
			}
		}
	}
	data, err := codec.Marshal(body)
	if err != nil {
		panic("item: encoding fingerprint body: " + err.Error())
	}

	hasher, err := blake3.NewKeyed(fingerprintDomainKey[:])
	if err != nil {
		panic("item: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var fingerprint Fingerprint
	copy(fingerprint[:], hasher.Sum(nil))
	return fingerprint
}
