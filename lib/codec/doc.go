// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds warden's single CBOR configuration.
//
// Three things are encoded with it: the typed values stored in an
// item's tag store (an expiry is a CBOR unsigned or negative integer, an
// attribution is a CBOR text string), item records used to fingerprint
// an item value, and binary world snapshots. All three rely on Core
// Deterministic Encoding (RFC 8949 §4.2) so the same logical value
// always yields the same bytes: two items with equal tags hash equal,
// and a snapshot written twice is byte-identical.
//
// Struct types that are also written as JSON or YAML carry `json` tags
// only; fxamacker/cbor falls back to them when no `cbor` tag is present.
package codec
