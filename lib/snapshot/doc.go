// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapshot reads and writes world files: every player's
// inventory and cursor, every named container, and the item entities on
// the ground.
//
// The file extension selects the encoding:
//
//   - .yaml, .yml -- YAML, for hand editing
//   - .json -- JSON
//   - .jsonc -- JSON with comments and trailing commas; written as
//     plain JSON
//   - .cbor -- core deterministic CBOR
//   - .cbor.zst -- CBOR compressed with zstd
//   - .cbor.lz4 -- CBOR compressed with an LZ4 frame
//
// Items inside a document use the item record form in every encoding,
// so tag types and raw payloads survive conversion between formats.
// [Write] replaces the target atomically.
package snapshot
