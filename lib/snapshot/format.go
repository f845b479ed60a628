// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/warden/lib/codec"
)

// Format is a snapshot encoding.
type Format uint8

const (
	FormatYAML Format = iota + 1
	FormatJSON
	FormatJSONC
	FormatCBOR
	FormatCBORZstd
	FormatCBORLZ4
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatJSONC:
		return "jsonc"
	case FormatCBOR:
		return "cbor"
	case FormatCBORZstd:
		return "cbor+zstd"
	case FormatCBORLZ4:
		return "cbor+lz4"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// FormatOf selects the format from path's extension. Compound
// extensions are matched before simple ones.
func FormatOf(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".cbor.zst"):
		return FormatCBORZstd, nil
	case strings.HasSuffix(name, ".cbor.lz4"):
		return FormatCBORLZ4, nil
	}
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonc":
		return FormatJSONC, nil
	case ".cbor":
		return FormatCBOR, nil
	default:
		return 0, fmt.Errorf("cannot infer snapshot format from %q: "+
			"use .yaml, .yml, .json, .jsonc, .cbor, .cbor.zst, or .cbor.lz4", path)
	}
}

// Encode serialises doc in format.
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buffer bytes.Buffer
		encoder := yaml.NewEncoder(&buffer)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding yaml snapshot: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("encoding yaml snapshot: %w", err)
		}
		return buffer.Bytes(), nil

	case FormatJSON, FormatJSONC:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json snapshot: %w", err)
		}
		return append(data, '\n'), nil

	case FormatCBOR, FormatCBORZstd, FormatCBORLZ4:
		data, err := codec.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encoding cbor snapshot: %w", err)
		}
		switch format {
		case FormatCBORZstd:
			return zstdEncoder.EncodeAll(data, nil), nil
		case FormatCBORLZ4:
			return compressLZ4(data)
		}
		return data, nil

	default:
		return nil, fmt.Errorf("unsupported snapshot format %s", format)
	}
}

// Decode parses data in format.
func Decode(data []byte, format Format) (*Document, error) {
	doc := &Document{}
	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding yaml snapshot: %w", err)
		}

	case FormatJSON, FormatJSONC:
		if format == FormatJSONC {
			data = jsonc.ToJSON(data)
		}
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(doc); err != nil {
			return nil, fmt.Errorf("decoding json snapshot: %w", err)
		}

	case FormatCBOR, FormatCBORZstd, FormatCBORLZ4:
		var err error
		switch format {
		case FormatCBORZstd:
			data, err = zstdDecoder.DecodeAll(data, nil)
			if err != nil {
				return nil, fmt.Errorf("zstd decompress: %w", err)
			}
		case FormatCBORLZ4:
			data, err = decompressLZ4(data)
			if err != nil {
				return nil, err
			}
		}
		if err := codec.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("decoding cbor snapshot: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported snapshot format %s", format)
	}
	return doc, nil
}

// zstdEncoder and zstdDecoder are shared; both are safe for concurrent
// use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("snapshot: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("snapshot: zstd decoder initialization failed: " + err.Error())
	}
}

// LZ4 snapshots use the frame format so the file is self-describing
// and readable by the lz4 command line tool.

func compressLZ4(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer := lz4.NewWriter(&buffer)
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	return buffer.Bytes(), nil
}

func decompressLZ4(compressed []byte) ([]byte, error) {
	data, err := io.ReadAll(lz4.NewReader(bytes.NewReader(compressed)))
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	return data, nil
}
