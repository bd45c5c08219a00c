// Package msgpack provides MessagePack encoding/decoding for grid state and
// compile service messages.
package msgpack

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Decode deserializes MessagePack data into a Go value.
// The v parameter should be a pointer to the target structure.
//
// Example:
//
//	var state grid.State
//	err := msgpack.Decode(data, &state)
func Decode(data []byte, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("empty MessagePack data")
	}

	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}

	return nil
}

// Encode serializes a Go value into MessagePack format.
// Struct fields are encoded by their msgpack tags.
func Encode(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	return data, nil
}

// DecodeMap deserializes MessagePack data into a map[string]any.
// This is useful when the structure is not known at compile time.
func DecodeMap(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty MessagePack data")
	}

	var result map[string]any
	if err := msgpack.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode MessagePack map: %w", err)
	}

	return result, nil
}

// IsMap reports whether data starts with a MessagePack map header.
func IsMap(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	b := data[0]
	// fixmap, map16, map32
	return b&0xf0 == 0x80 || b == 0xde || b == 0xdf
}
