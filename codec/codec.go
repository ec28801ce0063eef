// Package codec serializes sparsekit containers to and from byte streams.
//
// A snapshot is self-describing: the header records the element codec name
// and the block compression mode, and the payload is protected by a
// CRC32-Castagnoli checksum. Element encoding is pluggable through the Codec
// interface; JSON is the default.
package codec

import "fmt"

// Codec encodes/decodes element values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
//
// Snapshots store the codec name in their header; decoding selects the codec
// by this name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
