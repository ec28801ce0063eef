package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Notes:
// - JSON works for typical structs/maps/slices.
// - Complex numbers, funcs, channels, etc are not supported.
//
// If you need custom encoding (e.g. protobuf/msgpack), implement Codec and
// pass it via Options.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used when none is configured.
//
// Snapshots are self-describing (they store the codec name in their header)
// and are decoded by selecting the appropriate codec by name.
var Default Codec = JSON{}
