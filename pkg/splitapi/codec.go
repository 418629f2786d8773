package splitapi

import "encoding/json"

// JSONCodec encodes SplitService messages as plain JSON.
// It registers under "json", replacing Connect's protobuf-only JSON codec until
// the messages are generated from the .proto contract.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
