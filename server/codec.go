package server

import "encoding/json"

// jsonCodec is a plain encoding/json Connect codec. The control API
// messages are ordinary Go structs with JSON tags, so the default
// protobuf codecs never see them.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
