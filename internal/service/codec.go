package service

import "encoding/json"

// JSONCodec marshals Connect messages with encoding/json, so the service
// works with plain Go structs instead of generated protobuf bindings.
// Register it on handlers and clients with connect.WithCodec; requests then
// travel as application/json.
type JSONCodec struct{}

// Name returns the codec name Connect matches against the request
// content type.
func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(message any) ([]byte, error) {
	return json.Marshal(message)
}

func (JSONCodec) Unmarshal(data []byte, message any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, message)
}
