package codec

import "encoding/json"

// JSON is the standard-library JSON codec. It is the most portable choice
// and carries no dependency; artifacts written with it decode anywhere.
//
// For payload types the usual encoding/json limits apply: funcs, channels,
// and complex numbers do not encode.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns "json", the name recorded in artifact headers.
func (JSON) Name() string { return "json" }
