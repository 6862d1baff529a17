// Package codec centralizes encoding of persisted index artifacts.
//
// Artifacts are self-describing: each records the name of the codec that
// wrote it, and loads resolve that name through ByName. Changing Default
// therefore only affects newly written artifacts, never the ability to
// read old ones.
package codec

// Codec encodes and decodes artifact payloads.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used for newly written artifacts.
var Default Codec = GoJSON{}

// ByName resolves a built-in codec by the stable name recorded in artifact
// headers.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}
