// Package codec provides the typed-value serializers avjson uses to move
// between Go structs and the generic value model.
//
// A Codec only has to round-trip through JSON text: avjson marshals a typed
// value with the codec, parses the text into a value.Value, and runs the
// reverse path on decode. Struct tags and custom (Un)MarshalJSON methods
// therefore behave exactly as they do with the chosen JSON library.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
//
// This is used by the CLI and by configuration that selects a codec by string.
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

// MustMarshal is a helper for tests and literal construction.
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
