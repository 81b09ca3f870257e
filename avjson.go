package avjson

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/avjson/value"
	"github.com/hupe1980/avjson/wire"
)

// Codec converts between typed Go values, generic values and DynamoDB
// attribute values. A Codec is immutable and safe for concurrent use.
type Codec struct {
	opts options
}

// New creates a Codec with the given options.
func New(optFns ...Option) *Codec {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Codec{opts: opts}
}

var std = New()

func (c *Codec) decoder() decoder {
	return decoder{maxDepth: c.opts.maxDepth, strictNull: c.opts.strictNull}
}

// ToValue renders a typed Go value into the generic value model using the
// configured codec. A value.Value is returned unchanged.
func (c *Codec) ToValue(v any) (value.Value, error) {
	if gv, ok := v.(value.Value); ok {
		return gv, nil
	}
	data, err := c.opts.codec.Marshal(v)
	if err != nil {
		return nil, &SerializationError{Op: "marshal", Codec: c.opts.codec.Name(), cause: err}
	}
	gv, err := value.Parse(data)
	if err != nil {
		return nil, &SerializationError{Op: "marshal", Codec: c.opts.codec.Name(), cause: err}
	}
	return gv, nil
}

// FromValue fills out from a generic value using the configured codec. out
// may be a *value.Value, which receives v directly.
func (c *Codec) FromValue(v value.Value, out any) error {
	if p, ok := out.(*value.Value); ok {
		*p = v
		return nil
	}
	data, err := value.Marshal(v)
	if err != nil {
		return &SerializationError{Op: "unmarshal", Codec: c.opts.codec.Name(), cause: err}
	}
	if err := c.opts.codec.Unmarshal(data, out); err != nil {
		return &SerializationError{Op: "unmarshal", Codec: c.opts.codec.Name(), cause: err}
	}
	return nil
}

// Marshal converts any serializable value to an attribute value.
func (c *Codec) Marshal(v any) (types.AttributeValue, error) {
	gv, err := c.ToValue(v)
	if err != nil {
		return nil, err
	}
	return Encode(gv), nil
}

// Unmarshal decodes an attribute value into out.
func (c *Codec) Unmarshal(av types.AttributeValue, out any) error {
	gv, err := c.Decode(av)
	if err != nil {
		return err
	}
	return c.FromValue(gv, out)
}

// ToFields converts a value that serializes to an object into a field map.
// Any other shape fails with a *ShapeError.
func (c *Codec) ToFields(v any) (map[string]types.AttributeValue, error) {
	gv, err := c.ToValue(v)
	if err != nil {
		return nil, err
	}
	obj, ok := gv.(value.Object)
	if !ok {
		return nil, &ShapeError{Want: "object", Got: value.Kind(gv)}
	}
	return EncodeObject(obj), nil
}

// FromFields decodes a field map into out, which must be able to hold an object.
func (c *Codec) FromFields(fields map[string]types.AttributeValue, out any) error {
	obj, err := c.DecodeFields(fields)
	if err != nil {
		return err
	}
	return c.FromValue(obj, out)
}

// Decode converts an SDK attribute value into a generic value.
func (c *Codec) Decode(av types.AttributeValue) (value.Value, error) {
	return c.decoder().fromSDK(av, 0)
}

// DecodeFields decodes a field map into an object, as if it were wrapped in
// an M attribute.
func (c *Codec) DecodeFields(fields map[string]types.AttributeValue) (value.Object, error) {
	return c.decoder().fromSDKMap(fields, 1)
}

// DecodeWire converts a wire attribute value into a generic value. When more
// than one slot is populated the first in the order B, BOOL, BS, L, M, N,
// NS, NULL, S, SS is used.
func (c *Codec) DecodeWire(av *wire.AttributeValue) (value.Value, error) {
	return c.decoder().fromWire(av, 0)
}

// DecodeWireItem decodes a wire item into an object.
func (c *Codec) DecodeWireItem(item wire.Item) (value.Object, error) {
	return c.decoder().fromWireMap(item, 1)
}

// UnmarshalWireItem decodes a wire item into out.
func (c *Codec) UnmarshalWireItem(item wire.Item, out any) error {
	obj, err := c.DecodeWireItem(item)
	if err != nil {
		return err
	}
	return c.FromValue(obj, out)
}

// Marshal converts any serializable value to an attribute value using the
// default Codec.
//
//	av, err := avjson.Marshal("Hello World")
func Marshal(v any) (types.AttributeValue, error) { return std.Marshal(v) }

// Unmarshal decodes an attribute value into out using the default Codec.
func Unmarshal(av types.AttributeValue, out any) error { return std.Unmarshal(av, out) }

// ToFields converts v into a field map using the default Codec.
//
//	fields, err := avjson.ToFields(map[string]int{"red": 1, "green": 2})
func ToFields(v any) (map[string]types.AttributeValue, error) { return std.ToFields(v) }

// FromFields decodes a field map into out using the default Codec.
func FromFields(fields map[string]types.AttributeValue, out any) error {
	return std.FromFields(fields, out)
}

// Decode converts an attribute value into a generic value using the default Codec.
func Decode(av types.AttributeValue) (value.Value, error) { return std.Decode(av) }

// DecodeWire converts a wire attribute value using the default Codec.
func DecodeWire(av *wire.AttributeValue) (value.Value, error) { return std.DecodeWire(av) }
