package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	gojson "github.com/goccy/go-json"
)

// UnsupportedTypeError is returned by FromAny for Go values outside the
// JSON-shaped domain.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("value: unsupported type %s", e.Type)
}

// ErrInvalidJSON is returned by Parse for text that is not exactly one JSON
// value, e.g. "01", "5]" or `{"a":1}}`.
var ErrInvalidJSON = errors.New("value: invalid JSON text")

// Parse decodes JSON text into a Value. Numbers keep their literal text.
// Surrounding whitespace is allowed, anything else after the value is not.
func Parse(data []byte) (Value, error) {
	// go-json's decoder and Valid both tolerate leading zeros and trailing
	// closers, so the grammar check comes from encoding/json.
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidJSON, truncate(data, 64))
	}

	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return FromAny(raw)
}

func truncate(data []byte, n int) []byte {
	if len(data) <= n {
		return data
	}
	return data[:n]
}

// Marshal encodes v as JSON text.
func Marshal(v Value) ([]byte, error) {
	return gojson.Marshal(ToAny(v))
}

// FromAny converts a JSON-shaped Go value into a Value. Besides the shapes
// produced by a JSON decoder it accepts the Go integer and float kinds and
// values that already are a Value or sit in a Holder.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case Holder:
		if t.Value == nil {
			return Null{}, nil
		}
		return t.Value, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t.String()), nil
	case float64:
		return Float(t)
	case float32:
		return Float(float64(t))
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Uint(uint64(t)), nil
	case uint8:
		return Uint(uint64(t)), nil
	case uint16:
		return Uint(uint64(t)), nil
	case uint32:
		return Uint(uint64(t)), nil
	case uint64:
		return Uint(t), nil
	case []any:
		arr := make(Array, len(t))
		for i, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(t))
		for k, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			obj[k] = v
		}
		return obj, nil
	default:
		return nil, &UnsupportedTypeError{Type: fmt.Sprintf("%T", x)}
	}
}

// ToAny converts v into the shapes a JSON decoder with UseNumber produces.
func ToAny(v Value) any {
	switch t := v.(type) {
	case Bool:
		return bool(t)
	case Number:
		return json.Number(t)
	case String:
		return string(t)
	case Array:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ToAny(e)
		}
		return out
	case Object:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = ToAny(e)
		}
		return out
	default:
		return nil
	}
}

// Equal reports whether a and b are structurally equal. Numbers are compared
// by numeric value, so "1.0" equals "1".
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		return ok && numberEqual(x, y)
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Object:
		y, ok := b.(Object)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}

func numberEqual(a, b Number) bool {
	if a == b {
		return true
	}
	ra, ok := new(big.Rat).SetString(string(a))
	if !ok {
		return false
	}
	rb, ok := new(big.Rat).SetString(string(b))
	if !ok {
		return false
	}
	return ra.Cmp(rb) == 0
}
