package value

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes Null as the JSON literal null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// MarshalJSON emits the number text unchanged. Text that is not a JSON
// numeric literal is an error.
func (n Number) MarshalJSON() ([]byte, error) {
	if !isNumberLiteral(n) {
		return nil, fmt.Errorf("value: invalid number literal %q", string(n))
	}
	return []byte(n), nil
}

// MarshalJSON encodes the array with every element in its JSON form.
func (a Array) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return Marshal(a)
}

// MarshalJSON encodes the object with every member in its JSON form.
func (o Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("{}"), nil
	}
	return Marshal(o)
}

func isNumberLiteral(n Number) bool {
	if n == "" {
		return false
	}
	if c := n[0]; c != '-' && (c < '0' || c > '9') {
		return false
	}
	return json.Valid([]byte(n))
}

// Holder carries a Value through a JSON codec in both directions. Use it for
// struct fields that take arbitrary data:
//
//	type event struct {
//	    ID      string       `json:"id"`
//	    Payload value.Holder `json:"payload"`
//	}
//
// A plain Value field can be written but not read back, since a decoder
// cannot pick a variant for an interface.
type Holder struct {
	Value Value
}

// MarshalJSON implements json.Marshaler. A zero Holder encodes as null.
func (h Holder) MarshalJSON() ([]byte, error) {
	if h.Value == nil {
		return []byte("null"), nil
	}
	return Marshal(h.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *Holder) UnmarshalJSON(data []byte) error {
	v, err := Parse(data)
	if err != nil {
		return err
	}
	h.Value = v
	return nil
}
