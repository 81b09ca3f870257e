// Package value defines the generic structured-value model used as the
// interchange form between typed Go values and DynamoDB attribute values.
//
// A Value is one of exactly six variants:
//
//	Null{}              JSON null
//	Bool(true)          JSON boolean
//	Number("12.5")      JSON number, kept as decimal text
//	String("text")      JSON string
//	Array{...}          JSON array
//	Object{"k": ...}    JSON object
//
// Values are immutable by convention and carry no identity beyond
// structural equality.
package value

import (
	"errors"
	"math"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// Value is the generic value union. The set of implementations is closed.
type Value interface {
	isValue()
}

// Null is the null variant.
type Null struct{}

// Bool is the boolean variant.
type Bool bool

// Number is the numeric variant. It holds the decimal text of the number so
// integers and floating point values survive without precision loss.
type Number string

// String is the text variant.
type String string

// Array is the ordered sequence variant.
type Array []Value

// Object is the keyed variant. Key order is not significant.
type Object map[string]Value

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Number) isValue() {}
func (String) isValue() {}
func (Array) isValue()  {}
func (Object) isValue() {}

// ErrNonFinite is returned when a NaN or infinite float is converted to a Number.
var ErrNonFinite = errors.New("value: number is not finite")

// Int returns the Number for i.
func Int(i int64) Number { return Number(strconv.FormatInt(i, 10)) }

// Uint returns the Number for u.
func Uint(u uint64) Number { return Number(strconv.FormatUint(u, 10)) }

// Float returns the Number for f using JSON float formatting, so 1.0 becomes
// "1" and very large or small magnitudes use exponent notation.
func Float(f float64) (Number, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", ErrNonFinite
	}
	b, err := gojson.Marshal(f)
	if err != nil {
		return "", err
	}
	return Number(b), nil
}

// Float64 parses the number as a float64.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// Int64 parses the number as an int64.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// String returns the decimal text of the number.
func (n Number) String() string { return string(n) }

// Kind names the variant of v, mainly for error messages.
func Kind(v Value) string {
	switch v.(type) {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	case nil:
		return "nil"
	default:
		return "unknown"
	}
}
