package avjson

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Field is a single key/value pair for Fields.
type Field struct {
	Key   string
	Value any
}

// F is shorthand for Field{Key: key, Value: v}.
func F(key string, v any) Field {
	return Field{Key: key, Value: v}
}

// Fields builds a field map from ordered pairs. Each value is encoded
// independently; a later pair with the same key replaces an earlier one.
//
//	item, err := avjson.Fields(
//	    avjson.F("id", uuid),
//	    avjson.F("name", "user name"),
//	    avjson.F("counter", 0),
//	)
func (c *Codec) Fields(fields ...Field) (map[string]types.AttributeValue, error) {
	m := make(map[string]types.AttributeValue, len(fields))
	for _, f := range fields {
		av, err := c.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		m[f.Key] = av
	}
	return m, nil
}

// MustFields is like Fields but panics if a value cannot be serialized.
// It is intended for literal keys and values known to be serializable.
func (c *Codec) MustFields(fields ...Field) map[string]types.AttributeValue {
	m, err := c.Fields(fields...)
	if err != nil {
		panic(err)
	}
	return m
}

// Fields builds a field map using the default Codec.
func Fields(fields ...Field) (map[string]types.AttributeValue, error) { return std.Fields(fields...) }

// MustFields builds a field map using the default Codec and panics on error.
func MustFields(fields ...Field) map[string]types.AttributeValue { return std.MustFields(fields...) }

// Names builds a placeholder -> attribute name map for
// ExpressionAttributeNames from alternating key/value strings. Later
// duplicates win. Names panics if given an odd number of arguments.
//
//	names := avjson.Names("#n", "name", "#ts", "ts")
func Names(pairs ...string) map[string]string {
	if len(pairs)%2 == 1 {
		panic("avjson.Names: odd argument count")
	}
	m := make(map[string]string, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		m[pairs[i]] = pairs[i+1]
	}
	return m
}
