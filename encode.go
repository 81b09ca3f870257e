package avjson

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/avjson/value"
)

// EmptyStringSentinel replaces the empty string in encoded attribute values.
//
// DynamoDB historically rejected empty strings, so "" is written as a single
// NUL character and turned back into "" on decode. A string that already is
// exactly one NUL character therefore also decodes to "".
const EmptyStringSentinel = "\x00"

// Encode converts a generic value into an attribute value. It never fails and
// always returns exactly one union member.
//
//	Null        -> NULL true
//	Bool        -> BOOL
//	Number      -> N (decimal text)
//	String      -> S ("" becomes EmptyStringSentinel)
//	Array       -> L
//	Object      -> M
//
// A nil Value encodes as NULL.
func Encode(v value.Value) types.AttributeValue {
	switch t := v.(type) {
	case value.Bool:
		return &types.AttributeValueMemberBOOL{Value: bool(t)}
	case value.Number:
		return &types.AttributeValueMemberN{Value: string(t)}
	case value.String:
		if t == "" {
			return &types.AttributeValueMemberS{Value: EmptyStringSentinel}
		}
		return &types.AttributeValueMemberS{Value: string(t)}
	case value.Array:
		l := make([]types.AttributeValue, len(t))
		for i, e := range t {
			l[i] = Encode(e)
		}
		return &types.AttributeValueMemberL{Value: l}
	case value.Object:
		return &types.AttributeValueMemberM{Value: EncodeObject(t)}
	default:
		return &types.AttributeValueMemberNULL{Value: true}
	}
}

// EncodeObject encodes every entry of o. The result is the field map that
// Encode would wrap in an M member.
func EncodeObject(o value.Object) map[string]types.AttributeValue {
	m := make(map[string]types.AttributeValue, len(o))
	for k, e := range o {
		m[k] = Encode(e)
	}
	return m
}
