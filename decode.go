package avjson

import (
	"fmt"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/avjson/value"
	"github.com/hupe1980/avjson/wire"
)

// decoder holds the per-call decode settings.
type decoder struct {
	maxDepth   int
	strictNull bool
}

func (d decoder) enter(depth int) error {
	if d.maxDepth > 0 && depth > d.maxDepth {
		return decodeError("", ErrMaxDepth)
	}
	return nil
}

// fromSDK decodes a member of the SDK union. Exactly one slot can be set, so the
// member type alone selects the rule.
func (d decoder) fromSDK(av types.AttributeValue, depth int) (value.Value, error) {
	if err := d.enter(depth); err != nil {
		return nil, err
	}

	switch t := av.(type) {
	case *types.AttributeValueMemberB:
		return binary(wire.SlotB, t.Value)
	case *types.AttributeValueMemberBOOL:
		return value.Bool(t.Value), nil
	case *types.AttributeValueMemberBS:
		return binarySet(t.Value)
	case *types.AttributeValueMemberL:
		arr := make(value.Array, len(t.Value))
		for i, e := range t.Value {
			v, err := d.fromSDK(e, depth+1)
			if err != nil {
				return nil, withPath(err, fmt.Sprintf("[%d]", i))
			}
			arr[i] = v
		}
		return arr, nil
	case *types.AttributeValueMemberM:
		return d.fromSDKMap(t.Value, depth+1)
	case *types.AttributeValueMemberN:
		return number(wire.SlotN, t.Value)
	case *types.AttributeValueMemberNS:
		return numberSet(t.Value)
	case *types.AttributeValueMemberNULL:
		return d.null(t.Value)
	case *types.AttributeValueMemberS:
		return str(t.Value), nil
	case *types.AttributeValueMemberSS:
		return stringSet(t.Value), nil
	case nil:
		return nil, decodeError("", ErrEmptyAttributeValue)
	default:
		return nil, decodeError(fmt.Sprintf("%T", av), ErrEmptyAttributeValue)
	}
}

func (d decoder) fromSDKMap(m map[string]types.AttributeValue, depth int) (value.Object, error) {
	obj := make(value.Object, len(m))
	for k, e := range m {
		v, err := d.fromSDK(e, depth)
		if err != nil {
			return nil, withPath(err, "."+k)
		}
		obj[k] = v
	}
	return obj, nil
}

// fromWire decodes a wire value. Several slots may be populated; the first one in
// the order B, BOOL, BS, L, M, N, NS, NULL, S, SS wins.
func (d decoder) fromWire(av *wire.AttributeValue, depth int) (value.Value, error) {
	if err := d.enter(depth); err != nil {
		return nil, err
	}
	if av == nil {
		return nil, decodeError("", ErrEmptyAttributeValue)
	}

	switch {
	case av.B != nil:
		return binary(wire.SlotB, av.B)
	case av.BOOL != nil:
		return value.Bool(*av.BOOL), nil
	case av.BS != nil:
		return binarySet(av.BS)
	case av.L != nil:
		arr := make(value.Array, len(av.L))
		for i, e := range av.L {
			v, err := d.fromWire(e, depth+1)
			if err != nil {
				return nil, withPath(err, fmt.Sprintf("[%d]", i))
			}
			arr[i] = v
		}
		return arr, nil
	case av.M != nil:
		return d.fromWireMap(av.M, depth+1)
	case av.N != nil:
		return number(wire.SlotN, *av.N)
	case av.NS != nil:
		return numberSet(av.NS)
	case av.NULL != nil:
		return d.null(*av.NULL)
	case av.S != nil:
		return str(*av.S), nil
	case av.SS != nil:
		return stringSet(av.SS), nil
	default:
		return nil, decodeError("", ErrEmptyAttributeValue)
	}
}

func (d decoder) fromWireMap(m map[string]*wire.AttributeValue, depth int) (value.Object, error) {
	obj := make(value.Object, len(m))
	for k, e := range m {
		v, err := d.fromWire(e, depth)
		if err != nil {
			return nil, withPath(err, "."+k)
		}
		obj[k] = v
	}
	return obj, nil
}

func (d decoder) null(flag bool) (value.Value, error) {
	if !flag && d.strictNull {
		return nil, decodeError(wire.SlotNULL, ErrFalseNull)
	}
	return value.Null{}, nil
}

func binary(slot string, b []byte) (value.Value, error) {
	if !utf8.Valid(b) {
		return nil, decodeError(slot, ErrInvalidUTF8)
	}
	return value.String(b), nil
}

func binarySet(bs [][]byte) (value.Value, error) {
	arr := make(value.Array, len(bs))
	for i, b := range bs {
		v, err := binary(wire.SlotBS, b)
		if err != nil {
			return nil, withPath(err, fmt.Sprintf("[%d]", i))
		}
		arr[i] = v
	}
	return arr, nil
}

// number accepts exactly the JSON numeric literal grammar.
func number(slot, text string) (value.Value, error) {
	v, err := value.Parse([]byte(text))
	if err != nil {
		return nil, decodeError(slot, fmt.Errorf("%w %q", ErrInvalidNumber, text))
	}
	n, ok := v.(value.Number)
	if !ok {
		return nil, decodeError(slot, fmt.Errorf("%w %q", ErrInvalidNumber, text))
	}
	return n, nil
}

func numberSet(ns []string) (value.Value, error) {
	arr := make(value.Array, len(ns))
	for i, text := range ns {
		v, err := number(wire.SlotNS, text)
		if err != nil {
			return nil, withPath(err, fmt.Sprintf("[%d]", i))
		}
		arr[i] = v
	}
	return arr, nil
}

func str(s string) value.Value {
	if s == EmptyStringSentinel {
		return value.String("")
	}
	return value.String(s)
}

func stringSet(ss []string) value.Value {
	arr := make(value.Array, len(ss))
	for i, s := range ss {
		arr[i] = value.String(s)
	}
	return arr
}
