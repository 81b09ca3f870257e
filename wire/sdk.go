package wire

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// FromSDK converts an SDK union member into wire form.
func FromSDK(av types.AttributeValue) (*AttributeValue, error) {
	switch t := av.(type) {
	case *types.AttributeValueMemberB:
		return &AttributeValue{B: nonNilBytes(t.Value)}, nil
	case *types.AttributeValueMemberBOOL:
		b := t.Value
		return &AttributeValue{BOOL: &b}, nil
	case *types.AttributeValueMemberBS:
		bs := make([][]byte, len(t.Value))
		for i, b := range t.Value {
			bs[i] = nonNilBytes(b)
		}
		return &AttributeValue{BS: bs}, nil
	case *types.AttributeValueMemberL:
		l := make([]*AttributeValue, len(t.Value))
		for i, e := range t.Value {
			w, err := FromSDK(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			l[i] = w
		}
		return &AttributeValue{L: l}, nil
	case *types.AttributeValueMemberM:
		m, err := FromSDKItem(t.Value)
		if err != nil {
			return nil, err
		}
		return &AttributeValue{M: m}, nil
	case *types.AttributeValueMemberN:
		n := t.Value
		return &AttributeValue{N: &n}, nil
	case *types.AttributeValueMemberNS:
		return &AttributeValue{NS: append([]string{}, t.Value...)}, nil
	case *types.AttributeValueMemberNULL:
		b := t.Value
		return &AttributeValue{NULL: &b}, nil
	case *types.AttributeValueMemberS:
		s := t.Value
		return &AttributeValue{S: &s}, nil
	case *types.AttributeValueMemberSS:
		return &AttributeValue{SS: append([]string{}, t.Value...)}, nil
	case nil:
		return nil, ErrNoSlot
	default:
		return nil, fmt.Errorf("wire: unsupported attribute value member %T", av)
	}
}

// FromSDKItem converts an SDK attribute map into wire form.
func FromSDKItem(item map[string]types.AttributeValue) (Item, error) {
	out := make(Item, len(item))
	for k, v := range item {
		w, err := FromSDK(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = w
	}
	return out, nil
}

// ToSDK converts a single-slot wire value into the SDK union. Values with
// zero or several populated slots are rejected.
func ToSDK(av *AttributeValue) (types.AttributeValue, error) {
	slots := av.Slots()
	switch len(slots) {
	case 0:
		return nil, ErrNoSlot
	case 1:
	default:
		return nil, fmt.Errorf("%w: %v", ErrMultipleSlots, slots)
	}

	switch slots[0] {
	case SlotB:
		return &types.AttributeValueMemberB{Value: av.B}, nil
	case SlotBOOL:
		return &types.AttributeValueMemberBOOL{Value: *av.BOOL}, nil
	case SlotBS:
		return &types.AttributeValueMemberBS{Value: av.BS}, nil
	case SlotL:
		l := make([]types.AttributeValue, len(av.L))
		for i, e := range av.L {
			v, err := ToSDK(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			l[i] = v
		}
		return &types.AttributeValueMemberL{Value: l}, nil
	case SlotM:
		m, err := ToSDKItem(av.M)
		if err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	case SlotN:
		return &types.AttributeValueMemberN{Value: *av.N}, nil
	case SlotNS:
		return &types.AttributeValueMemberNS{Value: av.NS}, nil
	case SlotNULL:
		return &types.AttributeValueMemberNULL{Value: *av.NULL}, nil
	case SlotS:
		return &types.AttributeValueMemberS{Value: *av.S}, nil
	default:
		return &types.AttributeValueMemberSS{Value: av.SS}, nil
	}
}

// ToSDKItem converts a wire item into an SDK attribute map.
func ToSDKItem(item Item) (map[string]types.AttributeValue, error) {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		av, err := ToSDK(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = av
	}
	return out, nil
}

func nonNilBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
