// Package wire models DynamoDB attribute values in their documented JSON
// shape ("DynamoDB JSON"), as found in export files, stream records and the
// low-level HTTP API:
//
//	{"S": "text"}  {"N": "12.5"}  {"B": "aGk="}  {"BOOL": true}  {"NULL": true}
//	{"L": [...]}   {"M": {...}}   {"SS": [...]}  {"NS": [...]}   {"BS": [...]}
//
// Unlike the SDK union in service/dynamodb/types, an AttributeValue here can
// carry more than one populated slot. Consumers that need a single variant
// pick one by priority (see avjson.DecodeWire) or reject the value with Validate.
package wire

import (
	"errors"
	"fmt"

	gojson "github.com/goccy/go-json"
)

// Slot names in decode priority order.
const (
	SlotB    = "B"
	SlotBOOL = "BOOL"
	SlotBS   = "BS"
	SlotL    = "L"
	SlotM    = "M"
	SlotN    = "N"
	SlotNS   = "NS"
	SlotNULL = "NULL"
	SlotS    = "S"
	SlotSS   = "SS"
)

var (
	// ErrNoSlot is returned when an attribute value has no populated slot.
	ErrNoSlot = errors.New("wire: attribute value has no populated slot")
	// ErrMultipleSlots is returned when more than one slot is populated.
	ErrMultipleSlots = errors.New("wire: attribute value has multiple populated slots")
)

// AttributeValue is a DynamoDB attribute value in wire form. A nil slice,
// map or pointer means the slot is absent; an empty non-nil one is present.
type AttributeValue struct {
	B    []byte
	BS   [][]byte
	BOOL *bool
	L    []*AttributeValue
	M    map[string]*AttributeValue
	N    *string
	NS   []string
	NULL *bool
	S    *string
	SS   []string
}

// Item is a record's attributes in wire form.
type Item map[string]*AttributeValue

// Slots returns the populated slot names in decode priority order.
func (av *AttributeValue) Slots() []string {
	if av == nil {
		return nil
	}
	var slots []string
	if av.B != nil {
		slots = append(slots, SlotB)
	}
	if av.BOOL != nil {
		slots = append(slots, SlotBOOL)
	}
	if av.BS != nil {
		slots = append(slots, SlotBS)
	}
	if av.L != nil {
		slots = append(slots, SlotL)
	}
	if av.M != nil {
		slots = append(slots, SlotM)
	}
	if av.N != nil {
		slots = append(slots, SlotN)
	}
	if av.NS != nil {
		slots = append(slots, SlotNS)
	}
	if av.NULL != nil {
		slots = append(slots, SlotNULL)
	}
	if av.S != nil {
		slots = append(slots, SlotS)
	}
	if av.SS != nil {
		slots = append(slots, SlotSS)
	}
	return slots
}

// Validate checks that exactly one slot is populated, recursively.
func (av *AttributeValue) Validate() error {
	switch slots := av.Slots(); len(slots) {
	case 0:
		return ErrNoSlot
	case 1:
	default:
		return fmt.Errorf("%w: %v", ErrMultipleSlots, slots)
	}
	for i, e := range av.L {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	for k, e := range av.M {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	return nil
}

// MarshalJSON emits only the populated slots, keeping empty lists and maps.
func (av AttributeValue) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 1)
	if av.B != nil {
		out[SlotB] = av.B
	}
	if av.BS != nil {
		out[SlotBS] = av.BS
	}
	if av.BOOL != nil {
		out[SlotBOOL] = *av.BOOL
	}
	if av.L != nil {
		out[SlotL] = av.L
	}
	if av.M != nil {
		out[SlotM] = av.M
	}
	if av.N != nil {
		out[SlotN] = *av.N
	}
	if av.NS != nil {
		out[SlotNS] = av.NS
	}
	if av.NULL != nil {
		out[SlotNULL] = *av.NULL
	}
	if av.S != nil {
		out[SlotS] = *av.S
	}
	if av.SS != nil {
		out[SlotSS] = av.SS
	}
	return gojson.Marshal(out)
}

// rawAttributeValue mirrors AttributeValue with JSON tags so decoding keeps
// the nil/empty distinction of the input.
type rawAttributeValue struct {
	B    []byte                     `json:"B"`
	BS   [][]byte                   `json:"BS"`
	BOOL *bool                      `json:"BOOL"`
	L    []*AttributeValue          `json:"L"`
	M    map[string]*AttributeValue `json:"M"`
	N    *string                    `json:"N"`
	NS   []string                   `json:"NS"`
	NULL *bool                      `json:"NULL"`
	S    *string                    `json:"S"`
	SS   []string                   `json:"SS"`
}

// UnmarshalJSON decodes DynamoDB JSON.
func (av *AttributeValue) UnmarshalJSON(data []byte) error {
	var raw rawAttributeValue
	if err := gojson.Unmarshal(data, &raw); err != nil {
		return err
	}
	*av = AttributeValue(raw)
	return nil
}
