// Package avjson converts between ordinary structured values and DynamoDB
// attribute values.
//
// Application code builds and reads records with plain Go values (structs,
// maps, slices, numbers, strings, booleans, nil). avjson renders them into the
// generic value model of package value using a JSON codec and then maps that
// model onto the SDK's attribute value union, and back:
//
//	typed Go value  <->  value.Value  <->  types.AttributeValue
//
// # Quick Start
//
//	item, err := avjson.Fields(
//	    avjson.F("id", "test"),
//	    avjson.F("counter", 0),
//	)
//	_, err = client.PutItem(ctx, &dynamodb.PutItemInput{
//	    TableName: aws.String("scratch"),
//	    Item:      item,
//	})
//
//	var account Account
//	err = avjson.FromFields(out.Item, &account)
//
// # Mapping
//
//	Null    <-> NULL
//	Bool    <-> BOOL
//	Number  <-> N
//	String  <-> S
//	Array   <-> L
//	Object  <-> M
//
// Decoding additionally accepts B and BS (as UTF-8 strings), NS (as arrays of
// numbers) and SS (as arrays of strings).
//
// # Empty Strings
//
// An empty string is encoded as a single NUL character (EmptyStringSentinel)
// and decoded back to "". A stored string that is exactly one NUL character
// is indistinguishable from the sentinel and also decodes to "".
//
// # Multi-Slot Values
//
// The SDK union cannot hold more than one slot, so Encode never produces
// ambiguous values. Attribute values read from DynamoDB JSON (package wire)
// may populate several slots; DecodeWire resolves them by a fixed priority:
// B, BOOL, BS, L, M, N, NS, NULL, S, SS.
//
// # Errors
//
// Decode failures are reported as *DecodeError and never panic; use
// errors.Is with ErrEmptyAttributeValue, ErrInvalidUTF8, ErrInvalidNumber,
// ErrFalseNull or ErrMaxDepth to inspect the cause. Failures of the typed
// codec surface as *SerializationError, and field maps requested for
// non-object values as *ShapeError.
package avjson
