package avjson

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyAttributeValue is returned when an attribute value has no
	// recognized populated slot.
	ErrEmptyAttributeValue = errors.New("attribute value has no recognized slot")

	// ErrInvalidUTF8 is returned when a binary member is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("binary attribute is not valid UTF-8")

	// ErrInvalidNumber is returned when a number attribute is not a numeric literal.
	ErrInvalidNumber = errors.New("invalid number literal")

	// ErrFalseNull is returned in strict-null mode for a NULL attribute set to false.
	ErrFalseNull = errors.New("NULL attribute is false")

	// ErrMaxDepth is returned when decoding nests deeper than the configured limit.
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")

	// ErrNotObject is returned when a field map is requested for a value that
	// is not an object.
	ErrNotObject = errors.New("value is not an object")
)

// DecodeError describes an attribute value that could not be decoded.
//
// Path locates the attribute inside the decoded value as a sequence of
// ".name" map keys and "[2]" list indexes; it is empty for the root. Error
// renders it behind a "$". The cause can be matched with errors.Is against
// the sentinel errors of this package.
type DecodeError struct {
	Path  string
	Slot  string
	cause error
}

func (e *DecodeError) Error() string {
	if e.Slot == "" {
		return fmt.Sprintf("avjson: decode $%s: %v", e.Path, e.cause)
	}
	return fmt.Sprintf("avjson: decode %s at $%s: %v", e.Slot, e.Path, e.cause)
}

func (e *DecodeError) Unwrap() error { return e.cause }

// ShapeError indicates a value of the wrong variant, e.g. a number where a
// field map needs an object.
type ShapeError struct {
	Want string
	Got  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("avjson: expected %s, got %s", e.Want, e.Got)
}

// Unwrap returns ErrNotObject for object shape mismatches.
func (e *ShapeError) Unwrap() error {
	if e.Want == "object" {
		return ErrNotObject
	}
	return nil
}

// SerializationError wraps a failure of the configured typed-value codec.
//
// Op is "marshal" for typed -> generic conversions and "unmarshal" for the
// reverse direction, where it usually signals a shape mismatch with the
// target type.
type SerializationError struct {
	Op    string
	Codec string
	cause error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("avjson: %s with %s codec: %v", e.Op, e.Codec, e.cause)
}

func (e *SerializationError) Unwrap() error { return e.cause }

func decodeError(slot string, cause error) *DecodeError {
	return &DecodeError{Slot: slot, cause: cause}
}

// withPath prefixes seg to the path of a DecodeError in err.
func withPath(err error, seg string) error {
	var de *DecodeError
	if errors.As(err, &de) {
		de.Path = seg + de.Path
	}
	return err
}
