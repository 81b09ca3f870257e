package avjson

import (
	"github.com/hupe1980/avjson/codec"
)

// DefaultMaxDepth is the default nesting limit applied while decoding.
const DefaultMaxDepth = 128

type options struct {
	codec      codec.Codec
	maxDepth   int
	strictNull bool
}

func defaultOptions() options {
	return options{
		codec:    codec.Default,
		maxDepth: DefaultMaxDepth,
	}
}

// Option configures a Codec.
type Option func(*options)

// WithCodec configures the serializer used to convert typed Go values to and
// from the generic value model.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithMaxDepth limits how deeply nested lists and maps may be when decoding
// attribute values that come from outside the process.
//
// A limit <= 0 disables the check.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithStrictNull controls how a NULL attribute carrying false is decoded.
//
// By default the presence of the NULL slot is enough and the value decodes to
// value.Null regardless of its flag. In strict mode {"NULL": false} is
// rejected with ErrFalseNull.
func WithStrictNull(strict bool) Option {
	return func(o *options) {
		o.strictNull = strict
	}
}
