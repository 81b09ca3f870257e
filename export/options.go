package export

import (
	"github.com/hupe1980/avjson"
)

type options struct {
	codec       *avjson.Codec
	logger      *avjson.Logger
	compression Compression
	concurrency int
	maxLineSize int
}

func defaultOptions() options {
	return options{
		codec:       avjson.New(),
		logger:      avjson.NoopLogger(),
		compression: Gzip,
		concurrency: 4,
		maxLineSize: 4 * 1024 * 1024,
	}
}

// Option configures a Writer or Reader.
type Option func(*options)

// WithCodec sets the codec used to encode and decode items.
func WithCodec(c *avjson.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *avjson.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCompression sets the compression of written data files. Readers detect
// the compression from the file extension and ignore this option.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithConcurrency limits how many data files a Reader decodes in parallel.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithMaxLineSize bounds the size of a single item line.
func WithMaxLineSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLineSize = n
		}
	}
}
