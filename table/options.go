package table

import (
	"github.com/hupe1980/avjson"
	"golang.org/x/time/rate"
)

type options struct {
	codec          *avjson.Codec
	logger         *avjson.Logger
	metrics        MetricsCollector
	limiter        *rate.Limiter
	consistentRead bool
	maxRetries     int
	region         string
	endpoint       string
}

func defaultOptions() options {
	return options{
		codec:      avjson.New(),
		logger:     avjson.NoopLogger(),
		metrics:    NoopMetricsCollector{},
		limiter:    rate.NewLimiter(rate.Inf, 0),
		maxRetries: 5,
	}
}

// Option configures a Table.
type Option func(*options)

// WithCodec sets the codec used for items and keys.
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

// WithMetrics sets the metrics collector. Defaults to NoopMetricsCollector.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithRateLimit throttles batch writes to rps requests per second.
// A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		if rps <= 0 {
			o.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithConsistentRead makes Get and Query use strongly consistent reads.
func WithConsistentRead(consistent bool) Option {
	return func(o *options) {
		o.consistentRead = consistent
	}
}

// WithMaxRetries bounds how often unprocessed batch items are resubmitted.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		o.maxRetries = n
	}
}

// WithRegion sets the AWS region used by Load.
func WithRegion(region string) Option {
	return func(o *options) {
		o.region = region
	}
}

// WithEndpoint overrides the DynamoDB endpoint used by Load, e.g.
// "http://localhost:8000" for DynamoDB Local.
func WithEndpoint(url string) Option {
	return func(o *options) {
		o.endpoint = url
	}
}
