package table

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting table request metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordPut is called after each Put or PutFields.
	RecordPut(duration time.Duration, err error)

	// RecordGet is called after each Get. A missing item counts as an error.
	RecordGet(duration time.Duration, err error)

	// RecordDelete is called after each Delete.
	RecordDelete(duration time.Duration, err error)

	// RecordQuery is called after each Query with the number of items returned.
	RecordQuery(items int, duration time.Duration, err error)

	// RecordBatchWrite is called after each BatchWriteItem request.
	// unprocessed is the number of items DynamoDB handed back.
	RecordBatchWrite(count, unprocessed int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPut(time.Duration, error)            {}
func (NoopMetricsCollector) RecordGet(time.Duration, error)            {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error)         {}
func (NoopMetricsCollector) RecordQuery(int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordBatchWrite(int, int, time.Duration) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	PutCount         atomic.Int64
	PutErrors        atomic.Int64
	PutTotalNanos    atomic.Int64
	GetCount         atomic.Int64
	GetErrors        atomic.Int64
	GetTotalNanos    atomic.Int64
	DeleteCount      atomic.Int64
	DeleteErrors     atomic.Int64
	QueryCount       atomic.Int64
	QueryErrors      atomic.Int64
	QueryItems       atomic.Int64
	BatchWriteCount  atomic.Int64
	BatchWriteItems  atomic.Int64
	BatchUnprocessed atomic.Int64
}

// RecordPut implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPut(duration time.Duration, err error) {
	b.PutCount.Add(1)
	b.PutTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PutErrors.Add(1)
	}
}

// RecordGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGet(duration time.Duration, err error) {
	b.GetCount.Add(1)
	b.GetTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GetErrors.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(duration time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(items int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryItems.Add(int64(items))
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// RecordBatchWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchWrite(count, unprocessed int, duration time.Duration) {
	b.BatchWriteCount.Add(1)
	b.BatchWriteItems.Add(int64(count))
	b.BatchUnprocessed.Add(int64(unprocessed))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		PutCount:         b.PutCount.Load(),
		PutErrors:        b.PutErrors.Load(),
		PutAvgNanos:      avg(b.PutTotalNanos.Load(), b.PutCount.Load()),
		GetCount:         b.GetCount.Load(),
		GetErrors:        b.GetErrors.Load(),
		GetAvgNanos:      avg(b.GetTotalNanos.Load(), b.GetCount.Load()),
		DeleteCount:      b.DeleteCount.Load(),
		DeleteErrors:     b.DeleteErrors.Load(),
		QueryCount:       b.QueryCount.Load(),
		QueryErrors:      b.QueryErrors.Load(),
		QueryItems:       b.QueryItems.Load(),
		BatchWriteCount:  b.BatchWriteCount.Load(),
		BatchWriteItems:  b.BatchWriteItems.Load(),
		BatchUnprocessed: b.BatchUnprocessed.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	PutCount         int64
	PutErrors        int64
	PutAvgNanos      int64
	GetCount         int64
	GetErrors        int64
	GetAvgNanos      int64
	DeleteCount      int64
	DeleteErrors     int64
	QueryCount       int64
	QueryErrors      int64
	QueryItems       int64
	BatchWriteCount  int64
	BatchWriteItems  int64
	BatchUnprocessed int64
}
