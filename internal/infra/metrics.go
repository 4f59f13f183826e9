package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	quotesServed   atomic.Uint64
	ordersAccepted atomic.Uint64
	ordersRejected atomic.Uint64
	errorsTotal    atomic.Uint64

	// Request latency tracking
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	feedClients atomic.Int32
}

// NewMetrics creates an empty metrics instance. Owned by whoever builds
// the engine, not module state.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordQuote records a served quote with its handling latency.
func (m *Metrics) RecordQuote(latencyNs int64) {
	m.quotesServed.Add(1)
	m.recordLatency(latencyNs)
}

// RecordOrder records an order submission outcome with its latency.
func (m *Metrics) RecordOrder(accepted bool, latencyNs int64) {
	if accepted {
		m.ordersAccepted.Add(1)
	} else {
		m.ordersRejected.Add(1)
	}
	m.recordLatency(latencyNs)
}

// RecordError records a request that ended in a business error.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

func (m *Metrics) recordLatency(latencyNs int64) {
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
}

// IncrementFeedClients increments connected feed clients by 1.
func (m *Metrics) IncrementFeedClients() {
	m.feedClients.Add(1)
}

// DecrementFeedClients decrements connected feed clients by 1.
func (m *Metrics) DecrementFeedClients() {
	m.feedClients.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	QuotesServed   uint64
	OrdersAccepted uint64
	OrdersRejected uint64
	ErrorsTotal    uint64
	AvgLatencyNs   int64
	FeedClients    int32
	Timestamp      time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		QuotesServed:   m.quotesServed.Load(),
		OrdersAccepted: m.ordersAccepted.Load(),
		OrdersRejected: m.ordersRejected.Load(),
		ErrorsTotal:    m.errorsTotal.Load(),
		AvgLatencyNs:   avgLatency,
		FeedClients:    m.feedClients.Load(),
		Timestamp:      time.Now(),
	}
}
