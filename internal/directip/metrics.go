package directip

import "sync"

// Metrics counts connection outcomes since the server started.
type Metrics struct {
	mu       sync.Mutex
	accepted int64
	stored   int64
	failed   int64
}

// NewMetrics returns zeroed counters.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) IncAccepted() {
	m.mu.Lock()
	m.accepted++
	m.mu.Unlock()
}

func (m *Metrics) IncStored() {
	m.mu.Lock()
	m.stored++
	m.mu.Unlock()
}

func (m *Metrics) IncFailed() {
	m.mu.Lock()
	m.failed++
	m.mu.Unlock()
}

// Snapshot returns a consistent copy of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsSnapshot{
		Accepted: m.accepted,
		Stored:   m.stored,
		Failed:   m.failed,
	}
}

// MetricsSnapshot is a point-in-time reading of the server counters.
type MetricsSnapshot struct {
	// Accepted counts connections handed to a handler goroutine.
	Accepted int64
	// Stored counts messages decoded and persisted.
	Stored int64
	// Failed counts connections dropped for a decode or storage error.
	Failed int64
}
