package workerspool

import (
	"sync/atomic"
	"time"
)

// PoolMetrics tracks counters for a worker pool
type PoolMetrics struct {
	JobsProcessed int64
	JobsDropped   int64
	Panics        int64
	TotalLatency  int64 // in nanoseconds
	MaxLatency    int64
}

// Snapshot is a point-in-time copy of PoolMetrics.
type Snapshot struct {
	JobsProcessed int64
	JobsDropped   int64
	Panics        int64
	AvgLatency    time.Duration
	MaxLatency    time.Duration
}

func newPoolMetrics() *PoolMetrics {
	return &PoolMetrics{}
}

func (m *PoolMetrics) recordProcessed(latency time.Duration) {
	atomic.AddInt64(&m.JobsProcessed, 1)
	atomic.AddInt64(&m.TotalLatency, latency.Nanoseconds())

	for {
		oldMax := atomic.LoadInt64(&m.MaxLatency)
		if latency.Nanoseconds() <= oldMax {
			break
		}
		if atomic.CompareAndSwapInt64(&m.MaxLatency, oldMax, latency.Nanoseconds()) {
			break
		}
	}
}

func (m *PoolMetrics) recordDropped() {
	atomic.AddInt64(&m.JobsDropped, 1)
}

func (m *PoolMetrics) recordPanic() {
	atomic.AddInt64(&m.Panics, 1)
}

func (m *PoolMetrics) snapshot() Snapshot {
	processed := atomic.LoadInt64(&m.JobsProcessed)
	s := Snapshot{
		JobsProcessed: processed,
		JobsDropped:   atomic.LoadInt64(&m.JobsDropped),
		Panics:        atomic.LoadInt64(&m.Panics),
		MaxLatency:    time.Duration(atomic.LoadInt64(&m.MaxLatency)),
	}
	if processed > 0 {
		s.AvgLatency = time.Duration(atomic.LoadInt64(&m.TotalLatency) / processed)
	}
	return s
}
