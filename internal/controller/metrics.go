package controller

import (
	"sync"
	"time"

	"xrmodels/internal/controller/systems"
)

// TickMetrics holds running totals over all ticks.
type TickMetrics struct {
	StartTime      time.Time
	LastTickTime   time.Time
	Ticks          int64
	Polled         int64
	Instantiated   int64
	Pending        int64
	Failed         int64
	Spawned        int64
	DroppedBatches int64
	Panics         int64
	TotalDuration  time.Duration
	MaxDuration    time.Duration
	MinDuration    time.Duration
}

// AvgDuration returns the mean tick duration.
func (m TickMetrics) AvgDuration() time.Duration {
	if m.Ticks == 0 {
		return 0
	}
	return m.TotalDuration / time.Duration(m.Ticks)
}

// MetricsAggregator collects per-tick stats from the systems.
type MetricsAggregator struct {
	mu      sync.RWMutex
	metrics TickMetrics
}

// NewMetricsAggregator creates a new metrics aggregator
func NewMetricsAggregator() *MetricsAggregator {
	return &MetricsAggregator{
		metrics: TickMetrics{
			StartTime:   time.Now(),
			MinDuration: time.Hour, // Initialize to high value
		},
	}
}

// RecordTick folds one tick into the totals.
func (ma *MetricsAggregator) RecordTick(duration time.Duration, tick systems.TickStats, playback systems.PlaybackStats) {
	ma.mu.Lock()
	defer ma.mu.Unlock()

	m := &ma.metrics
	m.Ticks++
	m.Polled += int64(tick.Polled)
	m.Instantiated += int64(tick.Instantiated)
	m.Pending += int64(tick.Pending)
	m.Failed += int64(tick.Failed)
	m.Spawned += int64(playback.Spawned)
	m.DroppedBatches += int64(playback.Dropped)
	m.TotalDuration += duration
	m.LastTickTime = time.Now()

	if duration > m.MaxDuration {
		m.MaxDuration = duration
	}
	if duration < m.MinDuration {
		m.MinDuration = duration
	}
}

// RecordPanic counts a tick that panicked.
func (ma *MetricsAggregator) RecordPanic() {
	ma.mu.Lock()
	ma.metrics.Panics++
	ma.mu.Unlock()
}

// Snapshot returns a copy of the totals.
func (ma *MetricsAggregator) Snapshot() TickMetrics {
	ma.mu.RLock()
	defer ma.mu.RUnlock()
	return ma.metrics
}
