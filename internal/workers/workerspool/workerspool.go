// Package workerspool runs fire-and-forget work on a bounded goroutine pool.
package workerspool

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"xrmodels/internal/logger"
)

var ErrPoolStopped = errors.New("worker pool stopped")

// Pool is a named ants pool that tracks in-flight tasks so callers (mostly
// tests and shutdown paths) can wait for everything submitted so far.
type Pool struct {
	alias   string
	pool    *ants.Pool
	log     logger.Logger
	metrics *PoolMetrics

	inflight sync.WaitGroup
	mu       sync.RWMutex
	stopped  bool
}

// NewPool creates a pool with the given number of workers.
func NewPool(alias string, workers int, log logger.Logger) (*Pool, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("pool %s: workers must be positive, got %d", alias, workers)
	}
	if log == nil {
		log = logger.NewNop()
	}
	p := &Pool{
		alias:   alias,
		log:     log.With(logger.F("pool", alias)),
		metrics: newPoolMetrics(),
	}

	pool, err := ants.NewPool(workers,
		ants.WithPreAlloc(false),
		ants.WithPanicHandler(func(r interface{}) {
			p.log.Error("worker panic escaped task wrapper", logger.F("panic", fmt.Sprint(r)))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pool %s: %w", alias, err)
	}
	p.pool = pool
	return p, nil
}

// Alias returns the pool's name.
func (p *Pool) Alias() string { return p.alias }

// Submit schedules task. It never waits for the task to run.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}

	enqueued := time.Now()
	p.inflight.Add(1)
	err := p.pool.Submit(func() {
		defer p.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				p.metrics.recordPanic()
				p.log.Error("task panic", logger.F("panic", fmt.Sprint(r)))
			}
			p.metrics.recordProcessed(time.Since(enqueued))
		}()
		task()
	})
	if err != nil {
		p.inflight.Done()
		p.metrics.recordDropped()
		return fmt.Errorf("submitting to pool %s: %w", p.alias, err)
	}
	return nil
}

// Wait blocks until every task submitted so far has finished.
func (p *Pool) Wait() {
	p.inflight.Wait()
}

// Running reports the number of busy workers.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Metrics returns a snapshot of the pool counters.
func (p *Pool) Metrics() Snapshot {
	return p.metrics.snapshot()
}

// Stop rejects new work, waits for in-flight tasks and releases the workers.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	p.inflight.Wait()
	p.pool.Release()
}
