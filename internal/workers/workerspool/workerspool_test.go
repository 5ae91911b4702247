package workerspool

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	p, err := NewPool("test", 4, nil)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer p.Stop()

	var ran int64
	for i := 0; i < 100; i++ {
		if err := p.Submit(func() { atomic.AddInt64(&ran, 1) }); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	p.Wait()

	if got := atomic.LoadInt64(&ran); got != 100 {
		t.Fatalf("expected 100 tasks to run, got %d", got)
	}
	if m := p.Metrics(); m.JobsProcessed != 100 {
		t.Errorf("expected 100 processed in metrics, got %d", m.JobsProcessed)
	}
}

func TestPoolRecoversPanics(t *testing.T) {
	p, err := NewPool("panicky", 1, nil)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer p.Stop()

	if err := p.Submit(func() { panic("bad payload") }); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	p.Wait()

	if m := p.Metrics(); m.Panics != 1 {
		t.Errorf("expected 1 recorded panic, got %d", m.Panics)
	}
}

func TestPoolRejectsAfterStop(t *testing.T) {
	p, err := NewPool("stopped", 1, nil)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	p.Stop()

	if err := p.Submit(func() {}); !errors.Is(err, ErrPoolStopped) {
		t.Fatalf("expected ErrPoolStopped, got %v", err)
	}
}

func TestNewPoolRejectsZeroWorkers(t *testing.T) {
	if _, err := NewPool("zero", 0, nil); err == nil {
		t.Fatal("expected error for zero workers")
	}
}
