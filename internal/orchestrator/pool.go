package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ─── Concurrency Pool ───────────────────────────────────────────────────────
// Bounded set of slots limiting how many child processes run at once.
// Owned by the Orchestrator instance, never ambient global state, so
// multiple orchestrators (e.g. in tests) don't interfere.

// Pool bounds the number of simultaneously running child processes.
// Acquire blocks (queues) when the pool is full rather than failing.
type Pool struct {
	sem    *semaphore.Weighted
	size   int
	active atomic.Int64
}

// NewPool creates a pool with the given number of slots (minimum 1).
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		sem:  semaphore.NewWeighted(int64(size)),
		size: size,
	}
}

// Acquire claims a slot, blocking until one is free or ctx is done.
// Caller MUST call Release() on the returned slot (use defer).
func (p *Pool) Acquire(ctx context.Context) (*Slot, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	p.active.Add(1)
	return &Slot{pool: p}, nil
}

// Active returns the number of slots currently held.
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Size returns the pool capacity.
func (p *Pool) Size() int {
	return p.size
}

// Slot is one held pool slot. Release is idempotent.
type Slot struct {
	pool *Pool
	once sync.Once
}

// Release returns the slot to the pool.
func (s *Slot) Release() {
	s.once.Do(func() {
		s.pool.active.Add(-1)
		s.pool.sem.Release(1)
	})
}
