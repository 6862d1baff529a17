package resource

import (
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// memGuard tracks reserved memory and optionally enforces a hard cap.
// Reservations fail fast rather than block, since the artifact staging
// paths that take them cannot make progress by waiting.
type memGuard struct {
	sem      *semaphore.Weighted // nil when unlimited
	reserved atomic.Int64
}

func newMemGuard(limit int64) *memGuard {
	g := &memGuard{}
	if limit > 0 {
		g.sem = semaphore.NewWeighted(limit)
	}

	return g
}

func (g *memGuard) acquire(n int64) error {
	if g.sem != nil && !g.sem.TryAcquire(n) {
		return ErrMemoryLimitExceeded
	}

	g.reserved.Add(n)

	return nil
}

func (g *memGuard) release(n int64) {
	if g.sem != nil {
		g.sem.Release(n)
	}

	g.reserved.Add(-n)
}

func (g *memGuard) used() int64 {
	return g.reserved.Load()
}
