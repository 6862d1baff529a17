package resource

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when a reservation would push managed
// memory past the configured limit.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config sets the limits a Controller enforces. A zero value means no limit,
// except MaxBackgroundWorkers which defaults to 1.
type Config struct {
	// MemoryLimitBytes caps memory reserved through AcquireMemory.
	// 0 tracks usage without enforcing a limit.
	MemoryLimitBytes int64

	// MaxBackgroundWorkers caps concurrent background jobs such as stale
	// generation cleanup.
	MaxBackgroundWorkers int64

	// IOLimitBytesPerSec caps artifact read and write throughput.
	IOLimitBytesPerSec int64
}

// Controller arbitrates memory, background concurrency, and IO bandwidth
// across index operations.
//
// A nil *Controller is valid and admits everything, so call sites never
// guard against an absent controller.
type Controller struct {
	memory    *memGuard
	workers   *semaphore.Weighted
	bandwidth *rate.Limiter // nil when IO is unlimited
}

// NewController creates a controller enforcing cfg.
func NewController(cfg Config) *Controller {
	if cfg.MaxBackgroundWorkers <= 0 {
		cfg.MaxBackgroundWorkers = 1
	}

	c := &Controller{
		memory:  newMemGuard(cfg.MemoryLimitBytes),
		workers: semaphore.NewWeighted(cfg.MaxBackgroundWorkers),
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.bandwidth = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// AcquireMemory reserves bytes of managed memory. It never blocks; on
// ErrMemoryLimitExceeded the caller decides whether to retry, degrade, or
// fail.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	return c.memory.acquire(bytes)
}

// ReleaseMemory returns a reservation made by AcquireMemory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	c.memory.release(bytes)
}

// MemoryUsage reports the bytes currently reserved.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}

	return c.memory.used()
}

// AcquireBackground blocks until a background worker slot frees up or ctx
// is done.
func (c *Controller) AcquireBackground(ctx context.Context) error {
	if c == nil {
		return nil
	}

	return c.workers.Acquire(ctx, 1)
}

// TryAcquireBackground claims a background worker slot if one is free.
func (c *Controller) TryAcquireBackground() bool {
	if c == nil {
		return true
	}

	return c.workers.TryAcquire(1)
}

// ReleaseBackground returns a worker slot.
func (c *Controller) ReleaseBackground() {
	if c == nil {
		return
	}

	c.workers.Release(1)
}

// AcquireIO blocks until the bandwidth budget admits n bytes. Requests
// larger than the burst are admitted in burst-sized installments, so a
// single oversized buffer slows down instead of failing.
func (c *Controller) AcquireIO(ctx context.Context, n int) error {
	if c == nil || c.bandwidth == nil {
		return nil
	}

	for burst := c.bandwidth.Burst(); n > 0; {
		step := min(n, burst)
		if err := c.bandwidth.WaitN(ctx, step); err != nil {
			return err
		}
		n -= step
	}

	return nil
}
