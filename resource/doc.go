// Package resource governs the memory, concurrency, and IO budgets shared
// by index operations.
//
// A single Controller covers three concerns:
//
//   - Memory: staging buffers for artifact loads reserve against a hard
//     cap and fail fast with ErrMemoryLimitExceeded instead of blocking.
//   - Background workers: jobs like stale generation cleanup claim a slot
//     so they cannot pile up behind each other.
//   - IO bandwidth: artifact reads and writes draw from a token bucket so
//     bulk transfers do not starve foreground searches.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   1 << 30,
//	    IOLimitBytesPerSec: 100 << 20,
//	})
//
//	w := resource.NewThrottledWriter(ctx, file, rc)
//	r := resource.NewThrottledReader(ctx, file, rc)
//
// A nil *Controller admits everything, so callers pass one through
// unconditionally and only construct it when limits are wanted.
package resource
