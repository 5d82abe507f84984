// Package cycle provides a cyclic parallel work pool.
//
// A Pool repeatedly applies a per-element function to every element of a
// worklist at a fixed cadence. A fixed number of worker goroutines claim
// elements from the current round; the worker that finds the round exhausted
// and wins the barrier lock becomes the leader for that cycle boundary:
//
//   - it waits until every claimed element of the round has been processed
//   - it applies queued Add/Del requests to the worklist
//   - it runs the optional end-of-cycle callback
//   - it sleeps until the next cycle anchor (or records an overrun)
//   - it publishes the next round and wakes the other workers
//
// Workers that lose the barrier race wait for the next round with a bounded
// timeout, so a missed wakeup never stalls the pool.
//
// Usage:
//
//	p, err := cycle.New(cycle.Config[Particle]{
//		Process: func(p *Particle, n uint64) { p.Step() },
//		Workers: 4,
//		Period:  10 * time.Millisecond,
//	})
//	if err != nil {
//		return err
//	}
//	p.Add(particle)
//	if err := p.Start(); err != nil {
//		return err
//	}
//	defer p.Close()
//
// Elements are owned by the caller. A pool keeps its own bookkeeping for
// every tracked element in a side table, so the same element may be tracked
// by several pools at once.
//
// Thread Safety:
//
// Add, Del, IsAdded, Cycle, Len and Stats are safe from any goroutine,
// including from the per-element function and the end-of-cycle callback.
// Halt must not be called from either callback: the callback runs while
// the barrier is held and would deadlock.
package cycle
