package cycle

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// Halt is a held pause of a pool's cycle boundaries.
//
// While a Halt is held, workers finish the elements of the current round
// but no cycle boundary runs: the worklist, the pending lists and the
// cycle number stay as they are. Release it with Continue.
type Halt struct {
	barrier  *sync.Mutex
	wake     *broadcaster
	logger   *slog.Logger
	released atomic.Bool
}

// Halt pauses the pool. It blocks until an in-flight cycle boundary has
// completed. Must not be called from Process or CycleEnd.
func (p *Pool[O]) Halt() *Halt {
	logger := p.logger()
	p.barrier.Lock()
	return &Halt{
		barrier: &p.barrier,
		wake:    &p.wake,
		logger:  logger,
	}
}

// Continue releases the halt and wakes the waiting workers.
// Only the first call has an effect.
func (h *Halt) Continue() {
	if !h.released.CompareAndSwap(false, true) {
		h.logger.Warn("cycle halt continued more than once")
		return
	}
	h.barrier.Unlock()
	h.wake.broadcast()
}

// Paused runs fn with the pool halted and the committed worklist.
// The halt is released when fn returns or panics. fn must not retain or
// modify the slice.
func (p *Pool[O]) Paused(fn func(worklist []*O)) {
	h := p.Halt()
	defer h.Continue()
	fn(p.elems)
}

// Snapshot returns a copy of the committed worklist.
func (p *Pool[O]) Snapshot() []*O {
	var out []*O
	p.Paused(func(worklist []*O) {
		out = slices.Clone(worklist)
	})
	return out
}
