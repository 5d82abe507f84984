package cycle

import (
	"sync"
	"time"
)

// work is the main loop of one worker goroutine.
func (p *Pool[O]) work(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		r := p.round.Load()
		if idx := r.next.Add(1) - 1; idx < int64(len(r.items)) {
			p.process(r, idx)
			continue
		}

		// The round is exhausted. Take the wake channel before trying the
		// barrier so a broadcast in between is not lost.
		wake := p.wake.wait()
		if p.round.Load() != r {
			continue
		}

		if p.barrier.TryLock() {
			if p.round.Load() == r {
				p.lead(r, stop)
			}
			p.barrier.Unlock()
			p.wake.broadcast()
			continue
		}

		timer := time.NewTimer(p.cfg.Period * followerTimeoutFactor)
		select {
		case <-wake:
		case <-stop:
		case <-timer.C:
		}
		timer.Stop()
	}
}

// process runs the element function for one claimed index. A panic is
// recovered and counted so the round still completes.
func (p *Pool[O]) process(r *round[O], idx int64) {
	defer r.done.Done()
	defer func() {
		if v := recover(); v != nil {
			p.panics.Add(1)
			p.cfg.Logger.Error("cycle element function panicked",
				"cycle", r.cycle,
				"index", idx,
				"panic", v)
		}
	}()
	p.cfg.Process(r.items[idx], r.cycle)
}

// lead performs the cycle boundary for round r. Caller holds barrier.
func (p *Pool[O]) lead(r *round[O], stop <-chan struct{}) {
	// Every index of r has been claimed; wait until the claimed elements
	// are processed before the worklist changes.
	r.done.Wait()

	if added, removed := p.drainPending(); added+removed > 0 {
		p.cfg.Observer.Merged(added, removed)
	}

	if p.cfg.CycleEnd != nil {
		p.cycleEnd(r.cycle)
	}
	p.cfg.Observer.CycleCompleted(r.cycle, len(p.elems), time.Since(p.cycleStart))

	p.anchor = p.anchor.Add(p.cfg.Period)
	if wait := time.Until(p.anchor); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-stop:
			timer.Stop()
		}
	} else {
		// No catch-up: the next cycle starts now.
		p.overruns.Add(1)
		p.cfg.Logger.Debug("cycle overrun",
			"cycle", r.cycle,
			"lag", -wait,
			"worklist", len(p.elems))
		p.cfg.Observer.CycleOverrun(r.cycle, -wait)
		p.anchor = time.Now()
	}

	next := &round[O]{cycle: r.cycle + 1, items: p.elems}
	next.done.Add(len(p.elems))
	p.cycleStart = time.Now()
	p.round.Store(next)
}

func (p *Pool[O]) cycleEnd(cycle uint64) {
	defer func() {
		if v := recover(); v != nil {
			p.panics.Add(1)
			p.cfg.Logger.Error("cycle end function panicked",
				"cycle", cycle,
				"panic", v)
		}
	}()
	p.cfg.CycleEnd(p.elems)
}

// drainPending applies queued adds and removals if there are any.
func (p *Pool[O]) drainPending() (added, removed int) {
	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()

	if len(p.pendingAdd)+len(p.pendingDel) == 0 {
		return 0, 0
	}
	return p.merge()
}

// broadcaster wakes every goroutine waiting on the current channel.
type broadcaster struct {
	mu sync.Mutex
	ch chan struct{}
}

// wait returns a channel that is closed by the next broadcast.
func (b *broadcaster) wait() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ch == nil {
		b.ch = make(chan struct{})
	}
	return b.ch
}

func (b *broadcaster) broadcast() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ch != nil {
		close(b.ch)
		b.ch = nil
	}
}
