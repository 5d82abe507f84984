package cycle

// merge applies the pending lists to the worklist and clears them.
// Caller holds barrier and pendingMu.
//
// Removals are paired with additions first so a vacated slot is reused
// in place. Surplus additions are appended; surplus removals are
// swap-removed, one at a time, so a removal that sits at the tail of the
// live range is simply truncated rather than copied over.
func (p *Pool[O]) merge() (added, removed int) {
	adds := p.pendingAdd[:0]
	for _, t := range p.pendingAdd {
		t.inAdd = false
		if t.queued.Load() && t.index == absent {
			adds = append(adds, t)
		}
	}

	// A listed removal that was re-added before this boundary is cancelled.
	dels := p.pendingDel[:0]
	for _, t := range p.pendingDel {
		t.inDel = false
		if !t.queued.Load() && t.index != absent {
			dels = append(dels, t)
		}
	}

	n := min(len(adds), len(dels))
	for i := 0; i < n; i++ {
		slot := dels[i].index
		dels[i].index = absent
		p.place(adds[i], slot)
	}

	for _, t := range adds[n:] {
		t.index = len(p.elems)
		p.elems = append(p.elems, t.elem)
		p.refs = append(p.refs, t)
	}

	for _, t := range dels[n:] {
		p.swapRemove(t)
	}

	for _, t := range dels {
		p.trackers.CompareAndDelete(t.elem, t)
	}

	added, removed = len(adds), len(dels)
	clear(p.pendingAdd)
	clear(p.pendingDel)
	p.pendingAdd = p.pendingAdd[:0]
	p.pendingDel = p.pendingDel[:0]
	return added, removed
}

// place puts t into the worklist at slot.
func (p *Pool[O]) place(t *tracker[O], slot int) {
	p.elems[slot] = t.elem
	p.refs[slot] = t
	t.index = slot
}

// swapRemove moves the last live element into t's slot and shrinks the
// worklist by one.
func (p *Pool[O]) swapRemove(t *tracker[O]) {
	last := len(p.elems) - 1
	if slot := t.index; slot != last {
		p.place(p.refs[last], slot)
	}
	p.elems[last] = nil
	p.refs[last] = nil
	p.elems = p.elems[:last]
	p.refs = p.refs[:last]
	t.index = absent
}
