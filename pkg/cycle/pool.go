package cycle

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// absent is the index of an element that holds no worklist slot.
const absent = -1

// tracker is the pool's side-table entry for one element.
type tracker[O any] struct {
	elem   *O
	index  int         // worklist position or absent; written by the leader under pendingMu
	queued atomic.Bool // logically present: slotted or pending add, and not pending removal
	inAdd  bool        // listed in pendingAdd; guarded by pendingMu
	inDel  bool        // listed in pendingDel; guarded by pendingMu
}

// round is the published state of one cycle. Workers claim indices into
// items through next. A round is never reused: a worker holding a stale
// round always finds it exhausted.
type round[O any] struct {
	cycle uint64
	items []*O
	next  atomic.Int64
	done  sync.WaitGroup // one count per item, released after processing
}

// runState belongs to one Start/Stop pair.
type runState struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Pool runs a per-element function over a worklist once per cycle.
//
// The zero value is an unconfigured pool; call Configure before Start.
// A Pool must not be copied after first use.
type Pool[O any] struct {
	mu         sync.Mutex // guards cfg, configured and run
	cfg        Config[O]
	configured bool
	run        *runState

	barrier sync.Mutex // held by the cycle leader and by Halt
	wake    broadcaster
	round   atomic.Pointer[round[O]]

	pendingMu  sync.Mutex
	pendingAdd []*tracker[O]
	pendingDel []*tracker[O]
	trackers   sync.Map // *O -> *tracker[O]

	// Leader state, only touched while holding barrier.
	elems      []*O
	refs       []*tracker[O]
	anchor     time.Time
	cycleStart time.Time

	overruns atomic.Uint64
	panics   atomic.Uint64
}

// Stats is a point-in-time view of a pool.
type Stats struct {
	Cycle         uint64 `json:"cycle"`
	Worklist      int    `json:"worklist"`
	PendingAdd    int    `json:"pending_add"`
	PendingRemove int    `json:"pending_remove"`
	Overruns      uint64 `json:"overruns"`
	Panics        uint64 `json:"panics"`
}

// New creates a configured pool. It does not start it.
func New[O any](cfg Config[O]) (*Pool[O], error) {
	p := &Pool[O]{}
	if err := p.Configure(cfg); err != nil {
		return nil, err
	}
	return p, nil
}

// Configure sets the pool configuration. It fails with ErrRunning while
// the pool runs and with ErrNoProcessFunc when cfg.Process is nil; in both
// cases the previous configuration is kept.
func (p *Pool[O]) Configure(cfg Config[O]) error {
	cfg = cfg.withDefaults()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running() {
		cfg.Logger.Warn("cycle pool configuration rejected", "reason", "pool is running")
		return opError("configure", ErrRunning)
	}
	if cfg.Process == nil {
		cfg.Logger.Error("cycle pool configuration rejected", "reason", "process function is nil")
		return opError("configure", ErrNoProcessFunc)
	}

	p.cfg = cfg
	p.configured = true
	if p.round.Load() == nil {
		p.round.Store(&round[O]{})
	}
	return nil
}

// Start spawns the worker goroutines. Starting a running pool is a no-op.
func (p *Pool[O]) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.configured {
		return opError("start", ErrNotConfigured)
	}
	if p.running() {
		return nil
	}

	// No worker of a previous run is alive here, so the leader state can
	// be reset without the barrier.
	p.anchor = time.Now()
	p.cycleStart = p.anchor

	rs := &runState{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	p.run = rs

	var wg sync.WaitGroup
	wg.Add(p.cfg.Workers)
	for i := 0; i < p.cfg.Workers; i++ {
		go func() {
			defer wg.Done()
			p.work(rs.stop)
		}()
	}
	go func() {
		wg.Wait()
		close(rs.done)
	}()

	p.cfg.Logger.Debug("cycle pool started",
		"workers", p.cfg.Workers,
		"period", p.cfg.Period,
		"cycle", p.Cycle())
	return nil
}

// Stop signals the workers to stop and waits until all of them have
// returned or ctx is done. Workers finish the element they are processing.
func (p *Pool[O]) Stop(ctx context.Context) error {
	p.mu.Lock()
	rs := p.run
	logger := p.cfg.Logger
	p.mu.Unlock()

	if rs == nil {
		return nil
	}

	rs.stopOnce.Do(func() { close(rs.stop) })
	p.wake.broadcast()

	select {
	case <-rs.done:
		logger.Debug("cycle pool stopped", "cycle", p.Cycle())
		return nil
	case <-ctx.Done():
		return opError("stop", ctx.Err())
	}
}

// Close stops the pool and waits for all workers to return.
func (p *Pool[O]) Close() error {
	return p.Stop(context.Background())
}

// Running reports whether the pool has live workers.
func (p *Pool[O]) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running()
}

func (p *Pool[O]) running() bool {
	if p.run == nil {
		return false
	}
	select {
	case <-p.run.done:
		return false
	default:
		return true
	}
}

// Add queues elem for insertion at the next cycle boundary.
// It is a no-op if elem is already present or queued.
func (p *Pool[O]) Add(elem *O) {
	if elem == nil {
		return
	}
	if v, ok := p.trackers.Load(elem); ok && v.(*tracker[O]).queued.Load() {
		return
	}

	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()

	t := p.tracker(elem)
	if !t.queued.CompareAndSwap(false, true) {
		return
	}
	// A slotted element here has a pending removal, which the merge skips
	// now that it is queued again.
	if t.index == absent && !t.inAdd {
		t.inAdd = true
		p.pendingAdd = append(p.pendingAdd, t)
	}
}

// Del queues elem for removal at the next cycle boundary.
// It is a no-op unless elem currently holds a worklist slot.
func (p *Pool[O]) Del(elem *O) {
	if elem == nil {
		return
	}

	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()

	v, ok := p.trackers.Load(elem)
	if !ok {
		return
	}
	t := v.(*tracker[O])
	if t.index == absent || !t.queued.CompareAndSwap(true, false) {
		return
	}
	if !t.inDel {
		t.inDel = true
		p.pendingDel = append(p.pendingDel, t)
	}
}

// IsAdded reports whether elem is in the worklist or queued for insertion,
// and not queued for removal.
func (p *Pool[O]) IsAdded(elem *O) bool {
	v, ok := p.trackers.Load(elem)
	return ok && v.(*tracker[O]).queued.Load()
}

// tracker returns the side-table entry for elem, creating it if needed.
// Caller holds pendingMu.
func (p *Pool[O]) tracker(elem *O) *tracker[O] {
	if v, ok := p.trackers.Load(elem); ok {
		return v.(*tracker[O])
	}
	t := &tracker[O]{elem: elem, index: absent}
	p.trackers.Store(elem, t)
	return t
}

// Cycle returns the current cycle number.
func (p *Pool[O]) Cycle() uint64 {
	if r := p.round.Load(); r != nil {
		return r.cycle
	}
	return 0
}

// Len returns the worklist length of the current cycle.
func (p *Pool[O]) Len() int {
	if r := p.round.Load(); r != nil {
		return len(r.items)
	}
	return 0
}

// Stats returns a snapshot of the pool counters.
func (p *Pool[O]) Stats() Stats {
	p.pendingMu.Lock()
	adds, dels := len(p.pendingAdd), len(p.pendingDel)
	p.pendingMu.Unlock()

	return Stats{
		Cycle:         p.Cycle(),
		Worklist:      p.Len(),
		PendingAdd:    adds,
		PendingRemove: dels,
		Overruns:      p.overruns.Load(),
		Panics:        p.panics.Load(),
	}
}

func (p *Pool[O]) logger() *slog.Logger {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cfg.Logger == nil {
		return slog.Default()
	}
	return p.cfg.Logger
}
