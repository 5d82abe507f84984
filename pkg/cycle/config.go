package cycle

import (
	"log/slog"
	"time"
)

const (
	// DefaultWorkers is the worker count used when Config.Workers is not positive.
	DefaultWorkers = 2

	// DefaultPeriod is the cycle period used when Config.Period is not positive.
	DefaultPeriod = time.Second

	// followerTimeoutFactor bounds how long a follower waits for the next
	// round, in cycle periods.
	followerTimeoutFactor = 16
)

// Config configures a Pool.
type Config[O any] struct {
	// Process is called once per cycle for every element in the worklist,
	// with the element and the current cycle number. Required.
	//
	// It runs concurrently with other invocations and must not block
	// indefinitely: a stalled element stalls the whole cycle.
	Process func(elem *O, cycle uint64)

	// CycleEnd is called once per cycle by the leader after pending changes
	// have been applied, with exclusive access to the worklist. The slice
	// must not be modified or retained; use Add and Del to change the
	// worklist. Optional.
	CycleEnd func(worklist []*O)

	// Workers is the number of worker goroutines.
	Workers int

	// Period is the target duration of one cycle.
	Period time.Duration

	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// Observer receives cycle events. Optional.
	Observer Observer
}

func (c Config[O]) withDefaults() Config[O] {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Period <= 0 {
		c.Period = DefaultPeriod
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Observer == nil {
		c.Observer = NoopObserver{}
	}
	return c
}

// Observer receives pool events from the cycle leader.
// Implementations must be safe for concurrent use and must not block.
type Observer interface {
	// CycleCompleted is called after each cycle boundary. busy is the time
	// from the start of the cycle until the end-of-cycle callback returned.
	CycleCompleted(cycle uint64, worklist int, busy time.Duration)

	// CycleOverrun is called when a cycle did not finish within its period.
	// lag is how far behind the anchor the leader was.
	CycleOverrun(cycle uint64, lag time.Duration)

	// Merged is called when pending adds and removals were applied.
	Merged(added, removed int)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) CycleCompleted(uint64, int, time.Duration) {}
func (NoopObserver) CycleOverrun(uint64, time.Duration)        {}
func (NoopObserver) Merged(int, int)                           {}
