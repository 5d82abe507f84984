package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/multh-go/pkg/cycle"
)

const poolSubsystem = "pool"

// PoolMetrics records the cycles of one pool. It implements
// cycle.Observer.
type PoolMetrics struct {
	cycles   prometheus.Counter
	overruns prometheus.Counter
	lag      prometheus.Histogram
	busy     prometheus.Histogram
	worklist prometheus.Gauge
	added    prometheus.Counter
	removed  prometheus.Counter
}

var _ cycle.Observer = (*PoolMetrics)(nil)

// NewPoolMetrics creates the metrics of the pool named pool and registers
// them with reg.
func NewPoolMetrics(reg prometheus.Registerer, pool string) (*PoolMetrics, error) {
	labels := prometheus.Labels{"pool": pool}
	m := &PoolMetrics{
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   poolSubsystem,
			Name:        "cycles_total",
			Help:        "Completed cycles.",
			ConstLabels: labels,
		}),
		overruns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   poolSubsystem,
			Name:        "overruns_total",
			Help:        "Cycles that did not finish within the period.",
			ConstLabels: labels,
		}),
		lag: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   poolSubsystem,
			Name:        "overrun_lag_seconds",
			Help:        "How far an overrunning cycle fell behind its schedule.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		busy: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   poolSubsystem,
			Name:        "cycle_busy_seconds",
			Help:        "Time from the start of a cycle until its end-of-cycle callback returned.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		worklist: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   poolSubsystem,
			Name:        "worklist_elements",
			Help:        "Elements in the worklist after the last cycle boundary.",
			ConstLabels: labels,
		}),
		added: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   poolSubsystem,
			Name:        "added_total",
			Help:        "Elements merged into the worklist.",
			ConstLabels: labels,
		}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   poolSubsystem,
			Name:        "removed_total",
			Help:        "Elements merged out of the worklist.",
			ConstLabels: labels,
		}),
	}

	for _, c := range []prometheus.Collector{m.cycles, m.overruns, m.lag, m.busy, m.worklist, m.added, m.removed} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// CycleCompleted implements cycle.Observer.
func (m *PoolMetrics) CycleCompleted(_ uint64, worklist int, busy time.Duration) {
	m.cycles.Inc()
	m.worklist.Set(float64(worklist))
	m.busy.Observe(busy.Seconds())
}

// CycleOverrun implements cycle.Observer.
func (m *PoolMetrics) CycleOverrun(_ uint64, lag time.Duration) {
	m.overruns.Inc()
	m.lag.Observe(lag.Seconds())
}

// Merged implements cycle.Observer.
func (m *PoolMetrics) Merged(added, removed int) {
	m.added.Add(float64(added))
	m.removed.Add(float64(removed))
}
