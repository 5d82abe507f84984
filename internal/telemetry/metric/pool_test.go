package metric

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/multh-go/pkg/cycle"
)

func TestPoolMetrics_Observer(t *testing.T) {
	r := NewRegistry()
	m, err := NewPoolMetrics(r.Registerer(), "steady")
	require.NoError(t, err)

	m.Merged(5, 2)
	m.CycleCompleted(1, 3, 2*time.Millisecond)
	m.CycleCompleted(2, 3, time.Millisecond)
	m.CycleOverrun(2, 5*time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.cycles))
	require.Equal(t, 1.0, testutil.ToFloat64(m.overruns))
	require.Equal(t, 3.0, testutil.ToFloat64(m.worklist))
	require.Equal(t, 5.0, testutil.ToFloat64(m.added))
	require.Equal(t, 2.0, testutil.ToFloat64(m.removed))

	body := scrape(t, r.Handler())
	for _, want := range []string{
		`multh_pool_cycles_total{pool="steady"} 2`,
		`multh_pool_overruns_total{pool="steady"} 1`,
		`multh_pool_worklist_elements{pool="steady"} 3`,
		`multh_pool_cycle_busy_seconds_count{pool="steady"} 2`,
		`multh_pool_overrun_lag_seconds_count{pool="steady"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s", want)
		}
	}
}

func TestPoolMetrics_DuplicateName(t *testing.T) {
	r := NewRegistry()
	_, err := NewPoolMetrics(r.Registerer(), "a")
	require.NoError(t, err)

	_, err = NewPoolMetrics(r.Registerer(), "a")
	require.Error(t, err)

	_, err = NewPoolMetrics(r.Registerer(), "b")
	require.NoError(t, err)
}

func TestPoolMetrics_WiredToPool(t *testing.T) {
	r := NewRegistry()
	m, err := NewPoolMetrics(r.Registerer(), "wired")
	require.NoError(t, err)

	type elem struct{ n atomic.Int64 }
	p, err := cycle.New(cycle.Config[elem]{
		Process:  func(e *elem, _ uint64) { e.n.Add(1) },
		Period:   time.Millisecond,
		Observer: m,
	})
	require.NoError(t, err)
	p.Add(&elem{})
	p.Add(&elem{})
	require.NoError(t, p.Start())
	defer p.Close()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.cycles) >= 3
	}, 2*time.Second, time.Millisecond)
	require.Equal(t, 2.0, testutil.ToFloat64(m.added))
	require.Equal(t, 2.0, testutil.ToFloat64(m.worklist))
}
