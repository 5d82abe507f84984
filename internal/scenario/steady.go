package scenario

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/yndnr/multh-go/internal/config"
	"github.com/yndnr/multh-go/internal/telemetry/logger"
	"github.com/yndnr/multh-go/pkg/cycle"
)

// Ticker is the element type of the steady scenario. It counts the cycles
// it was processed in.
type Ticker struct {
	ID   int
	hits atomic.Uint64
	last atomic.Uint64 // last cycle seen, 0 before the first
	gaps atomic.Uint64 // cycles that did not follow the previous one
}

// Hits returns the number of cycles the ticker was processed in.
func (t *Ticker) Hits() uint64 { return t.hits.Load() }

func (t *Ticker) tick(cycle uint64) {
	if last := t.last.Swap(cycle); last != 0 && cycle != last+1 {
		t.gaps.Add(1)
	}
	t.hits.Add(1)
}

// SteadyReport summarizes a steady run.
type SteadyReport struct {
	RunID    string        `json:"run_id" yaml:"run_id"`
	Workers  int           `json:"workers" yaml:"workers"`
	Period   time.Duration `json:"period" yaml:"period"`
	Elements int           `json:"elements" yaml:"elements"`
	Elapsed  time.Duration `json:"elapsed" yaml:"elapsed"`
	Cycles   uint64        `json:"cycles" yaml:"cycles"`
	MinHits  uint64        `json:"min_hits" yaml:"min_hits"`
	MaxHits  uint64        `json:"max_hits" yaml:"max_hits"`

	// Lagging counts elements that missed more than the in-flight cycle.
	Lagging int `json:"lagging" yaml:"lagging"`

	// Gaps counts non-consecutive cycle observations across all elements.
	Gaps     uint64 `json:"gaps" yaml:"gaps"`
	Overruns uint64 `json:"overruns" yaml:"overruns"`
	Panics   uint64 `json:"panics" yaml:"panics"`
}

// OK reports whether every element saw every cycle.
func (r *SteadyReport) OK() bool {
	return r.Lagging == 0 && r.Gaps == 0 && r.Panics == 0
}

// Steady processes cfg.Elements tickers until ctx is done or cfg.Duration
// has elapsed, then checks their counters against the pool cycle.
func Steady(ctx context.Context, cfg config.PoolSection, opts Options) (*SteadyReport, error) {
	ctx = logger.WithScenario(ctx, "steady")
	log := logger.L(ctx)

	obs, err := opts.observer("steady")
	if err != nil {
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}

	pool, err := cycle.New(cycle.Config[Ticker]{
		Process:  func(t *Ticker, n uint64) { t.tick(n) },
		Workers:  cfg.Workers,
		Period:   cfg.Period,
		Logger:   slogFrom(ctx),
		Observer: obs,
	})
	if err != nil {
		return nil, err
	}

	tickers := make([]*Ticker, cfg.Elements)
	for i := range tickers {
		tickers[i] = &Ticker{ID: i}
		pool.Add(tickers[i])
	}

	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	log.Info("steady run started",
		"workers", cfg.Workers,
		"period", cfg.Period,
		"elements", cfg.Elements)

	start := time.Now()
	if err := pool.Start(); err != nil {
		return nil, err
	}
	opts.started(pool.Stats)
	<-ctx.Done()

	report := &SteadyReport{
		RunID:    logger.RunIDFromContext(ctx),
		Workers:  cfg.Workers,
		Period:   cfg.Period,
		Elements: cfg.Elements,
	}

	// Counters are read with the pool halted so that at most the current
	// round is in flight.
	pool.Paused(func([]*Ticker) {
		report.Elapsed = time.Since(start)
		report.Cycles = pool.Cycle()
		fillHits(report, tickers)
	})

	stopCtx, cancel := context.WithTimeout(context.Background(), 16*cfg.Period+time.Second)
	defer cancel()
	if err := pool.Stop(stopCtx); err != nil {
		return nil, err
	}

	stats := pool.Stats()
	report.Overruns = stats.Overruns
	report.Panics = stats.Panics

	log.Info("steady run finished",
		"cycles", report.Cycles,
		"elapsed", report.Elapsed,
		"lagging", report.Lagging,
		"overruns", report.Overruns)
	return report, nil
}

// fillHits computes the hit range. Tickers added before Start join at the
// first boundary, so they must have seen cycle-1 or cycle cycles.
func fillHits(r *SteadyReport, tickers []*Ticker) {
	if len(tickers) == 0 {
		return
	}
	r.MinHits = ^uint64(0)
	for _, t := range tickers {
		hits := t.Hits()
		r.MinHits = min(r.MinHits, hits)
		r.MaxHits = max(r.MaxHits, hits)
		if hits > r.Cycles || hits+1 < r.Cycles {
			r.Lagging++
		}
		r.Gaps += t.gaps.Load()
	}
}
