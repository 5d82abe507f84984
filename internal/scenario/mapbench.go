package scenario

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yndnr/multh-go/internal/config"
	"github.com/yndnr/multh-go/internal/telemetry/logger"
	"github.com/yndnr/multh-go/internal/telemetry/metric"
	"github.com/yndnr/multh-go/pkg/cmap"
)

// ErrRoundTrip is returned when a value read back from the map differs
// from the value stored.
var ErrRoundTrip = errors.New("map round trip mismatch")

// Payload is the value type stored by the map benchmark.
type Payload struct {
	Key      int64
	Text     string
	released atomic.Bool
}

// Release implements cmap.Releaser.
func (p *Payload) Release() { p.released.Store(true) }

// MapReport summarizes a map benchmark.
type MapReport struct {
	RunID     string            `json:"run_id" yaml:"run_id"`
	Shards    int               `json:"shards" yaml:"shards"`
	Hasher    string            `json:"hasher" yaml:"hasher"`
	Keys      int               `json:"keys" yaml:"keys"`
	Workers   int               `json:"workers" yaml:"workers"`
	Ops       int64             `json:"ops" yaml:"ops"`
	Elapsed   time.Duration     `json:"elapsed" yaml:"elapsed"`
	OpsPerSec float64           `json:"ops_per_sec" yaml:"ops_per_sec"`
	Imbalance float64           `json:"imbalance" yaml:"imbalance"`
	Stats     []cmap.ShardStats `json:"shard_stats" yaml:"shard_stats"`
}

// NewPayloadMap creates the benchmark map for cfg.
func NewPayloadMap(cfg config.MapSection) *cmap.Map[int64, Payload] {
	opts := cmap.Options[int64, Payload]{ShardCount: cfg.Shards}
	if cfg.Hasher == config.HasherMurmur3 {
		opts.Hasher = cmap.IntHasher[int64]
	}
	return cmap.NewWithOptions(opts)
}

// MapBench runs three phases on a fresh map, each split across
// cfg.Workers goroutines: insert every key, read every key back and
// check it, erase every key. Shard statistics are taken after the insert
// phase.
func MapBench(ctx context.Context, cfg config.MapSection, opts Options) (*MapReport, error) {
	ctx = logger.WithScenario(ctx, "map")
	log := logger.L(ctx)

	m := NewPayloadMap(cfg)
	if opts.Registerer != nil {
		if err := opts.Registerer.Register(metric.NewMapCollector("bench", m)); err != nil {
			return nil, fmt.Errorf("register map collector: %w", err)
		}
	}

	report := &MapReport{
		RunID:   logger.RunIDFromContext(ctx),
		Shards:  m.ShardCount(),
		Hasher:  cfg.Hasher,
		Keys:    cfg.Keys,
		Workers: cfg.Workers,
	}

	var ops atomic.Int64
	start := time.Now()

	phases := []struct {
		name string
		fn   func(key int64) error
	}{
		{"insert", func(key int64) error {
			if !m.Insert(key, &Payload{Key: key, Text: strconv.FormatInt(key, 10)}) {
				return fmt.Errorf("insert %d: duplicate key", key)
			}
			return nil
		}},
		{"get", func(key int64) error {
			v, ok := m.Get(key)
			if !ok || v.Key != key || v.Text != strconv.FormatInt(key, 10) {
				return fmt.Errorf("%w: key %d", ErrRoundTrip, key)
			}
			return nil
		}},
		{"erase", func(key int64) error {
			if !m.Erase(key) {
				return fmt.Errorf("erase %d: key missing", key)
			}
			return nil
		}},
	}

	for _, phase := range phases {
		if err := stripe(ctx, cfg.Keys, cfg.Workers, func(key int64) error {
			ops.Add(1)
			return phase.fn(key)
		}); err != nil {
			return report, fmt.Errorf("%s phase: %w", phase.name, err)
		}
		if phase.name == "insert" {
			report.Stats = m.Stats()
		}
		log.Debug("map phase finished", "phase", phase.name, "len", m.Len())
	}

	report.Elapsed = time.Since(start)
	report.Ops = ops.Load()
	if secs := report.Elapsed.Seconds(); secs > 0 {
		report.OpsPerSec = float64(report.Ops) / secs
	}

	total, largest := 0, 0
	for _, s := range report.Stats {
		total += s.Len
		largest = max(largest, s.Len)
	}
	report.Imbalance = metric.Imbalance(largest, total, len(report.Stats))

	if m.Len() != 0 {
		return report, fmt.Errorf("map holds %d entries after erase phase", m.Len())
	}

	log.Info("map benchmark finished",
		"ops", report.Ops,
		"elapsed", report.Elapsed,
		"imbalance", report.Imbalance)
	return report, nil
}

// stripe calls fn for keys [0, keys) split across workers.
func stripe(ctx context.Context, keys, workers int, fn func(key int64) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for k := w; k < keys; k += workers {
				if k%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if err := fn(int64(k)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
