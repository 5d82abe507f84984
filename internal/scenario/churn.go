package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yndnr/multh-go/internal/config"
	"github.com/yndnr/multh-go/internal/telemetry/logger"
	"github.com/yndnr/multh-go/pkg/cycle"
)

// ErrNotConverged is returned when the worklist does not reach the
// expected size within the churn timeout.
var ErrNotConverged = errors.New("worklist did not converge")

// Token is the element type of the churn scenario.
type Token struct {
	ID int
}

// ChurnRound records one fill-and-drain round.
type ChurnRound struct {
	Round int           `json:"round" yaml:"round"`
	Fill  time.Duration `json:"fill" yaml:"fill"`
	Drain time.Duration `json:"drain" yaml:"drain"`

	// Cycles is the number of boundaries the round spanned.
	Cycles uint64 `json:"cycles" yaml:"cycles"`
}

// ChurnReport summarizes a churn run.
type ChurnReport struct {
	RunID     string       `json:"run_id" yaml:"run_id"`
	Elements  int          `json:"elements" yaml:"elements"`
	Producers int          `json:"producers" yaml:"producers"`
	Rounds    []ChurnRound `json:"rounds" yaml:"rounds"`

	// Leaked counts elements still reported as added after the last drain.
	Leaked   int    `json:"leaked" yaml:"leaked"`
	Overruns uint64 `json:"overruns" yaml:"overruns"`
}

// OK reports whether every round converged without leaks.
func (r *ChurnReport) OK() bool {
	return r.Leaked == 0
}

// Churn adds cfg.Elements tokens from cfg.Producers goroutines while the
// pool runs, waits until the worklist holds all of them, removes them all
// again and waits until it is empty. This repeats cfg.Rounds times.
func Churn(ctx context.Context, pool config.PoolSection, cfg config.ChurnSection, opts Options) (*ChurnReport, error) {
	ctx = logger.WithScenario(ctx, "churn")
	log := logger.L(ctx)

	obs, err := opts.observer("churn")
	if err != nil {
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}

	p, err := cycle.New(cycle.Config[Token]{
		Process:  func(*Token, uint64) {},
		Workers:  pool.Workers,
		Period:   pool.Period,
		Logger:   slogFrom(ctx),
		Observer: obs,
	})
	if err != nil {
		return nil, err
	}
	if err := p.Start(); err != nil {
		return nil, err
	}
	defer p.Close()
	opts.started(p.Stats)

	tokens := make([]*Token, cfg.Elements)
	for i := range tokens {
		tokens[i] = &Token{ID: i}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)
	}

	report := &ChurnReport{
		RunID:     logger.RunIDFromContext(ctx),
		Elements:  cfg.Elements,
		Producers: cfg.Producers,
	}

	for round := 1; round <= cfg.Rounds; round++ {
		r := ChurnRound{Round: round}
		first := p.Cycle()

		start := time.Now()
		if err := fanOut(ctx, tokens, cfg.Producers, limiter, p.Add); err != nil {
			return report, err
		}
		if err := converge(ctx, p, len(tokens), cfg.Timeout); err != nil {
			return report, fmt.Errorf("round %d fill: %w", round, err)
		}
		r.Fill = time.Since(start)

		start = time.Now()
		if err := fanOut(ctx, tokens, cfg.Producers, limiter, p.Del); err != nil {
			return report, err
		}
		if err := converge(ctx, p, 0, cfg.Timeout); err != nil {
			return report, fmt.Errorf("round %d drain: %w", round, err)
		}
		r.Drain = time.Since(start)
		r.Cycles = p.Cycle() - first

		log.Debug("churn round finished",
			"round", round,
			"fill", r.Fill,
			"drain", r.Drain,
			"cycles", r.Cycles)
		report.Rounds = append(report.Rounds, r)
		if opts.OnRound != nil {
			opts.OnRound(r)
		}
	}

	for _, t := range tokens {
		if p.IsAdded(t) {
			report.Leaked++
		}
	}
	report.Overruns = p.Stats().Overruns

	log.Info("churn run finished",
		"elements", cfg.Elements,
		"rounds", len(report.Rounds),
		"leaked", report.Leaked)
	return report, nil
}

// fanOut calls fn for every token, striping tokens across producers.
func fanOut(ctx context.Context, tokens []*Token, producers int, limiter *rate.Limiter, fn func(*Token)) error {
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < producers; w++ {
		g.Go(func() error {
			for i := w; i < len(tokens); i += producers {
				if err := limiter.Wait(ctx); err != nil {
					return err
				}
				fn(tokens[i])
			}
			return nil
		})
	}
	return g.Wait()
}

// converge polls until the pool worklist has want elements.
func converge(ctx context.Context, p *cycle.Pool[Token], want int, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		if got := p.Len(); got == want {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: have %d, want %d: %w", ErrNotConverged, p.Len(), want, ctx.Err())
		case <-ticker.C:
		}
	}
}
