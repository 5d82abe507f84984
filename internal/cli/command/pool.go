package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/multh-go/internal/cli/output"
	"github.com/yndnr/multh-go/internal/config"
	"github.com/yndnr/multh-go/internal/scenario"
)

// PoolCommand returns the pool subcommand group.
func PoolCommand() *cli.Command {
	return &cli.Command{
		Name:  "pool",
		Usage: "Cyclic work pool scenarios",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Process a fixed worklist every cycle and check per-element counters",
				Flags: append(poolFlags(),
					&cli.IntFlag{
						Name:  "elements",
						Usage: "Worklist size",
					},
					&cli.DurationFlag{
						Name:  "duration",
						Usage: "Stop after this long (0 runs until interrupted)",
					},
					&cli.BoolFlag{
						Name:  "metrics",
						Usage: "Serve Prometheus metrics while running",
					},
					&cli.StringFlag{
						Name:  "metrics-addr",
						Usage: "Listen address of the metrics endpoint",
					},
				),
				Action: poolRun,
			},
			{
				Name:  "churn",
				Usage: "Add and remove elements concurrently and check convergence",
				Flags: append(poolFlags(),
					&cli.IntFlag{
						Name:  "elements",
						Usage: "Elements added and removed per round",
					},
					&cli.IntFlag{
						Name:  "producers",
						Usage: "Goroutines calling Add and Del",
					},
					&cli.Float64Flag{
						Name:  "rate",
						Usage: "Add/Del calls per second across producers (0 is unlimited)",
					},
					&cli.IntFlag{
						Name:  "burst",
						Usage: "Rate limiter burst",
					},
					&cli.IntFlag{
						Name:  "rounds",
						Usage: "Fill-and-drain rounds",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Convergence timeout per phase",
					},
				),
				Action: poolChurn,
			},
		},
	}
}

func poolFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Worker goroutines",
		},
		&cli.DurationFlag{
			Name:  "period",
			Usage: "Minimum time between cycle boundaries",
		},
	}
}

func applyPoolFlags(c *cli.Context, p *config.PoolSection) {
	if c.IsSet("workers") {
		p.Workers = c.Int("workers")
	}
	if c.IsSet("period") {
		p.Period = c.Duration("period")
	}
}

func poolRun(c *cli.Context) error {
	env := GetEnv(c)
	cfg := env.Config

	applyPoolFlags(c, &cfg.Pool)
	if c.IsSet("elements") {
		cfg.Pool.Elements = c.Int("elements")
	}
	if c.IsSet("duration") {
		cfg.Pool.Duration = c.Duration("duration")
	}
	if c.IsSet("metrics") {
		cfg.Metrics.Enabled = c.Bool("metrics")
	}
	if c.IsSet("metrics-addr") {
		cfg.Metrics.Addr = c.String("metrics-addr")
	}
	if err := config.Verify(cfg); err != nil {
		return err
	}

	var report *scenario.SteadyReport
	err := runScenario(c, env, func(ctx context.Context, opts scenario.Options) error {
		var err error
		report, err = scenario.Steady(ctx, cfg.Pool, opts)
		return err
	})
	if err != nil {
		return err
	}

	if err := env.Print(report); err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("%w: %d lagging, %d gaps, %d panics",
			ErrCheckFailed, report.Lagging, report.Gaps, report.Panics)
	}
	return nil
}

func poolChurn(c *cli.Context) error {
	env := GetEnv(c)
	cfg := env.Config

	applyPoolFlags(c, &cfg.Pool)
	ch := &cfg.Churn
	if c.IsSet("elements") {
		ch.Elements = c.Int("elements")
	}
	if c.IsSet("producers") {
		ch.Producers = c.Int("producers")
	}
	if c.IsSet("rate") {
		ch.Rate = c.Float64("rate")
	}
	if c.IsSet("burst") {
		ch.Burst = c.Int("burst")
	}
	if c.IsSet("rounds") {
		ch.Rounds = c.Int("rounds")
	}
	if c.IsSet("timeout") {
		ch.Timeout = c.Duration("timeout")
	}
	if err := config.Verify(cfg); err != nil {
		return err
	}

	var report *scenario.ChurnReport
	err := runScenario(c, env, func(ctx context.Context, opts scenario.Options) error {
		if env.Interactive() {
			bar := output.NewProgress(env.Err, "churn", ch.Rounds)
			defer bar.Finish()
			opts.OnRound = func(r scenario.ChurnRound) {
				bar.Step(fmt.Sprintf("fill %s drain %s",
					r.Fill.Round(time.Millisecond), r.Drain.Round(time.Millisecond)))
			}
		}

		var err error
		report, err = scenario.Churn(ctx, cfg.Pool, *ch, opts)
		return err
	})
	if err != nil {
		return err
	}

	if err := env.Print(report, report.Rounds); err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("%w: %d elements leaked", ErrCheckFailed, report.Leaked)
	}
	return nil
}
