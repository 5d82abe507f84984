package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/multh-go/internal/cli/output"
	"github.com/yndnr/multh-go/internal/config"
	"github.com/yndnr/multh-go/internal/scenario"
)

// MapCommand returns the map subcommand group.
func MapCommand() *cli.Command {
	return &cli.Command{
		Name:  "map",
		Usage: "Sharded map scenarios",
		Subcommands: []*cli.Command{
			{
				Name:  "bench",
				Usage: "Insert, read back and erase keys concurrently and report shard balance",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "shards",
						Usage: "Shard count",
					},
					&cli.IntFlag{
						Name:  "keys",
						Usage: "Keys per phase",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Goroutines per phase",
					},
					&cli.StringFlag{
						Name:  "hasher",
						Usage: "Shard hash: maphash or murmur3",
					},
				},
				Action: mapBench,
			},
		},
	}
}

func mapBench(c *cli.Context) error {
	env := GetEnv(c)
	cfg := env.Config

	m := &cfg.Map
	if c.IsSet("shards") {
		m.Shards = c.Int("shards")
	}
	if c.IsSet("keys") {
		m.Keys = c.Int("keys")
	}
	if c.IsSet("workers") {
		m.Workers = c.Int("workers")
	}
	if c.IsSet("hasher") {
		m.Hasher = c.String("hasher")
	}
	if err := config.Verify(cfg); err != nil {
		return err
	}

	var report *scenario.MapReport
	err := runScenario(c, env, func(ctx context.Context, opts scenario.Options) error {
		var spin *output.Spinner
		if env.Interactive() {
			spin = output.NewSpinner(env.Err, fmt.Sprintf("benchmarking %d keys on %d shards", m.Keys, m.Shards))
			spin.Start()
		}

		var err error
		report, err = scenario.MapBench(ctx, *m, opts)
		if spin != nil {
			if err != nil {
				spin.Fail("benchmark failed")
			} else {
				spin.Success(fmt.Sprintf("%d ops in %s", report.Ops, report.Elapsed))
			}
		}
		return err
	})
	if err != nil {
		return err
	}

	return env.Print(report, report.Stats)
}
