package scenario

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/multh-go/internal/telemetry/logger"
	"github.com/yndnr/multh-go/internal/telemetry/metric"
	"github.com/yndnr/multh-go/pkg/cycle"
)

// Options carries the collaborators shared by all scenarios.
type Options struct {
	// Registerer receives the scenario metrics. Nil disables metrics.
	Registerer prometheus.Registerer

	// Started is called once the scenario pool runs, with a function that
	// reads its live statistics.
	Started func(stats func() cycle.Stats)

	// OnRound is called after every completed churn round.
	OnRound func(ChurnRound)
}

// observer returns the pool observer for the scenario named name.
func (o Options) observer(name string) (cycle.Observer, error) {
	if o.Registerer == nil {
		return nil, nil
	}
	return metric.NewPoolMetrics(o.Registerer, name)
}

func (o Options) started(stats func() cycle.Stats) {
	if o.Started != nil {
		o.Started(stats)
	}
}

// slogFrom returns the context logger as a *slog.Logger for pkg/cycle.
func slogFrom(ctx context.Context) *slog.Logger {
	return logger.L(ctx).Slog()
}
