package command

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/multh-go/internal/config"
	"github.com/yndnr/multh-go/internal/infra/confloader"
	"github.com/yndnr/multh-go/internal/infra/shutdown"
	"github.com/yndnr/multh-go/internal/scenario"
	"github.com/yndnr/multh-go/internal/server/httpserver"
	"github.com/yndnr/multh-go/internal/telemetry/logger"
	"github.com/yndnr/multh-go/internal/telemetry/metric"
	"github.com/yndnr/multh-go/pkg/cycle"
)

// ErrCheckFailed is returned when a run completes but its report shows a
// broken invariant.
var ErrCheckFailed = errors.New("run failed its checks")

const shutdownTimeout = 10 * time.Second

// liveStats exposes the statistics of the running pool on /healthz.
type liveStats struct {
	fn atomic.Pointer[func() cycle.Stats]
}

func (l *liveStats) set(fn func() cycle.Stats) {
	l.fn.Store(&fn)
}

func (l *liveStats) health() map[string]any {
	fn := l.fn.Load()
	if fn == nil {
		return map[string]any{"pool": "idle"}
	}
	st := (*fn)()
	return map[string]any{
		"cycle":    st.Cycle,
		"worklist": st.Worklist,
		"overruns": st.Overruns,
		"panics":   st.Panics,
	}
}

// runScenario runs fn until it returns or SIGINT/SIGTERM arrives. While it
// runs, the metrics endpoint is served if enabled and the configuration
// file is watched for log level changes.
func runScenario(c *cli.Context, env *Env, fn func(ctx context.Context, opts scenario.Options) error) error {
	ctx, cancel := context.WithCancel(env.Context(c))
	defer cancel()
	log := env.Logger

	h := shutdown.NewHandler(shutdownTimeout)
	live := &liveStats{}
	opts := scenario.Options{Started: live.set}

	if env.Config.Metrics.Enabled {
		reg := metric.NewRegistry()
		opts.Registerer = reg.Registerer()

		routerCfg := httpserver.DefaultRouterConfig()
		routerCfg.Metrics = reg.Handler()
		routerCfg.Health = live.health
		routerCfg.Logger = log.Slog()

		srv := httpserver.New(env.Config.Metrics.Addr, httpserver.NewRouter(routerCfg), log.Slog())
		if err := srv.Start(); err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		h.OnShutdown(func(ctx context.Context) error {
			log.Debug("shutting down metrics server")
			return srv.Shutdown(ctx)
		})
	}

	if env.ConfigPath != "" {
		w, err := watchConfig(env)
		if err != nil {
			log.Warn("configuration watch disabled", "file", env.ConfigPath, "error", err)
		} else {
			h.OnShutdown(func(context.Context) error { return w.Stop() })
		}
	}

	// Registered last so it runs first.
	h.OnShutdown(func(context.Context) error {
		cancel()
		return nil
	})

	go func() {
		if err := h.Wait(ctx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}()

	err := fn(ctx, opts)
	if serr := h.Shutdown(); serr != nil {
		log.Error("shutdown error", "error", serr)
	}
	return err
}

// watchConfig reloads the log level whenever the configuration file is
// written. Other settings take effect on the next run.
func watchConfig(env *Env) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(env.Logger.Slog()))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(env.ConfigPath); err != nil {
		w.Stop()
		return nil, err
	}
	w.OnChange(func(path string) { reloadLogLevel(env, path) })
	w.StartAsync()
	return w, nil
}

func reloadLogLevel(env *Env, path string) {
	cfg, err := config.Load(path, env.Overrides)
	if err != nil {
		env.Logger.Warn("configuration reload rejected", "file", path, "error", err)
		return
	}
	before := logger.GetLevel()
	logger.SetLevel(cfg.Log.Level)
	if after := logger.GetLevel(); after != before {
		env.Logger.Info("log level reloaded", "from", before, "to", after)
	}
}
