package command

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yndnr/multh-go/internal/config"
	"github.com/yndnr/multh-go/internal/scenario"
	"github.com/yndnr/multh-go/internal/telemetry/logger"
	"github.com/yndnr/multh-go/pkg/cycle"
)

func TestPoolRun(t *testing.T) {
	out, _, err := runApp(t, "-o", "json", "pool", "run",
		"--workers", "2",
		"--period", "5ms",
		"--elements", "20",
		"--duration", "150ms")
	require.NoError(t, err)

	var report scenario.SteadyReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, 2, report.Workers)
	require.Equal(t, 20, report.Elements)
	require.Positive(t, report.Cycles)
	require.True(t, report.OK(), "report: %+v", report)
	require.NotEmpty(t, report.RunID)
}

func TestPoolRun_WithMetrics(t *testing.T) {
	out, _, err := runApp(t, "pool", "run",
		"--period", "5ms",
		"--elements", "5",
		"--duration", "100ms",
		"--metrics",
		"--metrics-addr", "127.0.0.1:0")
	require.NoError(t, err)
	require.Contains(t, out, "cycles")
}

func TestPoolRun_InvalidFlags(t *testing.T) {
	_, _, err := runApp(t, "pool", "run", "--workers", "0")
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestPoolChurn(t *testing.T) {
	out, _, err := runApp(t, "-o", "yaml", "pool", "churn",
		"--workers", "2",
		"--period", "2ms",
		"--elements", "500",
		"--producers", "4",
		"--rounds", "2")
	require.NoError(t, err)
	require.Contains(t, out, "leaked: 0")
	require.Contains(t, out, "round: 2")
}

func TestPoolChurn_TableShowsRounds(t *testing.T) {
	out, _, err := runApp(t, "pool", "churn",
		"--period", "2ms",
		"--elements", "100",
		"--producers", "2",
		"--rounds", "3")
	require.NoError(t, err)
	require.Contains(t, out, "FIELD")
	require.Contains(t, out, "ROUND")
	require.Equal(t, 1, strings.Count(out, "\n\n"), "want two tables:\n%s", out)
}

func TestMapBench(t *testing.T) {
	out, _, err := runApp(t, "map", "bench",
		"--shards", "4",
		"--keys", "1000",
		"--workers", "4",
		"--hasher", "murmur3")
	require.NoError(t, err)
	require.Contains(t, out, "murmur3")
	require.Contains(t, out, "INDEX")
	require.Contains(t, out, "\n3 ")
	require.NotContains(t, out, "\n4 ", "want one row per shard")
}

func TestMapBench_JSON(t *testing.T) {
	out, _, err := runApp(t, "-o", "json", "map", "bench", "--shards", "8", "--keys", "2000")
	require.NoError(t, err)

	var report scenario.MapReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, int64(6000), report.Ops)
	require.Len(t, report.Stats, 8)
}

func TestMapBench_InvalidHasher(t *testing.T) {
	_, _, err := runApp(t, "map", "bench", "--hasher", "fnv")
	require.True(t, errors.Is(err, config.ErrInvalid), "err = %v", err)
}

func TestLiveStats(t *testing.T) {
	var live liveStats
	require.Equal(t, "idle", live.health()["pool"])

	live.set(func() cycle.Stats { return cycle.Stats{Cycle: 9, Worklist: 3} })
	h := live.health()
	require.Equal(t, uint64(9), h["cycle"])
	require.Equal(t, 3, h["worklist"])
}

func TestReloadLogLevel(t *testing.T) {
	defer logger.SetLevel("info")
	logger.SetLevel("info")

	path := filepath.Join(t.TempDir(), "multh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))

	env := &Env{Logger: logger.Default(), Overrides: map[string]any{}}
	reloadLogLevel(env, path)
	require.Equal(t, "debug", logger.GetLevel())

	// An invalid file leaves the level alone.
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o600))
	reloadLogLevel(env, path)
	require.Equal(t, "debug", logger.GetLevel())
}

func TestWatchConfig(t *testing.T) {
	defer logger.SetLevel("info")
	logger.SetLevel("info")

	path := filepath.Join(t.TempDir(), "multh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600))

	env := &Env{Logger: logger.Default(), ConfigPath: path, Overrides: map[string]any{}}
	w, err := watchConfig(env)
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))
	require.Eventually(t, func() bool {
		return logger.GetLevel() == "warn"
	}, 2*time.Second, 10*time.Millisecond)
}
