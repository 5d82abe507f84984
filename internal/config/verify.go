package config

import (
	"errors"
	"net"

	"github.com/yndnr/multh-go/internal/telemetry/logger"
)

// Verify validates the configuration and returns every problem found,
// joined.
func Verify(cfg *Config) error {
	var errs []error
	errs = append(errs, verifyPool(&cfg.Pool)...)
	errs = append(errs, verifyChurn(&cfg.Churn)...)
	errs = append(errs, verifyMap(&cfg.Map)...)
	errs = append(errs, verifyMetrics(&cfg.Metrics)...)
	errs = append(errs, verifyLog(&cfg.Log)...)
	return errors.Join(errs...)
}

func verifyPool(cfg *PoolSection) []error {
	var errs []error
	if cfg.Workers < 1 {
		errs = append(errs, invalid("pool.workers", "must be at least 1, got %d", cfg.Workers))
	}
	if cfg.Period <= 0 {
		errs = append(errs, invalid("pool.period", "must be positive, got %s", cfg.Period))
	}
	if cfg.Elements < 0 {
		errs = append(errs, invalid("pool.elements", "must not be negative, got %d", cfg.Elements))
	}
	if cfg.Duration < 0 {
		errs = append(errs, invalid("pool.duration", "must not be negative, got %s", cfg.Duration))
	}
	return errs
}

func verifyChurn(cfg *ChurnSection) []error {
	var errs []error
	if cfg.Elements < 1 {
		errs = append(errs, invalid("churn.elements", "must be at least 1, got %d", cfg.Elements))
	}
	if cfg.Producers < 1 {
		errs = append(errs, invalid("churn.producers", "must be at least 1, got %d", cfg.Producers))
	}
	if cfg.Rate < 0 {
		errs = append(errs, invalid("churn.rate", "must not be negative, got %g", cfg.Rate))
	}
	if cfg.Rate > 0 && cfg.Burst < 1 {
		errs = append(errs, invalid("churn.burst", "must be at least 1 when churn.rate is set, got %d", cfg.Burst))
	}
	if cfg.Rounds < 1 {
		errs = append(errs, invalid("churn.rounds", "must be at least 1, got %d", cfg.Rounds))
	}
	if cfg.Timeout <= 0 {
		errs = append(errs, invalid("churn.timeout", "must be positive, got %s", cfg.Timeout))
	}
	return errs
}

func verifyMap(cfg *MapSection) []error {
	var errs []error
	if cfg.Shards < 1 {
		errs = append(errs, invalid("map.shards", "must be at least 1, got %d", cfg.Shards))
	}
	if cfg.Keys < 1 {
		errs = append(errs, invalid("map.keys", "must be at least 1, got %d", cfg.Keys))
	}
	if cfg.Workers < 1 {
		errs = append(errs, invalid("map.workers", "must be at least 1, got %d", cfg.Workers))
	}
	switch cfg.Hasher {
	case HasherMaphash, HasherMurmur3:
	default:
		errs = append(errs, invalid("map.hasher", "must be %q or %q, got %q", HasherMaphash, HasherMurmur3, cfg.Hasher))
	}
	return errs
}

func verifyMetrics(cfg *MetricsSection) []error {
	if !cfg.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return []error{invalid("metrics.addr", "%v", err)}
	}
	return nil
}

func verifyLog(cfg *LogSection) []error {
	var errs []error
	if !logger.ValidLevel(cfg.Level) {
		errs = append(errs, invalid("log.level", "unknown level %q", cfg.Level))
	}
	switch cfg.Format {
	case "json", "text", "console":
	default:
		errs = append(errs, invalid("log.format", "unknown format %q", cfg.Format))
	}
	return errs
}
