package config

import "time"

// Config is the root configuration.
type Config struct {
	Pool    PoolSection    `koanf:"pool" json:"pool" yaml:"pool"`
	Churn   ChurnSection   `koanf:"churn" json:"churn" yaml:"churn"`
	Map     MapSection     `koanf:"map" json:"map" yaml:"map"`
	Metrics MetricsSection `koanf:"metrics" json:"metrics" yaml:"metrics"`
	Log     LogSection     `koanf:"log" json:"log" yaml:"log"`
}

// PoolSection configures the cyclic work pool used by every scenario.
type PoolSection struct {
	Workers int           `koanf:"workers" json:"workers" yaml:"workers"`
	Period  time.Duration `koanf:"period" json:"period" yaml:"period"`

	// Elements is the worklist size of the steady scenario.
	Elements int `koanf:"elements" json:"elements" yaml:"elements"`

	// Duration bounds a steady run. Zero runs until interrupted.
	Duration time.Duration `koanf:"duration" json:"duration" yaml:"duration"`
}

// ChurnSection configures the add/remove churn scenario.
type ChurnSection struct {
	Elements  int `koanf:"elements" json:"elements" yaml:"elements"`
	Producers int `koanf:"producers" json:"producers" yaml:"producers"`

	// Rate limits Add and Del calls per second across all producers.
	// Zero means unlimited.
	Rate  float64 `koanf:"rate" json:"rate" yaml:"rate"`
	Burst int     `koanf:"burst" json:"burst" yaml:"burst"`

	// Rounds is the number of fill-and-drain rounds.
	Rounds int `koanf:"rounds" json:"rounds" yaml:"rounds"`

	// Timeout bounds how long one phase may wait for the worklist to
	// converge.
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout"`
}

// MapSection configures the sharded map benchmark.
type MapSection struct {
	Shards  int `koanf:"shards" json:"shards" yaml:"shards"`
	Keys    int `koanf:"keys" json:"keys" yaml:"keys"`
	Workers int `koanf:"workers" json:"workers" yaml:"workers"`

	// Hasher selects the shard hash: "maphash" or "murmur3".
	Hasher string `koanf:"hasher" json:"hasher" yaml:"hasher"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	Enabled bool   `koanf:"enabled" json:"enabled" yaml:"enabled"`
	Addr    string `koanf:"addr" json:"addr" yaml:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level     string `koanf:"level" json:"level" yaml:"level"`
	Format    string `koanf:"format" json:"format" yaml:"format"`
	AddSource bool   `koanf:"add_source" json:"add_source" yaml:"add_source"`
}
