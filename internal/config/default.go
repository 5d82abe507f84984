package config

import "time"

// Default configuration values.
const (
	DefaultPoolWorkers  = 3
	DefaultPoolPeriod   = 10 * time.Millisecond
	DefaultPoolElements = 100

	DefaultChurnElements  = 100_000
	DefaultChurnProducers = 16
	DefaultChurnRounds    = 1
	DefaultChurnTimeout   = 30 * time.Second

	DefaultMapShards  = 8
	DefaultMapKeys    = 10_000
	DefaultMapWorkers = 8
	DefaultMapHasher  = HasherMaphash

	DefaultMetricsAddr = "127.0.0.1:9464"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Shard hashers accepted by MapSection.Hasher.
const (
	HasherMaphash = "maphash"
	HasherMurmur3 = "murmur3"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Pool: PoolSection{
			Workers:  DefaultPoolWorkers,
			Period:   DefaultPoolPeriod,
			Elements: DefaultPoolElements,
		},
		Churn: ChurnSection{
			Elements:  DefaultChurnElements,
			Producers: DefaultChurnProducers,
			Rounds:    DefaultChurnRounds,
			Timeout:   DefaultChurnTimeout,
		},
		Map: MapSection{
			Shards:  DefaultMapShards,
			Keys:    DefaultMapKeys,
			Workers: DefaultMapWorkers,
			Hasher:  DefaultMapHasher,
		},
		Metrics: MetricsSection{
			Addr: DefaultMetricsAddr,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
