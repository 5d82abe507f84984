package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Pool.Workers != DefaultPoolWorkers {
		t.Errorf("Pool.Workers = %d, want %d", cfg.Pool.Workers, DefaultPoolWorkers)
	}
	if cfg.Pool.Period != DefaultPoolPeriod {
		t.Errorf("Pool.Period = %v, want %v", cfg.Pool.Period, DefaultPoolPeriod)
	}
	if cfg.Churn.Elements != DefaultChurnElements {
		t.Errorf("Churn.Elements = %d, want %d", cfg.Churn.Elements, DefaultChurnElements)
	}
	if cfg.Map.Shards != DefaultMapShards {
		t.Errorf("Map.Shards = %d, want %d", cfg.Map.Shards, DefaultMapShards)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics should be disabled by default")
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}

	if err := Verify(cfg); err != nil {
		t.Errorf("Verify(Default()) = %v", err)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		fields []string
	}{
		{
			name:   "zero workers",
			mutate: func(c *Config) { c.Pool.Workers = 0 },
			fields: []string{"pool.workers"},
		},
		{
			name:   "non-positive period",
			mutate: func(c *Config) { c.Pool.Period = 0 },
			fields: []string{"pool.period"},
		},
		{
			name:   "rate without burst",
			mutate: func(c *Config) { c.Churn.Rate = 1000 },
			fields: []string{"churn.burst"},
		},
		{
			name:   "unknown hasher",
			mutate: func(c *Config) { c.Map.Hasher = "crc32" },
			fields: []string{"map.hasher"},
		},
		{
			name: "metrics address",
			mutate: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.Addr = "no-port"
			},
			fields: []string{"metrics.addr"},
		},
		{
			name: "several at once",
			mutate: func(c *Config) {
				c.Map.Shards = 0
				c.Log.Level = "loud"
				c.Log.Format = "xml"
			},
			fields: []string{"map.shards", "log.level", "log.format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Verify(cfg)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Verify() = %v, want ErrInvalid", err)
			}

			got := map[string]bool{}
			for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
				var fe *FieldError
				if errors.As(e, &fe) {
					got[fe.Field] = true
				}
			}
			if len(got) != len(tt.fields) {
				t.Errorf("invalid fields = %v, want %v", got, tt.fields)
			}
			for _, f := range tt.fields {
				if !got[f] {
					t.Errorf("field %s not reported in %v", f, err)
				}
			}
		})
	}
}

func TestLoad_Layers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multh.yaml")
	content := `
pool:
  workers: 5
  period: 20ms
churn:
  elements: 1000
  rate: 500
  burst: 50
map:
  hasher: murmur3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("MULTH_POOL__WORKERS", "6")

	cfg, err := Load(path, map[string]any{"churn.producers": 4})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Pool.Workers != 6 {
		t.Errorf("Pool.Workers = %d, want 6 (env over file)", cfg.Pool.Workers)
	}
	if cfg.Pool.Period != 20*time.Millisecond {
		t.Errorf("Pool.Period = %v, want 20ms", cfg.Pool.Period)
	}
	if cfg.Pool.Elements != DefaultPoolElements {
		t.Errorf("Pool.Elements = %d, want default %d", cfg.Pool.Elements, DefaultPoolElements)
	}
	if cfg.Churn.Producers != 4 {
		t.Errorf("Churn.Producers = %d, want 4 (override)", cfg.Churn.Producers)
	}
	if cfg.Churn.Rate != 500 || cfg.Churn.Burst != 50 {
		t.Errorf("Churn rate/burst = %v/%d, want 500/50", cfg.Churn.Rate, cfg.Churn.Burst)
	}
	if cfg.Map.Hasher != HasherMurmur3 {
		t.Errorf("Map.Hasher = %q, want murmur3", cfg.Map.Hasher)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Pool.Workers != DefaultPoolWorkers {
		t.Errorf("Pool.Workers = %d, want %d", cfg.Pool.Workers, DefaultPoolWorkers)
	}
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load("", map[string]any{"pool.workers": 0})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() = %v, want ErrInvalid", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/multh.yaml", nil); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}
