package config

import (
	"fmt"

	"github.com/yndnr/multh-go/internal/infra/confloader"
)

// Load builds the configuration from the defaults, the file at path (may
// be empty), the environment and overrides, then verifies it. Override
// keys are dotted paths such as "pool.workers".
func Load(path string, overrides map[string]any) (*Config, error) {
	cfg := Default()

	l := confloader.NewLoader()
	if err := l.LoadFile(path); err != nil {
		return nil, err
	}
	if err := l.LoadEnv(); err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		if err := l.LoadMap(overrides); err != nil {
			return nil, err
		}
	}
	if err := l.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
