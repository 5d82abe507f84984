package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	// Metrics serves /metrics. Required.
	Metrics http.Handler

	// Health reports the state of the running scenario on /healthz. A nil
	// Health always reports ok.
	Health func() map[string]any

	// Logger for access and panic logging.
	Logger *slog.Logger

	// RateLimit caps requests per second. Zero disables limiting.
	RateLimit float64
	Burst     int
}

// DefaultRouterConfig returns a config with rate limiting suited to a
// handful of scrapers.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		Logger:    slog.Default(),
		RateLimit: 20,
		Burst:     20,
	}
}

// NewRouter creates the handler with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", cfg.Metrics)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		body := map[string]any{"status": "ok"}
		if cfg.Health != nil {
			for k, v := range cfg.Health() {
				body[k] = v
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	})

	middlewares := []Middleware{RequestID(), Access(logger), Recover(logger)}
	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimit, cfg.Burst))
	}
	return Chain(mux, middlewares...)
}
