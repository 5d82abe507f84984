package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestNew(t *testing.T) {
	s := New("127.0.0.1:9464", http.HandlerFunc(ok), nil)
	if s == nil {
		t.Fatal("New returned nil")
	}
	if s.httpServer.ReadHeaderTimeout == 0 {
		t.Error("ReadHeaderTimeout should be set")
	}
	if s.Addr() != "127.0.0.1:9464" {
		t.Errorf("Addr() = %q before Start", s.Addr())
	}
}

func TestServer_StartShutdown(t *testing.T) {
	s := New("127.0.0.1:0", http.HandlerFunc(ok), discardLogger())
	if err := s.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if strings.HasSuffix(s.Addr(), ":0") {
		t.Fatalf("Addr() = %q, want the bound port", s.Addr())
	}

	resp, err := http.Get("http://" + s.Addr() + "/")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown error: %v", err)
	}
}

func TestServer_StartAddrInUse(t *testing.T) {
	first := New("127.0.0.1:0", http.HandlerFunc(ok), discardLogger())
	if err := first.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer first.Shutdown(context.Background())

	second := New(first.Addr(), http.HandlerFunc(ok), discardLogger())
	if err := second.Start(); err == nil {
		second.Shutdown(context.Background())
		t.Error("Start on a bound address should fail")
	}
}

func TestNewRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "router_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	cfg := DefaultRouterConfig()
	cfg.Logger = discardLogger()
	cfg.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	cfg.Health = func() map[string]any { return map[string]any{"cycle": 7} }
	router := NewRouter(cfg)

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		body, _ := io.ReadAll(rec.Body)
		if !strings.Contains(string(body), "router_test_total 1") {
			t.Errorf("metrics body = %q", body)
		}
	})

	t.Run("healthz", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

		var body map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["status"] != "ok" || body["cycle"] != float64(7) {
			t.Errorf("healthz = %v", body)
		}
	})

	t.Run("unknown path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/sessions", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/metrics", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})
}
