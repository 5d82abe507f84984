package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Server is an HTTP server that can be started on an ephemeral port.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	addr       string
}

// New creates a server for handler on addr.
func New(addr string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
		addr:   addr,
	}
}

// Start binds the listen address and serves in a goroutine. It returns
// once the socket is bound, so Addr is valid afterwards.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.addr = ln.Addr().String()

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "addr", s.addr, "error", err)
		}
	}()
	s.logger.Info("http server listening", "addr", s.addr)
	return nil
}

// Addr returns the bound address after Start, or the configured one.
func (s *Server) Addr() string {
	return s.addr
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
