package cli

import (
	"context"
	"encoding/json"
	"errors"
	"idiomlint/internal/core/app"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthProbe reports the current state of the linter.
type HealthProbe interface {
	Health(ctx context.Context) app.Health
}

// ObservabilityServer serves Prometheus metrics on /metrics and the health
// report on /health while a long lint or watch session runs.
type ObservabilityServer struct {
	addr   string
	probe  HealthProbe
	server *http.Server
	ln     net.Listener
}

func NewObservabilityServer(addr string, probe HealthProbe) *ObservabilityServer {
	return &ObservabilityServer{addr: addr, probe: probe}
}

func (s *ObservabilityServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", s.serveHealth)
	return mux
}

func (s *ObservabilityServer) serveHealth(w http.ResponseWriter, r *http.Request) {
	h := s.probe.Health(r.Context())
	w.Header().Set("Content-Type", "application/json")
	if h.Status != app.StatusUp {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(h); err != nil {
		slog.Debug("failed to write health response", "error", err)
	}
}

// Start binds the address and serves in the background. Bind errors are
// returned; later serve errors are logged.
func (s *ObservabilityServer) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.server = &http.Server{
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("observability server listening", "addr", ln.Addr().String())

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("observability server failed", "error", err)
		}
	}()
	return nil
}

// Addr is the bound address, which differs from the configured one when
// port 0 was requested.
func (s *ObservabilityServer) Addr() string {
	if s.ln == nil {
		return s.addr
	}
	return s.ln.Addr().String()
}

func (s *ObservabilityServer) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
