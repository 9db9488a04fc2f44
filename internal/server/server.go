package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/openmined/statusapi/internal/readiness"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	config *Config
	svc    *Services
	server *http.Server
}

func New(config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	svc, err := NewServices(config)
	if err != nil {
		return nil, err
	}

	httpHandler, err := SetupRoutes(config, svc)
	if err != nil {
		return nil, err
	}

	return &Server{
		config: config,
		svc:    svc,
		server: &http.Server{
			Addr:              config.HTTP.Addr,
			Handler:           httpHandler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Start blocks until ctx is cancelled or the listener fails. The readiness
// gate runs first; giving up on the database does not prevent serving.
func (s *Server) Start(ctx context.Context) error {
	slog.Info("statusapi start", "config", s.config)
	defer slog.Info("statusapi stop")

	state, err := s.svc.Start(ctx, s.config.Startup.AutoMigrate)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		slog.Info("shutdown requested before serving")
		return nil
	}
	if state == readiness.GaveUp {
		slog.Warn("serving without a reachable database, data endpoints will fail until it is up")
	}

	listener, err := net.Listen("tcp", s.config.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.HTTP.Addr, err)
	}
	slog.Info("server start http", "addr", listener.Addr().String())

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		slog.Info("http server stopped")
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		slog.Info("application is shutting down gracefully")
		return s.Stop()
	})

	return eg.Wait()
}

// Stop drains in-flight requests, bounded by the configured shutdown timeout.
func (s *Server) Stop() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.HTTP.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
