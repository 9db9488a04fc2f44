// Package readiness holds the startup gate that waits for the database before
// the HTTP listener opens.
package readiness

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultAttempts = 5
	DefaultDelay    = 3 * time.Second
)

// State of a Gate. Ready and GaveUp are terminal.
type State int

const (
	Waiting State = iota
	Ready
	GaveUp
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Ready:
		return "ready"
	case GaveUp:
		return "gave_up"
	default:
		return "unknown"
	}
}

// ProbeFunc obtains and releases one dependency connection.
type ProbeFunc func(ctx context.Context) error

// Gate retries a probe a bounded number of times with a fixed delay. Running
// out of attempts is not fatal: Wait reports GaveUp and the caller carries on.
type Gate struct {
	probe    ProbeFunc
	attempts int
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	logger   *slog.Logger
}

type Option func(*Gate)

func WithAttempts(n int) Option {
	return func(g *Gate) {
		g.attempts = n
	}
}

func WithDelay(d time.Duration) Option {
	return func(g *Gate) {
		g.delay = d
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = l
	}
}

func New(probe ProbeFunc, opts ...Option) *Gate {
	g := &Gate{
		probe:    probe,
		attempts: DefaultAttempts,
		delay:    DefaultDelay,
		sleep:    sleepContext,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Wait runs the probe until it succeeds or the attempt budget is spent. Every
// failed attempt, including the last one, is followed by the delay.
// Cancelling ctx ends the wait early with GaveUp.
func (g *Gate) Wait(ctx context.Context) State {
	g.logger.Info("application starting, waiting for database", "attempts", g.attempts, "delay", g.delay)

	for left := g.attempts; left > 0; left-- {
		err := g.probe(ctx)
		if err == nil {
			g.logger.Info("database ready")
			return Ready
		}

		g.logger.Warn("database not ready yet, retrying",
			"retry_in", g.delay,
			"attempts_left", left,
			"error", err,
		)

		if err := g.sleep(ctx, g.delay); err != nil {
			g.logger.Warn("database wait aborted", "error", err)
			return GaveUp
		}
	}

	g.logger.Error("database still unreachable, serving anyway", "attempts", g.attempts)
	return GaveUp
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
