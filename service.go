package authcore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nexsuite/authcore/pkg/authflow"
	"github.com/nexsuite/authcore/pkg/httpserver"
	"github.com/nexsuite/authcore/pkg/monitor"
	"github.com/nexsuite/authcore/pkg/session"
)

// Service wires the auth subsystem together and owns its background
// tasks: the session expiry sweep, the monitor's event loop with alert
// evaluation and health recomputation, and the operational read API.
type Service struct {
	sessions *session.Manager
	resolver *authflow.Resolver
	monitor  *monitor.Monitor
	ops      *httpserver.Server
	logger   *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithOpsServer exposes the monitor read API on the given server.
func WithOpsServer(srv *httpserver.Server) Option {
	return func(s *Service) { s.ops = srv }
}

// New assembles a service from explicitly constructed dependencies.
// Nothing here reads global state; the caller builds the stores,
// manager, resolver and monitor and hands them in.
func New(sessions *session.Manager, resolver *authflow.Resolver, mon *monitor.Monitor, opts ...Option) *Service {
	s := &Service{
		sessions: sessions,
		resolver: resolver,
		monitor:  mon,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolver returns the authentication resolver for mounting its
// middleware.
func (s *Service) Resolver() *authflow.Resolver {
	return s.resolver
}

// Sessions returns the session manager for login and logout handlers.
func (s *Service) Sessions() *session.Manager {
	return s.sessions
}

// Monitor returns the monitor for custom instrumentation.
func (s *Service) Monitor() *monitor.Monitor {
	return s.monitor
}

// Run starts every background task and blocks until the context is
// cancelled or a task fails. Cancellation is a clean stop, not an
// error.
func (s *Service) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return ignoreCanceled(s.monitor.Run(ctx))
	})

	g.Go(func() error {
		return ignoreCanceled(s.sweepLoop(ctx))
	})

	if s.ops != nil {
		g.Go(func() error {
			return s.ops.Run(ctx, monitor.Handler(s.monitor))
		})
	}

	return g.Wait()
}

// sweepLoop periodically removes expired sessions and repairs any
// record/index drift left behind by interrupted deletes.
func (s *Service) sweepLoop(ctx context.Context) error {
	interval := s.sessions.Config().CleanupInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			count, err := s.sessions.CleanupExpired(ctx)
			s.monitor.RecordDuration("session.sweep", time.Since(start))
			if err != nil {
				s.logger.ErrorContext(ctx, "session sweep failed", slog.Any("error", err))
				continue
			}
			if count > 0 {
				s.logger.InfoContext(ctx, "session sweep", slog.Int("removed", count))
			}
		}
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
