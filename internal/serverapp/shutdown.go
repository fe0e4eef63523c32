package serverapp

import (
	"context"
	"log/slog"

	"eager-graphql/internal/logging"
)

// releaseFunc gives back one resource acquired during Init.
type releaseFunc func(context.Context) error

type resource struct {
	name    string
	release releaseFunc
}

// cleanupStack releases resources in the reverse of the order Init acquired
// them, so the HTTP server stops before the pool closes and the pool closes
// before the telemetry providers flush.
type cleanupStack struct {
	resources []resource
}

func (s *cleanupStack) push(name string, release releaseFunc) {
	s.resources = append(s.resources, resource{name: name, release: release})
}

// run releases every resource, logging failures and carrying on.
func (s *cleanupStack) run(ctx context.Context, logger *logging.Logger) {
	for i := len(s.resources) - 1; i >= 0; i-- {
		r := s.resources[i]
		logger.Info("releasing resource", slog.String("resource", r.name))
		if err := r.release(ctx); err != nil {
			logger.Warn("failed to release resource",
				slog.String("resource", r.name),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Shutdown stops the GraphQL server and releases the database pool and
// telemetry providers. Only the first call does any work.
func (a *App) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a.shutdownOnce.Do(func() {
		a.stateMu.Lock()
		cleanup := a.cleanup
		a.started = false
		a.stateMu.Unlock()

		cleanup.run(ctx, a.logger)
	})
	return nil
}
