// Package serverapp wires configuration, observability, the database pool,
// and the GraphQL HTTP surface into one server lifecycle.
package serverapp

import (
	"database/sql"
	"fmt"
	"net/http"
	"sync"

	"eager-graphql/internal/config"
	"eager-graphql/internal/logging"
	"eager-graphql/internal/observability"
	"eager-graphql/internal/sqlutil"
)

// App owns runtime resources for the eager-graphql server lifecycle.
type App struct {
	cfg     *config.Config
	logger  *logging.Logger
	dialect sqlutil.Dialect

	loggerProvider *observability.LoggerProvider
	meterProvider  *observability.MeterProvider
	graphqlMetrics *observability.GraphQLMetrics
	tracerProvider *observability.TracerProvider

	db         *sql.DB
	dbStatsReg interface{ Unregister() error }

	handler    http.Handler
	serverAddr string
	srv        *http.Server

	cleanup cleanupStack

	stateMu      sync.Mutex
	initialized  bool
	started      bool
	serverErrors chan error

	shutdownOnce sync.Once
}

// New creates an App lifecycle wrapper.
func New(cfg *config.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	dialect, err := cfg.Database.Dialect()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database driver: %w", err)
	}

	return &App{
		cfg:     cfg,
		logger:  logger,
		dialect: dialect,
	}, nil
}

// AttachLoggerProvider registers an optional logger provider for shutdown cleanup.
func (a *App) AttachLoggerProvider(provider *observability.LoggerProvider) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.loggerProvider = provider
}

// Handler returns the fully wrapped HTTP handler. It is nil before Init.
func (a *App) Handler() http.Handler {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.handler
}
