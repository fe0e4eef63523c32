package middleware

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"eager-graphql/internal/dbexec"
	"eager-graphql/internal/eager"
	"eager-graphql/internal/logging"
	"eager-graphql/internal/observability"
)

// DBConnMiddleware borrows one pooled connection for each GraphQL operation.
// Every resolver in the request runs its queries on that connection, and the
// connection goes back to the pool when the handler returns or panics.
// metrics may be nil.
func DBConnMiddleware(db *sql.DB, metrics *observability.GraphQLMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !carriesOperation(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			logger := logging.FromContext(ctx)

			start := time.Now()
			conn, err := dbexec.Acquire(ctx, db)
			if metrics != nil {
				metrics.RecordConnAcquire(ctx, time.Since(start), err == nil)
			}
			if err != nil {
				logger.Error("failed to acquire database connection", slog.String("error", err.Error()))
				writeUnavailable(w)
				return
			}

			counting := dbexec.NewCountingExecutor(conn)
			defer func() {
				statements := counting.Queries() + counting.Execs()
				if stats := requestStatsFromContext(ctx); stats != nil {
					stats.sqlStatements.Store(statements)
				}
				if metrics != nil {
					metrics.RecordSQLStatements(ctx, statements)
				}
				if err := conn.Release(); err != nil {
					logger.Warn("failed to release database connection", slog.String("error", err.Error()))
				}
			}()

			ctx = dbexec.WithExecutor(ctx, counting)
			if metrics != nil {
				ctx = eager.WithObserver(ctx, metrics)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// carriesOperation reports whether the request asks for GraphQL execution
// rather than the GraphiQL page.
func carriesOperation(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost:
		return true
	case http.MethodGet:
		return r.URL.Query().Get("query") != ""
	default:
		return false
	}
}

func writeUnavailable(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"errors": []map[string]any{{
			"message":    "database unavailable",
			"extensions": map[string]any{"code": "SERVICE_UNAVAILABLE"},
		}},
	})
}
