package middleware

import (
	"log/slog"
	"net/http"

	"eager-graphql/internal/dbexec"
	"eager-graphql/internal/logging"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "eager-graphql/graphql"

// GraphQLTracingMiddleware wraps GraphQL execution in a "graphql.execute" span
// and adds trace identifiers to the request logger. It must run inside
// DBConnMiddleware to report the statement count.
func GraphQLTracingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !carriesOperation(r) {
				next.ServeHTTP(w, r)
				return
			}
			operation := operationFromRequest(r)

			ctx, span := otel.Tracer(tracerName).Start(r.Context(), "graphql.execute")
			defer span.End()

			if spanCtx := span.SpanContext(); spanCtx.IsValid() {
				reqLogger := logging.FromContext(ctx).WithFields(
					slog.String("trace_id", spanCtx.TraceID().String()),
					slog.String("span_id", spanCtx.SpanID().String()),
				)
				ctx = logging.WithLogger(ctx, reqLogger)
			}

			if span.IsRecording() {
				span.SetAttributes(attribute.String("graphql.operation.type", operation.Type))
				if operation.Name != "" {
					span.SetAttributes(attribute.String("graphql.operation.name", operation.Name))
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))

			if !span.IsRecording() {
				return
			}
			if executor, ok := dbexec.ExecutorFromContext(ctx); ok {
				if counting, ok := executor.(*dbexec.CountingExecutor); ok {
					span.SetAttributes(attribute.Int64("graphql.execution.sql_statements", counting.Queries()+counting.Execs()))
				}
			}
		})
	}
}
