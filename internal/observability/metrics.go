package observability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "eager-graphql"

// GraphQLMetrics holds custom metrics for GraphQL operations
type GraphQLMetrics struct {
	requestDuration     metric.Float64Histogram
	requestCounter      metric.Int64Counter
	errorCounter        metric.Int64Counter
	activeRequests      metric.Int64UpDownCounter
	sqlStatements       metric.Int64Histogram
	connAcquireDuration metric.Float64Histogram
	batchParentCount    metric.Int64Histogram
	batchResultRows     metric.Int64Histogram
	batchQueriesSaved   metric.Int64Counter
}

// InitGraphQLMetrics initializes GraphQL-specific metrics
func InitGraphQLMetrics() (*GraphQLMetrics, error) {
	return newGraphQLMetrics(otel.Meter(meterName))
}

func newGraphQLMetrics(meter metric.Meter) (*GraphQLMetrics, error) {
	requestDuration, err := meter.Float64Histogram(
		"graphql.request.duration",
		metric.WithDescription("Duration of GraphQL requests in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request duration histogram: %w", err)
	}

	requestCounter, err := meter.Int64Counter(
		"graphql.requests.total",
		metric.WithDescription("Total number of GraphQL requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}

	errorCounter, err := meter.Int64Counter(
		"graphql.errors.total",
		metric.WithDescription("Total number of GraphQL errors"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"graphql.requests.active",
		metric.WithDescription("Number of active GraphQL requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active requests counter: %w", err)
	}

	sqlStatements, err := meter.Int64Histogram(
		"graphql.request.sql_statements",
		metric.WithDescription("Number of SQL statements issued per GraphQL request"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sql statements histogram: %w", err)
	}

	connAcquireDuration, err := meter.Float64Histogram(
		"graphql.db.conn_acquire.duration",
		metric.WithDescription("Time spent waiting for a pooled connection in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection acquire histogram: %w", err)
	}

	batchParentCount, err := meter.Int64Histogram(
		"graphql.batch.parent_count",
		metric.WithDescription("Number of parents covered by one eager association load"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch parent count histogram: %w", err)
	}

	batchResultRows, err := meter.Int64Histogram(
		"graphql.batch.result_rows",
		metric.WithDescription("Number of rows returned by one eager association load"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch result rows histogram: %w", err)
	}

	batchQueriesSaved, err := meter.Int64Counter(
		"graphql.batch.queries_saved",
		metric.WithDescription("Number of per-key queries avoided by batching"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch queries saved counter: %w", err)
	}

	return &GraphQLMetrics{
		requestDuration:     requestDuration,
		requestCounter:      requestCounter,
		errorCounter:        errorCounter,
		activeRequests:      activeRequests,
		sqlStatements:       sqlStatements,
		connAcquireDuration: connAcquireDuration,
		batchParentCount:    batchParentCount,
		batchResultRows:     batchResultRows,
		batchQueriesSaved:   batchQueriesSaved,
	}, nil
}

// RecordRequest records a GraphQL request with its duration and outcome
func (m *GraphQLMetrics) RecordRequest(ctx context.Context, duration time.Duration, hasErrors bool, operationType string) {
	attrs := []attribute.KeyValue{
		attribute.String("operation_type", operationType),
		attribute.Bool("has_errors", hasErrors),
	}

	m.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	m.requestCounter.Add(ctx, 1, metric.WithAttributes(attrs...))

	if hasErrors {
		m.errorCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation_type", operationType),
		))
	}
}

// RecordSQLStatements records how many statements one request issued.
func (m *GraphQLMetrics) RecordSQLStatements(ctx context.Context, count int64) {
	m.sqlStatements.Record(ctx, count)
}

// RecordConnAcquire records the wait for a request's borrowed connection.
func (m *GraphQLMetrics) RecordConnAcquire(ctx context.Context, duration time.Duration, ok bool) {
	m.connAcquireDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(
		attribute.Bool("success", ok),
	))
}

// ObserveBatch records one eager association load. Without batching every
// distinct key would have cost its own query.
func (m *GraphQLMetrics) ObserveBatch(ctx context.Context, field string, parents, keys, rows int) {
	attrs := metric.WithAttributes(attribute.String("association", field))
	m.batchParentCount.Record(ctx, int64(parents), attrs)
	m.batchResultRows.Record(ctx, int64(rows), attrs)
	if keys > 1 {
		m.batchQueriesSaved.Add(ctx, int64(keys-1), attrs)
	}
}

// IncrementActiveRequests increments the active requests counter
func (m *GraphQLMetrics) IncrementActiveRequests(ctx context.Context) {
	m.activeRequests.Add(ctx, 1)
}

// DecrementActiveRequests decrements the active requests counter
func (m *GraphQLMetrics) DecrementActiveRequests(ctx context.Context) {
	m.activeRequests.Add(ctx, -1)
}

// InitMetrics initializes all custom metrics and returns the GraphQLMetrics instance
func InitMetrics(logger *slog.Logger) (*GraphQLMetrics, error) {
	metrics, err := InitGraphQLMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GraphQL metrics: %w", err)
	}

	logger.Info("custom GraphQL metrics initialized")
	return metrics, nil
}

type graphQLMetricsContextKey struct{}

// ContextWithGraphQLMetrics stores GraphQL metrics in the provided context.
func ContextWithGraphQLMetrics(ctx context.Context, metrics *GraphQLMetrics) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, graphQLMetricsContextKey{}, metrics)
}

// GraphQLMetricsFromContext retrieves GraphQL metrics from the context.
func GraphQLMetricsFromContext(ctx context.Context) *GraphQLMetrics {
	if ctx == nil {
		return nil
	}
	metrics, _ := ctx.Value(graphQLMetricsContextKey{}).(*GraphQLMetrics)
	return metrics
}
