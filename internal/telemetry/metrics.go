package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics. A nil *Metrics is valid and records
// nothing, so tests and tools can skip telemetry entirely.
type Metrics struct {
	RequestCounter      metric.Int64Counter
	RequestDuration     metric.Float64Histogram
	DatabaseOperations  metric.Int64Counter
	BlobOperations      metric.Int64Counter
	BlobBytes           metric.Int64Counter
	CircuitBreakerState metric.Int64Counter
	AuditEventsLogged   metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("speshway-platform")

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	databaseOperations, err := meter.Int64Counter(
		"database.operations.total",
		metric.WithDescription("Total database operations"),
	)
	if err != nil {
		return nil, err
	}

	blobOperations, err := meter.Int64Counter(
		"blob.operations.total",
		metric.WithDescription("Total blob store uploads and deletes"),
	)
	if err != nil {
		return nil, err
	}

	blobBytes, err := meter.Int64Counter(
		"blob.upload.bytes",
		metric.WithDescription("Bytes uploaded to the blob store"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	circuitBreakerState, err := meter.Int64Counter(
		"circuit_breaker.state_changes",
		metric.WithDescription("Circuit breaker state changes"),
	)
	if err != nil {
		return nil, err
	}

	auditEventsLogged, err := meter.Int64Counter(
		"audit.events.logged",
		metric.WithDescription("Total audit events logged"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:      requestCounter,
		RequestDuration:     requestDuration,
		DatabaseOperations:  databaseOperations,
		BlobOperations:      blobOperations,
		BlobBytes:           blobBytes,
		CircuitBreakerState: circuitBreakerState,
		AuditEventsLogged:   auditEventsLogged,
	}, nil
}

// RecordRequest records HTTP request metrics
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("http.status", status),
	}

	m.RequestCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.RequestDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordDatabaseOperation records database operation metrics
func (m *Metrics) RecordDatabaseOperation(operation, collection string, success bool) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("db.operation", operation),
		attribute.String("db.collection", collection),
		attribute.Bool("db.success", success),
	}

	m.DatabaseOperations.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordBlobOperation records an upload or delete against the image host.
// size is ignored for deletes.
func (m *Metrics) RecordBlobOperation(operation, driver string, size int64, success bool) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("blob.operation", operation),
		attribute.String("blob.driver", driver),
		attribute.Bool("blob.success", success),
	}

	m.BlobOperations.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	if operation == "upload" && success {
		m.BlobBytes.Add(context.Background(), size, metric.WithAttributes(attribute.String("blob.driver", driver)))
	}
}

// RecordCircuitBreakerState records circuit breaker state changes
func (m *Metrics) RecordCircuitBreakerState(service, state string) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("service", service),
		attribute.String("state", state),
	}

	m.CircuitBreakerState.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordAuditEvent records audit event logging
func (m *Metrics) RecordAuditEvent(action, resource string) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("audit.action", action),
		attribute.String("audit.resource", resource),
	}

	m.AuditEventsLogged.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}
