package telemetry

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for the service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	// Business metrics
	ResourceOperationsTotal  metric.Int64Counter
	AppointmentWorkflowTotal metric.Int64Counter
	ReportGenerationMs       metric.Float64Histogram
	AssistantRequestsTotal   metric.Int64Counter

	// Auth metrics
	AuthFailuresTotal       metric.Int64Counter
	PermissionCheckDuration metric.Float64Histogram
}

// InitMetrics initializes all custom metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/clinicore/patient-management-service")

	httpRequestsTotal, err := meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	httpDurationMs, err := meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	resourceOperationsTotal, err := meter.Int64Counter(
		"fhir_resource_operations_total",
		metric.WithDescription("Total number of FHIR resource operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	appointmentWorkflowTotal, err := meter.Int64Counter(
		"appointment_workflow_total",
		metric.WithDescription("Total number of appointment workflow transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	reportGenerationMs, err := meter.Float64Histogram(
		"report_generation_duration_ms",
		metric.WithDescription("Report generation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	assistantRequestsTotal, err := meter.Int64Counter(
		"assistant_requests_total",
		metric.WithDescription("Total number of AI assistant requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	authFailuresTotal, err := meter.Int64Counter(
		"auth_failures_total",
		metric.WithDescription("Total number of authentication failures"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	permissionCheckDuration, err := meter.Float64Histogram(
		"permission_check_duration_ms",
		metric.WithDescription("Permission check duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	log.Println("✓ Custom metrics initialized")

	return &Metrics{
		HTTPRequestsTotal:        httpRequestsTotal,
		HTTPDurationMs:           httpDurationMs,
		ResourceOperationsTotal:  resourceOperationsTotal,
		AppointmentWorkflowTotal: appointmentWorkflowTotal,
		ReportGenerationMs:       reportGenerationMs,
		AssistantRequestsTotal:   assistantRequestsTotal,
		AuthFailuresTotal:        authFailuresTotal,
		PermissionCheckDuration:  permissionCheckDuration,
	}, nil
}

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPDurationMs.Record(ctx, durationMs, metric.WithAttributes(attrs...))
}

// RecordResourceOperation records a FHIR resource operation metric
func (m *Metrics) RecordResourceOperation(ctx context.Context, resource, operation string) {
	m.ResourceOperationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("resource", resource),
		attribute.String("operation", operation),
	))
}

// RecordAppointmentTransition records an appointment workflow transition metric
func (m *Metrics) RecordAppointmentTransition(ctx context.Context, from, to string) {
	m.AppointmentWorkflowTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from_status", from),
		attribute.String("to_status", to),
	))
}

// RecordReportGeneration records a report generation duration metric
func (m *Metrics) RecordReportGeneration(ctx context.Context, reportType, format string, durationMs float64) {
	m.ReportGenerationMs.Record(ctx, durationMs, metric.WithAttributes(
		attribute.String("report_type", reportType),
		attribute.String("format", format),
	))
}

// RecordAssistantRequest records an AI assistant request metric
func (m *Metrics) RecordAssistantRequest(ctx context.Context, cacheHit bool, fallback bool) {
	m.AssistantRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("cache_hit", cacheHit),
		attribute.Bool("fallback", fallback),
	))
}

// RecordAuthFailure records an authentication failure metric
func (m *Metrics) RecordAuthFailure(ctx context.Context, reason string) {
	m.AuthFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordPermissionCheck records a permission check duration metric
func (m *Metrics) RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool) {
	m.PermissionCheckDuration.Record(ctx, durationMs, metric.WithAttributes(
		attribute.String("permission", permission),
		attribute.Bool("allowed", allowed),
	))
}
