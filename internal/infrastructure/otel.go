package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sania-2000/sma-artifact-removal/internal/config"
)

const (
	ServiceVersion = "1.0.0"
	MeterName      = "sma-artifact-removal"
)

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// InitializeOTel sets up tracing and metrics according to cfg.
// With both exporters set to "none" the returned providers carry no-op instruments.
func InitializeOTel(cfg config.TelemetryConfig, logger *slog.Logger) (*OTelProviders, error) {
	ctx := context.Background()

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(ServiceVersion),
		attribute.String("service.instance.id", generateInstanceID()),
	)

	providers := &OTelProviders{
		Logger: logger,
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:  noop.NewMeterProvider().Meter(MeterName),
	}

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		providers.TracerProvider = tp
		providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(ServiceVersion))
		otel.SetTracerProvider(tp)
	case "none", "":
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	switch cfg.MetricExporter {
	case "prometheus":
		exporter, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		providers.PrometheusHTTP = promhttp.Handler()
		providers.MeterProvider = mp
		providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(ServiceVersion))
		otel.SetMeterProvider(mp)
	case "none", "":
	default:
		return nil, fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.InfoContext(ctx, "OpenTelemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metric_exporter", cfg.MetricExporter))

	return providers, nil
}

// Shutdown flushes and stops the providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}
	return nil
}

// PipelineMetrics holds the instruments recorded by the pipeline and the results server
type PipelineMetrics struct {
	ChunksProcessed  metric.Int64Counter
	StageDuration    metric.Float64Histogram
	ArtifactsMasked  metric.Int64Counter
	SpikesDetected   metric.Int64Counter
	ChannelsSkipped  metric.Int64Counter
	SNRAccepted      metric.Int64Counter
	HTTPRequests     metric.Int64Counter
	HTTPRequestTimes metric.Float64Histogram
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	m := &PipelineMetrics{}
	var err error

	if m.ChunksProcessed, err = meter.Int64Counter(
		"pipeline_chunks_processed_total",
		metric.WithDescription("Chunks processed per stage and outcome"),
	); err != nil {
		return nil, err
	}
	if m.StageDuration, err = meter.Float64Histogram(
		"pipeline_stage_duration_seconds",
		metric.WithDescription("Time spent processing one chunk in one stage"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.ArtifactsMasked, err = meter.Int64Counter(
		"pipeline_artifact_samples_masked_total",
		metric.WithDescription("Sample rows replaced by interpolation in the cleaning stage"),
	); err != nil {
		return nil, err
	}
	if m.SpikesDetected, err = meter.Int64Counter(
		"pipeline_spikes_detected_total",
		metric.WithDescription("Spike samples detected across all channels"),
	); err != nil {
		return nil, err
	}
	if m.ChannelsSkipped, err = meter.Int64Counter(
		"pipeline_channels_skipped_total",
		metric.WithDescription("Channels rejected by the SNR stage"),
	); err != nil {
		return nil, err
	}
	if m.SNRAccepted, err = meter.Int64Counter(
		"pipeline_snr_accepted_total",
		metric.WithDescription("Channels with an accepted SNR value"),
	); err != nil {
		return nil, err
	}
	if m.HTTPRequests, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.HTTPRequestTimes, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordChunk records the outcome and duration of one stage on one chunk
func (m *PipelineMetrics) RecordChunk(ctx context.Context, stage string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	)
	m.ChunksProcessed.Add(ctx, 1, attrs)
	m.StageDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordArtifacts records masked sample rows
func (m *PipelineMetrics) RecordArtifacts(ctx context.Context, rows int) {
	if m == nil || rows == 0 {
		return
	}
	m.ArtifactsMasked.Add(ctx, int64(rows))
}

// RecordSpikes records detected spike samples
func (m *PipelineMetrics) RecordSpikes(ctx context.Context, policy string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.SpikesDetected.Add(ctx, int64(count), metric.WithAttributes(attribute.String("policy", policy)))
}

// RecordSNR records accepted and skipped channel counts for one chunk
func (m *PipelineMetrics) RecordSNR(ctx context.Context, accepted int, skippedByReason map[string]int) {
	if m == nil {
		return
	}
	if accepted > 0 {
		m.SNRAccepted.Add(ctx, int64(accepted))
	}
	for reason, n := range skippedByReason {
		m.ChannelsSkipped.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
	}
}

// RecordHTTP records one served request
func (m *PipelineMetrics) RecordHTTP(ctx context.Context, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.HTTPRequests.Add(ctx, 1, attrs)
	m.HTTPRequestTimes.Record(ctx, duration.Seconds(), attrs)
}

// StartStageSpan opens a span for one stage on one chunk
func StartStageSpan(ctx context.Context, tracer trace.Tracer, stage, chunk string) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = otel.Tracer(MeterName)
	}
	return tracer.Start(ctx, "stage."+stage, trace.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("chunk", chunk),
	))
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}
