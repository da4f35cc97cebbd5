package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"jobfit/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ObservabilityConfig holds the settings the manager needs at init time.
type ObservabilityConfig struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
	ConsoleOutput  bool
	PrettyPrint    bool
	SampleRate     float64
	Prometheus     PrometheusConfig
}

// Metrics holds every custom instrument the application records.
type Metrics struct {
	// AI operation instruments
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// Business instruments
	CompatibilityAnalyses metric.Int64Counter
	TrendAnalyses         metric.Int64Counter
	JobsRanked            metric.Int64Counter
	ProfilesExtracted     metric.Int64Counter
	ResumesTailored       metric.Int64Counter
	CompatibilityScores   metric.Float64Histogram
	TrendBatchSize        metric.Int64Histogram

	// Certificate instruments
	CertReloadCount metric.Int64Counter
	CertExpiryTime  metric.Float64Gauge
}

// ObservabilityManager owns the OpenTelemetry providers and their shutdown.
type ObservabilityManager struct {
	config           ObservabilityConfig
	fullConfig       *config.Config // nested settings like OTLP and custom metric toggles
	tracerProvider   *trace.TracerProvider
	meterProvider    *sdkmetric.MeterProvider
	metrics          *Metrics
	shutdownFuncs    []func(context.Context) error
	prometheusServer *http.ServeMux
}

// NewObservabilityManager wires tracing and metrics. A disabled config yields
// a manager whose middleware and tracers are no-ops.
func NewObservabilityManager(obsConfig ObservabilityConfig, fullConfig *config.Config) (*ObservabilityManager, error) {
	om := &ObservabilityManager{config: obsConfig, fullConfig: fullConfig}
	if !obsConfig.Enabled {
		return om, nil
	}

	if err := om.initTracing(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := om.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	return om, nil
}

// serviceResource identifies this process in exported telemetry.
func (om *ObservabilityManager) serviceResource() (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(om.config.ServiceName),
			semconv.ServiceVersion(om.config.ServiceVersion),
			attribute.String("service.instance.id", om.serviceInstanceID()),
		),
	)
}

func (om *ObservabilityManager) initTracing() error {
	var exporter trace.SpanExporter
	var err error

	switch {
	case om.config.ConsoleOutput:
		opts := []stdouttrace.Option{}
		if om.config.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		exporter, err = stdouttrace.New(opts...)
	case om.fullConfig != nil && om.fullConfig.Observability.OTLP.Enabled:
		exporter, err = om.createOTLPExporter()
	default:
		exporter = &noOpSpanExporter{}
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := om.serviceResource()
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(om.config.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	om.tracerProvider = tp
	om.shutdownFuncs = append(om.shutdownFuncs, tp.Shutdown)
	return nil
}

func (om *ObservabilityManager) initMetrics() error {
	readers, err := om.metricReaders()
	if err != nil {
		return err
	}

	res, err := om.serviceResource()
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}
	mp := sdkmetric.NewMeterProvider(opts...)

	otel.SetMeterProvider(mp)
	om.meterProvider = mp
	om.shutdownFuncs = append(om.shutdownFuncs, mp.Shutdown)

	return om.initInstruments()
}

// metricReaders collects one reader per configured export path: console for
// development, OTLP push for production, Prometheus pull for scraping.
func (om *ObservabilityManager) metricReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader

	if om.config.ConsoleOutput {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(om.collectionInterval())))
	}

	if om.fullConfig != nil && om.fullConfig.Observability.OTLP.Enabled {
		reader, err := om.createOTLPMetricsReader()
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics reader: %w", err)
		}
		readers = append(readers, reader)
	}

	if om.config.Prometheus.Enabled {
		reader, mux, err := SetupPrometheusExporter(om.config.Prometheus)
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		if reader != nil {
			readers = append(readers, reader)
			om.prometheusServer = mux
			if err := StartPrometheusServer(mux, om.config.Prometheus.Port); err != nil {
				return nil, fmt.Errorf("failed to start Prometheus server: %w", err)
			}
		}
	}

	// A manual reader keeps instrument creation valid when nothing exports.
	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}
	return readers, nil
}

// instrumentSet creates instruments on a meter, remembering the first error
// so callers can chain creations without checking each one.
type instrumentSet struct {
	meter metric.Meter
	err   error
}

func (s *instrumentSet) counter(name, desc string) metric.Int64Counter {
	if s.err != nil {
		return nil
	}
	c, err := s.meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		s.err = fmt.Errorf("failed to create %s: %w", name, err)
	}
	return c
}

func (s *instrumentSet) floatHistogram(name, desc, unit string) metric.Float64Histogram {
	if s.err != nil {
		return nil
	}
	opts := []metric.Float64HistogramOption{metric.WithDescription(desc)}
	if unit != "" {
		opts = append(opts, metric.WithUnit(unit))
	}
	h, err := s.meter.Float64Histogram(name, opts...)
	if err != nil {
		s.err = fmt.Errorf("failed to create %s: %w", name, err)
	}
	return h
}

func (s *instrumentSet) intHistogram(name, desc, unit string) metric.Int64Histogram {
	if s.err != nil {
		return nil
	}
	opts := []metric.Int64HistogramOption{metric.WithDescription(desc)}
	if unit != "" {
		opts = append(opts, metric.WithUnit(unit))
	}
	h, err := s.meter.Int64Histogram(name, opts...)
	if err != nil {
		s.err = fmt.Errorf("failed to create %s: %w", name, err)
	}
	return h
}

func (s *instrumentSet) floatGauge(name, desc, unit string) metric.Float64Gauge {
	if s.err != nil {
		return nil
	}
	g, err := s.meter.Float64Gauge(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		s.err = fmt.Errorf("failed to create %s: %w", name, err)
	}
	return g
}

func (om *ObservabilityManager) initInstruments() error {
	set := &instrumentSet{meter: om.meterProvider.Meter(om.config.ServiceName)}

	om.metrics = &Metrics{
		AIProcessingTime: set.floatHistogram("jobfit_ai_processing_duration_seconds",
			"Time spent processing AI requests", "s"),
		AIRequestCount: set.counter("jobfit_ai_requests_total",
			"Total number of AI requests"),
		AIErrorCount: set.counter("jobfit_ai_errors_total",
			"Total number of AI request errors"),
		AITokenUsage: set.intHistogram("jobfit_ai_token_usage_total",
			"Token usage for AI requests (input, output, total)", "tokens"),

		CompatibilityAnalyses: set.counter("jobfit_compatibility_analyses_total",
			"Total number of compatibility analyses performed"),
		TrendAnalyses: set.counter("jobfit_trend_analyses_total",
			"Total number of market trend analyses performed"),
		JobsRanked: set.counter("jobfit_jobs_ranked_total",
			"Total number of job postings ranked"),
		ProfilesExtracted: set.counter("jobfit_profiles_extracted_total",
			"Total number of candidate profiles extracted"),
		ResumesTailored: set.counter("jobfit_resumes_tailored_total",
			"Total number of resumes tailored"),
		CompatibilityScores: set.floatHistogram("jobfit_compatibility_score",
			"Distribution of overall compatibility scores", ""),
		TrendBatchSize: set.intHistogram("jobfit_trend_batch_size",
			"Number of job postings per market trend analysis", "jobs"),

		CertReloadCount: set.counter("jobfit_cert_reloads_total",
			"Total number of certificate reloads"),
		CertExpiryTime: set.floatGauge("jobfit_cert_expiry_seconds",
			"Seconds until certificate expiry", "s"),
	}

	return set.err
}

// GetMetrics never returns nil; a disabled manager yields inert instruments.
func (om *ObservabilityManager) GetMetrics() *Metrics {
	if om.metrics == nil {
		return &Metrics{}
	}
	return om.metrics
}

// HTTPMiddleware wraps handlers with otelhttp instrumentation.
func (om *ObservabilityManager) HTTPMiddleware() func(http.Handler) http.Handler {
	if !om.config.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}
	return otelhttp.NewMiddleware(
		om.config.ServiceName,
		otelhttp.WithTracerProvider(om.tracerProvider),
		otelhttp.WithMeterProvider(om.meterProvider),
	)
}

// Tracer returns a named tracer, or a no-op one when disabled.
func (om *ObservabilityManager) Tracer(name string) oteltrace.Tracer {
	if !om.config.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return otel.Tracer(name)
}

// Shutdown flushes and stops every provider that was started.
func (om *ObservabilityManager) Shutdown(ctx context.Context) error {
	for _, shutdown := range om.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// AIOperationResult carries the outcome of an AI call plus its token usage.
type AIOperationResult struct {
	Error      error
	TokenUsage *TokenUsage
}

// TokenUsage mirrors the usage metadata AI responses report.
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// TrackAIOperationWithTokens runs fn inside a span and records duration,
// request count, errors and token usage for the named operation.
func (m *Metrics) TrackAIOperationWithTokens(ctx context.Context, operation string, fn func(context.Context) *AIOperationResult, om *ObservabilityManager) error {
	if m.AIProcessingTime == nil {
		// Instruments were never created, run the operation bare.
		if result := fn(ctx); result != nil {
			return result.Error
		}
		return nil
	}

	tracer := otel.Tracer("jobfit.ai")
	ctx, span := tracer.Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	duration := time.Since(start).Seconds()

	var err error
	if result != nil {
		err = result.Error
	}

	if aiMetricsSettings(om).Enabled {
		m.recordAIMetrics(ctx, operation, err, duration, result, om, span)
	}
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}
	return err
}

// aiMetricsSettings returns the AI metric toggles, defaulting everything on
// when no config is loaded.
func aiMetricsSettings(om *ObservabilityManager) config.AIOperationsMetricsConfig {
	if om == nil || om.fullConfig == nil {
		return config.AIOperationsMetricsConfig{
			Enabled:         true,
			TrackDuration:   true,
			TrackTokenUsage: true,
		}
	}
	return om.fullConfig.Observability.CustomMetrics.AIOperations
}

func (m *Metrics) recordAIMetrics(ctx context.Context, operation string, err error, duration float64, result *AIOperationResult, om *ObservabilityManager, span oteltrace.Span) {
	settings := aiMetricsSettings(om)
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}

	if settings.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration, metric.WithAttributes(attrs...))
	}
	m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	m.recordTokenUsage(ctx, result, attrs, settings.TrackTokenUsage, span)

	span.SetAttributes(attrs...)
}

// recordTokenUsage emits one histogram sample per token class and annotates
// the span. Span attributes are always set so traces stay debuggable even
// when the metric is toggled off.
func (m *Metrics) recordTokenUsage(ctx context.Context, result *AIOperationResult, attrs []attribute.KeyValue, track bool, span oteltrace.Span) {
	if result == nil || result.TokenUsage == nil || m.AITokenUsage == nil {
		return
	}
	usage := result.TokenUsage

	if track {
		for tokenType, value := range map[string]int64{
			"input":  usage.InputTokens,
			"output": usage.OutputTokens,
			"total":  usage.TotalTokens,
		} {
			tokenAttrs := append(append([]attribute.KeyValue{}, attrs...),
				attribute.String("token_type", tokenType))
			m.AITokenUsage.Record(ctx, value, metric.WithAttributes(tokenAttrs...))
		}
	}

	span.SetAttributes(
		attribute.Int64("ai.tokens.input", usage.InputTokens),
		attribute.Int64("ai.tokens.output", usage.OutputTokens),
		attribute.Int64("ai.tokens.total", usage.TotalTokens),
	)
}

func businessMetricsSettings(om *ObservabilityManager) config.BusinessMetricsConfig {
	if om == nil || om.fullConfig == nil {
		return config.BusinessMetricsConfig{
			Enabled:                true,
			TrackScoreDistribution: true,
			TrackBatchSizes:        true,
		}
	}
	return om.fullConfig.Observability.CustomMetrics.BusinessMetrics
}

// RecordBusinessMetric increments the counter that corresponds to the given
// event type.
func (m *Metrics) RecordBusinessMetric(ctx context.Context, metricType string, success bool, om *ObservabilityManager, attributes ...attribute.KeyValue) {
	if !businessMetricsSettings(om).Enabled {
		return
	}

	counters := map[string]metric.Int64Counter{
		"compatibility_analyzed": m.CompatibilityAnalyses,
		"trends_analyzed":        m.TrendAnalyses,
		"jobs_ranked":            m.JobsRanked,
		"profile_extracted":      m.ProfilesExtracted,
		"resume_tailored":        m.ResumesTailored,
	}
	counter, ok := counters[metricType]
	if !ok || counter == nil {
		return
	}

	attrs := append([]attribute.KeyValue{attribute.Bool("success", success)}, attributes...)
	counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCompatibilityScore samples an overall score for distribution tracking.
func (m *Metrics) RecordCompatibilityScore(ctx context.Context, score float64, om *ObservabilityManager, attributes ...attribute.KeyValue) {
	if m.CompatibilityScores == nil {
		return
	}
	settings := businessMetricsSettings(om)
	if !settings.Enabled || !settings.TrackScoreDistribution {
		return
	}
	m.CompatibilityScores.Record(ctx, score, metric.WithAttributes(attributes...))
}

// RecordTrendBatchSize samples the posting count of a trend analysis batch.
func (m *Metrics) RecordTrendBatchSize(ctx context.Context, count int64, om *ObservabilityManager, attributes ...attribute.KeyValue) {
	if m.TrendBatchSize == nil {
		return
	}
	settings := businessMetricsSettings(om)
	if !settings.Enabled || !settings.TrackBatchSizes {
		return
	}
	m.TrendBatchSize.Record(ctx, count, metric.WithAttributes(attributes...))
}

// noOpSpanExporter discards spans when no exporter is configured.
type noOpSpanExporter struct{}

func (n *noOpSpanExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	return nil
}

func (n *noOpSpanExporter) Shutdown(ctx context.Context) error {
	return nil
}

func (om *ObservabilityManager) createOTLPExporter() (trace.SpanExporter, error) {
	if om.fullConfig == nil {
		return nil, fmt.Errorf("config not available for OTLP configuration")
	}
	otlpConfig := om.fullConfig.Observability.OTLP

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(otlpConfig.Endpoint)}
	if otlpConfig.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	return exporter, nil
}

func (om *ObservabilityManager) createOTLPMetricsReader() (sdkmetric.Reader, error) {
	if om.fullConfig == nil {
		return nil, fmt.Errorf("config not available for OTLP configuration")
	}
	otlpConfig := om.fullConfig.Observability.OTLP

	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpointURL(otlpConfig.Endpoint)}
	if otlpConfig.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(om.collectionInterval())), nil
}

func (om *ObservabilityManager) serviceInstanceID() string {
	if om.fullConfig != nil && om.fullConfig.Observability.ServiceInstance != "" {
		return om.fullConfig.Observability.ServiceInstance
	}
	return "jobfit-1"
}

func (om *ObservabilityManager) collectionInterval() time.Duration {
	if om.fullConfig != nil {
		return om.fullConfig.Observability.Metrics.CollectionInterval
	}
	return 15 * time.Second
}
