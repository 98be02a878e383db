package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.uber.org/zap"

	"todos/internal/core/port"
	coretelemetry "todos/internal/core/telemetry"
	"todos/pkg/tracing"
)

type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	MetricsPort    string
	OTLPEndpoint   string
	// ExportTraces false keeps spans local; trace ids still reach the logs.
	ExportTraces bool
}

type Container struct {
	TracerProvider     *sdktrace.TracerProvider
	MeterProvider      *sdkmetric.MeterProvider
	PrometheusRegistry *prometheus.Registry
	MetricsServer      *http.Server
	AppMetrics         *tracing.AppMetrics
	Probe              port.Telemetry
}

// NewContainer installs the global tracer and meter providers and starts
// the Prometheus server on config.MetricsPort.
func NewContainer(ctx context.Context, config Config, logger *zap.Logger) (*Container, error) {
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(config.ServiceName),
		semconv.ServiceVersionKey.String(config.ServiceVersion),
		semconv.DeploymentEnvironmentKey.String(config.Environment),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := tracing.NewAppMetrics(registry)

	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(meterProvider)
	registry.MustRegister(newOTELCollector(reader, logger))

	tracerOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	if config.ExportTraces {
		otlpExporter, err := otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpoint(config.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, err
		}

		tracerOpts = append(tracerOpts, sdktrace.WithBatcher(otlpExporter,
			sdktrace.WithBatchTimeout(time.Second),
		))
	}

	tracerProvider := sdktrace.NewTracerProvider(tracerOpts...)
	otel.SetTracerProvider(tracerProvider)

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(time.Second)); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:         ":" + config.MetricsPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", zap.Error(err))
		}
	}()

	return &Container{
		TracerProvider:     tracerProvider,
		MeterProvider:      meterProvider,
		PrometheusRegistry: registry,
		MetricsServer:      server,
		AppMetrics:         appMetrics,
		Probe:              coretelemetry.NewOTELProbe(logger, appMetrics),
	}, nil
}

func (c *Container) Shutdown(ctx context.Context) error {
	if err := c.TracerProvider.Shutdown(ctx); err != nil {
		return err
	}

	if err := c.MeterProvider.Shutdown(ctx); err != nil {
		return err
	}

	return c.MetricsServer.Shutdown(ctx)
}
