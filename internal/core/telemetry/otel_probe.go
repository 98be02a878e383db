package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"todos/internal/core/port"
	"todos/pkg/tracing"
)

// OTELProbe implements Telemetry using OpenTelemetry spans and the
// Prometheus application metrics.
type OTELProbe struct {
	logger  *zap.Logger
	metrics *tracing.AppMetrics
}

// NewOTELProbe builds a probe. metrics may be nil.
func NewOTELProbe(logger *zap.Logger, metrics *tracing.AppMetrics) port.Telemetry {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OTELProbe{
		logger:  logger,
		metrics: metrics,
	}
}

// OTelSpan wraps an OpenTelemetry span to implement port.Span
type OTelSpan struct {
	span trace.Span
}

func (s *OTelSpan) End() {
	s.span.End()
}

func (s *OTelSpan) SetAttributes(attrs map[string]interface{}) {
	s.span.SetAttributes(toAttributes(attrs)...)
}

func (s *OTelSpan) SetStatus(code string, message string) {
	var statusCode codes.Code

	switch code {
	case "ok":
		statusCode = codes.Ok
	case "error":
		statusCode = codes.Error
	default:
		statusCode = codes.Unset
	}

	s.span.SetStatus(statusCode, message)
}

func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

func (p *OTELProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, port.Span) {
	spanName := fmt.Sprintf("repository.%s.%s", entity, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("repository.entity", entity),
		attribute.String("repository.operation", operation),
		attribute.String("component", "repository"),
	}
	standardAttrs = append(standardAttrs, toAttributes(attrs)...)

	ctx, span := otel.Tracer(tracing.TracerName).Start(ctx, spanName, trace.WithAttributes(standardAttrs...))
	return ctx, &OTelSpan{span: span}
}

func (p *OTELProbe) StartServiceSpan(ctx context.Context, service string, operation string, attrs map[string]interface{}) (context.Context, port.Span) {
	spanName := fmt.Sprintf("service.%s.%s", service, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("service.name", service),
		attribute.String("service.operation", operation),
		attribute.String("component", "service"),
	}
	standardAttrs = append(standardAttrs, toAttributes(attrs)...)

	ctx, span := otel.Tracer(tracing.TracerName).Start(ctx, spanName, trace.WithAttributes(standardAttrs...))
	return ctx, &OTelSpan{span: span}
}

func (p *OTELProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
	span := trace.SpanFromContext(ctx)

	span.SetAttributes(
		attribute.String("operation", operation),
		attribute.String("entity", entity),
		attribute.Int64("duration_ns", duration.Nanoseconds()),
		attribute.Bool("has_error", err != nil),
	)

	if p.metrics != nil {
		p.metrics.RecordDatabaseOperation(ctx, operation, entity+"s")
	}

	if err != nil {
		tracing.AddSpanError(span, err)

		p.logger.Error("Repository operation failed",
			zap.String("operation", operation),
			zap.String("entity", entity),
			zap.Duration("duration", duration),
			zap.Error(err))

		return
	}

	span.SetStatus(codes.Ok, "")
}

func (p *OTELProbe) RecordRepositoryQuery(ctx context.Context, operation string, entity string, query string, args []interface{}) {
	// only argument types are logged, values may carry user content
	argTypes := make([]string, len(args))
	for i := range args {
		argTypes[i] = fmt.Sprintf("%T", args[i])
	}

	p.logger.Debug("Executing repository query",
		zap.String("operation", operation),
		zap.String("entity", entity),
		zap.String("query", query),
		zap.Strings("args_types", argTypes))
}

func (p *OTELProbe) RecordServiceOperation(ctx context.Context, service string, operation string, duration time.Duration, err error) {
	span := trace.SpanFromContext(ctx)

	span.SetAttributes(
		attribute.String("service", service),
		attribute.String("operation", operation),
		attribute.Int64("duration_ns", duration.Nanoseconds()),
		attribute.Bool("has_error", err != nil),
	)

	if p.metrics != nil {
		p.metrics.RecordTodoOperation(ctx, operation)
	}

	if err != nil {
		tracing.AddSpanError(span, err)

		p.logger.Error("Service operation failed",
			zap.String("service", service),
			zap.String("operation", operation),
			zap.Duration("duration", duration),
			zap.Error(err))

		return
	}

	span.SetStatus(codes.Ok, "")
}

func toAttributes(attrs map[string]interface{}) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))

	for key, value := range attrs {
		switch v := value.(type) {
		case string:
			out = append(out, attribute.String(key, v))
		case int:
			out = append(out, attribute.Int(key, v))
		case int64:
			out = append(out, attribute.Int64(key, v))
		case float64:
			out = append(out, attribute.Float64(key, v))
		case bool:
			out = append(out, attribute.Bool(key, v))
		default:
			out = append(out, attribute.String(key, fmt.Sprintf("%v", v)))
		}
	}

	return out
}
