package tracing

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestAddSpanError(t *testing.T) {
	RegisterTestingT(t)

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	ctx, span := provider.Tracer(TracerName).Start(context.Background(), "op")
	Expect(GetTraceID(ctx)).To(HaveLen(32))

	AddSpanError(span, errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	Expect(ended).To(HaveLen(1))
	Expect(ended[0].Status().Code).To(Equal(codes.Error))
	Expect(ended[0].Status().Description).To(Equal("boom"))
	Expect(ended[0].Events()).To(HaveLen(1))
}

func TestGetTraceID_NoSpan(t *testing.T) {
	RegisterTestingT(t)

	Expect(GetTraceID(context.Background())).To(BeEmpty())
}

func TestCreateChildSpan_NoopProvider(t *testing.T) {
	RegisterTestingT(t)

	ctx, span := CreateChildSpan(context.Background(), "handler.todo.List", []attribute.KeyValue{
		attribute.String("handler.operation", "List"),
	})
	defer span.End()

	Expect(ctx).ToNot(BeNil())
}
