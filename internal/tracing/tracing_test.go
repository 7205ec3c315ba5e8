package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func TestInitTracerProviderDisabled(t *testing.T) {
	shutdown, err := InitTracerProvider("orders-service", "dev", "", nil)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestNewTracerProviderRecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := NewTracerProvider("orders-service", "1.2.3", sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "orders.Create")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, "orders.Create", ended[0].Name())

	var service string
	for _, attr := range ended[0].Resource().Attributes() {
		if attr.Key == semconv.ServiceNameKey {
			service = attr.Value.AsString()
		}
	}
	require.Equal(t, "orders-service", service)
}
