// Package tracing настраивает OpenTelemetry с экспортом в Jaeger.
package tracing

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ShutdownFunc сбрасывает накопленные span-ы и освобождает exporter.
type ShutdownFunc func(ctx context.Context) error

// InitTracerProvider регистрирует глобальный TracerProvider с Jaeger exporter.
// Пустой endpoint оставляет no-op provider и возвращает пустой ShutdownFunc.
func InitTracerProvider(serviceName, serviceVersion, jaegerEndpoint string, logger *log.Entry) (ShutdownFunc, error) {
	if logger == nil {
		logger = log.New().WithField("component", "tracing")
	}
	if jaegerEndpoint == "" {
		logger.Debug("tracing disabled: jaeger endpoint is not configured")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))
	if err != nil {
		return nil, fmt.Errorf("create jaeger exporter: %w", err)
	}

	tp := NewTracerProvider(serviceName, serviceVersion, sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.WithFields(log.Fields{
		"service":  serviceName,
		"endpoint": jaegerEndpoint,
	}).Info("tracing initialized")

	return tp.Shutdown, nil
}

// NewTracerProvider создаёт provider с ресурсом сервиса и AlwaysSample.
func NewTracerProvider(serviceName, serviceVersion string, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	base := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
		)),
	}
	return sdktrace.NewTracerProvider(append(base, opts...)...)
}
