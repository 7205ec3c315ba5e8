// Package orders содержит прикладные операции над заказами: создание, выборку и смену статуса.
package orders

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vladislavdragonenkov/orders-service/internal/domain"
	"github.com/vladislavdragonenkov/orders-service/internal/metrics"
)

const tracerName = "github.com/vladislavdragonenkov/orders-service/internal/service/orders"

// Options: общие зависимости сервисов заказов.
type Options struct {
	Logger  *log.Entry
	Metrics *metrics.OrderMetrics
	Tracer  trace.Tracer
	Now     func() time.Time
}

// Option настраивает сервисы пакета.
type Option func(*Options)

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(opts *Options) { opts.Logger = logger }
}

// WithMetrics подключает prometheus-метрики. Без опции метрики не пишутся.
func WithMetrics(m *metrics.OrderMetrics) Option {
	return func(opts *Options) { opts.Metrics = m }
}

// WithTracer задаёт tracer вместо глобального.
func WithTracer(tracer trace.Tracer) Option {
	return func(opts *Options) { opts.Tracer = tracer }
}

// WithClock подменяет источник времени (используется в тестах).
func WithClock(now func() time.Time) Option {
	return func(opts *Options) { opts.Now = now }
}

func buildOptions(component string, options []Option) Options {
	opts := Options{}
	for _, option := range options {
		option(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = log.New().WithField("component", component)
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

// storeError оставляет доменные ошибки хранилища как есть, остальные помечает ErrStoreFailure.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrOrderAlreadyExists),
		errors.Is(err, domain.ErrStoreFailure):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrStoreFailure, err))
	}
}
