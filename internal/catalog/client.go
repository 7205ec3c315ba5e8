// Package catalog реализует клиента внешнего каталога товаров и его локальные заменители.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	catalogv1 "github.com/vladislavdragonenkov/orders-service/api/catalog/v1"
	"github.com/vladislavdragonenkov/orders-service/internal/domain"
)

const (
	defaultCallTimeout     = 2 * time.Second
	defaultBreakerFailures = 5
	defaultBreakerReset    = 10 * time.Second

	tracerName = "github.com/vladislavdragonenkov/orders-service/internal/catalog"
)

// CallObserver получает длительность и результат каждого обращения к каталогу.
type CallObserver interface {
	ObserveCatalogCall(result string, duration time.Duration)
}

// Options задаёт параметры gRPC-клиента каталога.
type Options struct {
	Logger   *log.Entry
	Timeout  time.Duration
	Retry    RetryConfig
	Breaker  *CircuitBreaker
	Observer CallObserver
	Tracer   trace.Tracer
}

// Option настраивает GRPCClient.
type Option func(*Options)

// WithLogger задаёт logger клиента.
func WithLogger(logger *log.Entry) Option {
	return func(opts *Options) { opts.Logger = logger }
}

// WithTimeout задаёт таймаут одной попытки вызова.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) { opts.Timeout = timeout }
}

// WithRetry задаёт политику повторов.
func WithRetry(cfg RetryConfig) Option {
	return func(opts *Options) { opts.Retry = cfg }
}

// WithCircuitBreaker задаёт внешний circuit breaker.
func WithCircuitBreaker(breaker *CircuitBreaker) Option {
	return func(opts *Options) { opts.Breaker = breaker }
}

// WithObserver подключает сбор метрик вызовов.
func WithObserver(observer CallObserver) Option {
	return func(opts *Options) { opts.Observer = observer }
}

// WithTracer задаёт tracer вместо глобального.
func WithTracer(tracer trace.Tracer) Option {
	return func(opts *Options) { opts.Tracer = tracer }
}

// GRPCClient реализует domain.CatalogClient поверх catalog.v1.ProductService.
type GRPCClient struct {
	client   catalogv1.ProductServiceClient
	logger   *log.Entry
	timeout  time.Duration
	retry    RetryConfig
	breaker  *CircuitBreaker
	observer CallObserver
	tracer   trace.Tracer
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewGRPCClient создаёт клиента каталога поверх готового соединения.
func NewGRPCClient(conn grpc.ClientConnInterface, options ...Option) *GRPCClient {
	opts := Options{
		Timeout: defaultCallTimeout,
		Retry:   DefaultRetryConfig(),
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New().WithField("component", "catalog-client")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultCallTimeout
	}
	if opts.Breaker == nil {
		opts.Breaker = NewCircuitBreaker(defaultBreakerFailures, defaultBreakerReset, logger)
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}

	return &GRPCClient{
		client:   catalogv1.NewProductServiceClient(conn),
		logger:   logger,
		timeout:  opts.Timeout,
		retry:    opts.Retry.normalized(),
		breaker:  opts.Breaker,
		observer: opts.Observer,
		tracer:   opts.Tracer,
		sleep:    sleepContext,
	}
}

// Dial открывает соединение с каталогом с клиентскими prometheus-интерцепторами.
func Dial(addr string, extra ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(grpc_prometheus.UnaryClientInterceptor),
	}, extra...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial catalog %s: %w", addr, err)
	}
	return conn, nil
}

// CircuitState возвращает состояние circuit breaker (для health-проверок).
func (c *GRPCClient) CircuitState() CircuitState {
	return c.breaker.State()
}

// Resolve запрашивает у каталога уникальные идентификаторы и возвращает найденные товары.
// Любой отказ транспорта возвращается вместе с domain.ErrCatalogUnavailable.
func (c *GRPCClient) Resolve(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	ids := uniqueSorted(productIDs)
	if len(ids) == 0 {
		return map[string]domain.Product{}, nil
	}

	ctx, span := c.tracer.Start(ctx, "catalog.ValidateProducts",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("catalog.requested_ids", len(ids))),
	)
	defer span.End()

	started := time.Now()
	resp, attempts, err := c.callWithRetry(ctx, ids)
	span.SetAttributes(attribute.Int("catalog.attempts", attempts))
	if err != nil {
		c.observe("error", started)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "catalog call failed")
		c.logger.WithError(err).WithFields(log.Fields{
			"ids":      len(ids),
			"attempts": attempts,
		}).Warn("catalog call failed")
		return nil, errors.Join(domain.ErrCatalogUnavailable, err)
	}

	requested := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		requested[id] = struct{}{}
	}

	result := make(map[string]domain.Product, len(resp.Products))
	for _, p := range resp.Products {
		// Записи, которые мы не запрашивали, игнорируются.
		if _, ok := requested[p.ID]; !ok {
			continue
		}
		result[p.ID] = domain.Product{ID: p.ID, Name: p.Name, Price: p.Price}
	}

	c.observe("ok", started)
	span.SetAttributes(attribute.Int("catalog.resolved_ids", len(result)))
	return result, nil
}

func (c *GRPCClient) callWithRetry(ctx context.Context, ids []string) (*catalogv1.ValidateProductsResponse, int, error) {
	req := &catalogv1.ValidateProductsRequest{IDs: ids}
	delay := c.retry.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, attempt - 1, err
		}
		if err := c.breaker.Allow(); err != nil {
			return nil, attempt - 1, err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.ValidateProducts(attemptCtx, req)
		cancel()
		if err == nil {
			c.breaker.RecordSuccess()
			return resp, attempt, nil
		}
		lastErr = err

		if !isRetryable(err) {
			// Каталог ответил, пусть и отказом: для breaker это живой сервис.
			if ctx.Err() == nil {
				c.breaker.RecordSuccess()
			}
			return nil, attempt, err
		}
		c.breaker.RecordFailure()

		if attempt == c.retry.MaxAttempts {
			break
		}

		c.logger.WithError(err).WithFields(log.Fields{
			"attempt": attempt,
			"delay":   delay,
		}).Debug("catalog call failed, retrying")

		if err := c.sleep(ctx, delay); err != nil {
			return nil, attempt, errors.Join(lastErr, err)
		}
		delay = c.retry.nextDelay(delay)
	}

	return nil, c.retry.MaxAttempts, fmt.Errorf("catalog call failed after %d attempts: %w", c.retry.MaxAttempts, lastErr)
}

func (c *GRPCClient) observe(result string, started time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveCatalogCall(result, time.Since(started))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}

var _ domain.CatalogClient = (*GRPCClient)(nil)
