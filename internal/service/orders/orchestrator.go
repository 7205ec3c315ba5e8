package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vladislavdragonenkov/orders-service/internal/domain"
	"github.com/vladislavdragonenkov/orders-service/internal/metrics"
	"github.com/vladislavdragonenkov/orders-service/internal/pricing"
)

// Orchestrator создаёт заказы: каталог → расчёт итогов → атомарная запись.
type Orchestrator struct {
	store   domain.OrderStore
	catalog domain.CatalogClient
	logger  *log.Entry
	metrics *metrics.OrderMetrics
	tracer  trace.Tracer
	now     func() time.Time
}

// NewOrchestrator создаёт оркестратор создания заказов.
func NewOrchestrator(store domain.OrderStore, catalog domain.CatalogClient, options ...Option) *Orchestrator {
	opts := buildOptions("order-orchestrator", options)
	return &Orchestrator{
		store:   store,
		catalog: catalog,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		tracer:  opts.Tracer,
		now:     opts.Now,
	}
}

// Create проверяет позиции, получает цены из каталога и сохраняет заказ вместе с событием order.created.
// При любой ошибке до записи в хранилище ничего не сохраняется.
func (o *Orchestrator) Create(ctx context.Context, items []domain.RequestedItem) (domain.Order, error) {
	started := time.Now()
	if o.metrics != nil {
		o.metrics.RecordCreateStarted()
		defer func() { o.metrics.RecordCreateFinished(time.Since(started)) }()
	}

	ctx, span := o.tracer.Start(ctx, "orders.Create", trace.WithAttributes(
		attribute.Int("order.requested_items", len(items)),
	))
	defer span.End()

	order, err := o.create(ctx, items)
	if err != nil {
		reason := failureReason(err)
		if o.metrics != nil {
			o.metrics.RecordCreateFailure(reason)
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, reason)

		entry := o.logger.WithError(err).WithField("reason", reason)
		if reason == metrics.ReasonValidation || reason == metrics.ReasonProductNotFound {
			entry.Info("order rejected")
		} else {
			entry.Warn("order creation failed")
		}
		return domain.Order{}, err
	}

	if o.metrics != nil {
		o.metrics.RecordOrderCreated()
	}
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("order.total_amount", order.TotalAmount.String()),
	)
	o.logger.WithFields(log.Fields{
		"order_id":     order.ID,
		"total_amount": order.TotalAmount.String(),
		"total_items":  order.TotalItems,
	}).Info("order created")

	return order, nil
}

func (o *Orchestrator) create(ctx context.Context, items []domain.RequestedItem) (domain.Order, error) {
	if err := domain.ValidateRequestedItems(items); err != nil {
		return domain.Order{}, err
	}

	catalog, err := o.catalog.Resolve(ctx, domain.DistinctProductIDs(items))
	if err != nil {
		if !errors.Is(err, domain.ErrCatalogUnavailable) {
			err = errors.Join(domain.ErrCatalogUnavailable, err)
		}
		return domain.Order{}, fmt.Errorf("resolve products: %w", err)
	}

	priced, err := pricing.Aggregate(items, catalog)
	if err != nil {
		return domain.Order{}, err
	}

	order := o.buildOrder(priced)
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, fmt.Errorf("order invariants violated: %w", errors.Join(errs...))
	}

	event, err := domain.NewOrderCreatedMessage(order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("build order.created event: %w", err)
	}

	if err := o.store.Create(ctx, order, []domain.OutboxMessage{event}); err != nil {
		return domain.Order{}, storeError("create order", err)
	}

	return order, nil
}

func (o *Orchestrator) buildOrder(priced pricing.Result) domain.Order {
	now := o.now().UTC()

	items := make([]domain.OrderItem, 0, len(priced.Lines))
	for _, line := range priced.Lines {
		items = append(items, domain.OrderItem{
			ID:        uuid.NewString(),
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
			Position:  line.Position,
			CreatedAt: now,
		})
	}

	return domain.Order{
		ID:          uuid.NewString(),
		TotalAmount: priced.TotalAmount,
		TotalItems:  priced.TotalItems,
		Status:      domain.OrderStatusPending,
		Items:       items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func failureReason(err error) string {
	switch {
	case domain.IsValidation(err):
		return metrics.ReasonValidation
	case errors.Is(err, domain.ErrProductNotFound):
		return metrics.ReasonProductNotFound
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return metrics.ReasonCatalogUnavailable
	case errors.Is(err, domain.ErrStoreFailure), errors.Is(err, domain.ErrOrderAlreadyExists):
		return metrics.ReasonStore
	default:
		return metrics.ReasonInternal
	}
}
