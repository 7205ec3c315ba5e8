package orders

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders-service/internal/domain"
	"github.com/vladislavdragonenkov/orders-service/internal/metrics"
)

// StatusMachine меняет статус заказа. Переходы не ограничены: любой статус можно сменить на любой.
type StatusMachine struct {
	store   domain.OrderStore
	query   *Query
	logger  *log.Entry
	metrics *metrics.OrderMetrics
	now     func() time.Time
}

// NewStatusMachine создаёт сервис смены статуса. Существование заказа проверяется через query.
func NewStatusMachine(store domain.OrderStore, query *Query, options ...Option) *StatusMachine {
	opts := buildOptions("order-status", options)
	return &StatusMachine{
		store:   store,
		query:   query,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		now:     opts.Now,
	}
}

// ChangeStatus перезаписывает статус заказа и пишет событие order.status_changed.
// Повторная установка текущего статуса ничего не меняет и возвращает заказ.
func (m *StatusMachine) ChangeStatus(ctx context.Context, id, rawStatus string) (domain.Order, error) {
	status, err := domain.ParseOrderStatus(rawStatus)
	if err != nil {
		return domain.Order{}, err
	}

	current, err := m.query.FindOne(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if current.Status == status {
		return current, nil
	}

	next := current
	next.Status = status
	next.UpdatedAt = m.now().UTC()

	event, err := domain.NewOrderStatusChangedMessage(next, current.Status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("build order.status_changed event: %w", err)
	}

	updated, err := m.store.UpdateStatus(ctx, current.ID, status, next.UpdatedAt, []domain.OutboxMessage{event})
	if err != nil {
		return domain.Order{}, storeError("update order status", err)
	}

	if m.metrics != nil {
		m.metrics.RecordStatusChange(string(status))
	}
	m.logger.WithFields(log.Fields{
		"order_id": updated.ID,
		"from":     current.Status,
		"to":       status,
	}).Info("order status changed")

	return updated, nil
}
