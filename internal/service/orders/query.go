package orders

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders-service/internal/domain"
)

// Query отвечает за чтение заказов.
type Query struct {
	store  domain.OrderStore
	logger *log.Entry
}

// NewQuery создаёт сервис чтения заказов.
func NewQuery(store domain.OrderStore, options ...Option) *Query {
	opts := buildOptions("order-query", options)
	return &Query{store: store, logger: opts.Logger}
}

// FindAll возвращает страницу заголовков заказов и метаданные пагинации.
// Страница за пределами выборки возвращает пустой Data с корректными метаданными.
func (q *Query) FindAll(ctx context.Context, query domain.ListQuery) (domain.OrderPage, error) {
	if err := query.Validate(); err != nil {
		return domain.OrderPage{}, err
	}

	filter := domain.OrderFilter{Status: query.Status}
	total, err := q.store.Count(ctx, filter)
	if err != nil {
		return domain.OrderPage{}, storeError("count orders", err)
	}

	page := domain.OrderPage{
		Data: []domain.Order{},
		Meta: domain.PageMeta{
			Total:    total,
			Page:     query.Page,
			LastPage: domain.LastPage(total, query.Limit),
		},
	}
	if total == 0 || query.Offset() >= total {
		return page, nil
	}

	orders, err := q.store.List(ctx, filter, query.Offset(), query.Limit)
	if err != nil {
		return domain.OrderPage{}, storeError("list orders", err)
	}
	page.Data = orders

	q.logger.WithFields(log.Fields{
		"status": query.Status,
		"page":   query.Page,
		"limit":  query.Limit,
		"total":  total,
	}).Debug("orders listed")

	return page, nil
}

// FindOne возвращает заказ с позициями или domain.ErrOrderNotFound.
func (q *Query) FindOne(ctx context.Context, id string) (domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Order{}, domain.ErrOrderIDRequired
	}

	order, err := q.store.Get(ctx, id)
	if err != nil {
		return domain.Order{}, storeError("get order", err)
	}
	return order, nil
}
