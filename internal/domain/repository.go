package domain

import (
	"context"
	"time"
)

// OrderFilter ограничивает выборку заказов. Пустой Status означает «все статусы».
type OrderFilter struct {
	Status OrderStatus
}

// OrderStore описывает требования к транзакционному хранилищу заказов.
type OrderStore interface {
	// Create атомарно сохраняет заказ, его позиции и события outbox.
	// Возвращает ErrOrderAlreadyExists, если запись с таким ID уже есть.
	Create(ctx context.Context, order Order, events []OutboxMessage) error
	// Get возвращает заказ с позициями или ErrOrderNotFound.
	Get(ctx context.Context, id string) (Order, error)
	// Count возвращает количество заказов под фильтром.
	Count(ctx context.Context, filter OrderFilter) (int, error)
	// List возвращает заголовки заказов (без позиций) в порядке created_at, id.
	List(ctx context.Context, filter OrderFilter, offset, limit int) ([]Order, error)
	// UpdateStatus перезаписывает статус и пишет события outbox в одной транзакции.
	UpdateStatus(ctx context.Context, id string, status OrderStatus, updatedAt time.Time, events []OutboxMessage) (Order, error)
}
