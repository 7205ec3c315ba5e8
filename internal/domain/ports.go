package domain

import (
	"context"
	"time"
)

// CatalogClient описывает синхронный вызов внешнего каталога товаров.
type CatalogClient interface {
	// Resolve возвращает записи каталога по известным ему идентификаторам.
	// Неизвестные идентификаторы в результат не попадают.
	Resolve(ctx context.Context, productIDs []string) (map[string]Product, error)
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(ctx context.Context, event OutboxMessage) error
}

// OutboxRepository читает накопленные события для последующей публикации.
// Запись событий выполняет OrderStore в той же транзакции, что и заказ.
type OutboxRepository interface {
	PullPending(ctx context.Context, limit int) ([]OutboxMessage, error)
	Stats(ctx context.Context) (OutboxStats, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
