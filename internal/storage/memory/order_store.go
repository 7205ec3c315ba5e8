package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/orders-service/internal/domain"
)

// OrderStore: in-memory реализация domain.OrderStore для локальной разработки и тестов.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
	outbox *OutboxRepository
}

// NewOrderStore возвращает in-memory хранилище. Если outbox не nil,
// события пишутся в него под той же блокировкой, что и заказ.
func NewOrderStore(outbox *OutboxRepository) *OrderStore {
	return &OrderStore{
		orders: make(map[string]domain.Order),
		outbox: outbox,
	}
}

// Create сохраняет новый заказ, если ID ещё не занят.
func (s *OrderStore) Create(ctx context.Context, order domain.Order, events []domain.OutboxMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return domain.ErrOrderAlreadyExists
	}
	if err := s.enqueue(ctx, events); err != nil {
		return err
	}

	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	stored := order.Clone()
	for i := range stored.Items {
		stored.Items[i].Name = ""
	}
	s.orders[order.ID] = stored
	return nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (s *OrderStore) Get(ctx context.Context, id string) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order.Clone(), nil
}

// Count возвращает число заказов под фильтром.
func (s *OrderStore) Count(ctx context.Context, filter domain.OrderFilter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.filtered(filter)), nil
}

// List возвращает страницу заголовков заказов в порядке created_at, id.
func (s *OrderStore) List(ctx context.Context, filter domain.OrderFilter, offset, limit int) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := s.filtered(filter)
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	if offset >= len(result) {
		return []domain.Order{}, nil
	}
	result = result[offset:]
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// UpdateStatus перезаписывает статус заказа и пишет события outbox.
func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, updatedAt time.Time, events []domain.OutboxMessage) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err := s.enqueue(ctx, events); err != nil {
		return domain.Order{}, err
	}

	order.Status = status
	order.UpdatedAt = updatedAt
	s.orders[id] = order
	return order.Clone(), nil
}

func (s *OrderStore) filtered(filter domain.OrderFilter) []domain.Order {
	result := make([]domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		header := order
		header.Items = nil
		result = append(result, header)
	}
	return result
}

func (s *OrderStore) enqueue(ctx context.Context, events []domain.OutboxMessage) error {
	if s.outbox == nil || len(events) == 0 {
		return nil
	}
	_, err := s.outbox.Enqueue(ctx, events...)
	return err
}

var _ domain.OrderStore = (*OrderStore)(nil)
