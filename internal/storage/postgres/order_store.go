package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/orders-service/internal/domain"
)

const orderColumns = `id, total_amount, total_items, status, created_at, updated_at`

type orderStore struct {
	store *Store
}

// NewOrderStore создаёт PostgreSQL-реализацию OrderStore.
// Заказ, позиции и события outbox пишутся в одной транзакции.
func NewOrderStore(store *Store) domain.OrderStore {
	return &orderStore{store: store}
}

func (r *orderStore) Create(ctx context.Context, order domain.Order, events []domain.OutboxMessage) error {
	return r.store.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO orders (`+orderColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6)
		`,
			order.ID, order.TotalAmount, order.TotalItems, string(order.Status),
			order.CreatedAt, order.UpdatedAt,
		); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrOrderAlreadyExists
			}
			return fmt.Errorf("insert order: %w", err)
		}

		for _, item := range order.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (
					id, order_id, product_id, quantity, price, position, created_at
				) VALUES ($1,$2,$3,$4,$5,$6,$7)
			`,
				item.ID, order.ID, item.ProductID, item.Quantity, item.Price,
				item.Position, item.CreatedAt,
			); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}

		return enqueueOutbox(ctx, tx, events, order.CreatedAt)
	})
}

func (r *orderStore) Get(ctx context.Context, id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	db := r.store.DB()
	order, err := scanOrder(db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id))
	if err != nil {
		return domain.Order{}, err
	}

	items, err := loadItems(ctx, db, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items

	return order, nil
}

func (r *orderStore) Count(ctx context.Context, filter domain.OrderFilter) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var total int
	if err := r.store.DB().QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM orders
		WHERE ($1::text = '' OR status = $1::text)
	`, string(filter.Status)).Scan(&total); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return total, nil
}

func (r *orderStore) List(ctx context.Context, filter domain.OrderFilter, offset, limit int) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.store.DB().QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE ($1::text = '' OR status = $1::text)
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`, string(filter.Status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, limit)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

func (r *orderStore) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, updatedAt time.Time, events []domain.OutboxMessage) (domain.Order, error) {
	var updated domain.Order

	err := r.store.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		order, err := scanOrder(tx.QueryRowContext(ctx, `
			UPDATE orders
			SET status = $2,
			    updated_at = $3
			WHERE id = $1
			RETURNING `+orderColumns+`
		`, id, string(status), updatedAt))
		if err != nil {
			return err
		}

		items, err := loadItems(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		order.Items = items

		if err := enqueueOutbox(ctx, tx, events, updatedAt); err != nil {
			return err
		}

		updated = order
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return updated, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order  domain.Order
		status string
	)
	if err := row.Scan(
		&order.ID, &order.TotalAmount, &order.TotalItems, &status,
		&order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("scan order: %w", err)
	}
	order.Status = domain.OrderStatus(status)
	order.CreatedAt = order.CreatedAt.UTC()
	order.UpdatedAt = order.UpdatedAt.UTC()
	return order, nil
}

func loadItems(ctx context.Context, q querier, orderID string) ([]domain.OrderItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, product_id, quantity, price, position, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.Price, &item.Position, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		item.CreatedAt = item.CreatedAt.UTC()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderStore = (*orderStore)(nil)
