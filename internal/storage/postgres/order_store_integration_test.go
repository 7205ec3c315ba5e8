package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orders-service/internal/catalog"
	"github.com/vladislavdragonenkov/orders-service/internal/domain"
	"github.com/vladislavdragonenkov/orders-service/internal/service/orders"
)

func integrationOrder(createdAt time.Time) domain.Order {
	id := uuid.NewString()
	return domain.Order{
		ID:          id,
		Status:      domain.OrderStatusPending,
		TotalAmount: decimal.RequireFromString("20.00"),
		TotalItems:  3,
		Items: []domain.OrderItem{
			{ID: uuid.NewString(), ProductID: "A", Quantity: 2, Price: decimal.RequireFromString("5.00"), Position: 0, CreatedAt: createdAt},
			{ID: uuid.NewString(), ProductID: "B", Quantity: 1, Price: decimal.RequireFromString("10.00"), Position: 1, CreatedAt: createdAt},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestOrderStore_PostgresCreateGet(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderStore(store)
	outbox := NewOutboxRepository(store)
	ctx := context.Background()

	order := integrationOrder(time.Now().UTC().Truncate(time.Microsecond))
	event, err := domain.NewOrderCreatedMessage(order)
	if err != nil {
		t.Fatalf("build event: %v", err)
	}

	if err := repo.Create(ctx, order, []domain.OutboxMessage{event}); err != nil {
		t.Fatalf("create: %v", err)
	}

	stored, err := repo.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.TotalAmount.Equal(order.TotalAmount) || stored.TotalItems != 3 {
		t.Fatalf("unexpected totals: %s / %d", stored.TotalAmount, stored.TotalItems)
	}
	if len(stored.Items) != 2 || stored.Items[0].ProductID != "A" || !stored.Items[1].Price.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected items: %+v", stored.Items)
	}
	if errs := stored.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("stored order violates invariants: %v", errs)
	}

	pending, err := outbox.PullPending(ctx, 10)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	if len(pending) != 1 || pending[0].AggregateID != order.ID {
		t.Fatalf("expected one order.created event, got %+v", pending)
	}

	if err := repo.Create(ctx, order, nil); !errors.Is(err, domain.ErrOrderAlreadyExists) {
		t.Fatalf("expected ErrOrderAlreadyExists, got %v", err)
	}
	if _, err := repo.Get(ctx, uuid.NewString()); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderStore_PostgresKeepsPriceSnapshot(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orderStore := NewOrderStore(store)
	ctx := context.Background()

	products := catalog.NewStaticCatalog(domain.Product{ID: "A", Name: "Apple", Price: decimal.RequireFromString("5.00")})
	creator := orders.NewOrchestrator(orderStore, products)
	query := orders.NewQuery(orderStore)

	created, err := creator.Create(ctx, []domain.RequestedItem{{ProductID: "A", Quantity: 2}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	products.Put(domain.Product{ID: "A", Name: "Apple", Price: decimal.RequireFromString("99.00")})

	stored, err := query.FindOne(ctx, created.ID)
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if len(stored.Items) != 1 || !stored.Items[0].Price.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected snapshot price 5, got %+v", stored.Items)
	}
	if !stored.TotalAmount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected total 10, got %s", stored.TotalAmount)
	}
}

func TestOrderStore_PostgresCreateRollsBackOnItemFailure(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderStore(store)
	ctx := context.Background()

	order := integrationOrder(time.Now().UTC())
	// Повторный ID позиции нарушает primary key на второй вставке.
	order.Items[1].ID = order.Items[0].ID

	if err := repo.Create(ctx, order, nil); err == nil {
		t.Fatal("expected create error")
	}

	total, err := repo.Count(ctx, domain.OrderFilter{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected rollback to leave no orders, got %d", total)
	}
}

func TestOrderStore_PostgresCountListAndUpdate(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderStore(store)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		order := integrationOrder(base.Add(time.Duration(i) * time.Minute))
		if err := repo.Create(ctx, order, nil); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		ids = append(ids, order.ID)
	}

	total, err := repo.Count(ctx, domain.OrderFilter{})
	if err != nil || total != 25 {
		t.Fatalf("count: %d, %v", total, err)
	}

	page, err := repo.List(ctx, domain.OrderFilter{}, 10, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 10 || page[0].ID != ids[10] || page[9].ID != ids[19] {
		t.Fatalf("unexpected page 2: %s", fmt.Sprint(len(page)))
	}

	updatedAt := base.Add(time.Hour)
	updated, err := repo.UpdateStatus(ctx, ids[3], domain.OrderStatusPaid, updatedAt, nil)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.OrderStatusPaid || !updated.UpdatedAt.Equal(updatedAt) || len(updated.Items) != 2 {
		t.Fatalf("unexpected updated order: %+v", updated)
	}

	paid, err := repo.Count(ctx, domain.OrderFilter{Status: domain.OrderStatusPaid})
	if err != nil || paid != 1 {
		t.Fatalf("paid count: %d, %v", paid, err)
	}
	paidPage, err := repo.List(ctx, domain.OrderFilter{Status: domain.OrderStatusPaid}, 0, 10)
	if err != nil || len(paidPage) != 1 || paidPage[0].ID != ids[3] {
		t.Fatalf("unexpected paid page: %+v, %v", paidPage, err)
	}

	if _, err := repo.UpdateStatus(ctx, uuid.NewString(), domain.OrderStatusPaid, updatedAt, nil); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
