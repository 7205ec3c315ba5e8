package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending — начальный статус только что созданного заказа.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusPaid — заказ оплачен.
	OrderStatusPaid OrderStatus = "paid"
	// OrderStatusDelivered — заказ доставлен клиенту.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled — заказ отменён.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses возвращает все поддерживаемые статусы в каноническом порядке.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusPaid,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// ParseOrderStatus разбирает статус без учёта регистра и пробелов по краям.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", ErrStatusInvalid
	}
	return status, nil
}

// OrderItem представляет одну позицию заказа.
type OrderItem struct {
	// ID позиции нужен для однозначной идентификации и аудита.
	ID string
	// ProductID — внешний идентификатор товара из каталога.
	ProductID string
	// Name заполняется из ответа каталога и не хранится.
	Name string
	// Quantity — количество единиц товара.
	Quantity int32
	// Price — снимок цены за единицу на момент создания заказа.
	Price decimal.Decimal
	// Position — порядковый номер позиции в исходном запросе.
	Position  int
	CreatedAt time.Time
}

// Subtotal возвращает Price × Quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt32(i.Quantity))
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	ID          string
	TotalAmount decimal.Decimal
	TotalItems  int64
	Status      OrderStatus
	Items       []OrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone возвращает копию заказа с собственным срезом позиций.
func (o Order) Clone() Order {
	if o.Items != nil {
		items := make([]OrderItem, len(o.Items))
		copy(items, o.Items)
		o.Items = items
	}
	return o
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.ID == "" {
		errs = append(errs, ErrOrderIDRequired)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrStatusInvalid)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}

	// Итоги заказа должны совпадать с суммой по позициям.
	amount := decimal.Zero
	var count int64
	for _, item := range o.Items {
		if item.ProductID == "" {
			errs = append(errs, ErrProductIDRequired)
		}
		if item.Quantity <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.Price.IsNegative() {
			errs = append(errs, ErrItemPriceInvalid)
		}
		amount = amount.Add(item.Subtotal())
		count += int64(item.Quantity)
	}
	if !amount.Equal(o.TotalAmount) {
		errs = append(errs, ErrAmountMismatch)
	}
	if count != o.TotalItems {
		errs = append(errs, ErrTotalItemsMismatch)
	}

	return errs
}

// RequestedItem — позиция, которую клиент просит добавить в заказ.
type RequestedItem struct {
	ProductID string
	Quantity  int32
}

// ValidateRequestedItems проверяет входной список позиций до обращения к каталогу.
func ValidateRequestedItems(items []RequestedItem) error {
	if len(items) == 0 {
		return ErrItemsRequired
	}
	for _, item := range items {
		if strings.TrimSpace(item.ProductID) == "" {
			return ErrProductIDRequired
		}
		if item.Quantity <= 0 {
			return ErrItemQtyInvalid
		}
	}
	return nil
}

// DistinctProductIDs возвращает уникальные идентификаторы товаров в порядке первого появления.
func DistinctProductIDs(items []RequestedItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// Product — запись каталога с актуальной ценой.
type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal
}
