// Package ordersv1 описывает gRPC-контракт сервиса заказов.
package ordersv1

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem: позиция заказа в ответе.
type OrderItem struct {
	ID        string          `json:"id,omitempty"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name,omitempty"`
	Quantity  int32           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Order: представление заказа.
type Order struct {
	ID          string          `json:"id"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalItems  int64           `json:"totalItems"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Items       []OrderItem     `json:"items,omitempty"`
}

// CreateOrderItem: запрошенная позиция.
type CreateOrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int32  `json:"quantity"`
}

// CreateOrderRequest: запрос на создание заказа.
type CreateOrderRequest struct {
	Items []CreateOrderItem `json:"items"`
}

// FindAllOrdersRequest: запрос страницы заказов. Нулевые page/limit заменяются значениями по умолчанию.
type FindAllOrdersRequest struct {
	Status string `json:"status,omitempty"`
	Page   int32  `json:"page,omitempty"`
	Limit  int32  `json:"limit,omitempty"`
}

// PageMeta: метаданные страницы.
type PageMeta struct {
	Total    int64 `json:"total"`
	Page     int32 `json:"page"`
	LastPage int32 `json:"lastPage"`
}

// FindAllOrdersResponse: страница заказов.
type FindAllOrdersResponse struct {
	Data []Order  `json:"data"`
	Meta PageMeta `json:"meta"`
}

// FindOneOrderRequest: запрос заказа по ID.
type FindOneOrderRequest struct {
	ID string `json:"id"`
}

// ChangeOrderStatusRequest: запрос смены статуса.
type ChangeOrderStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
