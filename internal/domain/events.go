package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AggregateTypeOrder: тип агрегата для событий outbox.
const AggregateTypeOrder = "order"

const (
	// EventTypeOrderCreated публикуется после создания заказа.
	EventTypeOrderCreated = "order.created"
	// EventTypeOrderStatusChanged публикуется после смены статуса.
	EventTypeOrderStatusChanged = "order.status_changed"
)

// OrderEventItem: позиция заказа в событии.
type OrderEventItem struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
	Price     string `json:"price"`
}

// OrderEvent: полезная нагрузка событий заказа.
type OrderEvent struct {
	OrderID        string           `json:"order_id"`
	Status         string           `json:"status"`
	PreviousStatus string           `json:"previous_status,omitempty"`
	TotalAmount    string           `json:"total_amount"`
	TotalItems     int64            `json:"total_items"`
	Items          []OrderEventItem `json:"items,omitempty"`
	OccurredAt     time.Time        `json:"occurred_at"`
}

// NewOrderCreatedMessage собирает outbox-сообщение о создании заказа.
func NewOrderCreatedMessage(order Order) (OutboxMessage, error) {
	items := make([]OrderEventItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderEventItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.String(),
		})
	}
	return newOrderMessage(EventTypeOrderCreated, OrderEvent{
		OrderID:     order.ID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount.String(),
		TotalItems:  order.TotalItems,
		Items:       items,
		OccurredAt:  order.CreatedAt,
	})
}

// NewOrderStatusChangedMessage собирает outbox-сообщение о смене статуса.
func NewOrderStatusChangedMessage(order Order, previous OrderStatus) (OutboxMessage, error) {
	return newOrderMessage(EventTypeOrderStatusChanged, OrderEvent{
		OrderID:        order.ID,
		Status:         string(order.Status),
		PreviousStatus: string(previous),
		TotalAmount:    order.TotalAmount.String(),
		TotalItems:     order.TotalItems,
		OccurredAt:     order.UpdatedAt,
	})
}

func newOrderMessage(eventType string, event OrderEvent) (OutboxMessage, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return OutboxMessage{}, err
	}
	return OutboxMessage{
		ID:            uuid.NewString(),
		AggregateType: AggregateTypeOrder,
		AggregateID:   event.OrderID,
		EventType:     eventType,
		Payload:       payload,
	}, nil
}

// DecodeOrderEvent разбирает payload outbox-сообщения заказа.
// false означает чужой агрегат или нечитаемый payload.
func DecodeOrderEvent(msg OutboxMessage) (OrderEvent, bool) {
	if msg.AggregateType != AggregateTypeOrder || len(msg.Payload) == 0 {
		return OrderEvent{}, false
	}
	var event OrderEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return OrderEvent{}, false
	}
	return event, true
}
