// Package kafka публикует события заказов в Kafka.
package kafka

// Topics для Kafka
const (
	TopicOrderEvents     = "orders.events"
	TopicDeadLetterQueue = "orders.dlq" // Dead Letter Queue для событий, исчерпавших попытки
)

// Kafka headers, которыми сопровождается каждое событие.
const (
	HeaderEventType     = "x-event-type"
	HeaderOutboxID      = "x-outbox-id"
	HeaderAggregateType = "x-aggregate-type"
)

// Headers событий заказа: consumer фильтрует по статусу, не разбирая payload.
const (
	HeaderOrderStatus    = "x-order-status"
	HeaderPreviousStatus = "x-order-previous-status"
)
