package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/orders-service/internal/domain"
)

// Envelope: формат записи в topic событий заказов.
type Envelope struct {
	ID            string          `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	PublishedAt   time.Time       `json:"published_at"`
}

// OutboxTopicPublisher публикует outbox-сообщения в заданный Kafka topic.
type OutboxTopicPublisher struct {
	producer *Producer
	topic    string
}

// NewOutboxPublisher создаёт Kafka-паблишер для transactional outbox.
// Пустой topic означает TopicOrderEvents.
func NewOutboxPublisher(producer *Producer, topic string) *OutboxTopicPublisher {
	if topic == "" {
		topic = TopicOrderEvents
	}
	return &OutboxTopicPublisher{
		producer: producer,
		topic:    topic,
	}
}

// Topic возвращает topic, в который пишет паблишер.
func (p *OutboxTopicPublisher) Topic() string {
	return p.topic
}

// Publish отправляет событие с ключом order id, чтобы события одного заказа шли в одну партицию.
// Для событий заказа статус из payload дублируется в headers.
func (p *OutboxTopicPublisher) Publish(ctx context.Context, event domain.OutboxMessage) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka outbox publisher is not initialized")
	}

	key := event.AggregateID
	if key == "" {
		key = event.ID
	}

	headers := map[string]string{
		HeaderEventType:     event.EventType,
		HeaderOutboxID:      event.ID,
		HeaderAggregateType: event.AggregateType,
	}
	if orderEvent, ok := domain.DecodeOrderEvent(event); ok && orderEvent.Status != "" {
		if orderEvent.OrderID != "" && event.AggregateID == "" {
			key = orderEvent.OrderID
		}
		headers[HeaderOrderStatus] = orderEvent.Status
		if orderEvent.PreviousStatus != "" {
			headers[HeaderPreviousStatus] = orderEvent.PreviousStatus
		}
	}

	return p.producer.PublishEvent(ctx, Message{
		Topic: p.topic,
		Key:   key,
		Value: Envelope{
			ID:            event.ID,
			AggregateType: event.AggregateType,
			AggregateID:   event.AggregateID,
			EventType:     event.EventType,
			Payload:       json.RawMessage(event.Payload),
			PublishedAt:   time.Now().UTC(),
		},
		Headers: headers,
	})
}

var _ domain.OutboxPublisher = (*OutboxTopicPublisher)(nil)
