// Package kafka publishes integration events to the message broker. Events
// go out after the owning transaction commits; consumers react to order
// lifecycle changes and verification decisions without coupling to this
// service's database.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"dispatch/internal/core/ports"

	"github.com/IBM/sarama"
)

// orderStatusChangedPayload is the wire format for order status events.
type orderStatusChangedPayload struct {
	OrderID    string    `json:"order_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	EventTime  time.Time `json:"event_time"`
}

// verificationDecidedPayload is the wire format for verification decision
// events.
type verificationDecidedPayload struct {
	RequestID string    `json:"request_id"`
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	EventTime time.Time `json:"event_time"`
}

// Publisher implements OrderEventPublisher on top of a sarama synchronous
// producer. Messages are keyed by order id so all events for one order land
// on the same partition in order.
type Publisher struct {
	producer          sarama.SyncProducer
	orderTopic        string
	verificationTopic string
	logger            *slog.Logger
}

// NewPublisher connects a synchronous producer to the given brokers.
// The producer waits for acknowledgment from all in-sync replicas.
func NewPublisher(brokers []string, orderTopic, verificationTopic string, logger *slog.Logger) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		producer:          producer,
		orderTopic:        orderTopic,
		verificationTopic: verificationTopic,
		logger:            logger.With("component", "kafka-publisher"),
	}, nil
}

// PublishOrderStatusChanged sends an order status event to the order topic.
func (p *Publisher) PublishOrderStatusChanged(ctx context.Context, event ports.OrderStatusChangedEvent) error {
	payload := orderStatusChangedPayload{
		OrderID:    event.OrderID.String(),
		FromStatus: event.FromStatus.String(),
		ToStatus:   event.ToStatus.String(),
		EventTime:  time.Now(),
	}

	return p.send(ctx, p.orderTopic, payload.OrderID, payload)
}

// PublishVerificationDecided sends a verification decision event to the
// verification topic.
func (p *Publisher) PublishVerificationDecided(ctx context.Context, event ports.VerificationDecidedEvent) error {
	payload := verificationDecidedPayload{
		RequestID: event.RequestID.String(),
		OrderID:   event.OrderID.String(),
		Status:    string(event.Status),
		Reason:    event.Reason,
		EventTime: time.Now(),
	}

	return p.send(ctx, p.verificationTopic, payload.OrderID, payload)
}

// Close shuts down the underlying producer.
func (p *Publisher) Close() error {
	return p.producer.Close()
}

// send marshals and delivers one message. The sarama sync producer has no
// context plumbing, so the context is only checked before the call.
func (p *Publisher) send(ctx context.Context, topic string, key string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return err
	}

	p.logger.Info("event published", "topic", topic, "partition", partition, "offset", offset, "key", key)
	return nil
}
