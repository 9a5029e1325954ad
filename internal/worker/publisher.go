package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Publisher delivers status updates to whoever tracks a request.
type Publisher interface {
	Publish(ctx context.Context, update StatusUpdate) error
}

// AMQPPublisher publishes updates to a topic exchange with routing key
// "request.<id>".
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string
}

// NewAMQPPublisher declares the update exchange on conn.
func NewAMQPPublisher(conn *amqp.Connection, exchange string) (*AMQPPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, exchange: exchange}, nil
}

// RoutingKey returns the routing key updates for requestID are published under.
func RoutingKey(requestID string) string {
	return "request." + requestID
}

// Publish implements Publisher.
func (p *AMQPPublisher) Publish(_ context.Context, update StatusUpdate) error {
	if update.Timestamp.IsZero() {
		update.Timestamp = time.Now().UTC()
	}
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.Publish(p.exchange, RoutingKey(update.RequestID), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    update.Timestamp,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish update for %s: %w", update.RequestID, err)
	}
	return nil
}
