package outbox

import (
	"time"
)

// Message is an order event waiting to be published to RabbitMQ.
// Events land here first and are drained by the outbox worker, so a
// broker outage never loses an event or fails the originating request.
type Message struct {
	ID           int64
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}

// NewMessage creates a pending outbox message due for immediate delivery.
func NewMessage(queue, exchange, routingKey string, payload []byte, maxRetries int) Message {
	now := time.Now()

	return Message{
		QueueName:    queue,
		ExchangeName: exchange,
		RoutingKey:   routingKey,
		Payload:      payload,
		ContentType:  "application/json",
		MaxRetries:   maxRetries,
		CreatedAt:    now,
		UpdatedAt:    now,
		NextRetryAt:  now,
	}
}
