package queue

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Queue names.  Both live on the default exchange with the routing key
// equal to the queue name.
const (
	seatEventsQueue       = "seat.events"
	bookingConfirmedQueue = "booking.confirmed"
)

// Publisher holds one broker connection and channel for the process
// lifetime.  All publish methods are fire-and-forget: errors are
// logged, never propagated, so a broker outage cannot fail a
// reservation or booking request.  A nil Publisher is valid and
// publishes nothing, which is how the service runs when no broker is
// configured.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	mu   sync.Mutex
}

// NewPublisher dials the broker and declares both queues.  The
// seat.events queue is transient; booking.confirmed is durable and its
// messages are marked persistent so confirmations survive a broker
// restart.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(seatEventsQueue, false, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(bookingConfirmedQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch}, nil
}

// Close releases the channel and the connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	_ = p.ch.Close()
	_ = p.conn.Close()
}

// SeatEvent publishes a seat state notification.
func (p *Publisher) SeatEvent(ctx context.Context, ev SeatStateEvent) {
	if ev.At == "" {
		ev.At = time.Now().UTC().Format(time.RFC3339)
	}
	p.publish(ctx, seatEventsQueue, false, ev)
}

// BookingConfirmed publishes a confirmation event with persistent
// delivery.
func (p *Publisher) BookingConfirmed(ctx context.Context, ev BookingConfirmedEvent) {
	p.publish(ctx, bookingConfirmedQueue, true, ev)
}

func (p *Publisher) publish(ctx context.Context, queueName string, persistent bool, payload interface{}) {
	if p == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return
	}
	mode := amqp.Transient
	if persistent {
		mode = amqp.Persistent
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: mode,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	// The amqp channel is not safe for concurrent publishes.
	p.mu.Lock()
	err = p.ch.PublishWithContext(ctx, "", queueName, false, false, pub)
	p.mu.Unlock()
	if err != nil {
		log.Printf("rabbitmq: publish to %s failed: %v", queueName, err)
	}
}
